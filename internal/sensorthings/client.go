package sensorthings

import (
	"context"
	"errors"
	"fmt"
	"signal-observer/common/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrNoDatastreams 信号组不存在或没有任何数据流
var ErrNoDatastreams = errors.New("no datastreams found")

// Datastream SensorThings 数据流（只取用到的字段）
type Datastream struct {
	IotID      int    `json:"@iot.id"`
	Name       string `json:"name"`
	Properties struct {
		LayerName string `json:"layerName"`
	} `json:"properties"`
}

// Topic 数据流对应的 MQTT 主题
func (d Datastream) Topic() string {
	return fmt.Sprintf("v1.1/Datastreams(%d)/Observations", d.IotID)
}

// LayerName 数据流的图层名称，即逻辑通道名
func (d Datastream) LayerName() string {
	return d.Properties.LayerName
}

// Thing SensorThings 中的信号组
type Thing struct {
	IotID       int          `json:"@iot.id"`
	Name        string       `json:"name"`
	Datastreams []Datastream `json:"Datastreams"`
}

// thingsResponse Things 查询响应
type thingsResponse struct {
	Value []Thing `json:"value"`
}

// Client SensorThings 元数据客户端
type Client struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient 创建 SensorThings 客户端。
// 启动时只查询一次，不做重试。
func NewClient(cfg *config.HTTPConfig, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		logger:     logger,
	}
}

// FetchDatastreams 按信号组名称查询数据流列表。
// 非 2xx 响应、查无此组、或数据流为空都返回错误。
func (c *Client) FetchDatastreams(ctx context.Context, name string) ([]Datastream, error) {
	c.logger.Info("Fetching datastreams from SensorThings",
		zap.String("name", name),
	)

	var response thingsResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("$filter", fmt.Sprintf("name eq '%s'", name)).
		SetQueryParam("$expand", "Datastreams").
		SetResult(&response).
		Get("Things")
	if err != nil {
		return nil, fmt.Errorf("failed to query SensorThings: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("SensorThings returned status %d", resp.StatusCode())
	}

	if len(response.Value) == 0 {
		return nil, fmt.Errorf("%w: no thing named %q", ErrNoDatastreams, name)
	}
	datastreams := response.Value[0].Datastreams
	if len(datastreams) == 0 {
		return nil, fmt.Errorf("%w: thing %q has no datastreams", ErrNoDatastreams, name)
	}

	c.logger.Info("Fetched datastreams",
		zap.String("name", name),
		zap.Int("datastream_count", len(datastreams)),
	)

	return datastreams, nil
}
