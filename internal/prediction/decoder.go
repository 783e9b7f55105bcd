package prediction

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"signal-observer/internal/models"
	"time"
)

// ReferenceTimeLayout 预测消息中 referenceTime 的固定格式
const ReferenceTimeLayout = "2006-01-02T15:04:05Z"

// Message 预测主题上的 JSON 消息
type Message struct {
	ThingName     string `json:"thingName,omitempty"`
	Now           string `json:"now"`
	NowQuality    string `json:"nowQuality,omitempty"`
	Then          string `json:"then"`
	ThenQuality   string `json:"thenQuality,omitempty"`
	ReferenceTime string `json:"referenceTime"`
	ProgramID     *int   `json:"programId"`
}

// Decode 解析并解码预测负载。
// 失败时返回的错误都包装了 models.ErrMalformedPrediction。
func Decode(payload []byte) (models.Prediction, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return models.Prediction{}, fmt.Errorf("%w: %v", models.ErrMalformedPrediction, err)
	}
	return DecodeMessage(msg)
}

// DecodeMessage 解码已解析的预测消息：base64 解码后每个字节就是一个信号状态编码，
// 这里不校验 0..6 范围，显示时再做回退。
func DecodeMessage(msg Message) (models.Prediction, error) {
	ref, err := time.Parse(ReferenceTimeLayout, msg.ReferenceTime)
	if err != nil {
		return models.Prediction{}, fmt.Errorf("%w: referenceTime %q does not match %s",
			models.ErrMalformedPrediction, msg.ReferenceTime, ReferenceTimeLayout)
	}

	now, err := decodeSequence("now", msg.Now, true)
	if err != nil {
		return models.Prediction{}, err
	}
	then, err := decodeSequence("then", msg.Then, true)
	if err != nil {
		return models.Prediction{}, err
	}
	nowQuality, err := decodeSequence("nowQuality", msg.NowQuality, false)
	if err != nil {
		return models.Prediction{}, err
	}
	thenQuality, err := decodeSequence("thenQuality", msg.ThenQuality, false)
	if err != nil {
		return models.Prediction{}, err
	}

	return models.Prediction{
		ReferenceTime: ref,
		Now:           now,
		Then:          then,
		NowQuality:    nowQuality,
		ThenQuality:   thenQuality,
		ProgramID:     msg.ProgramID,
	}, nil
}

func decodeSequence(field, encoded string, required bool) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64: %v", models.ErrMalformedPrediction, field, err)
	}
	if required && len(decoded) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", models.ErrMalformedPrediction, field)
	}
	if len(decoded) == 0 {
		return nil, nil
	}
	return decoded, nil
}
