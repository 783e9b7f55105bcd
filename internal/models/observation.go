package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedObservation 遥测负载无法解析
var ErrMalformedObservation = errors.New("malformed observation")

// Observation 某个通道最近一次的观测值。
// 同一通道的新观测整体替换旧观测，不保留历史。
type Observation struct {
	Channel   Channel
	Result    int
	Timestamp time.Time
}

// observationPayload SensorThings 观测 JSON（只取用到的字段）
type observationPayload struct {
	Result         *json.Number `json:"result"`
	PhenomenonTime string       `json:"phenomenonTime"`
}

// ParseObservation 解析遥测负载，要求包含整数 result 和 ISO-8601 phenomenonTime。
// phenomenonTime 为区间（start/end）时取结束时间。
func ParseObservation(payload []byte) (Observation, error) {
	var p observationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrMalformedObservation, err)
	}
	if p.Result == nil {
		return Observation{}, fmt.Errorf("%w: missing result", ErrMalformedObservation)
	}
	result, err := p.Result.Int64()
	if err != nil {
		return Observation{}, fmt.Errorf("%w: result %q is not an integer", ErrMalformedObservation, p.Result.String())
	}
	ts, err := parsePhenomenonTime(p.PhenomenonTime)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrMalformedObservation, err)
	}
	return Observation{Result: int(result), Timestamp: ts}, nil
}

func parsePhenomenonTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("missing phenomenonTime")
	}
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			s = s[i+1:]
			break
		}
	}
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid phenomenonTime %q", s)
	}
	return ts, nil
}
