package models

import (
	"errors"
	"time"
)

// ErrMalformedPrediction 预测消息无法解码
var ErrMalformedPrediction = errors.New("malformed prediction")

// Prediction 解码后的预测。
// Now 是当前周期剩余部分的逐秒预测，Then 是下一个周期的逐秒预测；
// 两者都用尽后 Then 被视为循环往复。
type Prediction struct {
	ReferenceTime time.Time
	Now           []byte
	Then          []byte
	// 逐秒置信度（0-100），消息中没有时为空
	NowQuality  []byte
	ThenQuality []byte
	// 信号程序编号，消息中为 null 时为 nil
	ProgramID *int
}
