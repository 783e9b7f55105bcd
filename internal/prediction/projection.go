package prediction

import (
	"errors"
	"signal-observer/internal/models"
	"time"
)

// WindowSize 预测窗口的显示单元数（一个编码或一个分隔符算一个单元）
const WindowSize = 60

// ErrEmptySequence now 或 then 为空，无法投影
var ErrEmptySequence = errors.New("prediction sequence is empty")

// Segment 当前所处的预测段
type Segment int

const (
	SegmentNow Segment = iota
	SegmentThen
)

func (s Segment) String() string {
	if s == SegmentNow {
		return "now"
	}
	return "then"
}

// Unit 预测窗口中的一个显示单元
type Unit struct {
	Code      models.SignalState
	Separator bool
}

// Symbol 单元的显示符号
func (u Unit) Symbol() string {
	if u.Separator {
		return models.SeparatorSymbol
	}
	return u.Code.Symbol()
}

// Projection 某一时刻的预测投影结果
type Projection struct {
	// 自参考时间起经过的整秒数（负值已截断为 0）
	Elapsed int
	Segment Segment
	// 在 Segment 对应序列中的下标
	Index   int
	Current models.SignalState
	// 当前秒的置信度，消息中没有置信度时 ok 为 false
	Quality    int
	HasQuality bool
	Window     []Unit
}

// Project 根据参考时间与当前时间计算当前信号状态和后续窗口。
//
// now 段用尽后进入 then 段，并把 then 当作稳定的循环一直重复下去。
// 超出第二个周期的部分没有真实预测，这只是一个近似。
func Project(p models.Prediction, at time.Time) (Projection, error) {
	if len(p.Now) == 0 || len(p.Then) == 0 {
		return Projection{}, ErrEmptySequence
	}

	elapsed := int(at.Sub(p.ReferenceTime) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	proj := Projection{Elapsed: elapsed}
	var seq, quality []byte
	if elapsed < len(p.Now) {
		proj.Segment = SegmentNow
		proj.Index = elapsed % len(p.Now)
		seq, quality = p.Now, p.NowQuality
	} else {
		proj.Segment = SegmentThen
		proj.Index = (elapsed - len(p.Now)) % len(p.Then)
		seq, quality = p.Then, p.ThenQuality
	}

	proj.Current = models.SignalState(seq[proj.Index])
	if proj.Index < len(quality) {
		proj.Quality = int(quality[proj.Index])
		proj.HasQuality = true
	}
	proj.Window = window(seq[proj.Index:], p.Then, WindowSize)

	return proj, nil
}

// window 拼接 head + 分隔符 + tail，截断到 size 个单元
func window(head, tail []byte, size int) []Unit {
	units := make([]Unit, 0, min(size, len(head)+1+len(tail)))
	for _, code := range head {
		if len(units) == size {
			return units
		}
		units = append(units, Unit{Code: models.SignalState(code)})
	}
	if len(units) == size {
		return units
	}
	units = append(units, Unit{Separator: true})
	for _, code := range tail {
		if len(units) == size {
			return units
		}
		units = append(units, Unit{Code: models.SignalState(code)})
	}
	return units
}
