package models

import "fmt"

// SignalState 信号灯状态编码
type SignalState int

const (
	StateDark          SignalState = 0
	StateRed           SignalState = 1
	StateRedAmber      SignalState = 2
	StateGreen         SignalState = 3
	StateAmber         SignalState = 4
	StateFlashingAmber SignalState = 5
	StateFlashingGreen SignalState = 6
)

// SeparatorSymbol 预测窗口中周期边界的显示符号
const SeparatorSymbol = "|"

// Label 完整显示文本，用于当前信号
func (s SignalState) Label() string {
	switch s {
	case StateDark:
		return "⚫️"
	case StateRed:
		return "🔴"
	case StateRedAmber:
		return "🟡"
	case StateGreen:
		return "🟢"
	case StateAmber:
		return "🟡"
	case StateFlashingAmber:
		return "🟡 (Flashing)"
	case StateFlashingGreen:
		return "🟢 (Flashing)"
	default:
		return fmt.Sprintf("⚫️ (Unknown: %d)", int(s))
	}
}

// Symbol 单字符显示，用于预测窗口
func (s SignalState) Symbol() string {
	switch s {
	case StateDark:
		return "⚫"
	case StateRed:
		return "🔴"
	case StateRedAmber, StateAmber:
		return "🟡"
	case StateGreen:
		return "🟢"
	case StateFlashingAmber:
		return "🟨"
	case StateFlashingGreen:
		return "🟩"
	default:
		return "❔"
	}
}
