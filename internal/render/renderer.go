package render

import (
	"fmt"
	"signal-observer/internal/models"
	"signal-observer/internal/prediction"
	"signal-observer/internal/store"
	"strings"
	"time"
)

// NoPrediction 尚未收到（或无法投影）预测时的占位文本
const NoPrediction = "🔮 no prediction"

// ChannelSet 信号组元数据中存在的通道
type ChannelSet interface {
	Has(ch models.Channel) bool
}

// Status 一次渲染的结果
type Status struct {
	Group     string    `json:"group"`
	Line      string    `json:"line"`
	Signal    *int      `json:"signal"`
	Predicted *int      `json:"predicted"`
	ProgramID *int      `json:"program_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Renderer 把存储快照格式化为一行状态
type Renderer struct {
	group    string
	channels ChannelSet
}

// NewRenderer 创建渲染器
func NewRenderer(group string, channels ChannelSet) *Renderer {
	return &Renderer{group: group, channels: channels}
}

// Render 生成状态行。只显示该信号组实际拥有的检测器等通道；
// 从未观测过的通道使用默认值（信号灯熄灭、占用率 0%）。
func (r *Renderer) Render(snap store.Snapshot, now time.Time) Status {
	status := Status{Group: r.group, UpdatedAt: now}
	parts := make([]string, 0, 6)

	if obs, ok := snap.Observation(models.ChannelPrimarySignal); ok {
		code := obs.Result
		status.Signal = &code
		parts = append(parts, fmt.Sprintf("%s (%s)", models.SignalState(code).Label(), age(obs.Timestamp, now)))
	} else {
		parts = append(parts, models.StateDark.Label()+" (n/a)")
	}

	if r.channels.Has(models.ChannelCycleSecond) {
		if obs, ok := snap.Observation(models.ChannelCycleSecond); ok {
			parts = append(parts, "🔄 "+age(obs.Timestamp, now))
		} else {
			parts = append(parts, "🔄 -")
		}
	}
	if r.channels.Has(models.ChannelSignalProgram) {
		if obs, ok := snap.Observation(models.ChannelSignalProgram); ok {
			parts = append(parts, fmt.Sprintf("prog %d", obs.Result))
		} else {
			parts = append(parts, "prog -")
		}
	}
	if r.channels.Has(models.ChannelCarDetector) {
		parts = append(parts, "🚗 "+occupancy(snap, models.ChannelCarDetector))
	}
	if r.channels.Has(models.ChannelBikeDetector) {
		parts = append(parts, "🚲 "+occupancy(snap, models.ChannelBikeDetector))
	}

	parts = append(parts, r.renderPrediction(snap.Prediction, now, &status))

	status.Line = strings.Join(parts, "  ")
	return status
}

func (r *Renderer) renderPrediction(p *models.Prediction, now time.Time, status *Status) string {
	if p == nil {
		return NoPrediction
	}
	proj, err := prediction.Project(*p, now)
	if err != nil {
		return NoPrediction
	}

	current := int(proj.Current)
	status.Predicted = &current
	status.ProgramID = p.ProgramID

	var b strings.Builder
	b.WriteString("🔮 ")
	for _, u := range proj.Window {
		b.WriteString(u.Symbol())
	}
	if p.ProgramID != nil {
		fmt.Fprintf(&b, " P%d", *p.ProgramID)
	} else {
		b.WriteString(" P?")
	}
	if proj.HasQuality {
		fmt.Fprintf(&b, " Q%d%%", proj.Quality)
	}
	return b.String()
}

func occupancy(snap store.Snapshot, ch models.Channel) string {
	obs, ok := snap.Observation(ch)
	if !ok {
		return "0%"
	}
	return fmt.Sprintf("%d%%", obs.Result)
}

// age 观测距今的整秒数
func age(ts, now time.Time) string {
	seconds := int(now.Sub(ts) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%ds", seconds)
}
