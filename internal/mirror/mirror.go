package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"signal-observer/internal/render"
	"time"
)

// Mirror 把最新状态写到单个键上（每次覆盖，带 TTL）。
// 只保留最后一个值：没有历史，也没有队列。
type Mirror struct {
	writer    StatusWriter
	keyPrefix string
	ttl       time.Duration
}

// NewMirror 创建状态镜像
func NewMirror(writer StatusWriter, keyPrefix string, ttl time.Duration) *Mirror {
	return &Mirror{writer: writer, keyPrefix: keyPrefix, ttl: ttl}
}

// Key 信号组状态键：{prefix}{group}:status
func (m *Mirror) Key(group string) string {
	return m.keyPrefix + group + ":status"
}

// Publish 写入状态
func (m *Mirror) Publish(ctx context.Context, status render.Status) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	if err := m.writer.WriteStatus(ctx, m.Key(status.Group), data, m.ttl); err != nil {
		return fmt.Errorf("failed to write status: %w", err)
	}
	return nil
}
