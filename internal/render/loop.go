package render

import (
	"context"
	"fmt"
	"io"
	"signal-observer/internal/store"
	"time"

	"go.uber.org/zap"
)

// Interval 刷新间隔
const Interval = time.Second

// Publisher 状态输出的附加目的地（例如 Redis 镜像）
type Publisher interface {
	Publish(ctx context.Context, status Status) error
}

// Loop 定时读取存储快照并重写状态行，与消息到达时间无关
type Loop struct {
	renderer  *Renderer
	store     *store.Store
	out       io.Writer
	publisher Publisher
	logger    *zap.Logger

	interval time.Duration
	now      func() time.Time
}

// NewLoop 创建渲染循环；publisher 可以为 nil
func NewLoop(renderer *Renderer, st *store.Store, out io.Writer, publisher Publisher, logger *zap.Logger) *Loop {
	return &Loop{
		renderer:  renderer,
		store:     st,
		out:       out,
		publisher: publisher,
		logger:    logger,
		interval:  Interval,
		now:       time.Now,
	}
}

// Run 每个间隔渲染一次，直到 ctx 取消
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	l.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out)
			return nil
		case <-ticker.C:
			l.Tick(ctx)
		}
	}
}

// Tick 渲染一次并写出。镜像失败只记录日志。
func (l *Loop) Tick(ctx context.Context) Status {
	status := l.renderer.Render(l.store.Snapshot(), l.now())

	// \r 回到行首，\033[K 清除上一次残留的字符
	if _, err := fmt.Fprintf(l.out, "\r\033[K%s", status.Line); err != nil {
		l.logger.Warn("Failed to write status line", zap.Error(err))
	}

	if l.publisher != nil {
		if err := l.publisher.Publish(ctx, status); err != nil {
			l.logger.Warn("Failed to publish status", zap.Error(err))
		}
	}
	return status
}
