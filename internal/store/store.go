package store

import (
	"signal-observer/internal/models"
	"sync"
	"time"
)

// Snapshot 某一时刻存储内容的一致视图。
// 未观测过的通道在 Observations 中不存在；Prediction 为 nil 表示尚未收到预测。
type Snapshot struct {
	Observations map[models.Channel]models.Observation
	Prediction   *models.Prediction
	// 收到最近一次预测的时间
	PredictionReceived time.Time
}

// Observation 取某个通道的观测值
func (s Snapshot) Observation(ch models.Channel) (models.Observation, bool) {
	obs, ok := s.Observations[ch]
	return obs, ok
}

// Store 每个通道只保存最近一次观测（后到者覆盖），内存占用与运行时长无关。
// 写入整体替换值，读者不会看到写了一半的观测。
type Store struct {
	mu                 sync.RWMutex
	observations       map[models.Channel]models.Observation
	prediction         *models.Prediction
	predictionReceived time.Time
	now                func() time.Time
}

// New 创建空存储
func New() *Store {
	return &Store{
		observations: make(map[models.Channel]models.Observation),
		now:          time.Now,
	}
}

// Update 覆盖通道的当前值。按到达顺序生效，不按时间戳重排。
func (s *Store) Update(ch models.Channel, result int, ts time.Time) {
	obs := models.Observation{Channel: ch, Result: result, Timestamp: ts}

	s.mu.Lock()
	s.observations[ch] = obs
	s.mu.Unlock()
}

// UpdatePrediction 覆盖当前预测；传入的预测之后不应再被修改
func (s *Store) UpdatePrediction(p models.Prediction) {
	received := s.now()

	s.mu.Lock()
	s.prediction = &p
	s.predictionReceived = received
	s.mu.Unlock()
}

// Snapshot 返回当前内容的拷贝
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	observations := make(map[models.Channel]models.Observation, len(s.observations))
	for ch, obs := range s.observations {
		observations[ch] = obs
	}
	return Snapshot{
		Observations:       observations,
		Prediction:         s.prediction,
		PredictionReceived: s.predictionReceived,
	}
}
