package sensorthings

import (
	"signal-observer/internal/models"
	"sort"
)

// Classifier 主题 -> 逻辑通道 的静态映射，启动时构建一次，之后只读。
type Classifier struct {
	topics   map[string]models.Channel
	channels map[models.Channel]bool
}

// NewClassifier 根据数据流列表构建分类器；predictionTopic 非空时映射到 prediction 通道。
// layerName 原样作为通道名。
func NewClassifier(datastreams []Datastream, predictionTopic string) *Classifier {
	c := &Classifier{
		topics:   make(map[string]models.Channel, len(datastreams)+1),
		channels: make(map[models.Channel]bool),
	}
	for _, d := range datastreams {
		ch := models.Channel(d.LayerName())
		c.topics[d.Topic()] = ch
		c.channels[ch] = true
	}
	if predictionTopic != "" {
		c.topics[predictionTopic] = models.ChannelPrediction
		c.channels[models.ChannelPrediction] = true
	}
	return c
}

// Classify 查找主题对应的通道；未知主题返回 false
func (c *Classifier) Classify(topic string) (models.Channel, bool) {
	ch, ok := c.topics[topic]
	return ch, ok
}

// Has 该信号组的元数据中是否存在此通道
func (c *Classifier) Has(ch models.Channel) bool {
	return c.channels[ch]
}

// Topics 返回映射到给定通道之一的所有主题（排序后），不传通道时返回全部主题
func (c *Classifier) Topics(channels ...models.Channel) []string {
	want := make(map[models.Channel]bool, len(channels))
	for _, ch := range channels {
		want[ch] = true
	}
	topics := make([]string, 0, len(c.topics))
	for topic, ch := range c.topics {
		if len(want) == 0 || want[ch] {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

// TelemetryTopics 除预测以外的所有主题
func (c *Classifier) TelemetryTopics() []string {
	topics := make([]string, 0, len(c.topics))
	for topic, ch := range c.topics {
		if ch != models.ChannelPrediction {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}
