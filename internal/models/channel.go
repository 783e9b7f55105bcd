package models

// Channel 逻辑通道名称，与传输层的主题命名无关。
// 取值直接来自 SensorThings 数据流的 layerName。
type Channel string

const (
	ChannelPrimarySignal Channel = "primary_signal"
	ChannelCycleSecond   Channel = "cycle_second"
	ChannelCarDetector   Channel = "detector_car"
	ChannelBikeDetector  Channel = "detector_bike"
	ChannelSignalProgram Channel = "signal_program"
	ChannelPrediction    Channel = "prediction"
)
