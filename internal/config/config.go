package config

import (
	"os"
	"signal-observer/common/config"
	"strconv"
	"time"
)

// 事件来源
const (
	SourceMQTT  = "mqtt"
	SourceStdin = "stdin"
)

// Config 信号灯观测服务配置
type Config struct {
	SensorThings config.HTTPConfig
	MQTT         config.MQTTConfig // 遥测数据 broker
	Prediction   config.MQTTConfig // 预测数据 broker（可以与遥测相同）
	Redis        config.RedisConfig

	Observer struct {
		// 事件来源：mqtt（直接订阅）或 stdin（mosquitto_sub -v 的输出）
		EventSource string
		// 预测主题前缀，完整主题为 前缀 + 信号组名称
		PredictionTopicPrefix string
	}

	// 状态镜像（仅在配置了 REDIS_ADDR 时启用）
	Mirror struct {
		KeyPrefix string
		TTL       time.Duration
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	// 从环境变量加载（默认值）
	cfg.SensorThings.BaseURL = "https://tld.iot.hamburg.de/v1.1/"
	cfg.SensorThings.Timeout = 10 * time.Second
	cfg.SensorThings.LoadFromEnv("SENSORTHINGS")

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://tld.iot.hamburg.de:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "signal-observer")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	qos := getEnvInt("MQTT_QOS", 1)
	if qos > 2 {
		qos = 1
	}
	cfg.MQTT.QoS = byte(qos)

	// 预测 broker 默认与遥测 broker 相同
	cfg.Prediction = cfg.MQTT
	cfg.Prediction.Username = ""
	cfg.Prediction.Password = ""
	cfg.Prediction.LoadFromEnv("PREDICTION_MQTT")

	cfg.Observer.EventSource = getEnv("EVENT_SOURCE", SourceMQTT)
	cfg.Observer.PredictionTopicPrefix = getEnv("PREDICTION_TOPIC_PREFIX", "prediction/")

	// REDIS_ADDR 为空时不启用状态镜像
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Mirror.KeyPrefix = getEnv("STATUS_KEY_PREFIX", "signal-observer:")
	cfg.Mirror.TTL = time.Duration(getEnvInt("STATUS_TTL", 10)) * time.Second

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "console")

	return cfg, nil
}

// PredictionTopic 返回某个信号组的预测主题
func (c *Config) PredictionTopic(name string) string {
	return c.Observer.PredictionTopicPrefix + name
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil && v >= 0 {
		return v
	}
	return defaultValue
}
