package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	for _, key := range []string{
		"SENSORTHINGS_URL", "MQTT_BROKER", "PREDICTION_MQTT_BROKER", "EVENT_SOURCE",
		"REDIS_ADDR", "STATUS_TTL", "LOG_LEVEL", "MQTT_QOS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://tld.iot.hamburg.de/v1.1/", cfg.SensorThings.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.SensorThings.Timeout)
	assert.Equal(t, "tcp://tld.iot.hamburg.de:1883", cfg.MQTT.Broker)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, cfg.MQTT.Broker, cfg.Prediction.Broker)
	assert.Equal(t, SourceMQTT, cfg.Observer.EventSource)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 10*time.Second, cfg.Mirror.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "prediction/1337_21", cfg.PredictionTopic("1337_21"))
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("MQTT_BROKER", "tcp://telemetry:1883")
	t.Setenv("MQTT_USERNAME", "observer")
	t.Setenv("PREDICTION_MQTT_BROKER", "tcp://predictions:1883")
	t.Setenv("PREDICTION_TOPIC_PREFIX", "hamburg/")
	t.Setenv("EVENT_SOURCE", "stdin")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("STATUS_TTL", "30")
	t.Setenv("MQTT_QOS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tcp://telemetry:1883", cfg.MQTT.Broker)
	assert.Equal(t, "observer", cfg.MQTT.Username)
	assert.Equal(t, "tcp://predictions:1883", cfg.Prediction.Broker)
	assert.Empty(t, cfg.Prediction.Username)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, SourceStdin, cfg.Observer.EventSource)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 30*time.Second, cfg.Mirror.TTL)
	assert.Equal(t, "hamburg/x", cfg.PredictionTopic("x"))
}

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test-value")
	assert.Equal(t, "test-value", getEnv("TEST_VAR", "default"))
	assert.Equal(t, "default-value", getEnv("NON_EXISTENT_VAR", "default-value"))
}

func TestLoad_QoSOutOfRange(t *testing.T) {
	for _, v := range []string{"3", "258", "513"} {
		t.Setenv("MQTT_QOS", v)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, byte(1), cfg.MQTT.QoS, "MQTT_QOS=%s", v)
	}

	t.Setenv("MQTT_QOS", "2")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, byte(2), cfg.MQTT.QoS)
}
