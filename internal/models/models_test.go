package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignalState_Label(t *testing.T) {
	cases := []struct {
		code SignalState
		want string
	}{
		{0, "⚫️"},
		{1, "🔴"},
		{2, "🟡"},
		{3, "🟢"},
		{4, "🟡"},
		{5, "🟡 (Flashing)"},
		{6, "🟢 (Flashing)"},
		{7, "⚫️ (Unknown: 7)"},
		{-1, "⚫️ (Unknown: -1)"},
		{255, "⚫️ (Unknown: 255)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.code.Label())
	}
}

func TestSignalState_FallbackNeverEmpty(t *testing.T) {
	for code := -300; code <= 300; code++ {
		s := SignalState(code)
		assert.NotEmpty(t, s.Label())
		assert.NotEmpty(t, s.Symbol())
		if code < 0 || code > 6 {
			assert.Equal(t, "❔", s.Symbol())
		}
	}
}

func TestParseObservation(t *testing.T) {
	obs, err := ParseObservation([]byte(`{"result": 3, "phenomenonTime": "2023-05-04T10:11:12.000Z", "@iot.id": 99}`))
	require.NoError(t, err)
	assert.Equal(t, 3, obs.Result)
	assert.Equal(t, time.Date(2023, 5, 4, 10, 11, 12, 0, time.UTC), obs.Timestamp.UTC())
}

func TestParseObservation_Interval(t *testing.T) {
	obs, err := ParseObservation([]byte(`{"result": 40, "phenomenonTime": "2023-05-04T10:11:00Z/2023-05-04T10:12:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, 40, obs.Result)
	assert.Equal(t, 12, obs.Timestamp.Minute())
}

func TestParseObservation_Malformed(t *testing.T) {
	payloads := []string{
		`not json`,
		`{"phenomenonTime": "2023-05-04T10:11:12Z"}`,
		`{"result": 1.5, "phenomenonTime": "2023-05-04T10:11:12Z"}`,
		`{"result": 1}`,
		`{"result": 1, "phenomenonTime": "yesterday"}`,
	}
	for _, p := range payloads {
		_, err := ParseObservation([]byte(p))
		assert.True(t, errors.Is(err, ErrMalformedObservation), p)
	}
}

func TestParseLine(t *testing.T) {
	ev, err := ParseLine([]byte("v1.1/Datastreams(42)/Observations {\"result\": 1, \"phenomenonTime\": \"x\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, "v1.1/Datastreams(42)/Observations", ev.Topic)
	assert.Equal(t, `{"result": 1, "phenomenonTime": "x"}`, string(ev.Payload))

	for _, bad := range []string{"", "topic-only", " leading-space", "topic   "} {
		_, err := ParseLine([]byte(bad))
		assert.ErrorIs(t, err, ErrMalformedLine, bad)
	}
}
