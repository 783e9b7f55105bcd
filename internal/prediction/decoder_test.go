package prediction

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"signal-observer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func payload(t *testing.T, msg Message) []byte {
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	return data
}

func TestDecode_RoundTrip(t *testing.T) {
	now := []byte{1, 1, 1, 3, 3}
	then := []byte{1, 1, 3, 3, 3, 0, 9, 255}
	program := 3

	p, err := Decode(payload(t, Message{
		Now:           encode(now),
		Then:          encode(then),
		ReferenceTime: "2023-05-04T10:11:12Z",
		ProgramID:     &program,
	}))
	require.NoError(t, err)

	assert.Equal(t, now, p.Now)
	assert.Equal(t, then, p.Then)
	assert.Equal(t, time.Date(2023, 5, 4, 10, 11, 12, 0, time.UTC), p.ReferenceTime)
	require.NotNil(t, p.ProgramID)
	assert.Equal(t, 3, *p.ProgramID)
	assert.Nil(t, p.NowQuality)
	assert.Nil(t, p.ThenQuality)
}

func TestDecode_Quality(t *testing.T) {
	p, err := Decode(payload(t, Message{
		Now:           encode([]byte{1}),
		NowQuality:    encode([]byte{90}),
		Then:          encode([]byte{3, 3}),
		ThenQuality:   encode([]byte{80, 70}),
		ReferenceTime: "2023-05-04T10:11:12Z",
	}))
	require.NoError(t, err)
	assert.Equal(t, []byte{90}, p.NowQuality)
	assert.Equal(t, []byte{80, 70}, p.ThenQuality)
}

func TestDecode_NullProgram(t *testing.T) {
	raw := []byte(`{"now":"AQ==","then":"Aw==","referenceTime":"2023-05-04T10:11:12Z","programId":null}`)
	p, err := Decode(raw)
	require.NoError(t, err)
	assert.Nil(t, p.ProgramID)
	assert.Equal(t, []byte{1}, p.Now)
	assert.Equal(t, []byte{3}, p.Then)
}

func TestDecode_Malformed(t *testing.T) {
	valid := Message{Now: encode([]byte{1}), Then: encode([]byte{3}), ReferenceTime: "2023-05-04T10:11:12Z"}

	cases := map[string][]byte{
		"not json":              []byte(`{"now":`),
		"invalid base64 now":    payload(t, Message{Now: "!!!", Then: valid.Then, ReferenceTime: valid.ReferenceTime}),
		"invalid base64 then":   payload(t, Message{Now: valid.Now, Then: "A", ReferenceTime: valid.ReferenceTime}),
		"invalid quality":       payload(t, Message{Now: valid.Now, NowQuality: "%%", Then: valid.Then, ReferenceTime: valid.ReferenceTime}),
		"empty now":             payload(t, Message{Now: "", Then: valid.Then, ReferenceTime: valid.ReferenceTime}),
		"empty then":            payload(t, Message{Now: valid.Now, Then: "", ReferenceTime: valid.ReferenceTime}),
		"missing referenceTime": payload(t, Message{Now: valid.Now, Then: valid.Then}),
		"fractional seconds":    payload(t, Message{Now: valid.Now, Then: valid.Then, ReferenceTime: "2023-05-04T10:11:12.5Z"}),
		"offset timezone":       payload(t, Message{Now: valid.Now, Then: valid.Then, ReferenceTime: "2023-05-04T10:11:12+02:00"}),
		"program not integer":   []byte(`{"now":"AQ==","then":"Aw==","referenceTime":"2023-05-04T10:11:12Z","programId":"x"}`),
	}
	for name, raw := range cases {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, models.ErrMalformedPrediction, name)
	}
}
