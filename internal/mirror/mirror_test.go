package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"signal-observer/internal/render"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *Mirror) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { redisClient.Close() })

	return mr, NewMirror(NewRedisStatusWriter(redisClient), "signal-observer:", ttl)
}

func readStatus(t *testing.T, mr *miniredis.Miniredis, key string) render.Status {
	raw, err := mr.Get(key)
	require.NoError(t, err)
	var status render.Status
	require.NoError(t, json.Unmarshal([]byte(raw), &status))
	return status
}

func TestMirror_Publish(t *testing.T) {
	mr, m := setupTestRedis(t, 10*time.Second)

	signal, program := 3, 2
	status := render.Status{
		Group:     "1337_21",
		Line:      "🟢 (1s)  🔮 🟢|🔴 P2",
		Signal:    &signal,
		ProgramID: &program,
		UpdatedAt: time.Date(2023, 5, 4, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, m.Publish(context.Background(), status))

	key := "signal-observer:1337_21:status"
	assert.Equal(t, key, m.Key("1337_21"))
	assert.Equal(t, 10*time.Second, mr.TTL(key))

	got := readStatus(t, mr, key)
	assert.Equal(t, status.Line, got.Line)
	assert.Equal(t, 3, *got.Signal)
	assert.Nil(t, got.Predicted)
	assert.True(t, status.UpdatedAt.Equal(got.UpdatedAt))
}

func TestMirror_OverwritesSingleKey(t *testing.T) {
	mr, m := setupTestRedis(t, 10*time.Second)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Publish(ctx, render.Status{Group: "g", Line: string(rune('a' + i))}))
	}

	assert.Len(t, mr.Keys(), 1)
	assert.Equal(t, "e", readStatus(t, mr, "signal-observer:g:status").Line)
}

func TestMirror_ExpiresAfterTTL(t *testing.T) {
	mr, m := setupTestRedis(t, 10*time.Second)

	require.NoError(t, m.Publish(context.Background(), render.Status{Group: "g", Line: "x"}))
	mr.FastForward(11 * time.Second)

	assert.False(t, mr.Exists("signal-observer:g:status"))
}

func TestMirror_NoTTL(t *testing.T) {
	mr, m := setupTestRedis(t, -time.Second)

	require.NoError(t, m.Publish(context.Background(), render.Status{Group: "g", Line: "x"}))

	assert.Equal(t, time.Duration(0), mr.TTL("signal-observer:g:status"))
	mr.FastForward(time.Hour)
	assert.True(t, mr.Exists("signal-observer:g:status"))
}

func TestMirror_RedisUnavailable(t *testing.T) {
	mr, m := setupTestRedis(t, 10*time.Second)
	mr.Close()

	err := m.Publish(context.Background(), render.Status{Group: "g"})
	assert.Error(t, err)
}

type failingWriter struct{}

func (failingWriter) WriteStatus(context.Context, string, []byte, time.Duration) error {
	return errors.New("read only replica")
}

func TestMirror_WriteErrorWrapped(t *testing.T) {
	m := NewMirror(failingWriter{}, "p:", time.Second)

	err := m.Publish(context.Background(), render.Status{Group: "g"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write status")
	assert.Contains(t, err.Error(), "read only replica")
}
