package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sarishc/Heliox-AI-sub000/logger"
)

func TestKey(t *testing.T) {
	// Deterministic and sensitive to every parameter.
	base := Key("usage", "aws", "a100", 7)

	assert.Equal(t, base, Key("usage", "aws", "a100", 7))
	assert.NotEqual(t, base, Key("spend", "aws", "a100", 7))
	assert.NotEqual(t, base, Key("usage", "gcp", "a100", 7))
	assert.NotEqual(t, base, Key("usage", "aws", "h100", 7))
	assert.NotEqual(t, base, Key("usage", "aws", "a100", 14))

	// Empty filters collapse to "all".
	assert.Equal(t, Key("usage", "", "", 7), Key("usage", "all", "all", 7))

	assert.Regexp(t, `^forecast:[0-9a-f]{32}$`, base)
}

func TestRedisFacade(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	defer mr.Close()

	ctx := context.Background()
	facade := NewRedis(mr.Addr(), logger.FromContext)

	_, ok := facade.Get(ctx, "forecast:missing")
	assert.False(t, ok)

	facade.Set(ctx, "forecast:abc", []byte(`{"ok":true}`), time.Hour)

	got, ok := facade.Get(ctx, "forecast:abc")
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"ok":true}`), got)

	// Expiry behaves like a miss.
	mr.FastForward(2 * time.Hour)

	_, ok = facade.Get(ctx, "forecast:abc")
	assert.False(t, ok)
}

func TestRedisFacadeUnavailableIsAMiss(t *testing.T) {
	ctx := context.Background()
	facade := NewRedis("127.0.0.1:1", logger.FromContext)

	assert.NotPanics(t, func() {
		facade.Set(ctx, "forecast:abc", []byte("x"), time.Minute)

		_, ok := facade.Get(ctx, "forecast:abc")
		assert.False(t, ok)
	})
}

func TestMemoryFacade(t *testing.T) {
	ctx := context.Background()

	facade := NewMemory()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	facade.now = func() time.Time { return current }

	_, ok := facade.Get(ctx, "forecast:missing")
	assert.False(t, ok)

	facade.Set(ctx, "forecast:abc", []byte("value"), time.Hour)

	got, ok := facade.Get(ctx, "forecast:abc")
	assert.True(t, ok)
	assert.Equal(t, []byte("value"), got)

	current = current.Add(61 * time.Minute)

	_, ok = facade.Get(ctx, "forecast:abc")
	assert.False(t, ok)
}
