package resource

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	got, err := c.AcquireMemory(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got)
	assert.Equal(t, int64(50), c.MemoryUsage())

	_, err = c.AcquireMemory(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	_, err = c.AcquireMemory(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_OversizedRequestIsClamped(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	got, err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got)
	c.ReleaseMemory(got)
	assert.Zero(t, c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	got, err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), got)

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxConcurrentLoads: 2})

	require.NoError(t, c.AcquireWorker(context.Background()))
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.False(t, c.TryAcquireWorker())

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
	assert.Equal(t, int64(2), c.Config().MaxConcurrentLoads)
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	_, err := c.AcquireMemory(ctx, 10)
	require.NoError(t, err)
	require.NoError(t, c.AcquireWorker(ctx))
	require.NoError(t, c.AcquireIO(ctx, 1<<20))
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	c.ReleaseMemory(10)
	assert.Zero(t, c.MemoryUsage())
}

func TestRateLimitedReader(t *testing.T) {
	// A request larger than the burst must still complete.
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	data := bytes.Repeat([]byte("g"), 3<<20)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got, err := io.ReadAll(NewRateLimitedReader(ctx, bytes.NewReader(data), c))
	require.NoError(t, err)
	assert.Equal(t, len(data), len(got))
}

func TestRateLimitedReader_Cancelled(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := io.ReadAll(NewRateLimitedReader(ctx, bytes.NewReader([]byte("abc")), c))
	assert.ErrorIs(t, err, context.Canceled)
}
