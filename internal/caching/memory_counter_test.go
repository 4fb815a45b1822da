package caching

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounterIncrements(t *testing.T) {
	counter := NewMemoryCounter()
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := counter.IncrementWindow(ctx, "tenant-a:100", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// A different key runs its own count.
	got, err := counter.IncrementWindow(ctx, "tenant-b:100", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestMemoryCounterExpiry(t *testing.T) {
	counter := NewMemoryCounter()
	ctx := context.Background()

	got, err := counter.IncrementWindow(ctx, "tenant-a:100", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	time.Sleep(20 * time.Millisecond)

	// The expired entry restarts from scratch.
	got, err = counter.IncrementWindow(ctx, "tenant-a:100", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
