package visitors

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCounter(t *testing.T) {
	counter := NewMemoryCounter()
	ctx := context.Background()

	count, err := counter.Current(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = counter.Increment(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = counter.Current(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMemoryCounter_Concurrent(t *testing.T) {
	counter := NewMemoryCounter()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = counter.Increment(ctx)
		}()
	}
	wg.Wait()

	count, err := counter.Current(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 50, count)
}
