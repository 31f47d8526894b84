package visitors

import (
	"context"
	"sync/atomic"
)

// MemoryCounter is a process-local counter for deployments without Redis.
// The count resets on restart.
type MemoryCounter struct {
	count atomic.Int64
}

var _ Counter = (*MemoryCounter)(nil)

func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{}
}

func (c *MemoryCounter) Increment(ctx context.Context) (int64, error) {
	return c.count.Add(1), nil
}

func (c *MemoryCounter) Current(ctx context.Context) (int64, error) {
	return c.count.Load(), nil
}
