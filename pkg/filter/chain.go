package filter

import (
	"context"
	"sync"
)

// Next continues the chain with possibly modified params.
type Next[P, R any] func(ctx context.Context, params P) (R, error)

// Interceptor wraps one step of an operation. It may inspect or replace
// params, call next zero or more times, and post-process the result.
type Interceptor[P, R any] func(ctx context.Context, params P, next Next[P, R]) (R, error)

// Chain is an ordered list of interceptors around a final operation.
// The first interceptor added is the outermost. A Chain is safe for
// concurrent use; Run sees the interceptors registered when it starts.
type Chain[P, R any] struct {
	mu           sync.RWMutex
	interceptors []Interceptor[P, R]
}

// New returns a chain with the given interceptors. Nil entries are ignored.
func New[P, R any](interceptors ...Interceptor[P, R]) *Chain[P, R] {
	c := &Chain[P, R]{}
	c.Use(interceptors...)
	return c
}

// Use appends interceptors. Nil entries are ignored.
func (c *Chain[P, R]) Use(interceptors ...Interceptor[P, R]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ic := range interceptors {
		if ic != nil {
			c.interceptors = append(c.interceptors, ic)
		}
	}
}

// Len returns the number of interceptors.
func (c *Chain[P, R]) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.interceptors)
}

// Run invokes the interceptors in order, ending with final.
// A nil or empty chain calls final directly.
func (c *Chain[P, R]) Run(ctx context.Context, params P, final Next[P, R]) (R, error) {
	if c == nil {
		return final(ctx, params)
	}
	c.mu.RLock()
	ics := c.interceptors
	c.mu.RUnlock()

	next := final
	for i := len(ics) - 1; i >= 0; i-- {
		ic, inner := ics[i], next
		next = func(ctx context.Context, p P) (R, error) {
			return ic(ctx, p, inner)
		}
	}
	return next(ctx, params)
}
