package feature

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Catalog is an explicit registry of feature constructors keyed by type
// identifier. It replaces string-based class loading: a feature exists only
// if its constructor was registered.
type Catalog struct {
	mu        sync.RWMutex
	order     []string
	ctors     map[string]Constructor
	libraries []string
}

// NewCatalog creates an empty catalog. Libraries restrict the {:library}
// placeholder of discovery patterns.
func NewCatalog(libraries ...string) *Catalog {
	return &Catalog{
		ctors:     make(map[string]Constructor),
		libraries: libraries,
	}
}

// Register adds a constructor under a type identifier.
func (c *Catalog) Register(id string, ctor Constructor) error {
	if id == "" || ctor == nil {
		return ErrInvalidType
	}
	id = normalizePath(id)

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.ctors[id]; ok {
		return errors.Join(ErrDuplicateType, fmt.Errorf("type %q", id))
	}
	c.ctors[id] = ctor
	c.order = append(c.order, id)
	return nil
}

// MustRegister is Register that panics, meant for package init blocks.
func (c *Catalog) MustRegister(id string, ctor Constructor) {
	if err := c.Register(id, ctor); err != nil {
		panic(err)
	}
}

// Types returns registered identifiers in registration order.
func (c *Catalog) Types() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Discover returns the registered identifiers matching any pattern.
// Patterns are visited in order and identifiers in registration order.
func (c *Catalog) Discover(ctx context.Context, patterns []string) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var (
		out  []string
		seen = make(map[string]struct{})
	)
	for _, pattern := range patterns {
		re, err := compilePattern(pattern, c.libraries)
		if err != nil {
			return nil, errors.Join(ErrDiscoveryFailed, err)
		}
		for _, id := range c.order {
			if _, ok := seen[id]; ok || !re.MatchString(id) {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out, nil
}

// Instantiate calls the registered constructor with opts.Type set to id.
func (c *Catalog) Instantiate(ctx context.Context, id string, opts Options) (Feature, error) {
	id = normalizePath(id)

	c.mu.RLock()
	ctor, ok := c.ctors[id]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrUnknownType
	}
	opts.Type = id
	return ctor(ctx, opts)
}
