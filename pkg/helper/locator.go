package helper

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// TypeHelper is the only lookup type that helper overrides apply to.
const TypeHelper = "helper"

// Overrides redirects helper paths. *override.Snapshot and
// *override.Resolver implement it.
type Overrides interface {
	ResolveHelper(path string) (string, bool)
}

// Constructor creates a helper instance for one render.
type Constructor func(ctx context.Context) (any, error)

// Locator is a registry of helper constructors keyed by full path,
// e.g. "app/extensions/helper/Lists".
type Locator struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

func NewLocator() *Locator {
	return &Locator{ctors: make(map[string]Constructor)}
}

// Register adds a helper constructor.
func (l *Locator) Register(path string, ctor Constructor) error {
	if path == "" || ctor == nil {
		return ErrInvalidHelper
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.ctors[path]; ok {
		return errors.Join(ErrDuplicateHelper, fmt.Errorf("helper %q", path))
	}
	l.ctors[path] = ctor
	return nil
}

// MustRegister is Register that panics.
func (l *Locator) MustRegister(path string, ctor Constructor) {
	if err := l.Register(path, ctor); err != nil {
		panic(fmt.Sprintf("failed to register helper: %v", err))
	}
}

// Paths returns the registered helper paths in sorted order.
func (l *Locator) Paths() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, 0, len(l.ctors))
	for p := range l.ctors {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Resolve returns the path a lookup of typ should load. Only helper
// lookups are redirected; other types pass through.
func (l *Locator) Resolve(o Overrides, typ, path string) string {
	if typ != TypeHelper || o == nil {
		return path
	}
	if target, ok := o.ResolveHelper(path); ok && target != "" {
		return target
	}
	return path
}

// Instance creates the helper registered under the resolved path.
func (l *Locator) Instance(ctx context.Context, o Overrides, path string) (any, error) {
	resolved := l.Resolve(o, TypeHelper, path)

	l.mu.RLock()
	ctor, ok := l.ctors[resolved]
	l.mu.RUnlock()

	if !ok {
		return nil, errors.Join(ErrHelperNotFound, fmt.Errorf("helper %q", resolved))
	}
	return ctor(ctx)
}
