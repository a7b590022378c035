package entity

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Method is an entity method. The receiver is the entity the call was made
// on, even when an override routes the call to another model.
type Method func(ctx context.Context, recv *Entity, args ...any) (any, error)

// Model is a named set of methods shared by its entities.
type Model struct {
	Name    string
	Methods map[string]Method
}

// Method returns the named method.
func (m *Model) Method(name string) (Method, bool) {
	if m == nil {
		return nil, false
	}
	fn, ok := m.Methods[name]
	return fn, ok && fn != nil
}

// Models is an explicit registry of models by name.
type Models struct {
	mu    sync.RWMutex
	items map[string]*Model
}

// NewModels creates a registry with the given models.
func NewModels(models ...*Model) (*Models, error) {
	r := &Models{items: make(map[string]*Model, len(models))}
	for _, m := range models {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a model. Names are unique.
func (r *Models) Register(m *Model) error {
	if m == nil || m.Name == "" {
		return ErrInvalidModel
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[m.Name]; ok {
		return errors.Join(ErrDuplicateModel, fmt.Errorf("model %q", m.Name))
	}
	r.items[m.Name] = m
	return nil
}

// MustRegister is Register that panics.
func (r *Models) MustRegister(m *Model) {
	if err := r.Register(m); err != nil {
		panic(fmt.Sprintf("failed to register model: %v", err))
	}
}

// Get returns the named model or ErrModelNotFound.
func (r *Models) Get(name string) (*Model, error) {
	if r == nil {
		return nil, ErrModelNotFound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[name]
	if !ok {
		return nil, errors.Join(ErrModelNotFound, fmt.Errorf("model %q", name))
	}
	return m, nil
}

// List returns the registered model names in sorted order.
func (r *Models) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
