package feature

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryProvider keeps toggles in process memory. It is the default provider
// and the only one that evaluates flag strategies.
type MemoryProvider struct {
	flags map[string]*Flag
	mu    sync.RWMutex
	now   func() time.Time
}

// NewMemoryProvider creates a provider seeded with the given flags.
// Nil flags are ignored; a flag without a name is rejected.
func NewMemoryProvider(initial ...*Flag) (*MemoryProvider, error) {
	p := &MemoryProvider{
		flags: make(map[string]*Flag, len(initial)),
		now:   time.Now,
	}
	for _, flag := range initial {
		if flag == nil {
			continue
		}
		if err := p.SaveFlag(context.Background(), flag); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// IsEnabled evaluates the flag strategy when the flag is globally enabled.
func (m *MemoryProvider) IsEnabled(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	flag, ok := m.flags[name]
	m.mu.RUnlock()

	if !ok {
		return false, ErrFlagNotFound
	}
	if !flag.Enabled {
		return false, nil
	}
	if flag.Strategy == nil {
		return true, nil
	}
	return flag.Strategy.Evaluate(ctx)
}

// GetFlag returns a copy of the stored flag.
func (m *MemoryProvider) GetFlag(ctx context.Context, name string) (*Flag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	flag, ok := m.flags[name]
	if !ok {
		return nil, ErrFlagNotFound
	}
	return copyFlag(flag), nil
}

// ListFlags returns copies of all flags ordered by name.
func (m *MemoryProvider) ListFlags(ctx context.Context) ([]*Flag, error) {
	m.mu.RLock()
	result := make([]*Flag, 0, len(m.flags))
	for _, flag := range m.flags {
		result = append(result, copyFlag(flag))
	}
	m.mu.RUnlock()

	slices.SortFunc(result, func(a, b *Flag) int { return cmp.Compare(a.Name, b.Name) })
	return result, nil
}

// SaveFlag stores a copy of the flag.
func (m *MemoryProvider) SaveFlag(ctx context.Context, flag *Flag) error {
	if err := validateFlag(flag); err != nil {
		return err
	}

	stored := copyFlag(flag)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.flags[flag.Name]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	m.flags[flag.Name] = stored
	return nil
}

// DeleteFlag removes a flag.
func (m *MemoryProvider) DeleteFlag(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.flags[name]; !ok {
		return ErrFlagNotFound
	}
	delete(m.flags, name)
	return nil
}

// Close is a no-op for the memory provider.
func (m *MemoryProvider) Close() error {
	return nil
}

func copyFlag(flag *Flag) *Flag {
	c := *flag
	if flag.Tags != nil {
		c.Tags = slices.Clone(flag.Tags)
	}
	return &c
}
