package feature

import (
	"context"
	"time"
)

// Flag is the stored toggle for a feature name. It fixes the enabled state
// handed to feature constructors during an initialization cycle.
type Flag struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`
	Strategy    Strategy  `json:"-"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`
}

// Strategy decides whether an enabled flag applies to the initialization context.
type Strategy interface {
	Evaluate(ctx context.Context) (bool, error)
}

// TargetCriteria defines targeting criteria for a flag.
type TargetCriteria struct {
	UserIDs    []string `json:"user_ids,omitempty"`
	Groups     []string `json:"groups,omitempty"`
	Percentage *int     `json:"percentage,omitempty"`
	// AllowList wins over everything except DenyList.
	AllowList []string `json:"allow_list,omitempty"`
	// DenyList wins over all other criteria.
	DenyList []string `json:"deny_list,omitempty"`
}

// Extractors pull evaluation data out of the initialization context.
type (
	UserIDExtractor      func(ctx context.Context) string
	UserGroupsExtractor  func(ctx context.Context) []string
	EnvironmentExtractor func(ctx context.Context) string
)

// Provider stores feature toggles.
type Provider interface {
	// IsEnabled reports the toggle state for the given context.
	// Unknown names return false and ErrFlagNotFound.
	IsEnabled(ctx context.Context, name string) (bool, error)

	// GetFlag returns a copy of the stored flag or ErrFlagNotFound.
	GetFlag(ctx context.Context, name string) (*Flag, error)

	// ListFlags returns all stored flags sorted by name.
	ListFlags(ctx context.Context) ([]*Flag, error)

	// SaveFlag creates or replaces a flag, preserving CreatedAt on replace.
	SaveFlag(ctx context.Context, flag *Flag) error

	// DeleteFlag removes a flag or returns ErrFlagNotFound.
	DeleteFlag(ctx context.Context, name string) error

	// Close releases provider resources.
	Close() error
}

func validateFlag(flag *Flag) error {
	if flag == nil {
		return joinInvalid("flag cannot be nil")
	}
	if flag.Name == "" {
		return joinInvalid("flag name cannot be empty")
	}
	return nil
}
