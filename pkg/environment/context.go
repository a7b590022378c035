package environment

import (
	"context"
	"strings"
)

// Environment names the deployment a process runs in. Rollout strategies
// compare against it when deciding whether a feature is on.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
	Test        Environment = "test"
)

var aliases = map[string]Environment{
	"dev":   Development,
	"stage": Staging,
	"prod":  Production,
}

// Parse normalizes an environment name: it is trimmed, lowercased and common
// short forms ("dev", "stage", "prod") are expanded.
func Parse(s string) Environment {
	s = strings.ToLower(strings.TrimSpace(s))
	if env, ok := aliases[s]; ok {
		return env
	}
	return Environment(s)
}

func (e Environment) String() string { return string(e) }

type contextKey struct{}

// WithContext stores the normalized environment in ctx.
func WithContext(ctx context.Context, env string) context.Context {
	return context.WithValue(ctx, contextKey{}, Parse(env))
}

// FromContext returns the environment stored in ctx, or "" if none.
func FromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	env, _ := ctx.Value(contextKey{}).(Environment)
	return string(env)
}

// Is reports whether ctx carries env.
func Is(ctx context.Context, env Environment) bool {
	return FromContext(ctx) == string(env)
}
