package feature

import (
	"context"
	"errors"
	"log/slog"
)

// Registry holds the features instantiated during one initialization cycle.
// It is immutable once built; rebuild with Build to pick up changes.
type Registry struct {
	order    []string
	features map[string]Feature
	types    map[string]string
}

// NewRegistry indexes features by name in the given order. A later feature
// with the same name replaces the earlier one but keeps its position.
func NewRegistry(features ...Feature) *Registry {
	r := &Registry{
		features: make(map[string]Feature, len(features)),
		types:    make(map[string]string, len(features)),
	}
	for _, f := range features {
		r.add("", f)
	}
	return r
}

func (r *Registry) add(typ string, f Feature) (replaced bool) {
	name := f.Name()
	if _, ok := r.features[name]; ok {
		replaced = true
	} else {
		r.order = append(r.order, name)
	}
	r.features[name] = f
	r.types[name] = typ
	return replaced
}

// Enabled reports whether a feature with this name exists and is enabled.
// Unknown names are simply not enabled.
func (r *Registry) Enabled(name string) bool {
	if r == nil {
		return false
	}
	f, ok := r.features[name]
	return ok && f.Enabled()
}

// EnabledFeatures returns the enabled features in registration order.
func (r *Registry) EnabledFeatures() []Feature {
	if r == nil {
		return nil
	}
	out := make([]Feature, 0, len(r.order))
	for _, name := range r.order {
		if f := r.features[name]; f.Enabled() {
			out = append(out, f)
		}
	}
	return out
}

// All returns every registered feature in registration order.
func (r *Registry) All() []Feature {
	if r == nil {
		return nil
	}
	out := make([]Feature, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.features[name])
	}
	return out
}

// Get returns the feature registered under name.
func (r *Registry) Get(name string) (Feature, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.features[name]
	return f, ok
}

// Type returns the type identifier a feature was instantiated from.
func (r *Registry) Type(name string) string {
	if r == nil {
		return ""
	}
	return r.types[name]
}

// Len returns the number of registered features.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// BuildOptions configures a registry build.
type BuildOptions struct {
	Source   Source
	Provider Provider
	Patterns []string
	Settings map[string]map[string]string
	Logger   *slog.Logger
}

// Build discovers, instantiates and indexes features for one initialization
// cycle. Discovery, provider and constructor failures degrade to a smaller
// feature set and are logged; Build itself does not fail on them.
func Build(ctx context.Context, opts BuildOptions) *Registry {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := NewRegistry()
	if opts.Source == nil {
		return r
	}

	ids, err := opts.Source.Discover(ctx, opts.Patterns)
	if err != nil {
		log.WarnContext(ctx, "feature discovery incomplete", slog.Any("error", err))
	}

	for _, id := range ids {
		name := DeriveName(typeOf(id))
		fopts := Options{Type: id, Settings: opts.Settings[name]}
		fopts.Enabled, fopts.FromProvider = toggle(ctx, opts.Provider, name, log)

		f, err := opts.Source.Instantiate(ctx, id, fopts)
		if err != nil || f == nil {
			log.WarnContext(ctx, "feature skipped",
				slog.String("type", id),
				slog.Any("error", err),
			)
			continue
		}
		if r.add(id, f) {
			log.WarnContext(ctx, "feature name collision, later registration wins",
				slog.String("feature", f.Name()),
				slog.String("type", id),
			)
		}
	}
	return r
}

func toggle(ctx context.Context, p Provider, name string, log *slog.Logger) (enabled, found bool) {
	if p == nil {
		return false, false
	}
	enabled, err := p.IsEnabled(ctx, name)
	switch {
	case err == nil:
		return enabled, true
	case errors.Is(err, ErrFlagNotFound):
		return false, false
	default:
		log.WarnContext(ctx, "feature toggle lookup failed",
			slog.String("feature", name),
			slog.Any("error", err),
		)
		return false, false
	}
}
