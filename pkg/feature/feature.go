package feature

import (
	"context"
	"maps"
	"strings"
)

// Suffix is stripped from a type identifier to derive the feature name.
const Suffix = "Feature"

// Feature is a named, independently toggleable unit of behavior that may
// redirect method, model, helper and view lookups while enabled.
type Feature interface {
	// Name returns the name derived from the feature type identifier.
	Name() string

	// Enabled reports whether the feature was enabled at construction.
	Enabled() bool

	// MethodFilters maps "Type::method" (or bare "Type") sources to targets.
	MethodFilters() map[string]string

	// ModelFilters maps full model type identifiers to replacement models.
	ModelFilters() map[string]string

	// HelperFilters maps full helper paths to replacement helper paths.
	HelperFilters() map[string]string

	// ViewFilters returns structural render parameter filters.
	// A non-empty result also marks the feature as owning template variants.
	ViewFilters() []ViewFilter
}

// ViewFilter replaces render parameters when Match is a subset of them.
type ViewFilter struct {
	Match   map[string]string `json:"match" yaml:"match" toml:"match"`
	Replace map[string]string `json:"replace" yaml:"replace" toml:"replace"`
}

// Valid reports whether the filter has both criteria and a replacement.
func (f ViewFilter) Valid() bool {
	return len(f.Match) > 0 && len(f.Replace) > 0
}

// Options is the configuration handed to a feature constructor.
type Options struct {
	// Type is the discovered type identifier, e.g. "app/config/features/PromoFeature".
	Type string
	// Enabled is the toggle state resolved for this initialization cycle.
	Enabled bool
	// FromProvider is true when Enabled came from a toggle provider.
	FromProvider bool
	// Settings carries free-form configuration for the feature.
	Settings map[string]string
}

// Constructor instantiates a feature for one initialization cycle.
// The context is the opaque initialization context, usually a request context.
type Constructor func(ctx context.Context, opts Options) (Feature, error)

// Base implements the bookkeeping part of Feature. Embed it and override
// the filter methods that the feature needs.
type Base struct {
	name     string
	enabled  bool
	settings map[string]string
}

// NewBase derives the name from opts.Type and captures the enabled state.
func NewBase(opts Options) Base {
	return Base{
		name:     DeriveName(opts.Type),
		enabled:  opts.Enabled,
		settings: maps.Clone(opts.Settings),
	}
}

func (b Base) Name() string                     { return b.name }
func (b Base) Enabled() bool                    { return b.enabled }
func (b Base) MethodFilters() map[string]string { return nil }
func (b Base) ModelFilters() map[string]string  { return nil }
func (b Base) HelperFilters() map[string]string { return nil }
func (b Base) ViewFilters() []ViewFilter        { return nil }

// Setting returns a free-form setting passed through Options.
func (b Base) Setting(key string) (string, bool) {
	v, ok := b.settings[key]
	return v, ok
}

// DeriveName returns the last segment of a type identifier without the
// Feature suffix: "app/config/features/PromoFeature" becomes "Promo".
// Identifiers that consist of the suffix only keep it.
func DeriveName(typ string) string {
	base := typ
	if i := strings.LastIndexAny(base, `/\.`); i >= 0 {
		base = base[i+1:]
	}
	if name := strings.TrimSuffix(base, Suffix); name != "" {
		return name
	}
	return base
}

// SwapView builds a ViewFilter from a compact description where plain values
// are match criteria and single-entry maps describe a from -> to swap:
//
//	feature.SwapView(map[string]any{
//		"controller": "blog",
//		"template":   map[string]string{"show": "show_feature1"},
//	})
//
// yields Match{controller: blog, template: show}, Replace{template: show_feature1}.
func SwapView(spec map[string]any) ViewFilter {
	vf := ViewFilter{Match: map[string]string{}, Replace: map[string]string{}}
	for key, v := range spec {
		switch val := v.(type) {
		case string:
			vf.Match[key] = val
		case map[string]string:
			if len(val) != 1 {
				continue
			}
			for from, to := range val {
				vf.Match[key] = from
				vf.Replace[key] = to
			}
		case map[string]any:
			if len(val) != 1 {
				continue
			}
			for from, to := range val {
				if s, ok := to.(string); ok {
					vf.Match[key] = from
					vf.Replace[key] = s
				}
			}
		}
	}
	return vf
}
