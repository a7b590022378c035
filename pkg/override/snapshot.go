package override

import (
	"maps"

	"github.com/dmitrymomot/waffle/pkg/feature"
)

// tables are the compiled lookups derived from an enabled feature set.
// They are shared between snapshots with the same set.
type tables struct {
	methods *Table
	models  *Table
	helpers *Table
	views   []string
	params  *ParamFilter
}

func compileTables(cfg Config, enabled []feature.Feature) *tables {
	t := &tables{}
	if cfg.MethodFiltering {
		t.methods = BuildTable(enabled, feature.Feature.MethodFilters)
	}
	if cfg.ModelFiltering {
		t.models = BuildTable(enabled, feature.Feature.ModelFilters)
	}
	if cfg.HelperFiltering {
		t.helpers = BuildTable(enabled, feature.Feature.HelperFilters)
	}
	if cfg.ViewFiltering {
		switch cfg.ViewMode {
		case ViewModeParams:
			t.params = BuildParamFilter(enabled)
		default:
			t.views = viewFeatures(enabled)
		}
	}
	return t
}

// viewFeatures names the enabled features that own template variants.
func viewFeatures(enabled []feature.Feature) []string {
	var names []string
	for _, f := range enabled {
		if f.Enabled() && len(f.ViewFilters()) > 0 {
			names = append(names, f.Name())
		}
	}
	return names
}

// Snapshot is one immutable build of the registry and its override tables.
// All methods are safe for concurrent use, and a nil *Snapshot behaves
// like an empty one.
type Snapshot struct {
	version  uint64
	registry *feature.Registry
	tables   *tables
	classes  map[string]string
}

func emptySnapshot() *Snapshot {
	return &Snapshot{registry: feature.NewRegistry(), tables: &tables{}}
}

// Version increases with every build of the owning Resolver.
func (s *Snapshot) Version() uint64 {
	if s == nil {
		return 0
	}
	return s.version
}

// Registry exposes the features the snapshot was built from.
func (s *Snapshot) Registry() *feature.Registry {
	if s == nil {
		return nil
	}
	return s.registry
}

// Enabled reports whether a feature with this name exists and is enabled.
func (s *Snapshot) Enabled(name string) bool {
	return s != nil && s.registry.Enabled(name)
}

// EnabledFeatures returns the enabled features in registration order.
func (s *Snapshot) EnabledFeatures() []feature.Feature {
	if s == nil {
		return nil
	}
	return s.registry.EnabledFeatures()
}

func (s *Snapshot) t() *tables {
	if s == nil || s.tables == nil {
		return &tables{}
	}
	return s.tables
}

// ResolveMethod returns the replacement for "Type::method", falling back
// to a replacement declared for the whole type.
func (s *Snapshot) ResolveMethod(key string) (string, bool) {
	return s.t().methods.Resolve(key)
}

// ResolveModel returns the replacement model for "Type" or "Type::method".
func (s *Snapshot) ResolveModel(key string) (string, bool) {
	return s.t().models.Resolve(key)
}

// ResolveHelper returns the replacement helper path.
func (s *Snapshot) ResolveHelper(path string) (string, bool) {
	return s.t().helpers.Resolve(path)
}

// ExpandTemplatePaths adds the variants of every enabled feature that
// declares view filters. It is the identity in params mode or when view
// filtering is off.
func (s *Snapshot) ExpandTemplatePaths(patterns []string) []string {
	return ExpandTemplatePaths(patterns, s.t().views)
}

// FilterParams applies the legacy parameter filters. Outside params mode it
// returns an unchanged copy.
func (s *Snapshot) FilterParams(params map[string]string) map[string]string {
	return s.t().params.Apply(params)
}

// Classes returns the Document and Record replacements when at least one
// method or model override is active, nil otherwise.
func (s *Snapshot) Classes() map[string]string {
	if s == nil || len(s.classes) == 0 {
		return nil
	}
	if s.t().methods.Len() == 0 && s.t().models.Len() == 0 {
		return nil
	}
	return maps.Clone(s.classes)
}

// ViewFeatures names the features whose template variants are tried.
func (s *Snapshot) ViewFeatures() []string {
	return append([]string(nil), s.t().views...)
}

// Methods, Models and Helpers expose the compiled tables for inspection.
func (s *Snapshot) Methods() *Table { return s.t().methods }
func (s *Snapshot) Models() *Table  { return s.t().models }
func (s *Snapshot) Helpers() *Table { return s.t().helpers }

// Params exposes the legacy parameter filter, nil outside params mode.
func (s *Snapshot) Params() *ParamFilter { return s.t().params }
