package feature

import (
	"bytes"
	"errors"
	"io"
	"maps"
	"path"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Definition is a declarative feature read from a YAML or TOML file. The
// feature name always comes from the file name, so toggles keyed by name
// line up with catalog features.
type Definition struct {
	Enabled  bool              `yaml:"enabled" toml:"enabled"`
	Settings map[string]string `yaml:"settings" toml:"settings"`
	Methods  map[string]string `yaml:"methods" toml:"methods"`
	Models   map[string]string `yaml:"models" toml:"models"`
	Helpers  map[string]string `yaml:"helpers" toml:"helpers"`
	Views    []ViewSpec        `yaml:"views" toml:"views"`
	Rollout  *Rollout          `yaml:"rollout" toml:"rollout"`
}

// Rollout narrows an enabled definition to part of the initialization
// contexts. It only applies when no provider toggle exists for the feature.
type Rollout struct {
	Environments []string `yaml:"environments" toml:"environments"`
	Users        []string `yaml:"users" toml:"users"`
	Groups       []string `yaml:"groups" toml:"groups"`
	Percentage   *int     `yaml:"percentage" toml:"percentage"`
	Allow        []string `yaml:"allow" toml:"allow"`
	Deny         []string `yaml:"deny" toml:"deny"`
}

// Strategy turns the rollout into a strategy. Environments and targeting
// both have to pass when both are given.
func (r *Rollout) Strategy(opts ...TargetedStrategyOption) Strategy {
	var parts []Strategy
	if len(r.Environments) > 0 {
		parts = append(parts, NewEnvironmentStrategy(r.Environments))
	}
	criteria := TargetCriteria{
		UserIDs:    r.Users,
		Groups:     r.Groups,
		Percentage: r.Percentage,
		AllowList:  r.Allow,
		DenyList:   r.Deny,
	}
	if len(criteria.UserIDs) > 0 || len(criteria.Groups) > 0 || criteria.Percentage != nil ||
		len(criteria.AllowList) > 0 || len(criteria.DenyList) > 0 {
		parts = append(parts, NewTargetedStrategy(criteria, opts...))
	}
	switch len(parts) {
	case 0:
		return NewAlwaysOnStrategy()
	case 1:
		return parts[0]
	}
	return NewAndStrategy(parts...)
}

// ViewSpec is one entry of a definition's views list. Either Match and
// Replace are given, or Swap in the compact SwapView form.
type ViewSpec struct {
	Match   map[string]string `yaml:"match" toml:"match"`
	Replace map[string]string `yaml:"replace" toml:"replace"`
	Swap    map[string]any    `yaml:"swap" toml:"swap"`
}

// ParseDefinition decodes a definition; format is picked from the file extension.
func ParseDefinition(name string, data []byte) (*Definition, error) {
	var def Definition
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Join(ErrInvalidDefinition, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return nil, errors.Join(ErrInvalidDefinition, err)
		}
	default:
		return nil, errors.Join(ErrInvalidDefinition, errors.New("unsupported extension "+path.Ext(name)))
	}
	return &def, nil
}

// New instantiates the definition as a Feature. A provider toggle wins over
// the enabled value of the file.
func (d *Definition) New(opts Options) Feature {
	if !opts.FromProvider {
		opts.Enabled = d.Enabled
	}
	if len(d.Settings) > 0 {
		settings := maps.Clone(d.Settings)
		maps.Copy(settings, opts.Settings)
		opts.Settings = settings
	}

	base := NewBase(opts)
	views := make([]ViewFilter, 0, len(d.Views))
	for _, v := range d.Views {
		if len(v.Swap) > 0 {
			views = append(views, SwapView(v.Swap))
			continue
		}
		views = append(views, ViewFilter{Match: maps.Clone(v.Match), Replace: maps.Clone(v.Replace)})
	}

	return &definitionFeature{
		Base:    base,
		methods: maps.Clone(d.Methods),
		models:  maps.Clone(d.Models),
		helpers: maps.Clone(d.Helpers),
		views:   views,
	}
}

type definitionFeature struct {
	Base
	methods map[string]string
	models  map[string]string
	helpers map[string]string
	views   []ViewFilter
}

func (f *definitionFeature) MethodFilters() map[string]string { return maps.Clone(f.methods) }
func (f *definitionFeature) ModelFilters() map[string]string  { return maps.Clone(f.models) }
func (f *definitionFeature) HelperFilters() map[string]string { return maps.Clone(f.helpers) }
func (f *definitionFeature) ViewFilters() []ViewFilter {
	out := make([]ViewFilter, len(f.views))
	for i, v := range f.views {
		out[i] = ViewFilter{Match: maps.Clone(v.Match), Replace: maps.Clone(v.Replace)}
	}
	return out
}
