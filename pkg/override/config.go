package override

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dmitrymomot/waffle/pkg/config"
)

// ViewMode selects how enabled features redirect templates.
type ViewMode string

const (
	// ViewModePaths rewrites candidate template paths so feature variants
	// are tried before the originals.
	ViewModePaths ViewMode = "paths"
	// ViewModeParams applies the legacy render parameter filters.
	ViewModeParams ViewMode = "params"
)

// Well-known entity kinds that can be swapped wholesale.
const (
	ClassDocument = "Document"
	ClassRecord   = "Record"
)

// DefaultPath is the discovery pattern used when none is configured.
const DefaultPath = "{:library}/config/features/{:name}Feature"

// Config drives discovery and table builds.
type Config struct {
	Paths     []string `env:"WAFFLE_PATHS" envSeparator:"," envDefault:"{:library}/config/features/{:name}Feature"`
	Libraries []string `env:"WAFFLE_LIBRARIES" envSeparator:"," envDefault:"app"`

	MethodFiltering bool     `env:"WAFFLE_METHOD_FILTERING" envDefault:"true"`
	ModelFiltering  bool     `env:"WAFFLE_MODEL_FILTERING" envDefault:"true"`
	HelperFiltering bool     `env:"WAFFLE_HELPER_FILTERING" envDefault:"true"`
	ViewFiltering   bool     `env:"WAFFLE_VIEW_FILTERING" envDefault:"true"`
	ViewMode        ViewMode `env:"WAFFLE_VIEW_MODE" envDefault:"paths"`

	// Classes maps ClassDocument and ClassRecord to their replacement classes.
	Classes map[string]string `env:"WAFFLE_CLASSES" envSeparator:"," envKeyValSeparator:":" envDefault:"Document:waffle/entity/Document,Record:waffle/entity/Record"`

	// CacheSize bounds the number of memoized table sets; 0 disables memoization.
	CacheSize int `env:"WAFFLE_CACHE_SIZE" envDefault:"64"`
}

// DefaultConfig mirrors the environment defaults.
func DefaultConfig() Config {
	return Config{
		Paths:           []string{DefaultPath},
		Libraries:       []string{"app"},
		MethodFiltering: true,
		ModelFiltering:  true,
		HelperFiltering: true,
		ViewFiltering:   true,
		ViewMode:        ViewModePaths,
		Classes: map[string]string{
			ClassDocument: "waffle/entity/Document",
			ClassRecord:   "waffle/entity/Record",
		},
		CacheSize: 64,
	}
}

// LoadConfig reads WAFFLE_* variables and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Paths = trimAll(c.Paths)
	c.Libraries = trimAll(c.Libraries)
	c.ViewMode = ViewMode(strings.ToLower(strings.TrimSpace(string(c.ViewMode))))
	if c.ViewMode == "" {
		c.ViewMode = ViewModePaths
	}
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Validate reports configuration problems joined with ErrInvalidConfig.
func (c Config) Validate() error {
	var errs []error
	if len(trimAll(c.Paths)) == 0 {
		errs = append(errs, errors.New("at least one discovery path is required"))
	}
	switch c.ViewMode {
	case ViewModePaths, ViewModeParams:
	default:
		errs = append(errs, fmt.Errorf("unknown view mode %q", c.ViewMode))
	}
	for _, k := range slices.Sorted(maps.Keys(c.Classes)) {
		if k != ClassDocument && k != ClassRecord {
			errs = append(errs, fmt.Errorf("unknown class kind %q", k))
		} else if strings.TrimSpace(c.Classes[k]) == "" {
			errs = append(errs, fmt.Errorf("empty replacement for class %q", k))
		}
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache size must not be negative, got %d", c.CacheSize))
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
}

// toggles identifies the table-shaping switches in memoization keys.
func (c Config) toggles() string {
	flag := func(b bool) byte {
		if b {
			return '1'
		}
		return '0'
	}
	return string([]byte{
		flag(c.MethodFiltering), flag(c.ModelFiltering),
		flag(c.HelperFiltering), flag(c.ViewFiltering),
	}) + string(c.ViewMode)
}
