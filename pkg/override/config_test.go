package override_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waffle/pkg/override"
)

// LoadConfig tests mutate the process environment and must not run in parallel.

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := override.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, override.DefaultConfig(), cfg)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("WAFFLE_PATHS", " {:library}/features/{:name}Feature , ,{:library}/extra/{:name}Feature")
	t.Setenv("WAFFLE_LIBRARIES", "app,shop")
	t.Setenv("WAFFLE_MODEL_FILTERING", "false")
	t.Setenv("WAFFLE_VIEW_MODE", " Params ")
	t.Setenv("WAFFLE_CLASSES", "Document:shop/Document")
	t.Setenv("WAFFLE_CACHE_SIZE", "0")

	cfg, err := override.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"{:library}/features/{:name}Feature", "{:library}/extra/{:name}Feature"}, cfg.Paths)
	assert.Equal(t, []string{"app", "shop"}, cfg.Libraries)
	assert.True(t, cfg.MethodFiltering)
	assert.False(t, cfg.ModelFiltering)
	assert.Equal(t, override.ViewModeParams, cfg.ViewMode)
	assert.Equal(t, map[string]string{override.ClassDocument: "shop/Document"}, cfg.Classes)
	assert.Equal(t, 0, cfg.CacheSize)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("unknown view mode", func(t *testing.T) {
		t.Setenv("WAFFLE_VIEW_MODE", "templates")
		_, err := override.LoadConfig()
		require.ErrorIs(t, err, override.ErrInvalidConfig)
		assert.Contains(t, err.Error(), `unknown view mode "templates"`)
	})

	t.Run("unparsable toggle", func(t *testing.T) {
		t.Setenv("WAFFLE_METHOD_FILTERING", "sometimes")
		_, err := override.LoadConfig()
		require.ErrorIs(t, err, override.ErrInvalidConfig)
	})

	t.Run("unknown class kind", func(t *testing.T) {
		t.Setenv("WAFFLE_CLASSES", "Widget:app/Widget")
		_, err := override.LoadConfig()
		require.ErrorIs(t, err, override.ErrInvalidConfig)
		assert.Contains(t, err.Error(), `unknown class kind "Widget"`)
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*override.Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*override.Config) {}},
		{
			name:    "no paths",
			mutate:  func(c *override.Config) { c.Paths = []string{" "} },
			wantErr: "at least one discovery path is required",
		},
		{
			name:    "negative cache",
			mutate:  func(c *override.Config) { c.CacheSize = -1 },
			wantErr: "cache size must not be negative",
		},
		{
			name:    "empty class replacement",
			mutate:  func(c *override.Config) { c.Classes[override.ClassRecord] = "" },
			wantErr: `empty replacement for class "Record"`,
		},
		{
			name:   "no classes",
			mutate: func(c *override.Config) { c.Classes = nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := override.DefaultConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, override.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
