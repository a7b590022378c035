package feature_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waffle/pkg/feature"
)

const featurePattern = "{:library}/config/features/{:name}Feature"

type failingSource struct{}

func (failingSource) Discover(context.Context, []string) ([]string, error) {
	return nil, errors.New("disk on fire")
}

func (failingSource) Instantiate(context.Context, string, feature.Options) (feature.Feature, error) {
	return nil, feature.ErrUnknownType
}

type brokenProvider struct{ feature.MemoryProvider }

func (*brokenProvider) IsEnabled(context.Context, string) (bool, error) {
	return false, feature.ErrProviderUnavailable
}

func TestRegistry_Enabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := feature.NewCatalog("app")
	c.MustRegister("app/config/features/BasicFeature", ctorWith(nil, nil, nil))
	c.MustRegister("app/config/features/DarkFeature", ctorWith(nil, nil, nil))
	c.MustRegister("app/config/features/BetaFeature", ctorWith(nil, nil, nil))

	provider, err := feature.NewMemoryProvider(
		&feature.Flag{Name: "Basic", Enabled: true},
		&feature.Flag{Name: "Dark", Enabled: false},
		&feature.Flag{Name: "Beta", Enabled: true},
	)
	require.NoError(t, err)

	reg := feature.Build(ctx, feature.BuildOptions{
		Source:   c,
		Provider: provider,
		Patterns: []string{featurePattern},
	})

	assert.Equal(t, 3, reg.Len())
	assert.True(t, reg.Enabled("Basic"))
	assert.True(t, reg.Enabled("Beta"))
	assert.False(t, reg.Enabled("Dark"))
	assert.False(t, reg.Enabled("Missing"))
	assert.False(t, reg.Enabled(""))

	enabled := reg.EnabledFeatures()
	require.Len(t, enabled, 2)
	assert.Equal(t, "Basic", enabled[0].Name())
	assert.Equal(t, "Beta", enabled[1].Name())

	f, ok := reg.Get("Dark")
	require.True(t, ok)
	assert.False(t, f.Enabled())
	assert.Equal(t, "app/config/features/DarkFeature", reg.Type("Dark"))
}

func TestRegistry_UnknownToggleDefaultsToDisabled(t *testing.T) {
	t.Parallel()

	c := feature.NewCatalog("app")
	c.MustRegister("app/config/features/BasicFeature", ctorWith(nil, nil, nil))

	reg := feature.Build(context.Background(), feature.BuildOptions{
		Source:   c,
		Patterns: []string{featurePattern},
	})
	require.Equal(t, 1, reg.Len())
	assert.False(t, reg.Enabled("Basic"))

	reg = feature.Build(context.Background(), feature.BuildOptions{
		Source:   c,
		Provider: &brokenProvider{},
		Patterns: []string{featurePattern},
	})
	assert.False(t, reg.Enabled("Basic"))
}

func TestRegistry_NameCollisionLaterWins(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	c := feature.NewCatalog("app", "blog")
	c.MustRegister("app/config/features/PromoFeature", ctorWith(map[string]string{"A": "first"}, nil, nil))
	c.MustRegister("app/config/features/OtherFeature", ctorWith(nil, nil, nil))
	c.MustRegister("blog/config/features/PromoFeature", ctorWith(map[string]string{"A": "second"}, nil, nil))

	provider, _ := feature.NewMemoryProvider(&feature.Flag{Name: "Promo", Enabled: true})
	reg := feature.Build(context.Background(), feature.BuildOptions{
		Source:   c,
		Provider: provider,
		Patterns: []string{featurePattern},
		Logger:   log,
	})

	require.Equal(t, 2, reg.Len())
	all := reg.All()
	assert.Equal(t, "Promo", all[0].Name(), "first position is kept")
	assert.Equal(t, "second", all[0].MethodFilters()["A"])
	assert.Equal(t, "blog/config/features/PromoFeature", reg.Type("Promo"))
	assert.Contains(t, buf.String(), "feature name collision")
}

func TestBuild_DegradesGracefully(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no source", func(t *testing.T) {
		t.Parallel()
		reg := feature.Build(ctx, feature.BuildOptions{})
		assert.Equal(t, 0, reg.Len())
		assert.Empty(t, reg.EnabledFeatures())
	})

	t.Run("discovery failure", func(t *testing.T) {
		t.Parallel()
		reg := feature.Build(ctx, feature.BuildOptions{
			Source:   failingSource{},
			Patterns: []string{featurePattern},
		})
		assert.Equal(t, 0, reg.Len())
	})

	t.Run("failing source does not hide others", func(t *testing.T) {
		t.Parallel()
		c := feature.NewCatalog("app")
		c.MustRegister("app/config/features/BasicFeature", ctorWith(nil, nil, nil))
		reg := feature.Build(ctx, feature.BuildOptions{
			Source:   feature.Sources{failingSource{}, c},
			Patterns: []string{featurePattern},
		})
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("constructor failure skips feature", func(t *testing.T) {
		t.Parallel()
		c := feature.NewCatalog("app")
		c.MustRegister("app/config/features/BadFeature",
			func(context.Context, feature.Options) (feature.Feature, error) {
				return nil, errors.New("boom")
			})
		c.MustRegister("app/config/features/GoodFeature", ctorWith(nil, nil, nil))
		reg := feature.Build(ctx, feature.BuildOptions{
			Source:   c,
			Patterns: []string{featurePattern},
		})
		assert.Equal(t, 1, reg.Len())
		_, ok := reg.Get("Good")
		assert.True(t, ok)
	})

	t.Run("file and catalog sources together", func(t *testing.T) {
		t.Parallel()
		c := feature.NewCatalog("app")
		c.MustRegister("app/config/features/BasicFeature", ctorWith(nil, nil, nil))
		provider, _ := feature.NewMemoryProvider(&feature.Flag{Name: "Basic", Enabled: true})

		reg := feature.Build(ctx, feature.BuildOptions{
			Source:   feature.Sources{c, feature.NewFileSource(testFS(), "app")},
			Provider: provider,
			Patterns: []string{featurePattern},
		})
		assert.True(t, reg.Enabled("Basic"))
		assert.True(t, reg.Enabled("Promo"))
		assert.False(t, reg.Enabled("Beta"))
		_, ok := reg.Get("Broken")
		assert.False(t, ok)
	})
}

func TestBuild_SettingsPassedByName(t *testing.T) {
	t.Parallel()

	var got map[string]string
	c := feature.NewCatalog("app")
	c.MustRegister("app/config/features/PromoFeature",
		func(ctx context.Context, opts feature.Options) (feature.Feature, error) {
			got = opts.Settings
			return &promoFeature{Base: feature.NewBase(opts)}, nil
		})

	feature.Build(context.Background(), feature.BuildOptions{
		Source:   c,
		Patterns: []string{featurePattern},
		Settings: map[string]map[string]string{"Promo": {"banner": "spring"}},
	})
	assert.Equal(t, map[string]string{"banner": "spring"}, got)
}

func TestNilRegistry(t *testing.T) {
	t.Parallel()

	var reg *feature.Registry
	assert.False(t, reg.Enabled("Basic"))
	assert.Nil(t, reg.EnabledFeatures())
	assert.Nil(t, reg.All())
	assert.Equal(t, 0, reg.Len())
	_, ok := reg.Get("Basic")
	assert.False(t, ok)
}
