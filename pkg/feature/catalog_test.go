package feature_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waffle/pkg/feature"
)

func TestCatalog_Register(t *testing.T) {
	t.Parallel()

	c := feature.NewCatalog()
	ctor := ctorWith(nil, nil, nil)

	require.NoError(t, c.Register("app/config/features/PromoFeature", ctor))
	require.ErrorIs(t, c.Register("app/config/features/PromoFeature", ctor), feature.ErrDuplicateType)
	require.ErrorIs(t, c.Register("", ctor), feature.ErrInvalidType)
	require.ErrorIs(t, c.Register("x", nil), feature.ErrInvalidType)

	assert.Panics(t, func() { c.MustRegister("app/config/features/PromoFeature", ctor) })
	assert.Equal(t, []string{"app/config/features/PromoFeature"}, c.Types())
}

func TestCatalog_Discover(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := feature.NewCatalog("app", "blog_lib")
	for _, id := range []string{
		"app/config/features/PromoFeature",
		"blog_lib/config/features/BasicFeature",
		"vendor/config/features/OtherFeature",
		"app/config/features/nested/DeepFeature",
		"app/config/Helper",
	} {
		c.MustRegister(id, ctorWith(nil, nil, nil))
	}

	t.Run("library placeholder restricted to libraries", func(t *testing.T) {
		t.Parallel()
		ids, err := c.Discover(ctx, []string{"{:library}/config/features/{:name}Feature"})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"app/config/features/PromoFeature",
			"blog_lib/config/features/BasicFeature",
		}, ids)
	})

	t.Run("patterns in order without duplicates", func(t *testing.T) {
		t.Parallel()
		ids, err := c.Discover(ctx, []string{
			"blog_lib/config/features/{:name}Feature",
			"{:library}/config/features/{:name}Feature",
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"blog_lib/config/features/BasicFeature",
			"app/config/features/PromoFeature",
		}, ids)
	})

	t.Run("backslash patterns", func(t *testing.T) {
		t.Parallel()
		ids, err := c.Discover(ctx, []string{`{:library}\config\features\{:name}Feature`})
		require.NoError(t, err)
		assert.Len(t, ids, 2)
	})

	t.Run("any library without configuration", func(t *testing.T) {
		t.Parallel()
		open := feature.NewCatalog()
		open.MustRegister("vendor/config/features/OtherFeature", ctorWith(nil, nil, nil))
		ids, err := open.Discover(ctx, []string{"{:library}/config/features/{:name}Feature"})
		require.NoError(t, err)
		assert.Equal(t, []string{"vendor/config/features/OtherFeature"}, ids)
	})

	t.Run("no patterns", func(t *testing.T) {
		t.Parallel()
		ids, err := c.Discover(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})
}

func TestCatalog_Instantiate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := feature.NewCatalog()
	c.MustRegister("app/config/features/PromoFeature", ctorWith(nil, nil, nil))

	f, err := c.Instantiate(ctx, "app/config/features/PromoFeature", feature.Options{Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, "Promo", f.Name())
	assert.True(t, f.Enabled())

	_, err = c.Instantiate(ctx, "app/config/features/MissingFeature", feature.Options{})
	assert.ErrorIs(t, err, feature.ErrUnknownType)
}
