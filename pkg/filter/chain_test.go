package filter_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waffle/pkg/filter"
)

func echo(_ context.Context, s string) (string, error) { return s, nil }

func tag(label string) filter.Interceptor[string, string] {
	return func(ctx context.Context, s string, next filter.Next[string, string]) (string, error) {
		out, err := next(ctx, s+">"+label)
		return out + "<" + label, err
	}
}

func TestChain_Run(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty chain calls final", func(t *testing.T) {
		t.Parallel()
		out, err := filter.New[string, string]().Run(ctx, "x", echo)
		require.NoError(t, err)
		assert.Equal(t, "x", out)

		var nilChain *filter.Chain[string, string]
		out, err = nilChain.Run(ctx, "y", echo)
		require.NoError(t, err)
		assert.Equal(t, "y", out)
		assert.Equal(t, 0, nilChain.Len())
	})

	t.Run("first interceptor is outermost", func(t *testing.T) {
		t.Parallel()
		c := filter.New[string, string](tag("a"), nil, tag("b"))
		assert.Equal(t, 2, c.Len())

		out, err := c.Run(ctx, "x", echo)
		require.NoError(t, err)
		assert.Equal(t, "x>a>b<b<a", out)
	})

	t.Run("short circuit", func(t *testing.T) {
		t.Parallel()
		called := false
		c := filter.New[string, string](func(ctx context.Context, s string, next filter.Next[string, string]) (string, error) {
			return "cached", nil
		})
		out, err := c.Run(ctx, "x", func(context.Context, string) (string, error) {
			called = true
			return "", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "cached", out)
		assert.False(t, called)
	})

	t.Run("rewrites params", func(t *testing.T) {
		t.Parallel()
		c := filter.New[string, string]()
		c.Use(func(ctx context.Context, s string, next filter.Next[string, string]) (string, error) {
			if strings.HasSuffix(s, "Document") {
				s = "PromoDocument"
			}
			return next(ctx, s)
		})
		out, err := c.Run(ctx, "BlogDocument", echo)
		require.NoError(t, err)
		assert.Equal(t, "PromoDocument", out)
	})

	t.Run("errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		c := filter.New(tag("a"))
		_, err := c.Run(ctx, "x", func(context.Context, string) (string, error) { return "", boom })
		assert.ErrorIs(t, err, boom)
	})
}
