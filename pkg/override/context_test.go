package override_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waffle/pkg/override"
)

func TestSnapshotContext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	assert.Nil(t, override.FromContext(ctx))
	assert.Nil(t, override.FromContext(nil)) //nolint:staticcheck // nil context is tolerated

	r, _ := testResolver(t, override.DefaultConfig())
	snap, err := r.Init(ctx)
	require.NoError(t, err)

	got := override.FromContext(override.WithSnapshot(ctx, snap))
	assert.Same(t, snap, got)

	_, ok := override.FromContext(ctx).ResolveMethod("Blog::title")
	assert.False(t, ok, "missing snapshot resolves nothing")
}
