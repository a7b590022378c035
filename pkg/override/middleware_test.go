package override_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/waffle/pkg/environment"
	"github.com/dmitrymomot/waffle/pkg/feature"
	"github.com/dmitrymomot/waffle/pkg/override"
)

func stagingResolver(t *testing.T, cfg override.Config) *override.Resolver {
	t.Helper()

	c := feature.NewCatalog("app")
	c.MustRegister(featureDir+"StagingFeature", stubCtor(
		methods(map[string]string{"Blog::title": "Blog::titleStaging"}),
	))
	provider, err := feature.NewMemoryProvider(&feature.Flag{
		Name:     "Staging",
		Enabled:  true,
		Strategy: feature.NewEnvironmentStrategy([]string{string(environment.Staging)}),
	})
	require.NoError(t, err)
	return override.New(cfg, override.WithSources(c), override.WithProvider(provider))
}

// captureSnapshot records the snapshot the handler saw.
func captureSnapshot(mw func(http.Handler) http.Handler, env string) *override.Snapshot {
	var got *override.Snapshot
	h := environment.Middleware(env)(mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = override.FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	return got
}

func TestMiddleware_PerRequest(t *testing.T) {
	t.Parallel()

	r := stagingResolver(t, override.DefaultConfig())
	published, err := r.Init(context.Background())
	require.NoError(t, err)
	require.False(t, published.Enabled("Staging"), "no environment at init")

	snap := captureSnapshot(override.Middleware(r), "stage")
	require.NotNil(t, snap)
	assert.True(t, snap.Enabled("Staging"))
	got, ok := snap.ResolveMethod("Blog::title")
	require.True(t, ok)
	assert.Equal(t, "Blog::titleStaging", got)

	snap = captureSnapshot(override.Middleware(r), "production")
	require.NotNil(t, snap)
	assert.False(t, snap.Enabled("Staging"))

	assert.Same(t, published, r.Snapshot(), "requests never publish")
}

func TestMiddleware_PublishedSnapshot(t *testing.T) {
	t.Parallel()

	r := stagingResolver(t, override.DefaultConfig())
	published, err := r.Init(context.Background())
	require.NoError(t, err)

	snap := captureSnapshot(override.Middleware(r, override.WithPublishedSnapshot()), "staging")
	assert.Same(t, published, snap)
	assert.False(t, snap.Enabled("Staging"))
}

func TestMiddleware_FallsBackOnBuildError(t *testing.T) {
	t.Parallel()

	cfg := override.DefaultConfig()
	cfg.ViewMode = "bogus"
	r := stagingResolver(t, cfg)

	snap := captureSnapshot(override.Middleware(r), "staging")
	require.NotNil(t, snap)
	assert.Same(t, r.Snapshot(), snap)
	assert.Equal(t, uint64(0), snap.Version())
}
