package override

import (
	"net/http"

	"github.com/dmitrymomot/waffle/pkg/logger"
)

type middlewareConfig struct {
	perRequest bool
}

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

// WithPublishedSnapshot attaches the published snapshot instead of building
// one per request. Request-scoped rollout strategies are then ignored.
func WithPublishedSnapshot() MiddlewareOption {
	return func(c *middlewareConfig) { c.perRequest = false }
}

// Middleware builds a snapshot from each request context, so features
// whose toggles depend on the request (user, environment) resolve per
// request, and attaches it with WithSnapshot. The published snapshot is
// never replaced. If a build fails the published snapshot is used.
func Middleware(r *Resolver, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{perRequest: true}
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()
			snap := r.Snapshot()
			if cfg.perRequest {
				built, err := r.Build(ctx)
				if err != nil {
					r.log.WarnContext(ctx, "per-request snapshot failed, using published one", logger.Error(err))
				} else {
					snap = built
				}
			}
			next.ServeHTTP(w, req.WithContext(WithSnapshot(ctx, snap)))
		})
	}
}
