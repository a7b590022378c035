package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/waffle/pkg/config"
	"github.com/dmitrymomot/waffle/pkg/environment"
	"github.com/dmitrymomot/waffle/pkg/httpserver"
	"github.com/dmitrymomot/waffle/pkg/logger"
	"github.com/dmitrymomot/waffle/pkg/override"
	"github.com/dmitrymomot/waffle/pkg/requestid"
	"github.com/dmitrymomot/waffle/pkg/view"
)

func newServeCmd(o *rootOptions) *cobra.Command {
	var published bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the override queries as a JSON debug API",
		Long: `serve publishes a snapshot at startup and answers queries over HTTP.
Each request builds its own snapshot from the request context unless
--published is set. POST /reload republishes after definitions change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, o, cmd.ErrOrStderr(), true)
			if err != nil {
				return err
			}
			defer a.Close()

			var hc httpserver.Config
			if err := config.Parse(&hc); err != nil {
				return err
			}
			if _, err := a.snapshot(ctx); err != nil {
				return err
			}

			srv := httpserver.NewFromConfig(hc, httpserver.WithLogger(a.log))
			return srv.Run(ctx, newRouter(a, published))
		},
	}
	cmd.Flags().BoolVar(&published, "published", false, "answer from the published snapshot instead of per-request builds")
	return cmd
}

func newRouter(a *app, published bool) http.Handler {
	var mwOpts []override.MiddlewareOption
	if published {
		mwOpts = append(mwOpts, override.WithPublishedSnapshot())
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requestLogger(a.log))

	r.Get("/healthz", httpserver.HealthCheckHandler(a.log))
	r.Get("/readyz", httpserver.HealthCheckHandler(a.log, a.checks...))
	r.Post("/reload", reloadHandler(a))

	r.Group(func(r chi.Router) {
		r.Use(environment.Middleware(a.settings.Env))
		r.Use(override.Middleware(a.resolver, mwOpts...))

		r.Get("/features", featuresHandler)
		r.Get("/resolve/{kind}", resolveHandler)
		r.Get("/expand", expandHandler)
		r.Get("/params", paramsHandler)
		r.Get("/locate/{kind}", locateHandler(a))
	})
	return r
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.DebugContext(r.Context(), "request served",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}

func respond(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, code int, err error) {
	respond(w, code, map[string]string{"error": err.Error()})
}

// queryParams keeps the first value of every query parameter.
func queryParams(r *http.Request) map[string]string {
	params := make(map[string]string)
	for k, v := range r.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

func featuresHandler(w http.ResponseWriter, r *http.Request) {
	snap := override.FromContext(r.Context())
	respond(w, http.StatusOK, map[string]any{
		"version":  snap.Version(),
		"features": describe(snap.Registry()),
	})
}

func resolveHandler(w http.ResponseWriter, r *http.Request) {
	res, err := resolve(override.FromContext(r.Context()), chi.URLParam(r, "kind"), r.URL.Query().Get("key"))
	if err != nil {
		respondError(w, http.StatusNotFound, err)
		return
	}
	respond(w, http.StatusOK, res)
}

func expandHandler(w http.ResponseWriter, r *http.Request) {
	patterns := r.URL.Query()["pattern"]
	respond(w, http.StatusOK, map[string]any{
		"paths": override.FromContext(r.Context()).ExpandTemplatePaths(patterns),
	})
}

func paramsHandler(w http.ResponseWriter, r *http.Request) {
	params := queryParams(r)
	filtered := override.FromContext(r.Context()).FilterParams(params)
	respond(w, http.StatusOK, map[string]any{
		"params":  filtered,
		"changed": !maps.Equal(params, filtered),
	})
}

func reloadHandler(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := a.snapshot(r.Context())
		if err != nil {
			a.log.ErrorContext(r.Context(), "reload failed", logger.Error(err))
			respondError(w, http.StatusInternalServerError, err)
			return
		}
		respond(w, http.StatusOK, map[string]any{
			"version": snap.Version(),
			"enabled": len(snap.EnabledFeatures()),
		})
	}
}

func locateHandler(a *app) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := queryParams(r)
		kind := chi.URLParam(r, "kind")
		name, err := a.views.Locate(r.Context(), override.FromContext(r.Context()), kind, params)
		switch {
		case errors.Is(err, view.ErrUnknownKind), errors.Is(err, view.ErrTemplateNotFound):
			respondError(w, http.StatusNotFound, err)
		case err != nil:
			respondError(w, http.StatusInternalServerError, err)
		default:
			respond(w, http.StatusOK, map[string]string{"kind": kind, "path": name})
		}
	}
}
