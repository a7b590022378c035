// Package httpserver runs the waffle debug API with graceful shutdown.
//
// Server listens on the configured address and blocks in Run until the
// context is cancelled, SIGINT or SIGTERM arrives, or Shutdown is called.
// Errors are joined with ErrStart or ErrShutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//	r.Get("/readyz", httpserver.HealthCheckHandler(log,
//		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)},
//	))
//	err := srv.Run(ctx, r)
package httpserver
