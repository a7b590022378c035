// Package logger builds the slog loggers used across waffle.
//
// New returns a *slog.Logger whose handler runs context extractors on every
// record, so request-scoped values (environment, trace and request ids) show
// up without being threaded through call sites:
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, "waffle"),
//		logger.WithContextExtractors(
//			environment.LoggerExtractor(),
//			logger.TraceExtractor(),
//		),
//	)
//	log.InfoContext(ctx, "snapshot published", logger.Snapshot(snap.Version()))
//
// The attribute helpers (Feature, Snapshot, Override, ...) keep key names
// consistent between packages.
package logger
