// Package environment carries the deployment environment through
// context.Context.
//
// The serve command installs Middleware with the configured WAFFLE_ENV so that
// feature.EnvironmentStrategy can read it back with FromContext while a
// per-request snapshot is built. LoggerExtractor tags log records with the
// same value.
//
//	ctx = environment.WithContext(ctx, "prod")
//	environment.Is(ctx, environment.Production) // true
package environment
