// Package override turns the enabled features of a registry into lookup
// tables and answers override queries from the entity, view and helper
// layers.
//
// A Resolver discovers features through feature.Source implementations,
// asks a feature.Provider which of them are enabled, and compiles:
//
//   - method, model and helper Tables, merged in registration order with
//     the later feature winning a key collision. Resolve tries the exact
//     key first and then the type part of a "Type::method" key.
//   - the names of features owning template variants, used by
//     ExpandTemplatePaths to put feature-specific paths first.
//   - in the legacy params view mode, a ParamFilter that rewrites render
//     parameters.
//
// The result is an immutable Snapshot. Init publishes it with an atomic
// swap, so concurrent readers see either the old or the new snapshot and
// never a partial one. Build returns a snapshot without publishing it; the
// HTTP Middleware uses it to resolve features per request and stores the
// result in the request context.
//
//	r := override.New(cfg,
//		override.WithSources(catalog, feature.NewFileSource(os.DirFS("."), cfg.Libraries...)),
//		override.WithProvider(provider),
//		override.WithLogger(log),
//	)
//	if _, err := r.Init(ctx); err != nil {
//		return err // configuration problems are fatal
//	}
//	target, ok := r.ResolveMethod("app/models/Blog::title")
//
// Lookups never fail: a missing override is reported with ok == false.
package override
