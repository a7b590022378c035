// Package feature defines toggleable features and builds the per-cycle
// registry that the override package compiles into lookup tables.
//
// A feature is a named unit of behavior that, while enabled, redirects
// lookups made elsewhere in the application: entity methods, whole models,
// helpers and templates. Features come from a Source:
//
//   - Catalog: an explicit registry of Go constructors keyed by type
//     identifier, e.g. "app/config/features/PromoFeature".
//   - FileSource: declarative YAML or TOML definitions read from an fs.FS.
//
// The enabled state of every feature is fixed at construction from a
// Provider. MemoryProvider evaluates rollout strategies against the
// initialization context; RedisProvider and PostgresProvider share plain
// on/off toggles between processes. A definition file without a provider
// toggle may narrow itself with a rollout section, which is evaluated the
// same way.
//
// # Usage
//
//	catalog := feature.NewCatalog("app")
//	catalog.MustRegister("app/config/features/PromoFeature",
//		func(ctx context.Context, opts feature.Options) (feature.Feature, error) {
//			return &PromoFeature{Base: feature.NewBase(opts)}, nil
//		})
//
//	provider, _ := feature.NewMemoryProvider(&feature.Flag{Name: "Promo", Enabled: true})
//
//	reg := feature.Build(ctx, feature.BuildOptions{
//		Source:   catalog,
//		Provider: provider,
//		Patterns: []string{"{:library}/config/features/{:name}Feature"},
//	})
//	reg.Enabled("Promo") // true
//
// Names are derived from the type identifier by dropping the "Feature"
// suffix. Two types deriving the same name collide: the later one wins.
//
// # Errors
//
// Discovery and instantiation problems never fail a build; they shrink the
// feature set and are logged. Provider methods return ErrFlagNotFound for
// unknown names and ErrProviderUnavailable when storage cannot be reached.
package feature
