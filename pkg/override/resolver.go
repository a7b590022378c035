package override

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/waffle/pkg/cache"
	"github.com/dmitrymomot/waffle/pkg/feature"
	"github.com/dmitrymomot/waffle/pkg/logger"
)

const tracerName = "github.com/dmitrymomot/waffle/pkg/override"

// Resolver builds snapshots from feature sources and publishes one of them
// as the process-wide view. Queries on the Resolver go to the published
// snapshot.
type Resolver struct {
	cfg      Config
	source   feature.Source
	provider feature.Provider
	settings map[string]map[string]string
	log      *slog.Logger
	tracer   trace.Tracer

	memo  *cache.LRU[string, *tables]
	group singleflight.Group

	version    atomic.Uint64
	generation atomic.Uint64
	current    atomic.Pointer[Snapshot]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithSources sets where features are discovered. Several sources are
// consulted in order.
func WithSources(sources ...feature.Source) Option {
	return func(r *Resolver) {
		switch len(sources) {
		case 0:
			r.source = nil
		case 1:
			r.source = sources[0]
		default:
			r.source = feature.Sources(sources)
		}
	}
}

// WithProvider sets the toggle provider that fixes each feature's enabled state.
func WithProvider(p feature.Provider) Option {
	return func(r *Resolver) { r.provider = p }
}

// WithSettings passes free-form settings to features by name.
func WithSettings(settings map[string]map[string]string) Option {
	return func(r *Resolver) { r.settings = settings }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// WithTracer overrides the tracer taken from the global provider.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithCacheSize overrides Config.CacheSize; 0 disables memoization.
func WithCacheSize(n int) Option {
	return func(r *Resolver) { r.cfg.CacheSize = n }
}

// New creates a Resolver. It publishes an empty snapshot until Init succeeds.
func New(cfg Config, opts ...Option) *Resolver {
	r := &Resolver{
		cfg:    cfg,
		log:    logger.Discard(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.With(logger.Component("override"))
	if r.cfg.CacheSize > 0 {
		r.memo = cache.NewLRU[string, *tables](r.cfg.CacheSize)
	}
	r.current.Store(emptySnapshot())
	return r
}

// Config returns the configuration the resolver was created with.
func (r *Resolver) Config() Config { return r.cfg }

// Build discovers and instantiates features with ctx and compiles a new
// snapshot without publishing it. Use it for per-request snapshots.
// Only invalid configuration makes it fail; discovery problems shrink the
// feature set instead.
func (r *Resolver) Build(ctx context.Context) (*Snapshot, error) {
	ctx, span := r.tracer.Start(ctx, "override.Build")
	defer span.End()

	if err := r.cfg.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid configuration")
		return nil, err
	}

	start := time.Now()
	gen := r.generation.Load()
	reg := feature.Build(ctx, feature.BuildOptions{
		Source:   r.source,
		Provider: r.provider,
		Patterns: r.cfg.Paths,
		Settings: r.settings,
		Logger:   r.log,
	})
	enabled := reg.EnabledFeatures()

	snap := &Snapshot{
		version:  r.version.Add(1),
		registry: reg,
		tables:   r.compile(gen, reg, enabled),
		classes:  r.cfg.Classes,
	}

	span.SetAttributes(
		attribute.Int64("waffle.snapshot.version", int64(snap.version)),
		attribute.Int("waffle.features.registered", reg.Len()),
		attribute.Int("waffle.features.enabled", len(enabled)),
	)
	r.log.DebugContext(ctx, "snapshot built",
		logger.Snapshot(snap.version),
		slog.Int("registered", reg.Len()),
		logger.Features(names(enabled)),
		logger.Duration(time.Since(start)),
	)
	return snap, nil
}

// Init rebuilds from scratch and atomically publishes the result. Readers
// holding the previous snapshot keep a consistent view. Sources that cache
// definitions are reloaded and memoized tables are dropped, so changed
// definitions are picked up. Builds still running against the old
// definitions cannot repopulate the memo.
func (r *Resolver) Init(ctx context.Context) (*Snapshot, error) {
	if rl, ok := r.source.(feature.Reloader); ok {
		rl.Reload()
	}
	r.generation.Add(1)
	if r.memo != nil {
		r.memo.Purge()
	}
	snap, err := r.Build(ctx)
	if err != nil {
		return nil, err
	}
	r.current.Store(snap)
	r.log.InfoContext(ctx, "snapshot published",
		logger.Snapshot(snap.version),
		logger.Features(names(snap.EnabledFeatures())),
	)
	return snap, nil
}

// Snapshot returns the published snapshot. A nil Resolver yields nil, which
// answers every query as if no feature existed.
func (r *Resolver) Snapshot() *Snapshot {
	if r == nil {
		return nil
	}
	return r.current.Load()
}

func (r *Resolver) compile(gen uint64, reg *feature.Registry, enabled []feature.Feature) *tables {
	if r.memo == nil {
		return compileTables(r.cfg, enabled)
	}
	key := r.memoKey(gen, reg, enabled)
	if t, ok := r.memo.Get(key); ok {
		return t
	}
	v, _, _ := r.group.Do(key, func() (any, error) {
		t := compileTables(r.cfg, enabled)
		r.memo.Put(key, t)
		return t, nil
	})
	return v.(*tables)
}

// memoKey identifies an enabled set by its names and type identifiers
// within one definition generation. Filters depend only on a feature's
// configuration, so equal keys compile to equal tables.
func (r *Resolver) memoKey(gen uint64, reg *feature.Registry, enabled []feature.Feature) string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(gen, 10))
	b.WriteByte(0)
	b.WriteString(r.cfg.toggles())
	for _, f := range enabled {
		b.WriteByte(0)
		b.WriteString(f.Name())
		b.WriteByte('=')
		b.WriteString(reg.Type(f.Name()))
	}
	return b.String()
}

func names(features []feature.Feature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Name()
	}
	return out
}

// Enabled reports whether the named feature is enabled in the published snapshot.
func (r *Resolver) Enabled(name string) bool { return r.Snapshot().Enabled(name) }

// EnabledFeatures lists the enabled features of the published snapshot.
func (r *Resolver) EnabledFeatures() []feature.Feature { return r.Snapshot().EnabledFeatures() }

func (r *Resolver) ResolveMethod(key string) (string, bool) { return r.Snapshot().ResolveMethod(key) }
func (r *Resolver) ResolveModel(key string) (string, bool)  { return r.Snapshot().ResolveModel(key) }
func (r *Resolver) ResolveHelper(path string) (string, bool) {
	return r.Snapshot().ResolveHelper(path)
}

func (r *Resolver) ExpandTemplatePaths(patterns []string) []string {
	return r.Snapshot().ExpandTemplatePaths(patterns)
}

func (r *Resolver) FilterParams(params map[string]string) map[string]string {
	return r.Snapshot().FilterParams(params)
}

func (r *Resolver) Classes() map[string]string { return r.Snapshot().Classes() }
