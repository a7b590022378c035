package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dmitrymomot/waffle/pkg/config"
	"github.com/dmitrymomot/waffle/pkg/environment"
	"github.com/dmitrymomot/waffle/pkg/feature"
	"github.com/dmitrymomot/waffle/pkg/httpserver"
	"github.com/dmitrymomot/waffle/pkg/logger"
	"github.com/dmitrymomot/waffle/pkg/override"
	"github.com/dmitrymomot/waffle/pkg/pg"
	"github.com/dmitrymomot/waffle/pkg/redis"
	"github.com/dmitrymomot/waffle/pkg/requestid"
	"github.com/dmitrymomot/waffle/pkg/view"
)

const (
	providerMemory   = "memory"
	providerRedis    = "redis"
	providerPostgres = "postgres"
)

var errUnknownProvider = errors.New("unknown flag provider")

// settings are the process-level knobs; override.Config holds the resolver ones.
type settings struct {
	Env      string          `env:"WAFFLE_ENV" envDefault:"development"`
	Service  string          `env:"WAFFLE_SERVICE" envDefault:"waffle"`
	LogLevel string          `env:"WAFFLE_LOG_LEVEL"`
	Root     string          `env:"WAFFLE_ROOT" envDefault:"."`
	Provider string          `env:"WAFFLE_PROVIDER" envDefault:"memory"`
	Flags    map[string]bool `env:"WAFFLE_FLAGS" envSeparator:"," envKeyValSeparator:":"` // Seeds the memory provider, e.g. Promo:true,Beta:false.

	Templates []string `env:"WAFFLE_TEMPLATE_PATTERNS" envSeparator:"," envDefault:"app/views/{:controller}/{:template}.{:type}.tmpl"`
	Layouts   []string `env:"WAFFLE_LAYOUT_PATTERNS" envSeparator:"," envDefault:"app/views/layouts/{:layout}.{:type}.tmpl"`
}

// app holds what every command needs: logger, flag provider and resolver.
type app struct {
	settings settings
	log      *slog.Logger
	provider feature.Provider
	resolver *override.Resolver
	views    *view.Locator
	checks   []httpserver.Check
	closers  []func()
}

func newApp(ctx context.Context, o *rootOptions, logOut io.Writer, serving bool) (*app, error) {
	var s settings
	if err := config.Parse(&s); err != nil {
		return nil, err
	}
	if o.root != "" {
		s.Root = o.root
	}
	if o.provider != "" {
		s.Provider = o.provider
	}

	log, err := newLogger(s, o.verbose, logOut, serving)
	if err != nil {
		return nil, err
	}

	cfg, err := override.LoadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{settings: s, log: log}
	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.resolver = override.New(cfg,
		override.WithSources(feature.NewFileSource(os.DirFS(s.Root), cfg.Libraries...)),
		override.WithProvider(a.provider),
		override.WithLogger(log),
	)
	a.views = view.NewLocator(os.DirFS(s.Root), map[string][]string{
		view.KindTemplate: s.Templates,
		view.KindLayout:   s.Layouts,
	}, view.WithLogger(log))
	return a, nil
}

func newLogger(s settings, verbose bool, out io.Writer, serving bool) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(s.Env, s.Service),
		logger.WithOutput(out),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			logger.TraceExtractor(),
		),
	}
	switch {
	case verbose:
		opts = append(opts, logger.WithLevel(slog.LevelDebug))
	case s.LogLevel != "":
		level, err := logger.ParseLevel(s.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	case !serving:
		// One-shot commands only report problems.
		opts = append(opts, logger.WithLevel(slog.LevelWarn))
	}
	return logger.New(opts...), nil
}

// connect opens the configured flag store.
func (a *app) connect(ctx context.Context) error {
	switch strings.ToLower(a.settings.Provider) {
	case providerMemory, "":
		flags := make([]*feature.Flag, 0, len(a.settings.Flags))
		for name, enabled := range a.settings.Flags {
			flags = append(flags, &feature.Flag{Name: strings.TrimSpace(name), Enabled: enabled})
		}
		p, err := feature.NewMemoryProvider(flags...)
		if err != nil {
			return err
		}
		a.provider = p

	case providerRedis:
		var cfg redis.Config
		if err := config.Parse(&cfg); err != nil {
			return err
		}
		client, err := redis.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.provider = feature.NewRedisProvider(client, feature.WithRedisKey(cfg.Key))
		a.checks = append(a.checks, httpserver.Check{Name: providerRedis, Fn: redis.Healthcheck(client)})

	case providerPostgres:
		var cfg pg.Config
		if err := config.Parse(&cfg); err != nil {
			return err
		}
		pool, err := pg.Connect(ctx, cfg)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pool.Close)
		if err := pg.Migrate(ctx, pool, cfg, a.log.With(logger.Component("migrate"))); err != nil {
			return err
		}
		a.provider = feature.NewPostgresProvider(pool)
		a.checks = append(a.checks, httpserver.Check{Name: providerPostgres, Fn: pg.Healthcheck(pool)})

	default:
		return errors.Join(errUnknownProvider, fmt.Errorf("provider %q, want memory, redis or postgres", a.settings.Provider))
	}

	a.log.DebugContext(ctx, "flag provider ready", slog.String("provider", a.settings.Provider))
	return nil
}

// initContext is the context features are initialized with: it carries the
// configured environment for environment-targeted strategies.
func (a *app) initContext(ctx context.Context) context.Context {
	return environment.WithContext(ctx, a.settings.Env)
}

// snapshot initializes the resolver and returns the published snapshot.
func (a *app) snapshot(ctx context.Context) (*override.Snapshot, error) {
	return a.resolver.Init(a.initContext(ctx))
}

func (a *app) Close() {
	if a.provider != nil {
		_ = a.provider.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
