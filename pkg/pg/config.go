package pg

import "time"

// Config describes the PostgreSQL pool backing feature.PostgresProvider.
type Config struct {
	ConnectionString  string        `env:"WAFFLE_PG_URL"`                                 // ConnectionString is a pgx connection URL or DSN.
	MaxOpenConns      int32         `env:"WAFFLE_PG_MAX_OPEN_CONNS" envDefault:"4"`       // MaxOpenConns caps the pool size.
	MaxIdleConns      int32         `env:"WAFFLE_PG_MAX_IDLE_CONNS" envDefault:"1"`       // MaxIdleConns is the pool minimum.
	HealthCheckPeriod time.Duration `env:"WAFFLE_PG_HEALTHCHECK_PERIOD" envDefault:"1m"`  // HealthCheckPeriod is the period between pool health checks.
	MaxConnIdleTime   time.Duration `env:"WAFFLE_PG_MAX_CONN_IDLE_TIME" envDefault:"10m"` // MaxConnIdleTime is how long an idle connection is kept.
	MaxConnLifetime   time.Duration `env:"WAFFLE_PG_MAX_CONN_LIFETIME" envDefault:"30m"`  // MaxConnLifetime is how long a connection may be reused.

	RetryAttempts int           `env:"WAFFLE_PG_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval time.Duration `env:"WAFFLE_PG_RETRY_INTERVAL" envDefault:"2s"` // Grows linearly with each attempt.

	MigrationsTable string `env:"WAFFLE_PG_MIGRATIONS_TABLE" envDefault:"waffle_schema_migrations"`
}
