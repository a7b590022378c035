// Package pg connects to the PostgreSQL database backing
// feature.PostgresProvider and owns its schema.
//
// Connect opens a pgx pool with retries. Migrate applies the embedded goose
// migrations that create the feature_flags table:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
//	provider := feature.NewPostgresProvider(pool)
//
// Healthcheck wraps the pool in a readiness probe.
package pg
