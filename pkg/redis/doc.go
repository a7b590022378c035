// Package redis connects to the Redis server backing feature.RedisProvider.
//
// Connect parses Config.ConnectionURL and pings the server, retrying with a
// constant backoff until it answers or the attempts run out. Healthcheck
// wraps the client in a probe suitable for the serve command's readiness
// endpoint.
//
//	var cfg redis.Config
//	if err := config.LoadEnv(&cfg); err != nil {
//		return err
//	}
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	provider := feature.NewRedisProvider(client, feature.WithRedisKey(cfg.Key))
//
// Errors are sentinels joined with the driver error, so errors.Is works on
// both.
package redis
