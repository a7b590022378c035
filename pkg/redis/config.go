package redis

import "time"

// Config describes how to reach the Redis server that stores shared feature toggles.
type Config struct {
	ConnectionURL  string        `env:"WAFFLE_REDIS_URL" envDefault:"redis://localhost:6379/0"` // Format: redis://:password@localhost:6379/0
	Key            string        `env:"WAFFLE_REDIS_KEY" envDefault:"waffle:flags"`             // Hash holding one field per feature name.
	RetryAttempts  int           `env:"WAFFLE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"WAFFLE_REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"WAFFLE_REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
}
