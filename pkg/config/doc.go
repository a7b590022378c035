// Package config loads typed configuration from the environment using
// caarlos0/env struct tags, with optional dotenv files read by godotenv.
//
//	type Config struct {
//		Paths []string `env:"WAFFLE_PATHS" envSeparator:","`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// Load caches one value per type for the life of the process; Parse does not
// cache. LoadEnv reads explicit dotenv files, later files winning.
package config
