// Package config loads typed configuration structs from environment
// variables, with optional .env file support for local development.
//
// Configuration structs declare their environment mapping through `env`
// and `envDefault` struct tags:
//
//	type PGConfig struct {
//		ConnString string `env:"DATABASE_URL,required"`
//		MaxConns   int32  `env:"PG_MAX_CONNS" envDefault:"10"`
//	}
//
//	var cfg PGConfig
//	config.MustLoad(&cfg)
package config
