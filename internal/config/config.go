// Package config loads the nodecfg service configuration.
//
// Layers, highest precedence last:
//
//  1. Built-in defaults.
//  2. Optional `.env` file (values land in the process environment).
//  3. Optional YAML file.
//  4. Environment variables prefixed `NODECFG_`, where `__` maps to "."
//     (e.g., `NODECFG_HTTP__ADDR` → `http.addr`).
//
// The merged tree is unmarshalled into Config and validated before use.
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	HTTP    HTTP    `koanf:"http"`
	Log     Log     `koanf:"log"`
	Catalog Catalog `koanf:"catalog"`
}

// HTTP configures the API server.
type HTTP struct {
	Addr            string        `koanf:"addr" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"gt=0"`
}

// Log configures the process logger. An empty File logs to stderr only.
type Log struct {
	Level      string `koanf:"level" validate:"oneof=debug info warn error"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
}

// Catalog configures where node kinds come from.
type Catalog struct {
	Dir      string `koanf:"dir"`
	Builtins bool   `koanf:"builtins"`
}

// Default returns the configuration used when no layer overrides a value.
func Default() Config {
	return Config{
		HTTP: HTTP{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  50,
			MaxBackups: 7,
			MaxAgeDays: 14,
		},
		Catalog: Catalog{Builtins: true},
	}
}
