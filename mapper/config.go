package mapper

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries the mapper settings that are commonly set per deployment
// rather than per call site.
type Config struct {
	Strict   bool `env:"MAPPER_STRICT" envDefault:"false"`
	MaxDepth int  `env:"MAPPER_MAX_DEPTH" envDefault:"32"`
}

var defaultEnvLoaded sync.Once

// LoadConfig reads Config from environment variables, loading a .env file
// first if one exists.
func LoadConfig() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrConfig, err)
	}
	return cfg, nil
}

// NewFromEnv builds a Mapper from environment configuration. Explicit
// options are applied after the environment and win on conflict.
func NewFromEnv(opts ...Option) (*Mapper, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	all := append([]Option{WithStrict(cfg.Strict), WithMaxDepth(cfg.MaxDepth)}, opts...)
	return New(all...), nil
}
