// Package config reads process configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/peterkuimelis/cardcrawl/internal/catalog"
	"github.com/peterkuimelis/cardcrawl/internal/game"
	"github.com/peterkuimelis/cardcrawl/internal/save"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config is the shared configuration of every cardcrawl binary. Command-line
// flags override it.
type Config struct {
	Store         string        `env:"CARDCRAWL_STORE"          envDefault:"sqlite"`
	SQLitePath    string        `env:"CARDCRAWL_SQLITE_PATH"    envDefault:"cardcrawl.db"`
	RedisAddr     string        `env:"CARDCRAWL_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisKey      string        `env:"CARDCRAWL_REDIS_KEY"      envDefault:"cardcrawl:save"`
	EnemyDelay    time.Duration `env:"CARDCRAWL_ENEMY_DELAY"    envDefault:"1s"`
	GameOverDelay time.Duration `env:"CARDCRAWL_GAMEOVER_DELAY" envDefault:"1500ms"`
	Seed          int64         `env:"CARDCRAWL_SEED"`
	CatalogPath   string        `env:"CARDCRAWL_CATALOG"`
	DecksPath     string        `env:"CARDCRAWL_DECKS"          envDefault:"decks.yaml"`
}

// LoadDotEnv reads .env files into the environment. A missing file is not
// an error; the return value reports whether anything was loaded.
func LoadDotEnv(files ...string) bool {
	return godotenv.Load(files...) == nil
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	switch c.Store {
	case StoreMemory, StoreSQLite, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q (want memory, sqlite or redis)", c.Store))
	}
	if c.EnemyDelay < 0 || c.GameOverDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	return errors.Join(errs...)
}

// LoadCatalog returns the catalog at CatalogPath, or the built-in one.
func (c Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(c.CatalogPath)
}

// OpenStore connects the configured save backend. The returned closer
// releases it.
func (c Config) OpenStore(ctx context.Context) (save.Store, io.Closer, error) {
	switch c.Store {
	case StoreMemory:
		return save.NewMemoryStore(), io.NopCloser(nil), nil
	case StoreSQLite:
		s, err := save.OpenSQLite(c.SQLitePath, save.DefaultSlot)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case StoreRedis:
		client, err := c.redisClient()
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis at %s: %w", c.RedisAddr, err)
		}
		return save.NewRedisStore(client, c.RedisKey), client, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", c.Store)
}

// redisClient accepts either host:port or a redis:// URL.
func (c Config) redisClient() (*redis.Client, error) {
	if strings.Contains(c.RedisAddr, "://") {
		opts, err := redis.ParseURL(c.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis url: %w", err)
		}
		return redis.NewClient(opts), nil
	}
	return redis.NewClient(&redis.Options{Addr: c.RedisAddr}), nil
}

// GameConfig builds the battle manager configuration shared by frontends.
func (c Config) GameConfig(cat *catalog.Catalog, store save.Store) game.Config {
	return game.Config{
		Catalog:       cat,
		Store:         store,
		Seed:          c.Seed,
		EnemyDelay:    c.EnemyDelay,
		GameOverDelay: c.GameOverDelay,
	}
}
