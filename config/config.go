// Package config loads settings for the cart CLI and the catalog API from
// an optional YAML file plus environment overrides.
package config

import (
	"bytes"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Storage backends understood by the cart CLI.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	APIURL  string        `yaml:"api_url"`
	Timeout time.Duration `yaml:"timeout"`

	Storage    string `yaml:"storage"`
	SQLitePath string `yaml:"sqlite_path"`
	RedisAddr  string `yaml:"redis_addr"`
	RedisDB    int    `yaml:"redis_db"`
	StorageKey string `yaml:"storage_key"`

	Log Log `yaml:"log"`

	// Catalog API server.
	HTTPPort    string `yaml:"http_port"`
	DatabaseURL string `yaml:"database_url"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		APIURL:     "http://localhost:3333",
		Timeout:    5 * time.Second,
		Storage:    StorageSQLite,
		SQLitePath: "rocketshoes-cart.db",
		RedisAddr:  "localhost:6379",
		Log:        Log{Level: "info", Format: "json"},
		HTTPPort:   "3333",
	}
}

// Load reads path on top of the defaults and then applies env overrides.
// An empty path or a missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, errors.Wrap(err, "read config")
		default:
			dec := yaml.NewDecoder(bytes.NewReader(data))
			dec.KnownFields(true)
			if err := dec.Decode(&cfg); err != nil {
				return cfg, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	for env, dst := range map[string]*string{
		"CART_API_URL":     &c.APIURL,
		"CART_STORAGE":     &c.Storage,
		"CART_SQLITE_PATH": &c.SQLitePath,
		"CART_REDIS_ADDR":  &c.RedisAddr,
		"CART_STORAGE_KEY": &c.StorageKey,
		"LOG_LEVEL":        &c.Log.Level,
		"LOG_FORMAT":       &c.Log.Format,
		"HTTP_PORT":        &c.HTTPPort,
		"DATABASE_URL":     &c.DatabaseURL,
	} {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			*dst = v
		}
	}
	if v := os.Getenv("CART_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "CART_REDIS_DB")
		}
		c.RedisDB = n
	}
	if v := os.Getenv("CART_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "CART_TIMEOUT")
		}
		c.Timeout = d
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite:
		if c.SQLitePath == "" {
			return errors.New("sqlite storage needs sqlite_path")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return errors.New("redis storage needs redis_addr")
		}
	case StorageMemory:
	default:
		return errors.Errorf("unknown storage backend %q", c.Storage)
	}
	if c.APIURL == "" {
		return errors.New("api_url is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}
