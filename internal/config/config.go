// Package config centralizes application configuration into typed structs.
// Defaults come from NewDefaultConfig; Load overlays values from the
// environment (with .env support for local development).
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Store backend names accepted by StoreConfig.Backend.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

type Config struct {
	Env    string
	Store  StoreConfig
	Auth   AuthConfig
	Client ClientConfig
}

// StoreConfig selects and tunes the persistent store backend. OpTimeout
// bounds every snapshot read/write so a stalled adapter cannot hang an
// operation indefinitely.
type StoreConfig struct {
	Backend       string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	OpTimeout     time.Duration
}

type AuthConfig struct {
	BcryptCost int
}

// ClientConfig models the future network boundary. CallLatency is an
// artificial delay applied before each directory/inventory operation, the
// stand-in for a real round trip. Tests run it at zero.
type ClientConfig struct {
	CallLatency time.Duration
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Env: "development",
		Store: StoreConfig{
			Backend:   BackendFile,
			DataDir:   "data",
			RedisAddr: "localhost:6379",
			OpTimeout: 5 * time.Second,
		},
		Auth: AuthConfig{
			BcryptCost: bcrypt.DefaultCost,
		},
		Client: ClientConfig{
			CallLatency: 0,
		},
	}
}

// Load builds the configuration from defaults overlaid with environment
// variables. A .env file is honored when present; a missing one is fine.
func Load() *Config {
	_ = godotenv.Load()

	cfg := NewDefaultConfig()
	cfg.Env = getString("APP_ENV", cfg.Env)
	cfg.Store.Backend = getString("STORE_BACKEND", cfg.Store.Backend)
	cfg.Store.DataDir = getString("STORE_DATA_DIR", cfg.Store.DataDir)
	cfg.Store.RedisAddr = getString("REDIS_ADDR", cfg.Store.RedisAddr)
	cfg.Store.RedisPassword = getString("REDIS_PASSWORD", cfg.Store.RedisPassword)
	cfg.Store.RedisDB = getInt("REDIS_DB", cfg.Store.RedisDB)
	cfg.Store.OpTimeout = getDuration("STORE_OP_TIMEOUT_MS", cfg.Store.OpTimeout)
	cfg.Auth.BcryptCost = getInt("BCRYPT_COST", cfg.Auth.BcryptCost)
	cfg.Client.CallLatency = getDuration("CALL_LATENCY_MS", cfg.Client.CallLatency)
	return cfg
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}
