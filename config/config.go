package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Engine     EngineConfig     `yaml:"engine"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Limits     LimitsConfig     `yaml:"limits"`
	Sound      SoundConfig      `yaml:"sound"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// EngineConfig holds the scheduling engine configuration.
type EngineConfig struct {
	TickMillis        int           `yaml:"tick_millis"`
	TickInterval      time.Duration `yaml:"-"` // Derived from TickMillis
	SnoozeMinutes     int           `yaml:"snooze_minutes"`
	SnoozeDuration    time.Duration `yaml:"-"` // Derived from SnoozeMinutes
	RetriggerGuardSec int           `yaml:"retrigger_guard_seconds"`
	RetriggerGuard    time.Duration `yaml:"-"` // Derived from RetriggerGuardSec
}

// LimitsConfig holds the per-domain entity ceilings.
type LimitsConfig struct {
	MaxAlarms   int `yaml:"max_alarms"`
	MaxTimers   int `yaml:"max_timers"`
	MaxSections int `yaml:"max_sections"`
}

// SoundConfig holds the sound catalog configuration.
type SoundConfig struct {
	FallbackID string `yaml:"fallback_id"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "sqlite" or "postgres"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills in zero-valued fields with sensible defaults and
// derives the duration fields from their scalar counterparts.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Engine.TickMillis <= 0 {
		cfg.Engine.TickMillis = 1000
	}
	cfg.Engine.TickInterval = time.Duration(cfg.Engine.TickMillis) * time.Millisecond

	if cfg.Engine.SnoozeMinutes <= 0 {
		cfg.Engine.SnoozeMinutes = 5
	}
	cfg.Engine.SnoozeDuration = time.Duration(cfg.Engine.SnoozeMinutes) * time.Minute

	if cfg.Engine.RetriggerGuardSec <= 0 {
		cfg.Engine.RetriggerGuardSec = 59
	}
	cfg.Engine.RetriggerGuard = time.Duration(cfg.Engine.RetriggerGuardSec) * time.Second

	if cfg.Limits.MaxAlarms <= 0 {
		cfg.Limits.MaxAlarms = 100
	}
	if cfg.Limits.MaxTimers <= 0 {
		cfg.Limits.MaxTimers = 100
	}
	if cfg.Limits.MaxSections <= 0 {
		cfg.Limits.MaxSections = 20
	}

	if cfg.Sound.FallbackID == "" {
		cfg.Sound.FallbackID = "classic-bell"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		cfg.Database.DSN = "timekeeper.db"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}
}
