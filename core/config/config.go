package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Mail     MailConfig
	Jobs     JobsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host      string
	Port      int
	PublicURL string
	// RateLimit is the number of public write requests allowed per second per client IP.
	RateLimit float64
	RateBurst int
	// Timezone interprets the wall-clock dates and hours of every event.
	Timezone string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type StorageConfig struct {
	Driver string // postgres | memory
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int
	// AdminToken guards the dashboard and notification routes when set.
	AdminToken string
}

type MailConfig struct {
	SendGridAPIKey string
	FromEmail      string
	FromName       string
}

type JobsConfig struct {
	NotificationSchedule string
	NotificationBatch    int
}

type LogConfig struct {
	Level  string
	Pretty bool
}

var (
	instance *Config
	mu       sync.RWMutex
)

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:      v.GetString("server.host"),
			Port:      v.GetInt("server.port"),
			PublicURL: v.GetString("server.public_url"),
			RateLimit: v.GetFloat64("server.rate_limit"),
			RateBurst: v.GetInt("server.rate_burst"),
			Timezone:  v.GetString("server.timezone"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("redis.enabled"),
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Auth: AuthConfig{
			JWTSecret:     v.GetString("jwt.secret"),
			TokenTTLHours: v.GetInt("jwt.ttl_hours"),
			AdminToken:    v.GetString("admin.token"),
		},
		Mail: MailConfig{
			SendGridAPIKey: v.GetString("sendgrid.api_key"),
			FromEmail:      v.GetString("mail.from_email"),
			FromName:       v.GetString("mail.from_name"),
		},
		Jobs: JobsConfig{
			NotificationSchedule: v.GetString("jobs.notification_schedule"),
			NotificationBatch:    v.GetInt("jobs.notification_batch"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Pretty: v.GetBool("log.pretty"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	mu.Lock()
	instance = cfg
	mu.Unlock()

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7070)
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.rate_limit", 5)
	v.SetDefault("server.rate_burst", 10)
	v.SetDefault("server.timezone", "UTC")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "meetgrid")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("storage.driver", "postgres")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.ttl_hours", 24*30)
	v.SetDefault("admin.token", "")

	v.SetDefault("sendgrid.api_key", "")
	v.SetDefault("mail.from_email", "no-reply@meetgrid.local")
	v.SetDefault("mail.from_name", "meetgrid")

	v.SetDefault("jobs.notification_schedule", "@every 1m")
	v.SetDefault("jobs.notification_batch", 50)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q (want postgres or memory)", c.Storage.Driver)
	}
	if _, err := time.LoadLocation(c.Server.Timezone); err != nil {
		return fmt.Errorf("invalid SERVER_TIMEZONE %q: %w", c.Server.Timezone, err)
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Auth.TokenTTLHours <= 0 {
		return fmt.Errorf("invalid JWT_TTL_HOURS %d", c.Auth.TokenTTLHours)
	}
	return nil
}

// BaseURL is the externally reachable address used in share links.
func (c *Config) BaseURL() string {
	if c.Server.PublicURL != "" {
		return strings.TrimRight(c.Server.PublicURL, "/")
	}
	host := c.Server.Host
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Server.Port)
}

// Location is the parsed Server.Timezone, UTC if it cannot be loaded.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func Get() *Config {
	cfg, ok := GetSafe()
	if !ok {
		panic("config: Get called before Load")
	}
	return cfg
}

func GetSafe() (*Config, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return instance, instance != nil
}
