package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the user-service configuration. It is built once in main and
// passed down to every component that needs a base URL, timeout or secret.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Session  SessionConfig  `koanf:"session"`
	Services ServicesConfig `koanf:"services"`
	Logging  LoggingConfig  `koanf:"logging"`
	CORS     CORSConfig     `koanf:"cors"`
}

type ServerConfig struct {
	Port      string `koanf:"port" validate:"required"`
	Host      string `koanf:"host"`
	Env       string `koanf:"env" validate:"oneof=development test staging production"`
	StaticDir string `koanf:"static_dir"`
}

type DatabaseConfig struct {
	URL      string `koanf:"url"` // Full database URL
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	DBName   string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`

	// CredentialStore selects where users live: "postgres" or "memory".
	CredentialStore string `koanf:"credential_store" validate:"oneof=postgres memory"`
}

type SessionConfig struct {
	Secret  string `koanf:"secret" validate:"required"`
	Backend string `koanf:"backend" validate:"oneof=cookie filesystem"`
	Dir     string `koanf:"dir"`
	// MaxAge is the cookie lifetime in seconds; 0 keeps it for the browser session.
	MaxAge int  `koanf:"max_age" validate:"min=0"`
	Secure bool `koanf:"secure"`
}

// ServicesConfig holds the endpoints of the sibling services and the fixed
// per-call timeouts used when talking to them.
type ServicesConfig struct {
	EventsURL       string        `koanf:"events_url" validate:"required,url"`
	EventsTimeout   time.Duration `koanf:"events_timeout" validate:"gt=0"`
	BookingURL      string        `koanf:"booking_url" validate:"required,url"`
	BookingTimeout  time.Duration `koanf:"booking_timeout" validate:"gt=0"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerCooldown time.Duration `koanf:"breaker_cooldown" validate:"gte=0"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" json:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" json:"format" validate:"oneof=json console"`
	File   string `koanf:"file" json:"file,omitempty"`
}

type CORSConfig struct {
	Origins []string `koanf:"origins"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultSessionSecret is the placeholder cookie signing secret. Production
// refuses to start with it.
const DefaultSessionSecret = "change-me-session-secret"

// Load reads .env files, then layers defaults, an optional YAML file and the
// process environment.
func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	k, err := newKoanf(defaultConfig(), userServiceEnv)
	if err != nil {
		return nil, err
	}
	if err := splitList(k, "cors.origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Database.URL != "" {
		applyDatabaseURL(&cfg.Database, cfg.Database.URL)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if cfg.IsProduction() && cfg.Session.Secret == DefaultSessionSecret {
		return nil, errors.New("SESSION_SECRET must be set in production")
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "8000",
			Host:      "0.0.0.0",
			Env:       "development",
			StaticDir: "web/static",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "userdb",
			SSLMode:         "disable",
			CredentialStore: "postgres",
		},
		Session: SessionConfig{
			Secret:  DefaultSessionSecret,
			Backend: "cookie",
			Dir:     "",
			MaxAge:  0,
		},
		Services: ServicesConfig{
			EventsURL:       "http://localhost:5000/api/events",
			EventsTimeout:   100 * time.Second,
			BookingURL:      "http://localhost:5001/book_ticket",
			BookingTimeout:  10 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "debug",
			Format: "console",
			File:   "logs/user-service.log",
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
	}
}

// DSN returns a lib/pq connection string for the configured database.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func applyDatabaseURL(config *DatabaseConfig, databaseURL string) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		// Keep the raw URL; the driver will report a better error.
		return
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}
}
