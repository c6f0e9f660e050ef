package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

var userServiceEnv = map[string]string{
	"port": "server.port",
	"host": "server.host",
	"env":  "server.env",

	"static_dir": "server.static_dir",

	"database_url":     "database.url",
	"db_host":          "database.host",
	"db_port":          "database.port",
	"db_user":          "database.user",
	"db_password":      "database.password",
	"db_name":          "database.name",
	"db_sslmode":       "database.sslmode",
	"credential_store": "database.credential_store",

	"session_secret":  "session.secret",
	"session_backend": "session.backend",
	"session_dir":     "session.dir",
	"session_max_age": "session.max_age",
	"session_secure":  "session.secure",

	"event_service_url":       "services.events_url",
	"event_service_timeout":   "services.events_timeout",
	"booking_service_url":     "services.booking_url",
	"booking_service_timeout": "services.booking_timeout",
	"event_breaker_failures":  "services.breaker_failures",
	"event_breaker_cooldown":  "services.breaker_cooldown",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_file":   "logging.file",

	"cors_origins": "cors.origins",
}

// newKoanf layers struct defaults, the optional YAML file and the mapped
// environment variables, in that order of precedence.
func newKoanf(defaults interface{}, envMap map[string]string) (*koanf.Koanf, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	transform := func(key string) string {
		// Unmapped variables return "" and are skipped.
		return envMap[strings.ToLower(key)]
	}
	if err := k.Load(env.Provider("", ".", transform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return k, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// splitList turns a comma separated env value into a string slice.
func splitList(k *koanf.Koanf, path string) error {
	raw, ok := k.Get(path).(string)
	if !ok {
		return nil
	}

	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	if err := k.Set(path, items); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}
