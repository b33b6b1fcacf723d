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

// PathEnvVar overrides the config file location.
const PathEnvVar = "CONFIG_PATH"

var defaultPaths = []string{"config.yaml", "config.yml"}

// envKeys maps environment variables onto koanf paths. Anything not listed is ignored.
var envKeys = map[string]string{
	"host":                      "server.host",
	"port":                      "server.port",
	"http_read_timeout":         "server.read_timeout",
	"http_write_timeout":        "server.write_timeout",
	"http_idle_timeout":         "server.idle_timeout",
	"shutdown_timeout":          "server.shutdown_timeout",
	"cors_origins":              "server.cors_origins",
	"rate_limit_requests":       "server.rate_limit_requests",
	"rate_limit_window":         "server.rate_limit_window",
	"database_url":              "database.url",
	"database_max_open_conns":   "database.max_open_conns",
	"database_max_idle_conns":   "database.max_idle_conns",
	"redis_url":                 "redis.url",
	"tmdb_api_key":              "tmdb.api_key",
	"tmdb_base_url":             "tmdb.base_url",
	"tmdb_timeout":              "tmdb.timeout",
	"tmdb_cache_ttl":            "tmdb.cache_ttl",
	"streami_api_key":           "streami.api_key",
	"streami_base_url":          "streami.base_url",
	"streami_timeout":           "streami.timeout",
	"sports_api_base_url":       "sports.base_url",
	"sports_api_timeout":        "sports.timeout",
	"sports_cache_ttl":          "sports.cache_ttl",
	"jwt_secret":                "auth.jwt_secret",
	"jwt_ttl":                   "auth.token_ttl",
	"log_level":                 "logging.level",
	"log_format":                "logging.format",
	"log_caller":                "logging.caller",
	"breaker_failure_threshold": "breaker.failure_threshold",
	"breaker_open_timeout":      "breaker.open_timeout",
	"cache_warmer_enabled":      "warmer.enabled",
	"cache_warmer_interval":     "warmer.interval",
}

var slicePaths = []string{"server.cors_origins"}

// Load layers defaults, an optional YAML file and environment variables.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitSlices(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func envKey(key string) string {
	return envKeys[strings.ToLower(key)]
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// splitSlices turns comma separated env values into string slices.
func splitSlices(k *koanf.Koanf) error {
	for _, path := range slicePaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
