// Package config loads runtime configuration from, in increasing priority:
// built-in defaults, a YAML config file, RECALLKIT_* environment variables,
// and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

const envPrefix = "RECALLKIT_"

// Config is constructed once in main and passed to the components that need
// it. The parser, builder, and scheduler take no configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `koanf:"listen" validate:"required,hostname_port"`
	// DataDir holds per-profile progress files (and the git import cache).
	DataDir string `koanf:"data_dir" validate:"required"`
	// BuildDir holds the exported <topic>.json/.tsv pairs and topics.json.
	BuildDir string `koanf:"build_dir" validate:"required"`
	// APIToken, when non-empty, is required as a bearer token on mutating
	// progress requests.
	APIToken string `koanf:"api_token"`
	// CORSOrigins is a comma-separated allow list; empty means "*".
	CORSOrigins string `koanf:"cors_origins"`
	// HistoryDB is the sqlite path for the save history; empty disables it.
	HistoryDB string `koanf:"history_db"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Listen:   ":8502",
		DataDir:  "data/progress",
		BuildDir: "static/web/build",
	}
}

// Origins expands the CORS allow list. An empty setting allows any origin,
// matching the LAN/dev posture of the progress API.
func (c Config) Origins() []string {
	if strings.TrimSpace(c.CORSOrigins) == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// TokenConfigured reports whether bearer-token auth is enabled.
func (c Config) TokenConfigured() bool {
	return strings.TrimSpace(c.APIToken) != ""
}

// Load layers the configuration sources over the defaults and validates the
// result. path may be empty (no config file); a named file that is missing
// is an error, so typos don't silently fall back to defaults. flags may be
// nil for callers without a flag set.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		// Flag names use dashes while config keys use underscores. An
		// unchanged flag must not shadow a value that the file or
		// environment already set.
		err := k.Load(posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, interface{}) {
			mapped := strings.ReplaceAll(key, "-", "_")
			if !flags.Changed(key) && k.Exists(mapped) {
				return "", nil
			}
			return mapped, value
		}), nil)
		if err != nil {
			return Config{}, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
