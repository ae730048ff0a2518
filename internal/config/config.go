// Package config loads aochat-chat's optional defaults (dimension,
// username, timeout) from a YAML file and environment variable overrides
// using koanf/v2, replacing a hand-rolled INI reader with the library the
// rest of the pack reaches for.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds aochat-chat's optional startup defaults. Every field may be
// overridden by a CLI flag; zero values mean "let the flag decide".
type Config struct {
	Username    string        `koanf:"username"`
	Dimension   int           `koanf:"dimension"`
	CharacterID uint32        `koanf:"character_id"`
	Timeout     time.Duration `koanf:"timeout"`
	PingPeriod  time.Duration `koanf:"ping_period"`
}

// envPrefix is the environment variable prefix for aochat-chat overrides.
// Variables are named AOCHAT_<KEY>, e.g. AOCHAT_USERNAME.
const envPrefix = "AOCHAT_"

// DefaultConfig returns the built-in defaults used when no file is given.
func DefaultConfig() Config {
	return Config{
		Dimension:  1,
		Timeout:    10 * time.Second,
		PingPeriod: 60 * time.Second,
	}
}

// Load reads path (a YAML file), if non-empty, overlays AOCHAT_-prefixed
// environment variables, and merges both on top of DefaultConfig().
func Load(path string) (Config, error) {
	k := koanf.New(".")

	defaults := DefaultConfig()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"username":     defaults.Username,
		"dimension":    defaults.Dimension,
		"character_id": defaults.CharacterID,
		"timeout":      defaults.Timeout,
		"ping_period":  defaults.PingPeriod,
	}, "."), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper), nil); err != nil {
		return Config{}, fmt.Errorf("config: loading environment overrides: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshaling: %w", err)
	}
	return cfg, nil
}

func envKeyMapper(s string) string {
	s = strings.TrimPrefix(s, envPrefix)
	return strings.ToLower(s)
}
