package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig marks configuration that fails validation. Configuration
// errors are the only fatal errors in the pipeline.
var ErrInvalidConfig = errors.New("invalid config")

// EnvFileVar names the environment variable pointing at an optional YAML
// config file.
const EnvFileVar = "TEAMRECORDS_CONFIG"

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (Default())
//  2. YAML file named by TEAMRECORDS_CONFIG, if set
//  3. environment variables with prefix TEAMRECORDS_
//
// Env keys map flat: TEAMRECORDS_DELAY_MS -> delay_ms. Feed URLs nest with
// a double underscore: TEAMRECORDS_FEEDS__EVENTS -> feeds.events.
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(EnvFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("TEAMRECORDS_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "TEAMRECORDS_"))
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	cfg := *Default()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case strings.TrimSpace(c.BaseURL) == "":
		return fmt.Errorf("%w: base_url must not be empty", ErrInvalidConfig)
	case c.DelayMS < 0:
		return fmt.Errorf("%w: delay_ms must not be negative", ErrInvalidConfig)
	case c.TimeoutS <= 0:
		return fmt.Errorf("%w: timeout_s must be positive", ErrInvalidConfig)
	}
	return nil
}
