package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
// The file is path if non-empty, else CONFIG_PATH, else "./config.yaml".
// A missing file is an error only when it was named explicitly; otherwise
// configuration comes from ENV and defaults.
//
// Keys from the vocabulary file, if configured, are appended to
// parser.keys.
func Load(path string) (*Config, error) {
	var cfg Config

	explicitPath := path != ""
	if !explicitPath {
		path = os.Getenv("CONFIG_PATH")
		explicitPath = path != ""
	}
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if cfg.Parser.Vocabulary != "" {
		vocab, err := LoadVocabulary(cfg.Parser.Vocabulary)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		cfg.Parser.Keys = MergeKeys(cfg.Parser.Keys, vocab.AllKeys())
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}
