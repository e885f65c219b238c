package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// config holds the resolved run defaults. Flags override it field by field.
type config struct {
	output      string
	policy      string
	updateCheck bool
}

func defaultConfig() config {
	return config{updateCheck: true}
}

// fileConfig is the config.toml key mapping.
type fileConfig struct {
	Output      string `toml:"output"`
	Policy      string `toml:"policy"`
	UpdateCheck bool   `toml:"update_check"`
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "apkg", "config.toml")
}

// loadConfig overlays config.toml on the built-in defaults. A missing file
// is not an error; a malformed one is.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("output") {
		cfg.output = strings.TrimSpace(raw.Output)
	}
	if meta.IsDefined("policy") {
		cfg.policy = strings.TrimSpace(raw.Policy)
	}
	if meta.IsDefined("update_check") {
		cfg.updateCheck = raw.UpdateCheck
	}
	return cfg, nil
}
