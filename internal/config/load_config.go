package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads the catalogue from the given YAML file. An empty path or a
// missing file falls back to the built-in default catalogue, so a fresh
// machine can be provisioned with no configuration at all.
func Load(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// The catalogue sits under a top-level `devstation:` key so the file
	// can coexist with other tool configuration.
	var wrapper struct {
		Devstation Config `yaml:"devstation"`
	}
	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	cfg := wrapper.Devstation
	fillDefaults(&cfg)
	return cfg, nil
}

// LoadDefaults loads pre-seeded prompt answers from the environment. A
// ~/.devstation.env file, when present, is loaded first without
// overriding variables already set in the process environment.
func LoadDefaults(home string) Defaults {
	_ = godotenv.Load(filepath.Join(home, ".devstation.env"))
	return Defaults{
		GitName:  os.Getenv("DEVSTATION_GIT_NAME"),
		GitEmail: os.Getenv("DEVSTATION_GIT_EMAIL"),
	}
}

// DefaultConfig is the built-in catalogue for a macOS workstation managed
// with Homebrew.
func DefaultConfig() Config {
	cfg := Config{}
	fillDefaults(&cfg)
	return cfg
}

// fillDefaults completes any part of the catalogue the config file left
// out, so partial files only override what they mention.
func fillDefaults(cfg *Config) {
	if cfg.PackageManager.Command == "" {
		cfg.PackageManager = PackageManager{
			Command:      "brew",
			Install:      []string{"/bin/bash", "-c", "curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh | bash"},
			Update:       []string{"brew", "update"},
			Bundle:       []string{"brew", "bundle", "--file"},
			Remove:       []string{"brew", "uninstall"},
			SelfDestruct: []string{"/bin/bash", "-c", "curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/uninstall.sh | bash"},
		}
	}
	if cfg.Manifest == "" {
		cfg.Manifest = "Brewfile"
	}
	if len(cfg.Shell.Lines) == 0 {
		cfg.Shell.Lines = []string{
			`export EDITOR=vim`,
			`alias gs="git status"`,
			`alias ll="ls -al"`,
		}
	}
	if cfg.Forge.KeysURL == "" {
		cfg.Forge.KeysURL = "https://api.github.com/user/keys"
	}
}
