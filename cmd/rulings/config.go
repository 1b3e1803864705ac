// ABOUTME: Optional YAML configuration file for the rulings CLI.
// ABOUTME: Flags override environment variables, which override the file, which overrides defaults.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultAPIURL = "http://127.0.0.1:5000"

// fileConfig mirrors the optional rulings.yaml settings file.
type fileConfig struct {
	APIURL      string `yaml:"api_url"`
	Proposal    string `yaml:"proposal"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// loadFileConfig reads a YAML settings file. A missing file is not an error
// and yields an empty config.
func loadFileConfig(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// resolveAPIURL applies the precedence order for the API base URL:
// the -api flag, then RULINGS_API_URL, then the config file, then the default.
func resolveAPIURL(flagValue string, fc fileConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("RULINGS_API_URL"); env != "" {
		return env
	}
	if fc.APIURL != "" {
		return fc.APIURL
	}
	return defaultAPIURL
}
