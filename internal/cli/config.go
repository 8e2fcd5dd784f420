package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// configEnv names the environment variable holding a default config path
const configEnv = "FLATQL_CONFIG"

// Config represents a flatql YAML config file. Every key is optional; unset
// keys fall back to flags and then to defaults.
type Config struct {
	Path            string  `yaml:"path,omitempty"`
	Delimiter       string  `yaml:"delimiter,omitempty"`
	QuoteChar       *string `yaml:"quotechar,omitempty"`
	Quoting         string  `yaml:"quoting,omitempty"`
	DoubleQuote     *bool   `yaml:"doublequote,omitempty"`
	EscapeChar      string  `yaml:"escapechar,omitempty"`
	Encoding        string  `yaml:"encoding,omitempty"`
	Suffix          string  `yaml:"suffix,omitempty"`
	CRLF            *bool   `yaml:"crlf,omitempty"`
	MergeDuplicates *bool   `yaml:"merge-duplicates,omitempty"`
}

// LoadConfig reads a config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is given by the user
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// configPath returns the config file to load: the flag value, else the
// environment, else none.
func configPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv(configEnv)
}
