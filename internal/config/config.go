package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config models lifelog.yml.
type Config struct {
	Server struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
	Auth struct {
		// APIKey is the shared secret checked against X-Api-Key and used to
		// verify HS256 bearer tokens. Empty means the LIFELOG_API_KEY env
		// variable is consulted at serve time.
		APIKey string `yaml:"api_key"`
	} `yaml:"auth"`
	Menu struct {
		Uncategorized  string           `yaml:"uncategorized"`
		DefaultEmoji   string           `yaml:"default_emoji"`
		TimeoutSeconds int              `yaml:"timeout_seconds"`
		Annotations    []AnnotationRule `yaml:"annotations"`
	} `yaml:"menu"`
	Webhooks []WebhookConfig `yaml:"webhooks"`
}

// AnnotationRule binds an activity-type name to the description marker whose
// remainder replaces the type name inside the end label ("End gaming" ->
// "End Hades" when the description carries "Game: Hades").
type AnnotationRule struct {
	Type   string `yaml:"type"`
	Marker string `yaml:"marker"`
}

type WebhookConfig struct {
	URL     string   `yaml:"url"`
	Events  []string `yaml:"events"`
	Enabled *bool    `yaml:"enabled"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; run ll config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the defaults if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Menu.Uncategorized == "" {
		return fmt.Errorf("config.menu.uncategorized is required")
	}
	if c.Menu.TimeoutSeconds < 0 {
		return fmt.Errorf("config.menu.timeout_seconds must not be negative")
	}
	seen := map[string]bool{}
	for _, rule := range c.Menu.Annotations {
		name := strings.ToLower(strings.TrimSpace(rule.Type))
		if name == "" {
			return fmt.Errorf("config.menu.annotations contains empty type")
		}
		if rule.Marker == "" {
			return fmt.Errorf("annotation for type %s has empty marker", rule.Type)
		}
		if seen[name] {
			return fmt.Errorf("duplicate annotation for type %s", rule.Type)
		}
		seen[name] = true
	}
	for i, hook := range c.Webhooks {
		if strings.TrimSpace(hook.URL) == "" {
			return fmt.Errorf("webhook %d has empty url", i)
		}
	}
	return nil
}

// MenuTimeout returns the bound for one whole menu aggregation.
func (c *Config) MenuTimeout() time.Duration {
	if c.Menu.TimeoutSeconds == 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Menu.TimeoutSeconds) * time.Second
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "lifelog.yml")
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.Unmarshal([]byte(defaultTemplate), &cfg)
	return &cfg
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `server:
  addr: 127.0.0.1:3000
  base_path: ""

auth:
  api_key: ""

menu:
  uncategorized: Uncategorized
  default_emoji: "❓"
  timeout_seconds: 5
  annotations:
    - type: gaming
      marker: "Game: "
    - type: watching tv
      marker: "Show: "
    - type: watching movie
      marker: "Movie: "

webhooks: []
`
