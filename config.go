package modelroute

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultContextWindow is assumed for models missing from the catalog.
const DefaultContextWindow = 128_000

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Config is the top-level router configuration.
type Config struct {
	DefaultModel         string          `yaml:"default_model"`
	DefaultContextWindow int             `yaml:"default_context_window"`
	Models               []ModelEntry    `yaml:"models"`
	Rules                RulesConfig     `yaml:"rules"`
	Estimator            EstimatorConfig `yaml:"estimator"`
}

// RulesConfig names the targets of the media and reasoning+tools rules.
type RulesConfig struct {
	// MultimodalModel serves conversations with audio or video attachments.
	MultimodalModel string               `yaml:"multimodal_model"`
	ReasoningTools  ReasoningToolsConfig `yaml:"reasoning_tools"`
}

// ReasoningToolsConfig lists provider families that cannot call tools while
// reasoning is enabled, and the model used instead.
type ReasoningToolsConfig struct {
	Providers     []string `yaml:"providers"`
	FallbackModel string   `yaml:"fallback_model"`
}

// DefaultConfig returns the configuration embedded in the package.
// It panics if the embedded catalog is invalid.
func DefaultConfig() Config {
	cfg, err := ParseConfig(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("modelroute: embedded catalog: %v", err))
	}
	return cfg
}

// LoadConfig reads and parses a YAML config file.
// Environment variables in the format ${VAR} are expanded before parsing.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("modelroute: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates YAML config data.
func ParseConfig(data []byte) (Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("modelroute: parse config: %w", err)
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// normalize fills providers from model ids and applies defaults.
func (c *Config) normalize() {
	if c.DefaultContextWindow <= 0 {
		c.DefaultContextWindow = DefaultContextWindow
	}
	for i := range c.Models {
		if c.Models[i].Provider == "" {
			c.Models[i].Provider = ProviderOf(c.Models[i].ID)
		}
	}
}

// Validate checks the config for required fields and consistency.
func (c Config) Validate() error {
	if len(c.Models) == 0 {
		return configErr("models", "at least one model is required")
	}

	byID := make(map[string]ModelEntry, len(c.Models))
	for i, m := range c.Models {
		field := fmt.Sprintf("models[%d]", i)
		if m.ID == "" {
			return configErr(field, "id is required")
		}
		prefix := ProviderOf(m.ID)
		if prefix == "" || strings.HasSuffix(m.ID, "/") {
			return configErr(field, "id %q must have the form provider/name", m.ID)
		}
		if m.Provider != "" && m.Provider != prefix {
			return configErr(field, "provider %q does not match id %q", m.Provider, m.ID)
		}
		if m.ContextWindow <= 0 {
			return configErr(field, "context_window must be positive for %q", m.ID)
		}
		if _, dup := byID[m.ID]; dup {
			return configErr(field, "duplicate model id %q", m.ID)
		}
		byID[m.ID] = m
	}

	if c.DefaultModel != "" {
		if _, ok := byID[c.DefaultModel]; !ok {
			return configErr("default_model", "%q is not in the catalog", c.DefaultModel)
		}
	}

	if c.Rules.MultimodalModel == "" {
		return configErr("rules.multimodal_model", "model is required")
	}
	if _, ok := byID[c.Rules.MultimodalModel]; !ok {
		return configErr("rules.multimodal_model", "%q is not in the catalog", c.Rules.MultimodalModel)
	}

	rt := c.Rules.ReasoningTools
	if len(rt.Providers) > 0 {
		fb, ok := byID[rt.FallbackModel]
		if rt.FallbackModel == "" || !ok {
			return configErr("rules.reasoning_tools.fallback_model", "%q is not in the catalog", rt.FallbackModel)
		}
		for i, p := range rt.Providers {
			if p == "" {
				return configErr(fmt.Sprintf("rules.reasoning_tools.providers[%d]", i), "provider is required")
			}
			if strings.EqualFold(p, ProviderOf(fb.ID)) {
				return configErr("rules.reasoning_tools.fallback_model", "%q belongs to affected provider %q", fb.ID, p)
			}
		}
	}

	if c.Estimator.DefaultCharsPerToken < 0 {
		return configErr("estimator.default_chars_per_token", "must not be negative")
	}
	for p, r := range c.Estimator.CharsPerToken {
		if r <= 0 {
			return configErr("estimator.chars_per_token."+p, "must be positive")
		}
	}

	return nil
}
