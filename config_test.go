package modelroute_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	mr "github.com/ineyio/modelroute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
default_model: alpha/small
models:
  - id: alpha/small
    name: Alpha Small
    context_window: 1000
  - id: ${MODELROUTE_TEST_FALLBACK}
    context_window: 2000
  - id: media/omni
    context_window: 50000
rules:
  multimodal_model: media/omni
  reasoning_tools:
    providers: [alpha]
    fallback_model: ${MODELROUTE_TEST_FALLBACK}
estimator:
  chars_per_token:
    alpha: 2.5
`

func TestParseConfig(t *testing.T) {
	t.Setenv("MODELROUTE_TEST_FALLBACK", "beta/mid")

	cfg, err := mr.ParseConfig([]byte(testYAML))
	require.NoError(t, err)

	assert.Equal(t, "alpha/small", cfg.DefaultModel)
	assert.Equal(t, mr.DefaultContextWindow, cfg.DefaultContextWindow)
	require.Len(t, cfg.Models, 3)
	assert.Equal(t, "beta/mid", cfg.Models[1].ID)
	assert.Equal(t, "beta", cfg.Models[1].Provider)
	assert.Equal(t, "beta/mid", cfg.Rules.ReasoningTools.FallbackModel)
	assert.Equal(t, 2.5, cfg.Estimator.CharsPerToken["alpha"])
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MODELROUTE_TEST_FALLBACK", "beta/mid")
	path := filepath.Join(t.TempDir(), "modelroute.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o600))

	cfg, err := mr.LoadConfig(path)
	require.NoError(t, err)

	r, err := mr.NewRouter(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2.5, r.Estimator().CharsPerToken("alpha"))
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := mr.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = mr.ParseConfig([]byte("models: [unterminated"))
	assert.ErrorContains(t, err, "parse config")
}

func TestDefaultConfig(t *testing.T) {
	cfg := mr.DefaultConfig()
	require.NoError(t, cfg.Validate())

	r, err := mr.NewRouter(cfg)
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-sonnet-4", r.DefaultModel())
	assert.Greater(t, r.Catalog().Len(), 0)
	for _, m := range r.Catalog().Models() {
		assert.Equal(t, mr.ProviderOf(m.ID), m.Provider, m.ID)
		assert.Positive(t, m.ContextWindow, m.ID)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*mr.Config)
		wantField string
	}{
		{"no models", func(c *mr.Config) { c.Models = nil }, "models"},
		{"empty id", func(c *mr.Config) { c.Models[0].ID = "" }, "models[0]"},
		{"id without provider", func(c *mr.Config) { c.Models[0].ID = "small" }, "models[0]"},
		{"id without name", func(c *mr.Config) { c.Models[0].ID = "alpha/" }, "models[0]"},
		{"provider mismatch", func(c *mr.Config) { c.Models[1].Provider = "beta" }, "models[1]"},
		{"zero window", func(c *mr.Config) { c.Models[2].ContextWindow = 0 }, "models[2]"},
		{"duplicate id", func(c *mr.Config) { c.Models[1].ID = "alpha/small" }, "models[1]"},
		{"unknown default", func(c *mr.Config) { c.DefaultModel = "alpha/missing" }, "default_model"},
		{"missing multimodal", func(c *mr.Config) { c.Rules.MultimodalModel = "" }, "rules.multimodal_model"},
		{"unknown multimodal", func(c *mr.Config) { c.Rules.MultimodalModel = "media/missing" }, "rules.multimodal_model"},
		{"unknown fallback", func(c *mr.Config) { c.Rules.ReasoningTools.FallbackModel = "beta/missing" }, "rules.reasoning_tools.fallback_model"},
		{"fallback in affected provider", func(c *mr.Config) { c.Rules.ReasoningTools.FallbackModel = "alpha/large" }, "rules.reasoning_tools.fallback_model"},
		{"negative default ratio", func(c *mr.Config) { c.Estimator.DefaultCharsPerToken = -1 }, "estimator.default_chars_per_token"},
		{"zero provider ratio", func(c *mr.Config) { c.Estimator.CharsPerToken = map[string]float64{"alpha": 0} }, "estimator.chars_per_token.alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, mr.ErrInvalidConfig)

			var ce *mr.ConfigError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.wantField, ce.Field)
		})
	}
}

func TestConfigValidate_ReasoningToolsOptional(t *testing.T) {
	cfg := testConfig()
	cfg.Rules.ReasoningTools = mr.ReasoningToolsConfig{}
	require.NoError(t, cfg.Validate())

	r, err := mr.NewRouter(cfg)
	require.NoError(t, err)

	d := r.Route(mr.RoutingInput{SelectedModelID: "alpha/small", ReasoningEnabled: true, ToolsEnabled: true})
	assert.False(t, d.WasChanged)
}
