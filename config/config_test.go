package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ProviderTogether, cfg.LLM.Provider)
	assert.Equal(t, "meta-llama/Llama-3.3-70B-Instruct-Turbo", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, SamplingConfig{
		Temperature:       0.4,
		TopP:              0.9,
		RepetitionPenalty: 1.2,
		Stop:              []string{"<|im_end|>", "<|endoftext|>"},
	}, cfg.LLM.Sampling)
	assert.Equal(t, 5, cfg.EV.MaxTokens)
	assert.Equal(t, 50, cfg.EV.Sampling.TopK)
	assert.Equal(t, cfg.LLM.Model, cfg.EV.Model)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("TAI_KEY", "tai-secret")
	t.Setenv("GOOGLE_ADS_YAML_LOCATION", "/etc/google-ads.yaml")
	t.Setenv("GOOGLE_ADS_LOGIN_CUSTOMER_ID", "111-222-3333")
	t.Setenv("DEBUG", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "tai-secret", cfg.LLM.APIKey)
	assert.Equal(t, "/etc/google-ads.yaml", cfg.GoogleAds.YAMLLocation)
	assert.Equal(t, "111-222-3333", cfg.GoogleAds.LoginCustomerID)
	assert.True(t, cfg.Debug)
}

func TestLoad_FileThenEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`llm:
  provider: openai
  base_url: http://localhost:9000/v1/
  api_key: from-file
  timeout: 5s
  sampling:
    temperature: 0.2
ev:
  model: small-model
server:
  addr: ":9090"
`), 0o600))
	t.Setenv("TAI_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.APIKey)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 0.2, cfg.LLM.Sampling.Temperature)
	assert.Equal(t, 0.9, cfg.LLM.Sampling.TopP)
	assert.Equal(t, "small-model", cfg.EV.Model)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("llm:\n  provider: carrier-pigeon\n"), 0o600))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "not supported")

	noBase := filepath.Join(t.TempDir(), "nobase.yaml")
	require.NoError(t, os.WriteFile(noBase, []byte("llm:\n  provider: openai\n"), 0o600))
	_, err = Load(noBase)
	assert.ErrorContains(t, err, "base_url")
}
