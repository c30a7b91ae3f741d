// Package config loads the process configuration once at startup. Values come
// from defaults, an optional YAML or JSON file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is built once and handed to constructors.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm"`
	EV        EVConfig        `mapstructure:"ev"`
	GoogleAds GoogleAdsConfig `mapstructure:"google_ads"`
	Server    ServerConfig    `mapstructure:"server"`
	Debug     bool            `mapstructure:"debug"`
}

// LLMConfig configures the completion provider used for ad copy.
type LLMConfig struct {
	Provider string         `mapstructure:"provider"`
	Model    string         `mapstructure:"model"`
	APIKey   string         `mapstructure:"api_key"`
	BaseURL  string         `mapstructure:"base_url"`
	Timeout  time.Duration  `mapstructure:"timeout"`
	Sampling SamplingConfig `mapstructure:"sampling"`
}

type SamplingConfig struct {
	Temperature       float64  `mapstructure:"temperature"`
	TopP              float64  `mapstructure:"top_p"`
	TopK              int      `mapstructure:"top_k"`
	RepetitionPenalty float64  `mapstructure:"repetition_penalty"`
	Stop              []string `mapstructure:"stop"`
}

// EVConfig configures buyer interest scoring. An empty model falls back to llm.model.
type EVConfig struct {
	Model          string         `mapstructure:"model"`
	MaxTokens      int            `mapstructure:"max_tokens"`
	InternalDomain string         `mapstructure:"internal_domain"`
	Sampling       SamplingConfig `mapstructure:"sampling"`
}

type GoogleAdsConfig struct {
	YAMLLocation    string `mapstructure:"yaml_location"`
	LoginCustomerID string `mapstructure:"login_customer_id"`
	APIVersion      string `mapstructure:"api_version"`
	BaseURL         string `mapstructure:"base_url"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Providers understood by the binary.
const (
	ProviderTogether = "together"
	ProviderOpenAI   = "openai"
	ProviderMock     = "mock"
)

var envBindings = map[string]string{
	"llm.api_key":                  "TAI_KEY",
	"google_ads.yaml_location":     "GOOGLE_ADS_YAML_LOCATION",
	"google_ads.login_customer_id": "GOOGLE_ADS_LOGIN_CUSTOMER_ID",
	"debug":                        "DEBUG",
	"server.addr":                  "SERVER_ADDR",
}

var defaultStop = []string{"<|im_end|>", "<|endoftext|>"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", ProviderTogether)
	v.SetDefault("llm.model", "meta-llama/Llama-3.3-70B-Instruct-Turbo")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.sampling.temperature", 0.4)
	v.SetDefault("llm.sampling.top_p", 0.9)
	v.SetDefault("llm.sampling.top_k", 0)
	v.SetDefault("llm.sampling.repetition_penalty", 1.2)
	v.SetDefault("llm.sampling.stop", defaultStop)

	v.SetDefault("ev.max_tokens", 5)
	v.SetDefault("ev.internal_domain", "lgw.automatedconsultancy.com")
	v.SetDefault("ev.sampling.temperature", 0.7)
	v.SetDefault("ev.sampling.top_p", 0.7)
	v.SetDefault("ev.sampling.top_k", 50)
	v.SetDefault("ev.sampling.repetition_penalty", 1.0)
	v.SetDefault("ev.sampling.stop", defaultStop)

	v.SetDefault("google_ads.api_version", "v18")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("debug", false)
}

// Load reads configuration. path may be empty, in which case only defaults and
// the environment are used.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.EV.Model == "" {
		cfg.EV.Model = cfg.LLM.Model
	}
	return cfg, cfg.Validate()
}

// Validate checks fields that have no usable default.
func (c Config) Validate() error {
	switch strings.ToLower(c.LLM.Provider) {
	case ProviderTogether, ProviderMock:
	case ProviderOpenAI:
		if c.LLM.BaseURL == "" {
			return errors.New("llm provider openai requires llm.base_url (OpenAI-compatible endpoint)")
		}
	default:
		return fmt.Errorf("llm provider %q not supported", c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		return errors.New("llm.timeout must not be negative")
	}
	if c.EV.MaxTokens <= 0 {
		return errors.New("ev.max_tokens must be positive")
	}
	return nil
}
