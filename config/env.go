package config

import (
	"fmt"
	"strings"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config holds process settings read from the environment.
type Config struct {
	Provider        string `env:"AGENTMC_PROVIDER,default=openai"`
	Model           string `env:"AGENTMC_MODEL"`
	SelectorModel   string `env:"AGENTMC_SELECTOR_MODEL"`
	ReporterModel   string `env:"AGENTMC_REPORTER_MODEL"`
	SelectorWindow  int    `env:"AGENTMC_SELECTOR_WINDOW,default=10"`
	Stream          bool   `env:"AGENTMC_STREAM,default=true"`
	LogLevel        string `env:"AGENTMC_LOG_LEVEL,default=warn"`
	LogFormat       string `env:"AGENTMC_LOG_FORMAT,default=text"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL   string `env:"OPENAI_BASE_URL"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
}

// Providers lists the supported generation backends.
var Providers = []string{"openai", "anthropic", "mock"}

// Load reads the configuration from the environment after loading the given
// .env files (".env" when none are given). Missing files are ignored.
func Load(files ...string) (Config, error) {
	_ = godotenv.Load(files...)

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the provider and its credentials.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("config: OPENAI_API_KEY is required for provider openai")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("config: ANTHROPIC_API_KEY is required for provider anthropic")
		}
	case "mock":
	default:
		return fmt.Errorf("config: unknown provider %q (want one of %s)", c.Provider, strings.Join(Providers, ", "))
	}

	if c.SelectorWindow < 0 {
		return fmt.Errorf("config: AGENTMC_SELECTOR_WINDOW must not be negative")
	}

	return nil
}
