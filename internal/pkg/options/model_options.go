package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// ModelOptions selects the language model provider and its sampling settings.
type ModelOptions struct {
	Provider    string  `json:"provider"    mapstructure:"provider"`
	Model       string  `json:"model"       mapstructure:"model"`
	APIKey      string  `json:"-"           mapstructure:"api-key"`
	BaseURL     string  `json:"base-url"    mapstructure:"base-url"`
	Temperature float32 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max-tokens"  mapstructure:"max-tokens"`
}

func NewModelOptions() *ModelOptions {
	return &ModelOptions{
		Provider:    "gemini",
		Temperature: 0.3,
	}
}

func (o *ModelOptions) Validate() []error {
	var errs []error
	if o.Provider == "" {
		errs = append(errs, fmt.Errorf("models.provider is required"))
	}
	if o.Temperature < 0 || o.Temperature > 2 {
		errs = append(errs, fmt.Errorf("models.temperature %v is out of range [0, 2]", o.Temperature))
	}
	if o.MaxTokens < 0 {
		errs = append(errs, fmt.Errorf("models.max-tokens must not be negative"))
	}
	return errs
}

func (o *ModelOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Provider, "models.provider", o.Provider, "Model provider: gemini, openai, anthropic, deepseek, qwen or ollama.")
	fs.StringVar(&o.Model, "models.model", o.Model, "Model ID. Empty uses the provider default.")
	fs.StringVar(&o.BaseURL, "models.base-url", o.BaseURL, "Override the provider endpoint.")
	fs.Float32Var(&o.Temperature, "models.temperature", o.Temperature, "Sampling temperature.")
	fs.IntVar(&o.MaxTokens, "models.max-tokens", o.MaxTokens, "Maximum tokens per reply. 0 keeps the provider default.")
}
