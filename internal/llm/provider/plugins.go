package provider

import (
	"github.com/kiosk404/echotask/internal/llm/provider/anthropic"
	"github.com/kiosk404/echotask/internal/llm/provider/deepseek"
	"github.com/kiosk404/echotask/internal/llm/provider/gemini"
	"github.com/kiosk404/echotask/internal/llm/provider/ollama"
	"github.com/kiosk404/echotask/internal/llm/provider/openai"
	"github.com/kiosk404/echotask/internal/llm/provider/qwen"
	"github.com/kiosk404/echotask/internal/llm/provider/spi"
)

// DefaultProvider is used when no provider is configured.
const DefaultProvider = gemini.Name

func NewInTreeRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(gemini.Name, func() spi.ProviderPlugin { return gemini.New() })
	r.MustRegister(openai.Name, func() spi.ProviderPlugin { return openai.New() })
	r.MustRegister(anthropic.Name, func() spi.ProviderPlugin { return anthropic.New() })
	r.MustRegister(deepseek.Name, func() spi.ProviderPlugin { return deepseek.New() })
	r.MustRegister(qwen.Name, func() spi.ProviderPlugin { return qwen.New() })
	r.MustRegister(ollama.Name, func() spi.ProviderPlugin { return ollama.New() })
	return r
}
