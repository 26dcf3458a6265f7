package ollama

import (
	"context"

	einoOllama "github.com/cloudwego/eino-ext/components/model/ollama"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/llm/entity"
	"github.com/kiosk404/echotask/internal/llm/provider/helper"
	"github.com/kiosk404/echotask/internal/llm/provider/spi"
)

const Name = "ollama"

const defaultBaseURL = "http://127.0.0.1:11434"

var _ spi.ProviderPlugin = (*Plugin)(nil)

type Plugin struct {
	helper.BasePlugin
}

func New() spi.ProviderPlugin {
	return &Plugin{
		BasePlugin: helper.BasePlugin{PluginName: Name},
	}
}

func (p *Plugin) BuildChatModel(ctx context.Context, conn *entity.Connection, params *entity.LLMParams) (model.BaseChatModel, error) {
	conf := &einoOllama.ChatModelConfig{
		BaseURL: defaultBaseURL,
		Model:   conn.Model,
		Options: &einoOllama.Options{},
	}
	if conn.BaseURL != "" {
		conf.BaseURL = conn.BaseURL
	}

	applyParamsToOllamaConfig(conf, params)

	return einoOllama.NewChatModel(ctx, conf)
}

func applyParamsToOllamaConfig(conf *einoOllama.ChatModelConfig, params *entity.LLMParams) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Options.Temperature = *params.Temperature
	}
	if params.TopP != nil {
		conf.Options.TopP = *params.TopP
	}
	if params.TopK != nil {
		conf.Options.TopK = int(*params.TopK)
	}
	if params.EnableThinking != nil {
		conf.Thinking = &einoOllama.ThinkValue{
			Value: params.EnableThinking,
		}
	}
}

// DefaultConfig has no API key: a local ollama needs none.
func (p *Plugin) DefaultConfig() *entity.ProviderDefaults {
	return &entity.ProviderDefaults{
		BaseURL: defaultBaseURL,
		Model:   "llama3.1",
	}
}
