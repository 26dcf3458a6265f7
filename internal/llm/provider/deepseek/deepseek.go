package deepseek

import (
	"context"

	einoDeepseek "github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/llm/entity"
	"github.com/kiosk404/echotask/internal/llm/provider/helper"
	"github.com/kiosk404/echotask/internal/llm/provider/spi"
)

const Name = "deepseek"

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
	conf := &einoDeepseek.ChatModelConfig{
		APIKey:             conn.APIKey,
		Model:              conn.Model,
		Temperature:        0.7,
		ResponseFormatType: einoDeepseek.ResponseFormatTypeText,
	}

	if conn.BaseURL != "" {
		conf.BaseURL = conn.BaseURL
	}

	applyParamsToDeepseekConfig(conf, params)

	return einoDeepseek.NewChatModel(ctx, conf)
}

func applyParamsToDeepseekConfig(conf *einoDeepseek.ChatModelConfig, params *entity.LLMParams) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Temperature = *params.Temperature
	}
	if params.MaxTokens != 0 {
		conf.MaxTokens = params.MaxTokens
	}
	if params.TopP != nil {
		conf.TopP = *params.TopP
	}
}

func (p *Plugin) DefaultConfig() *entity.ProviderDefaults {
	return &entity.ProviderDefaults{
		BaseURL: "https://api.deepseek.com/v1",
		APIKey:  "${DEEPSEEK_API_KEY}",
		Model:   "deepseek-chat",
	}
}
