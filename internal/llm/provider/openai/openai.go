package openai

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/llm/entity"
	"github.com/kiosk404/echotask/internal/llm/provider/helper"
	"github.com/kiosk404/echotask/internal/llm/provider/spi"
)

const Name = "openai"

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
	return helper.NewOpenAICompatibleChatModel(ctx, conn, params)
}

func (p *Plugin) DefaultConfig() *entity.ProviderDefaults {
	return &entity.ProviderDefaults{
		BaseURL: "https://api.openai.com/v1",
		APIKey:  "${OPENAI_API_KEY}",
		Model:   "gpt-4o-mini",
	}
}
