package anthropic

import (
	"context"

	einoClaude "github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/llm/entity"
	"github.com/kiosk404/echotask/internal/llm/provider/helper"
	"github.com/kiosk404/echotask/internal/llm/provider/spi"
)

const Name = "anthropic"

// Claude requires max_tokens on every request.
const defaultMaxTokens = 4096

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
	cfg := &einoClaude.Config{
		APIKey:    conn.APIKey,
		Model:     conn.Model,
		MaxTokens: defaultMaxTokens,
	}

	if conn.BaseURL != "" {
		baseURL := conn.BaseURL
		cfg.BaseURL = &baseURL
	}

	applyParamsToClaudeConfig(cfg, params)

	return einoClaude.NewChatModel(ctx, cfg)
}

func applyParamsToClaudeConfig(conf *einoClaude.Config, params *entity.LLMParams) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		conf.Temperature = params.Temperature
	}
	if params.MaxTokens != 0 {
		conf.MaxTokens = params.MaxTokens
	}
	if params.TopP != nil {
		conf.TopP = params.TopP
	}
}

func (p *Plugin) DefaultConfig() *entity.ProviderDefaults {
	return &entity.ProviderDefaults{
		APIKey: "${ANTHROPIC_API_KEY}",
		Model:  "claude-haiku-4-5",
	}
}
