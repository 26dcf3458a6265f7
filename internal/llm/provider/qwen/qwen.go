package qwen

import (
	"context"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	einoQwen "github.com/cloudwego/eino-ext/components/model/qwen"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/llm/entity"
	"github.com/kiosk404/echotask/internal/llm/provider/helper"
	"github.com/kiosk404/echotask/internal/llm/provider/spi"
)

const Name = "qwen"

const defaultBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"

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
	conf := &einoQwen.ChatModelConfig{
		APIKey:      conn.APIKey,
		Model:       conn.Model,
		BaseURL:     defaultBaseURL,
		Temperature: gptr.Of(float32(0.7)),
		ResponseFormat: &einoOpenAI.ChatCompletionResponseFormat{
			Type: einoOpenAI.ChatCompletionResponseFormatTypeText,
		},
	}

	if conn.BaseURL != "" {
		conf.BaseURL = conn.BaseURL
	}

	applyParamsToQwenConfig(conf, params)

	return einoQwen.NewChatModel(ctx, conf)
}

func applyParamsToQwenConfig(conf *einoQwen.ChatModelConfig, params *entity.LLMParams) {
	if params == nil {
		return
	}

	conf.TopP = params.TopP

	if params.Temperature != nil {
		conf.Temperature = gptr.Of(*params.Temperature)
	}
	if params.MaxTokens != 0 {
		conf.MaxTokens = gptr.Of(params.MaxTokens)
	}
	if params.EnableThinking != nil {
		conf.EnableThinking = params.EnableThinking
	}
}

func (p *Plugin) DefaultConfig() *entity.ProviderDefaults {
	return &entity.ProviderDefaults{
		BaseURL: defaultBaseURL,
		APIKey:  "${DASHSCOPE_API_KEY}",
		Model:   "qwen-plus",
	}
}
