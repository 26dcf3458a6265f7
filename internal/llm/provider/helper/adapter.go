package helper

import (
	"context"

	"github.com/bytedance/gg/gptr"
	einoOpenAI "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/llm/entity"
)

// NewOpenAICompatibleChatModel creates an Eino ChatModel using the OpenAI-compatible API.
func NewOpenAICompatibleChatModel(ctx context.Context, conn *entity.Connection, params *entity.LLMParams) (model.BaseChatModel, error) {
	cfg := &einoOpenAI.ChatModelConfig{
		Model:     conn.Model,
		APIKey:    conn.APIKey,
		MaxTokens: gptr.Of(4096),
		ResponseFormat: &einoOpenAI.ChatCompletionResponseFormat{
			Type: einoOpenAI.ChatCompletionResponseFormatTypeText,
		},
	}

	// Set BaseURL only for non-default OpenAI endpoints.
	if conn.BaseURL != "" {
		cfg.BaseURL = conn.BaseURL
	}

	applyParamsToOpenAIChatModelConfig(cfg, params)

	return einoOpenAI.NewChatModel(ctx, cfg)
}

func applyParamsToOpenAIChatModelConfig(cfg *einoOpenAI.ChatModelConfig, params *entity.LLMParams) {
	if params == nil {
		return
	}

	if params.Temperature != nil {
		cfg.Temperature = params.Temperature
	}
	if params.MaxTokens != 0 {
		cfg.MaxTokens = gptr.Of(params.MaxTokens)
	}
	cfg.TopP = params.TopP
}
