package gemini

import (
	"context"
	"fmt"

	einoGemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/llm/entity"
	"github.com/kiosk404/echotask/internal/llm/provider/helper"
	"github.com/kiosk404/echotask/internal/llm/provider/spi"
	"google.golang.org/genai"
)

const Name = "gemini"

const defaultBaseURL = "https://generativelanguage.googleapis.com/"

var _ spi.ProviderPlugin = (*Plugin)(nil)

type Plugin struct {
	helper.BasePlugin
}

func New() spi.ProviderPlugin {
	return &Plugin{
		BasePlugin: helper.BasePlugin{PluginName: Name},
	}
}

// BuildChatModel talks to Google's generative AI API through genai rather
// than the OpenAI-compatible endpoint.
func (p *Plugin) BuildChatModel(ctx context.Context, conn *entity.Connection, params *entity.LLMParams) (model.BaseChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  conn.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: defaultBaseURL,
		},
	}
	if conn.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = conn.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client for %s/%s: %w", Name, conn.Model, err)
	}

	cfg := &einoGemini.Config{
		Client: client,
		Model:  conn.Model,
	}
	applyParamsToGeminiConfig(cfg, params)

	return einoGemini.NewChatModel(ctx, cfg)
}

func applyParamsToGeminiConfig(conf *einoGemini.Config, params *entity.LLMParams) {
	if params == nil {
		return
	}

	conf.TopK = params.TopK
	conf.TopP = params.TopP

	if params.Temperature != nil {
		t := *params.Temperature
		conf.Temperature = &t
	}

	if params.MaxTokens != 0 {
		mt := params.MaxTokens
		conf.MaxTokens = &mt
	}

	if params.EnableThinking != nil {
		conf.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: *params.EnableThinking,
		}
	}
}

func (p *Plugin) DefaultConfig() *entity.ProviderDefaults {
	return &entity.ProviderDefaults{
		APIKey: "${GEMINI_API_KEY}",
		Model:  "gemini-2.5-flash",
	}
}
