package spi

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/llm/entity"
)

// ProviderPlugin is the interface for provider plugins.
type ProviderPlugin interface {
	// Name returns the name of the provider plugin.
	Name() string
	// DefaultConfig returns the defaults used for unset connection fields.
	DefaultConfig() *entity.ProviderDefaults
	// BuildChatModel builds a chat model for conn. params may be nil, in which
	// case provider defaults are used.
	BuildChatModel(ctx context.Context, conn *entity.Connection, params *entity.LLMParams) (model.BaseChatModel, error)
}

// PluginFactory is a function that creates a ProviderPlugin instance.
type PluginFactory func() ProviderPlugin
