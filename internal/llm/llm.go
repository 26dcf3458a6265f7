// Package llm turns model configuration into a tool-calling eino chat model.
package llm

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/llm/entity"
	"github.com/kiosk404/echotask/internal/llm/provider"
	"github.com/kiosk404/echotask/internal/llm/provider/helper"
	"github.com/kiosk404/echotask/pkg/logger"
)

const ModuleName = "llm"

// Resolve fills the empty fields of conn from the provider defaults and
// expands "${ENV}" references. It reports the environment variable the API
// key is read from, if any, so callers can name it when the key is missing.
func Resolve(reg *provider.Registry, conn entity.Connection) (entity.Connection, string, error) {
	if conn.Provider == "" {
		conn.Provider = provider.DefaultProvider
	}
	plugin, err := reg.Get(conn.Provider)
	if err != nil {
		return conn, "", err
	}

	defaults := plugin.DefaultConfig()
	if conn.Model == "" {
		conn.Model = defaults.Model
	}
	if conn.BaseURL == "" {
		conn.BaseURL = defaults.BaseURL
	}

	keyRef := conn.APIKey
	if keyRef == "" {
		keyRef = defaults.APIKey
	}
	env, _ := helper.EnvReference(keyRef)
	conn.APIKey = helper.ResolveEnvValue(keyRef)
	return conn, env, nil
}

// RequiresAPIKey reports whether the named provider needs a key at all.
func RequiresAPIKey(reg *provider.Registry, name string) (bool, error) {
	plugin, err := reg.Get(name)
	if err != nil {
		return false, err
	}
	return plugin.DefaultConfig().APIKey != "", nil
}

// NewChatModel builds the provider's chat model and insists that it can bind tools.
func NewChatModel(ctx context.Context, reg *provider.Registry, conn *entity.Connection, params *entity.LLMParams) (model.ToolCallingChatModel, error) {
	plugin, err := reg.Get(conn.Provider)
	if err != nil {
		return nil, err
	}

	cm, err := plugin.BuildChatModel(ctx, conn, params)
	if err != nil {
		return nil, fmt.Errorf("build %s/%s chat model: %w", conn.Provider, conn.Model, err)
	}

	tcm, ok := cm.(model.ToolCallingChatModel)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", errno.ErrModelNotToolCapable, conn.Provider, conn.Model)
	}
	logger.InfoX(ModuleName, "using model %s/%s", conn.Provider, conn.Model)
	return tcm, nil
}
