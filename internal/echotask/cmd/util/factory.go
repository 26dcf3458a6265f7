package util

import (
	"context"
	"net/http"

	"github.com/cloudwego/eino/components/model"
	"github.com/kiosk404/echotask/internal/agent/tools"
	"github.com/kiosk404/echotask/internal/echotask/config"
	"github.com/kiosk404/echotask/internal/echotask/options"
	"github.com/kiosk404/echotask/internal/llm"
	"github.com/kiosk404/echotask/internal/llm/provider"
	"github.com/kiosk404/echotask/internal/todoist"
	"github.com/spf13/viper"
)

// Factory hands commands the collaborators they need. Everything is built
// lazily, so a command only pays for, and only needs credentials for, what it
// actually uses.
type Factory interface {
	// Viper is the instance flags are bound to.
	Viper() *viper.Viper
	// Options loads the configuration without validating credentials.
	Options() (*options.Options, error)
	// Config validates the options and the Todoist credential.
	Config() (*config.Config, error)
	TodoistClient() (*todoist.Client, error)
	ToolRegistry() (*tools.Registry, error)
	// ChatModel resolves the provider credential and builds the model.
	ChatModel(ctx context.Context) (model.ToolCallingChatModel, error)
}

type factoryImpl struct {
	v          *viper.Viper
	configFile func() string
	providers  *provider.Registry

	opts     *options.Options
	cfg      *config.Config
	todoist  *todoist.Client
	registry *tools.Registry
}

// NewFactory reads the config file named by configFile when it is first needed.
func NewFactory(v *viper.Viper, configFile func() string) Factory {
	return &factoryImpl{
		v:          v,
		configFile: configFile,
		providers:  provider.NewInTreeRegistry(),
	}
}

func (f *factoryImpl) Viper() *viper.Viper {
	return f.v
}

func (f *factoryImpl) Options() (*options.Options, error) {
	if f.opts != nil {
		return f.opts, nil
	}
	opts, err := config.Load(f.v, f.configFile())
	if err != nil {
		return nil, err
	}
	f.opts = opts
	return opts, nil
}

func (f *factoryImpl) Config() (*config.Config, error) {
	if f.cfg != nil {
		return f.cfg, nil
	}
	opts, err := f.Options()
	if err != nil {
		return nil, err
	}
	cfg, err := config.CreateConfigFromOptions(opts)
	if err != nil {
		return nil, err
	}
	f.cfg = cfg
	return cfg, nil
}

func (f *factoryImpl) TodoistClient() (*todoist.Client, error) {
	if f.todoist != nil {
		return f.todoist, nil
	}
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	o := cfg.TodoistOptions
	f.todoist = todoist.NewClient(o.BaseURL, o.APIKey, o.PageSize, &http.Client{Timeout: o.Timeout})
	return f.todoist, nil
}

func (f *factoryImpl) ToolRegistry() (*tools.Registry, error) {
	if f.registry != nil {
		return f.registry, nil
	}
	client, err := f.TodoistClient()
	if err != nil {
		return nil, err
	}
	f.registry = tools.NewTaskRegistry(client)
	return f.registry, nil
}

func (f *factoryImpl) ChatModel(ctx context.Context) (model.ToolCallingChatModel, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, err
	}
	if err := cfg.ResolveModel(f.providers); err != nil {
		return nil, err
	}
	return llm.NewChatModel(ctx, f.providers, &cfg.Model, cfg.LLMParams())
}
