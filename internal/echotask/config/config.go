// Package config assembles the running configuration from flags, environment,
// the config file and a .env file, and checks it before anything talks to the
// network.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/echotask/options"
	"github.com/kiosk404/echotask/internal/llm"
	"github.com/kiosk404/echotask/internal/llm/entity"
	"github.com/kiosk404/echotask/internal/llm/provider"
	"github.com/kiosk404/echotask/pkg/logger"
	"github.com/spf13/viper"
)

const (
	ModuleName = "config"

	EnvPrefix     = "ECHOTASK"
	TodoistKeyEnv = "TODOIST_API_KEY"

	keyTodoistAPIKey = "todoist.api-key"
	keyModelsAPIKey  = "models.api-key"

	defaultConfigName = "echotask"
	defaultEnvFile    = ".env"
)

// Config is the running configuration structure of echotask.
type Config struct {
	*options.Options

	// Model is the resolved provider connection, API key included.
	// It is empty until ResolveModel succeeds.
	Model entity.Connection
}

// Load reads the configuration into a fresh Options. Precedence, highest
// first: flags bound to v, environment, config file, defaults. A .env file in
// the working directory is loaded into the environment first; it never
// overrides variables that are already set.
func Load(v *viper.Viper, configFile string) (*options.Options, error) {
	if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", defaultEnvFile, err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv(keyTodoistAPIKey, TodoistKeyEnv, EnvPrefix+"_TODOIST_API_KEY")
	_ = v.BindEnv(keyModelsAPIKey, EnvPrefix+"_MODELS_API_KEY")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(defaultConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, "."+defaultConfigName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		logger.DebugX(ModuleName, "using config file %s", v.ConfigFileUsed())
	}

	opts := options.NewOptions()
	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := opts.Complete(); err != nil {
		return nil, err
	}
	return opts, nil
}

// CreateConfigFromOptions validates opts and checks the Todoist credential.
// Problems are reported as *errno.ConfigurationError.
func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	if err := opts.Validate(); err != nil {
		return nil, &errno.ConfigurationError{Key: "options", Reason: err.Error()}
	}
	if strings.TrimSpace(opts.TodoistOptions.APIKey) == "" {
		return nil, errno.NewMissingKeyError(keyTodoistAPIKey, TodoistKeyEnv)
	}
	return &Config{Options: opts}, nil
}

// ResolveModel fills c.Model from the model options and provider defaults.
// Commands that never talk to a model skip it, so they work without a
// provider key.
func (c *Config) ResolveModel(reg *provider.Registry) error {
	m := c.ModelOptions
	conn, env, err := llm.Resolve(reg, entity.Connection{
		Provider: m.Provider,
		Model:    m.Model,
		APIKey:   m.APIKey,
		BaseURL:  m.BaseURL,
	})
	if err != nil {
		return &errno.ConfigurationError{Key: "models.provider", Reason: err.Error()}
	}
	needsKey, err := llm.RequiresAPIKey(reg, conn.Provider)
	if err != nil {
		return err
	}
	if needsKey && strings.TrimSpace(conn.APIKey) == "" {
		return errno.NewMissingKeyError(keyModelsAPIKey, env)
	}
	c.Model = conn
	return nil
}

// LLMParams maps the model options to provider parameters.
func (c *Config) LLMParams() *entity.LLMParams {
	temperature := c.ModelOptions.Temperature
	return &entity.LLMParams{
		Temperature: &temperature,
		MaxTokens:   c.ModelOptions.MaxTokens,
	}
}

// WatchLogLevel re-applies log.level whenever the config file changes.
// It does nothing when no config file was read.
func WatchLogLevel(v *viper.Viper) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		level := v.GetString("log.level")
		if err := logger.SetLevel(level); err != nil {
			logger.WarnX(ModuleName, "ignoring log level %q from %s: %v", level, e.Name, err)
			return
		}
		logger.InfoX(ModuleName, "log level set to %q from %s", level, e.Name)
	})
	v.WatchConfig()
}
