package options

import (
	"errors"

	genericoptions "github.com/kiosk404/echotask/internal/pkg/options"
	"github.com/kiosk404/echotask/pkg/utils/json"
	"github.com/spf13/pflag"
)

// Options is the full echotask configuration. Keys mirror the config file:
//
//	todoist.api-key, models.provider, agent.max-steps, log.level ...
type Options struct {
	TodoistOptions *genericoptions.TodoistOptions `json:"todoist" mapstructure:"todoist"`
	ModelOptions   *genericoptions.ModelOptions   `json:"models"  mapstructure:"models"`
	AgentOptions   *genericoptions.AgentOptions   `json:"agent"   mapstructure:"agent"`
	LogOptions     *genericoptions.LogOptions     `json:"log"     mapstructure:"log"`
}

func NewOptions() *Options {
	return &Options{
		TodoistOptions: genericoptions.NewTodoistOptions(),
		ModelOptions:   genericoptions.NewModelOptions(),
		AgentOptions:   genericoptions.NewAgentOptions(),
		LogOptions:     genericoptions.NewLogOptions(),
	}
}

// AddFlags registers every option except the log flags, which the root
// command owns.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.TodoistOptions.AddFlags(fs)
	o.ModelOptions.AddFlags(fs)
	o.AgentOptions.AddFlags(fs)
}

// Validate checks every option group and joins the findings.
func (o *Options) Validate() error {
	var errs []error
	errs = append(errs, o.TodoistOptions.Validate()...)
	errs = append(errs, o.ModelOptions.Validate()...)
	errs = append(errs, o.AgentOptions.Validate()...)
	errs = append(errs, o.LogOptions.Validate()...)
	return errors.Join(errs...)
}

// Complete set default Options.
func (o *Options) Complete() error {
	if o.AgentOptions.Render == "" {
		o.AgentOptions.Render = "plain"
	}
	if o.LogOptions.Format == "" {
		o.LogOptions.Format = "text"
	}
	return nil
}

// String never includes API keys.
func (o *Options) String() string {
	data, _ := json.Marshal(o)

	return string(data)
}
