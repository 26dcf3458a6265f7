package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// AgentOptions bounds the agent loop and shapes the chat session.
type AgentOptions struct {
	MaxSteps     int    `json:"max-steps"     mapstructure:"max-steps"`
	HistoryLimit int    `json:"history-limit" mapstructure:"history-limit"`
	SystemPrompt string `json:"system-prompt" mapstructure:"system-prompt"`
	Render       string `json:"render"        mapstructure:"render"`
}

func NewAgentOptions() *AgentOptions {
	return &AgentOptions{
		MaxSteps: 10,
		Render:   "plain",
	}
}

func (o *AgentOptions) Validate() []error {
	var errs []error
	if o.MaxSteps < 1 {
		errs = append(errs, fmt.Errorf("agent.max-steps must be at least 1, got %d", o.MaxSteps))
	}
	if o.HistoryLimit < 0 {
		errs = append(errs, fmt.Errorf("agent.history-limit must not be negative"))
	}
	if o.Render != "plain" && o.Render != "markdown" {
		errs = append(errs, fmt.Errorf("agent.render %q must be 'plain' or 'markdown'", o.Render))
	}
	return errs
}

func (o *AgentOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.MaxSteps, "agent.max-steps", o.MaxSteps, "Maximum model calls per turn.")
	fs.IntVar(&o.HistoryLimit, "agent.history-limit", o.HistoryLimit, "Keep only this many recent turns. 0 keeps all.")
	fs.StringVar(&o.SystemPrompt, "agent.system-prompt", o.SystemPrompt, "Replace the built-in system prompt.")
	fs.StringVar(&o.Render, "agent.render", o.Render, "Reply rendering: 'plain' or 'markdown'.")
}
