package options

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// LogOptions configures pkg/logger.
type LogOptions struct {
	Level  string `json:"level"  mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`
	File   string `json:"file"   mapstructure:"file"`
}

func NewLogOptions() *LogOptions {
	return &LogOptions{
		Level:  "warn",
		Format: "text",
	}
}

func (o *LogOptions) Validate() []error {
	var errs []error
	if _, err := logrus.ParseLevel(o.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if o.Format != "text" && o.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format %q must be 'text' or 'json'", o.Format))
	}
	return errs
}

// AddFlags registers the flags without a prefix; they are global on the root command.
func (o *LogOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Level, "log-level", o.Level, "Log level: debug, info, warn or error.")
	fs.StringVar(&o.Format, "log-format", o.Format, "Log format: text or json.")
	fs.StringVar(&o.File, "log-file", o.File, "Write logs to this file instead of stderr.")
}
