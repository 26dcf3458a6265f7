package cmd

import (
	"github.com/kiosk404/echotask/internal/pkg/options"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const flagConfig = "config"

var globalConfigFile string

func addGlobalFlags(flags *pflag.FlagSet, v *viper.Viper) {
	flags.StringVarP(&globalConfigFile, flagConfig, "c", "",
		"Read configuration from this file. Defaults to ./echotask.yaml or ~/.echotask/echotask.yaml.")

	logOpts := options.NewLogOptions()
	logOpts.AddFlags(flags)
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = v.BindPFlag("log.file", flags.Lookup("log-file"))
}

// GetConfigFile returns the --config value.
func GetConfigFile() string {
	return globalConfigFile
}
