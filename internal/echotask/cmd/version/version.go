package version

import (
	"fmt"

	"github.com/kiosk404/echotask/pkg/cli/genericclioptions"
	"github.com/kiosk404/echotask/pkg/utils/json"
	"github.com/kiosk404/echotask/pkg/version"
	"github.com/spf13/cobra"
)

type VersionOptions struct {
	Short  bool
	Output string

	genericclioptions.IOStreams
}

func NewCmdVersion(ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := &VersionOptions{IOStreams: ioStreams}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version information",
		Args:  cobra.NoArgs,
		// No configuration is needed to print the version.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(*cobra.Command, []string) error {
			return o.Run()
		},
	}

	cmd.Flags().BoolVar(&o.Short, "short", o.Short, "Print just the version number.")
	cmd.Flags().StringVarP(&o.Output, "output", "o", o.Output, "One of '', 'json'.")

	return cmd
}

func (o *VersionOptions) Run() error {
	info := version.Get()
	switch o.Output {
	case "":
		if o.Short {
			fmt.Fprintln(o.Out, info.GitVersion)
			return nil
		}
		fmt.Fprintf(o.Out, "Version: %s\nGit commit: %s\nBuild date: %s\nGo version: %s\nPlatform: %s\n",
			info.GitVersion, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
		return nil
	case "json":
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(o.Out, string(data))
		return nil
	default:
		return fmt.Errorf("invalid output format %q", o.Output)
	}
}
