package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	cmdchat "github.com/kiosk404/echotask/internal/echotask/cmd/chat"
	cmdmcp "github.com/kiosk404/echotask/internal/echotask/cmd/mcp"
	cmdtasks "github.com/kiosk404/echotask/internal/echotask/cmd/tasks"
	cmdutil "github.com/kiosk404/echotask/internal/echotask/cmd/util"
	cmdversion "github.com/kiosk404/echotask/internal/echotask/cmd/version"
	"github.com/kiosk404/echotask/internal/echotask/options"
	"github.com/kiosk404/echotask/pkg/cli/genericclioptions"
	"github.com/kiosk404/echotask/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewDefaultEchoTaskCommand creates the `echotask` command with default arguments.
func NewDefaultEchoTaskCommand() *cobra.Command {
	return NewEchoTaskCommand(os.Stdin, os.Stdout, os.Stderr)
}

func NewEchoTaskCommand(in io.Reader, out, err io.Writer) *cobra.Command {
	v := viper.New()
	f := cmdutil.NewFactory(v, GetConfigFile)
	return newEchoTaskCommand(f, genericclioptions.IOStreams{In: in, Out: out, ErrOut: err})
}

func newEchoTaskCommand(f cmdutil.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	// Parent command to which all subcommands are added.
	cmds := &cobra.Command{
		Use:   "echotask",
		Short: "echotask manages your Todoist tasks through a chat assistant",
		Long: heredoc.Docf(`%s
			echotask is a conversational assistant for your Todoist task list.

			Tell it what you want in plain language and it adds, lists or deletes
			tasks for you. It needs a Todoist API token (TODOIST_API_KEY) and an
			API key for the configured model provider (GEMINI_API_KEY by default).
			Both can also be put in a .env file or in echotask.yaml.`, Banner()),
		Example: heredoc.Doc(`
			# Start an interactive session
			echotask chat

			# Ask a single question and exit
			echotask chat "what is on my list?"

			# List tasks without the assistant
			echotask tasks

			# Serve the task tools to an MCP client over stdio
			echotask mcp`),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run:           runHelp,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return initLogging(f)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.FlushLog()
		},
	}
	cmds.SetIn(ioStreams.In)
	cmds.SetOut(ioStreams.Out)
	cmds.SetErr(ioStreams.ErrOut)

	flags := cmds.PersistentFlags()
	addGlobalFlags(flags, f.Viper())
	options.NewOptions().AddFlags(flags)
	_ = f.Viper().BindPFlags(flags)

	cmds.AddGroup(
		&cobra.Group{ID: "basic", Title: "Basic Commands:"},
		&cobra.Group{ID: "integration", Title: "Integration Commands:"},
	)
	for _, c := range []*cobra.Command{
		cmdchat.NewCmdChat(f, ioStreams),
		cmdtasks.NewCmdTasks(f, ioStreams),
	} {
		c.GroupID = "basic"
		cmds.AddCommand(c)
	}
	mcpCmd := cmdmcp.NewCmdMCP(f, ioStreams)
	mcpCmd.GroupID = "integration"
	cmds.AddCommand(mcpCmd)
	cmds.AddCommand(cmdversion.NewCmdVersion(ioStreams))

	return cmds
}

func initLogging(f cmdutil.Factory) error {
	opts, err := f.Options()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Options{
		Level:  opts.LogOptions.Level,
		Format: opts.LogOptions.Format,
		File:   opts.LogOptions.File,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}

func runHelp(cmd *cobra.Command, args []string) {
	_ = cmd.Help()
}
