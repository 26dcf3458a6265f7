package mcp

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/kiosk404/echotask/internal/agent/mcpserver"
	"github.com/kiosk404/echotask/internal/echotask/cmd/util"
	"github.com/kiosk404/echotask/pkg/cli/genericclioptions"
	"github.com/kiosk404/echotask/pkg/logger"
	"github.com/kiosk404/echotask/pkg/version"
	"github.com/spf13/cobra"
)

const ModuleName = "mcp"

func NewCmdMCP(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the task tools over MCP on stdio",
		Long: heredoc.Doc(`
			Expose add_task, show_tasks and delete_task as Model Context Protocol
			tools on stdin/stdout, so another assistant can manage the same
			Todoist account. Logs never go to stdout; use --log-file to keep them.`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f, ioStreams)
		},
	}
}

func run(ctx context.Context, f util.Factory, ioStreams genericclioptions.IOStreams) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := f.ToolRegistry()
	if err != nil {
		return err
	}
	s := mcpserver.NewServer(registry, version.Get().String())
	logger.InfoX(ModuleName, "serving %d tools on stdio", len(registry.Definitions()))
	return mcpserver.Serve(ctx, s, ioStreams.In, ioStreams.Out)
}
