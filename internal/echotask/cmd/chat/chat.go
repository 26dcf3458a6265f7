package chat

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/kiosk404/echotask/internal/agent/conversation"
	"github.com/kiosk404/echotask/internal/agent/runtime"
	"github.com/kiosk404/echotask/internal/agent/session"
	"github.com/kiosk404/echotask/internal/echotask/cmd/util"
	"github.com/kiosk404/echotask/internal/echotask/config"
	"github.com/kiosk404/echotask/pkg/cli/genericclioptions"
	"github.com/kiosk404/echotask/pkg/logger"
	"github.com/spf13/cobra"
)

const ModuleName = "chat"

var chatExample = heredoc.Doc(`
		# Interactive chat mode
		echotask chat

		# Single message mode
		echotask chat "add a task to buy milk"

		# Render replies as markdown
		echotask chat --render=markdown`)

type ChatOptions struct {
	Render string

	factory util.Factory
	genericclioptions.IOStreams
}

func NewCmdChat(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := NewChatOptions(f, ioStreams)

	cmd := &cobra.Command{
		Use:                   "chat [message]",
		DisableFlagsInUseLine: true,
		Short:                 "Talk to the task assistant",
		Long: heredoc.Doc(`
			Start a conversation with the task assistant.

			When invoked without arguments, read messages line by line until
			/quit, /exit or end of input. /clear forgets the conversation so far.
			When invoked with a message argument, answer it once and exit.`),
		Example: chatExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
	}

	cmd.Flags().StringVar(&o.Render, "render", o.Render, "Reply rendering: 'plain' or 'markdown'. Overrides agent.render.")

	return cmd
}

func NewChatOptions(f util.Factory, ioStreams genericclioptions.IOStreams) *ChatOptions {
	return &ChatOptions{
		factory:   f,
		IOStreams: ioStreams,
	}
}

func (o *ChatOptions) Complete(cmd *cobra.Command) error {
	if cmd.Flags().Changed("render") {
		return nil
	}
	opts, err := o.factory.Options()
	if err != nil {
		return err
	}
	o.Render = opts.AgentOptions.Render
	return nil
}

func (o *ChatOptions) Run(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := o.factory.Config()
	if err != nil {
		return err
	}
	registry, err := o.factory.ToolRegistry()
	if err != nil {
		return err
	}
	cm, err := o.factory.ChatModel(ctx)
	if err != nil {
		return err
	}
	runner, err := runtime.NewRunner(ctx, cm, registry, runtime.Config{
		MaxSteps:     cfg.AgentOptions.MaxSteps,
		SystemPrompt: cfg.AgentOptions.SystemPrompt,
	})
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return o.runOnce(ctx, runner, strings.Join(args, " "))
	}

	config.WatchLogLevel(o.factory.Viper())

	var renderer conversation.Renderer = conversation.PlainRenderer{}
	if conversation.IsTerminal(o.Out) {
		renderer = conversation.NewTermRenderer(o.Render)
	}
	driver := conversation.NewDriver(runner,
		conversation.WithRenderer(renderer),
		conversation.WithHistory(session.NewHistory(cfg.AgentOptions.HistoryLimit)),
	)
	logger.InfoX(ModuleName, "starting interactive session with %s/%s", cfg.Model.Provider, cfg.Model.Model)
	return driver.Run(ctx, o.In, o.Out)
}

func (o *ChatOptions) runOnce(ctx context.Context, runner *runtime.Runner, input string) error {
	res, err := runner.Run(ctx, &runtime.RunRequest{Input: input})
	if err != nil {
		logger.ErrorX(ModuleName, "turn failed: %v", err)
		fmt.Fprintln(o.ErrOut, conversation.Describe(err))
		return util.ErrExit
	}
	fmt.Fprintln(o.Out, res.Output)
	return nil
}
