package tasks

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/gosuri/uitable"
	"github.com/kiosk404/echotask/internal/echotask/cmd/util"
	"github.com/kiosk404/echotask/internal/todoist"
	"github.com/kiosk404/echotask/pkg/cli/genericclioptions"
	"github.com/kiosk404/echotask/pkg/utils/json"
	"github.com/spf13/cobra"
)

const (
	outputTable = "table"
	outputJSON  = "json"

	timeLayout = "2006-01-02 15:04"
)

type TasksOptions struct {
	Output string

	factory util.Factory
	genericclioptions.IOStreams
}

func NewCmdTasks(f util.Factory, ioStreams genericclioptions.IOStreams) *cobra.Command {
	o := &TasksOptions{
		Output:    outputTable,
		factory:   f,
		IOStreams: ioStreams,
	}

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List active tasks without the assistant",
		Long: heredoc.Doc(`
			Print every active task of the Todoist account, one row per task.
			No model is involved, so only the Todoist token is needed.`),
		Example: heredoc.Doc(`
			# Table output
			echotask tasks

			# JSON output
			echotask tasks -o json`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.Validate(); err != nil {
				return err
			}
			return o.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&o.Output, "output", "o", o.Output, "Output format: table or json.")

	return cmd
}

func (o *TasksOptions) Validate() error {
	if o.Output != outputTable && o.Output != outputJSON {
		return fmt.Errorf("unsupported output format %q", o.Output)
	}
	return nil
}

func (o *TasksOptions) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := o.factory.TodoistClient()
	if err != nil {
		return err
	}

	all := []todoist.Task{}
	for page, err := range client.ListTasks(ctx) {
		if err != nil {
			return err
		}
		all = append(all, page...)
	}

	if o.Output == outputJSON {
		data, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(o.Out, string(data))
		return err
	}

	table := uitable.New()
	table.MaxColWidth = 60
	table.AddRow("ID", "CONTENT", "PRIORITY", "ADDED")
	for _, t := range all {
		added := "-"
		if t.AddedAt != nil {
			added = t.AddedAt.Local().Format(timeLayout)
		}
		table.AddRow(t.ID, t.Content, t.Priority, added)
	}
	_, err = fmt.Fprintln(o.Out, table)
	return err
}
