package tools

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/todoist"
	"github.com/kiosk404/echotask/pkg/logger"
)

// TaskService is the slice of the Todoist client the task tools need.
type TaskService interface {
	ListTasks(ctx context.Context) iter.Seq2[[]todoist.Task, error]
	AddTask(ctx context.Context, content, description string) (*todoist.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

const (
	addTaskDescription    = "Add a new task to the user's task list. Use this when the user wants to add or create a task."
	showTasksDescription  = "Use this tool when the user wants to see their tasks. Show the tasks in a bullet list."
	deleteTaskDescription = "Delete a task from the user's task list by matching its content. Use this when the user wants to remove a task."
)

type AddTaskArgs struct {
	Task        string `json:"task"`
	Description string `json:"description,omitempty"`
}

type DeleteTaskArgs struct {
	TaskContent string `json:"task_content"`
}

// DeleteStatus is the outcome of delete_task. A miss is data, not an error.
type DeleteStatus string

const (
	DeleteStatusSuccess  DeleteStatus = "success"
	DeleteStatusNotFound DeleteStatus = "not_found"
)

type DeleteTaskResult struct {
	Status DeleteStatus `json:"status"`
	Task   string       `json:"task"`
}

// TaskTools implements the task tools on top of a TaskService.
type TaskTools struct {
	svc TaskService
}

func NewTaskTools(svc TaskService) *TaskTools {
	return &TaskTools{svc: svc}
}

// AddTask creates one task and confirms it by name.
func (t *TaskTools) AddTask(ctx context.Context, args AddTaskArgs) (string, error) {
	if strings.TrimSpace(args.Task) == "" {
		return "", fmt.Errorf("%w: add_task: task is empty", errno.ErrInvalidArguments)
	}
	if _, err := t.svc.AddTask(ctx, args.Task, args.Description); err != nil {
		return "", errno.NewRemoteServiceError(todoist.ModuleName, "add task", err)
	}
	logger.InfoX(ModuleName, "added task %q", args.Task)
	return fmt.Sprintf("Task '%s' added successfully.", args.Task), nil
}

// ShowTasks flattens every page into one ordered list of task contents.
func (t *TaskTools) ShowTasks(ctx context.Context, _ struct{}) ([]string, error) {
	contents := []string{}
	for page, err := range t.svc.ListTasks(ctx) {
		if err != nil {
			return nil, errno.NewRemoteServiceError(todoist.ModuleName, "list tasks", err)
		}
		for _, task := range page {
			contents = append(contents, task.Content)
		}
	}
	return contents, nil
}

// DeleteTask deletes the first task, in retrieval order, whose content equals
// args.TaskContent ignoring case. Later pages are not fetched once a match is found.
func (t *TaskTools) DeleteTask(ctx context.Context, args DeleteTaskArgs) (*DeleteTaskResult, error) {
	for page, err := range t.svc.ListTasks(ctx) {
		if err != nil {
			return nil, errno.NewRemoteServiceError(todoist.ModuleName, "list tasks", err)
		}
		for _, task := range page {
			if !strings.EqualFold(task.Content, args.TaskContent) {
				continue
			}
			if err := t.svc.DeleteTask(ctx, task.ID); err != nil {
				return nil, errno.NewRemoteServiceError(todoist.ModuleName, "delete task", err)
			}
			logger.InfoX(ModuleName, "deleted task %s matching %q", task.ID, args.TaskContent)
			return &DeleteTaskResult{Status: DeleteStatusSuccess, Task: args.TaskContent}, nil
		}
	}
	return &DeleteTaskResult{Status: DeleteStatusNotFound, Task: args.TaskContent}, nil
}

// Definitions returns the task tool catalog.
func (t *TaskTools) Definitions() []Definition {
	return []Definition{
		{
			Name:        ToolAddTask,
			Description: addTaskDescription,
			Parameters: []ParameterDef{
				{Name: "task", Type: "string", Description: "The task content, e.g. \"buy milk\".", Required: true},
				{Name: "description", Type: "string", Description: "Optional longer description of the task."},
			},
			Handler: Typed(t.AddTask),
		},
		{
			Name:        ToolShowTasks,
			Description: showTasksDescription,
			Handler:     Typed(t.ShowTasks),
		},
		{
			Name:        ToolDeleteTask,
			Description: deleteTaskDescription,
			Parameters: []ParameterDef{
				{Name: "task_content", Type: "string", Description: "The content of the task to delete.", Required: true},
			},
			Handler: Typed(t.DeleteTask),
		},
	}
}

// NewTaskRegistry builds the registry with add_task, show_tasks and delete_task.
func NewTaskRegistry(svc TaskService) *Registry {
	r := NewRegistry()
	for _, def := range NewTaskTools(svc).Definitions() {
		r.MustRegister(def)
	}
	return r
}
