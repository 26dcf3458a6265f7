package tools_test

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/agent/tools"
	"github.com/kiosk404/echotask/internal/todoist/todoisttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInvokeEncodesResults(t *testing.T) {
	ctx := context.Background()
	store := todoisttest.NewStore(0)
	r := tools.NewTaskRegistry(store)

	out, err := r.Invoke(ctx, "add_task", `{"task":"buy milk"}`)
	require.NoError(t, err)
	assert.Equal(t, "Task 'buy milk' added successfully.", out)

	out, err = r.Invoke(ctx, "show_tasks", "{}")
	require.NoError(t, err)
	assert.JSONEq(t, `["buy milk"]`, out)

	out, err = r.Invoke(ctx, "delete_task", `{"task_content":"Buy Milk"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"success","task":"Buy Milk"}`, out)

	out, err = r.Invoke(ctx, "show_tasks", "")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestRegistryRejectsUnknownTool(t *testing.T) {
	r := tools.NewTaskRegistry(todoisttest.NewStore(0))

	_, err := r.Invoke(context.Background(), "rename_task", `{}`)
	require.ErrorIs(t, err, errno.ErrToolNotFound)

	var tnf *errno.ToolNotFoundError
	require.ErrorAs(t, err, &tnf)
	assert.Equal(t, "rename_task", tnf.Name)
}

func TestRegistryKnownNameButUnregistered(t *testing.T) {
	r := tools.NewRegistry()
	_, err := r.Lookup("add_task")
	assert.ErrorIs(t, err, errno.ErrToolNotFound)
}

func TestRegistryValidatesRequiredArguments(t *testing.T) {
	r := tools.NewTaskRegistry(todoisttest.NewStore(0))

	cases := map[string]string{
		"missing": `{}`,
		"empty":   `{"task":"  "}`,
		"null":    `{"task":null}`,
		"broken":  `{"task":`,
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Invoke(context.Background(), "add_task", args)
			assert.ErrorIs(t, err, errno.ErrInvalidArguments)
		})
	}
}

func TestRegistryRegisterRejectsBadDefinitions(t *testing.T) {
	r := tools.NewRegistry()
	handler := func(context.Context, string) (interface{}, error) { return "ok", nil }

	require.Error(t, r.Register(tools.Definition{Name: "rename_task", Handler: handler}))
	require.Error(t, r.Register(tools.Definition{Name: tools.ToolAddTask}))
	require.NoError(t, r.Register(tools.Definition{Name: tools.ToolAddTask, Handler: handler}))
	require.Error(t, r.Register(tools.Definition{Name: tools.ToolAddTask, Handler: handler}))
	assert.Panics(t, func() { r.MustRegister(tools.Definition{Name: tools.ToolAddTask, Handler: handler}) })
}

func TestRegistryInfosDescribeTriggerAndShape(t *testing.T) {
	r := tools.NewTaskRegistry(todoisttest.NewStore(0))

	infos, err := r.Infos(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 3)

	byName := map[string]*schema.ToolInfo{}
	for _, info := range infos {
		byName[info.Name] = info
		assert.Contains(t, info.Desc, "Use this")
	}
	assert.Equal(t, "add_task", infos[0].Name)
	assert.Contains(t, byName["show_tasks"].Desc, "bullet list")
	assert.Nil(t, byName["show_tasks"].ParamsOneOf)

	assert.NotNil(t, byName["delete_task"].ParamsOneOf)
	assert.NotNil(t, byName["add_task"].ParamsOneOf)
}

func TestInvokableToolsRunThroughRegistry(t *testing.T) {
	store := todoisttest.NewStore(0)
	r := tools.NewTaskRegistry(store)

	invokable := r.InvokableTools()
	require.Len(t, invokable, 3)

	out, err := invokable[0].InvokableRun(context.Background(), `{"task":"walk dog"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "walk dog")
	assert.Equal(t, []string{"walk dog"}, store.Contents())
}

func TestParseToolName(t *testing.T) {
	n, ok := tools.ParseToolName("delete_task")
	assert.True(t, ok)
	assert.Equal(t, tools.ToolDeleteTask, n)

	_, ok = tools.ParseToolName("Delete_Task")
	assert.False(t, ok)
}
