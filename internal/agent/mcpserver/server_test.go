package mcpserver_test

import (
	"context"
	"errors"
	"testing"

	mcpTool "github.com/cloudwego/eino-ext/components/tool/mcp"
	"github.com/cloudwego/eino/components/tool"
	"github.com/kiosk404/echotask/internal/agent/mcpserver"
	"github.com/kiosk404/echotask/internal/agent/tools"
	"github.com/kiosk404/echotask/internal/todoist/todoisttest"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, store *todoisttest.Store) *client.Client {
	t.Helper()
	ctx := context.Background()

	srv := mcpserver.NewServer(tools.NewTaskRegistry(store), "test")
	cli, err := client.NewInProcessClient(srv)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })
	require.NoError(t, cli.Start(ctx))

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "echotask-test", Version: "0.0.1"}
	_, err = cli.Initialize(ctx, initReq)
	require.NoError(t, err)
	return cli
}

func callTool(t *testing.T, cli *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := cli.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestServerListsTaskTools(t *testing.T) {
	cli := connect(t, todoisttest.NewStore(0))

	res, err := cli.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	byName := map[string]mcp.Tool{}
	for _, tl := range res.Tools {
		byName[tl.Name] = tl
	}
	require.Len(t, byName, 3)
	assert.Equal(t, []string{"task"}, byName["add_task"].InputSchema.Required)
	assert.Equal(t, []string{"task_content"}, byName["delete_task"].InputSchema.Required)
	assert.Contains(t, byName["show_tasks"].Description, "bullet list")
}

func TestServerRunsTools(t *testing.T) {
	store := todoisttest.NewStore(0)
	cli := connect(t, store)

	res := callTool(t, cli, "add_task", map[string]any{"task": "buy milk"})
	assert.False(t, res.IsError)
	assert.Equal(t, "Task 'buy milk' added successfully.", text(t, res))

	res = callTool(t, cli, "show_tasks", nil)
	assert.JSONEq(t, `["buy milk"]`, text(t, res))

	res = callTool(t, cli, "delete_task", map[string]any{"task_content": "BUY MILK"})
	assert.JSONEq(t, `{"status":"success","task":"BUY MILK"}`, text(t, res))
	assert.Empty(t, store.Contents())
}

func TestServerReportsToolErrors(t *testing.T) {
	store := todoisttest.NewStore(0)
	cli := connect(t, store)

	res := callTool(t, cli, "add_task", map[string]any{})
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "invalid tool arguments")

	store.Fail(todoisttest.OpList, errors.New("502"))
	res = callTool(t, cli, "show_tasks", nil)
	assert.True(t, res.IsError)
	assert.NotContains(t, text(t, res), "502")
}

// The same tools reach an eino agent through the MCP tool bridge.
func TestServerToolsThroughEinoBridge(t *testing.T) {
	store := todoisttest.NewStore(0)
	cli := connect(t, store)

	bridged, err := mcpTool.GetTools(context.Background(), &mcpTool.Config{
		Cli:          cli,
		ToolNameList: []string{"add_task"},
	})
	require.NoError(t, err)
	require.Len(t, bridged, 1)

	invokable, ok := bridged[0].(tool.InvokableTool)
	require.True(t, ok)
	out, err := invokable.InvokableRun(context.Background(), `{"task":"water plants"}`)
	require.NoError(t, err)
	assert.Contains(t, out, "added successfully")
	assert.Equal(t, []string{"water plants"}, store.Contents())
}
