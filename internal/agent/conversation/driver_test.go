package conversation_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/kiosk404/echotask/internal/agent/conversation"
	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/agent/runtime"
	"github.com/kiosk404/echotask/internal/agent/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAgent answers from a queue and records each request.
type fakeAgent struct {
	replies  []any
	requests []*runtime.RunRequest
}

func (f *fakeAgent) Run(_ context.Context, req *runtime.RunRequest) (*runtime.RunResult, error) {
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return nil, errors.New("no reply queued")
	}
	next := f.replies[0]
	f.replies = f.replies[1:]
	if err, ok := next.(error); ok {
		return nil, err
	}
	return &runtime.RunResult{Output: next.(string)}, nil
}

func run(t *testing.T, agent conversation.Agent, input string) (*conversation.Driver, string) {
	t.Helper()
	d := conversation.NewDriver(agent)
	var out bytes.Buffer
	require.NoError(t, d.Run(context.Background(), strings.NewReader(input), &out))
	return d, out.String()
}

func TestDriverPrintsReplyAndRecordsTurn(t *testing.T) {
	agent := &fakeAgent{replies: []any{"I added the task buy milk for you."}}
	d, out := run(t, agent, "add buy milk\n")

	assert.Equal(t, "You: I added the task buy milk for you.\nYou: \nGoodbye!\n", out)
	assert.Equal(t, []session.Message{
		{Role: session.RoleUser, Content: "add buy milk"},
		{Role: session.RoleAssistant, Content: "I added the task buy milk for you."},
	}, d.History().Snapshot())
}

func TestDriverSendsPriorTurnsAsHistory(t *testing.T) {
	agent := &fakeAgent{replies: []any{"one", "two"}}
	_, _ = run(t, agent, "first\nsecond\n")

	require.Len(t, agent.requests, 2)
	assert.Empty(t, agent.requests[0].History)
	assert.Equal(t, "second", agent.requests[1].Input)
	assert.Equal(t, []session.Message{
		{Role: session.RoleUser, Content: "first"},
		{Role: session.RoleAssistant, Content: "one"},
	}, agent.requests[1].History)
}

func TestDriverSkipsBlankLines(t *testing.T) {
	agent := &fakeAgent{replies: []any{"ok"}}
	d, _ := run(t, agent, "\n   \nhello\n")
	assert.Len(t, agent.requests, 1)
	assert.Equal(t, 1, d.History().Turns())
}

func TestDriverFailedTurnLeavesHistoryAlone(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"remote", errno.NewRemoteServiceError("todoist", "add task", errors.New("503")), conversation.MsgRetryLater},
		{"max steps", fmt.Errorf("%w: limit is 10 model calls", errno.ErrMaxStepsExceeded), conversation.MsgRetryLater},
		{"unknown tool", &errno.ToolNotFoundError{Name: "rename_task"}, `I couldn't complete that: the assistant asked for an unknown tool "rename_task".`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agent := &fakeAgent{replies: []any{"earlier", tc.err, "later"}}
			d, out := run(t, agent, "a\nb\nc\n")

			assert.Contains(t, out, tc.want+"\n")
			assert.NotContains(t, out, tc.err.Error())
			msgs := d.History().Snapshot()
			require.Len(t, msgs, 4)
			assert.Equal(t, "a", msgs[0].Content)
			assert.Equal(t, "c", msgs[2].Content)
		})
	}
}

func TestDriverCommands(t *testing.T) {
	agent := &fakeAgent{replies: []any{"one", "two"}}
	d, out := run(t, agent, "first\n/clear\nsecond\n/quit\nnever\n")

	assert.Contains(t, out, conversation.MsgCleared)
	assert.Len(t, agent.requests, 2)
	assert.Empty(t, agent.requests[1].History)
	assert.Equal(t, 1, d.History().Turns())
	assert.True(t, strings.HasSuffix(out, conversation.MsgGoodbye+"\n"))
}

func TestDriverExitCommand(t *testing.T) {
	agent := &fakeAgent{}
	_, out := run(t, agent, "/exit\n")
	assert.Equal(t, "You: Goodbye!\n", out)
	assert.Empty(t, agent.requests)
}

func TestDriverStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	err := conversation.NewDriver(&fakeAgent{}).Run(ctx, pr, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), conversation.MsgGoodbye)
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestDriverReportsBrokenInput(t *testing.T) {
	var out bytes.Buffer
	err := conversation.NewDriver(&fakeAgent{}).Run(context.Background(), brokenReader{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, conversation.MsgRetryLater, conversation.Describe(errors.New("anything")))
	assert.Equal(t, `I couldn't complete that: the assistant asked for an unknown tool "x".`,
		conversation.Describe(fmt.Errorf("turn: %w", &errno.ToolNotFoundError{Name: "x"})))
}

func TestPlainRendererIsVerbatim(t *testing.T) {
	r := conversation.PlainRenderer{}
	assert.Equal(t, "You: ", r.Prompt())
	assert.Equal(t, "- a\n- b", r.Reply("- a\n- b"))
	assert.False(t, conversation.IsTerminal(&bytes.Buffer{}))
}
