package conversation_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/cucumber/godog"
	"github.com/kiosk404/echotask/internal/agent/conversation"
	"github.com/kiosk404/echotask/internal/agent/runtime"
	"github.com/kiosk404/echotask/internal/agent/tools"
	"github.com/kiosk404/echotask/internal/llm/llmtest"
	"github.com/kiosk404/echotask/internal/todoist/todoisttest"
	"github.com/kiosk404/echotask/pkg/utils/json"
)

// TestConversationScenarios runs the chat feature scenarios against the real
// runner, tools and an in-memory Todoist, with a rule-based model.
func TestConversationScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "conversation",
		ScenarioInitializer: initializeConversationScenario,
		Options: &godog.Options{
			Format:   "progress",
			Paths:    []string{filepath.Join("testdata", "features")},
			Output:   io.Discard,
			Strict:   true,
			TestingT: t,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

type conversationState struct {
	store  *todoisttest.Store
	driver *conversation.Driver
	reply  string
}

func initializeConversationScenario(ctx *godog.ScenarioContext) {
	s := &conversationState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, s.reset()
	})

	ctx.Step(`^an empty task list$`, func() error { return nil })
	ctx.Step(`^the task list has "([^"]*)"$`, s.givenTask)
	ctx.Step(`^the task list has (\d+) tasks$`, s.givenTasks)
	ctx.Step(`^the task service is failing$`, s.givenOutage)
	ctx.Step(`^I say "([^"]*)"$`, s.whenISay)
	ctx.Step(`^the assistant replies "([^"]*)"$`, s.thenReplyIs)
	ctx.Step(`^the assistant reply contains "([^"]*)"$`, s.thenReplyContains)
	ctx.Step(`^the assistant replies with a bullet list of (\d+) tasks$`, s.thenBulletList)
	ctx.Step(`^the task list contains "([^"]*)"$`, s.thenListContains)
	ctx.Step(`^the task list is empty$`, s.thenListEmpty)
	ctx.Step(`^the history holds (\d+) turns?$`, s.thenHistoryTurns)
	ctx.Step(`^no task was deleted$`, s.thenNothingDeleted)
	ctx.Step(`^no tool was called$`, s.thenNoToolCalled)
}

func (s *conversationState) reset() error {
	s.store = todoisttest.NewStore(2)
	s.reply = ""
	runner, err := runtime.NewRunner(context.Background(), llmtest.NewResponderModel(ruleModel),
		tools.NewTaskRegistry(s.store), runtime.Config{})
	if err != nil {
		return err
	}
	s.driver = conversation.NewDriver(runner)
	return nil
}

func (s *conversationState) givenTask(content string) error {
	s.store.Seed(content)
	return nil
}

func (s *conversationState) givenTasks(n int) error {
	for i := 1; i <= n; i++ {
		s.store.Seed(fmt.Sprintf("task %d", i))
	}
	return nil
}

func (s *conversationState) givenOutage() error {
	outage := errors.New("503 service unavailable")
	s.store.Fail(todoisttest.OpList, outage)
	s.store.Fail(todoisttest.OpAdd, outage)
	s.store.Fail(todoisttest.OpDelete, outage)
	return nil
}

func (s *conversationState) whenISay(text string) error {
	var out bytes.Buffer
	if err := s.driver.Run(context.Background(), strings.NewReader(text+"\n"), &out); err != nil {
		return err
	}
	// "You: <reply>\nYou: \nGoodbye!\n"
	got := strings.TrimPrefix(out.String(), "You: ")
	end := strings.Index(got, "\nYou: ")
	if end < 0 {
		return fmt.Errorf("unexpected transcript %q", out.String())
	}
	s.reply = got[:end]
	return nil
}

func (s *conversationState) thenReplyIs(want string) error {
	if s.reply != want {
		return fmt.Errorf("reply %q, want %q", s.reply, want)
	}
	return nil
}

func (s *conversationState) thenReplyContains(want string) error {
	if !strings.Contains(s.reply, want) {
		return fmt.Errorf("reply %q does not contain %q", s.reply, want)
	}
	return nil
}

func (s *conversationState) thenBulletList(n int) error {
	lines := strings.Split(s.reply, "\n")
	if len(lines) != n {
		return fmt.Errorf("got %d lines in %q, want %d", len(lines), s.reply, n)
	}
	for i, line := range lines {
		if want := fmt.Sprintf("- task %d", i+1); line != want {
			return fmt.Errorf("line %d is %q, want %q", i, line, want)
		}
	}
	return nil
}

func (s *conversationState) thenListContains(content string) error {
	for _, c := range s.store.Contents() {
		if c == content {
			return nil
		}
	}
	return fmt.Errorf("task list %v has no %q", s.store.Contents(), content)
}

func (s *conversationState) thenListEmpty() error {
	if got := s.store.Contents(); len(got) != 0 {
		return fmt.Errorf("task list is %v", got)
	}
	return nil
}

func (s *conversationState) thenHistoryTurns(n int) error {
	if got := s.driver.History().Turns(); got != n {
		return fmt.Errorf("history holds %d turns, want %d", got, n)
	}
	return nil
}

func (s *conversationState) thenNothingDeleted() error {
	if n := s.store.Calls(todoisttest.OpDelete); n != 0 {
		return fmt.Errorf("%d delete calls", n)
	}
	return nil
}

func (s *conversationState) thenNoToolCalled() error {
	for _, op := range []string{todoisttest.OpList, todoisttest.OpAdd, todoisttest.OpDelete} {
		if n := s.store.Calls(op); n != 0 {
			return fmt.Errorf("%d %s calls", n, op)
		}
	}
	return nil
}

// ruleModel stands in for the language model: it maps the user sentence to a
// tool call and the tool result to the sentence the system prompt asks for.
func ruleModel(_ int, input []*schema.Message) (*schema.Message, error) {
	last := input[len(input)-1]
	if last.Role == schema.Tool {
		return schema.AssistantMessage(answerFor(input, last), nil), nil
	}

	text := strings.TrimSpace(last.Content)
	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "add "):
		args, _ := json.MarshalString(map[string]string{"task": text[len("add "):]})
		return llmtest.ToolCalls("add_task", args), nil
	case strings.HasPrefix(lower, "delete "):
		args, _ := json.MarshalString(map[string]string{"task_content": text[len("delete "):]})
		return llmtest.ToolCalls("delete_task", args), nil
	case strings.HasPrefix(lower, "show"):
		return llmtest.ToolCalls("show_tasks", "{}"), nil
	}
	return schema.AssistantMessage("Hello! I can add, show and delete tasks.", nil), nil
}

func answerFor(input []*schema.Message, result *schema.Message) string {
	var call schema.ToolCall
	for _, m := range input {
		for _, tc := range m.ToolCalls {
			if tc.ID == result.ToolCallID {
				call = tc
			}
		}
	}

	switch call.Function.Name {
	case "add_task":
		var args tools.AddTaskArgs
		_ = json.Unmarshal([]byte(call.Function.Arguments), &args)
		return fmt.Sprintf("I added the task %s for you.", args.Task)
	case "delete_task":
		var res tools.DeleteTaskResult
		_ = json.Unmarshal([]byte(result.Content), &res)
		if res.Status == tools.DeleteStatusSuccess {
			return fmt.Sprintf("I deleted the task %s for you.", res.Task)
		}
		return fmt.Sprintf("I couldn't find the task %s.", res.Task)
	case "show_tasks":
		var contents []string
		_ = json.Unmarshal([]byte(result.Content), &contents)
		bullets := make([]string, 0, len(contents))
		for _, c := range contents {
			bullets = append(bullets, "- "+c)
		}
		return strings.Join(bullets, "\n")
	}
	return result.Content
}
