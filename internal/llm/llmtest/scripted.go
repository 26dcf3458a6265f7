// Package llmtest provides a scripted chat model for exercising the agent
// without a real provider.
package llmtest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ErrScriptExhausted is returned once every scripted step has been consumed.
var ErrScriptExhausted = errors.New("scripted model: no more replies")

// Responder decides the reply for one Generate call. call counts from 0.
type Responder func(call int, input []*schema.Message) (*schema.Message, error)

// Step is one scripted Generate outcome.
type Step struct {
	Reply *schema.Message
	Err   error
}

type script struct {
	mu      sync.Mutex
	respond Responder
	inputs  [][]*schema.Message
	tools   []*schema.ToolInfo
}

// ScriptedModel is a model.ToolCallingChatModel whose replies come from a
// fixed script or a Responder. Models returned by WithTools share the script.
type ScriptedModel struct {
	s *script
}

var _ model.ToolCallingChatModel = (*ScriptedModel)(nil)

// NewScriptedModel replays steps in order.
func NewScriptedModel(steps ...Step) *ScriptedModel {
	return NewResponderModel(func(call int, _ []*schema.Message) (*schema.Message, error) {
		if call >= len(steps) {
			return nil, ErrScriptExhausted
		}
		return steps[call].Reply, steps[call].Err
	})
}

// NewResponderModel answers every call with fn.
func NewResponderModel(fn Responder) *ScriptedModel {
	return &ScriptedModel{s: &script{respond: fn}}
}

// Text is a final assistant answer.
func Text(content string) Step {
	return Step{Reply: schema.AssistantMessage(content, nil)}
}

// Fail is a provider error.
func Fail(err error) Step {
	return Step{Err: err}
}

// Call asks for one or more tools. Each call is "name", "argsJSON" pairs.
func Call(nameArgs ...string) Step {
	return Step{Reply: ToolCalls(nameArgs...)}
}

// ToolCalls builds an assistant message carrying tool calls from name, args pairs.
func ToolCalls(nameArgs ...string) *schema.Message {
	if len(nameArgs)%2 != 0 {
		panic("llmtest: ToolCalls wants name, args pairs")
	}
	calls := make([]schema.ToolCall, 0, len(nameArgs)/2)
	for i := 0; i < len(nameArgs); i += 2 {
		calls = append(calls, schema.ToolCall{
			ID:   fmt.Sprintf("call_%d", i/2+1),
			Type: "function",
			Function: schema.FunctionCall{
				Name:      nameArgs[i],
				Arguments: nameArgs[i+1],
			},
		})
	}
	return schema.AssistantMessage("", calls)
}

func (m *ScriptedModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.s.mu.Lock()
	call := len(m.s.inputs)
	m.s.inputs = append(m.s.inputs, append([]*schema.Message(nil), input...))
	respond := m.s.respond
	m.s.mu.Unlock()

	return respond(call, input)
}

func (m *ScriptedModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *ScriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.tools = append([]*schema.ToolInfo(nil), tools...)
	return &ScriptedModel{s: m.s}, nil
}

// Calls is how many times Generate ran.
func (m *ScriptedModel) Calls() int {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return len(m.s.inputs)
}

// Input returns the messages sent on the given call.
func (m *ScriptedModel) Input(call int) []*schema.Message {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if call < 0 || call >= len(m.s.inputs) {
		return nil
	}
	return m.s.inputs[call]
}

// Tools returns the catalog last bound with WithTools.
func (m *ScriptedModel) Tools() []*schema.ToolInfo {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.s.tools
}
