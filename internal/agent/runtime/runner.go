// Package runtime runs one conversational turn: it asks the model, executes
// the tools the model requests and feeds the results back until the model
// produces a plain answer.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/agent/session"
	"github.com/kiosk404/echotask/internal/agent/tools"
	"github.com/kiosk404/echotask/pkg/logger"
	"github.com/kiosk404/echotask/pkg/utils/json"
)

const (
	ModuleName = "runtime"

	DefaultMaxSteps = 10

	modelService = "model"
)

// RunRequest is the input to Runner.Run.
type RunRequest struct {
	// Input is the user message text.
	Input string
	// History holds the previous turns, oldest first.
	History []session.Message
}

// Config holds configuration for the Runner.
type Config struct {
	// MaxSteps bounds the model calls per turn.
	MaxSteps     int
	SystemPrompt string
}

// Runner is the agent loop. A Runner serves one conversation at a time.
type Runner struct {
	model        model.ToolCallingChatModel
	registry     *tools.Registry
	template     prompt.ChatTemplate
	maxSteps     int
	systemPrompt string
}

// NewRunner binds the registry's tool catalog to cm.
func NewRunner(ctx context.Context, cm model.ToolCallingChatModel, registry *tools.Registry, cfg Config) (*Runner, error) {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if strings.TrimSpace(cfg.SystemPrompt) == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	infos, err := registry.Infos(ctx)
	if err != nil {
		return nil, fmt.Errorf("collect tool infos: %w", err)
	}
	bound, err := cm.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errno.ErrModelNotToolCapable, err)
	}

	return &Runner{
		model:        bound,
		registry:     registry,
		template:     newChatTemplate(),
		maxSteps:     cfg.MaxSteps,
		systemPrompt: cfg.SystemPrompt,
	}, nil
}

// run is the state of a single turn.
type run struct {
	id         string
	state      State
	history    []*schema.Message
	scratchpad []*schema.Message
	reply      *schema.Message
	result     *RunResult
}

func (r *run) transition(to State) {
	logger.DebugX(ModuleName, "[RunState] run %s: %s -> %s", r.id, r.state, to)
	r.state = to
	r.result.Trace = append(r.result.Trace, to)
}

// Run executes one turn and returns the model's final text.
//
// Unknown tool names end the turn with errno.ErrToolNotFound. Model and tool
// failures end it with an *errno.RemoteServiceError. Arguments that fail
// validation are reported back to the model as the tool result so it can
// correct itself. A turn that needs more than MaxSteps model calls ends with
// errno.ErrMaxStepsExceeded.
func (r *Runner) Run(ctx context.Context, req *RunRequest) (*RunResult, error) {
	if req == nil || strings.TrimSpace(req.Input) == "" {
		return nil, errno.ErrEmptyInput
	}

	id := uuid.NewString()
	cur := &run{
		id:      id,
		state:   StateAwaitingModel,
		history: make([]*schema.Message, 0, len(req.History)),
		result:  &RunResult{RunID: id, Trace: []State{StateAwaitingModel}},
	}
	for _, m := range req.History {
		cur.history = append(cur.history, m.ToSchema())
	}

	for {
		switch cur.state {
		case StateAwaitingModel:
			if err := r.awaitModel(ctx, cur, req.Input); err != nil {
				return nil, err
			}
		case StateExecutingTool:
			if err := r.executeTools(ctx, cur); err != nil {
				return nil, err
			}
		case StateDone:
			cur.result.Output = cur.reply.Content
			logger.DebugX(ModuleName, "run %s finished after %d model calls", id, len(cur.result.Steps))
			return cur.result, nil
		}
	}
}

func (r *Runner) awaitModel(ctx context.Context, cur *run, input string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msgs, err := r.template.Format(ctx, map[string]any{
		varSystemPrompt: r.systemPrompt,
		varHistory:      cur.history,
		varInput:        input,
		varScratchpad:   cur.scratchpad,
	})
	if err != nil {
		return fmt.Errorf("format prompt: %w", err)
	}

	reply, err := r.model.Generate(ctx, msgs)
	if err != nil {
		return errno.NewRemoteServiceError(modelService, "generate", err)
	}
	if reply == nil {
		return errno.NewRemoteServiceError(modelService, "generate", errors.New("empty reply"))
	}
	cur.reply = reply

	step := Step{}
	for _, tc := range reply.ToolCalls {
		step.ToolCalls = append(step.ToolCalls, ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}
	cur.result.Steps = append(cur.result.Steps, step)

	if len(reply.ToolCalls) == 0 {
		cur.transition(StateDone)
		return nil
	}
	// Refuse to run tools whose results no model call could ever read.
	if len(cur.result.Steps) >= r.maxSteps {
		logger.WarnX(ModuleName, "run %s: model still calling tools after %d steps", cur.id, r.maxSteps)
		return fmt.Errorf("%w: limit is %d model calls", errno.ErrMaxStepsExceeded, r.maxSteps)
	}
	cur.transition(StateExecutingTool)
	return nil
}

func (r *Runner) executeTools(ctx context.Context, cur *run) error {
	step := &cur.result.Steps[len(cur.result.Steps)-1]
	cur.scratchpad = append(cur.scratchpad, cur.reply)

	for i, tc := range cur.reply.ToolCalls {
		name := tc.Function.Name
		out, err := r.registry.Invoke(ctx, name, tc.Function.Arguments)
		switch {
		case err == nil:
		case errors.Is(err, errno.ErrToolNotFound):
			logger.WarnX(ModuleName, "run %s: model asked for unknown tool %q", cur.id, name)
			return err
		case errors.Is(err, errno.ErrInvalidArguments):
			logger.WarnX(ModuleName, "run %s: %v", cur.id, err)
			out = errorResult(err)
		default:
			return errno.NewRemoteServiceError("tool "+name, "invoke", err)
		}

		logger.DebugX(ModuleName, "run %s: %s(%s) -> %s", cur.id, name, tc.Function.Arguments, out)
		step.ToolCalls[i].Result = out
		cur.scratchpad = append(cur.scratchpad, schema.ToolMessage(out, tc.ID, schema.WithToolName(name)))
	}

	cur.transition(StateAwaitingModel)
	return nil
}

func errorResult(err error) string {
	data, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return err.Error()
	}
	return string(data)
}
