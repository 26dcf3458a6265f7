package runtime

// State is a phase of the per-turn agent loop.
//
// AwaitingModel -> ExecutingTool -> AwaitingModel ... -> Done
type State int

const (
	StateAwaitingModel State = iota
	StateExecutingTool
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingModel:
		return "awaiting_model"
	case StateExecutingTool:
		return "executing_tool"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// ToolCall is one tool invocation requested by the model, with its result.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
	Result    string `json:"result"`
}

// Step is one model call and the tools it asked for.
type Step struct {
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// RunResult is the outcome of a completed turn.
type RunResult struct {
	RunID  string  `json:"run_id"`
	Output string  `json:"output"`
	Steps  []Step  `json:"steps"`
	Trace  []State `json:"-"`
}

// ToolCalls flattens the tool calls of every step in order.
func (r *RunResult) ToolCalls() []ToolCall {
	var out []ToolCall
	for _, s := range r.Steps {
		out = append(out, s.ToolCalls...)
	}
	return out
}
