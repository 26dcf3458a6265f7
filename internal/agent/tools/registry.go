package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/pkg/logger"
	"github.com/kiosk404/echotask/pkg/utils/json"
)

const ModuleName = "tools"

// ParameterDef defines a single parameter for a tool.
type ParameterDef struct {
	// Name is the JSON key the model must use (e.g. "task").
	Name string
	// Type is the JSON schema type (e.g. "string").
	Type string
	// Description tells the model what to put here.
	Description string
	// Required parameters must be present and non-empty.
	Required bool
}

// Handler runs a tool with its raw JSON arguments and returns a result value
// that is JSON encoded before it goes back to the model.
type Handler func(ctx context.Context, argumentsInJSON string) (interface{}, error)

// Definition describes a callable tool.
type Definition struct {
	Name        ToolName
	Description string
	Parameters  []ParameterDef
	Handler     Handler
}

// Typed builds a Handler that decodes the arguments into A before calling fn.
func Typed[A any, R any](fn func(ctx context.Context, args A) (R, error)) Handler {
	return func(ctx context.Context, argumentsInJSON string) (interface{}, error) {
		var args A
		if s := strings.TrimSpace(argumentsInJSON); s != "" && s != "{}" && s != "null" {
			if err := json.Unmarshal([]byte(s), &args); err != nil {
				return nil, fmt.Errorf("%w: %v", errno.ErrInvalidArguments, err)
			}
		}
		return fn(ctx, args)
	}
}

// Registry maps the fixed tool enumeration to definitions.
type Registry struct {
	order []ToolName
	defs  map[ToolName]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[ToolName]Definition)}
}

// Register adds a definition. Names outside the enumeration and duplicates are rejected.
func (r *Registry) Register(def Definition) error {
	if _, ok := ParseToolName(string(def.Name)); !ok {
		return fmt.Errorf("tool %q is not a known tool name", def.Name)
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q has no handler", def.Name)
	}
	if _, ok := r.defs[def.Name]; ok {
		return fmt.Errorf("tool %q is already registered", def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup resolves a model-supplied name. Unknown names return a *errno.ToolNotFoundError.
func (r *Registry) Lookup(name string) (Definition, error) {
	tn, ok := ParseToolName(name)
	if !ok {
		return Definition{}, &errno.ToolNotFoundError{Name: name}
	}
	def, ok := r.defs[tn]
	if !ok {
		return Definition{}, &errno.ToolNotFoundError{Name: name}
	}
	return def, nil
}

// Definitions returns the registered definitions in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, r.defs[n])
	}
	return out
}

// Invoke runs the named tool and returns the model-facing result text.
// String results pass through unchanged, anything else is JSON encoded.
func (r *Registry) Invoke(ctx context.Context, name, argumentsInJSON string) (string, error) {
	def, err := r.Lookup(name)
	if err != nil {
		return "", err
	}
	if err := checkRequired(def, argumentsInJSON); err != nil {
		return "", err
	}

	logger.DebugX(ModuleName, "invoking %s with %s", name, argumentsInJSON)
	result, err := def.Handler(ctx, argumentsInJSON)
	if err != nil {
		return "", err
	}

	if s, ok := result.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("marshal %s result: %w", name, err)
	}
	return string(data), nil
}

// Infos returns the tool catalog handed to the model.
func (r *Registry) Infos(ctx context.Context) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, t := range r.InvokableTools() {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// InvokableTools adapts every definition to an eino tool.
func (r *Registry) InvokableTools() []tool.InvokableTool {
	out := make([]tool.InvokableTool, 0, len(r.order))
	for _, n := range r.order {
		out = append(out, &invokableTool{def: r.defs[n], registry: r})
	}
	return out
}

func checkRequired(def Definition, argumentsInJSON string) error {
	var required []string
	for _, p := range def.Parameters {
		if p.Required {
			required = append(required, p.Name)
		}
	}
	if len(required) == 0 {
		return nil
	}

	params := map[string]interface{}{}
	if s := strings.TrimSpace(argumentsInJSON); s != "" {
		if err := json.Unmarshal([]byte(s), &params); err != nil {
			return fmt.Errorf("%w: %s: %v", errno.ErrInvalidArguments, def.Name, err)
		}
	}
	for _, name := range required {
		v, ok := params[name]
		if !ok || v == nil {
			return fmt.Errorf("%w: %s: missing %q", errno.ErrInvalidArguments, def.Name, name)
		}
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: %s: %q is empty", errno.ErrInvalidArguments, def.Name, name)
		}
	}
	return nil
}
