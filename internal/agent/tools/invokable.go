package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// invokableTool adapts a Definition to eino's tool.InvokableTool so the tool
// catalog can be bound to any ToolCallingChatModel.
type invokableTool struct {
	def      Definition
	registry *Registry
}

var _ tool.InvokableTool = (*invokableTool)(nil)

func (t *invokableTool) Info(_ context.Context) (*schema.ToolInfo, error) {
	params := make(map[string]*schema.ParameterInfo, len(t.def.Parameters))
	for _, p := range t.def.Parameters {
		params[p.Name] = &schema.ParameterInfo{
			Desc:     p.Description,
			Type:     toSchemaDataType(p.Type),
			Required: p.Required,
		}
	}

	info := &schema.ToolInfo{
		Name: string(t.def.Name),
		Desc: t.def.Description,
	}
	if len(params) > 0 {
		info.ParamsOneOf = schema.NewParamsOneOfByParams(params)
	}
	return info, nil
}

func (t *invokableTool) InvokableRun(ctx context.Context, argumentsInJSON string, _ ...tool.Option) (string, error) {
	return t.registry.Invoke(ctx, string(t.def.Name), argumentsInJSON)
}

func toSchemaDataType(t string) schema.DataType {
	switch t {
	case "string":
		return schema.String
	case "integer":
		return schema.Integer
	case "number":
		return schema.Number
	case "boolean":
		return schema.Boolean
	case "object":
		return schema.Object
	case "array":
		return schema.Array
	default:
		return schema.String
	}
}
