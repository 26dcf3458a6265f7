// Package mcpserver exposes the task tools to other agents over the Model Context Protocol.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kiosk404/echotask/internal/agent/pkg/errno"
	"github.com/kiosk404/echotask/internal/agent/tools"
	"github.com/kiosk404/echotask/pkg/logger"
	"github.com/kiosk404/echotask/pkg/utils/json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ModuleName = "mcp"
	ServerName = "echotask"
)

// NewServer registers every tool of the registry on a new MCP server.
func NewServer(registry *tools.Registry, version string) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version, server.WithToolCapabilities(false))
	for _, def := range registry.Definitions() {
		s.AddTool(toMCPTool(def), handlerFor(registry, def.Name))
	}
	return s
}

// Serve speaks MCP over in and out until ctx is done or in is closed.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	logger.InfoX(ModuleName, "serving task tools over stdio")
	stdio := server.NewStdioServer(s)
	err := stdio.Listen(ctx, in, out)
	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)) {
		return nil
	}
	return err
}

func toMCPTool(def tools.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
	for _, p := range def.Parameters {
		popts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			popts = append(popts, mcp.Required())
		}
		switch p.Type {
		case "number", "integer":
			opts = append(opts, mcp.WithNumber(p.Name, popts...))
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, popts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, popts...))
		}
	}
	return mcp.NewTool(string(def.Name), opts...)
}

// handlerFor reports tool failures as MCP tool errors so the calling agent
// sees them; only encoding problems become protocol errors.
func handlerFor(registry *tools.Registry, name tools.ToolName) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, err := json.MarshalString(req.GetArguments())
		if err != nil {
			return nil, fmt.Errorf("encode %s arguments: %w", name, err)
		}

		out, err := registry.Invoke(ctx, string(name), args)
		if err != nil {
			logger.WarnX(ModuleName, "%s failed: %v", name, err)
			if errno.IsRemote(err) {
				return mcp.NewToolResultError("the task service is unavailable, try again later"), nil
			}
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
