package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/spline"
)

// RuntimeStateInput represents the MCP tool input for reading runtime state.
type RuntimeStateInput struct {
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
}

// RuntimeStateResult represents the MCP tool output for reading runtime state.
type RuntimeStateResult struct {
	State map[string]any `json:"state" jsonschema:"current runtime state document"`
}

// RuntimeStateTool defines the MCP tool schema for reading runtime state.
func RuntimeStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_runtime_state",
		Description: "Gets the live runtime state of a scene (variables, playback, camera).",
	}
}

// RuntimeStateHandler executes a runtime state request.
func RuntimeStateHandler(client *spline.Client) mcp.ToolHandlerFor[RuntimeStateInput, RuntimeStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RuntimeStateInput) (*mcp.CallToolResult, RuntimeStateResult, error) {
		if input.SceneID == "" {
			return nil, RuntimeStateResult{}, fmt.Errorf("scene_id is required")
		}
		state, err := client.GetRuntimeState(ctx, input.SceneID)
		if err != nil {
			return nil, RuntimeStateResult{}, fmt.Errorf("get runtime state failed: %w", err)
		}
		return nil, RuntimeStateResult{State: state}, nil
	}
}

// VariableSetInput represents the MCP tool input for setting a runtime variable.
type VariableSetInput struct {
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
	Name    string `json:"name" jsonschema:"variable name"`
	Value   any    `json:"value" jsonschema:"new value"`
}

// VariableSetResult represents the MCP tool output for setting a runtime variable.
type VariableSetResult struct {
	Result map[string]any `json:"result" jsonschema:"variable update outcome from the API"`
}

// VariableSetTool defines the MCP tool schema for setting a runtime variable.
func VariableSetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_variable",
		Description: "Sets a runtime variable in a scene.",
	}
}

// VariableSetHandler executes a runtime variable update.
func VariableSetHandler(client *spline.Client) mcp.ToolHandlerFor[VariableSetInput, VariableSetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input VariableSetInput) (*mcp.CallToolResult, VariableSetResult, error) {
		if input.SceneID == "" || input.Name == "" {
			return nil, VariableSetResult{}, fmt.Errorf("scene_id and name are required")
		}
		result, err := client.SetVariable(ctx, input.SceneID, input.Name, input.Value)
		if err != nil {
			return nil, VariableSetResult{}, fmt.Errorf("set variable failed: %w", err)
		}
		return nil, VariableSetResult{Result: result}, nil
	}
}
