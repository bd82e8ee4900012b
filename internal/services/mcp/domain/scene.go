package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/assets"
	"github.com/spline-mcp/spline-mcp/internal/spline"
)

// SceneListInput represents the MCP tool input for listing scenes.
type SceneListInput struct{}

// SceneListResult represents the MCP tool output for listing scenes.
type SceneListResult struct {
	Scenes []SceneSummary `json:"scenes" jsonschema:"scenes accessible with the configured API key"`
	Count  int            `json:"count" jsonschema:"number of scenes"`
}

// SceneSummary is one entry of a scene listing.
type SceneSummary struct {
	ID   string `json:"id" jsonschema:"scene identifier"`
	Name string `json:"name" jsonschema:"scene name"`
}

// SceneListTool defines the MCP tool schema for listing scenes.
func SceneListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_scenes",
		Description: "Lists all Spline scenes accessible with the configured API key.",
	}
}

// SceneListHandler executes a scene list request.
func SceneListHandler(client *spline.Client) mcp.ToolHandlerFor[SceneListInput, SceneListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ SceneListInput) (*mcp.CallToolResult, SceneListResult, error) {
		scenes, err := client.ListScenes(ctx)
		if err != nil {
			return nil, SceneListResult{}, fmt.Errorf("list scenes failed: %w", err)
		}
		result := SceneListResult{Count: len(scenes)}
		for _, s := range scenes {
			result.Scenes = append(result.Scenes, SceneSummary{ID: s.ID, Name: s.Name})
		}
		return nil, result, nil
	}
}

// SceneGetInput represents the MCP tool input for fetching a scene.
type SceneGetInput struct {
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
}

// SceneGetResult represents the MCP tool output for fetching a scene.
type SceneGetResult struct {
	ID            string `json:"id" jsonschema:"scene identifier"`
	Name          string `json:"name" jsonschema:"scene name"`
	ObjectCount   int    `json:"object_count" jsonschema:"number of objects in the scene"`
	MaterialCount int    `json:"material_count" jsonschema:"number of materials in the scene"`
	EventCount    int    `json:"event_count" jsonschema:"number of events in the scene"`
}

// SceneGetTool defines the MCP tool schema for fetching a scene.
func SceneGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_scene",
		Description: "Gets scene details including object, material and event counts.",
	}
}

// SceneGetHandler executes a scene fetch request.
func SceneGetHandler(client *spline.Client) mcp.ToolHandlerFor[SceneGetInput, SceneGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SceneGetInput) (*mcp.CallToolResult, SceneGetResult, error) {
		if input.SceneID == "" {
			return nil, SceneGetResult{}, fmt.Errorf("scene_id is required")
		}
		scene, err := client.GetScene(ctx, input.SceneID)
		if err != nil {
			return nil, SceneGetResult{}, fmt.Errorf("get scene failed: %w", err)
		}
		return nil, SceneGetResult{
			ID:            scene.ID,
			Name:          scene.Name,
			ObjectCount:   len(scene.Objects),
			MaterialCount: len(scene.Materials),
			EventCount:    len(scene.Events),
		}, nil
	}
}

// SceneCreateInput represents the MCP tool input for creating a scene.
type SceneCreateInput struct {
	Name string `json:"name" jsonschema:"name for the new scene"`
}

// SceneCreateResult represents the MCP tool output for creating a scene.
type SceneCreateResult struct {
	ID   string `json:"id" jsonschema:"scene identifier"`
	Name string `json:"name" jsonschema:"scene name"`
}

// SceneCreateTool defines the MCP tool schema for creating a scene.
func SceneCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_scene",
		Description: "Creates a new empty Spline scene.",
	}
}

// SceneCreateHandler executes a scene create request.
func SceneCreateHandler(client *spline.Client) mcp.ToolHandlerFor[SceneCreateInput, SceneCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SceneCreateInput) (*mcp.CallToolResult, SceneCreateResult, error) {
		if input.Name == "" {
			return nil, SceneCreateResult{}, fmt.Errorf("name is required")
		}
		scene, err := client.CreateScene(ctx, input.Name, nil)
		if err != nil {
			return nil, SceneCreateResult{}, fmt.Errorf("create scene failed: %w", err)
		}
		return nil, SceneCreateResult{ID: scene.ID, Name: scene.Name}, nil
	}
}

// SceneDeleteInput represents the MCP tool input for deleting a scene.
type SceneDeleteInput struct {
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
}

// SceneDeleteResult represents the MCP tool output for deleting a scene.
type SceneDeleteResult struct {
	Deleted bool   `json:"deleted" jsonschema:"whether the scene was deleted"`
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
}

// SceneDeleteTool defines the MCP tool schema for deleting a scene.
func SceneDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_scene",
		Description: "Deletes a Spline scene permanently.",
	}
}

// SceneDeleteHandler executes a scene delete request.
func SceneDeleteHandler(client *spline.Client) mcp.ToolHandlerFor[SceneDeleteInput, SceneDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SceneDeleteInput) (*mcp.CallToolResult, SceneDeleteResult, error) {
		if input.SceneID == "" {
			return nil, SceneDeleteResult{}, fmt.Errorf("scene_id is required")
		}
		if err := client.DeleteScene(ctx, input.SceneID); err != nil {
			return nil, SceneDeleteResult{}, fmt.Errorf("delete scene failed: %w", err)
		}
		return nil, SceneDeleteResult{Deleted: true, SceneID: input.SceneID}, nil
	}
}

// SceneURLParseInput represents the MCP tool input for parsing a scene URL.
type SceneURLParseInput struct {
	URL string `json:"url" jsonschema:"Spline scene URL or export URL"`
}

// SceneURLParseResult represents the MCP tool output for parsing a scene URL.
type SceneURLParseResult struct {
	SceneID   string `json:"scene_id" jsonschema:"extracted scene identifier"`
	ExportURL string `json:"export_url" jsonschema:"canonical .splinecode export URL"`
}

// SceneURLParseTool defines the MCP tool schema for parsing a scene URL.
func SceneURLParseTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "parse_scene_url",
		Description: "Extracts the scene identifier from a Spline URL and returns the canonical export URL.",
	}
}

// SceneURLParseHandler executes a scene URL parse request.
func SceneURLParseHandler() mcp.ToolHandlerFor[SceneURLParseInput, SceneURLParseResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SceneURLParseInput) (*mcp.CallToolResult, SceneURLParseResult, error) {
		sceneID, err := assets.ExtractSceneID(input.URL)
		if err != nil {
			return nil, SceneURLParseResult{}, fmt.Errorf("parse scene url failed: %w", err)
		}
		return nil, SceneURLParseResult{
			SceneID:   sceneID,
			ExportURL: assets.BuildExportURL(sceneID),
		}, nil
	}
}
