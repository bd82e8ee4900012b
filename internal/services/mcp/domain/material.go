package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/spline"
)

// MaterialSummary is the tool-facing shape of a material.
type MaterialSummary struct {
	ID        string  `json:"id" jsonschema:"material identifier"`
	Name      string  `json:"name" jsonschema:"material name"`
	Color     string  `json:"color,omitempty" jsonschema:"base color (hex)"`
	Metalness float64 `json:"metalness" jsonschema:"metalness factor 0..1"`
	Roughness float64 `json:"roughness" jsonschema:"roughness factor 0..1"`
}

// MaterialListInput represents the MCP tool input for listing materials.
type MaterialListInput struct {
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
}

// MaterialListResult represents the MCP tool output for listing materials.
type MaterialListResult struct {
	Materials []MaterialSummary `json:"materials" jsonschema:"materials in the scene"`
	Count     int               `json:"count" jsonschema:"number of materials"`
}

// MaterialListTool defines the MCP tool schema for listing materials.
func MaterialListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_materials",
		Description: "Lists all materials in a scene.",
	}
}

// MaterialListHandler executes a material list request.
func MaterialListHandler(client *spline.Client) mcp.ToolHandlerFor[MaterialListInput, MaterialListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MaterialListInput) (*mcp.CallToolResult, MaterialListResult, error) {
		if input.SceneID == "" {
			return nil, MaterialListResult{}, fmt.Errorf("scene_id is required")
		}
		materials, err := client.ListMaterials(ctx, input.SceneID)
		if err != nil {
			return nil, MaterialListResult{}, fmt.Errorf("list materials failed: %w", err)
		}
		result := MaterialListResult{Count: len(materials)}
		for _, m := range materials {
			result.Materials = append(result.Materials, MaterialSummary{
				ID:        m.ID,
				Name:      m.Name,
				Color:     m.Color,
				Metalness: m.Metalness,
				Roughness: m.Roughness,
			})
		}
		return nil, result, nil
	}
}

// MaterialCreateInput represents the MCP tool input for creating a material.
type MaterialCreateInput struct {
	SceneID   string  `json:"scene_id" jsonschema:"scene identifier"`
	Name      string  `json:"name" jsonschema:"material name"`
	Color     string  `json:"color,omitempty" jsonschema:"base color (hex), defaults to #ffffff"`
	Metalness float64 `json:"metalness,omitempty" jsonschema:"metalness factor 0..1"`
	Roughness float64 `json:"roughness,omitempty" jsonschema:"roughness factor 0..1, defaults to 0.5"`
}

// MaterialCreateResult represents the MCP tool output for creating a material.
type MaterialCreateResult struct {
	Material MaterialSummary `json:"material" jsonschema:"the created material"`
}

// MaterialCreateTool defines the MCP tool schema for creating a material.
func MaterialCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_material",
		Description: "Creates a new material in a scene.",
	}
}

// MaterialCreateHandler executes a material create request.
func MaterialCreateHandler(client *spline.Client) mcp.ToolHandlerFor[MaterialCreateInput, MaterialCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MaterialCreateInput) (*mcp.CallToolResult, MaterialCreateResult, error) {
		if input.SceneID == "" || input.Name == "" {
			return nil, MaterialCreateResult{}, fmt.Errorf("scene_id and name are required")
		}
		color := input.Color
		if color == "" {
			color = "#ffffff"
		}
		roughness := input.Roughness
		if roughness == 0 {
			roughness = 0.5
		}
		mat, err := client.CreateMaterial(ctx, input.SceneID, spline.MaterialSpec{
			Name:      input.Name,
			Color:     color,
			Metalness: input.Metalness,
			Roughness: roughness,
		})
		if err != nil {
			return nil, MaterialCreateResult{}, fmt.Errorf("create material failed: %w", err)
		}
		return nil, MaterialCreateResult{Material: MaterialSummary{
			ID:        mat.ID,
			Name:      mat.Name,
			Color:     mat.Color,
			Metalness: mat.Metalness,
			Roughness: mat.Roughness,
		}}, nil
	}
}

// MaterialApplyInput represents the MCP tool input for applying a material.
type MaterialApplyInput struct {
	SceneID    string `json:"scene_id" jsonschema:"scene identifier"`
	ObjectID   string `json:"object_id" jsonschema:"object identifier"`
	MaterialID string `json:"material_id" jsonschema:"material identifier"`
}

// MaterialApplyResult represents the MCP tool output for applying a material.
type MaterialApplyResult struct {
	Object ObjectSummary `json:"object" jsonschema:"the object after material assignment"`
}

// MaterialApplyTool defines the MCP tool schema for applying a material.
func MaterialApplyTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "apply_material",
		Description: "Applies an existing material to an object.",
	}
}

// MaterialApplyHandler executes a material apply request.
func MaterialApplyHandler(client *spline.Client) mcp.ToolHandlerFor[MaterialApplyInput, MaterialApplyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input MaterialApplyInput) (*mcp.CallToolResult, MaterialApplyResult, error) {
		if input.SceneID == "" || input.ObjectID == "" || input.MaterialID == "" {
			return nil, MaterialApplyResult{}, fmt.Errorf("scene_id, object_id and material_id are required")
		}
		obj, err := client.ApplyMaterial(ctx, input.SceneID, input.ObjectID, input.MaterialID)
		if err != nil {
			return nil, MaterialApplyResult{}, fmt.Errorf("apply material failed: %w", err)
		}
		return nil, MaterialApplyResult{Object: objectSummary(obj)}, nil
	}
}
