package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/spline"
)

// ObjectSummary is the tool-facing shape of a scene object.
type ObjectSummary struct {
	ID       string    `json:"id" jsonschema:"object identifier"`
	Name     string    `json:"name" jsonschema:"object name"`
	Type     string    `json:"type" jsonschema:"object type (mesh, light, camera, etc.)"`
	Position []float64 `json:"position,omitempty" jsonschema:"XYZ position"`
	Rotation []float64 `json:"rotation,omitempty" jsonschema:"XYZ rotation in degrees"`
	Scale    []float64 `json:"scale,omitempty" jsonschema:"XYZ scale"`
	Visible  bool      `json:"visible" jsonschema:"object visibility"`
}

func objectSummary(obj *spline.Object) ObjectSummary {
	return ObjectSummary{
		ID:       obj.ID,
		Name:     obj.Name,
		Type:     obj.Type,
		Position: obj.Position,
		Rotation: obj.Rotation,
		Scale:    obj.Scale,
		Visible:  obj.Visible,
	}
}

// ObjectListInput represents the MCP tool input for listing objects.
type ObjectListInput struct {
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
}

// ObjectListResult represents the MCP tool output for listing objects.
type ObjectListResult struct {
	Objects []ObjectSummary `json:"objects" jsonschema:"objects in the scene"`
	Count   int             `json:"count" jsonschema:"number of objects"`
}

// ObjectListTool defines the MCP tool schema for listing objects.
func ObjectListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_objects",
		Description: "Lists all 3D objects in a scene.",
	}
}

// ObjectListHandler executes an object list request.
func ObjectListHandler(client *spline.Client) mcp.ToolHandlerFor[ObjectListInput, ObjectListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ObjectListInput) (*mcp.CallToolResult, ObjectListResult, error) {
		if input.SceneID == "" {
			return nil, ObjectListResult{}, fmt.Errorf("scene_id is required")
		}
		objects, err := client.ListObjects(ctx, input.SceneID)
		if err != nil {
			return nil, ObjectListResult{}, fmt.Errorf("list objects failed: %w", err)
		}
		result := ObjectListResult{Count: len(objects)}
		for i := range objects {
			result.Objects = append(result.Objects, objectSummary(&objects[i]))
		}
		return nil, result, nil
	}
}

// ObjectGetInput represents the MCP tool input for fetching an object.
type ObjectGetInput struct {
	SceneID  string `json:"scene_id" jsonschema:"scene identifier"`
	ObjectID string `json:"object_id" jsonschema:"object identifier"`
}

// ObjectGetResult represents the MCP tool output for fetching an object.
type ObjectGetResult struct {
	Object ObjectSummary `json:"object" jsonschema:"the requested object"`
}

// ObjectGetTool defines the MCP tool schema for fetching an object.
func ObjectGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_object",
		Description: "Gets details of one object in a scene.",
	}
}

// ObjectGetHandler executes an object fetch request.
func ObjectGetHandler(client *spline.Client) mcp.ToolHandlerFor[ObjectGetInput, ObjectGetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ObjectGetInput) (*mcp.CallToolResult, ObjectGetResult, error) {
		if input.SceneID == "" || input.ObjectID == "" {
			return nil, ObjectGetResult{}, fmt.Errorf("scene_id and object_id are required")
		}
		obj, err := client.GetObject(ctx, input.SceneID, input.ObjectID)
		if err != nil {
			return nil, ObjectGetResult{}, fmt.Errorf("get object failed: %w", err)
		}
		return nil, ObjectGetResult{Object: objectSummary(obj)}, nil
	}
}

// ObjectCreateInput represents the MCP tool input for creating an object.
type ObjectCreateInput struct {
	SceneID  string    `json:"scene_id" jsonschema:"scene identifier"`
	Name     string    `json:"name" jsonschema:"object name"`
	Type     string    `json:"type" jsonschema:"object type (mesh, light, camera, etc.)"`
	Position []float64 `json:"position,omitempty" jsonschema:"XYZ position"`
	Rotation []float64 `json:"rotation,omitempty" jsonschema:"XYZ rotation in degrees"`
	Scale    []float64 `json:"scale,omitempty" jsonschema:"XYZ scale"`
}

// ObjectCreateResult represents the MCP tool output for creating an object.
type ObjectCreateResult struct {
	Object ObjectSummary `json:"object" jsonschema:"the created object"`
}

// ObjectCreateTool defines the MCP tool schema for creating an object.
func ObjectCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_object",
		Description: "Creates a new 3D object in a scene.",
	}
}

// ObjectCreateHandler executes an object create request.
func ObjectCreateHandler(client *spline.Client) mcp.ToolHandlerFor[ObjectCreateInput, ObjectCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ObjectCreateInput) (*mcp.CallToolResult, ObjectCreateResult, error) {
		if input.SceneID == "" || input.Name == "" || input.Type == "" {
			return nil, ObjectCreateResult{}, fmt.Errorf("scene_id, name and type are required")
		}
		obj, err := client.CreateObject(ctx, input.SceneID, spline.ObjectSpec{
			Name:     input.Name,
			Type:     input.Type,
			Position: input.Position,
			Rotation: input.Rotation,
			Scale:    input.Scale,
		})
		if err != nil {
			return nil, ObjectCreateResult{}, fmt.Errorf("create object failed: %w", err)
		}
		return nil, ObjectCreateResult{Object: objectSummary(obj)}, nil
	}
}

// ObjectUpdateInput represents the MCP tool input for updating an object.
type ObjectUpdateInput struct {
	SceneID  string         `json:"scene_id" jsonschema:"scene identifier"`
	ObjectID string         `json:"object_id" jsonschema:"object identifier"`
	Updates  map[string]any `json:"updates" jsonschema:"object fields to patch"`
}

// ObjectUpdateResult represents the MCP tool output for updating an object.
type ObjectUpdateResult struct {
	Object ObjectSummary `json:"object" jsonschema:"the updated object"`
}

// ObjectUpdateTool defines the MCP tool schema for updating an object.
func ObjectUpdateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "update_object",
		Description: "Patches properties of an object (position, rotation, scale, visibility, name).",
	}
}

// ObjectUpdateHandler executes an object update request.
func ObjectUpdateHandler(client *spline.Client) mcp.ToolHandlerFor[ObjectUpdateInput, ObjectUpdateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ObjectUpdateInput) (*mcp.CallToolResult, ObjectUpdateResult, error) {
		if input.SceneID == "" || input.ObjectID == "" {
			return nil, ObjectUpdateResult{}, fmt.Errorf("scene_id and object_id are required")
		}
		if len(input.Updates) == 0 {
			return nil, ObjectUpdateResult{}, fmt.Errorf("updates must not be empty")
		}
		obj, err := client.UpdateObject(ctx, input.SceneID, input.ObjectID, input.Updates)
		if err != nil {
			return nil, ObjectUpdateResult{}, fmt.Errorf("update object failed: %w", err)
		}
		return nil, ObjectUpdateResult{Object: objectSummary(obj)}, nil
	}
}

// ObjectDeleteInput represents the MCP tool input for deleting an object.
type ObjectDeleteInput struct {
	SceneID  string `json:"scene_id" jsonschema:"scene identifier"`
	ObjectID string `json:"object_id" jsonschema:"object identifier"`
}

// ObjectDeleteResult represents the MCP tool output for deleting an object.
type ObjectDeleteResult struct {
	Deleted  bool   `json:"deleted" jsonschema:"whether the object was deleted"`
	ObjectID string `json:"object_id" jsonschema:"object identifier"`
}

// ObjectDeleteTool defines the MCP tool schema for deleting an object.
func ObjectDeleteTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_object",
		Description: "Deletes an object from a scene.",
	}
}

// ObjectDeleteHandler executes an object delete request.
func ObjectDeleteHandler(client *spline.Client) mcp.ToolHandlerFor[ObjectDeleteInput, ObjectDeleteResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ObjectDeleteInput) (*mcp.CallToolResult, ObjectDeleteResult, error) {
		if input.SceneID == "" || input.ObjectID == "" {
			return nil, ObjectDeleteResult{}, fmt.Errorf("scene_id and object_id are required")
		}
		if err := client.DeleteObject(ctx, input.SceneID, input.ObjectID); err != nil {
			return nil, ObjectDeleteResult{}, fmt.Errorf("delete object failed: %w", err)
		}
		return nil, ObjectDeleteResult{Deleted: true, ObjectID: input.ObjectID}, nil
	}
}
