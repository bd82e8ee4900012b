package domain

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/generators"
	"github.com/spline-mcp/spline-mcp/internal/spline"
)

// EventSummary is the tool-facing shape of a scene event.
type EventSummary struct {
	ID             string `json:"id" jsonschema:"event identifier"`
	Name           string `json:"name" jsonschema:"event name"`
	EventType      string `json:"event_type" jsonschema:"event type (mouseDown, start, scroll, etc.)"`
	TargetObjectID string `json:"target_object_id,omitempty" jsonschema:"target object identifier"`
}

// EventListInput represents the MCP tool input for listing events.
type EventListInput struct {
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
}

// EventListResult represents the MCP tool output for listing events.
type EventListResult struct {
	Events []EventSummary `json:"events" jsonschema:"events defined in the scene"`
	Count  int            `json:"count" jsonschema:"number of events"`
}

// EventListTool defines the MCP tool schema for listing events.
func EventListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_events",
		Description: "Lists all interaction events defined in a scene.",
	}
}

// EventListHandler executes an event list request.
func EventListHandler(client *spline.Client) mcp.ToolHandlerFor[EventListInput, EventListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventListInput) (*mcp.CallToolResult, EventListResult, error) {
		if input.SceneID == "" {
			return nil, EventListResult{}, fmt.Errorf("scene_id is required")
		}
		events, err := client.ListEvents(ctx, input.SceneID)
		if err != nil {
			return nil, EventListResult{}, fmt.Errorf("list events failed: %w", err)
		}
		result := EventListResult{Count: len(events)}
		for _, e := range events {
			result.Events = append(result.Events, EventSummary{
				ID:             e.ID,
				Name:           e.Name,
				EventType:      e.EventType,
				TargetObjectID: e.TargetObjectID,
			})
		}
		return nil, result, nil
	}
}

// EventCreateInput represents the MCP tool input for creating an event.
type EventCreateInput struct {
	SceneID        string            `json:"scene_id" jsonschema:"scene identifier"`
	Name           string            `json:"name" jsonschema:"event name"`
	EventType      string            `json:"event_type" jsonschema:"event type (mouseDown, start, scroll, etc.)"`
	TargetObjectID string            `json:"target_object_id,omitempty" jsonschema:"target object identifier"`
	Actions        []json.RawMessage `json:"actions,omitempty" jsonschema:"actions executed when the event fires"`
}

// EventCreateResult represents the MCP tool output for creating an event.
type EventCreateResult struct {
	Event EventSummary `json:"event" jsonschema:"the created event"`
}

// EventCreateTool defines the MCP tool schema for creating an event.
func EventCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_event",
		Description: "Creates a new interaction event in a scene.",
	}
}

// EventCreateHandler executes an event create request.
func EventCreateHandler(client *spline.Client) mcp.ToolHandlerFor[EventCreateInput, EventCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventCreateInput) (*mcp.CallToolResult, EventCreateResult, error) {
		if input.SceneID == "" || input.Name == "" || input.EventType == "" {
			return nil, EventCreateResult{}, fmt.Errorf("scene_id, name and event_type are required")
		}
		evt, err := client.CreateEvent(ctx, input.SceneID, spline.EventSpec{
			Name:           input.Name,
			EventType:      input.EventType,
			TargetObjectID: input.TargetObjectID,
			Actions:        input.Actions,
		})
		if err != nil {
			return nil, EventCreateResult{}, fmt.Errorf("create event failed: %w", err)
		}
		return nil, EventCreateResult{Event: EventSummary{
			ID:             evt.ID,
			Name:           evt.Name,
			EventType:      evt.EventType,
			TargetObjectID: evt.TargetObjectID,
		}}, nil
	}
}

// EventTriggerInput represents the MCP tool input for triggering an event.
type EventTriggerInput struct {
	SceneID string `json:"scene_id" jsonschema:"scene identifier"`
	EventID string `json:"event_id" jsonschema:"event identifier"`
}

// EventTriggerResult represents the MCP tool output for triggering an event.
type EventTriggerResult struct {
	Result map[string]any `json:"result" jsonschema:"event trigger outcome from the API"`
}

// EventTriggerTool defines the MCP tool schema for triggering an event.
func EventTriggerTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "trigger_event",
		Description: "Fires an event in a scene's runtime.",
	}
}

// EventTriggerHandler executes an event trigger request.
func EventTriggerHandler(client *spline.Client) mcp.ToolHandlerFor[EventTriggerInput, EventTriggerResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EventTriggerInput) (*mcp.CallToolResult, EventTriggerResult, error) {
		if input.SceneID == "" || input.EventID == "" {
			return nil, EventTriggerResult{}, fmt.Errorf("scene_id and event_id are required")
		}
		result, err := client.TriggerEvent(ctx, input.SceneID, input.EventID)
		if err != nil {
			return nil, EventTriggerResult{}, fmt.Errorf("trigger event failed: %w", err)
		}
		return nil, EventTriggerResult{Result: result}, nil
	}
}

// EventTypesInput represents the MCP tool input for listing event types.
type EventTypesInput struct{}

// EventTypeDoc describes one supported runtime event type.
type EventTypeDoc struct {
	Type        string `json:"type" jsonschema:"event type name"`
	Description string `json:"description" jsonschema:"when the event fires"`
}

// EventTypesResult represents the MCP tool output for listing event types.
type EventTypesResult struct {
	EventTypes []EventTypeDoc `json:"event_types" jsonschema:"supported runtime event types"`
}

// EventTypesTool defines the MCP tool schema for listing event types.
func EventTypesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_event_types",
		Description: "Lists the runtime event types Spline scenes support, with documentation.",
	}
}

// EventTypesHandler returns the supported event types with documentation.
func EventTypesHandler() mcp.ToolHandlerFor[EventTypesInput, EventTypesResult] {
	types := []generators.EventType{
		generators.EventMouseDown,
		generators.EventMouseUp,
		generators.EventMouseHover,
		generators.EventKeyDown,
		generators.EventKeyUp,
		generators.EventStart,
		generators.EventLookAt,
		generators.EventFollow,
		generators.EventScroll,
	}
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ EventTypesInput) (*mcp.CallToolResult, EventTypesResult, error) {
		var result EventTypesResult
		for _, t := range types {
			result.EventTypes = append(result.EventTypes, EventTypeDoc{
				Type:        string(t),
				Description: generators.DocFor(t),
			})
		}
		return nil, result, nil
	}
}
