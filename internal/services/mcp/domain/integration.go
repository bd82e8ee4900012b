package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/integrations/n8n"
	"github.com/spline-mcp/spline-mcp/internal/realtime"
)

// RealtimeStatusInput represents the MCP tool input for realtime status.
type RealtimeStatusInput struct{}

// RealtimeStatusResult represents the MCP tool output for realtime status.
type RealtimeStatusResult struct {
	State    string   `json:"state" jsonschema:"connection state: disconnected, connecting, connected or backoff"`
	Channels []string `json:"channels,omitempty" jsonschema:"subscribed channels in registration order"`
}

// RealtimeStatusTool defines the MCP tool schema for realtime status.
func RealtimeStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_websocket_status",
		Description: "Reports the realtime connection state and the subscribed channels.",
	}
}

// RealtimeStatusHandler executes a realtime status request.
func RealtimeStatusHandler(client *realtime.Client) mcp.ToolHandlerFor[RealtimeStatusInput, RealtimeStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ RealtimeStatusInput) (*mcp.CallToolResult, RealtimeStatusResult, error) {
		return nil, RealtimeStatusResult{
			State:    client.Status().String(),
			Channels: client.Channels(),
		}, nil
	}
}

// ChannelSubscribeInput represents the MCP tool input for subscribing to a channel.
type ChannelSubscribeInput struct {
	Channel string `json:"channel" jsonschema:"channel name, e.g. scene:update"`
}

// ChannelSubscribeResult represents the MCP tool output for subscribing to a channel.
type ChannelSubscribeResult struct {
	Channel string `json:"channel" jsonschema:"channel name"`
	State   string `json:"state" jsonschema:"connection state at the time of subscription"`
}

// ChannelSubscribeTool defines the MCP tool schema for subscribing to a channel.
func ChannelSubscribeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "subscribe_to_channel",
		Description: "Subscribes to a realtime channel. The subscription survives reconnects; inbound messages are logged.",
	}
}

// ChannelSubscribeHandler executes a channel subscription request. Messages
// arriving on the channel are logged via the provided sink.
func ChannelSubscribeHandler(client *realtime.Client, sink realtime.Handler) mcp.ToolHandlerFor[ChannelSubscribeInput, ChannelSubscribeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ChannelSubscribeInput) (*mcp.CallToolResult, ChannelSubscribeResult, error) {
		if input.Channel == "" {
			return nil, ChannelSubscribeResult{}, fmt.Errorf("channel is required")
		}
		client.Subscribe(input.Channel, sink)
		return nil, ChannelSubscribeResult{
			Channel: input.Channel,
			State:   client.Status().String(),
		}, nil
	}
}

// WorkflowCreateInput represents the MCP tool input for creating an n8n workflow.
type WorkflowCreateInput struct {
	SceneURL         string            `json:"scene_url" jsonschema:"Spline scene export URL the workflow targets"`
	VariableMappings map[string]string `json:"variable_mappings,omitempty" jsonschema:"Spline variable name to webhook payload field mappings"`
}

// WorkflowCreateResult represents the MCP tool output for creating an n8n workflow.
type WorkflowCreateResult struct {
	Created  bool           `json:"created" jsonschema:"whether the workflow was created on the n8n server"`
	Workflow map[string]any `json:"workflow,omitempty" jsonschema:"created workflow document from n8n"`
	Warning  string         `json:"warning,omitempty" jsonschema:"set when n8n is unavailable"`
}

// WorkflowCreateTool defines the MCP tool schema for creating an n8n workflow.
func WorkflowCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "create_n8n_workflow",
		Description: "Builds and creates an n8n workflow that pushes Spline variable updates. Degrades gracefully when n8n is unavailable.",
	}
}

// WorkflowCreateHandler executes an n8n workflow creation request.
func WorkflowCreateHandler(client *n8n.Client) mcp.ToolHandlerFor[WorkflowCreateInput, WorkflowCreateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WorkflowCreateInput) (*mcp.CallToolResult, WorkflowCreateResult, error) {
		if input.SceneURL == "" {
			return nil, WorkflowCreateResult{}, fmt.Errorf("scene_url is required")
		}
		workflow := n8n.GenerateSplineWorkflow(input.SceneURL, input.VariableMappings)
		created, ok := client.CreateWorkflow(ctx, workflow)
		if !ok {
			return nil, WorkflowCreateResult{
				Created: false,
				Warning: "n8n server is not available; workflow was not created",
			}, nil
		}
		return nil, WorkflowCreateResult{Created: true, Workflow: created}, nil
	}
}

// WebhookTriggerInput represents the MCP tool input for triggering an n8n webhook.
type WebhookTriggerInput struct {
	WebhookPath string         `json:"webhook_path" jsonschema:"webhook path, e.g. spline-update"`
	Payload     map[string]any `json:"payload,omitempty" jsonschema:"JSON payload to post"`
}

// WebhookTriggerResult represents the MCP tool output for triggering an n8n webhook.
type WebhookTriggerResult struct {
	Triggered bool           `json:"triggered" jsonschema:"whether the webhook was delivered"`
	Response  map[string]any `json:"response,omitempty" jsonschema:"response document from n8n"`
	Warning   string         `json:"warning,omitempty" jsonschema:"set when n8n is unavailable"`
}

// WebhookTriggerTool defines the MCP tool schema for triggering an n8n webhook.
func WebhookTriggerTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "trigger_n8n_webhook",
		Description: "Posts a payload to an n8n webhook. Degrades gracefully when n8n is unavailable.",
	}
}

// WebhookTriggerHandler executes an n8n webhook trigger request.
func WebhookTriggerHandler(client *n8n.Client) mcp.ToolHandlerFor[WebhookTriggerInput, WebhookTriggerResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input WebhookTriggerInput) (*mcp.CallToolResult, WebhookTriggerResult, error) {
		if input.WebhookPath == "" {
			return nil, WebhookTriggerResult{}, fmt.Errorf("webhook_path is required")
		}
		response, ok := client.TriggerWebhook(ctx, input.WebhookPath, input.Payload)
		if !ok {
			return nil, WebhookTriggerResult{
				Triggered: false,
				Warning:   "n8n server is not available; webhook was not triggered",
			}, nil
		}
		return nil, WebhookTriggerResult{Triggered: true, Response: response}, nil
	}
}

// IntegrationStatusInput represents the MCP tool input for integration status.
type IntegrationStatusInput struct{}

// IntegrationStatusResult represents the MCP tool output for integration status.
type IntegrationStatusResult struct {
	Realtime RealtimeStatusResult `json:"realtime" jsonschema:"realtime connection status"`
	N8N      N8NStatus            `json:"n8n" jsonschema:"n8n integration status"`
}

// N8NStatus is the tool-facing shape of the n8n client status.
type N8NStatus struct {
	BaseURL   string `json:"base_url" jsonschema:"configured n8n server URL"`
	Available *bool  `json:"available" jsonschema:"probe result; null when no probe has run"`
	HasAPIKey bool   `json:"has_api_key" jsonschema:"whether an API key is configured"`
}

// IntegrationStatusTool defines the MCP tool schema for integration status.
func IntegrationStatusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_integration_status",
		Description: "Reports the status of all external integrations: realtime orchestrator and n8n.",
	}
}

// IntegrationStatusHandler executes an integration status request.
func IntegrationStatusHandler(rtClient *realtime.Client, n8nClient *n8n.Client) mcp.ToolHandlerFor[IntegrationStatusInput, IntegrationStatusResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ IntegrationStatusInput) (*mcp.CallToolResult, IntegrationStatusResult, error) {
		n8nStatus := n8nClient.Status()
		return nil, IntegrationStatusResult{
			Realtime: RealtimeStatusResult{
				State:    rtClient.Status().String(),
				Channels: rtClient.Channels(),
			},
			N8N: N8NStatus{
				BaseURL:   n8nStatus.BaseURL,
				Available: n8nStatus.Available,
				HasAPIKey: n8nStatus.HasAPIKey,
			},
		}, nil
	}
}
