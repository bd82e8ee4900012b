package domain

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/generators"
)

// GenerationEventHandler configures one event listener in generated code.
type GenerationEventHandler struct {
	EventType    string `json:"event_type" jsonschema:"runtime event type (mouseDown, start, scroll, etc.)"`
	TargetObject string `json:"target_object,omitempty" jsonschema:"object name to filter on; scene-wide when omitted"`
	HandlerCode  string `json:"handler_code,omitempty" jsonschema:"JavaScript statement(s) to run when the event fires"`
}

// GenerationVariable configures one variable binding in generated code.
type GenerationVariable struct {
	Name        string `json:"name" jsonschema:"Spline variable name"`
	Value       any    `json:"value,omitempty" jsonschema:"initial literal value"`
	ValueSource string `json:"value_source,omitempty" jsonschema:"source expression such as props.myVar"`
}

// EmbedCodeInput represents the MCP tool input for generating embed code.
type EmbedCodeInput struct {
	Framework        string                   `json:"framework" jsonschema:"target framework: react, vanilla or nextjs"`
	SceneURL         string                   `json:"scene_url" jsonschema:"URL of the .splinecode file to embed"`
	ComponentName    string                   `json:"component_name,omitempty" jsonschema:"generated component name, defaults to SplineScene"`
	TypeScript       *bool                    `json:"typescript,omitempty" jsonschema:"emit TypeScript, defaults to true"`
	LazyLoad         *bool                    `json:"lazy_load,omitempty" jsonschema:"wrap in Suspense with a loading fallback, defaults to true"`
	SSRPlaceholder   bool                     `json:"ssr_placeholder,omitempty" jsonschema:"emit an SSR placeholder component (nextjs only)"`
	EventHandlers    []GenerationEventHandler `json:"event_handlers,omitempty" jsonschema:"event listeners to wire up"`
	Variables        []GenerationVariable     `json:"variables,omitempty" jsonschema:"variable bindings to initialize"`
	IncludeWebSocket bool                     `json:"include_websocket,omitempty" jsonschema:"include the realtime websocket bridge"`
	WebSocketURL     string                   `json:"websocket_url,omitempty" jsonschema:"websocket endpoint for the realtime bridge"`
}

// EmbedCodeResult represents the MCP tool output for generating embed code.
type EmbedCodeResult struct {
	Framework string `json:"framework" jsonschema:"framework the code was generated for"`
	Code      string `json:"code" jsonschema:"generated component or page source"`
	Install   string `json:"install" jsonschema:"installation instructions"`
	Usage     string `json:"usage" jsonschema:"usage example"`
}

// EmbedCodeTool defines the MCP tool schema for generating embed code.
func EmbedCodeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "generate_embed_code",
		Description: "Generates framework-specific embed code (React, Next.js or vanilla JS) for a Spline scene, including event handlers, variable bindings and optional realtime updates.",
	}
}

func (input EmbedCodeInput) options() generators.Options {
	opts := generators.DefaultOptions()
	if input.ComponentName != "" {
		opts.ComponentName = input.ComponentName
	}
	if input.TypeScript != nil {
		opts.TypeScript = *input.TypeScript
	}
	if input.LazyLoad != nil {
		opts.LazyLoad = *input.LazyLoad
	}
	opts.SSRPlaceholder = input.SSRPlaceholder
	opts.IncludeWebSocket = input.IncludeWebSocket
	if input.WebSocketURL != "" {
		opts.WebSocketURL = input.WebSocketURL
	}
	for _, h := range input.EventHandlers {
		opts.EventHandlers = append(opts.EventHandlers, generators.EventHandler{
			Type:         generators.EventType(h.EventType),
			TargetObject: h.TargetObject,
			HandlerCode:  h.HandlerCode,
		})
	}
	for _, v := range input.Variables {
		opts.Variables = append(opts.Variables, generators.VariableBinding{
			Name:        v.Name,
			Value:       v.Value,
			ValueSource: v.ValueSource,
		})
	}
	return opts
}

// EmbedCodeHandler executes an embed-code generation request.
func EmbedCodeHandler() mcp.ToolHandlerFor[EmbedCodeInput, EmbedCodeResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input EmbedCodeInput) (*mcp.CallToolResult, EmbedCodeResult, error) {
		if input.SceneURL == "" {
			return nil, EmbedCodeResult{}, fmt.Errorf("scene_url is required")
		}
		gen, err := generators.Lookup(input.Framework)
		if err != nil {
			return nil, EmbedCodeResult{}, err
		}
		opts := input.options()
		code, err := gen.Component(input.SceneURL, opts)
		if err != nil {
			return nil, EmbedCodeResult{}, fmt.Errorf("generate embed code failed: %w", err)
		}
		return nil, EmbedCodeResult{
			Framework: gen.Framework(),
			Code:      code,
			Install:   gen.InstallInstructions(),
			Usage:     gen.UsageExample(opts.ComponentName, input.SceneURL),
		}, nil
	}
}
