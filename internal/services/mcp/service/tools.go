package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/services/mcp/domain"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
}

func registerSceneTools(registrar mcpRegistrationTarget, deps Deps) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.SceneListTool(), handler: domain.SceneListHandler(deps.Spline)},
		{tool: domain.SceneGetTool(), handler: domain.SceneGetHandler(deps.Spline)},
		{tool: domain.SceneCreateTool(), handler: domain.SceneCreateHandler(deps.Spline)},
		{tool: domain.SceneDeleteTool(), handler: domain.SceneDeleteHandler(deps.Spline)},
		{tool: domain.SceneURLParseTool(), handler: domain.SceneURLParseHandler()},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerObjectTools(registrar mcpRegistrationTarget, deps Deps) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.ObjectListTool(), handler: domain.ObjectListHandler(deps.Spline)},
		{tool: domain.ObjectGetTool(), handler: domain.ObjectGetHandler(deps.Spline)},
		{tool: domain.ObjectCreateTool(), handler: domain.ObjectCreateHandler(deps.Spline)},
		{tool: domain.ObjectUpdateTool(), handler: domain.ObjectUpdateHandler(deps.Spline)},
		{tool: domain.ObjectDeleteTool(), handler: domain.ObjectDeleteHandler(deps.Spline)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerMaterialTools(registrar mcpRegistrationTarget, deps Deps) error {
	if err := registerTool(registrar, domain.MaterialListTool(), domain.MaterialListHandler(deps.Spline)); err != nil {
		return err
	}
	if err := registerTool(registrar, domain.MaterialCreateTool(), domain.MaterialCreateHandler(deps.Spline)); err != nil {
		return err
	}
	return registerTool(registrar, domain.MaterialApplyTool(), domain.MaterialApplyHandler(deps.Spline))
}

func registerEventTools(registrar mcpRegistrationTarget, deps Deps) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.EventListTool(), handler: domain.EventListHandler(deps.Spline)},
		{tool: domain.EventCreateTool(), handler: domain.EventCreateHandler(deps.Spline)},
		{tool: domain.EventTriggerTool(), handler: domain.EventTriggerHandler(deps.Spline)},
		{tool: domain.EventTypesTool(), handler: domain.EventTypesHandler()},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerRuntimeTools(registrar mcpRegistrationTarget, deps Deps) error {
	if err := registerTool(registrar, domain.RuntimeStateTool(), domain.RuntimeStateHandler(deps.Spline)); err != nil {
		return err
	}
	return registerTool(registrar, domain.VariableSetTool(), domain.VariableSetHandler(deps.Spline))
}

func registerAssetTools(registrar mcpRegistrationTarget, deps Deps) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.SceneDownloadTool(), handler: domain.SceneDownloadHandler(deps.Assets)},
		{tool: domain.SceneValidateTool(), handler: domain.SceneValidateHandler(deps.Assets)},
		{tool: domain.CacheListTool(), handler: domain.CacheListHandler(deps.Assets)},
		{tool: domain.CacheClearTool(), handler: domain.CacheClearHandler(deps.Assets)},
		{tool: domain.CacheStatsTool(), handler: domain.CacheStatsHandler(deps.Assets)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerGenerationTools(registrar mcpRegistrationTarget) error {
	return registerTool(registrar, domain.EmbedCodeTool(), domain.EmbedCodeHandler())
}

func registerIntegrationTools(registrar mcpRegistrationTarget, deps Deps) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.RealtimeStatusTool(), handler: domain.RealtimeStatusHandler(deps.Realtime)},
		{tool: domain.ChannelSubscribeTool(), handler: domain.ChannelSubscribeHandler(deps.Realtime, channelSink)},
		{tool: domain.WorkflowCreateTool(), handler: domain.WorkflowCreateHandler(deps.N8N)},
		{tool: domain.WebhookTriggerTool(), handler: domain.WebhookTriggerHandler(deps.N8N)},
		{tool: domain.IntegrationStatusTool(), handler: domain.IntegrationStatusHandler(deps.Realtime, deps.N8N)},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerDocsTools(registrar mcpRegistrationTarget) error {
	registrations := []struct {
		tool    *mcp.Tool
		handler any
	}{
		{tool: domain.RuntimeDocsTool(), handler: domain.RuntimeDocsHandler()},
		{tool: domain.InstallGuideTool(), handler: domain.InstallGuideHandler()},
		{tool: domain.TroubleshootingTool(), handler: domain.TroubleshootingHandler()},
		{tool: domain.SnippetTool(), handler: domain.SnippetHandler()},
	}
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}
