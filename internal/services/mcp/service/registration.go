package service

import (
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/services/mcp/domain"
)

type mcpRegistrationModule struct {
	name     string
	register func(mcpRegistrationTarget) error
}

const (
	mcpSceneToolsModuleName       = "scene-tools"
	mcpObjectToolsModuleName      = "object-tools"
	mcpMaterialToolsModuleName    = "material-tools"
	mcpEventToolsModuleName       = "event-tools"
	mcpRuntimeToolsModuleName     = "runtime-tools"
	mcpAssetToolsModuleName       = "asset-tools"
	mcpGenerationToolsModuleName  = "generation-tools"
	mcpIntegrationToolsModuleName = "integration-tools"
	mcpDocsToolsModuleName        = "docs-tools"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.SceneListInput, domain.SceneListResult](),
	newMCPToolRegistrar[domain.SceneGetInput, domain.SceneGetResult](),
	newMCPToolRegistrar[domain.SceneCreateInput, domain.SceneCreateResult](),
	newMCPToolRegistrar[domain.SceneDeleteInput, domain.SceneDeleteResult](),
	newMCPToolRegistrar[domain.SceneURLParseInput, domain.SceneURLParseResult](),
	newMCPToolRegistrar[domain.ObjectListInput, domain.ObjectListResult](),
	newMCPToolRegistrar[domain.ObjectGetInput, domain.ObjectGetResult](),
	newMCPToolRegistrar[domain.ObjectCreateInput, domain.ObjectCreateResult](),
	newMCPToolRegistrar[domain.ObjectUpdateInput, domain.ObjectUpdateResult](),
	newMCPToolRegistrar[domain.ObjectDeleteInput, domain.ObjectDeleteResult](),
	newMCPToolRegistrar[domain.MaterialListInput, domain.MaterialListResult](),
	newMCPToolRegistrar[domain.MaterialCreateInput, domain.MaterialCreateResult](),
	newMCPToolRegistrar[domain.MaterialApplyInput, domain.MaterialApplyResult](),
	newMCPToolRegistrar[domain.EventListInput, domain.EventListResult](),
	newMCPToolRegistrar[domain.EventCreateInput, domain.EventCreateResult](),
	newMCPToolRegistrar[domain.EventTriggerInput, domain.EventTriggerResult](),
	newMCPToolRegistrar[domain.EventTypesInput, domain.EventTypesResult](),
	newMCPToolRegistrar[domain.RuntimeStateInput, domain.RuntimeStateResult](),
	newMCPToolRegistrar[domain.VariableSetInput, domain.VariableSetResult](),
	newMCPToolRegistrar[domain.SceneDownloadInput, domain.SceneDownloadResult](),
	newMCPToolRegistrar[domain.SceneValidateInput, domain.SceneValidateResult](),
	newMCPToolRegistrar[domain.CacheListInput, domain.CacheListResult](),
	newMCPToolRegistrar[domain.CacheClearInput, domain.CacheClearResult](),
	newMCPToolRegistrar[domain.CacheStatsInput, domain.CacheStatsResult](),
	newMCPToolRegistrar[domain.EmbedCodeInput, domain.EmbedCodeResult](),
	newMCPToolRegistrar[domain.RealtimeStatusInput, domain.RealtimeStatusResult](),
	newMCPToolRegistrar[domain.ChannelSubscribeInput, domain.ChannelSubscribeResult](),
	newMCPToolRegistrar[domain.WorkflowCreateInput, domain.WorkflowCreateResult](),
	newMCPToolRegistrar[domain.WebhookTriggerInput, domain.WebhookTriggerResult](),
	newMCPToolRegistrar[domain.IntegrationStatusInput, domain.IntegrationStatusResult](),
	newMCPToolRegistrar[domain.RuntimeDocsInput, domain.RuntimeDocsResult](),
	newMCPToolRegistrar[domain.InstallGuideInput, domain.InstallGuideResult](),
	newMCPToolRegistrar[domain.TroubleshootingInput, domain.TroubleshootingResult](),
	newMCPToolRegistrar[domain.SnippetInput, domain.SnippetResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(deps Deps) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpSceneToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerSceneTools(registrar, deps)
			},
		},
		{
			name: mcpObjectToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerObjectTools(registrar, deps)
			},
		},
		{
			name: mcpMaterialToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerMaterialTools(registrar, deps)
			},
		},
		{
			name: mcpEventToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerEventTools(registrar, deps)
			},
		},
		{
			name: mcpRuntimeToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerRuntimeTools(registrar, deps)
			},
		},
		{
			name: mcpAssetToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerAssetTools(registrar, deps)
			},
		},
		{
			name: mcpGenerationToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerGenerationTools(registrar)
			},
		},
		{
			name: mcpIntegrationToolsModuleName,
			register: func(registrar mcpRegistrationTarget) error {
				return registerIntegrationTools(registrar, deps)
			},
		},
		{
			name: mcpDocsToolsModuleName,
			register: registerDocsTools,
		},
	}
}
