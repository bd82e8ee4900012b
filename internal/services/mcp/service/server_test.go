package service

import (
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/assets"
	"github.com/spline-mcp/spline-mcp/internal/integrations/n8n"
	"github.com/spline-mcp/spline-mcp/internal/realtime"
	"github.com/spline-mcp/spline-mcp/internal/spline"
)

type capturingRegistrar struct {
	tools []string
}

func (c *capturingRegistrar) AddTool(tool *mcp.Tool, handler any) error {
	c.tools = append(c.tools, tool.Name)
	return nil
}

func testDeps(t *testing.T) Deps {
	t.Helper()
	store, err := assets.OpenStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return Deps{
		Spline:   spline.NewClient("http://127.0.0.1:1", "test-key", time.Second),
		Assets:   assets.NewManager(assets.NewHTTPFetcher(time.Second), store),
		Realtime: realtime.NewClient(realtime.Config{Endpoint: "ws://127.0.0.1:1/ws"}),
		N8N:      n8n.NewClient("http://127.0.0.1:1", ""),
	}
}

func TestRegistrationModulesRegisterEveryTool(t *testing.T) {
	deps := testDeps(t)
	registrar := &capturingRegistrar{}

	for _, module := range newMCPRegistrationModules(deps) {
		if err := module.register(registrar); err != nil {
			t.Fatalf("register module %q: %v", module.name, err)
		}
	}

	want := []string{
		"list_scenes", "get_scene", "create_scene", "delete_scene", "parse_scene_url",
		"list_objects", "get_object", "create_object", "update_object", "delete_object",
		"list_materials", "create_material", "apply_material",
		"list_events", "create_event", "trigger_event", "list_event_types",
		"get_runtime_state", "set_variable",
		"download_scene", "validate_scene", "list_cached_scenes", "clear_scene_cache", "get_cache_stats",
		"generate_embed_code",
		"get_websocket_status", "subscribe_to_channel", "create_n8n_workflow",
		"trigger_n8n_webhook", "get_integration_status",
		"get_runtime_api_docs", "get_installation_guide", "get_troubleshooting_guide", "generate_snippet",
	}
	seen := make(map[string]int)
	for _, name := range registrar.tools {
		seen[name]++
	}
	for _, name := range want {
		if seen[name] != 1 {
			t.Errorf("tool %q registered %d times, want 1", name, seen[name])
		}
	}
	if len(registrar.tools) != len(want) {
		t.Errorf("registered %d tools, want %d: %v", len(registrar.tools), len(want), registrar.tools)
	}
}

func TestNewRegistersAgainstRealServer(t *testing.T) {
	server, err := New(testDeps(t))
	if err != nil {
		t.Fatalf("New() = %v", err)
	}
	if server.mcpServer == nil {
		t.Fatal("mcpServer is nil")
	}
}

func TestNewRequiresAllDeps(t *testing.T) {
	deps := testDeps(t)
	deps.Spline = nil
	if _, err := New(deps); err == nil {
		t.Fatal("New() with nil spline client = nil error, want error")
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	err := Run(t.Context(), testDeps(t), Config{Transport: TransportKind("carrier-pigeon")})
	if err == nil {
		t.Fatal("Run() with unknown transport = nil error, want error")
	}
}
