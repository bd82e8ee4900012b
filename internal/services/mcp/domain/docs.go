package domain

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RuntimeDocsInput represents the MCP tool input for runtime API docs.
type RuntimeDocsInput struct {
	Topic string `json:"topic,omitempty" jsonschema:"documentation topic: overview, loading, objects, events, variables, transitions, camera or materials; defaults to overview"`
}

// RuntimeDocsResult represents the MCP tool output for runtime API docs.
type RuntimeDocsResult struct {
	Topic   string   `json:"topic" jsonschema:"topic the documentation covers"`
	Title   string   `json:"title" jsonschema:"section title"`
	Summary string   `json:"summary,omitempty" jsonschema:"what the topic covers"`
	Methods []string `json:"methods,omitempty" jsonschema:"relevant runtime API methods"`
	Notes   []string `json:"notes,omitempty" jsonschema:"additional pointers"`
	Example string   `json:"example,omitempty" jsonschema:"usage example"`
}

var runtimeDocs = map[string]RuntimeDocsResult{
	"overview": {
		Title:   "@splinetool/runtime Overview",
		Summary: "Client-side JavaScript library for running Spline scenes",
		Notes: []string{
			"npm package: @splinetool/runtime",
			"CDN: https://unpkg.com/@splinetool/runtime/build/runtime.js",
			"Load .splinecode scenes, find and manipulate objects, handle events, set runtime variables, trigger state transitions",
		},
		Example: "import { Application } from '@splinetool/runtime';\nconst spline = new Application(canvas);\nawait spline.load(url);",
	},
	"loading": {
		Title:   "Scene Loading",
		Methods: []string{"load(url)", "load(url, { variables })"},
		Example: "await spline.load('https://prod.spline.design/xxx/scene.splinecode');",
	},
	"objects": {
		Title:   "Object Management",
		Methods: []string{"findObjectByName(name)", "findObjectById(id)", "getAllObjects()"},
		Notes:   []string{"Object properties: position, rotation, scale, visible"},
	},
	"events": {
		Title:   "Event Handling",
		Methods: []string{"addEventListener(type, callback)", "emitEvent(type)"},
		Notes:   []string{"Event types: mouseDown, mouseUp, mouseHover, keyDown, keyUp, scroll"},
	},
	"variables": {
		Title:   "Runtime Variables",
		Methods: []string{"setVariable(name, value)", "setVariables(obj)", "getVariable(name)"},
	},
	"transitions": {
		Title:   "State Transitions",
		Methods: []string{"transition({ to, duration, easing })"},
		Notes:   []string{"Easing: LINEAR, EASE_IN, EASE_OUT, EASE_IN_OUT"},
	},
	"camera": {
		Title:   "Camera Control",
		Methods: []string{"setCameraPosition(x, y, z)", "setCameraTarget(x, y, z)"},
	},
	"materials": {
		Title: "Materials",
		Notes: []string{"Materials are typically set in the editor and modified via variables at runtime"},
	},
}

// RuntimeDocsTool defines the MCP tool schema for runtime API docs.
func RuntimeDocsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_runtime_api_docs",
		Description: "Returns documentation for the @splinetool/runtime API by topic: loading, objects, events, variables, transitions, camera or materials.",
	}
}

// RuntimeDocsHandler returns runtime API documentation for a topic.
func RuntimeDocsHandler() mcp.ToolHandlerFor[RuntimeDocsInput, RuntimeDocsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input RuntimeDocsInput) (*mcp.CallToolResult, RuntimeDocsResult, error) {
		topic := input.Topic
		if topic == "" {
			topic = "overview"
		}
		doc, ok := runtimeDocs[topic]
		if !ok {
			return nil, RuntimeDocsResult{}, fmt.Errorf("unknown topic %q, valid topics: %s", topic, strings.Join(sortedKeys(runtimeDocs), ", "))
		}
		doc.Topic = topic
		return nil, doc, nil
	}
}

// InstallGuideInput represents the MCP tool input for installation guides.
type InstallGuideInput struct {
	Framework string `json:"framework,omitempty" jsonschema:"target framework: react, nextjs, vue or vanilla; defaults to react"`
}

// InstallGuideResult represents the MCP tool output for installation guides.
type InstallGuideResult struct {
	Framework string   `json:"framework" jsonschema:"framework the guide covers"`
	Title     string   `json:"title" jsonschema:"guide title"`
	Install   string   `json:"install" jsonschema:"installation command or CDN URL"`
	Notes     []string `json:"notes,omitempty" jsonschema:"framework-specific pointers"`
}

var installGuides = map[string]InstallGuideResult{
	"react": {
		Title:   "React Installation",
		Install: "npm install @splinetool/react-spline",
		Notes:   []string{"Basic usage: <Spline scene='https://prod.spline.design/xxx/scene.splinecode' />"},
	},
	"nextjs": {
		Title:   "Next.js Installation",
		Install: "npm install @splinetool/react-spline",
		Notes:   []string{"Use dynamic import with ssr: false"},
	},
	"vue": {
		Title:   "Vue Installation",
		Install: "npm install @splinetool/runtime",
		Notes:   []string{"Use the runtime directly in a component"},
	},
	"vanilla": {
		Title:   "Vanilla JS Installation",
		Install: "npm install @splinetool/runtime",
		Notes:   []string{"CDN alternative: https://unpkg.com/@splinetool/runtime/build/runtime.js"},
	},
}

// InstallGuideTool defines the MCP tool schema for installation guides.
func InstallGuideTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_installation_guide",
		Description: "Returns Spline installation instructions for React, Next.js, Vue or vanilla JS.",
	}
}

// InstallGuideHandler returns the installation guide for a framework.
func InstallGuideHandler() mcp.ToolHandlerFor[InstallGuideInput, InstallGuideResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input InstallGuideInput) (*mcp.CallToolResult, InstallGuideResult, error) {
		framework := input.Framework
		if framework == "" {
			framework = "react"
		}
		guide, ok := installGuides[framework]
		if !ok {
			return nil, InstallGuideResult{}, fmt.Errorf("unknown framework %q, valid frameworks: %s", framework, strings.Join(sortedKeys(installGuides), ", "))
		}
		guide.Framework = framework
		return nil, guide, nil
	}
}

// TroubleshootingInput represents the MCP tool input for troubleshooting.
type TroubleshootingInput struct {
	Issue string `json:"issue" jsonschema:"issue type: scene_not_loading, cors_error, objects_not_found or variables_not_working"`
}

// TroubleshootingResult represents the MCP tool output for troubleshooting.
type TroubleshootingResult struct {
	Issue string   `json:"issue" jsonschema:"issue the guide covers"`
	Title string   `json:"title" jsonschema:"guide title"`
	Steps []string `json:"steps" jsonschema:"checks and fixes to try in order"`
}

var troubleshootingGuides = map[string]TroubleshootingResult{
	"scene_not_loading": {
		Title: "Scene Not Loading",
		Steps: []string{
			"Verify the URL ends with /scene.splinecode",
			"Check the network tab for errors",
			"Verify the scene is published",
		},
	},
	"cors_error": {
		Title: "CORS Error",
		Steps: []string{
			"Download and self-host the .splinecode file",
			"Use the download_scene tool to cache it locally",
		},
	},
	"objects_not_found": {
		Title: "Objects Not Found",
		Steps: []string{
			"Object names are case-sensitive",
			"Wait for the onLoad callback before lookups",
			"Use getAllObjects() to debug",
		},
	},
	"variables_not_working": {
		Title: "Variables Not Working",
		Steps: []string{
			"The variable must exist in the Spline editor",
			"Check the name spelling (case-sensitive)",
			"Verify the type matches (string, number, boolean)",
		},
	},
}

// TroubleshootingTool defines the MCP tool schema for troubleshooting guides.
func TroubleshootingTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_troubleshooting_guide",
		Description: "Returns troubleshooting steps for common Spline issues: scenes not loading, CORS errors, missing objects or broken variables.",
	}
}

// TroubleshootingHandler returns troubleshooting steps for a known issue.
func TroubleshootingHandler() mcp.ToolHandlerFor[TroubleshootingInput, TroubleshootingResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TroubleshootingInput) (*mcp.CallToolResult, TroubleshootingResult, error) {
		guide, ok := troubleshootingGuides[input.Issue]
		if !ok {
			return nil, TroubleshootingResult{}, fmt.Errorf("unknown issue %q, valid issues: %s", input.Issue, strings.Join(sortedKeys(troubleshootingGuides), ", "))
		}
		guide.Issue = input.Issue
		return nil, guide, nil
	}
}

// SnippetInput represents the MCP tool input for generating code snippets.
type SnippetInput struct {
	SnippetType string `json:"snippet_type" jsonschema:"snippet type: load_scene, event_listener, variable_set or transition"`
	Language    string `json:"language,omitempty" jsonschema:"target language, typescript or javascript; defaults to typescript"`
}

// SnippetResult represents the MCP tool output for generating code snippets.
type SnippetResult struct {
	SnippetType string `json:"snippet_type" jsonschema:"snippet type generated"`
	Language    string `json:"language" jsonschema:"language of the snippet"`
	Code        string `json:"code" jsonschema:"generated code snippet"`
}

var snippets = map[string]map[string]string{
	"load_scene": {
		"typescript": `const spline = new Application(canvas);
await spline.load('https://prod.spline.design/SCENE_ID/scene.splinecode');

const cube = spline.findObjectByName('Cube');
console.log(cube);`,
	},
	"event_listener": {
		"typescript": `spline.addEventListener('mouseDown', (e: SplineEvent) => {
  console.log('Clicked:', e.target.name);
  e.target.emitEvent('mouseHover');
});`,
		"javascript": `spline.addEventListener('mouseDown', (e) => {
  console.log('Clicked:', e.target.name);
  e.target.emitEvent('mouseHover');
});`,
	},
	"variable_set": {
		"typescript": `spline.setVariable('myColor', '#ff0000');

spline.setVariables({
  color: '#ff0000',
  speed: 2.5,
  visible: true
});`,
	},
	"transition": {
		"typescript": `import { Easing } from '@splinetool/runtime';

const obj = spline.findObjectByName('Cube');
obj.transition({
  to: 'State2',
  duration: 1000,
  easing: Easing.LINEAR
});`,
	},
}

// SnippetTool defines the MCP tool schema for generating code snippets.
func SnippetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "generate_snippet",
		Description: "Generates a common @splinetool/runtime code snippet: scene loading, event listeners, variable updates or state transitions.",
	}
}

// SnippetHandler generates one runtime code snippet. Snippets without a
// language-specific variant fall back to the TypeScript form.
func SnippetHandler() mcp.ToolHandlerFor[SnippetInput, SnippetResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SnippetInput) (*mcp.CallToolResult, SnippetResult, error) {
		variants, ok := snippets[input.SnippetType]
		if !ok {
			return nil, SnippetResult{}, fmt.Errorf("unknown snippet type %q, valid types: %s", input.SnippetType, strings.Join(sortedKeys(snippets), ", "))
		}
		language := input.Language
		if language == "" {
			language = "typescript"
		}
		code, ok := variants[language]
		if !ok {
			code = variants["typescript"]
		}
		return nil, SnippetResult{
			SnippetType: input.SnippetType,
			Language:    language,
			Code:        code,
		}, nil
	}
}

// sortedKeys returns map keys in stable order for error messages.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
