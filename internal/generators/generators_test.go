package generators

import (
	"strings"
	"testing"
)

const testSceneURL = "https://prod.spline.design/abc123def456/scene.splinecode"

func TestLookupKnownFrameworks(t *testing.T) {
	for _, framework := range []string{"react", "vanilla", "nextjs"} {
		g, err := Lookup(framework)
		if err != nil {
			t.Fatalf("Lookup(%q) = %v", framework, err)
		}
		if g.Framework() != framework {
			t.Fatalf("Framework() = %q, want %q", g.Framework(), framework)
		}
	}
}

func TestLookupUnknownFramework(t *testing.T) {
	if _, err := Lookup("svelte"); err == nil {
		t.Fatal("Lookup(svelte) = nil error, want error")
	}
}

func TestFrameworksSorted(t *testing.T) {
	got := Frameworks()
	want := []string{"nextjs", "react", "vanilla"}
	if len(got) != len(want) {
		t.Fatalf("Frameworks() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Frameworks() = %v, want %v", got, want)
		}
	}
}

func TestReactComponentBasics(t *testing.T) {
	g, _ := Lookup("react")
	code, err := g.Component(testSceneURL, DefaultOptions())
	if err != nil {
		t.Fatalf("Component() = %v", err)
	}

	for _, want := range []string{
		"import Spline from '@splinetool/react-spline';",
		"interface SplineSceneProps {",
		"export function SplineScene(",
		`scene="` + testSceneURL + `"`,
		"<Suspense fallback={<SplineSceneFallback />}>",
		"function SplineSceneFallback()",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("react component missing %q\n%s", want, code)
		}
	}
}

func TestReactComponentCustomName(t *testing.T) {
	g, _ := Lookup("react")
	opts := DefaultOptions()
	opts.ComponentName = "HeroScene"
	code, err := g.Component(testSceneURL, opts)
	if err != nil {
		t.Fatalf("Component() = %v", err)
	}
	if !strings.Contains(code, "export function HeroScene(") {
		t.Fatalf("component name not applied:\n%s", code)
	}
	if strings.Contains(code, "SplineScene") {
		t.Fatalf("default name leaked into output:\n%s", code)
	}
}

func TestReactComponentWithoutTypeScript(t *testing.T) {
	g, _ := Lookup("react")
	opts := DefaultOptions()
	opts.TypeScript = false
	code, err := g.Component(testSceneURL, opts)
	if err != nil {
		t.Fatalf("Component() = %v", err)
	}
	if strings.Contains(code, "interface ") {
		t.Fatalf("TypeScript interface emitted with TypeScript disabled:\n%s", code)
	}
	if strings.Contains(code, ": any") {
		t.Fatalf("type annotations emitted with TypeScript disabled:\n%s", code)
	}
}

func TestReactEventHandlersEmitted(t *testing.T) {
	g, _ := Lookup("react")
	opts := DefaultOptions()
	opts.EventHandlers = []EventHandler{
		{Type: EventMouseDown, TargetObject: "Cube", HandlerCode: "spin();"},
		{Type: EventStart},
	}
	code, err := g.Component(testSceneURL, opts)
	if err != nil {
		t.Fatalf("Component() = %v", err)
	}
	for _, want := range []string{
		"splineApp.addEventListener('mouseDown',",
		"if (e.target.name === 'Cube') { spin(); }",
		"splineApp.addEventListener('start',",
		"console.log('Event triggered');",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("react component missing %q\n%s", want, code)
		}
	}
}

func TestReactVariableBindings(t *testing.T) {
	g, _ := Lookup("react")
	opts := DefaultOptions()
	opts.Variables = []VariableBinding{
		{Name: "speed", Value: 2.5},
		{Name: "label", Value: "hello"},
		{Name: "color", ValueSource: "props.color"},
	}
	code, err := g.Component(testSceneURL, opts)
	if err != nil {
		t.Fatalf("Component() = %v", err)
	}
	for _, want := range []string{
		"speed: 2.5,",
		`label: "hello",`,
		"color: props.color,",
		"splineApp.setVariables(initialVariables);",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("react component missing %q\n%s", want, code)
		}
	}
}

func TestReactWebSocketBlock(t *testing.T) {
	g, _ := Lookup("react")
	opts := DefaultOptions()
	opts.IncludeWebSocket = true
	opts.WebSocketURL = "ws://localhost:9999"
	code, err := g.Component(testSceneURL, opts)
	if err != nil {
		t.Fatalf("Component() = %v", err)
	}
	for _, want := range []string{
		"new WebSocket('ws://localhost:9999')",
		"channel: 'spline:variables'",
		"msg.channel === 'spline:variables'",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("react component missing %q\n%s", want, code)
		}
	}
}

func TestVanillaPage(t *testing.T) {
	g, _ := Lookup("vanilla")
	opts := DefaultOptions()
	opts.EventHandlers = []EventHandler{{Type: EventMouseDown, TargetObject: "Cube", HandlerCode: "spin();"}}
	opts.IncludeWebSocket = true
	code, err := g.Component(testSceneURL, opts)
	if err != nil {
		t.Fatalf("Component() = %v", err)
	}
	for _, want := range []string{
		"<!DOCTYPE html>",
		"@splinetool/runtime",
		"spline.load('" + testSceneURL + "')",
		"spline.addEventListener('mouseDown',",
		`JSON.stringify({ op: 'subscribe', channel: 'spline:variables' })`,
	} {
		if !strings.Contains(code, want) {
			t.Errorf("vanilla page missing %q\n%s", want, code)
		}
	}
}

func TestNextJSComponent(t *testing.T) {
	g, _ := Lookup("nextjs")
	opts := DefaultOptions()
	opts.SSRPlaceholder = true
	code, err := g.Component(testSceneURL, opts)
	if err != nil {
		t.Fatalf("Component() = %v", err)
	}
	for _, want := range []string{
		"'use client';",
		"import dynamic from 'next/dynamic';",
		"ssr: false,",
		"export function SplineScenePlaceholder()",
	} {
		if !strings.Contains(code, want) {
			t.Errorf("nextjs component missing %q\n%s", want, code)
		}
	}
}

func TestDocFor(t *testing.T) {
	if got := DocFor(EventMouseDown); !strings.Contains(got, "mouse button is pressed") {
		t.Fatalf("DocFor(mouseDown) = %q", got)
	}
	if got := DocFor(EventType("bogus")); got != "No documentation available" {
		t.Fatalf("DocFor(bogus) = %q", got)
	}
}
