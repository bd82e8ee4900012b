// Package generators emits framework-specific embed code for Spline scenes:
// React and Next.js components and a self-contained vanilla JS page, driven
// by a shared option set covering events, variable bindings and the realtime
// websocket bridge.
package generators

import (
	"encoding/json"
	"fmt"
	"sort"
)

// EventType names a Spline runtime event.
type EventType string

const (
	EventMouseDown  EventType = "mouseDown"
	EventMouseUp    EventType = "mouseUp"
	EventMouseHover EventType = "mouseHover"
	EventKeyDown    EventType = "keyDown"
	EventKeyUp      EventType = "keyUp"
	EventStart      EventType = "start"
	EventLookAt     EventType = "lookAt"
	EventFollow     EventType = "follow"
	EventScroll     EventType = "scroll"
)

// eventDocs describes each runtime event for the documentation tool.
var eventDocs = map[EventType]string{
	EventMouseDown:  "Triggered when mouse button is pressed on an object",
	EventMouseUp:    "Triggered when mouse button is released",
	EventMouseHover: "Triggered when mouse enters an object",
	EventKeyDown:    "Triggered when a key is pressed",
	EventKeyUp:      "Triggered when a key is released",
	EventStart:      "Triggered when the scene starts",
	EventLookAt:     "Triggered when camera looks at an object",
	EventFollow:     "Triggered during follow behavior",
	EventScroll:     "Triggered on scroll events",
}

// DocFor returns the documentation line for an event type.
func DocFor(t EventType) string {
	if doc, ok := eventDocs[t]; ok {
		return doc
	}
	return "No documentation available"
}

// EventHandler wires a runtime event to a JavaScript snippet, optionally
// filtered to a named object.
type EventHandler struct {
	Type         EventType
	TargetObject string
	HandlerCode  string
}

// Code returns the handler body, defaulting to a console log.
func (h EventHandler) Code() string {
	if h.HandlerCode == "" {
		return "console.log('Event triggered');"
	}
	return h.HandlerCode
}

// VariableBinding initializes a Spline runtime variable, either from a
// literal value or from a source expression such as a React prop.
type VariableBinding struct {
	Name        string
	Value       any
	ValueSource string
}

// JSValue renders the binding's initial value as a JavaScript expression.
func (v VariableBinding) JSValue() string {
	if v.ValueSource != "" {
		return v.ValueSource
	}
	encoded, err := json.Marshal(v.Value)
	if err != nil {
		return "null"
	}
	return string(encoded)
}

// Options controls what the emitted code includes. The zero value produces a
// minimal component; normalize fills the defaults.
type Options struct {
	ComponentName        string
	TypeScript           bool
	LazyLoad             bool
	SSRPlaceholder       bool
	EventHandlers        []EventHandler
	Variables            []VariableBinding
	IncludeErrorBoundary bool
	IncludeWebSocket     bool
	WebSocketURL         string
}

// DefaultOptions mirrors the defaults callers get when they pass nothing.
func DefaultOptions() Options {
	return Options{
		ComponentName:        "SplineScene",
		TypeScript:           true,
		LazyLoad:             true,
		IncludeErrorBoundary: true,
		WebSocketURL:         "ws://localhost:8690",
	}
}

func (o Options) normalize() Options {
	if o.ComponentName == "" {
		o.ComponentName = "SplineScene"
	}
	if o.WebSocketURL == "" {
		o.WebSocketURL = "ws://localhost:8690"
	}
	return o
}

// Generator emits embed code for one target framework.
type Generator interface {
	Framework() string
	Component(sceneURL string, opts Options) (string, error)
	InstallInstructions() string
	UsageExample(componentName, sceneURL string) string
}

var registry = map[string]Generator{
	"react":   reactGenerator{},
	"vanilla": vanillaGenerator{},
	"nextjs":  nextjsGenerator{},
}

// Lookup returns the generator for a framework name.
func Lookup(framework string) (Generator, error) {
	g, ok := registry[framework]
	if !ok {
		return nil, fmt.Errorf("unknown framework %q (supported: %v)", framework, Frameworks())
	}
	return g, nil
}

// Frameworks returns the supported framework names, sorted.
func Frameworks() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
