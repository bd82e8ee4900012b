package spline

import "encoding/json"

// Object is a 3D object within a scene: a mesh, light, camera, or group.
type Object struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Type       string                     `json:"type"`
	Position   []float64                  `json:"position,omitempty"`
	Rotation   []float64                  `json:"rotation,omitempty"`
	Scale      []float64                  `json:"scale,omitempty"`
	Visible    bool                       `json:"visible"`
	Locked     bool                       `json:"locked"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
}

// Material is a surface definition applied to objects.
type Material struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Color      string                     `json:"color,omitempty"`
	Metalness  float64                    `json:"metalness"`
	Roughness  float64                    `json:"roughness"`
	Opacity    float64                    `json:"opacity"`
	Emissive   string                     `json:"emissive,omitempty"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
}

// Event is an interaction trigger attached to a scene or object.
type Event struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	EventType      string            `json:"event_type"`
	TargetObjectID string            `json:"target_object_id,omitempty"`
	Actions        []json.RawMessage `json:"actions,omitempty"`
}

// Scene is the full editable representation of a Spline scene.
type Scene struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Objects    []Object                   `json:"objects,omitempty"`
	Materials  []Material                 `json:"materials,omitempty"`
	Events     []Event                    `json:"events,omitempty"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
}

// SceneSummary is the listing form of a scene, without nested collections.
type SceneSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
