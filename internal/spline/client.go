// Package spline is a client for the Spline.design REST API: scene, object,
// material, event and runtime-state operations over HTTPS with bearer auth.
package spline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.spline.design/v1"

// APIError is a non-2xx response from the Spline API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("spline api: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Client calls the Spline REST API. The zero value is not usable; construct
// with NewClient.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient builds a client for the given API base URL. An empty baseURL
// selects the production endpoint. The timeout bounds each request
// end to end.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// do issues one API request, encoding body (when non-nil) as JSON and
// decoding the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// ListScenes returns summaries of every scene the API key can access.
func (c *Client) ListScenes(ctx context.Context) ([]SceneSummary, error) {
	var result struct {
		Scenes []SceneSummary `json:"scenes"`
	}
	if err := c.do(ctx, http.MethodGet, "/scenes", nil, &result); err != nil {
		return nil, err
	}
	return result.Scenes, nil
}

// GetScene returns the full scene, including objects, materials and events.
func (c *Client) GetScene(ctx context.Context, sceneID string) (*Scene, error) {
	var scene Scene
	if err := c.do(ctx, http.MethodGet, "/scenes/"+sceneID, nil, &scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

// CreateScene creates an empty scene with the given name and optional
// extra properties.
func (c *Client) CreateScene(ctx context.Context, name string, properties map[string]any) (*Scene, error) {
	payload := map[string]any{"name": name}
	for k, v := range properties {
		payload[k] = v
	}
	var scene Scene
	if err := c.do(ctx, http.MethodPost, "/scenes", payload, &scene); err != nil {
		return nil, err
	}
	return &scene, nil
}

// DeleteScene removes a scene.
func (c *Client) DeleteScene(ctx context.Context, sceneID string) error {
	return c.do(ctx, http.MethodDelete, "/scenes/"+sceneID, nil, nil)
}

// ListObjects returns all objects in a scene.
func (c *Client) ListObjects(ctx context.Context, sceneID string) ([]Object, error) {
	var result struct {
		Objects []Object `json:"objects"`
	}
	if err := c.do(ctx, http.MethodGet, "/scenes/"+sceneID+"/objects", nil, &result); err != nil {
		return nil, err
	}
	return result.Objects, nil
}

// GetObject returns one object by ID.
func (c *Client) GetObject(ctx context.Context, sceneID, objectID string) (*Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodGet, "/scenes/"+sceneID+"/objects/"+objectID, nil, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// ObjectSpec describes a new object. Type is required; transform fields are
// sent only when set.
type ObjectSpec struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	Position []float64 `json:"position,omitempty"`
	Rotation []float64 `json:"rotation,omitempty"`
	Scale    []float64 `json:"scale,omitempty"`
}

// CreateObject adds an object to a scene.
func (c *Client) CreateObject(ctx context.Context, sceneID string, spec ObjectSpec) (*Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodPost, "/scenes/"+sceneID+"/objects", spec, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// UpdateObject patches the named fields of an object and returns the
// updated object.
func (c *Client) UpdateObject(ctx context.Context, sceneID, objectID string, updates map[string]any) (*Object, error) {
	var obj Object
	if err := c.do(ctx, http.MethodPatch, "/scenes/"+sceneID+"/objects/"+objectID, updates, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// DeleteObject removes an object from a scene.
func (c *Client) DeleteObject(ctx context.Context, sceneID, objectID string) error {
	return c.do(ctx, http.MethodDelete, "/scenes/"+sceneID+"/objects/"+objectID, nil, nil)
}

// ListMaterials returns all materials in a scene.
func (c *Client) ListMaterials(ctx context.Context, sceneID string) ([]Material, error) {
	var result struct {
		Materials []Material `json:"materials"`
	}
	if err := c.do(ctx, http.MethodGet, "/scenes/"+sceneID+"/materials", nil, &result); err != nil {
		return nil, err
	}
	return result.Materials, nil
}

// MaterialSpec describes a new material.
type MaterialSpec struct {
	Name      string  `json:"name"`
	Color     string  `json:"color,omitempty"`
	Metalness float64 `json:"metalness"`
	Roughness float64 `json:"roughness"`
}

// CreateMaterial adds a material to a scene.
func (c *Client) CreateMaterial(ctx context.Context, sceneID string, spec MaterialSpec) (*Material, error) {
	var mat Material
	if err := c.do(ctx, http.MethodPost, "/scenes/"+sceneID+"/materials", spec, &mat); err != nil {
		return nil, err
	}
	return &mat, nil
}

// ApplyMaterial assigns a material to an object and returns the updated
// object.
func (c *Client) ApplyMaterial(ctx context.Context, sceneID, objectID, materialID string) (*Object, error) {
	payload := map[string]string{"material_id": materialID}
	var obj Object
	if err := c.do(ctx, http.MethodPost, "/scenes/"+sceneID+"/objects/"+objectID+"/material", payload, &obj); err != nil {
		return nil, err
	}
	return &obj, nil
}

// ListEvents returns all events defined in a scene.
func (c *Client) ListEvents(ctx context.Context, sceneID string) ([]Event, error) {
	var result struct {
		Events []Event `json:"events"`
	}
	if err := c.do(ctx, http.MethodGet, "/scenes/"+sceneID+"/events", nil, &result); err != nil {
		return nil, err
	}
	return result.Events, nil
}

// EventSpec describes a new event. TargetObjectID and Actions are optional.
type EventSpec struct {
	Name           string            `json:"name"`
	EventType      string            `json:"event_type"`
	TargetObjectID string            `json:"target_object_id,omitempty"`
	Actions        []json.RawMessage `json:"actions,omitempty"`
}

// CreateEvent adds an event to a scene.
func (c *Client) CreateEvent(ctx context.Context, sceneID string, spec EventSpec) (*Event, error) {
	var evt Event
	if err := c.do(ctx, http.MethodPost, "/scenes/"+sceneID+"/events", spec, &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// TriggerEvent fires an event and returns the API's result document.
func (c *Client) TriggerEvent(ctx context.Context, sceneID, eventID string) (map[string]any, error) {
	var result map[string]any
	if err := c.do(ctx, http.MethodPost, "/scenes/"+sceneID+"/events/"+eventID+"/trigger", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// GetRuntimeState returns the live runtime state of a scene.
func (c *Client) GetRuntimeState(ctx context.Context, sceneID string) (map[string]any, error) {
	var result map[string]any
	if err := c.do(ctx, http.MethodGet, "/scenes/"+sceneID+"/runtime/state", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// SetVariable sets one runtime variable in a scene.
func (c *Client) SetVariable(ctx context.Context, sceneID, name string, value any) (map[string]any, error) {
	payload := map[string]any{"name": name, "value": value}
	var result map[string]any
	if err := c.do(ctx, http.MethodPost, "/scenes/"+sceneID+"/runtime/variables", payload, &result); err != nil {
		return nil, err
	}
	return result, nil
}
