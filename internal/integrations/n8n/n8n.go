// Package n8n talks to an n8n automation server with soft failover: when the
// server is unreachable, workflow operations return (nil, false) with a
// warning log instead of an error, so callers degrade instead of failing.
package n8n

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultBaseURL = "http://localhost:3044"

// Workflow is an n8n workflow definition.
type Workflow struct {
	Name        string           `json:"name"`
	Nodes       []map[string]any `json:"nodes"`
	Connections map[string]any   `json:"connections"`
	Settings    map[string]any   `json:"settings"`
}

// Status reports the client's view of the n8n server.
type Status struct {
	BaseURL   string `json:"base_url"`
	Available *bool  `json:"available"`
	HasAPIKey bool   `json:"has_api_key"`
}

// Client is an n8n API client. The availability probe result is cached for
// the lifetime of the client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu        sync.Mutex
	available *bool
}

// NewClient builds a client for the given n8n server. An empty baseURL
// selects the local default; the API key is optional.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-N8N-API-KEY", c.apiKey)
	}
}

// Available probes the server's /healthz endpoint. The first result is
// cached; subsequent calls return it without network I/O.
func (c *Client) Available(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.available != nil {
		return *c.available
	}

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ok := false
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err == nil {
		c.setHeaders(req)
		resp, doErr := c.http.Do(req)
		if doErr != nil {
			log.Printf("n8n: server not available, workflow features disabled url=%q err=%v", c.baseURL, doErr)
		} else {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			ok = resp.StatusCode >= 200 && resp.StatusCode < 300
			if !ok {
				log.Printf("n8n: health probe returned status=%d url=%q", resp.StatusCode, c.baseURL)
			}
		}
	}
	c.available = &ok
	return ok
}

// post sends a JSON payload and decodes the JSON response.
func (c *Client) post(ctx context.Context, path string, payload any) (map[string]any, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("POST %s returned %d", path, resp.StatusCode)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// CreateWorkflow creates a workflow. It reports ok=false, with a warning
// logged, when the server is unavailable or the call fails.
func (c *Client) CreateWorkflow(ctx context.Context, wf Workflow) (map[string]any, bool) {
	if !c.Available(ctx) {
		log.Printf("n8n: cannot create workflow, server not available workflow=%q", wf.Name)
		return nil, false
	}
	result, err := c.post(ctx, "/api/v1/workflows", wf)
	if err != nil {
		log.Printf("n8n: create workflow failed workflow=%q err=%v", wf.Name, err)
		return nil, false
	}
	log.Printf("n8n: created workflow workflow=%q", wf.Name)
	return result, true
}

// TriggerWebhook posts a payload to a webhook path. Same soft-failure
// contract as CreateWorkflow.
func (c *Client) TriggerWebhook(ctx context.Context, webhookPath string, payload map[string]any) (map[string]any, bool) {
	if !c.Available(ctx) {
		return nil, false
	}
	result, err := c.post(ctx, "/webhook/"+strings.TrimPrefix(webhookPath, "/"), payload)
	if err != nil {
		log.Printf("n8n: trigger webhook failed path=%q err=%v", webhookPath, err)
		return nil, false
	}
	return result, true
}

// Status returns the client's configuration and cached availability.
// Available is nil when no probe has run yet.
func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		BaseURL:   c.baseURL,
		Available: c.available,
		HasAPIKey: c.apiKey != "",
	}
}

// GenerateSplineWorkflow builds a webhook → set-variables → notify-client
// workflow that pushes Spline runtime variable updates to a callback URL.
func GenerateSplineWorkflow(sceneURL string, variableMappings map[string]string) Workflow {
	stringValues := []map[string]any{
		{"name": "scene_url", "value": sceneURL},
	}
	// Deterministic node order regardless of map iteration.
	names := make([]string, 0, len(variableMappings))
	for name := range variableMappings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		stringValues = append(stringValues, map[string]any{
			"name":  name,
			"value": fmt.Sprintf("={{ $json.%s }}", variableMappings[name]),
		})
	}

	webhookNode := map[string]any{
		"parameters": map[string]any{
			"httpMethod":   "POST",
			"path":         "spline-update",
			"responseMode": "onReceived",
		},
		"name":        "Webhook Trigger",
		"type":        "n8n-nodes-base.webhook",
		"typeVersion": 1,
		"position":    []int{250, 300},
	}
	setVariablesNode := map[string]any{
		"parameters": map[string]any{
			"values": map[string]any{"string": stringValues},
		},
		"name":        "Set Variables",
		"type":        "n8n-nodes-base.set",
		"typeVersion": 2,
		"position":    []int{450, 300},
	}
	notifyNode := map[string]any{
		"parameters": map[string]any{
			"url":                "={{ $json.callback_url }}",
			"method":             "POST",
			"jsonParameters":     true,
			"bodyParametersJson": "={{ $json }}",
		},
		"name":        "Notify Client",
		"type":        "n8n-nodes-base.httpRequest",
		"typeVersion": 4,
		"position":    []int{650, 300},
	}

	return Workflow{
		Name:  "Spline Update - " + sceneLabel(sceneURL),
		Nodes: []map[string]any{webhookNode, setVariablesNode, notifyNode},
		Connections: map[string]any{
			"Webhook Trigger": map[string]any{
				"main": []any{[]any{map[string]any{"node": "Set Variables", "type": "main", "index": 0}}},
			},
			"Set Variables": map[string]any{
				"main": []any{[]any{map[string]any{"node": "Notify Client", "type": "main", "index": 0}}},
			},
		},
		Settings: map[string]any{},
	}
}

// sceneLabel extracts the scene identifier segment from an export URL.
func sceneLabel(sceneURL string) string {
	parts := strings.Split(strings.TrimRight(sceneURL, "/"), "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	return sceneURL
}
