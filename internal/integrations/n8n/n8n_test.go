package n8n

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAvailableProbeIsCached(t *testing.T) {
	var probes int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			probes++
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	for i := 0; i < 3; i++ {
		if !c.Available(context.Background()) {
			t.Fatalf("Available() = false on call %d", i+1)
		}
	}
	if probes != 1 {
		t.Fatalf("health probes = %d, want 1", probes)
	}
}

func TestUnavailableServerSoftFails(t *testing.T) {
	// Nothing listens on this port.
	c := NewClient("http://127.0.0.1:1", "key")

	if c.Available(context.Background()) {
		t.Fatal("Available() = true for unreachable server")
	}
	if result, ok := c.CreateWorkflow(context.Background(), Workflow{Name: "test"}); ok || result != nil {
		t.Fatalf("CreateWorkflow() = (%v, %v), want (nil, false)", result, ok)
	}
	if result, ok := c.TriggerWebhook(context.Background(), "spline-update", nil); ok || result != nil {
		t.Fatalf("TriggerWebhook() = (%v, %v), want (nil, false)", result, ok)
	}
}

func TestCreateWorkflowSendsAPIKey(t *testing.T) {
	var gotKey string
	var gotBody Workflow
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
		case "/api/v1/workflows":
			gotKey = r.Header.Get("X-N8N-API-KEY")
			json.NewDecoder(r.Body).Decode(&gotBody)
			json.NewEncoder(w).Encode(map[string]any{"id": "wf1"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "secret")
	result, ok := c.CreateWorkflow(context.Background(), Workflow{Name: "Spline Update"})
	if !ok {
		t.Fatal("CreateWorkflow() = false, want true")
	}
	if result["id"] != "wf1" {
		t.Fatalf("result = %v", result)
	}
	if gotKey != "secret" {
		t.Fatalf("X-N8N-API-KEY = %q, want %q", gotKey, "secret")
	}
	if gotBody.Name != "Spline Update" {
		t.Fatalf("workflow name = %q", gotBody.Name)
	}
}

func TestTriggerWebhook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
		case "/webhook/spline-update":
			json.NewEncoder(w).Encode(map[string]any{"received": true})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	result, ok := c.TriggerWebhook(context.Background(), "spline-update", map[string]any{"speed": 2})
	if !ok || result["received"] != true {
		t.Fatalf("TriggerWebhook() = (%v, %v)", result, ok)
	}
}

func TestCreateWorkflowErrorStatusSoftFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "")
	if _, ok := c.CreateWorkflow(context.Background(), Workflow{Name: "x"}); ok {
		t.Fatal("CreateWorkflow() = true on 500 response")
	}
}

func TestGenerateSplineWorkflow(t *testing.T) {
	sceneURL := "https://prod.spline.design/abc123def456/scene.splinecode"
	wf := GenerateSplineWorkflow(sceneURL, map[string]string{
		"speed": "velocity",
		"color": "theme.color",
	})

	if wf.Name != "Spline Update - abc123def456" {
		t.Fatalf("Name = %q", wf.Name)
	}
	if len(wf.Nodes) != 3 {
		t.Fatalf("len(Nodes) = %d, want 3", len(wf.Nodes))
	}
	if wf.Nodes[0]["type"] != "n8n-nodes-base.webhook" {
		t.Fatalf("first node = %v", wf.Nodes[0]["type"])
	}

	encoded, err := json.Marshal(wf)
	if err != nil {
		t.Fatalf("marshal workflow: %v", err)
	}
	for _, want := range []string{
		`"scene_url"`,
		sceneURL,
		`={{ $json.velocity }}`,
		`={{ $json.theme.color }}`,
		`"Notify Client"`,
	} {
		if !strings.Contains(string(encoded), want) {
			t.Errorf("workflow JSON missing %q", want)
		}
	}

	// Mapped variables come out in name order.
	first := GenerateSplineWorkflow(sceneURL, map[string]string{"b": "y", "a": "x"})
	second := GenerateSplineWorkflow(sceneURL, map[string]string{"a": "x", "b": "y"})
	fj, _ := json.Marshal(first)
	sj, _ := json.Marshal(second)
	if string(fj) != string(sj) {
		t.Fatal("workflow generation is not deterministic")
	}
}

func TestStatus(t *testing.T) {
	c := NewClient("http://127.0.0.1:1/", "key")
	st := c.Status()
	if st.BaseURL != "http://127.0.0.1:1" {
		t.Fatalf("BaseURL = %q", st.BaseURL)
	}
	if st.Available != nil {
		t.Fatalf("Available before probe = %v, want nil", st.Available)
	}
	if !st.HasAPIKey {
		t.Fatal("HasAPIKey = false, want true")
	}

	c.Available(context.Background())
	st = c.Status()
	if st.Available == nil || *st.Available {
		t.Fatalf("Available after failed probe = %v, want false", st.Available)
	}
}
