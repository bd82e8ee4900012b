package spline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient starts a stub API server and returns a client pointed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second)
}

func TestClientSendsBearerAuth(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"scenes": []any{}})
	})

	if _, err := c.ListScenes(context.Background()); err != nil {
		t.Fatalf("ListScenes() = %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("Authorization = %q, want %q", gotAuth, "Bearer test-key")
	}
}

func TestListScenes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/scenes" {
			t.Errorf("request = %s %s, want GET /scenes", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"scenes": []map[string]string{
				{"id": "abc123def456", "name": "Landing"},
				{"id": "xyz789uvw012", "name": "Product"},
			},
		})
	})

	scenes, err := c.ListScenes(context.Background())
	if err != nil {
		t.Fatalf("ListScenes() = %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("len(scenes) = %d, want 2", len(scenes))
	}
	if scenes[0].Name != "Landing" {
		t.Fatalf("scenes[0].Name = %q, want %q", scenes[0].Name, "Landing")
	}
}

func TestGetScene(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scenes/abc123def456" {
			t.Errorf("path = %s, want /scenes/abc123def456", r.URL.Path)
		}
		json.NewEncoder(w).Encode(Scene{
			ID:   "abc123def456",
			Name: "Landing",
			Objects: []Object{
				{ID: "o1", Name: "Cube", Type: "mesh", Visible: true},
			},
		})
	})

	scene, err := c.GetScene(context.Background(), "abc123def456")
	if err != nil {
		t.Fatalf("GetScene() = %v", err)
	}
	if scene.Name != "Landing" || len(scene.Objects) != 1 {
		t.Fatalf("scene = %+v", scene)
	}
}

func TestCreateObjectPayload(t *testing.T) {
	var got ObjectSpec
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(Object{ID: "o1", Name: got.Name, Type: got.Type})
	})

	spec := ObjectSpec{Name: "Cube", Type: "mesh", Position: []float64{1, 2, 3}}
	obj, err := c.CreateObject(context.Background(), "abc123def456", spec)
	if err != nil {
		t.Fatalf("CreateObject() = %v", err)
	}
	if obj.ID != "o1" {
		t.Fatalf("obj.ID = %q, want %q", obj.ID, "o1")
	}
	if got.Name != "Cube" || got.Type != "mesh" || len(got.Position) != 3 {
		t.Fatalf("server saw payload %+v", got)
	}
}

func TestUpdateObjectUsesPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		json.NewEncoder(w).Encode(Object{ID: "o1", Name: "Sphere", Type: "mesh"})
	})

	obj, err := c.UpdateObject(context.Background(), "s1", "o1", map[string]any{"name": "Sphere"})
	if err != nil {
		t.Fatalf("UpdateObject() = %v", err)
	}
	if obj.Name != "Sphere" {
		t.Fatalf("obj.Name = %q, want %q", obj.Name, "Sphere")
	}
}

func TestApplyMaterial(t *testing.T) {
	var payload map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scenes/s1/objects/o1/material" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(Object{ID: "o1"})
	})

	if _, err := c.ApplyMaterial(context.Background(), "s1", "o1", "m1"); err != nil {
		t.Fatalf("ApplyMaterial() = %v", err)
	}
	if payload["material_id"] != "m1" {
		t.Fatalf("payload = %v, want material_id=m1", payload)
	}
}

func TestSetVariable(t *testing.T) {
	var payload map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&payload)
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	result, err := c.SetVariable(context.Background(), "s1", "speed", 2.5)
	if err != nil {
		t.Fatalf("SetVariable() = %v", err)
	}
	if payload["name"] != "speed" || payload["value"] != 2.5 {
		t.Fatalf("payload = %v", payload)
	}
	if result["ok"] != true {
		t.Fatalf("result = %v", result)
	}
}

func TestNonSuccessStatusReturnsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"scene not found"}`, http.StatusNotFound)
	})

	_, err := c.GetScene(context.Background(), "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("GetScene() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}

func TestDeleteSceneNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.DeleteScene(context.Background(), "s1"); err != nil {
		t.Fatalf("DeleteScene() = %v", err)
	}
}
