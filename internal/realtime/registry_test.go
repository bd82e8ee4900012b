package realtime

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRegistryAddTracksFirstSubscription(t *testing.T) {
	r := newRegistry()

	_, first := r.add("scene:abc", func(string, json.RawMessage) {})
	if !first {
		t.Fatal("first add = false, want true")
	}

	_, first = r.add("scene:abc", func(string, json.RawMessage) {})
	if first {
		t.Fatal("second add = true, want false")
	}
}

func TestRegistryListPreservesRegistrationOrder(t *testing.T) {
	r := newRegistry()
	for _, channel := range []string{"scene:c", "scene:a", "scene:b"} {
		r.add(channel, func(string, json.RawMessage) {})
	}
	// Duplicate subscription must not reorder.
	r.add("scene:c", func(string, json.RawMessage) {})

	got := r.list()
	want := []string{"scene:c", "scene:a", "scene:b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("list() = %v, want %v", got, want)
	}
}

func TestRegistryRemoveLastHandlerDropsChannel(t *testing.T) {
	r := newRegistry()
	h1, _ := r.add("scene:abc", func(string, json.RawMessage) {})
	h2, _ := r.add("scene:abc", func(string, json.RawMessage) {})

	found, emptied := r.remove(h1)
	if !found || emptied {
		t.Fatalf("remove(h1) = (%v, %v), want (true, false)", found, emptied)
	}

	found, emptied = r.remove(h2)
	if !found || !emptied {
		t.Fatalf("remove(h2) = (%v, %v), want (true, true)", found, emptied)
	}
	if got := r.list(); len(got) != 0 {
		t.Fatalf("list() after removal = %v, want empty", got)
	}

	found, _ = r.remove(h2)
	if found {
		t.Fatal("repeated remove = true, want false")
	}
}

func TestRegistryDispatchFansOutToAllHandlers(t *testing.T) {
	r := newRegistry()
	var got []string
	r.add("scene:abc", func(channel string, payload json.RawMessage) {
		got = append(got, "a:"+string(payload))
	})
	r.add("scene:abc", func(channel string, payload json.RawMessage) {
		got = append(got, "b:"+string(payload))
	})
	r.add("scene:other", func(channel string, payload json.RawMessage) {
		got = append(got, "other")
	})

	r.dispatch("scene:abc", json.RawMessage(`{"v":1}`))

	want := []string{`a:{"v":1}`, `b:{"v":1}`}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dispatched = %v, want %v", got, want)
	}
}

func TestRegistryDispatchIsolatesPanics(t *testing.T) {
	r := newRegistry()
	r.add("scene:abc", func(string, json.RawMessage) {
		panic("handler bug")
	})
	var called bool
	r.add("scene:abc", func(string, json.RawMessage) {
		called = true
	})

	r.dispatch("scene:abc", nil)

	if !called {
		t.Fatal("handler after a panicking one was not called")
	}
}

func TestRegistryDispatchUnknownChannelIsNoop(t *testing.T) {
	r := newRegistry()
	r.dispatch("scene:missing", json.RawMessage(`{}`))
}
