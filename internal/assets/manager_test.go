package assets

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   int32
	data    []byte
	err     error
	release chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, &TransportError{URL: url, Err: ctx.Err()}
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func (f *fakeFetcher) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

func validSceneBytes(t *testing.T) []byte {
	t.Helper()
	return sceneJSON(t, map[string]any{
		"objects": []any{map[string]any{"id": "obj"}},
		"version": "1.0",
	})
}

func newTestManager(t *testing.T, fetcher Fetcher) *Manager {
	t.Helper()
	store, err := OpenStore(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return NewManager(fetcher, store)
}

func TestExtractSceneID(t *testing.T) {
	cases := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{name: "export url", url: "https://prod.spline.design/abc123XYZ_-/scene.splinecode", want: "abc123XYZ_-"},
		{name: "custom host", url: "https://cdn.example.com/xYz987AbC12/scene.splinecode", want: "xYz987AbC12"},
		{name: "id-like segment", url: "https://spline.design/file/longsceneid42", want: "longsceneid42"},
		{name: "no id", url: "https://spline.design/a/b", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractSceneID(tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if got != tc.want {
				t.Fatalf("id = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildExportURL(t *testing.T) {
	got := BuildExportURL("myscene12345")
	want := "https://prod.spline.design/myscene12345/scene.splinecode"
	if got != want {
		t.Fatalf("url = %q, want %q", got, want)
	}
}

func TestDownloadSceneCachesAndServes(t *testing.T) {
	fetcher := &fakeFetcher{data: validSceneBytes(t)}
	manager := newTestManager(t, fetcher)

	entry, err := manager.DownloadScene(context.Background(), "firstscene42", false)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if entry.SceneID != "firstscene42" {
		t.Fatalf("scene id = %q, want firstscene42", entry.SceneID)
	}
	if entry.Verdict != VerdictValid {
		t.Fatalf("verdict = %q, want valid", entry.Verdict)
	}

	// Second call must be served from cache without network access.
	if _, err := manager.DownloadScene(context.Background(), "firstscene42", false); err != nil {
		t.Fatalf("cached download: %v", err)
	}
	if fetcher.callCount() != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.callCount())
	}
}

func TestDownloadSceneForceRefetches(t *testing.T) {
	fetcher := &fakeFetcher{data: validSceneBytes(t)}
	manager := newTestManager(t, fetcher)

	if _, err := manager.DownloadScene(context.Background(), "forcedscene42", false); err != nil {
		t.Fatalf("download: %v", err)
	}
	if _, err := manager.DownloadScene(context.Background(), "forcedscene42", true); err != nil {
		t.Fatalf("forced download: %v", err)
	}
	if fetcher.callCount() != 2 {
		t.Fatalf("fetch calls = %d, want 2", fetcher.callCount())
	}
}

func TestDownloadSceneValidationFailureLeavesCacheEmpty(t *testing.T) {
	fetcher := &fakeFetcher{data: []byte(strings.Repeat("not a scene ", 20))}
	manager := newTestManager(t, fetcher)

	_, err := manager.DownloadScene(context.Background(), "badscene1234", false)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if verr.SceneID != "badscene1234" {
		t.Fatalf("error scene id = %q, want badscene1234", verr.SceneID)
	}
	if entries := manager.ListCached(); len(entries) != 0 {
		t.Fatalf("cache entries = %d, want 0", len(entries))
	}
}

func TestDownloadSceneTransportError(t *testing.T) {
	fetcher := &fakeFetcher{err: &TransportError{URL: "u", Err: errors.New("connection refused")}}
	manager := newTestManager(t, fetcher)

	_, err := manager.DownloadScene(context.Background(), "unreachable1", false)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("err = %v, want *TransportError", err)
	}
	if entries := manager.ListCached(); len(entries) != 0 {
		t.Fatalf("cache entries = %d, want 0", len(entries))
	}
}

func TestConcurrentDownloadsSingleFlight(t *testing.T) {
	fetcher := &fakeFetcher{
		data:    validSceneBytes(t),
		release: make(chan struct{}),
	}
	manager := newTestManager(t, fetcher)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]error, callers)
	entries := make([]CacheEntry, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entries[i], results[i] = manager.DownloadScene(context.Background(), "sharedscene1", false)
		}(i)
	}

	// Give all callers time to join the in-flight download, then let it
	// finish.
	time.Sleep(50 * time.Millisecond)
	close(fetcher.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		if results[i] != nil {
			t.Fatalf("caller %d error: %v", i, results[i])
		}
		if entries[i].Checksum != entries[0].Checksum {
			t.Fatalf("caller %d saw different entry", i)
		}
	}
	if fetcher.callCount() != 1 {
		t.Fatalf("fetch calls = %d, want 1", fetcher.callCount())
	}
}

func TestAbandonedCallerDoesNotCancelDownload(t *testing.T) {
	fetcher := &fakeFetcher{
		data:    validSceneBytes(t),
		release: make(chan struct{}),
	}
	manager := newTestManager(t, fetcher)

	ctx, cancel := context.WithCancel(context.Background())
	abandoned := make(chan error, 1)
	go func() {
		_, err := manager.DownloadScene(ctx, "patientscene1", false)
		abandoned <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	if err := <-abandoned; !errors.Is(err, context.Canceled) {
		t.Fatalf("abandoned caller err = %v, want context.Canceled", err)
	}

	// The download keeps running and still populates the cache.
	close(fetcher.release)
	deadline := time.After(2 * time.Second)
	for {
		if entry, ok := manager.store.Get("patientscene1"); ok && entry.Verdict == VerdictValid {
			break
		}
		select {
		case <-deadline:
			t.Fatal("download did not populate cache after caller abandoned")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestValidateCached(t *testing.T) {
	fetcher := &fakeFetcher{data: validSceneBytes(t)}
	manager := newTestManager(t, fetcher)

	if _, err := manager.DownloadScene(context.Background(), "checkscene99", false); err != nil {
		t.Fatalf("download: %v", err)
	}

	verdict, err := manager.ValidateCached("checkscene99")
	if err != nil {
		t.Fatalf("validate cached: %v", err)
	}
	if !verdict.OK {
		t.Fatalf("verdict not ok: %q", verdict.Reason)
	}

	if _, err := manager.ValidateCached("missingscene"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestInvalidateAndEvictAll(t *testing.T) {
	fetcher := &fakeFetcher{data: validSceneBytes(t)}
	manager := newTestManager(t, fetcher)

	for _, id := range []string{"evictscene01", "evictscene02"} {
		if _, err := manager.DownloadScene(context.Background(), id, false); err != nil {
			t.Fatalf("download %s: %v", id, err)
		}
	}

	if !manager.Invalidate("evictscene01") {
		t.Fatal("expected invalidate to remove entry")
	}
	if manager.Invalidate("evictscene01") {
		t.Fatal("expected second invalidate to report false")
	}
	if removed := manager.EvictAll(); removed != 1 {
		t.Fatalf("evicted = %d, want 1", removed)
	}
	if stats := manager.Stats(); stats.EntryCount != 0 {
		t.Fatalf("entry count = %d, want 0", stats.EntryCount)
	}
}
