package assets

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// exportURLPattern matches Spline export URLs and captures the scene
// identifier segment.
var exportURLPattern = regexp.MustCompile(`https?://(?:prod\.spline\.design|.+?)/([a-zA-Z0-9_-]+)/scene\.splinecode`)

// idSegmentPattern matches an identifier-like URL path segment, used as a
// fallback when a URL does not follow the export layout.
var idSegmentPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{10,}$`)

// ExtractSceneID pulls the scene identifier out of a Spline URL.
func ExtractSceneID(url string) (string, error) {
	if m := exportURLPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if idSegmentPattern.MatchString(parts[i]) {
			return parts[i], nil
		}
	}
	return "", fmt.Errorf("could not extract scene id from URL: %s", url)
}

// BuildExportURL returns the content-host export URL for a scene identifier.
func BuildExportURL(sceneID string) string {
	return fmt.Sprintf("https://prod.spline.design/%s/scene.splinecode", sceneID)
}

// LocalURL returns the self-hosting path for a cached scene.
func LocalURL(sceneID string) string {
	return fmt.Sprintf("/assets/spline/%s%s", sceneID, sceneFileExt)
}

// Manager coordinates the fetcher, validator and store. Its single-flight
// group guarantees at most one download in flight per scene identifier:
// concurrent callers for the same scene join the existing download and all
// receive the identical outcome.
type Manager struct {
	fetcher Fetcher
	store   *Store
	group   singleflight.Group
	tracer  trace.Tracer
}

// NewManager wires a fetcher and store into a cache manager.
func NewManager(fetcher Fetcher, store *Store) *Manager {
	return &Manager{
		fetcher: fetcher,
		store:   store,
		tracer:  otel.Tracer("spline-mcp/assets"),
	}
}

// DownloadScene resolves sceneRef (a scene identifier or any Spline URL) and
// returns a cache entry for it. Unless force is set, a cached valid entry is
// served without network access. A download validates the bytes before
// admission: structurally malformed scenes surface as *ValidationError and
// leave the cache untouched.
//
// Callers that abandon their context stop waiting, but an in-flight download
// continues and still populates the cache for later callers.
func (m *Manager) DownloadScene(ctx context.Context, sceneRef string, force bool) (CacheEntry, error) {
	url := sceneRef
	if !strings.HasPrefix(url, "http") {
		url = BuildExportURL(sceneRef)
	}
	sceneID, err := ExtractSceneID(url)
	if err != nil {
		return CacheEntry{}, err
	}

	ctx, span := m.tracer.Start(ctx, "assets.DownloadScene",
		trace.WithAttributes(
			attribute.String("scene.id", sceneID),
			attribute.Bool("scene.force", force),
		))
	defer span.End()

	if !force {
		if entry, ok := m.store.Get(sceneID); ok && entry.Verdict == VerdictValid {
			span.SetAttributes(attribute.Bool("scene.cache_hit", true))
			log.Printf("assets: serving cached scene scene=%s path=%q", sceneID, entry.Path)
			return entry, nil
		}
	}

	// DoChan rather than Do so an abandoning caller does not cancel the
	// shared download; the flight runs on a detached context.
	flightCtx := context.WithoutCancel(ctx)
	results := m.group.DoChan(sceneID, func() (any, error) {
		return m.download(flightCtx, sceneID, url)
	})

	select {
	case <-ctx.Done():
		return CacheEntry{}, ctx.Err()
	case result := <-results:
		if result.Err != nil {
			return CacheEntry{}, result.Err
		}
		return result.Val.(CacheEntry), nil
	}
}

// download performs one fetch+validate+store cycle. All waiters joined to
// the flight receive its outcome verbatim.
func (m *Manager) download(ctx context.Context, sceneID, url string) (any, error) {
	log.Printf("assets: downloading scene scene=%s url=%q", sceneID, url)

	data, err := m.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	verdict := Validate(data)
	if !verdict.OK {
		return nil, &ValidationError{SceneID: sceneID, Reason: verdict.Reason}
	}
	for _, warning := range verdict.Warnings {
		log.Printf("assets: scene validation warning scene=%s warning=%q", sceneID, warning)
	}

	entry, err := m.store.Put(sceneID, data, url, verdict)
	if err != nil {
		return nil, err
	}
	log.Printf("assets: scene downloaded and cached scene=%s size=%d checksum=%s", sceneID, entry.Size, entry.Checksum)
	return entry, nil
}

// ValidateCached re-runs structural validation against a cached scene file
// and records the fresh verdict on its entry.
func (m *Manager) ValidateCached(sceneID string) (Verdict, error) {
	entry, ok := m.store.Get(sceneID)
	if !ok {
		return Verdict{}, ErrNotFound
	}
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		return Verdict{}, &StorageError{Op: "read", Err: err}
	}
	verdict := Validate(data)
	if _, err := m.store.SetVerdict(sceneID, verdict); err != nil {
		return Verdict{}, err
	}
	return verdict, nil
}

// Invalidate drops a single scene from the cache.
func (m *Manager) Invalidate(sceneID string) bool {
	return m.store.Remove(sceneID)
}

// EvictAll clears the cache and reports how many entries were removed.
func (m *Manager) EvictAll() int {
	return m.store.Clear()
}

// ListCached returns a snapshot of all cache entries.
func (m *Manager) ListCached() []CacheEntry {
	return m.store.List()
}

// Stats reports cache occupancy.
func (m *Manager) Stats() CacheStats {
	return m.store.Stats()
}
