package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spline-mcp/spline-mcp/internal/assets"
)

// CachedScene is the tool-facing shape of a cache entry.
type CachedScene struct {
	SceneID     string `json:"scene_id" jsonschema:"scene identifier"`
	SourceURL   string `json:"source_url,omitempty" jsonschema:"URL the scene was fetched from"`
	Path        string `json:"path" jsonschema:"local file path of the cached .splinecode file"`
	LocalURL    string `json:"local_url" jsonschema:"local asset URL for serving the cached file"`
	Size        int64  `json:"size" jsonschema:"file size in bytes"`
	Checksum    string `json:"checksum" jsonschema:"content checksum"`
	Verdict     string `json:"verdict" jsonschema:"validation verdict (valid, invalid, unvalidated)"`
	FetchedAt   string `json:"fetched_at" jsonschema:"RFC3339 timestamp of the download"`
	ValidatedAt string `json:"validated_at,omitempty" jsonschema:"RFC3339 timestamp of the last validation"`
}

func cachedScene(entry assets.CacheEntry) CachedScene {
	scene := CachedScene{
		SceneID:   entry.SceneID,
		SourceURL: entry.SourceURL,
		Path:      entry.Path,
		LocalURL:  assets.LocalURL(entry.SceneID),
		Size:      entry.Size,
		Checksum:  entry.Checksum,
		Verdict:   string(entry.Verdict),
		FetchedAt: entry.FetchedAt.Format(time.RFC3339),
	}
	if !entry.ValidatedAt.IsZero() {
		scene.ValidatedAt = entry.ValidatedAt.Format(time.RFC3339)
	}
	return scene
}

// SceneDownloadInput represents the MCP tool input for downloading a scene.
type SceneDownloadInput struct {
	SceneRef string `json:"scene_ref" jsonschema:"scene identifier, scene URL or .splinecode export URL"`
	Force    bool   `json:"force,omitempty" jsonschema:"re-download even when a valid cached copy exists"`
}

// SceneDownloadResult represents the MCP tool output for downloading a scene.
type SceneDownloadResult struct {
	Scene  CachedScene `json:"scene" jsonschema:"the cached scene entry"`
	Cached bool        `json:"cached" jsonschema:"true when served from cache without a download"`
}

// SceneDownloadTool defines the MCP tool schema for downloading a scene.
func SceneDownloadTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "download_scene",
		Description: "Downloads a .splinecode scene into the local cache, validating it on the way in. Serves the cached copy when one exists.",
	}
}

// SceneDownloadHandler executes a scene download request.
func SceneDownloadHandler(manager *assets.Manager) mcp.ToolHandlerFor[SceneDownloadInput, SceneDownloadResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SceneDownloadInput) (*mcp.CallToolResult, SceneDownloadResult, error) {
		if input.SceneRef == "" {
			return nil, SceneDownloadResult{}, fmt.Errorf("scene_ref is required")
		}
		start := time.Now()
		entry, err := manager.DownloadScene(ctx, input.SceneRef, input.Force)
		if err != nil {
			var validationErr *assets.ValidationError
			if errors.As(err, &validationErr) {
				return nil, SceneDownloadResult{}, fmt.Errorf("scene failed validation: %s", validationErr.Reason)
			}
			return nil, SceneDownloadResult{}, fmt.Errorf("download scene failed: %w", err)
		}
		return nil, SceneDownloadResult{
			Scene:  cachedScene(entry),
			Cached: entry.FetchedAt.Before(start),
		}, nil
	}
}

// SceneValidateInput represents the MCP tool input for validating a scene.
type SceneValidateInput struct {
	SceneID string `json:"scene_id" jsonschema:"identifier of a cached scene"`
}

// SceneValidateResult represents the MCP tool output for validating a scene.
type SceneValidateResult struct {
	OK       bool     `json:"ok" jsonschema:"whether the scene passed structural validation"`
	Reason   string   `json:"reason,omitempty" jsonschema:"failure reason when not ok"`
	Warnings []string `json:"warnings,omitempty" jsonschema:"non-fatal findings"`

	FileSize      int      `json:"file_size" jsonschema:"size of the file in bytes"`
	Compressed    bool     `json:"compressed" jsonschema:"whether the file is gzip-compressed"`
	SceneKeys     []string `json:"scene_keys,omitempty" jsonschema:"top-level container keys found"`
	ObjectCount   int      `json:"object_count,omitempty" jsonschema:"number of objects declared"`
	MaterialCount int      `json:"material_count,omitempty" jsonschema:"number of materials declared"`
	Version       string   `json:"version,omitempty" jsonschema:"declared scene format version"`
}

// SceneValidateTool defines the MCP tool schema for validating a scene.
func SceneValidateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate_scene",
		Description: "Re-runs structural validation on a cached scene file and records the verdict.",
	}
}

// SceneValidateHandler executes a cached-scene validation request.
func SceneValidateHandler(manager *assets.Manager) mcp.ToolHandlerFor[SceneValidateInput, SceneValidateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input SceneValidateInput) (*mcp.CallToolResult, SceneValidateResult, error) {
		if input.SceneID == "" {
			return nil, SceneValidateResult{}, fmt.Errorf("scene_id is required")
		}
		verdict, err := manager.ValidateCached(input.SceneID)
		if err != nil {
			if errors.Is(err, assets.ErrNotFound) {
				return nil, SceneValidateResult{}, fmt.Errorf("scene %q is not in the cache", input.SceneID)
			}
			return nil, SceneValidateResult{}, fmt.Errorf("validate scene failed: %w", err)
		}
		return nil, SceneValidateResult{
			OK:            verdict.OK,
			Reason:        verdict.Reason,
			Warnings:      verdict.Warnings,
			FileSize:      verdict.FileSize,
			Compressed:    verdict.Compressed,
			SceneKeys:     verdict.SceneKeys,
			ObjectCount:   verdict.ObjectCount,
			MaterialCount: verdict.MaterialCount,
			Version:       verdict.Version,
		}, nil
	}
}

// CacheListInput represents the MCP tool input for listing cached scenes.
type CacheListInput struct{}

// CacheListResult represents the MCP tool output for listing cached scenes.
type CacheListResult struct {
	Scenes []CachedScene `json:"scenes" jsonschema:"cached scenes, least recently used first"`
	Count  int           `json:"count" jsonschema:"number of cached scenes"`
}

// CacheListTool defines the MCP tool schema for listing cached scenes.
func CacheListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_cached_scenes",
		Description: "Lists all scenes currently in the local cache, least recently used first.",
	}
}

// CacheListHandler executes a cache listing request.
func CacheListHandler(manager *assets.Manager) mcp.ToolHandlerFor[CacheListInput, CacheListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CacheListInput) (*mcp.CallToolResult, CacheListResult, error) {
		entries := manager.ListCached()
		result := CacheListResult{Count: len(entries)}
		for _, entry := range entries {
			result.Scenes = append(result.Scenes, cachedScene(entry))
		}
		return nil, result, nil
	}
}

// CacheClearInput represents the MCP tool input for clearing the cache.
type CacheClearInput struct {
	SceneID string `json:"scene_id,omitempty" jsonschema:"clear only this scene; clears everything when omitted"`
}

// CacheClearResult represents the MCP tool output for clearing the cache.
type CacheClearResult struct {
	Removed int `json:"removed" jsonschema:"number of scenes removed"`
}

// CacheClearTool defines the MCP tool schema for clearing the cache.
func CacheClearTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clear_scene_cache",
		Description: "Removes one scene, or every scene, from the local cache.",
	}
}

// CacheClearHandler executes a cache clear request.
func CacheClearHandler(manager *assets.Manager) mcp.ToolHandlerFor[CacheClearInput, CacheClearResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CacheClearInput) (*mcp.CallToolResult, CacheClearResult, error) {
		if input.SceneID != "" {
			if manager.Invalidate(input.SceneID) {
				return nil, CacheClearResult{Removed: 1}, nil
			}
			return nil, CacheClearResult{Removed: 0}, nil
		}
		return nil, CacheClearResult{Removed: manager.EvictAll()}, nil
	}
}

// CacheStatsInput represents the MCP tool input for cache statistics.
type CacheStatsInput struct{}

// CacheStatsResult represents the MCP tool output for cache statistics.
type CacheStatsResult struct {
	EntryCount int   `json:"entry_count" jsonschema:"number of cached scenes"`
	TotalBytes int64 `json:"total_bytes" jsonschema:"total bytes of cached scene files"`
	MaxBytes   int64 `json:"max_bytes" jsonschema:"configured cache size budget in bytes"`
}

// CacheStatsTool defines the MCP tool schema for cache statistics.
func CacheStatsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "get_cache_stats",
		Description: "Reports cache occupancy: entry count, total bytes and the configured budget.",
	}
}

// CacheStatsHandler executes a cache statistics request.
func CacheStatsHandler(manager *assets.Manager) mcp.ToolHandlerFor[CacheStatsInput, CacheStatsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CacheStatsInput) (*mcp.CallToolResult, CacheStatsResult, error) {
		stats := manager.Stats()
		return nil, CacheStatsResult{
			EntryCount: stats.EntryCount,
			TotalBytes: stats.TotalBytes,
			MaxBytes:   stats.MaxBytes,
		}, nil
	}
}
