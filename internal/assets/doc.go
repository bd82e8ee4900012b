// Package assets downloads, validates and caches Spline .splinecode scene
// files.
//
// The cache is a directory of scene files plus a bbolt index that survives
// restarts, bounded by a byte budget with least-recently-used eviction. The
// Manager enforces at most one download in flight per scene identifier, so
// concurrent requests for the same scene share a single fetch and its
// outcome.
package assets
