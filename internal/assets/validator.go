package assets

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
)

const (
	// minSceneFileSize is the smallest byte count a real .splinecode export
	// can plausibly have.
	minSceneFileSize = 100

	// largeSceneWarnSize marks the point where a scene is suspiciously big
	// but still admissible.
	largeSceneWarnSize = 100 << 20
)

// gzipMagic is the two-byte signature at offset zero of a gzip stream.
var gzipMagic = []byte{0x1f, 0x8b}

// sceneContainerKeys are the top-level keys a Spline scene container usually
// carries. Their absence is a warning, not a failure: structural validation
// stops short of semantic parsing.
var sceneContainerKeys = []string{"objects", "materials", "animations", "states"}

// Verdict is the outcome of structural scene validation. Identical input
// bytes always produce an identical Verdict.
type Verdict struct {
	OK       bool     `json:"ok"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`

	FileSize         int      `json:"file_size"`
	Compressed       bool     `json:"compressed"`
	DecompressedSize int      `json:"decompressed_size,omitempty"`
	SceneKeys        []string `json:"scene_keys,omitempty"`
	ObjectCount      int      `json:"object_count,omitempty"`
	MaterialCount    int      `json:"material_count,omitempty"`
	Version          string   `json:"version,omitempty"`
}

// Validate inspects scene bytes for structural well-formedness: non-zero
// length, a plausible minimum size, either a gzip-wrapped or raw JSON
// container, and a JSON object at the top level. It never parses scene
// semantics and has no side effects.
func Validate(data []byte) Verdict {
	v := Verdict{FileSize: len(data)}

	if len(data) == 0 {
		v.Reason = "file is empty"
		return v
	}
	if len(data) < minSceneFileSize {
		v.Reason = fmt.Sprintf("file too small to be a valid .splinecode file (%d bytes)", len(data))
		return v
	}
	if len(data) > largeSceneWarnSize {
		v.Warnings = append(v.Warnings, "file is unusually large (>100MB)")
	}

	payload := data
	if bytes.HasPrefix(data, gzipMagic) {
		v.Compressed = true
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			v.Reason = fmt.Sprintf("failed to read gzip header: %v", err)
			return v
		}
		decompressed, err := io.ReadAll(zr)
		if cerr := zr.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			v.Reason = fmt.Sprintf("failed to decompress gzip content: %v", err)
			return v
		}
		v.DecompressedSize = len(decompressed)
		payload = decompressed
	}

	validateContainer(payload, &v)
	return v
}

// validateContainer checks the JSON scene container and records light
// metadata about it.
func validateContainer(payload []byte, v *Verdict) {
	var container map[string]json.RawMessage
	if err := json.Unmarshal(payload, &container); err != nil {
		// Distinguish "not an object" from "not JSON" for the diagnostic.
		var anything any
		if json.Unmarshal(payload, &anything) == nil {
			v.Reason = "scene data is not a JSON object"
			return
		}
		v.Reason = fmt.Sprintf("invalid JSON: %v", err)
		return
	}

	for _, key := range sceneContainerKeys {
		if _, ok := container[key]; ok {
			v.SceneKeys = append(v.SceneKeys, key)
		}
	}
	if len(v.SceneKeys) == 0 {
		v.Warnings = append(v.Warnings, "scene doesn't contain expected keys (objects, materials, etc.)")
	}

	if raw, ok := container["objects"]; ok {
		var objects []json.RawMessage
		if json.Unmarshal(raw, &objects) == nil {
			v.ObjectCount = len(objects)
		}
	}
	if raw, ok := container["materials"]; ok {
		var materials []json.RawMessage
		if json.Unmarshal(raw, &materials) == nil {
			v.MaterialCount = len(materials)
		}
	}
	if raw, ok := container["version"]; ok {
		var version string
		if json.Unmarshal(raw, &version) != nil {
			// Numeric versions exist in older exports.
			var n json.Number
			if json.Unmarshal(raw, &n) == nil {
				version = n.String()
			}
		}
		v.Version = version
	}

	v.OK = true
}
