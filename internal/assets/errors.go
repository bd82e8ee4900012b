package assets

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a requested scene has no cache entry.
var ErrNotFound = errors.New("scene not found in cache")

// TransportError reports a network or timeout failure while talking to the
// content host. Retry policy belongs to the caller, not this package.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ValidationError reports a structurally malformed scene file. The bytes are
// discarded and the cache is left unchanged.
type ValidationError struct {
	SceneID string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scene %s failed validation: %s", e.SceneID, e.Reason)
}

// StorageError reports a disk I/O failure. The operation that produced it is
// aborted and prior cache state is left intact.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
