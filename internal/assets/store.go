package assets

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.etcd.io/bbolt"
)

const (
	sceneFileExt = ".splinecode"
	indexFile    = "index.db"
	sceneBucket  = "scenes"
)

// sceneIDPattern restricts scene identifiers to the charset Spline uses in
// export URLs. It doubles as a path traversal guard for cache filenames.
var sceneIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// VerdictState records the validation status of a cache entry.
type VerdictState string

const (
	VerdictValid       VerdictState = "valid"
	VerdictInvalid     VerdictState = "invalid"
	VerdictUnvalidated VerdictState = "unvalidated"
)

// CacheEntry describes one cached scene file. Exactly one entry exists per
// scene identifier; the file at Path exists and matches Size whenever the
// verdict is not invalid.
type CacheEntry struct {
	SceneID     string       `json:"scene_id"`
	SourceURL   string       `json:"source_url,omitempty"`
	Path        string       `json:"path"`
	Size        int64        `json:"size"`
	Checksum    string       `json:"checksum"`
	FetchedAt   time.Time    `json:"fetched_at"`
	ValidatedAt time.Time    `json:"validated_at,omitzero"`
	Verdict     VerdictState `json:"verdict"`

	// AccessSeq orders entries for LRU eviction. It survives restarts so
	// eviction order is stable across process lifetimes.
	AccessSeq  uint64    `json:"access_seq"`
	AccessedAt time.Time `json:"accessed_at"`
}

// CacheStats summarises cache occupancy.
type CacheStats struct {
	EntryCount int   `json:"entry_count"`
	TotalBytes int64 `json:"total_bytes"`
	MaxBytes   int64 `json:"max_bytes"`
}

// Store is the on-disk scene cache: one file per scene under the cache root
// plus a bbolt index so entry metadata survives restarts. All mutation
// happens under a single lock, so the aggregate size counter never disagrees
// with the live entry set.
type Store struct {
	root     string
	maxBytes int64

	mu        sync.Mutex
	db        *bbolt.DB
	entries   map[string]*CacheEntry
	total     int64
	accessSeq uint64
}

// OpenStore opens (or creates) a scene cache rooted at dir, bounded by
// maxBytes. The durable index is reconciled against the files actually
// present: records whose file is gone are dropped, and orphan scene files
// with no record are re-indexed so the directory cannot grow unbounded.
func OpenStore(dir string, maxBytes int64) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("cache dir is required")
	}
	if maxBytes <= 0 {
		return nil, errors.New("cache size must be positive")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve cache dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(abs, indexFile), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}

	s := &Store{
		root:     abs,
		maxBytes: maxBytes,
		db:       db,
		entries:  make(map[string]*CacheEntry),
	}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the index database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// load restores the index and reconciles it against the cache directory.
func (s *Store) load() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(sceneBucket))
		if err != nil {
			return err
		}

		var stale [][]byte
		err = bucket.ForEach(func(k, v []byte) error {
			var entry CacheEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				log.Printf("assets: dropping unreadable index record key=%q err=%v", k, err)
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			info, err := os.Stat(entry.Path)
			if err != nil {
				// Missing file means the entry was evicted out-of-band.
				stale = append(stale, append([]byte(nil), k...))
				return nil
			}
			entry.Size = info.Size()
			s.entries[entry.SceneID] = &entry
			s.total += entry.Size
			if entry.AccessSeq > s.accessSeq {
				s.accessSeq = entry.AccessSeq
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("load cache index: %w", err)
	}

	return s.reindexOrphans()
}

// reindexOrphans adopts scene files present on disk without an index record.
func (s *Store) reindexOrphans() error {
	paths, err := filepath.Glob(filepath.Join(s.root, "*"+sceneFileExt))
	if err != nil {
		return fmt.Errorf("scan cache dir: %w", err)
	}

	for _, path := range paths {
		id := strings.TrimSuffix(filepath.Base(path), sceneFileExt)
		if !sceneIDPattern.MatchString(id) {
			continue
		}
		if _, ok := s.entries[id]; ok {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("assets: skipping unreadable orphan file path=%q err=%v", path, err)
			continue
		}
		s.accessSeq++
		entry := &CacheEntry{
			SceneID:    id,
			Path:       path,
			Size:       int64(len(data)),
			Checksum:   checksum(data),
			FetchedAt:  time.Now().UTC(),
			Verdict:    VerdictUnvalidated,
			AccessSeq:  s.accessSeq,
			AccessedAt: time.Now().UTC(),
		}
		if err := s.persist(entry); err != nil {
			return err
		}
		s.entries[id] = entry
		s.total += entry.Size
		log.Printf("assets: re-indexed orphan scene file scene=%s size=%d", id, entry.Size)
	}
	return nil
}

// Put persists scene bytes under the cache root, replaces any previous entry
// for the identifier and evicts least-recently-used entries until the cache
// fits its budget. On write failure the previous entry is left untouched.
func (s *Store) Put(id string, data []byte, sourceURL string, verdict Verdict) (CacheEntry, error) {
	if !sceneIDPattern.MatchString(id) {
		return CacheEntry{}, &StorageError{Op: "put", Err: fmt.Errorf("invalid scene id %q", id)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, id+sceneFileExt)

	// Write to a temp file first so a partial write never replaces a good
	// cached copy.
	tmp, err := os.CreateTemp(s.root, ".scene-*")
	if err != nil {
		return CacheEntry{}, &StorageError{Op: "put", Err: err}
	}
	tmpName := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmpName)
		return CacheEntry{}, &StorageError{Op: "put", Err: werr}
	}

	now := time.Now().UTC()
	s.accessSeq++
	entry := &CacheEntry{
		SceneID:    id,
		SourceURL:  sourceURL,
		Path:       path,
		Size:       int64(len(data)),
		Checksum:   checksum(data),
		FetchedAt:  now,
		Verdict:    VerdictUnvalidated,
		AccessSeq:  s.accessSeq,
		AccessedAt: now,
	}
	if verdict.OK {
		entry.Verdict = VerdictValid
		entry.ValidatedAt = now
	}

	previous := s.entries[id]
	if err := s.persist(entry); err != nil {
		_ = os.Remove(tmpName)
		return CacheEntry{}, &StorageError{Op: "put", Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		if previous != nil {
			// Best effort: restore the record for the file still on disk.
			if perr := s.persist(previous); perr != nil {
				log.Printf("assets: restore index record failed scene=%s err=%v", id, perr)
			}
		} else if derr := s.deleteRecord(id); derr != nil {
			// The fresh record points at a file that never appeared.
			log.Printf("assets: delete stale index record failed scene=%s err=%v", id, derr)
		}
		return CacheEntry{}, &StorageError{Op: "put", Err: err}
	}

	if previous != nil {
		s.total -= previous.Size
	}
	s.entries[id] = entry
	s.total += entry.Size

	s.evictLocked(id)
	return *entry, nil
}

// Get returns the entry for a scene identifier and refreshes its LRU
// position on a hit.
func (s *Store) Get(id string) (CacheEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return CacheEntry{}, false
	}
	s.accessSeq++
	entry.AccessSeq = s.accessSeq
	entry.AccessedAt = time.Now().UTC()
	if err := s.persist(entry); err != nil {
		log.Printf("assets: persist access update failed scene=%s err=%v", id, err)
	}
	return *entry, true
}

// SetVerdict records a re-validation outcome for an existing entry.
func (s *Store) SetVerdict(id string, verdict Verdict) (CacheEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return CacheEntry{}, ErrNotFound
	}
	entry.ValidatedAt = time.Now().UTC()
	if verdict.OK {
		entry.Verdict = VerdictValid
	} else {
		entry.Verdict = VerdictInvalid
	}
	if err := s.persist(entry); err != nil {
		return CacheEntry{}, &StorageError{Op: "set verdict", Err: err}
	}
	return *entry, nil
}

// Remove deletes the entry and its file. It is idempotent: removing an
// absent identifier returns false and never errors.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(id)
}

func (s *Store) removeLocked(id string) bool {
	entry, ok := s.entries[id]
	if !ok {
		return false
	}
	if err := os.Remove(entry.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("assets: remove scene file failed scene=%s err=%v", id, err)
	}
	if err := s.deleteRecord(id); err != nil {
		log.Printf("assets: remove index record failed scene=%s err=%v", id, err)
	}
	delete(s.entries, id)
	s.total -= entry.Size
	return true
}

// List returns a snapshot of all entries ordered least-recently-used first,
// matching eviction order.
func (s *Store) List() []CacheEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CacheEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AccessSeq < out[j].AccessSeq
	})
	return out
}

// Clear removes every entry and file and resets the aggregate size.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id := range s.entries {
		if s.removeLocked(id) {
			removed++
		}
	}
	return removed
}

// Stats reports entry count, aggregate size and the configured budget.
func (s *Store) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CacheStats{
		EntryCount: len(s.entries),
		TotalBytes: s.total,
		MaxBytes:   s.maxBytes,
	}
}

// Root returns the cache root directory.
func (s *Store) Root() string { return s.root }

// evictLocked removes least-recently-used entries until the cache fits its
// budget. The entry named by keep is never evicted: a single scene larger
// than the whole budget is still admitted after clearing everything else,
// and that condition is reported as a warning rather than an error.
func (s *Store) evictLocked(keep string) {
	for s.total > s.maxBytes {
		victim := ""
		var oldest uint64
		for id, entry := range s.entries {
			if id == keep {
				continue
			}
			if victim == "" || entry.AccessSeq < oldest {
				victim = id
				oldest = entry.AccessSeq
			}
		}
		if victim == "" {
			log.Printf("assets: warning: scene %s alone exceeds cache budget size=%d max=%d", keep, s.total, s.maxBytes)
			return
		}
		size := s.entries[victim].Size
		s.removeLocked(victim)
		log.Printf("assets: evicted scene to free space scene=%s freed=%d total=%d", victim, size, s.total)
	}
}

// deleteRecord removes an entry record from the index bucket.
func (s *Store) deleteRecord(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sceneBucket)).Delete([]byte(id))
	})
}

// persist writes an entry record to the index bucket.
func (s *Store) persist(entry *CacheEntry) error {
	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(sceneBucket)).Put([]byte(entry.SceneID), encoded)
	})
}

// checksum returns the short content hash recorded on cache entries.
func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}
