package entitystore

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	metaFile   = "meta.json"
	recordFile = "record.json"
)

type meta struct {
	Kind      Kind      `json:"kind"`
	Identity  string    `json:"identity"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the entity override store. Reads are served from an in-memory
// cache filled lazily from disk; writes merge into the cached record and
// persist the whole record atomically (merge-then-replace, so interleaved
// partial writes cannot drop fields).
//
// Write operations return a success flag instead of an error: a failed write
// degrades to a user notice upstream, it never aborts a render pass. On
// failure the in-memory state is left untouched.
type Store struct {
	mu        sync.RWMutex
	baseDir   string
	cache     map[string]Record
	available bool
}

// New creates a Store rooted at baseDir. When the directory cannot be
// created the store still serves reads (empty records) but every write
// reports failure.
func New(baseDir string) *Store {
	s := &Store{
		baseDir: baseDir,
		cache:   make(map[string]Record),
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		slog.Error("entity store unavailable", "dir", baseDir, "error", err)
		return s
	}
	s.available = true
	return s
}

// Available reports whether the backing directory is writable.
func (s *Store) Available() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.available
}

// GetData returns the entity's record, or an empty record when none exists.
// Legacy bare-string records normalize transparently (see Record).
func (s *Store) GetData(e Entity) Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(e).clone()
}

// load returns the cached record, reading it from disk on first access.
// Caller holds s.mu.
func (s *Store) load(e Entity) Record {
	if rec, ok := s.cache[e.key()]; ok {
		return rec
	}

	var rec Record
	data, err := os.ReadFile(filepath.Join(s.baseDir, e.dirName(), recordFile))
	if err == nil {
		if uerr := json.Unmarshal(data, &rec); uerr != nil {
			slog.Warn("corrupt entity record, treating as empty",
				"kind", e.Kind, "identity", e.Identity, "error", uerr)
			rec = Record{}
		}
	}
	s.cache[e.key()] = rec
	return rec
}

// SaveData shallow-merges partial into the entity's record and persists it.
func (s *Store) SaveData(e Entity, partial Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := s.load(e).clone()
	merged.merge(partial)

	if !s.persist(e, merged) {
		return false
	}
	s.cache[e.key()] = merged
	return true
}

// ClearBanner sets the banner image to the explicit cleared state while
// keeping the source image, so the host can re-crop later.
func (s *Store) ClearBanner(e Entity) bool {
	return s.SaveData(e, Record{BannerImage: String("")})
}

// DeleteCustomImage clears both the banner and the retained source image.
func (s *Store) DeleteCustomImage(e Entity) bool {
	return s.SaveData(e, Record{BannerImage: String(""), SourceImage: String("")})
}

// persist writes meta + record atomically. Caller holds s.mu.
func (s *Store) persist(e Entity, rec Record) bool {
	if !s.available {
		slog.Warn("entity store write skipped, store unavailable",
			"kind", e.Kind, "identity", e.Identity)
		return false
	}

	dir := filepath.Join(s.baseDir, e.dirName())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Error("create entity dir", "dir", dir, "error", err)
		return false
	}

	m := meta{Kind: e.Kind, Identity: e.Identity, UpdatedAt: time.Now()}
	if !writeJSONAtomic(filepath.Join(dir, metaFile), m) {
		return false
	}
	return writeJSONAtomic(filepath.Join(dir, recordFile), rec)
}

func writeJSONAtomic(path string, v any) bool {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		slog.Error("marshal entity file", "path", path, "error", err)
		return false
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		slog.Error("write entity file", "path", path, "error", err)
		return false
	}
	if err := os.Rename(tmp, path); err != nil {
		slog.Error("rename entity file", "path", path, "error", err)
		return false
	}
	return true
}

// Info pairs an entity with its current record, for listings.
type Info struct {
	Entity Entity `json:"entity"`
	Record Record `json:"record"`
}

// List enumerates every persisted entity, sorted by kind then identity.
func (s *Store) List() []Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil
	}

	var out []Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), metaFile))
		if err != nil {
			continue
		}
		var m meta
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		e := Entity{Kind: m.Kind, Identity: m.Identity}
		out = append(out, Info{Entity: e, Record: s.load(e).clone()})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity.Kind != out[j].Entity.Kind {
			return out[i].Entity.Kind < out[j].Entity.Kind
		}
		return out[i].Entity.Identity < out[j].Entity.Identity
	})
	return out
}
