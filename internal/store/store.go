package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one entry in a collection: named fields mapped to JSON values.
type Record map[string]interface{}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// ID returns the record id, or "" if unset.
func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Store persists named collections as one JSON array file each.
// Every mutation on a collection runs under that collection's mutex, so
// concurrent read-modify-write sequences on the same file serialize instead
// of silently clobbering each other.
type Store struct {
	dir   string
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Open prepares a store rooted at dir, creating it if needed.
// An unusable data directory is an unrecoverable startup failure.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %q: %w", dir, err)
	}
	return &Store{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the data directory the store writes into.
func (s *Store) Dir() string { return s.dir }

func (s *Store) lock(collection string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[collection]
	if !ok {
		l = &sync.Mutex{}
		s.locks[collection] = l
	}
	return l
}

// CreateOption customizes validation applied during Create.
type CreateOption func(*createOptions)

type createOptions struct {
	required []string
	unique   []string
}

// Required rejects creation when any named field is absent or zero-valued
// (nil, empty string, 0, false).
func Required(fields ...string) CreateOption {
	return func(o *createOptions) { o.required = append(o.required, fields...) }
}

func isZeroValue(v interface{}) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case int:
		return v == 0
	default:
		return false
	}
}

// Unique rejects creation when another record holds the same value for the
// named field. Comparison is case-sensitive.
func Unique(fields ...string) CreateOption {
	return func(o *createOptions) { o.unique = append(o.unique, fields...) }
}

// List returns the collection contents in stored (insertion) order.
func (s *Store) List(collection string) ([]Record, error) {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()
	return s.read(collection)
}

// Get scans the collection for a record by id.
func (s *Store) Get(collection, id string) (Record, error) {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := s.read(collection)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID() == id {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// Create validates fields, assigns id and createdAt, appends the record and
// persists the full collection before returning the stored record.
func (s *Store) Create(collection string, fields Record, opts ...CreateOption) (Record, error) {
	var o createOptions
	for _, opt := range opts {
		opt(&o)
	}

	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := s.read(collection)
	if err != nil {
		return nil, err
	}

	for _, field := range o.required {
		v, ok := fields[field]
		if !ok || isZeroValue(v) {
			return nil, fmt.Errorf("%w: missing required field %q", ErrValidation, field)
		}
	}
	for _, field := range o.unique {
		want := fields[field]
		if want == nil {
			continue
		}
		for _, rec := range records {
			if rec[field] == want {
				return nil, fmt.Errorf("%w: %s %v already exists", ErrConflict, field, want)
			}
		}
	}

	rec := fields.Clone()
	rec["id"] = uuid.New().String()
	rec["createdAt"] = NowISO()

	records = append(records, rec)
	if err := s.write(collection, records); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update shallow-merges patch onto the record with the given id: patch fields
// overwrite, unspecified fields are retained. The id and createdAt fields are
// immutable and ignored if present in the patch; updatedAt is refreshed.
func (s *Store) Update(collection, id string, patch Record) (Record, error) {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := s.read(collection)
	if err != nil {
		return nil, err
	}
	for i, rec := range records {
		if rec.ID() != id {
			continue
		}
		merged := rec.Clone()
		for k, v := range patch {
			if k == "id" || k == "createdAt" {
				continue
			}
			merged[k] = v
		}
		merged["updatedAt"] = nextStamp(rec)
		records[i] = merged
		if err := s.write(collection, records); err != nil {
			return nil, err
		}
		return merged, nil
	}
	return nil, ErrNotFound
}

// Delete removes the record with the given id and persists the remainder.
// Hard delete: no tombstone is kept.
func (s *Store) Delete(collection, id string) error {
	l := s.lock(collection)
	l.Lock()
	defer l.Unlock()

	records, err := s.read(collection)
	if err != nil {
		return err
	}
	for i, rec := range records {
		if rec.ID() == id {
			records = append(records[:i], records[i+1:]...)
			return s.write(collection, records)
		}
	}
	return ErrNotFound
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// read loads a collection file. A missing file is an empty collection and is
// lazily created with []. Malformed JSON is fatal for the request: the store
// cannot self-heal a corrupt file.
func (s *Store) read(collection string) ([]Record, error) {
	path := s.path(collection)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if err := s.write(collection, []Record{}); err != nil {
			return nil, err
		}
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read collection %q: %v", ErrStorage, collection, err)
	}

	var records []Record
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("%w: collection %q is corrupt: %v", ErrStorage, collection, err)
	}
	return records, nil
}

// write persists the full collection via temp file + rename so a crash mid
// write cannot leave a truncated file behind.
func (s *Store) write(collection string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	content, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode collection %q: %v", ErrStorage, collection, err)
	}

	tmp, err := os.CreateTemp(s.dir, collection+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: write collection %q: %v", ErrStorage, collection, err)
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write collection %q: %v", ErrStorage, collection, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write collection %q: %v", ErrStorage, collection, err)
	}
	if err := os.Rename(tmp.Name(), s.path(collection)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write collection %q: %v", ErrStorage, collection, err)
	}
	return nil
}

const isoFormat = "2006-01-02T15:04:05.000Z"

// NowISO returns the current UTC time with millisecond precision. The fixed
// width keeps timestamps lexically comparable.
func NowISO() string {
	return time.Now().UTC().Format(isoFormat)
}

// nextStamp returns an updatedAt strictly greater than the record's current
// updatedAt and createdAt. Back-to-back updates within the same millisecond
// would otherwise stamp equal values.
func nextStamp(rec Record) string {
	floor, _ := rec["updatedAt"].(string)
	if created, ok := rec["createdAt"].(string); ok && created > floor {
		floor = created
	}
	stamp := NowISO()
	if floor == "" || stamp > floor {
		return stamp
	}
	t, err := time.Parse(isoFormat, floor)
	if err != nil {
		return stamp
	}
	return t.Add(time.Millisecond).UTC().Format(isoFormat)
}
