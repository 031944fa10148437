package recordstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const fileExt = ".json"

// FileStore keeps one JSON file per id in a directory.
type FileStore struct {
	dir string
}

// Open returns a FileStore rooted at dir, creating the directory if needed.
func Open(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("recordstore: empty directory")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("recordstore: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+fileExt)
}

// IDs lists the ids of all record files in directory order.
func (s *FileStore) IDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("recordstore: list %s: %w", s.dir, err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExt))
	}
	return ids, nil
}

// Read returns the raw value stored under ns for id.
func (s *FileStore) Read(ns Namespace, id string) (json.RawMessage, bool, error) {
	if err := checkNamespace(ns); err != nil {
		return nil, false, err
	}
	rec, ok, err := s.ReadRecord(id)
	if err != nil || !ok {
		return nil, false, err
	}
	raw, ok := rec[string(ns)]
	if !ok || isNull(raw) {
		return nil, false, nil
	}
	return raw, true, nil
}

// ReadRecord returns every slot of the record for id, including "_id".
func (s *FileStore) ReadRecord(id string) (map[string]json.RawMessage, bool, error) {
	if err := checkID(id); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("recordstore: read %s: %w", id, err)
	}

	var rec map[string]json.RawMessage
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, false, fmt.Errorf("recordstore: parse %s: %w", id, err)
	}
	return rec, true, nil
}

// Write stores v under ns for id. An existing record is loaded and only the
// ns slot is replaced; otherwise a new record {"_id": id, ns: v} is created.
func (s *FileStore) Write(ns Namespace, id string, v any) error {
	if err := checkNamespace(ns); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}
	raw, err := encodeValue(v)
	if err != nil {
		return fmt.Errorf("write %s/%s: %w", ns, id, err)
	}

	rec, ok, err := s.ReadRecord(id)
	if err != nil {
		return err
	}
	if !ok {
		rec = map[string]json.RawMessage{}
		idRaw, _ := json.Marshal(id)
		rec[idKey] = idRaw
	}
	rec[string(ns)] = raw

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("recordstore: encode %s: %w", id, err)
	}
	if err := os.WriteFile(s.path(id), data, 0644); err != nil {
		return fmt.Errorf("recordstore: write %s: %w", id, err)
	}
	return nil
}
