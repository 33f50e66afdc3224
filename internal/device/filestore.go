package device

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	storeDirPermissions  = 0750
	storeFilePermissions = 0600
)

// fileDocument is the on-disk layout: one JSON document holding every
// record keyed by ID.
type fileDocument struct {
	Devices map[string]*Record `json:"devices"`
}

// FileStore implements Store with a single JSON document on disk.
// Every operation reads the whole document, applies the change, and
// writes the whole document back. Writes go through a temporary file
// and an atomic rename, so a crash mid-write never leaves a torn
// document behind.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store at the given path.
// The parent directory is created if missing; the file itself is
// created on the first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: store path is empty", ErrStore)
	}
	if err := os.MkdirAll(filepath.Dir(path), storeDirPermissions); err != nil {
		return nil, fmt.Errorf("%w: creating store directory: %v", ErrStore, err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the store's file path.
func (s *FileStore) Path() string {
	return s.path
}

// Get retrieves a record by its unique identifier.
func (s *FileStore) Get(_ context.Context, id string) (*Record, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	rec, ok := doc.Devices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

// List retrieves all records.
func (s *FileStore) List(_ context.Context) ([]Record, error) {
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(doc.Devices))
	for _, rec := range doc.Devices {
		records = append(records, *rec)
	}
	return records, nil
}

// Create inserts a new record.
func (s *FileStore) Create(_ context.Context, rec *Record) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := doc.Devices[rec.ID]; exists {
		return ErrExists
	}
	doc.Devices[rec.ID] = rec
	return s.save(doc)
}

// Update replaces an existing record.
func (s *FileStore) Update(_ context.Context, rec *Record) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := doc.Devices[rec.ID]; !exists {
		return ErrNotFound
	}
	doc.Devices[rec.ID] = rec
	return s.save(doc)
}

// Delete removes a record by ID.
func (s *FileStore) Delete(_ context.Context, id string) error {
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, exists := doc.Devices[id]; !exists {
		return ErrNotFound
	}
	delete(doc.Devices, id)
	return s.save(doc)
}

// load reads and parses the whole document. A missing file is treated
// as an empty store.
func (s *FileStore) load() (*fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileDocument{Devices: make(map[string]*Record)}, nil
		}
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStore, s.path, err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrStore, s.path, err)
	}
	if doc.Devices == nil {
		doc.Devices = make(map[string]*Record)
	}
	return &doc, nil
}

// save writes the whole document to a temporary file in the same
// directory, then renames it over the store path.
func (s *FileStore) save(doc *fileDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding store document: %v", ErrStore, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".devices-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temporary file: %v", ErrStore, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: writing %s: %v", ErrStore, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: closing %s: %v", ErrStore, tmpPath, err)
	}
	if err := os.Chmod(tmpPath, storeFilePermissions); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: setting permissions: %v", ErrStore, err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: replacing %s: %v", ErrStore, s.path, err)
	}
	return nil
}
