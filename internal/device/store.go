package device

import (
	"context"
)

// Store defines the interface for device record persistence.
// This abstraction allows different backends (memory, JSON file,
// SQLite) to be swapped without touching callers.
//
// Implementations are not required to be safe for concurrent use:
// the Registry serialises every operation, so the consistency
// guarantees are identical no matter which backend is configured.
type Store interface {
	// Get retrieves a record by its unique identifier.
	// Returns ErrNotFound if the record does not exist.
	Get(ctx context.Context, id string) (*Record, error)

	// List retrieves all records. Order is unspecified; the Registry
	// applies a stable ordering.
	List(ctx context.Context) ([]Record, error)

	// Create inserts a new record.
	// Returns ErrExists if a record with the same ID already exists.
	Create(ctx context.Context, rec *Record) error

	// Update replaces an existing record.
	// Returns ErrNotFound if the record does not exist.
	Update(ctx context.Context, rec *Record) error

	// Delete removes a record by ID.
	// Returns ErrNotFound if the record does not exist.
	Delete(ctx context.Context, id string) error
}

// MemoryStore implements Store with an in-process map. Records are
// deep-copied on the way in and out so callers never alias stored
// values. Contents are lost when the process exits.
type MemoryStore struct {
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Get retrieves a record by its unique identifier.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec.DeepCopy(), nil
}

// List retrieves all records.
func (s *MemoryStore) List(_ context.Context) ([]Record, error) {
	records := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, *rec.DeepCopy())
	}
	return records, nil
}

// Create inserts a new record.
func (s *MemoryStore) Create(_ context.Context, rec *Record) error {
	if _, exists := s.records[rec.ID]; exists {
		return ErrExists
	}
	s.records[rec.ID] = rec.DeepCopy()
	return nil
}

// Update replaces an existing record.
func (s *MemoryStore) Update(_ context.Context, rec *Record) error {
	if _, exists := s.records[rec.ID]; !exists {
		return ErrNotFound
	}
	s.records[rec.ID] = rec.DeepCopy()
	return nil
}

// Delete removes a record by ID.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	if _, exists := s.records[id]; !exists {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}
