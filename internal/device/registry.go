package device

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Registry provides device record management with thread safety.
// It wraps a Store and serialises every operation under a single
// mutex, so two writers can never interleave inside the store and
// the guarantees are identical no matter which backend is in use.
//
// All public methods are thread-safe.
type Registry struct {
	store  Store
	mu     sync.Mutex // Serialises all store access
	logger Logger
}

// NewRegistry creates a new device registry backed by the given store.
func NewRegistry(store Store) *Registry {
	return &Registry{
		store:  store,
		logger: noopLogger{},
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	r.logger = logger
}

// CreateDevice validates and persists a new device record.
// It generates an ID, creation timestamp and empty data mapping for
// any of those not already set.
func (r *Registry) CreateDevice(ctx context.Context, rec *Record) error {
	if err := ValidateIPAddress(rec.IPAddress); err != nil {
		return err
	}
	if err := ValidatePort(rec.Port); err != nil {
		return err
	}
	if err := ValidateUsername(rec.Username); err != nil {
		return err
	}

	if rec.ID == "" {
		rec.ID = GenerateID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.Data == nil {
		rec.Data = make(map[string]any)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Create(ctx, rec); err != nil {
		return err
	}

	r.logger.Info("device record created", "id", rec.ID, "ip_address", rec.IPAddress)
	return nil
}

// GetDevice retrieves a device record by ID.
// Returns ErrNotFound if the record does not exist.
func (r *Registry) GetDevice(ctx context.Context, id string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.store.Get(ctx, id)
}

// ListDevices retrieves all device records ordered by creation time,
// oldest first, with ID as the tie-breaker.
func (r *Registry) ListDevices(ctx context.Context) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}

// UpdateDeviceData replaces the polled data of a device record and
// stamps its last accessed time. Returns the updated record, or
// ErrNotFound if it does not exist.
func (r *Registry) UpdateDeviceData(ctx context.Context, id string, data map[string]any) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec.Data = data
	rec.LastAccessed = &now

	if err := r.store.Update(ctx, rec); err != nil {
		return nil, err
	}

	r.logger.Debug("device data updated", "id", id)
	return rec, nil
}

// DeleteDevice removes a device record. It reports whether a record
// was removed; deleting an unknown ID is not an error.
func (r *Registry) DeleteDevice(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	r.logger.Info("device removed", "id", id)
	return true, nil
}
