package device

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

// storeImplementations returns a factory per Store backend so the
// shared lifecycle tests run against every one of them.
func storeImplementations() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(_ *testing.T) Store {
			return NewMemoryStore()
		},
		"file": func(t *testing.T) Store {
			fs, err := NewFileStore(filepath.Join(t.TempDir(), "devices.json"))
			if err != nil {
				t.Fatalf("NewFileStore() error = %v", err)
			}
			return fs
		},
		"sqlite": func(t *testing.T) Store {
			return NewSQLiteStore(setupTestDB(t))
		},
	}
}

func TestStore_Lifecycle(t *testing.T) {
	for name, newStore := range storeImplementations() {
		t.Run(name, func(t *testing.T) {
			store := newStore(t)
			ctx := context.Background()

			accessed := time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC)
			rec := &Record{
				ID:        "dev-001",
				IPAddress: "192.168.88.1",
				Username:  "admin",
				Port:      80,
				CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
				Data: map[string]any{
					"system":     map[string]any{"uptime": "1w2d"},
					"interfaces": []map[string]any{{"name": "ether1"}},
				},
			}

			if err := store.Create(ctx, rec); err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			if err := store.Create(ctx, rec); !errors.Is(err, ErrExists) {
				t.Errorf("second Create() error = %v, want ErrExists", err)
			}

			got, err := store.Get(ctx, "dev-001")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got.IPAddress != "192.168.88.1" {
				t.Errorf("IPAddress = %q, want %q", got.IPAddress, "192.168.88.1")
			}
			if !got.CreatedAt.Equal(rec.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, rec.CreatedAt)
			}
			if got.LastAccessed != nil {
				t.Errorf("LastAccessed = %v, want nil", got.LastAccessed)
			}
			system, ok := got.Data["system"].(map[string]any)
			if !ok {
				t.Fatalf("Data[system] = %T, want map", got.Data["system"])
			}
			if system["uptime"] != "1w2d" {
				t.Errorf("Data[system][uptime] = %v, want %q", system["uptime"], "1w2d")
			}

			if _, err := store.Get(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get(nonexistent) error = %v, want ErrNotFound", err)
			}

			got.Data = map[string]any{"identity": map[string]any{"name": "gw-1"}}
			got.LastAccessed = &accessed
			if err := store.Update(ctx, got); err != nil {
				t.Fatalf("Update() error = %v", err)
			}

			updated, err := store.Get(ctx, "dev-001")
			if err != nil {
				t.Fatalf("Get() after update error = %v", err)
			}
			if updated.LastAccessed == nil || !updated.LastAccessed.Equal(accessed) {
				t.Errorf("LastAccessed = %v, want %v", updated.LastAccessed, accessed)
			}
			if _, ok := updated.Data["identity"]; !ok {
				t.Error("Data missing identity key after update")
			}
			if _, ok := updated.Data["system"]; ok {
				t.Error("Data kept stale system key after replacement")
			}

			ghost := testRecord("nonexistent", "10.0.0.9")
			if err := store.Update(ctx, ghost); !errors.Is(err, ErrNotFound) {
				t.Errorf("Update(nonexistent) error = %v, want ErrNotFound", err)
			}

			records, err := store.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(records) != 1 {
				t.Errorf("List() returned %d records, want 1", len(records))
			}

			if err := store.Delete(ctx, "dev-001"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if err := store.Delete(ctx, "dev-001"); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete() error = %v, want ErrNotFound", err)
			}

			records, err = store.List(ctx)
			if err != nil {
				t.Fatalf("List() after delete error = %v", err)
			}
			if len(records) != 0 {
				t.Errorf("List() returned %d records, want 0", len(records))
			}
		})
	}
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := testRecord("dev-iso", "10.0.0.1")
	rec.Data = map[string]any{"system": map[string]any{"cpu": "arm"}}
	if err := store.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Mutating the caller's record must not leak into the store.
	rec.Data["system"].(map[string]any)["cpu"] = "mutated"

	got, err := store.Get(ctx, "dev-iso")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	system := got.Data["system"].(map[string]any)
	if system["cpu"] != "arm" {
		t.Errorf("Data[system][cpu] = %v, want %q", system["cpu"], "arm")
	}

	// Mutating a returned record must not leak either.
	got.Data["system"].(map[string]any)["cpu"] = "mutated"

	again, err := store.Get(ctx, "dev-iso")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if again.Data["system"].(map[string]any)["cpu"] != "arm" {
		t.Error("stored record was mutated through a returned copy")
	}
}
