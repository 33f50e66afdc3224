package device

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed store.
// The db parameter should be an open connection with the devices
// table already migrated.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves a record by its unique identifier.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	query := `
		SELECT id, ip_address, username, port, created_at, last_accessed, data
		FROM devices
		WHERE id = ?`

	row := s.db.QueryRowContext(ctx, query, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: querying device by id: %v", ErrStore, err)
	}
	return rec, nil
}

// List retrieves all records.
func (s *SQLiteStore) List(ctx context.Context) ([]Record, error) {
	query := `
		SELECT id, ip_address, username, port, created_at, last_accessed, data
		FROM devices`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying devices: %v", ErrStore, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning device: %v", ErrStore, err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating devices: %v", ErrStore, err)
	}

	return records, nil
}

// Create inserts a new record.
func (s *SQLiteStore) Create(ctx context.Context, rec *Record) error {
	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("%w: marshalling data: %v", ErrStore, err)
	}

	query := `
		INSERT INTO devices (id, ip_address, username, port, created_at, last_accessed, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	_, err = s.db.ExecContext(ctx, query,
		rec.ID,
		rec.IPAddress,
		rec.Username,
		rec.Port,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		nullableTime(rec.LastAccessed),
		string(dataJSON),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrExists
		}
		return fmt.Errorf("%w: inserting device: %v", ErrStore, err)
	}

	return nil
}

// Update replaces an existing record.
func (s *SQLiteStore) Update(ctx context.Context, rec *Record) error {
	dataJSON, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("%w: marshalling data: %v", ErrStore, err)
	}

	query := `
		UPDATE devices
		SET ip_address = ?, username = ?, port = ?, last_accessed = ?, data = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		rec.IPAddress,
		rec.Username,
		rec.Port,
		nullableTime(rec.LastAccessed),
		string(dataJSON),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating device: %v", ErrStore, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected: %v", ErrStore, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a record by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: deleting device: %v", ErrStore, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: checking rows affected: %v", ErrStore, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecord scans a row or rows result into a Record.
func scanRecord(scanner rowScanner) (*Record, error) {
	var rec Record
	var createdAt string
	var lastAccessed sql.NullString
	var dataJSON sql.NullString

	err := scanner.Scan(
		&rec.ID,
		&rec.IPAddress,
		&rec.Username,
		&rec.Port,
		&createdAt,
		&lastAccessed,
		&dataJSON,
	)
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	if lastAccessed.Valid {
		t, err := time.Parse(time.RFC3339, lastAccessed.String)
		if err == nil {
			rec.LastAccessed = &t
		}
	}

	if dataJSON.Valid && dataJSON.String != "" {
		if err := json.Unmarshal([]byte(dataJSON.String), &rec.Data); err != nil {
			return nil, fmt.Errorf("unmarshalling data: %w", err)
		}
	}

	return &rec, nil
}

// nullableTime returns a sql.NullString for optional time pointers (as RFC3339 strings).
func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
