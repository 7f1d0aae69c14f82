// Package recordings caches Tablo recording metadata and derives titles,
// filenames, and expected durations from it.
package recordings

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound indicates the recording is not in the cache.
var ErrNotFound = errors.New("recording not found")

// Recording is a cached recording on a device.
type Recording struct {
	Device   string
	Path     string // e.g. /recordings/series/episodes/1234
	Category string // movies, series, sports, ...
	Details  json.RawMessage
	AddedAt  time.Time
}

// CategoryOf returns the category segment of a recording path.
func CategoryOf(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[2]
}

// Store persists recordings.
type Store struct {
	db *sql.DB
}

// NewStore creates a recordings store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Put inserts or replaces a recording.
func (s *Store) Put(r *Recording) error {
	if r.Category == "" {
		r.Category = CategoryOf(r.Path)
	}
	if r.AddedAt.IsZero() {
		r.AddedAt = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO recordings (device, path, category, details, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(device, path) DO UPDATE SET category = excluded.category, details = excluded.details`,
		r.Device, r.Path, r.Category, string(r.Details), r.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("put recording %s%s: %w", r.Device, r.Path, err)
	}
	return nil
}

// Get retrieves a recording.
// Returns ErrNotFound if the recording is not cached.
func (s *Store) Get(device, path string) (*Recording, error) {
	r := &Recording{}
	var details string
	err := s.db.QueryRow(`
		SELECT device, path, category, details, added_at
		FROM recordings WHERE device = ? AND path = ?`, device, path,
	).Scan(&r.Device, &r.Path, &r.Category, &details, &r.AddedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get recording %s%s: %w", device, path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get recording %s%s: %w", device, path, err)
	}
	r.Details = json.RawMessage(details)
	return r, nil
}

// List returns the recordings of one device ordered by path.
func (s *Store) List(device string) ([]*Recording, error) {
	return s.query(`
		SELECT device, path, category, details, added_at
		FROM recordings WHERE device = ? ORDER BY path`, device)
}

// All returns every cached recording ordered by device and path.
func (s *Store) All() ([]*Recording, error) {
	return s.query(`
		SELECT device, path, category, details, added_at
		FROM recordings ORDER BY device, path`)
}

// Devices returns the distinct devices present in the cache.
func (s *Store) Devices() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT device FROM recordings ORDER BY device")
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var devices []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate devices: %w", err)
	}
	return devices, nil
}

// Delete removes a recording. Deleting a missing recording is not an error.
func (s *Store) Delete(device, path string) error {
	if _, err := s.db.Exec("DELETE FROM recordings WHERE device = ? AND path = ?", device, path); err != nil {
		return fmt.Errorf("delete recording %s%s: %w", device, path, err)
	}
	return nil
}

func (s *Store) query(query string, args ...any) ([]*Recording, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Recording
	for rows.Next() {
		r := &Recording{}
		var details string
		if err := rows.Scan(&r.Device, &r.Path, &r.Category, &details, &r.AddedAt); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		r.Details = json.RawMessage(details)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recordings: %w", err)
	}
	return results, nil
}
