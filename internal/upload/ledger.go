package upload

import (
	"database/sql"
	"fmt"
	"time"
)

// Entry is a file already uploaded, keyed by its path relative to the
// recordings directory.
type Entry struct {
	Path       string
	Size       int64
	UploadedAt time.Time
}

// Ledger records uploaded files.
type Ledger struct {
	db *sql.DB
}

// NewLedger creates an upload ledger.
func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Has reports whether path was uploaded.
func (l *Ledger) Has(path string) (bool, error) {
	var n int
	err := l.db.QueryRow("SELECT COUNT(*) FROM uploads WHERE path = ?", path).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check upload %s: %w", path, err)
	}
	return n > 0, nil
}

// Add records an upload. Re-adding a path refreshes its size and time.
func (l *Ledger) Add(path string, size int64) error {
	_, err := l.db.Exec(`
		INSERT INTO uploads (path, size_bytes, uploaded_at) VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET size_bytes = excluded.size_bytes, uploaded_at = excluded.uploaded_at`,
		path, size, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("record upload %s: %w", path, err)
	}
	return nil
}

// List returns all uploads ordered by path.
func (l *Ledger) List() ([]Entry, error) {
	rows, err := l.db.Query("SELECT path, size_bytes, uploaded_at FROM uploads ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.Size, &e.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate uploads: %w", err)
	}
	return entries, nil
}
