// Package download saves Tablo recordings to local MP4 files and keeps a
// history of download attempts.
package download

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Status tracks download state.
type Status string

const (
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusSkipped     Status = "skipped"
)

// Download is one recorded download attempt.
type Download struct {
	ID         int64
	RunID      string
	Device     string
	Recording  string
	FilePath   string
	Status     Status
	Reason     string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// Filter specifies criteria for listing downloads.
type Filter struct {
	RunID     string
	Device    string
	Recording string
	Status    *Status
	Limit     int // most recent first when set
}

// Store persists download records.
type Store struct {
	db       *sql.DB
	handlers []TransitionHandler
}

// NewStore creates a download store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// OnTransition registers a handler to be called on state transitions.
func (s *Store) OnTransition(h TransitionHandler) {
	s.handlers = append(s.handlers, h)
}

// Add records a new download attempt in the downloading state.
func (s *Store) Add(d *Download) error {
	now := time.Now()
	d.Status = StatusDownloading
	result, err := s.db.Exec(`
		INSERT INTO downloads (run_id, device, recording, file_path, status, reason, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.RunID, d.Device, d.Recording, d.FilePath, d.Status, d.Reason, now,
	)
	if err != nil {
		return fmt.Errorf("insert download: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	d.ID = id
	d.StartedAt = now
	return nil
}

// Get retrieves a download by ID.
// Returns ErrNotFound if the download does not exist.
func (s *Store) Get(id int64) (*Download, error) {
	d := &Download{}
	err := s.db.QueryRow(`
		SELECT id, run_id, device, recording, file_path, status, reason, started_at, finished_at
		FROM downloads WHERE id = ?`, id,
	).Scan(&d.ID, &d.RunID, &d.Device, &d.Recording, &d.FilePath, &d.Status, &d.Reason, &d.StartedAt, &d.FinishedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get download %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get download %d: %w", id, err)
	}
	return d, nil
}

// Transition changes a download's status with validation and event emission.
// Reaching a terminal status sets the finish time.
func (s *Store) Transition(d *Download, to Status, reason string) error {
	if !d.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, d.Status, to)
	}

	from := d.Status
	now := time.Now()
	var finished *time.Time
	if to.IsTerminal() {
		finished = &now
	}

	result, err := s.db.Exec(`
		UPDATE downloads SET status = ?, reason = ?, finished_at = ?
		WHERE id = ?`,
		to, reason, finished, d.ID,
	)
	if err != nil {
		return fmt.Errorf("update download %d: %w", d.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("transition download %d: %w", d.ID, ErrNotFound)
	}

	d.Status = to
	d.Reason = reason
	d.FinishedAt = finished

	event := TransitionEvent{
		DownloadID: d.ID,
		From:       from,
		To:         to,
		Reason:     reason,
		At:         now,
	}
	for _, h := range s.handlers {
		h(event)
	}
	return nil
}

// List returns downloads matching the specified filter, oldest first unless
// a limit is set.
func (s *Store) List(f Filter) ([]*Download, error) {
	var conditions []string
	var args []any

	if f.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.Device != "" {
		conditions = append(conditions, "device = ?")
		args = append(args, f.Device)
	}
	if f.Recording != "" {
		conditions = append(conditions, "recording = ?")
		args = append(args, f.Recording)
	}
	if f.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, *f.Status)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := "SELECT id, run_id, device, recording, file_path, status, reason, started_at, finished_at FROM downloads " + whereClause
	if f.Limit > 0 {
		query += " ORDER BY id DESC LIMIT ?"
		args = append(args, f.Limit)
	} else {
		query += " ORDER BY id"
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list downloads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Download
	for rows.Next() {
		d := &Download{}
		if err := rows.Scan(&d.ID, &d.RunID, &d.Device, &d.Recording, &d.FilePath, &d.Status, &d.Reason, &d.StartedAt, &d.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan download: %w", err)
		}
		results = append(results, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate downloads: %w", err)
	}
	return results, nil
}
