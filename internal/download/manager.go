package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vmunix/tablodl/internal/media"
	"github.com/vmunix/tablodl/internal/reconcile"
	"github.com/vmunix/tablodl/internal/recordings"
	"github.com/vmunix/tablodl/pkg/tablo"
)

// Request describes one recording to download.
type Request struct {
	Device string
	// RecordingID is the recording path on the device. When empty, Show selects
	// the most recent recording matching a title.
	RecordingID    string
	Show           string
	Directory      string
	Overwrite      bool
	DryRun         bool
	DeleteOriginal bool
}

// Result is the outcome of a download request.
type Result struct {
	Recording  string
	Title      string
	Path       string
	Status     Status // empty for dry runs
	Plan       *reconcile.Plan
	Validation *media.Result
	// Deleted is true when the original recording was removed from the device.
	Deleted  bool
	Download *Download
}

// Manager orchestrates download operations.
type Manager struct {
	api        DeviceAPI
	transcoder Transcoder
	reconciler *reconcile.Reconciler
	catalog    *recordings.Store
	store      *Store
	log        *slog.Logger
	runID      string
}

// NewManager creates a new download manager. Every download it records
// shares one run ID.
func NewManager(api DeviceAPI, transcoder Transcoder, reconciler *reconcile.Reconciler,
	catalog *recordings.Store, store *Store, log *slog.Logger) *Manager {
	return &Manager{
		api:        api,
		transcoder: transcoder,
		reconciler: reconciler,
		catalog:    catalog,
		store:      store,
		log:        log.With("component", "download"),
		runID:      uuid.NewString(),
	}
}

// RunID returns the ID shared by the downloads of this manager.
func (m *Manager) RunID() string {
	return m.runID
}

// Download fetches one recording into req.Directory.
// An existing file at the target is reconciled first and may be kept.
func (m *Manager) Download(ctx context.Context, req Request) (*Result, error) {
	rec, err := m.resolve(req)
	if err != nil {
		return nil, err
	}
	log := m.log.With("device", rec.Device, "recording", rec.Path)

	playlist, err := m.api.Watch(ctx, rec.Device, rec.Path)
	if err != nil {
		log.Error("playlist request failed", "error", err)
		return nil, fmt.Errorf("watch %s: %w", rec.Path, err)
	}

	summary, err := recordings.Summarize(rec)
	if err != nil {
		return nil, err
	}
	if summary.ExpectedDuration != nil {
		log.Debug("expected recording duration", "seconds", *summary.ExpectedDuration)
	}
	title, filename, ok := recordings.TitleAndFilename(summary)
	if !ok {
		log.Error("unable to generate title", "category", summary.Category)
		return nil, fmt.Errorf("%s on %s: %w", rec.Path, rec.Device, ErrNoTitle)
	}

	dest := filepath.Join(req.Directory, filename)
	res := &Result{Recording: rec.Path, Title: title, Path: dest}

	if req.DryRun {
		m.logDryRun(log, req, dest)
		return res, nil
	}

	d := &Download{RunID: m.runID, Device: rec.Device, Recording: rec.Path, FilePath: dest}
	if err := m.store.Add(d); err != nil {
		return nil, err
	}
	res.Download = d

	plan, err := m.reconciler.Prepare(ctx, dest, summary.ExpectedDuration, req.Overwrite)
	if err != nil {
		return res, m.finish(res, StatusFailed, err.Error(), err)
	}
	res.Plan = plan
	if !plan.Proceed {
		return res, m.finish(res, StatusSkipped, string(plan.Cause), nil)
	}

	if err := m.fetch(ctx, playlist, dest, title); err != nil {
		log.Error("download failed", "path", dest, "error", err)
		if derr := m.reconciler.Discard(dest); derr != nil {
			err = errors.Join(err, derr)
		}
		return res, m.finish(res, StatusFailed, err.Error(), err)
	}

	validation, err := m.reconciler.Verify(ctx, dest, summary.ExpectedDuration)
	res.Validation = validation
	if !validation.Valid {
		if err == nil {
			err = fmt.Errorf("%w: %s", ErrValidationFailed, validation.Reason)
		}
		return res, m.finish(res, StatusFailed, validation.Reason, err)
	}
	log.Info("successfully downloaded and validated", "path", dest, "reason", validation.Reason)

	if err := m.finish(res, StatusCompleted, validation.Reason, nil); err != nil {
		return res, err
	}

	if req.DeleteOriginal {
		log.Info("deleting tablo recording")
		if err := m.api.DeleteRecording(ctx, rec.Device, rec.Path); err != nil {
			return res, fmt.Errorf("delete original: %w", err)
		}
		res.Deleted = true
	}
	return res, nil
}

// finish records the final status and returns cause, or the store error.
func (m *Manager) finish(res *Result, status Status, reason string, cause error) error {
	res.Status = status
	if err := m.store.Transition(res.Download, status, reason); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

func (m *Manager) resolve(req Request) (*recordings.Recording, error) {
	if req.RecordingID != "" {
		rec, err := m.catalog.Get(req.Device, req.RecordingID)
		if errors.Is(err, recordings.ErrNotFound) {
			return nil, fmt.Errorf("%s on %s: %w", req.RecordingID, req.Device, ErrRecordingNotFound)
		}
		return rec, err
	}

	if req.Show == "" {
		return nil, fmt.Errorf("no recording or show given: %w", ErrRecordingNotFound)
	}
	m.log.Info("searching for most recent recording", "show", req.Show)
	recs, err := m.catalog.List(req.Device)
	if err != nil {
		return nil, err
	}
	match, ok := recordings.FindByShowTitle(recs, req.Show)
	if !ok {
		return nil, fmt.Errorf("show %q on %s: %w", req.Show, req.Device, ErrRecordingNotFound)
	}
	m.log.Info("found matching recording", "recording", match.Recording.Path, "title", match.Title)
	return match.Recording, nil
}

// fetch writes the playlist to a temporary .m3u file and transcodes it to dest.
func (m *Manager) fetch(ctx context.Context, playlist *tablo.Playlist, dest, title string) error {
	m3u, err := m.api.PlaylistM3U(ctx, playlist)
	if err != nil {
		return fmt.Errorf("fetch playlist: %w", err)
	}

	f, err := os.CreateTemp("", "tablodl-*.m3u")
	if err != nil {
		return fmt.Errorf("create playlist file: %w", err)
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if _, err := f.WriteString(m3u); err != nil {
		_ = f.Close()
		return fmt.Errorf("write playlist file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close playlist file: %w", err)
	}

	return m.transcoder.Transcode(ctx, f.Name(), dest, title)
}

func (m *Manager) logDryRun(log *slog.Logger, req Request, dest string) {
	if _, err := os.Stat(dest); err == nil {
		if req.Overwrite {
			log.Info("dry run: would overwrite existing download", "path", dest)
		} else {
			log.Info("dry run: would reconcile existing download", "path", dest)
		}
	} else {
		log.Info("dry run: would download", "path", dest)
	}
	if req.DeleteOriginal {
		log.Info("dry run: would delete tablo recording after successful download", "path", dest)
	}
}
