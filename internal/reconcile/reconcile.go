// Package reconcile decides what happens to a recording file that already
// exists at a download target, and cleans up after failed downloads.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/vmunix/tablodl/internal/media"
)

// Deviation bands applied to an existing file.
const (
	// KeepThreshold is the largest deviation for which an existing file is kept.
	KeepThreshold = 0.10
	// IncompleteThreshold is the deviation above which a file is treated as a failed download.
	IncompleteThreshold = 0.50
)

// Decision is the fate of a file at the download target.
type Decision int

const (
	// Keep leaves the existing file and skips the download.
	Keep Decision = iota
	// DeleteAndRedownload removes the existing file and downloads again.
	DeleteAndRedownload
	// PromptUser defers to an interactive confirmation.
	PromptUser
	// Overwrite means the target path is free and the download writes it directly.
	Overwrite
)

func (d Decision) String() string {
	switch d {
	case Keep:
		return "keep"
	case DeleteAndRedownload:
		return "delete_and_redownload"
	case PromptUser:
		return "prompt_user"
	case Overwrite:
		return "overwrite"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Cause explains a Decision.
type Cause string

const (
	CauseValid      Cause = "valid"
	CauseAbsent     Cause = "absent"
	CauseOverwrite  Cause = "overwrite requested"
	CauseCorrupted  Cause = "corrupted"
	CauseIncomplete Cause = "incomplete"
	CauseMismatch   Cause = "duration mismatch"
	CauseConfirmed  Cause = "user confirmed"
	CauseDeclined   Cause = "user declined"
)

// Verdict is a Decision with its cause.
type Verdict struct {
	Decision Decision
	Cause    Cause
}

// Decide maps a validation result and the overwrite flag to a verdict.
// When overwrite is true the result is ignored and may be nil.
func Decide(r *media.Result, overwrite bool) Verdict {
	if overwrite {
		return Verdict{DeleteAndRedownload, CauseOverwrite}
	}
	if !r.Valid {
		if r.Deviation != nil {
			return Verdict{DeleteAndRedownload, CauseIncomplete}
		}
		return Verdict{DeleteAndRedownload, CauseCorrupted}
	}
	switch d := r.Deviation; {
	case d == nil || *d <= KeepThreshold:
		return Verdict{Keep, CauseValid}
	case *d > IncompleteThreshold:
		return Verdict{DeleteAndRedownload, CauseIncomplete}
	default:
		return Verdict{PromptUser, CauseMismatch}
	}
}

// Mismatch describes an existing file whose duration is ambiguous.
type Mismatch struct {
	Path      string
	Actual    float64
	Expected  float64
	Deviation float64
}

// Confirmer asks whether an ambiguous existing file should be replaced.
type Confirmer interface {
	Confirm(ctx context.Context, m Mismatch) (bool, error)
}

// Plan is the outcome of reconciling an existing download target.
type Plan struct {
	Verdict
	// Proceed is true when the caller should download to the target path.
	Proceed bool
	// Validation is nil when the file was absent or overwrite was requested.
	Validation *media.Result
}

// Reconciler applies Decide to files on disk.
type Reconciler struct {
	validator *media.Validator
	confirm   Confirmer
	log       *slog.Logger
}

// New creates a reconciler.
func New(validator *media.Validator, confirm Confirmer, log *slog.Logger) *Reconciler {
	if log == nil {
		log = slog.Default()
	}
	return &Reconciler{
		validator: validator,
		confirm:   confirm,
		log:       log.With("component", "reconcile"),
	}
}

// Prepare reconciles the file at path before a download begins.
// Files selected for re-download are deleted before Prepare returns.
func (r *Reconciler) Prepare(ctx context.Context, path string, expected *float64, overwrite bool) (*Plan, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return &Plan{Verdict: Verdict{Overwrite, CauseAbsent}, Proceed: true}, nil
	}

	if overwrite {
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("remove existing download: %w", err)
		}
		r.log.Info("removed existing file for re-download", "path", path)
		return &Plan{Verdict: Decide(nil, true), Proceed: true}, nil
	}

	// Validate against the incomplete ceiling so the keep and prompt bands stay visible.
	result := r.validator.Validate(ctx, path, expected, IncompleteThreshold)
	plan := &Plan{Verdict: Decide(result, false), Validation: result}

	switch plan.Decision {
	case Keep:
		r.log.Info("existing download is valid, skipping", "path", path, "reason", result.Reason)
		return plan, nil

	case DeleteAndRedownload:
		if plan.Cause == CauseIncomplete {
			r.log.Warn("existing download is incomplete", "path", path, "reason", result.Reason)
		} else {
			r.log.Warn("existing download is corrupted", "path", path, "reason", result.Reason)
		}

	case PromptUser:
		r.log.Warn("existing file has duration mismatch", "path", path, "reason", result.Reason)
		yes, err := r.ask(ctx, path, result)
		if err != nil {
			return nil, err
		}
		if !yes {
			r.log.Info("keeping existing file per user request", "path", path)
			plan.Verdict = Verdict{Keep, CauseDeclined}
			return plan, nil
		}
		plan.Verdict = Verdict{DeleteAndRedownload, CauseConfirmed}
	}

	if err := os.Remove(path); err != nil {
		return nil, fmt.Errorf("remove existing download: %w", err)
	}
	r.log.Info("removed file for re-download", "path", path, "cause", plan.Cause)
	plan.Proceed = true
	return plan, nil
}

func (r *Reconciler) ask(ctx context.Context, path string, result *media.Result) (bool, error) {
	if r.confirm == nil {
		return false, nil
	}
	yes, err := r.confirm.Confirm(ctx, Mismatch{
		Path:      path,
		Actual:    *result.ActualDuration,
		Expected:  *result.ExpectedDuration,
		Deviation: *result.Deviation,
	})
	if err != nil {
		return false, fmt.Errorf("confirm re-download: %w", err)
	}
	return yes, nil
}

// Verify validates a freshly written file and removes it when invalid.
// The transcoder's exit status is not trusted on its own.
func (r *Reconciler) Verify(ctx context.Context, path string, expected *float64) (*media.Result, error) {
	result := r.validator.Validate(ctx, path, expected, media.DefaultTolerance)
	if result.Valid {
		r.log.Info("download validated", "path", path, "reason", result.Reason)
		return result, nil
	}

	r.log.Error("download completed but validation failed", "path", path, "reason", result.Reason)
	if err := removeIfExists(path); err != nil {
		return result, fmt.Errorf("remove invalid download: %w", err)
	}
	r.log.Info("removed invalid download", "path", path)
	return result, nil
}

// Discard removes partial output left by a failed transcode.
func (r *Reconciler) Discard(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove partial download: %w", err)
	}
	r.log.Info("removed partial download", "path", path)
	return nil
}

func removeIfExists(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
