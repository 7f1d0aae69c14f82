package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MinFileSize is the smallest file considered a plausible recording.
	MinFileSize = 1024 * 1024

	// DefaultTolerance is the maximum duration deviation still considered valid.
	DefaultTolerance = 0.10
)

// Result is the outcome of validating a single file.
// Optional fields are nil when the corresponding value is unknown.
type Result struct {
	Path             string
	Valid            bool
	Reason           string
	Size             int64
	ActualDuration   *float64
	ExpectedDuration *float64
	Deviation        *float64
}

// Validator checks downloaded files for completeness.
type Validator struct {
	prober Prober
	log    *slog.Logger
}

// NewValidator creates a validator backed by the given prober.
func NewValidator(prober Prober, log *slog.Logger) *Validator {
	if log == nil {
		log = slog.Default()
	}
	return &Validator{
		prober: prober,
		log:    log.With("component", "validator"),
	}
}

// Validate runs the ordered file checks and returns the detailed result.
// The first failing check determines the reason; later fields stay nil.
// A nil or non-positive expected duration disables the duration comparison.
func (v *Validator) Validate(ctx context.Context, path string, expected *float64, tolerance float64) *Result {
	r := &Result{Path: path}
	if expected != nil {
		e := *expected
		r.ExpectedDuration = &e
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.Reason = "File does not exist"
		} else {
			r.Reason = fmt.Sprintf("Cannot access file: %v", err)
		}
		return r
	}

	r.Size = info.Size()
	if r.Size < MinFileSize {
		r.Reason = fmt.Sprintf("File too small (%d bytes, minimum %d)", r.Size, MinFileSize)
		return r
	}

	actual, ok := v.prober.Duration(ctx, path)
	if !ok {
		r.Reason = "Cannot determine video duration (possibly corrupted)"
		return r
	}
	r.ActualDuration = &actual

	if r.ExpectedDuration == nil || *r.ExpectedDuration <= 0 {
		r.Valid = true
		r.Reason = fmt.Sprintf("Valid (duration: %.1fs)", actual)
		return r
	}

	want := *r.ExpectedDuration
	deviation := Deviation(actual, want)
	r.Deviation = &deviation
	if deviation > tolerance {
		r.Reason = fmt.Sprintf("Duration mismatch: %.1fs actual vs %.1fs expected (%s deviation)",
			actual, want, Percent(deviation))
		return r
	}

	r.Valid = true
	r.Reason = fmt.Sprintf("Valid (duration: %.1fs, expected %.1fs, %s deviation)",
		actual, want, Percent(deviation))
	return r
}

// Check is the simplified form of Validate.
func (v *Validator) Check(ctx context.Context, path string, expected *float64, tolerance float64) (bool, string) {
	r := v.Validate(ctx, path, expected, tolerance)
	return r.Valid, r.Reason
}

// Deviation returns |actual-expected| as a fraction of expected.
func Deviation(actual, expected float64) float64 {
	return math.Abs(actual-expected) / expected
}

// Percent formats a fraction as a percentage with one decimal.
func Percent(fraction float64) string {
	return fmt.Sprintf("%.1f%%", fraction*100)
}

// DirectoryReport summarizes validation of every recording in a directory.
type DirectoryReport struct {
	Valid   int
	Invalid int
	Results []*Result
}

// Directory validates every .mp4 file in dir, in name order, without a duration expectation.
func (v *Validator) Directory(ctx context.Context, dir string) (*DirectoryReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read recordings directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".mp4") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	report := &DirectoryReport{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		r := v.Validate(ctx, filepath.Join(dir, name), nil, DefaultTolerance)
		if r.Valid {
			report.Valid++
			v.log.Info("valid", "file", name, "reason", r.Reason)
		} else {
			report.Invalid++
			v.log.Warn("invalid", "file", name, "reason", r.Reason)
		}
		report.Results = append(report.Results, r)
	}
	return report, nil
}
