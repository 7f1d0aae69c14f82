package download

import "errors"

// Sentinel errors for the download package.
var (
	// ErrRecordingNotFound is returned when the requested recording is not cached.
	ErrRecordingNotFound = errors.New("recording not found")

	// ErrNoTitle is returned when no title can be generated for a recording.
	ErrNoTitle = errors.New("unable to generate title")

	// ErrValidationFailed is returned when a finished download fails validation.
	ErrValidationFailed = errors.New("download failed validation")

	// ErrNotFound is returned when a download record is not found in the database.
	ErrNotFound = errors.New("download not found")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)
