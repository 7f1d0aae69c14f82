package download

import "time"

// validTransitions defines allowed state transitions.
// Key is the "from" status, value is list of valid "to" statuses.
var validTransitions = map[Status][]Status{
	StatusDownloading: {StatusCompleted, StatusFailed, StatusSkipped},
	StatusCompleted:   {},
	StatusFailed:      {},
	StatusSkipped:     {},
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	for _, v := range validTransitions[s] {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if this status has no valid outgoing transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusSkipped
}

// TransitionEvent describes a status change of a download record.
type TransitionEvent struct {
	DownloadID int64
	From       Status
	To         Status
	Reason     string
	At         time.Time
}

// TransitionHandler is called after a status change is persisted.
type TransitionHandler func(TransitionEvent)
