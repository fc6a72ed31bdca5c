package sync

import (
	"errors"
	"fmt"
	"time"

	"catalog-sync/feature/catalog"
	"catalog-sync/feature/products"
)

var (
	// ErrAlreadyRunning is returned when another run holds the status lock.
	ErrAlreadyRunning = errors.New("sync already in progress")

	// ErrLeaseLost is returned when a run's lock was taken over before it finished.
	ErrLeaseLost = errors.New("sync lock lease lost")

	// ErrInvalidMode is returned for an unknown run mode.
	ErrInvalidMode = errors.New("invalid sync mode")
)

// Mode selects what a run writes.
type Mode string

const (
	// ModeFull creates, updates and reconciles products.
	ModeFull Mode = "full"
	// ModeDescriptions only refreshes descriptions of stored products.
	ModeDescriptions Mode = "descriptions"
)

// ParseMode parses a mode name. An empty string means ModeFull.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeDescriptions:
		return ModeDescriptions, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Status is the persisted run status.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Phase is the state-machine position of the current run.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseFetching     Phase = "fetching"
	PhaseTransforming Phase = "transforming"
	PhaseUpserting    Phase = "upserting"
	PhaseReconciling  Phase = "reconciling"
	PhaseCompleted    Phase = "completed"
	PhaseError        Phase = "error"
)

// Result summarizes one run.
type Result struct {
	RunID         string                 `json:"run_id"`
	Mode          Mode                   `json:"mode"`
	Source        string                 `json:"source"`
	SourceName    string                 `json:"source_name,omitempty"`
	Processed     int                    `json:"processed"`
	Created       int                    `json:"created"`
	Updated       int                    `json:"updated"`
	Deleted       int                    `json:"deleted"`
	Errors        []products.RecordError `json:"errors"`
	ErrorsTotal   int                    `json:"errors_total"`
	DurationMs    int64                  `json:"duration_ms"`
	Truncated     bool                   `json:"truncated"`
	CycleComplete bool                   `json:"cycle_complete"`
	Reconciled    bool                   `json:"reconciled"`
	NextCursor    catalog.Cursor         `json:"next_cursor"`
	Message       string                 `json:"message,omitempty"`
}

// StatusReport is what GetStatus returns.
type StatusReport struct {
	Status     Status         `json:"status"`
	Phase      Phase          `json:"phase"`
	Cursor     catalog.Cursor `json:"cursor"`
	RunID      string         `json:"run_id,omitempty"`
	StartedAt  *time.Time     `json:"started_at,omitempty"`
	FinishedAt *time.Time     `json:"finished_at,omitempty"`
	LastError  string         `json:"last_error,omitempty"`
}
