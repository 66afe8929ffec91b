package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReloadStatus represents the state of a catalog build.
type ReloadStatus string

const (
	StatusLoading  ReloadStatus = "loading"
	StatusReady    ReloadStatus = "ready"
	StatusPartial  ReloadStatus = "partial"  // some entries failed to load
	StatusFallback ReloadStatus = "fallback" // manifest failed; placeholder served
	StatusKept     ReloadStatus = "kept"     // manifest failed; previous catalog kept
	StatusCanceled ReloadStatus = "canceled"
)

// Report tracks the progress of a single catalog build.
type Report struct {
	mu sync.Mutex

	ID         string
	Trigger    string
	Status     ReloadStatus
	Generation string

	Entries int
	Loaded  int
	Failed  int

	StartedAt  time.Time
	FinishedAt time.Time

	errors []string
}

// NewReport starts a report for a build caused by trigger.
func NewReport(trigger string) *Report {
	return &Report{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		Status:    StatusLoading,
		StartedAt: time.Now(),
	}
}

// SetStatus updates the report status atomically.
func (r *Report) SetStatus(status ReloadStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
}

// SetEntries records the number of manifest entries.
func (r *Report) SetEntries(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = n
}

// AddError records an error.
func (r *Report) AddError(err string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, err)
}

// RecordEntry counts one settled entry.
func (r *Report) RecordEntry(ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ok {
		r.Loaded++
	} else {
		r.Failed++
	}
}

// Finish stamps the completed build with the published catalog generation.
func (r *Report) Finish(status ReloadStatus, generation string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Status = status
	r.Generation = generation
	r.FinishedAt = time.Now()
}

// ReportSnapshot is a read-only, JSON-safe copy of report state.
type ReportSnapshot struct {
	ID         string       `json:"reload_id"`
	Trigger    string       `json:"trigger"`
	Status     ReloadStatus `json:"status"`
	Generation string       `json:"generation,omitempty"`
	Entries    int          `json:"entries"`
	Loaded     int          `json:"loaded"`
	Failed     int          `json:"failed"`
	Errors     []string     `json:"errors"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt *time.Time   `json:"finished_at,omitempty"`
	DurationMs int64        `json:"duration_ms"`
}

// Snapshot returns a JSON-safe copy of the report state.
func (r *Report) Snapshot() ReportSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	errs := make([]string, len(r.errors))
	copy(errs, r.errors)

	snap := ReportSnapshot{
		ID:         r.ID,
		Trigger:    r.Trigger,
		Status:     r.Status,
		Generation: r.Generation,
		Entries:    r.Entries,
		Loaded:     r.Loaded,
		Failed:     r.Failed,
		Errors:     errs,
		StartedAt:  r.StartedAt,
	}
	if !r.FinishedAt.IsZero() {
		finished := r.FinishedAt
		snap.FinishedAt = &finished
		snap.DurationMs = finished.Sub(r.StartedAt).Milliseconds()
	}
	return snap
}
