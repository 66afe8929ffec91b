package pipeline

import (
	"slices"
	"sync"
	"time"
)

type fetchSample struct {
	at        time.Time
	file      string
	ms        int64
	err       string
	retryable bool
}

// SlowFetch names the slowest fetch in the window.
type SlowFetch struct {
	File string `json:"file"`
	Ms   int64  `json:"ms"`
}

// FetchFailure is the most recent failed fetch in the window.
type FetchFailure struct {
	File  string    `json:"file"`
	Error string    `json:"error"`
	At    time.Time `json:"at"`
}

// StatsSnapshot aggregates the fetch attempts still inside the window.
// Latency figures cover every attempt, failed or not.
type StatsSnapshot struct {
	Count     int     `json:"count"`
	Failures  int     `json:"failures"`
	Retryable int     `json:"retryable_failures"`
	ErrorRate float64 `json:"error_rate"`
	MinMs     int64   `json:"min_ms"`
	MaxMs     int64   `json:"max_ms"`
	AvgMs     float64 `json:"avg_ms"`
	P50Ms     float64 `json:"p50_ms"`
	P95Ms     float64 `json:"p95_ms"`
	P99Ms     float64 `json:"p99_ms"`

	Slowest   *SlowFetch    `json:"slowest,omitempty"`
	LastError *FetchFailure `json:"last_error,omitempty"`
}

// FetchStats keeps content store fetch attempts for a rolling window.
type FetchStats struct {
	mu      sync.Mutex
	samples []fetchSample
	window  time.Duration
}

func NewFetchStats(window time.Duration) *FetchStats {
	if window <= 0 {
		window = time.Hour
	}
	return &FetchStats{
		samples: make([]fetchSample, 0, 256),
		window:  window,
	}
}

// Record adds one fetch attempt of file. A nil err means it succeeded.
func (s *FetchStats) Record(file string, d time.Duration, err error) {
	sm := fetchSample{
		at:   time.Now(),
		file: file,
		ms:   max(d.Milliseconds(), 0),
	}
	if err != nil {
		sm.err = err.Error()
		sm.retryable = IsRetryable(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropExpiredLocked(sm.at)
	s.samples = append(s.samples, sm)
}

func (s *FetchStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropExpiredLocked(time.Now())
	if len(s.samples) == 0 {
		return StatsSnapshot{}
	}

	var snap StatsSnapshot
	latencies := make([]int64, len(s.samples))
	var total int64
	for i, sm := range s.samples {
		latencies[i] = sm.ms
		total += sm.ms
		if snap.Slowest == nil || sm.ms > snap.Slowest.Ms {
			snap.Slowest = &SlowFetch{File: sm.file, Ms: sm.ms}
		}
		if sm.err == "" {
			continue
		}
		snap.Failures++
		if sm.retryable {
			snap.Retryable++
		}
		snap.LastError = &FetchFailure{File: sm.file, Error: sm.err, At: sm.at}
	}
	slices.Sort(latencies)

	snap.Count = len(latencies)
	snap.ErrorRate = float64(snap.Failures) / float64(snap.Count)
	snap.MinMs = latencies[0]
	snap.MaxMs = latencies[len(latencies)-1]
	snap.AvgMs = float64(total) / float64(snap.Count)
	snap.P50Ms = percentile(latencies, 50)
	snap.P95Ms = percentile(latencies, 95)
	snap.P99Ms = percentile(latencies, 99)
	return snap
}

// dropExpiredLocked removes samples older than the window. Samples are
// appended in time order, so the expired ones form a prefix.
func (s *FetchStats) dropExpiredLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.samples) && s.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.samples = slices.Delete(s.samples, 0, i)
	}
}

// percentile interpolates linearly between the two nearest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}
	rank := float64(len(sorted)-1) * pct / 100
	lo := int(rank)
	if lo+1 >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[lo+1])-float64(sorted[lo]))*frac
}
