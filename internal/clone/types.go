package clone

import (
	"time"

	"github.com/ghfolio/ghfolio/internal/identifier"
)

// Status enumerates the possible outcomes of one clone task.
type Status string

// Task outcome values.
const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Task describes one resolved clone operation. Tasks are immutable once
// created at dispatch time.
type Task struct {
	Identifier identifier.Identifier
	CloneURL   string
	TargetPath string
	Branch     string
	Depth      int
}

// Result records the outcome of one task.
type Result struct {
	Identifier identifier.Identifier
	TargetPath string
	Status     Status
	// Message carries the captured error text for failed results and a short
	// explanation for skipped ones.
	Message string
}

// Stats aggregates counters over a result list.
type Stats struct {
	Total      int
	Successful int
	Skipped    int
	Failed     int
	Failures   []Result
}

// ComputeStats folds a result list into aggregate counters. Stats are always
// derived from a result list, never stored independently.
func ComputeStats(results []Result) Stats {
	stats := Stats{Total: len(results)}
	for _, result := range results {
		switch result.Status {
		case StatusSuccess:
			stats.Successful++
		case StatusSkipped:
			stats.Skipped++
		case StatusFailed:
			stats.Failed++
			stats.Failures = append(stats.Failures, result)
		}
	}
	return stats
}

// ProgressUpdate is delivered to the progress callback after each task
// completes, carrying the finished result and running totals.
type ProgressUpdate struct {
	Result    Result
	Completed int
	Total     int
}

// ProgressCallback receives completion notifications. The pipeline serializes
// invocations, so implementations need no locking of their own.
type ProgressCallback func(update ProgressUpdate)

// Options configures one pipeline run.
type Options struct {
	// Tokens holds the raw owner/name entries, one task per entry in input
	// order. Duplicates each produce their own task.
	Tokens []string
	// TargetDirectory is the base directory; each clone lands at
	// TargetDirectory/owner/name.
	TargetDirectory string
	Branch          string
	Depth           int
	Transport       TransportPolicy
	// Parallel bounds concurrent clone operations; values below one fall back
	// to DefaultParallelism.
	Parallel int
	// SkipExisting records a skipped result for targets that already exist
	// and are non-empty, without invoking git.
	SkipExisting bool
	// CleanupFailures removes partially written target directories after a
	// definite clone failure. Removal is best effort.
	CleanupFailures bool
	// Timeout bounds each individual clone invocation. Zero applies
	// DefaultCloneTimeout.
	Timeout  time.Duration
	Progress ProgressCallback
}

// Pipeline defaults.
const (
	DefaultParallelism  = 4
	DefaultCloneTimeout = 10 * time.Minute
)
