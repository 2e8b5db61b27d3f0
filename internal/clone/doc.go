// Package clone implements the parallel repository cloning pipeline: task
// construction from owner/name identifiers, bounded-concurrency dispatch,
// per-task outcome collection, and aggregate statistics.
package clone
