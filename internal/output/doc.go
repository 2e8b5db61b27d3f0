// Package output abstracts user-facing command output behind a Sink so that
// services stay silent and testable while the CLI renders colored text and
// tables.
package output
