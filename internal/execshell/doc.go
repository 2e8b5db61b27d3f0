// Package execshell executes external git processes on behalf of the clone
// pipeline, capturing exit codes and standard error text for reporting.
package execshell
