// Package health scores repositories against named rule sets of weighted
// checks and maps the aggregate score onto letter grades.
package health
