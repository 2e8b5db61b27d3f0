// Package tui provides an interactive terminal browser for organizations
// and repositories, with health checks and README previews run as
// background tasks.
package tui
