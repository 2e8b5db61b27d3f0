// Package dependencies resolves the shared collaborators CLI commands need:
// the authenticated GitHub client, the optional language-model completer,
// repository token collection, and progress reporting.
package dependencies
