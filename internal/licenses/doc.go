// Package licenses adds license files to repositories from GitHub's license
// templates, with placeholder substitution and an in-memory template cache.
package licenses
