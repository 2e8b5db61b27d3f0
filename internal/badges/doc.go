// Package badges builds shields.io badge markdown for repository metadata.
package badges
