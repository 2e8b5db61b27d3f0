// Package readmegen assesses README quality and regenerates weak or missing
// READMEs, writing them back through the GitHub contents API.
package readmegen
