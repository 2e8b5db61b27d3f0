// Package portfolio aggregates repositories across organizations, audits
// them for missing metadata, and renders portfolio documents.
package portfolio
