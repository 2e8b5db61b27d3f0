// Package site renders extracted repository records into standalone HTML
// documents: a themed project listing and single-repository landing pages.
package site
