// Package describe generates and updates repository descriptions, preferring
// a language-model draft and falling back to deterministic metadata-derived
// text.
package describe
