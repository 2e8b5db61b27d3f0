// Package llm provides a minimal Anthropic messages API client used by the
// content generators. Every caller treats the client as optional: when no API
// key is configured, generators fall back to deterministic output.
package llm
