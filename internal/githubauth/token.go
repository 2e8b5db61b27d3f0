// Package githubauth resolves API credentials from the process environment.
package githubauth

import (
	"os"
	"strings"
)

// Environment variable names used by credential resolution helpers.
const (
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvAnthropicKey   = "ANTHROPIC_API_KEY"
)

var githubTokenPreference = []string{
	EnvGitHubToken,
	EnvGitHubCLIToken,
}

// ResolveGitHubToken returns the first non-empty GitHub token observed in the
// provided override map or the process environment.
func ResolveGitHubToken(environment map[string]string) (string, bool) {
	for _, key := range githubTokenPreference {
		if value, ok := lookup(environment, key); ok {
			return value, true
		}
	}
	for _, key := range githubTokenPreference {
		if value, ok := lookupProcess(key); ok {
			return value, true
		}
	}
	return "", false
}

// ResolveAnthropicKey returns the Anthropic API key when configured. An absent
// key is not an error; callers fall back to deterministic generation.
func ResolveAnthropicKey(environment map[string]string) (string, bool) {
	if value, ok := lookup(environment, EnvAnthropicKey); ok {
		return value, true
	}
	return lookupProcess(EnvAnthropicKey)
}

func lookup(environment map[string]string, key string) (string, bool) {
	if environment == nil {
		return "", false
	}
	value, exists := environment[key]
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}

func lookupProcess(key string) (string, bool) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return "", false
	}
	value = strings.TrimSpace(value)
	if len(value) == 0 {
		return "", false
	}
	return value, true
}
