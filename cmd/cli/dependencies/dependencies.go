package dependencies

import (
	"errors"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/githubauth"
	"github.com/ghfolio/ghfolio/internal/identifier"
	"github.com/ghfolio/ghfolio/internal/llm"
)

const (
	missingTokenMessageConstant   = "GitHub token not found: set GITHUB_TOKEN or pass --token"
	noRepositoriesMessageConstant = "no repositories provided: pass owner/name arguments or --repos-file"
	progressBarWidthConstant      = 15
)

// ResolveGitHubClient builds an authenticated API client. A non-empty flag
// value wins over the environment.
func ResolveGitHubClient(tokenFlagValue string, logger *zap.Logger) (*githubapi.Client, error) {
	token := strings.TrimSpace(tokenFlagValue)
	if len(token) == 0 {
		resolvedToken, tokenFound := githubauth.ResolveGitHubToken(nil)
		if !tokenFound {
			return nil, errors.New(missingTokenMessageConstant)
		}
		token = resolvedToken
	}

	return githubapi.NewClient(token, logger), nil
}

// ResolveCompleter builds a language-model client when a key is configured.
// A nil return selects the deterministic fallbacks; callers must keep the
// nil check on the concrete pointer before assigning to an interface.
func ResolveCompleter(logger *zap.Logger) *llm.Client {
	apiKey, keyFound := githubauth.ResolveAnthropicKey(nil)
	if !keyFound {
		return nil
	}

	client, creationError := llm.NewClient(apiKey, logger)
	if creationError != nil {
		return nil
	}
	return client
}

// CollectRepositoryTokens merges positional arguments with the lines of an
// optional repository list file. An empty combined list is an error.
func CollectRepositoryTokens(arguments []string, reposFilePath string) ([]string, error) {
	tokens := append([]string{}, arguments...)

	if trimmedPath := strings.TrimSpace(reposFilePath); len(trimmedPath) > 0 {
		fileTokens, readError := identifier.ReadFile(trimmedPath)
		if readError != nil {
			return nil, readError
		}
		tokens = append(tokens, fileTokens...)
	}

	if len(tokens) == 0 {
		return nil, errors.New(noRepositoriesMessageConstant)
	}
	return tokens, nil
}

// NewProgressBar creates a progress bar with the standard option set. It
// writes to standard error so piped command output stays clean.
func NewProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(progressBarWidthConstant),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
