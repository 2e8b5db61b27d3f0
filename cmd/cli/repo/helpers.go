package repo

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/identifier"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	flagTokenNameConstant        = "token"
	flagTokenDescriptionConstant = "GitHub API token (defaults to GITHUB_TOKEN or GH_TOKEN)"
	flagReposFileNameConstant    = "repos-file"
	flagReposFileDescription     = "Path to a newline-delimited file of owner/name entries"
	flagJSONNameConstant         = "json"
	flagJSONDescriptionConstant  = "Emit machine-readable JSON instead of a table"
	flagDryRunNameConstant       = "dry-run"
	flagDryRunDescription        = "Preview changes without writing to GitHub"
	flagForceNameConstant        = "force"
	flagForceDescriptionConstant = "Regenerate even when existing content looks adequate"
	flagDelayNameConstant        = "delay"
	flagDelayDescriptionConstant = "Pause between repositories to respect API rate limits"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func collectIdentifiers(command *cobra.Command, arguments []string) ([]identifier.Identifier, error) {
	reposFilePath, _ := command.Flags().GetString(flagReposFileNameConstant)
	tokens, tokensError := dependencies.CollectRepositoryTokens(arguments, reposFilePath)
	if tokensError != nil {
		return nil, tokensError
	}
	return identifier.ParseList(tokens)
}

func printJSON(command *cobra.Command, payload any) error {
	return output.PrintJSON(command.OutOrStdout(), payload)
}
