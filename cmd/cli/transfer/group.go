package transfer

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/output"
	transfersvc "github.com/ghfolio/ghfolio/internal/transfer"
)

const (
	groupUseConstant             = "transfer"
	groupShortDescription        = "Move repositories between owners"
	groupLongDescription         = "transfer groups subcommands that initiate repository transfers and accept the resulting invitations."
	flagTokenNameConstant        = "token"
	flagTokenDescriptionConstant = "GitHub API token (defaults to GITHUB_TOKEN or GH_TOKEN)"
	flagDryRunNameConstant       = "dry-run"
	flagDryRunDescription        = "Preview actions without writing to GitHub"
	flagDelayNameConstant        = "delay"
	flagDelayDescriptionConstant = "Pause between write calls to respect API rate limits"
	flagJSONNameConstant         = "json"
	flagJSONDescriptionConstant  = "Emit machine-readable JSON instead of a table"
	summaryTemplateConstant      = "%d processed, %d skipped, %d failed (%d total)"
	defaultDelayFlagValue        = 0
)

var resultTableHeaders = []string{"REPOSITORY", "NEW OWNER", "STATUS", "MESSAGE"}

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandGroupBuilder assembles the transfer command group.
type CommandGroupBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the transfer command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	initiateBuilder := InitiateCommandBuilder{LoggerProvider: builder.LoggerProvider}
	initiateCommand, initiateError := initiateBuilder.Build()
	if initiateError == nil {
		command.AddCommand(initiateCommand)
	}

	listBuilder := ListCommandBuilder{LoggerProvider: builder.LoggerProvider}
	listCommand, listError := listBuilder.Build()
	if listError == nil {
		command.AddCommand(listCommand)
	}

	acceptBuilder := AcceptCommandBuilder{LoggerProvider: builder.LoggerProvider}
	acceptCommand, acceptError := acceptBuilder.Build()
	if acceptError == nil {
		command.AddCommand(acceptCommand)
	}

	return command, nil
}

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

func printResults(sink output.Sink, results []transfersvc.Result) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{result.Repository, result.NewOwner, result.Status, result.Message})
	}
	sink.Table(resultTableHeaders, rows)
}
