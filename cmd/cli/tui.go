package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/describe"
	"github.com/ghfolio/ghfolio/internal/health"
	"github.com/ghfolio/ghfolio/internal/tui"
)

const (
	tuiUseConstant              = "tui"
	tuiShortDescriptionConstant = "Browse organizations and repositories interactively"
	tuiLongDescriptionConstant  = "tui opens a terminal browser over the authenticated user's organizations with on-demand health checks, README previews, and description drafts."
	tuiTokenFlagNameConstant    = "token"
	tuiTokenFlagUsageConstant   = "GitHub API token (defaults to GITHUB_TOKEN or GH_TOKEN)"
)

// BrowserCommandBuilder assembles the interactive terminal browser command.
type BrowserCommandBuilder struct {
	LoggerProvider func() *zap.Logger
}

// Build constructs the tui command.
func (builder *BrowserCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   tuiUseConstant,
		Short: tuiShortDescriptionConstant,
		Long:  tuiLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	command.Flags().String(tuiTokenFlagNameConstant, "", tuiTokenFlagUsageConstant)

	return command, nil
}

func (builder *BrowserCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := zap.NewNop()
	if builder.LoggerProvider != nil {
		if provided := builder.LoggerProvider(); provided != nil {
			logger = provided
		}
	}

	tokenValue, _ := command.Flags().GetString(tuiTokenFlagNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return clientError
	}

	checker, checkerError := health.NewChecker(client, health.RuleSetGeneral, nil, logger)
	if checkerError != nil {
		return checkerError
	}

	var completer describe.Completer
	if llmClient := dependencies.ResolveCompleter(logger); llmClient != nil {
		completer = llmClient
	}
	describer, describerError := describe.NewService(client, completer, logger)
	if describerError != nil {
		return describerError
	}

	model := tui.NewModel(client, checker, describer, logger)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(command.Context()))
	_, runError := program.Run()
	return runError
}
