package invite

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	groupUseConstant      = "invite"
	groupShortDescription = "Process repository collaboration invitations"
	groupLongDescription  = "invite groups subcommands that accept, decline, and walk away from repository invitations."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandGroupBuilder assembles the invite command group.
type CommandGroupBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the invite command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	acceptBuilder := AcceptCommandBuilder{LoggerProvider: builder.LoggerProvider}
	acceptCommand, acceptError := acceptBuilder.Build()
	if acceptError == nil {
		command.AddCommand(acceptCommand)
	}

	leaveBuilder := LeaveCommandBuilder{LoggerProvider: builder.LoggerProvider}
	leaveCommand, leaveError := leaveBuilder.Build()
	if leaveError == nil {
		command.AddCommand(leaveCommand)
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
