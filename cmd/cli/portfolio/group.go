package portfolio

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	groupUseConstant      = "portfolio"
	groupShortDescription = "Aggregate and audit repository portfolios"
	groupLongDescription  = "portfolio groups subcommands that collect repositories across organizations and check their metadata."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandGroupBuilder assembles the portfolio command group.
type CommandGroupBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the portfolio command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	generateBuilder := GenerateCommandBuilder{LoggerProvider: builder.LoggerProvider}
	generateCommand, generateError := generateBuilder.Build()
	if generateError == nil {
		command.AddCommand(generateCommand)
	}

	auditBuilder := AuditCommandBuilder{LoggerProvider: builder.LoggerProvider}
	auditCommand, auditError := auditBuilder.Build()
	if auditError == nil {
		command.AddCommand(auditCommand)
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
