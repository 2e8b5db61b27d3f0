package org

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	groupUseConstant      = "org"
	groupShortDescription = "Manage organization-level content"
	groupLongDescription  = "org groups subcommands that generate and publish organization profile content."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandGroupBuilder assembles the org command group.
type CommandGroupBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the org command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	readmeBuilder := ReadmeCommandBuilder{LoggerProvider: builder.LoggerProvider}
	readmeCommand, readmeError := readmeBuilder.Build()
	if readmeError == nil {
		command.AddCommand(readmeCommand)
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
