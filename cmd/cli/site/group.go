package site

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	siteGroupUseConstant      = "site"
	siteGroupShortDescription = "Generate portfolio web pages"
	siteGroupLongDescription  = "site groups subcommands that render extracted records as standalone HTML documents."
	pageGroupUseConstant      = "page"
	pageGroupShortDescription = "Generate single-repository landing pages"
	pageGroupLongDescription  = "page groups subcommands that render one repository as a standalone landing page."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// SiteCommandGroupBuilder assembles the site command group.
type SiteCommandGroupBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the site command hierarchy.
func (builder *SiteCommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   siteGroupUseConstant,
		Short: siteGroupShortDescription,
		Long:  siteGroupLongDescription,
	}

	generateBuilder := SiteGenerateCommandBuilder{LoggerProvider: builder.LoggerProvider}
	generateCommand, generateError := generateBuilder.Build()
	if generateError == nil {
		command.AddCommand(generateCommand)
	}

	return command, nil
}

// PageCommandGroupBuilder assembles the page command group.
type PageCommandGroupBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the page command hierarchy.
func (builder *PageCommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pageGroupUseConstant,
		Short: pageGroupShortDescription,
		Long:  pageGroupLongDescription,
	}

	generateBuilder := PageGenerateCommandBuilder{LoggerProvider: builder.LoggerProvider}
	generateCommand, generateError := generateBuilder.Build()
	if generateError == nil {
		command.AddCommand(generateCommand)
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
