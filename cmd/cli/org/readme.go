package org

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/orgprofile"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	readmeUseConstant             = "readme <organization>"
	readmeShortDescription        = "Generate an organization profile README"
	readmeLongDescription         = "readme builds a profile README from the organization's repositories and either prints it, writes it to a file, or commits it to the .github profile repository."
	flagTokenNameConstant         = "token"
	flagTokenDescriptionConstant  = "GitHub API token (defaults to GITHUB_TOKEN or GH_TOKEN)"
	flagTemplateNameConstant      = "template"
	flagTemplateDescription       = "Profile layout: default, minimal, or detailed"
	flagGroupByNameConstant       = "group-by"
	flagGroupByDescription        = "Section grouping: category, language, or topic"
	flagStatsNameConstant         = "stats"
	flagStatsDescriptionConstant  = "Include the organization statistics section"
	flagExcludeForksNameConstant  = "exclude-forks"
	flagExcludeForksDescription   = "Leave forked repositories out of the listing"
	flagMinStarsNameConstant      = "min-stars"
	flagMinStarsDescription       = "Minimum star count for a repository to appear"
	flagMaxReposNameConstant      = "max-repos"
	flagMaxReposDescription       = "Cap the listing after star sorting; zero lists all"
	flagOutputNameConstant        = "output"
	flagOutputDescriptionConstant = "Write the README to this file instead of stdout"
	flagApplyNameConstant         = "apply"
	flagApplyDescriptionConstant  = "Commit the README to the organization's .github profile repository"
	readmeWrittenTemplateConstant = "Profile README written to %s"
	readmeAppliedTemplateConstant = "Profile README applied to %s/.github"
	outputFilePermissionsConstant = 0o644
)

// ReadmeCommandBuilder assembles the org readme command.
type ReadmeCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the readme command.
func (builder *ReadmeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   readmeUseConstant,
		Short: readmeShortDescription,
		Long:  readmeLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagTemplateNameConstant, orgprofile.TemplateDefault, flagTemplateDescription)
	command.Flags().String(flagGroupByNameConstant, orgprofile.GroupByCategory, flagGroupByDescription)
	command.Flags().Bool(flagStatsNameConstant, false, flagStatsDescriptionConstant)
	command.Flags().Bool(flagExcludeForksNameConstant, false, flagExcludeForksDescription)
	command.Flags().Int(flagMinStarsNameConstant, 0, flagMinStarsDescription)
	command.Flags().Int(flagMaxReposNameConstant, 0, flagMaxReposDescription)
	command.Flags().String(flagOutputNameConstant, "", flagOutputDescriptionConstant)
	command.Flags().Bool(flagApplyNameConstant, false, flagApplyDescriptionConstant)

	return command, nil
}

func (builder *ReadmeCommandBuilder) run(command *cobra.Command, arguments []string) error {
	organization := arguments[0]

	logger := resolveLogger(builder.LoggerProvider)
	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return clientError
	}

	var completer orgprofile.Completer
	if llmClient := dependencies.ResolveCompleter(logger); llmClient != nil {
		completer = llmClient
	}

	service, serviceError := orgprofile.NewService(client, completer, logger)
	if serviceError != nil {
		return serviceError
	}

	templateValue, _ := command.Flags().GetString(flagTemplateNameConstant)
	groupByValue, _ := command.Flags().GetString(flagGroupByNameConstant)
	statsValue, _ := command.Flags().GetBool(flagStatsNameConstant)
	excludeForksValue, _ := command.Flags().GetBool(flagExcludeForksNameConstant)
	minStarsValue, _ := command.Flags().GetInt(flagMinStarsNameConstant)
	maxReposValue, _ := command.Flags().GetInt(flagMaxReposNameConstant)

	content, generateError := service.Generate(command.Context(), organization, orgprofile.Options{
		Template:            templateValue,
		GroupBy:             groupByValue,
		IncludeStats:        statsValue,
		ExcludeForks:        excludeForksValue,
		MinimumStars:        minStarsValue,
		MaximumRepositories: maxReposValue,
	})
	if generateError != nil {
		return generateError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())

	applyValue, _ := command.Flags().GetBool(flagApplyNameConstant)
	if applyValue {
		if applyError := service.Apply(command.Context(), organization, content); applyError != nil {
			return applyError
		}
		sink.Success(readmeAppliedTemplateConstant, organization)
		return nil
	}

	outputPath, _ := command.Flags().GetString(flagOutputNameConstant)
	if outputPath != "" {
		if writeError := os.WriteFile(outputPath, []byte(content), outputFilePermissionsConstant); writeError != nil {
			return writeError
		}
		sink.Success(readmeWrittenTemplateConstant, outputPath)
		return nil
	}

	sink.Line("%s", content)
	return nil
}
