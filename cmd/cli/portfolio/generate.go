package portfolio

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/extract"
	"github.com/ghfolio/ghfolio/internal/output"
	portfoliosvc "github.com/ghfolio/ghfolio/internal/portfolio"
)

const (
	generateUseConstant            = "generate"
	generateShortDescription       = "Build a markdown portfolio from organization repositories"
	generateLongDescription        = "generate collects repositories across the given organizations (or all organizations of the authenticated user), renders a markdown portfolio, and optionally saves the raw records."
	flagTokenNameConstant          = "token"
	flagTokenDescriptionConstant   = "GitHub API token (defaults to GITHUB_TOKEN or GH_TOKEN)"
	flagOrgsNameConstant           = "orgs"
	flagOrgsDescriptionConstant    = "Organizations to aggregate; discovered from the account when empty"
	flagExcludeForksNameConstant   = "exclude-forks"
	flagExcludeForksDescription    = "Leave forked repositories out of the portfolio"
	flagIncludePrivateNameConstant = "include-private"
	flagIncludePrivateDescription  = "Include private repositories"
	flagMinStarsNameConstant       = "min-stars"
	flagMinStarsDescription        = "Minimum star count for a repository to appear"
	flagMaxReposNameConstant       = "max-repos"
	flagMaxReposDescription        = "Cap the portfolio after star sorting; zero keeps all"
	flagGroupByNameConstant        = "group-by"
	flagGroupByDescription         = "Project grouping: category, org, or language"
	flagTitleNameConstant          = "title"
	flagTitleDescriptionConstant   = "Portfolio document title"
	flagOwnerNameConstant          = "owner"
	flagOwnerDescriptionConstant   = "Display name for the default title; the authenticated user when empty"
	flagOutputNameConstant         = "output"
	flagOutputDescriptionConstant  = "Write the markdown to this file instead of stdout"
	flagRecordsNameConstant        = "records"
	flagRecordsDescription         = "Also save the aggregated records as JSON at this path"
	generateWrittenTemplate        = "Portfolio written to %s"
	recordsSavedTemplateConstant   = "Records saved to %s"
	outputFilePermissionsConstant  = 0o644
)

// GenerateCommandBuilder assembles the portfolio generate command.
type GenerateCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the generate command.
func (builder *GenerateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   generateUseConstant,
		Short: generateShortDescription,
		Long:  generateLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().StringSlice(flagOrgsNameConstant, nil, flagOrgsDescriptionConstant)
	command.Flags().Bool(flagExcludeForksNameConstant, false, flagExcludeForksDescription)
	command.Flags().Bool(flagIncludePrivateNameConstant, false, flagIncludePrivateDescription)
	command.Flags().Int(flagMinStarsNameConstant, 0, flagMinStarsDescription)
	command.Flags().Int(flagMaxReposNameConstant, 0, flagMaxReposDescription)
	command.Flags().String(flagGroupByNameConstant, portfoliosvc.GroupByCategory, flagGroupByDescription)
	command.Flags().String(flagTitleNameConstant, "", flagTitleDescriptionConstant)
	command.Flags().String(flagOwnerNameConstant, "", flagOwnerDescriptionConstant)
	command.Flags().String(flagOutputNameConstant, "", flagOutputDescriptionConstant)
	command.Flags().String(flagRecordsNameConstant, "", flagRecordsDescription)

	return command, nil
}

func (builder *GenerateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return clientError
	}

	service, serviceError := portfoliosvc.NewService(client, logger)
	if serviceError != nil {
		return serviceError
	}

	organizations, _ := command.Flags().GetStringSlice(flagOrgsNameConstant)
	if len(organizations) == 0 {
		discovered, discoverError := service.DiscoverOrganizations(command.Context())
		if discoverError != nil {
			return discoverError
		}
		for _, organization := range discovered {
			organizations = append(organizations, organization.Login)
		}
	}

	excludeForksValue, _ := command.Flags().GetBool(flagExcludeForksNameConstant)
	includePrivateValue, _ := command.Flags().GetBool(flagIncludePrivateNameConstant)
	minStarsValue, _ := command.Flags().GetInt(flagMinStarsNameConstant)
	maxReposValue, _ := command.Flags().GetInt(flagMaxReposNameConstant)

	records := service.AggregateRepositories(command.Context(), organizations, portfoliosvc.AggregateOptions{
		ExcludeForks:        excludeForksValue,
		IncludePrivate:      includePrivateValue,
		MinimumStars:        minStarsValue,
		MaximumRepositories: maxReposValue,
	})

	sink := output.NewConsoleSink(command.OutOrStdout())

	recordsPath, _ := command.Flags().GetString(flagRecordsNameConstant)
	if recordsPath != "" {
		if saveError := extract.SaveRecords(records, recordsPath); saveError != nil {
			return saveError
		}
		sink.Success(recordsSavedTemplateConstant, recordsPath)
	}

	ownerValue, _ := command.Flags().GetString(flagOwnerNameConstant)
	if ownerValue == "" {
		if authenticatedUser, userError := client.AuthenticatedUser(command.Context()); userError == nil {
			ownerValue = authenticatedUser.Login
		}
	}

	titleValue, _ := command.Flags().GetString(flagTitleNameConstant)
	groupByValue, _ := command.Flags().GetString(flagGroupByNameConstant)

	details := service.OrganizationDetails(command.Context(), organizations)
	markdown := portfoliosvc.RenderMarkdown(records, details, portfoliosvc.MarkdownOptions{
		Title:   titleValue,
		GroupBy: groupByValue,
		Owner:   ownerValue,
	})

	outputPath, _ := command.Flags().GetString(flagOutputNameConstant)
	if outputPath != "" {
		if writeError := os.WriteFile(outputPath, []byte(markdown), outputFilePermissionsConstant); writeError != nil {
			return writeError
		}
		sink.Success(generateWrittenTemplate, outputPath)
		return nil
	}

	sink.Line("%s", markdown)
	return nil
}
