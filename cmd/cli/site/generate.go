package site

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/extract"
	"github.com/ghfolio/ghfolio/internal/identifier"
	"github.com/ghfolio/ghfolio/internal/output"
	sitegen "github.com/ghfolio/ghfolio/internal/site"
)

const (
	siteGenerateUseConstant        = "generate"
	siteGenerateShortDescription   = "Render extracted records as a themed HTML site"
	siteGenerateLongDescription    = "generate reads a JSON records file and writes a standalone HTML document grouping projects by category."
	pageGenerateUseConstant        = "generate <owner/name>"
	pageGenerateShortDescription   = "Render one repository as a landing page"
	pageGenerateLongDescription    = "generate fetches one repository and writes a standalone HTML landing page for it."
	flagTokenNameConstant          = "token"
	flagTokenDescriptionConstant   = "GitHub API token (defaults to GITHUB_TOKEN or GH_TOKEN)"
	flagInputNameConstant          = "input"
	flagInputDescriptionConstant   = "Path to the JSON records file produced by repo extract"
	flagOutputNameConstant         = "output"
	flagOutputDescriptionConstant  = "Destination HTML file"
	flagTitleNameConstant          = "title"
	flagTitleDescriptionConstant   = "Site title"
	flagSiteDescNameConstant       = "description"
	flagSiteDescDescription        = "Site subtitle text"
	flagThemeNameConstant          = "theme"
	defaultSiteOutputConstant      = "index.html"
	defaultPageOutputConstant      = "page.html"
	siteWrittenTemplateConstant    = "Site written to %s"
	pageWrittenTemplateConstant    = "Landing page written to %s"
	outputFilePermissionsConstant  = 0o644
	themeDescriptionPrefixConstant = "Color theme: "
)

// SiteGenerateCommandBuilder assembles the site generate command.
type SiteGenerateCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the site generate command.
func (builder *SiteGenerateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   siteGenerateUseConstant,
		Short: siteGenerateShortDescription,
		Long:  siteGenerateLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagInputNameConstant, "", flagInputDescriptionConstant)
	command.Flags().String(flagOutputNameConstant, defaultSiteOutputConstant, flagOutputDescriptionConstant)
	command.Flags().String(flagTitleNameConstant, "", flagTitleDescriptionConstant)
	command.Flags().String(flagSiteDescNameConstant, "", flagSiteDescDescription)
	command.Flags().String(flagThemeNameConstant, sitegen.ThemePortfolio, themeFlagDescription())
	_ = command.MarkFlagRequired(flagInputNameConstant)

	return command, nil
}

func (builder *SiteGenerateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	inputPath, _ := command.Flags().GetString(flagInputNameConstant)
	records, loadError := extract.LoadRecords(inputPath)
	if loadError != nil {
		return loadError
	}

	generator, generatorError := sitegen.NewGenerator()
	if generatorError != nil {
		return generatorError
	}

	titleValue, _ := command.Flags().GetString(flagTitleNameConstant)
	descriptionValue, _ := command.Flags().GetString(flagSiteDescNameConstant)
	themeValue, _ := command.Flags().GetString(flagThemeNameConstant)

	document, buildError := generator.BuildSite(records, sitegen.Options{
		Title:       titleValue,
		Description: descriptionValue,
		Theme:       themeValue,
	})
	if buildError != nil {
		return buildError
	}

	outputPath, _ := command.Flags().GetString(flagOutputNameConstant)
	if writeError := os.WriteFile(outputPath, []byte(document), outputFilePermissionsConstant); writeError != nil {
		return writeError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	sink.Success(siteWrittenTemplateConstant, outputPath)
	return nil
}

// PageGenerateCommandBuilder assembles the page generate command.
type PageGenerateCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the page generate command.
func (builder *PageGenerateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   pageGenerateUseConstant,
		Short: pageGenerateShortDescription,
		Long:  pageGenerateLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagOutputNameConstant, defaultPageOutputConstant, flagOutputDescriptionConstant)
	command.Flags().String(flagThemeNameConstant, sitegen.ThemePortfolio, themeFlagDescription())

	return command, nil
}

func (builder *PageGenerateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	repository, parseError := identifier.Parse(arguments[0])
	if parseError != nil {
		return parseError
	}

	logger := resolveLogger(builder.LoggerProvider)
	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return clientError
	}

	metadata, metadataError := client.RepositoryInfo(command.Context(), repository.Owner, repository.Name)
	if metadataError != nil {
		return metadataError
	}
	if topics, topicsError := client.Topics(command.Context(), repository.Owner, repository.Name); topicsError == nil && len(topics) > 0 {
		metadata.Topics = topics
	}

	generator, generatorError := sitegen.NewGenerator()
	if generatorError != nil {
		return generatorError
	}

	themeValue, _ := command.Flags().GetString(flagThemeNameConstant)
	document, buildError := generator.BuildLandingPage(extract.FromRepository(metadata), themeValue)
	if buildError != nil {
		return buildError
	}

	outputPath, _ := command.Flags().GetString(flagOutputNameConstant)
	if writeError := os.WriteFile(outputPath, []byte(document), outputFilePermissionsConstant); writeError != nil {
		return writeError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	sink.Success(pageWrittenTemplateConstant, outputPath)
	return nil
}

func themeFlagDescription() string {
	return themeDescriptionPrefixConstant + strings.Join(sitegen.ThemeNames(), ", ")
}
