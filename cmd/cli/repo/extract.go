package repo

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/extract"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	extractUseConstant             = "extract [owner/name ...]"
	extractShortDescription        = "Extract portable repository metadata as JSON"
	extractLongDescription         = "extract fetches repository metadata, languages, and topics, infers a category, and writes JSON records."
	flagOutputNameConstant         = "output"
	flagOutputDescriptionConstant  = "Destination file for the JSON records; stdout when empty"
	extractProgressDescription     = "Extracting repositories"
	extractSkippedMessageConstant  = "repository skipped"
	extractSummaryTemplateConstant = "Extracted %d of %d repositories"
	extractSavedTemplateConstant   = "Records written to %s"
	logFieldRepositoryConstant     = "repository"
)

// ExtractCommandBuilder assembles the repo extract command.
type ExtractCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the extract command.
func (builder *ExtractCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   extractUseConstant,
		Short: extractShortDescription,
		Long:  extractLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().String(flagOutputNameConstant, "", flagOutputDescriptionConstant)

	return command, nil
}

func (builder *ExtractCommandBuilder) run(command *cobra.Command, arguments []string) error {
	identifiers, identifiersError := collectIdentifiers(command, arguments)
	if identifiersError != nil {
		return identifiersError
	}

	logger := resolveLogger(builder.LoggerProvider)
	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return clientError
	}

	service, serviceError := extract.NewService(client, logger)
	if serviceError != nil {
		return serviceError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	progressBar := dependencies.NewProgressBar(len(identifiers), extractProgressDescription)

	records := make([]extract.Record, 0, len(identifiers))
	for _, repository := range identifiers {
		record, extractError := service.ExtractRepository(command.Context(), repository)
		_ = progressBar.Add(1)
		if extractError != nil {
			logger.Warn(
				extractSkippedMessageConstant,
				zap.String(logFieldRepositoryConstant, repository.String()),
				zap.Error(extractError),
			)
			sink.Warning("%s: %v", repository.String(), extractError)
			continue
		}
		records = append(records, record)
	}

	outputPath, _ := command.Flags().GetString(flagOutputNameConstant)
	if outputPath == "" {
		return printJSON(command, records)
	}

	if saveError := extract.SaveRecords(records, outputPath); saveError != nil {
		return saveError
	}
	sink.Success(extractSavedTemplateConstant, outputPath)
	sink.Line(extractSummaryTemplateConstant, len(records), len(identifiers))
	return nil
}
