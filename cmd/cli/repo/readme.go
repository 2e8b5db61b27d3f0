package repo

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/output"
	"github.com/ghfolio/ghfolio/internal/readmegen"
)

const (
	readmeUseConstant            = "readme [owner/name ...]"
	readmeShortDescription       = "Assess README quality and regenerate weak ones"
	readmeLongDescription        = "readme scores each repository README and regenerates it below the quality threshold, committing the result unless --dry-run is set."
	flagMinQualityNameConstant   = "min-quality"
	flagMinQualityDescription    = "Regenerate READMEs scoring under this threshold (0-1)"
	readmeProgressDescription    = "Processing READMEs"
	readmeQualityTemplateConst   = "%.2f"
	readmeSummaryTemplateConst   = "%d written, %d skipped, %d failed (%d total)"
	defaultMinimumQualityFlagVal = 0.5
)

var readmeTableHeaders = []string{"REPOSITORY", "STATUS", "QUALITY BEFORE", "QUALITY AFTER", "METHOD"}

// ReadmeCommandBuilder assembles the repo readme command.
type ReadmeCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the readme command.
func (builder *ReadmeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   readmeUseConstant,
		Short: readmeShortDescription,
		Long:  readmeLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescription)
	command.Flags().Bool(flagForceNameConstant, false, flagForceDescriptionConstant)
	command.Flags().Float64(flagMinQualityNameConstant, defaultMinimumQualityFlagVal, flagMinQualityDescription)
	command.Flags().Duration(flagDelayNameConstant, defaultDelayFlagValueConstant, flagDelayDescriptionConstant)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)

	return command, nil
}

func (builder *ReadmeCommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	var completer readmegen.Completer
	if llmClient := dependencies.ResolveCompleter(logger); llmClient != nil {
		completer = llmClient
	}

	service, serviceError := readmegen.NewService(client, completer, logger)
	if serviceError != nil {
		return serviceError
	}

	dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
	forceValue, _ := command.Flags().GetBool(flagForceNameConstant)
	minQualityValue, _ := command.Flags().GetFloat64(flagMinQualityNameConstant)
	delayValue, _ := command.Flags().GetDuration(flagDelayNameConstant)

	progressBar := dependencies.NewProgressBar(len(identifiers), readmeProgressDescription)
	results := service.ProcessRepositories(command.Context(), identifiers, readmegen.Options{
		DryRun:         dryRunValue,
		Force:          forceValue,
		MinimumQuality: minQualityValue,
		Delay:          delayValue,
		Progress: func(result readmegen.Result, completed int, total int) {
			_ = progressBar.Add(1)
		},
	})

	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return printJSON(command, results)
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	written, skipped, failed := 0, 0, 0
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		switch result.Status {
		case readmegen.StatusCreated, readmegen.StatusUpdated, readmegen.StatusDryRun:
			written++
		case readmegen.StatusSkipped:
			skipped++
		default:
			failed++
		}
		rows = append(rows, []string{
			result.Repository,
			result.Status,
			fmt.Sprintf(readmeQualityTemplateConst, result.QualityBefore),
			fmt.Sprintf(readmeQualityTemplateConst, result.QualityAfter),
			result.GenerationMethod,
		})
	}
	sink.Table(readmeTableHeaders, rows)
	sink.Line(readmeSummaryTemplateConst, written, skipped, failed, len(results))
	return nil
}
