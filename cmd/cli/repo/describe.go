package repo

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/describe"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	describeUseConstant           = "describe [owner/name ...]"
	describeShortDescription      = "Generate and apply repository descriptions"
	describeLongDescription       = "describe drafts a one-line description per repository, using the configured language model when available, and updates GitHub unless --dry-run is set."
	describeProgressDescription   = "Describing repositories"
	describeSummaryTemplateConst  = "%d updated, %d skipped, %d failed (%d total)"
	defaultDelayFlagValueConstant = 0
)

var describeTableHeaders = []string{"REPOSITORY", "STATUS", "DESCRIPTION"}

// DescribeCommandBuilder assembles the repo describe command.
type DescribeCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the describe command.
func (builder *DescribeCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   describeUseConstant,
		Short: describeShortDescription,
		Long:  describeLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescription)
	command.Flags().Bool(flagForceNameConstant, false, flagForceDescriptionConstant)
	command.Flags().Duration(flagDelayNameConstant, defaultDelayFlagValueConstant, flagDelayDescriptionConstant)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)

	return command, nil
}

func (builder *DescribeCommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	var completer describe.Completer
	if llmClient := dependencies.ResolveCompleter(logger); llmClient != nil {
		completer = llmClient
	}

	service, serviceError := describe.NewService(client, completer, logger)
	if serviceError != nil {
		return serviceError
	}

	dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
	forceValue, _ := command.Flags().GetBool(flagForceNameConstant)
	delayValue, _ := command.Flags().GetDuration(flagDelayNameConstant)

	progressBar := dependencies.NewProgressBar(len(identifiers), describeProgressDescription)
	results := service.ProcessRepositories(command.Context(), identifiers, describe.Options{
		DryRun: dryRunValue,
		Force:  forceValue,
		Delay:  delayValue,
		Progress: func(result describe.Result, completed int, total int) {
			_ = progressBar.Add(1)
		},
	})

	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return printJSON(command, results)
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	updated, skipped, failed := 0, 0, 0
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		switch result.Status {
		case describe.StatusSuccess, describe.StatusDryRun:
			updated++
		case describe.StatusSkipped:
			skipped++
		case describe.StatusError:
			failed++
		}
		description := result.NewDescription
		if description == "" {
			description = result.Message
		}
		rows = append(rows, []string{result.Repository, result.Status, description})
	}
	sink.Table(describeTableHeaders, rows)
	sink.Line(describeSummaryTemplateConst, updated, skipped, failed, len(results))
	return nil
}
