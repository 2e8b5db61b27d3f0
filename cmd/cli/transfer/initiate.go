package transfer

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/output"
	transfersvc "github.com/ghfolio/ghfolio/internal/transfer"
)

const (
	initiateUseConstant       = "initiate [owner/name ...]"
	initiateShortDescription  = "Start transferring repositories to a new owner"
	initiateLongDescription   = "initiate requests a transfer of each listed repository to the new owner; the receiving side completes it by accepting the invitation."
	flagNewOwnerNameConstant  = "new-owner"
	flagNewOwnerDescription   = "Account receiving the repositories"
	flagReposFileNameConstant = "repos-file"
	flagReposFileDescription  = "Path to a newline-delimited file of owner/name entries"
)

// InitiateCommandBuilder assembles the transfer initiate command.
type InitiateCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the initiate command.
func (builder *InitiateCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   initiateUseConstant,
		Short: initiateShortDescription,
		Long:  initiateLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagNewOwnerNameConstant, "", flagNewOwnerDescription)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescription)
	command.Flags().Duration(flagDelayNameConstant, defaultDelayFlagValue, flagDelayDescriptionConstant)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)
	_ = command.MarkFlagRequired(flagNewOwnerNameConstant)

	return command, nil
}

func (builder *InitiateCommandBuilder) run(command *cobra.Command, arguments []string) error {
	reposFilePath, _ := command.Flags().GetString(flagReposFileNameConstant)
	tokens, tokensError := dependencies.CollectRepositoryTokens(arguments, reposFilePath)
	if tokensError != nil {
		return tokensError
	}

	logger := resolveLogger(builder.LoggerProvider)
	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return clientError
	}

	service, serviceError := transfersvc.NewService(client, logger)
	if serviceError != nil {
		return serviceError
	}

	newOwnerValue, _ := command.Flags().GetString(flagNewOwnerNameConstant)
	dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
	delayValue, _ := command.Flags().GetDuration(flagDelayNameConstant)

	results, summary, initiateError := service.Initiate(command.Context(), tokens, newOwnerValue, transfersvc.Options{
		DryRun: dryRunValue,
		Delay:  delayValue,
	})
	if initiateError != nil {
		return initiateError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return output.PrintJSON(command.OutOrStdout(), results)
	}

	printResults(sink, results)
	sink.Line(summaryTemplateConstant, summary.Processed, summary.Skipped, summary.Failed, summary.Total)
	return nil
}
