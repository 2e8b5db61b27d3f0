package transfer

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/output"
	transfersvc "github.com/ghfolio/ghfolio/internal/transfer"
)

const (
	acceptUseConstant            = "accept"
	acceptShortDescription       = "Accept pending transfer invitations"
	acceptLongDescription        = "accept completes pending repository transfers, optionally filtered to repositories under one owner."
	flagOwnerNameConstant        = "owner"
	flagOwnerDescriptionConstant = "Only accept invitations for repositories under this owner"
	noAcceptableMessageConstant  = "No pending invitations."
)

// AcceptCommandBuilder assembles the transfer accept command.
type AcceptCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the accept command.
func (builder *AcceptCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   acceptUseConstant,
		Short: acceptShortDescription,
		Long:  acceptLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagOwnerNameConstant, "", flagOwnerDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescription)
	command.Flags().Duration(flagDelayNameConstant, defaultDelayFlagValue, flagDelayDescriptionConstant)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)

	return command, nil
}

func (builder *AcceptCommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	ownerValue, _ := command.Flags().GetString(flagOwnerNameConstant)
	dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
	delayValue, _ := command.Flags().GetDuration(flagDelayNameConstant)

	results, summary, acceptError := service.Accept(command.Context(), transfersvc.Options{
		Owner:  ownerValue,
		DryRun: dryRunValue,
		Delay:  delayValue,
	})
	if acceptError != nil {
		return acceptError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return output.PrintJSON(command.OutOrStdout(), results)
	}

	if len(results) == 0 {
		sink.Line(noAcceptableMessageConstant)
		return nil
	}

	printResults(sink, results)
	sink.Line(summaryTemplateConstant, summary.Processed, summary.Skipped, summary.Failed, summary.Total)
	return nil
}
