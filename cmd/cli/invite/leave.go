package invite

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	invitesvc "github.com/ghfolio/ghfolio/internal/invite"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	leaveUseConstant          = "leave [owner/name ...]"
	leaveShortDescription     = "Leave repositories as a collaborator"
	leaveLongDescription      = "leave removes the authenticated user as a collaborator from each listed repository."
	flagReposFileNameConstant = "repos-file"
	flagReposFileDescription  = "Path to a newline-delimited file of owner/name entries"
)

// LeaveCommandBuilder assembles the invite leave command.
type LeaveCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the leave command.
func (builder *LeaveCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   leaveUseConstant,
		Short: leaveShortDescription,
		Long:  leaveLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescription)
	command.Flags().Duration(flagDelayNameConstant, defaultDelayFlagValueConstant, flagDelayDescriptionConstant)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)

	return command, nil
}

func (builder *LeaveCommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	service, serviceError := invitesvc.NewService(client, logger)
	if serviceError != nil {
		return serviceError
	}

	dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
	delayValue, _ := command.Flags().GetDuration(flagDelayNameConstant)

	results, summary, leaveError := service.LeaveRepositories(command.Context(), tokens, invitesvc.Options{
		DryRun: dryRunValue,
		Delay:  delayValue,
	})
	if leaveError != nil {
		return leaveError
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
