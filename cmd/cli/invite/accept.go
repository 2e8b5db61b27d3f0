package invite

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	invitesvc "github.com/ghfolio/ghfolio/internal/invite"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	acceptUseConstant             = "accept"
	acceptShortDescription        = "Accept pending repository invitations"
	acceptLongDescription         = "accept processes every pending invitation, optionally filtered to one inviter, and accepts or declines each."
	flagTokenNameConstant         = "token"
	flagTokenDescriptionConstant  = "GitHub API token (defaults to GITHUB_TOKEN or GH_TOKEN)"
	flagOwnerNameConstant         = "owner"
	flagOwnerDescriptionConstant  = "Only process invitations from this inviter"
	flagDeclineNameConstant       = "decline"
	flagDeclineDescription        = "Decline matching invitations instead of accepting them"
	flagDryRunNameConstant        = "dry-run"
	flagDryRunDescription         = "Preview actions without writing to GitHub"
	flagDelayNameConstant         = "delay"
	flagDelayDescriptionConstant  = "Pause between write calls to respect API rate limits"
	flagJSONNameConstant          = "json"
	flagJSONDescriptionConstant   = "Emit machine-readable JSON instead of a table"
	noInvitationsMessageConstant  = "No pending invitations."
	summaryTemplateConstant       = "%d processed, %d skipped, %d failed (%d total)"
	defaultDelayFlagValueConstant = 0
)

var resultTableHeaders = []string{"REPOSITORY", "INVITER", "STATUS", "MESSAGE"}

// AcceptCommandBuilder assembles the invite accept command.
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
	command.Flags().Bool(flagDeclineNameConstant, false, flagDeclineDescription)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescription)
	command.Flags().Duration(flagDelayNameConstant, defaultDelayFlagValueConstant, flagDelayDescriptionConstant)
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

	service, serviceError := invitesvc.NewService(client, logger)
	if serviceError != nil {
		return serviceError
	}

	ownerValue, _ := command.Flags().GetString(flagOwnerNameConstant)
	declineValue, _ := command.Flags().GetBool(flagDeclineNameConstant)
	dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
	delayValue, _ := command.Flags().GetDuration(flagDelayNameConstant)

	results, summary, processError := service.ProcessInvitations(command.Context(), invitesvc.Options{
		Owner:   ownerValue,
		Decline: declineValue,
		DryRun:  dryRunValue,
		Delay:   delayValue,
	})
	if processError != nil {
		return processError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return output.PrintJSON(command.OutOrStdout(), results)
	}

	if len(results) == 0 {
		sink.Line(noInvitationsMessageConstant)
		return nil
	}

	printResults(sink, results)
	sink.Line(summaryTemplateConstant, summary.Processed, summary.Skipped, summary.Failed, summary.Total)
	return nil
}

func printResults(sink output.Sink, results []invitesvc.Result) {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		rows = append(rows, []string{result.Repository, result.Inviter, result.Status, result.Message})
	}
	sink.Table(resultTableHeaders, rows)
}
