package transfer

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/output"
	transfersvc "github.com/ghfolio/ghfolio/internal/transfer"
)

const (
	listUseConstant           = "list"
	listShortDescription      = "List pending transfer invitations"
	listLongDescription       = "list shows the repository invitations awaiting acceptance by the authenticated user."
	noPendingMessageConstant  = "No pending invitations."
	pendingCountTemplateConst = "%d pending invitations"
	invitationDateLayoutConst = "2006-01-02"
)

var pendingTableHeaders = []string{"REPOSITORY", "INVITER", "INVITED"}

// ListCommandBuilder assembles the transfer list command.
type ListCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescription,
		Long:  listLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)

	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	pending, listError := service.ListPending(command.Context())
	if listError != nil {
		return listError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return output.PrintJSON(command.OutOrStdout(), pending)
	}

	if len(pending) == 0 {
		sink.Line(noPendingMessageConstant)
		return nil
	}

	rows := make([][]string, 0, len(pending))
	for _, invitation := range pending {
		rows = append(rows, []string{
			invitation.RepositoryFull,
			invitation.InviterLogin,
			invitation.CreatedAt.Format(invitationDateLayoutConst),
		})
	}
	sink.Table(pendingTableHeaders, rows)
	sink.Line(pendingCountTemplateConst, len(pending))
	return nil
}
