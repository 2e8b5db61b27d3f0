package repo

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	listUseConstant             = "list [owner]"
	listShortDescription        = "List repositories for a user or organization"
	listLongDescription         = "list prints the repositories of the given owner, or of the authenticated user when no owner is passed."
	flagTypeNameConstant        = "type"
	flagTypeDescriptionConstant = "Repository type filter: all, sources, forks, or member"
	flagLimitNameConstant       = "limit"
	flagLimitDescription        = "Maximum number of repositories to print; zero prints all"
	visibilityPrivateConstant   = "private"
	visibilityPublicConstant    = "public"
	listSummaryTemplateConstant = "%d repositories"
)

var listTableHeaders = []string{"REPOSITORY", "STARS", "LANGUAGE", "VISIBILITY"}

// ListCommandBuilder assembles the repo list command.
type ListCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescription,
		Long:  listLongDescription,
		Args:  cobra.MaximumNArgs(1),
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagTypeNameConstant, string(githubapi.RepositoryTypeAll), flagTypeDescriptionConstant)
	command.Flags().Int(flagLimitNameConstant, 0, flagLimitDescription)
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

	owner := ""
	if len(arguments) == 1 {
		owner = arguments[0]
	}
	if owner == "" {
		authenticatedUser, userError := client.AuthenticatedUser(command.Context())
		if userError != nil {
			return userError
		}
		owner = authenticatedUser.Login
	}

	typeValue, _ := command.Flags().GetString(flagTypeNameConstant)
	typeFilter := githubapi.RepositoryTypeFilter(typeValue)

	isOrganization, typeError := client.IsOrganization(command.Context(), owner)
	if typeError != nil {
		return typeError
	}

	var repositories []githubapi.Repository
	var listError error
	if isOrganization {
		repositories, listError = client.ListOrganizationRepositories(command.Context(), owner, typeFilter)
	} else {
		repositories, listError = client.ListUserRepositories(command.Context(), owner, typeFilter)
	}
	if listError != nil {
		return listError
	}

	limitValue, _ := command.Flags().GetInt(flagLimitNameConstant)
	if limitValue > 0 && len(repositories) > limitValue {
		repositories = repositories[:limitValue]
	}

	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return printJSON(command, repositories)
	}

	sink := output.NewConsoleSink(command.OutOrStdout())
	rows := make([][]string, 0, len(repositories))
	for _, repository := range repositories {
		visibility := visibilityPublicConstant
		if repository.Private {
			visibility = visibilityPrivateConstant
		}
		rows = append(rows, []string{
			repository.FullName,
			strconv.Itoa(repository.Stars),
			repository.Language,
			visibility,
		})
	}
	sink.Table(listTableHeaders, rows)
	sink.Line(listSummaryTemplateConstant, len(repositories))
	return nil
}
