package repo

import "github.com/spf13/cobra"

const (
	groupUseConstant      = "repo"
	groupShortDescription = "Inspect and maintain individual repositories"
	groupLongDescription  = "repo groups subcommands that list, extract, score, clone, and enrich repositories."
)

// CommandGroupBuilder assembles the repo command group.
type CommandGroupBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the repo command hierarchy.
func (builder *CommandGroupBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   groupUseConstant,
		Short: groupShortDescription,
		Long:  groupLongDescription,
	}

	listBuilder := ListCommandBuilder{LoggerProvider: builder.LoggerProvider}
	listCommand, listError := listBuilder.Build()
	if listError == nil {
		command.AddCommand(listCommand)
	}

	extractBuilder := ExtractCommandBuilder{LoggerProvider: builder.LoggerProvider}
	extractCommand, extractError := extractBuilder.Build()
	if extractError == nil {
		command.AddCommand(extractCommand)
	}

	healthBuilder := HealthCommandBuilder{LoggerProvider: builder.LoggerProvider}
	healthCommand, healthError := healthBuilder.Build()
	if healthError == nil {
		command.AddCommand(healthCommand)
	}

	cloneBuilder := CloneCommandBuilder{LoggerProvider: builder.LoggerProvider}
	cloneCommand, cloneError := cloneBuilder.Build()
	if cloneError == nil {
		command.AddCommand(cloneCommand)
	}

	describeBuilder := DescribeCommandBuilder{LoggerProvider: builder.LoggerProvider}
	describeCommand, describeError := describeBuilder.Build()
	if describeError == nil {
		command.AddCommand(describeCommand)
	}

	readmeBuilder := ReadmeCommandBuilder{LoggerProvider: builder.LoggerProvider}
	readmeCommand, readmeError := readmeBuilder.Build()
	if readmeError == nil {
		command.AddCommand(readmeCommand)
	}

	licenseBuilder := LicenseCommandBuilder{LoggerProvider: builder.LoggerProvider}
	licenseCommand, licenseError := licenseBuilder.Build()
	if licenseError == nil {
		command.AddCommand(licenseCommand)
	}

	badgesBuilder := BadgesCommandBuilder{LoggerProvider: builder.LoggerProvider}
	badgesCommand, badgesError := badgesBuilder.Build()
	if badgesError == nil {
		command.AddCommand(badgesCommand)
	}

	return command, nil
}
