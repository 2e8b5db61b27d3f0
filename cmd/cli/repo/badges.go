package repo

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/badges"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	badgesUseConstant            = "badges [owner/name ...]"
	badgesShortDescription       = "Render shields.io badge markdown for repositories"
	badgesLongDescription        = "badges prints a markdown badge line per repository covering language, license, stars, forks, and topics."
	flagStyleNameConstant        = "style"
	flagStyleDescriptionConstant = "Badge style: flat, flat-square, plastic, or for-the-badge"
	badgesHeaderTemplateConstant = "## %s"
)

// BadgesCommandBuilder assembles the repo badges command.
type BadgesCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the badges command.
func (builder *BadgesCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   badgesUseConstant,
		Short: badgesShortDescription,
		Long:  badgesLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().String(flagStyleNameConstant, badges.StyleFlat, flagStyleDescriptionConstant)

	return command, nil
}

func (builder *BadgesCommandBuilder) run(command *cobra.Command, arguments []string) error {
	styleValue, _ := command.Flags().GetString(flagStyleNameConstant)
	if styleError := badges.ValidateStyle(styleValue); styleError != nil {
		return styleError
	}

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

	sink := output.NewConsoleSink(command.OutOrStdout())
	for _, repository := range identifiers {
		metadata, metadataError := client.RepositoryInfo(command.Context(), repository.Owner, repository.Name)
		if metadataError != nil {
			sink.Warning("%s: %v", repository.String(), metadataError)
			continue
		}
		if topics, topicsError := client.Topics(command.Context(), repository.Owner, repository.Name); topicsError == nil && len(topics) > 0 {
			metadata.Topics = topics
		}

		built := badges.ForRepository(metadata, styleValue)
		sink.Line(badgesHeaderTemplateConstant, metadata.FullName)
		sink.Line("%s", badges.MarkdownLine(built))
	}
	return nil
}
