package repo

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/cmd/cli/dependencies"
	"github.com/ghfolio/ghfolio/internal/licenses"
	"github.com/ghfolio/ghfolio/internal/output"
)

const (
	licenseUseConstant             = "license [owner/name ...]"
	licenseShortDescription        = "Add license files to repositories"
	licenseLongDescription         = "license commits a LICENSE file built from a GitHub license template to each repository that lacks one."
	flagLicenseKeyNameConstant     = "license"
	flagLicenseKeyDescription      = "License template key, for example mit or apache-2.0"
	flagHolderNameConstant         = "name"
	flagHolderDescriptionConstant  = "Copyright holder; the repository owner when empty"
	flagYearNameConstant           = "year"
	flagYearDescriptionConstant    = "Copyright year; the current year when zero"
	flagListLicensesNameConstant   = "list"
	flagListLicensesDescription    = "List available license templates and exit"
	defaultLicenseKeyConstant      = "mit"
	licenseProgressDescription     = "Licensing repositories"
	licenseSummaryTemplateConstant = "%d written, %d skipped, %d failed (%d total)"
)

var (
	licenseTableHeaders     = []string{"REPOSITORY", "LICENSE", "STATUS", "REASON"}
	licenseListTableHeaders = []string{"KEY", "NAME"}
)

// LicenseCommandBuilder assembles the repo license command.
type LicenseCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the license command.
func (builder *LicenseCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   licenseUseConstant,
		Short: licenseShortDescription,
		Long:  licenseLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagTokenNameConstant, "", flagTokenDescriptionConstant)
	command.Flags().String(flagReposFileNameConstant, "", flagReposFileDescription)
	command.Flags().String(flagLicenseKeyNameConstant, defaultLicenseKeyConstant, flagLicenseKeyDescription)
	command.Flags().String(flagHolderNameConstant, "", flagHolderDescriptionConstant)
	command.Flags().Int(flagYearNameConstant, 0, flagYearDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescription)
	command.Flags().Bool(flagForceNameConstant, false, flagForceDescriptionConstant)
	command.Flags().Duration(flagDelayNameConstant, defaultDelayFlagValueConstant, flagDelayDescriptionConstant)
	command.Flags().Bool(flagListLicensesNameConstant, false, flagListLicensesDescription)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)

	return command, nil
}

func (builder *LicenseCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)
	tokenValue, _ := command.Flags().GetString(flagTokenNameConstant)
	client, clientError := dependencies.ResolveGitHubClient(tokenValue, logger)
	if clientError != nil {
		return clientError
	}

	manager, managerError := licenses.NewManager(client, logger)
	if managerError != nil {
		return managerError
	}

	sink := output.NewConsoleSink(command.OutOrStdout())

	listValue, _ := command.Flags().GetBool(flagListLicensesNameConstant)
	if listValue {
		available, listError := manager.AvailableLicenses(command.Context())
		if listError != nil {
			return listError
		}
		rows := make([][]string, 0, len(available))
		for _, license := range available {
			rows = append(rows, []string{license.Key, license.Name})
		}
		sink.Table(licenseListTableHeaders, rows)
		return nil
	}

	identifiers, identifiersError := collectIdentifiers(command, arguments)
	if identifiersError != nil {
		return identifiersError
	}

	licenseKeyValue, _ := command.Flags().GetString(flagLicenseKeyNameConstant)
	holderValue, _ := command.Flags().GetString(flagHolderNameConstant)
	yearValue, _ := command.Flags().GetInt(flagYearNameConstant)
	dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
	forceValue, _ := command.Flags().GetBool(flagForceNameConstant)
	delayValue, _ := command.Flags().GetDuration(flagDelayNameConstant)

	progressBar := dependencies.NewProgressBar(len(identifiers), licenseProgressDescription)
	results := manager.ProcessRepositories(command.Context(), identifiers, licenses.Options{
		LicenseKey: licenseKeyValue,
		FullName:   holderValue,
		Year:       yearValue,
		DryRun:     dryRunValue,
		Force:      forceValue,
		Delay:      delayValue,
		Progress: func(result licenses.Result, completed int, total int) {
			_ = progressBar.Add(1)
		},
	})

	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return printJSON(command, results)
	}

	written, skipped, failed := 0, 0, 0
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		switch result.Status {
		case licenses.StatusCreated, licenses.StatusUpdated, licenses.StatusDryRun:
			written++
		case licenses.StatusSkipped:
			skipped++
		default:
			failed++
		}
		rows = append(rows, []string{result.Repository, result.LicenseKey, result.Status, result.Reason})
	}
	sink.Table(licenseTableHeaders, rows)
	sink.Line(licenseSummaryTemplateConstant, written, skipped, failed, len(results))
	return nil
}
