package portfolio

import (
	"github.com/spf13/cobra"

	"github.com/ghfolio/ghfolio/internal/extract"
	"github.com/ghfolio/ghfolio/internal/output"
	portfoliosvc "github.com/ghfolio/ghfolio/internal/portfolio"
)

const (
	auditUseConstant             = "audit"
	auditShortDescription        = "Check extracted records for metadata gaps"
	auditLongDescription         = "audit reads a JSON records file and reports repositories missing a description, topics, or a license."
	flagInputNameConstant        = "input"
	flagInputDescriptionConstant = "Path to the JSON records file produced by repo extract or portfolio generate"
	flagJSONNameConstant         = "json"
	flagJSONDescriptionConstant  = "Emit the audit report as JSON"
	auditSummaryTemplateConstant = "%d of %d repositories have issues"
	auditCleanMessageConstant    = "No metadata issues found."
)

var auditTableHeaders = []string{"REPOSITORY", "ISSUE", "SEVERITY", "SUGGESTION"}

// AuditCommandBuilder assembles the portfolio audit command.
type AuditCommandBuilder struct {
	LoggerProvider LoggerProvider
}

// Build constructs the audit command.
func (builder *AuditCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   auditUseConstant,
		Short: auditShortDescription,
		Long:  auditLongDescription,
		RunE:  builder.run,
	}

	command.Flags().String(flagInputNameConstant, "", flagInputDescriptionConstant)
	command.Flags().Bool(flagJSONNameConstant, false, flagJSONDescriptionConstant)
	_ = command.MarkFlagRequired(flagInputNameConstant)

	return command, nil
}

func (builder *AuditCommandBuilder) run(command *cobra.Command, arguments []string) error {
	inputPath, _ := command.Flags().GetString(flagInputNameConstant)
	records, loadError := extract.LoadRecords(inputPath)
	if loadError != nil {
		return loadError
	}

	report := portfoliosvc.Audit(records)

	sink := output.NewConsoleSink(command.OutOrStdout())
	jsonValue, _ := command.Flags().GetBool(flagJSONNameConstant)
	if jsonValue {
		return output.PrintJSON(command.OutOrStdout(), report)
	}

	if len(report.Issues) == 0 {
		sink.Success(auditCleanMessageConstant)
		return nil
	}

	rows := make([][]string, 0, len(report.Issues))
	for _, issue := range report.Issues {
		rows = append(rows, []string{issue.Repository, issue.Type, issue.Severity, issue.Suggestion})
	}
	sink.Table(auditTableHeaders, rows)
	sink.Line(auditSummaryTemplateConstant, report.RepositoriesWithIssues, report.TotalRepositories)
	return nil
}
