package portfolio

import "github.com/ghfolio/ghfolio/internal/extract"

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue types found by the audit.
const (
	IssueMissingDescription = "missing_description"
	IssueMissingTopics      = "missing_topics"
	IssueMissingLicense     = "missing_license"
)

// Issue is one metadata gap on one repository.
type Issue struct {
	Repository string `json:"repo"`
	SourceOrg  string `json:"org"`
	Type       string `json:"issue_type"`
	Severity   string `json:"severity"`
	Suggestion string `json:"suggestion"`
}

// AuditReport aggregates issues across a portfolio.
type AuditReport struct {
	TotalRepositories      int            `json:"total_repos"`
	RepositoriesWithIssues int            `json:"repos_with_issues"`
	Issues                 []Issue        `json:"issues"`
	Summary                map[string]int `json:"summary"`
}

// Audit flags repositories missing a description, topics, or a license.
// Missing descriptions are errors; the others are warnings.
func Audit(records []extract.Record) AuditReport {
	report := AuditReport{
		TotalRepositories: len(records),
		Summary: map[string]int{
			IssueMissingDescription: 0,
			IssueMissingTopics:      0,
			IssueMissingLicense:     0,
		},
	}

	flagged := make(map[string]bool)
	addIssue := func(record extract.Record, issueType string, severity string, suggestion string) {
		report.Issues = append(report.Issues, Issue{
			Repository: record.FullName,
			SourceOrg:  record.SourceOrg,
			Type:       issueType,
			Severity:   severity,
			Suggestion: suggestion,
		})
		report.Summary[issueType]++
		flagged[record.FullName] = true
	}

	for _, record := range records {
		if record.Description == "" {
			addIssue(record, IssueMissingDescription, SeverityError,
				"Add a clear, concise description explaining what this repository does")
		}
		if len(record.Topics) == 0 {
			addIssue(record, IssueMissingTopics, SeverityWarning,
				"Add relevant topic tags to improve discoverability")
		}
		if record.License == "" {
			addIssue(record, IssueMissingLicense, SeverityWarning,
				"Add a license to clarify usage terms")
		}
	}

	report.RepositoriesWithIssues = len(flagged)
	return report
}
