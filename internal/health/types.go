package health

import "github.com/ghfolio/ghfolio/internal/githubapi"

// Check categories used for report breakdowns.
const (
	CategoryDocumentation   = "documentation"
	CategoryCompliance      = "compliance"
	CategoryDiscoverability = "discoverability"
	CategoryAutomation      = "automation"
	CategoryQuality         = "quality"
	CategoryMaintenance     = "maintenance"
)

// Evidence is the read-only repository state every check evaluates against.
// Sections that could not be fetched stay at their zero values with the
// corresponding Missing flag set, which makes dependent checks fail rather
// than aborting the report.
type Evidence struct {
	Repository       githubapi.Repository
	ReadmeContent    string
	ReadmeMissing    bool
	RootEntries      []githubapi.TreeEntry
	RootMissing      bool
	Workflows        []githubapi.WorkflowFile
	WorkflowsMissing bool
}

// Check is one weighted predicate of a rule set.
type Check struct {
	Name          string
	Category      string
	Weight        int
	FixSuggestion string
	Evaluate      func(evidence Evidence) (bool, string)
}

// CheckResult records the outcome of one check for one repository.
type CheckResult struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Weight        int    `json:"weight"`
	Passed        bool   `json:"passed"`
	Message       string `json:"message"`
	FixSuggestion string `json:"fix_suggestion,omitempty"`
}

// CategorySummary aggregates pass counts for one category.
type CategorySummary struct {
	Passed     int     `json:"passed"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// RepositoryInfo carries display metadata alongside the score.
type RepositoryInfo struct {
	Language string `json:"language"`
	Stars    int    `json:"stars"`
	SizeKB   int    `json:"size_kb"`
}

// Report is the scored outcome for one repository.
type Report struct {
	Repository     string                     `json:"repository"`
	RuleSet        string                     `json:"rule_set"`
	TotalScore     int                        `json:"total_score"`
	MaxScore       int                        `json:"max_score"`
	Percentage     float64                    `json:"percentage"`
	Grade          string                     `json:"grade"`
	Checks         []CheckResult              `json:"checks"`
	Issues         []CheckResult              `json:"issues"`
	ByCategory     map[string]CategorySummary `json:"by_category"`
	RepositoryInfo RepositoryInfo             `json:"repository_info"`
}

// GradeFor maps a percentage onto the fixed letter bands.
func GradeFor(percentage float64) string {
	switch {
	case percentage >= 90:
		return "A"
	case percentage >= 80:
		return "B"
	case percentage >= 70:
		return "C"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}
