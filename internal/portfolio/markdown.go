package portfolio

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ghfolio/ghfolio/internal/extract"
	"github.com/ghfolio/ghfolio/internal/githubapi"
)

// Grouping modes for the portfolio README.
const (
	GroupByOrganization = "org"
	GroupByCategory     = "category"
	GroupByLanguage     = "language"
)

const (
	descriptionCellLimitConstant = 50
	ungroupedNameConstant        = "Other"
	defaultTitleSuffixConstant   = "'s Project Portfolio"
)

// MarkdownOptions shape the rendered portfolio README.
type MarkdownOptions struct {
	Title   string
	GroupBy string
	// Owner names the portfolio when Title is empty.
	Owner string
	// GeneratedAt stamps the footer; zero means now.
	GeneratedAt time.Time
}

// GroupRecords buckets records by the chosen key, preserving record order
// within each bucket.
func GroupRecords(records []extract.Record, groupBy string) map[string][]extract.Record {
	grouped := make(map[string][]extract.Record)
	for _, record := range records {
		var key string
		switch groupBy {
		case GroupByOrganization:
			key = record.SourceOrg
		case GroupByLanguage:
			key = record.Language
		default:
			key = record.Category
		}
		if key == "" {
			key = ungroupedNameConstant
		}
		grouped[key] = append(grouped[key], record)
	}
	return grouped
}

func sortedGroupNames(grouped map[string][]extract.Record) []string {
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderMarkdown produces the grouped portfolio README.
func RenderMarkdown(records []extract.Record, organizations map[string]githubapi.Organization, options MarkdownOptions) string {
	title := options.Title
	if title == "" {
		owner := options.Owner
		if owner == "" {
			owner = "My"
		}
		title = owner + defaultTitleSuffixConstant
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n\n", title)

	if len(organizations) > 0 {
		builder.WriteString("## Organizations\n\n")
		names := make([]string, 0, len(organizations))
		for name := range organizations {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			description := organizations[name].Description
			if description == "" {
				description = "No description"
			}
			fmt.Fprintf(&builder, "- [%s](https://github.com/%s) - %s\n", name, name, description)
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Projects\n\n")
	grouped := GroupRecords(records, options.GroupBy)
	for _, groupName := range sortedGroupNames(grouped) {
		fmt.Fprintf(&builder, "### %s\n\n", groupName)
		builder.WriteString("| Project | Description | Category | Stars |\n")
		builder.WriteString("|---------|-------------|----------|-------|\n")
		for _, record := range grouped[groupName] {
			fmt.Fprintf(&builder, "| [%s](%s) | %s | %s | %d |\n",
				record.Name, record.URL, descriptionCell(record.Description), record.Category, record.Stars)
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Summary\n\n")
	builder.WriteString("| Metric | Value |\n")
	builder.WriteString("|--------|-------|\n")
	fmt.Fprintf(&builder, "| Total Projects | %d |\n", len(records))
	fmt.Fprintf(&builder, "| Organizations | %d |\n", len(organizations))

	totalStars := 0
	languages := make(map[string]bool)
	for _, record := range records {
		totalStars += record.Stars
		if record.Language != "" {
			languages[record.Language] = true
		}
	}
	fmt.Fprintf(&builder, "| Total Stars | %d |\n", totalStars)
	fmt.Fprintf(&builder, "| Languages | %d |\n\n", len(languages))

	generatedAt := options.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	builder.WriteString("---\n")
	fmt.Fprintf(&builder, "*Generated with ghfolio on %s*\n", generatedAt.Format("2006-01-02"))

	return builder.String()
}

func descriptionCell(description string) string {
	if description == "" {
		return "No description"
	}
	escaped := strings.ReplaceAll(description, "|", "\\|")
	if len(escaped) > descriptionCellLimitConstant {
		return escaped[:descriptionCellLimitConstant] + "..."
	}
	return escaped
}
