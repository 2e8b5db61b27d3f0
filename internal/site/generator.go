package site

import (
	"embed"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/ghfolio/ghfolio/internal/extract"
)

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

const (
	siteTemplateNameConstant    = "site.html.tmpl"
	landingTemplateNameConstant = "landing.html.tmpl"
	defaultSiteTitleConstant    = "Project Portfolio"
	ungroupedCategoryConstant   = "Other"
	parseTemplateConstant       = "site: parse templates: %w"
	renderTemplateConstant      = "site: render %s: %w"
)

// Options shape a generated site document.
type Options struct {
	Title       string
	Description string
	Theme       string
	// GeneratedAt stamps the footer; zero means now.
	GeneratedAt time.Time
}

// CategorySection is one grouped block of projects on the page.
type CategorySection struct {
	Name     string
	Projects []extract.Record
}

type sitePageData struct {
	Title       string
	Description string
	Theme       Theme
	Categories  []CategorySection
	GeneratedAt string
}

type landingPageData struct {
	Theme   Theme
	Project extract.Record
}

// Generator renders HTML documents from extraction records.
type Generator struct {
	templates *template.Template
}

// NewGenerator parses the embedded templates.
func NewGenerator() (*Generator, error) {
	parsed, parseError := template.ParseFS(templateFiles, "templates/*.html.tmpl")
	if parseError != nil {
		return nil, fmt.Errorf(parseTemplateConstant, parseError)
	}
	return &Generator{templates: parsed}, nil
}

// GroupByCategory buckets records by category and orders the sections: the
// theme's pinned categories first, the rest alphabetically.
func GroupByCategory(records []extract.Record, theme Theme) []CategorySection {
	grouped := make(map[string][]extract.Record)
	for _, record := range records {
		category := record.Category
		if category == "" {
			category = ungroupedCategoryConstant
		}
		grouped[category] = append(grouped[category], record)
	}

	pinned := make(map[string]int, len(theme.CategoryOrder))
	for index, category := range theme.CategoryOrder {
		pinned[category] = index
	}

	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Slice(names, func(left int, right int) bool {
		leftRank, leftPinned := pinned[names[left]]
		rightRank, rightPinned := pinned[names[right]]
		if leftPinned && rightPinned {
			return leftRank < rightRank
		}
		if leftPinned != rightPinned {
			return leftPinned
		}
		return names[left] < names[right]
	})

	sections := make([]CategorySection, 0, len(names))
	for _, name := range names {
		sections = append(sections, CategorySection{Name: name, Projects: grouped[name]})
	}
	return sections
}

// BuildSite renders the themed project listing as a standalone HTML document.
func (generator *Generator) BuildSite(records []extract.Record, options Options) (string, error) {
	theme := ThemeByName(options.Theme)

	title := options.Title
	if title == "" {
		title = defaultSiteTitleConstant
	}

	generatedAt := options.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	data := sitePageData{
		Title:       title,
		Description: options.Description,
		Theme:       theme,
		Categories:  GroupByCategory(records, theme),
		GeneratedAt: generatedAt.Format("2006-01-02"),
	}

	var builder strings.Builder
	if renderError := generator.templates.ExecuteTemplate(&builder, siteTemplateNameConstant, data); renderError != nil {
		return "", fmt.Errorf(renderTemplateConstant, siteTemplateNameConstant, renderError)
	}
	return builder.String(), nil
}

// BuildLandingPage renders a single-repository landing page.
func (generator *Generator) BuildLandingPage(record extract.Record, themeName string) (string, error) {
	data := landingPageData{
		Theme:   ThemeByName(themeName),
		Project: record,
	}

	var builder strings.Builder
	if renderError := generator.templates.ExecuteTemplate(&builder, landingTemplateNameConstant, data); renderError != nil {
		return "", fmt.Errorf(renderTemplateConstant, landingTemplateNameConstant, renderError)
	}
	return builder.String(), nil
}
