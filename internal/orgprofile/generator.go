package orgprofile

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/llm"
)

// Template names for the rendered profile.
const (
	TemplateDefault  = "default"
	TemplateMinimal  = "minimal"
	TemplateDetailed = "detailed"
)

// Grouping modes for the repository listing.
const (
	GroupByCategory = "category"
	GroupByLanguage = "language"
	GroupByTopic    = "topic"
)

const (
	profileRepositoryNameConstant     = ".github"
	profileReadmePathConstant         = "profile/README.md"
	profileCommitMessageConstant      = "Update organization profile README"
	ungroupedLanguageConstant         = "Other"
	ungroupedTopicConstant            = "Uncategorized"
	descriptionColumnLimitConstant    = 60
	languageListCapConstant           = 10
	clientRequiredMessageConstant     = "orgprofile: repository client is required"
	noRepositoriesTemplateConstant    = "orgprofile: no repositories found for organization %s"
	organizationFetchTemplateConstant = "orgprofile: fetch organization: %w"
	logFieldOrganizationConstant      = "organization"
)

// RepositoryClient is the GitHub surface profile generation needs.
type RepositoryClient interface {
	OrganizationInfo(executionContext context.Context, organization string) (githubapi.Organization, error)
	ListOrganizationRepositories(executionContext context.Context, organization string, typeFilter githubapi.RepositoryTypeFilter) ([]githubapi.Repository, error)
	RepositoryInfo(executionContext context.Context, owner string, name string) (githubapi.Repository, error)
	CreateOrganizationRepository(executionContext context.Context, organization string, name string, description string, private bool) (githubapi.Repository, error)
	FileContents(executionContext context.Context, owner string, name string, path string) (githubapi.ContentFile, error)
	PutFile(executionContext context.Context, owner string, name string, options githubapi.PutFileOptions) error
}

// Completer produces text for a prompt. *llm.Client satisfies it.
type Completer interface {
	Complete(executionContext context.Context, request llm.Request) (string, error)
}

// Options controls what the generated profile includes.
type Options struct {
	Template     string
	GroupBy      string
	IncludeStats bool
	ExcludeForks bool
	MinimumStars int
	// MaximumRepositories caps the listing after star sorting; zero means
	// unlimited.
	MaximumRepositories int
	// GeneratedAt stamps the footer; zero means now.
	GeneratedAt time.Time
}

// Service generates organization profile READMEs.
type Service struct {
	client    RepositoryClient
	completer Completer
	logger    *zap.Logger
}

// NewService builds a Service. The completer is optional; without one the
// rule-based description is used.
func NewService(client RepositoryClient, completer Completer, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New(clientRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, completer: completer, logger: logger}, nil
}

// FetchRepositories lists the organization's repositories with filters
// applied, sorted by stars descending.
func (service *Service) FetchRepositories(executionContext context.Context, organization string, options Options) ([]githubapi.Repository, error) {
	repositories, listError := service.client.ListOrganizationRepositories(executionContext, organization, githubapi.RepositoryTypeAll)
	if listError != nil {
		return nil, listError
	}

	var filtered []githubapi.Repository
	for _, repository := range repositories {
		if options.ExcludeForks && repository.Fork {
			continue
		}
		if repository.Stars < options.MinimumStars {
			continue
		}
		if repository.Archived {
			continue
		}
		filtered = append(filtered, repository)
	}

	sort.SliceStable(filtered, func(left int, right int) bool {
		return filtered[left].Stars > filtered[right].Stars
	})

	if options.MaximumRepositories > 0 && len(filtered) > options.MaximumRepositories {
		filtered = filtered[:options.MaximumRepositories]
	}
	return filtered, nil
}

// GroupRepositories buckets repositories by category, language, or first
// topic, preserving order inside each bucket.
func GroupRepositories(repositories []githubapi.Repository, groupBy string) map[string][]githubapi.Repository {
	grouped := make(map[string][]githubapi.Repository)
	for _, repository := range repositories {
		var key string
		switch groupBy {
		case GroupByLanguage:
			key = repository.Language
			if key == "" {
				key = ungroupedLanguageConstant
			}
		case GroupByTopic:
			if len(repository.Topics) > 0 {
				key = repository.Topics[0]
			} else {
				key = ungroupedTopicConstant
			}
		default:
			key = InferCategory(repository)
		}
		grouped[key] = append(grouped[key], repository)
	}
	return grouped
}

// Generate produces the complete profile README for the organization.
func (service *Service) Generate(executionContext context.Context, organization string, options Options) (string, error) {
	organizationInfo, infoError := service.client.OrganizationInfo(executionContext, organization)
	if infoError != nil {
		return "", fmt.Errorf(organizationFetchTemplateConstant, infoError)
	}

	repositories, fetchError := service.FetchRepositories(executionContext, organization, options)
	if fetchError != nil {
		return "", fetchError
	}
	if len(repositories) == 0 {
		return "", fmt.Errorf(noRepositoriesTemplateConstant, organization)
	}

	description := service.GenerateDescription(executionContext, organizationInfo, repositories)
	grouped := GroupRepositories(repositories, options.GroupBy)

	generatedAt := options.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	switch options.Template {
	case TemplateMinimal:
		return renderMinimal(description, grouped), nil
	case TemplateDetailed:
		return renderDetailed(organizationInfo, description, grouped, repositories, options.IncludeStats, generatedAt), nil
	default:
		return renderDefault(description, grouped, options.IncludeStats, generatedAt), nil
	}
}

// Apply pushes the README to the organization's .github profile repository,
// creating the repository when it does not exist and carrying the blob SHA
// when updating.
func (service *Service) Apply(executionContext context.Context, organization string, content string) error {
	_, infoError := service.client.RepositoryInfo(executionContext, organization, profileRepositoryNameConstant)
	if infoError != nil {
		if !githubapi.IsNotFound(infoError) {
			return infoError
		}
		service.logger.Info("creating profile repository", zap.String(logFieldOrganizationConstant, organization))
		_, createError := service.client.CreateOrganizationRepository(
			executionContext,
			organization,
			profileRepositoryNameConstant,
			fmt.Sprintf("Organization profile for %s", organization),
			false,
		)
		if createError != nil {
			return createError
		}
	}

	options := githubapi.PutFileOptions{
		Path:    profileReadmePathConstant,
		Message: profileCommitMessageConstant,
		Content: []byte(content),
	}

	existing, contentsError := service.client.FileContents(executionContext, organization, profileRepositoryNameConstant, profileReadmePathConstant)
	if contentsError != nil {
		if !githubapi.IsNotFound(contentsError) {
			return contentsError
		}
	} else {
		if strings.TrimSpace(existing.Content) == strings.TrimSpace(content) {
			return nil
		}
		options.SHA = existing.SHA
	}

	return service.client.PutFile(executionContext, organization, profileRepositoryNameConstant, options)
}

func sortedGroupNames(grouped map[string][]githubapi.Repository) []string {
	names := make([]string, 0, len(grouped))
	for name := range grouped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func renderDefault(description Description, grouped map[string][]githubapi.Repository, includeStats bool, generatedAt time.Time) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n\n%s\n\n", description.Title, description.Tagline)
	if description.Mission != "" {
		builder.WriteString(description.Mission + "\n\n")
	}

	if len(description.FocusAreas) > 0 {
		builder.WriteString("## Focus Areas\n")
		for _, area := range description.FocusAreas {
			fmt.Fprintf(&builder, "- %s\n", area)
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Repositories\n\n")
	for _, groupName := range sortedGroupNames(grouped) {
		fmt.Fprintf(&builder, "### %s\n\n", groupName)
		builder.WriteString("| Repository | Description | Language | Stars |\n")
		builder.WriteString("|------------|-------------|----------|-------|\n")
		for _, repository := range grouped[groupName] {
			language := repository.Language
			if language == "" {
				language = "-"
			}
			fmt.Fprintf(&builder, "| [%s](%s) | %s | %s | %d |\n",
				repository.Name, repository.HTMLURL, descriptionColumn(repository.Description), language, repository.Stars)
		}
		builder.WriteString("\n")
	}

	if includeStats {
		builder.WriteString("## Stats\n")
		totalStars := 0
		totalRepositories := 0
		languages := make(map[string]bool)
		for _, repositories := range grouped {
			for _, repository := range repositories {
				totalStars += repository.Stars
				totalRepositories++
				if repository.Language != "" {
					languages[repository.Language] = true
				}
			}
		}
		fmt.Fprintf(&builder, "- **Repositories**: %d\n", totalRepositories)
		fmt.Fprintf(&builder, "- **Total Stars**: %d\n", totalStars)
		fmt.Fprintf(&builder, "- **Languages**: %s\n\n", strings.Join(sortedLanguageList(languages), ", "))
	}

	builder.WriteString("---\n")
	fmt.Fprintf(&builder, "*Generated with ghfolio on %s*\n", generatedAt.Format("2006-01-02"))
	return builder.String()
}

func renderMinimal(description Description, grouped map[string][]githubapi.Repository) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n\n%s\n\n", description.Title, description.Tagline)

	builder.WriteString("## Projects\n\n")
	for _, groupName := range sortedGroupNames(grouped) {
		for _, repository := range grouped[groupName] {
			repositoryDescription := repository.Description
			if repositoryDescription == "" {
				repositoryDescription = "No description"
			}
			fmt.Fprintf(&builder, "- [%s](%s) - %s\n", repository.Name, repository.HTMLURL, repositoryDescription)
		}
	}

	builder.WriteString("\n---\n")
	builder.WriteString("*Generated with ghfolio*\n")
	return builder.String()
}

func renderDetailed(organization githubapi.Organization, description Description, grouped map[string][]githubapi.Repository, repositories []githubapi.Repository, includeStats bool, generatedAt time.Time) string {
	var builder strings.Builder

	if organization.AvatarURL != "" {
		builder.WriteString("<p align=\"center\">\n")
		fmt.Fprintf(&builder, "  <img src=%q alt=%q width=\"200\" />\n", organization.AvatarURL, description.Title)
		builder.WriteString("</p>\n\n")
	}

	fmt.Fprintf(&builder, "# %s\n\n**%s**\n\n", description.Title, description.Tagline)
	if description.Mission != "" {
		fmt.Fprintf(&builder, "> %s\n\n", description.Mission)
	}

	builder.WriteString("## About\n\n")
	if organization.Location != "" {
		fmt.Fprintf(&builder, "- **Location**: %s\n", organization.Location)
	}
	if organization.Blog != "" {
		fmt.Fprintf(&builder, "- **Website**: [%s](%s)\n", organization.Blog, organization.Blog)
	}
	fmt.Fprintf(&builder, "- **GitHub**: [@%s](https://github.com/%s)\n\n", organization.Login, organization.Login)

	if len(description.FocusAreas) > 0 {
		builder.WriteString("## Focus Areas\n\n")
		highlighted := make([]string, len(description.FocusAreas))
		for index, area := range description.FocusAreas {
			highlighted[index] = "**" + area + "**"
		}
		builder.WriteString(strings.Join(highlighted, " | ") + "\n\n")
	}

	builder.WriteString("## Repositories\n\n")
	for _, groupName := range sortedGroupNames(grouped) {
		fmt.Fprintf(&builder, "### %s\n\n", groupName)
		for _, repository := range grouped[groupName] {
			repositoryDescription := repository.Description
			if repositoryDescription == "" {
				repositoryDescription = "No description"
			}
			language := repository.Language
			if language == "" {
				language = "Unknown"
			}

			fmt.Fprintf(&builder, "#### [%s](%s)\n\n%s\n\n", repository.Name, repository.HTMLURL, repositoryDescription)
			fmt.Fprintf(&builder, "![Language](https://img.shields.io/badge/language-%s-blue) \n", strings.ReplaceAll(language, " ", "%20"))
			fmt.Fprintf(&builder, "![Stars](https://img.shields.io/github/stars/%s?style=social) \n", repository.FullName)
			fmt.Fprintf(&builder, "![Forks](https://img.shields.io/github/forks/%s?style=social)\n\n", repository.FullName)

			if len(repository.Topics) > 0 {
				fmt.Fprintf(&builder, "**Topics**: %s\n\n", strings.Join(repository.Topics, ", "))
			}
		}
	}

	if includeStats {
		builder.WriteString("## Statistics\n\n")
		totalStars := 0
		totalForks := 0
		languageCounts := make(map[string]int)
		for _, repository := range repositories {
			totalStars += repository.Stars
			totalForks += repository.Forks
			if repository.Language != "" {
				languageCounts[repository.Language]++
			}
		}

		builder.WriteString("| Metric | Value |\n")
		builder.WriteString("|--------|-------|\n")
		fmt.Fprintf(&builder, "| Repositories | %d |\n", len(repositories))
		fmt.Fprintf(&builder, "| Total Stars | %d |\n", totalStars)
		fmt.Fprintf(&builder, "| Total Forks | %d |\n", totalForks)
		fmt.Fprintf(&builder, "| Languages | %d |\n\n", len(languageCounts))

		if len(languageCounts) > 0 {
			builder.WriteString("### Language Distribution\n\n")
			builder.WriteString("| Language | Repositories |\n")
			builder.WriteString("|----------|--------------|\n")
			for _, language := range topCounted(languageCounts, languageListCapConstant) {
				fmt.Fprintf(&builder, "| %s | %d |\n", language, languageCounts[language])
			}
			builder.WriteString("\n")
		}
	}

	builder.WriteString("---\n\n")
	fmt.Fprintf(&builder, "*Generated with ghfolio on %s*\n", generatedAt.Format("2006-01-02"))
	return builder.String()
}

func descriptionColumn(description string) string {
	escaped := strings.ReplaceAll(description, "|", "\\|")
	if len(escaped) > descriptionColumnLimitConstant {
		return escaped[:descriptionColumnLimitConstant] + "..."
	}
	return escaped
}

func sortedLanguageList(languages map[string]bool) []string {
	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > languageListCapConstant {
		names = names[:languageListCapConstant]
	}
	return names
}
