package portfolio_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/extract"
	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/portfolio"
)

type stubRepositoryClient struct {
	repositoriesByOrganization map[string][]githubapi.Repository
	organizations              map[string]githubapi.Organization
	failingOrganizations       map[string]bool
}

func (stub *stubRepositoryClient) ListUserOrganizations(context.Context) ([]githubapi.Organization, error) {
	var organizations []githubapi.Organization
	for _, organization := range stub.organizations {
		organizations = append(organizations, organization)
	}
	return organizations, nil
}

func (stub *stubRepositoryClient) ListOrganizationRepositories(_ context.Context, organization string, _ githubapi.RepositoryTypeFilter) ([]githubapi.Repository, error) {
	if stub.failingOrganizations[organization] {
		return nil, errors.New("listing failed")
	}
	return stub.repositoriesByOrganization[organization], nil
}

func (stub *stubRepositoryClient) OrganizationInfo(_ context.Context, organization string) (githubapi.Organization, error) {
	if stub.failingOrganizations[organization] {
		return githubapi.Organization{}, errors.New("info failed")
	}
	return stub.organizations[organization], nil
}

func (stub *stubRepositoryClient) AuthenticatedUser(context.Context) (githubapi.User, error) {
	return githubapi.User{Login: "octocat", Name: "Mona"}, nil
}

func TestAggregateRepositoriesFiltersAndSorts(t *testing.T) {
	client := &stubRepositoryClient{
		repositoriesByOrganization: map[string][]githubapi.Repository{
			"acme": {
				{Name: "small", FullName: "acme/small", Stars: 1},
				{Name: "forked", FullName: "acme/forked", Stars: 50, Fork: true},
				{Name: "secret", FullName: "acme/secret", Stars: 40, Private: true},
				{Name: "dusty", FullName: "acme/dusty", Stars: 30, Archived: true},
				{Name: "popular", FullName: "acme/popular", Stars: 20},
			},
			"labs": {
				{Name: "famous", FullName: "labs/famous", Stars: 90},
			},
		},
	}
	service, creationError := portfolio.NewService(client, nil)
	require.NoError(t, creationError)

	records := service.AggregateRepositories(context.Background(), []string{"acme", "labs"}, portfolio.AggregateOptions{
		ExcludeForks: true,
		MinimumStars: 5,
	})

	require.Len(t, records, 2)
	require.Equal(t, "famous", records[0].Name)
	require.Equal(t, "labs", records[0].SourceOrg)
	require.Equal(t, "popular", records[1].Name)
	require.Equal(t, "acme", records[1].SourceOrg)
}

func TestAggregateRepositoriesCapsAfterSorting(t *testing.T) {
	client := &stubRepositoryClient{
		repositoriesByOrganization: map[string][]githubapi.Repository{
			"acme": {
				{Name: "first", FullName: "acme/first", Stars: 5},
				{Name: "second", FullName: "acme/second", Stars: 15},
				{Name: "third", FullName: "acme/third", Stars: 10},
			},
		},
	}
	service, creationError := portfolio.NewService(client, nil)
	require.NoError(t, creationError)

	records := service.AggregateRepositories(context.Background(), []string{"acme"}, portfolio.AggregateOptions{
		MaximumRepositories: 2,
	})

	require.Len(t, records, 2)
	require.Equal(t, "second", records[0].Name)
	require.Equal(t, "third", records[1].Name)
}

func TestAggregateRepositoriesSkipsFailingOrganization(t *testing.T) {
	client := &stubRepositoryClient{
		repositoriesByOrganization: map[string][]githubapi.Repository{
			"acme": {{Name: "kept", FullName: "acme/kept", Stars: 3}},
		},
		failingOrganizations: map[string]bool{"broken": true},
	}
	service, creationError := portfolio.NewService(client, nil)
	require.NoError(t, creationError)

	records := service.AggregateRepositories(context.Background(), []string{"broken", "acme"}, portfolio.AggregateOptions{})

	require.Len(t, records, 1)
	require.Equal(t, "kept", records[0].Name)
}

func TestNewServiceRequiresClient(t *testing.T) {
	_, creationError := portfolio.NewService(nil, nil)
	require.Error(t, creationError)
}

func TestAuditFlagsMissingMetadata(t *testing.T) {
	records := []extract.Record{
		{FullName: "acme/bare", SourceOrg: "acme"},
		{FullName: "acme/documented", SourceOrg: "acme", Description: "Does things", Topics: []string{"go"}, License: "MIT"},
		{FullName: "labs/partial", SourceOrg: "labs", Description: "Half done", License: "MIT"},
	}

	report := portfolio.Audit(records)

	require.Equal(t, 3, report.TotalRepositories)
	require.Equal(t, 2, report.RepositoriesWithIssues)
	require.Len(t, report.Issues, 4)
	require.Equal(t, 1, report.Summary[portfolio.IssueMissingDescription])
	require.Equal(t, 2, report.Summary[portfolio.IssueMissingTopics])
	require.Equal(t, 1, report.Summary[portfolio.IssueMissingLicense])

	require.Equal(t, portfolio.SeverityError, report.Issues[0].Severity)
	require.Equal(t, portfolio.IssueMissingDescription, report.Issues[0].Type)
	require.Equal(t, "acme/bare", report.Issues[0].Repository)
}

func TestAuditCleanPortfolioHasNoIssues(t *testing.T) {
	records := []extract.Record{
		{FullName: "acme/done", Description: "Finished", Topics: []string{"cli"}, License: "Apache-2.0"},
	}

	report := portfolio.Audit(records)

	require.Zero(t, report.RepositoriesWithIssues)
	require.Empty(t, report.Issues)
}

func TestGroupRecordsByLanguageBucketsEmptyAsOther(t *testing.T) {
	records := []extract.Record{
		{Name: "gopher", Language: "Go"},
		{Name: "mystery"},
		{Name: "snake", Language: "Python"},
	}

	grouped := portfolio.GroupRecords(records, portfolio.GroupByLanguage)

	require.Len(t, grouped, 3)
	require.Equal(t, "mystery", grouped["Other"][0].Name)
	require.Equal(t, "gopher", grouped["Go"][0].Name)
}

func TestRenderMarkdownGroupsAndSummarizes(t *testing.T) {
	records := []extract.Record{
		{
			Name:        "alpha",
			FullName:    "acme/alpha",
			URL:         "https://github.com/acme/alpha",
			Description: "Tools | with pipes and a description long enough to get truncated here",
			Stars:       12,
			Language:    "Go",
			Category:    "Developer Tool",
			SourceOrg:   "acme",
		},
		{
			Name:      "beta",
			FullName:  "labs/beta",
			URL:       "https://github.com/labs/beta",
			Stars:     3,
			Language:  "Go",
			Category:  "Library",
			SourceOrg: "labs",
		},
	}
	organizations := map[string]githubapi.Organization{
		"acme": {Login: "acme", Description: "Makers of things"},
		"labs": {Login: "labs"},
	}

	markdown := portfolio.RenderMarkdown(records, organizations, portfolio.MarkdownOptions{
		Owner:       "Mona",
		GroupBy:     portfolio.GroupByOrganization,
		GeneratedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	require.True(t, strings.HasPrefix(markdown, "# Mona's Project Portfolio\n"))
	require.Contains(t, markdown, "- [acme](https://github.com/acme) - Makers of things\n")
	require.Contains(t, markdown, "- [labs](https://github.com/labs) - No description\n")
	require.Contains(t, markdown, "### acme\n")
	require.Contains(t, markdown, "### labs\n")
	require.Contains(t, markdown, "| Project | Description | Category | Stars |")
	require.Contains(t, markdown, "| [beta](https://github.com/labs/beta) | No description | Library | 3 |")
	require.Contains(t, markdown, "| Total Projects | 2 |")
	require.Contains(t, markdown, "| Organizations | 2 |")
	require.Contains(t, markdown, "| Total Stars | 15 |")
	require.Contains(t, markdown, "| Languages | 1 |")
	require.Contains(t, markdown, "*Generated with ghfolio on 2024-05-01*")
}

func TestRenderMarkdownTruncatesAndEscapesDescriptions(t *testing.T) {
	description := "Tools | with pipes and a description long enough to get truncated here"
	records := []extract.Record{{
		Name:        "alpha",
		URL:         "https://github.com/acme/alpha",
		Description: description,
		Category:    "Developer Tool",
	}}

	markdown := portfolio.RenderMarkdown(records, nil, portfolio.MarkdownOptions{Title: "Portfolio"})

	escaped := strings.ReplaceAll(description, "|", "\\|")
	require.Contains(t, markdown, "| "+escaped[:50]+"... |")
	require.NotContains(t, markdown, "| "+escaped+" |")
}

func TestRenderMarkdownDefaultsTitleOwner(t *testing.T) {
	markdown := portfolio.RenderMarkdown(nil, nil, portfolio.MarkdownOptions{})

	require.True(t, strings.HasPrefix(markdown, "# My's Project Portfolio\n"))
}
