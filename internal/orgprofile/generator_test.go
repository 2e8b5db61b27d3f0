package orgprofile_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/llm"
	"github.com/ghfolio/ghfolio/internal/orgprofile"
)

type stubProfileClient struct {
	organization       githubapi.Organization
	repositories       []githubapi.Repository
	profileRepoMissing bool
	existingReadme     githubapi.ContentFile
	readmeMissing      bool
	createdRepos       []string
	putOptions         []githubapi.PutFileOptions
}

func notFoundError() error {
	return &githubapi.APIError{StatusCode: 404, Message: "not found"}
}

func (stub *stubProfileClient) OrganizationInfo(context.Context, string) (githubapi.Organization, error) {
	return stub.organization, nil
}

func (stub *stubProfileClient) ListOrganizationRepositories(context.Context, string, githubapi.RepositoryTypeFilter) ([]githubapi.Repository, error) {
	return stub.repositories, nil
}

func (stub *stubProfileClient) RepositoryInfo(_ context.Context, _ string, name string) (githubapi.Repository, error) {
	if stub.profileRepoMissing {
		return githubapi.Repository{}, notFoundError()
	}
	return githubapi.Repository{Name: name}, nil
}

func (stub *stubProfileClient) CreateOrganizationRepository(_ context.Context, _ string, name string, _ string, _ bool) (githubapi.Repository, error) {
	stub.createdRepos = append(stub.createdRepos, name)
	stub.profileRepoMissing = false
	return githubapi.Repository{Name: name}, nil
}

func (stub *stubProfileClient) FileContents(context.Context, string, string, string) (githubapi.ContentFile, error) {
	if stub.readmeMissing {
		return githubapi.ContentFile{}, notFoundError()
	}
	return stub.existingReadme, nil
}

func (stub *stubProfileClient) PutFile(_ context.Context, _ string, _ string, options githubapi.PutFileOptions) error {
	stub.putOptions = append(stub.putOptions, options)
	return nil
}

type stubCompleter struct {
	response string
	err      error
	prompts  []string
}

func (stub *stubCompleter) Complete(_ context.Context, request llm.Request) (string, error) {
	stub.prompts = append(stub.prompts, request.Prompt)
	return stub.response, stub.err
}

func TestInferCategoryPrecedence(t *testing.T) {
	testCases := []struct {
		name       string
		repository githubapi.Repository
		expected   string
	}{
		{"topic wins", githubapi.Repository{Name: "starter-kit", Topics: []string{"cli"}}, "CLI Tools"},
		{"name template", githubapi.Repository{Name: "react-boilerplate"}, "Templates"},
		{"name api", githubapi.Repository{Name: "billing-service"}, "APIs"},
		{"description cli", githubapi.Repository{Name: "x", Description: "A terminal tool"}, "CLI Tools"},
		{"description library", githubapi.Repository{Name: "x", Description: "Helper package for parsing"}, "Libraries"},
		{"language fallback", githubapi.Repository{Name: "x", Language: "Rust"}, "Rust Projects"},
		{"unknown", githubapi.Repository{Name: "x", Language: "COBOL"}, "Other Projects"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expected, orgprofile.InferCategory(testCase.repository))
		})
	}
}

func TestGroupRepositoriesByTopicUsesFirstTopic(t *testing.T) {
	repositories := []githubapi.Repository{
		{Name: "one", Topics: []string{"ml", "data"}},
		{Name: "two"},
	}

	grouped := orgprofile.GroupRepositories(repositories, orgprofile.GroupByTopic)

	require.Equal(t, "one", grouped["ml"][0].Name)
	require.Equal(t, "two", grouped["Uncategorized"][0].Name)
}

func TestFetchRepositoriesFiltersAndCaps(t *testing.T) {
	client := &stubProfileClient{
		repositories: []githubapi.Repository{
			{Name: "fork", Stars: 50, Fork: true},
			{Name: "old", Stars: 40, Archived: true},
			{Name: "low", Stars: 1},
			{Name: "mid", Stars: 10},
			{Name: "top", Stars: 30},
		},
	}
	service, creationError := orgprofile.NewService(client, nil, nil)
	require.NoError(t, creationError)

	repositories, fetchError := service.FetchRepositories(context.Background(), "acme", orgprofile.Options{
		ExcludeForks:        true,
		MinimumStars:        5,
		MaximumRepositories: 1,
	})

	require.NoError(t, fetchError)
	require.Len(t, repositories, 1)
	require.Equal(t, "top", repositories[0].Name)
}

func TestFallbackDescriptionSummarizesLanguagesAndTopics(t *testing.T) {
	organization := githubapi.Organization{Login: "acme"}
	repositories := []githubapi.Repository{
		{Language: "Go", Topics: []string{"cli-tools"}},
		{Language: "Go"},
		{Language: "Python"},
	}

	description := orgprofile.FallbackDescription(organization, repositories)

	require.Equal(t, "acme", description.Title)
	require.Equal(t, "A collection of 3 repositories", description.Tagline)
	require.Equal(t, []string{"Go", "Python", "Cli Tools"}, description.FocusAreas)
	require.Equal(t, "Building and maintaining open source projects focused on Go, Python, Cli Tools.", description.Mission)
}

func TestGenerateDescriptionParsesModelJSON(t *testing.T) {
	client := &stubProfileClient{}
	completer := &stubCompleter{
		response: `{"title":"Acme Labs","tagline":"We build tools","focus_areas":["Go"],"mission":"Ship useful software."}`,
	}
	service, creationError := orgprofile.NewService(client, completer, nil)
	require.NoError(t, creationError)

	description := service.GenerateDescription(context.Background(), githubapi.Organization{Login: "acme"}, []githubapi.Repository{{Name: "tool", Stars: 4}})

	require.Equal(t, "Acme Labs", description.Title)
	require.Equal(t, "We build tools", description.Tagline)
	require.Len(t, completer.prompts, 1)
	require.Contains(t, completer.prompts[0], "Organization: acme")
	require.Contains(t, completer.prompts[0], "- tool: No description [Unknown] (4 stars)")
}

func TestGenerateDescriptionFallsBackOnModelFailure(t *testing.T) {
	client := &stubProfileClient{}
	completer := &stubCompleter{err: errors.New("model unavailable")}
	service, creationError := orgprofile.NewService(client, completer, nil)
	require.NoError(t, creationError)

	description := service.GenerateDescription(context.Background(), githubapi.Organization{Login: "acme"}, nil)

	require.Equal(t, "acme", description.Title)
	require.Equal(t, "A collection of 0 repositories", description.Tagline)
}

func TestGenerateDefaultTemplateIncludesTablesAndStats(t *testing.T) {
	client := &stubProfileClient{
		organization: githubapi.Organization{Login: "acme", Description: "Makers"},
		repositories: []githubapi.Repository{
			{Name: "gadget", FullName: "acme/gadget", HTMLURL: "https://github.com/acme/gadget", Description: "Terminal helper", Language: "Go", Stars: 7},
		},
	}
	service, creationError := orgprofile.NewService(client, nil, nil)
	require.NoError(t, creationError)

	content, generateError := service.Generate(context.Background(), "acme", orgprofile.Options{
		IncludeStats: true,
		GeneratedAt:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, generateError)
	require.True(t, strings.HasPrefix(content, "# acme\n"))
	require.Contains(t, content, "### CLI Tools\n")
	require.Contains(t, content, "| Repository | Description | Language | Stars |")
	require.Contains(t, content, "| [gadget](https://github.com/acme/gadget) | Terminal helper | Go | 7 |")
	require.Contains(t, content, "- **Repositories**: 1")
	require.Contains(t, content, "- **Total Stars**: 7")
	require.Contains(t, content, "*Generated with ghfolio on 2024-05-01*")
}

func TestGenerateMinimalTemplateListsProjects(t *testing.T) {
	client := &stubProfileClient{
		organization: githubapi.Organization{Login: "acme"},
		repositories: []githubapi.Repository{
			{Name: "gadget", HTMLURL: "https://github.com/acme/gadget", Stars: 1},
		},
	}
	service, creationError := orgprofile.NewService(client, nil, nil)
	require.NoError(t, creationError)

	content, generateError := service.Generate(context.Background(), "acme", orgprofile.Options{Template: orgprofile.TemplateMinimal})

	require.NoError(t, generateError)
	require.Contains(t, content, "## Projects\n")
	require.Contains(t, content, "- [gadget](https://github.com/acme/gadget) - No description")
	require.NotContains(t, content, "| Repository |")
}

func TestGenerateDetailedTemplateShowsBadgesAndDistribution(t *testing.T) {
	client := &stubProfileClient{
		organization: githubapi.Organization{
			Login:     "acme",
			Location:  "Internet",
			Blog:      "https://acme.dev",
			AvatarURL: "https://avatars.example/acme.png",
		},
		repositories: []githubapi.Repository{
			{Name: "gadget", FullName: "acme/gadget", HTMLURL: "https://github.com/acme/gadget", Language: "Go", Stars: 7, Forks: 2, Topics: []string{"cli"}},
		},
	}
	service, creationError := orgprofile.NewService(client, nil, nil)
	require.NoError(t, creationError)

	content, generateError := service.Generate(context.Background(), "acme", orgprofile.Options{
		Template:     orgprofile.TemplateDetailed,
		IncludeStats: true,
	})

	require.NoError(t, generateError)
	require.Contains(t, content, `<img src="https://avatars.example/acme.png"`)
	require.Contains(t, content, "- **Location**: Internet")
	require.Contains(t, content, "![Language](https://img.shields.io/badge/language-Go-blue)")
	require.Contains(t, content, "![Stars](https://img.shields.io/github/stars/acme/gadget?style=social)")
	require.Contains(t, content, "| Total Forks | 2 |")
	require.Contains(t, content, "### Language Distribution")
	require.Contains(t, content, "**Topics**: cli")
}

func TestGenerateFailsWhenNoRepositoriesMatch(t *testing.T) {
	client := &stubProfileClient{organization: githubapi.Organization{Login: "acme"}}
	service, creationError := orgprofile.NewService(client, nil, nil)
	require.NoError(t, creationError)

	_, generateError := service.Generate(context.Background(), "acme", orgprofile.Options{})

	require.Error(t, generateError)
	require.Contains(t, generateError.Error(), "no repositories found")
}

func TestApplyCreatesProfileRepositoryWhenMissing(t *testing.T) {
	client := &stubProfileClient{profileRepoMissing: true, readmeMissing: true}
	service, creationError := orgprofile.NewService(client, nil, nil)
	require.NoError(t, creationError)

	applyError := service.Apply(context.Background(), "acme", "# Acme\n")

	require.NoError(t, applyError)
	require.Equal(t, []string{".github"}, client.createdRepos)
	require.Len(t, client.putOptions, 1)
	require.Equal(t, "profile/README.md", client.putOptions[0].Path)
	require.Empty(t, client.putOptions[0].SHA)
}

func TestApplyCarriesSHAWhenUpdating(t *testing.T) {
	client := &stubProfileClient{
		existingReadme: githubapi.ContentFile{Path: "profile/README.md", SHA: "abc123", Content: "# Old\n"},
	}
	service, creationError := orgprofile.NewService(client, nil, nil)
	require.NoError(t, creationError)

	applyError := service.Apply(context.Background(), "acme", "# New\n")

	require.NoError(t, applyError)
	require.Len(t, client.putOptions, 1)
	require.Equal(t, "abc123", client.putOptions[0].SHA)
}

func TestApplySkipsWriteWhenContentUnchanged(t *testing.T) {
	client := &stubProfileClient{
		existingReadme: githubapi.ContentFile{Path: "profile/README.md", SHA: "abc123", Content: "# Same\n"},
	}
	service, creationError := orgprofile.NewService(client, nil, nil)
	require.NoError(t, creationError)

	applyError := service.Apply(context.Background(), "acme", "# Same")

	require.NoError(t, applyError)
	require.Empty(t, client.putOptions)
}
