package readmegen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/identifier"
	"github.com/ghfolio/ghfolio/internal/llm"
	"github.com/ghfolio/ghfolio/internal/readmegen"
)

type stubRepositoryClient struct {
	repository   githubapi.Repository
	readme       string
	readmeErr    error
	languages    map[string]int
	topics       []string
	tree         []githubapi.TreeEntry
	existingFile githubapi.ContentFile
	fileErr      error
	putErr       error
	putCalls     []githubapi.PutFileOptions
}

func (client *stubRepositoryClient) RepositoryInfo(context.Context, string, string) (githubapi.Repository, error) {
	return client.repository, nil
}

func (client *stubRepositoryClient) Readme(context.Context, string, string) (string, error) {
	return client.readme, client.readmeErr
}

func (client *stubRepositoryClient) Languages(context.Context, string, string) (map[string]int, error) {
	return client.languages, nil
}

func (client *stubRepositoryClient) Topics(context.Context, string, string) ([]string, error) {
	return client.topics, nil
}

func (client *stubRepositoryClient) Tree(context.Context, string, string, string) ([]githubapi.TreeEntry, error) {
	return client.tree, nil
}

func (client *stubRepositoryClient) FileContents(context.Context, string, string, string) (githubapi.ContentFile, error) {
	return client.existingFile, client.fileErr
}

func (client *stubRepositoryClient) PutFile(_ context.Context, _ string, _ string, options githubapi.PutFileOptions) error {
	if client.putErr != nil {
		return client.putErr
	}
	client.putCalls = append(client.putCalls, options)
	return nil
}

type stubCompleter struct {
	response string
	err      error
}

func (completer *stubCompleter) Complete(context.Context, llm.Request) (string, error) {
	return completer.response, completer.err
}

var toolkitIdentifier = identifier.Identifier{Owner: "acme", Name: "toolkit"}

func notFoundError() error {
	return &githubapi.APIError{StatusCode: 404, Message: "Not Found"}
}

func toolkitClient() *stubRepositoryClient {
	return &stubRepositoryClient{
		repository: githubapi.Repository{
			Owner:         "acme",
			Name:          "toolkit",
			Description:   "Portfolio tooling",
			DefaultBranch: "main",
			LicenseName:   "MIT License",
		},
		languages: map[string]int{"Go": 9000, "Shell": 100},
		topics:    []string{"cli", "github"},
		tree: []githubapi.TreeEntry{
			{Path: "main.go", Type: githubapi.TreeEntryTypeBlob},
			{Path: "internal", Type: githubapi.TreeEntryTypeTree},
		},
		fileErr: notFoundError(),
	}
}

func TestGatherContextRanksLanguagesBySize(t *testing.T) {
	service, creationError := readmegen.NewService(toolkitClient(), nil, nil)
	require.NoError(t, creationError)

	gathered, gatherError := service.GatherContext(context.Background(), toolkitIdentifier)
	require.NoError(t, gatherError)
	require.Equal(t, []string{"Go", "Shell"}, gathered.Languages)
	require.Equal(t, []string{"main.go"}, gathered.KeyFiles)
	require.Equal(t, []string{"internal"}, gathered.KeyDirectories)
	require.Equal(t, "main", gathered.DefaultBranch)
}

func TestFallbackReadmeScoresAboveThreshold(t *testing.T) {
	content := readmegen.FallbackReadme(readmegen.Context{
		Owner:       "acme",
		Name:        "toolkit",
		Description: "Automates GitHub repository portfolio management workflows from the command line.",
		Languages:   []string{"Go", "Shell"},
		LicenseName: "MIT License",
	})

	require.Contains(t, content, "# toolkit")
	require.Contains(t, content, "git clone https://github.com/acme/toolkit.git")
	require.Contains(t, content, "## Usage")
	require.Contains(t, content, "MIT License")

	score, _ := readmegen.AssessQuality(content)
	require.GreaterOrEqual(t, score, 0.5)
}

func TestProcessRepositoryCreatesMissingReadme(t *testing.T) {
	client := toolkitClient()
	client.readmeErr = notFoundError()

	service, creationError := readmegen.NewService(client, nil, nil)
	require.NoError(t, creationError)

	result := service.ProcessRepository(context.Background(), toolkitIdentifier, readmegen.Options{})
	require.Equal(t, readmegen.StatusCreated, result.Status)
	require.Equal(t, readmegen.ActionCreate, result.Action)
	require.Equal(t, readmegen.MethodFallback, result.GenerationMethod)
	require.Equal(t, 0.0, result.QualityBefore)
	require.Greater(t, result.QualityAfter, 0.0)

	require.Len(t, client.putCalls, 1)
	require.Equal(t, "README.md", client.putCalls[0].Path)
	require.Empty(t, client.putCalls[0].SHA, "a new file must not carry a blob SHA")
}

func TestProcessRepositoryPassesShaWhenUpdating(t *testing.T) {
	client := toolkitClient()
	client.readme = "# toolkit"
	client.fileErr = nil
	client.existingFile = githubapi.ContentFile{Path: "README.md", SHA: "abc123"}

	service, creationError := readmegen.NewService(client, nil, nil)
	require.NoError(t, creationError)

	result := service.ProcessRepository(context.Background(), toolkitIdentifier, readmegen.Options{})
	require.Equal(t, readmegen.StatusUpdated, result.Status)
	require.Equal(t, readmegen.ActionQualityUpdate, result.Action)
	require.Len(t, client.putCalls, 1)
	require.Equal(t, "abc123", client.putCalls[0].SHA)
}

func TestProcessRepositorySkipsHealthyReadme(t *testing.T) {
	client := toolkitClient()
	client.readme = wellFormedReadme

	service, creationError := readmegen.NewService(client, nil, nil)
	require.NoError(t, creationError)

	result := service.ProcessRepository(context.Background(), toolkitIdentifier, readmegen.Options{})
	require.Equal(t, readmegen.StatusSkipped, result.Status)
	require.Equal(t, readmegen.ActionQualityOK, result.Action)
	require.Empty(t, client.putCalls)
}

func TestProcessRepositoryForceRegeneratesHealthyReadme(t *testing.T) {
	client := toolkitClient()
	client.readme = wellFormedReadme

	service, creationError := readmegen.NewService(client, nil, nil)
	require.NoError(t, creationError)

	result := service.ProcessRepository(context.Background(), toolkitIdentifier, readmegen.Options{Force: true})
	require.Equal(t, readmegen.StatusUpdated, result.Status)
	require.Equal(t, readmegen.ActionForceUpdate, result.Action)
}

func TestProcessRepositoryDryRunWritesNothing(t *testing.T) {
	client := toolkitClient()
	client.readmeErr = notFoundError()

	service, creationError := readmegen.NewService(client, nil, nil)
	require.NoError(t, creationError)

	result := service.ProcessRepository(context.Background(), toolkitIdentifier, readmegen.Options{DryRun: true})
	require.Equal(t, readmegen.StatusDryRun, result.Status)
	require.NotEmpty(t, result.GeneratedContent)
	require.Empty(t, client.putCalls)
}

func TestProcessRepositoryReportsWriteFailure(t *testing.T) {
	client := toolkitClient()
	client.readmeErr = notFoundError()
	client.putErr = errors.New("409 sha mismatch")

	service, creationError := readmegen.NewService(client, nil, nil)
	require.NoError(t, creationError)

	result := service.ProcessRepository(context.Background(), toolkitIdentifier, readmegen.Options{})
	require.Equal(t, readmegen.StatusFailed, result.Status)
	require.Contains(t, result.Message, "sha mismatch")
}

func TestGenerateContentStripsMarkdownFence(t *testing.T) {
	client := toolkitClient()
	completer := &stubCompleter{response: "```markdown\n# toolkit\n\nGenerated body.\n```"}

	service, creationError := readmegen.NewService(client, completer, nil)
	require.NoError(t, creationError)

	content, method := service.GenerateContent(context.Background(), readmegen.Context{Owner: "acme", Name: "toolkit"})
	require.Equal(t, readmegen.MethodModel, method)
	require.Equal(t, "# toolkit\n\nGenerated body.", content)
}

func TestGenerateContentFallsBackOnModelFailure(t *testing.T) {
	client := toolkitClient()
	completer := &stubCompleter{err: errors.New("api down")}

	service, creationError := readmegen.NewService(client, completer, nil)
	require.NoError(t, creationError)

	content, method := service.GenerateContent(context.Background(), readmegen.Context{Owner: "acme", Name: "toolkit"})
	require.Equal(t, readmegen.MethodFallback, method)
	require.Contains(t, content, "# toolkit")
}
