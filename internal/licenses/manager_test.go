package licenses_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/identifier"
	"github.com/ghfolio/ghfolio/internal/licenses"
)

type stubRepositoryClient struct {
	repository    githubapi.Repository
	template      githubapi.License
	templateCalls int
	existingFile  githubapi.ContentFile
	fileErr       error
	putCalls      []githubapi.PutFileOptions
}

func (client *stubRepositoryClient) RepositoryInfo(context.Context, string, string) (githubapi.Repository, error) {
	return client.repository, nil
}

func (client *stubRepositoryClient) LicenseTemplate(context.Context, string) (githubapi.License, error) {
	client.templateCalls++
	return client.template, nil
}

func (client *stubRepositoryClient) ListLicenses(context.Context) ([]githubapi.License, error) {
	return []githubapi.License{client.template}, nil
}

func (client *stubRepositoryClient) FileContents(context.Context, string, string, string) (githubapi.ContentFile, error) {
	return client.existingFile, client.fileErr
}

func (client *stubRepositoryClient) PutFile(_ context.Context, _ string, _ string, options githubapi.PutFileOptions) error {
	client.putCalls = append(client.putCalls, options)
	return nil
}

var toolkitIdentifier = identifier.Identifier{Owner: "acme", Name: "toolkit"}

func unlicensedClient() *stubRepositoryClient {
	return &stubRepositoryClient{
		repository: githubapi.Repository{Owner: "acme", Name: "toolkit"},
		template: githubapi.License{
			Key:  "mit",
			Name: "MIT License",
			Body: "MIT License\n\nCopyright (c) [year] [fullname]\n\nPermission is hereby granted...",
		},
		fileErr: &githubapi.APIError{StatusCode: 404, Message: "Not Found"},
	}
}

func TestFormatBodySubstitutesPlaceholders(t *testing.T) {
	body := licenses.FormatBody("Copyright (c) [year] [fullname]\n[name of copyright owner] reserves nothing.", "Acme Inc", 2024)
	require.Equal(t, "Copyright (c) 2024 Acme Inc\nAcme Inc reserves nothing.", body)

	apacheStyle := licenses.FormatBody("Copyright [yyyy] [name of copyright owner]", "Acme Inc", 2024)
	require.Equal(t, "Copyright 2024 Acme Inc", apacheStyle)
}

func TestFormatBodyDefaultsYearToCurrent(t *testing.T) {
	body := licenses.FormatBody("[year]", "", 0)
	require.NotEqual(t, "[year]", body)
	require.Len(t, body, 4)
}

func TestProcessRepositoryCreatesLicense(t *testing.T) {
	client := unlicensedClient()
	manager, creationError := licenses.NewManager(client, nil)
	require.NoError(t, creationError)

	result := manager.ProcessRepository(context.Background(), toolkitIdentifier, licenses.Options{Year: 2024})
	require.Equal(t, licenses.StatusCreated, result.Status)
	require.Equal(t, licenses.ActionCreate, result.Action)
	require.Equal(t, "mit", result.LicenseKey)

	require.Len(t, client.putCalls, 1)
	written := client.putCalls[0]
	require.Equal(t, "LICENSE", written.Path)
	require.Equal(t, "Add MIT license", written.Message)
	require.Contains(t, string(written.Content), "Copyright (c) 2024 acme")
	require.Empty(t, written.SHA)
}

func TestProcessRepositorySkipsLicensedUnlessForced(t *testing.T) {
	client := unlicensedClient()
	client.repository.LicenseKey = "apache-2.0"

	manager, creationError := licenses.NewManager(client, nil)
	require.NoError(t, creationError)

	skipped := manager.ProcessRepository(context.Background(), toolkitIdentifier, licenses.Options{})
	require.Equal(t, licenses.StatusSkipped, skipped.Status)
	require.Contains(t, skipped.Reason, "apache-2.0")
	require.Empty(t, client.putCalls)

	client.existingFile = githubapi.ContentFile{Path: "LICENSE", SHA: "def456"}
	client.fileErr = nil
	forced := manager.ProcessRepository(context.Background(), toolkitIdentifier, licenses.Options{Force: true})
	require.Equal(t, licenses.StatusUpdated, forced.Status)
	require.Equal(t, licenses.ActionReplace, forced.Action)
	require.Equal(t, "def456", client.putCalls[0].SHA)
}

func TestProcessRepositoryDryRunWritesNothing(t *testing.T) {
	client := unlicensedClient()
	manager, creationError := licenses.NewManager(client, nil)
	require.NoError(t, creationError)

	result := manager.ProcessRepository(context.Background(), toolkitIdentifier, licenses.Options{DryRun: true})
	require.Equal(t, licenses.StatusDryRun, result.Status)
	require.Equal(t, licenses.ActionCreate, result.Action)
	require.NotEmpty(t, result.ContentPreview)
	require.Empty(t, client.putCalls)
}

func TestTemplateIsCachedAcrossRepositories(t *testing.T) {
	client := unlicensedClient()
	manager, creationError := licenses.NewManager(client, nil)
	require.NoError(t, creationError)

	repositories := []identifier.Identifier{
		{Owner: "acme", Name: "repo1"},
		{Owner: "acme", Name: "repo2"},
	}
	results := manager.ProcessRepositories(context.Background(), repositories, licenses.Options{DryRun: true, Delay: 1})
	require.Len(t, results, 2)
	require.Equal(t, 1, client.templateCalls, "second repository must hit the cache")
}

func TestCommonLicensesIncludeDefault(t *testing.T) {
	require.Contains(t, licenses.CommonLicenses, licenses.DefaultLicenseKey)
}
