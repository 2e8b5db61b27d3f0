package extract_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/extract"
	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/identifier"
)

func TestInferCategoryPrecedence(t *testing.T) {
	testCases := []struct {
		name             string
		repository       githubapi.Repository
		expectedCategory string
	}{
		{
			name:             "topic wins over everything",
			repository:       githubapi.Repository{Name: "api-server", Description: "a library", Topics: []string{"cli"}, Language: "Go"},
			expectedCategory: extract.CategoryCLITools,
		},
		{
			name:             "template name",
			repository:       githubapi.Repository{Name: "react-starter", Language: "JavaScript"},
			expectedCategory: extract.CategoryTemplates,
		},
		{
			name:             "description mentions command line",
			repository:       githubapi.Repository{Name: "ghfolio", Description: "A command-line portfolio manager"},
			expectedCategory: extract.CategoryCLITools,
		},
		{
			name:             "language fallback",
			repository:       githubapi.Repository{Name: "stuff", Language: "Rust"},
			expectedCategory: "Rust Projects",
		},
		{
			name:             "nothing matches",
			repository:       githubapi.Repository{Name: "stuff", Language: "COBOL"},
			expectedCategory: extract.CategoryOther,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			category, confidence, reason := extract.InferCategory(testCase.repository)
			require.Equal(t, testCase.expectedCategory, category)
			require.Greater(t, confidence, 0.0)
			require.LessOrEqual(t, confidence, 1.0)
			require.NotEmpty(t, reason)
		})
	}
}

func TestInferCategoryConfidenceOrdering(t *testing.T) {
	_, topicConfidence, _ := extract.InferCategory(githubapi.Repository{Topics: []string{"library"}})
	_, textConfidence, _ := extract.InferCategory(githubapi.Repository{Description: "a library for things"})
	_, languageConfidence, _ := extract.InferCategory(githubapi.Repository{Language: "Go"})
	_, noneConfidence, _ := extract.InferCategory(githubapi.Repository{})

	require.Greater(t, topicConfidence, textConfidence)
	require.Greater(t, textConfidence, languageConfidence)
	require.Greater(t, languageConfidence, noneConfidence)
}

type stubRepositoryClient struct {
	repositories map[string]githubapi.Repository
	languages    map[string]int
	topics       []string
}

func (client *stubRepositoryClient) RepositoryInfo(_ context.Context, owner string, name string) (githubapi.Repository, error) {
	repository, exists := client.repositories[owner+"/"+name]
	if !exists {
		return githubapi.Repository{}, errors.New("not found")
	}
	return repository, nil
}

func (client *stubRepositoryClient) Languages(context.Context, string, string) (map[string]int, error) {
	return client.languages, nil
}

func (client *stubRepositoryClient) Topics(context.Context, string, string) ([]string, error) {
	return client.topics, nil
}

func TestExtractRepositoriesSkipsFailures(t *testing.T) {
	client := &stubRepositoryClient{
		repositories: map[string]githubapi.Repository{
			"acme/toolkit": {
				Name:        "toolkit",
				FullName:    "acme/toolkit",
				Description: "A command-line portfolio manager",
				HTMLURL:     "https://github.com/acme/toolkit",
				Language:    "Go",
				Stars:       42,
				LicenseKey:  "mit",
			},
		},
		languages: map[string]int{"Go": 9000},
		topics:    []string{"cli"},
	}

	service, creationError := extract.NewService(client, nil)
	require.NoError(t, creationError)

	records := service.ExtractRepositories(context.Background(), []identifier.Identifier{
		{Owner: "acme", Name: "toolkit"},
		{Owner: "acme", Name: "missing"},
	})
	require.Len(t, records, 1)

	record := records[0]
	require.Equal(t, "acme/toolkit", record.FullName)
	require.Equal(t, extract.CategoryCLITools, record.Category)
	require.Equal(t, []string{"cli"}, record.Topics)
	require.Equal(t, []string{"Go"}, record.Languages)
	require.Equal(t, "mit", record.License)
}

func TestSaveAndLoadRecordsRoundTrip(t *testing.T) {
	records := []extract.Record{
		{Name: "toolkit", FullName: "acme/toolkit", Category: extract.CategoryCLITools, Stars: 42, CategoryConfidence: 0.9},
	}

	outputPath := filepath.Join(t.TempDir(), "nested", "records.json")
	require.NoError(t, extract.SaveRecords(records, outputPath))

	loaded, loadError := extract.LoadRecords(outputPath)
	require.NoError(t, loadError)
	require.Equal(t, records, loaded)
}

func TestLoadRecordsMissingFile(t *testing.T) {
	_, loadError := extract.LoadRecords(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, loadError)
}
