package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/identifier"
)

const (
	clientRequiredMessageConstant = "extract: repository client is required"
	saveTemplateConstant          = "extract: save records: %w"
	loadTemplateConstant          = "extract: load records: %w"
	fetchFailedMessageConstant    = "repository fetch failed"
	logFieldRepositoryConstant    = "repository"
)

// RepositoryClient is the GitHub surface extraction needs.
type RepositoryClient interface {
	RepositoryInfo(executionContext context.Context, owner string, name string) (githubapi.Repository, error)
	Languages(executionContext context.Context, owner string, name string) (map[string]int, error)
	Topics(executionContext context.Context, owner string, name string) ([]string, error)
}

// Record is the portable extraction result for one repository.
type Record struct {
	Name               string   `json:"name"`
	FullName           string   `json:"full_name"`
	Description        string   `json:"description"`
	URL                string   `json:"url"`
	Homepage           string   `json:"homepage,omitempty"`
	Stars              int      `json:"stars"`
	Language           string   `json:"language,omitempty"`
	Languages          []string `json:"languages,omitempty"`
	Topics             []string `json:"topics,omitempty"`
	License            string   `json:"license,omitempty"`
	Private            bool     `json:"private"`
	Archived           bool     `json:"archived"`
	Fork               bool     `json:"fork"`
	SourceOrg          string   `json:"source_org,omitempty"`
	Category           string   `json:"category"`
	CategoryConfidence float64  `json:"category_confidence"`
	CategoryReason     string   `json:"category_reason"`
}

// FromRepository builds a Record from already-fetched metadata.
func FromRepository(repository githubapi.Repository) Record {
	category, confidence, reason := InferCategory(repository)
	record := Record{
		Name:               repository.Name,
		FullName:           repository.FullName,
		Description:        repository.Description,
		URL:                repository.HTMLURL,
		Homepage:           repository.Homepage,
		Stars:              repository.Stars,
		Language:           repository.Language,
		Topics:             repository.Topics,
		License:            repository.LicenseKey,
		Private:            repository.Private,
		Archived:           repository.Archived,
		Fork:               repository.Fork,
		Category:           category,
		CategoryConfidence: confidence,
		CategoryReason:     reason,
	}
	if repository.Language != "" {
		record.Languages = []string{repository.Language}
	}
	return record
}

// Service extracts repository records through the API.
type Service struct {
	client RepositoryClient
	logger *zap.Logger
}

// NewService builds a Service.
func NewService(client RepositoryClient, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New(clientRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}, nil
}

// ExtractRepository fetches one repository and its languages and topics.
func (service *Service) ExtractRepository(executionContext context.Context, repository identifier.Identifier) (Record, error) {
	metadata, metadataError := service.client.RepositoryInfo(executionContext, repository.Owner, repository.Name)
	if metadataError != nil {
		return Record{}, metadataError
	}

	if topics, topicsError := service.client.Topics(executionContext, repository.Owner, repository.Name); topicsError == nil && len(topics) > 0 {
		metadata.Topics = topics
	}

	record := FromRepository(metadata)
	if languages, languagesError := service.client.Languages(executionContext, repository.Owner, repository.Name); languagesError == nil && len(languages) > 0 {
		record.Languages = record.Languages[:0]
		for language := range languages {
			record.Languages = append(record.Languages, language)
		}
	}
	return record, nil
}

// ExtractRepositories extracts each listed repository, skipping failures with
// a log entry so one broken repository does not abort the batch.
func (service *Service) ExtractRepositories(executionContext context.Context, repositories []identifier.Identifier) []Record {
	records := make([]Record, 0, len(repositories))
	for _, repository := range repositories {
		record, extractError := service.ExtractRepository(executionContext, repository)
		if extractError != nil {
			service.logger.Warn(
				fetchFailedMessageConstant,
				zap.String(logFieldRepositoryConstant, repository.String()),
				zap.Error(extractError),
			)
			continue
		}
		records = append(records, record)
	}
	return records
}

// SaveRecords writes records as indented JSON, creating parent directories.
func SaveRecords(records []Record, outputPath string) error {
	encoded, encodeError := json.MarshalIndent(records, "", "  ")
	if encodeError != nil {
		return fmt.Errorf(saveTemplateConstant, encodeError)
	}
	if directoryError := os.MkdirAll(filepath.Dir(outputPath), 0o755); directoryError != nil {
		return fmt.Errorf(saveTemplateConstant, directoryError)
	}
	if writeError := os.WriteFile(outputPath, encoded, 0o644); writeError != nil {
		return fmt.Errorf(saveTemplateConstant, writeError)
	}
	return nil
}

// LoadRecords reads records back from a JSON file.
func LoadRecords(inputPath string) ([]Record, error) {
	contents, readError := os.ReadFile(inputPath)
	if readError != nil {
		return nil, fmt.Errorf(loadTemplateConstant, readError)
	}
	var records []Record
	if decodeError := json.Unmarshal(contents, &records); decodeError != nil {
		return nil, fmt.Errorf(loadTemplateConstant, decodeError)
	}
	return records, nil
}
