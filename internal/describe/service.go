package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/identifier"
	"github.com/ghfolio/ghfolio/internal/llm"
)

// Status values reported per repository.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusDryRun  = "dry_run"
	StatusError   = "error"
)

const (
	maximumDescriptionLengthConstant = 100
	readmeExcerptLengthConstant      = 1500
	descriptionMaxTokensConstant     = 150
	descriptionTemperatureConstant   = 0.3
	defaultRequestDelayConstant      = 500 * time.Millisecond
	clientRequiredMessageConstant    = "describe: repository client is required"
	alreadyDescribedMessageConstant  = "repository already has a description"
	wouldUpdateTemplateConstant      = "would update description to: %s"
	updatedTemplateConstant          = "updated description to: %s"
	metadataFailureTemplateConstant  = "fetch repository: %s"
	writeFailureTemplateConstant     = "update description: %s"
	llmFallbackMessageConstant       = "language model draft unavailable, using fallback"
	logFieldRepositoryConstant       = "repository"
	promptTemplateConstant           = `Generate a concise one-line description (max 100 chars) for this GitHub repository.
The description should explain what the project does, not use marketing language.
Do not start with "A" or "This". Use active voice.
Only output the description, nothing else.

%s`
)

// RepositoryClient is the GitHub surface the generator needs.
type RepositoryClient interface {
	RepositoryInfo(executionContext context.Context, owner string, name string) (githubapi.Repository, error)
	Readme(executionContext context.Context, owner string, name string) (string, error)
	UpdateDescription(executionContext context.Context, owner string, name string, description string) error
}

// Completer produces text for a prompt. *llm.Client satisfies it.
type Completer interface {
	Complete(executionContext context.Context, request llm.Request) (string, error)
}

// Result records the outcome for one repository.
type Result struct {
	Repository     string `json:"repo"`
	Status         string `json:"status"`
	OldDescription string `json:"old_description,omitempty"`
	NewDescription string `json:"new_description,omitempty"`
	Message        string `json:"message"`
}

// Options controls a processing run.
type Options struct {
	DryRun bool
	Force  bool
	// Delay spaces out consecutive repositories; zero means the default.
	Delay time.Duration
	// Progress, when set, observes each finished repository.
	Progress func(result Result, completed int, total int)
}

// Service generates descriptions for repositories.
type Service struct {
	client    RepositoryClient
	completer Completer
	logger    *zap.Logger
}

// NewService builds a Service. The completer may be nil, which forces the
// deterministic fallback for every repository.
func NewService(client RepositoryClient, completer Completer, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New(clientRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, completer: completer, logger: logger}, nil
}

// GenerateDescription produces a description for already-fetched metadata,
// consulting the language model first and the fallback otherwise. The result
// is never empty and never longer than 100 characters.
func (service *Service) GenerateDescription(executionContext context.Context, repository githubapi.Repository) string {
	if service.completer != nil {
		readme, readmeError := service.client.Readme(executionContext, repository.Owner, repository.Name)
		if readmeError != nil {
			readme = ""
		}
		if draft := service.draftWithModel(executionContext, repository, readme); draft != "" {
			return draft
		}
		service.logger.Debug(llmFallbackMessageConstant, zap.String(logFieldRepositoryConstant, repository.FullName))
	}
	return FallbackDescription(repository)
}

func (service *Service) draftWithModel(executionContext context.Context, repository githubapi.Repository, readme string) string {
	var contextBuilder strings.Builder
	fmt.Fprintf(&contextBuilder, "Repository name: %s\n", repository.Name)
	language := repository.Language
	if language == "" {
		language = "Unknown"
	}
	fmt.Fprintf(&contextBuilder, "Primary language: %s\n", language)
	if len(repository.Topics) > 0 {
		fmt.Fprintf(&contextBuilder, "Topics: %s\n", strings.Join(repository.Topics, ", "))
	}
	if readme != "" {
		excerpt := readme
		if len(excerpt) > readmeExcerptLengthConstant {
			excerpt = excerpt[:readmeExcerptLengthConstant]
		}
		fmt.Fprintf(&contextBuilder, "\nREADME excerpt:\n%s\n", excerpt)
	}

	draft, completionError := service.completer.Complete(executionContext, llm.Request{
		MaxTokens:   descriptionMaxTokensConstant,
		Temperature: descriptionTemperatureConstant,
		Prompt:      fmt.Sprintf(promptTemplateConstant, contextBuilder.String()),
	})
	if completionError != nil {
		service.logger.Debug(llmFallbackMessageConstant, zap.Error(completionError))
		return ""
	}

	draft = strings.Trim(strings.TrimSpace(draft), `"'`)
	if len(draft) > maximumDescriptionLengthConstant {
		draft = draft[:maximumDescriptionLengthConstant]
	}
	return draft
}

// FallbackDescription derives a description from metadata alone. It always
// returns a non-empty string of at most 100 characters.
func FallbackDescription(repository githubapi.Repository) string {
	language := strings.TrimSpace(repository.Language)
	name := strings.NewReplacer("-", " ", "_", " ").Replace(repository.Name)
	if strings.TrimSpace(name) == "" {
		name = "repository"
	}

	topics := repository.Topics
	if len(topics) > 3 {
		topics = topics[:3]
	}
	topicList := strings.Join(topics, ", ")

	var description string
	switch {
	case topicList != "" && language != "":
		description = fmt.Sprintf("%s project for %s", language, topicList)
	case language != "":
		description = fmt.Sprintf("%s project: %s", language, name)
	case topicList != "":
		description = fmt.Sprintf("Project for %s", topicList)
	default:
		description = fmt.Sprintf("Project: %s", name)
	}

	if len(description) > maximumDescriptionLengthConstant {
		description = description[:maximumDescriptionLengthConstant]
	}
	return description
}

// ProcessRepository runs the generate-and-update flow for one repository.
func (service *Service) ProcessRepository(executionContext context.Context, repository identifier.Identifier, options Options) Result {
	result := Result{Repository: repository.String()}

	metadata, metadataError := service.client.RepositoryInfo(executionContext, repository.Owner, repository.Name)
	if metadataError != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf(metadataFailureTemplateConstant, metadataError)
		return result
	}
	result.OldDescription = metadata.Description

	if metadata.Description != "" && !options.Force {
		result.Status = StatusSkipped
		result.Message = alreadyDescribedMessageConstant
		return result
	}

	newDescription := service.GenerateDescription(executionContext, metadata)
	result.NewDescription = newDescription

	if options.DryRun {
		result.Status = StatusDryRun
		result.Message = fmt.Sprintf(wouldUpdateTemplateConstant, newDescription)
		return result
	}

	if updateError := service.client.UpdateDescription(executionContext, repository.Owner, repository.Name, newDescription); updateError != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf(writeFailureTemplateConstant, updateError)
		return result
	}

	result.Status = StatusSuccess
	result.Message = fmt.Sprintf(updatedTemplateConstant, newDescription)
	return result
}

// ProcessRepositories runs the flow for each repository sequentially with a
// fixed delay between requests. Per-repository failures land in their Result;
// the batch itself always completes.
func (service *Service) ProcessRepositories(executionContext context.Context, repositories []identifier.Identifier, options Options) []Result {
	delay := options.Delay
	if delay <= 0 {
		delay = defaultRequestDelayConstant
	}

	results := make([]Result, 0, len(repositories))
	for index, repository := range repositories {
		result := service.ProcessRepository(executionContext, repository, options)
		results = append(results, result)
		if options.Progress != nil {
			options.Progress(result, index+1, len(repositories))
		}

		if index < len(repositories)-1 {
			select {
			case <-executionContext.Done():
				return results
			case <-time.After(delay):
			}
		}
	}
	return results
}
