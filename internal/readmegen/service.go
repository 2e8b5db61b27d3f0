package readmegen

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
	StatusUpdated = "updated"
	StatusCreated = "created"
	StatusSkipped = "skipped"
	StatusDryRun  = "dry_run"
	StatusFailed  = "failed"
	StatusError   = "error"
)

// Actions explain why a README was (or was not) regenerated.
const (
	ActionCreate        = "create"
	ActionForceUpdate   = "force_update"
	ActionQualityUpdate = "quality_update"
	ActionQualityOK     = "quality_ok"
)

// Generation methods recorded on results.
const (
	MethodModel    = "llm"
	MethodFallback = "fallback"
)

const (
	readmePathConstant             = "README.md"
	commitMessageConstant          = "Update README.md"
	defaultMinimumQualityConstant  = 0.5
	defaultRequestDelayConstant    = 500 * time.Millisecond
	generationMaxTokensConstant    = 4000
	keyFileLimitConstant           = 20
	keyDirectoryLimitConstant      = 10
	promptFileLimitConstant        = 10
	clientRequiredMessageConstant  = "readmegen: repository client is required"
	contextFailureTemplateConstant = "gather context: %s"
	writeFailureTemplateConstant   = "write README: %s"
	markdownFencePrefixConstant    = "```markdown"
	fencePrefixConstant            = "```"
	llmFallbackMessageConstant     = "language model draft unavailable, using fallback"
	logFieldRepositoryConstant     = "repository"
)

// RepositoryClient is the GitHub surface the generator needs.
type RepositoryClient interface {
	RepositoryInfo(executionContext context.Context, owner string, name string) (githubapi.Repository, error)
	Readme(executionContext context.Context, owner string, name string) (string, error)
	Languages(executionContext context.Context, owner string, name string) (map[string]int, error)
	Topics(executionContext context.Context, owner string, name string) ([]string, error)
	Tree(executionContext context.Context, owner string, name string, reference string) ([]githubapi.TreeEntry, error)
	FileContents(executionContext context.Context, owner string, name string, path string) (githubapi.ContentFile, error)
	PutFile(executionContext context.Context, owner string, name string, options githubapi.PutFileOptions) error
}

// Completer produces text for a prompt. *llm.Client satisfies it.
type Completer interface {
	Complete(executionContext context.Context, request llm.Request) (string, error)
}

// Context is the repository information fed into README generation.
type Context struct {
	Owner          string
	Name           string
	Description    string
	Languages      []string
	Topics         []string
	LicenseName    string
	Homepage       string
	DefaultBranch  string
	KeyFiles       []string
	KeyDirectories []string
}

// Result records the outcome for one repository.
type Result struct {
	Repository       string   `json:"repo"`
	Status           string   `json:"status"`
	Action           string   `json:"action,omitempty"`
	QualityBefore    float64  `json:"quality_before"`
	QualityAfter     float64  `json:"quality_after,omitempty"`
	Issues           []string `json:"issues,omitempty"`
	GenerationMethod string   `json:"generation_method,omitempty"`
	GeneratedContent string   `json:"generated_content,omitempty"`
	Message          string   `json:"message,omitempty"`
}

// Options controls a processing run.
type Options struct {
	DryRun bool
	Force  bool
	// MinimumQuality triggers regeneration below this score; zero means the
	// default of 0.5.
	MinimumQuality float64
	Delay          time.Duration
	Progress       func(result Result, completed int, total int)
}

// Service regenerates repository READMEs.
type Service struct {
	client    RepositoryClient
	completer Completer
	logger    *zap.Logger
}

// NewService builds a Service. A nil completer selects the deterministic
// fallback template for every generation.
func NewService(client RepositoryClient, completer Completer, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New(clientRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, completer: completer, logger: logger}, nil
}

// GatherContext collects the metadata the generator feeds into prompts and
// fallback templates. Languages, topics, and tree failures degrade to empty
// sections; only the metadata fetch is fatal.
func (service *Service) GatherContext(executionContext context.Context, repository identifier.Identifier) (Context, error) {
	metadata, metadataError := service.client.RepositoryInfo(executionContext, repository.Owner, repository.Name)
	if metadataError != nil {
		return Context{}, metadataError
	}

	gathered := Context{
		Owner:         repository.Owner,
		Name:          repository.Name,
		Description:   metadata.Description,
		LicenseName:   metadata.LicenseName,
		Homepage:      metadata.Homepage,
		DefaultBranch: metadata.DefaultBranch,
	}

	if languages, languagesError := service.client.Languages(executionContext, repository.Owner, repository.Name); languagesError == nil {
		gathered.Languages = rankLanguages(languages)
	}
	if topics, topicsError := service.client.Topics(executionContext, repository.Owner, repository.Name); topicsError == nil {
		gathered.Topics = topics
	}
	if entries, treeError := service.client.Tree(executionContext, repository.Owner, repository.Name, metadata.DefaultBranch); treeError == nil {
		for _, entry := range entries {
			switch entry.Type {
			case githubapi.TreeEntryTypeBlob:
				if len(gathered.KeyFiles) < keyFileLimitConstant {
					gathered.KeyFiles = append(gathered.KeyFiles, entry.Path)
				}
			case githubapi.TreeEntryTypeTree:
				if len(gathered.KeyDirectories) < keyDirectoryLimitConstant {
					gathered.KeyDirectories = append(gathered.KeyDirectories, entry.Path)
				}
			}
		}
	}

	return gathered, nil
}

func rankLanguages(byteCounts map[string]int) []string {
	languages := make([]string, 0, len(byteCounts))
	for language := range byteCounts {
		languages = append(languages, language)
	}
	for outer := 0; outer < len(languages); outer++ {
		for inner := outer + 1; inner < len(languages); inner++ {
			if byteCounts[languages[inner]] > byteCounts[languages[outer]] {
				languages[outer], languages[inner] = languages[inner], languages[outer]
			}
		}
	}
	return languages
}

// GenerateContent produces README text for the context, preferring the model
// draft and falling back to the deterministic template.
func (service *Service) GenerateContent(executionContext context.Context, generationContext Context) (string, string) {
	if service.completer != nil {
		draft, completionError := service.completer.Complete(executionContext, llm.Request{
			MaxTokens: generationMaxTokensConstant,
			Prompt:    buildGenerationPrompt(generationContext),
		})
		if completionError == nil {
			if cleaned := stripMarkdownFence(draft); cleaned != "" {
				return cleaned, MethodModel
			}
		} else {
			service.logger.Debug(
				llmFallbackMessageConstant,
				zap.String(logFieldRepositoryConstant, generationContext.Owner+"/"+generationContext.Name),
				zap.Error(completionError),
			)
		}
	}
	return FallbackReadme(generationContext), MethodFallback
}

func stripMarkdownFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, markdownFencePrefixConstant) {
		content = content[len(markdownFencePrefixConstant):]
	} else if strings.HasPrefix(content, fencePrefixConstant) {
		content = content[len(fencePrefixConstant):]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), fencePrefixConstant)
	return strings.TrimSpace(content)
}

func buildGenerationPrompt(generationContext Context) string {
	lines := []string{
		"Generate a professional README.md file for the following GitHub repository.",
		"The README should be well-structured, informative, and follow best practices.",
		"",
		"Repository Information:",
		"- Name: " + generationContext.Name,
		"- Owner: " + generationContext.Owner,
	}

	if generationContext.Description != "" {
		lines = append(lines, "- Description: "+generationContext.Description)
	}
	if len(generationContext.Languages) > 0 {
		lines = append(lines, "- Languages: "+strings.Join(generationContext.Languages, ", "))
	}
	if len(generationContext.Topics) > 0 {
		lines = append(lines, "- Topics: "+strings.Join(generationContext.Topics, ", "))
	}
	if generationContext.LicenseName != "" {
		lines = append(lines, "- License: "+generationContext.LicenseName)
	}
	if generationContext.Homepage != "" {
		lines = append(lines, "- Homepage: "+generationContext.Homepage)
	}
	if len(generationContext.KeyFiles) > 0 {
		keyFiles := generationContext.KeyFiles
		if len(keyFiles) > promptFileLimitConstant {
			keyFiles = keyFiles[:promptFileLimitConstant]
		}
		lines = append(lines, "- Key files: "+strings.Join(keyFiles, ", "))
	}
	if len(generationContext.KeyDirectories) > 0 {
		lines = append(lines, "- Key directories: "+strings.Join(generationContext.KeyDirectories, ", "))
	}

	lines = append(lines,
		"",
		"Requirements for the README:",
		"1. Start with a clear title (# Repository Name)",
		"2. Add a concise but informative description/introduction",
		"3. Include an Installation section with code examples",
		"4. Include a Usage section with practical examples",
		"5. Add any relevant sections based on the project type (API docs, configuration, etc.)",
		"6. Include a License section if applicable",
		"7. Keep it professional and well-formatted",
		"8. Use appropriate markdown formatting",
		"9. Do NOT include badges - those will be added separately",
		"10. Do NOT use emojis in section headers",
		"",
		"Generate ONLY the README content, no explanations or commentary.",
	)

	return strings.Join(lines, "\n")
}

// FallbackReadme renders the deterministic README template.
func FallbackReadme(generationContext Context) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "# %s\n\n", generationContext.Name)

	if generationContext.Description != "" {
		fmt.Fprintf(&builder, "%s\n\n", generationContext.Description)
	}

	if len(generationContext.Languages) > 0 {
		builder.WriteString("## Technologies\n\n")
		fmt.Fprintf(&builder, "- Primary language: %s\n", generationContext.Languages[0])
		if len(generationContext.Languages) > 1 {
			fmt.Fprintf(&builder, "- Also uses: %s\n", strings.Join(generationContext.Languages[1:], ", "))
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## Installation\n\n")
	builder.WriteString("```bash\n")
	fmt.Fprintf(&builder, "git clone https://github.com/%s/%s.git\n", generationContext.Owner, generationContext.Name)
	fmt.Fprintf(&builder, "cd %s\n", generationContext.Name)
	builder.WriteString("```\n\n")

	builder.WriteString("## Usage\n\n")
	builder.WriteString("See the documentation for usage instructions.\n\n")

	if generationContext.LicenseName != "" {
		builder.WriteString("## License\n\n")
		fmt.Fprintf(&builder, "This project is licensed under the %s.\n", generationContext.LicenseName)
	}

	return builder.String()
}

// writeReadme pushes content through the contents API, passing the current
// blob SHA when the file already exists.
func (service *Service) writeReadme(executionContext context.Context, repository identifier.Identifier, content string, branch string) error {
	options := githubapi.PutFileOptions{
		Path:    readmePathConstant,
		Message: commitMessageConstant,
		Content: []byte(content),
		Branch:  branch,
	}

	existing, lookupError := service.client.FileContents(executionContext, repository.Owner, repository.Name, readmePathConstant)
	if lookupError == nil {
		options.SHA = existing.SHA
	} else if !githubapi.IsNotFound(lookupError) {
		return lookupError
	}

	return service.client.PutFile(executionContext, repository.Owner, repository.Name, options)
}

// ProcessRepository assesses, regenerates, and writes one README.
func (service *Service) ProcessRepository(executionContext context.Context, repository identifier.Identifier, options Options) Result {
	result := Result{Repository: repository.String()}

	minimumQuality := options.MinimumQuality
	if minimumQuality <= 0 {
		minimumQuality = defaultMinimumQualityConstant
	}

	currentReadme, readmeError := service.client.Readme(executionContext, repository.Owner, repository.Name)
	readmeMissing := readmeError != nil || strings.TrimSpace(currentReadme) == ""

	quality, issues := AssessQuality(currentReadme)
	result.QualityBefore = quality
	result.Issues = issues

	switch {
	case readmeMissing:
		result.Action = ActionCreate
	case options.Force:
		result.Action = ActionForceUpdate
	case quality < minimumQuality:
		result.Action = ActionQualityUpdate
	default:
		result.Status = StatusSkipped
		result.Action = ActionQualityOK
		return result
	}

	generationContext, contextError := service.GatherContext(executionContext, repository)
	if contextError != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf(contextFailureTemplateConstant, contextError)
		return result
	}

	newReadme, method := service.GenerateContent(executionContext, generationContext)
	result.GenerationMethod = method
	result.GeneratedContent = newReadme

	newQuality, _ := AssessQuality(newReadme)
	result.QualityAfter = newQuality

	if options.DryRun {
		result.Status = StatusDryRun
		return result
	}

	if writeError := service.writeReadme(executionContext, repository, newReadme, generationContext.DefaultBranch); writeError != nil {
		result.Status = StatusFailed
		result.Message = fmt.Sprintf(writeFailureTemplateConstant, writeError)
		return result
	}

	if result.Action == ActionCreate {
		result.Status = StatusCreated
	} else {
		result.Status = StatusUpdated
	}
	return result
}

// ProcessRepositories runs the flow sequentially with a fixed delay between
// repositories.
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
