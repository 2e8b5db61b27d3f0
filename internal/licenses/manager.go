package licenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/identifier"
)

// Status values reported per repository.
const (
	StatusCreated = "created"
	StatusUpdated = "updated"
	StatusSkipped = "skipped"
	StatusDryRun  = "dry_run"
	StatusError   = "error"
)

// Actions reported alongside dry-run and write statuses.
const (
	ActionCreate  = "create"
	ActionReplace = "replace"
)

// DefaultLicenseKey is used when no license is named.
const DefaultLicenseKey = "mit"

// CommonLicenses maps SPDX identifiers to short descriptions for listings.
var CommonLicenses = map[string]string{
	"mit":          "MIT License - Simple and permissive",
	"apache-2.0":   "Apache 2.0 - Permissive with patent protection",
	"gpl-3.0":      "GPL 3.0 - Copyleft, requires source disclosure",
	"bsd-3-clause": "BSD 3-Clause - Permissive with attribution",
	"bsd-2-clause": "BSD 2-Clause - Simplified BSD",
	"unlicense":    "Unlicense - Public domain dedication",
	"mpl-2.0":      "Mozilla Public License 2.0",
	"lgpl-3.0":     "LGPL 3.0 - Lesser GPL for libraries",
	"agpl-3.0":     "AGPL 3.0 - Network copyleft",
	"cc0-1.0":      "CC0 1.0 - Public domain",
}

const (
	licensePathConstant             = "LICENSE"
	commitMessageTemplateConstant   = "Add %s license"
	defaultRequestDelayConstant     = 500 * time.Millisecond
	previewLengthConstant           = 200
	clientRequiredMessageConstant   = "licenses: repository client is required"
	hasLicenseTemplateConstant      = "already has license: %s"
	templateMissingTemplateConstant = "license template not found: %s"
	emptyTemplateMessageConstant    = "license template has no body"
	writeFailureTemplateConstant    = "write LICENSE: %s"
)

// RepositoryClient is the GitHub surface the manager needs.
type RepositoryClient interface {
	RepositoryInfo(executionContext context.Context, owner string, name string) (githubapi.Repository, error)
	LicenseTemplate(executionContext context.Context, key string) (githubapi.License, error)
	ListLicenses(executionContext context.Context) ([]githubapi.License, error)
	FileContents(executionContext context.Context, owner string, name string, path string) (githubapi.ContentFile, error)
	PutFile(executionContext context.Context, owner string, name string, options githubapi.PutFileOptions) error
}

// Result records the outcome for one repository.
type Result struct {
	Repository     string `json:"repo"`
	LicenseKey     string `json:"license"`
	Status         string `json:"status"`
	Action         string `json:"action,omitempty"`
	Reason         string `json:"reason,omitempty"`
	ContentPreview string `json:"content_preview,omitempty"`
}

// Options controls a licensing run.
type Options struct {
	LicenseKey string
	// FullName is the copyright holder; the repository owner when empty.
	FullName string
	// Year defaults to the current year.
	Year     int
	DryRun   bool
	Force    bool
	Delay    time.Duration
	Progress func(result Result, completed int, total int)
}

// Manager adds license files to repositories.
type Manager struct {
	client        RepositoryClient
	logger        *zap.Logger
	templateCache map[string]githubapi.License
}

// NewManager builds a Manager with an empty template cache.
func NewManager(client RepositoryClient, logger *zap.Logger) (*Manager, error) {
	if client == nil {
		return nil, errors.New(clientRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{client: client, logger: logger, templateCache: make(map[string]githubapi.License)}, nil
}

// AvailableLicenses lists the license templates GitHub offers.
func (manager *Manager) AvailableLicenses(executionContext context.Context) ([]githubapi.License, error) {
	return manager.client.ListLicenses(executionContext)
}

// Template fetches a license template, serving repeats from the cache.
func (manager *Manager) Template(executionContext context.Context, key string) (githubapi.License, error) {
	normalized := strings.ToLower(strings.TrimSpace(key))
	if cached, exists := manager.templateCache[normalized]; exists {
		return cached, nil
	}

	template, fetchError := manager.client.LicenseTemplate(executionContext, normalized)
	if fetchError != nil {
		return githubapi.License{}, fetchError
	}
	manager.templateCache[normalized] = template
	return template, nil
}

// FormatBody fills the placeholder variants GitHub's templates use.
func FormatBody(templateBody string, fullName string, year int) string {
	if year == 0 {
		year = time.Now().Year()
	}
	yearText := fmt.Sprintf("%d", year)

	body := templateBody
	for _, placeholder := range []string{"[year]", "[yyyy]", "<year>"} {
		body = strings.ReplaceAll(body, placeholder, yearText)
	}
	if fullName != "" {
		for _, placeholder := range []string{
			"[fullname]",
			"[name of copyright owner]",
			"<name of author>",
			"[name]",
			"<copyright holders>",
			"[copyright holders]",
		} {
			body = strings.ReplaceAll(body, placeholder, fullName)
		}
	}
	return body
}

// ProcessRepository adds the configured license to one repository. Existing
// licenses are left alone unless Force is set.
func (manager *Manager) ProcessRepository(executionContext context.Context, repository identifier.Identifier, options Options) Result {
	licenseKey := options.LicenseKey
	if licenseKey == "" {
		licenseKey = DefaultLicenseKey
	}
	result := Result{Repository: repository.String(), LicenseKey: licenseKey}

	metadata, metadataError := manager.client.RepositoryInfo(executionContext, repository.Owner, repository.Name)
	if metadataError != nil {
		result.Status = StatusError
		result.Reason = metadataError.Error()
		return result
	}

	if metadata.LicenseKey != "" && !options.Force {
		result.Status = StatusSkipped
		result.Reason = fmt.Sprintf(hasLicenseTemplateConstant, metadata.LicenseKey)
		return result
	}

	template, templateError := manager.Template(executionContext, licenseKey)
	if templateError != nil {
		result.Status = StatusError
		result.Reason = fmt.Sprintf(templateMissingTemplateConstant, licenseKey)
		return result
	}
	if strings.TrimSpace(template.Body) == "" {
		result.Status = StatusError
		result.Reason = emptyTemplateMessageConstant
		return result
	}

	fullName := options.FullName
	if fullName == "" {
		fullName = repository.Owner
	}
	content := FormatBody(template.Body, fullName, options.Year)
	result.ContentPreview = preview(content)

	action := ActionCreate
	writeOptions := githubapi.PutFileOptions{
		Path:    licensePathConstant,
		Message: fmt.Sprintf(commitMessageTemplateConstant, strings.ToUpper(licenseKey)),
		Content: []byte(content),
	}
	existing, lookupError := manager.client.FileContents(executionContext, repository.Owner, repository.Name, licensePathConstant)
	if lookupError == nil {
		writeOptions.SHA = existing.SHA
		action = ActionReplace
	} else if !githubapi.IsNotFound(lookupError) {
		result.Status = StatusError
		result.Reason = lookupError.Error()
		return result
	}
	result.Action = action

	if options.DryRun {
		result.Status = StatusDryRun
		return result
	}

	if writeError := manager.client.PutFile(executionContext, repository.Owner, repository.Name, writeOptions); writeError != nil {
		result.Status = StatusError
		result.Reason = fmt.Sprintf(writeFailureTemplateConstant, writeError)
		return result
	}

	if action == ActionReplace {
		result.Status = StatusUpdated
	} else {
		result.Status = StatusCreated
	}
	return result
}

func preview(content string) string {
	if len(content) > previewLengthConstant {
		return content[:previewLengthConstant] + "..."
	}
	return content
}

// ProcessRepositories licenses each repository sequentially with a fixed
// delay between writes.
func (manager *Manager) ProcessRepositories(executionContext context.Context, repositories []identifier.Identifier, options Options) []Result {
	delay := options.Delay
	if delay <= 0 {
		delay = defaultRequestDelayConstant
	}

	results := make([]Result, 0, len(repositories))
	for index, repository := range repositories {
		result := manager.ProcessRepository(executionContext, repository, options)
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
