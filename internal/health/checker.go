package health

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/identifier"
)

const (
	inspectorRequiredMessageConstant  = "health: repository inspector is required"
	metadataFetchTemplateConstant     = "health: fetch %s: %w"
	sectionUnavailableMessageConstant = "repository section unavailable"
	logFieldRepositoryConstant        = "repository"
	logFieldSectionConstant           = "section"
	sectionReadmeConstant             = "readme"
	sectionTreeConstant               = "tree"
	sectionWorkflowsConstant          = "workflows"
)

// RepositoryInspector is the read-only GitHub surface the checker needs.
type RepositoryInspector interface {
	RepositoryInfo(executionContext context.Context, owner string, name string) (githubapi.Repository, error)
	Readme(executionContext context.Context, owner string, name string) (string, error)
	Tree(executionContext context.Context, owner string, name string, reference string) ([]githubapi.TreeEntry, error)
	ListWorkflows(executionContext context.Context, owner string, name string) ([]githubapi.WorkflowFile, error)
}

// Checker evaluates a fixed rule set against repositories.
type Checker struct {
	inspector RepositoryInspector
	ruleSet   string
	checks    []Check
	logger    *zap.Logger
}

// NewChecker builds a checker for one named rule set, with optional weight
// overrides applied to its checks.
func NewChecker(inspector RepositoryInspector, ruleSet string, overrides WeightOverrides, logger *zap.Logger) (*Checker, error) {
	if inspector == nil {
		return nil, errors.New(inspectorRequiredMessageConstant)
	}
	if ruleSet == "" {
		ruleSet = RuleSetGeneral
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	checks, ruleSetError := ChecksForRuleSet(ruleSet)
	if ruleSetError != nil {
		return nil, ruleSetError
	}
	if overrides != nil {
		overrides.Apply(ruleSet, checks)
	}

	return &Checker{inspector: inspector, ruleSet: ruleSet, checks: checks, logger: logger}, nil
}

// CheckRepository gathers evidence with four read calls and scores it.
// Metadata is required; a failed README, tree, or workflow fetch only fails
// the checks that depend on that section.
func (checker *Checker) CheckRepository(executionContext context.Context, repository identifier.Identifier) (Report, error) {
	metadata, metadataError := checker.inspector.RepositoryInfo(executionContext, repository.Owner, repository.Name)
	if metadataError != nil {
		return Report{}, fmt.Errorf(metadataFetchTemplateConstant, repository.String(), metadataError)
	}

	evidence := Evidence{Repository: metadata}

	readmeContent, readmeError := checker.inspector.Readme(executionContext, repository.Owner, repository.Name)
	if readmeError != nil {
		evidence.ReadmeMissing = true
		checker.logSectionFailure(repository, sectionReadmeConstant, readmeError)
	} else {
		evidence.ReadmeContent = readmeContent
	}

	rootEntries, treeError := checker.inspector.Tree(executionContext, repository.Owner, repository.Name, metadata.DefaultBranch)
	if treeError != nil {
		evidence.RootMissing = true
		checker.logSectionFailure(repository, sectionTreeConstant, treeError)
	} else {
		evidence.RootEntries = rootEntries
	}

	workflows, workflowsError := checker.inspector.ListWorkflows(executionContext, repository.Owner, repository.Name)
	if workflowsError != nil {
		evidence.WorkflowsMissing = true
		checker.logSectionFailure(repository, sectionWorkflowsConstant, workflowsError)
	} else {
		evidence.Workflows = workflows
	}

	return checker.score(repository, evidence), nil
}

func (checker *Checker) logSectionFailure(repository identifier.Identifier, section string, failure error) {
	checker.logger.Debug(
		sectionUnavailableMessageConstant,
		zap.String(logFieldRepositoryConstant, repository.String()),
		zap.String(logFieldSectionConstant, section),
		zap.Error(failure),
	)
}

func (checker *Checker) score(repository identifier.Identifier, evidence Evidence) Report {
	report := Report{
		Repository: repository.String(),
		RuleSet:    checker.ruleSet,
		ByCategory: make(map[string]CategorySummary),
		RepositoryInfo: RepositoryInfo{
			Language: evidence.Repository.Language,
			Stars:    evidence.Repository.Stars,
			SizeKB:   evidence.Repository.SizeKB,
		},
	}

	for _, check := range checker.checks {
		passed, message := check.Evaluate(evidence)
		result := CheckResult{
			Name:     check.Name,
			Category: check.Category,
			Weight:   check.Weight,
			Passed:   passed,
			Message:  message,
		}
		if !passed {
			result.FixSuggestion = check.FixSuggestion
			report.Issues = append(report.Issues, result)
		} else {
			report.TotalScore += check.Weight
		}
		report.MaxScore += check.Weight
		report.Checks = append(report.Checks, result)

		summary := report.ByCategory[check.Category]
		summary.Total++
		if passed {
			summary.Passed++
		}
		report.ByCategory[check.Category] = summary
	}

	for category, summary := range report.ByCategory {
		if summary.Total > 0 {
			summary.Percentage = 100 * float64(summary.Passed) / float64(summary.Total)
		}
		report.ByCategory[category] = summary
	}

	if report.MaxScore > 0 {
		report.Percentage = 100 * float64(report.TotalScore) / float64(report.MaxScore)
	}
	report.Grade = GradeFor(report.Percentage)
	return report
}
