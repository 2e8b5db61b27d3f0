package portfolio

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/extract"
	"github.com/ghfolio/ghfolio/internal/githubapi"
)

const (
	clientRequiredMessageConstant = "portfolio: repository client is required"
	organizationSkippedConstant   = "organization listing failed, skipping"
	logFieldOrganizationConstant  = "organization"
)

// RepositoryClient is the GitHub surface aggregation needs.
type RepositoryClient interface {
	ListUserOrganizations(executionContext context.Context) ([]githubapi.Organization, error)
	ListOrganizationRepositories(executionContext context.Context, organization string, typeFilter githubapi.RepositoryTypeFilter) ([]githubapi.Repository, error)
	OrganizationInfo(executionContext context.Context, organization string) (githubapi.Organization, error)
	AuthenticatedUser(executionContext context.Context) (githubapi.User, error)
}

// AggregateOptions filter the repositories collected per organization.
type AggregateOptions struct {
	ExcludeForks   bool
	IncludePrivate bool
	MinimumStars   int
	// MaximumRepositories caps the aggregate after star sorting; zero means
	// unlimited.
	MaximumRepositories int
}

// Service aggregates and audits portfolios.
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

// DiscoverOrganizations lists the organizations of the authenticated user.
func (service *Service) DiscoverOrganizations(executionContext context.Context) ([]githubapi.Organization, error) {
	return service.client.ListUserOrganizations(executionContext)
}

// AggregateRepositories collects repositories from the named organizations,
// applies the filters, tags each record with its source organization, and
// sorts by stars descending. A failed organization is skipped with a warning
// so the rest of the portfolio still builds.
func (service *Service) AggregateRepositories(executionContext context.Context, organizations []string, options AggregateOptions) []extract.Record {
	var records []extract.Record

	for _, organization := range organizations {
		repositories, listError := service.client.ListOrganizationRepositories(executionContext, organization, githubapi.RepositoryTypeAll)
		if listError != nil {
			service.logger.Warn(
				organizationSkippedConstant,
				zap.String(logFieldOrganizationConstant, organization),
				zap.Error(listError),
			)
			continue
		}

		for _, repository := range repositories {
			if options.ExcludeForks && repository.Fork {
				continue
			}
			if !options.IncludePrivate && repository.Private {
				continue
			}
			if repository.Stars < options.MinimumStars {
				continue
			}
			if repository.Archived {
				continue
			}

			record := extract.FromRepository(repository)
			record.SourceOrg = organization
			records = append(records, record)
		}
	}

	sort.SliceStable(records, func(left int, right int) bool {
		return records[left].Stars > records[right].Stars
	})

	if options.MaximumRepositories > 0 && len(records) > options.MaximumRepositories {
		records = records[:options.MaximumRepositories]
	}
	return records
}

// OrganizationDetails fetches display information for the named
// organizations, tolerating individual failures.
func (service *Service) OrganizationDetails(executionContext context.Context, organizations []string) map[string]githubapi.Organization {
	details := make(map[string]githubapi.Organization, len(organizations))
	for _, organization := range organizations {
		info, infoError := service.client.OrganizationInfo(executionContext, organization)
		if infoError != nil {
			service.logger.Warn(
				organizationSkippedConstant,
				zap.String(logFieldOrganizationConstant, organization),
				zap.Error(infoError),
			)
			continue
		}
		details[organization] = info
	}
	return details
}
