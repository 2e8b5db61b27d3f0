package transfer

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
	StatusInitiated = "initiated"
	StatusAccepted  = "accepted"
	StatusSkipped   = "skipped"
	StatusDryRun    = "dry_run"
	StatusError     = "error"
)

const (
	defaultRequestDelayConstant     = 500 * time.Millisecond
	clientRequiredMessageConstant   = "transfer: transfer client is required"
	newOwnerRequiredMessageConstant = "transfer: new owner is required"
	wouldTransferTemplateConstant   = "would transfer to %s"
	wouldAcceptMessageConstant      = "would accept transfer"
	transferFailedTemplateConstant  = "initiate transfer: %s"
	acceptFailedTemplateConstant    = "accept transfer: %s"
	ownerMismatchTemplateConstant   = "repository owner %s does not match filter %s"
)

// TransferClient is the GitHub surface transfer processing needs.
type TransferClient interface {
	TransferRepository(executionContext context.Context, owner string, name string, newOwner string) (githubapi.Transfer, error)
	ListInvitations(executionContext context.Context) ([]githubapi.Invitation, error)
	AcceptInvitation(executionContext context.Context, invitationID int64) error
}

// Result records the outcome for one repository.
type Result struct {
	Repository string `json:"repo"`
	NewOwner   string `json:"new_owner,omitempty"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

// Summary counts results by status.
type Summary struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// Options controls a batch run.
type Options struct {
	// Owner filters accepted transfers to repositories under this owner;
	// empty accepts all.
	Owner  string
	DryRun bool
	// Delay spaces out consecutive write calls; zero means the default.
	Delay time.Duration
	// Progress, when set, observes each finished item.
	Progress func(result Result, completed int, total int)
}

// Service initiates and accepts repository transfers.
type Service struct {
	client TransferClient
	logger *zap.Logger
}

// NewService builds a Service.
func NewService(client TransferClient, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New(clientRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}, nil
}

// Initiate transfers each listed repository to the new owner. Identifiers
// are validated before any network write; individual failures land in their
// Result.
func (service *Service) Initiate(executionContext context.Context, tokens []string, newOwner string, options Options) ([]Result, Summary, error) {
	if strings.TrimSpace(newOwner) == "" {
		return nil, Summary{}, errors.New(newOwnerRequiredMessageConstant)
	}

	repositories, parseError := identifier.ParseList(tokens)
	if parseError != nil {
		return nil, Summary{}, parseError
	}

	delay := options.Delay
	if delay <= 0 {
		delay = defaultRequestDelayConstant
	}

	results := make([]Result, 0, len(repositories))
	for index, repository := range repositories {
		result := Result{Repository: repository.String(), NewOwner: newOwner}

		switch {
		case options.DryRun:
			result.Status = StatusDryRun
			result.Message = fmt.Sprintf(wouldTransferTemplateConstant, newOwner)
		default:
			if _, transferError := service.client.TransferRepository(executionContext, repository.Owner, repository.Name, newOwner); transferError != nil {
				result.Status = StatusError
				result.Message = fmt.Sprintf(transferFailedTemplateConstant, transferError)
			} else {
				result.Status = StatusInitiated
			}
		}

		results = append(results, result)
		if options.Progress != nil {
			options.Progress(result, index+1, len(repositories))
		}

		if !options.DryRun && index < len(repositories)-1 {
			select {
			case <-executionContext.Done():
				return results, Summarize(results), executionContext.Err()
			case <-time.After(delay):
			}
		}
	}
	return results, Summarize(results), nil
}

// ListPending returns the pending invitations, which include repository
// transfers awaiting acceptance.
func (service *Service) ListPending(executionContext context.Context) ([]githubapi.Invitation, error) {
	return service.client.ListInvitations(executionContext)
}

// Accept accepts every pending transfer invitation, optionally restricted to
// repositories under one owner.
func (service *Service) Accept(executionContext context.Context, options Options) ([]Result, Summary, error) {
	invitations, listError := service.client.ListInvitations(executionContext)
	if listError != nil {
		return nil, Summary{}, listError
	}

	delay := options.Delay
	if delay <= 0 {
		delay = defaultRequestDelayConstant
	}

	results := make([]Result, 0, len(invitations))
	for index, invitation := range invitations {
		result := service.acceptInvitation(executionContext, invitation, options)
		results = append(results, result)
		if options.Progress != nil {
			options.Progress(result, index+1, len(invitations))
		}

		if result.Status != StatusSkipped && index < len(invitations)-1 {
			select {
			case <-executionContext.Done():
				return results, Summarize(results), executionContext.Err()
			case <-time.After(delay):
			}
		}
	}
	return results, Summarize(results), nil
}

func (service *Service) acceptInvitation(executionContext context.Context, invitation githubapi.Invitation, options Options) Result {
	result := Result{Repository: invitation.RepositoryFull}

	if options.Owner != "" {
		repositoryOwner, _, found := strings.Cut(invitation.RepositoryFull, "/")
		if !found || !strings.EqualFold(repositoryOwner, options.Owner) {
			result.Status = StatusSkipped
			result.Message = fmt.Sprintf(ownerMismatchTemplateConstant, repositoryOwner, options.Owner)
			return result
		}
	}

	if options.DryRun {
		result.Status = StatusDryRun
		result.Message = wouldAcceptMessageConstant
		return result
	}

	if acceptError := service.client.AcceptInvitation(executionContext, invitation.ID); acceptError != nil {
		result.Status = StatusError
		result.Message = fmt.Sprintf(acceptFailedTemplateConstant, acceptError)
		return result
	}
	result.Status = StatusAccepted
	return result
}

// Summarize folds results into status counts.
func Summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}
	for _, result := range results {
		switch result.Status {
		case StatusSkipped:
			summary.Skipped++
		case StatusError:
			summary.Failed++
		default:
			summary.Processed++
		}
	}
	return summary
}
