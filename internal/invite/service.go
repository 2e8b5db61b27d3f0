package invite

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

// Status values reported per invitation or repository.
const (
	StatusAccepted = "accepted"
	StatusDeclined = "declined"
	StatusLeft     = "left"
	StatusSkipped  = "skipped"
	StatusDryRun   = "dry_run"
	StatusError    = "error"
)

const (
	defaultRequestDelayConstant   = 500 * time.Millisecond
	clientRequiredMessageConstant = "invite: invitation client is required"
	ownerMismatchTemplateConstant = "inviter %s does not match owner filter %s"
	wouldAcceptMessageConstant    = "would accept invitation"
	wouldDeclineMessageConstant   = "would decline invitation"
	wouldLeaveMessageConstant     = "would leave repository"
	acceptFailedTemplateConstant  = "accept invitation: %s"
	declineFailedTemplateConstant = "decline invitation: %s"
	leaveFailedTemplateConstant   = "leave repository: %s"
	userFetchTemplateConstant     = "invite: resolve authenticated user: %w"
)

// InvitationClient is the GitHub surface invitation processing needs.
type InvitationClient interface {
	ListInvitations(executionContext context.Context) ([]githubapi.Invitation, error)
	AcceptInvitation(executionContext context.Context, invitationID int64) error
	DeclineInvitation(executionContext context.Context, invitationID int64) error
	LeaveRepository(executionContext context.Context, owner string, name string, login string) error
	AuthenticatedUser(executionContext context.Context) (githubapi.User, error)
}

// Result records the outcome for one invitation or repository.
type Result struct {
	Repository string `json:"repo"`
	Inviter    string `json:"inviter,omitempty"`
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

// Options controls a batch run over invitations.
type Options struct {
	// Owner accepts only invitations whose inviter matches; empty accepts all.
	Owner string
	// Decline rejects matching invitations instead of accepting them.
	Decline bool
	DryRun  bool
	// Delay spaces out consecutive write calls; zero means the default.
	Delay time.Duration
	// Progress, when set, observes each finished item.
	Progress func(result Result, completed int, total int)
}

// Service processes invitations for the authenticated user.
type Service struct {
	client InvitationClient
	logger *zap.Logger
}

// NewService builds a Service.
func NewService(client InvitationClient, logger *zap.Logger) (*Service, error) {
	if client == nil {
		return nil, errors.New(clientRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}, nil
}

// ListPending returns the pending invitations.
func (service *Service) ListPending(executionContext context.Context) ([]githubapi.Invitation, error) {
	return service.client.ListInvitations(executionContext)
}

// ProcessInvitations accepts (or declines) every pending invitation matching
// the owner filter. Individual failures land in their Result; the batch
// itself always completes.
func (service *Service) ProcessInvitations(executionContext context.Context, options Options) ([]Result, Summary, error) {
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
		result := service.processInvitation(executionContext, invitation, options)
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

func (service *Service) processInvitation(executionContext context.Context, invitation githubapi.Invitation, options Options) Result {
	result := Result{Repository: invitation.RepositoryFull, Inviter: invitation.InviterLogin}

	if options.Owner != "" && !strings.EqualFold(options.Owner, invitation.InviterLogin) {
		result.Status = StatusSkipped
		result.Message = fmt.Sprintf(ownerMismatchTemplateConstant, invitation.InviterLogin, options.Owner)
		return result
	}

	if options.DryRun {
		result.Status = StatusDryRun
		if options.Decline {
			result.Message = wouldDeclineMessageConstant
		} else {
			result.Message = wouldAcceptMessageConstant
		}
		return result
	}

	if options.Decline {
		if declineError := service.client.DeclineInvitation(executionContext, invitation.ID); declineError != nil {
			result.Status = StatusError
			result.Message = fmt.Sprintf(declineFailedTemplateConstant, declineError)
			return result
		}
		result.Status = StatusDeclined
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

// LeaveRepositories removes the authenticated user from each listed
// repository. Identifiers are validated before any network write.
func (service *Service) LeaveRepositories(executionContext context.Context, tokens []string, options Options) ([]Result, Summary, error) {
	repositories, parseError := identifier.ParseList(tokens)
	if parseError != nil {
		return nil, Summary{}, parseError
	}

	user, userError := service.client.AuthenticatedUser(executionContext)
	if userError != nil {
		return nil, Summary{}, fmt.Errorf(userFetchTemplateConstant, userError)
	}

	delay := options.Delay
	if delay <= 0 {
		delay = defaultRequestDelayConstant
	}

	results := make([]Result, 0, len(repositories))
	for index, repository := range repositories {
		result := Result{Repository: repository.String()}

		switch {
		case options.DryRun:
			result.Status = StatusDryRun
			result.Message = wouldLeaveMessageConstant
		default:
			if leaveError := service.client.LeaveRepository(executionContext, repository.Owner, repository.Name, user.Login); leaveError != nil {
				result.Status = StatusError
				result.Message = fmt.Sprintf(leaveFailedTemplateConstant, leaveError)
			} else {
				result.Status = StatusLeft
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
