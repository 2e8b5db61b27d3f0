package githubapi

import (
	"context"

	"github.com/google/go-github/v39/github"
)

// ListInvitations returns the pending repository invitations for the
// authenticated user.
func (client *Client) ListInvitations(executionContext context.Context) ([]Invitation, error) {
	listOptions := &github.ListOptions{PerPage: defaultPageSizeConstant}

	var collected []Invitation
	for {
		var page []*github.RepositoryInvitation
		response, callError := client.callResponse(executionContext, func() (*github.Response, error) {
			invitations, pageResponse, listError := client.restClient.Users.ListInvitations(executionContext, listOptions)
			page = invitations
			return pageResponse, listError
		})
		if callError != nil {
			return nil, callError
		}

		for _, invitation := range page {
			collected = append(collected, convertInvitation(invitation))
		}

		if response == nil || response.NextPage == 0 {
			return collected, nil
		}
		listOptions.Page = response.NextPage
	}
}

// AcceptInvitation accepts one pending repository invitation.
func (client *Client) AcceptInvitation(executionContext context.Context, invitationID int64) error {
	return client.call(executionContext, func() (*github.Response, error) {
		return client.restClient.Users.AcceptInvitation(executionContext, invitationID)
	})
}

// DeclineInvitation declines one pending repository invitation.
func (client *Client) DeclineInvitation(executionContext context.Context, invitationID int64) error {
	return client.call(executionContext, func() (*github.Response, error) {
		return client.restClient.Users.DeclineInvitation(executionContext, invitationID)
	})
}
