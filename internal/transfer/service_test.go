package transfer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/transfer"
)

type stubTransferClient struct {
	invitations  []githubapi.Invitation
	transferred  []string
	acceptedIDs  []int64
	failingRepos map[string]bool
	failingIDs   map[int64]bool
}

func (stub *stubTransferClient) TransferRepository(_ context.Context, owner string, name string, newOwner string) (githubapi.Transfer, error) {
	full := owner + "/" + name
	if stub.failingRepos[full] {
		return githubapi.Transfer{}, errors.New("forbidden")
	}
	stub.transferred = append(stub.transferred, full+"->"+newOwner)
	return githubapi.Transfer{RepositoryFull: full, NewOwner: newOwner}, nil
}

func (stub *stubTransferClient) ListInvitations(context.Context) ([]githubapi.Invitation, error) {
	return stub.invitations, nil
}

func (stub *stubTransferClient) AcceptInvitation(_ context.Context, invitationID int64) error {
	if stub.failingIDs[invitationID] {
		return errors.New("boom")
	}
	stub.acceptedIDs = append(stub.acceptedIDs, invitationID)
	return nil
}

func TestInitiateTransfersEachRepository(t *testing.T) {
	client := &stubTransferClient{}
	service, creationError := transfer.NewService(client, nil)
	require.NoError(t, creationError)

	results, summary, runError := service.Initiate(context.Background(), []string{"acme/alpha", "acme/beta"}, "labs", transfer.Options{Delay: time.Millisecond})

	require.NoError(t, runError)
	require.Equal(t, []string{"acme/alpha->labs", "acme/beta->labs"}, client.transferred)
	require.Equal(t, transfer.StatusInitiated, results[0].Status)
	require.Equal(t, "labs", results[0].NewOwner)
	require.Equal(t, 2, summary.Processed)
}

func TestInitiateRequiresNewOwner(t *testing.T) {
	client := &stubTransferClient{}
	service, creationError := transfer.NewService(client, nil)
	require.NoError(t, creationError)

	_, _, runError := service.Initiate(context.Background(), []string{"acme/alpha"}, "  ", transfer.Options{})

	require.Error(t, runError)
	require.Empty(t, client.transferred)
}

func TestInitiateValidatesIdentifiersBeforeAnyWrite(t *testing.T) {
	client := &stubTransferClient{}
	service, creationError := transfer.NewService(client, nil)
	require.NoError(t, creationError)

	results, _, runError := service.Initiate(context.Background(), []string{"acme/alpha", "malformed"}, "labs", transfer.Options{})

	require.Error(t, runError)
	require.Nil(t, results)
	require.Empty(t, client.transferred)
}

func TestInitiateRecordsPerItemFailure(t *testing.T) {
	client := &stubTransferClient{failingRepos: map[string]bool{"acme/alpha": true}}
	service, creationError := transfer.NewService(client, nil)
	require.NoError(t, creationError)

	results, summary, runError := service.Initiate(context.Background(), []string{"acme/alpha", "acme/beta"}, "labs", transfer.Options{Delay: time.Millisecond})

	require.NoError(t, runError)
	require.Equal(t, transfer.StatusError, results[0].Status)
	require.Contains(t, results[0].Message, "initiate transfer")
	require.Equal(t, transfer.StatusInitiated, results[1].Status)
	require.Equal(t, 1, summary.Failed)
}

func TestInitiateDryRunWritesNothing(t *testing.T) {
	client := &stubTransferClient{}
	service, creationError := transfer.NewService(client, nil)
	require.NoError(t, creationError)

	results, _, runError := service.Initiate(context.Background(), []string{"acme/alpha"}, "labs", transfer.Options{DryRun: true})

	require.NoError(t, runError)
	require.Empty(t, client.transferred)
	require.Equal(t, transfer.StatusDryRun, results[0].Status)
	require.Contains(t, results[0].Message, "would transfer to labs")
}

func TestAcceptFiltersByRepositoryOwner(t *testing.T) {
	client := &stubTransferClient{
		invitations: []githubapi.Invitation{
			{ID: 1, RepositoryFull: "acme/alpha"},
			{ID: 2, RepositoryFull: "labs/beta"},
		},
	}
	service, creationError := transfer.NewService(client, nil)
	require.NoError(t, creationError)

	results, summary, runError := service.Accept(context.Background(), transfer.Options{
		Owner: "acme",
		Delay: time.Millisecond,
	})

	require.NoError(t, runError)
	require.Equal(t, []int64{1}, client.acceptedIDs)
	require.Equal(t, transfer.StatusAccepted, results[0].Status)
	require.Equal(t, transfer.StatusSkipped, results[1].Status)
	require.Equal(t, 1, summary.Processed)
	require.Equal(t, 1, summary.Skipped)
}

func TestAcceptRecordsPerItemFailure(t *testing.T) {
	client := &stubTransferClient{
		invitations: []githubapi.Invitation{{ID: 7, RepositoryFull: "acme/alpha"}},
		failingIDs:  map[int64]bool{7: true},
	}
	service, creationError := transfer.NewService(client, nil)
	require.NoError(t, creationError)

	results, summary, runError := service.Accept(context.Background(), transfer.Options{})

	require.NoError(t, runError)
	require.Equal(t, transfer.StatusError, results[0].Status)
	require.Equal(t, 1, summary.Failed)
}
