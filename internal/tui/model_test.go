package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/health"
	"github.com/ghfolio/ghfolio/internal/identifier"
)

type stubDataClient struct {
	organizations     []githubapi.Organization
	repositories      map[string][]githubapi.Repository
	readme            string
	organizationCalls int
	repositoryCalls   int
}

func (stub *stubDataClient) ListUserOrganizations(context.Context) ([]githubapi.Organization, error) {
	stub.organizationCalls++
	return stub.organizations, nil
}

func (stub *stubDataClient) ListOrganizationRepositories(_ context.Context, organization string, _ githubapi.RepositoryTypeFilter) ([]githubapi.Repository, error) {
	stub.repositoryCalls++
	return stub.repositories[organization], nil
}

func (stub *stubDataClient) Readme(context.Context, string, string) (string, error) {
	return stub.readme, nil
}

type stubHealthRunner struct {
	report health.Report
	err    error
}

func (stub *stubHealthRunner) CheckRepository(context.Context, identifier.Identifier) (health.Report, error) {
	return stub.report, stub.err
}

func browserFixture() (*stubDataClient, Model) {
	client := &stubDataClient{
		organizations: []githubapi.Organization{
			{Login: "acme", Description: "Makers of things"},
			{Login: "labs"},
		},
		repositories: map[string][]githubapi.Repository{
			"acme": {
				{Owner: "acme", Name: "gadget", FullName: "acme/gadget", Stars: 7, Language: "Go"},
				{Owner: "acme", Name: "widget", FullName: "acme/widget", Stars: 2},
			},
		},
		readme: "# gadget\n\nDocs.",
	}
	return client, NewModel(client, nil, nil, nil)
}

func drain(model tea.Model, command tea.Cmd) tea.Model {
	for command != nil {
		message := command()
		model, command = model.Update(message)
	}
	return model
}

func keyPress(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestInitLoadsOrganizationsIntoList(t *testing.T) {
	client, model := browserFixture()

	updated := drain(model, model.Init())

	browser := updated.(Model)
	require.Equal(t, 1, client.organizationCalls)
	require.Len(t, browser.organizationList.Items(), 2)
	require.False(t, browser.busy)
}

func TestEnterOpensOrganizationRepositories(t *testing.T) {
	_, model := browserFixture()
	browser := drain(model, model.Init()).(Model)

	updated, command := browser.Update(keyPress("enter"))
	browser = updated.(Model)
	require.True(t, browser.busy)

	browser = drain(browser, command).(Model)
	require.Equal(t, screenOrg, browser.screen)
	require.Equal(t, "acme", browser.currentOrganization)
	require.Len(t, browser.repositoryTable.Rows(), 2)
	require.Equal(t, "gadget", browser.repositoryTable.Rows()[0][0])
}

func TestListingsAreCachedUntilRefresh(t *testing.T) {
	client, model := browserFixture()
	browser := drain(model, model.Init()).(Model)

	openOrg := func(browser Model) Model {
		updated, command := browser.Update(keyPress("enter"))
		return drain(updated, command).(Model)
	}

	browser = openOrg(browser)
	require.Equal(t, 1, client.repositoryCalls)

	updated, _ := browser.Update(keyPress("esc"))
	browser = updated.(Model)
	require.Equal(t, screenHome, browser.screen)

	browser = openOrg(browser)
	require.Equal(t, 1, client.repositoryCalls)

	updated, command := browser.Update(keyPress("r"))
	browser = drain(updated, command).(Model)
	require.Equal(t, 2, client.repositoryCalls)
}

func TestRefreshOnHomeInvalidatesOrganizationCache(t *testing.T) {
	client, model := browserFixture()
	browser := drain(model, model.Init()).(Model)
	require.Equal(t, 1, client.organizationCalls)

	updated, command := browser.Update(keyPress("r"))
	browser = drain(updated, command).(Model)
	require.Equal(t, 2, client.organizationCalls)
}

func TestBusyFlagBlocksSecondTask(t *testing.T) {
	_, model := browserFixture()
	browser := drain(model, model.Init()).(Model)

	updated, firstCommand := browser.Update(keyPress("enter"))
	browser = updated.(Model)
	require.True(t, browser.busy)
	require.NotNil(t, firstCommand)

	updated, secondCommand := browser.Update(keyPress("r"))
	browser = updated.(Model)
	require.Nil(t, secondCommand)
	require.True(t, browser.busy)
}

func TestHealthCheckShowsResultsScreen(t *testing.T) {
	client, _ := browserFixture()
	runner := &stubHealthRunner{
		report: health.Report{
			Repository: "acme/gadget",
			Grade:      "B",
			Percentage: 85,
			TotalScore: 85,
			MaxScore:   100,
		},
	}
	model := NewModel(client, runner, nil, nil)
	browser := drain(model, model.Init()).(Model)

	updated, command := browser.Update(keyPress("enter"))
	browser = drain(updated, command).(Model)
	updated, _ = browser.Update(keyPress("enter"))
	browser = updated.(Model)
	require.Equal(t, screenRepo, browser.screen)

	updated, command = browser.Update(keyPress("h"))
	browser = drain(updated, command).(Model)
	require.Equal(t, screenResults, browser.screen)
	require.Equal(t, "Health Check", browser.resultTitle)
	require.Contains(t, browser.resultBody, "Grade B (85.0%), 85/100 points")

	updated, _ = browser.Update(keyPress("esc"))
	browser = updated.(Model)
	require.Equal(t, screenRepo, browser.screen)
}

func TestHealthCheckFailureShowsError(t *testing.T) {
	client, _ := browserFixture()
	runner := &stubHealthRunner{err: errors.New("api unavailable")}
	model := NewModel(client, runner, nil, nil)
	browser := drain(model, model.Init()).(Model)

	updated, command := browser.Update(keyPress("enter"))
	browser = drain(updated, command).(Model)
	updated, _ = browser.Update(keyPress("enter"))
	browser = updated.(Model)

	updated, command = browser.Update(keyPress("h"))
	browser = drain(updated, command).(Model)
	require.Equal(t, screenRepo, browser.screen)
	require.Contains(t, browser.errorMessage, "api unavailable")
}

func TestReadmePreviewOpensResults(t *testing.T) {
	_, model := browserFixture()
	browser := drain(model, model.Init()).(Model)

	updated, command := browser.Update(keyPress("enter"))
	browser = drain(updated, command).(Model)
	updated, _ = browser.Update(keyPress("enter"))
	browser = updated.(Model)

	updated, command = browser.Update(keyPress("p"))
	browser = drain(updated, command).(Model)
	require.Equal(t, screenResults, browser.screen)
	require.Contains(t, browser.resultBody, "# gadget")
}

func TestHelpToggleReturnsToPreviousScreen(t *testing.T) {
	_, model := browserFixture()
	browser := drain(model, model.Init()).(Model)

	updated, _ := browser.Update(keyPress("?"))
	browser = updated.(Model)
	require.Equal(t, screenHelp, browser.screen)

	updated, _ = browser.Update(keyPress("x"))
	browser = updated.(Model)
	require.Equal(t, screenHome, browser.screen)
}
