package tui

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/ghfolio/ghfolio/internal/githubapi"
	"github.com/ghfolio/ghfolio/internal/health"
	"github.com/ghfolio/ghfolio/internal/identifier"
)

type screen int

const (
	screenHome screen = iota
	screenOrg
	screenRepo
	screenResults
	screenHelp
)

const (
	defaultWidthConstant         = 80
	defaultHeightConstant        = 24
	descriptionPreviewConstant   = 40
	readmePreviewLengthConstant  = 2000
	loadingOrganizationsConstant = "loading organizations..."
	loadingRepositoriesConstant  = "loading repositories..."
	runningHealthCheckConstant   = "running health check..."
	fetchingReadmeConstant       = "fetching README..."
	draftingDescriptionConstant  = "drafting description..."
	helpTextConstant             = `Navigation

  up/down    move selection
  enter      open selection
  esc        back
  q          quit (from home)
  r          refresh current listing
  ?          toggle this help

Repository actions

  h          run health check
  p          preview README
  d          draft description`
)

// DataClient is the GitHub surface the browser needs.
type DataClient interface {
	ListUserOrganizations(executionContext context.Context) ([]githubapi.Organization, error)
	ListOrganizationRepositories(executionContext context.Context, organization string, typeFilter githubapi.RepositoryTypeFilter) ([]githubapi.Repository, error)
	Readme(executionContext context.Context, owner string, name string) (string, error)
}

// HealthRunner scores one repository. *health.Checker satisfies it.
type HealthRunner interface {
	CheckRepository(executionContext context.Context, repository identifier.Identifier) (health.Report, error)
}

// Describer drafts a repository description. *describe.Service satisfies it.
type Describer interface {
	GenerateDescription(executionContext context.Context, repository githubapi.Repository) string
}

type organizationsLoadedMsg struct {
	organizations []githubapi.Organization
	err           error
}

type repositoriesLoadedMsg struct {
	organization string
	repositories []githubapi.Repository
	err          error
}

type taskResultMsg struct {
	title string
	body  string
	err   error
}

type organizationItem struct {
	organization githubapi.Organization
}

func (item organizationItem) Title() string { return item.organization.Login }

func (item organizationItem) Description() string {
	if item.organization.Description == "" {
		return "No description"
	}
	return item.organization.Description
}

func (item organizationItem) FilterValue() string {
	return item.organization.Login + " " + item.organization.Description
}

// Model is the bubbletea model for the repository browser.
type Model struct {
	client       DataClient
	healthRunner HealthRunner
	describer    Describer
	logger       *zap.Logger
	cache        *listingCache

	screen       screen
	returnScreen screen

	organizationList list.Model
	repositoryTable  table.Model
	repositories     []githubapi.Repository

	currentOrganization string
	selectedRepository  githubapi.Repository

	busy          bool
	statusMessage string
	errorMessage  string
	resultTitle   string
	resultBody    string

	width  int
	height int
}

// NewModel builds the browser model. The health runner and describer are
// optional; their actions report unavailability when nil.
func NewModel(client DataClient, healthRunner HealthRunner, describer Describer, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	organizationList := list.New(nil, list.NewDefaultDelegate(), defaultWidthConstant, defaultHeightConstant-4)
	organizationList.Title = "Organizations"
	organizationList.SetShowHelp(false)
	organizationList.SetShowStatusBar(false)

	repositoryTable := table.New(
		table.WithColumns(repositoryColumns(defaultWidthConstant)),
		table.WithFocused(true),
		table.WithHeight(defaultHeightConstant-6),
	)

	return Model{
		client:           client,
		healthRunner:     healthRunner,
		describer:        describer,
		logger:           logger,
		cache:            newListingCache(),
		organizationList: organizationList,
		repositoryTable:  repositoryTable,
		width:            defaultWidthConstant,
		height:           defaultHeightConstant,
	}
}

func repositoryColumns(width int) []table.Column {
	descriptionWidth := width - 46
	if descriptionWidth < 20 {
		descriptionWidth = 20
	}
	return []table.Column{
		{Title: "Repository", Width: 24},
		{Title: "Stars", Width: 6},
		{Title: "Language", Width: 12},
		{Title: "Description", Width: descriptionWidth},
	}
}

// Init starts the initial organization load.
func (model Model) Init() tea.Cmd {
	return model.loadOrganizations(false)
}

func (model Model) loadOrganizations(invalidate bool) tea.Cmd {
	cache := model.cache
	client := model.client
	return func() tea.Msg {
		if invalidate {
			cache.InvalidateAll()
		}
		if cached, known := cache.Organizations(); known {
			return organizationsLoadedMsg{organizations: cached}
		}
		organizations, listError := client.ListUserOrganizations(context.Background())
		if listError != nil {
			return organizationsLoadedMsg{err: listError}
		}
		sort.Slice(organizations, func(left int, right int) bool {
			return strings.ToLower(organizations[left].Login) < strings.ToLower(organizations[right].Login)
		})
		cache.StoreOrganizations(organizations)
		return organizationsLoadedMsg{organizations: organizations}
	}
}

func (model Model) loadRepositories(organization string, invalidate bool) tea.Cmd {
	cache := model.cache
	client := model.client
	return func() tea.Msg {
		if invalidate {
			cache.InvalidateRepositories(organization)
		}
		if cached, known := cache.Repositories(organization); known {
			return repositoriesLoadedMsg{organization: organization, repositories: cached}
		}
		repositories, listError := client.ListOrganizationRepositories(context.Background(), organization, githubapi.RepositoryTypeAll)
		if listError != nil {
			return repositoriesLoadedMsg{organization: organization, err: listError}
		}
		sort.SliceStable(repositories, func(left int, right int) bool {
			return repositories[left].Stars > repositories[right].Stars
		})
		cache.StoreRepositories(organization, repositories)
		return repositoriesLoadedMsg{organization: organization, repositories: repositories}
	}
}

func (model Model) runHealthCheck(repository githubapi.Repository) tea.Cmd {
	runner := model.healthRunner
	return func() tea.Msg {
		report, checkError := runner.CheckRepository(context.Background(), identifier.Identifier{Owner: repository.Owner, Name: repository.Name})
		if checkError != nil {
			return taskResultMsg{title: "Health Check", err: checkError}
		}
		return taskResultMsg{title: "Health Check", body: formatHealthReport(report)}
	}
}

func (model Model) fetchReadme(repository githubapi.Repository) tea.Cmd {
	client := model.client
	return func() tea.Msg {
		readme, readmeError := client.Readme(context.Background(), repository.Owner, repository.Name)
		if readmeError != nil {
			return taskResultMsg{title: "README Preview", err: readmeError}
		}
		if len(readme) > readmePreviewLengthConstant {
			readme = readme[:readmePreviewLengthConstant] + "\n..."
		}
		return taskResultMsg{title: "README Preview", body: readme}
	}
}

func (model Model) draftDescription(repository githubapi.Repository) tea.Cmd {
	describer := model.describer
	return func() tea.Msg {
		description := describer.GenerateDescription(context.Background(), repository)
		return taskResultMsg{title: "Description Draft", body: description}
	}
}

func formatHealthReport(report health.Report) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "%s\n\nGrade %s (%.1f%%), %d/%d points\n\n", report.Repository, report.Grade, report.Percentage, report.TotalScore, report.MaxScore)

	categories := make([]string, 0, len(report.ByCategory))
	for category := range report.ByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		summary := report.ByCategory[category]
		fmt.Fprintf(&builder, "%-16s %d/%d (%.0f%%)\n", category, summary.Passed, summary.Total, summary.Percentage)
	}

	if len(report.Issues) > 0 {
		builder.WriteString("\nIssues\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&builder, "  - %s", issue.Message)
			if issue.FixSuggestion != "" {
				fmt.Fprintf(&builder, " (%s)", issue.FixSuggestion)
			}
			builder.WriteString("\n")
		}
	}
	return builder.String()
}

// Update routes messages to the active screen.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := message.(type) {
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.organizationList.SetSize(typed.Width, typed.Height-4)
		model.repositoryTable.SetColumns(repositoryColumns(typed.Width))
		model.repositoryTable.SetHeight(typed.Height - 6)
		return model, nil

	case organizationsLoadedMsg:
		model.busy = false
		model.statusMessage = ""
		if typed.err != nil {
			model.errorMessage = typed.err.Error()
			return model, nil
		}
		model.errorMessage = ""
		items := make([]list.Item, 0, len(typed.organizations))
		for _, organization := range typed.organizations {
			items = append(items, organizationItem{organization: organization})
		}
		return model, model.organizationList.SetItems(items)

	case repositoriesLoadedMsg:
		model.busy = false
		model.statusMessage = ""
		if typed.err != nil {
			model.errorMessage = typed.err.Error()
			return model, nil
		}
		model.errorMessage = ""
		model.currentOrganization = typed.organization
		model.repositories = typed.repositories
		model.repositoryTable.SetRows(repositoryRows(typed.repositories))
		model.repositoryTable.SetCursor(0)
		model.screen = screenOrg
		return model, nil

	case taskResultMsg:
		model.busy = false
		model.statusMessage = ""
		if typed.err != nil {
			model.errorMessage = typed.err.Error()
			return model, nil
		}
		model.errorMessage = ""
		model.resultTitle = typed.title
		model.resultBody = typed.body
		model.returnScreen = model.screen
		model.screen = screenResults
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(typed)
	}

	return model.updateActiveComponent(message)
}

func (model Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		return model, tea.Quit
	}

	switch model.screen {
	case screenHome:
		return model.handleHomeKey(key)
	case screenOrg:
		return model.handleOrgKey(key)
	case screenRepo:
		return model.handleRepoKey(key)
	case screenResults:
		switch key.String() {
		case "esc", "enter", "q":
			model.screen = model.returnScreen
		}
		return model, nil
	case screenHelp:
		model.screen = model.returnScreen
		return model, nil
	}
	return model, nil
}

func (model Model) handleHomeKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc":
		if model.organizationList.FilterState() != list.Filtering {
			return model, tea.Quit
		}
	case "?":
		model.returnScreen = model.screen
		model.screen = screenHelp
		return model, nil
	case "r":
		if !model.busy {
			model.busy = true
			model.statusMessage = loadingOrganizationsConstant
			return model, model.loadOrganizations(true)
		}
		return model, nil
	case "enter":
		if model.busy {
			return model, nil
		}
		selected, isOrganization := model.organizationList.SelectedItem().(organizationItem)
		if !isOrganization {
			return model, nil
		}
		model.busy = true
		model.statusMessage = loadingRepositoriesConstant
		return model, model.loadRepositories(selected.organization.Login, false)
	}

	var command tea.Cmd
	model.organizationList, command = model.organizationList.Update(key)
	return model, command
}

func (model Model) handleOrgKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc":
		model.screen = screenHome
		return model, nil
	case "?":
		model.returnScreen = model.screen
		model.screen = screenHelp
		return model, nil
	case "r":
		if !model.busy {
			model.busy = true
			model.statusMessage = loadingRepositoriesConstant
			return model, model.loadRepositories(model.currentOrganization, true)
		}
		return model, nil
	case "enter":
		cursor := model.repositoryTable.Cursor()
		if cursor >= 0 && cursor < len(model.repositories) {
			model.selectedRepository = model.repositories[cursor]
			model.screen = screenRepo
		}
		return model, nil
	}

	var command tea.Cmd
	model.repositoryTable, command = model.repositoryTable.Update(key)
	return model, command
}

func (model Model) handleRepoKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "esc":
		model.screen = screenOrg
		return model, nil
	case "?":
		model.returnScreen = model.screen
		model.screen = screenHelp
		return model, nil
	case "h":
		if model.busy {
			return model, nil
		}
		if model.healthRunner == nil {
			model.errorMessage = "health checks are not configured"
			return model, nil
		}
		model.busy = true
		model.statusMessage = runningHealthCheckConstant
		return model, model.runHealthCheck(model.selectedRepository)
	case "p":
		if model.busy {
			return model, nil
		}
		model.busy = true
		model.statusMessage = fetchingReadmeConstant
		return model, model.fetchReadme(model.selectedRepository)
	case "d":
		if model.busy {
			return model, nil
		}
		if model.describer == nil {
			model.errorMessage = "description drafting is not configured"
			return model, nil
		}
		model.busy = true
		model.statusMessage = draftingDescriptionConstant
		return model, model.draftDescription(model.selectedRepository)
	}
	return model, nil
}

func (model Model) updateActiveComponent(message tea.Msg) (tea.Model, tea.Cmd) {
	var command tea.Cmd
	switch model.screen {
	case screenHome:
		model.organizationList, command = model.organizationList.Update(message)
	case screenOrg:
		model.repositoryTable, command = model.repositoryTable.Update(message)
	}
	return model, command
}

func repositoryRows(repositories []githubapi.Repository) []table.Row {
	rows := make([]table.Row, 0, len(repositories))
	for _, repository := range repositories {
		description := repository.Description
		if len(description) > descriptionPreviewConstant {
			description = description[:descriptionPreviewConstant-3] + "..."
		}
		language := repository.Language
		if language == "" {
			language = "-"
		}
		rows = append(rows, table.Row{
			repository.Name,
			strconv.Itoa(repository.Stars),
			language,
			description,
		})
	}
	return rows
}

// View renders the active screen.
func (model Model) View() string {
	var body string
	switch model.screen {
	case screenHome:
		body = model.organizationList.View()
	case screenOrg:
		body = titleStyle.Render(model.currentOrganization) + "\n" + model.repositoryTable.View()
	case screenRepo:
		body = model.repositoryDetailView()
	case screenResults:
		body = titleStyle.Render(model.resultTitle) + "\n" + resultBodyStyle.Render(model.resultBody) + "\n" + helpStyle.Render("esc to go back")
	case screenHelp:
		body = helpStyle.Render(helpTextConstant)
	}

	statusLine := ""
	switch {
	case model.errorMessage != "":
		statusLine = errorStyle.Render(model.errorMessage)
	case model.busy:
		statusLine = statusBarStyle.Render(model.statusMessage)
	}
	if statusLine != "" {
		return body + "\n" + statusLine
	}
	return body
}

func (model Model) repositoryDetailView() string {
	repository := model.selectedRepository

	description := repository.Description
	if description == "" {
		description = "No description"
	}
	language := repository.Language
	if language == "" {
		language = "Not specified"
	}
	license := repository.LicenseName
	if license == "" {
		license = "None"
	}
	topics := strings.Join(repository.Topics, ", ")
	if topics == "" {
		topics = "None"
	}

	var builder strings.Builder
	builder.WriteString(detailHeaderStyle.Render(repository.FullName) + "\n\n")
	builder.WriteString(description + "\n\n")
	fmt.Fprintf(&builder, "%s %d stars, %d forks\n\n", detailLabelStyle.Render("Activity:"), repository.Stars, repository.Forks)
	fmt.Fprintf(&builder, "%s %s\n", detailLabelStyle.Render("Language:"), language)
	fmt.Fprintf(&builder, "%s %s\n", detailLabelStyle.Render("License:"), license)
	fmt.Fprintf(&builder, "%s %s\n", detailLabelStyle.Render("Topics:"), topics)
	builder.WriteString("\n" + helpStyle.Render("h health check  p readme preview  d draft description  esc back"))
	return builder.String()
}
