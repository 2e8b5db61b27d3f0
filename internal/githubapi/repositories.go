package githubapi

import (
	"context"
	"errors"

	"github.com/google/go-github/v39/github"
)

// RepositoryTypeFilter narrows repository listings by origin.
type RepositoryTypeFilter string

// Supported repository type filters, matching the GitHub listing API.
const (
	RepositoryTypeAll     RepositoryTypeFilter = "all"
	RepositoryTypeSources RepositoryTypeFilter = "sources"
	RepositoryTypeForks   RepositoryTypeFilter = "forks"
	RepositoryTypeMember  RepositoryTypeFilter = "member"
)

// ListUserRepositories returns every repository of the given user, following
// pagination to exhaustion. An empty login lists the authenticated user.
func (client *Client) ListUserRepositories(executionContext context.Context, login string, typeFilter RepositoryTypeFilter) ([]Repository, error) {
	listOptions := &github.RepositoryListOptions{
		Type:        string(typeFilter),
		ListOptions: github.ListOptions{PerPage: defaultPageSizeConstant},
	}

	var collected []Repository
	for {
		var page []*github.Repository
		response, callError := client.callResponse(executionContext, func() (*github.Response, error) {
			repositories, pageResponse, listError := client.restClient.Repositories.List(executionContext, login, listOptions)
			page = repositories
			return pageResponse, listError
		})
		if callError != nil {
			return nil, callError
		}

		for _, repository := range page {
			collected = append(collected, convertRepository(repository))
		}

		if response == nil || response.NextPage == 0 {
			return collected, nil
		}
		listOptions.Page = response.NextPage
	}
}

// ListOrganizationRepositories returns every repository of the organization.
func (client *Client) ListOrganizationRepositories(executionContext context.Context, organization string, typeFilter RepositoryTypeFilter) ([]Repository, error) {
	listOptions := &github.RepositoryListByOrgOptions{
		Type:        string(typeFilter),
		ListOptions: github.ListOptions{PerPage: defaultPageSizeConstant},
	}

	var collected []Repository
	for {
		var page []*github.Repository
		response, callError := client.callResponse(executionContext, func() (*github.Response, error) {
			repositories, pageResponse, listError := client.restClient.Repositories.ListByOrg(executionContext, organization, listOptions)
			page = repositories
			return pageResponse, listError
		})
		if callError != nil {
			return nil, callError
		}

		for _, repository := range page {
			collected = append(collected, convertRepository(repository))
		}

		if response == nil || response.NextPage == 0 {
			return collected, nil
		}
		listOptions.Page = response.NextPage
	}
}

// ListUserOrganizations returns the organizations the authenticated user belongs to.
func (client *Client) ListUserOrganizations(executionContext context.Context) ([]Organization, error) {
	listOptions := &github.ListOptions{PerPage: defaultPageSizeConstant}

	var collected []Organization
	for {
		var page []*github.Organization
		response, callError := client.callResponse(executionContext, func() (*github.Response, error) {
			organizations, pageResponse, listError := client.restClient.Organizations.List(executionContext, authenticatedUserLoginConstant, listOptions)
			page = organizations
			return pageResponse, listError
		})
		if callError != nil {
			return nil, callError
		}

		for _, organization := range page {
			collected = append(collected, convertOrganization(organization))
		}

		if response == nil || response.NextPage == 0 {
			return collected, nil
		}
		listOptions.Page = response.NextPage
	}
}

// OrganizationInfo returns metadata about one organization.
func (client *Client) OrganizationInfo(executionContext context.Context, organization string) (Organization, error) {
	var fetched *github.Organization
	callError := client.call(executionContext, func() (*github.Response, error) {
		organizationData, response, getError := client.restClient.Organizations.Get(executionContext, organization)
		fetched = organizationData
		return response, getError
	})
	if callError != nil {
		return Organization{}, callError
	}
	return convertOrganization(fetched), nil
}

// RepositoryInfo returns metadata about one repository.
func (client *Client) RepositoryInfo(executionContext context.Context, owner string, name string) (Repository, error) {
	var fetched *github.Repository
	callError := client.call(executionContext, func() (*github.Response, error) {
		repository, response, getError := client.restClient.Repositories.Get(executionContext, owner, name)
		fetched = repository
		return response, getError
	})
	if callError != nil {
		return Repository{}, callError
	}
	return convertRepository(fetched), nil
}

// Readme returns the decoded README content for a repository.
func (client *Client) Readme(executionContext context.Context, owner string, name string) (string, error) {
	var fetched *github.RepositoryContent
	callError := client.call(executionContext, func() (*github.Response, error) {
		content, response, getError := client.restClient.Repositories.GetReadme(executionContext, owner, name, nil)
		fetched = content
		return response, getError
	})
	if callError != nil {
		return "", callError
	}

	decoded, decodeError := fetched.GetContent()
	if decodeError != nil {
		return "", decodeError
	}
	return decoded, nil
}

// Languages returns the byte counts per language for a repository.
func (client *Client) Languages(executionContext context.Context, owner string, name string) (map[string]int, error) {
	var fetched map[string]int
	callError := client.call(executionContext, func() (*github.Response, error) {
		languages, response, listError := client.restClient.Repositories.ListLanguages(executionContext, owner, name)
		fetched = languages
		return response, listError
	})
	if callError != nil {
		return nil, callError
	}
	return fetched, nil
}

// Topics returns the topic labels attached to a repository.
func (client *Client) Topics(executionContext context.Context, owner string, name string) ([]string, error) {
	var fetched []string
	callError := client.call(executionContext, func() (*github.Response, error) {
		topics, response, listError := client.restClient.Repositories.ListAllTopics(executionContext, owner, name)
		fetched = topics
		return response, listError
	})
	if callError != nil {
		return nil, callError
	}
	return fetched, nil
}

// ReplaceTopics overwrites the topic labels of a repository.
func (client *Client) ReplaceTopics(executionContext context.Context, owner string, name string, topics []string) error {
	return client.call(executionContext, func() (*github.Response, error) {
		_, response, replaceError := client.restClient.Repositories.ReplaceAllTopics(executionContext, owner, name, topics)
		return response, replaceError
	})
}

// Tree returns the recursive tree listing for the given reference.
func (client *Client) Tree(executionContext context.Context, owner string, name string, reference string) ([]TreeEntry, error) {
	var fetched *github.Tree
	callError := client.call(executionContext, func() (*github.Response, error) {
		tree, response, getError := client.restClient.Git.GetTree(executionContext, owner, name, reference, true)
		fetched = tree
		return response, getError
	})
	if callError != nil {
		return nil, callError
	}

	entries := make([]TreeEntry, 0, len(fetched.Entries))
	for _, entry := range fetched.Entries {
		entries = append(entries, TreeEntry{Path: entry.GetPath(), Type: entry.GetType()})
	}
	return entries, nil
}

// ListWorkflows returns the GitHub Actions workflows registered on a repository.
func (client *Client) ListWorkflows(executionContext context.Context, owner string, name string) ([]WorkflowFile, error) {
	listOptions := &github.ListOptions{PerPage: defaultPageSizeConstant}

	var collected []WorkflowFile
	for {
		var page *github.Workflows
		response, callError := client.callResponse(executionContext, func() (*github.Response, error) {
			workflows, pageResponse, listError := client.restClient.Actions.ListWorkflows(executionContext, owner, name, listOptions)
			page = workflows
			return pageResponse, listError
		})
		if callError != nil {
			return nil, callError
		}

		for _, workflow := range page.Workflows {
			collected = append(collected, WorkflowFile{Name: workflow.GetName(), Path: workflow.GetPath(), State: workflow.GetState()})
		}

		if response == nil || response.NextPage == 0 {
			return collected, nil
		}
		listOptions.Page = response.NextPage
	}
}

// UpdateDescription sets the repository description.
func (client *Client) UpdateDescription(executionContext context.Context, owner string, name string, description string) error {
	return client.call(executionContext, func() (*github.Response, error) {
		_, response, editError := client.restClient.Repositories.Edit(executionContext, owner, name, &github.Repository{Description: github.String(description)})
		return response, editError
	})
}

// UpdateHomepage sets the repository homepage URL.
func (client *Client) UpdateHomepage(executionContext context.Context, owner string, name string, homepage string) error {
	return client.call(executionContext, func() (*github.Response, error) {
		_, response, editError := client.restClient.Repositories.Edit(executionContext, owner, name, &github.Repository{Homepage: github.String(homepage)})
		return response, editError
	})
}

// TransferRepository initiates a repository transfer to a new owner and
// returns the pending transfer record. The transfer endpoint answers
// 202 Accepted, which go-github surfaces as an AcceptedError; that counts as
// success here.
func (client *Client) TransferRepository(executionContext context.Context, owner string, name string, newOwner string) (Transfer, error) {
	var transferred *github.Repository
	callError := client.call(executionContext, func() (*github.Response, error) {
		repository, response, transferError := client.restClient.Repositories.Transfer(executionContext, owner, name, github.TransferRequest{NewOwner: newOwner})
		transferred = repository
		return response, transferError
	})
	if callError != nil {
		acceptedError := &github.AcceptedError{}
		if !errors.As(callError, &acceptedError) {
			return Transfer{}, callError
		}
	}

	pending := Transfer{RepositoryFull: owner + "/" + name, NewOwner: newOwner}
	if transferred.GetFullName() != "" {
		pending.RepositoryFull = transferred.GetFullName()
	}
	pending.HTMLURL = transferred.GetHTMLURL()
	return pending, nil
}

// LeaveRepository removes the given user from the repository's collaborators.
func (client *Client) LeaveRepository(executionContext context.Context, owner string, name string, login string) error {
	return client.call(executionContext, func() (*github.Response, error) {
		response, removeError := client.restClient.Repositories.RemoveCollaborator(executionContext, owner, name, login)
		return response, removeError
	})
}

// CreateOrganizationRepository creates a repository under the organization.
func (client *Client) CreateOrganizationRepository(executionContext context.Context, organization string, name string, description string, private bool) (Repository, error) {
	var created *github.Repository
	callError := client.call(executionContext, func() (*github.Response, error) {
		repository, response, createError := client.restClient.Repositories.Create(executionContext, organization, &github.Repository{
			Name:        github.String(name),
			Description: github.String(description),
			Private:     github.Bool(private),
		})
		created = repository
		return response, createError
	})
	if callError != nil {
		return Repository{}, callError
	}
	return convertRepository(created), nil
}

// ListRepositoryNames lists the repository names under an owner, consulting
// the account type to pick the right listing endpoint. It satisfies
// identifier.RepositoryLister for wildcard expansion.
func (client *Client) ListRepositoryNames(executionContext context.Context, owner string) ([]string, error) {
	isOrganization, typeError := client.IsOrganization(executionContext, owner)
	if typeError != nil {
		return nil, typeError
	}

	var repositories []Repository
	var listError error
	if isOrganization {
		repositories, listError = client.ListOrganizationRepositories(executionContext, owner, RepositoryTypeAll)
	} else {
		repositories, listError = client.ListUserRepositories(executionContext, owner, RepositoryTypeAll)
	}
	if listError != nil {
		return nil, listError
	}

	names := make([]string, 0, len(repositories))
	for _, repository := range repositories {
		names = append(names, repository.Name)
	}
	return names, nil
}
