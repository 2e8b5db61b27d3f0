package githubapi

import (
	"context"
	"fmt"

	"github.com/google/go-github/v39/github"
)

const deleteRequiresSHATemplateConstant = "delete of %s requires the current blob SHA"

// FileContents fetches one file through the contents API, returning its
// current blob SHA alongside the decoded content.
func (client *Client) FileContents(executionContext context.Context, owner string, name string, path string) (ContentFile, error) {
	var fetched *github.RepositoryContent
	callError := client.call(executionContext, func() (*github.Response, error) {
		fileContent, _, response, getError := client.restClient.Repositories.GetContents(executionContext, owner, name, path, nil)
		fetched = fileContent
		return response, getError
	})
	if callError != nil {
		return ContentFile{}, callError
	}

	decoded, decodeError := fetched.GetContent()
	if decodeError != nil {
		return ContentFile{}, decodeError
	}

	return ContentFile{Path: fetched.GetPath(), SHA: fetched.GetSHA(), Content: decoded}, nil
}

// PutFileOptions carries the inputs of a SHA-versioned contents write.
type PutFileOptions struct {
	Path    string
	Message string
	Content []byte
	// SHA must carry the current blob hash when updating an existing file.
	// An empty SHA creates the file; GitHub rejects the write when the file
	// already exists, surfacing the conflict instead of overwriting.
	SHA    string
	Branch string
}

// DeleteFileOptions carries the inputs of a SHA-versioned contents delete.
type DeleteFileOptions struct {
	Path    string
	Message string
	// SHA must carry the current blob hash; the contents API rejects deletes
	// without one, which protects against removing a file someone else just
	// rewrote.
	SHA    string
	Branch string
}

// DeleteFile removes one file through the contents API.
func (client *Client) DeleteFile(executionContext context.Context, owner string, name string, options DeleteFileOptions) error {
	if len(options.SHA) == 0 {
		return fmt.Errorf(deleteRequiresSHATemplateConstant, options.Path)
	}

	fileOptions := &github.RepositoryContentFileOptions{
		Message: github.String(options.Message),
		SHA:     github.String(options.SHA),
	}
	if len(options.Branch) > 0 {
		fileOptions.Branch = github.String(options.Branch)
	}

	return client.call(executionContext, func() (*github.Response, error) {
		_, response, deleteError := client.restClient.Repositories.DeleteFile(executionContext, owner, name, options.Path, fileOptions)
		return response, deleteError
	})
}

// PutFile creates or updates one file through the contents API.
func (client *Client) PutFile(executionContext context.Context, owner string, name string, options PutFileOptions) error {
	fileOptions := &github.RepositoryContentFileOptions{
		Message: github.String(options.Message),
		Content: options.Content,
	}
	if len(options.SHA) > 0 {
		fileOptions.SHA = github.String(options.SHA)
	}
	if len(options.Branch) > 0 {
		fileOptions.Branch = github.String(options.Branch)
	}

	return client.call(executionContext, func() (*github.Response, error) {
		if len(options.SHA) > 0 {
			_, response, updateError := client.restClient.Repositories.UpdateFile(executionContext, owner, name, options.Path, fileOptions)
			return response, updateError
		}
		_, response, createError := client.restClient.Repositories.CreateFile(executionContext, owner, name, options.Path, fileOptions)
		return response, createError
	})
}
