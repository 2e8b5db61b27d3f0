package githubapi

import (
	"context"

	"github.com/google/go-github/v39/github"
)

// ListLicenses returns the license templates GitHub publishes.
func (client *Client) ListLicenses(executionContext context.Context) ([]License, error) {
	var fetched []*github.License
	callError := client.call(executionContext, func() (*github.Response, error) {
		licenses, response, listError := client.restClient.Licenses.List(executionContext)
		fetched = licenses
		return response, listError
	})
	if callError != nil {
		return nil, callError
	}

	converted := make([]License, 0, len(fetched))
	for _, license := range fetched {
		converted = append(converted, convertLicense(license))
	}
	return converted, nil
}

// LicenseTemplate returns one license template including its body text.
func (client *Client) LicenseTemplate(executionContext context.Context, key string) (License, error) {
	var fetched *github.License
	callError := client.call(executionContext, func() (*github.Response, error) {
		license, response, getError := client.restClient.Licenses.Get(executionContext, key)
		fetched = license
		return response, getError
	})
	if callError != nil {
		return License{}, callError
	}
	return convertLicense(fetched), nil
}
