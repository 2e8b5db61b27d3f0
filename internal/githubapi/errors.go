package githubapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v39/github"
)

const apiErrorTemplateConstant = "github api error (status %d): %s"

// APIError represents a non-2xx GitHub response mapped to a typed error.
type APIError struct {
	StatusCode       int
	Message          string
	DocumentationURL string
}

// Error implements the error interface.
func (apiError *APIError) Error() string {
	return fmt.Sprintf(apiErrorTemplateConstant, apiError.StatusCode, apiError.Message)
}

// IsNotFound reports whether the error is an APIError carrying a 404 status.
func IsNotFound(candidate error) bool {
	apiError := &APIError{}
	if errors.As(candidate, &apiError) {
		return apiError.StatusCode == http.StatusNotFound
	}
	return false
}

// mapError converts go-github failures into APIError values. Transport-level
// failures pass through unchanged.
func mapError(candidate error) error {
	if candidate == nil {
		return nil
	}

	errorResponse := &github.ErrorResponse{}
	if errors.As(candidate, &errorResponse) {
		mapped := &APIError{Message: errorResponse.Message, DocumentationURL: errorResponse.DocumentationURL}
		if errorResponse.Response != nil {
			mapped.StatusCode = errorResponse.Response.StatusCode
		}
		return mapped
	}

	rateLimitError := &github.RateLimitError{}
	if errors.As(candidate, &rateLimitError) {
		mapped := &APIError{Message: rateLimitError.Message, StatusCode: http.StatusForbidden}
		if rateLimitError.Response != nil {
			mapped.StatusCode = rateLimitError.Response.StatusCode
		}
		return mapped
	}

	return candidate
}
