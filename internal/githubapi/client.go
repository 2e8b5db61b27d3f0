package githubapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/go-github/v39/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	defaultPageSizeConstant          = 100
	maximumRateLimitWaitConstant     = 2 * time.Minute
	rateLimitWaitMessageConstant     = "rate limit reached, waiting for reset"
	logFieldWaitDurationConstant     = "wait_duration"
	authenticatedUserLoginConstant   = ""
	organizationAccountTypeConstant  = "Organization"
)

// Client wraps the GitHub REST API with typed records and pagination handling.
type Client struct {
	restClient *github.Client
	logger     *zap.Logger
}

// NewClient builds a Client authenticated with the provided token. An empty
// token yields an unauthenticated client subject to much lower rate limits.
func NewClient(token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := http.DefaultClient
	if len(token) > 0 {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), tokenSource)
	}

	return &Client{restClient: github.NewClient(httpClient), logger: logger}
}

// NewClientWithHTTP builds a Client around a caller-supplied HTTP client.
// Tests use this to point the wrapper at an httptest server.
func NewClientWithHTTP(httpClient *http.Client, baseURL string, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	restClient := github.NewClient(httpClient)
	if len(baseURL) > 0 {
		parsedClient, parseError := github.NewEnterpriseClient(baseURL, baseURL, httpClient)
		if parseError != nil {
			return nil, parseError
		}
		restClient = parsedClient
	}

	return &Client{restClient: restClient, logger: logger}, nil
}

// call runs one API invocation, waiting out a near-term rate limit reset once
// before giving up. The wait is bounded so commands fail rather than stall.
func (client *Client) call(executionContext context.Context, invoke func() (*github.Response, error)) error {
	_, callError := client.callResponse(executionContext, invoke)
	return callError
}

func (client *Client) callResponse(executionContext context.Context, invoke func() (*github.Response, error)) (*github.Response, error) {
	response, invokeError := invoke()
	if invokeError == nil {
		return response, nil
	}

	rateLimitError := &github.RateLimitError{}
	if errors.As(invokeError, &rateLimitError) {
		waitDuration := time.Until(rateLimitError.Rate.Reset.Time)
		if waitDuration > 0 && waitDuration <= maximumRateLimitWaitConstant {
			client.logger.Warn(rateLimitWaitMessageConstant, zap.Duration(logFieldWaitDurationConstant, waitDuration))
			select {
			case <-executionContext.Done():
				return nil, executionContext.Err()
			case <-time.After(waitDuration):
			}
			response, invokeError = invoke()
			if invokeError == nil {
				return response, nil
			}
		}
	}

	return response, mapError(invokeError)
}

// AuthenticatedUser returns the account owning the configured token.
func (client *Client) AuthenticatedUser(executionContext context.Context) (User, error) {
	var fetched *github.User
	callError := client.call(executionContext, func() (*github.Response, error) {
		user, response, userError := client.restClient.Users.Get(executionContext, authenticatedUserLoginConstant)
		fetched = user
		return response, userError
	})
	if callError != nil {
		return User{}, callError
	}
	return convertUser(fetched), nil
}

// UserInfo returns account details for the provided login.
func (client *Client) UserInfo(executionContext context.Context, login string) (User, error) {
	var fetched *github.User
	callError := client.call(executionContext, func() (*github.Response, error) {
		user, response, userError := client.restClient.Users.Get(executionContext, login)
		fetched = user
		return response, userError
	})
	if callError != nil {
		return User{}, callError
	}
	return convertUser(fetched), nil
}

// IsOrganization reports whether the login names an organization account.
func (client *Client) IsOrganization(executionContext context.Context, login string) (bool, error) {
	account, infoError := client.UserInfo(executionContext, login)
	if infoError != nil {
		return false, infoError
	}
	return account.Type == organizationAccountTypeConstant, nil
}
