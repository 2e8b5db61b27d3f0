package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURLConstant        = "https://api.anthropic.com"
	messagesPathConstant          = "/v1/messages"
	defaultModelConstant          = "claude-3-haiku-20240307"
	apiVersionConstant            = "2023-06-01"
	apiKeyHeaderConstant          = "x-api-key"
	apiVersionHeaderConstant      = "anthropic-version"
	contentTypeHeaderConstant     = "Content-Type"
	jsonContentTypeConstant       = "application/json"
	defaultMaxAttemptsConstant    = 3
	initialBackoffConstant        = time.Second
	maximumBackoffConstant        = 30 * time.Second
	defaultRequestTimeoutConstant = 60 * time.Second
	apiKeyRequiredMessageConstant = "llm: API key is required"
	emptyResponseMessageConstant  = "llm: response contained no text content"
	requestFailedTemplateConstant = "llm: request failed: %w"
	encodeFailedTemplateConstant  = "llm: encode request: %w"
	decodeFailedTemplateConstant  = "llm: decode response: %w"
	statusErrorTemplateConstant   = "llm: API returned status %d: %s"
	attemptLogMessageConstant     = "llm request attempt failed"
	logFieldAttemptConstant       = "attempt"
	logFieldStatusConstant        = "status"
)

// ErrNoAPIKey reports that a Client cannot be constructed without credentials.
var ErrNoAPIKey = errors.New(apiKeyRequiredMessageConstant)

// Request describes a single completion exchange.
type Request struct {
	Model       string
	MaxTokens   int
	Temperature float64
	System      string
	Prompt      string
}

// Client talks to the Anthropic messages endpoint.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	logger         *zap.Logger
	maxAttempts    int
	initialBackoff time.Duration
}

// Option adjusts a Client during construction.
type Option func(*Client)

// WithBaseURL redirects API calls, primarily for tests.
func WithBaseURL(baseURL string) Option {
	return func(client *Client) {
		client.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// WithRetryPolicy overrides the attempt budget and the first backoff delay.
func WithRetryPolicy(maxAttempts int, initialBackoff time.Duration) Option {
	return func(client *Client) {
		if maxAttempts > 0 {
			client.maxAttempts = maxAttempts
		}
		if initialBackoff > 0 {
			client.initialBackoff = initialBackoff
		}
	}
}

// NewClient constructs a messages API client for the given key.
func NewClient(apiKey string, logger *zap.Logger, options ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := &Client{
		httpClient:     &http.Client{Timeout: defaultRequestTimeoutConstant},
		baseURL:        defaultBaseURLConstant,
		apiKey:         apiKey,
		logger:         logger,
		maxAttempts:    defaultMaxAttemptsConstant,
		initialBackoff: initialBackoffConstant,
	}
	for _, option := range options {
		option(client)
	}
	return client, nil
}

type messageRequestPayload struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	Temperature float64          `json:"temperature,omitempty"`
	System      string           `json:"system,omitempty"`
	Messages    []messagePayload `json:"messages"`
}

type messagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponsePayload struct {
	Content []contentBlockPayload `json:"content"`
}

type contentBlockPayload struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiErrorPayload struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one prompt and returns the concatenated text blocks of the
// response. Transport failures and 429/5xx statuses are retried with
// exponential backoff, bounded by a fixed attempt budget.
func (client *Client) Complete(executionContext context.Context, request Request) (string, error) {
	if request.Model == "" {
		request.Model = defaultModelConstant
	}

	payload := messageRequestPayload{
		Model:       request.Model,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
		System:      request.System,
		Messages:    []messagePayload{{Role: "user", Content: request.Prompt}},
	}
	encoded, encodeError := json.Marshal(payload)
	if encodeError != nil {
		return "", fmt.Errorf(encodeFailedTemplateConstant, encodeError)
	}

	var lastError error
	backoff := client.initialBackoff

	for attempt := 0; attempt < client.maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-executionContext.Done():
				return "", executionContext.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maximumBackoffConstant {
				backoff = maximumBackoffConstant
			}
		}

		text, retryable, callError := client.callOnce(executionContext, encoded)
		if callError == nil {
			return text, nil
		}
		lastError = callError
		if !retryable {
			return "", callError
		}
		client.logger.Warn(attemptLogMessageConstant, zap.Int(logFieldAttemptConstant, attempt+1), zap.Error(callError))
	}

	return "", lastError
}

func (client *Client) callOnce(executionContext context.Context, body []byte) (string, bool, error) {
	httpRequest, requestError := http.NewRequestWithContext(
		executionContext,
		http.MethodPost,
		client.baseURL+messagesPathConstant,
		bytes.NewReader(body),
	)
	if requestError != nil {
		return "", false, fmt.Errorf(requestFailedTemplateConstant, requestError)
	}
	httpRequest.Header.Set(apiKeyHeaderConstant, client.apiKey)
	httpRequest.Header.Set(apiVersionHeaderConstant, apiVersionConstant)
	httpRequest.Header.Set(contentTypeHeaderConstant, jsonContentTypeConstant)

	httpResponse, doError := client.httpClient.Do(httpRequest)
	if doError != nil {
		return "", true, fmt.Errorf(requestFailedTemplateConstant, doError)
	}
	defer httpResponse.Body.Close()

	responseBody, readError := io.ReadAll(httpResponse.Body)
	if readError != nil {
		return "", true, fmt.Errorf(requestFailedTemplateConstant, readError)
	}

	if httpResponse.StatusCode != http.StatusOK {
		message := strings.TrimSpace(string(responseBody))
		var errorPayload apiErrorPayload
		if json.Unmarshal(responseBody, &errorPayload) == nil && errorPayload.Error.Message != "" {
			message = errorPayload.Error.Message
		}
		retryable := httpResponse.StatusCode == http.StatusTooManyRequests || httpResponse.StatusCode >= http.StatusInternalServerError
		client.logger.Warn(attemptLogMessageConstant, zap.Int(logFieldStatusConstant, httpResponse.StatusCode))
		return "", retryable, fmt.Errorf(statusErrorTemplateConstant, httpResponse.StatusCode, message)
	}

	var decoded messageResponsePayload
	if decodeError := json.Unmarshal(responseBody, &decoded); decodeError != nil {
		return "", false, fmt.Errorf(decodeFailedTemplateConstant, decodeError)
	}

	var builder strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	text := builder.String()
	if strings.TrimSpace(text) == "" {
		return "", false, errors.New(emptyResponseMessageConstant)
	}
	return text, false, nil
}
