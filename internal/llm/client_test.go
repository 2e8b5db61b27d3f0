package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ghfolio/ghfolio/internal/llm"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, creationError := llm.NewClient("  ", nil)
	require.ErrorIs(t, creationError, llm.ErrNoAPIKey)
}

func TestCompleteReturnsConcatenatedText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		require.Equal(t, "/v1/messages", request.URL.Path)
		require.Equal(t, "test-key", request.Header.Get("x-api-key"))
		require.Equal(t, "2023-06-01", request.Header.Get("anthropic-version"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(request.Body).Decode(&payload))
		require.Equal(t, "claude-3-haiku-20240307", payload["model"])

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"content":[{"type":"text","text":"A CLI "},{"type":"text","text":"toolkit."}]}`))
	}))
	defer server.Close()

	client, creationError := llm.NewClient("test-key", nil, llm.WithBaseURL(server.URL))
	require.NoError(t, creationError)

	text, completeError := client.Complete(context.Background(), llm.Request{Prompt: "describe", MaxTokens: 150})
	require.NoError(t, completeError)
	require.Equal(t, "A CLI toolkit.", text)
}

func TestCompleteRetriesServerErrors(t *testing.T) {
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attemptCount++
		if attemptCount < 3 {
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = writer.Write([]byte(`{"content":[{"type":"text","text":"recovered"}]}`))
	}))
	defer server.Close()

	client, creationError := llm.NewClient(
		"test-key",
		nil,
		llm.WithBaseURL(server.URL),
		llm.WithRetryPolicy(3, time.Millisecond),
	)
	require.NoError(t, creationError)

	text, completeError := client.Complete(context.Background(), llm.Request{Prompt: "describe", MaxTokens: 150})
	require.NoError(t, completeError)
	require.Equal(t, "recovered", text)
	require.Equal(t, 3, attemptCount)
}

func TestCompleteDoesNotRetryClientErrors(t *testing.T) {
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		attemptCount++
		writer.WriteHeader(http.StatusBadRequest)
		_, _ = writer.Write([]byte(`{"error":{"message":"invalid model"}}`))
	}))
	defer server.Close()

	client, creationError := llm.NewClient("test-key", nil, llm.WithBaseURL(server.URL))
	require.NoError(t, creationError)

	_, completeError := client.Complete(context.Background(), llm.Request{Prompt: "describe", MaxTokens: 150})
	require.Error(t, completeError)
	require.Contains(t, completeError.Error(), "invalid model")
	require.Equal(t, 1, attemptCount)
}
