package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscordNotifierPostsContent(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(server.URL, false)
	require.NoError(t, notifier.Send(context.Background(), "hello"))

	assert.Equal(t, "hello", received["content"])
}

func TestDiscordNotifierTestModePrefix(t *testing.T) {
	var received map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(server.URL, true)
	require.NoError(t, notifier.Send(context.Background(), "scan done"))

	assert.Equal(t, "[TEST] scan done", received["content"])
}

func TestDiscordNotifierStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	notifier := NewDiscordNotifier(server.URL, false)
	assert.Error(t, notifier.Send(context.Background(), "hello"))
}

func TestFanoutSwallowsBackendErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	fanout := NewFanout(NewDiscordNotifier(server.URL, false), Noop{})
	assert.NoError(t, fanout.Send(context.Background(), "hello"), "delivery failures never propagate")
}
