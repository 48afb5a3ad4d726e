package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentDesk/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentDesk/internal/shared/types"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.BackendConfig{
		BaseURL:     srv.URL,
		Timeout:     5 * time.Second,
		ChatTimeout: 5 * time.Second,
	}
	return New(cfg, logging.Nop())
}

func TestListFiles(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/files/list", r.URL.Path)
		require.Equal(t, "/docs", r.URL.Query().Get("path"))
		json.NewEncoder(w).Encode(map[string]any{
			"path": "/docs",
			"items": []map[string]string{
				{"name": "a.txt", "path": "/docs/a.txt", "type": "file"},
			},
		})
	}))

	listing, err := c.ListFiles(context.Background(), "/docs")
	require.NoError(t, err)
	require.Len(t, listing.Items, 1)
	assert.Equal(t, "a.txt", listing.Items[0].Name)
	assert.False(t, listing.Items[0].IsFolder())
}

func TestChatSingleJSON(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"response": "opening notepad",
			"action":   "open_app",
			"data":     map[string]any{"app": "notepad"},
		})
	}))

	reply, err := c.Chat(context.Background(), "open notepad")
	require.NoError(t, err)
	require.NotNil(t, reply.Result)
	assert.Nil(t, reply.Stream)
	assert.Equal(t, types.ActionOpenApp, reply.Result.Action)
	assert.Equal(t, "notepad", types.DataString(reply.Result.Data, "app"))
}

func TestChatStreaming(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher := w.(http.Flusher)
		for _, line := range []string{
			`data: {"type":"progress","message":"thinking"}`,
			`data: not-json-at-all`,
			`data: {"type":"progress","message":"almost"}`,
			`data: {"type":"complete","message":"done"}`,
		} {
			w.Write([]byte(line + "\n\n"))
			flusher.Flush()
		}
	}))

	reply, err := c.Chat(context.Background(), "long task")
	require.NoError(t, err)
	require.NotNil(t, reply.Stream)

	var got []types.StreamEvent
	for evt := range reply.Stream {
		got = append(got, evt)
	}
	// The malformed chunk is skipped, not fatal.
	require.Len(t, got, 3)
	assert.Equal(t, types.StreamProgress, got[0].Type)
	assert.Equal(t, types.StreamComplete, got[2].Type)
	assert.Equal(t, "done", got[2].Message)
}

func TestInboxPagination(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("per_page"))
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"emails":  []map[string]string{{"id": "e1", "subject": "hi"}},
			"pagination": map[string]any{
				"page": 2, "total_pages": 2, "total": 25,
				"has_prev": true, "has_next": false,
			},
			"received_count": 25,
			"sent_count":     4,
		})
	}))

	page, err := c.Inbox(context.Background(), 2, 20)
	require.NoError(t, err)
	assert.True(t, page.Pagination.HasPrev)
	assert.False(t, page.Pagination.HasNext)
	assert.Equal(t, 25, page.ReceivedCount)
}

func TestNavigateMultiple(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		urls := body["urls"].([]any)
		results := make([]map[string]string, len(urls))
		for i, u := range urls {
			results[i] = map[string]string{
				"url":        u.(string),
				"session_id": "bsess_" + u.(string),
				"proxy_url":  "/proxy/" + u.(string),
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "results": results})
	}))

	results, err := c.NavigateMultiple(context.Background(),
		[]string{"a.com", "b.com"}, []string{"", ""})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.NotEqual(t, results[0].SessionID, results[1].SessionID)
}

func TestBreakerRejectsAfterRepeatedFailures(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := c.Notifications(ctx)
		require.Error(t, err)
	}
	assert.Equal(t, "open", c.BreakerState())
}

func TestAgentStatusTerminal(t *testing.T) {
	for status, terminal := range map[string]bool{
		"completed": true,
		"error":     true,
		"running":   false,
	} {
		s := &AgentStatus{Status: status}
		assert.Equal(t, terminal, s.Terminal(), "status %s", status)
	}
}
