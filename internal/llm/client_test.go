package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sseServer(t *testing.T, deltas []string, gotReq *chatRequest, gotAuth *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		if gotAuth != nil {
			*gotAuth = r.Header.Get("Authorization")
		}
		if gotReq != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(gotReq))
		}

		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range deltas {
			fmt.Fprintf(w, "data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", d)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestStreamChatAssemblesReply(t *testing.T) {
	var req chatRequest
	var auth string
	srv := sseServer(t, []string{"Hel", "lo"}, &req, &auth)
	defer srv.Close()

	c := New(srv.URL+"/", "secret-token", "test-model", zap.NewNop())

	var partials []string
	final, err := c.StreamChat(context.Background(), []ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
	}, func(p string) { partials = append(partials, p) })

	require.NoError(t, err)
	assert.Equal(t, "Hello", final)
	assert.Equal(t, []string{"Hel", "Hello"}, partials)

	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, "test-model", req.Model)
	assert.True(t, req.Stream)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "be brief", req.Messages[0].Content)
}

func TestStreamChatNon2xxStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad-token", "test-model", zap.NewNop())

	called := false
	_, err := c.StreamChat(context.Background(), []ChatMessage{
		{Role: "user", Content: "hi"},
	}, func(string) { called = true })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid api key")
	assert.False(t, called)
}

func TestStreamChatConnectionRefusedFails(t *testing.T) {
	c := New("http://127.0.0.1:1", "token", "test-model", zap.NewNop())

	_, err := c.StreamChat(context.Background(), []ChatMessage{
		{Role: "user", Content: "hi"},
	}, func(string) {})
	assert.Error(t, err)
}
