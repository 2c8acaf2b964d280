package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAICompleter_Complete(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "deepseek-chat",
			"choices": []map[string]interface{}{
				{
					"index":         0,
					"finish_reason": "stop",
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": "Hi|a, b|Notes|Summary text",
					},
				},
			},
			"usage": map[string]interface{}{
				"prompt_tokens":     10,
				"completion_tokens": 8,
				"total_tokens":      18,
			},
		})
	}))
	defer server.Close()

	c := NewOpenAICompleter("sk-test", server.URL, "deepseek-chat")
	text, err := c.Complete(context.Background(), "prompt body")
	require.NoError(t, err)
	assert.Equal(t, "Hi|a, b|Notes|Summary text", text)

	assert.Equal(t, "deepseek-chat", gotBody["model"])
	msgs, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, msgs, 1)
	msg := msgs[0].(map[string]interface{})
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "prompt body", msg["content"])
	assert.NotEqual(t, true, gotBody["stream"])
}

func TestOpenAICompleter_NonSuccessStatusIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	defer server.Close()

	c := NewOpenAICompleter("sk-test", server.URL, "deepseek-chat")
	_, err := c.Complete(context.Background(), "x")
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOpenAICompleter_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","model":"deepseek-chat","choices":[]}`))
	}))
	defer server.Close()

	c := NewOpenAICompleter("sk-test", server.URL, "deepseek-chat")
	_, err := c.Complete(context.Background(), "x")
	assert.ErrorContains(t, err, "no choices")
}
