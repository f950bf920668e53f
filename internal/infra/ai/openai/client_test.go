package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/acne-dermatologist/internal/domain/ai"
)

func newTestServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if seen != nil {
			_ = json.NewDecoder(r.Body).Decode(seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestAnalyze_Success(t *testing.T) {
	var seen map[string]any
	ts := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "1️⃣ Probable Causes"}, "finish_reason": "stop"}]
	}`, &seen)
	defer ts.Close()

	c := NewClient("test-key", ts.URL+"/v1", "")
	text, err := c.Analyze(context.Background(), ai.Image{Data: []byte("jpg"), MIMEType: ai.MIMETypeJPEG}, "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "1️⃣ Probable Causes", text)

	assert.Equal(t, DefaultModel, seen["model"])
	raw, _ := json.Marshal(seen["messages"])
	assert.Contains(t, string(raw), "the prompt")
	assert.Contains(t, string(raw), "data:image/jpeg;base64,anBn")
}

func TestAnalyze_EmptyChoicesFallsBack(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{"id": "chatcmpl-2", "object": "chat.completion", "choices": []}`, nil)
	defer ts.Close()

	text, err := NewClient("k", ts.URL+"/v1", "gpt-4o").Analyze(context.Background(), ai.Image{Data: []byte("x")}, "p")
	require.NoError(t, err)
	assert.True(t, strings.Contains(text, "chatcmpl-2"), "fallback should render the whole response, got %q", text)
}

func TestAnalyze_QuotaExceeded(t *testing.T) {
	ts := newTestServer(t, http.StatusTooManyRequests, `{"error": {"message": "You exceeded your current quota", "type": "insufficient_quota"}}`, nil)
	defer ts.Close()

	_, err := NewClient("k", ts.URL+"/v1", "").Analyze(context.Background(), ai.Image{Data: []byte("x")}, "p")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ai.ErrQuotaExceeded))
}

func TestAnalyze_ServerError(t *testing.T) {
	ts := newTestServer(t, http.StatusInternalServerError, `{"error": {"message": "boom", "type": "server_error"}}`, nil)
	defer ts.Close()

	_, err := NewClient("k", ts.URL+"/v1", "").Analyze(context.Background(), ai.Image{Data: []byte("x")}, "p")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ai.ErrQuotaExceeded))
	assert.Contains(t, err.Error(), "failed to create chat completion")
}

func TestAnalyze_WhitespaceContentIsReturnedAsIs(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `{
		"id": "chatcmpl-3",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "  \n"}, "finish_reason": "stop"}]
	}`, nil)
	defer ts.Close()

	text, err := NewClient("k", ts.URL+"/v1", "").Analyze(context.Background(), ai.Image{Data: []byte("x")}, "p")
	require.NoError(t, err)
	assert.Equal(t, "  \n", text)
}
