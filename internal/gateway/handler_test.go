package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/common/config"
	"evently/internal/common/logger"
)

func newTestRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/chat", h.Chat)
	r.POST("/api/intake/extract", h.Extract)
	return r
}

func newTestHandler(t *testing.T, upstreamURL string) *Handler {
	t.Helper()
	return NewHandler(config.ChatConfig{
		UpstreamURL:    upstreamURL,
		APIKey:         "test-key",
		Model:          "test-model",
		RequestTimeout: 5,
	}, logger.NewTestLogger(t))
}

func postChat(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChat_StreamsUpstreamBodyThrough(t *testing.T) {
	streamBody := `data: {"choices":[{"delta":{"content":"Hi"}}]}` + "\n" + "data: [DONE]\n"

	var gotUpstream struct {
		Model    string `json:"model"`
		Stream   bool   `json:"stream"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotUpstream))

		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte(streamBody))
	}))
	defer upstream.Close()

	r := newTestRouter(newTestHandler(t, upstream.URL))
	w := postChat(r, `{"messages":[{"role":"user","content":"hello"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, streamBody, w.Body.String())

	// System prompt is prepended, user transcript follows unchanged.
	assert.Equal(t, "test-model", gotUpstream.Model)
	assert.True(t, gotUpstream.Stream)
	require.GreaterOrEqual(t, len(gotUpstream.Messages), 2)
	assert.Equal(t, "system", gotUpstream.Messages[0].Role)
	assert.Equal(t, "user", gotUpstream.Messages[1].Role)
	assert.Equal(t, "hello", gotUpstream.Messages[1].Content)
}

func TestChat_UpstreamStatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		upstreamStatus int
		wantStatus     int
		wantErrSubstr  string
	}{
		{"rate limited", http.StatusTooManyRequests, http.StatusTooManyRequests, "rate limit"},
		{"credits exhausted", http.StatusPaymentRequired, http.StatusPaymentRequired, "credits"},
		{"other upstream failure", http.StatusServiceUnavailable, http.StatusInternalServerError, "AI service error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.upstreamStatus)
			}))
			defer upstream.Close()

			r := newTestRouter(newTestHandler(t, upstream.URL))
			w := postChat(r, `{"messages":[{"role":"user","content":"hello"}]}`)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantErrSubstr)
		})
	}
}

func TestChat_RejectsInvalidBody(t *testing.T) {
	r := newTestRouter(newTestHandler(t, "http://localhost:1"))

	tests := []struct {
		name string
		body string
	}{
		{"not json", "{nope"},
		{"missing messages", `{"foo":1}`},
		{"empty messages", `{"messages":[]}`},
		{"bad role", `{"messages":[{"role":"system","content":"x"}]}`},
		{"missing content", `{"messages":[{"role":"user"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postChat(r, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestChat_UnreachableUpstream(t *testing.T) {
	r := newTestRouter(newTestHandler(t, "http://127.0.0.1:1"))
	w := postChat(r, `{"messages":[{"role":"user","content":"hello"}]}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestExtract_Endpoint(t *testing.T) {
	r := newTestRouter(newTestHandler(t, "http://localhost:1"))

	req := httptest.NewRequest(http.MethodPost, "/api/intake/extract",
		strings.NewReader(`{"text":"a wedding for 250 guests around ₦1.5m"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recommendation struct {
			EventType string `json:"eventType"`
			GuestSize string `json:"guestSize"`
		} `json:"recommendation"`
		HasAny bool `json:"hasAny"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.HasAny)
	assert.Equal(t, "wedding", resp.Recommendation.EventType)
	assert.Equal(t, "large", resp.Recommendation.GuestSize)
}

func TestExtract_RequiresText(t *testing.T) {
	r := newTestRouter(newTestHandler(t, "http://localhost:1"))

	req := httptest.NewRequest(http.MethodPost, "/api/intake/extract", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
