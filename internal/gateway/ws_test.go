package gateway

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evently/internal/common/logger"
	"evently/internal/intake/chat"
	"evently/internal/intake/fallback"
	"evently/internal/intake/session"
	"evently/internal/models"
)

func sseChunk(content string) string {
	return fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", content)
}

func dialWS(t *testing.T, upstreamURL string) *websocket.Conn {
	t.Helper()

	handler := NewWSHandler(func() *session.Session {
		streamer := chat.NewClient(upstreamURL, "test-token")
		responder := fallback.New(time.Millisecond)
		return session.New(streamer, responder, logger.NewNoOpLogger())
	}, nil, logger.NewNoOpLogger())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", handler.Serve)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

type wsFrame struct {
	Type           string                 `json:"type"`
	Content        string                 `json:"content"`
	Recommendation *models.Recommendation `json:"recommendation"`
}

func readUntilDone(t *testing.T, conn *websocket.Conn) (string, wsFrame) {
	t.Helper()

	var streamed strings.Builder
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))

		var frame wsFrame
		require.NoError(t, conn.ReadJSON(&frame))

		switch frame.Type {
		case "fragment":
			streamed.WriteString(frame.Content)
		case "done":
			return streamed.String(), frame
		case "error":
			t.Fatalf("unexpected error frame: %s", frame.Content)
		}
	}
}

func TestWS_StreamedTurn(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseChunk("A garden wedding "))
		fmt.Fprint(w, sseChunk("sounds beautiful!"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer upstream.Close()

	conn := dialWS(t, upstream.URL)

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "I want a garden wedding"}))
	streamed, done := readUntilDone(t, conn)

	assert.Equal(t, "A garden wedding sounds beautiful!", streamed)
	assert.Equal(t, "A garden wedding sounds beautiful!", done.Content)

	require.NotNil(t, done.Recommendation)
	assert.Equal(t, "wedding", done.Recommendation.EventType)
}

func TestWS_FallbackWhenUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	conn := dialWS(t, upstream.URL)

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "planning a birthday party"}))
	streamed, done := readUntilDone(t, conn)

	assert.NotEmpty(t, streamed)
	assert.Equal(t, streamed, done.Content)
}

func TestWS_EmptyMessageRejected(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer upstream.Close()

	conn := dialWS(t, upstream.URL)

	require.NoError(t, conn.WriteJSON(map[string]string{"content": ""}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame wsFrame
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "error", frame.Type)
}

func TestWS_MultipleTurnsOneConnection(t *testing.T) {
	var turn int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		turn++
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseChunk(fmt.Sprintf("reply %d", turn)))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer upstream.Close()

	conn := dialWS(t, upstream.URL)

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "first"}))
	first, _ := readUntilDone(t, conn)
	assert.Equal(t, "reply 1", first)

	require.NoError(t, conn.WriteJSON(map[string]string{"content": "second"}))
	second, _ := readUntilDone(t, conn)
	assert.Equal(t, "reply 2", second)
}
