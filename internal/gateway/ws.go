package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"evently/internal/common/logger"
	"evently/internal/common/observability"
	"evently/internal/intake/extract"
	"evently/internal/intake/session"
	"evently/internal/models"
)

// wsInbound is what the browser sends for each turn.
type wsInbound struct {
	Content string `json:"content"`
}

// wsOutbound frames fragments and turn completions to the browser.
type wsOutbound struct {
	Type           string                 `json:"type"` // "fragment", "done", "error"
	Content        string                 `json:"content,omitempty"`
	Recommendation *models.Recommendation `json:"recommendation,omitempty"`
}

// WSHandler runs a server-side chat session over a websocket, for
// clients that prefer a duplex connection to consuming SSE.
type WSHandler struct {
	upgrader   websocket.Upgrader
	newSession func() *session.Session
	obs        *observability.Observability
	logger     logger.Logger
}

func NewWSHandler(newSession func() *session.Session, obs *observability.Observability, log logger.Logger) *WSHandler {
	return &WSHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		newSession: newSession,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "gateway-ws"}),
	}
}

// Serve upgrades the connection and processes turns until the client
// disconnects. One session lives as long as the connection.
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	defer conn.Close()

	sess := h.newSession()

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		if in.Content == "" {
			_ = conn.WriteJSON(wsOutbound{Type: "error", Content: "empty message"})
			continue
		}

		var lastSent string
		turnStart := time.Now()
		err := sess.SendMessage(c.Request.Context(), in.Content, func(text string) {
			// Send only the delta since the previous update.
			delta := text[len(lastSent):]
			lastSent = text
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			_ = conn.WriteJSON(wsOutbound{Type: "fragment", Content: delta})
		})
		if err != nil {
			_ = conn.WriteJSON(wsOutbound{Type: "error", Content: err.Error()})
			continue
		}
		if h.obs != nil {
			source := sess.LastTurnSource()
			h.obs.RecordTurn(c.Request.Context(), source)
			h.obs.RecordTurnDuration(c.Request.Context(), time.Since(turnStart), source)
		}

		rec := extract.Extract(sess.LastAssistantText())
		out := wsOutbound{Type: "done", Content: sess.LastAssistantText()}
		if rec.HasAny() {
			out.Recommendation = &rec
		}
		if err := conn.WriteJSON(out); err != nil {
			return
		}
	}
}
