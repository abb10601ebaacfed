// Package gateway proxies chat requests to the upstream chat-completion
// API, adding the marketplace system prompt and streaming the response
// body through unchanged.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"evently/internal/common/config"
	"evently/internal/common/httpclient"
	"evently/internal/common/logger"
	"evently/internal/common/validation"
	"evently/internal/models"
)

// requestSchema guards the inbound body before anything is forwarded.
var requestSchema = map[string]interface{}{
	"type":     "object",
	"required": []interface{}{"messages"},
	"properties": map[string]interface{}{
		"messages": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"role", "content"},
				"properties": map[string]interface{}{
					"role": map[string]interface{}{
						"type": "string",
						"enum": []interface{}{"user", "assistant"},
					},
					"content": map[string]interface{}{"type": "string"},
				},
			},
		},
	},
}

type chatRequest struct {
	Messages []models.Message `json:"messages"`
}

type upstreamMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type upstreamRequest struct {
	Model    string            `json:"model"`
	Messages []upstreamMessage `json:"messages"`
	Stream   bool              `json:"stream"`
}

// Handler terminates POST /api/chat.
type Handler struct {
	cfg    config.ChatConfig
	client *httpclient.Client
	logger logger.Logger
}

func NewHandler(cfg config.ChatConfig, log logger.Logger) *Handler {
	return &Handler{
		cfg:    cfg,
		client: httpclient.NewStreaming(),
		logger: log.WithFields(map[string]interface{}{"component": "gateway"}),
	}
}

// Chat validates the body, forwards the transcript upstream with the
// system prompt prepended, and relays the event stream.
func (h *Handler) Chat(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}

	var document interface{}
	if err := json.Unmarshal(raw, &document); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body is not valid JSON"})
		return
	}
	result, err := validation.Validate(document, requestSchema)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "validation error"})
		return
	}
	if !result.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.ErrorSummary()})
		return
	}

	var req chatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed messages"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.cfg.RequestTimeout)*time.Second)
	defer cancel()

	resp, err := h.forward(ctx, req.Messages)
	if err != nil {
		h.logger.Error("upstream request failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadGateway, gin.H{"error": "AI service is unavailable"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.writeUpstreamError(c, resp)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)

	// Relay the upstream body chunk by chunk so deltas reach the
	// browser as they arrive.
	buf := make([]byte, 4096)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := c.Writer.Write(buf[:n]); writeErr != nil {
				return
			}
			c.Writer.Flush()
		}
		if readErr != nil {
			return
		}
	}
}

func (h *Handler) forward(ctx context.Context, messages []models.Message) (*http.Response, error) {
	upstream := upstreamRequest{
		Model:    h.cfg.Model,
		Messages: make([]upstreamMessage, 0, len(messages)+1),
		Stream:   true,
	}
	upstream.Messages = append(upstream.Messages, upstreamMessage{Role: "system", Content: systemPrompt})
	for _, m := range messages {
		upstream.Messages = append(upstream.Messages, upstreamMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(upstream)
	if err != nil {
		return nil, fmt.Errorf("marshal upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.cfg.UpstreamURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.cfg.APIKey)

	return h.client.Do(req)
}

// writeUpstreamError maps known upstream statuses to stable client
// errors; everything else collapses to a generic 500.
func (h *Handler) writeUpstreamError(c *gin.Context, resp *http.Response) {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	h.logger.Warn("upstream returned non-success status", map[string]interface{}{
		"status": resp.StatusCode,
		"body":   string(detail),
	})

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "AI service rate limit reached, please try again shortly"})
	case http.StatusPaymentRequired:
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "AI credits exhausted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service error"})
	}
}
