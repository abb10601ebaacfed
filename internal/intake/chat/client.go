// Package chat is the thin HTTP client for the marketplace chat
// endpoint. It hands the raw event stream to the decoder; failures are
// reported as typed errors so the session can switch to the fallback
// responder.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"evently/internal/common/httpclient"
	"evently/internal/models"
)

// StatusError reports a non-2xx response from the chat endpoint.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat endpoint returned status %d", e.Status)
}

type request struct {
	Messages []models.Message `json:"messages"`
}

// Client posts the conversation transcript and returns the streaming
// response body.
type Client struct {
	endpoint string
	token    string
	http     *httpclient.Client
}

func NewClient(endpoint, token string) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		// Streaming responses are bounded by the caller's context, not
		// a client-wide timeout.
		http: httpclient.NewStreaming(),
	}
}

// Stream sends the messages and returns the response body on success.
// The caller owns closing the body. Non-2xx responses are drained,
// closed and returned as *StatusError.
func (c *Client) Stream(ctx context.Context, messages []models.Message) (io.ReadCloser, error) {
	body, err := json.Marshal(request{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &StatusError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return resp.Body, nil
}
