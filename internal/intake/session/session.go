// Package session owns the conversation transcript and the turn state
// machine. Fragments from the live stream or the fallback responder
// are coalesced into exactly one assistant message per user turn.
package session

import (
	"context"
	"errors"
	"io"
	"sync"

	"evently/internal/common/logger"
	"evently/internal/common/metrics"
	"evently/internal/intake/stream"
	"evently/internal/models"
)

// ErrTurnInFlight is returned when SendMessage is called while a
// previous turn is still streaming. Overlapping turns are rejected
// rather than raced.
var ErrTurnInFlight = errors.New("session: a turn is already in flight")

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = errors.New("session: message text is empty")

// Streamer produces the live fragment stream for a transcript.
type Streamer interface {
	Stream(ctx context.Context, messages []models.Message) (io.ReadCloser, error)
}

// Responder synthesizes a substitute reply when the live path fails.
type Responder interface {
	Respond(ctx context.Context, userInput string, sink func(fragment string)) error
}

// Sink receives the growing assistant message after every fragment;
// updates are pushed outward instead of read from shared state.
type Sink func(assistantText string)

// Session is an ordered transcript plus per-turn state. It is owned by
// a single caller; one turn may be in flight at a time.
type Session struct {
	mu       sync.Mutex
	messages []models.Message
	loading  bool
	err      error

	// current points at the assistant message being streamed this
	// turn; it is nil between turns, so earlier messages are frozen.
	current *models.Message

	// lastSource is "stream" or "fallback" for the most recent turn.
	lastSource string

	streamer Streamer
	fallback Responder
	logger   logger.Logger
}

func New(streamer Streamer, fb Responder, log logger.Logger) *Session {
	return &Session{
		streamer: streamer,
		fallback: fb,
		logger:   log.WithFields(map[string]interface{}{"component": "chat-session"}),
	}
}

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Loading reports whether a turn is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last catastrophic error, if any. The designed
// failure paths recover to the fallback responder and leave it nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Clear resets the transcript and error state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.current = nil
	s.err = nil
}

// LastTurnSource reports which path produced the most recent reply,
// "stream" or "fallback". Empty before the first turn.
func (s *Session) LastTurnSource() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSource
}

// LastAssistantText returns the content of the most recent assistant
// message, for handing to the recommendation extractor.
func (s *Session) LastAssistantText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Role == models.RoleAssistant {
			return s.messages[i].Content
		}
	}
	return ""
}

// SendMessage appends the user message, runs one turn and blocks until
// the assistant reply is fully coalesced. On transport failure or a
// non-2xx status the fallback responder takes over and no error is
// surfaced; the user always gets a substantive answer.
func (s *Session) SendMessage(ctx context.Context, text string, sink Sink) error {
	if text == "" {
		return ErrEmptyMessage
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrTurnInFlight
	}
	s.loading = true
	s.err = nil
	s.messages = append(s.messages, models.Message{Role: models.RoleUser, Content: text})
	transcript := make([]models.Message, len(s.messages))
	copy(transcript, s.messages)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.current = nil // freeze the coalesced message
		s.mu.Unlock()
	}()

	body, err := s.streamer.Stream(ctx, transcript)
	if err != nil {
		s.logger.Warn("chat endpoint unavailable, using fallback responder", map[string]interface{}{
			"error": err.Error(),
		})
		metrics.ChatTurns.WithLabelValues("fallback").Inc()
		s.setSource("fallback")
		return s.runFallback(ctx, text, sink)
	}
	defer body.Close()

	metrics.ChatTurns.WithLabelValues("stream").Inc()
	s.setSource("stream")
	decoder := stream.NewDecoder(body)
	for {
		frag, err := decoder.Next()
		if errors.Is(err, io.EOF) || errors.Is(err, stream.ErrStopped) {
			return nil
		}
		if err != nil {
			// Mid-stream transport errors keep whatever was already
			// coalesced; the turn ends without surfacing an error.
			s.logger.Warn("chat stream interrupted", map[string]interface{}{
				"error": err.Error(),
			})
			return nil
		}
		s.appendFragment(frag, sink)
	}
}

func (s *Session) setSource(source string) {
	s.mu.Lock()
	s.lastSource = source
	s.mu.Unlock()
}

// runFallback replays a canned reply through the same coalescing path.
func (s *Session) runFallback(ctx context.Context, userInput string, sink Sink) error {
	err := s.fallback.Respond(ctx, userInput, func(fragment string) {
		s.appendFragment(fragment, sink)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}
	return nil
}

// appendFragment coalesces one fragment into the current assistant
// message, creating it on the turn's first fragment.
func (s *Session) appendFragment(fragment string, sink Sink) {
	s.mu.Lock()
	if s.current == nil {
		s.messages = append(s.messages, models.Message{Role: models.RoleAssistant})
		s.current = &s.messages[len(s.messages)-1]
	}
	s.current.Content += fragment
	content := s.current.Content
	s.mu.Unlock()

	metrics.ChatFragments.Inc()
	if sink != nil {
		sink(content)
	}
}
