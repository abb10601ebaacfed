// Package fallback synthesizes canned assistant replies when the chat
// endpoint is unreachable, emitting them as a simulated typing stream
// so consumers cannot tell the source apart from a live one.
package fallback

import (
	"context"
	"strings"
	"time"
)

const weddingReply = "Congratulations on your upcoming wedding! To put together the " +
	"perfect package I'd love to know a few things: roughly how many guests are you " +
	"expecting, do you have a date or season in mind, and what overall style appeals " +
	"to you - traditional, luxury glam, or something more rustic? Popular wedding " +
	"picks on our marketplace include decorators, caterers, photographers and live bands."

const birthdayReply = "A birthday party - how exciting! Tell me a bit more so I can " +
	"recommend the right vendors: is this for an adult or a child, about how many " +
	"guests, and do you want a themed setup? Our birthday packages usually combine " +
	"decoration, cake, small chops catering and a DJ, and we have options for every budget."

const corporateReply = "For corporate events we work with vendors experienced in " +
	"conferences, team retreats and end-of-year parties. Could you share the expected " +
	"attendance, whether you need a conference center or a more relaxed venue, and " +
	"your budget range? I can then suggest AV providers, caterers and event halls " +
	"that fit."

const genericReply = "I'd be happy to help you plan your event! To get started, " +
	"could you tell me: what type of event are you planning, roughly how many guests " +
	"you expect, and what budget range you're working with? With those details I can " +
	"recommend vendors, themes and a venue that match."

// DefaultCharInterval is the fixed delay between emitted characters.
const DefaultCharInterval = 20 * time.Millisecond

// Responder picks a canned reply by keyword and replays it one
// character at a time through a sink.
type Responder struct {
	interval time.Duration
}

func New(interval time.Duration) *Responder {
	if interval <= 0 {
		interval = DefaultCharInterval
	}
	return &Responder{interval: interval}
}

// Select returns the canned reply for the user's latest input. The
// first matching branch wins; match order is part of the contract.
func (r *Responder) Select(userInput string) string {
	lower := strings.ToLower(userInput)
	switch {
	case strings.Contains(lower, "wedding"):
		return weddingReply
	case strings.Contains(lower, "birthday"):
		return birthdayReply
	case strings.Contains(lower, "corporate"),
		strings.Contains(lower, "team"),
		strings.Contains(lower, "conference"):
		return corporateReply
	default:
		return genericReply
	}
}

// Respond selects a reply and emits it rune by rune at the configured
// interval. Emission stops early if the context is cancelled; the
// fragments already emitted stay delivered.
func (r *Responder) Respond(ctx context.Context, userInput string, sink func(fragment string)) error {
	reply := r.Select(userInput)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for _, ch := range reply {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			sink(string(ch))
		}
	}
	return nil
}
