// Package extract derives structured event-planning fields from
// free-form assistant text using the static field dictionaries. The
// matching is a deliberately low-precision keyword heuristic; the
// precedence order below is part of the observable contract and must
// not be reordered.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"evently/internal/intake/dictionary"
	"evently/internal/models"
)

var (
	guestRe = regexp.MustCompile(`(?i)(\d+)\s*(?:guests?|people|attendees)`)

	// moneyRe scans for monetary-looking tokens: optional naira marker,
	// digit groups with optional thousands separators and decimal part,
	// optional magnitude suffix.
	moneyRe = regexp.MustCompile(`(?i)(?:₦|ngn\s*)?(\d{1,3}(?:,\d{3})+(?:\.\d+)?|\d+(?:\.\d+)?)\s*(million|thousand|k|m)?\b`)
)

// Extract matches each of the six target fields independently against
// the field dictionaries. It is a pure function: same text in, same
// record out, and it never fails - unmatched fields are simply left
// empty.
func Extract(text string) models.Recommendation {
	lower := strings.ToLower(text)

	return models.Recommendation{
		EventType:    matchByName(lower, dictionary.EventTypes()),
		Theme:        matchByHyphenlessName(lower, dictionary.Themes()),
		ColorPalette: matchByHyphenlessName(lower, dictionary.Palettes()),
		GuestSize:    matchGuestSize(lower),
		VenueType:    matchVenue(lower),
		Budget:       matchBudget(lower),
	}
}

// matchByName returns the first entry whose display name or id appears
// as a substring of the input.
func matchByName(lower string, entries []dictionary.Entry) string {
	for _, e := range entries {
		if strings.Contains(lower, strings.ToLower(e.Name)) ||
			strings.Contains(lower, strings.ToLower(e.ID)) {
			return e.ID
		}
	}
	return ""
}

// matchByHyphenlessName is matchByName with hyphens in the candidate
// replaced by spaces, so "luxury-glam" also matches "luxury glam".
func matchByHyphenlessName(lower string, entries []dictionary.Entry) string {
	for _, e := range entries {
		name := strings.ToLower(e.Name)
		id := strings.ReplaceAll(strings.ToLower(e.ID), "-", " ")
		if strings.Contains(lower, name) || strings.Contains(lower, id) {
			return e.ID
		}
	}
	return ""
}

// matchGuestSize extracts the first integer immediately followed by a
// guest word and buckets it into the first containing range.
func matchGuestSize(lower string) string {
	m := guestRe.FindStringSubmatch(lower)
	if m == nil {
		return ""
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return ""
	}
	for _, e := range dictionary.GuestSizes() {
		if e.InRange(n) {
			return e.ID
		}
	}
	return ""
}

// matchVenue splits each venue's display name into keywords and takes
// the first venue with a keyword longer than 3 characters present in
// the input.
func matchVenue(lower string) string {
	for _, e := range dictionary.Venues() {
		keywords := strings.FieldsFunc(strings.ToLower(e.Name), func(r rune) bool {
			return r == ' ' || r == '/' || r == '\t'
		})
		for _, kw := range keywords {
			if len(kw) > 3 && strings.Contains(lower, kw) {
				return e.ID
			}
		}
	}
	return ""
}

// matchBudget normalizes monetary tokens to naira amounts and buckets
// them; if no token lands in a band, a secondary keyword pass runs.
func matchBudget(lower string) string {
	for _, m := range moneyRe.FindAllStringSubmatch(lower, -1) {
		amount := normalizeAmount(m[1], m[2])
		if amount <= 0 {
			continue
		}
		for _, band := range dictionary.Budgets() {
			if band.InRange(amount) {
				return band.ID
			}
		}
	}

	// Keyword pass, in fixed priority order.
	switch {
	case strings.Contains(lower, "luxury"),
		strings.Contains(lower, "high-end"),
		strings.Contains(lower, "premium"):
		return "luxury"
	case strings.Contains(lower, "moderate"),
		strings.Contains(lower, "mid-range"):
		return "moderate"
	case strings.Contains(lower, "budget"),
		strings.Contains(lower, "affordable"):
		return "budget"
	}
	return ""
}

// normalizeAmount converts a matched number plus optional magnitude
// suffix into naira. A bare number under 1000 is assumed to be quoted
// in millions; budgets are rarely given as raw three-digit figures.
func normalizeAmount(number, suffix string) int64 {
	n, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil {
		return 0
	}

	switch suffix {
	case "m", "million":
		n *= 1_000_000
	case "k", "thousand":
		n *= 1_000
	default:
		if n < 1000 {
			n *= 1_000_000
		}
	}
	return int64(n)
}
