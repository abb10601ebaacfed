// Package dictionary holds the static field catalogs the recommendation
// extractor matches against. All catalogs are read-only after process
// start and safe for concurrent readers.
package dictionary

// Entry is one catalog value. Min/Max are inclusive bounds for range
// catalogs (guest sizes, budget bands) and zero otherwise.
type Entry struct {
	ID   string
	Name string
	Min  int64
	Max  int64
}

// InRange reports whether n falls inside the entry's inclusive bounds.
func (e Entry) InRange(n int64) bool {
	return n >= e.Min && n <= e.Max
}

// EventTypes returns the event type catalog in match-precedence order.
func EventTypes() []Entry { return eventTypes }

// Themes returns the decor theme catalog.
func Themes() []Entry { return themes }

// Palettes returns the color palette catalog.
func Palettes() []Entry { return palettes }

// GuestSizes returns the guest-count buckets.
func GuestSizes() []Entry { return guestSizes }

// Venues returns the venue type catalog.
func Venues() []Entry { return venues }

// Budgets returns the budget bands with inclusive naira ranges.
func Budgets() []Entry { return budgets }
