package dictionary

// Catalog order is load-bearing: the extractor takes the first match,
// so more specific entries must come before generic ones.

var eventTypes = []Entry{
	{ID: "wedding", Name: "Wedding"},
	{ID: "birthday", Name: "Birthday Party"},
	{ID: "corporate", Name: "Corporate Event"},
	{ID: "anniversary", Name: "Anniversary"},
	{ID: "baby-shower", Name: "Baby Shower"},
	{ID: "graduation", Name: "Graduation"},
}

var themes = []Entry{
	{ID: "traditional", Name: "Traditional"},
	{ID: "modern-minimalist", Name: "Modern Minimalist"},
	{ID: "rustic", Name: "Rustic"},
	{ID: "luxury-glam", Name: "Luxury Glam"},
	{ID: "garden-party", Name: "Garden Party"},
	{ID: "vintage", Name: "Vintage"},
	{ID: "beach", Name: "Beach"},
}

var palettes = []Entry{
	{ID: "royal-blue-gold", Name: "Royal Blue & Gold"},
	{ID: "blush-pink-ivory", Name: "Blush Pink & Ivory"},
	{ID: "emerald-green-cream", Name: "Emerald Green & Cream"},
	{ID: "burgundy-gold", Name: "Burgundy & Gold"},
	{ID: "black-white", Name: "Black & White"},
	{ID: "lavender-silver", Name: "Lavender & Silver"},
}

var guestSizes = []Entry{
	{ID: "intimate", Name: "Intimate", Min: 1, Max: 50},
	{ID: "small", Name: "Small", Min: 51, Max: 100},
	{ID: "medium", Name: "Medium", Min: 101, Max: 200},
	{ID: "large", Name: "Large", Min: 201, Max: 400},
	{ID: "grand", Name: "Grand", Min: 401, Max: 2000},
}

var venues = []Entry{
	{ID: "event-hall", Name: "Event Hall"},
	{ID: "hotel-ballroom", Name: "Hotel Ballroom"},
	{ID: "garden-outdoor", Name: "Garden / Outdoor"},
	{ID: "beach-resort", Name: "Beach Resort"},
	{ID: "rooftop-lounge", Name: "Rooftop Lounge"},
	{ID: "conference-center", Name: "Conference Center"},
}

var budgets = []Entry{
	{ID: "budget", Name: "Budget Friendly", Min: 0, Max: 1_000_000},
	{ID: "moderate", Name: "Moderate", Min: 1_000_001, Max: 5_000_000},
	{ID: "premium", Name: "Premium", Min: 5_000_001, Max: 20_000_000},
	{ID: "luxury", Name: "Luxury", Min: 20_000_001, Max: 2_000_000_000},
}
