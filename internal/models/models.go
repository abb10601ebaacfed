// Package models holds the shared domain types for the marketplace.
package models

import "time"

// Role tags a chat message as coming from the user or the assistant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Recommendation is the structured record the extractor produces from
// assistant text. Each field holds a dictionary entry id or is empty.
type Recommendation struct {
	EventType    string `json:"eventType,omitempty"`
	Theme        string `json:"theme,omitempty"`
	ColorPalette string `json:"colorPalette,omitempty"`
	GuestSize    string `json:"guestSize,omitempty"`
	VenueType    string `json:"venueType,omitempty"`
	Budget       string `json:"budget,omitempty"`
}

// HasAny reports whether at least one field was extracted; callers use
// it to decide whether to offer an auto-fill action.
func (r Recommendation) HasAny() bool {
	return r.EventType != "" || r.Theme != "" || r.ColorPalette != "" ||
		r.GuestSize != "" || r.VenueType != "" || r.Budget != ""
}

// Vendor is a service provider on the marketplace.
type Vendor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	City      string    `json:"city"`
	Rating    float64   `json:"rating"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service is a bookable offering from a vendor.
type Service struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendorId"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	PriceMin    int64     `json:"priceMin"` // naira
	PriceMax    int64     `json:"priceMax"` // naira
	CreatedAt   time.Time `json:"createdAt"`
}

// CartItem is one service in a user's cart or wishlist.
type CartItem struct {
	ServiceID string    `json:"serviceId"`
	VendorID  string    `json:"vendorId"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     int64     `json:"price"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"addedAt"`
}

// Discount is an admin-managed promotional code.
type Discount struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Kind      string     `json:"kind"` // "percent" or "fixed"
	Value     int64      `json:"value"`
	MaxUses   int        `json:"maxUses"`
	UsedCount int        `json:"usedCount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Active    bool       `json:"active"`
}

// OrderItem is one line on an order.
type OrderItem struct {
	ServiceID string `json:"serviceId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a confirmed checkout.
type Order struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	Items        []OrderItem `json:"items"`
	Subtotal     int64       `json:"subtotal"`
	DiscountCode string      `json:"discountCode,omitempty"`
	DiscountOff  int64       `json:"discountOff"`
	Total        int64       `json:"total"`
	Status       OrderStatus `json:"status"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// Receipt is the rendered record handed to the customer after checkout.
type Receipt struct {
	ReceiptNumber string      `json:"receiptNumber"`
	OrderID       string      `json:"orderId"`
	IssuedAt      time.Time   `json:"issuedAt"`
	Items         []OrderItem `json:"items"`
	Subtotal      int64       `json:"subtotal"`
	DiscountOff   int64       `json:"discountOff"`
	Total         int64       `json:"total"`
}
