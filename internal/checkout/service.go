package checkout

import (
	"context"
	"time"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/common/metrics"
	"evently/internal/models"
)

// CartReader loads and clears a user's cart around a checkout.
type CartReader interface {
	GetCart(ctx context.Context, userID string) ([]models.CartItem, error)
	ClearCart(ctx context.Context, userID string) error
}

// OrderIndexer mirrors confirmed orders into the analytics index.
type OrderIndexer interface {
	IndexOrder(ctx context.Context, id string, doc interface{}) error
}

// Service runs the checkout flow: price the cart, apply any discount,
// persist the order, hand back a receipt.
type Service struct {
	store    *Store
	cart     CartReader
	notifier *Notifier
	indexer  OrderIndexer
	logger   logger.Logger
}

func NewService(store *Store, cart CartReader, notifier *Notifier, indexer OrderIndexer, log logger.Logger) *Service {
	return &Service{
		store:    store,
		cart:     cart,
		notifier: notifier,
		indexer:  indexer,
		logger:   log.WithFields(map[string]interface{}{"component": "checkout-service"}),
	}
}

// CheckoutRequest carries the customer details for a checkout.
type CheckoutRequest struct {
	UserID       string `json:"-"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	DiscountCode string `json:"discountCode"`
}

// Checkout converts the user's cart into a confirmed order. The cart
// is cleared only after the order is committed.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*models.Order, *models.Receipt, error) {
	if req.Email == "" {
		return nil, nil, apperrors.NewValidationFailedError("email is required")
	}

	items, err := s.cart.GetCart(ctx, req.UserID)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, apperrors.NewValidationFailedError("cart is empty")
	}

	order := &models.Order{
		ID:           newOrderID(),
		UserID:       req.UserID,
		Items:        orderItems(items),
		Subtotal:     subtotal(items),
		DiscountCode: req.DiscountCode,
		Status:       models.OrderStatusConfirmed,
		Email:        req.Email,
		Phone:        req.Phone,
		CreatedAt:    time.Now().UTC(),
	}
	order.Total = order.Subtotal

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return nil, nil, err
	}
	metrics.OrdersCreated.Inc()

	if err := s.cart.ClearCart(ctx, req.UserID); err != nil {
		// The order exists; a stale cart is an annoyance, not a failure.
		s.logger.Warn("cart clear after checkout failed", map[string]interface{}{
			"orderId": order.ID,
			"userId":  req.UserID,
			"error":   err.Error(),
		})
	}

	if s.indexer != nil {
		if err := s.indexer.IndexOrder(ctx, order.ID, order); err != nil {
			s.logger.Warn("order analytics indexing failed", map[string]interface{}{
				"orderId": order.ID,
				"error":   err.Error(),
			})
		}
	}

	receipt := BuildReceipt(order)
	s.notifier.Deliver(ctx, order, receipt)

	s.logger.Info("order created", map[string]interface{}{
		"orderId":  order.ID,
		"userId":   req.UserID,
		"total":    order.Total,
		"discount": order.DiscountCode,
	})
	return order, receipt, nil
}

// PreviewDiscount reports what a code would take off the current cart.
func (s *Service) PreviewDiscount(ctx context.Context, userID, code string) (int64, int64, error) {
	items, err := s.cart.GetCart(ctx, userID)
	if err != nil {
		return 0, 0, err
	}

	sub := subtotal(items)
	off, err := s.store.ValidateDiscount(ctx, code, sub)
	if err != nil {
		return 0, 0, err
	}
	return sub, off, nil
}

func orderItems(items []models.CartItem) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.OrderItem{
			ServiceID: it.ServiceID,
			Name:      it.Name,
			Category:  it.Category,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}
	return out
}

func subtotal(items []models.CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Quantity)
	}
	return sum
}
