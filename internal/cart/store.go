// Package cart keeps per-user carts and wishlists in Redis.
package cart

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

// Carts are kept for 30 days of inactivity; every write refreshes
// the TTL.
const cartTTL = 30 * 24 * time.Hour

// Store persists carts and wishlists as JSON blobs keyed by user.
type Store struct {
	redis  *redis.Client
	logger logger.Logger
}

func NewStore(rdb *redis.Client, log logger.Logger) *Store {
	return &Store{
		redis:  rdb,
		logger: log.WithFields(map[string]interface{}{"component": "cart-store"}),
	}
}

func cartKey(userID string) string     { return "cart:" + userID }
func wishlistKey(userID string) string { return "wishlist:" + userID }

func (s *Store) load(ctx context.Context, key string) ([]models.CartItem, error) {
	val, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewQueryExecutionFailedError("cart_load", err)
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		// A corrupt blob is unrecoverable; start the user fresh.
		s.logger.Warn("discarding corrupt cart blob", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, nil
	}
	return items, nil
}

func (s *Store) save(ctx context.Context, key string, items []models.CartItem) error {
	if len(items) == 0 {
		if err := s.redis.Del(ctx, key).Err(); err != nil {
			return apperrors.NewQueryExecutionFailedError("cart_save", err)
		}
		return nil
	}

	data, err := json.Marshal(items)
	if err != nil {
		return apperrors.NewQueryExecutionFailedError("cart_save", err)
	}
	if err := s.redis.Set(ctx, key, data, cartTTL).Err(); err != nil {
		return apperrors.NewQueryExecutionFailedError("cart_save", err)
	}
	return nil
}

// GetCart returns the user's cart, empty when none exists.
func (s *Store) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.load(ctx, cartKey(userID))
}

// AddToCart adds a service to the cart, merging quantities when the
// service is already present.
func (s *Store) AddToCart(ctx context.Context, userID string, item models.CartItem) ([]models.CartItem, error) {
	items, err := s.load(ctx, cartKey(userID))
	if err != nil {
		return nil, err
	}

	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	merged := false
	for i := range items {
		if items[i].ServiceID == item.ServiceID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		item.AddedAt = time.Now().UTC()
		items = append(items, item)
	}

	if err := s.save(ctx, cartKey(userID), items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveFromCart drops a service from the cart. Removing a service
// that is not in the cart is a no-op.
func (s *Store) RemoveFromCart(ctx context.Context, userID, serviceID string) ([]models.CartItem, error) {
	items, err := s.load(ctx, cartKey(userID))
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ServiceID != serviceID {
			kept = append(kept, it)
		}
	}

	if err := s.save(ctx, cartKey(userID), kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// ClearCart empties the cart, typically after checkout.
func (s *Store) ClearCart(ctx context.Context, userID string) error {
	if err := s.redis.Del(ctx, cartKey(userID)).Err(); err != nil {
		return apperrors.NewQueryExecutionFailedError("cart_clear", err)
	}
	return nil
}

// GetWishlist returns the user's saved-for-later items.
func (s *Store) GetWishlist(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.load(ctx, wishlistKey(userID))
}

// AddToWishlist saves a service for later. Duplicates are ignored.
func (s *Store) AddToWishlist(ctx context.Context, userID string, item models.CartItem) ([]models.CartItem, error) {
	items, err := s.load(ctx, wishlistKey(userID))
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if it.ServiceID == item.ServiceID {
			return items, nil
		}
	}
	item.Quantity = 1
	item.AddedAt = time.Now().UTC()
	items = append(items, item)

	if err := s.save(ctx, wishlistKey(userID), items); err != nil {
		return nil, err
	}
	return items, nil
}

// RemoveFromWishlist drops a service from the wishlist.
func (s *Store) RemoveFromWishlist(ctx context.Context, userID, serviceID string) ([]models.CartItem, error) {
	items, err := s.load(ctx, wishlistKey(userID))
	if err != nil {
		return nil, err
	}

	kept := items[:0]
	for _, it := range items {
		if it.ServiceID != serviceID {
			kept = append(kept, it)
		}
	}

	if err := s.save(ctx, wishlistKey(userID), kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// MoveToCart transfers a wishlist item into the cart.
func (s *Store) MoveToCart(ctx context.Context, userID, serviceID string) ([]models.CartItem, error) {
	wishlist, err := s.load(ctx, wishlistKey(userID))
	if err != nil {
		return nil, err
	}

	var found *models.CartItem
	for i := range wishlist {
		if wishlist[i].ServiceID == serviceID {
			found = &wishlist[i]
			break
		}
	}
	if found == nil {
		return nil, apperrors.NewNotFoundError("wishlist item", serviceID)
	}

	items, err := s.AddToCart(ctx, userID, *found)
	if err != nil {
		return nil, err
	}
	if _, err := s.RemoveFromWishlist(ctx, userID, serviceID); err != nil {
		return nil, err
	}
	return items, nil
}
