package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

// Handler terminates the cart and wishlist endpoints. The user id
// comes from the X-User-Id header set by the frontend session layer.
type Handler struct {
	store  *Store
	logger logger.Logger
}

func NewHandler(store *Store, log logger.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: log.WithFields(map[string]interface{}{"component": "cart-handler"}),
	}
}

func userID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-Id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-Id header is required"})
		return "", false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	stdErr := apperrors.Normalize(err)
	c.JSON(stdErr.HTTPStatus(), gin.H{"error": stdErr.Message, "code": stdErr.Code})
}

// GetCart handles GET /api/cart
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	items, err := h.store.GetCart(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total(items)})
}

// AddToCart handles POST /api/cart/items
func (h *Handler) AddToCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil || item.ServiceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceId is required"})
		return
	}

	items, err := h.store.AddToCart(c.Request.Context(), uid, item)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total(items)})
}

// RemoveFromCart handles DELETE /api/cart/items/:serviceId
func (h *Handler) RemoveFromCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	items, err := h.store.RemoveFromCart(c.Request.Context(), uid, c.Param("serviceId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total(items)})
}

// ClearCart handles DELETE /api/cart
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	if err := h.store.ClearCart(c.Request.Context(), uid); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetWishlist handles GET /api/wishlist
func (h *Handler) GetWishlist(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	items, err := h.store.GetWishlist(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// AddToWishlist handles POST /api/wishlist/items
func (h *Handler) AddToWishlist(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil || item.ServiceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "serviceId is required"})
		return
	}

	items, err := h.store.AddToWishlist(c.Request.Context(), uid, item)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// RemoveFromWishlist handles DELETE /api/wishlist/items/:serviceId
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	items, err := h.store.RemoveFromWishlist(c.Request.Context(), uid, c.Param("serviceId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// MoveToCart handles POST /api/wishlist/items/:serviceId/move
func (h *Handler) MoveToCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	items, err := h.store.MoveToCart(c.Request.Context(), uid, c.Param("serviceId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total(items)})
}

func total(items []models.CartItem) int64 {
	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Quantity)
	}
	return sum
}
