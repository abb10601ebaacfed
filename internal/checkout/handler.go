package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
)

// Handler terminates the checkout and order endpoints.
type Handler struct {
	service *Service
	store   *Store
	logger  logger.Logger
}

func NewHandler(service *Service, store *Store, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		store:   store,
		logger:  log.WithFields(map[string]interface{}{"component": "checkout-handler"}),
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

// Checkout handles POST /api/checkout
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout payload"})
		return
	}
	req.UserID = uid

	order, receipt, err := h.service.Checkout(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order, "receipt": receipt})
}

// PreviewDiscount handles POST /api/checkout/discount
func (h *Handler) PreviewDiscount(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}

	sub, off, err := h.service.PreviewDiscount(c.Request.Context(), uid, req.Code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subtotal": sub, "discountOff": off, "total": sub - off})
}

// GetOrder handles GET /api/orders/:id
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.store.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders handles GET /api/orders
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	orders, err := h.store.ListOrders(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}
