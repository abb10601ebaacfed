package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

// Handler terminates the back-office endpoints.
type Handler struct {
	discounts *DiscountStore
	analytics *Analytics
	logger    logger.Logger
}

func NewHandler(discounts *DiscountStore, analytics *Analytics, log logger.Logger) *Handler {
	return &Handler{
		discounts: discounts,
		analytics: analytics,
		logger:    log.WithFields(map[string]interface{}{"component": "admin-handler"}),
	}
}

func writeError(c *gin.Context, err error) {
	stdErr := apperrors.Normalize(err)
	c.JSON(stdErr.HTTPStatus(), gin.H{"error": stdErr.Message, "code": stdErr.Code})
}

// ListDiscounts handles GET /api/admin/discounts
func (h *Handler) ListDiscounts(c *gin.Context) {
	discounts, err := h.discounts.ListDiscounts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discounts": discounts})
}

// CreateDiscount handles POST /api/admin/discounts
func (h *Handler) CreateDiscount(c *gin.Context) {
	var d models.Discount
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid discount payload"})
		return
	}

	created, err := h.discounts.CreateDiscount(c.Request.Context(), d)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeactivateDiscount handles DELETE /api/admin/discounts/:id
func (h *Handler) DeactivateDiscount(c *gin.Context) {
	if err := h.discounts.DeactivateDiscount(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// OrdersPerDay handles GET /api/admin/analytics/orders?days=30
func (h *Handler) OrdersPerDay(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	buckets, err := h.analytics.OrdersPerDay(c.Request.Context(), days)
	if err != nil {
		// Analytics are advisory; an empty report beats a 500 when the
		// index is unavailable.
		h.logger.Warn("order analytics unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusOK, gin.H{"days": []DailyOrders{}, "degraded": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": buckets})
}

// RevenueByCategory handles GET /api/admin/analytics/revenue
func (h *Handler) RevenueByCategory(c *gin.Context) {
	buckets, err := h.analytics.RevenueByCategory(c.Request.Context())
	if err != nil {
		h.logger.Warn("revenue analytics unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusOK, gin.H{"categories": []CategoryRevenue{}, "degraded": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": buckets})
}
