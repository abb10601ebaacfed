package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/common/metrics"
	"evently/internal/intake/extract"
)

type extractRequest struct {
	Text string `json:"text" binding:"required"`
}

type extractResponse struct {
	Recommendation interface{} `json:"recommendation"`
	HasAny         bool        `json:"hasAny"`
}

// Extract exposes the recommendation extractor so the wizard UI can
// offer an auto-fill action from the latest assistant message.
func (h *Handler) Extract(c *gin.Context) {
	var req extractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	rec := extract.Extract(req.Text)

	for field, value := range map[string]string{
		"eventType":    rec.EventType,
		"theme":        rec.Theme,
		"colorPalette": rec.ColorPalette,
		"guestSize":    rec.GuestSize,
		"venueType":    rec.VenueType,
		"budget":       rec.Budget,
	} {
		if value != "" {
			metrics.ExtractionHits.WithLabelValues(field).Inc()
		}
	}

	c.JSON(http.StatusOK, extractResponse{Recommendation: rec, HasAny: rec.HasAny()})
}
