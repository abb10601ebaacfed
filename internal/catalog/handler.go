package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "evently/internal/common/errors"
	"evently/internal/common/logger"
	"evently/internal/models"
)

// Handler terminates the vendor/service browsing endpoints.
type Handler struct {
	store  *CachedStore
	search *SearchIndex
	logger logger.Logger
}

func NewHandler(store *CachedStore, search *SearchIndex, log logger.Logger) *Handler {
	return &Handler{
		store:  store,
		search: search,
		logger: log.WithFields(map[string]interface{}{"component": "catalog-handler"}),
	}
}

func writeError(c *gin.Context, err error) {
	stdErr := apperrors.Normalize(err)
	c.JSON(stdErr.HTTPStatus(), gin.H{"error": stdErr.Message, "code": stdErr.Code})
}

// ListVendors handles GET /api/vendors?category=&city=
func (h *Handler) ListVendors(c *gin.Context) {
	vendors, err := h.store.ListVendors(c.Request.Context(), c.Query("category"), c.Query("city"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// GetVendor handles GET /api/vendors/:id
func (h *Handler) GetVendor(c *gin.Context) {
	vendor, err := h.store.GetVendor(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, vendor)
}

// ListVendorServices handles GET /api/vendors/:id/services
func (h *Handler) ListVendorServices(c *gin.Context) {
	services, err := h.store.ListServices(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": services})
}

// SearchVendors handles GET /api/vendors/search?q=
func (h *Handler) SearchVendors(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	vendors, err := h.search.SearchVendors(c.Request.Context(), q, 20)
	if err != nil {
		// Text search degrades to a plain listing when the index is
		// unavailable.
		h.logger.Warn("vendor search degraded to listing", map[string]interface{}{
			"error": err.Error(),
		})
		vendors, err = h.store.ListVendors(c.Request.Context(), "", "")
		if err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

// CreateVendor handles POST /api/admin/vendors
func (h *Handler) CreateVendor(c *gin.Context) {
	var v models.Vendor
	if err := c.ShouldBindJSON(&v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor payload"})
		return
	}
	if v.Name == "" || v.Category == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and category are required"})
		return
	}

	created, err := h.store.CreateVendor(c.Request.Context(), v)
	if err != nil {
		writeError(c, err)
		return
	}

	if err := h.search.IndexVendor(c.Request.Context(), *created); err != nil {
		h.logger.Warn("vendor indexing failed", map[string]interface{}{
			"vendorId": created.ID,
			"error":    err.Error(),
		})
	}
	c.JSON(http.StatusCreated, created)
}

// CreateService handles POST /api/admin/vendors/:id/services
func (h *Handler) CreateService(c *gin.Context) {
	var sv models.Service
	if err := c.ShouldBindJSON(&sv); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service payload"})
		return
	}
	sv.VendorID = c.Param("id")
	if sv.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	// Vendor must exist before attaching a service.
	if _, err := h.store.GetVendor(c.Request.Context(), sv.VendorID); err != nil {
		writeError(c, err)
		return
	}

	created, err := h.store.CreateService(c.Request.Context(), sv)
	if err != nil {
		writeError(c, err)
		return
	}
	h.store.Invalidate(c.Request.Context(), sv.VendorID)
	c.JSON(http.StatusCreated, created)
}
