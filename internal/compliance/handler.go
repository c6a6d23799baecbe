package compliance

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for zones, purchases, licenses and violations
type Handler struct {
	service  *Service
	exporter *Exporter
}

func NewHandler(service *Service, exporter *Exporter) *Handler {
	return &Handler{service: service, exporter: exporter}
}

// Hunting zones

// CreateZone creates a hunting zone
// POST /api/v1/compliance/zones
func (h *Handler) CreateZone(c *gin.Context) {
	var zone HuntingZone
	if err := c.ShouldBindJSON(&zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.CreateZone(&zone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, zone)
}

// ListZones returns all hunting zones
// GET /api/v1/compliance/zones
func (h *Handler) ListZones(c *gin.Context) {
	zones, err := h.service.ListZones()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, zones)
}

// ListActiveZones returns zones currently open for hunting
// GET /api/v1/compliance/zones/active
func (h *Handler) ListActiveZones(c *gin.Context) {
	zones, err := h.service.ActiveZones(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, zones)
}

// GetZone returns one hunting zone
// GET /api/v1/compliance/zones/:id
func (h *Handler) GetZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone ID"})
		return
	}

	zone, err := h.service.GetZone(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, zone)
}

// UpdateZone updates a hunting zone
// PUT /api/v1/compliance/zones/:id
func (h *Handler) UpdateZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone ID"})
		return
	}

	zone, err := h.service.GetZone(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := c.ShouldBindJSON(zone); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	zone.ID = id

	if err := h.service.UpdateZone(zone); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, zone)
}

// DeleteZone removes a hunting zone
// DELETE /api/v1/compliance/zones/:id
func (h *Handler) DeleteZone(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid zone ID"})
		return
	}

	if err := h.service.DeleteZone(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Zone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Ammunition purchases

// CreatePurchase records an ammunition purchase
// POST /api/v1/compliance/purchases
func (h *Handler) CreatePurchase(c *gin.Context) {
	var purchase AmmunitionPurchase
	if err := c.ShouldBindJSON(&purchase); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.CreatePurchase(&purchase); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

// ListPurchases returns purchases, optionally filtered by hunter
// GET /api/v1/compliance/purchases?hunter=<uuid>
func (h *Handler) ListPurchases(c *gin.Context) {
	hunterID, ok := h.optionalHunterFilter(c)
	if !ok {
		return
	}

	purchases, err := h.service.ListPurchases(hunterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, purchases)
}

// RecordUsage adds used rounds to a purchase
// POST /api/v1/compliance/purchases/:id/usage
func (h *Handler) RecordUsage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid purchase ID"})
		return
	}

	var req struct {
		Rounds int `json:"rounds" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	purchase, err := h.service.RecordUsage(id, req.Rounds)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Purchase not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, purchase)
}

// GetUsageStats returns ammunition usage statistics
// GET /api/v1/compliance/purchases/usage-statistics
func (h *Handler) GetUsageStats(c *gin.Context) {
	stats, err := h.service.GetUsageStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListOverusedPurchases returns purchases with used quantity above purchased
// GET /api/v1/compliance/purchases/violations
func (h *Handler) ListOverusedPurchases(c *gin.Context) {
	purchases, err := h.service.ListOverusedPurchases(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, purchases)
}

// Violations

// ListViolations returns violations with optional filters
// GET /api/v1/compliance/violations?hunter=<uuid>&unresolved=true
func (h *Handler) ListViolations(c *gin.Context) {
	hunterID, ok := h.optionalHunterFilter(c)
	if !ok {
		return
	}

	filter := ViolationFilter{
		HunterID:       hunterID,
		UnresolvedOnly: c.Query("unresolved") == "true",
	}

	violations, err := h.service.ListViolations(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, violations)
}

// ListRecentViolations returns violations from the last 30 days
// GET /api/v1/compliance/violations/recent
func (h *Handler) ListRecentViolations(c *gin.Context) {
	violations, err := h.service.RecentViolations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, violations)
}

// GetViolationStats returns counts by type and severity
// GET /api/v1/compliance/violations/statistics
func (h *Handler) GetViolationStats(c *gin.Context) {
	stats, err := h.service.GetViolationStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ResolveViolation marks a violation resolved. The resolver identity comes
// from the authenticated user set by the JWT middleware.
// POST /api/v1/compliance/violations/:id/resolve
func (h *Handler) ResolveViolation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid violation ID"})
		return
	}

	resolver := c.GetString("username")
	if resolver == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Resolver identity required"})
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	violation, err := h.service.ResolveViolation(c.Request.Context(), id, resolver, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Violation not found"})
		case errors.Is(err, ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{"error": "Violation already resolved"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, violation)
}

// ExportViolations uploads an audit report to the archive bucket
// POST /api/v1/compliance/violations/export
func (h *Handler) ExportViolations(c *gin.Context) {
	if h.exporter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Report archive not configured"})
		return
	}

	var req struct {
		WindowDays int `json:"window_days"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	key, err := h.exporter.ExportViolationReport(c.Request.Context(), req.WindowDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "report_key": key})
}

// Licenses

// CreateLicense registers a hunter license
// POST /api/v1/compliance/licenses
func (h *Handler) CreateLicense(c *gin.Context) {
	var license HunterLicense
	if err := c.ShouldBindJSON(&license); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.CreateLicense(&license); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, license)
}

// ListLicenses returns licenses, optionally filtered by hunter
// GET /api/v1/compliance/licenses?hunter=<uuid>
func (h *Handler) ListLicenses(c *gin.Context) {
	hunterID, ok := h.optionalHunterFilter(c)
	if !ok {
		return
	}

	licenses, err := h.service.ListLicenses(hunterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, licenses)
}

// ListExpiringLicenses returns licenses expiring in the next 30 days
// GET /api/v1/compliance/licenses/expiring-soon
func (h *Handler) ListExpiringLicenses(c *gin.Context) {
	licenses, err := h.service.ExpiringLicenses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, licenses)
}

// UpdateLicense updates a license
// PUT /api/v1/compliance/licenses/:id
func (h *Handler) UpdateLicense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid license ID"})
		return
	}

	var license HunterLicense
	if err := c.ShouldBindJSON(&license); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	license.ID = id

	if err := h.service.UpdateLicense(&license); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, license)
}

// GetLicenseStats returns license counts
// GET /api/v1/compliance/licenses/statistics
func (h *Handler) GetLicenseStats(c *gin.Context) {
	stats, err := h.service.GetLicenseStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SuspendLicense suspends a license with a reason
// POST /api/v1/compliance/licenses/:id/suspend
func (h *Handler) SuspendLicense(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid license ID"})
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	license, err := h.service.SuspendLicense(id, req.Reason)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "License not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, license)
}

// Helpers

// optionalHunterFilter parses the ?hunter query param. Returns ok=false after
// responding when the param is present but malformed.
func (h *Handler) optionalHunterFilter(c *gin.Context) (*uuid.UUID, bool) {
	raw := c.Query("hunter")
	if raw == "" {
		return nil, true
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hunter ID"})
		return nil, false
	}
	return &id, true
}
