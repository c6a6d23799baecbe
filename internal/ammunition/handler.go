package ammunition

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateStock opens a new warehouse stock line
// POST /api/v1/ammunition
func (h *Handler) CreateStock(c *gin.Context) {
	var stock Ammunition
	if err := c.ShouldBindJSON(&stock); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.CreateStock(&stock); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, stock)
}

// ListStock returns stock lines, optionally filtered by hunter
// GET /api/v1/ammunition?hunter=<uuid>
func (h *Handler) ListStock(c *gin.Context) {
	var hunterID *uuid.UUID
	if raw := c.Query("hunter"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hunter ID"})
			return
		}
		hunterID = &id
	}

	lines, err := h.service.ListStock(hunterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, lines)
}

// GetStock returns one stock line
// GET /api/v1/ammunition/:id
func (h *Handler) GetStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock ID"})
		return
	}

	stock, err := h.service.GetStock(id)
	if err != nil {
		if errors.Is(err, ErrStockNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock line not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stock)
}

// ListLowStock returns lines at or below reorder level
// GET /api/v1/ammunition/low-stock
func (h *Handler) ListLowStock(c *gin.Context) {
	lines, err := h.service.ListLowStock()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, lines)
}

// GetInventorySummary returns warehouse totals
// GET /api/v1/ammunition/inventory
func (h *Handler) GetInventorySummary(c *gin.Context) {
	summary, err := h.service.GetInventorySummary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RecordTransaction appends a ledger entry against a stock line
// POST /api/v1/ammunition/:id/transactions
func (h *Handler) RecordTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock ID"})
		return
	}

	var entry AmmunitionTransaction
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	stock, err := h.service.RecordTransaction(id, &entry)
	if err != nil {
		switch {
		case errors.Is(err, ErrStockNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Stock line not found"})
		case errors.Is(err, ErrInvalidTransaction), errors.Is(err, ErrInsufficientStock):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": entry, "stock": stock})
}

// ListTransactions returns the ledger for one stock line
// GET /api/v1/ammunition/:id/transactions?limit=100
func (h *Handler) ListTransactions(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	entries, err := h.service.ListTransactions(id, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, entries)
}
