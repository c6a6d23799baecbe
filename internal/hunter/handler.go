package hunter

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for hunters, guns and shots
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Hunters

// CreateHunter registers a new hunter
// POST /api/v1/hunters
func (h *Handler) CreateHunter(c *gin.Context) {
	var hunter Hunter
	if err := c.ShouldBindJSON(&hunter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.CreateHunter(&hunter); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, hunter)
}

// ListHunters returns all hunters
// GET /api/v1/hunters
func (h *Handler) ListHunters(c *gin.Context) {
	hunters, err := h.service.ListHunters(false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, hunters)
}

// ListActiveHunters returns hunters currently available for hunting
// GET /api/v1/hunters/active
func (h *Handler) ListActiveHunters(c *gin.Context) {
	hunters, err := h.service.ListHunters(true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, hunters)
}

// GetHunter returns one hunter with their guns
// GET /api/v1/hunters/:id
func (h *Handler) GetHunter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hunter ID"})
		return
	}

	hunter, err := h.service.GetHunter(id)
	if err != nil {
		if errors.Is(err, ErrHunterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hunter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, hunter)
}

// UpdateHunter updates hunter fields
// PUT /api/v1/hunters/:id
func (h *Handler) UpdateHunter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hunter ID"})
		return
	}

	hunter, err := h.service.GetHunter(id)
	if err != nil {
		if errors.Is(err, ErrHunterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hunter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := c.ShouldBindJSON(hunter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	hunter.ID = id

	if err := h.service.UpdateHunter(hunter); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, hunter)
}

// DeleteHunter removes a hunter
// DELETE /api/v1/hunters/:id
func (h *Handler) DeleteHunter(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hunter ID"})
		return
	}

	if err := h.service.DeleteHunter(id); err != nil {
		if errors.Is(err, ErrHunterNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hunter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetHunterGuns returns every gun registered to a hunter
// GET /api/v1/hunters/:id/guns
func (h *Handler) GetHunterGuns(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hunter ID"})
		return
	}

	guns, err := h.service.GetHunterGuns(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, guns)
}

// GetStatistics returns hunter and shot analytics
// GET /api/v1/hunters/statistics
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Guns

// RegisterGun registers a new IoT gun
// POST /api/v1/guns
func (h *Handler) RegisterGun(c *gin.Context) {
	var gun Gun
	if err := c.ShouldBindJSON(&gun); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.RegisterGun(&gun); err != nil {
		switch {
		case errors.Is(err, ErrInvalidWeapon):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid weapon type"})
		case errors.Is(err, ErrHunterNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Gun owner not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gun)
}

// ListGuns returns all registered guns
// GET /api/v1/guns
func (h *Handler) ListGuns(c *gin.Context) {
	guns, err := h.service.ListGuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, guns)
}

// GetGun returns one gun
// GET /api/v1/guns/:id
func (h *Handler) GetGun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gun ID"})
		return
	}

	gun, err := h.service.GetGun(id)
	if err != nil {
		if errors.Is(err, ErrGunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gun not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gun)
}

// UpdateGun updates a gun's registry fields
// PUT /api/v1/guns/:id
func (h *Handler) UpdateGun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gun ID"})
		return
	}

	gun, err := h.service.GetGun(id)
	if err != nil {
		if errors.Is(err, ErrGunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gun not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := c.ShouldBindJSON(gun); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	gun.ID = id

	if err := h.service.UpdateGun(gun); err != nil {
		if errors.Is(err, ErrInvalidWeapon) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gun)
}

// DeleteGun removes a gun
// DELETE /api/v1/guns/:id
func (h *Handler) DeleteGun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gun ID"})
		return
	}

	if err := h.service.DeleteGun(id); err != nil {
		if errors.Is(err, ErrGunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gun not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// RecordShot records a shot fired by this gun with IoT sensor data
// POST /api/v1/guns/:id/shots
func (h *Handler) RecordShot(c *gin.Context) {
	gunID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gun ID"})
		return
	}

	var req struct {
		SoundLevel     float64 `json:"sound_level" binding:"required"`
		VibrationLevel float64 `json:"vibration_level" binding:"required"`
		Latitude       float64 `json:"latitude" binding:"required"`
		Longitude      float64 `json:"longitude" binding:"required"`
		Notes          string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	shot := Shot{
		GunID:          gunID,
		SoundLevel:     req.SoundLevel,
		VibrationLevel: req.VibrationLevel,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Notes:          req.Notes,
	}

	if err := h.service.RecordShot(c.Request.Context(), &shot); err != nil {
		switch {
		case errors.Is(err, ErrGunNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Gun not found"})
		case errors.Is(err, ErrGunNotOperational):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Gun is not operational"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, shot)
}

// UpdateDeviceStatus updates IoT telemetry (battery, firmware, status)
// PATCH /api/v1/guns/:id/device-status
func (h *Handler) UpdateDeviceStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid gun ID"})
		return
	}

	var req struct {
		BatteryLevel    *int    `json:"battery_level"`
		FirmwareVersion *string `json:"firmware_version"`
		Status          *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	gun, err := h.service.UpdateDeviceStatus(id, req.BatteryLevel, req.FirmwareVersion, req.Status)
	if err != nil {
		if errors.Is(err, ErrGunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Gun not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gun)
}

// ListLowBatteryGuns returns active guns at or below 20% battery
// GET /api/v1/guns/low-battery
func (h *Handler) ListLowBatteryGuns(c *gin.Context) {
	guns, err := h.service.ListLowBatteryGuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, guns)
}

// Shots

// ListShots returns shots ordered by recency
// GET /api/v1/shots?limit=100
func (h *Handler) ListShots(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	shots, err := h.service.ListShots(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, shots)
}

// ListRecentShots returns shots from the last 24 hours
// GET /api/v1/shots/recent
func (h *Handler) ListRecentShots(c *gin.Context) {
	shots, err := h.service.RecentShots()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, shots)
}
