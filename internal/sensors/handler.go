package sensors

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterDevice registers a field device
// POST /api/v1/sensors/devices
func (h *Handler) RegisterDevice(c *gin.Context) {
	var device SensorDevice
	if err := c.ShouldBindJSON(&device); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.RegisterDevice(&device); err != nil {
		switch {
		case errors.Is(err, ErrInvalidSensor):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrDuplicateDevice):
			c.JSON(http.StatusConflict, gin.H{"error": "Device already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, device)
}

// ListDevices returns all devices
// GET /api/v1/sensors/devices
func (h *Handler) ListDevices(c *gin.Context) {
	devices, err := h.service.ListDevices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, devices)
}

// ListOnlineDevices returns recently-seen online devices
// GET /api/v1/sensors/devices/online
func (h *Handler) ListOnlineDevices(c *gin.Context) {
	devices, err := h.service.ListOnlineDevices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, devices)
}

// UpdateDeviceStatus sets a device's status
// PUT /api/v1/sensors/devices/:device_id/status
func (h *Handler) UpdateDeviceStatus(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	device, err := h.service.UpdateDeviceStatus(deviceID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrDeviceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		case errors.Is(err, ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, device)
}

// RecordReading stores a telemetry sample
// POST /api/v1/sensors/readings
func (h *Handler) RecordReading(c *gin.Context) {
	var reading SensorReading
	if err := c.ShouldBindJSON(&reading); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.service.RecordReading(&reading); err != nil {
		if errors.Is(err, ErrInvalidSensor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, reading)
}

// LatestReadings returns recent samples
// GET /api/v1/sensors/readings/latest?device=<id>&limit=50
func (h *Handler) LatestReadings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	readings, err := h.service.LatestReadings(c.Query("device"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, readings)
}

// ListAnomalies returns flagged readings from the last 24 hours
// GET /api/v1/sensors/readings/anomalies
func (h *Handler) ListAnomalies(c *gin.Context) {
	readings, err := h.service.ListAnomalies()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, readings)
}

// GetStatistics returns per-type aggregates for the last 24 hours
// GET /api/v1/sensors/readings/statistics
func (h *Handler) GetStatistics(c *gin.Context) {
	stats, err := h.service.GetStatistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
