package sensors

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrInvalidSensor   = errors.New("invalid sensor type")
	ErrInvalidStatus   = errors.New("invalid device status")
	ErrDuplicateDevice = errors.New("device already registered")
)

// staleAfter is how long a device may stay silent before the offline
// sweep marks it offline.
const staleAfter = 10 * time.Minute

// ReadingStats aggregates readings per sensor type.
type ReadingStats struct {
	SensorType string  `json:"sensor_type"`
	Count      int64   `json:"count"`
	MinValue   float64 `json:"min_value"`
	MaxValue   float64 `json:"max_value"`
	AvgValue   float64 `json:"avg_value"`
	Anomalies  int64   `json:"anomalies"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RegisterDevice registers a new field device.
func (s *Service) RegisterDevice(device *SensorDevice) error {
	if !ValidSensorType(device.SensorType) {
		return fmt.Errorf("%w: %s", ErrInvalidSensor, device.SensorType)
	}

	var count int64
	if err := s.db.Model(&SensorDevice{}).
		Where("device_id = ?", device.DeviceID).
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check device: %w", err)
	}
	if count > 0 {
		return ErrDuplicateDevice
	}

	if device.Status == "" {
		device.Status = DeviceOffline
	}
	if err := s.db.Create(device).Error; err != nil {
		return fmt.Errorf("failed to register device: %w", err)
	}

	log.Printf("📡 [SENSORS] Device registered: %s (%s)", device.DeviceID, device.SensorType)
	return nil
}

// ListDevices returns all registered devices.
func (s *Service) ListDevices() ([]SensorDevice, error) {
	var devices []SensorDevice
	if err := s.db.Order("device_id ASC").Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	return devices, nil
}

// ListOnlineDevices returns devices marked online that checked in recently.
func (s *Service) ListOnlineDevices() ([]SensorDevice, error) {
	cutoff := time.Now().Add(-staleAfter)

	var devices []SensorDevice
	if err := s.db.Where("status = ? AND last_seen >= ?", DeviceOnline, cutoff).
		Order("device_id ASC").
		Find(&devices).Error; err != nil {
		return nil, fmt.Errorf("failed to list online devices: %w", err)
	}
	return devices, nil
}

// UpdateDeviceStatus sets a device's status and bumps last_seen.
func (s *Service) UpdateDeviceStatus(deviceID, status string) (*SensorDevice, error) {
	if !ValidDeviceStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	var device SensorDevice
	if err := s.db.First(&device, "device_id = ?", deviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	now := time.Now()
	device.Status = status
	device.LastSeen = &now
	if err := s.db.Model(&device).Updates(map[string]interface{}{
		"status":    status,
		"last_seen": now,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update device: %w", err)
	}

	return &device, nil
}

// MarkStaleDevicesOffline flips online devices that went silent. Returns
// how many devices were flipped.
func (s *Service) MarkStaleDevicesOffline() (int64, error) {
	cutoff := time.Now().Add(-staleAfter)

	result := s.db.Model(&SensorDevice{}).
		Where("status = ? AND (last_seen IS NULL OR last_seen < ?)", DeviceOnline, cutoff).
		Update("status", DeviceOffline)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to sweep stale devices: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// RecordReading stores a telemetry sample and keeps the device row fresh.
func (s *Service) RecordReading(reading *SensorReading) error {
	if !ValidSensorType(reading.SensorType) {
		return fmt.Errorf("%w: %s", ErrInvalidSensor, reading.SensorType)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(reading).Error; err != nil {
			return fmt.Errorf("failed to store reading: %w", err)
		}

		now := time.Now()
		return tx.Model(&SensorDevice{}).
			Where("device_id = ?", reading.DeviceID).
			Updates(map[string]interface{}{
				"status":    DeviceOnline,
				"last_seen": now,
			}).Error
	})
}

// LatestReadings returns the most recent samples, optionally per device.
func (s *Service) LatestReadings(deviceID string, limit int) ([]SensorReading, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := s.db.Order("recorded_at DESC").Limit(limit)
	if deviceID != "" {
		query = query.Where("device_id = ?", deviceID)
	}

	var readings []SensorReading
	if err := query.Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to list readings: %w", err)
	}
	return readings, nil
}

// ListAnomalies returns flagged readings from the last 24 hours.
func (s *Service) ListAnomalies() ([]SensorReading, error) {
	cutoff := time.Now().Add(-24 * time.Hour)

	var readings []SensorReading
	if err := s.db.Where("is_anomaly = ? AND recorded_at >= ?", true, cutoff).
		Order("recorded_at DESC").
		Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to list anomalies: %w", err)
	}
	return readings, nil
}

// GetStatistics aggregates last-24h readings per sensor type.
func (s *Service) GetStatistics() ([]ReadingStats, error) {
	cutoff := time.Now().Add(-24 * time.Hour)

	var stats []ReadingStats
	if err := s.db.Model(&SensorReading{}).
		Select(`sensor_type,
			COUNT(*) as count,
			MIN(value) as min_value,
			MAX(value) as max_value,
			AVG(value) as avg_value,
			COUNT(*) FILTER (WHERE is_anomaly) as anomalies`).
		Where("recorded_at >= ?", cutoff).
		Group("sensor_type").
		Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate readings: %w", err)
	}
	return stats, nil
}
