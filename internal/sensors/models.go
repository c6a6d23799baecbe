package sensors

import (
	"time"

	"huntguard/internal/common"
)

// Sensor types
const (
	SensorSound       = "sound"
	SensorVibration   = "vibration"
	SensorGPS         = "gps"
	SensorTemperature = "temperature"
	SensorHumidity    = "humidity"
)

// Device statuses
const (
	DeviceOnline      = "online"
	DeviceOffline     = "offline"
	DeviceMaintenance = "maintenance"
	DeviceError       = "error"
)

// SensorReading is one telemetry sample from a field device.
type SensorReading struct {
	common.BaseModel
	DeviceID       string    `json:"device_id" gorm:"not null;index"`
	SensorType     string    `json:"sensor_type" gorm:"not null;index"`
	Value          float64   `json:"value" gorm:"not null"`
	Unit           string    `json:"unit"`
	Latitude       *float64  `json:"latitude,omitempty" gorm:"type:decimal(10,8)"`
	Longitude      *float64  `json:"longitude,omitempty" gorm:"type:decimal(11,8)"`
	LocationName   string    `json:"location_name"`
	BatteryLevel   *int      `json:"battery_level,omitempty"`
	SignalStrength *int      `json:"signal_strength,omitempty"`
	IsAnomaly      bool      `json:"is_anomaly" gorm:"default:false;index"`
	RecordedAt     time.Time `json:"recorded_at" gorm:"not null;index;autoCreateTime"`
}

// SensorDevice is a registered field device.
type SensorDevice struct {
	common.BaseModel
	DeviceID        string     `json:"device_id" gorm:"uniqueIndex;not null"`
	Name            string     `json:"name" gorm:"not null"`
	SensorType      string     `json:"sensor_type" gorm:"not null"`
	Status          string     `json:"status" gorm:"default:'offline'"`
	Latitude        *float64   `json:"latitude,omitempty" gorm:"type:decimal(10,8)"`
	Longitude       *float64   `json:"longitude,omitempty" gorm:"type:decimal(11,8)"`
	LocationName    string     `json:"location_name"`
	FirmwareVersion string     `json:"firmware_version"`
	LastSeen        *time.Time `json:"last_seen,omitempty"`
}

func (SensorReading) TableName() string {
	return "sensors.readings"
}

func (SensorDevice) TableName() string {
	return "sensors.devices"
}

// IsOnline reports whether the device checked in recently enough to count
// as online regardless of its stored status.
func (d *SensorDevice) IsOnline(staleAfter time.Duration) bool {
	if d.Status != DeviceOnline {
		return false
	}
	if d.LastSeen == nil {
		return false
	}
	return time.Since(*d.LastSeen) <= staleAfter
}

// ValidSensorType checks a sensor type string.
func ValidSensorType(t string) bool {
	switch t {
	case SensorSound, SensorVibration, SensorGPS, SensorTemperature, SensorHumidity:
		return true
	}
	return false
}

// ValidDeviceStatus checks a device status string.
func ValidDeviceStatus(s string) bool {
	switch s {
	case DeviceOnline, DeviceOffline, DeviceMaintenance, DeviceError:
		return true
	}
	return false
}
