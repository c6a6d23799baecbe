package hunter

import (
	"fmt"
	"time"

	"huntguard/internal/common"

	"github.com/google/uuid"
)

// Weapon types
const (
	WeaponRifle   = "rifle"
	WeaponShotgun = "shotgun"
	WeaponHandgun = "handgun"
	WeaponBow     = "bow"
)

// Gun device status
const (
	GunStatusActive      = "active"
	GunStatusMaintenance = "maintenance"
	GunStatusInactive    = "inactive"
	GunStatusLost        = "lost"
)

// Hunter model - registered hunter subject to compliance rules
type Hunter struct {
	common.BaseModel
	Name            string    `json:"name" gorm:"not null;size:100"`
	LicenseNumber   string    `json:"license_number" gorm:"uniqueIndex;not null;size:50"`
	CurrentLocation string    `json:"current_location" gorm:"size:100;default:'Unknown'"`
	Latitude        *float64  `json:"latitude,omitempty" gorm:"type:decimal(10,8)"`
	Longitude       *float64  `json:"longitude,omitempty" gorm:"type:decimal(11,8)"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	LastActive      time.Time `json:"last_active" gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Guns []Gun `json:"guns,omitempty" gorm:"foreignKey:OwnerID"`
}

// Gun model - IoT-instrumented firearm, one owner, source of shot events
type Gun struct {
	common.BaseModel
	DeviceID     string    `json:"device_id" gorm:"uniqueIndex;not null;size:50"`
	SerialNumber string    `json:"serial_number" gorm:"uniqueIndex;not null;size:100"`
	Make         string    `json:"make" gorm:"size:50"`
	Model        string    `json:"model" gorm:"size:50"`
	Caliber      string    `json:"caliber" gorm:"size:20"`
	WeaponType   string    `json:"weapon_type" gorm:"not null;size:20"`
	OwnerID      uuid.UUID `json:"owner_id" gorm:"not null;index"`
	Status       string    `json:"status" gorm:"not null;size:20;default:'active'"`

	// IoT device telemetry
	BatteryLevel    int        `json:"battery_level" gorm:"default:100"`
	FirmwareVersion string     `json:"firmware_version" gorm:"size:20"`
	LastUsed        *time.Time `json:"last_used,omitempty"`
	LastSync        *time.Time `json:"last_sync,omitempty"`

	Notes string `json:"notes,omitempty" gorm:"type:text"`

	// Relationships
	Owner *Hunter `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Shots []Shot  `json:"shots,omitempty" gorm:"foreignKey:GunID"`
}

// Shot model - immutable sensor-corroborated firing event
type Shot struct {
	common.BaseModel
	GunID     uuid.UUID `json:"gun_id" gorm:"not null;index"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime;index"`

	// Sensor readings captured at trigger time
	SoundLevel     float64 `json:"sound_level"`     // dB
	VibrationLevel float64 `json:"vibration_level"` // Hz

	Latitude  float64 `json:"latitude" gorm:"type:decimal(10,8);not null"`
	Longitude float64 `json:"longitude" gorm:"type:decimal(11,8);not null"`

	Notes string `json:"notes,omitempty" gorm:"type:text"`

	// Relationships
	Gun *Gun `json:"gun,omitempty" gorm:"foreignKey:GunID"`
}

// TableName methods for GORM schema qualification
func (Hunter) TableName() string {
	return "hunters.hunters"
}

func (Gun) TableName() string {
	return "hunters.guns"
}

func (Shot) TableName() string {
	return "hunters.shots"
}

// Helper methods

func (g *Gun) IsLowBattery() bool {
	return g.BatteryLevel <= 20
}

func (g *Gun) IsOperational() bool {
	return g.Status == GunStatusActive
}

// LocationName derives a coarse grid label from the shot coordinates
func (s *Shot) LocationName() string {
	return fmt.Sprintf("Grid %.2f,%.2f", s.Latitude, s.Longitude)
}

func ValidWeaponType(t string) bool {
	switch t {
	case WeaponRifle, WeaponShotgun, WeaponHandgun, WeaponBow:
		return true
	}
	return false
}
