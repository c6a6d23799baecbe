package activity

import (
	"github.com/google/uuid"

	"huntguard/internal/common"
)

// Activity types
const (
	TypeShotRecorded      = "shot_recorded"
	TypeViolationDetected = "violation_detected"
	TypeViolationResolved = "violation_resolved"
	TypeHunterRegistered  = "hunter_registered"
	TypeGunRegistered     = "gun_registered"
	TypeLicenseExpiring   = "license_expiring"
	TypeDeviceOffline     = "device_offline"
	TypeLowBattery        = "low_battery"
)

// Priorities
const (
	PriorityLow      = "low"
	PriorityNormal   = "normal"
	PriorityHigh     = "high"
	PriorityCritical = "critical"
)

// Activity is one entry in the system event feed.
type Activity struct {
	common.BaseModel
	Type     string       `json:"activity_type" gorm:"column:activity_type;not null;index"`
	Priority string       `json:"priority" gorm:"default:'normal'"`
	Title    string       `json:"title" gorm:"not null"`
	Message  string       `json:"message"`
	HunterID *uuid.UUID   `json:"hunter_id,omitempty" gorm:"type:uuid;index"`
	Metadata common.JSONB `json:"metadata,omitempty" gorm:"type:jsonb"`
	IsRead   bool         `json:"is_read" gorm:"default:false;index"`
}

func (Activity) TableName() string {
	return "activity.feed"
}
