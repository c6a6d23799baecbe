package compliance

import (
	"strconv"
	"strings"
	"time"

	"huntguard/internal/common"

	"github.com/google/uuid"
)

// Violation types
const (
	ViolationAmmoExcess     = "AMMO_EXCESS"     // shot more ammunition than purchased
	ViolationIllegalZone    = "ILLEGAL_ZONE"    // shot outside every active hunting zone
	ViolationNoLicense      = "NO_LICENSE"      // no license on record
	ViolationInvalidLicense = "INVALID_LICENSE" // license expired or suspended
)

// Severity levels
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// HuntingZone model - legal hunting area with seasonal and daily time restrictions.
// Boundary is center + radius; containment uses great-circle distance.
type HuntingZone struct {
	common.BaseModel
	Name        string `json:"name" gorm:"not null;size:200"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	CenterLatitude  float64 `json:"center_latitude" gorm:"type:decimal(10,8);not null"`
	CenterLongitude float64 `json:"center_longitude" gorm:"type:decimal(11,8);not null"`
	RadiusKm        float64 `json:"radius_km" gorm:"type:decimal(5,2);not null"`

	SeasonStart    time.Time `json:"season_start" gorm:"type:date;not null"`
	SeasonEnd      time.Time `json:"season_end" gorm:"type:date;not null"`
	DailyStartTime string    `json:"daily_start_time" gorm:"size:5;not null"` // "HH:MM"
	DailyEndTime   string    `json:"daily_end_time" gorm:"size:5;not null"`   // "HH:MM"

	// Comma-separated time.Weekday numbers (0=Sunday)
	AllowedWeekdays string `json:"allowed_weekdays" gorm:"size:20;default:'0,1,2,3,4,5,6'"`

	IsActive bool `json:"is_active" gorm:"default:true"`
}

// AmmunitionPurchase model - system of record for lifetime purchased quantity.
// UsedQuantity may exceed Quantity; the excess itself is the overuse signal,
// so it is never clamped.
type AmmunitionPurchase struct {
	common.BaseModel
	HunterID      uuid.UUID `json:"hunter_id" gorm:"not null;index"`
	AmmoType      string    `json:"ammo_type" gorm:"not null;size:50"`
	Quantity      int       `json:"quantity" gorm:"not null"`
	UsedQuantity  int       `json:"used_quantity" gorm:"default:0"`
	PurchaseDate  time.Time `json:"purchase_date" gorm:"default:CURRENT_TIMESTAMP"`
	PurchasePrice float64   `json:"purchase_price" gorm:"type:decimal(10,2)"`
	Vendor        string    `json:"vendor" gorm:"size:200"`
	ReceiptNumber string    `json:"receipt_number,omitempty" gorm:"size:100"`
}

// HunterLicense model - at most one per hunter
type HunterLicense struct {
	common.BaseModel
	HunterID         uuid.UUID `json:"hunter_id" gorm:"uniqueIndex;not null"`
	LicenseNumber    string    `json:"license_number" gorm:"uniqueIndex;not null;size:50"`
	IssueDate        time.Time `json:"issue_date" gorm:"type:date;not null"`
	ExpiryDate       time.Time `json:"expiry_date" gorm:"type:date;not null"`
	LicenseType      string    `json:"license_type" gorm:"size:50"`
	IssuingAuthority string    `json:"issuing_authority" gorm:"size:200"`

	MaxDailyShots      int    `json:"max_daily_shots" gorm:"default:50"`
	AllowedWeaponTypes string `json:"allowed_weapon_types" gorm:"size:200;default:'rifle,shotgun,bow'"`

	IsSuspended      bool   `json:"is_suspended" gorm:"default:false"`
	SuspensionReason string `json:"suspension_reason,omitempty" gorm:"type:text"`
}

// Violation model - persisted compliance finding. Immutable except for the
// resolution fields, which transition exactly once from unresolved to resolved.
type Violation struct {
	common.BaseModel
	HunterID uuid.UUID `json:"hunter_id" gorm:"not null;index"`
	Type     string    `json:"violation_type" gorm:"column:violation_type;not null;size:20;index"`
	Severity string    `json:"severity" gorm:"not null;size:10"`

	// Optional references to the triggering entities
	ShotID *uuid.UUID `json:"shot_id,omitempty" gorm:"index"`
	GunID  *uuid.UUID `json:"gun_id,omitempty"`
	ZoneID *uuid.UUID `json:"zone_id,omitempty"`

	Description string       `json:"description" gorm:"type:text"`
	Evidence    common.JSONB `json:"evidence" gorm:"type:jsonb;default:'{}'::jsonb"`
	DetectedAt  time.Time    `json:"detected_at" gorm:"default:CURRENT_TIMESTAMP;index"`

	Resolved   bool       `json:"resolved" gorm:"default:false;index"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy string     `json:"resolved_by,omitempty" gorm:"size:100"`
	Notes      string     `json:"notes,omitempty" gorm:"type:text"`
}

// TableName methods for GORM schema qualification
func (HuntingZone) TableName() string {
	return "compliance.hunting_zones"
}

func (AmmunitionPurchase) TableName() string {
	return "compliance.ammunition_purchases"
}

func (HunterLicense) TableName() string {
	return "compliance.hunter_licenses"
}

func (Violation) TableName() string {
	return "compliance.violations"
}

// Helper methods

func (p *AmmunitionPurchase) Remaining() int {
	return p.Quantity - p.UsedQuantity
}

func (p *AmmunitionPurchase) IsDepleted() bool {
	return p.UsedQuantity >= p.Quantity
}

// Valid reports whether the license is usable on the given day.
// Valid = not suspended AND expiry date has not passed.
func (l *HunterLicense) Valid(now time.Time) bool {
	if l.IsSuspended {
		return false
	}
	today := now.Truncate(24 * time.Hour)
	return !l.ExpiryDate.Before(today)
}

func (l *HunterLicense) DaysUntilExpiry(now time.Time) int {
	return int(l.ExpiryDate.Sub(now.Truncate(24*time.Hour)).Hours() / 24)
}

// IsActiveAt reports whether the zone permits hunting at the given instant.
// The zone must be enabled, the date inside the season range, the weekday
// allowed and the local time inside the daily window.
func (z *HuntingZone) IsActiveAt(now time.Time) bool {
	if !z.IsActive {
		return false
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	sy, sm, sd := z.SeasonStart.Date()
	seasonStart := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	ey, em, ed := z.SeasonEnd.Date()
	seasonEnd := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	if today.Before(seasonStart) || today.After(seasonEnd) {
		return false
	}

	if !z.weekdayAllowed(now.Weekday()) {
		return false
	}

	return z.timeInDailyWindow(now)
}

func (z *HuntingZone) weekdayAllowed(day time.Weekday) bool {
	for _, part := range strings.Split(z.AllowedWeekdays, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if time.Weekday(n) == day {
			return true
		}
	}
	return false
}

func (z *HuntingZone) timeInDailyWindow(now time.Time) bool {
	start, err := parseClock(z.DailyStartTime)
	if err != nil {
		return false
	}
	end, err := parseClock(z.DailyEndTime)
	if err != nil {
		return false
	}

	minutes := now.Hour()*60 + now.Minute()
	return minutes >= start && minutes <= end
}

// parseClock parses "HH:MM" into minutes since midnight
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Contains tests great-circle containment of a coordinate in the zone boundary
func (z *HuntingZone) Contains(lat, lng float64) bool {
	distM := common.CalculateDistance(z.CenterLatitude, z.CenterLongitude, lat, lng)
	return distM <= z.RadiusKm*1000
}
