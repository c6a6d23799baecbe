package compliance

import (
	"time"

	"huntguard/internal/common"

	"github.com/google/uuid"
)

// Evidence is the structured snapshot of the inputs that triggered a rule.
// Each violation type carries its own variant; the storage boundary flattens
// the variant into a generic JSONB map, persisted verbatim for audit.
type Evidence interface {
	ToJSONB() common.JSONB
}

// AmmoExcessEvidence - lifetime counters at the moment of the triggering shot
type AmmoExcessEvidence struct {
	ShotsFired    int64 `json:"shots_fired"`
	AmmoPurchased int64 `json:"ammo_purchased"`
}

func (e AmmoExcessEvidence) ToJSONB() common.JSONB {
	return common.JSONB{
		"shots_fired":    e.ShotsFired,
		"ammo_purchased": e.AmmoPurchased,
	}
}

// IllegalZoneEvidence - where and when the out-of-zone shot was fired
type IllegalZoneEvidence struct {
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Timestamp time.Time `json:"timestamp"`
}

func (e IllegalZoneEvidence) ToJSONB() common.JSONB {
	return common.JSONB{
		"shot_location": map[string]interface{}{
			"lat": e.Latitude,
			"lng": e.Longitude,
		},
		"timestamp": e.Timestamp.Format(time.RFC3339),
	}
}

// InvalidLicenseEvidence - expiry and suspension state of the failing license
type InvalidLicenseEvidence struct {
	LicenseExpiry time.Time `json:"license_expiry"`
	Suspended     bool      `json:"suspended"`
}

func (e InvalidLicenseEvidence) ToJSONB() common.JSONB {
	return common.JSONB{
		"license_expiry": e.LicenseExpiry.Format("2006-01-02"),
		"suspended":      e.Suspended,
	}
}

// NoLicenseEvidence - identifies the hunter with no license on record
type NoLicenseEvidence struct {
	HunterID uuid.UUID `json:"hunter_id"`
}

func (e NoLicenseEvidence) ToJSONB() common.JSONB {
	return common.JSONB{
		"hunter_id": e.HunterID.String(),
	}
}
