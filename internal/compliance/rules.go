package compliance

import (
	"errors"
	"fmt"
	"time"

	"huntguard/internal/hunter"

	"github.com/google/uuid"
)

var errBadZoneGeometry = errors.New("zone has non-positive radius")

// ShotContext is the read-only snapshot a rule evaluates against. The
// orchestrator assembles it once per shot; evaluators never touch the store.
type ShotContext struct {
	Shot   hunter.Shot
	Gun    hunter.Gun
	Hunter hunter.Hunter

	LifetimeShots     int64
	LifetimePurchased int64
	EnabledZones      []HuntingZone
	License           *HunterLicense // nil when no license row exists

	Now time.Time
}

// Finding is a violation descriptor produced by a rule evaluator,
// not yet persisted.
type Finding struct {
	Type        string
	Severity    string
	Description string
	Evidence    Evidence
	ZoneID      *uuid.UUID
}

// RuleFunc - one compliance rule. Returns nil when the shot is compliant.
// Evaluators are independent; a single shot may trigger several findings.
type RuleFunc func(sc *ShotContext) (*Finding, error)

// Rules returns the rule evaluators in their fixed evaluation order.
// Order affects only notification ordering; the rules do not interact.
func Rules() []RuleFunc {
	return []RuleFunc{
		evaluateAmmunitionOveruse,
		evaluateHuntingZone,
		evaluateLicense,
	}
}

// evaluateAmmunitionOveruse flags hunters whose lifetime shot count exceeds
// their lifetime purchased quantity. Equal counts are compliant.
func evaluateAmmunitionOveruse(sc *ShotContext) (*Finding, error) {
	if sc.LifetimeShots <= sc.LifetimePurchased {
		return nil, nil
	}

	return &Finding{
		Type:     ViolationAmmoExcess,
		Severity: SeverityHigh,
		Description: fmt.Sprintf("Hunter has fired %d shots but only purchased %d rounds",
			sc.LifetimeShots, sc.LifetimePurchased),
		Evidence: AmmoExcessEvidence{
			ShotsFired:    sc.LifetimeShots,
			AmmoPurchased: sc.LifetimePurchased,
		},
	}, nil
}

// evaluateHuntingZone flags shots fired outside every currently-active zone.
// A zone is active when its season, weekday and daily time window all admit
// the shot instant. An empty active-zone set means no constraint is
// configured and the shot passes.
func evaluateHuntingZone(sc *ShotContext) (*Finding, error) {
	var activeZones []HuntingZone
	for _, z := range sc.EnabledZones {
		if z.RadiusKm <= 0 {
			return nil, fmt.Errorf("zone %s: %w", z.Name, errBadZoneGeometry)
		}
		if z.IsActiveAt(sc.Now) {
			activeZones = append(activeZones, z)
		}
	}

	// No zones configured or none currently open: nothing to enforce against
	if len(activeZones) == 0 {
		return nil, nil
	}

	for _, z := range activeZones {
		if z.Contains(sc.Shot.Latitude, sc.Shot.Longitude) {
			return nil, nil
		}
	}

	return &Finding{
		Type:        ViolationIllegalZone,
		Severity:    SeverityHigh,
		Description: "Shot fired outside of permitted hunting zones",
		Evidence: IllegalZoneEvidence{
			Latitude:  sc.Shot.Latitude,
			Longitude: sc.Shot.Longitude,
			Timestamp: sc.Shot.Timestamp,
		},
	}, nil
}

// evaluateLicense flags hunters with no license on record or with a license
// that is suspended or past expiry.
func evaluateLicense(sc *ShotContext) (*Finding, error) {
	if sc.License == nil {
		return &Finding{
			Type:        ViolationNoLicense,
			Severity:    SeverityCritical,
			Description: "Hunter has no license on record",
			Evidence:    NoLicenseEvidence{HunterID: sc.Hunter.ID},
		}, nil
	}

	if sc.License.Valid(sc.Now) {
		return nil, nil
	}

	return &Finding{
		Type:        ViolationInvalidLicense,
		Severity:    SeverityCritical,
		Description: "Hunter license is invalid or expired",
		Evidence: InvalidLicenseEvidence{
			LicenseExpiry: sc.License.ExpiryDate,
			Suspended:     sc.License.IsSuspended,
		},
	}, nil
}
