package compliance

import (
	"context"
	"errors"
	"time"

	"huntguard/internal/hunter"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrAlreadyResolved = errors.New("violation already resolved")
)

// ViolationFilter narrows violation listings
type ViolationFilter struct {
	HunterID       *uuid.UUID
	UnresolvedOnly bool
	Since          *time.Time
	Limit          int
}

// ViolationStats - aggregate counts over the violations table
type ViolationStats struct {
	ByType     map[string]int64 `json:"by_type"`
	BySeverity map[string]int64 `json:"by_severity"`
	Total      int64            `json:"total_violations"`
	Unresolved int64            `json:"unresolved_violations"`
}

// LicenseStats - aggregate counts over the licenses table
type LicenseStats struct {
	Total        int64 `json:"total_licenses"`
	Valid        int64 `json:"valid_licenses"`
	Expired      int64 `json:"expired_licenses"`
	Suspended    int64 `json:"suspended_licenses"`
	ExpiringSoon int64 `json:"expiring_soon"`
}

// UsageStats - aggregate ammunition purchase usage
type UsageStats struct {
	TotalPurchased    int64 `json:"total_purchased"`
	TotalUsed         int64 `json:"total_used"`
	TotalRemaining    int64 `json:"total_remaining"`
	DepletedPurchases int64 `json:"depleted_purchases"`
}

// Store is the entity access surface the detection engine and the compliance
// query service run against. Backed by Postgres in production and by an
// in-memory implementation in tests.
type Store interface {
	// Detection reads
	GetShot(ctx context.Context, id uuid.UUID) (*hunter.Shot, error)
	GetGun(ctx context.Context, id uuid.UUID) (*hunter.Gun, error)
	GetHunter(ctx context.Context, id uuid.UUID) (*hunter.Hunter, error)
	CountShotsByHunter(ctx context.Context, hunterID uuid.UUID) (int64, error)
	SumPurchasedByHunter(ctx context.Context, hunterID uuid.UUID) (int64, error)
	ListEnabledZones(ctx context.Context) ([]HuntingZone, error)
	// GetLicenseByHunter returns (nil, nil) when the hunter has no license row
	GetLicenseByHunter(ctx context.Context, hunterID uuid.UUID) (*HunterLicense, error)

	// Violation lifecycle
	CreateViolation(ctx context.Context, v *Violation) error
	GetViolation(ctx context.Context, id uuid.UUID) (*Violation, error)
	SaveResolution(ctx context.Context, v *Violation) error

	// Query surface
	ListViolations(ctx context.Context, filter ViolationFilter) ([]Violation, error)
	GetViolationStats(ctx context.Context) (*ViolationStats, error)
	ListExpiringLicenses(ctx context.Context, from, until time.Time) ([]HunterLicense, error)
	GetLicenseStats(ctx context.Context, now time.Time) (*LicenseStats, error)
	GetUsageStats(ctx context.Context) (*UsageStats, error)
	ListOverusedPurchases(ctx context.Context) ([]AmmunitionPurchase, error)
}
