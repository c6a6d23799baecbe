package compliance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes violation resolution, the read-side query surface and
// plain CRUD for zones, purchases and licenses.
type Service struct {
	db    *gorm.DB
	store Store
	now   func() time.Time
}

func NewService(db *gorm.DB, store Store) *Service {
	return &Service{db: db, store: store, now: time.Now}
}

// NewServiceWithStore builds a service without a SQL handle. Used by tests;
// only the store-backed operations are available.
func NewServiceWithStore(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock overrides the service clock. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// ResolveViolation transitions a violation from unresolved to resolved
// exactly once. Resolving twice is a conflict (ErrAlreadyResolved) and never
// overwrites the original resolution fields.
func (s *Service) ResolveViolation(ctx context.Context, id uuid.UUID, resolver, notes string) (*Violation, error) {
	v, err := s.store.GetViolation(ctx, id)
	if err != nil {
		return nil, err
	}

	if v.Resolved {
		return nil, ErrAlreadyResolved
	}

	resolvedAt := s.now()
	v.Resolved = true
	v.ResolvedAt = &resolvedAt
	v.ResolvedBy = resolver
	v.Notes = notes

	if err := s.store.SaveResolution(ctx, v); err != nil {
		return nil, err
	}

	return v, nil
}

// Query surface

func (s *Service) ListViolations(ctx context.Context, filter ViolationFilter) ([]Violation, error) {
	return s.store.ListViolations(ctx, filter)
}

// RecentViolations returns violations detected in the last 30 days
func (s *Service) RecentViolations(ctx context.Context) ([]Violation, error) {
	since := s.now().AddDate(0, 0, -30)
	return s.store.ListViolations(ctx, ViolationFilter{Since: &since})
}

func (s *Service) GetViolationStats(ctx context.Context) (*ViolationStats, error) {
	return s.store.GetViolationStats(ctx)
}

// ActiveZones returns the zones whose season, weekday and daily window admit
// the current instant
func (s *Service) ActiveZones(ctx context.Context) ([]HuntingZone, error) {
	zones, err := s.store.ListEnabledZones(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	active := make([]HuntingZone, 0, len(zones))
	for _, z := range zones {
		if z.IsActiveAt(now) {
			active = append(active, z)
		}
	}
	return active, nil
}

// ExpiringLicenses returns licenses expiring within the next 30 days.
// Expiry dates carry no time of day, so the window starts at today's
// date; a license expiring today is still valid and still listed.
func (s *Service) ExpiringLicenses(ctx context.Context) ([]HunterLicense, error) {
	from := s.now().Truncate(24 * time.Hour)
	return s.store.ListExpiringLicenses(ctx, from, from.AddDate(0, 0, 30))
}

func (s *Service) GetLicenseStats(ctx context.Context) (*LicenseStats, error) {
	return s.store.GetLicenseStats(ctx, s.now())
}

func (s *Service) GetUsageStats(ctx context.Context) (*UsageStats, error) {
	return s.store.GetUsageStats(ctx)
}

func (s *Service) ListOverusedPurchases(ctx context.Context) ([]AmmunitionPurchase, error) {
	return s.store.ListOverusedPurchases(ctx)
}

// CRUD - hunting zones

func (s *Service) CreateZone(zone *HuntingZone) error {
	if err := s.db.Create(zone).Error; err != nil {
		return fmt.Errorf("failed to create zone: %w", err)
	}
	return nil
}

func (s *Service) ListZones() ([]HuntingZone, error) {
	var zones []HuntingZone
	if err := s.db.Order("name ASC").Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	return zones, nil
}

func (s *Service) GetZone(id uuid.UUID) (*HuntingZone, error) {
	var zone HuntingZone
	if err := s.db.First(&zone, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load zone: %w", err)
	}
	return &zone, nil
}

func (s *Service) UpdateZone(zone *HuntingZone) error {
	if err := s.db.Save(zone).Error; err != nil {
		return fmt.Errorf("failed to update zone: %w", err)
	}
	return nil
}

func (s *Service) DeleteZone(id uuid.UUID) error {
	result := s.db.Delete(&HuntingZone{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete zone: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CRUD - ammunition purchases

func (s *Service) CreatePurchase(p *AmmunitionPurchase) error {
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}
	return nil
}

func (s *Service) ListPurchases(hunterID *uuid.UUID) ([]AmmunitionPurchase, error) {
	q := s.db.Order("purchase_date DESC")
	if hunterID != nil {
		q = q.Where("hunter_id = ?", *hunterID)
	}

	var purchases []AmmunitionPurchase
	if err := q.Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}

// RecordUsage adds used rounds to a purchase. The used quantity may exceed
// the purchased quantity; the excess is exactly what the overuse rule flags.
func (s *Service) RecordUsage(id uuid.UUID, rounds int) (*AmmunitionPurchase, error) {
	var p AmmunitionPurchase
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}
		p.UsedQuantity += rounds
		return tx.Model(&p).Update("used_quantity", p.UsedQuantity).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CRUD - hunter licenses

func (s *Service) CreateLicense(l *HunterLicense) error {
	if err := s.db.Create(l).Error; err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}
	return nil
}

func (s *Service) ListLicenses(hunterID *uuid.UUID) ([]HunterLicense, error) {
	q := s.db.Order("issue_date DESC")
	if hunterID != nil {
		q = q.Where("hunter_id = ?", *hunterID)
	}

	var licenses []HunterLicense
	if err := q.Find(&licenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list licenses: %w", err)
	}
	return licenses, nil
}

func (s *Service) UpdateLicense(l *HunterLicense) error {
	if err := s.db.Save(l).Error; err != nil {
		return fmt.Errorf("failed to update license: %w", err)
	}
	return nil
}

// SuspendLicense flags a license as suspended with a reason
func (s *Service) SuspendLicense(id uuid.UUID, reason string) (*HunterLicense, error) {
	var lic HunterLicense
	if err := s.db.First(&lic, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load license: %w", err)
	}

	lic.IsSuspended = true
	lic.SuspensionReason = reason
	if err := s.db.Save(&lic).Error; err != nil {
		return nil, fmt.Errorf("failed to suspend license: %w", err)
	}
	return &lic, nil
}
