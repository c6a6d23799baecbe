package compliance

import (
	"context"
	"fmt"
	"time"

	"huntguard/internal/hunter"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore - Postgres-backed Store implementation
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetShot(ctx context.Context, id uuid.UUID) (*hunter.Shot, error) {
	var shot hunter.Shot
	if err := s.db.WithContext(ctx).First(&shot, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load shot: %w", err)
	}
	return &shot, nil
}

func (s *GormStore) GetGun(ctx context.Context, id uuid.UUID) (*hunter.Gun, error) {
	var gun hunter.Gun
	if err := s.db.WithContext(ctx).First(&gun, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load gun: %w", err)
	}
	return &gun, nil
}

func (s *GormStore) GetHunter(ctx context.Context, id uuid.UUID) (*hunter.Hunter, error) {
	var h hunter.Hunter
	if err := s.db.WithContext(ctx).First(&h, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load hunter: %w", err)
	}
	return &h, nil
}

// CountShotsByHunter counts every shot ever fired by guns the hunter owns.
// Recomputed from scratch on every evaluation; shot volume per hunter is low.
func (s *GormStore) CountShotsByHunter(ctx context.Context, hunterID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&hunter.Shot{}).
		Joins("JOIN hunters.guns ON hunters.guns.id = hunters.shots.gun_id").
		Where("hunters.guns.owner_id = ?", hunterID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count shots: %w", err)
	}
	return count, nil
}

func (s *GormStore) SumPurchasedByHunter(ctx context.Context, hunterID uuid.UUID) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).
		Model(&AmmunitionPurchase{}).
		Where("hunter_id = ?", hunterID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum purchases: %w", err)
	}
	return total, nil
}

func (s *GormStore) ListEnabledZones(ctx context.Context) ([]HuntingZone, error) {
	var zones []HuntingZone
	if err := s.db.WithContext(ctx).Where("is_active = true").Find(&zones).Error; err != nil {
		return nil, fmt.Errorf("failed to load zones: %w", err)
	}
	return zones, nil
}

func (s *GormStore) GetLicenseByHunter(ctx context.Context, hunterID uuid.UUID) (*HunterLicense, error) {
	var lic HunterLicense
	if err := s.db.WithContext(ctx).First(&lic, "hunter_id = ?", hunterID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load license: %w", err)
	}
	return &lic, nil
}

func (s *GormStore) CreateViolation(ctx context.Context, v *Violation) error {
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		return fmt.Errorf("failed to create violation: %w", err)
	}
	return nil
}

func (s *GormStore) GetViolation(ctx context.Context, id uuid.UUID) (*Violation, error) {
	var v Violation
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load violation: %w", err)
	}
	return &v, nil
}

func (s *GormStore) SaveResolution(ctx context.Context, v *Violation) error {
	err := s.db.WithContext(ctx).
		Model(&Violation{}).
		Where("id = ?", v.ID).
		Updates(map[string]interface{}{
			"resolved":    v.Resolved,
			"resolved_at": v.ResolvedAt,
			"resolved_by": v.ResolvedBy,
			"notes":       v.Notes,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to save resolution: %w", err)
	}
	return nil
}

func (s *GormStore) ListViolations(ctx context.Context, filter ViolationFilter) ([]Violation, error) {
	q := s.db.WithContext(ctx).Model(&Violation{}).Order("detected_at DESC")

	if filter.HunterID != nil {
		q = q.Where("hunter_id = ?", *filter.HunterID)
	}
	if filter.UnresolvedOnly {
		q = q.Where("resolved = false")
	}
	if filter.Since != nil {
		q = q.Where("detected_at >= ?", *filter.Since)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var violations []Violation
	if err := q.Find(&violations).Error; err != nil {
		return nil, fmt.Errorf("failed to list violations: %w", err)
	}
	return violations, nil
}

func (s *GormStore) GetViolationStats(ctx context.Context) (*ViolationStats, error) {
	stats := &ViolationStats{
		ByType:     make(map[string]int64),
		BySeverity: make(map[string]int64),
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byType []bucket
	err := s.db.WithContext(ctx).Model(&Violation{}).
		Select("violation_type AS key, COUNT(*) AS count").
		Group("violation_type").
		Scan(&byType).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate violations by type: %w", err)
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
		stats.Total += b.Count
	}

	var bySeverity []bucket
	err = s.db.WithContext(ctx).Model(&Violation{}).
		Select("severity AS key, COUNT(*) AS count").
		Group("severity").
		Scan(&bySeverity).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate violations by severity: %w", err)
	}
	for _, b := range bySeverity {
		stats.BySeverity[b.Key] = b.Count
	}

	err = s.db.WithContext(ctx).Model(&Violation{}).
		Where("resolved = false").
		Count(&stats.Unresolved).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count unresolved violations: %w", err)
	}

	return stats, nil
}

func (s *GormStore) ListExpiringLicenses(ctx context.Context, from, until time.Time) ([]HunterLicense, error) {
	var licenses []HunterLicense
	err := s.db.WithContext(ctx).
		Where("expiry_date >= ? AND expiry_date <= ?", from, until).
		Order("expiry_date ASC").
		Find(&licenses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list expiring licenses: %w", err)
	}
	return licenses, nil
}

func (s *GormStore) GetLicenseStats(ctx context.Context, now time.Time) (*LicenseStats, error) {
	stats := &LicenseStats{}
	today := now.Format("2006-01-02")
	soon := now.AddDate(0, 0, 30).Format("2006-01-02")

	db := s.db.WithContext(ctx).Model(&HunterLicense{})
	if err := db.Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count licenses: %w", err)
	}

	err := s.db.WithContext(ctx).Model(&HunterLicense{}).
		Where("is_suspended = false AND expiry_date >= ?", today).
		Count(&stats.Valid).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count valid licenses: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&HunterLicense{}).
		Where("expiry_date < ?", today).
		Count(&stats.Expired).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count expired licenses: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&HunterLicense{}).
		Where("is_suspended = true").
		Count(&stats.Suspended).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count suspended licenses: %w", err)
	}

	err = s.db.WithContext(ctx).Model(&HunterLicense{}).
		Where("expiry_date >= ? AND expiry_date <= ?", today, soon).
		Count(&stats.ExpiringSoon).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count expiring licenses: %w", err)
	}

	return stats, nil
}

func (s *GormStore) GetUsageStats(ctx context.Context) (*UsageStats, error) {
	stats := &UsageStats{}

	row := struct {
		Purchased int64
		Used      int64
	}{}
	err := s.db.WithContext(ctx).Model(&AmmunitionPurchase{}).
		Select("COALESCE(SUM(quantity), 0) AS purchased, COALESCE(SUM(used_quantity), 0) AS used").
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ammunition usage: %w", err)
	}
	stats.TotalPurchased = row.Purchased
	stats.TotalUsed = row.Used
	stats.TotalRemaining = row.Purchased - row.Used

	err = s.db.WithContext(ctx).Model(&AmmunitionPurchase{}).
		Where("used_quantity >= quantity").
		Count(&stats.DepletedPurchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count depleted purchases: %w", err)
	}

	return stats, nil
}

func (s *GormStore) ListOverusedPurchases(ctx context.Context) ([]AmmunitionPurchase, error) {
	var purchases []AmmunitionPurchase
	err := s.db.WithContext(ctx).
		Where("used_quantity > quantity").
		Order("purchase_date DESC").
		Find(&purchases).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overused purchases: %w", err)
	}
	return purchases, nil
}
