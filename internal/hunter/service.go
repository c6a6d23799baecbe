package hunter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"huntguard/internal/events"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrHunterNotFound    = errors.New("hunter not found")
	ErrGunNotFound       = errors.New("gun not found")
	ErrGunNotOperational = errors.New("gun is not operational")
	ErrInvalidWeapon     = errors.New("invalid weapon type")
)

type Service struct {
	db        *gorm.DB
	publisher events.Publisher
}

func NewService(db *gorm.DB, publisher events.Publisher) *Service {
	return &Service{db: db, publisher: publisher}
}

// Hunters

func (s *Service) CreateHunter(h *Hunter) error {
	if err := s.db.Create(h).Error; err != nil {
		return fmt.Errorf("failed to create hunter: %w", err)
	}
	return nil
}

func (s *Service) GetHunter(id uuid.UUID) (*Hunter, error) {
	var h Hunter
	if err := s.db.Preload("Guns").First(&h, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrHunterNotFound
		}
		return nil, fmt.Errorf("failed to load hunter: %w", err)
	}
	return &h, nil
}

func (s *Service) ListHunters(activeOnly bool) ([]Hunter, error) {
	q := s.db.Order("last_active DESC")
	if activeOnly {
		q = q.Where("is_active = true")
	}

	var hunters []Hunter
	if err := q.Find(&hunters).Error; err != nil {
		return nil, fmt.Errorf("failed to list hunters: %w", err)
	}
	return hunters, nil
}

func (s *Service) UpdateHunter(h *Hunter) error {
	if err := s.db.Save(h).Error; err != nil {
		return fmt.Errorf("failed to update hunter: %w", err)
	}
	return nil
}

func (s *Service) DeleteHunter(id uuid.UUID) error {
	result := s.db.Delete(&Hunter{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete hunter: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrHunterNotFound
	}
	return nil
}

func (s *Service) GetHunterGuns(hunterID uuid.UUID) ([]Gun, error) {
	var guns []Gun
	if err := s.db.Where("owner_id = ?", hunterID).Find(&guns).Error; err != nil {
		return nil, fmt.Errorf("failed to load hunter guns: %w", err)
	}
	return guns, nil
}

// Guns

func (s *Service) RegisterGun(g *Gun) error {
	if !ValidWeaponType(g.WeaponType) {
		return ErrInvalidWeapon
	}

	var owner Hunter
	if err := s.db.First(&owner, "id = ?", g.OwnerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrHunterNotFound
		}
		return fmt.Errorf("failed to verify gun owner: %w", err)
	}

	if err := s.db.Create(g).Error; err != nil {
		return fmt.Errorf("failed to register gun: %w", err)
	}
	return nil
}

func (s *Service) GetGun(id uuid.UUID) (*Gun, error) {
	var g Gun
	if err := s.db.Preload("Owner").First(&g, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGunNotFound
		}
		return nil, fmt.Errorf("failed to load gun: %w", err)
	}
	return &g, nil
}

func (s *Service) ListGuns() ([]Gun, error) {
	var guns []Gun
	if err := s.db.Preload("Owner").Order("make, model").Find(&guns).Error; err != nil {
		return nil, fmt.Errorf("failed to list guns: %w", err)
	}
	return guns, nil
}

func (s *Service) UpdateGun(g *Gun) error {
	if !ValidWeaponType(g.WeaponType) {
		return ErrInvalidWeapon
	}
	if err := s.db.Save(g).Error; err != nil {
		return fmt.Errorf("failed to update gun: %w", err)
	}
	return nil
}

func (s *Service) DeleteGun(id uuid.UUID) error {
	result := s.db.Delete(&Gun{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete gun: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrGunNotFound
	}
	return nil
}

// UpdateDeviceStatus refreshes the IoT telemetry fields of a gun
func (s *Service) UpdateDeviceStatus(id uuid.UUID, batteryLevel *int, firmware *string, status *string) (*Gun, error) {
	gun, err := s.GetGun(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"last_sync": time.Now()}
	if batteryLevel != nil {
		updates["battery_level"] = *batteryLevel
	}
	if firmware != nil {
		updates["firmware_version"] = *firmware
	}
	if status != nil {
		updates["status"] = *status
	}

	if err := s.db.Model(gun).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update device status: %w", err)
	}
	return gun, nil
}

// ListLowBatteryGuns returns active guns at or below 20% battery
func (s *Service) ListLowBatteryGuns() ([]Gun, error) {
	var guns []Gun
	err := s.db.Preload("Owner").
		Where("status = ? AND battery_level <= 20", GunStatusActive).
		Order("battery_level ASC").
		Find(&guns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list low battery guns: %w", err)
	}
	return guns, nil
}

// Shots

// RecordShot commits the shot row, refreshes the gun and owner activity
// timestamps and then publishes the shot-created event. The commit happens
// before publication so violations always reference a durable shot.
func (s *Service) RecordShot(ctx context.Context, shot *Shot) error {
	gun, err := s.GetGun(shot.GunID)
	if err != nil {
		return err
	}
	if !gun.IsOperational() {
		return ErrGunNotOperational
	}

	now := time.Now()
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(shot).Error; err != nil {
			return fmt.Errorf("failed to record shot: %w", err)
		}
		if err := tx.Model(&Gun{}).Where("id = ?", gun.ID).Update("last_used", now).Error; err != nil {
			return fmt.Errorf("failed to update gun last_used: %w", err)
		}
		if err := tx.Model(&Hunter{}).Where("id = ?", gun.OwnerID).Update("last_active", now).Error; err != nil {
			return fmt.Errorf("failed to update hunter last_active: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return s.publisher.PublishShotCreated(ctx, events.ShotCreated{
		ShotID:    shot.ID,
		GunID:     shot.GunID,
		Timestamp: shot.Timestamp,
	})
}

func (s *Service) ListShots(limit int) ([]Shot, error) {
	q := s.db.Preload("Gun").Preload("Gun.Owner").Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var shots []Shot
	if err := q.Find(&shots).Error; err != nil {
		return nil, fmt.Errorf("failed to list shots: %w", err)
	}
	return shots, nil
}

// RecentShots returns shots recorded in the last 24 hours
func (s *Service) RecentShots() ([]Shot, error) {
	since := time.Now().Add(-24 * time.Hour)

	var shots []Shot
	err := s.db.Preload("Gun").Preload("Gun.Owner").
		Where("timestamp >= ?", since).
		Order("timestamp DESC").
		Find(&shots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recent shots: %w", err)
	}
	return shots, nil
}

// Statistics

type Stats struct {
	TotalHunters     int64            `json:"total_hunters"`
	ActiveHunters    int64            `json:"active_hunters"`
	TotalGuns        int64            `json:"total_guns"`
	ActiveGuns       int64            `json:"active_guns"`
	TotalShotsToday  int64            `json:"total_shots_today"`
	MostActiveHunter string           `json:"most_active_hunter,omitempty"`
	ShotsByWeapon    map[string]int64 `json:"shots_by_weapon_type"`
}

func (s *Service) GetStatistics() (*Stats, error) {
	stats := &Stats{ShotsByWeapon: make(map[string]int64)}

	if err := s.db.Model(&Hunter{}).Count(&stats.TotalHunters).Error; err != nil {
		return nil, fmt.Errorf("failed to count hunters: %w", err)
	}
	if err := s.db.Model(&Hunter{}).Where("is_active = true").Count(&stats.ActiveHunters).Error; err != nil {
		return nil, fmt.Errorf("failed to count active hunters: %w", err)
	}
	if err := s.db.Model(&Gun{}).Count(&stats.TotalGuns).Error; err != nil {
		return nil, fmt.Errorf("failed to count guns: %w", err)
	}
	if err := s.db.Model(&Gun{}).Where("status = ?", GunStatusActive).Count(&stats.ActiveGuns).Error; err != nil {
		return nil, fmt.Errorf("failed to count active guns: %w", err)
	}

	todayStart := time.Now().Truncate(24 * time.Hour)
	if err := s.db.Model(&Shot{}).Where("timestamp >= ?", todayStart).Count(&stats.TotalShotsToday).Error; err != nil {
		return nil, fmt.Errorf("failed to count today's shots: %w", err)
	}

	// Most active hunter by lifetime shot count across their guns
	var top struct {
		Name  string
		Count int64
	}
	err := s.db.Model(&Shot{}).
		Select("hunters.hunters.name AS name, COUNT(*) AS count").
		Joins("JOIN hunters.guns ON hunters.guns.id = hunters.shots.gun_id").
		Joins("JOIN hunters.hunters ON hunters.hunters.id = hunters.guns.owner_id").
		Group("hunters.hunters.name").
		Order("count DESC").
		Limit(1).
		Scan(&top).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find most active hunter: %w", err)
	}
	stats.MostActiveHunter = top.Name

	type weaponBucket struct {
		WeaponType string
		Count      int64
	}
	var buckets []weaponBucket
	err = s.db.Model(&Shot{}).
		Select("hunters.guns.weapon_type AS weapon_type, COUNT(*) AS count").
		Joins("JOIN hunters.guns ON hunters.guns.id = hunters.shots.gun_id").
		Group("hunters.guns.weapon_type").
		Scan(&buckets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate shots by weapon: %w", err)
	}
	for _, b := range buckets {
		stats.ShotsByWeapon[b.WeaponType] = b.Count
	}

	return stats, nil
}
