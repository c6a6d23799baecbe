package activity

import (
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"huntguard/internal/common"
)

var ErrActivityNotFound = errors.New("activity not found")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Record appends an entry to the feed. Failures are logged but never fatal;
// the feed is advisory and must not break the operation that produced it.
func (s *Service) Record(activityType, priority, title, message string, hunterID *uuid.UUID, metadata common.JSONB) {
	entry := Activity{
		Type:     activityType,
		Priority: priority,
		Title:    title,
		Message:  message,
		HunterID: hunterID,
		Metadata: metadata,
	}
	if entry.Priority == "" {
		entry.Priority = PriorityNormal
	}

	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("❌ [ACTIVITY] Failed to record %s: %v", activityType, err)
	}
}

// List returns feed entries, newest first.
func (s *Service) List(limit int) ([]Activity, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var entries []Activity
	if err := s.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return entries, nil
}

// ListUnread returns unread entries, newest first.
func (s *Service) ListUnread() ([]Activity, error) {
	var entries []Activity
	if err := s.db.Where("is_read = ?", false).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list unread activities: %w", err)
	}
	return entries, nil
}

// MarkRead flags one entry as read.
func (s *Service) MarkRead(id uuid.UUID) error {
	result := s.db.Model(&Activity{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark activity read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrActivityNotFound
	}
	return nil
}

// MarkAllRead flags every unread entry as read. Returns how many changed.
func (s *Service) MarkAllRead() (int64, error) {
	result := s.db.Model(&Activity{}).Where("is_read = ?", false).Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark activities read: %w", result.Error)
	}
	return result.RowsAffected, nil
}
