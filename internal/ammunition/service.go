package ammunition

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrStockNotFound      = errors.New("stock line not found")
	ErrInvalidTransaction = errors.New("invalid transaction type")
	ErrInsufficientStock  = errors.New("insufficient stock")
)

// InventorySummary aggregates the whole warehouse.
type InventorySummary struct {
	TotalLines    int64          `json:"total_lines"`
	TotalRounds   int64          `json:"total_rounds"`
	LowStockLines int64          `json:"low_stock_lines"`
	RoundsByType  map[string]int `json:"rounds_by_type"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateStock opens a new stock line.
func (s *Service) CreateStock(stock *Ammunition) error {
	if stock.Quantity < 0 {
		return fmt.Errorf("%w: opening quantity cannot be negative", ErrInsufficientStock)
	}
	if err := s.db.Create(stock).Error; err != nil {
		return fmt.Errorf("failed to create stock line: %w", err)
	}

	log.Printf("📦 [AMMO] Stock line opened: %s %s (%d rounds)", stock.AmmoType, stock.Caliber, stock.Quantity)
	return nil
}

// ListStock returns stock lines, optionally for one hunter.
func (s *Service) ListStock(hunterID *uuid.UUID) ([]Ammunition, error) {
	var lines []Ammunition
	query := s.db.Order("ammo_type ASC")
	if hunterID != nil {
		query = query.Where("hunter_id = ?", *hunterID)
	}
	if err := query.Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock: %w", err)
	}
	return lines, nil
}

// GetStock returns one stock line.
func (s *Service) GetStock(id uuid.UUID) (*Ammunition, error) {
	var stock Ammunition
	if err := s.db.First(&stock, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStockNotFound
		}
		return nil, fmt.Errorf("failed to get stock: %w", err)
	}
	return &stock, nil
}

// ListLowStock returns lines at or below their reorder level.
func (s *Service) ListLowStock() ([]Ammunition, error) {
	var lines []Ammunition
	if err := s.db.Where("quantity <= low_stock_level").
		Order("quantity ASC").
		Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return lines, nil
}

// RecordTransaction appends a ledger entry and adjusts the stock line in one
// transaction. Stock never goes negative.
func (s *Service) RecordTransaction(stockID uuid.UUID, entry *AmmunitionTransaction) (*Ammunition, error) {
	if !ValidTransactionType(entry.Type) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransaction, entry.Type)
	}
	if entry.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidTransaction)
	}

	var stock Ammunition
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&stock, "id = ?", stockID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStockNotFound
			}
			return err
		}

		next := stock.Quantity + delta(entry.Type, entry.Quantity)
		if next < 0 {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientStock, stock.Quantity, entry.Quantity)
		}

		entry.AmmunitionID = stock.ID
		if entry.OccurredAt.IsZero() {
			entry.OccurredAt = time.Now()
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}

		stock.Quantity = next
		return tx.Model(&stock).Update("quantity", next).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📦 [AMMO] %s %d rounds of %s, %d remaining", entry.Type, entry.Quantity, stock.AmmoType, stock.Quantity)

	if stock.IsLowStock() {
		log.Printf("⚠️ [AMMO] Low stock: %s %s down to %d rounds", stock.AmmoType, stock.Caliber, stock.Quantity)
	}

	return &stock, nil
}

// ListTransactions returns the ledger for one stock line, newest first.
func (s *Service) ListTransactions(stockID uuid.UUID, limit int) ([]AmmunitionTransaction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var entries []AmmunitionTransaction
	if err := s.db.Where("ammunition_id = ?", stockID).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return entries, nil
}

// GetInventorySummary aggregates the warehouse.
func (s *Service) GetInventorySummary() (*InventorySummary, error) {
	summary := &InventorySummary{RoundsByType: make(map[string]int)}

	if err := s.db.Model(&Ammunition{}).Count(&summary.TotalLines).Error; err != nil {
		return nil, fmt.Errorf("failed to count stock lines: %w", err)
	}

	var total struct{ Total int64 }
	if err := s.db.Model(&Ammunition{}).
		Select("COALESCE(SUM(quantity), 0) as total").
		Scan(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to sum rounds: %w", err)
	}
	summary.TotalRounds = total.Total

	if err := s.db.Model(&Ammunition{}).
		Where("quantity <= low_stock_level").
		Count(&summary.LowStockLines).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock: %w", err)
	}

	var byType []struct {
		AmmoType string
		Rounds   int
	}
	if err := s.db.Model(&Ammunition{}).
		Select("ammo_type, COALESCE(SUM(quantity), 0) as rounds").
		Group("ammo_type").
		Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to group rounds: %w", err)
	}
	for _, row := range byType {
		summary.RoundsByType[row.AmmoType] = row.Rounds
	}

	return summary, nil
}
