package ammunition

import (
	"time"

	"github.com/google/uuid"

	"huntguard/internal/common"
)

// Transaction types
const (
	TransactionBought   = "bought"
	TransactionSold     = "sold"
	TransactionShot     = "shot"
	TransactionTransfer = "transfer"
	TransactionLoss     = "loss"
	TransactionReturn   = "return"
)

// Ammunition is a warehouse stock line for one hunter and ammo type.
type Ammunition struct {
	common.BaseModel
	HunterID        uuid.UUID  `json:"hunter_id" gorm:"type:uuid;not null;index"`
	AmmoType        string     `json:"ammo_type" gorm:"not null"`
	Caliber         string     `json:"caliber"`
	Quantity        int        `json:"quantity" gorm:"not null;default:0"`
	CostPerUnit     float64    `json:"cost_per_unit" gorm:"type:decimal(10,2)"`
	Supplier        string     `json:"supplier"`
	ExpiryDate      *time.Time `json:"expiry_date,omitempty" gorm:"type:date"`
	StorageLocation string     `json:"storage_location"`
	LowStockLevel   int        `json:"low_stock_level" gorm:"default:20"`
}

// AmmunitionTransaction is one ledger entry against a stock line. The ledger
// is warehouse bookkeeping; compliance counts run off purchases and shots.
type AmmunitionTransaction struct {
	common.BaseModel
	AmmunitionID uuid.UUID `json:"ammunition_id" gorm:"type:uuid;not null;index"`
	Type         string    `json:"transaction_type" gorm:"column:transaction_type;not null"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	OccurredAt   time.Time `json:"occurred_at" gorm:"not null;index"`
	Reference    string    `json:"reference"`
	Notes        string    `json:"notes"`

	Ammunition *Ammunition `json:"ammunition,omitempty" gorm:"foreignKey:AmmunitionID"`
}

func (Ammunition) TableName() string {
	return "ammunition.stock"
}

func (AmmunitionTransaction) TableName() string {
	return "ammunition.transactions"
}

// IsLowStock reports whether the line has fallen to its reorder level.
func (a *Ammunition) IsLowStock() bool {
	return a.Quantity <= a.LowStockLevel
}

// delta returns the signed stock change for a transaction type.
// Bought and returned rounds add stock, everything else removes it.
func delta(txType string, quantity int) int {
	switch txType {
	case TransactionBought, TransactionReturn:
		return quantity
	case TransactionSold, TransactionShot, TransactionTransfer, TransactionLoss:
		return -quantity
	default:
		return 0
	}
}

// ValidTransactionType checks a ledger entry type.
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionBought, TransactionSold, TransactionShot,
		TransactionTransfer, TransactionLoss, TransactionReturn:
		return true
	}
	return false
}
