package ammunition

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionDelta(t *testing.T) {
	tests := []struct {
		txType string
		want   int
	}{
		{TransactionBought, 50},
		{TransactionReturn, 50},
		{TransactionSold, -50},
		{TransactionShot, -50},
		{TransactionTransfer, -50},
		{TransactionLoss, -50},
		{"unknown", 0},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, delta(tc.txType, 50), "type %s", tc.txType)
	}
}

func TestValidTransactionType(t *testing.T) {
	assert.True(t, ValidTransactionType(TransactionBought))
	assert.True(t, ValidTransactionType(TransactionLoss))
	assert.False(t, ValidTransactionType("stolen"))
	assert.False(t, ValidTransactionType(""))
}

func TestIsLowStock(t *testing.T) {
	stock := Ammunition{Quantity: 100, LowStockLevel: 20}
	assert.False(t, stock.IsLowStock())

	stock.Quantity = 20
	assert.True(t, stock.IsLowStock())

	stock.Quantity = 0
	assert.True(t, stock.IsLowStock())
}

func TestAmmunitionProcurementFields(t *testing.T) {
	expiry := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	stock := Ammunition{
		AmmoType:    "rifle",
		Caliber:     "7.62x39",
		Quantity:    200,
		CostPerUnit: 1.85,
		Supplier:    "Sellier & Bellot",
		ExpiryDate:  &expiry,
	}

	data, err := json.Marshal(stock)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1.85, got["cost_per_unit"])
	assert.Equal(t, "Sellier & Bellot", got["supplier"])
	assert.Contains(t, got["expiry_date"], "2027-03-01")

	// expiry is optional; unset lines omit it
	data, err = json.Marshal(Ammunition{AmmoType: "rifle"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "expiry_date")
}
