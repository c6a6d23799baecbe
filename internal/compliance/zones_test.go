package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestZoneIsActiveAt(t *testing.T) {
	zone := testZone("Tatra Reserve", 49.0, 20.0, 10)

	t.Run("mid-season weekday inside daily window", func(t *testing.T) {
		assert.True(t, zone.IsActiveAt(testNow))
	})

	t.Run("disabled zone", func(t *testing.T) {
		z := zone
		z.IsActive = false
		assert.False(t, z.IsActiveAt(testNow))
	})

	t.Run("before season start", func(t *testing.T) {
		assert.False(t, zone.IsActiveAt(time.Date(2025, 8, 31, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("season boundary days are inclusive", func(t *testing.T) {
		assert.True(t, zone.IsActiveAt(time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)))
		assert.True(t, zone.IsActiveAt(time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("after season end", func(t *testing.T) {
		assert.False(t, zone.IsActiveAt(time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("weekday not allowed", func(t *testing.T) {
		z := zone
		z.AllowedWeekdays = "6,0" // weekends only; testNow is a Wednesday
		assert.False(t, z.IsActiveAt(testNow))

		saturday := time.Date(2025, 10, 18, 10, 0, 0, 0, time.UTC)
		assert.True(t, z.IsActiveAt(saturday))
	})

	t.Run("outside daily window", func(t *testing.T) {
		night := time.Date(2025, 10, 15, 22, 30, 0, 0, time.UTC)
		assert.False(t, zone.IsActiveAt(night))
	})

	t.Run("daily window boundaries are inclusive", func(t *testing.T) {
		assert.True(t, zone.IsActiveAt(time.Date(2025, 10, 15, 6, 0, 0, 0, time.UTC)))
		assert.True(t, zone.IsActiveAt(time.Date(2025, 10, 15, 18, 0, 0, 0, time.UTC)))
		assert.False(t, zone.IsActiveAt(time.Date(2025, 10, 15, 18, 1, 0, 0, time.UTC)))
	})

	t.Run("malformed daily window never admits", func(t *testing.T) {
		z := zone
		z.DailyStartTime = "dawn"
		assert.False(t, z.IsActiveAt(testNow))
	})
}

func TestZoneContains(t *testing.T) {
	zone := testZone("Tatra Reserve", 49.0, 20.0, 10)

	t.Run("center is inside", func(t *testing.T) {
		assert.True(t, zone.Contains(49.0, 20.0))
	})

	t.Run("point near the center", func(t *testing.T) {
		assert.True(t, zone.Contains(49.05, 20.05)) // ~6.6km
	})

	t.Run("point well outside", func(t *testing.T) {
		assert.False(t, zone.Contains(49.6, 20.0)) // ~67km
	})

	t.Run("boundary kilometres count", func(t *testing.T) {
		// ~0.0899 degrees of latitude per 10km
		assert.True(t, zone.Contains(49.0895, 20.0))
		assert.False(t, zone.Contains(49.095, 20.0))
	})
}

func TestPurchaseHelpers(t *testing.T) {
	p := AmmunitionPurchase{Quantity: 50, UsedQuantity: 30}
	assert.Equal(t, 20, p.Remaining())
	assert.False(t, p.IsDepleted())

	p.UsedQuantity = 50
	assert.True(t, p.IsDepleted())

	// Overuse is preserved, not clamped
	p.UsedQuantity = 60
	assert.Equal(t, -10, p.Remaining())
	assert.True(t, p.IsDepleted())
}
