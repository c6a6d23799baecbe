package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	t.Run("identical points", func(t *testing.T) {
		assert.Zero(t, CalculateDistance(49.0, 20.0, 49.0, 20.0))
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		// ~111.2km along a meridian
		d := CalculateDistance(49.0, 20.0, 50.0, 20.0)
		assert.InDelta(t, 111195, d, 200)
	})

	t.Run("bratislava to kosice", func(t *testing.T) {
		d := CalculateDistance(48.1486, 17.1077, 48.7164, 21.2611)
		assert.InDelta(t, 312000, d, 5000)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := CalculateDistance(48.1486, 17.1077, 48.7164, 21.2611)
		b := CalculateDistance(48.7164, 21.2611, 48.1486, 17.1077)
		assert.InDelta(t, a, b, 0.001)
	})
}
