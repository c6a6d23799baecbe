package hunter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGunIsLowBattery(t *testing.T) {
	g := Gun{BatteryLevel: 100}
	assert.False(t, g.IsLowBattery())

	g.BatteryLevel = 20
	assert.True(t, g.IsLowBattery())

	g.BatteryLevel = 5
	assert.True(t, g.IsLowBattery())
}

func TestGunIsOperational(t *testing.T) {
	g := Gun{Status: GunStatusActive, BatteryLevel: 80}
	assert.True(t, g.IsOperational())

	for _, status := range []string{GunStatusMaintenance, GunStatusInactive, GunStatusLost} {
		g.Status = status
		assert.False(t, g.IsOperational(), status)
	}
}

func TestValidWeaponType(t *testing.T) {
	for _, valid := range []string{WeaponRifle, WeaponShotgun, WeaponHandgun, WeaponBow} {
		assert.True(t, ValidWeaponType(valid), valid)
	}
	assert.False(t, ValidWeaponType("crossbow"))
	assert.False(t, ValidWeaponType(""))
}

func TestShotLocationName(t *testing.T) {
	s := Shot{Latitude: 49.123456, Longitude: 20.654321}
	assert.Equal(t, "Grid 49.12,20.65", s.LocationName())
}
