package sensors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeviceIsOnline(t *testing.T) {
	recent := time.Now().Add(-time.Minute)
	stale := time.Now().Add(-time.Hour)

	t.Run("online and recently seen", func(t *testing.T) {
		d := SensorDevice{Status: DeviceOnline, LastSeen: &recent}
		assert.True(t, d.IsOnline(10*time.Minute))
	})

	t.Run("online but silent too long", func(t *testing.T) {
		d := SensorDevice{Status: DeviceOnline, LastSeen: &stale}
		assert.False(t, d.IsOnline(10*time.Minute))
	})

	t.Run("never seen", func(t *testing.T) {
		d := SensorDevice{Status: DeviceOnline}
		assert.False(t, d.IsOnline(10*time.Minute))
	})

	t.Run("offline status wins over recency", func(t *testing.T) {
		d := SensorDevice{Status: DeviceOffline, LastSeen: &recent}
		assert.False(t, d.IsOnline(10*time.Minute))
	})
}

func TestValidSensorType(t *testing.T) {
	for _, valid := range []string{SensorSound, SensorVibration, SensorGPS, SensorTemperature, SensorHumidity} {
		assert.True(t, ValidSensorType(valid), valid)
	}
	assert.False(t, ValidSensorType("radiation"))
	assert.False(t, ValidSensorType(""))
}

func TestValidDeviceStatus(t *testing.T) {
	for _, valid := range []string{DeviceOnline, DeviceOffline, DeviceMaintenance, DeviceError} {
		assert.True(t, ValidDeviceStatus(valid), valid)
	}
	assert.False(t, ValidDeviceStatus("sleeping"))
}
