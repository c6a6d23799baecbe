package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntguard/internal/hunter"
	"huntguard/internal/sensors"
)

type fakeShotRecorder struct {
	mu    sync.Mutex
	guns  []hunter.Gun
	shots []hunter.Shot
}

func (f *fakeShotRecorder) RecordShot(ctx context.Context, shot *hunter.Shot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shots = append(f.shots, *shot)
	return nil
}

func (f *fakeShotRecorder) ListGuns() ([]hunter.Gun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]hunter.Gun(nil), f.guns...), nil
}

type fakeReadingRecorder struct {
	mu       sync.Mutex
	readings []sensors.SensorReading
}

func (f *fakeReadingRecorder) RecordReading(r *sensors.SensorReading) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readings = append(f.readings, *r)
	return nil
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeBroadcaster) Broadcast(messageType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, messageType)
}

func (f *fakeBroadcaster) count(messageType string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.messages {
		if m == messageType {
			n++
		}
	}
	return n
}

func activeGun() hunter.Gun {
	g := hunter.Gun{
		DeviceID:     "GUN-001",
		OwnerID:      uuid.New(),
		WeaponType:   hunter.WeaponRifle,
		Status:       hunter.GunStatusActive,
		BatteryLevel: 90,
	}
	g.ID = uuid.New()
	return g
}

func TestSimulatorEmitsSensorReadings(t *testing.T) {
	shots := &fakeShotRecorder{}
	readings := &fakeReadingRecorder{}
	out := &fakeBroadcaster{}

	sim := NewSimulator(Config{
		SensorInterval: 5 * time.Millisecond,
		ShotInterval:   time.Hour, // keep shots out of this test
		Seed:           1,
	}, shots, readings, out)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	sim.Run(ctx)

	readings.mu.Lock()
	stored := len(readings.readings)
	readings.mu.Unlock()

	require.Greater(t, stored, 0)
	// Persist first, then broadcast, one message per stored reading
	assert.Equal(t, stored, out.count("sensor_reading"))

	readings.mu.Lock()
	defer readings.mu.Unlock()
	for _, r := range readings.readings {
		assert.True(t, sensors.ValidSensorType(r.SensorType))
		assert.NotEmpty(t, r.DeviceID)
		require.NotNil(t, r.Latitude)
		assert.InDelta(t, 48.7139, *r.Latitude, 0.03)
	}
}

func TestSimulatorFiresShotsFromOperationalGuns(t *testing.T) {
	shots := &fakeShotRecorder{guns: []hunter.Gun{activeGun()}}
	readings := &fakeReadingRecorder{}
	out := &fakeBroadcaster{}

	sim := NewSimulator(Config{
		SensorInterval: time.Hour,
		ShotInterval:   time.Millisecond,
		ShotChance:     1.0,
		Seed:           1,
	}, shots, readings, out)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	sim.Run(ctx)

	shots.mu.Lock()
	fired := len(shots.shots)
	gunID := shots.guns[0].ID
	recorded := append([]hunter.Shot(nil), shots.shots...)
	shots.mu.Unlock()

	require.Greater(t, fired, 0)
	assert.Equal(t, fired, out.count("shot"))
	for _, s := range recorded {
		assert.Equal(t, gunID, s.GunID)
		assert.NotZero(t, s.SoundLevel)
	}
}

func TestSimulatorSkipsNonOperationalGuns(t *testing.T) {
	lost := activeGun()
	lost.Status = hunter.GunStatusLost

	shots := &fakeShotRecorder{guns: []hunter.Gun{lost}}
	out := &fakeBroadcaster{}

	sim := NewSimulator(Config{
		SensorInterval: time.Hour,
		ShotInterval:   time.Millisecond,
		ShotChance:     1.0,
		Seed:           1,
	}, shots, &fakeReadingRecorder{}, out)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	sim.Run(ctx)

	shots.mu.Lock()
	defer shots.mu.Unlock()
	assert.Empty(t, shots.shots)
	assert.Zero(t, out.count("shot"))
}

// Clients reconnecting restarts the simulator; a new run may be launched
// before the previous goroutine has returned. Runs must serialize so the
// shared rng and counters are never touched concurrently.
func TestSimulatorRestartCyclesSerialize(t *testing.T) {
	shots := &fakeShotRecorder{guns: []hunter.Gun{activeGun()}}
	readings := &fakeReadingRecorder{}
	out := &fakeBroadcaster{}

	sim := NewSimulator(Config{
		SensorInterval: time.Millisecond,
		ShotInterval:   time.Millisecond,
		ShotChance:     1.0,
		Seed:           1,
	}, shots, readings, out)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		wg.Add(1)
		go func() {
			defer wg.Done()
			sim.Run(ctx)
		}()
		time.Sleep(5 * time.Millisecond)
		cancel()
	}
	wg.Wait()

	readings.mu.Lock()
	stored := len(readings.readings)
	readings.mu.Unlock()
	require.Greater(t, stored, 0)
	assert.Equal(t, stored, out.count("sensor_reading"))
}

func TestSimulatorConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 5*time.Second, cfg.SensorInterval)
	assert.Equal(t, 15*time.Second, cfg.ShotInterval)
	assert.Equal(t, 0.3, cfg.ShotChance)
	assert.NotZero(t, cfg.BaseLat)
	assert.NotZero(t, cfg.Seed)
}
