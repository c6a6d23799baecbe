package realtime

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"huntguard/internal/hunter"
	"huntguard/internal/sensors"
)

// ShotRecorder persists a simulated shot and triggers detection.
type ShotRecorder interface {
	RecordShot(ctx context.Context, shot *hunter.Shot) error
	ListGuns() ([]hunter.Gun, error)
}

// ReadingRecorder persists a simulated telemetry sample.
type ReadingRecorder interface {
	RecordReading(reading *sensors.SensorReading) error
}

// Broadcaster fans a message out to connected clients.
type Broadcaster interface {
	Broadcast(messageType string, payload interface{})
}

// Config parameterizes the simulator. Zero values fall back to defaults.
type Config struct {
	SensorInterval time.Duration
	ShotInterval   time.Duration
	ShotChance     float64 // probability of a shot per shot tick, 0..1
	BaseLat        float64
	BaseLng        float64
	Seed           int64
}

func (c Config) withDefaults() Config {
	if c.SensorInterval <= 0 {
		c.SensorInterval = 5 * time.Second
	}
	if c.ShotInterval <= 0 {
		c.ShotInterval = 15 * time.Second
	}
	if c.ShotChance <= 0 {
		c.ShotChance = 0.3
	}
	if c.BaseLat == 0 && c.BaseLng == 0 {
		c.BaseLat = 48.7139 // Low Tatras test range
		c.BaseLng = 19.6103
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Simulator generates demo sensor readings and shots on ticker ticks.
// All state lives on the struct; every generated record is persisted
// before it is broadcast.
type Simulator struct {
	cfg      Config
	shots    ShotRecorder
	readings ReadingRecorder
	out      Broadcaster
	rng      *rand.Rand

	// runMu serializes runs: a restart blocks until the previous Run
	// has observed cancellation and returned.
	runMu sync.Mutex

	readingsSent int
	shotsFired   int
}

func NewSimulator(cfg Config, shots ShotRecorder, readings ReadingRecorder, out Broadcaster) *Simulator {
	cfg = cfg.withDefaults()
	return &Simulator{
		cfg:      cfg,
		shots:    shots,
		readings: readings,
		out:      out,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Run advances the simulator until ctx is cancelled. Call in a goroutine.
// At most one run is active at a time; a second Run waits for the first
// to finish before starting.
func (s *Simulator) Run(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	sensorTicker := time.NewTicker(s.cfg.SensorInterval)
	shotTicker := time.NewTicker(s.cfg.ShotInterval)
	defer sensorTicker.Stop()
	defer shotTicker.Stop()

	log.Printf("🎲 [SIMULATOR] Started (sensor every %s, shot every %s)", s.cfg.SensorInterval, s.cfg.ShotInterval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("🎲 [SIMULATOR] Stopped (%d readings, %d shots)", s.readingsSent, s.shotsFired)
			return
		case <-sensorTicker.C:
			s.tickSensor(ctx)
		case <-shotTicker.C:
			s.tickShot(ctx)
		}
	}
}

// tickSensor writes one telemetry sample, then broadcasts it.
func (s *Simulator) tickSensor(ctx context.Context) {
	reading := s.generateReading()
	if err := s.readings.RecordReading(reading); err != nil {
		log.Printf("❌ [SIMULATOR] Failed to store reading: %v", err)
		return
	}

	s.readingsSent++
	s.out.Broadcast("sensor_reading", reading)
}

// tickShot sometimes fires a simulated shot from a random operational gun.
// RecordShot publishes the shot event, so simulated shots flow through
// compliance detection like real ones.
func (s *Simulator) tickShot(ctx context.Context) {
	if s.rng.Float64() >= s.cfg.ShotChance {
		return
	}

	gun := s.pickGun()
	if gun == nil {
		return
	}

	lat, lng := s.jitterLocation()
	shot := &hunter.Shot{
		GunID:          gun.ID,
		SoundLevel:     140 + s.rng.Float64()*30,
		VibrationLevel: 50 + s.rng.Float64()*100,
		Latitude:       lat,
		Longitude:      lng,
		Notes:          "simulated",
	}

	if err := s.shots.RecordShot(ctx, shot); err != nil {
		log.Printf("❌ [SIMULATOR] Failed to record shot: %v", err)
		return
	}

	s.shotsFired++
	s.out.Broadcast("shot", shot)
}

func (s *Simulator) generateReading() *sensors.SensorReading {
	lat, lng := s.jitterLocation()

	types := []struct {
		sensorType string
		unit       string
		base, span float64
		anomalyAt  float64
	}{
		{sensors.SensorSound, "dB", 30, 60, 85},
		{sensors.SensorVibration, "Hz", 0, 40, 35},
		{sensors.SensorTemperature, "°C", 5, 25, 28},
		{sensors.SensorHumidity, "%", 40, 50, 88},
	}
	t := types[s.rng.Intn(len(types))]

	value := t.base + s.rng.Float64()*t.span
	battery := 20 + s.rng.Intn(80)
	signal := -90 + s.rng.Intn(60)

	return &sensors.SensorReading{
		DeviceID:       fmt.Sprintf("SIM-%03d", s.rng.Intn(8)+1),
		SensorType:     t.sensorType,
		Value:          value,
		Unit:           t.unit,
		Latitude:       &lat,
		Longitude:      &lng,
		LocationName:   fmt.Sprintf("Grid %.2f,%.2f", lat, lng),
		BatteryLevel:   &battery,
		SignalStrength: &signal,
		IsAnomaly:      value > t.anomalyAt,
	}
}

// pickGun picks a random operational gun, or nil when none exist.
func (s *Simulator) pickGun() *hunter.Gun {
	guns, err := s.shots.ListGuns()
	if err != nil {
		log.Printf("❌ [SIMULATOR] Failed to list guns: %v", err)
		return nil
	}

	operational := guns[:0]
	for _, g := range guns {
		if g.IsOperational() {
			operational = append(operational, g)
		}
	}
	if len(operational) == 0 {
		return nil
	}
	return &operational[s.rng.Intn(len(operational))]
}

// jitterLocation scatters points within roughly 2km of the base.
func (s *Simulator) jitterLocation() (float64, float64) {
	lat := s.cfg.BaseLat + (s.rng.Float64()-0.5)*0.04
	lng := s.cfg.BaseLng + (s.rng.Float64()-0.5)*0.04
	return lat, lng
}
