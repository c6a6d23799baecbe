package compliance

import (
	"context"
	"log"
	"time"
)

// DeviceSweeper flips silent field devices offline.
type DeviceSweeper interface {
	MarkStaleDevicesOffline() (int64, error)
}

// Scheduler runs the periodic compliance housekeeping: license expiry
// warnings and the stale device sweep.
type Scheduler struct {
	service   *Service
	sweeper   DeviceSweeper
	ticker    *time.Ticker
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
}

func NewScheduler(service *Service, sweeper DeviceSweeper) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		service: service,
		sweeper: sweeper,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the background loop.
func (s *Scheduler) Start() {
	if s.isRunning {
		log.Printf("⚠️ Scheduler already running")
		return
	}

	s.isRunning = true
	s.ticker = time.NewTicker(15 * time.Minute)

	log.Printf("🕐 Compliance scheduler started (15min interval)")
	go s.run()
}

// Stop cancels the loop.
func (s *Scheduler) Stop() {
	if !s.isRunning {
		return
	}

	s.cancel()
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.isRunning = false

	log.Printf("🛑 Compliance scheduler stopped")
}

func (s *Scheduler) run() {
	defer func() {
		s.isRunning = false
		if s.ticker != nil {
			s.ticker.Stop()
		}
	}()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-s.ticker.C:
			s.warnExpiringLicenses()
			s.sweepStaleDevices()
		}
	}
}

func (s *Scheduler) warnExpiringLicenses() {
	licenses, err := s.service.ExpiringLicenses(s.ctx)
	if err != nil {
		log.Printf("❌ [SCHEDULER] Expiry check failed: %v", err)
		return
	}

	if len(licenses) > 0 {
		log.Printf("⚠️ WARNING: %d licenses expiring in the next 30 days:", len(licenses))
		for _, l := range licenses {
			log.Printf("   ⏰ %s expires in %d days", l.LicenseNumber, l.DaysUntilExpiry(time.Now()))
		}
	}
}

func (s *Scheduler) sweepStaleDevices() {
	if s.sweeper == nil {
		return
	}

	flipped, err := s.sweeper.MarkStaleDevicesOffline()
	if err != nil {
		log.Printf("❌ [SCHEDULER] Device sweep failed: %v", err)
		return
	}
	if flipped > 0 {
		log.Printf("📡 [SCHEDULER] Marked %d silent devices offline", flipped)
	}
}
