package compliance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// ErrIntegrity marks data-integrity failures (a shot whose gun or owner
// cannot be resolved). These indicate upstream corruption, not hunter
// misbehavior, and abort the whole evaluation pass.
var ErrIntegrity = errors.New("data integrity error")

// Detector runs the violation rules against each newly created shot,
// persists the findings and forwards them to the notification sink.
type Detector struct {
	store    Store
	notifier Notifier
	rules    []RuleFunc
	now      func() time.Time
}

func NewDetector(store Store, notifier Notifier) *Detector {
	return &Detector{
		store:    store,
		notifier: notifier,
		rules:    Rules(),
		now:      time.Now,
	}
}

// WithClock overrides the evaluation clock. Used by tests.
func (d *Detector) WithClock(now func() time.Time) *Detector {
	d.now = now
	return d
}

// OnShotCreated evaluates every compliance rule against the shot and returns
// the violations persisted for it. Invoked exactly once per durably committed
// shot. Business findings are not errors; only infrastructure and integrity
// failures surface as error.
func (d *Detector) OnShotCreated(ctx context.Context, shotID uuid.UUID) ([]Violation, error) {
	sc, err := d.loadContext(ctx, shotID)
	if err != nil {
		return nil, err
	}

	var violations []Violation
	for _, rule := range d.rules {
		finding, err := rule(sc)
		if err != nil {
			// A failing evaluator must not abort its siblings
			log.Printf("❌ [COMPLIANCE] Rule evaluator failed for shot %s: %v", shotID, err)
			continue
		}
		if finding == nil {
			continue
		}

		v := d.buildViolation(sc, finding)
		if err := d.store.CreateViolation(ctx, v); err != nil {
			return violations, fmt.Errorf("failed to persist %s violation: %w", finding.Type, err)
		}
		violations = append(violations, *v)

		d.notifier.Notify(ctx, *v)
	}

	if len(violations) > 0 {
		log.Printf("⚠️  [COMPLIANCE] %d violation(s) detected for shot by %s", len(violations), sc.Hunter.Name)
	}

	return violations, nil
}

// loadContext assembles the read-only snapshot the rules evaluate against
func (d *Detector) loadContext(ctx context.Context, shotID uuid.UUID) (*ShotContext, error) {
	shot, err := d.store.GetShot(ctx, shotID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shot %s: %w", shotID, err)
	}

	gun, err := d.store.GetGun(ctx, shot.GunID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: shot %s references missing gun %s", ErrIntegrity, shotID, shot.GunID)
		}
		return nil, err
	}

	owner, err := d.store.GetHunter(ctx, gun.OwnerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: gun %s references missing hunter %s", ErrIntegrity, gun.ID, gun.OwnerID)
		}
		return nil, err
	}

	lifetimeShots, err := d.store.CountShotsByHunter(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	lifetimePurchased, err := d.store.SumPurchasedByHunter(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	zones, err := d.store.ListEnabledZones(ctx)
	if err != nil {
		return nil, err
	}

	license, err := d.store.GetLicenseByHunter(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	return &ShotContext{
		Shot:              *shot,
		Gun:               *gun,
		Hunter:            *owner,
		LifetimeShots:     lifetimeShots,
		LifetimePurchased: lifetimePurchased,
		EnabledZones:      zones,
		License:           license,
		Now:               d.now(),
	}, nil
}

func (d *Detector) buildViolation(sc *ShotContext, f *Finding) *Violation {
	shotID := sc.Shot.ID
	gunID := sc.Gun.ID

	return &Violation{
		HunterID:    sc.Hunter.ID,
		Type:        f.Type,
		Severity:    f.Severity,
		ShotID:      &shotID,
		GunID:       &gunID,
		ZoneID:      f.ZoneID,
		Description: f.Description,
		Evidence:    f.Evidence.ToJSONB(),
		DetectedAt:  sc.Now,
	}
}
