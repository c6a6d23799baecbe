package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntguard/internal/hunter"
)

// recordingNotifier captures forwarded violations in order
type recordingNotifier struct {
	notified []Violation
}

func (r *recordingNotifier) Notify(ctx context.Context, v Violation) {
	r.notified = append(r.notified, v)
}

type fixture struct {
	store    *MemoryStore
	notifier *recordingNotifier
	detector *Detector
	hunterID uuid.UUID
	gunID    uuid.UUID
}

// newFixture seeds one hunter with a gun and a valid license
func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := NewMemoryStore()
	notifier := &recordingNotifier{}
	detector := NewDetector(store, notifier).WithClock(func() time.Time { return testNow })

	h := hunter.Hunter{Name: "Alice Novak", LicenseNumber: "SK-001", IsActive: true}
	h.ID = uuid.New()
	store.AddHunter(h)

	g := hunter.Gun{DeviceID: "GUN-001", OwnerID: h.ID, WeaponType: hunter.WeaponRifle, Status: hunter.GunStatusActive}
	g.ID = uuid.New()
	store.AddGun(g)

	store.AddLicense(HunterLicense{
		HunterID:      h.ID,
		LicenseNumber: "SK-001",
		IssueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	return &fixture{
		store:    store,
		notifier: notifier,
		detector: detector,
		hunterID: h.ID,
		gunID:    g.ID,
	}
}

func (f *fixture) addShot(lat, lng float64) hunter.Shot {
	s := hunter.Shot{GunID: f.gunID, Timestamp: testNow, Latitude: lat, Longitude: lng}
	s.ID = uuid.New()
	f.store.AddShot(s)
	return s
}

func (f *fixture) addPurchase(quantity int) {
	p := AmmunitionPurchase{HunterID: f.hunterID, AmmoType: "7.62mm", Quantity: quantity, PurchaseDate: testNow}
	p.ID = uuid.New()
	f.store.AddPurchase(p)
}

func TestDetectorCompliantShot(t *testing.T) {
	f := newFixture(t)
	f.addPurchase(20)
	shot := f.addShot(49.0, 20.0)

	violations, err := f.detector.OnShotCreated(context.Background(), shot.ID)
	require.NoError(t, err)
	assert.Empty(t, violations)
	assert.Empty(t, f.notifier.notified)
}

func TestDetectorAmmoExcess(t *testing.T) {
	f := newFixture(t)
	f.addPurchase(1)
	f.addShot(49.0, 20.0)
	trigger := f.addShot(49.0, 20.0)

	violations, err := f.detector.OnShotCreated(context.Background(), trigger.ID)
	require.NoError(t, err)
	require.Len(t, violations, 1)

	v := violations[0]
	assert.Equal(t, ViolationAmmoExcess, v.Type)
	assert.Equal(t, SeverityHigh, v.Severity)
	assert.Equal(t, f.hunterID, v.HunterID)
	require.NotNil(t, v.ShotID)
	assert.Equal(t, trigger.ID, *v.ShotID)
	require.NotNil(t, v.GunID)
	assert.Equal(t, f.gunID, *v.GunID)
	assert.Equal(t, testNow, v.DetectedAt)

	// Persisted, not just returned
	stored, err := f.store.GetViolation(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, ViolationAmmoExcess, stored.Type)

	// And forwarded
	require.Len(t, f.notifier.notified, 1)
	assert.Equal(t, v.ID, f.notifier.notified[0].ID)
}

func TestDetectorMultipleViolationsInRuleOrder(t *testing.T) {
	f := newFixture(t)
	// No purchases, shot far outside the only active zone, license missing
	f.store.AddZone(testZone("North Reserve", 49.0, 20.0, 10))
	f.store.licenses = map[uuid.UUID]HunterLicense{}
	shot := f.addShot(49.6, 20.0)

	violations, err := f.detector.OnShotCreated(context.Background(), shot.ID)
	require.NoError(t, err)
	require.Len(t, violations, 3)

	assert.Equal(t, ViolationAmmoExcess, violations[0].Type)
	assert.Equal(t, ViolationIllegalZone, violations[1].Type)
	assert.Equal(t, ViolationNoLicense, violations[2].Type)

	// Notifications follow detection order
	require.Len(t, f.notifier.notified, 3)
	for i := range violations {
		assert.Equal(t, violations[i].Type, f.notifier.notified[i].Type)
	}
}

func TestDetectorRuleFailureIsolation(t *testing.T) {
	f := newFixture(t)
	f.addPurchase(20)
	// Broken geometry makes the zone rule fail; the license rule still runs
	f.store.AddZone(testZone("Broken", 49.0, 20.0, 0))
	f.store.licenses = map[uuid.UUID]HunterLicense{}
	shot := f.addShot(49.0, 20.0)

	violations, err := f.detector.OnShotCreated(context.Background(), shot.ID)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationNoLicense, violations[0].Type)
}

func TestDetectorUnknownShot(t *testing.T) {
	f := newFixture(t)

	_, err := f.detector.OnShotCreated(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDetectorIntegrityErrors(t *testing.T) {
	t.Run("shot references missing gun", func(t *testing.T) {
		f := newFixture(t)
		orphan := hunter.Shot{GunID: uuid.New(), Timestamp: testNow, Latitude: 49.0, Longitude: 20.0}
		orphan.ID = uuid.New()
		f.store.AddShot(orphan)

		_, err := f.detector.OnShotCreated(context.Background(), orphan.ID)
		assert.ErrorIs(t, err, ErrIntegrity)
	})

	t.Run("gun references missing hunter", func(t *testing.T) {
		f := newFixture(t)
		stray := hunter.Gun{DeviceID: "GUN-999", OwnerID: uuid.New(), WeaponType: hunter.WeaponRifle, Status: hunter.GunStatusActive}
		stray.ID = uuid.New()
		f.store.AddGun(stray)
		shot := hunter.Shot{GunID: stray.ID, Timestamp: testNow, Latitude: 49.0, Longitude: 20.0}
		shot.ID = uuid.New()
		f.store.AddShot(shot)

		_, err := f.detector.OnShotCreated(context.Background(), shot.ID)
		assert.ErrorIs(t, err, ErrIntegrity)
	})
}

func TestDetectorExpiredLicense(t *testing.T) {
	f := newFixture(t)
	f.addPurchase(20)
	f.store.AddLicense(HunterLicense{
		HunterID:      f.hunterID,
		LicenseNumber: "SK-001",
		IssueDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	})
	shot := f.addShot(49.0, 20.0)

	violations, err := f.detector.OnShotCreated(context.Background(), shot.ID)
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Equal(t, ViolationInvalidLicense, violations[0].Type)
	assert.Equal(t, "2025-06-30", violations[0].Evidence["license_expiry"])
}
