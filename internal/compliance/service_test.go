package compliance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedViolation(t *testing.T, store *MemoryStore, hunterID uuid.UUID) Violation {
	t.Helper()

	v := Violation{
		HunterID:    hunterID,
		Type:        ViolationAmmoExcess,
		Severity:    SeverityHigh,
		Description: "Hunter has fired 21 shots but only purchased 20 rounds",
		Evidence:    map[string]interface{}{"shots_fired": int64(21), "ammo_purchased": int64(20)},
		DetectedAt:  testNow,
	}
	require.NoError(t, store.CreateViolation(context.Background(), &v))
	return v
}

func TestResolveViolation(t *testing.T) {
	store := NewMemoryStore()
	service := NewServiceWithStore(store).WithClock(func() time.Time { return testNow })
	hunterID := uuid.New()

	t.Run("resolves an open violation", func(t *testing.T) {
		v := seedViolation(t, store, hunterID)

		resolved, err := service.ResolveViolation(context.Background(), v.ID, "officer.kral", "warning issued")
		require.NoError(t, err)
		assert.True(t, resolved.Resolved)
		assert.Equal(t, "officer.kral", resolved.ResolvedBy)
		assert.Equal(t, "warning issued", resolved.Notes)
		require.NotNil(t, resolved.ResolvedAt)
		assert.Equal(t, testNow, *resolved.ResolvedAt)

		stored, err := store.GetViolation(context.Background(), v.ID)
		require.NoError(t, err)
		assert.True(t, stored.Resolved)
	})

	t.Run("second resolve is a conflict", func(t *testing.T) {
		v := seedViolation(t, store, hunterID)

		_, err := service.ResolveViolation(context.Background(), v.ID, "officer.kral", "")
		require.NoError(t, err)

		_, err = service.ResolveViolation(context.Background(), v.ID, "officer.novak", "duplicate")
		assert.ErrorIs(t, err, ErrAlreadyResolved)

		// First resolution is untouched
		stored, err := store.GetViolation(context.Background(), v.ID)
		require.NoError(t, err)
		assert.Equal(t, "officer.kral", stored.ResolvedBy)
	})

	t.Run("unknown violation", func(t *testing.T) {
		_, err := service.ResolveViolation(context.Background(), uuid.New(), "officer.kral", "")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListViolationsFilters(t *testing.T) {
	store := NewMemoryStore()
	service := NewServiceWithStore(store).WithClock(func() time.Time { return testNow })

	alice := uuid.New()
	bob := uuid.New()

	a1 := seedViolation(t, store, alice)
	seedViolation(t, store, bob)
	old := Violation{
		HunterID:   alice,
		Type:       ViolationIllegalZone,
		Severity:   SeverityHigh,
		DetectedAt: testNow.AddDate(0, -2, 0),
	}
	require.NoError(t, store.CreateViolation(context.Background(), &old))

	t.Run("by hunter", func(t *testing.T) {
		got, err := service.ListViolations(context.Background(), ViolationFilter{HunterID: &alice})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("unresolved only", func(t *testing.T) {
		_, err := service.ResolveViolation(context.Background(), a1.ID, "officer.kral", "")
		require.NoError(t, err)

		got, err := service.ListViolations(context.Background(), ViolationFilter{UnresolvedOnly: true})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("recent window excludes old violations", func(t *testing.T) {
		got, err := service.RecentViolations(context.Background())
		require.NoError(t, err)
		for _, v := range got {
			assert.NotEqual(t, old.ID, v.ID)
		}
	})
}

func TestViolationStats(t *testing.T) {
	store := NewMemoryStore()
	service := NewServiceWithStore(store).WithClock(func() time.Time { return testNow })
	hunterID := uuid.New()

	v1 := seedViolation(t, store, hunterID)
	seedViolation(t, store, hunterID)
	critical := Violation{HunterID: hunterID, Type: ViolationNoLicense, Severity: SeverityCritical, DetectedAt: testNow}
	require.NoError(t, store.CreateViolation(context.Background(), &critical))

	_, err := service.ResolveViolation(context.Background(), v1.ID, "officer.kral", "")
	require.NoError(t, err)

	stats, err := service.GetViolationStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Unresolved)
	assert.Equal(t, int64(2), stats.ByType[ViolationAmmoExcess])
	assert.Equal(t, int64(1), stats.ByType[ViolationNoLicense])
	assert.Equal(t, int64(1), stats.BySeverity[SeverityCritical])
}

func TestActiveZonesFiltering(t *testing.T) {
	store := NewMemoryStore()
	service := NewServiceWithStore(store).WithClock(func() time.Time { return testNow })

	open := testZone("Open Reserve", 49.0, 20.0, 10)
	closed := testZone("Closed Reserve", 50.0, 21.0, 10)
	closed.SeasonEnd = time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	store.AddZone(open)
	store.AddZone(closed)

	zones, err := service.ActiveZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "Open Reserve", zones[0].Name)
}

func TestLicenseStats(t *testing.T) {
	store := NewMemoryStore()
	service := NewServiceWithStore(store).WithClock(func() time.Time { return testNow })

	store.AddLicense(HunterLicense{HunterID: uuid.New(), LicenseNumber: "SK-100",
		ExpiryDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)})
	store.AddLicense(HunterLicense{HunterID: uuid.New(), LicenseNumber: "SK-101",
		ExpiryDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)})
	store.AddLicense(HunterLicense{HunterID: uuid.New(), LicenseNumber: "SK-102",
		ExpiryDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), IsSuspended: true})
	store.AddLicense(HunterLicense{HunterID: uuid.New(), LicenseNumber: "SK-103",
		ExpiryDate: time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)})

	stats, err := service.GetLicenseStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Valid)
	assert.Equal(t, int64(1), stats.Expired)
	assert.Equal(t, int64(1), stats.Suspended)
	assert.Equal(t, int64(1), stats.ExpiringSoon)

	expiring, err := service.ExpiringLicenses(context.Background())
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "SK-103", expiring[0].LicenseNumber)
}

// A license expiring today counts as valid through the whole day, so the
// expiring-soon window must start at today's date, not the current time.
func TestExpiringLicensesIncludesExpiryToday(t *testing.T) {
	store := NewMemoryStore()
	service := NewServiceWithStore(store).WithClock(func() time.Time { return testNow })

	lic := HunterLicense{HunterID: uuid.New(), LicenseNumber: "SK-200",
		ExpiryDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)}
	require.True(t, lic.Valid(testNow))
	store.AddLicense(lic)

	expiring, err := service.ExpiringLicenses(context.Background())
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "SK-200", expiring[0].LicenseNumber)
}
