package compliance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"huntguard/internal/hunter"
)

// Wednesday, mid-season, mid-morning
var testNow = time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

func testZone(name string, lat, lng, radiusKm float64) HuntingZone {
	z := HuntingZone{
		Name:            name,
		CenterLatitude:  lat,
		CenterLongitude: lng,
		RadiusKm:        radiusKm,
		SeasonStart:     time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		SeasonEnd:       time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		DailyStartTime:  "06:00",
		DailyEndTime:    "18:00",
		AllowedWeekdays: "0,1,2,3,4,5,6",
		IsActive:        true,
	}
	z.ID = uuid.New()
	return z
}

func testContext() *ShotContext {
	hunterID := uuid.New()
	gunID := uuid.New()

	h := hunter.Hunter{Name: "Alice Novak", LicenseNumber: "SK-001"}
	h.ID = hunterID
	g := hunter.Gun{OwnerID: hunterID, WeaponType: hunter.WeaponRifle, Status: hunter.GunStatusActive}
	g.ID = gunID
	s := hunter.Shot{GunID: gunID, Timestamp: testNow, Latitude: 49.0, Longitude: 20.0}
	s.ID = uuid.New()

	license := HunterLicense{
		HunterID:      hunterID,
		LicenseNumber: "SK-001",
		IssueDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiryDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	return &ShotContext{
		Shot:              s,
		Gun:               g,
		Hunter:            h,
		LifetimeShots:     5,
		LifetimePurchased: 100,
		License:           &license,
		Now:               testNow,
	}
}

func TestAmmunitionOveruse(t *testing.T) {
	t.Run("more shots than purchased", func(t *testing.T) {
		sc := testContext()
		sc.LifetimeShots = 21
		sc.LifetimePurchased = 20

		finding, err := evaluateAmmunitionOveruse(sc)
		require.NoError(t, err)
		require.NotNil(t, finding)
		assert.Equal(t, ViolationAmmoExcess, finding.Type)
		assert.Equal(t, SeverityHigh, finding.Severity)

		evidence := finding.Evidence.ToJSONB()
		assert.Equal(t, int64(21), evidence["shots_fired"])
		assert.Equal(t, int64(20), evidence["ammo_purchased"])
	})

	t.Run("equal counts are compliant", func(t *testing.T) {
		sc := testContext()
		sc.LifetimeShots = 20
		sc.LifetimePurchased = 20

		finding, err := evaluateAmmunitionOveruse(sc)
		require.NoError(t, err)
		assert.Nil(t, finding)
	})

	t.Run("zero purchases and one shot", func(t *testing.T) {
		sc := testContext()
		sc.LifetimeShots = 1
		sc.LifetimePurchased = 0

		finding, err := evaluateAmmunitionOveruse(sc)
		require.NoError(t, err)
		require.NotNil(t, finding)
		assert.Equal(t, ViolationAmmoExcess, finding.Type)
	})
}

func TestHuntingZoneRule(t *testing.T) {
	t.Run("shot far outside the only active zone", func(t *testing.T) {
		sc := testContext()
		sc.EnabledZones = []HuntingZone{testZone("North Reserve", 49.0, 20.0, 10)}
		sc.Shot.Latitude = 49.6 // ~67km north of center
		sc.Shot.Longitude = 20.0

		finding, err := evaluateHuntingZone(sc)
		require.NoError(t, err)
		require.NotNil(t, finding)
		assert.Equal(t, ViolationIllegalZone, finding.Type)
		assert.Equal(t, SeverityHigh, finding.Severity)

		evidence := finding.Evidence.ToJSONB()
		loc, ok := evidence["shot_location"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 49.6, loc["lat"])
		assert.Equal(t, 20.0, loc["lng"])
	})

	t.Run("shot inside an active zone", func(t *testing.T) {
		sc := testContext()
		sc.EnabledZones = []HuntingZone{testZone("North Reserve", 49.0, 20.0, 10)}
		sc.Shot.Latitude = 49.01 // ~1.1km from center
		sc.Shot.Longitude = 20.0

		finding, err := evaluateHuntingZone(sc)
		require.NoError(t, err)
		assert.Nil(t, finding)
	})

	t.Run("no zones configured", func(t *testing.T) {
		sc := testContext()
		sc.EnabledZones = nil
		sc.Shot.Latitude = 49.6

		finding, err := evaluateHuntingZone(sc)
		require.NoError(t, err)
		assert.Nil(t, finding)
	})

	t.Run("all zones outside their season", func(t *testing.T) {
		z := testZone("Winter Grounds", 49.0, 20.0, 10)
		z.SeasonStart = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
		z.SeasonEnd = time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

		sc := testContext()
		sc.EnabledZones = []HuntingZone{z}
		sc.Shot.Latitude = 49.6

		finding, err := evaluateHuntingZone(sc)
		require.NoError(t, err)
		assert.Nil(t, finding)
	})

	t.Run("inside the second of two active zones", func(t *testing.T) {
		sc := testContext()
		sc.EnabledZones = []HuntingZone{
			testZone("North Reserve", 49.5, 20.0, 5),
			testZone("South Reserve", 49.0, 20.0, 10),
		}
		sc.Shot.Latitude = 49.0
		sc.Shot.Longitude = 20.0

		finding, err := evaluateHuntingZone(sc)
		require.NoError(t, err)
		assert.Nil(t, finding)
	})

	t.Run("non-positive radius is an evaluator error", func(t *testing.T) {
		z := testZone("Broken", 49.0, 20.0, 0)

		sc := testContext()
		sc.EnabledZones = []HuntingZone{z}

		finding, err := evaluateHuntingZone(sc)
		assert.ErrorIs(t, err, errBadZoneGeometry)
		assert.Nil(t, finding)
	})
}

func TestLicenseRule(t *testing.T) {
	t.Run("no license on record", func(t *testing.T) {
		sc := testContext()
		sc.License = nil

		finding, err := evaluateLicense(sc)
		require.NoError(t, err)
		require.NotNil(t, finding)
		assert.Equal(t, ViolationNoLicense, finding.Type)
		assert.Equal(t, SeverityCritical, finding.Severity)

		evidence := finding.Evidence.ToJSONB()
		assert.Equal(t, sc.Hunter.ID.String(), evidence["hunter_id"])
	})

	t.Run("expired license", func(t *testing.T) {
		sc := testContext()
		sc.License.ExpiryDate = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

		finding, err := evaluateLicense(sc)
		require.NoError(t, err)
		require.NotNil(t, finding)
		assert.Equal(t, ViolationInvalidLicense, finding.Type)
		assert.Equal(t, SeverityCritical, finding.Severity)

		evidence := finding.Evidence.ToJSONB()
		assert.Equal(t, "2025-06-30", evidence["license_expiry"])
		assert.Equal(t, false, evidence["suspended"])
	})

	t.Run("suspended license", func(t *testing.T) {
		sc := testContext()
		sc.License.IsSuspended = true
		sc.License.SuspensionReason = "pending investigation"

		finding, err := evaluateLicense(sc)
		require.NoError(t, err)
		require.NotNil(t, finding)
		assert.Equal(t, ViolationInvalidLicense, finding.Type)
		assert.Equal(t, true, finding.Evidence.ToJSONB()["suspended"])
	})

	t.Run("license expiring today is still valid", func(t *testing.T) {
		sc := testContext()
		sc.License.ExpiryDate = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

		finding, err := evaluateLicense(sc)
		require.NoError(t, err)
		assert.Nil(t, finding)
	})

	t.Run("valid license", func(t *testing.T) {
		sc := testContext()

		finding, err := evaluateLicense(sc)
		require.NoError(t, err)
		assert.Nil(t, finding)
	})
}
