package compliance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIllegalZoneEvidencePayload(t *testing.T) {
	ts := time.Date(2025, 10, 15, 10, 30, 0, 0, time.UTC)
	e := IllegalZoneEvidence{Latitude: 49.6, Longitude: 20.0, Timestamp: ts}

	payload := e.ToJSONB()
	assert.Equal(t, "2025-10-15T10:30:00Z", payload["timestamp"])

	loc, ok := payload["shot_location"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 49.6, loc["lat"])
	assert.Equal(t, 20.0, loc["lng"])
}

func TestNoLicenseEvidencePayload(t *testing.T) {
	id := uuid.New()
	payload := NoLicenseEvidence{HunterID: id}.ToJSONB()
	assert.Equal(t, id.String(), payload["hunter_id"])
}

func TestEvidenceSurvivesJSONRoundTrip(t *testing.T) {
	payload := InvalidLicenseEvidence{
		LicenseExpiry: time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
		Suspended:     true,
	}.ToJSONB()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "2025-06-30", decoded["license_expiry"])
	assert.Equal(t, true, decoded["suspended"])
}
