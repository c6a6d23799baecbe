package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *User {
	u := &User{Username: "officer.kral", Email: "kral@example.com", Role: RoleOfficer, IsActive: true}
	u.ID = uuid.New()
	return u
}

func TestTokenRoundTrip(t *testing.T) {
	service := NewService(nil, "test-secret")
	user := testUser()

	token, err := service.issueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "officer.kral", claims.Username)
	assert.Equal(t, RoleOfficer, claims.Role)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewService(nil, "secret-a")
	verifier := NewService(nil, "secret-b")

	token, err := issuer.issueToken(testUser())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	service := NewService(nil, "test-secret")

	_, err := service.ValidateToken("not.a.token")
	assert.Error(t, err)

	_, err = service.ValidateToken("")
	assert.Error(t, err)
}
