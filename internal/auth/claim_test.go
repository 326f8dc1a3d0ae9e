package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jesite/jesite/internal/db/models"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("s3cr3t", time.Hour, "jesite")
	roleID := uint(3)

	token, issued, err := signer.Issue(&models.User{ID: 7, Email: "a@example.org", LegacyRole: "Admin", RoleID: &roleID})
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := signer.Parse(token)
	require.NoError(t, err)

	assert.Equal(t, "a@example.org", claims.Email)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "Admin", claims.Role)
	require.NotNil(t, claims.RoleID)
	assert.Equal(t, roleID, *claims.RoleID)
	assert.Equal(t, issued.ID, claims.ID)
	assert.Equal(t, []RoleAssertion{LegacyRole("Admin")}, claims.Assertions())
}

func TestSignerRejects(t *testing.T) {
	signer := NewSigner("s3cr3t", time.Hour, "jesite")

	token, _, err := signer.Issue(&models.User{ID: 1, Email: "a@example.org"})
	require.NoError(t, err)

	expired := NewSigner("s3cr3t", time.Hour, "jesite")
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	testCases := []struct {
		name   string
		signer *Signer
		token  string
	}{
		{name: "garbage", signer: signer, token: "not-a-token"},
		{name: "wrong secret", signer: NewSigner("other", time.Hour, "jesite"), token: token},
		{name: "wrong issuer", signer: NewSigner("s3cr3t", time.Hour, "elsewhere"), token: token},
		{name: "expired", signer: expired, token: token},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := tc.signer.Parse(tc.token)
			require.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestClaimsWithoutLegacyRole(t *testing.T) {
	assert.Empty(t, (&Claims{Email: "a@example.org"}).Assertions())
	assert.Empty(t, (*Claims)(nil).Assertions())
}
