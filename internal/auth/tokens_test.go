package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"users-api/internal/auth"
)

var testSigningKey = []byte("0123456789abcdef0123456789abcdef")

func newTokenService() *auth.TokenService {
	return auth.NewTokenService(testSigningKey, "users-api", []string{"users-api-clients"})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := ts.Verify(token, "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Empty(t, claims.Purpose)
	assert.Equal(t, "users-api", claims.Issuer)
}

func TestVerifyStripsBearerPrefix(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	claims, err := ts.Verify("Bearer "+token, "")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestResetTokenPurpose(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueResetToken("user-1", "a@x.com")
	require.NoError(t, err)

	claims, err := ts.Verify(token, auth.PurposePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, auth.PurposePasswordReset, claims.Purpose)

	// a reset token must not authenticate as an access token
	_, err = ts.Verify(token, "")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	// and an access token must not redeem a reset
	access, err := ts.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)
	_, err = ts.Verify(access, auth.PurposePasswordReset)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifyExpiredToken(t *testing.T) {
	issued := time.Now().Add(-48 * time.Hour)
	past := auth.NewTokenService(testSigningKey, "users-api", []string{"users-api-clients"}).
		WithClock(func() time.Time { return issued })

	token, err := past.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = newTokenService().Verify(token, "")
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerifyTamperedToken(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = ts.Verify(token+"x", "")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	_, err = ts.Verify("not-even-a-jwt", "")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifyWrongKey(t *testing.T) {
	ts := newTokenService()

	token, err := ts.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	other := auth.NewTokenService([]byte("ffffffffffffffffffffffffffffffff"), "users-api", []string{"users-api-clients"})
	_, err = other.Verify(token, "")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerifyWrongIssuer(t *testing.T) {
	other := auth.NewTokenService(testSigningKey, "someone-else", []string{"users-api-clients"})

	token, err := other.IssueAccessToken("user-1", "a@x.com")
	require.NoError(t, err)

	_, err = newTokenService().Verify(token, "")
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc", auth.StripBearer("Bearer abc"))
	assert.Equal(t, "abc", auth.StripBearer("bearer abc"))
	assert.Equal(t, "abc", auth.StripBearer("abc"))
	assert.Equal(t, "", auth.StripBearer(""))
	assert.Equal(t, "Bearer", auth.StripBearer("Bearer"))
}
