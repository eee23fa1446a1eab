package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef-bedside"

func TestIssueAndVerify(t *testing.T) {
	v, err := NewVerifier(secret, "bedside", "dashboard")
	require.NoError(t, err)

	token, err := v.Issue("nurse-7", "clinician", time.Now(), time.Hour)
	require.NoError(t, err)

	claims, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "nurse-7", claims.Subject)
	assert.Equal(t, "clinician", claims.Role)
}

func TestVerifyRejects(t *testing.T) {
	v, err := NewVerifier(secret, "bedside", "dashboard")
	require.NoError(t, err)

	_, err = v.Verify("")
	assert.ErrorIs(t, err, ErrTokenEmpty)

	expired, err := v.Issue("n", "", time.Now().Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	other, err := NewVerifier(secret, "bedside", "billing")
	require.NoError(t, err)
	foreign, err := other.Issue("n", "", time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(foreign)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	wrongKey, err := NewVerifier("another-secret-of-length", "bedside", "dashboard")
	require.NoError(t, err)
	forged, err := wrongKey.Issue("n", "", time.Now(), time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(forged)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewVerifierRejectsShortSecret(t *testing.T) {
	_, err := NewVerifier("short", "i", "a")
	assert.Error(t, err)
}
