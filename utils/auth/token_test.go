package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyRoundTrip(t *testing.T) {
	v := NewJWTVerifier(VerifierConfig{
		Secret: "test-secret",
		Issuer: "collabity-identity",
		Expiry: time.Hour,
	})

	token, err := v.Issue("firebase-uid-123", "prof@example.edu")
	require.NoError(t, err)

	uid, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "firebase-uid-123", uid)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTVerifier(VerifierConfig{Secret: "secret-a"})
	verifier := NewJWTVerifier(VerifierConfig{Secret: "secret-b"})

	token, err := issuer.Issue("uid", "")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := NewJWTVerifier(VerifierConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})

	token, err := v.Issue("uid", "")
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsEmptySubject(t *testing.T) {
	v := NewJWTVerifier(VerifierConfig{Secret: "test-secret"})

	token, err := v.Issue("", "")
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := NewJWTVerifier(VerifierConfig{Secret: "test-secret"})

	_, err := v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
