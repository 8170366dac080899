package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokens(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)

	_, err = NewTokens("secret", 0)
	assert.Error(t, err)

	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)
	assert.NotNil(t, tokens)
}

func TestTokens_IssueAndVerify(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	signed, expiresAt, err := tokens.Issue("user-42")
	require.NoError(t, err)
	assert.NotEmpty(t, signed)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 2*time.Second)

	subject, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestTokens_IssueRequiresSubject(t *testing.T) {
	tokens, _ := NewTokens("secret", time.Hour)
	_, _, err := tokens.Issue("")
	assert.Error(t, err)
}

func TestTokens_VerifyRejects(t *testing.T) {
	tokens, _ := NewTokens("secret", time.Hour)

	otherSecret, _ := NewTokens("other", time.Hour)
	foreign, _, err := otherSecret.Issue("user-42")
	require.NoError(t, err)

	expired, _ := NewTokens("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	stale, _, err := expired.Issue("user-42")
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Issuer:  issuer,
		Subject: "user-42",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong secret", foreign},
		{"expired", stale},
		{"missing expiry", noExpiry},
		{"wrong issuer", wrongIssuer},
		{"unexpected algorithm", hs512},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestOwnerContext(t *testing.T) {
	_, ok := OwnerFrom(context.Background())
	assert.False(t, ok)

	_, ok = OwnerFrom(WithOwner(context.Background(), ""))
	assert.False(t, ok)

	owner, ok := OwnerFrom(WithOwner(context.Background(), "user-42"))
	assert.True(t, ok)
	assert.Equal(t, "user-42", owner)
}
