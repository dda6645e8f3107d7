package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("secret", time.Hour)
	token, err := svc.GenerateToken(7, "professional")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, claims.AccountID)
	assert.Equal(t, "professional", claims.Role)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := New("secret", time.Hour)

	other, err := New("other-secret", time.Hour).GenerateToken(7, "admin")
	require.NoError(t, err)
	_, err = svc.ValidateToken(other)
	assert.Error(t, err)

	expired, err := New("secret", -time.Minute).GenerateToken(7, "admin")
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.Error(t, err)

	none, err := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{AccountID: 7, Role: "admin"}).
		SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(none)
	assert.Error(t, err)
}
