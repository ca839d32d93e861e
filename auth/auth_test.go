package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
	assert.False(t, CheckPassword("not-a-hash", "anything"))
}

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.GenerateToken(42, "admin")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "admin", claims.Role)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).GenerateToken(1, "employee")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	claims := Claims{UserID: 1, Role: "admin"}

	// alg=none must never pass, even with otherwise valid claims.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(unsigned)
	assert.Error(t, err)

	// A different HMAC variant with the right secret is rejected too.
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.ValidateToken(hs512)
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	token, err := NewManager("secret", -time.Minute).GenerateToken(1, "employee")
	require.NoError(t, err)

	_, err = NewManager("secret", -time.Minute).ValidateToken(token)
	assert.Error(t, err)
}

func TestFromBearer(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", FromBearer("Bearer abc.def.ghi"))
	assert.Equal(t, "", FromBearer(""))
	assert.Equal(t, "", FromBearer("Basic dXNlcjpwYXNz"))
	assert.Equal(t, "", FromBearer("abc.def.ghi"))
}
