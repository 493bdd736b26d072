package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/boba-pos-backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "Boba POS"},
		JWT:      config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", AccessTokenExpiry: time.Hour},
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager(testConfig())

	token, err := m.GenerateAccessToken(12, "mgr@boba.test", "manager")
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(12), claims.EmployeeID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "mgr@boba.test", claims.Email)
	assert.Equal(t, int64(3600), m.ExpiresIn())
}

func TestJWTManager_RejectsForeignSignature(t *testing.T) {
	token, err := NewJWTManager(testConfig()).GenerateAccessToken(1, "a@b.c", "cashier")
	require.NoError(t, err)

	other := testConfig()
	other.JWT.Secret = strings.Repeat("x", 32)
	_, err = NewJWTManager(other).ValidateAccessToken(token)
	assert.Error(t, err, "signature mismatch")
}

func TestJWTManager_RejectsExpired(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.AccessTokenExpiry = -time.Minute

	m := NewJWTManager(cfg)
	token, err := m.GenerateAccessToken(1, "a@b.c", "cashier")
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err, "expired token")
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := map[string]string{
		"Bearer abc.def": "abc.def",
		"bearer abc.def": "abc.def",
		"Basic abc":      "",
		"":               "",
	}
	for header, want := range tests {
		assert.Equal(t, want, ExtractTokenFromHeader(header), "ExtractTokenFromHeader(%q)", header)
	}
}

func TestPasswordManager(t *testing.T) {
	p := NewPasswordManager(testConfig())

	hash, err := p.HashPassword("Tapioca42")
	require.NoError(t, err)
	assert.NoError(t, p.VerifyPassword("Tapioca42", hash))
	assert.Error(t, p.VerifyPassword("tapioca42", hash), "wrong password")

	_, err = p.HashPassword("weak")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestPasswordManager_ValidatePassword(t *testing.T) {
	p := NewPasswordManager(testConfig())

	tests := []struct {
		password string
		wantErr  bool
	}{
		{"Tapioca42", false},
		{"short1A", true},
		{"alllowercase1", true},
		{"ALLUPPERCASE1", true},
		{"NoNumbersHere", true},
		{"Baaad1234x", true},
		{"MyPassword9", true},
		{"BobaTea2024", true},
	}

	for _, tt := range tests {
		err := p.ValidatePassword(tt.password)
		if tt.wantErr {
			assert.Error(t, err, "ValidatePassword(%q)", tt.password)
		} else {
			assert.NoError(t, err, "ValidatePassword(%q)", tt.password)
		}
	}
}
