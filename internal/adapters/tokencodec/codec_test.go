package tokencodec

import (
	"encoding/base64"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/clinic-portal/internal/domain/auth"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestDecodeRole_StripsPrefix(t *testing.T) {
	role, ok := DecodeRole(signed(t, jwt.MapClaims{"sub": "alice", "role": "ROLE_ADMIN"}))
	assert.True(t, ok)
	assert.Equal(t, domainauth.RoleAdmin, role)
}

func TestDecodeRole_PassesThroughUnprefixed(t *testing.T) {
	role, ok := DecodeRole(signed(t, jwt.MapClaims{"role": "DOCTOR"}))
	assert.True(t, ok)
	assert.Equal(t, domainauth.RoleDoctor, role)

	role, ok = DecodeRole(signed(t, jwt.MapClaims{"role": "NURSE"}))
	assert.True(t, ok)
	assert.Equal(t, domainauth.Role("NURSE"), role)
}

func TestDecodeRole_IgnoresExpiry(t *testing.T) {
	role, ok := DecodeRole(signed(t, jwt.MapClaims{"role": "ROLE_PATIENT", "exp": 1}))
	assert.True(t, ok)
	assert.Equal(t, domainauth.RolePatient, role)
}

func TestDecodeRole_ReadsClaimsSegmentOnly(t *testing.T) {
	raw := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }
	// 28 bytes of JSON encode with trailing padding.
	padded := base64.URLEncoding.EncodeToString([]byte(`{"role":"ROLE_ADMIN","n":12}`))
	require.Contains(t, padded, "=")

	payload := raw(`{"role":"ROLE_ADMIN"}`)
	tests := []struct {
		name  string
		token string
	}{
		{"header without alg", raw(`{"typ":"JWT"}`) + "." + payload + ".sig"},
		{"unknown alg", raw(`{"alg":"XYZ","typ":"JWT"}`) + "." + payload + ".sig"},
		{"alg none unsigned", raw(`{"alg":"none"}`) + "." + payload + "."},
		{"padded payload", raw(`{"alg":"HS256"}`) + "." + padded + ".sig"},
		{"two segments", raw(`{"alg":"HS256"}`) + "." + payload},
		{"undecodable header", "!!!." + payload + ".sig"},
		{"surrounding whitespace", "  " + raw(`{"alg":"HS256"}`) + "." + payload + ".sig\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := DecodeRole(tt.token)
			assert.True(t, ok)
			assert.Equal(t, domainauth.RoleAdmin, role)
		})
	}
}

func TestDecodeRole_Absent(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"no separator", "opaque-token"},
		{"missing claims segment", header},
		{"empty claims segment", header + "..sig"},
		{"undecodable claims", header + ".!!!." + "sig"},
		{"claims not json", header + "." + enc("not json") + ".sig"},
		{"claims json array", header + "." + enc(`["role"]`) + ".sig"},
		{"missing role", signed(t, jwt.MapClaims{"sub": "bob"})},
		{"role not string", signed(t, jwt.MapClaims{"role": []string{"ROLE_ADMIN"}})},
		{"role numeric", signed(t, jwt.MapClaims{"role": 7})},
		{"role null", signed(t, jwt.MapClaims{"role": nil})},
		{"role empty", signed(t, jwt.MapClaims{"role": ""})},
		{"prefix only", signed(t, jwt.MapClaims{"role": "ROLE_"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				role, ok := DecodeRole(tt.token)
				assert.False(t, ok)
				assert.Empty(t, role)
			})
		})
	}
}

func TestCodec_ImplementsDecoder(t *testing.T) {
	role, ok := Codec{}.DecodeRole(signed(t, jwt.MapClaims{"role": "ROLE_DOCTOR"}))
	assert.True(t, ok)
	assert.Equal(t, domainauth.RoleDoctor, role)
}
