// Package tokencodec decodes the role claim carried by clinic API bearer tokens.
package tokencodec

import (
	"encoding/json"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	domainauth "github.com/target/clinic-portal/internal/domain/auth"
	"github.com/target/clinic-portal/internal/ports"
)

// RolePrefix is stripped from the role claim when present.
const RolePrefix = "ROLE_"

const roleClaim = "role"

var _ ports.RoleDecoder = Codec{}

// Codec reads claims without verifying signatures; the API verifies tokens on every call.
type Codec struct{}

// DecodeRole implements ports.RoleDecoder.
func (Codec) DecodeRole(token string) (domainauth.Role, bool) {
	return DecodeRole(token)
}

// segmentAlphabet maps standard base64 onto the URL-safe alphabet.
var segmentAlphabet = strings.NewReplacer("+", "-", "/", "_")

// DecodeRole returns the role claim of token with RolePrefix removed.
// Only the claims segment is read: the header, the algorithm, and the
// signature are ignored, and padded or standard-alphabet base64 is accepted.
// A missing claims segment, undecodable base64, bad JSON, and a missing or
// non-string claim all yield ok=false. Expiry is not checked.
func DecodeRole(token string) (domainauth.Role, bool) {
	claims, ok := decodeClaims(strings.TrimSpace(token))
	if !ok {
		return "", false
	}

	raw, ok := claims[roleClaim].(string)
	if !ok {
		return "", false
	}
	role := strings.TrimPrefix(raw, RolePrefix)
	if role == "" {
		return "", false
	}
	return domainauth.Role(role), true
}

func decodeClaims(token string) (jwt.MapClaims, bool) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 || parts[1] == "" {
		return nil, false
	}

	seg := segmentAlphabet.Replace(strings.TrimRight(parts[1], "="))
	raw, err := jwt.DecodeSegment(seg)
	if err != nil {
		return nil, false
	}

	claims := jwt.MapClaims{}
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, false
	}
	return claims, true
}
