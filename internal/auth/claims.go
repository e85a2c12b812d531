package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim. A token is minted as exactly one
// of these and is only ever accepted where its type is expected.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims is the payload embedded in every token. Access tokens carry an
// email and role snapshot taken at issuance time; refresh tokens carry only
// the subject id because the role may drift over their longer lifetime.
// The claim names match the original wire format (user_id, user_role, type)
// so existing clients keep working.
type Claims struct {
	UserID    uint64 `json:"user_id"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"user_role,omitempty"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// Config is the immutable signing configuration shared by Issuer and
// Verifier. It is built once at startup; passing it explicitly (rather than
// reading process-wide state) lets tests run with multiple secrets side by
// side.
type Config struct {
	Secret     string        // HMAC signing secret
	Algorithm  string        // signing algorithm name, e.g. "HS256"
	AccessTTL  time.Duration // lifetime of access tokens
	RefreshTTL time.Duration // lifetime of refresh tokens
}

// Token is an encoded, signed token together with its expiry. The expiry is
// returned to clients so they can schedule refreshes without decoding the
// token themselves.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires"`
}
