package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Codec turns Claims into compact signed tokens and back. Encoding and
// decoding are pure functions of the configured secret and algorithm; the
// signature covers the whole payload, so mutating any claim invalidates the
// token.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	alg    string
}

// NewCodec builds a Codec for the given signing configuration. Only HMAC
// algorithms are supported; an unknown algorithm name is a startup error,
// not a per-request one.
func NewCodec(cfg Config) (Codec, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return Codec{}, fmt.Errorf("auth: unknown signing algorithm %q", cfg.Algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return Codec{}, fmt.Errorf("auth: unsupported signing algorithm %q", cfg.Algorithm)
	}
	return Codec{secret: []byte(cfg.Secret), method: method, alg: cfg.Algorithm}, nil
}

// Encode serializes and signs the claims, returning the compact token string.
func (c Codec) Encode(claims *Claims) (string, error) {
	return jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
}

// Decode parses and validates a token string. It returns ErrExpired for a
// well-formed, correctly signed token that is past its expiry, and
// ErrMalformed for everything else: bad structure, bad signature, or a
// signing algorithm other than the configured one. No claims are returned on
// failure.
func (c Codec) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{c.alg}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}
	if !tok.Valid {
		return nil, ErrMalformed
	}
	return claims, nil
}
