package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/university-admin/internal/model"
)

// Issuer mints access and refresh tokens for users. It holds no mutable
// state and performs no I/O; issuing a token records nothing server-side.
type Issuer struct {
	codec      Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewIssuer builds an Issuer over the given codec and configuration.
func NewIssuer(codec Codec, cfg Config) *Issuer {
	return &Issuer{codec: codec, accessTTL: cfg.AccessTTL, refreshTTL: cfg.RefreshTTL}
}

// Access issues a short-lived access token for u. The claims carry an email
// and role snapshot so clients can render UI without an extra round-trip;
// verification still re-reads the live record.
func (i *Issuer) Access(u model.User) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(i.accessTTL)
	claims := &Claims{
		UserID:    u.ID,
		Email:     u.Email,
		Role:      u.Role,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := i.codec.Encode(claims)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// Refresh issues a long-lived refresh token for u. Only the subject id is
// carried: the role is re-read from the store when the token is exchanged,
// so a demoted user is demoted on their next refresh.
func (i *Issuer) Refresh(u model.User) (Token, error) {
	now := time.Now().UTC()
	exp := now.Add(i.refreshTTL)
	claims := &Claims{
		UserID:    u.ID,
		TokenType: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := i.codec.Encode(claims)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}
