package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/university-admin/internal/model"
)

// UserStore is the slice of the user repository the verifier needs: a lookup
// by primary key. Implementations return sql.ErrNoRows when no such user
// exists. The lookup may block on storage I/O and honors ctx cancellation;
// an abandoned verification has no side effects to unwind.
type UserStore interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// Verifier resolves tokens back to live users. Every access-token
// verification re-reads the user record, trading a store round-trip for
// correctness: role changes and deactivations take effect on the next
// request, not at token expiry.
type Verifier struct {
	codec  Codec
	issuer *Issuer
	store  UserStore
}

// NewVerifier builds a Verifier. The issuer is used by Refresh to mint the
// replacement access token.
func NewVerifier(codec Codec, issuer *Issuer, store UserStore) *Verifier {
	return &Verifier{codec: codec, issuer: issuer, store: store}
}

// VerifyAccess decodes an access token and resolves its subject to the live
// user record. It fails with ErrMalformed/ErrExpired from the codec,
// ErrWrongTokenType for a refresh token, ErrPrincipalNotFound when the
// subject no longer exists, and ErrInactive for a deactivated account. The
// returned user is the live record, not the claims snapshot.
func (v *Verifier) VerifyAccess(ctx context.Context, raw string) (model.User, error) {
	claims, err := v.codec.Decode(raw)
	if err != nil {
		return model.User{}, err
	}
	if claims.TokenType != TypeAccess {
		return model.User{}, ErrWrongTokenType
	}
	return v.resolve(ctx, claims.UserID)
}

// Refresh exchanges a refresh token for a new access token. The access token
// is issued for the subject's current role, so role changes propagate here
// even while older access tokens still carry the stale snapshot.
func (v *Verifier) Refresh(ctx context.Context, raw string) (Token, error) {
	claims, err := v.codec.Decode(raw)
	if err != nil {
		return Token{}, err
	}
	if claims.TokenType != TypeRefresh {
		return Token{}, ErrWrongTokenType
	}
	u, err := v.resolve(ctx, claims.UserID)
	if err != nil {
		return Token{}, err
	}
	return v.issuer.Access(u)
}

func (v *Verifier) resolve(ctx context.Context, id uint64) (model.User, error) {
	u, err := v.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrPrincipalNotFound
		}
		return model.User{}, err
	}
	if !u.IsActive {
		return model.User{}, ErrInactive
	}
	return u, nil
}
