package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-admin/internal/model"
)

// fakeStore is an in-memory UserStore. It mimics the repository contract by
// returning sql.ErrNoRows for unknown ids.
type fakeStore struct {
	users map[uint64]model.User
}

func (s *fakeStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

func newVerifier(t *testing.T, cfg Config, store UserStore) (*Issuer, *Verifier) {
	t.Helper()
	codec := mustCodec(t, cfg)
	issuer := NewIssuer(codec, cfg)
	return issuer, NewVerifier(codec, issuer, store)
}

func TestVerifyAccessRoundTrip(t *testing.T) {
	u := model.User{ID: 10, Email: "student@example.edu", Role: model.RoleStudent, IsActive: true}
	store := &fakeStore{users: map[uint64]model.User{u.ID: u}}
	issuer, verifier := newVerifier(t, testConfig("verify-secret"), store)

	tok, err := issuer.Access(u)
	require.NoError(t, err)

	got, err := verifier.VerifyAccess(context.Background(), tok.Value)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Role, got.Role)
}

func TestVerifyAccessRejectsRefreshToken(t *testing.T) {
	u := model.User{ID: 11, Role: model.RoleStudent, IsActive: true}
	store := &fakeStore{users: map[uint64]model.User{u.ID: u}}
	issuer, verifier := newVerifier(t, testConfig("type-secret"), store)

	refresh, err := issuer.Refresh(u)
	require.NoError(t, err)

	_, err = verifier.VerifyAccess(context.Background(), refresh.Value)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	u := model.User{ID: 12, Role: model.RoleStudent, IsActive: true}
	store := &fakeStore{users: map[uint64]model.User{u.ID: u}}
	issuer, verifier := newVerifier(t, testConfig("type-secret-2"), store)

	access, err := issuer.Access(u)
	require.NoError(t, err)

	_, err = verifier.Refresh(context.Background(), access.Value)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestVerifyAccessPrincipalNotFound(t *testing.T) {
	u := model.User{ID: 13, Role: model.RoleStudent, IsActive: true}
	store := &fakeStore{users: map[uint64]model.User{}} // user deleted after issuance
	issuer, verifier := newVerifier(t, testConfig("missing-secret"), store)

	tok, err := issuer.Access(u)
	require.NoError(t, err)

	_, err = verifier.VerifyAccess(context.Background(), tok.Value)
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestVerifyAccessInactivePrincipal(t *testing.T) {
	u := model.User{ID: 14, Role: model.RoleProfessor, IsActive: true}
	store := &fakeStore{users: map[uint64]model.User{u.ID: u}}
	issuer, verifier := newVerifier(t, testConfig("inactive-secret"), store)

	tok, err := issuer.Access(u)
	require.NoError(t, err)

	// Deactivate after issuance; the unexpired, correctly signed token must
	// now be rejected.
	deactivated := u
	deactivated.IsActive = false
	store.users[u.ID] = deactivated

	_, err = verifier.VerifyAccess(context.Background(), tok.Value)
	assert.ErrorIs(t, err, ErrInactive)
}

func TestVerifyAccessReturnsLiveRole(t *testing.T) {
	u := model.User{ID: 15, Email: "p@example.edu", Role: model.RoleStudent, IsActive: true}
	store := &fakeStore{users: map[uint64]model.User{u.ID: u}}
	issuer, verifier := newVerifier(t, testConfig("drift-secret"), store)

	tok, err := issuer.Access(u)
	require.NoError(t, err)

	// Promote the user after the token was minted. Verification re-reads the
	// store, so the resolved principal carries the new role even though the
	// claims snapshot still says student.
	promoted := u
	promoted.Role = model.RoleProfessor
	store.users[u.ID] = promoted

	got, err := verifier.VerifyAccess(context.Background(), tok.Value)
	require.NoError(t, err)
	assert.Equal(t, model.RoleProfessor, got.Role)
}

func TestRefreshIssuesAccessForCurrentRole(t *testing.T) {
	cfg := testConfig("refresh-secret")
	u := model.User{ID: 16, Email: "p@example.edu", Role: model.RoleStudent, IsActive: true}
	store := &fakeStore{users: map[uint64]model.User{u.ID: u}}
	issuer, verifier := newVerifier(t, cfg, store)

	refresh, err := issuer.Refresh(u)
	require.NoError(t, err)

	promoted := u
	promoted.Role = model.RoleProfessor
	store.users[u.ID] = promoted

	access, err := verifier.Refresh(context.Background(), refresh.Value)
	require.NoError(t, err)

	codec := mustCodec(t, cfg)
	claims, err := codec.Decode(access.Value)
	require.NoError(t, err)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.Equal(t, model.RoleProfessor, claims.Role)
	assert.WithinDuration(t, time.Now().UTC().Add(cfg.AccessTTL), access.ExpiresAt, 5*time.Second)
}

func TestRefreshFailsForDeletedAndInactiveUsers(t *testing.T) {
	u := model.User{ID: 17, Role: model.RoleStudent, IsActive: true}
	store := &fakeStore{users: map[uint64]model.User{u.ID: u}}
	issuer, verifier := newVerifier(t, testConfig("refresh-secret-2"), store)

	refresh, err := issuer.Refresh(u)
	require.NoError(t, err)

	inactive := u
	inactive.IsActive = false
	store.users[u.ID] = inactive
	_, err = verifier.Refresh(context.Background(), refresh.Value)
	assert.ErrorIs(t, err, ErrInactive)

	delete(store.users, u.ID)
	_, err = verifier.Refresh(context.Background(), refresh.Value)
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestRefreshRejectsMalformedInput(t *testing.T) {
	store := &fakeStore{users: map[uint64]model.User{}}
	_, verifier := newVerifier(t, testConfig("refresh-secret-3"), store)

	_, err := verifier.Refresh(context.Background(), "junk")
	assert.ErrorIs(t, err, ErrMalformed)
}
