package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-admin/internal/model"
)

func testConfig(secret string) Config {
	return Config{
		Secret:     secret,
		Algorithm:  "HS256",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func mustCodec(t *testing.T, cfg Config) Codec {
	t.Helper()
	c, err := NewCodec(cfg)
	require.NoError(t, err)
	return c
}

func TestNewCodecRejectsUnknownAlgorithm(t *testing.T) {
	_, err := NewCodec(Config{Secret: "s", Algorithm: "HS999"})
	assert.Error(t, err)

	// Asymmetric algorithms are not supported with a shared secret.
	_, err = NewCodec(Config{Secret: "s", Algorithm: "RS256"})
	assert.Error(t, err)
}

func TestCodecRoundTrip(t *testing.T) {
	c := mustCodec(t, testConfig("round-trip-secret"))

	in := &Claims{
		UserID:    42,
		Email:     "prof@example.edu",
		Role:      model.RoleProfessor,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC()),
			ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(time.Minute)),
		},
	}

	raw, err := c.Encode(in)
	require.NoError(t, err)
	assert.Len(t, strings.Split(raw, "."), 3)

	out, err := c.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), out.UserID)
	assert.Equal(t, "prof@example.edu", out.Email)
	assert.Equal(t, model.RoleProfessor, out.Role)
	assert.Equal(t, TypeAccess, out.TokenType)
}

func TestCodecRejectsTampering(t *testing.T) {
	c := mustCodec(t, testConfig("tamper-secret"))

	issuer := NewIssuer(c, testConfig("tamper-secret"))
	tok, err := issuer.Access(model.User{ID: 7, Email: "a@b.c", Role: model.RoleStudent})
	require.NoError(t, err)

	parts := strings.Split(tok.Value, ".")
	require.Len(t, parts, 3)

	// Flip one character in the payload and in the signature; either change
	// must invalidate the token.
	for _, seg := range []int{1, 2} {
		mutated := make([]string, 3)
		copy(mutated, parts)
		b := []byte(mutated[seg])
		mid := len(b) / 2
		if b[mid] == 'A' {
			b[mid] = 'B'
		} else {
			b[mid] = 'A'
		}
		mutated[seg] = string(b)

		_, err := c.Decode(strings.Join(mutated, "."))
		assert.ErrorIs(t, err, ErrMalformed, "segment %d", seg)
	}
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	signer := mustCodec(t, testConfig("secret-one"))
	other := mustCodec(t, testConfig("secret-two"))

	issuer := NewIssuer(signer, testConfig("secret-one"))
	tok, err := issuer.Access(model.User{ID: 1, Role: model.RoleStudent})
	require.NoError(t, err)

	_, err = other.Decode(tok.Value)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCodecRejectsGarbage(t *testing.T) {
	c := mustCodec(t, testConfig("garbage-secret"))

	for _, raw := range []string{"", "not-a-token", "a.b", "a.b.c.d", "xx.yy.zz"} {
		_, err := c.Decode(raw)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestCodecRejectsExpired(t *testing.T) {
	cfg := testConfig("expiry-secret")
	c := mustCodec(t, cfg)

	now := time.Now().UTC()
	raw, err := c.Encode(&Claims{
		UserID:    9,
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "9",
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	})
	require.NoError(t, err)

	// The signature is valid; only the expiry is in the past.
	_, err = c.Decode(raw)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestCodecShortLivedTokenExpires(t *testing.T) {
	cfg := testConfig("short-lived-secret")
	cfg.AccessTTL = time.Second
	c := mustCodec(t, cfg)
	issuer := NewIssuer(c, cfg)

	tok, err := issuer.Access(model.User{ID: 3, Role: model.RoleStudent})
	require.NoError(t, err)

	_, err = c.Decode(tok.Value)
	require.NoError(t, err)

	time.Sleep(2 * time.Second)

	_, err = c.Decode(tok.Value)
	assert.ErrorIs(t, err, ErrExpired)
}
