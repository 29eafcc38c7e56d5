package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "storefront", TTL: 7 * 24 * time.Hour}
}

func TestIssueAndParse(t *testing.T) {
	j := newJWTer()
	tok, issued, err := j.Issue("admin")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "admin", c.Username)
	assert.Equal(t, issued.ID, c.ID)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), c.ExpiresAt.Time, time.Minute)
}

func TestExpiredTokenRejected(t *testing.T) {
	j := newJWTer()
	j.Now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	tok, _, err := j.Issue("admin")
	require.NoError(t, err)

	j.Now = nil
	_, err = j.Parse(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestBadSignatureRejected(t *testing.T) {
	tok, _, err := newJWTer().Issue("admin")
	require.NoError(t, err)

	other := newJWTer()
	other.Secret = []byte("another-secret")
	_, err = other.Parse(tok)
	assert.Error(t, err)

	// 换成另一份载荷，签名不再匹配
	forged, _, err := other.Issue("root")
	require.NoError(t, err)
	a, b := strings.Split(tok, "."), strings.Split(forged, ".")
	require.Len(t, a, 3)
	require.Len(t, b, 3)
	_, err = newJWTer().Parse(a[0] + "." + b[1] + "." + a[2])
	assert.Error(t, err)
}

func TestMalformedRejected(t *testing.T) {
	j := newJWTer()
	for _, s := range []string{"", "abc", "a.b.c"} {
		_, err := j.Parse(s)
		assert.Error(t, err, s)
	}
}

func TestWrongAlgRejected(t *testing.T) {
	j := newJWTer()
	claims := &Claims{Username: "admin", RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    j.Issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(j.Secret)
	require.NoError(t, err)
	_, err = j.Parse(tok)
	assert.Error(t, err)
}

type memDenylist struct {
	mu  sync.Mutex
	ids map[string]time.Time
}

func (m *memDenylist) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[jti] = until
	return nil
}

func (m *memDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[jti]
	return ok, nil
}

func TestVerifyHonoursDenylist(t *testing.T) {
	j := newJWTer()
	dl := &memDenylist{ids: map[string]time.Time{}}
	j.Denylist = dl
	ctx := context.Background()

	tok, claims, err := j.Issue("admin")
	require.NoError(t, err)
	_, err = j.Verify(ctx, tok)
	require.NoError(t, err)

	require.NoError(t, j.Revoke(ctx, claims))
	assert.Equal(t, claims.ExpiresAt.Time, dl.ids[claims.ID])
	_, err = j.Verify(ctx, tok)
	assert.ErrorIs(t, err, ErrRevoked)
}

func TestRevokeWithoutDenylistIsNoop(t *testing.T) {
	j := newJWTer()
	tok, claims, err := j.Issue("admin")
	require.NoError(t, err)
	require.NoError(t, j.Revoke(context.Background(), claims))
	_, err = j.Verify(context.Background(), tok)
	assert.NoError(t, err)
}
