package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrRevoked = errors.New("token revoked")

// Claims 令牌载荷：用户名 + 签发/过期时间（RegisteredClaims），jti 供吊销使用
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Denylist 吊销名单挂钩。为 nil 时校验是纯计算、无 I/O。
type Denylist interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type JWTer struct {
	Secret   []byte
	Issuer   string
	TTL      time.Duration
	Denylist Denylist
	Now      func() time.Time // 测试注入；默认 time.Now
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) Issue(username string) (string, *Claims, error) {
	now := j.now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    j.Issuer,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(j.Secret)
	if err != nil {
		return "", nil, err
	}
	return s, claims, nil
}

// Parse 校验签名、签发方与过期时间
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	},
		jwt.WithIssuer(j.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.Username == "" {
		return nil, errors.New("invalid token")
	}
	return c, nil
}

// Verify = Parse + 吊销检查
func (j *JWTer) Verify(ctx context.Context, tokenStr string) (*Claims, error) {
	c, err := j.Parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if j.Denylist != nil && c.ID != "" {
		revoked, err := j.Denylist.IsRevoked(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("check denylist: %w", err)
		}
		if revoked {
			return nil, ErrRevoked
		}
	}
	return c, nil
}

// Revoke 把令牌加入吊销名单直至其过期；未配置名单时为空操作
func (j *JWTer) Revoke(ctx context.Context, c *Claims) error {
	if j.Denylist == nil || c == nil || c.ID == "" {
		return nil
	}
	until := j.now().Add(j.TTL)
	if c.ExpiresAt != nil {
		until = c.ExpiresAt.Time
	}
	return j.Denylist.Revoke(ctx, c.ID, until)
}
