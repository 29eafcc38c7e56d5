package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/internal/core/auth"
	"storefront/internal/domain"
	"storefront/pkg/utils"
)

// Session 登录成功后下发给客户端的令牌
type Session struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

type AuthService struct {
	admins domain.AdminRepository
	jwt    *auth.JWTer
	log    *zap.Logger
}

func NewAuthService(admins domain.AdminRepository, j *auth.JWTer, l *zap.Logger) *AuthService {
	return &AuthService{admins: admins, jwt: j, log: l}
}

// Authenticate 校验管理员凭据并签发令牌。
// 用户不存在、角色不对、密码错误统一返回 ErrInvalidCredentials。
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.NewValidationError("Username and password required", "username", "password")
	}

	acc, err := s.admins.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		utils.BurnPasswordCheck(password)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("find admin: %w", err)
	}
	if !utils.CheckPassword(password, acc.PasswordHash) || acc.Role != domain.RoleAdmin {
		return nil, domain.ErrInvalidCredentials
	}

	tok, claims, err := s.jwt.Issue(acc.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	s.log.Info("admin login", zap.String("username", acc.Username))
	return &Session{Token: tok, Username: acc.Username, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Verify 任何失败（缺失、畸形、签名错、过期、已吊销）都归为 ErrUnauthorized
func (s *AuthService) Verify(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	c, err := s.jwt.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return c, nil
}

func (s *AuthService) Logout(ctx context.Context, c *auth.Claims) error {
	return s.jwt.Revoke(ctx, c)
}

// Seed 仅在不存在任何管理员时创建一个；返回是否创建
func (s *AuthService) Seed(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, domain.NewValidationError("seed username and password required", "username", "password")
	}
	ok, err := s.admins.HasAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("check admins: %w", err)
	}
	if ok {
		return false, nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	if err := s.admins.Create(ctx, &domain.AdminAccount{
		ID:           utils.NewID(),
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	s.log.Info("seeded admin", zap.String("username", username))
	return true, nil
}
