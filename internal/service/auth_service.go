package service

import (
	"context"
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

const minAdminPasswordLength = 8

// JWTClaims 后台 token，TokenVersion 变化即失效
type JWTClaims struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// AuthService 管理员登录、改密与账号查询
type AuthService struct {
	cfg       *config.Config
	adminRepo repository.AdminRepository
	tokens    tokenIssuer
}

func NewAuthService(cfg *config.Config, adminRepo repository.AdminRepository) *AuthService {
	return &AuthService{
		cfg:       cfg,
		adminRepo: adminRepo,
		tokens:    newTokenIssuer(cfg.JWT, 24),
	}
}

// HashPassword bcrypt 摘要
func (s *AuthService) HashPassword(password string) (string, error) {
	return hashSecret(password)
}

func (s *AuthService) VerifyPassword(hashedPassword, password string) error {
	if !matchSecret(hashedPassword, password) {
		return ErrInvalidPassword
	}
	return nil
}

// GenerateJWT 签发管理员 token
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, time.Time, error) {
	registered, expiresAt := s.tokens.registered(admin.ID, time.Now())
	token, err := s.tokens.sign(JWTClaims{
		AdminID:          admin.ID,
		Username:         admin.Username,
		TokenVersion:     admin.TokenVersion,
		RegisteredClaims: registered,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *AuthService) ParseJWT(tokenString string) (*JWTClaims, error) {
	return parseClaims[JWTClaims](s.tokens, tokenString)
}

// Login 用户名不存在与密码错误统一返回 ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Admin, string, time.Time, error) {
	admin, err := s.adminRepo.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if admin == nil || !matchSecret(admin.PasswordHash, password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	loginAt := time.Now()
	admin.LastLoginAt = &loginAt
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin))
	logger.Infow("admin_login", "admin_id", admin.ID, "username", admin.Username)
	return admin, token, expiresAt, nil
}

func (s *AuthService) GetAdmin(adminID uint) (*models.Admin, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	switch {
	case err != nil:
		return nil, err
	case admin == nil:
		return nil, ErrAdminNotFound
	}
	return admin, nil
}

func (s *AuthService) ListAdmins() ([]models.Admin, error) {
	return s.adminRepo.List()
}

// ChangePassword 新密码至少 8 位且不同于旧密码，成功后旧 token 全部失效
func (s *AuthService) ChangePassword(ctx context.Context, adminID uint, oldPassword, newPassword string) error {
	admin, err := s.GetAdmin(adminID)
	if err != nil {
		return err
	}
	if !matchSecret(admin.PasswordHash, oldPassword) || len(newPassword) < minAdminPasswordLength || newPassword == oldPassword {
		return ErrInvalidPassword
	}
	if admin.PasswordHash, err = hashSecret(newPassword); err != nil {
		return err
	}
	admin.TokenVersion++
	if err := s.adminRepo.Update(admin); err != nil {
		return err
	}
	_ = cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin))
	logger.Infow("admin_password_changed", "admin_id", admin.ID)
	return nil
}
