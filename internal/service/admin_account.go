package service

import (
	"context"
	"strings"

	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/models"
)

// ProtectedAdminUsername 默认超级管理员，不可删除且始终为超级管理员
const ProtectedAdminUsername = "admin"

// AdminCreateInput 创建管理员输入
type AdminCreateInput struct {
	Username string
	Password string
	IsSuper  bool
}

// AdminUpdateInput 更新管理员输入，nil 表示不修改
type AdminUpdateInput struct {
	Password *string
	IsSuper  *bool
}

// NormalizeAdminUsername 校验管理员用户名
func NormalizeAdminUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" || strings.ContainsAny(trimmed, " \t\r\n") {
		return "", ErrAdminUsernameInvalid
	}
	length := len([]rune(trimmed))
	if length < 3 || length > 64 {
		return "", ErrAdminUsernameInvalid
	}
	return trimmed, nil
}

func isProtectedAdmin(admin *models.Admin) bool {
	return admin != nil && strings.EqualFold(strings.TrimSpace(admin.Username), ProtectedAdminUsername)
}

// CreateAdmin 创建管理员账号
func (s *AuthService) CreateAdmin(ctx context.Context, input AdminCreateInput) (*models.Admin, error) {
	username, err := NormalizeAdminUsername(input.Username)
	if err != nil {
		return nil, err
	}
	if len(input.Password) < minAdminPasswordLength {
		return nil, ErrInvalidPassword
	}
	existing, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAdminUsernameExists
	}
	hash, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		IsSuper:      input.IsSuper,
	}
	if isProtectedAdmin(admin) {
		admin.IsSuper = true
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	_ = cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin))
	logger.Infow("admin_created", "admin_id", admin.ID, "username", admin.Username, "is_super", admin.IsSuper)
	return admin, nil
}

// UpdateAdmin 重置密码或调整超级管理员标记，重置密码会使旧 token 失效
func (s *AuthService) UpdateAdmin(ctx context.Context, adminID uint, input AdminUpdateInput) (*models.Admin, error) {
	admin, err := s.GetAdmin(adminID)
	if err != nil {
		return nil, err
	}
	changed := false
	if input.IsSuper != nil {
		next := *input.IsSuper || isProtectedAdmin(admin)
		if next != admin.IsSuper {
			admin.IsSuper = next
			changed = true
		}
	}
	if input.Password != nil {
		if len(*input.Password) < minAdminPasswordLength {
			return nil, ErrInvalidPassword
		}
		hash, err := s.HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
		admin.TokenVersion++
		changed = true
	}
	if !changed {
		return admin, nil
	}
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	_ = cache.SetAdminAuthState(ctx, cache.BuildAdminAuthState(admin))
	logger.Infow("admin_updated", "admin_id", admin.ID, "password_reset", input.Password != nil, "is_super", admin.IsSuper)
	return admin, nil
}

// DeleteAdmin 删除管理员；不可删除自己、默认超级管理员或最后一个账号
func (s *AuthService) DeleteAdmin(ctx context.Context, operatorID, adminID uint) (*models.Admin, error) {
	admin, err := s.GetAdmin(adminID)
	if err != nil {
		return nil, err
	}
	if operatorID == adminID || isProtectedAdmin(admin) {
		return nil, ErrAdminDeleteForbidden
	}
	count, err := s.adminRepo.Count()
	if err != nil {
		return nil, err
	}
	if count <= 1 {
		return nil, ErrAdminDeleteForbidden
	}
	if err := s.adminRepo.Delete(adminID); err != nil {
		return nil, err
	}
	_ = cache.DelAdminAuthState(ctx, adminID)
	logger.Infow("admin_deleted", "admin_id", adminID, "username", admin.Username, "operator_admin_id", operatorID)
	return admin, nil
}
