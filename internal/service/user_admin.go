package service

import (
	"context"
	"strings"

	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"
)

// ListUsers 管理端用户列表
func (s *UserAuthService) ListUsers(keyword, status string, page, pageSize int) ([]models.User, int64, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != "" && !isKnownUserStatus(status) {
		return nil, 0, ErrUserStatusInvalid
	}
	return s.userRepo.List(repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  keyword,
		Status:   status,
	})
}

// SetUserStatus 启用或禁用用户；禁用时递增 token 版本使现有登录立即失效
func (s *UserAuthService) SetUserStatus(ctx context.Context, userID uint, status string) (*models.User, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !isKnownUserStatus(status) {
		return nil, ErrUserStatusInvalid
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Status == status {
		return user, nil
	}
	from := user.Status
	user.Status = status
	if status == constants.UserStatusDisabled {
		user.TokenVersion++
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	logger.Infow("user_status_changed", "user_id", user.ID, "from", from, "to", status)
	return user, nil
}

func isKnownUserStatus(status string) bool {
	return status == constants.UserStatusActive || status == constants.UserStatusDisabled
}
