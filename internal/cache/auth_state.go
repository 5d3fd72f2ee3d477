package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/brundhavanam/grocery/internal/models"
)

// authSubject 鉴权快照所属主体
type authSubject string

const (
	authSubjectUser  authSubject = "user"
	authSubjectAdmin authSubject = "admin"

	authStateTTL = 10 * time.Minute
)

// UserAuthState 顾客鉴权快照，JWT 中间件用它比对 token 版本与账号状态
type UserAuthState struct {
	UserID       uint   `json:"user_id"`
	Mobile       string `json:"mobile"`
	Status       string `json:"status"`
	TokenVersion uint64 `json:"token_version"`
	CachedAt     int64  `json:"cached_at"`
}

// AdminAuthState 管理员鉴权快照
type AdminAuthState struct {
	AdminID      uint   `json:"admin_id"`
	Username     string `json:"username"`
	IsSuper      bool   `json:"is_super"`
	TokenVersion uint64 `json:"token_version"`
	CachedAt     int64  `json:"cached_at"`
}

func authStateKey(subject authSubject, id uint) string {
	return "auth:" + string(subject) + ":" + strconv.FormatUint(uint64(id), 10)
}

func loadAuthState[T any](ctx context.Context, subject authSubject, id uint) (*T, bool, error) {
	if id == 0 {
		return nil, false, nil
	}
	state := new(T)
	hit, err := GetJSON(ctx, authStateKey(subject, id), state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return state, true, nil
}

func storeAuthState(ctx context.Context, subject authSubject, id uint, state interface{}) error {
	if id == 0 {
		return nil
	}
	return SetJSON(ctx, authStateKey(subject, id), state, authStateTTL)
}

func dropAuthState(ctx context.Context, subject authSubject, id uint) error {
	if id == 0 {
		return nil
	}
	return Del(ctx, authStateKey(subject, id))
}

// BuildUserAuthState 从用户记录生成快照
func BuildUserAuthState(user *models.User) *UserAuthState {
	if user == nil {
		return nil
	}
	return &UserAuthState{
		UserID:       user.ID,
		Mobile:       user.Mobile,
		Status:       user.Status,
		TokenVersion: user.TokenVersion,
		CachedAt:     time.Now().Unix(),
	}
}

// BuildAdminAuthState 从管理员记录生成快照
func BuildAdminAuthState(admin *models.Admin) *AdminAuthState {
	if admin == nil {
		return nil
	}
	return &AdminAuthState{
		AdminID:      admin.ID,
		Username:     admin.Username,
		IsSuper:      admin.IsSuper,
		TokenVersion: admin.TokenVersion,
		CachedAt:     time.Now().Unix(),
	}
}

// GetUserAuthState 读取顾客快照，redis 未启用时总是未命中
func GetUserAuthState(ctx context.Context, userID uint) (*UserAuthState, bool, error) {
	return loadAuthState[UserAuthState](ctx, authSubjectUser, userID)
}

// SetUserAuthState 写入顾客快照
func SetUserAuthState(ctx context.Context, state *UserAuthState) error {
	if state == nil {
		return nil
	}
	return storeAuthState(ctx, authSubjectUser, state.UserID, state)
}

// DelUserAuthState 删除顾客快照
func DelUserAuthState(ctx context.Context, userID uint) error {
	return dropAuthState(ctx, authSubjectUser, userID)
}

// GetAdminAuthState 读取管理员快照
func GetAdminAuthState(ctx context.Context, adminID uint) (*AdminAuthState, bool, error) {
	return loadAuthState[AdminAuthState](ctx, authSubjectAdmin, adminID)
}

// SetAdminAuthState 写入管理员快照
func SetAdminAuthState(ctx context.Context, state *AdminAuthState) error {
	if state == nil {
		return nil
	}
	return storeAuthState(ctx, authSubjectAdmin, state.AdminID, state)
}

// DelAdminAuthState 删除管理员快照
func DelAdminAuthState(ctx context.Context, adminID uint) error {
	return dropAuthState(ctx, authSubjectAdmin, adminID)
}
