package repository

import (
	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/gorm"
)

// UserLoginLogRepository OTP 登录记录
type UserLoginLogRepository interface {
	Create(log *models.UserLoginLog) error
	ListAdmin(filter UserLoginLogListFilter) ([]models.UserLoginLog, int64, error)
	ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error)
}

// GormUserLoginLogRepository 登录记录仓库
type GormUserLoginLogRepository struct {
	db *gorm.DB
}

// NewUserLoginLogRepository 创建登录记录仓库
func NewUserLoginLogRepository(db *gorm.DB) *GormUserLoginLogRepository {
	return &GormUserLoginLogRepository{db: db}
}

func (r *GormUserLoginLogRepository) Create(log *models.UserLoginLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListAdmin 后台排查用：按手机号、结果、失败原因与来源 IP 过滤
func (r *GormUserLoginLogRepository) ListAdmin(filter UserLoginLogListFilter) ([]models.UserLoginLog, int64, error) {
	query := r.db.Model(&models.UserLoginLog{})
	query = whereIfSet(query, "user_id", filter.UserID)
	query = whereIfSet(query, "mobile", filter.Mobile)
	query = whereIfSet(query, "status", filter.Status)
	query = whereIfSet(query, "fail_reason", filter.FailReason)
	query = whereIfSet(query, "client_ip", filter.ClientIP)
	query = whereTimeRange(query, "created_at", filter.CreatedFrom, filter.CreatedTo)
	return findPage[models.UserLoginLog](query, filter.Page, filter.PageSize, "id desc")
}

// ListByUser 顾客查看自己的登录记录，userID 为 0 时返回空
func (r *GormUserLoginLogRepository) ListByUser(userID uint, page, pageSize int) ([]models.UserLoginLog, int64, error) {
	if userID == 0 {
		return []models.UserLoginLog{}, 0, nil
	}
	return r.ListAdmin(UserLoginLogListFilter{Page: page, PageSize: pageSize, UserID: userID})
}
