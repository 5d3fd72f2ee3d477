package repository

import (
	"strings"

	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/gorm"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	GetByID(id uint) (*models.User, error)
	GetByMobile(mobile string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
	List(filter UserListFilter) ([]models.User, int64, error)
	WithTx(tx *gorm.DB) UserRepository
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// WithTx 绑定事务
func (r *GormUserRepository) WithTx(tx *gorm.DB) UserRepository {
	if tx == nil {
		return r
	}
	return &GormUserRepository{db: tx}
}

// GetByID 根据 ID 获取用户
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	return firstOrNil[models.User](r.db, id)
}

// GetByMobile 按 10 位手机号查找，OTP 登录与注册共用
func (r *GormUserRepository) GetByMobile(mobile string) (*models.User, error) {
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, nil
	}
	return firstOrNil[models.User](r.db.Where("mobile = ?", mobile))
}

// Create 创建用户
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update 更新用户
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// List 管理端分页查询用户，关键字匹配手机号、姓名与邮箱
func (r *GormUserRepository) List(filter UserListFilter) ([]models.User, int64, error) {
	query := whereIfSet(r.db.Model(&models.User{}), "status", strings.TrimSpace(filter.Status))
	if cond, args := buildLikeCondition(r.db, filter.Keyword, "mobile", "full_name", "email"); cond != "" {
		query = query.Where(cond, args...)
	}
	return findPage[models.User](query, filter.Page, filter.PageSize, "id desc")
}
