package repository

import (
	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/gorm"
)

// AdminAuditLogRepository 后台操作审计
type AdminAuditLogRepository interface {
	Create(log *models.AdminAuditLog) error
	ListAdmin(filter AdminAuditLogListFilter) ([]models.AdminAuditLog, int64, error)
}

// GormAdminAuditLogRepository 审计日志仓库，只追加不修改
type GormAdminAuditLogRepository struct {
	db *gorm.DB
}

// NewAdminAuditLogRepository 创建审计日志仓库
func NewAdminAuditLogRepository(db *gorm.DB) *GormAdminAuditLogRepository {
	return &GormAdminAuditLogRepository{db: db}
}

func (r *GormAdminAuditLogRepository) Create(log *models.AdminAuditLog) error {
	if log == nil {
		return nil
	}
	return r.db.Create(log).Error
}

// ListAdmin 按操作人、动作与目标过滤，最新在前
func (r *GormAdminAuditLogRepository) ListAdmin(filter AdminAuditLogListFilter) ([]models.AdminAuditLog, int64, error) {
	query := r.db.Model(&models.AdminAuditLog{})
	query = whereIfSet(query, "operator_admin_id", filter.OperatorAdminID)
	query = whereIfSet(query, "action", filter.Action)
	query = whereIfSet(query, "target_type", filter.TargetType)
	query = whereIfSet(query, "target_id", filter.TargetID)
	query = whereTimeRange(query, "created_at", filter.CreatedFrom, filter.CreatedTo)
	return findPage[models.AdminAuditLog](query, filter.Page, filter.PageSize, "id desc")
}
