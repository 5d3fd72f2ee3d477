package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// applyPagination 应用分页参数，统一处理非法页码与偏移量。
func applyPagination(query *gorm.DB, page, pageSize int) *gorm.DB {
	if query == nil || pageSize <= 0 {
		return query
	}
	if page < 1 {
		page = 1
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// countThenPage 先统计总数再应用分页，返回分页后的查询。
func countThenPage(query *gorm.DB, page, pageSize int) (*gorm.DB, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	return applyPagination(query, page, pageSize), total, nil
}

// findPage 统计总数后按 order 取一页，空结果返回空切片
func findPage[T any](query *gorm.DB, page, pageSize int, order string) ([]T, int64, error) {
	query, total, err := countThenPage(query, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	rows := make([]T, 0)
	if err := query.Order(order).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// firstOrNil 取第一条记录，不存在时返回 nil, nil
func firstOrNil[T any](query *gorm.DB, conds ...interface{}) (*T, error) {
	var row T
	err := query.First(&row, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// whereIfSet 值非零时追加等值条件
func whereIfSet[V comparable](query *gorm.DB, column string, value V) *gorm.DB {
	var zero V
	if value == zero {
		return query
	}
	return query.Where(column+" = ?", value)
}

// whereTimeRange 追加闭区间时间条件，nil 端不限制
func whereTimeRange(query *gorm.DB, column string, from, to *time.Time) *gorm.DB {
	if from != nil {
		query = query.Where(column+" >= ?", *from)
	}
	if to != nil {
		query = query.Where(column+" <= ?", *to)
	}
	return query
}
