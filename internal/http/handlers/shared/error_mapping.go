package shared

import (
	"errors"

	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/i18n"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

// MappedError 定义业务错误到接口错误响应的映射关系。
type MappedError struct {
	Target error
	Code   int
	Key    string
}

// RespondMappedError 按规则顺序匹配错误，库存不足优先返回明细
func RespondMappedError(c *gin.Context, err error, rules []MappedError, fallbackCode int, fallbackKey string) {
	var stockErr *service.InsufficientStockError
	if errors.As(err, &stockErr) {
		RespondInsufficientStock(c, stockErr)
		return
	}
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			RespondError(c, rule.Code, rule.Key, nil)
			return
		}
	}
	RespondError(c, fallbackCode, fallbackKey, err)
}

// RespondInsufficientStock 库存不足时返回具体规格与可用数量
func RespondInsufficientStock(c *gin.Context, stockErr *service.InsufficientStockError) {
	msg := i18n.Sprintf(i18n.ResolveLocale(c), "error.insufficient_stock_item", stockErr.Available, stockErr.Label)
	RespondErrorWithMsg(c, response.CodeUnprocessable, msg, gin.H{
		"variant_id": stockErr.VariantID,
		"label":      stockErr.Label,
		"requested":  stockErr.Requested,
		"available":  stockErr.Available,
	}, nil)
}

// ConcatMappedErrors 合并多组映射规则
func ConcatMappedErrors(groups ...[]MappedError) []MappedError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]MappedError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}
