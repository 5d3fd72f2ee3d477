package shared

import (
	"strconv"
	"strings"

	"github.com/brundhavanam/grocery/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	ContextUserID       = "user_id"
	ContextUserMobile   = "user_mobile"
	ContextAdminID      = "admin_id"
	ContextAdminName    = "username"
	ContextAdminIsSuper = "admin_is_super"
	ContextTraceID      = "trace_id"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		if v == 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return v, true
	case int:
		if v <= 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// ParseUintParam 解析路径中的正整数 ID，失败时以 notFoundKey 响应。
func ParseUintParam(c *gin.Context, name, notFoundKey string) (uint, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		RespondError(c, response.CodeNotFound, notFoundKey, nil)
		return 0, false
	}
	return uint(id), true
}
