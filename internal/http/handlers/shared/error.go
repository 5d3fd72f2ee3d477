package shared

import (
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/i18n"
	"github.com/brundhavanam/grocery/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 与 trace_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	kv := make([]interface{}, 0, 4)
	if id := c.GetString(response.RequestIDKey); id != "" {
		kv = append(kv, "request_id", id)
	}
	if traceID := c.GetString(ContextTraceID); traceID != "" {
		kv = append(kv, "trace_id", traceID)
	}
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	RespondErrorWithData(c, code, key, nil, err)
}

// RespondErrorWithData 返回带明细数据的国际化错误响应。
func RespondErrorWithData(c *gin.Context, code int, key string, data interface{}, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	writeAppError(c, response.WrapError(code, msg, err).WithData(data))
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, data interface{}, err error) {
	writeAppError(c, response.WrapError(code, msg, err).WithData(data))
}

func writeAppError(c *gin.Context, appErr *response.AppError) {
	if appErr.Err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"path", c.FullPath(),
			"error", appErr.Err,
		)
	}
	response.ErrorWithData(c, appErr.Code, appErr.Message, appErr.Data)
}
