package response

// 业务状态码，HTTP 层统一返回 200
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeUnauthorized    = 401
	CodeForbidden       = 403
	CodeNotFound        = 404
	CodeConflict        = 409 // 状态冲突、幂等键冲突
	CodeUnprocessable   = 422 // 库存不足
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
