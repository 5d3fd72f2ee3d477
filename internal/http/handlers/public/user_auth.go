package public

import (
	"strings"

	"github.com/brundhavanam/grocery/internal/constants"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

// SendOTPRequest 发送短信验证码请求
type SendOTPRequest struct {
	Mobile      string `json:"mobile" binding:"required"`
	CaptchaID   string `json:"captcha_id"`
	CaptchaCode string `json:"captcha_code"`
}

// VerifyOTPRequest 验证码登录请求
type VerifyOTPRequest struct {
	Mobile string `json:"mobile" binding:"required"`
	Code   string `json:"code" binding:"required,numeric,min=4,max=8"`
}

// UpdateProfileRequest 更新个人资料请求
type UpdateProfileRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=120"`
	Email    *string `json:"email" binding:"omitempty,max=200"`
	Locale   *string `json:"locale" binding:"omitempty,oneof=en-US hi-IN"`
}

// SendOTP 发送登录验证码
func (h *Handler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	payload := service.CaptchaVerifyPayload{
		CaptchaID:   strings.TrimSpace(req.CaptchaID),
		CaptchaCode: strings.TrimSpace(req.CaptchaCode),
	}
	if err := h.CaptchaService.Verify(constants.CaptchaSceneSendOTP, payload); err != nil {
		respondOTPError(c, err)
		return
	}
	result, err := h.UserAuthService.SendOTP(c.Request.Context(), req.Mobile)
	if err != nil {
		respondOTPError(c, err)
		return
	}
	response.Success(c, result)
}

// VerifyOTP 校验验证码并登录，首次登录自动注册
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if !bindJSON(c, &req) {
		return
	}
	source := c.GetHeader("X-Login-Source")
	user, token, expiresAt, err := h.UserAuthService.VerifyOTP(c.Request.Context(), req.Mobile, req.Code)
	if err != nil {
		h.recordUserLogin(c, req.Mobile, 0, constants.LoginLogStatusFailed, service.ResolveLoginFailReason(err), source)
		respondOTPError(c, err)
		return
	}
	h.recordUserLogin(c, user.Mobile, user.ID, constants.LoginLogStatusSuccess, "", source)
	response.Success(c, gin.H{
		"token":      token,
		"expires_at": expiresAt,
		"user":       user,
	})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	response.Success(c, user)
}

// UpdateUserProfile 更新姓名、邮箱与语言
func (h *Handler) UpdateUserProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.UserAuthService.UpdateProfile(uid, req.FullName, req.Email, req.Locale)
	if err != nil {
		respondProfileError(c, err)
		return
	}
	response.Success(c, user)
}

// GetMyLoginLogs 获取当前用户登录日志
func (h *Handler) GetMyLoginLogs(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	logs, total, err := h.UserLoginLogService.ListByUser(uid, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, logs, response.NewPagination(page, pageSize, total))
}

func (h *Handler) recordUserLogin(c *gin.Context, mobile string, userID uint, status, failReason, source string) {
	if h == nil || h.UserLoginLogService == nil {
		return
	}
	err := h.UserLoginLogService.Record(service.RecordUserLoginInput{
		UserID:      userID,
		Mobile:      mobile,
		Status:      status,
		FailReason:  failReason,
		ClientIP:    c.ClientIP(),
		UserAgent:   c.GetHeader("User-Agent"),
		LoginSource: source,
		RequestID:   c.GetString(response.RequestIDKey),
	})
	if err != nil {
		requestLog(c).Warnw("user_login_log_record_failed", "error", err, "status", status)
	}
}
