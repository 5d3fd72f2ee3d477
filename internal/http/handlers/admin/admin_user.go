package admin

import (
	"strings"

	"github.com/brundhavanam/grocery/internal/constants"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/models"

	"github.com/gin-gonic/gin"
)

// UpdateUserStatusRequest 管理员修改用户状态请求
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAdminUsers 获取用户列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	keyword := strings.TrimSpace(c.Query("keyword"))
	status := strings.TrimSpace(c.Query("status"))

	users, total, err := h.UserAuthService.ListUsers(keyword, status, page, pageSize)
	if err != nil {
		respondUserError(c, err)
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetAdminUser 获取用户详情及地址簿
func (h *Handler) GetAdminUser(c *gin.Context) {
	userID, ok := handlershared.ParseUintParam(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(userID)
	if err != nil {
		respondUserError(c, err)
		return
	}
	addresses, err := h.AddressService.List(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.Success(c, gin.H{
		"user":      user,
		"addresses": addresses,
	})
}

// UpdateAdminUserStatus 启用或禁用用户
func (h *Handler) UpdateAdminUserStatus(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	userID, ok := handlershared.ParseUintParam(c, "id", "error.user_not_found")
	if !ok {
		return
	}
	var req UpdateUserStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.UserAuthService.SetUserStatus(c.Request.Context(), userID, req.Status)
	if err != nil {
		respondUserError(c, err)
		return
	}
	requestLog(c).Infow("admin_user_status_updated", "operator_admin_id", operatorID, "user_id", user.ID, "status", user.Status)
	h.recordAdminAudit(c, constants.AuditActionUserStatusChange, constants.AuditTargetUser, user.ID, models.JSON{"status": user.Status})
	response.Success(c, gin.H{"id": user.ID, "status": user.Status})
}
