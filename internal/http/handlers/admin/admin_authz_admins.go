package admin

import (
	"strings"

	"github.com/brundhavanam/grocery/internal/constants"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

type authzCreateAdminPayload struct {
	Username string   `json:"username" binding:"required"`
	Password string   `json:"password" binding:"required"`
	IsSuper  *bool    `json:"is_super"`
	Roles    []string `json:"roles"`
}

type authzUpdateAdminPayload struct {
	Password *string `json:"password"`
	IsSuper  *bool   `json:"is_super"`
}

// CreateAuthzAdmin 创建管理员，可同时分配角色
func (h *Handler) CreateAuthzAdmin(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req authzCreateAdminPayload
	if !bindJSON(c, &req) {
		return
	}
	admin, err := h.AuthService.CreateAdmin(c.Request.Context(), service.AdminCreateInput{
		Username: req.Username,
		Password: strings.TrimSpace(req.Password),
		IsSuper:  req.IsSuper != nil && *req.IsSuper,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}
	roles := []string{}
	if len(req.Roles) > 0 {
		if err := h.AuthzService.SetAdminRoles(admin.ID, req.Roles); err != nil {
			respondAuthzError(c, err)
			return
		}
		if roles, err = h.AuthzService.GetAdminRoles(admin.ID); err != nil {
			respondError(c, response.CodeInternal, "error.authz_failed", err)
			return
		}
	}
	requestLog(c).Infow("admin_authz_admin_created",
		"operator_admin_id", operatorID,
		"target_admin_id", admin.ID,
		"target_username", admin.Username,
		"is_super", admin.IsSuper,
	)
	h.recordAdminAudit(c, constants.AuditActionAdminCreate, constants.AuditTargetAdmin, admin.ID, models.JSON{
		"username": admin.Username,
		"is_super": admin.IsSuper,
		"roles":    roles,
	})
	response.Success(c, gin.H{
		"id":       admin.ID,
		"username": admin.Username,
		"is_super": admin.IsSuper,
		"roles":    roles,
	})
}

// UpdateAuthzAdmin 更新管理员
func (h *Handler) UpdateAuthzAdmin(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	adminID, ok := handlershared.ParseUintParam(c, "id", "error.admin_not_found")
	if !ok {
		return
	}
	var req authzUpdateAdminPayload
	if !bindJSON(c, &req) {
		return
	}
	if req.Password == nil && req.IsSuper == nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	if req.Password != nil {
		trimmed := strings.TrimSpace(*req.Password)
		req.Password = &trimmed
	}
	admin, err := h.AuthService.UpdateAdmin(c.Request.Context(), adminID, service.AdminUpdateInput{
		Password: req.Password,
		IsSuper:  req.IsSuper,
	})
	if err != nil {
		respondAccountError(c, err)
		return
	}
	if operatorID == admin.ID {
		c.Set(handlershared.ContextAdminIsSuper, admin.IsSuper)
	}
	requestLog(c).Infow("admin_authz_admin_updated",
		"operator_admin_id", operatorID,
		"target_admin_id", admin.ID,
		"password_reset", req.Password != nil,
		"is_super", admin.IsSuper,
	)
	h.recordAdminAudit(c, constants.AuditActionAdminUpdate, constants.AuditTargetAdmin, admin.ID, models.JSON{
		"password_reset": req.Password != nil,
		"is_super":       admin.IsSuper,
	})
	response.Success(c, gin.H{
		"id":       admin.ID,
		"username": admin.Username,
		"is_super": admin.IsSuper,
	})
}

// DeleteAuthzAdmin 删除管理员并清空其角色
func (h *Handler) DeleteAuthzAdmin(c *gin.Context) {
	operatorID, ok := getAdminID(c)
	if !ok {
		return
	}
	adminID, ok := handlershared.ParseUintParam(c, "id", "error.admin_not_found")
	if !ok {
		return
	}
	admin, err := h.AuthService.DeleteAdmin(c.Request.Context(), operatorID, adminID)
	if err != nil {
		respondAccountError(c, err)
		return
	}
	if err := h.AuthzService.SetAdminRoles(adminID, []string{}); err != nil {
		respondError(c, response.CodeInternal, "error.authz_failed", err)
		return
	}
	requestLog(c).Infow("admin_authz_admin_deleted",
		"operator_admin_id", operatorID,
		"target_admin_id", adminID,
		"target_username", admin.Username,
	)
	h.recordAdminAudit(c, constants.AuditActionAdminDelete, constants.AuditTargetAdmin, adminID, models.JSON{"username": admin.Username})
	response.Success(c, nil)
}
