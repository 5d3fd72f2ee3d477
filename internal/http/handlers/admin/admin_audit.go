package admin

import (
	"strings"

	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

// ListAdminAuditLogs 获取后台操作审计日志
func (h *Handler) ListAdminAuditLogs(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

	operatorID, ok := parseUintQuery(c, "operator_admin_id")
	if !ok {
		return
	}
	targetID, ok := parseUintQuery(c, "target_id")
	if !ok {
		return
	}
	createdFrom, err := parseTimeNullable(strings.TrimSpace(c.Query("created_from")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	createdTo, err := parseTimeNullable(strings.TrimSpace(c.Query("created_to")))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	items, total, err := h.AdminAuditService.ListForAdmin(repository.AdminAuditLogListFilter{
		Page:            page,
		PageSize:        pageSize,
		OperatorAdminID: operatorID,
		Action:          strings.TrimSpace(c.Query("action")),
		TargetType:      strings.TrimSpace(c.Query("target_type")),
		TargetID:        targetID,
		CreatedFrom:     createdFrom,
		CreatedTo:       createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.NewPagination(page, pageSize, total))
}

// recordAdminAudit 记录审计日志，失败只告警不影响主流程
func (h *Handler) recordAdminAudit(c *gin.Context, action, targetType string, targetID uint, detail models.JSON) {
	if h == nil || h.AdminAuditService == nil {
		return
	}
	operatorID, _ := c.Get(handlershared.ContextAdminID)
	adminID, _ := operatorID.(uint)
	if adminID == 0 {
		return
	}
	err := h.AdminAuditService.Record(service.AdminAuditRecordInput{
		OperatorAdminID:  adminID,
		OperatorUsername: c.GetString(handlershared.ContextAdminName),
		Action:           action,
		TargetType:       targetType,
		TargetID:         targetID,
		Method:           c.Request.Method,
		Path:             c.FullPath(),
		RequestID:        c.GetString(response.RequestIDKey),
		Detail:           detail,
	})
	if err != nil {
		requestLog(c).Warnw("admin_audit_record_failed",
			"error", err,
			"action", action,
			"operator_admin_id", adminID,
		)
	}
}
