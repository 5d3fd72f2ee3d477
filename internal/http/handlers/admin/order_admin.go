package admin

import (
	"strings"
	"time"

	"github.com/brundhavanam/grocery/internal/constants"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

func parseTimeNullable(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func adminTransitionPayload(result *service.OrderTransition) gin.H {
	return gin.H{
		"order_id": result.Order.ID,
		"order_no": result.Order.OrderNo,
		"status":   result.Order.Status,
		"noop":     result.Noop,
	}
}

// AdminListOrders 管理端订单列表
func (h *Handler) AdminListOrders(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)

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

	orders, total, err := h.OrderService.ListOrdersForAdmin(repository.OrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		UserID:      parseOptionalUintQuery(c, "user_id"),
		Status:      strings.ToLower(strings.TrimSpace(c.Query("status"))),
		OrderNo:     strings.TrimSpace(c.Query("order_no")),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// AdminGetOrder 管理端订单详情
func (h *Handler) AdminGetOrder(c *gin.Context) {
	orderID, ok := handlershared.ParseUintParam(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	detail, err := h.OrderService.GetOrderForAdmin(orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, detail)
}

// AdminShipOrder 发货：confirmed -> shipped
func (h *Handler) AdminShipOrder(c *gin.Context) {
	h.applyOrderTransition(c, "admin_order_shipped", constants.AuditActionOrderShip, h.OrderService.Ship)
}

// AdminDeliverOrder 送达：shipped -> delivered，货到付款记为已收款
func (h *Handler) AdminDeliverOrder(c *gin.Context) {
	h.applyOrderTransition(c, "admin_order_delivered", constants.AuditActionOrderDeliver, h.OrderService.Deliver)
}

// AdminCancelOrder 管理端取消订单，发货后不可取消
func (h *Handler) AdminCancelOrder(c *gin.Context) {
	h.applyOrderTransition(c, "admin_order_cancelled", constants.AuditActionOrderCancel, h.OrderService.CancelOrder)
}

func (h *Handler) applyOrderTransition(c *gin.Context, event, auditAction string, apply func(orderID uint) (*service.OrderTransition, error)) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "id", "error.order_not_found")
	if !ok {
		return
	}
	result, err := apply(orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	requestLog(c).Infow(event, "order_id", orderID, "status", result.Order.Status, "noop", result.Noop, "admin_id", adminID)
	if !result.Noop {
		h.recordAdminAudit(c, auditAction, constants.AuditTargetOrder, orderID, models.JSON{
			"order_no": result.Order.OrderNo,
			"status":   result.Order.Status,
		})
	}
	response.Success(c, adminTransitionPayload(result))
}
