package public

import (
	"strings"

	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/repository"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

func transitionPayload(result *service.OrderTransition) gin.H {
	return gin.H{
		"order_id": result.Order.ID,
		"order_no": result.Order.OrderNo,
		"status":   result.Order.Status,
		"noop":     result.Noop,
	}
}

// Checkout 结算当前购物车到指定地址，不扣减库存
func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	addressID, ok := handlershared.ParseUintParam(c, "addressId", "error.address_not_found")
	if !ok {
		return
	}
	order, err := h.CheckoutService.Checkout(uid, addressID)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	requestLog(c).Infow("order_checkout", "order_id", order.ID, "order_no", order.OrderNo, "user_id", uid)
	response.Success(c, gin.H{
		"order_id":     order.ID,
		"order_no":     order.OrderNo,
		"status":       order.Status,
		"total_amount": order.TotalAmount,
		"currency":     order.Currency,
		"expires_at":   order.ExpiresAt,
	})
}

// ConfirmOrder 确认订单并扣减库存（幂等）
func (h *Handler) ConfirmOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "orderId", "error.order_not_found")
	if !ok {
		return
	}
	result, err := h.OrderService.ConfirmForUser(uid, orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, transitionPayload(result))
}

// CancelOrder 取消订单，已扣库存时回补（幂等）
func (h *Handler) CancelOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "orderId", "error.order_not_found")
	if !ok {
		return
	}
	result, err := h.OrderService.CancelForUser(uid, orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, transitionPayload(result))
}

// ListOrders 我的订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	orders, total, err := h.OrderService.ListOrdersByUser(repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uid,
		Status:   strings.ToLower(strings.TrimSpace(c.Query("status"))),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrder 订单详情（含支付记录）
func (h *Handler) GetOrder(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "orderId", "error.order_not_found")
	if !ok {
		return
	}
	detail, err := h.OrderService.GetOrderByUser(orderID, uid)
	if err != nil {
		respondOrderError(c, err)
		return
	}
	response.Success(c, detail)
}
