package public

import (
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

// PaymentSuccess 模拟网关支付成功回调：记录支付并确认订单
func (h *Handler) PaymentSuccess(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "orderId", "error.order_not_found")
	if !ok {
		return
	}
	result, err := h.PaymentService.RecordPaymentAndConfirm(service.PaymentCallbackInput{
		OrderID: orderID,
		UserID:  uid,
		Method:  c.Query("method"),
	})
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	response.Success(c, result)
}
