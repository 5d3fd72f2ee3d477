package service

import (
	"errors"
	"fmt"

	"github.com/brundhavanam/grocery/internal/models"
)

// 通用错误
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrUnauthorized       = errors.New("unauthorized")
)

// 用户与认证
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserDisabled     = errors.New("user disabled")
	ErrInvalidMobile    = errors.New("invalid mobile number")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrOTPInvalid       = errors.New("otp invalid")
	ErrOTPExpired       = errors.New("otp expired or missing")
	ErrOTPTooFrequent   = errors.New("otp requested too frequently")
	ErrOTPTooManyTries  = errors.New("otp attempts exhausted")
	ErrOTPDeliverFailed = errors.New("otp delivery failed")
	ErrCaptchaRequired  = errors.New("captcha required")
	ErrCaptchaInvalid   = errors.New("captcha invalid")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenRevoked     = errors.New("token revoked")
)

// 地址
var (
	ErrAddressNotFound = errors.New("address not found")
	ErrAddressInvalid  = errors.New("address invalid")
)

// 商品与规格
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrVariantNotFound    = errors.New("variant not found")
	ErrProductInvalid     = errors.New("product invalid")
	ErrVariantInvalid     = errors.New("variant invalid")
	ErrStockAdjustInvalid = errors.New("stock adjustment invalid")
	ErrProductSaveFailed  = errors.New("product save failed")
)

// 库存
var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStockUpdateFailed = errors.New("stock update failed")
)

// 购物车
var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrCartItemNotFound   = errors.New("cart item not found")
	ErrCartItemNotOwned   = errors.New("cart item does not belong to active cart")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrCartFetchFailed    = errors.New("cart fetch failed")
	ErrCartUpdateFailed   = errors.New("cart update failed")
	ErrCartCheckoutFailed = errors.New("cart checkout failed")
)

// 订单
var (
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderStatusInvalid    = errors.New("order status transition not allowed")
	ErrOrderCancelNotAllowed = errors.New("order can not be cancelled after shipping")
	ErrOrderFetchFailed      = errors.New("order fetch failed")
	ErrOrderUpdateFailed     = errors.New("order update failed")
	ErrOrderCreateFailed     = errors.New("order create failed")
	ErrOrderExpired          = errors.New("order payment window expired")
)

// 支付
var (
	ErrPaymentMethodInvalid = errors.New("payment method invalid")
	ErrPaymentCreateFailed  = errors.New("payment create failed")
)

// 管理端
var (
	ErrAdminNotFound        = errors.New("admin not found")
	ErrRoleInvalid          = errors.New("role invalid")
	ErrAdminUsernameInvalid = errors.New("admin username invalid")
	ErrAdminUsernameExists  = errors.New("admin username already exists")
	ErrAdminDeleteForbidden = errors.New("admin can not be deleted")
	ErrUserStatusInvalid    = errors.New("user status invalid")
)

// 仪表盘
var (
	ErrDashboardRangeInvalid = errors.New("dashboard range invalid")
)

// InsufficientStockError 库存不足，携带规格信息
type InsufficientStockError struct {
	VariantID uint
	Label     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	if e.Label != "" {
		return fmt.Sprintf("insufficient stock for %s: only %d available", e.Label, e.Available)
	}
	return fmt.Sprintf("insufficient stock for variant %d: only %d available", e.VariantID, e.Available)
}

// Is 使 errors.Is(err, ErrInsufficientStock) 成立
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// OrderTransition 订单状态流转结果，Noop 表示幂等命中未做任何修改
type OrderTransition struct {
	Order *models.Order
	Noop  bool
}
