package public

import (
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
)

var otpErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidMobile, Code: response.CodeBadRequest, Key: "error.mobile_invalid"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrOTPTooFrequent, Code: response.CodeTooManyRequests, Key: "error.otp_too_frequent"},
	{Target: service.ErrOTPDeliverFailed, Code: response.CodeInternal, Key: "error.otp_deliver_failed"},
	{Target: service.ErrOTPInvalid, Code: response.CodeBadRequest, Key: "error.otp_invalid"},
	{Target: service.ErrOTPExpired, Code: response.CodeBadRequest, Key: "error.otp_expired"},
	{Target: service.ErrOTPTooManyTries, Code: response.CodeTooManyRequests, Key: "error.otp_attempts_exhausted"},
	{Target: service.ErrUserDisabled, Code: response.CodeUnauthorized, Key: "error.user_disabled"},
}

var profileErrorRules = []handlershared.MappedError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrInvalidEmail, Code: response.CodeBadRequest, Key: "error.email_invalid"},
}

var addressErrorRules = []handlershared.MappedError{
	{Target: service.ErrAddressNotFound, Code: response.CodeNotFound, Key: "error.address_not_found"},
	{Target: service.ErrAddressInvalid, Code: response.CodeBadRequest, Key: "error.address_invalid"},
	{Target: service.ErrInvalidMobile, Code: response.CodeBadRequest, Key: "error.mobile_invalid"},
}

var catalogErrorRules = []handlershared.MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
}

var cartErrorRules = []handlershared.MappedError{
	{Target: service.ErrVariantNotFound, Code: response.CodeNotFound, Key: "error.variant_not_found"},
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Key: "error.quantity_invalid"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Key: "error.cart_item_not_found"},
	{Target: service.ErrCartItemNotOwned, Code: response.CodeBadRequest, Key: "error.cart_item_not_owned"},
}

var orderErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeConflict, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeConflict, Key: "error.order_cancel_not_allowed"},
	{Target: service.ErrOrderExpired, Code: response.CodeConflict, Key: "error.order_expired"},
}

var checkoutErrorRules = []handlershared.MappedError{
	{Target: service.ErrCartEmpty, Code: response.CodeNotFound, Key: "error.cart_empty"},
	{Target: service.ErrAddressNotFound, Code: response.CodeNotFound, Key: "error.address_not_found"},
	{Target: service.ErrVariantNotFound, Code: response.CodeBadRequest, Key: "error.variant_not_found"},
}

var paymentErrorRules = []handlershared.MappedError{
	{Target: service.ErrPaymentMethodInvalid, Code: response.CodeBadRequest, Key: "error.payment_method_invalid"},
}

func respondOTPError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, otpErrorRules, response.CodeInternal, "error.internal")
}

func respondProfileError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, profileErrorRules, response.CodeInternal, "error.save_failed")
}

func respondAddressError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, addressErrorRules, response.CodeInternal, "error.save_failed")
}

func respondCartError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, cartErrorRules, response.CodeInternal, "error.cart_update_failed")
}

func respondCheckoutError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, checkoutErrorRules, response.CodeInternal, "error.order_create_failed")
}

func respondOrderError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_update_failed")
}

func respondPaymentError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, handlershared.ConcatMappedErrors(paymentErrorRules, orderErrorRules), response.CodeInternal, "error.payment_failed")
}
