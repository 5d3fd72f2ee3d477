package admin

import (
	"errors"

	"github.com/brundhavanam/grocery/internal/authz"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func bindJSON(c *gin.Context, req interface{}) bool {
	return handlershared.BindJSON(c, req)
}

var accountErrorRules = []handlershared.MappedError{
	{Target: service.ErrInvalidCredentials, Code: response.CodeUnauthorized, Key: "error.invalid_credentials"},
	{Target: service.ErrInvalidPassword, Code: response.CodeBadRequest, Key: "error.password_invalid"},
	{Target: service.ErrAdminNotFound, Code: response.CodeNotFound, Key: "error.admin_not_found"},
	{Target: service.ErrCaptchaRequired, Code: response.CodeBadRequest, Key: "error.captcha_required"},
	{Target: service.ErrCaptchaInvalid, Code: response.CodeBadRequest, Key: "error.captcha_invalid"},
	{Target: service.ErrAdminUsernameInvalid, Code: response.CodeBadRequest, Key: "error.admin_username_invalid"},
	{Target: service.ErrAdminUsernameExists, Code: response.CodeConflict, Key: "error.admin_username_exists"},
	{Target: service.ErrAdminDeleteForbidden, Code: response.CodeForbidden, Key: "error.admin_delete_forbidden"},
}

var userErrorRules = []handlershared.MappedError{
	{Target: service.ErrUserNotFound, Code: response.CodeNotFound, Key: "error.user_not_found"},
	{Target: service.ErrUserStatusInvalid, Code: response.CodeBadRequest, Key: "error.user_status_invalid"},
}

var productErrorRules = []handlershared.MappedError{
	{Target: service.ErrProductNotFound, Code: response.CodeNotFound, Key: "error.product_not_found"},
	{Target: service.ErrVariantNotFound, Code: response.CodeNotFound, Key: "error.variant_not_found"},
	{Target: service.ErrProductInvalid, Code: response.CodeBadRequest, Key: "error.product_invalid"},
	{Target: service.ErrVariantInvalid, Code: response.CodeBadRequest, Key: "error.variant_invalid"},
	{Target: service.ErrStockAdjustInvalid, Code: response.CodeBadRequest, Key: "error.stock_adjust_invalid"},
}

var orderErrorRules = []handlershared.MappedError{
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Key: "error.order_not_found"},
	{Target: service.ErrOrderStatusInvalid, Code: response.CodeConflict, Key: "error.order_status_invalid"},
	{Target: service.ErrOrderCancelNotAllowed, Code: response.CodeConflict, Key: "error.order_cancel_not_allowed"},
	{Target: service.ErrOrderExpired, Code: response.CodeConflict, Key: "error.order_expired"},
}

func respondAccountError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, accountErrorRules, response.CodeInternal, "error.internal")
}

func respondAuthzError(c *gin.Context, err error) {
	if errors.Is(err, authz.ErrUnknownRole) {
		respondError(c, response.CodeBadRequest, "error.role_invalid", nil)
		return
	}
	respondError(c, response.CodeInternal, "error.authz_failed", err)
}

func respondUserError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, userErrorRules, response.CodeInternal, "error.fetch_failed")
}

func respondProductError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, productErrorRules, response.CodeInternal, "error.save_failed")
}

func respondOrderError(c *gin.Context, err error) {
	handlershared.RespondMappedError(c, err, orderErrorRules, response.CodeInternal, "error.order_update_failed")
}
