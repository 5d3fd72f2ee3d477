package constants

// 订单状态常量
const (
	OrderStatusCreated      = "created"       // 已下单，待支付
	OrderStatusPaid         = "paid"          // 在线支付成功
	OrderStatusCODConfirmed = "cod_confirmed" // 货到付款已确认
	OrderStatusConfirmed    = "confirmed"     // 已扣减库存
	OrderStatusShipped      = "shipped"
	OrderStatusDelivered    = "delivered"
	OrderStatusCancelled    = "cancelled"
)

// 购物车状态常量
const (
	CartStatusActive     = "active"
	CartStatusCheckedOut = "checked_out"
)

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// 支付方式常量
const (
	PaymentMethodUPI        = "UPI"
	PaymentMethodCard       = "CARD"
	PaymentMethodNetBanking = "NET_BANKING"
	PaymentMethodWallet     = "WALLET"
	PaymentMethodCOD        = "COD"
)

// 规格计量单位常量
const (
	UnitGram       = "G"
	UnitKilogram   = "KG"
	UnitMilliliter = "ML"
	UnitLiter      = "L"
	UnitPiece      = "PCS"
)

// 库存流水类型常量
const (
	StockMovementDeduct  = "deduct"
	StockMovementRestore = "restore"
	StockMovementAdjust  = "adjust"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 验证码场景常量
const (
	CaptchaSceneAdminLogin = "admin_login"
	CaptchaSceneSendOTP    = "send_otp"
)

// 限流规则名称
const (
	RateLimitRuleAdminLogin = "admin_login"
	RateLimitRuleOTPSend    = "otp_send"
	RateLimitRuleOTPVerify  = "otp_verify"
)

// PaymentIdempotencyKeyPrefix 支付幂等键前缀
const PaymentIdempotencyKeyPrefix = "order-payment:"

// 队列与任务常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"

	TaskOrderTimeoutCancel = "order:timeout_cancel"
	TaskOTPDeliver         = "otp:deliver"
)

// 登录日志常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"

	LoginLogFailReasonOTPInvalid    = "otp_invalid"
	LoginLogFailReasonOTPExpired    = "otp_expired"
	LoginLogFailReasonOTPExhausted  = "otp_attempts_exhausted"
	LoginLogFailReasonMobileInvalid = "mobile_invalid"
	LoginLogFailReasonUserDisabled  = "user_disabled"
	LoginLogFailReasonInternalError = "internal_error"

	LoginLogSourceWeb = "web"
	LoginLogSourceApp = "app"
)

// 后台审计动作
const (
	AuditActionAdminRolesSet    = "admin.roles_set"
	AuditActionAdminCreate      = "admin.create"
	AuditActionAdminUpdate      = "admin.update"
	AuditActionAdminDelete      = "admin.delete"
	AuditActionUserStatusChange = "user.status_change"
	AuditActionStockAdjust      = "variant.stock_adjust"
	AuditActionOrderShip        = "order.ship"
	AuditActionOrderDeliver     = "order.deliver"
	AuditActionOrderCancel      = "order.cancel"

	AuditTargetAdmin   = "admin"
	AuditTargetUser    = "user"
	AuditTargetVariant = "variant"
	AuditTargetOrder   = "order"
)
