package router

import (
	"net/http"
	"time"

	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/constants"
	adminhandlers "github.com/brundhavanam/grocery/internal/http/handlers/admin"
	publichandlers "github.com/brundhavanam/grocery/internal/http/handlers/public"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/metrics"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const adminPrefix = "/api/v1/admin"

// routes 路由注册所需的共享依赖
type routes struct {
	cfg        *config.Config
	container  *provider.Container
	store      *redis.Client
	shop       *publichandlers.Handler
	backoffice *adminhandlers.Handler
	idempotent gin.HandlerFunc
}

// SetupRouter 组装中间件与全部路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	zl := logger.L
	if zl == nil {
		zl = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	handlershared.RegisterValidation()

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		RequestIDMiddleware(),
		TracingMiddleware(),
		LoggerMiddleware(zl),
		CORSMiddleware(cfg.CORS),
	)

	rt := &routes{
		cfg:        cfg,
		container:  c,
		store:      cache.Client(),
		shop:       publichandlers.New(c),
		backoffice: adminhandlers.New(c),
		idempotent: func(ctx *gin.Context) { ctx.Next() },
	}
	if cfg.Security.Idempotency.Enabled {
		rt.idempotent = IdempotencyMiddleware(time.Duration(cfg.Security.Idempotency.TTLMinutes) * time.Minute)
	}

	v1 := engine.Group("/api/v1")
	rt.registerCatalog(v1.Group("/public"))
	rt.registerOTP(v1.Group("/auth"))
	rt.registerCustomer(v1.Group("", UserJWTAuthMiddleware(cfg.UserJWT.SecretKey, c.UserRepo)))
	rt.registerBackoffice(engine, v1.Group("/admin"))

	if cfg.Metrics.Enabled {
		if registry := metrics.Default(); registry != nil {
			engine.GET(cfg.Metrics.Path, gin.WrapH(registry.Handler()))
		}
	}
	engine.GET("/health", healthCheck)
	return engine
}

func (rt *routes) registerCatalog(g *gin.RouterGroup) {
	g.GET("/products", rt.shop.GetProducts)
	g.GET("/products/:id", rt.shop.GetProduct)
	g.GET("/captcha/image", rt.shop.GetImageCaptcha)
}

func (rt *routes) registerOTP(g *gin.RouterGroup) {
	limits := rt.cfg.Security.OTPRateLimit
	send := RateLimitRule{
		Prefix:        constants.RateLimitRuleOTPSend,
		WindowSeconds: limits.WindowSeconds,
		MaxRequests:   limits.MaxAttempts,
		BlockSeconds:  limits.BlockSeconds,
		MessageKey:    "error.otp_too_many_requests",
	}
	verify := send
	verify.Prefix = constants.RateLimitRuleOTPVerify

	byMobile := KeyByJSONField("mobile")
	g.POST("/otp/send", RateLimitMiddleware(rt.store, send, byMobile), rt.shop.SendOTP)
	g.POST("/otp/verify", RateLimitMiddleware(rt.store, verify, byMobile), rt.shop.VerifyOTP)
}

// registerCustomer 顾客资料、地址、购物车、订单与支付
func (rt *routes) registerCustomer(g *gin.RouterGroup) {
	h, once := rt.shop, rt.idempotent

	g.GET("/me", h.GetCurrentUser)
	g.PUT("/me", h.UpdateUserProfile)
	g.GET("/me/login-logs", h.GetMyLoginLogs)

	addresses := g.Group("/addresses")
	addresses.GET("", h.ListAddresses)
	addresses.POST("", h.CreateAddress)
	addresses.PUT("/:id", h.UpdateAddress)
	addresses.DELETE("/:id", h.DeleteAddress)
	addresses.PUT("/:id/default", h.SetDefaultAddress)

	cart := g.Group("/cart")
	cart.GET("", h.GetCart)
	cart.DELETE("", h.ClearCart)
	cart.POST("/items", h.AddCartItem)
	cart.PUT("/items/:id", h.UpdateCartItem)
	cart.DELETE("/items/:id", h.DeleteCartItem)

	orders := g.Group("/orders")
	orders.GET("", h.ListOrders)
	orders.GET("/:orderId", h.GetOrder)
	orders.POST("/checkout/:addressId", once, h.Checkout)
	orders.POST("/:orderId/confirm", once, h.ConfirmOrder)
	orders.POST("/:orderId/cancel", once, h.CancelOrder)

	g.POST("/payments/success/:orderId", once, h.PaymentSuccess)
}

// registerBackoffice 登录接口外的后台路由均需 JWT 与 RBAC
func (rt *routes) registerBackoffice(engine *gin.Engine, g *gin.RouterGroup) {
	h := rt.backoffice
	loginLimits := rt.cfg.Security.LoginRateLimit
	g.POST("/login", RateLimitMiddleware(rt.store, RateLimitRule{
		Prefix:        constants.RateLimitRuleAdminLogin,
		WindowSeconds: loginLimits.WindowSeconds,
		MaxRequests:   loginLimits.MaxAttempts,
		BlockSeconds:  loginLimits.BlockSeconds,
		MessageKey:    "error.login_too_many",
	}, KeyByIP), h.AdminLogin)

	guarded := g.Group("",
		JWTAuthMiddleware(rt.cfg.JWT.SecretKey, rt.container.AdminRepo),
		AdminRBACMiddleware(rt.container.AuthzService),
	)
	guarded.GET("/me", h.GetAdminMe)
	guarded.PUT("/password", h.UpdateAdminPassword)

	dashboard := guarded.Group("/dashboard")
	dashboard.GET("/overview", h.GetDashboardOverview)
	dashboard.GET("/trends", h.GetDashboardTrends)
	dashboard.GET("/rankings", h.GetDashboardRankings)

	guarded.GET("/products", h.GetAdminProducts)
	guarded.POST("/products", h.CreateProduct)
	guarded.GET("/products/:id", h.GetAdminProduct)
	guarded.PUT("/products/:id", h.UpdateProduct)
	guarded.DELETE("/products/:id", h.DeleteProduct)
	guarded.POST("/products/:id/variants", h.CreateVariant)
	guarded.PUT("/variants/:id", h.UpdateVariant)
	guarded.PATCH("/variants/:id/status", h.SetVariantStatus)
	guarded.POST("/variants/:id/stock", h.AdjustVariantStock)
	guarded.GET("/stock-movements", h.ListStockMovements)

	orders := guarded.Group("/orders")
	orders.GET("", h.AdminListOrders)
	orders.GET("/:id", h.AdminGetOrder)
	orders.POST("/:id/ship", h.AdminShipOrder)
	orders.POST("/:id/deliver", h.AdminDeliverOrder)
	orders.POST("/:id/cancel", h.AdminCancelOrder)

	guarded.GET("/users", h.GetAdminUsers)
	guarded.GET("/users/:id", h.GetAdminUser)
	guarded.PUT("/users/:id/status", h.UpdateAdminUserStatus)
	guarded.GET("/user-login-logs", h.GetUserLoginLogs)
	guarded.GET("/audit-logs", h.ListAdminAuditLogs)

	authzGroup := guarded.Group("/authz")
	authzGroup.GET("/me", h.GetAuthzMe)
	authzGroup.GET("/roles", h.ListAuthzRoles)
	authzGroup.GET("/roles/:role/policies", h.GetAuthzRolePolicies)
	authzGroup.GET("/admins", h.ListAuthzAdmins)
	authzGroup.POST("/admins", h.CreateAuthzAdmin)
	authzGroup.PUT("/admins/:id", h.UpdateAuthzAdmin)
	authzGroup.DELETE("/admins/:id", h.DeleteAuthzAdmin)
	authzGroup.GET("/admins/:id/roles", h.GetAuthzAdminRoles)
	authzGroup.PUT("/admins/:id/roles", h.SetAuthzAdminRoles)
	authzGroup.GET("/permissions/catalog", func(ctx *gin.Context) {
		response.Success(ctx, permissionCatalog(engine.Routes()))
	})
}

func healthCheck(c *gin.Context) {
	status := "ok"
	if models.DB == nil {
		status = "degraded"
	} else if sqlDB, err := models.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "redis": cache.Enabled()})
}
