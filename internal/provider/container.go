package provider

import (
	"context"
	"time"

	"github.com/brundhavanam/grocery/internal/authz"
	"github.com/brundhavanam/grocery/internal/cache"
	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/queue"
	"github.com/brundhavanam/grocery/internal/repository"
	"github.com/brundhavanam/grocery/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	OTPStore    service.OTPStore
	SMSSender   service.SMSSender

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	AddressRepo   repository.AddressRepository
	ProductRepo   repository.ProductRepository
	VariantRepo   repository.ProductVariantRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository
	PaymentRepo   repository.PaymentRepository
	DashboardRepo repository.DashboardRepository
	LoginLogRepo  repository.UserLoginLogRepository
	AuditLogRepo  repository.AdminAuditLogRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	UserAuthService  *service.UserAuthService
	CaptchaService   *service.CaptchaService
	InventoryLedger  *service.InventoryLedger
	AddressService   *service.AddressService
	ProductService   *service.ProductService
	CartService      *service.CartService
	CheckoutService  *service.CheckoutService
	OrderService     *service.OrderService
	PaymentService   *service.PaymentService
	DashboardService *service.DashboardService

	UserLoginLogService *service.UserLoginLogService
	AdminAuditService   *service.AdminAuditService
}

// NewContainer 初始化容器，redis 与队列不可用时降级为进程内实现
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg.Redis.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := cache.InitRedis(ctx, &cfg.Redis)
		cancel()
		if err != nil {
			logger.Warnw("provider_init_redis_failed", "error", err)
		}
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient = nil
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		OTPStore:    service.NewOTPStore(),
		SMSSender:   service.LogSMSSender{},
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	if err := c.initServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.AddressRepo = repository.NewAddressRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.VariantRepo = repository.NewProductVariantRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.PaymentRepo = repository.NewPaymentRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
	c.LoginLogRepo = repository.NewUserLoginLogRepository(db)
	c.AuditLogRepo = repository.NewAdminAuditLogRepository(db)
}

func (c *Container) initServices() error {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		return err
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		return err
	}

	orderCfg := c.Config.Order
	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo, c.OTPStore, c.SMSSender, c.QueueClient)
	c.InventoryLedger = service.NewInventoryLedger(c.VariantRepo)
	c.AddressService = service.NewAddressService(c.AddressRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.VariantRepo, c.InventoryLedger)
	c.CartService = service.NewCartService(c.CartRepo, c.VariantRepo, orderCfg.Currency, orderCfg.MaxItemQuantity)
	c.CheckoutService = service.NewCheckoutService(c.CartRepo, c.OrderRepo, c.AddressService, c.QueueClient, service.CheckoutOptions{
		Currency:             orderCfg.Currency,
		PaymentExpireMinutes: orderCfg.PaymentExpireMinutes,
		OrderNoPrefix:        orderCfg.OrderNoPrefix,
	})
	c.OrderService = service.NewOrderService(c.OrderRepo, c.PaymentRepo, c.InventoryLedger)
	c.PaymentService = service.NewPaymentService(c.OrderRepo, c.PaymentRepo, c.OrderService)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.Config.Dashboard, orderCfg.Currency)
	c.UserLoginLogService = service.NewUserLoginLogService(c.LoginLogRepo)
	c.AdminAuditService = service.NewAdminAuditService(c.AuditLogRepo)
	return nil
}

// Close 释放外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if closer, ok := c.OTPStore.(interface{ Close() }); ok {
		closer.Close()
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
