package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type orderFixture struct {
	db        *gorm.DB
	ledger    *InventoryLedger
	carts     *CartService
	addresses *AddressService
	checkout  *CheckoutService
	orders    *OrderService
	payments  *PaymentService
	products  *ProductService
}

func setupOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// sqlite 同一时刻只允许一个写事务，串行化连接避免 database is locked
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	variantRepo := repository.NewProductVariantRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	ledger := NewInventoryLedger(variantRepo)
	addresses := NewAddressService(repository.NewAddressRepository(db))
	orders := NewOrderService(orderRepo, paymentRepo, ledger)
	return &orderFixture{
		db:        db,
		ledger:    ledger,
		carts:     NewCartService(cartRepo, variantRepo, "INR", 50),
		addresses: addresses,
		checkout:  NewCheckoutService(cartRepo, orderRepo, addresses, nil, CheckoutOptions{}),
		orders:    orders,
		payments:  NewPaymentService(orderRepo, paymentRepo, orders),
		products:  NewProductService(repository.NewProductRepository(db), variantRepo, ledger),
	}
}

func (f *orderFixture) seedVariant(t *testing.T, name, label, price string, stock int) models.ProductVariant {
	t.Helper()
	product := models.Product{Name: name, Category: "staples", IsActive: true}
	if err := f.db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := models.ProductVariant{
		ProductID:   product.ID,
		Label:       label,
		Value:       1,
		Unit:        constants.UnitKilogram,
		PriceAmount: models.MustMoney(price),
		Stock:       stock,
		IsActive:    true,
	}
	if err := f.db.Create(&variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func (f *orderFixture) seedAddress(t *testing.T, userID uint) *models.Address {
	t.Helper()
	address, err := f.addresses.Create(userID, AddressInput{
		FullName: "Asha Rao",
		Mobile:   "9876543210",
		Street:   "12 MG Road",
		Area:     "Indiranagar",
		City:     "Bengaluru",
		State:    "Karnataka",
		Pincode:  "560038",
	})
	if err != nil {
		t.Fatalf("create address failed: %v", err)
	}
	return address
}

// placeOrder 加购后结算，返回 created 状态的订单
func (f *orderFixture) placeOrder(t *testing.T, userID uint, lines ...StockLine) *models.Order {
	t.Helper()
	for _, line := range lines {
		if _, err := f.carts.AddItem(userID, line.VariantID, line.Quantity); err != nil {
			t.Fatalf("add item failed: %v", err)
		}
	}
	address := f.seedAddress(t, userID)
	order, err := f.checkout.Checkout(userID, address.ID)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	return order
}

func (f *orderFixture) stockOf(t *testing.T, variantID uint) int {
	t.Helper()
	var variant models.ProductVariant
	if err := f.db.Unscoped().First(&variant, variantID).Error; err != nil {
		t.Fatalf("load variant failed: %v", err)
	}
	return variant.Stock
}

func (f *orderFixture) reloadOrder(t *testing.T, orderID uint) models.Order {
	t.Helper()
	var order models.Order
	if err := f.db.First(&order, orderID).Error; err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	return order
}

func testAuthConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		JWT:     config.JWTConfig{SecretKey: "admin-test-secret", ExpireHours: 1, Issuer: "grocery-test"},
		UserJWT: config.JWTConfig{SecretKey: "user-test-secret", ExpireHours: 1, Issuer: "grocery-test"},
		Security: config.SecurityConfig{
			OTP: config.OTPConfig{Length: 6, ExpireMinutes: 5, SendIntervalSeconds: 60, MaxAttempts: 3, DebugEcho: true},
		},
	}
}
