package main

import (
	"github.com/brundhavanam/grocery/internal/config"
	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/logger"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/shopspring/decimal"
)

type seedProduct struct {
	name     string
	category string
	desc     string
	variants []service.VariantInput
}

func variant(label string, value float64, unit, price string, stock int) service.VariantInput {
	return service.VariantInput{
		Label:        label,
		Value:        value,
		Unit:         unit,
		Price:        decimal.RequireFromString(price),
		InitialStock: stock,
	}
}

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(models.DBOptions{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN,
		LogLevel: cfg.Database.LogLevel,
		Pool: models.DBPoolConfig{
			MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
			MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
			ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
			ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
		},
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.InitDefaultAdmin(cfg.Admin.DefaultUsername, cfg.Admin.DefaultPassword); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	variantRepo := repository.NewProductVariantRepository(models.DB)
	productRepo := repository.NewProductRepository(models.DB)
	products := service.NewProductService(productRepo, variantRepo, service.NewInventoryLedger(variantRepo))

	catalog := []seedProduct{
		{
			name:     "Sona Masoori Rice",
			category: "staples",
			desc:     "Aged, lightweight rice for everyday meals",
			variants: []service.VariantInput{
				variant("1kg", 1, constants.UnitKilogram, "78.00", 120),
				variant("5kg", 5, constants.UnitKilogram, "365.00", 40),
			},
		},
		{
			name:     "Toor Dal",
			category: "staples",
			desc:     "Unpolished split pigeon peas",
			variants: []service.VariantInput{
				variant("500g", 500, constants.UnitGram, "92.00", 80),
				variant("1kg", 1, constants.UnitKilogram, "175.00", 60),
			},
		},
		{
			name:     "Full Cream Milk",
			category: "dairy",
			desc:     "Pasteurised, chilled",
			variants: []service.VariantInput{
				variant("500ml", 500, constants.UnitMilliliter, "34.00", 200),
				variant("1L", 1, constants.UnitLiter, "66.00", 150),
			},
		},
		{
			name:     "Farm Eggs",
			category: "dairy",
			desc:     "Brown eggs from free range hens",
			variants: []service.VariantInput{
				variant("6 pcs", 6, constants.UnitPiece, "54.00", 90),
				variant("12 pcs", 12, constants.UnitPiece, "102.00", 50),
			},
		},
	}

	for _, item := range catalog {
		var count int64
		if err := models.DB.Model(&models.Product{}).Where("name = ?", item.name).Count(&count).Error; err != nil {
			stdLog.Printf("Failed to check product %s: %v", item.name, err)
			continue
		}
		if count > 0 {
			stdLog.Printf("Product already exists: %s", item.name)
			continue
		}
		product, err := products.Create(service.ProductInput{
			Name:        item.name,
			Description: item.desc,
			Category:    item.category,
			Variants:    item.variants,
		}, 0)
		if err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.name, err)
			continue
		}
		stdLog.Printf("Created product: %s (%d variants)", product.Name, len(product.Variants))
	}

	// 演示用户与默认地址
	userRepo := repository.NewUserRepository(models.DB)
	user, err := userRepo.GetByMobile("9876543210")
	if err != nil {
		stdLog.Fatalf("Failed to load demo user: %v", err)
	}
	if user == nil {
		user = &models.User{Mobile: "9876543210", FullName: "Demo Shopper", Status: constants.UserStatusActive}
		if err := userRepo.Create(user); err != nil {
			stdLog.Fatalf("Failed to create demo user: %v", err)
		}
		addresses := service.NewAddressService(repository.NewAddressRepository(models.DB))
		if _, err := addresses.Create(user.ID, service.AddressInput{
			Label:    "Home",
			FullName: "Demo Shopper",
			Mobile:   "9876543210",
			Street:   "12 MG Road",
			Area:     "Indiranagar",
			City:     "Bengaluru",
			State:    "Karnataka",
			Pincode:  "560038",
		}); err != nil {
			stdLog.Printf("Failed to create demo address: %v", err)
		}
		stdLog.Printf("Created demo user: %s", user.Mobile)
	}

	stdLog.Printf("Seed completed")
}
