//go:build integration
// +build integration

package repository

import (
	"errors"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/brundhavanam/grocery/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var errIntegrationInsufficient = errors.New("insufficient")

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	all := models.AllModels()
	_ = db.Migrator().DropTable(all...)
	if err := db.AutoMigrate(all...); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(all...)
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestPostgresVariantRowLockSerializesDeductions(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	product := &models.Product{Name: "Basmati Rice", IsActive: true}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	variant := &models.ProductVariant{
		ProductID:   product.ID,
		Label:       "5kg",
		Unit:        "KG",
		Value:       5,
		PriceAmount: models.MustMoney("499.00"),
		Stock:       1,
		IsActive:    true,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := db.Transaction(func(tx *gorm.DB) error {
				repo := NewProductVariantRepository(db).WithTx(tx)
				locked, err := repo.LockByIDs([]uint{variant.ID})
				if err != nil {
					return err
				}
				if len(locked) != 1 || locked[0].Stock < 1 {
					return errIntegrationInsufficient
				}
				affected, err := repo.DecrementStock(variant.ID, 1)
				if err != nil {
					return err
				}
				if affected == 0 {
					return errIntegrationInsufficient
				}
				return nil
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			if !errors.Is(err, errIntegrationInsufficient) {
				t.Errorf("unexpected transaction error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Fatalf("expected exactly one deduction, got %d", succeeded)
	}
	var reloaded models.ProductVariant
	if err := db.First(&reloaded, variant.ID).Error; err != nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.Stock != 0 {
		t.Fatalf("expected stock 0, got %d", reloaded.Stock)
	}
}

func TestPostgresSearchUsesILike(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewProductRepository(db)
	if err := repo.Create(&models.Product{Name: "Toor Dal", Category: "pulses", IsActive: true}); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	products, total, err := repo.List(ProductListFilter{Search: "toor", OnlyActive: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 || len(products) != 1 {
		t.Fatalf("expected case-insensitive match, got total=%d len=%d", total, len(products))
	}
}
