package service

import (
	"fmt"
	"strings"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var supportedUnits = map[string]bool{
	constants.UnitGram:       true,
	constants.UnitKilogram:   true,
	constants.UnitMilliliter: true,
	constants.UnitLiter:      true,
	constants.UnitPiece:      true,
}

// ProductService 商品业务服务
type ProductService struct {
	repo        repository.ProductRepository
	variantRepo repository.ProductVariantRepository
	ledger      *InventoryLedger
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, variantRepo repository.ProductVariantRepository, ledger *InventoryLedger) *ProductService {
	return &ProductService{repo: repo, variantRepo: variantRepo, ledger: ledger}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	Name        string
	Description string
	Category    string
	ImageURL    string
	IsActive    *bool
	SortOrder   int
	Variants    []VariantInput
}

// VariantInput 创建/更新规格输入，InitialStock 仅在创建时生效
type VariantInput struct {
	Label        string
	Value        float64
	Unit         string
	Price        decimal.Decimal
	InitialStock int
	IsActive     *bool
}

// ListPublic 获取上架商品列表
func (s *ProductService) ListPublic(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Category:   category,
		Search:     search,
		OnlyActive: true,
	})
}

// GetPublic 获取上架商品详情（仅启用规格）
func (s *ProductService) GetPublic(id uint) (*models.Product, error) {
	product, err := s.repo.GetActiveByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin 获取后台商品列表
func (s *ProductService) ListAdmin(category, search string, page, pageSize int) ([]models.Product, int64, error) {
	return s.repo.List(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		Category: category,
		Search:   search,
	})
}

// GetAdmin 获取后台商品详情（含停用规格）
func (s *ProductService) GetAdmin(id uint) (*models.Product, error) {
	product, err := s.repo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create 创建商品及规格，初始库存写入库存流水
func (s *ProductService) Create(input ProductInput, adminID uint) (*models.Product, error) {
	if err := normalizeProductInput(&input); err != nil {
		return nil, err
	}
	variants := make([]models.ProductVariant, 0, len(input.Variants))
	for i := range input.Variants {
		if err := normalizeVariantInput(&input.Variants[i]); err != nil {
			return nil, err
		}
		if input.Variants[i].InitialStock < 0 {
			return nil, ErrVariantInvalid
		}
	}
	product := &models.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		ImageURL:    input.ImageURL,
		IsActive:    boolOrDefault(input.IsActive, true),
		SortOrder:   input.SortOrder,
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(product); err != nil {
			return fmt.Errorf("%w: %v", ErrProductSaveFailed, err)
		}
		variantRepo := s.variantRepo.WithTx(tx)
		movements := make([]models.StockMovement, 0, len(input.Variants))
		for _, in := range input.Variants {
			variant := newVariantFromInput(product.ID, in)
			if err := variantRepo.Create(&variant); err != nil {
				return fmt.Errorf("%w: %v", ErrProductSaveFailed, err)
			}
			if variant.Stock > 0 {
				movements = append(movements, buildMovement(variant.ID, constants.StockMovementAdjust, variant.Stock, variant.Stock, MovementRef{AdminID: optionalID(adminID), Reason: "initial stock"}))
			}
			variants = append(variants, variant)
		}
		return variantRepo.CreateMovements(movements)
	})
	if err != nil {
		return nil, err
	}
	product.Variants = variants
	return product, nil
}

// Update 更新商品基础信息
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	if err := normalizeProductInput(&input); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(id, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	product.Name = input.Name
	product.Description = input.Description
	product.Category = input.Category
	product.ImageURL = input.ImageURL
	product.SortOrder = input.SortOrder
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := s.repo.Update(product); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductSaveFailed, err)
	}
	return product, nil
}

// Delete 删除商品（软删除，历史订单快照不受影响）
func (s *ProductService) Delete(id uint) error {
	product, err := s.repo.GetByID(id, false)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return models.DB.Transaction(func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(id)
	})
}

// CreateVariant 为商品新增规格
func (s *ProductService) CreateVariant(productID uint, input VariantInput, adminID uint) (*models.ProductVariant, error) {
	if err := normalizeVariantInput(&input); err != nil {
		return nil, err
	}
	if input.InitialStock < 0 {
		return nil, ErrVariantInvalid
	}
	product, err := s.repo.GetByID(productID, false)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	variant := newVariantFromInput(productID, input)
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.variantRepo.WithTx(tx)
		if err := repo.Create(&variant); err != nil {
			return fmt.Errorf("%w: %v", ErrProductSaveFailed, err)
		}
		if variant.Stock == 0 {
			return nil
		}
		return repo.CreateMovements([]models.StockMovement{
			buildMovement(variant.ID, constants.StockMovementAdjust, variant.Stock, variant.Stock, MovementRef{AdminID: optionalID(adminID), Reason: "initial stock"}),
		})
	})
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

// UpdateVariant 更新规格信息（不含库存）
func (s *ProductService) UpdateVariant(variantID uint, input VariantInput) (*models.ProductVariant, error) {
	if err := normalizeVariantInput(&input); err != nil {
		return nil, err
	}
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	updates := map[string]interface{}{
		"label":        input.Label,
		"value":        input.Value,
		"unit":         input.Unit,
		"price_amount": models.NewMoneyFromDecimal(input.Price),
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := s.variantRepo.UpdateFields(variantID, updates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductSaveFailed, err)
	}
	return s.variantRepo.GetByID(variantID)
}

// SetVariantActive 启用/停用规格
func (s *ProductService) SetVariantActive(variantID uint, active bool) (*models.ProductVariant, error) {
	variant, err := s.variantRepo.GetByID(variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	if err := s.variantRepo.UpdateFields(variantID, map[string]interface{}{"is_active": active}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProductSaveFailed, err)
	}
	variant.IsActive = active
	return variant, nil
}

// AdjustStock 管理端调整库存（经由库存账本）
func (s *ProductService) AdjustStock(variantID uint, delta int, reason string, adminID uint) (*models.ProductVariant, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "manual adjustment"
	}
	return s.ledger.Adjust(variantID, delta, MovementRef{AdminID: optionalID(adminID), Reason: reason})
}

// ListStockMovements 库存流水
func (s *ProductService) ListStockMovements(filter repository.StockMovementFilter) ([]models.StockMovement, int64, error) {
	return s.ledger.ListMovements(filter)
}

func normalizeProductInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.ToLower(strings.TrimSpace(input.Category))
	input.ImageURL = strings.TrimSpace(input.ImageURL)
	if input.Name == "" {
		return ErrProductInvalid
	}
	return nil
}

func normalizeVariantInput(input *VariantInput) error {
	input.Label = strings.TrimSpace(input.Label)
	input.Unit = strings.ToUpper(strings.TrimSpace(input.Unit))
	if input.Label == "" || input.Value <= 0 || !supportedUnits[input.Unit] {
		return ErrVariantInvalid
	}
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return ErrVariantInvalid
	}
	return nil
}

func newVariantFromInput(productID uint, in VariantInput) models.ProductVariant {
	return models.ProductVariant{
		ProductID:   productID,
		Label:       in.Label,
		Value:       in.Value,
		Unit:        in.Unit,
		PriceAmount: models.NewMoneyFromDecimal(in.Price),
		Stock:       in.InitialStock,
		IsActive:    boolOrDefault(in.IsActive, true),
	}
}

func boolOrDefault(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
