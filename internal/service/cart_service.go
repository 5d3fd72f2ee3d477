package service

import (
	"fmt"

	"github.com/brundhavanam/grocery/internal/constants"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/repository"
)

// CartItemDetail 购物车项详情（用于响应），价格取规格当前价
type CartItemDetail struct {
	ItemID       uint         `json:"item_id"`
	VariantID    uint         `json:"variant_id"`
	ProductID    uint         `json:"product_id"`
	ProductName  string       `json:"product_name"`
	VariantLabel string       `json:"variant_label"`
	Unit         string       `json:"unit"`
	UnitPrice    models.Money `json:"unit_price"`
	Quantity     int          `json:"quantity"`
	ItemTotal    models.Money `json:"item_total"`
	Available    bool         `json:"available"`
	Stock        int          `json:"stock"`
}

// CartView 购物车快照
type CartView struct {
	CartID      uint             `json:"cart_id"`
	Items       []CartItemDetail `json:"items"`
	ItemCount   int              `json:"item_count"`
	TotalAmount models.Money     `json:"total_amount"`
	Currency    string           `json:"currency"`
}

// CartService 购物车服务，不修改库存
type CartService struct {
	cartRepo    repository.CartRepository
	variantRepo repository.ProductVariantRepository
	currency    string
	maxQuantity int
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, variantRepo repository.ProductVariantRepository, currency string, maxQuantity int) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		variantRepo: variantRepo,
		currency:    currency,
		maxQuantity: maxQuantity,
	}
}

// GetCart 获取当前购物车快照，没有购物车时返回空快照
func (s *CartService) GetCart(userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	if cart == nil {
		return s.emptyView(), nil
	}
	return s.buildView(cart)
}

// AddItem 添加规格到购物车，重复添加时累加数量
func (s *CartService) AddItem(userID, variantID uint, quantity int) (*CartView, error) {
	if userID == 0 || variantID == 0 {
		return nil, ErrVariantNotFound
	}
	if err := s.validateQuantity(quantity); err != nil {
		return nil, err
	}
	variant, err := s.variantRepo.GetActiveByID(variantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}

	cart, err := s.ensureActiveCart(userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.cartRepo.GetItemByVariant(cart.ID, variantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}

	current := 0
	if existing != nil {
		current = existing.Quantity
	}
	target, err := s.mergedQuantity(variant, current, quantity)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if err := s.cartRepo.UpdateItemQuantity(existing.ID, target); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
		}
		return s.buildView(cart)
	}
	item := &models.CartItem{CartID: cart.ID, VariantID: variantID, Quantity: quantity}
	if err := s.cartRepo.CreateItem(item); err != nil {
		if err := s.mergeRacedItem(cart.ID, variant, quantity, err); err != nil {
			return nil, err
		}
	}
	return s.buildView(cart)
}

// mergedQuantity 累加后的数量需同时满足单项上限与可售库存
func (s *CartService) mergedQuantity(variant *models.ProductVariant, current, quantity int) (int, error) {
	target := current + quantity
	if err := s.validateQuantity(target); err != nil {
		return 0, err
	}
	if err := softStockCheck(variant, target); err != nil {
		return 0, err
	}
	return target, nil
}

// mergeRacedItem 并发添加同一规格时唯一索引冲突，改为在已写入的行上累加
func (s *CartService) mergeRacedItem(cartID uint, variant *models.ProductVariant, quantity int, createErr error) error {
	raced, err := s.cartRepo.GetItemByVariant(cartID, variant.ID)
	if err != nil || raced == nil {
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, createErr)
	}
	merged, err := s.mergedQuantity(variant, raced.Quantity, quantity)
	if err != nil {
		return err
	}
	if err := s.cartRepo.UpdateItemQuantity(raced.ID, merged); err != nil {
		return fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	return nil
}

// UpdateItem 修改购物车项数量
func (s *CartService) UpdateItem(userID, itemID uint, quantity int) (*CartView, error) {
	if err := s.validateQuantity(quantity); err != nil {
		return nil, err
	}
	cart, item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	variant, err := s.variantRepo.GetActiveByID(item.VariantID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	if variant == nil {
		return nil, ErrVariantNotFound
	}
	if err := softStockCheck(variant, quantity); err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItemQuantity(item.ID, quantity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	return s.buildView(cart)
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(userID, itemID uint) (*CartView, error) {
	cart, item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	return s.buildView(cart)
}

// ClearCart 清空购物车
func (s *CartService) ClearCart(userID uint) (*CartView, error) {
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	if cart == nil {
		return s.emptyView(), nil
	}
	if err := s.cartRepo.ClearItems(cart.ID); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
	}
	return s.buildView(cart)
}

func (s *CartService) ownedItem(userID, itemID uint) (*models.Cart, *models.CartItem, error) {
	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	if item == nil {
		return nil, nil, ErrCartItemNotFound
	}
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	if cart == nil || cart.ID != item.CartID {
		return nil, nil, ErrCartItemNotOwned
	}
	return cart, item, nil
}

// ensureActiveCart 懒创建 active 购物车，并发创建冲突时回读
func (s *CartService) ensureActiveCart(userID uint) (*models.Cart, error) {
	cart, err := s.cartRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	if cart != nil {
		return cart, nil
	}
	cart = &models.Cart{UserID: userID, Status: constants.CartStatusActive}
	if err := s.cartRepo.CreateCart(cart); err != nil {
		existing, getErr := s.cartRepo.GetActiveByUser(userID)
		if getErr != nil || existing == nil {
			return nil, fmt.Errorf("%w: %v", ErrCartUpdateFailed, err)
		}
		return existing, nil
	}
	return cart, nil
}

func (s *CartService) buildView(cart *models.Cart) (*CartView, error) {
	items, err := s.cartRepo.ListItems(cart.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartFetchFailed, err)
	}
	view := s.emptyView()
	view.CartID = cart.ID
	total := models.Money{}
	for _, item := range items {
		detail := CartItemDetail{
			ItemID:    item.ID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
		if v := item.Variant; v != nil {
			detail.ProductID = v.ProductID
			detail.ProductName = v.ProductName()
			detail.VariantLabel = v.Label
			detail.Unit = v.Unit
			detail.UnitPrice = v.PriceAmount
			detail.ItemTotal = v.PriceAmount.MulQuantity(item.Quantity)
			detail.Stock = v.Stock
			detail.Available = isVariantPurchasable(v) && v.Stock >= item.Quantity
		}
		total = total.Add(detail.ItemTotal)
		view.ItemCount += item.Quantity
		view.Items = append(view.Items, detail)
	}
	view.TotalAmount = total
	return view, nil
}

func (s *CartService) emptyView() *CartView {
	return &CartView{Items: []CartItemDetail{}, Currency: s.currency}
}

func (s *CartService) validateQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if s.maxQuantity > 0 && quantity > s.maxQuantity {
		return ErrInvalidQuantity
	}
	return nil
}

// softStockCheck 加购时的库存软校验，不做预占
func softStockCheck(variant *models.ProductVariant, quantity int) error {
	if variant.Stock < quantity {
		return &InsufficientStockError{
			VariantID: variant.ID,
			Label:     variantDisplayLabel(*variant),
			Requested: quantity,
			Available: variant.Stock,
		}
	}
	return nil
}

func isVariantPurchasable(v *models.ProductVariant) bool {
	if v == nil || !v.IsActive || v.DeletedAt.Valid {
		return false
	}
	if v.Product != nil && (!v.Product.IsActive || v.Product.DeletedAt.Valid) {
		return false
	}
	return true
}
