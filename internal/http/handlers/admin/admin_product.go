package admin

import (
	"strings"

	"github.com/brundhavanam/grocery/internal/constants"
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/models"
	"github.com/brundhavanam/grocery/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// VariantRequest 规格请求
type VariantRequest struct {
	Label        string          `json:"label" binding:"required,max=80"`
	Value        float64         `json:"value" binding:"required,gt=0"`
	Unit         string          `json:"unit" binding:"required,oneof=G KG ML L PCS g kg ml l pcs"`
	Price        decimal.Decimal `json:"price"`
	InitialStock int             `json:"initial_stock" binding:"min=0"`
	IsActive     *bool           `json:"is_active"`
}

func (r VariantRequest) toInput() service.VariantInput {
	return service.VariantInput{
		Label:        r.Label,
		Value:        r.Value,
		Unit:         r.Unit,
		Price:        r.Price,
		InitialStock: r.InitialStock,
		IsActive:     r.IsActive,
	}
}

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Name        string           `json:"name" binding:"required,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Category    string           `json:"category" binding:"max=80"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url"`
	IsActive    *bool            `json:"is_active"`
	SortOrder   int              `json:"sort_order"`
	Variants    []VariantRequest `json:"variants" binding:"dive"`
}

func (r ProductRequest) toInput() service.ProductInput {
	variants := make([]service.VariantInput, 0, len(r.Variants))
	for _, v := range r.Variants {
		variants = append(variants, v.toInput())
	}
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		IsActive:    r.IsActive,
		SortOrder:   r.SortOrder,
		Variants:    variants,
	}
}

// VariantStatusRequest 规格启停请求
type VariantStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// StockAdjustRequest 库存调整请求，delta 可正可负
type StockAdjustRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"max=255"`
}

// GetAdminProducts 获取商品列表 (Admin)
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	products, total, err := h.ProductService.ListAdmin(strings.TrimSpace(c.Query("category")), strings.TrimSpace(c.Query("search")), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetAdminProduct 获取商品详情 (Admin)
func (h *Handler) GetAdminProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.ProductService.GetAdmin(id)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct 创建商品（可同时创建规格）
func (h *Handler) CreateProduct(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.ProductService.Create(req.toInput(), adminID)
	if err != nil {
		respondProductError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_created", "product_id", product.ID, "admin_id", adminID)
	response.Success(c, product)
}

// UpdateProduct 更新商品基础信息
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req ProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		respondProductError(c, err)
		return
	}
	requestLog(c).Infow("admin_product_deleted", "product_id", id)
	response.Success(c, nil)
}

// CreateVariant 为商品新增规格
func (h *Handler) CreateVariant(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	var req VariantRequest
	if !bindJSON(c, &req) {
		return
	}
	variant, err := h.ProductService.CreateVariant(productID, req.toInput(), adminID)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, variant)
}

// UpdateVariant 更新规格（不修改库存）
func (h *Handler) UpdateVariant(c *gin.Context) {
	variantID, ok := handlershared.ParseUintParam(c, "id", "error.variant_not_found")
	if !ok {
		return
	}
	var req VariantRequest
	if !bindJSON(c, &req) {
		return
	}
	variant, err := h.ProductService.UpdateVariant(variantID, req.toInput())
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, variant)
}

// SetVariantStatus 启用/停用规格
func (h *Handler) SetVariantStatus(c *gin.Context) {
	variantID, ok := handlershared.ParseUintParam(c, "id", "error.variant_not_found")
	if !ok {
		return
	}
	var req VariantStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	variant, err := h.ProductService.SetVariantActive(variantID, *req.IsActive)
	if err != nil {
		respondProductError(c, err)
		return
	}
	response.Success(c, variant)
}

// AdjustVariantStock 调整规格库存，结果不得为负
func (h *Handler) AdjustVariantStock(c *gin.Context) {
	adminID, ok := getAdminID(c)
	if !ok {
		return
	}
	variantID, ok := handlershared.ParseUintParam(c, "id", "error.variant_not_found")
	if !ok {
		return
	}
	var req StockAdjustRequest
	if !bindJSON(c, &req) {
		return
	}
	variant, err := h.ProductService.AdjustStock(variantID, req.Delta, req.Reason, adminID)
	if err != nil {
		respondProductError(c, err)
		return
	}
	requestLog(c).Infow("admin_stock_adjusted", "variant_id", variantID, "delta", req.Delta, "stock", variant.Stock, "admin_id", adminID)
	h.recordAdminAudit(c, constants.AuditActionStockAdjust, constants.AuditTargetVariant, variantID, models.JSON{
		"delta":  req.Delta,
		"reason": req.Reason,
		"stock":  variant.Stock,
	})
	response.Success(c, variant)
}
