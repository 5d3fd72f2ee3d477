package public

import (
	"strings"

	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetProducts 上架商品列表，支持分类与名称搜索
func (h *Handler) GetProducts(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	category := strings.TrimSpace(c.Query("category"))
	search := strings.TrimSpace(c.Query("search"))

	products, total, err := h.ProductService.ListPublic(category, search, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, products, response.NewPagination(page, pageSize, total))
}

// GetProduct 商品详情（仅包含上架规格）
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := handlershared.ParseUintParam(c, "id", "error.product_not_found")
	if !ok {
		return
	}
	product, err := h.ProductService.GetPublic(productID)
	if err != nil {
		handlershared.RespondMappedError(c, err, catalogErrorRules, response.CodeInternal, "error.fetch_failed")
		return
	}
	response.Success(c, product)
}
