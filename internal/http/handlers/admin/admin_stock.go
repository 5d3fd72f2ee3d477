package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"
	"github.com/brundhavanam/grocery/internal/http/response"
	"github.com/brundhavanam/grocery/internal/repository"

	"github.com/gin-gonic/gin"
)

func parseOptionalUintQuery(c *gin.Context, name string) uint {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(value)
}

// ListStockMovements 库存流水查询
func (h *Handler) ListStockMovements(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	movements, total, err := h.ProductService.ListStockMovements(repository.StockMovementFilter{
		Page:      page,
		PageSize:  pageSize,
		VariantID: parseOptionalUintQuery(c, "variant_id"),
		OrderID:   parseOptionalUintQuery(c, "order_id"),
		Kind:      strings.ToLower(strings.TrimSpace(c.Query("kind"))),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.fetch_failed", err)
		return
	}
	response.SuccessWithPage(c, movements, response.NewPagination(page, pageSize, total))
}
