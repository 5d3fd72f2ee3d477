package admin

import (
	handlershared "github.com/brundhavanam/grocery/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, handlershared.ContextAdminID, "error.admin_id_invalid", "error.admin_id_type_invalid")
}

func isSuperAdmin(c *gin.Context) bool {
	value, exists := c.Get(handlershared.ContextAdminIsSuper)
	if !exists {
		return false
	}
	flag, ok := value.(bool)
	return ok && flag
}
