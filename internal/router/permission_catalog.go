package router

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/brundhavanam/grocery/internal/authz"

	"github.com/gin-gonic/gin"
)

// permissionEntry 后台可分配给角色的一条路由权限
type permissionEntry struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// permissionCatalog 从已注册路由推导后台权限清单，登录接口除外
func permissionCatalog(registered gin.RoutesInfo) []permissionEntry {
	entries := make([]permissionEntry, 0, len(registered))
	seen := make(map[string]bool, len(registered))
	for _, info := range registered {
		method := strings.ToUpper(strings.TrimSpace(info.Method))
		if !catalogMethod(method) || !strings.HasPrefix(info.Path, adminPrefix+"/") || info.Path == adminPrefix+"/login" {
			continue
		}
		object := authz.NormalizeObject(info.Path)
		key := method + ":" + object
		if seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, permissionEntry{
			Module:     permissionModule(object),
			Method:     method,
			Object:     object,
			Permission: key,
		})
	}
	slices.SortFunc(entries, func(a, b permissionEntry) int {
		return cmp.Or(
			cmp.Compare(a.Module, b.Module),
			cmp.Compare(a.Object, b.Object),
			cmp.Compare(a.Method, b.Method),
		)
	})
	return entries
}

func catalogMethod(method string) bool {
	return method != "" && method != http.MethodOptions && method != http.MethodHead
}

// permissionModule /admin/orders/:id -> orders
func permissionModule(object string) string {
	parts := strings.Split(strings.Trim(strings.TrimSpace(object), "/"), "/")
	switch {
	case parts[0] == "":
		return "system"
	case parts[0] != "admin" || len(parts) == 1:
		return parts[0]
	default:
		return parts[1]
	}
}
