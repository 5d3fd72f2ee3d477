package authz

import (
	"errors"
	"strconv"
	"strings"
)

const (
	apiV1Prefix = "/api/v1"
	rolePrefix  = "role:"
	roleAnchor  = rolePrefix + "__anchor__"
)

// SubjectForAdmin casbin 中管理员的主体名 admin:<id>
func SubjectForAdmin(adminID uint) string {
	return "admin:" + strconv.FormatUint(uint64(adminID), 10)
}

// NormalizeRole "Catalog Manager" -> role:catalog_manager
func NormalizeRole(role string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(role))
	name = strings.TrimPrefix(name, rolePrefix)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		return "", errors.New("authz: role is required")
	}
	return rolePrefix + name, nil
}

// NormalizeObject 策略里的路由不带 /api/v1 前缀
func NormalizeObject(object string) string {
	path := strings.TrimSpace(object)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimPrefix(path, apiV1Prefix)
	if path == "" {
		return "/"
	}
	return path
}

func NormalizeAction(action string) string {
	return strings.ToUpper(strings.TrimSpace(action))
}
