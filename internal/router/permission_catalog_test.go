package router

import (
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPermissionCatalog(t *testing.T) {
	routes := gin.RoutesInfo{
		{Method: "GET", Path: "/api/v1/admin/orders/:id"},
		{Method: "POST", Path: "/api/v1/admin/orders/:id/ship"},
		{Method: "GET", Path: "/api/v1/admin/orders/:id"},
		{Method: "POST", Path: "/api/v1/admin/login"},
		{Method: "OPTIONS", Path: "/api/v1/admin/orders"},
		{Method: "GET", Path: "/api/v1/admin/authz/roles"},
		{Method: "GET", Path: "/api/v1/public/products"},
	}

	got := permissionCatalog(routes)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %+v", got)
	}
	if got[0].Module != "authz" || got[0].Permission != "GET:/admin/authz/roles" {
		t.Fatalf("authz entry should sort first, got %+v", got[0])
	}
	if got[1].Object != "/admin/orders/:id" || got[1].Method != "GET" || got[1].Module != "orders" {
		t.Fatalf("unexpected orders entry: %+v", got[1])
	}
	if got[2].Permission != "POST:/admin/orders/:id/ship" {
		t.Fatalf("unexpected ship entry: %+v", got[2])
	}
}

func TestPermissionModule(t *testing.T) {
	cases := map[string]string{
		"":                     "system",
		"/admin":               "admin",
		"/admin/dashboard/kpi": "dashboard",
		"/me":                  "me",
	}
	for object, want := range cases {
		if got := permissionModule(object); got != want {
			t.Fatalf("permissionModule(%q)=%q want %q", object, got, want)
		}
	}
}
