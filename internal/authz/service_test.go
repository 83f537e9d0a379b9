package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceWithGrantedRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("auditor", "/order/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.EnforcePermissions([]string{"AUDITOR"}, "/api/v1/order/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforcePermissions([]string{"AUDITOR"}, "/api/v1/order/42/cancel", "PUT")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/order/:id", want: "/order/:id"},
		{in: "/order/:id", want: "/order/:id"},
		{in: "order", want: "/order"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := map[string]string{
		"customer":     "role:CUSTOMER",
		"role:admin":   "role:ADMIN",
		"ROLE:Admin":   "role:ADMIN",
		" shop owner ": "role:SHOP_OWNER",
	}
	for in, want := range cases {
		got, err := NormalizeRole(in)
		if err != nil || got != want {
			t.Fatalf("normalize role failed, in=%q want=%q got=%q err=%v", in, want, got, err)
		}
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("blank role should be rejected")
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复执行保持幂等
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap twice failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != "role:ADMIN" || roles[1] != "role:CUSTOMER" {
		t.Fatalf("builtin roles want [role:ADMIN role:CUSTOMER], got %v", roles)
	}

	customer := []string{"CUSTOMER"}
	if allow, _ := svc.EnforcePermissions(customer, "/api/v1/order/7/cancel", "PUT"); !allow {
		t.Fatalf("customer should cancel own order route")
	}
	if allow, _ := svc.EnforcePermissions(customer, "/api/v1/product-type", "POST"); allow {
		t.Fatalf("customer should not create product types")
	}
	if allow, _ := svc.EnforcePermissions([]string{"ADMIN"}, "/api/v1/product-type/3", "DELETE"); !allow {
		t.Fatalf("admin should delete product types")
	}

	inherited, err := svc.GetImplicitRoles("ADMIN")
	if err != nil {
		t.Fatalf("implicit roles failed: %v", err)
	}
	found := false
	for _, role := range inherited {
		if role == "role:CUSTOMER" {
			found = true
		}
	}
	if !found {
		t.Fatalf("admin should inherit customer, got %v", inherited)
	}
}

func TestRevokeAndDeleteRole(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("auditor", "/order", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if err := svc.GrantRolePolicy("auditor", "/inventory/:id", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	policies, err := svc.GetRolePolicies("AUDITOR")
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	if len(policies) != 2 {
		t.Fatalf("policies want 2 got %v", policies)
	}

	if err := svc.RevokeRolePolicy("auditor", "/api/v1/order", "get"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if allow, _ := svc.EnforcePermissions([]string{"AUDITOR"}, "/api/v1/order", "GET"); allow {
		t.Fatalf("revoked policy should deny")
	}
	if allow, _ := svc.EnforcePermissions([]string{"AUDITOR"}, "/api/v1/inventory/9", "GET"); !allow {
		t.Fatalf("remaining policy should allow")
	}

	if err := svc.DeleteRole("auditor"); err != nil {
		t.Fatalf("delete role failed: %v", err)
	}
	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("roles want empty got %v", roles)
	}
	if allow, _ := svc.EnforcePermissions([]string{"AUDITOR"}, "/api/v1/inventory/9", "GET"); allow {
		t.Fatalf("deleted role should deny")
	}
	if err := svc.ReloadPolicy(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if allow, _ := svc.EnforcePermissions([]string{"AUDITOR"}, "/api/v1/inventory/9", "GET"); allow {
		t.Fatalf("deleted role should stay denied after reload")
	}
}

func TestBuiltinRoleAndPolicyDetection(t *testing.T) {
	if !IsBuiltinRole("admin") || !IsBuiltinRole("role:CUSTOMER") || IsBuiltinRole("auditor") {
		t.Fatalf("builtin role detection mismatch")
	}
	if !IsBuiltinPolicy("customer", "/api/v1/order/:id/cancel", "put") {
		t.Fatalf("customer cancel policy should be builtin")
	}
	if IsBuiltinPolicy("customer", "/product-type", "POST") {
		t.Fatalf("customer product-type write is not builtin")
	}
}
