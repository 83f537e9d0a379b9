package authz

import (
	"fmt"

	"github.com/cardmart-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Inherits []string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵，角色名与用户权限一一对应
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.PermissionCustomer,
			Policies: []Policy{
				{Object: "/order", Action: "GET"},
				{Object: "/order", Action: "POST"},
				{Object: "/order/:id", Action: "GET"},
				{Object: "/order/:id/cancel", Action: "PUT"},
				{Object: "/product-type", Action: "GET"},
				{Object: "/product-type/:id", Action: "GET"},
				{Object: "/product", Action: "GET"},
				{Object: "/product/:id", Action: "GET"},
				{Object: "/yugioh-card", Action: "GET"},
				{Object: "/yugioh-card/:id", Action: "GET"},
				{Object: "/yugioh-card/categories", Action: "GET"},
				{Object: "/yugioh-card/types", Action: "GET"},
				{Object: "/inventory", Action: "GET"},
				{Object: "/inventory/:id", Action: "GET"},
				{Object: "/users/:id", Action: "GET"},
				{Object: "/users/:id/personal-info", Action: "PUT"},
				{Object: "/users/:id/password", Action: "PUT"},
				{Object: "/users/:id/cart", Action: "*"},
				{Object: "/users/:id/cart/:item_id", Action: "*"},
				{Object: "/users/:id/addresses", Action: "*"},
				{Object: "/users/:id/addresses/:address_id", Action: "*"},
			},
		},
		{
			Role:     constants.PermissionAdmin,
			Inherits: []string{constants.PermissionCustomer},
			Policies: []Policy{
				{Object: "/*", Action: "*"},
			},
		},
	}
}

// IsBuiltinRole 是否为预置角色
func IsBuiltinRole(role string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	for _, seed := range BuiltinRoleSeeds() {
		if builtin, _ := NormalizeRole(seed.Role); builtin == normalized {
			return true
		}
	}
	return false
}

// IsBuiltinPolicy 是否为预置角色的种子策略
func IsBuiltinPolicy(role, object, action string) bool {
	normalized, err := NormalizeRole(role)
	if err != nil {
		return false
	}
	object = NormalizeObject(object)
	action = NormalizeAction(action)
	for _, seed := range BuiltinRoleSeeds() {
		if builtin, _ := NormalizeRole(seed.Role); builtin != normalized {
			continue
		}
		for _, policy := range seed.Policies {
			if NormalizeObject(policy.Object) == object && NormalizeAction(policy.Action) == action {
				return true
			}
		}
	}
	return false
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			changed = changed || added
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			changed = changed || added
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			changed = changed || added
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
