package service

import (
	"strings"

	"github.com/cardmart-next/internal/authz"
)

// RolePolicyService 路由授权策略管理，仅管理员可用
type RolePolicyService struct {
	authz *authz.Service
}

// NewRolePolicyService 创建策略管理服务
func NewRolePolicyService(authzService *authz.Service) *RolePolicyService {
	return &RolePolicyService{authz: authzService}
}

// RoleDetail 角色详情：继承链与直接策略
type RoleDetail struct {
	Role     string         `json:"role"`
	Inherits []string       `json:"inherits"`
	Policies []authz.Policy `json:"policies"`
}

// PolicyInput 授予/撤销策略输入
type PolicyInput struct {
	Role   string
	Object string
	Action string
}

// ListRoles 列出全部角色
func (s *RolePolicyService) ListRoles(principal *authz.Principal) ([]string, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	return s.authz.ListRoles()
}

// CreateRole 创建角色，已存在时直接返回
func (s *RolePolicyService) CreateRole(principal *authz.Principal, role string) (string, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return "", err
	}
	if _, err := normalizeRoleField(role); err != nil {
		return "", err
	}
	return s.authz.EnsureRole(role)
}

// GetRole 查询角色详情
func (s *RolePolicyService) GetRole(principal *authz.Principal, role string) (*RoleDetail, error) {
	if err := authz.RequireAdmin(principal); err != nil {
		return nil, err
	}
	normalized, err := normalizeRoleField(role)
	if err != nil {
		return nil, err
	}
	roles, err := s.authz.ListRoles()
	if err != nil {
		return nil, err
	}
	if !containsString(roles, normalized) {
		return nil, notFoundError("role %s not found", normalized)
	}
	inherits, err := s.authz.GetImplicitRoles(normalized)
	if err != nil {
		return nil, err
	}
	policies, err := s.authz.GetRolePolicies(normalized)
	if err != nil {
		return nil, err
	}
	return &RoleDetail{Role: normalized, Inherits: inherits, Policies: policies}, nil
}

// DeleteRole 删除自定义角色，预置角色不可删除
func (s *RolePolicyService) DeleteRole(principal *authz.Principal, role string) error {
	if err := authz.RequireAdmin(principal); err != nil {
		return err
	}
	normalized, err := normalizeRoleField(role)
	if err != nil {
		return err
	}
	if authz.IsBuiltinRole(normalized) {
		return validationError("built-in role " + normalized + " cannot be deleted")
	}
	return s.authz.DeleteRole(normalized)
}

// GrantPolicy 为角色授予路由策略
func (s *RolePolicyService) GrantPolicy(principal *authz.Principal, input PolicyInput) error {
	if err := authz.RequireAdmin(principal); err != nil {
		return err
	}
	if err := validatePolicyInput(input); err != nil {
		return err
	}
	return s.authz.GrantRolePolicy(input.Role, input.Object, input.Action)
}

// RevokePolicy 撤销角色路由策略，预置种子策略不可撤销
func (s *RolePolicyService) RevokePolicy(principal *authz.Principal, input PolicyInput) error {
	if err := authz.RequireAdmin(principal); err != nil {
		return err
	}
	if err := validatePolicyInput(input); err != nil {
		return err
	}
	if authz.IsBuiltinPolicy(input.Role, input.Object, input.Action) {
		return validationError("built-in policy cannot be revoked")
	}
	return s.authz.RevokeRolePolicy(input.Role, input.Object, input.Action)
}

// Reload 从存储重新加载策略
func (s *RolePolicyService) Reload(principal *authz.Principal) error {
	if err := authz.RequireAdmin(principal); err != nil {
		return err
	}
	return s.authz.ReloadPolicy()
}

func normalizeRoleField(role string) (string, error) {
	normalized, err := authz.NormalizeRole(role)
	if err != nil {
		return "", fieldValidation([]FieldError{blankField("role")})
	}
	if strings.EqualFold(normalized, "role:__anchor__") {
		return "", validationError("reserved role is not allowed", FieldError{Field: "role", Message: "is reserved"})
	}
	return normalized, nil
}

func validatePolicyInput(input PolicyInput) error {
	var fields []FieldError
	if _, err := normalizeRoleField(input.Role); err != nil {
		fields = append(fields, FieldError{Field: "role", Message: "must be a valid role"})
	}
	if strings.TrimSpace(input.Object) == "" {
		fields = append(fields, blankField("object"))
	}
	switch authz.NormalizeAction(input.Action) {
	case "GET", "POST", "PUT", "DELETE", "*":
	default:
		fields = append(fields, FieldError{Field: "action", Message: "must be one of GET POST PUT DELETE *"})
	}
	return fieldValidation(fields)
}
