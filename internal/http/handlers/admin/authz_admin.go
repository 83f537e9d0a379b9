package admin

import (
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"
	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required,notblank"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required,notblank"`
	Object string `json:"object" binding:"required,notblank"`
	Action string `json:"action" binding:"required,notblank"`
}

func (p authzPolicyPayload) toInput() service.PolicyInput {
	return service.PolicyInput{Role: p.Role, Object: p.Object, Action: p.Action}
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	roles, err := h.RolePolicyService.ListRoles(principal)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	var req authzRolePayload
	if !handlershared.BindJSON(c, &req) {
		return
	}
	role, err := h.RolePolicyService.CreateRole(principal, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_authz_role_created", "role", role, "operator_id", principal.UserID)
	response.Created(c, gin.H{"role": role})
}

// GetAuthzRole 获取角色继承链与策略
func (h *Handler) GetAuthzRole(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	detail, err := h.RolePolicyService.GetRole(principal, c.Param("role"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, detail)
}

// DeleteAuthzRole 删除角色
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	role := c.Param("role")
	if err := h.RolePolicyService.DeleteRole(principal, role); err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_authz_role_deleted", "role", role, "operator_id", principal.UserID)
	response.NoContent(c)
}

// GrantAuthzPolicy 授予策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	var req authzPolicyPayload
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.RolePolicyService.GrantPolicy(principal, req.toInput()); err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_granted", "role", req.Role, "object", req.Object, "action", req.Action, "operator_id", principal.UserID)
	response.NoContent(c)
}

// RevokeAuthzPolicy 撤销策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	var req authzPolicyPayload
	if !handlershared.BindJSON(c, &req) {
		return
	}
	if err := h.RolePolicyService.RevokePolicy(principal, req.toInput()); err != nil {
		respondError(c, err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_revoked", "role", req.Role, "object", req.Object, "action", req.Action, "operator_id", principal.UserID)
	response.NoContent(c)
}

// ReloadAuthzPolicy 重新加载策略
func (h *Handler) ReloadAuthzPolicy(c *gin.Context) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return
	}
	if err := h.RolePolicyService.Reload(principal); err != nil {
		respondError(c, err)
		return
	}
	response.NoContent(c)
}
