package authz

import (
	"errors"
	"strings"

	"github.com/cardmart-next/internal/constants"
)

// ErrUserUnauthorized 调用方无权访问目标资源
var ErrUserUnauthorized = errors.New("user unauthorized")

// Principal 当前请求的认证主体，由 JWT 中间件构建并显式传入服务层
type Principal struct {
	UserID      uint
	Email       string
	Permissions []string
}

// HasPermission 判断主体是否持有权限
func (p *Principal) HasPermission(permission string) bool {
	if p == nil {
		return false
	}
	for _, item := range p.Permissions {
		if strings.EqualFold(item, permission) {
			return true
		}
	}
	return false
}

// IsAdmin 是否管理员
func (p *Principal) IsAdmin() bool {
	return p.HasPermission(constants.PermissionAdmin)
}

// Authenticated 是否为已认证主体
func (p *Principal) Authenticated() bool {
	return p != nil && p.UserID > 0
}
