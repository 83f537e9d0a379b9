package authz

// IsSameUser 主体是否为资源所有者
func IsSameUser(p *Principal, ownerID uint) bool {
	return p.Authenticated() && ownerID > 0 && p.UserID == ownerID
}

// IsAdmin 主体是否持有 ADMIN 权限
func IsAdmin(p *Principal) bool {
	return p.Authenticated() && p.IsAdmin()
}

// HasPermission 主体是否持有指定权限
func HasPermission(p *Principal, permission string) bool {
	return p.Authenticated() && p.HasPermission(permission)
}

// IsSameUserOrAdmin 所有者或管理员
func IsSameUserOrAdmin(p *Principal, ownerID uint) bool {
	return IsSameUser(p, ownerID) || IsAdmin(p)
}

// RequireSameUser 非所有者返回 ErrUserUnauthorized
func RequireSameUser(p *Principal, ownerID uint) error {
	if !IsSameUser(p, ownerID) {
		return ErrUserUnauthorized
	}
	return nil
}

// RequireAdmin 非管理员返回 ErrUserUnauthorized
func RequireAdmin(p *Principal) error {
	if !IsAdmin(p) {
		return ErrUserUnauthorized
	}
	return nil
}

// RequirePermission 缺少权限时返回 ErrUserUnauthorized
func RequirePermission(p *Principal, permission string) error {
	if !HasPermission(p, permission) {
		return ErrUserUnauthorized
	}
	return nil
}

// RequireSameUserOrAdmin 既非所有者也非管理员时返回 ErrUserUnauthorized
func RequireSameUserOrAdmin(p *Principal, ownerID uint) error {
	if !IsSameUserOrAdmin(p, ownerID) {
		return ErrUserUnauthorized
	}
	return nil
}
