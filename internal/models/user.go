package models

import (
	"time"

	"github.com/cardmart-next/internal/constants"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                    uint           `gorm:"primarykey" json:"id"`                               // 主键
	Email                 string         `gorm:"uniqueIndex;not null" json:"email"`                  // 邮箱（登录名）
	Name                  string         `gorm:"type:varchar(120);not null;default:''" json:"name"`  // 姓名
	PasswordHash          string         `gorm:"not null" json:"-"`                                  // 密码哈希（不返回给前端）
	AccountNonExpired     bool           `gorm:"not null;default:true" json:"accountNonExpired"`     // 账号未过期
	AccountNonLocked      bool           `gorm:"not null;default:true" json:"accountNonLocked"`      // 账号未锁定
	CredentialsNonExpired bool           `gorm:"not null;default:true" json:"credentialsNonExpired"` // 凭证未过期
	Enabled               bool           `gorm:"not null;default:true" json:"enabled"`               // 是否启用
	Permissions           StringArray    `gorm:"type:json" json:"permissions"`                       // 权限集合（ADMIN/CUSTOMER）
	LastLoginAt           *time.Time     `json:"lastLoginAt"`                                        // 最后登录时间
	CreatedAt             time.Time      `gorm:"index" json:"createdAt"`                             // 创建时间
	UpdatedAt             time.Time      `gorm:"index" json:"updatedAt"`                             // 更新时间
	DeletedAt             gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsActive 四个账号状态标记全部满足才允许认证
func (u *User) IsActive() bool {
	if u == nil {
		return false
	}
	return u.AccountNonExpired && u.AccountNonLocked && u.CredentialsNonExpired && u.Enabled
}

// HasPermission 判断用户是否持有权限
func (u *User) HasPermission(permission string) bool {
	if u == nil {
		return false
	}
	return u.Permissions.Contains(permission)
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.HasPermission(constants.PermissionAdmin)
}
