package admin

import "github.com/cardmart-next/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：该处理器仅用于目录写操作，路由层已经过 RBAC，服务层仍会校验管理员身份。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
