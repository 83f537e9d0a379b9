package admin

import (
	"github.com/cardmart-next/internal/authz"
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getAdminPrincipal(c *gin.Context) (*authz.Principal, bool) {
	return handlershared.GetPrincipal(c)
}

// getPrincipalAndID 读取认证主体与路径 id
func getPrincipalAndID(c *gin.Context) (*authz.Principal, uint, bool) {
	principal, ok := getAdminPrincipal(c)
	if !ok {
		return nil, 0, false
	}
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		return nil, 0, false
	}
	return principal, id, true
}
