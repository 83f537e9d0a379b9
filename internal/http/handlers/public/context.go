package public

import (
	"github.com/cardmart-next/internal/authz"
	handlershared "github.com/cardmart-next/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getPrincipal(c *gin.Context) (*authz.Principal, bool) {
	return handlershared.GetPrincipal(c)
}

// getPrincipalAndParam 读取认证主体与路径中的正整数参数
func getPrincipalAndParam(c *gin.Context, name string) (*authz.Principal, uint, bool) {
	principal, ok := getPrincipal(c)
	if !ok {
		return nil, 0, false
	}
	id, ok := handlershared.ParamUint(c, name)
	if !ok {
		return nil, 0, false
	}
	return principal, id, true
}

func respondError(c *gin.Context, err error) {
	handlershared.RespondError(c, err)
}
