package shared

import (
	"strconv"

	"github.com/cardmart-next/internal/authz"
	"github.com/cardmart-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// PrincipalContextKey JWT 中间件写入认证主体的上下文键
const PrincipalContextKey = "principal"

// SetPrincipal 将认证主体写入请求上下文。
func SetPrincipal(c *gin.Context, principal *authz.Principal) {
	c.Set(PrincipalContextKey, principal)
}

// GetPrincipal 读取认证主体，未认证时返回 401 并终止请求。
func GetPrincipal(c *gin.Context) (*authz.Principal, bool) {
	value, exists := c.Get(PrincipalContextKey)
	if !exists {
		response.Unauthorized(c, "authentication required")
		return nil, false
	}
	principal, ok := value.(*authz.Principal)
	if !ok || !principal.Authenticated() {
		response.Unauthorized(c, "authentication required")
		return nil, false
	}
	return principal, true
}

// ParamUint 读取正整数路径参数，非法时返回 400。
func ParamUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		response.BadRequest(c, "invalid path parameter", response.FieldError{Field: name, Message: "must be a positive integer"})
		return 0, false
	}
	return uint(value), true
}

// QueryUint 读取可选的正整数查询参数，缺省时返回 0。
func QueryUint(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid query parameter", response.FieldError{Field: name, Message: "must be a non-negative integer"})
		return 0, false
	}
	return uint(value), true
}
