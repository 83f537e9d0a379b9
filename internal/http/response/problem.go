package response

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
)

// ProblemContentType 问题详情的媒体类型
const ProblemContentType = "application/problem+json"

const problemTypePrefix = "about:blank#"

// Problem 问题详情错误响应
type Problem struct {
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Status   int          `json:"status"`
	Detail   string       `json:"detail,omitempty"`
	Instance string       `json:"instance"`
	Errors   []FieldError `json:"errors,omitempty"`
}

// NewProblem 由 AppError 构建问题详情，instance 为请求路径
func NewProblem(c *gin.Context, appErr *AppError) Problem {
	instance := ""
	if c != nil && c.Request != nil && c.Request.URL != nil {
		instance = c.Request.URL.Path
	}
	return Problem{
		Type:     problemTypePrefix + appErr.Kind,
		Title:    appErr.Title,
		Status:   appErr.Code,
		Detail:   appErr.Detail,
		Instance: instance,
		Errors:   appErr.Fields,
	}
}

// Error 输出问题详情并终止后续处理
func Error(c *gin.Context, appErr *AppError) {
	body, err := json.Marshal(NewProblem(c, appErr))
	if err != nil {
		c.AbortWithStatus(CodeInternal)
		return
	}
	c.Abort()
	c.Data(appErr.Code, ProblemContentType, body)
}

// Unauthorized 401 响应
func Unauthorized(c *gin.Context, detail string) {
	Error(c, WrapError(CodeUnauthorized, "UserUnauthorized", "Unauthorized", detail, nil))
}

// BadRequest 400 响应
func BadRequest(c *gin.Context, detail string, fields ...FieldError) {
	appErr := WrapError(CodeBadRequest, "RequestValidation", "Request validation failed", detail, nil)
	appErr.Fields = fields
	Error(c, appErr)
}

// TooManyRequests 429 响应
func TooManyRequests(c *gin.Context, detail string) {
	Error(c, WrapError(CodeTooManyRequests, "TooManyRequests", "Too many requests", detail, nil))
}

// Internal 500 响应
func Internal(c *gin.Context, detail string) {
	Error(c, WrapError(CodeInternal, "InternalError", "Internal server error", detail, nil))
}
