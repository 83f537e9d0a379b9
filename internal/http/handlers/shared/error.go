package shared

import (
	"errors"

	"github.com/cardmart-next/internal/http/response"
	"github.com/cardmart-next/internal/logger"
	"github.com/cardmart-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// mappedHandlerError 定义业务错误类别到问题详情的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	kind   string
	title  string
}

var serviceErrorRules = []mappedHandlerError{
	{target: service.ErrRequestValidation, code: response.CodeBadRequest, kind: "RequestValidation", title: "Request validation failed"},
	{target: service.ErrResourceNotFound, code: response.CodeNotFound, kind: "ResourceNotFound", title: "Resource not found"},
	{target: service.ErrResourceAlreadyExists, code: response.CodeConflict, kind: "ResourceAlreadyExists", title: "Resource already exists"},
	{target: service.ErrResourceInsufficient, code: response.CodeConflict, kind: "ResourceInsufficient", title: "Insufficient resource"},
	{target: service.ErrDeleteAssociationConflict, code: response.CodeConflict, kind: "DeleteAssociationConflict", title: "Delete association conflict"},
	{target: service.ErrUserUnauthorized, code: response.CodeUnauthorized, kind: "UserUnauthorized", title: "Unauthorized"},
	{target: service.ErrInvalidToken, code: response.CodeUnauthorized, kind: "InvalidToken", title: "Unauthorized"},
	{target: service.ErrMalformedRequestToken, code: response.CodeUnauthorized, kind: "MalformedRequestToken", title: "Unauthorized"},
	{target: service.ErrTokenCreation, code: response.CodeInternal, kind: "TokenCreation", title: "Internal server error"},
}

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil || c.Request == nil {
		return logger.S()
	}
	return logger.Ctx(c.Request.Context())
}

// MapError 将业务错误转换为统一错误包装，未知错误映射为 500。
func MapError(err error) *response.AppError {
	var detailErr *service.DetailError
	hasDetail := errors.As(err, &detailErr)

	for _, rule := range serviceErrorRules {
		if !errors.Is(err, rule.target) {
			continue
		}
		appErr := response.WrapError(rule.code, rule.kind, rule.title, rule.target.Error(), err)
		if hasDetail {
			appErr.Detail = detailErr.Detail
			appErr.Fields = toResponseFields(detailErr.Fields)
		}
		return appErr
	}
	return response.WrapError(response.CodeInternal, "InternalError", "Internal server error", err.Error(), err)
}

// RespondError 输出业务错误对应的问题详情，500 错误记录原因。
func RespondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	appErr := MapError(err)
	if appErr.Code >= response.CodeInternal {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"kind", appErr.Kind,
			"path", c.Request.URL.Path,
			"error", err,
		)
	}
	response.Error(c, appErr)
}

func toResponseFields(fields []service.FieldError) []response.FieldError {
	if len(fields) == 0 {
		return nil
	}
	result := make([]response.FieldError, 0, len(fields))
	for _, field := range fields {
		result = append(result, response.FieldError{Field: field.Field, Message: field.Message})
	}
	return result
}
