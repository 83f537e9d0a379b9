package service

import (
	"errors"
	"fmt"

	"github.com/cardmart-next/internal/authz"
)

// 业务错误类别，处理层通过 errors.Is 映射为 HTTP 状态
var (
	ErrRequestValidation         = errors.New("request validation failed")
	ErrResourceNotFound          = errors.New("resource not found")
	ErrResourceAlreadyExists     = errors.New("resource already exists")
	ErrResourceInsufficient      = errors.New("insufficient resource")
	ErrDeleteAssociationConflict = errors.New("delete association conflict")
	ErrUserUnauthorized          = authz.ErrUserUnauthorized
	ErrInvalidToken              = errors.New("invalid token")
	ErrMalformedRequestToken     = errors.New("malformed request token")
	ErrTokenCreation             = errors.New("token creation failed")
	ErrWeakPassword              = &DetailError{Kind: ErrRequestValidation, Detail: "password does not satisfy the policy"}
)

// ErrOrderAlreadyCancelled 重复取消订单
var ErrOrderAlreadyCancelled = &DetailError{Kind: ErrRequestValidation, Detail: "order already cancelled"}

// FieldError 字段级校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DetailError 携带详情与字段错误的业务错误，Unwrap 返回错误类别
type DetailError struct {
	Kind   error
	Detail string
	Fields []FieldError
}

func (e *DetailError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Detail
}

func (e *DetailError) Unwrap() error {
	return e.Kind
}

func newDetailError(kind error, detail string, fields ...FieldError) *DetailError {
	return &DetailError{Kind: kind, Detail: detail, Fields: fields}
}

func validationError(detail string, fields ...FieldError) *DetailError {
	return newDetailError(ErrRequestValidation, detail, fields...)
}

func notFoundError(format string, args ...interface{}) *DetailError {
	return newDetailError(ErrResourceNotFound, fmt.Sprintf(format, args...))
}

func unauthorizedError(detail string) *DetailError {
	return newDetailError(ErrUserUnauthorized, detail)
}

// fieldValidation 将字段错误合并为一条校验错误，无字段错误时返回 nil
func fieldValidation(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return validationError("request validation failed", fields...)
}
