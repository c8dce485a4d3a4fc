package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// 错误码，对外 JSON 中的 "error" 字段
const (
	CodeInvalidStrategy = "invalid_strategy"
	CodeInvalidPayload  = "invalid_payload"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeNoDraws         = "no_draws"
	CodeInternal        = "internal"
)

type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func New(code, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func InvalidPayload(format string, args ...interface{}) *AppError {
	return New(CodeInvalidPayload, fmt.Sprintf(format, args...), nil)
}

func InvalidStrategy(name string) *AppError {
	return New(CodeInvalidStrategy, fmt.Sprintf("unknown strategy %q", name), nil)
}

func NotFound(what string) *AppError {
	return New(CodeNotFound, what+" not found", nil)
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message, nil)
}

func Conflict(message string) *AppError {
	return New(CodeConflict, message, nil)
}

func NoDraws() *AppError {
	return New(CodeNoDraws, "no draws available", nil)
}

// CodeOf 取错误链上的错误码，非 AppError 视为 internal
func CodeOf(err error) string {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeInternal
}

// Is 判断错误链上是否带指定错误码
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus 错误码到 HTTP 状态码
func HTTPStatus(code string) int {
	switch code {
	case CodeInvalidStrategy, CodeInvalidPayload:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeNoDraws:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Public 返回可以暴露给调用方的 (code, message)，内部错误不透出原因
func Public(err error) (string, string) {
	var ae *AppError
	if errors.As(err, &ae) && ae.Code != CodeInternal {
		return ae.Code, ae.Message
	}
	return CodeInternal, "internal server error"
}
