package errs

import (
	"errors"
	"net/http"
)

// AppError 业务错误，携带可映射的HTTP状态码
type AppError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// New 创建业务错误
func New(status int, message string) *AppError {
	return &AppError{Status: status, Message: message}
}

// BadRequest 参数校验类错误
func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// NotFound 实体不存在类错误
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Unauthorized 认证失败类错误
func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden 权限不足类错误
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// Conflict 冲突类错误
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

// HTTPStatus 从错误中提取HTTP状态码，非业务错误一律500
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}
