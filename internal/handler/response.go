package handler

import (
	"net/http"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logger"
	"github.com/gin-gonic/gin"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// NewPagination 构造分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	return Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应，业务错误透出消息，其余一律500
func ErrorResponse(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("Unexpected error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "服务器内部错误"
	}
	c.JSON(status, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// currentUserId 从认证中间件读取当前用户ID
func currentUserId(c *gin.Context) int64 {
	id, _ := c.Get("user_id")
	userId, _ := id.(int64)
	return userId
}
