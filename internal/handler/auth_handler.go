package handler

import (
	"net/http"

	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler 注册与登录处理器
type AuthHandler struct {
	userLogic *logic.UserLogic
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(db *gorm.DB, cfg config.JWTConfig) *AuthHandler {
	return &AuthHandler{
		userLogic: logic.NewUserLogic(db, cfg),
	}
}

// Register 注册
func (h *AuthHandler) Register(c *gin.Context) {
	var input logic.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	user, err := h.userLogic.Register(&input)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "注册成功", ToUserResponse(user))
}

// Login 登录
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	token, user, err := h.userLogic.Login(input.Email, input.Password)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "登录成功", gin.H{
		"token": token,
		"user":  ToUserResponse(user),
	})
}
