package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler 管理端处理器
type AdminHandler struct {
	adminLogic *logic.AdminLogic
	userLogic  *logic.UserLogic
}

// NewAdminHandler 创建管理端处理器
func NewAdminHandler(db *gorm.DB, jwtCfg config.JWTConfig) *AdminHandler {
	return &AdminHandler{
		adminLogic: logic.NewAdminLogic(db),
		userLogic:  logic.NewUserLogic(db, jwtCfg),
	}
}

// GetCut 获取平台抽成比例
func (h *AdminHandler) GetCut(c *gin.Context) {
	cfg, err := h.adminLogic.GetCutPercentage()
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{"cut_percentage": cfg.CutPercentage})
}

// UpdateCut 更新平台抽成比例
func (h *AdminHandler) UpdateCut(c *gin.Context) {
	var input struct {
		Percentage *float64 `json:"percentage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	cfg, err := h.adminLogic.UpdateCutPercentage(*input.Percentage)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "平台抽成已更新", gin.H{"cut_percentage": cfg.CutPercentage})
}

// CreateCategory 创建分类
func (h *AdminHandler) CreateCategory(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	category, err := h.adminLogic.CreateCategory(input.Name)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "分类创建成功", category)
}

// GetCategories 获取分类列表
func (h *AdminHandler) GetCategories(c *gin.Context) {
	categories, err := h.adminLogic.GetCategories()
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", categories)
}

// UpdateCategory 更新分类
func (h *AdminHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的分类ID"))
		return
	}

	var input struct {
		Name   *string `json:"name"`
		Active *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	if err := h.adminLogic.UpdateCategory(id, input.Name, input.Active); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "分类更新成功", nil)
}

// CreateOccupation 创建职业
func (h *AdminHandler) CreateOccupation(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	occupation, err := h.adminLogic.CreateOccupation(input.Name)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "职业创建成功", occupation)
}

// GetOccupations 获取职业列表
func (h *AdminHandler) GetOccupations(c *gin.Context) {
	occupations, err := h.adminLogic.GetOccupations()
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", occupations)
}

// UpdateOccupation 更新职业
func (h *AdminHandler) UpdateOccupation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的职业ID"))
		return
	}

	var input struct {
		Name   *string `json:"name"`
		Active *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	if err := h.adminLogic.UpdateOccupation(id, input.Name, input.Active); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "职业更新成功", nil)
}

// SetUserBlocked 封禁/解封用户
func (h *AdminHandler) SetUserBlocked(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的用户ID"))
		return
	}

	var input struct {
		Blocked *bool `json:"blocked" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	if err := h.userLogic.SetBlocked(id, *input.Blocked); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "用户状态已更新", nil)
}
