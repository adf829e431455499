package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logic"
	"github.com/blues/sms/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SurveyHandler 问卷处理器
type SurveyHandler struct {
	surveyLogic *logic.SurveyLogic
}

// NewSurveyHandler 创建问卷处理器
func NewSurveyHandler(db *gorm.DB) *SurveyHandler {
	return &SurveyHandler{
		surveyLogic: logic.NewSurveyLogic(db),
	}
}

// CreateSurvey 创建问卷
func (h *SurveyHandler) CreateSurvey(c *gin.Context) {
	var input logic.SurveyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	survey, err := h.surveyLogic.CreateSurvey(currentUserId(c), &input)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "问卷创建成功", ToSurveyResponse(survey))
}

// GetSurveys 获取问卷列表
func (h *SurveyHandler) GetSurveys(c *gin.Context) {
	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	var categoryId int64
	if category := c.Query("category"); category != "" {
		parsed, err := strconv.ParseInt(category, 10, 64)
		if err != nil {
			ErrorResponse(c, errs.BadRequest("无效的分类ID"))
			return
		}
		categoryId = parsed
	}

	var creatorId int64
	if c.Query("mine") == "true" {
		creatorId = currentUserId(c)
	}

	surveys, total, err := h.surveyLogic.GetSurveys(status, categoryId, creatorId, page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"surveys":    ToSurveyResponseList(surveys),
		"pagination": NewPagination(page, pageSize, total),
	})
}

// GetSurvey 获取问卷详情（含题目与选项）
func (h *SurveyHandler) GetSurvey(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的问卷ID"))
		return
	}

	survey, questions, optionsByQuestion, err := h.surveyLogic.GetSurvey(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	resp := ToSurveyResponse(survey)
	for i := range questions {
		resp.Questions = append(resp.Questions,
			ToQuestionResponse(&questions[i], optionsByQuestion[questions[i].Id]))
	}

	SuccessResponse(c, http.StatusOK, "", resp)
}

// UpdateSurvey 更新问卷
func (h *SurveyHandler) UpdateSurvey(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的问卷ID"))
		return
	}

	// 只允许更新特定字段
	var updateData struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		CategoryId  *int64   `json:"category_id"`
		SampleSize  *int     `json:"sample_size"`
		Price       *float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	updates := make(map[string]interface{})
	if updateData.Name != nil {
		updates["name"] = *updateData.Name
	}
	if updateData.Description != nil {
		updates["description"] = *updateData.Description
	}
	if updateData.CategoryId != nil {
		updates["category_id"] = *updateData.CategoryId
	}
	if updateData.SampleSize != nil {
		updates["sample_size"] = *updateData.SampleSize
	}
	if updateData.Price != nil {
		updates["price"] = *updateData.Price
	}
	if len(updates) == 0 {
		ErrorResponse(c, errs.BadRequest("没有要更新的字段"))
		return
	}

	if err := h.surveyLogic.UpdateSurvey(id, currentUserId(c), updates); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "问卷更新成功", nil)
}

// PublishSurvey 发布问卷
func (h *SurveyHandler) PublishSurvey(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的问卷ID"))
		return
	}

	survey, err := h.surveyLogic.PublishSurvey(id, currentUserId(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "问卷发布成功", ToSurveyResponse(survey))
}

// CancelSurvey 取消问卷
func (h *SurveyHandler) CancelSurvey(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的问卷ID"))
		return
	}

	if err := h.surveyLogic.CancelSurvey(id, currentUserId(c)); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "问卷已取消", nil)
}

// GetSurveyStats 获取问卷统计信息
func (h *SurveyHandler) GetSurveyStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的问卷ID"))
		return
	}

	stats, err := h.surveyLogic.GetSurveyStats(id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", stats)
}

// SetSurveyStatus 管理员切换问卷状态
func (h *SurveyHandler) SetSurveyStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的问卷ID"))
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	if err := h.surveyLogic.SetStatus(id, model.SurveyStatus(input.Status)); err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "问卷状态已更新", nil)
}
