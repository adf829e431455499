package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logic"
	"github.com/gin-gonic/gin"
)

// ResponseHandler 答卷处理器
type ResponseHandler struct {
	responseLogic *logic.ResponseLogic
}

// NewResponseHandler 创建答卷处理器
func NewResponseHandler(responseLogic *logic.ResponseLogic) *ResponseHandler {
	return &ResponseHandler{
		responseLogic: responseLogic,
	}
}

// SubmitResponse 提交答卷
func (h *ResponseHandler) SubmitResponse(c *gin.Context) {
	surveyId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的问卷ID"))
		return
	}

	var input struct {
		Responses []logic.SubmittedAnswer `json:"responses" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	response, err := h.responseLogic.SubmitResponse(surveyId, currentUserId(c), input.Responses)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	answers, err := h.responseLogic.GetResponseAnswers(response.Id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "答卷提交成功", ToSubmissionResponse(response, answers))
}

// GetSurveyResponses 获取问卷的答卷列表
func (h *ResponseHandler) GetSurveyResponses(c *gin.Context) {
	surveyId, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, errs.BadRequest("无效的问卷ID"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	responses, total, err := h.responseLogic.GetSurveyResponses(surveyId, currentUserId(c), page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	result := make([]SubmissionResponse, 0, len(responses))
	for i := range responses {
		answers, err := h.responseLogic.GetResponseAnswers(responses[i].Id)
		if err != nil {
			ErrorResponse(c, err)
			return
		}
		result = append(result, ToSubmissionResponse(&responses[i], answers))
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"responses":  result,
		"pagination": NewPagination(page, pageSize, total),
	})
}
