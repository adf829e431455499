package logic

import (
	"errors"
	"fmt"
	"time"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/model"
	"gorm.io/gorm"
)

// QuestionInput 创建问卷时的题目定义
type QuestionInput struct {
	Text       string   `json:"text" binding:"required"`
	Type       string   `json:"type" binding:"required"`
	Required   bool     `json:"required"`
	PageNumber int      `json:"page_number"`
	Options    []string `json:"options"`
}

// SurveyInput 创建问卷的输入
type SurveyInput struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description"`
	CategoryId   int64           `json:"category_id"`
	OccupationId int64           `json:"occupation_id"`
	MinAge       int             `json:"min_age"`
	MaxAge       int             `json:"max_age"`
	SampleSize   int             `json:"sample_size" binding:"required"`
	Price        float64         `json:"price" binding:"required"`
	StartTime    time.Time       `json:"start_time" binding:"required"`
	EndTime      time.Time       `json:"end_time" binding:"required"`
	Questions    []QuestionInput `json:"questions"`
}

// SurveyLogic 问卷业务逻辑
type SurveyLogic struct {
	db *gorm.DB
}

// NewSurveyLogic 创建问卷业务逻辑
func NewSurveyLogic(db *gorm.DB) *SurveyLogic {
	return &SurveyLogic{db: db}
}

// CreateSurvey 创建问卷（含题目与选项），初始为草稿
func (s *SurveyLogic) CreateSurvey(creatorId int64, input *SurveyInput) (*model.SurveyModel, error) {
	if err := s.validateSurvey(input); err != nil {
		return nil, err
	}

	survey := model.SurveyModel{
		Name:         input.Name,
		Description:  input.Description,
		CategoryId:   input.CategoryId,
		OccupationId: input.OccupationId,
		MinAge:       input.MinAge,
		MaxAge:       input.MaxAge,
		SampleSize:   input.SampleSize,
		Price:        input.Price,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		Status:       model.SurveyStatusDraft,
		CreatorId:    creatorId,
	}

	// 开始事务
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&survey).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("创建问卷失败: %w", err)
	}

	for i, q := range input.Questions {
		question := model.QuestionModel{
			SurveyId:   survey.Id,
			Text:       q.Text,
			Type:       model.QuestionType(q.Type),
			Required:   q.Required,
			PageNumber: q.PageNumber,
			SortOrder:  i,
		}
		if question.PageNumber <= 0 {
			question.PageNumber = 1
		}
		if err := tx.Create(&question).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("创建题目失败: %w", err)
		}

		for j, value := range q.Options {
			option := model.OptionModel{
				QuestionId: question.Id,
				Value:      value,
				SortOrder:  j,
			}
			if err := tx.Create(&option).Error; err != nil {
				tx.Rollback()
				return nil, fmt.Errorf("创建选项失败: %w", err)
			}
		}
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("提交问卷事务失败: %w", err)
	}

	logger.Info("Creator %d created survey %d with %d questions",
		creatorId, survey.Id, len(input.Questions))
	return &survey, nil
}

// GetSurveys 获取问卷列表
func (s *SurveyLogic) GetSurveys(status string, categoryId, creatorId int64, page, pageSize int) ([]model.SurveyModel, int64, error) {
	query := s.db.Model(&model.SurveyModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if categoryId > 0 {
		query = query.Where("category_id = ?", categoryId)
	}
	if creatorId > 0 {
		query = query.Where("creator_id = ?", creatorId)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取问卷总数失败: %w", err)
	}

	var surveys []model.SurveyModel
	offset := (page - 1) * pageSize
	if err := query.Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&surveys).Error; err != nil {
		return nil, 0, fmt.Errorf("获取问卷列表失败: %w", err)
	}

	return surveys, total, nil
}

// GetSurvey 获取问卷详情
func (s *SurveyLogic) GetSurvey(id int64) (*model.SurveyModel, []model.QuestionModel, map[int64][]model.OptionModel, error) {
	var survey model.SurveyModel
	if err := s.db.First(&survey, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, errs.NotFound("问卷不存在")
		}
		return nil, nil, nil, fmt.Errorf("获取问卷详情失败: %w", err)
	}

	var questions []model.QuestionModel
	if err := s.db.Where("survey_id = ?", id).
		Order("page_number ASC, sort_order ASC").
		Find(&questions).Error; err != nil {
		return nil, nil, nil, fmt.Errorf("获取题目失败: %w", err)
	}

	optionsByQuestion := make(map[int64][]model.OptionModel)
	if len(questions) > 0 {
		questionIds := make([]int64, len(questions))
		for i, q := range questions {
			questionIds[i] = q.Id
		}
		var options []model.OptionModel
		if err := s.db.Where("question_id IN ?", questionIds).
			Order("sort_order ASC").
			Find(&options).Error; err != nil {
			return nil, nil, nil, fmt.Errorf("获取选项失败: %w", err)
		}
		for _, opt := range options {
			optionsByQuestion[opt.QuestionId] = append(optionsByQuestion[opt.QuestionId], opt)
		}
	}

	return &survey, questions, optionsByQuestion, nil
}

// UpdateSurvey 更新问卷基本信息，仅草稿可改
func (s *SurveyLogic) UpdateSurvey(id, requesterId int64, updates map[string]interface{}) error {
	survey, err := s.getOwnedSurvey(id, requesterId)
	if err != nil {
		return err
	}
	if survey.Status != model.SurveyStatusDraft {
		return errs.BadRequest("只有草稿状态的问卷可以修改")
	}
	if err := validateSurveyUpdates(updates); err != nil {
		return err
	}

	if err := s.db.Model(survey).Updates(updates).Error; err != nil {
		return fmt.Errorf("更新问卷失败: %w", err)
	}
	return nil
}

// validateSurveyUpdates 更新字段沿用创建时的校验规则
func validateSurveyUpdates(updates map[string]interface{}) error {
	if name, ok := updates["name"].(string); ok && name == "" {
		return errs.BadRequest("问卷名称不能为空")
	}
	if sampleSize, ok := updates["sample_size"].(int); ok && sampleSize <= 0 {
		return errs.BadRequest("样本数必须大于0")
	}
	if price, ok := updates["price"].(float64); ok && price <= 0 {
		return errs.BadRequest("问卷预算必须大于0")
	}
	return nil
}

// PublishSurvey 发布问卷：已到开始时间立即激活，否则由后台任务到点激活
func (s *SurveyLogic) PublishSurvey(id, requesterId int64) (*model.SurveyModel, error) {
	survey, err := s.getOwnedSurvey(id, requesterId)
	if err != nil {
		return nil, err
	}
	if survey.Status != model.SurveyStatusDraft {
		return nil, errs.BadRequest("只有草稿状态的问卷可以发布")
	}

	var questionCount int64
	if err := s.db.Model(&model.QuestionModel{}).
		Where("survey_id = ?", id).Count(&questionCount).Error; err != nil {
		return nil, fmt.Errorf("获取题目数失败: %w", err)
	}
	if questionCount == 0 {
		return nil, errs.BadRequest("问卷没有题目，无法发布")
	}
	if time.Now().After(survey.EndTime) {
		return nil, errs.BadRequest("问卷已过结束时间，无法发布")
	}

	updates := map[string]interface{}{"is_published": true}
	if !time.Now().Before(survey.StartTime) {
		updates["status"] = model.SurveyStatusActive
	}

	if err := s.db.Model(survey).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("发布问卷失败: %w", err)
	}

	logger.Info("Survey %d published by creator %d", id, requesterId)
	return survey, nil
}

// CancelSurvey 取消问卷
func (s *SurveyLogic) CancelSurvey(id, requesterId int64) error {
	survey, err := s.getOwnedSurvey(id, requesterId)
	if err != nil {
		return err
	}
	if survey.Status == model.SurveyStatusCompleted || survey.Status == model.SurveyStatusCancelled {
		return errs.BadRequest("问卷已结束，无法取消")
	}

	if err := s.db.Model(survey).Update("status", model.SurveyStatusCancelled).Error; err != nil {
		return fmt.Errorf("取消问卷失败: %w", err)
	}
	return nil
}

// SetStatus 管理员强制切换问卷状态
func (s *SurveyLogic) SetStatus(id int64, status model.SurveyStatus) error {
	switch status {
	case model.SurveyStatusDraft, model.SurveyStatusActive,
		model.SurveyStatusCompleted, model.SurveyStatusCancelled:
	default:
		return errs.BadRequest("无效的问卷状态")
	}

	result := s.db.Model(&model.SurveyModel{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("更新问卷状态失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("问卷不存在")
	}
	return nil
}

// GetSurveyStats 获取问卷统计信息
func (s *SurveyLogic) GetSurveyStats(id int64) (map[string]interface{}, error) {
	var survey model.SurveyModel
	if err := s.db.First(&survey, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("问卷不存在")
		}
		return nil, fmt.Errorf("获取问卷失败: %w", err)
	}

	completionPercentage := float64(0)
	if survey.SampleSize > 0 {
		completionPercentage = float64(survey.TotalResponses) / float64(survey.SampleSize) * 100
	}

	remainingTime := time.Duration(0)
	if survey.Status == model.SurveyStatusActive && time.Now().Before(survey.EndTime) {
		remainingTime = time.Until(survey.EndTime)
	}

	return map[string]interface{}{
		"survey_id":             survey.Id,
		"total_responses":       survey.TotalResponses,
		"sample_size":           survey.SampleSize,
		"completion_percentage": completionPercentage,
		"remaining_time":        remainingTime.String(),
		"status":                survey.Status,
	}, nil
}

// getOwnedSurvey 获取问卷并校验归属
func (s *SurveyLogic) getOwnedSurvey(id, requesterId int64) (*model.SurveyModel, error) {
	var survey model.SurveyModel
	if err := s.db.First(&survey, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("问卷不存在")
		}
		return nil, fmt.Errorf("获取问卷失败: %w", err)
	}
	if survey.CreatorId != requesterId {
		return nil, errs.Forbidden("只有创建者可以操作问卷")
	}
	return &survey, nil
}

// validateSurvey 验证问卷数据
func (s *SurveyLogic) validateSurvey(input *SurveyInput) error {
	if input.Name == "" {
		return errs.BadRequest("问卷名称不能为空")
	}
	if input.SampleSize <= 0 {
		return errs.BadRequest("样本数必须大于0")
	}
	if input.Price <= 0 {
		return errs.BadRequest("问卷预算必须大于0")
	}
	if input.StartTime.After(input.EndTime) {
		return errs.BadRequest("开始时间不能晚于结束时间")
	}
	if input.EndTime.Before(time.Now()) {
		return errs.BadRequest("结束时间不能早于当前时间")
	}
	if input.MinAge > 0 && input.MaxAge > 0 && input.MinAge > input.MaxAge {
		return errs.BadRequest("年龄范围无效")
	}

	for _, q := range input.Questions {
		switch model.QuestionType(q.Type) {
		case model.QuestionTypeSingleChoice, model.QuestionTypeMultipleChoice:
			if len(q.Options) < 2 {
				return errs.BadRequest(fmt.Sprintf("选择题至少需要2个选项: %s", q.Text))
			}
		case model.QuestionTypeText, model.QuestionTypeRating:
			if len(q.Options) > 0 {
				return errs.BadRequest(fmt.Sprintf("文本题和评分题不能有选项: %s", q.Text))
			}
		default:
			return errs.BadRequest(fmt.Sprintf("不支持的题目类型: %s", q.Type))
		}
	}

	return nil
}
