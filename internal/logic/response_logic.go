package logic

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/model"
	"gorm.io/gorm"
)

// SubmittedAnswer 客户端提交的单题答案，Answer按题目类型可为字符串、数字或数组
type SubmittedAnswer struct {
	QuestionId int64       `json:"question_id" binding:"required"`
	Answer     interface{} `json:"answer"`
}

// ResponseLogic 答卷业务逻辑
type ResponseLogic struct {
	db          *gorm.DB
	walletLogic *WalletLogic
	notifLogic  *NotificationLogic
}

// NewResponseLogic 创建答卷业务逻辑
func NewResponseLogic(db *gorm.DB, walletLogic *WalletLogic, notifLogic *NotificationLogic) *ResponseLogic {
	return &ResponseLogic{
		db:          db,
		walletLogic: walletLogic,
		notifLogic:  notifLogic,
	}
}

// ComputePayout 计算单个答卷人的报酬
// adminCut = price * pct/100; payout = round((price-adminCut)/sampleSize, 3位小数)
func ComputePayout(price, cutPercentage float64, sampleSize int) float64 {
	adminCut := price * (cutPercentage / 100)
	remaining := price - adminCut
	perUser := remaining / float64(sampleSize)
	return math.Round(perUser*1000) / 1000
}

// SubmitResponse 提交答卷
// 校验、答案格式化、报酬计算与入账、计数与完成状态翻转在一个事务内完成
func (r *ResponseLogic) SubmitResponse(surveyId, userId int64, submitted []SubmittedAnswer) (*model.SurveyResponseModel, error) {
	// 1. 校验用户
	var user model.UserModel
	if err := r.db.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("用户不存在")
		}
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	if user.Blocked {
		return nil, errs.Forbidden("用户已被封禁")
	}

	// 2. 钱包不存在时自动创建
	wallet, err := r.walletLogic.GetOrCreateWallet(userId)
	if err != nil {
		return nil, err
	}

	// 3. 校验问卷状态与有效期
	var survey model.SurveyModel
	if err := r.db.First(&survey, surveyId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("问卷不存在")
		}
		return nil, fmt.Errorf("获取问卷失败: %w", err)
	}
	if survey.Status != model.SurveyStatusActive || !survey.IsPublished {
		return nil, errs.BadRequest("问卷未在进行中")
	}
	now := time.Now()
	if now.Before(survey.StartTime) || now.After(survey.EndTime) {
		return nil, errs.BadRequest("问卷不在有效期内")
	}

	// 4. 重复提交预检查（事务内唯一索引兜底）
	var count int64
	if err := r.db.Model(&model.SurveyResponseModel{}).
		Where("survey_id = ? AND user_id = ?", surveyId, userId).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("检查重复提交失败: %w", err)
	}
	if count > 0 {
		return nil, errs.BadRequest("不能重复提交问卷")
	}

	// 5. 加载题目与选项并校验答案
	answers, err := r.validateAnswers(surveyId, submitted)
	if err != nil {
		return nil, err
	}

	// 6. 平台抽成必须已配置
	var cfg model.PlatformConfigModel
	if err := r.db.First(&cfg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.BadRequest("平台抽成未配置")
		}
		return nil, fmt.Errorf("获取平台配置失败: %w", err)
	}

	payout := ComputePayout(survey.Price, cfg.CutPercentage, survey.SampleSize)

	response := model.SurveyResponseModel{
		SurveyId:    surveyId,
		UserId:      userId,
		CompletedAt: now,
	}

	// 开始事务
	tx := r.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 样本数守卫：计数超限时拒绝提交
	result := tx.Model(&model.SurveyModel{}).
		Where("id = ? AND total_responses < sample_size", surveyId).
		Update("total_responses", gorm.Expr("total_responses + 1"))
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("更新答卷计数失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, errs.BadRequest("问卷样本已满")
	}

	// 创建答卷，唯一索引拦截并发重复提交
	if err := tx.Create(&response).Error; err != nil {
		tx.Rollback()
		if isDuplicateKeyError(err) {
			return nil, errs.BadRequest("不能重复提交问卷")
		}
		return nil, fmt.Errorf("创建答卷失败: %w", err)
	}

	for i := range answers {
		answers[i].ResponseId = response.Id
	}
	if len(answers) > 0 {
		if err := tx.Create(&answers).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("保存答案失败: %w", err)
		}
	}

	// 报酬入账
	if err := tx.Model(&model.WalletModel{}).
		Where("id = ?", wallet.Id).
		Update("payout", gorm.Expr("payout + ?", payout)).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("报酬入账失败: %w", err)
	}

	// 达到样本数时翻转为已完成
	var updated model.SurveyModel
	if err := tx.First(&updated, surveyId).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("获取问卷失败: %w", err)
	}
	completed := updated.TotalResponses >= updated.SampleSize
	if completed {
		if err := tx.Model(&model.SurveyModel{}).
			Where("id = ?", surveyId).
			Update("status", model.SurveyStatusCompleted).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("更新问卷状态失败: %w", err)
		}
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("提交答卷事务失败: %w", err)
	}

	logger.Info("User %d submitted response for survey %d, payout: %f", userId, surveyId, payout)

	// 事务外发送通知，失败不影响已提交的答卷
	r.notifLogic.Notify(userId, model.NotificationTypeSurveyReward,
		"答卷奖励", fmt.Sprintf("完成问卷《%s》获得 %.3f 奖励", survey.Name, payout))
	if completed {
		r.notifLogic.Notify(survey.CreatorId, model.NotificationTypeSurveyCompleted,
			"问卷完成", fmt.Sprintf("问卷《%s》已收集满 %d 份答卷", survey.Name, survey.SampleSize))
	}

	return &response, nil
}

// validateAnswers 按题目类型校验并格式化答案
func (r *ResponseLogic) validateAnswers(surveyId int64, submitted []SubmittedAnswer) ([]model.AnswerModel, error) {
	var questions []model.QuestionModel
	if err := r.db.Where("survey_id = ?", surveyId).Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("获取题目失败: %w", err)
	}

	questionIds := make([]int64, 0, len(questions))
	questionById := make(map[int64]*model.QuestionModel, len(questions))
	for i := range questions {
		questionIds = append(questionIds, questions[i].Id)
		questionById[questions[i].Id] = &questions[i]
	}

	var options []model.OptionModel
	if len(questionIds) > 0 {
		if err := r.db.Where("question_id IN ?", questionIds).Find(&options).Error; err != nil {
			return nil, fmt.Errorf("获取选项失败: %w", err)
		}
	}
	optionsByQuestion := make(map[int64][]model.OptionModel)
	for _, opt := range options {
		optionsByQuestion[opt.QuestionId] = append(optionsByQuestion[opt.QuestionId], opt)
	}

	submittedByQuestion := make(map[int64]SubmittedAnswer, len(submitted))
	for _, s := range submitted {
		if _, ok := submittedByQuestion[s.QuestionId]; ok {
			return nil, errs.BadRequest(fmt.Sprintf("同一题目不能重复作答: %d", s.QuestionId))
		}
		submittedByQuestion[s.QuestionId] = s
	}

	// 必答题必须全部出现
	for _, q := range questions {
		if q.Required {
			if _, ok := submittedByQuestion[q.Id]; !ok {
				return nil, errs.BadRequest(fmt.Sprintf("必答题未作答: %s", q.Text))
			}
		}
	}

	answers := make([]model.AnswerModel, 0, len(submitted))
	for _, s := range submitted {
		question, ok := questionById[s.QuestionId]
		if !ok {
			return nil, errs.BadRequest(fmt.Sprintf("题目不存在: %d", s.QuestionId))
		}

		answer, err := formatAnswer(question, optionsByQuestion[question.Id], s.Answer)
		if err != nil {
			return nil, err
		}
		answers = append(answers, *answer)
	}

	return answers, nil
}

// formatAnswer 将原始答案按题目类型格式化为AnswerModel
func formatAnswer(question *model.QuestionModel, options []model.OptionModel, raw interface{}) (*model.AnswerModel, error) {
	answer := &model.AnswerModel{QuestionId: question.Id}

	_, isArray := raw.([]interface{})

	switch question.Type {
	case model.QuestionTypeSingleChoice:
		if isArray {
			return nil, errs.BadRequest(fmt.Sprintf("单选题不接受数组答案: %s", question.Text))
		}
		value := stringifyScalar(raw)
		if !matchOption(options, value) {
			return nil, errs.BadRequest(fmt.Sprintf("无效的选项: %s", question.Text))
		}
		selected, _ := json.Marshal([]string{value})
		answer.SelectedOptions = string(selected)

	case model.QuestionTypeMultipleChoice:
		items, ok := raw.([]interface{})
		if !ok {
			return nil, errs.BadRequest(fmt.Sprintf("多选题答案必须为数组: %s", question.Text))
		}
		if len(items) == 0 {
			return nil, errs.BadRequest(fmt.Sprintf("多选题答案不能为空: %s", question.Text))
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			value := stringifyScalar(item)
			if !matchOption(options, value) {
				return nil, errs.BadRequest(fmt.Sprintf("无效的选项: %s", question.Text))
			}
			values = append(values, value)
		}
		selected, _ := json.Marshal(values)
		answer.SelectedOptions = string(selected)

	case model.QuestionTypeRating:
		if isArray {
			return nil, errs.BadRequest(fmt.Sprintf("评分题不接受数组答案: %s", question.Text))
		}
		rating, err := parseRating(raw)
		if err != nil {
			return nil, errs.BadRequest(fmt.Sprintf("评分必须为1-5的整数: %s", question.Text))
		}
		answer.RatingValue = &rating

	case model.QuestionTypeText:
		if isArray {
			return nil, errs.BadRequest(fmt.Sprintf("文本题不接受数组答案: %s", question.Text))
		}
		text, ok := raw.(string)
		if !ok {
			text = stringifyScalar(raw)
		}
		if strings.TrimSpace(text) == "" {
			return nil, errs.BadRequest(fmt.Sprintf("文本答案不能为空: %s", question.Text))
		}
		answer.TextAnswer = text

	default:
		return nil, errs.BadRequest(fmt.Sprintf("不支持的题目类型: %s", question.Type))
	}

	return answer, nil
}

// matchOption 答案值必须与某个选项的值完全一致
func matchOption(options []model.OptionModel, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// parseRating 解析1-5的整数评分，接受JSON数字与数字字符串
func parseRating(raw interface{}) (int, error) {
	var rating int
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("rating is not an integer: %v", v)
		}
		rating = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("rating is not numeric: %q", v)
		}
		rating = parsed
	case int:
		rating = v
	default:
		return 0, fmt.Errorf("unsupported rating type: %T", raw)
	}

	if rating < 1 || rating > 5 {
		return 0, fmt.Errorf("rating out of range: %d", rating)
	}
	return rating, nil
}

// stringifyScalar 将JSON标量还原为字符串，整数去除浮点后缀
func stringifyScalar(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// isDuplicateKeyError 识别唯一索引冲突
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// GetSurveyResponses 获取问卷的答卷列表（创建者）
func (r *ResponseLogic) GetSurveyResponses(surveyId, requesterId int64, page, pageSize int) ([]model.SurveyResponseModel, int64, error) {
	var survey model.SurveyModel
	if err := r.db.First(&survey, surveyId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, errs.NotFound("问卷不存在")
		}
		return nil, 0, fmt.Errorf("获取问卷失败: %w", err)
	}
	if survey.CreatorId != requesterId {
		return nil, 0, errs.Forbidden("只有创建者可以查看答卷")
	}

	var total int64
	if err := r.db.Model(&model.SurveyResponseModel{}).
		Where("survey_id = ?", surveyId).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var responses []model.SurveyResponseModel
	offset := (page - 1) * pageSize
	if err := r.db.Where("survey_id = ?", surveyId).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&responses).Error; err != nil {
		return nil, 0, err
	}

	return responses, total, nil
}

// GetResponseAnswers 获取单份答卷的全部答案
func (r *ResponseLogic) GetResponseAnswers(responseId int64) ([]model.AnswerModel, error) {
	var answers []model.AnswerModel
	if err := r.db.Where("response_id = ?", responseId).Find(&answers).Error; err != nil {
		return nil, fmt.Errorf("获取答案失败: %w", err)
	}
	return answers, nil
}
