package model

import (
	"time"
)

// SurveyResponseModel 答卷记录
// (survey_id, user_id) 上的唯一索引保证同一用户对同一问卷只能提交一次
type SurveyResponseModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SurveyId    int64     `json:"survey_id" gorm:"not null;uniqueIndex:idx_survey_user"`
	UserId      int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_survey_user"`
	CompletedAt time.Time `json:"completed_at"`
}

// TableName 自定义表名
func (SurveyResponseModel) TableName() string {
	return "survey_response"
}

// AnswerModel 单题答案
// 按题目类型三选一填充: SelectedOptions(选择) / TextAnswer(文本) / RatingValue(评分)
type AnswerModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ResponseId      int64  `json:"response_id" gorm:"not null;index"`
	QuestionId      int64  `json:"question_id" gorm:"not null"`
	SelectedOptions string `json:"selected_options" gorm:"type:text"` // JSON数组
	TextAnswer      string `json:"text_answer" gorm:"type:text"`
	RatingValue     *int   `json:"rating_value"`
}

// TableName 自定义表名
func (AnswerModel) TableName() string {
	return "answer"
}
