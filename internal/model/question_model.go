package model

import (
	"time"
)

// QuestionModel 问卷题目
type QuestionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SurveyId   int64        `json:"survey_id" gorm:"not null;index"`
	Text       string       `json:"text" gorm:"not null"`
	Type       QuestionType `json:"type" gorm:"not null"`
	Required   bool         `json:"required" gorm:"default:false"`
	PageNumber int          `json:"page_number" gorm:"default:1"`
	SortOrder  int          `json:"sort_order" gorm:"default:0"`
}

// QuestionType 题目类型
type QuestionType string

const (
	QuestionTypeSingleChoice   QuestionType = "single_choice"   // 单选
	QuestionTypeMultipleChoice QuestionType = "multiple_choice" // 多选
	QuestionTypeText           QuestionType = "text"            // 文本
	QuestionTypeRating         QuestionType = "rating"          // 评分（1-5）
)

// TableName 自定义表名
func (QuestionModel) TableName() string {
	return "question"
}

// OptionModel 选择题选项
type OptionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	QuestionId int64  `json:"question_id" gorm:"not null;index"`
	Value      string `json:"value" gorm:"not null"`
	SortOrder  int    `json:"sort_order" gorm:"default:0"`
}

// TableName 自定义表名
func (OptionModel) TableName() string {
	return "question_option"
}
