package model

import (
	"time"
)

// SurveyModel 问卷模型
type SurveyModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Name        string `json:"name" gorm:"not null" binding:"required"`
	Description string `json:"description" gorm:"type:text"`

	// 定向条件
	CategoryId   int64 `json:"category_id"`
	OccupationId int64 `json:"occupation_id"`
	MinAge       int   `json:"min_age" gorm:"default:0"`
	MaxAge       int   `json:"max_age" gorm:"default:0"`

	// 投放信息
	SampleSize     int     `json:"sample_size" gorm:"not null" binding:"required,min=1"`
	Price          float64 `json:"price" gorm:"not null" binding:"required,min=0"`
	TotalResponses int     `json:"total_responses" gorm:"default:0"`

	// 时间信息
	StartTime time.Time `json:"start_time" gorm:"not null"`
	EndTime   time.Time `json:"end_time" gorm:"not null"`

	// 状态
	Status      SurveyStatus `json:"status" gorm:"default:'draft'"`
	IsPublished bool         `json:"is_published" gorm:"default:false"`

	// 创建者信息
	CreatorId int64 `json:"creator_id" gorm:"not null;index"`
}

// SurveyStatus 问卷状态
type SurveyStatus string

const (
	SurveyStatusDraft     SurveyStatus = "draft"     // 草稿
	SurveyStatusActive    SurveyStatus = "active"    // 进行中
	SurveyStatusCompleted SurveyStatus = "completed" // 已完成
	SurveyStatusCancelled SurveyStatus = "cancelled" // 已取消
)

// TableName 自定义表名
func (SurveyModel) TableName() string {
	return "survey"
}
