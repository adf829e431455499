package model

import (
	"time"
)

// NotificationModel 站内通知
type NotificationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserId  int64            `json:"user_id" gorm:"not null;index"`
	Type    NotificationType `json:"type" gorm:"not null"`
	Title   string           `json:"title" gorm:"not null"`
	Message string           `json:"message" gorm:"type:text"`
	Read    bool             `json:"read" gorm:"default:false"`
}

// NotificationType 通知类型
type NotificationType string

const (
	NotificationTypeSurveyReward    NotificationType = "survey_reward"    // 答卷奖励
	NotificationTypeSurveyCompleted NotificationType = "survey_completed" // 问卷完成
	NotificationTypeWithdrawal      NotificationType = "withdrawal"       // 提现结果
)

// TableName 自定义表名
func (NotificationModel) TableName() string {
	return "notification"
}
