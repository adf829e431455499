package model

import (
	"time"
)

// PlatformConfigModel 平台抽成配置（单行）
type PlatformConfigModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CutPercentage float64 `json:"cut_percentage" gorm:"not null"` // 0-100
}

// TableName 自定义表名
func (PlatformConfigModel) TableName() string {
	return "platform_config"
}
