package model

import (
	"time"
)

// CategoryModel 问卷分类
type CategoryModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name   string `json:"name" gorm:"uniqueIndex;not null"`
	Active bool   `json:"active" gorm:"default:true"`
}

// TableName 自定义表名
func (CategoryModel) TableName() string {
	return "category"
}

// OccupationModel 职业
type OccupationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name   string `json:"name" gorm:"uniqueIndex;not null"`
	Active bool   `json:"active" gorm:"default:true"`
}

// TableName 自定义表名
func (OccupationModel) TableName() string {
	return "occupation"
}
