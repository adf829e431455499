package model

import (
	"time"
)

// UserModel 用户模型
type UserModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string   `json:"name" gorm:"not null"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string   `json:"-" gorm:"not null"`
	Role         UserRole `json:"role" gorm:"default:'user'"`
	Age          int      `json:"age"`
	OccupationId int64    `json:"occupation_id"`
	Blocked      bool     `json:"blocked" gorm:"default:false"`
}

// UserRole 用户角色
type UserRole string

const (
	UserRoleUser    UserRole = "user"    // 答卷用户
	UserRoleCreator UserRole = "creator" // 问卷创建者
	UserRoleAdmin   UserRole = "admin"   // 管理员
)

// TableName 自定义表名
func (UserModel) TableName() string {
	return "user"
}
