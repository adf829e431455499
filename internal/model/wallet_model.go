package model

import (
	"time"
)

// WalletModel 用户收益钱包
type WalletModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserId              int64   `json:"user_id" gorm:"not null;uniqueIndex"`
	Address             string  `json:"address" gorm:"not null"`
	EncryptedPrivateKey string  `json:"-" gorm:"not null"`
	Network             string  `json:"network" gorm:"default:'devnet'"`
	Payout              float64 `json:"payout" gorm:"default:0"`
	IsPayoutLocked      bool    `json:"is_payout_locked" gorm:"default:false"` // 提现互斥标记
}

// TableName 自定义表名
func (WalletModel) TableName() string {
	return "wallet"
}
