package model

import (
	"time"
)

// TransactionModel 资金流水记录，只追加，仅状态列可变
type TransactionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Reference string            `json:"reference" gorm:"uniqueIndex;not null"` // 业务引用号 (uuid)
	WalletId  int64             `json:"wallet_id" gorm:"index"`
	Type      TransactionType   `json:"type" gorm:"not null"`
	Amount    float64           `json:"amount" gorm:"not null"`
	Sender    string            `json:"sender"`
	Recipient string            `json:"recipient"`
	TxHash    string            `json:"tx_hash"`
	BlockNum  int64             `json:"block_num"`
	Status    TransactionStatus `json:"status" gorm:"default:'pending'"`
}

// TransactionType 流水类型
type TransactionType string

const (
	TransactionTypeCredit TransactionType = "credit" // 入账
	TransactionTypeDebit  TransactionType = "debit"  // 出账
	TransactionTypePayout TransactionType = "payout" // 提现
)

// TransactionStatus 流水状态
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"   // 待处理
	TransactionStatusSubmitted TransactionStatus = "submitted" // 已上链待确认
	TransactionStatusSuccess   TransactionStatus = "success"   // 成功
	TransactionStatusFailed    TransactionStatus = "failed"    // 失败
)

// TableName 自定义表名
func (TransactionModel) TableName() string {
	return "transaction"
}
