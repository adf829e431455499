package logic

import (
	"errors"
	"fmt"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/model"
	"gorm.io/gorm"
)

// TransactionLogic 流水查询逻辑
type TransactionLogic struct {
	db *gorm.DB
}

// NewTransactionLogic 创建流水业务逻辑
func NewTransactionLogic(db *gorm.DB) *TransactionLogic {
	return &TransactionLogic{db: db}
}

// GetUserTransactions 获取用户钱包的流水列表
func (t *TransactionLogic) GetUserTransactions(userId int64, page, pageSize int) ([]model.TransactionModel, int64, error) {
	var wallet model.WalletModel
	if err := t.db.Where("user_id = ?", userId).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, errs.NotFound("钱包不存在")
		}
		return nil, 0, fmt.Errorf("获取钱包失败: %w", err)
	}

	var total int64
	if err := t.db.Model(&model.TransactionModel{}).
		Where("wallet_id = ?", wallet.Id).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取流水总数失败: %w", err)
	}

	var transactions []model.TransactionModel
	offset := (page - 1) * pageSize
	if err := t.db.Where("wallet_id = ?", wallet.Id).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, 0, fmt.Errorf("获取流水列表失败: %w", err)
	}

	return transactions, total, nil
}

// GetByReference 根据业务引用号获取流水
func (t *TransactionLogic) GetByReference(reference string) (*model.TransactionModel, error) {
	var transaction model.TransactionModel
	if err := t.db.Where("reference = ?", reference).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("流水不存在")
		}
		return nil, fmt.Errorf("获取流水失败: %w", err)
	}
	return &transaction, nil
}
