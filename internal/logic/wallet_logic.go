package logic

import (
	"errors"
	"fmt"

	"github.com/blues/sms/internal/chain"
	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WalletLogic 钱包业务逻辑
type WalletLogic struct {
	db  *gorm.DB
	cfg config.WalletConfig
}

// NewWalletLogic 创建钱包业务逻辑
func NewWalletLogic(db *gorm.DB, cfg config.WalletConfig) *WalletLogic {
	return &WalletLogic{db: db, cfg: cfg}
}

// GetWallet 获取用户钱包
func (w *WalletLogic) GetWallet(userId int64) (*model.WalletModel, error) {
	var wallet model.WalletModel
	if err := w.db.Where("user_id = ?", userId).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("钱包不存在")
		}
		return nil, fmt.Errorf("获取钱包失败: %w", err)
	}
	return &wallet, nil
}

// GetOrCreateWallet 获取用户钱包，不存在时自动创建
func (w *WalletLogic) GetOrCreateWallet(userId int64) (*model.WalletModel, error) {
	var wallet model.WalletModel
	err := w.db.Where("user_id = ?", userId).First(&wallet).Error
	if err == nil {
		return &wallet, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("获取钱包失败: %w", err)
	}
	return w.CreateWallet(userId)
}

// CreateWallet 为用户创建钱包
func (w *WalletLogic) CreateWallet(userId int64) (*model.WalletModel, error) {
	keypair, err := chain.GenerateKeypair()
	if err != nil {
		return nil, fmt.Errorf("生成钱包密钥失败: %w", err)
	}

	encrypted, err := chain.EncryptPrivateKey(keypair.PrivateKeyHex, w.cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("加密钱包私钥失败: %w", err)
	}

	network := w.cfg.Network
	if network == "" {
		network = "devnet"
	}

	wallet := model.WalletModel{
		UserId:              userId,
		Address:             keypair.Address,
		EncryptedPrivateKey: encrypted,
		Network:             network,
		Payout:              0,
	}

	if err := w.db.Create(&wallet).Error; err != nil {
		// user_id 唯一索引：并发创建时读回已有钱包
		var existing model.WalletModel
		if findErr := w.db.Where("user_id = ?", userId).First(&existing).Error; findErr == nil {
			return &existing, nil
		}
		return nil, fmt.Errorf("创建钱包失败: %w", err)
	}

	logger.Info("Created wallet %s for user %d", wallet.Address, userId)
	return &wallet, nil
}

// LockPayout 获取提现互斥锁
// 条件更新 is_payout_locked false -> true，仅在成功翻转时返回钱包
func (w *WalletLogic) LockPayout(walletId int64) (*model.WalletModel, error) {
	result := w.db.Model(&model.WalletModel{}).
		Where("id = ? AND is_payout_locked = ?", walletId, false).
		Update("is_payout_locked", true)
	if result.Error != nil {
		return nil, fmt.Errorf("锁定钱包失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errs.Conflict("钱包有提现正在处理中")
	}

	var wallet model.WalletModel
	if err := w.db.First(&wallet, walletId).Error; err != nil {
		return nil, fmt.Errorf("获取钱包失败: %w", err)
	}
	return &wallet, nil
}

// UnlockPayout 释放提现互斥锁
func (w *WalletLogic) UnlockPayout(walletId int64) error {
	if err := w.db.Model(&model.WalletModel{}).
		Where("id = ?", walletId).
		Update("is_payout_locked", false).Error; err != nil {
		return fmt.Errorf("解锁钱包失败: %w", err)
	}
	return nil
}

// Withdraw 发起提现：扣减余额并创建待处理的提现流水，由后台任务上链
func (w *WalletLogic) Withdraw(userId int64, toAddress string, amount float64) (*model.TransactionModel, error) {
	if amount <= 0 {
		return nil, errs.BadRequest("提现金额必须大于0")
	}
	if toAddress == "" {
		return nil, errs.BadRequest("提现地址不能为空")
	}

	wallet, err := w.GetWallet(userId)
	if err != nil {
		return nil, err
	}

	// 互斥锁保证同一钱包同时只有一笔提现在途
	locked, err := w.LockPayout(wallet.Id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := w.UnlockPayout(locked.Id); err != nil {
			logger.Error("Failed to unlock wallet %d: %v", locked.Id, err)
		}
	}()

	if locked.Payout < amount {
		return nil, errs.BadRequest("钱包余额不足")
	}

	transaction := model.TransactionModel{
		Reference: uuid.NewString(),
		WalletId:  locked.Id,
		Type:      model.TransactionTypePayout,
		Amount:    amount,
		Sender:    locked.Address,
		Recipient: toAddress,
		Status:    model.TransactionStatusPending,
	}

	// 开始事务
	tx := w.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// 扣减余额，WHERE中再次校验余额防止并发透支
	result := tx.Model(&model.WalletModel{}).
		Where("id = ? AND payout >= ?", locked.Id, amount).
		Update("payout", gorm.Expr("payout - ?", amount))
	if result.Error != nil {
		tx.Rollback()
		return nil, fmt.Errorf("扣减余额失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return nil, errs.BadRequest("钱包余额不足")
	}

	if err := tx.Create(&transaction).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("创建提现流水失败: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("提交提现事务失败: %w", err)
	}

	logger.Info("Created withdrawal %s for wallet %d, amount: %f",
		transaction.Reference, locked.Id, amount)
	return &transaction, nil
}

// RefundWithdrawal 提现失败时回补余额并标记流水失败
func (w *WalletLogic) RefundWithdrawal(transaction *model.TransactionModel) error {
	tx := w.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Model(&model.WalletModel{}).
		Where("id = ?", transaction.WalletId).
		Update("payout", gorm.Expr("payout + ?", transaction.Amount)).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("回补余额失败: %w", err)
	}

	if err := tx.Model(&model.TransactionModel{}).
		Where("id = ?", transaction.Id).
		Update("status", model.TransactionStatusFailed).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("更新流水状态失败: %w", err)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("提交回补事务失败: %w", err)
	}

	logger.Warn("Refunded withdrawal %s to wallet %d, amount: %f",
		transaction.Reference, transaction.WalletId, transaction.Amount)
	return nil
}
