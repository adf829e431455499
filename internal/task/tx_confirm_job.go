package task

import (
	"context"
	"fmt"
	"time"

	"github.com/blues/sms/internal/chain"
	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/logic"
	"github.com/blues/sms/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// TxConfirmJob 交易确认任务
// 轮询已上链的提现流水，按确认区块数推进终态并通知用户
type TxConfirmJob struct {
	db          *gorm.DB
	config      *config.Config
	client      *chain.Client
	walletLogic *logic.WalletLogic
	notifLogic  *logic.NotificationLogic
}

// NewTxConfirmJob 创建交易确认任务
func NewTxConfirmJob(db *gorm.DB, cfg *config.Config, client *chain.Client,
	walletLogic *logic.WalletLogic, notifLogic *logic.NotificationLogic) *TxConfirmJob {
	return &TxConfirmJob{
		db:          db,
		config:      cfg,
		client:      client,
		walletLogic: walletLogic,
		notifLogic:  notifLogic,
	}
}

// GetName 获取任务名称
func (j *TxConfirmJob) GetName() string {
	return "tx_confirmer"
}

// GetSchedule 获取调度配置
func (j *TxConfirmJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *TxConfirmJob) Execute() {
	logger.Info("Starting transaction confirmation task")

	var submitted []model.TransactionModel
	err := j.db.Where("type = ? AND status = ?",
		model.TransactionTypePayout, model.TransactionStatusSubmitted).
		Find(&submitted).Error
	if err != nil {
		logger.Error("Failed to fetch submitted withdrawals: %v", err)
		return
	}
	if len(submitted) == 0 {
		logger.Info("No withdrawals awaiting confirmation")
		return
	}

	ctx := context.Background()
	for i := range submitted {
		j.confirm(ctx, &submitted[i])
	}

	logger.Info("Transaction confirmation task completed. Checked %d withdrawals", len(submitted))
}

// confirm 检查单笔提现的链上确认状态
func (j *TxConfirmJob) confirm(ctx context.Context, transaction *model.TransactionModel) {
	status, err := j.client.GetTransactionStatus(ctx, transaction.TxHash)
	if err != nil {
		// 回执暂时查不到视为仍在确认中，下轮重试
		logger.Warn("Receipt not yet available for withdrawal %s (tx: %s): %v",
			transaction.Reference, transaction.TxHash, err)
		return
	}
	if !status.Confirmed {
		return
	}

	if status.Success {
		err = j.db.Model(transaction).Updates(map[string]interface{}{
			"status":    model.TransactionStatusSuccess,
			"block_num": status.BlockNum,
		}).Error
		if err != nil {
			logger.Error("Failed to finalize withdrawal %s: %v", transaction.Reference, err)
			return
		}
		logger.Info("Withdrawal %s confirmed at block %d", transaction.Reference, status.BlockNum)
		j.notifyOwner(transaction, "提现成功",
			fmt.Sprintf("提现 %f 已到账，交易哈希 %s", transaction.Amount, transaction.TxHash))
		return
	}

	// 链上执行失败，回补余额
	logger.Warn("Withdrawal %s reverted on chain (tx: %s)", transaction.Reference, transaction.TxHash)
	if err := j.walletLogic.RefundWithdrawal(transaction); err != nil {
		logger.Error("Failed to refund reverted withdrawal %s: %v", transaction.Reference, err)
		return
	}
	j.notifyOwner(transaction, "提现失败",
		fmt.Sprintf("提现 %f 链上执行失败，金额已退回钱包", transaction.Amount))
}

// notifyOwner 按钱包找到所属用户并发送提现结果通知
func (j *TxConfirmJob) notifyOwner(transaction *model.TransactionModel, title, message string) {
	var wallet model.WalletModel
	if err := j.db.First(&wallet, transaction.WalletId).Error; err != nil {
		logger.Error("Failed to load wallet %d for notification: %v", transaction.WalletId, err)
		return
	}
	j.notifLogic.Notify(wallet.UserId, model.NotificationTypeWithdrawal, title, message)
}
