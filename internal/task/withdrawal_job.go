package task

import (
	"context"
	"time"

	"github.com/blues/sms/internal/chain"
	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/logger"
	"github.com/blues/sms/internal/logic"
	"github.com/blues/sms/internal/model"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// WithdrawalJob 提现上链任务
// 捞取待处理的提现流水，从平台账户发起链上转账
type WithdrawalJob struct {
	db          *gorm.DB
	config      *config.Config
	client      *chain.Client
	walletLogic *logic.WalletLogic
}

// NewWithdrawalJob 创建提现上链任务
func NewWithdrawalJob(db *gorm.DB, cfg *config.Config, client *chain.Client, walletLogic *logic.WalletLogic) *WithdrawalJob {
	return &WithdrawalJob{
		db:          db,
		config:      cfg,
		client:      client,
		walletLogic: walletLogic,
	}
}

// GetName 获取任务名称
func (j *WithdrawalJob) GetName() string {
	return "withdrawal_submitter"
}

// GetSchedule 获取调度配置
func (j *WithdrawalJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Task.Interval) * time.Second)
}

// Execute 执行任务
func (j *WithdrawalJob) Execute() {
	logger.Info("Starting withdrawal submission task")

	var pending []model.TransactionModel
	err := j.db.Where("type = ? AND status = ?",
		model.TransactionTypePayout, model.TransactionStatusPending).
		Order("created_at ASC").
		Find(&pending).Error
	if err != nil {
		logger.Error("Failed to fetch pending withdrawals: %v", err)
		return
	}
	if len(pending) == 0 {
		logger.Info("No pending withdrawals")
		return
	}

	ctx := context.Background()
	for i := range pending {
		j.submit(ctx, &pending[i])
	}

	logger.Info("Withdrawal submission task completed. Processed %d withdrawals", len(pending))
}

// submit 提交单笔提现上链，失败时回补余额
func (j *WithdrawalJob) submit(ctx context.Context, transaction *model.TransactionModel) {
	txHash, err := j.client.Transfer(ctx, transaction.Recipient, transaction.Amount)
	if err != nil {
		logger.Error("Failed to submit withdrawal %s on chain: %v", transaction.Reference, err)
		if refundErr := j.walletLogic.RefundWithdrawal(transaction); refundErr != nil {
			logger.Error("Failed to refund withdrawal %s: %v", transaction.Reference, refundErr)
		}
		return
	}

	err = j.db.Model(transaction).Updates(map[string]interface{}{
		"tx_hash": txHash,
		"status":  model.TransactionStatusSubmitted,
	}).Error
	if err != nil {
		// 转账已发出，记录失败只能告警，由对账补偿
		logger.Error("Failed to record tx hash %s for withdrawal %s: %v",
			txHash, transaction.Reference, err)
		return
	}

	logger.Info("Submitted withdrawal %s on chain (tx: %s)", transaction.Reference, txHash)
}
