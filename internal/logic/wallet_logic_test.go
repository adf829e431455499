package logic

import (
	"errors"
	"strings"
	"testing"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/model"
)

func TestCreateWalletIsIdempotentPerUser(t *testing.T) {
	db := newTestDB(t)
	walletLogic := NewWalletLogic(db, testWalletConfig())
	user := seedUser(t, db, model.UserRoleUser)

	first, err := walletLogic.GetOrCreateWallet(user.Id)
	if err != nil {
		t.Fatalf("GetOrCreateWallet failed: %v", err)
	}
	if !strings.HasPrefix(first.Address, "0x") {
		t.Errorf("wallet address = %q, want 0x prefix", first.Address)
	}
	if first.EncryptedPrivateKey == "" {
		t.Error("private key not stored")
	}

	second, err := walletLogic.GetOrCreateWallet(user.Id)
	if err != nil {
		t.Fatalf("second GetOrCreateWallet failed: %v", err)
	}
	if second.Id != first.Id {
		t.Errorf("second call created a new wallet: %d != %d", second.Id, first.Id)
	}

	var count int64
	db.Model(&model.WalletModel{}).Where("user_id = ?", user.Id).Count(&count)
	if count != 1 {
		t.Errorf("wallet count = %d, want 1", count)
	}
}

func TestLockPayoutSingleFlight(t *testing.T) {
	db := newTestDB(t)
	walletLogic := NewWalletLogic(db, testWalletConfig())
	user := seedUser(t, db, model.UserRoleUser)

	wallet, err := walletLogic.CreateWallet(user.Id)
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}

	if _, err := walletLogic.LockPayout(wallet.Id); err != nil {
		t.Fatalf("first LockPayout failed: %v", err)
	}

	// 已锁定时再次加锁必须冲突
	_, err = walletLogic.LockPayout(wallet.Id)
	var appErr *errs.AppError
	if !errors.As(err, &appErr) || appErr.Status != 409 {
		t.Errorf("second LockPayout error = %v, want 409", err)
	}

	if err := walletLogic.UnlockPayout(wallet.Id); err != nil {
		t.Fatalf("UnlockPayout failed: %v", err)
	}
	if _, err := walletLogic.LockPayout(wallet.Id); err != nil {
		t.Errorf("LockPayout after unlock failed: %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	db := newTestDB(t)
	walletLogic := NewWalletLogic(db, testWalletConfig())
	user := seedUser(t, db, model.UserRoleUser)

	wallet, err := walletLogic.CreateWallet(user.Id)
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	if err := db.Model(&model.WalletModel{}).Where("id = ?", wallet.Id).
		Update("payout", 5.0).Error; err != nil {
		t.Fatalf("failed to credit wallet: %v", err)
	}

	transaction, err := walletLogic.Withdraw(user.Id, "0x00000000000000000000000000000000000000aa", 2)
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}
	if transaction.Reference == "" {
		t.Error("withdrawal reference not assigned")
	}
	if transaction.Status != model.TransactionStatusPending {
		t.Errorf("transaction status = %s, want pending", transaction.Status)
	}
	if transaction.Type != model.TransactionTypePayout {
		t.Errorf("transaction type = %s, want payout", transaction.Type)
	}

	var updated model.WalletModel
	if err := db.First(&updated, wallet.Id).Error; err != nil {
		t.Fatalf("failed to reload wallet: %v", err)
	}
	if updated.Payout != 3 {
		t.Errorf("wallet payout = %v, want 3", updated.Payout)
	}
	// 提现结束后锁必须已释放
	if updated.IsPayoutLocked {
		t.Error("wallet still locked after withdrawal")
	}
}

func TestWithdrawValidation(t *testing.T) {
	db := newTestDB(t)
	walletLogic := NewWalletLogic(db, testWalletConfig())
	user := seedUser(t, db, model.UserRoleUser)

	wallet, err := walletLogic.CreateWallet(user.Id)
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	if err := db.Model(&model.WalletModel{}).Where("id = ?", wallet.Id).
		Update("payout", 1.0).Error; err != nil {
		t.Fatalf("failed to credit wallet: %v", err)
	}

	tests := []struct {
		name    string
		address string
		amount  float64
	}{
		{"zero amount", "0x00000000000000000000000000000000000000aa", 0},
		{"negative amount", "0x00000000000000000000000000000000000000aa", -1},
		{"empty address", "", 1},
		{"insufficient balance", "0x00000000000000000000000000000000000000aa", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := walletLogic.Withdraw(user.Id, tt.address, tt.amount)
			var appErr *errs.AppError
			if !errors.As(err, &appErr) || appErr.Status != 400 {
				t.Errorf("Withdraw(%q, %v) error = %v, want 400", tt.address, tt.amount, err)
			}
		})
	}

	// 校验失败不能留下锁
	var updated model.WalletModel
	if err := db.First(&updated, wallet.Id).Error; err != nil {
		t.Fatalf("failed to reload wallet: %v", err)
	}
	if updated.IsPayoutLocked {
		t.Error("wallet left locked after rejected withdrawal")
	}
	if updated.Payout != 1 {
		t.Errorf("wallet payout = %v, want 1", updated.Payout)
	}
}

func TestRefundWithdrawal(t *testing.T) {
	db := newTestDB(t)
	walletLogic := NewWalletLogic(db, testWalletConfig())
	user := seedUser(t, db, model.UserRoleUser)

	wallet, err := walletLogic.CreateWallet(user.Id)
	if err != nil {
		t.Fatalf("CreateWallet failed: %v", err)
	}
	if err := db.Model(&model.WalletModel{}).Where("id = ?", wallet.Id).
		Update("payout", 5.0).Error; err != nil {
		t.Fatalf("failed to credit wallet: %v", err)
	}

	transaction, err := walletLogic.Withdraw(user.Id, "0x00000000000000000000000000000000000000aa", 2)
	if err != nil {
		t.Fatalf("Withdraw failed: %v", err)
	}

	if err := walletLogic.RefundWithdrawal(transaction); err != nil {
		t.Fatalf("RefundWithdrawal failed: %v", err)
	}

	var updated model.WalletModel
	if err := db.First(&updated, wallet.Id).Error; err != nil {
		t.Fatalf("failed to reload wallet: %v", err)
	}
	if updated.Payout != 5 {
		t.Errorf("wallet payout = %v after refund, want 5", updated.Payout)
	}

	var refunded model.TransactionModel
	if err := db.First(&refunded, transaction.Id).Error; err != nil {
		t.Fatalf("failed to reload transaction: %v", err)
	}
	if refunded.Status != model.TransactionStatusFailed {
		t.Errorf("transaction status = %s after refund, want failed", refunded.Status)
	}
}
