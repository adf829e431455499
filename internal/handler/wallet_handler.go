package handler

import (
	"net/http"
	"strconv"

	"github.com/blues/sms/internal/errs"
	"github.com/blues/sms/internal/logic"
	"github.com/gin-gonic/gin"
)

// WalletHandler 钱包处理器
type WalletHandler struct {
	walletLogic      *logic.WalletLogic
	transactionLogic *logic.TransactionLogic
}

// NewWalletHandler 创建钱包处理器
func NewWalletHandler(walletLogic *logic.WalletLogic, transactionLogic *logic.TransactionLogic) *WalletHandler {
	return &WalletHandler{
		walletLogic:      walletLogic,
		transactionLogic: transactionLogic,
	}
}

// GetWallet 获取当前用户钱包
func (h *WalletHandler) GetWallet(c *gin.Context) {
	wallet, err := h.walletLogic.GetWallet(currentUserId(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ToWalletResponse(wallet))
}

// CreateWallet 显式创建钱包（答卷时也会自动创建）
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	wallet, err := h.walletLogic.GetOrCreateWallet(currentUserId(c))
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "钱包创建成功", ToWalletResponse(wallet))
}

// Withdraw 发起提现
func (h *WalletHandler) Withdraw(c *gin.Context) {
	var input struct {
		ToAddress string  `json:"to_address" binding:"required"`
		Amount    float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		ErrorResponse(c, errs.BadRequest(err.Error()))
		return
	}

	transaction, err := h.walletLogic.Withdraw(currentUserId(c), input.ToAddress, input.Amount)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "提现申请已提交", ToTransactionResponse(transaction))
}

// GetTransactions 获取当前用户流水列表
func (h *WalletHandler) GetTransactions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	transactions, total, err := h.transactionLogic.GetUserTransactions(currentUserId(c), page, pageSize)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", gin.H{
		"transactions": ToTransactionResponseList(transactions),
		"pagination":   NewPagination(page, pageSize, total),
	})
}
