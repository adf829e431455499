package chain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/blues/sms/internal/config"
	"github.com/blues/sms/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// weiPerToken 原生代币精度
var weiPerToken = new(big.Float).SetFloat64(1e18)

// Client 链客户端，持有平台出账私钥
type Client struct {
	client        *ethclient.Client
	privateKey    *ecdsa.PrivateKey
	chainId       *big.Int
	confirmations int
}

// NewClient 创建链客户端
func NewClient(cfg config.ChainConfig) (*Client, error) {
	rpcUrl := cfg.RpcUrl
	if rpcUrl == "" {
		return nil, fmt.Errorf("no RPC URL configured")
	}

	// 验证链类型
	supportedTypes := []string{"ethereum", "polygon", "bsc", "arbitrum", "optimism"}
	isSupported := false
	for _, supportedType := range supportedTypes {
		if cfg.ChainType == supportedType {
			isSupported = true
			break
		}
	}
	if !isSupported {
		return nil, fmt.Errorf("unsupported chain type %s, supported types: %s",
			cfg.ChainType, strings.Join(supportedTypes, ", "))
	}

	logger.Info("Creating %s client connection (RPC: %s)", cfg.ChainType, rpcUrl)
	client, err := ethclient.Dial(rpcUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.ChainType, err)
	}

	// 测试连接
	if _, err := client.BlockNumber(context.TODO()); err != nil {
		client.Close()
		return nil, fmt.Errorf("client connection test failed (%s): %w", cfg.ChainType, err)
	}

	// 解析平台私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to parse platform private key: %w", err)
	}

	logger.Info("Successfully created %s client (chain id: %d)", cfg.ChainType, cfg.ChainId)

	return &Client{
		client:        client,
		privateKey:    privateKey,
		chainId:       big.NewInt(cfg.ChainId),
		confirmations: cfg.Confirmations,
	}, nil
}

// PlatformAddress 获取平台出账地址
func (c *Client) PlatformAddress() common.Address {
	return crypto.PubkeyToAddress(c.privateKey.PublicKey)
}

// GetLatestBlock 获取最新区块号
func (c *Client) GetLatestBlock(ctx context.Context) (uint64, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}

// Transfer 从平台账户向目标地址发送原生代币转账，返回交易哈希
func (c *Client) Transfer(ctx context.Context, to string, amount float64) (string, error) {
	if !common.IsHexAddress(to) {
		return "", fmt.Errorf("invalid recipient address: %s", to)
	}
	toAddr := common.HexToAddress(to)

	// 代币数量转换为wei
	value, _ := new(big.Float).Mul(new(big.Float).SetFloat64(amount), weiPerToken).Int(nil)
	if value.Sign() <= 0 {
		return "", fmt.Errorf("transfer amount must be positive: %f", amount)
	}

	nonce, err := c.client.PendingNonceAt(ctx, c.PlatformAddress())
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	// 原生转账固定gas
	tx := types.NewTransaction(nonce, toAddr, value, 21000, gasPrice, nil)

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(c.chainId), c.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	logger.Info("Submitted transfer of %f to %s (tx: %s)", amount, to, signedTx.Hash().Hex())
	return signedTx.Hash().Hex(), nil
}

// TxStatus 交易确认状态
type TxStatus struct {
	Confirmed bool  // 是否达到确认区块数
	Success   bool  // 链上执行是否成功
	BlockNum  int64 // 所在区块
}

// GetTransactionStatus 查询交易回执并判断确认深度
func (c *Client) GetTransactionStatus(ctx context.Context, txHash string) (*TxStatus, error) {
	receipt, err := c.client.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return &TxStatus{}, nil
	}

	latestBlock, err := c.GetLatestBlock(ctx)
	if err != nil {
		return nil, err
	}

	return &TxStatus{
		Confirmed: latestBlock >= receipt.BlockNumber.Uint64()+uint64(c.confirmations),
		Success:   receipt.Status == types.ReceiptStatusSuccessful,
		BlockNum:  receipt.BlockNumber.Int64(),
	}, nil
}

// Close 关闭客户端
func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
	logger.Info("Chain client closed")
}
