package chain

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Keypair 新生成的钱包密钥对
type Keypair struct {
	Address       string
	PrivateKeyHex string
}

// GenerateKeypair 生成secp256k1密钥对
func GenerateKeypair() (*Keypair, error) {
	privateKey, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	return &Keypair{
		Address:       crypto.PubkeyToAddress(privateKey.PublicKey).Hex(),
		PrivateKeyHex: hex.EncodeToString(crypto.FromECDSA(privateKey)),
	}, nil
}

// EncryptPrivateKey 使用AES-GCM加密私钥，返回hex(nonce||ciphertext)
func EncryptPrivateKey(privateKeyHex, secret string) (string, error) {
	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(privateKeyHex), nil)
	return hex.EncodeToString(ciphertext), nil
}

// DecryptPrivateKey 解密EncryptPrivateKey的输出
func DecryptPrivateKey(encrypted, secret string) (string, error) {
	data, err := hex.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("invalid encrypted key: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(secret))
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("invalid encrypted key: too short")
	}

	plaintext, err := gcm.Open(nil, data[:gcm.NonceSize()], data[gcm.NonceSize():], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt key: %w", err)
	}

	return string(plaintext), nil
}

// deriveKey 从配置密钥派生32字节AES密钥
func deriveKey(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}
