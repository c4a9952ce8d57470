package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"
)

const (
	// AESEncryptorType AES加密器类型
	AESEncryptorType = "AES"
	// AESKeyProperty AES密钥属性名
	AESKeyProperty = "aes.key.value"
)

// AESEncryptor AES-256-GCM 加密器
type AESEncryptor struct {
	key []byte
}

// NewAESEncryptor 创建AES加密器
func NewAESEncryptor(props Properties) (Encryptor, error) {
	password := props[AESKeyProperty]
	if len(password) < 8 {
		return nil, errors.New(AESKeyProperty + " must be at least 8 characters")
	}

	// 使用SHA256生成32字节的密钥
	hash := sha256.Sum256([]byte(password))
	return &AESEncryptor{key: hash[:]}, nil
}

// Type 返回加密器类型
func (e *AESEncryptor) Type() string {
	return AESEncryptorType
}

// Encrypt 加密数据，返回base64编码的密文
func (e *AESEncryptor) Encrypt(plaintext interface{}) (interface{}, error) {
	if plaintext == nil {
		return nil, nil
	}

	gcm, err := e.newGCM()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(valueToString(plaintext)), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt 解密数据
func (e *AESEncryptor) Decrypt(ciphertext interface{}) (interface{}, error) {
	if ciphertext == nil {
		return nil, nil
	}

	data, err := base64.StdEncoding.DecodeString(valueToString(ciphertext))
	if err != nil {
		return nil, err
	}

	gcm, err := e.newGCM()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, sealed := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, err
	}

	return string(plaintext), nil
}

func (e *AESEncryptor) newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
