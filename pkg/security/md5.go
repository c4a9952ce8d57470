package security

import (
	"crypto/md5"
	"encoding/hex"
)

// MD5EncryptorType MD5加密器类型
const MD5EncryptorType = "MD5"

// MD5Encryptor 单向摘要加密器，Decrypt 原样返回密文
type MD5Encryptor struct{}

// NewMD5Encryptor 创建MD5加密器
func NewMD5Encryptor(_ Properties) (Encryptor, error) {
	return &MD5Encryptor{}, nil
}

// Type 返回加密器类型
func (e *MD5Encryptor) Type() string {
	return MD5EncryptorType
}

// Encrypt 计算十六进制摘要
func (e *MD5Encryptor) Encrypt(plaintext interface{}) (interface{}, error) {
	if plaintext == nil {
		return nil, nil
	}
	sum := md5.Sum([]byte(valueToString(plaintext)))
	return hex.EncodeToString(sum[:]), nil
}

// Decrypt 摘要不可逆
func (e *MD5Encryptor) Decrypt(ciphertext interface{}) (interface{}, error) {
	return ciphertext, nil
}
