package security

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kasuganosora/shardmeta/pkg/resource/domain"
)

// Encryptor 列加密器
//
// Implementations must treat a nil value as SQL NULL and return it unchanged.
type Encryptor interface {
	// Type returns the registered encryptor type, e.g. "AES".
	Type() string
	Encrypt(plaintext interface{}) (interface{}, error)
	Decrypt(ciphertext interface{}) (interface{}, error)
}

// Properties 加密器属性
type Properties map[string]string

// Factory 加密器工厂
type Factory func(props Properties) (Encryptor, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

func init() {
	RegisterEncryptor(AESEncryptorType, NewAESEncryptor)
	RegisterEncryptor(MD5EncryptorType, NewMD5Encryptor)
}

// RegisterEncryptor 注册加密器类型，同名类型会被覆盖
func RegisterEncryptor(encryptorType string, factory Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[strings.ToUpper(encryptorType)] = factory
}

// NewEncryptor 按类型创建加密器，类型名不区分大小写
func NewEncryptor(encryptorType string, props Properties) (Encryptor, error) {
	factoriesMu.RLock()
	factory, ok := factories[strings.ToUpper(encryptorType)]
	factoriesMu.RUnlock()
	if !ok {
		return nil, domain.NewErrUnsupportedEncryptor(encryptorType)
	}
	if props == nil {
		props = Properties{}
	}
	return factory(props)
}

// EncryptorTypes 返回已注册的加密器类型（已排序）
func EncryptorTypes() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// valueToString converts a driver value to the string fed into an encryptor.
func valueToString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
