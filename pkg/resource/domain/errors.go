package domain

import "fmt"

// 元数据领域错误

// ErrColumnIndexOutOfRange 列索引越界错误
type ErrColumnIndexOutOfRange struct {
	Index       int
	ColumnCount int
}

func (e *ErrColumnIndexOutOfRange) Error() string {
	return fmt.Sprintf("column index %d out of range [1, %d]", e.Index, e.ColumnCount)
}

// ErrNotConnected 未连接错误
type ErrNotConnected struct {
	DataSourceType string
}

func (e *ErrNotConnected) Error() string {
	return fmt.Sprintf("data source %s is not connected", e.DataSourceType)
}

// ErrConnectionFailed 连接失败错误
type ErrConnectionFailed struct {
	DataSourceType string
	Reason         string
}

func (e *ErrConnectionFailed) Error() string {
	return fmt.Sprintf("failed to connect to %s: %s", e.DataSourceType, e.Reason)
}

// ErrInvalidConfig 配置无效错误
type ErrInvalidConfig struct {
	ConfigKey string
	Message   string
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config for %s: %s", e.ConfigKey, e.Message)
}

// ErrQueryFailed 查询失败错误
type ErrQueryFailed struct {
	Query string
	Cause error
}

func (e *ErrQueryFailed) Error() string {
	return fmt.Sprintf("query failed: %s - %v", e.Query, e.Cause)
}

// Unwrap 返回驱动错误
func (e *ErrQueryFailed) Unwrap() error {
	return e.Cause
}

// ErrEncryptorNotFound 加密器未注册错误
type ErrEncryptorNotFound struct {
	Name  string
	Table string
}

func (e *ErrEncryptorNotFound) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("encryptor %s not found", e.Name)
	}
	return fmt.Sprintf("encryptor %s referenced by table %s not found", e.Name, e.Table)
}

// ErrUnsupportedEncryptor 不支持的加密器类型错误
type ErrUnsupportedEncryptor struct {
	Type string
}

func (e *ErrUnsupportedEncryptor) Error() string {
	return fmt.Sprintf("encryptor type %s is not supported", e.Type)
}

// ErrInvalidInlineExpression 行表达式无效错误
type ErrInvalidInlineExpression struct {
	Expression string
	Reason     string
}

func (e *ErrInvalidInlineExpression) Error() string {
	return fmt.Sprintf("invalid inline expression %q: %s", e.Expression, e.Reason)
}

// 辅助函数

// NewErrColumnIndexOutOfRange 创建列索引越界错误
func NewErrColumnIndexOutOfRange(index, columnCount int) *ErrColumnIndexOutOfRange {
	return &ErrColumnIndexOutOfRange{Index: index, ColumnCount: columnCount}
}

// NewErrNotConnected 创建未连接错误
func NewErrNotConnected(dataSourceType string) *ErrNotConnected {
	return &ErrNotConnected{DataSourceType: dataSourceType}
}

// NewErrConnectionFailed 创建连接失败错误
func NewErrConnectionFailed(dataSourceType, reason string) *ErrConnectionFailed {
	return &ErrConnectionFailed{DataSourceType: dataSourceType, Reason: reason}
}

// NewErrInvalidConfig 创建配置无效错误
func NewErrInvalidConfig(configKey, message string) *ErrInvalidConfig {
	return &ErrInvalidConfig{ConfigKey: configKey, Message: message}
}

// NewErrQueryFailed 创建查询失败错误
func NewErrQueryFailed(query string, cause error) *ErrQueryFailed {
	return &ErrQueryFailed{Query: query, Cause: cause}
}

// NewErrEncryptorNotFound 创建加密器未注册错误
func NewErrEncryptorNotFound(name, table string) *ErrEncryptorNotFound {
	return &ErrEncryptorNotFound{Name: name, Table: table}
}

// NewErrUnsupportedEncryptor 创建不支持的加密器类型错误
func NewErrUnsupportedEncryptor(encryptorType string) *ErrUnsupportedEncryptor {
	return &ErrUnsupportedEncryptor{Type: encryptorType}
}

// NewErrInvalidInlineExpression 创建行表达式无效错误
func NewErrInvalidInlineExpression(expression, reason string) *ErrInvalidInlineExpression {
	return &ErrInvalidInlineExpression{Expression: expression, Reason: reason}
}
