package api

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel 日志级别
type LogLevel int

const (
	LogError LogLevel = iota
	LogWarn
	LogInfo
	LogDebug
)

// String 返回日志级别字符串
func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "ERROR"
	case LogWarn:
		return "WARN"
	case LogInfo:
		return "INFO"
	case LogDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel 解析日志级别，未知级别返回 LogInfo
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return LogError
	case "warn", "warning":
		return LogWarn
	case "debug":
		return LogDebug
	default:
		return LogInfo
	}
}

// Logger 日志接口
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
	SetLevel(level LogLevel)
	GetLevel() LogLevel
}

// DefaultLogger 默认日志实现
type DefaultLogger struct {
	level  LogLevel
	mu     sync.Mutex
	output io.Writer
}

// NewDefaultLogger 创建默认日志
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return NewDefaultLoggerWithOutput(level, os.Stderr)
}

// NewDefaultLoggerWithOutput 创建带输出的默认日志
func NewDefaultLoggerWithOutput(level LogLevel, output io.Writer) *DefaultLogger {
	return &DefaultLogger{
		level:  level,
		output: output,
	}
}

// SetLevel 设置日志级别
func (l *DefaultLogger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel 获取日志级别
func (l *DefaultLogger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *DefaultLogger) Debug(format string, args ...interface{}) { l.log(LogDebug, format, args...) }
func (l *DefaultLogger) Info(format string, args ...interface{})  { l.log(LogInfo, format, args...) }
func (l *DefaultLogger) Warn(format string, args ...interface{})  { l.log(LogWarn, format, args...) }
func (l *DefaultLogger) Error(format string, args ...interface{}) { l.log(LogError, format, args...) }

// log 检查级别并输出一行日志
func (l *DefaultLogger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level > l.level {
		return
	}
	fmt.Fprintf(l.output, "[%s] %s\n", level.String(), fmt.Sprintf(format, args...))
}

// ZapLogger 基于 zap 的日志实现
type ZapLogger struct {
	atom  zap.AtomicLevel
	sugar *zap.SugaredLogger
}

// NewZapLogger 包装已有的 zap.Logger
//
// The wrapped logger's own core still filters entries; SetLevel only narrows
// what this adapter forwards.
func NewZapLogger(logger *zap.Logger, level LogLevel) *ZapLogger {
	atom := zap.NewAtomicLevelAt(toZapLevel(level))
	return &ZapLogger{
		atom:  atom,
		sugar: logger.WithOptions(zap.AddCallerSkip(1)).Sugar(),
	}
}

// NewZapLoggerFromConfig 按级别和格式（json/text）创建写入 output 的 zap 日志
func NewZapLoggerFromConfig(level, format string, output io.Writer) *ZapLogger {
	lv := ParseLogLevel(level)
	atom := zap.NewAtomicLevelAt(toZapLevel(lv))

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if strings.EqualFold(format, "json") {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(output), atom)
	return &ZapLogger{
		atom:  atom,
		sugar: zap.New(core).Sugar(),
	}
}

func (l *ZapLogger) Debug(format string, args ...interface{}) { l.forward(LogDebug, format, args) }
func (l *ZapLogger) Info(format string, args ...interface{})  { l.forward(LogInfo, format, args) }
func (l *ZapLogger) Warn(format string, args ...interface{})  { l.forward(LogWarn, format, args) }
func (l *ZapLogger) Error(format string, args ...interface{}) { l.forward(LogError, format, args) }

func (l *ZapLogger) forward(level LogLevel, format string, args []interface{}) {
	if !l.atom.Enabled(toZapLevel(level)) {
		return
	}
	switch level {
	case LogDebug:
		l.sugar.Debugf(format, args...)
	case LogInfo:
		l.sugar.Infof(format, args...)
	case LogWarn:
		l.sugar.Warnf(format, args...)
	default:
		l.sugar.Errorf(format, args...)
	}
}

// SetLevel 设置日志级别
func (l *ZapLogger) SetLevel(level LogLevel) {
	l.atom.SetLevel(toZapLevel(level))
}

// GetLevel 获取日志级别
func (l *ZapLogger) GetLevel() LogLevel {
	switch l.atom.Level() {
	case zapcore.DebugLevel:
		return LogDebug
	case zapcore.InfoLevel:
		return LogInfo
	case zapcore.WarnLevel:
		return LogWarn
	default:
		return LogError
	}
}

// Sync 刷新缓冲
func (l *ZapLogger) Sync() error {
	return l.sugar.Sync()
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LogDebug:
		return zapcore.DebugLevel
	case LogInfo:
		return zapcore.InfoLevel
	case LogWarn:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// NoOpLogger 空日志实现（用于禁用日志）
type NoOpLogger struct{}

// NewNoOpLogger 创建空日志
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (l *NoOpLogger) Debug(format string, args ...interface{}) {}
func (l *NoOpLogger) Info(format string, args ...interface{})  {}
func (l *NoOpLogger) Warn(format string, args ...interface{})  {}
func (l *NoOpLogger) Error(format string, args ...interface{}) {}
func (l *NoOpLogger) SetLevel(level LogLevel)                  {}
func (l *NoOpLogger) GetLevel() LogLevel                       { return LogInfo }
