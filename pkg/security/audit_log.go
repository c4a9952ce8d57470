package security

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditLevel 审计级别
type AuditLevel int

const (
	AuditLevelInfo AuditLevel = iota
	AuditLevelWarning
	AuditLevelError
)

// AuditEventType 审计事件类型
type AuditEventType string

const (
	EventTypeQuery       AuditEventType = "query"
	EventTypeError       AuditEventType = "error"
	EventTypeMCPToolCall AuditEventType = "mcp_tool_call"
)

// AuditEvent 审计事件
type AuditEvent struct {
	ID        string                 `json:"id"`
	TraceID   string                 `json:"trace_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Level     AuditLevel             `json:"level"`
	EventType AuditEventType         `json:"event_type"`
	User      string                 `json:"user,omitempty"`
	Query     string                 `json:"query,omitempty"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Success   bool                   `json:"success"`
	Duration  int64                  `json:"duration"` // 毫秒
}

// AuditLogger 审计日志记录器，保留最近 size 条事件
type AuditLogger struct {
	mu     sync.RWMutex
	buffer []*AuditEvent
	next   int
	count  int
}

// NewAuditLogger 创建审计日志记录器
func NewAuditLogger(size int) *AuditLogger {
	if size <= 0 {
		size = 1
	}
	return &AuditLogger{buffer: make([]*AuditEvent, size)}
}

// Log 记录审计事件
func (al *AuditLogger) Log(event *AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	al.mu.Lock()
	defer al.mu.Unlock()
	al.buffer[al.next] = event
	al.next = (al.next + 1) % len(al.buffer)
	if al.count < len(al.buffer) {
		al.count++
	}
}

// LogQuery 记录一次查询及其结果列数
func (al *AuditLogger) LogQuery(traceID, user, query string, columns int, duration int64, success bool) {
	level := AuditLevelInfo
	if !success {
		level = AuditLevelWarning
	}
	al.Log(&AuditEvent{
		TraceID:   traceID,
		Level:     level,
		EventType: EventTypeQuery,
		User:      user,
		Query:     query,
		Message:   "query",
		Metadata:  map[string]interface{}{"columns": columns},
		Success:   success,
		Duration:  duration,
	})
}

// LogMCPToolCall 记录 MCP 工具调用
func (al *AuditLogger) LogMCPToolCall(traceID, clientName, toolName string, args map[string]interface{}, duration int64, success bool) {
	al.Log(&AuditEvent{
		TraceID:   traceID,
		Level:     AuditLevelInfo,
		EventType: EventTypeMCPToolCall,
		User:      clientName,
		Message:   "MCP tool: " + toolName,
		Metadata: map[string]interface{}{
			"tool_name": toolName,
			"args":      args,
		},
		Success:  success,
		Duration: duration,
	})
}

// LogError 记录错误
func (al *AuditLogger) LogError(traceID, user, message string, err error) {
	event := &AuditEvent{
		TraceID:   traceID,
		Level:     AuditLevelError,
		EventType: EventTypeError,
		User:      user,
		Message:   message,
	}
	if err != nil {
		event.Metadata = map[string]interface{}{"error": err.Error()}
	}
	al.Log(event)
}

// GetEvents 按时间顺序返回事件，offset 从最新一条往前数
func (al *AuditLogger) GetEvents(offset, limit int) []*AuditEvent {
	al.mu.RLock()
	defer al.mu.RUnlock()

	if offset < 0 || limit <= 0 || offset >= al.count {
		return []*AuditEvent{}
	}
	if offset+limit > al.count {
		limit = al.count - offset
	}

	size := len(al.buffer)
	newest := (al.next - 1 - offset + size) % size
	events := make([]*AuditEvent, limit)
	for i := 0; i < limit; i++ {
		events[limit-1-i] = al.buffer[(newest-i+size)%size]
	}
	return events
}

// GetEventsByTraceID 获取指定 TraceID 的事件
func (al *AuditLogger) GetEventsByTraceID(traceID string) []*AuditEvent {
	return al.filter(func(e *AuditEvent) bool { return e.TraceID == traceID })
}

// GetEventsByType 获取指定类型的事件
func (al *AuditLogger) GetEventsByType(eventType AuditEventType) []*AuditEvent {
	return al.filter(func(e *AuditEvent) bool { return e.EventType == eventType })
}

func (al *AuditLogger) filter(match func(*AuditEvent) bool) []*AuditEvent {
	events := make([]*AuditEvent, 0)
	for _, event := range al.GetEvents(0, len(al.buffer)) {
		if match(event) {
			events = append(events, event)
		}
	}
	return events
}

// Export 导出审计日志
func (al *AuditLogger) Export() (string, error) {
	data, err := json.MarshalIndent(al.GetEvents(0, len(al.buffer)), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
