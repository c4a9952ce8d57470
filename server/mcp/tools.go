package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kasuganosora/shardmeta/pkg/api"
	"github.com/kasuganosora/shardmeta/pkg/security"
	"github.com/mark3labs/mcp-go/mcp"
)

const defaultRowLimit = 100

type contextKey string

const ctxKeyAuthorized contextKey = "mcp_authorized"

func withAuthorized(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKeyAuthorized, true)
}

func isAuthorized(ctx context.Context) bool {
	ok, _ := ctx.Value(ctxKeyAuthorized).(bool)
	return ok
}

// ToolDeps holds shared dependencies for MCP tool handlers
type ToolDeps struct {
	DB          *api.DB
	Token       string
	AuditLogger *security.AuditLogger
	Logger      api.Logger
}

// HandleDescribeResult describes the logical columns of a query result
func (d *ToolDeps) HandleDescribeResult(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return d.withQuery(ctx, request, "describe_result", func(q *api.Query) (string, error) {
		descriptions, err := q.Describe()
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		sb.WriteString("index\tlabel\tcolumn\ttable\tlogic_table\tlogic_column\tcase_sensitive\tencryptor\n")
		for _, c := range descriptions {
			fmt.Fprintf(&sb, "%d\t%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
				c.Index, c.Label, c.Column, c.Table, c.LogicTable, c.LogicColumn, c.CaseSensitive, c.Encryptor)
		}
		fmt.Fprintf(&sb, "\n(%d columns)", len(descriptions))
		return sb.String(), nil
	})
}

// HandleQuery returns the rows of a query with encrypted columns decrypted
func (d *ToolDeps) HandleQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", defaultRowLimit)
	if limit <= 0 {
		limit = defaultRowLimit
	}

	return d.withQuery(ctx, request, "query", func(q *api.Query) (string, error) {
		descriptions, err := q.Describe()
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		header := make([]string, len(descriptions))
		for i, c := range descriptions {
			header[i] = c.LogicColumn
		}
		sb.WriteString(strings.Join(header, "\t"))
		sb.WriteString("\n")

		rowCount := 0
		truncated := false
		for q.Next() {
			if rowCount == limit {
				truncated = true
				break
			}
			row := q.Row()
			vals := make([]string, len(row))
			for i, v := range row {
				if v == nil {
					vals[i] = "NULL"
				} else {
					vals[i] = fmt.Sprintf("%v", v)
				}
			}
			sb.WriteString(strings.Join(vals, "\t"))
			sb.WriteString("\n")
			rowCount++
		}
		if err := q.Err(); err != nil {
			return "", err
		}

		if truncated {
			fmt.Fprintf(&sb, "\n(%d rows, truncated)", rowCount)
		} else {
			fmt.Fprintf(&sb, "\n(%d rows)", rowCount)
		}
		return sb.String(), nil
	})
}

// withQuery runs the sql argument and renders the open query with render.
func (d *ToolDeps) withQuery(ctx context.Context, request mcp.CallToolRequest, toolName string, render func(*api.Query) (string, error)) (*mcp.CallToolResult, error) {
	if d.Token != "" && !isAuthorized(ctx) {
		return mcp.NewToolResultError("unauthorized"), nil
	}

	sql := request.GetString("sql", "")
	if sql == "" {
		return mcp.NewToolResultError("sql parameter is required"), nil
	}
	traceID := request.GetString("trace_id", "")
	if traceID == "" {
		traceID = uuid.NewString()
	}
	args := map[string]interface{}{"sql": sql}
	start := time.Now()

	q, err := d.DB.Query(ctx, sql)
	if err != nil {
		d.logToolCall(traceID, toolName, args, start, false)
		return mcp.NewToolResultError("query failed: " + api.GetErrorMessage(err)), nil
	}
	defer q.Close()

	text, err := render(q)
	if err != nil {
		d.logToolCall(traceID, toolName, args, start, false)
		if d.AuditLogger != nil {
			d.AuditLogger.LogError(traceID, "", toolName+" failed", err)
		}
		return mcp.NewToolResultError(toolName + " failed: " + api.GetErrorMessage(err)), nil
	}

	d.logToolCall(traceID, toolName, args, start, true)
	if d.AuditLogger != nil {
		count, _ := q.Metadata().ColumnCount()
		d.AuditLogger.LogQuery(traceID, "", sql, count, time.Since(start).Milliseconds(), true)
	}
	return mcp.NewToolResultText(text), nil
}

func (d *ToolDeps) logToolCall(traceID, toolName string, args map[string]interface{}, start time.Time, success bool) {
	duration := time.Since(start).Milliseconds()
	if d.Logger != nil {
		d.Logger.Debug("[MCP] %s trace=%s success=%t duration=%dms", toolName, traceID, success, duration)
	}
	if d.AuditLogger != nil {
		d.AuditLogger.LogMCPToolCall(traceID, "", toolName, args, duration, success)
	}
}
