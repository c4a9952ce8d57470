package mcp

import (
	"context"
	"net/http"
	"strings"

	"github.com/kasuganosora/shardmeta/pkg/api"
	"github.com/kasuganosora/shardmeta/pkg/config"
	"github.com/kasuganosora/shardmeta/pkg/security"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "shardmeta"
	serverVersion = "1.0.0"
	endpointPath  = "/mcp"
)

// Server is the MCP protocol server
type Server struct {
	db          *api.DB
	cfg         *config.MCPConfig
	auditLogger *security.AuditLogger
	logger      api.Logger
	httpServer  *mcpserver.StreamableHTTPServer
}

// NewServer creates a new MCP server
func NewServer(db *api.DB, cfg *config.MCPConfig, auditLogger *security.AuditLogger, logger api.Logger) *Server {
	if logger == nil {
		logger = api.NewNoOpLogger()
	}
	return &Server{
		db:          db,
		cfg:         cfg,
		auditLogger: auditLogger,
		logger:      logger,
	}
}

// MCPServer builds the MCP server with every tool registered.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	deps := &ToolDeps{
		DB:          s.db,
		Token:       s.cfg.Token,
		AuditLogger: s.auditLogger,
		Logger:      s.logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		serverName,
		serverVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
	)

	describeTool := mcp.NewTool("describe_result",
		mcp.WithDescription("Run a SELECT and describe its result columns: label, physical column, actual table, logic table, logic column, case sensitivity and encryptor."),
		mcp.WithString("sql", mcp.Description("The SELECT statement to describe"), mcp.Required()),
		mcp.WithString("trace_id", mcp.Description("Optional trace ID for request tracing and audit logging")),
	)

	queryTool := mcp.NewTool("query",
		mcp.WithDescription("Run a SELECT and return its rows with encrypted columns decrypted."),
		mcp.WithString("sql", mcp.Description("The SELECT statement to execute"), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of rows to return (default 100)")),
		mcp.WithString("trace_id", mcp.Description("Optional trace ID for request tracing and audit logging")),
	)

	mcpSrv.AddTool(describeTool, deps.HandleDescribeResult)
	mcpSrv.AddTool(queryTool, deps.HandleQuery)
	return mcpSrv
}

// Start starts the MCP server over Streamable HTTP (blocking)
func (s *Server) Start() error {
	addr := (&config.Config{MCP: *s.cfg}).GetListenAddress()

	s.httpServer = mcpserver.NewStreamableHTTPServer(
		s.MCPServer(),
		mcpserver.WithEndpointPath(endpointPath),
		mcpserver.WithHTTPContextFunc(authContextFunc(s.cfg.Token)),
	)

	s.logger.Info("[MCP] 启动 MCP 服务器: %s%s", addr, endpointPath)
	return s.httpServer.Start(addr)
}

// Shutdown stops a server started with Start.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// authContextFunc marks requests carrying the configured bearer token as
// authorized. Without a configured token every request is authorized.
func authContextFunc(token string) mcpserver.HTTPContextFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		if token == "" {
			return withAuthorized(ctx)
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] != token {
			return ctx
		}
		return withAuthorized(ctx)
	}
}
