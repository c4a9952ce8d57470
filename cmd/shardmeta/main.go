package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/kasuganosora/shardmeta/pkg/api"
	"github.com/kasuganosora/shardmeta/pkg/config"
	"github.com/kasuganosora/shardmeta/pkg/security"
	mcpserver "github.com/kasuganosora/shardmeta/server/mcp"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径 (yaml/json)，为空时按默认位置查找")
	query := flag.String("query", "", "要执行的 SELECT 语句")
	asJSON := flag.Bool("json", false, "以 JSON 输出列描述")
	flag.Parse()

	// 加载配置
	var cfg *config.Config
	if *configPath == "" {
		cfg = config.LoadConfigOrDefault()
	} else {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
			os.Exit(1)
		}
	}

	logger := api.NewZapLoggerFromConfig(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := api.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("打开数据源失败: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if *query != "" {
		if err := runQuery(ctx, db, *query, *asJSON, os.Stdout); err != nil {
			logger.Error("查询失败: %v", err)
			os.Exit(1)
		}
	}

	if !cfg.MCP.Enabled {
		return
	}

	auditLogger := security.NewAuditLogger(10000)
	srv := mcpserver.NewServer(db, &cfg.MCP, auditLogger, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("MCP 服务器退出: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("MCP 服务器关闭失败: %v", err)
	}
	logger.Info("服务器停止")
}

// runQuery 执行查询，输出列描述和解密后的行
func runQuery(ctx context.Context, db *api.DB, sql string, asJSON bool, out io.Writer) error {
	q, err := db.Query(ctx, sql)
	if err != nil {
		return err
	}
	defer q.Close()

	descriptions, err := q.Describe()
	if err != nil {
		return err
	}

	if asJSON {
		rows := make([][]interface{}, 0)
		for q.Next() {
			rows = append(rows, q.Row())
		}
		if err := q.Err(); err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{
			"id":      q.ID(),
			"columns": descriptions,
			"rows":    rows,
		})
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tLABEL\tCOLUMN\tTABLE\tLOGIC TABLE\tLOGIC COLUMN\tCASE SENSITIVE\tENCRYPTOR")
	for _, c := range descriptions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%t\t%s\n",
			c.Index, c.Label, c.Column, c.Table, c.LogicTable, c.LogicColumn, c.CaseSensitive, c.Encryptor)
	}
	fmt.Fprintln(w)

	for i, c := range descriptions {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, c.LogicColumn)
	}
	fmt.Fprintln(w)

	count := 0
	for q.Next() {
		for i, v := range q.Row() {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			if v == nil {
				fmt.Fprint(w, "NULL")
			} else {
				fmt.Fprintf(w, "%v", v)
			}
		}
		fmt.Fprintln(w)
		count++
	}
	if err := q.Err(); err != nil {
		return err
	}
	fmt.Fprintf(w, "(%d rows)\n", count)
	return w.Flush()
}
