// 抓取入口：登录态 Cookie 由配置提供，抓全量分页后写出课程文件。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/config"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/crawler"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/loader"
	applogger "github.com/mkbk-with-circle/PKU-Schedule-Planner/pkg/logger"
)

func main() {
	out := flag.String("out", "pku_courses.xlsx", "输出文件路径（.xlsx/.csv）")
	configPath := flag.String("config", "", "配置文件路径（需包含有效的 crawler.cookie）")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Crawler.Cookie == "" {
		logger.Fatal("未配置 crawler.cookie，无法访问门户")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rows, err := crawler.New(cfg.Crawler, logger).FetchAll(ctx)
	if err != nil {
		logger.Fatal("抓取失败", zap.Error(err))
	}

	if err := loader.WriteFile(*out, rows); err != nil {
		logger.Fatal("写出课程文件失败", zap.Error(err))
	}

	logger.Info("抓取完成",
		zap.Int("courses", len(rows)),
		zap.String("output", *out),
	)
}
