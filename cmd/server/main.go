package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mkbk-with-circle/PKU-Schedule-Planner/config"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/api/handler"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/api/router"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/course"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/loader"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/parser"
	"github.com/mkbk-with-circle/PKU-Schedule-Planner/internal/timetable"
	applogger "github.com/mkbk-with-circle/PKU-Schedule-Planner/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径（默认 ./config/config.yaml）")
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("course_file", cfg.Loader.Path),
	)

	// 3. 编译教室提取规则（为空时解析器用内置默认表）
	var rules []parser.RoomRule
	if len(cfg.Rooms.Rules) > 0 {
		rules, err = parser.CompileRoomRules(cfg.Rooms.Rules)
		if err != nil {
			logger.Fatal("教室提取规则编译失败", zap.Error(err))
		}
	}

	// 4. 加载课程数据（一次性，全程只读）
	rows, err := loader.ReadFile(cfg.Loader.Path, cfg.Loader.Sheet)
	if err != nil {
		logger.Fatal("读取课程文件失败", zap.Error(err))
	}

	builder := course.NewBuilder(parser.New(rules), logger)
	result := builder.Load(rows)

	// 5. 构建占用/冲突引擎
	engine := timetable.NewEngine(result, cfg.Term.Weeks, logger)

	// 6. 路由
	h := handler.New(result, engine, cfg.Term.CreditLimit, logger)
	api := router.Setup(h, logger)

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 8. 监听系统信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务器已关闭")
}
