package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"EuroAnalyzer/internal/api"
	"EuroAnalyzer/internal/app"
	"EuroAnalyzer/internal/config"
	"EuroAnalyzer/internal/database"
	"EuroAnalyzer/internal/web"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

func main() {
	// 1. 加载配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("加载配置文件失败: %v", err)
	}

	// 2. 初始化日志
	logger := app.NewLogger(cfg.Logging)
	logger.Info("配置文件加载成功")

	// 3. 连接数据库（PostgreSQL 库不存在则先创建）并迁移表结构
	db, err := database.Open(cfg.Database, logger)
	if err != nil {
		logger.Fatalf("连接数据库失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatalf("数据库表结构迁移失败: %v", err)
	}
	logger.Info("数据库表结构检查完成（不存在则已创建）")

	// 4. 组装服务与调度
	a := app.New(db, cfg, logger)
	if cfg.Sync.Enabled {
		if err := a.Scheduler.Start(); err != nil {
			logger.Fatalf("启动统计刷新调度失败: %v", err)
		}
		defer a.Scheduler.Stop()
	}
	if cfg.Sync.RefreshOnStart {
		go func() {
			if _, err := a.Scheduler.RunOnce(context.Background()); err != nil {
				logger.WithError(err).Error("启动刷新失败")
			}
		}()
	}

	// 5. 配置Gin运行模式并注册路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.Default()

	// 注册ppof 方便调试和监测性能问题
	pprof.Register(r)
	logger.Infof("Gin运行模式: %s", cfg.Server.Mode)

	api.RegisterRoutes(r, a)
	if err := web.Register(r, a); err != nil {
		logger.Fatalf("注册页面失败: %v", err)
	}

	// 6. 启动服务，收到信号后优雅退出
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.WithCORS(r, cfg.Server.AllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("服务启动成功，端口：%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("启动服务失败: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("收到退出信号，正在关闭服务…")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("服务关闭超时")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	logger.Info("服务已退出")
}
