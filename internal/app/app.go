// Package app 组装仓储、服务和调度器，供 HTTP 服务与命令行工具共用
package app

import (
	"EuroAnalyzer/internal/config"
	"EuroAnalyzer/internal/repository"
	"EuroAnalyzer/internal/scheduler"
	"EuroAnalyzer/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App 全部服务实例
type App struct {
	Config *config.Config
	Logger *logrus.Logger
	DB     *gorm.DB

	Draws       *service.DrawService
	Statistics  *service.StatisticsService
	Analysis    *service.AnalysisService
	Predictions *service.PredictionService
	Bets        *service.BetService
	Imports     *service.ImportService
	Feed        *service.FeedService
	Auth        *service.AuthService
	Alerts      *service.AlertService
	Scheduler   *scheduler.RefreshScheduler
}

// New 按配置组装
func New(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *App {
	drawRepo := repository.NewDrawRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	betRepo := repository.NewBetRepository(db)
	userRepo := repository.NewUserRepository(db)

	a := &App{Config: cfg, Logger: logger, DB: db}
	a.Draws = service.NewDrawService(drawRepo, logger)
	a.Statistics = service.NewStatisticsService(drawRepo, statsRepo, logger)
	a.Analysis = service.NewAnalysisService(drawRepo, a.Statistics, logger)
	a.Predictions = service.NewPredictionService(drawRepo, service.NewRandSource(0), logger)
	a.Bets = service.NewBetService(drawRepo, betRepo, service.NewRandSource(0), logger)
	a.Imports = service.NewImportService(drawRepo, a.Statistics, logger)
	a.Feed = service.NewFeedService(&cfg.Feed, a.Imports, logger)
	a.Auth = service.NewAuthService(userRepo, cfg.Auth.BcryptCost, logger)
	a.Alerts = service.NewAlertService(userRepo, drawRepo, a.Statistics, logger)

	feed := a.Feed
	if !cfg.Sync.FetchFeed {
		feed = nil
	}
	a.Scheduler = scheduler.NewRefreshScheduler(feed, a.Statistics, a.Alerts, cfg.Sync.Cron, logger)
	return a
}

// NewLogger 按配置创建 logrus 实例，级别非法时用 info
func NewLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
