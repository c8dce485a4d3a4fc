package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Result 一次刷新任务的结果
type Result struct {
	Feed      *service.ImportReport `json:"feed,omitempty"`
	Summary   *lottery.Summary      `json:"summary"`
	Fired     int                   `json:"alerts_fired"`
	StartedAt time.Time             `json:"started_at"`
	Elapsed   string                `json:"elapsed"`
}

// RefreshScheduler 定时执行：拉取开奖源（可选）→ 重算统计 → 评估提醒
type RefreshScheduler struct {
	cron     *cron.Cron
	cronExpr string
	feed     *service.FeedService
	stats    *service.StatisticsService
	alerts   *service.AlertService
	logger   *logrus.Logger
	mu       sync.Mutex // 同一时间只跑一个任务
}

// NewRefreshScheduler feed 为空时跳过拉取
func NewRefreshScheduler(
	feed *service.FeedService,
	stats *service.StatisticsService,
	alerts *service.AlertService,
	cronExpr string,
	logger *logrus.Logger,
) *RefreshScheduler {
	return &RefreshScheduler{
		cron:     cron.New(cron.WithSeconds()),
		cronExpr: cronExpr,
		feed:     feed,
		stats:    stats,
		alerts:   alerts,
		logger:   logger,
	}
}

func (s *RefreshScheduler) Start() error {
	_, err := s.cron.AddFunc(s.cronExpr, func() {
		if _, err := s.RunOnce(context.Background()); err != nil {
			s.logger.WithError(err).Error("定时刷新失败")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.WithField("cron", s.cronExpr).Info("统计刷新调度已启动")
	return nil
}

func (s *RefreshScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("统计刷新调度已停止")
}

// RunOnce 手动或定时触发的一次完整任务
func (s *RefreshScheduler) RunOnce(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := &Result{StartedAt: time.Now()}
	s.logger.Info("开始刷新统计")

	if s.feed != nil && s.feed.Enabled() {
		report, err := s.feed.Sync(ctx)
		switch {
		case err == nil:
			res.Feed = report
		case errors.Is(err, context.Canceled):
			return nil, err
		default:
			// 拉取失败不影响用已有数据重算
			s.logger.WithError(err).Warn("开奖源同步失败")
		}
	}

	snap, err := s.stats.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	summary := snap.Summary()
	res.Summary = &summary

	if s.alerts != nil {
		fired, err := s.alerts.Evaluate(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("提醒评估失败")
		}
		res.Fired = len(fired)
	}

	res.Elapsed = time.Since(res.StartedAt).String()
	s.logger.WithFields(logrus.Fields{
		"draws":   summary.TotalDraws,
		"alerts":  res.Fired,
		"elapsed": res.Elapsed,
	}).Info("统计刷新完成")
	return res, nil
}
