package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"EuroAnalyzer/internal/config"
	"EuroAnalyzer/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

// ErrFeedDisabled 未配置 feed.url
var ErrFeedDisabled = errors.New("feed url not configured")

// maxFeedSize 远程 CSV 最大读取字节数
const maxFeedSize = 16 << 20

// FeedService 从远程 CSV 源拉取开奖并导入
type FeedService struct {
	cfg      *config.FeedConfig
	client   *http.Client
	importer *ImportService
	logger   *logrus.Logger
	backoff  time.Duration
}

// NewFeedService 创建 FeedService
func NewFeedService(cfg *config.FeedConfig, importer *ImportService, logger *logrus.Logger) *FeedService {
	return &FeedService{
		cfg:      cfg,
		client:   httpclient.NewHTTPClient(cfg, logger),
		importer: importer,
		logger:   logger,
		backoff:  2 * time.Second,
	}
}

// Enabled 是否配置了远程源
func (s *FeedService) Enabled() bool {
	return s.cfg.URL != ""
}

// Sync 下载并导入，失败按 retry_count 重试；不在此处刷新统计
func (s *FeedService) Sync(ctx context.Context) (*ImportReport, error) {
	if !s.Enabled() {
		return nil, ErrFeedDisabled
	}
	var body []byte
	var err error
	for attempt := 0; attempt <= s.cfg.RetryCount; attempt++ {
		if attempt > 0 {
			s.logger.WithError(err).WithField("attempt", attempt).Warn("拉取开奖源失败，准备重试")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.backoff * time.Duration(attempt)):
			}
		}
		body, err = s.fetch(ctx)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("拉取开奖源失败: %w", err)
	}

	report, err := s.importer.ImportCSV(ctx, bytes.NewReader(body), false)
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"url": s.cfg.URL, "imported": report.Imported}).Info("开奖源同步完成")
	return report, nil
}

func (s *FeedService) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
}
