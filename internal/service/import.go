package service

import (
	"context"
	"fmt"
	"io"

	"EuroAnalyzer/internal/importer"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"

	"github.com/sirupsen/logrus"
)

// ImportReport 导入结果
type ImportReport struct {
	Imported   int                 `json:"imported"`
	Duplicates int                 `json:"duplicates"`
	Errors     []importer.RowError `json:"errors"`
	Refreshed  bool                `json:"refreshed"`
}

// ImportService 批量导入开奖
type ImportService struct {
	draws  repository.DrawRepository
	stats  *StatisticsService
	logger *logrus.Logger
}

// NewImportService 创建 ImportService
func NewImportService(draws repository.DrawRepository, stats *StatisticsService, logger *logrus.Logger) *ImportService {
	return &ImportService{draws: draws, stats: stats, logger: logger}
}

// ImportCSV 解析 CSV 并单事务入库；refresh 为真且有新数据时重算统计
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader, refresh bool) (*ImportReport, error) {
	batch, err := importer.ParseCSV(r)
	if err != nil {
		return nil, fmt.Errorf("解析CSV失败: %w", err)
	}
	return s.importBatch(ctx, batch, refresh)
}

// ImportLines 手工逐行录入（YYYY-MM-DD n1..n5 e1 e2），exit 结束
func (s *ImportService) ImportLines(ctx context.Context, r io.Reader, refresh bool) (*ImportReport, error) {
	batch, err := importer.ParseLines(r)
	if err != nil {
		return nil, fmt.Errorf("读取输入失败: %w", err)
	}
	return s.importBatch(ctx, batch, refresh)
}

func (s *ImportService) importBatch(ctx context.Context, batch *importer.Batch, refresh bool) (*ImportReport, error) {
	draws := make([]model.Draw, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		draws = append(draws, row.Draw)
	}
	inserted, duplicates, err := s.draws.InsertNew(ctx, draws)
	if err != nil {
		return nil, fmt.Errorf("导入开奖失败: %w", err)
	}

	report := &ImportReport{
		Imported:   len(inserted),
		Duplicates: duplicates,
		Errors:     batch.Errors,
	}
	if report.Errors == nil {
		report.Errors = []importer.RowError{}
	}
	for _, e := range batch.Errors {
		s.logger.WithFields(logrus.Fields{"row": e.Row, "reason": e.Reason}).Warn("跳过无效行")
	}
	s.logger.WithFields(logrus.Fields{
		"imported":   report.Imported,
		"duplicates": report.Duplicates,
		"errors":     len(report.Errors),
	}).Info("开奖导入完成")

	if refresh && report.Imported > 0 && s.stats != nil {
		if _, err := s.stats.Refresh(ctx); err != nil {
			return report, fmt.Errorf("导入后刷新统计失败: %w", err)
		}
		report.Refreshed = true
	}
	return report, nil
}
