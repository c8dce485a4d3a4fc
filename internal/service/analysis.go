package service

import (
	"context"
	"fmt"
	"sort"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"

	"github.com/sirupsen/logrus"
)

// AnalysisService 模式分析与图表数据，全部基于开奖全集现算
type AnalysisService struct {
	draws  repository.DrawRepository
	stats  *StatisticsService
	logger *logrus.Logger
}

// NewAnalysisService 创建 AnalysisService
func NewAnalysisService(draws repository.DrawRepository, stats *StatisticsService, logger *logrus.Logger) *AnalysisService {
	return &AnalysisService{draws: draws, stats: stats, logger: logger}
}

func (s *AnalysisService) loadAll(ctx context.Context) ([]model.Draw, error) {
	draws, err := s.draws.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载开奖失败: %w", err)
	}
	return draws, nil
}

func validNumber(number int) error {
	if number < lottery.NumberMin || number > lottery.NumberMax {
		return apperr.InvalidPayload("number must be between %d and %d", lottery.NumberMin, lottery.NumberMax)
	}
	return nil
}

// Patterns 完整模式分析
func (s *AnalysisService) Patterns(ctx context.Context) (*lottery.PatternReport, error) {
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	report := lottery.AnalyzePatterns(draws)
	return &report, nil
}

// Sequences 长度为 length 的最常见连号，length 取 2..5
func (s *AnalysisService) Sequences(ctx context.Context, length int) ([]lottery.Combination, error) {
	if length == 0 {
		length = 2
	}
	if length < 2 || length > lottery.NumbersPerDraw {
		return nil, apperr.InvalidPayload("length must be between 2 and %d", lottery.NumbersPerDraw)
	}
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return lottery.Sequences(draws, length), nil
}

// SumTrend 和值走势，window<=0 时取默认 10
func (s *AnalysisService) SumTrend(ctx context.Context, window int) (*lottery.SumTrend, error) {
	if window < 0 || window > 500 {
		return nil, apperr.InvalidPayload("window must be between 1 and 500")
	}
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	trend := lottery.AnalyzeSumTrend(draws, window)
	return &trend, nil
}

// FrequencyChart 主号或星号频率柱状图
func (s *AnalysisService) FrequencyChart(ctx context.Context, stars bool) (*lottery.FrequencySeries, error) {
	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	values := snap.Numbers
	if stars {
		values = snap.Stars
	}
	series := lottery.BuildFrequencySeries(values)
	return &series, nil
}

// Evolution 单个号码累计出现曲线
func (s *AnalysisService) Evolution(ctx context.Context, number int) (*lottery.EvolutionSeries, error) {
	if err := validNumber(number); err != nil {
		return nil, err
	}
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	series := lottery.CumulativeEvolution(draws, number)
	return &series, nil
}

// YearlyEvolution 单个号码按年出现比例
func (s *AnalysisService) YearlyEvolution(ctx context.Context, number int) ([]lottery.YearPoint, error) {
	if err := validNumber(number); err != nil {
		return nil, err
	}
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return lottery.YearlyEvolution(draws, number), nil
}

// Heatmap 月度热力图
func (s *AnalysisService) Heatmap(ctx context.Context) (*lottery.Heatmap, error) {
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	h := lottery.MonthlyHeatmap(draws)
	return &h, nil
}

// Correlation 50×50 共现矩阵
func (s *AnalysisService) Correlation(ctx context.Context) (*lottery.Correlation, error) {
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	c := lottery.CorrelationMatrix(draws)
	return &c, nil
}

// Weekday 按星期分析
func (s *AnalysisService) Weekday(ctx context.Context) ([]lottery.WeekdayStat, error) {
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return lottery.WeekdayAnalysis(draws), nil
}

// Jackpot 头奖金额走势
func (s *AnalysisService) Jackpot(ctx context.Context) (*lottery.JackpotSeries, error) {
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	j := lottery.JackpotEvolution(draws)
	return &j, nil
}

// Companion 与某号码同期出现的号码及次数
type Companion struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// NumberDetail 号码详情页数据
type NumberDetail struct {
	Statistic   lottery.ValueStat       `json:"statistic"`
	Yearly      []lottery.YearPoint     `json:"yearly"`
	Cumulative  lottery.EvolutionSeries `json:"cumulative"`
	RecentDraws []model.Draw            `json:"recent_draws"` // 最近 10 次出现，最新在前
	Companions  []Companion             `json:"companions"`   // 同期出现最多的 10 个号码
}

// NumberDetail 汇总某个主号的统计、走势和同期号码
func (s *AnalysisService) NumberDetail(ctx context.Context, number int) (*NumberDetail, error) {
	if err := validNumber(number); err != nil {
		return nil, err
	}
	stat, err := s.stats.Number(ctx, number)
	if err != nil {
		return nil, err
	}
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	sorted := lottery.SortDraws(draws)

	detail := &NumberDetail{
		Statistic:  *stat,
		Yearly:     lottery.YearlyEvolution(sorted, number),
		Cumulative: lottery.CumulativeEvolution(sorted, number),
	}
	counts := make(map[int]int)
	for i := len(sorted) - 1; i >= 0; i-- {
		d := sorted[i]
		if !d.HasNumber(number) {
			continue
		}
		if len(detail.RecentDraws) < 10 {
			detail.RecentDraws = append(detail.RecentDraws, d)
		}
		for _, n := range d.Numbers() {
			if n != number {
				counts[n]++
			}
		}
	}
	for n, c := range counts {
		detail.Companions = append(detail.Companions, Companion{Number: n, Count: c})
	}
	sort.Slice(detail.Companions, func(i, j int) bool {
		a, b := detail.Companions[i], detail.Companions[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Number < b.Number
	})
	if len(detail.Companions) > 10 {
		detail.Companions = detail.Companions[:10]
	}
	return detail, nil
}
