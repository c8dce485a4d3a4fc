package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StatisticsService 统计快照的刷新与查询
type StatisticsService struct {
	draws  repository.DrawRepository
	stats  repository.StatisticsRepository
	logger *logrus.Logger
	mu     sync.Mutex // 串行化刷新
}

// NewStatisticsService 创建 StatisticsService
func NewStatisticsService(draws repository.DrawRepository, stats repository.StatisticsRepository, logger *logrus.Logger) *StatisticsService {
	return &StatisticsService{draws: draws, stats: stats, logger: logger}
}

// Refresh 全量重算并整表替换快照
func (s *StatisticsService) Refresh(ctx context.Context) (*lottery.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	draws, err := s.draws.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载开奖失败: %w", err)
	}
	snap := lottery.Aggregate(draws)

	numbers := make([]model.NumberStatistic, 0, len(snap.Numbers))
	for _, v := range snap.Numbers {
		numbers = append(numbers, model.NumberStatistic{Number: v.Value, StatisticMetrics: v.StatisticMetrics})
	}
	stars := make([]model.StarStatistic, 0, len(snap.Stars))
	for _, v := range snap.Stars {
		stars = append(stars, model.StarStatistic{Star: v.Value, StatisticMetrics: v.StatisticMetrics})
	}
	meta := model.SnapshotMeta{
		TotalDraws:  snap.TotalDraws,
		FirstDate:   snap.FirstDate,
		LastDate:    snap.LastDate,
		RefreshedAt: time.Now().UTC(),
	}
	if err := s.stats.ReplaceSnapshot(ctx, meta, numbers, stars); err != nil {
		return nil, fmt.Errorf("写入统计快照失败: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"draws":   snap.TotalDraws,
		"elapsed": time.Since(start).String(),
	}).Info("统计快照刷新完成")
	return snap, nil
}

// Snapshot 读取已存快照，期数和日期范围取自重算时的元数据；
// 尚未刷新过或快照不完整时按全部开奖现算
func (s *StatisticsService) Snapshot(ctx context.Context) (*lottery.Snapshot, error) {
	meta, err := s.stats.GetMeta(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.Aggregate(ctx, nil, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("查询快照元数据失败: %w", err)
	}
	numbers, err := s.stats.ListNumbers(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("查询号码统计失败: %w", err)
	}
	stars, err := s.stats.ListStars(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("查询星号统计失败: %w", err)
	}
	if len(numbers) != lottery.NumberMax || len(stars) != lottery.StarMax {
		s.logger.WithFields(logrus.Fields{"numbers": len(numbers), "stars": len(stars)}).Warn("统计快照不完整，改为现算")
		return s.Aggregate(ctx, nil, nil)
	}

	snap := &lottery.Snapshot{
		TotalDraws: meta.TotalDraws,
		FirstDate:  meta.FirstDate,
		LastDate:   meta.LastDate,
		Numbers:    make([]lottery.ValueStat, 0, len(numbers)),
		Stars:      make([]lottery.ValueStat, 0, len(stars)),
	}
	for _, n := range numbers {
		snap.Numbers = append(snap.Numbers, valueStat(n.Number, n.StatisticMetrics))
	}
	for _, st := range stars {
		snap.Stars = append(snap.Stars, valueStat(st.Star, st.StatisticMetrics))
	}
	return snap, nil
}

func valueStat(value int, m model.StatisticMetrics) lottery.ValueStat {
	return lottery.ValueStat{Value: value, StatisticMetrics: m, Status: m.Status()}
}

// Aggregate 按 [from, to] 现算，不落库
func (s *StatisticsService) Aggregate(ctx context.Context, from, to *time.Time) (*lottery.Snapshot, error) {
	draws, err := s.draws.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("加载开奖失败: %w", err)
	}
	return lottery.Aggregate(draws), nil
}

// Summary 概览
func (s *StatisticsService) Summary(ctx context.Context) (*lottery.Summary, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	summary := snap.Summary()
	total, err := s.draws.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计开奖期数失败: %w", err)
	}
	if pending := int(total) - snap.TotalDraws; pending > 0 {
		summary.PendingDraws = pending
	}
	return &summary, nil
}

// StatQuery 号码/星号列表查询条件
type StatQuery struct {
	Order string // frequency, -frequency, draws_since_last, -draws_since_last, deviation, -deviation
	From  *time.Time
	To    *time.Time
}

// Numbers 主号统计；带日期区间时现算
func (s *StatisticsService) Numbers(ctx context.Context, q StatQuery) ([]lottery.ValueStat, error) {
	snap, err := s.querySnapshot(ctx, q)
	if err != nil {
		return nil, err
	}
	return orderStats(snap.Numbers, q.Order), nil
}

// Stars 星号统计
func (s *StatisticsService) Stars(ctx context.Context, q StatQuery) ([]lottery.ValueStat, error) {
	snap, err := s.querySnapshot(ctx, q)
	if err != nil {
		return nil, err
	}
	return orderStats(snap.Stars, q.Order), nil
}

func (s *StatisticsService) querySnapshot(ctx context.Context, q StatQuery) (*lottery.Snapshot, error) {
	if q.From != nil && q.To != nil && q.From.After(*q.To) {
		return nil, apperr.InvalidPayload("from must not be after to")
	}
	if q.From != nil || q.To != nil {
		return s.Aggregate(ctx, q.From, q.To)
	}
	return s.Snapshot(ctx)
}

// orderStats 与仓储层排序键一致，"-" 前缀降序，同值按号码升序
func orderStats(stats []lottery.ValueStat, order string) []lottery.ValueStat {
	out := append([]lottery.ValueStat(nil), stats...)
	key := func(v lottery.ValueStat) float64 {
		switch order {
		case "frequency":
			return float64(v.Frequency)
		case "-frequency":
			return -float64(v.Frequency)
		case "draws_since_last":
			return float64(v.DrawsSinceLast)
		case "-draws_since_last":
			return -float64(v.DrawsSinceLast)
		case "deviation":
			return v.Deviation
		case "-deviation":
			return -v.Deviation
		}
		return 0
	}
	sort.SliceStable(out, func(i, j int) bool {
		if ki, kj := key(out[i]), key(out[j]); ki != kj {
			return ki < kj
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// Number 单个主号统计
func (s *StatisticsService) Number(ctx context.Context, number int) (*lottery.ValueStat, error) {
	if number < lottery.NumberMin || number > lottery.NumberMax {
		return nil, apperr.InvalidPayload("number must be between %d and %d", lottery.NumberMin, lottery.NumberMax)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := snap.NumberStat(number)
	if !ok {
		return nil, apperr.NotFound("number statistic")
	}
	return &v, nil
}

// Star 单个星号统计
func (s *StatisticsService) Star(ctx context.Context, star int) (*lottery.ValueStat, error) {
	if star < lottery.StarMin || star > lottery.StarMax {
		return nil, apperr.InvalidPayload("star must be between %d and %d", lottery.StarMin, lottery.StarMax)
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := snap.StarStat(star)
	if !ok {
		return nil, apperr.NotFound("star statistic")
	}
	return &v, nil
}

// RankedNumbers hot/cold/overdue 主号排行
func (s *StatisticsService) RankedNumbers(ctx context.Context, kind string, limit int) ([]lottery.ValueStat, error) {
	k, limit, err := rankArgs(kind, limit, 10)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return lottery.Rank(snap.Numbers, k, limit), nil
}

// RankedStars hot/cold/overdue 星号排行
func (s *StatisticsService) RankedStars(ctx context.Context, kind string, limit int) ([]lottery.ValueStat, error) {
	k, limit, err := rankArgs(kind, limit, 5)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return lottery.Rank(snap.Stars, k, limit), nil
}

func rankArgs(kind string, limit, def int) (lottery.RankKind, int, error) {
	k, ok := lottery.ParseRankKind(kind)
	if !ok {
		return "", 0, apperr.InvalidPayload("unknown ranking %q", kind)
	}
	if limit <= 0 {
		limit = def
	}
	return k, limit, nil
}

// Distribution 奇偶、大小、和值分布
func (s *StatisticsService) Distribution(ctx context.Context, from, to *time.Time) (*lottery.Distribution, error) {
	draws, err := s.draws.ListBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("加载开奖失败: %w", err)
	}
	d := lottery.AnalyzeDistribution(draws)
	return &d, nil
}
