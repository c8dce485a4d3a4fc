package lottery

import (
	"fmt"
	"math"
	"sort"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/model"
)

const (
	recentWindow      = 50
	hotNumberLast50   = 5
	hotStarLast50     = 8
	overdueGapFactor  = 1.5
	numberFreqCeiling = 0.15
	starFreqCeiling   = 0.25
	numberDelayScale  = 20.0 // 期望间隔 10 期 × 2
	starDelayScale    = 12.0 // 期望间隔 6 期 × 2
)

// Features 单个号码的特征
type Features struct {
	Value               int     `json:"value"`
	Frequency           int     `json:"frequency"`
	NormalizedFrequency float64 `json:"normalized_frequency"`
	Deviation           float64 `json:"deviation"`
	MeanGap             float64 `json:"mean_gap"` // 以期数计
	DrawsSinceLast      int     `json:"draws_since_last"`
	Trend               float64 `json:"trend"` // 最近 50 期频率 - 历史频率
	Last50              int     `json:"last_50"`
	Last100             int     `json:"last_100"`
	Hot                 bool    `json:"hot"`
	Overdue             bool    `json:"overdue"`
}

// Weights 打分权重（频率、趋势、遗漏）
type Weights struct {
	Frequency float64
	Trend     float64
	Delay     float64
}

// DefaultWeights 排行榜用的默认权重
var DefaultWeights = Weights{Frequency: 0.3, Trend: 0.3, Delay: 0.4}

// Scorer 基于历史开奖的启发式打分器，不是训练模型
type Scorer struct {
	total   int
	numbers []Features
	stars   []Features
}

// NewScorer 计算全部号码和星号的特征
func NewScorer(draws []model.Draw) *Scorer {
	sorted := SortDraws(draws)
	return &Scorer{
		total:   len(sorted),
		numbers: computeFeatures(sorted, NumberMax, NumbersPerDraw, hotNumberLast50, model.Draw.HasNumber),
		stars:   computeFeatures(sorted, StarMax, StarsPerDraw, hotStarLast50, model.Draw.HasStar),
	}
}

func computeFeatures(draws []model.Draw, max, picks, hotThreshold int, has func(model.Draw, int) bool) []Features {
	total := len(draws)
	expected := float64(total*picks) / float64(max)
	out := make([]Features, max)
	for v := 1; v <= max; v++ {
		f := Features{Value: v}
		var appearances []int
		for i, d := range draws {
			if !has(d, v) {
				continue
			}
			appearances = append(appearances, i)
			if i >= total-recentWindow {
				f.Last50++
			}
			if i >= total-2*recentWindow {
				f.Last100++
			}
		}
		f.Frequency = len(appearances)
		if total > 0 {
			f.NormalizedFrequency = float64(f.Frequency) / float64(total)
		}
		if expected > 0 {
			f.Deviation = (float64(f.Frequency) - expected) / expected
		}
		if len(appearances) > 1 {
			f.MeanGap = float64(appearances[len(appearances)-1]-appearances[0]) / float64(len(appearances)-1)
		}
		if len(appearances) > 0 {
			f.DrawsSinceLast = total - 1 - appearances[len(appearances)-1]
		} else {
			f.DrawsSinceLast = total
		}
		recent := f.NormalizedFrequency
		if total >= recentWindow {
			recent = float64(f.Last50) / recentWindow
		}
		f.Trend = recent - f.NormalizedFrequency
		f.Hot = f.Last50 >= hotThreshold
		f.Overdue = f.MeanGap > 0 && float64(f.DrawsSinceLast) > f.MeanGap*overdueGapFactor
		out[v-1] = f
	}
	return out
}

// TotalDraws 参与计算的期数
func (s *Scorer) TotalDraws() int { return s.total }

// NumberFeatures 主号特征，n 越界返回零值
func (s *Scorer) NumberFeatures(n int) Features {
	if n < NumberMin || n > NumberMax {
		return Features{Value: n}
	}
	return s.numbers[n-1]
}

// StarFeatures 星号特征
func (s *Scorer) StarFeatures(e int) Features {
	if e < StarMin || e > StarMax {
		return Features{Value: e}
	}
	return s.stars[e-1]
}

func (s *Scorer) numberComponents(n int) (freq, trend, delay float64) {
	f := s.NumberFeatures(n)
	freq = math.Min(f.NormalizedFrequency/numberFreqCeiling, 1)
	trend = clamp01(0.5 + 5*f.Trend)
	delay = math.Min(float64(f.DrawsSinceLast)/numberDelayScale, 1)
	return freq, trend, delay
}

// NumberScore 加权得分，保留 4 位小数
func (s *Scorer) NumberScore(n int, w Weights) float64 {
	freq, trend, delay := s.numberComponents(n)
	return round(w.Frequency*freq+w.Trend*trend+w.Delay*delay, 4)
}

// ColdNumberScore 频率分取反，偏向出现少的号码
func (s *Scorer) ColdNumberScore(n int, w Weights) float64 {
	freq, trend, delay := s.numberComponents(n)
	return round(w.Frequency*(1-freq)+w.Trend*trend+w.Delay*delay, 4)
}

func (s *Scorer) starComponents(e int) (freq, delay float64) {
	f := s.StarFeatures(e)
	freq = math.Min(f.NormalizedFrequency/starFreqCeiling, 1)
	delay = math.Min(float64(f.DrawsSinceLast)/starDelayScale, 1)
	return freq, delay
}

// StarScore 0.5 × 频率分 + 0.5 × 遗漏分
func (s *Scorer) StarScore(e int) float64 {
	freq, delay := s.starComponents(e)
	return round(0.5*freq+0.5*delay, 4)
}

// ColdStarScore 频率分取反
func (s *Scorer) ColdStarScore(e int) float64 {
	freq, delay := s.starComponents(e)
	return round(0.5*(1-freq)+0.5*delay, 4)
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// RankedValue 排行榜条目
type RankedValue struct {
	Value          int     `json:"value"`
	Score          float64 `json:"score"`
	Frequency      int     `json:"frequency"`
	DrawsSinceLast int     `json:"draws_since_last"`
	Trend          float64 `json:"trend"`
	Hot            bool    `json:"hot"`
	Overdue        bool    `json:"overdue"`
}

// RankNumbers 50 个主号按默认权重得分降序，同分按号码
func (s *Scorer) RankNumbers() []RankedValue {
	out := make([]RankedValue, 0, NumberMax)
	for n := NumberMin; n <= NumberMax; n++ {
		f := s.NumberFeatures(n)
		out = append(out, RankedValue{
			Value: n, Score: s.NumberScore(n, DefaultWeights), Frequency: f.Frequency,
			DrawsSinceLast: f.DrawsSinceLast, Trend: round(f.Trend, 4), Hot: f.Hot, Overdue: f.Overdue,
		})
	}
	sortRanked(out)
	return out
}

// RankStars 12 个星号按得分降序
func (s *Scorer) RankStars() []RankedValue {
	out := make([]RankedValue, 0, StarMax)
	for e := StarMin; e <= StarMax; e++ {
		f := s.StarFeatures(e)
		out = append(out, RankedValue{
			Value: e, Score: s.StarScore(e), Frequency: f.Frequency,
			DrawsSinceLast: f.DrawsSinceLast, Trend: round(f.Trend, 4), Hot: f.Hot, Overdue: f.Overdue,
		})
	}
	sortRanked(out)
	return out
}

func sortRanked(values []RankedValue) {
	sort.SliceStable(values, func(i, j int) bool {
		if values[i].Score != values[j].Score {
			return values[i].Score > values[j].Score
		}
		return values[i].Value < values[j].Value
	})
}

// PrecisionReport 回测结果
type PrecisionReport struct {
	Window           int         `json:"window"`
	DrawsAnalyzed    int         `json:"draws_analyzed"`
	MeanHitsTop5     float64     `json:"mean_hits_top5"`
	MeanHitsTop10    float64     `json:"mean_hits_top10"`
	ChanceTop5       float64     `json:"chance_top5"`
	ChanceTop10      float64     `json:"chance_top10"`
	ImprovementTop5  float64     `json:"improvement_top5"`  // 相对随机基线的百分比
	ImprovementTop10 float64     `json:"improvement_top10"` // 同上
	HitsDistribution map[int]int `json:"hits_distribution"` // top5 命中数 -> 期数
}

// Backtest 对最近 window 期逐期回测：用此前 50 期的频率取前 5/前 10 号码，统计命中
func Backtest(draws []model.Draw, window int) (*PrecisionReport, error) {
	if window <= 0 {
		window = 100
	}
	sorted := SortDraws(draws)
	if len(sorted) < window+10 {
		return nil, apperr.New(apperr.CodeNoDraws,
			fmt.Sprintf("not enough draws for backtest: need %d, have %d", window+10, len(sorted)), nil)
	}

	report := &PrecisionReport{Window: window, ChanceTop5: 0.5, ChanceTop10: 1.0, HitsDistribution: map[int]int{}}
	hits5, hits10 := 0, 0
	for i := len(sorted) - window; i < len(sorted); i++ {
		if i < recentWindow {
			continue
		}
		var counts [NumberMax + 1]int
		for _, d := range sorted[i-recentWindow : i] {
			for _, n := range d.Numbers() {
				counts[n]++
			}
		}
		ranked := make([]int, 0, NumberMax)
		for n := NumberMin; n <= NumberMax; n++ {
			ranked = append(ranked, n)
		}
		sort.SliceStable(ranked, func(a, b int) bool { return counts[ranked[a]] > counts[ranked[b]] })

		actual := sorted[i]
		h5, h10 := 0, 0
		for rank, n := range ranked[:10] {
			if actual.HasNumber(n) {
				h10++
				if rank < 5 {
					h5++
				}
			}
		}
		hits5 += h5
		hits10 += h10
		report.HitsDistribution[h5]++
		report.DrawsAnalyzed++
	}
	if report.DrawsAnalyzed == 0 {
		return nil, apperr.New(apperr.CodeNoDraws, "not enough draws for backtest", nil)
	}
	mean5 := float64(hits5) / float64(report.DrawsAnalyzed)
	mean10 := float64(hits10) / float64(report.DrawsAnalyzed)
	report.MeanHitsTop5 = round(mean5, 2)
	report.MeanHitsTop10 = round(mean10, 2)
	if mean5 > 0 {
		report.ImprovementTop5 = round((mean5/report.ChanceTop5-1)*100, 1)
	}
	if mean10 > 0 {
		report.ImprovementTop10 = round((mean10/report.ChanceTop10-1)*100, 1)
	}
	return report, nil
}
