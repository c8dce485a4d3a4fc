package lottery

import (
	"fmt"
	"sort"
	"strings"

	"EuroAnalyzer/internal/model"
)

const (
	DefaultSumWindow = 10
	trendThreshold   = 0.05
	topCombinations  = 20
)

// ConsecutiveAnalysis 连号分析
type ConsecutiveAnalysis struct {
	DrawsWithConsecutive int         `json:"draws_with_consecutive"`
	Percentage           float64     `json:"percentage"`
	PairsDistribution    map[int]int `json:"pairs_distribution"` // 每期连号对数 -> 期数
}

// CountConsecutivePairs 一组升序号码里相邻差 1 的对数
func CountConsecutivePairs(numbers []int) int {
	sorted := Sorted(numbers)
	pairs := 0
	for i := 1; i < len(sorted); i++ {
		if sorted[i]-sorted[i-1] == 1 {
			pairs++
		}
	}
	return pairs
}

// AnalyzeConsecutive 统计含连号的期数及分布
func AnalyzeConsecutive(draws []model.Draw) ConsecutiveAnalysis {
	res := ConsecutiveAnalysis{PairsDistribution: map[int]int{}}
	for _, d := range draws {
		pairs := CountConsecutivePairs(d.Numbers())
		res.PairsDistribution[pairs]++
		if pairs > 0 {
			res.DrawsWithConsecutive++
		}
	}
	if len(draws) > 0 {
		res.Percentage = round(float64(res.DrawsWithConsecutive)/float64(len(draws))*100, 2)
	}
	return res
}

// Combination 号码组合及出现次数
type Combination struct {
	Numbers []int `json:"numbers"`
	Count   int   `json:"count"`
}

// Sequences 长度为 length 的连续号码段（如 7-8-9）出现次数，取前 20
func Sequences(draws []model.Draw, length int) []Combination {
	if length < 2 {
		length = 2
	}
	counts := map[string]*Combination{}
	for _, d := range draws {
		nums := d.Numbers()
		for i := 0; i+length <= len(nums); i++ {
			run := nums[i : i+length]
			if run[length-1]-run[0] != length-1 {
				continue
			}
			addCombination(counts, run)
		}
	}
	return topOf(counts, topCombinations)
}

// FrequentCombinations 最常见的 size 元组合（2 为对子，3 为三连），取前 limit
func FrequentCombinations(draws []model.Draw, size, limit int) []Combination {
	counts := map[string]*Combination{}
	for _, d := range draws {
		for _, combo := range Combinations(d.Numbers(), size) {
			addCombination(counts, combo)
		}
	}
	return topOf(counts, limit)
}

func addCombination(counts map[string]*Combination, nums []int) {
	key := comboKey(nums)
	if c, ok := counts[key]; ok {
		c.Count++
		return
	}
	counts[key] = &Combination{Numbers: append([]int(nil), nums...), Count: 1}
}

func comboKey(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, "-")
}

// topOf 次数降序，同次数按号码字典序
func topOf(counts map[string]*Combination, limit int) []Combination {
	out := make([]Combination, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return lexLess(out[i].Numbers, out[j].Numbers)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func lexLess(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

// LabelCount 通用的标签计数
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DecadeAnalysis 十位段分布
type DecadeAnalysis struct {
	Buckets  []LabelCount `json:"buckets"`
	Patterns []LabelCount `json:"patterns"` // 每期各段个数，如 "1-1-1-1-1"
}

var decadeLabels = []string{"1-10", "11-20", "21-30", "31-40", "41-50"}

func decadeOf(n int) int {
	return (n - 1) / 10
}

// AnalyzeDecades 统计各段频次和最常见的段组合（前 10）
func AnalyzeDecades(draws []model.Draw) DecadeAnalysis {
	buckets := make([]int, len(decadeLabels))
	patterns := map[string]int{}
	for _, d := range draws {
		perDraw := make([]int, len(decadeLabels))
		for _, n := range d.Numbers() {
			buckets[decadeOf(n)]++
			perDraw[decadeOf(n)]++
		}
		patterns[comboKey(perDraw)]++
	}
	res := DecadeAnalysis{Buckets: make([]LabelCount, len(decadeLabels))}
	for i, label := range decadeLabels {
		res.Buckets[i] = LabelCount{Label: label, Count: buckets[i]}
	}
	res.Patterns = sortLabelCounts(patterns, 10)
	return res
}

func sortLabelCounts(m map[string]int, limit int) []LabelCount {
	out := make([]LabelCount, 0, len(m))
	for k, v := range m {
		out = append(out, LabelCount{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// LastDigitAnalysis 尾数分析
type LastDigitAnalysis struct {
	Digits                 [10]int `json:"digits"`
	DrawsWithRepeatedDigit int     `json:"draws_with_repeated_digit"`
}

// AnalyzeLastDigits 各尾数频次，以及同期出现相同尾数的期数
func AnalyzeLastDigits(draws []model.Draw) LastDigitAnalysis {
	var res LastDigitAnalysis
	for _, d := range draws {
		var seen [10]int
		repeated := false
		for _, n := range d.Numbers() {
			digit := n % 10
			res.Digits[digit]++
			seen[digit]++
			if seen[digit] > 1 {
				repeated = true
			}
		}
		if repeated {
			res.DrawsWithRepeatedDigit++
		}
	}
	return res
}

// SumTrend 和值走势
type SumTrend struct {
	Window        int       `json:"window"`
	Dates         []string  `json:"dates"`
	Sums          []int     `json:"sums"`
	MovingAverage []float64 `json:"moving_average"`
	RecentMean    float64   `json:"recent_mean"`
	PreviousMean  float64   `json:"previous_mean"`
	Trend         string    `json:"trend"` // rising/falling/stable
}

// AnalyzeSumTrend 最近 window 期的平均和值对比前一个 window
func AnalyzeSumTrend(draws []model.Draw, window int) SumTrend {
	if window <= 0 {
		window = DefaultSumWindow
	}
	sorted := SortDraws(draws)
	res := SumTrend{
		Window:        window,
		Dates:         make([]string, len(sorted)),
		Sums:          make([]int, len(sorted)),
		MovingAverage: make([]float64, len(sorted)),
		Trend:         "stable",
	}
	running := 0
	for i, d := range sorted {
		res.Dates[i] = d.DrawDate.Format("2006-01-02")
		res.Sums[i] = d.Sum()
		running += res.Sums[i]
		if i >= window {
			running -= res.Sums[i-window]
		}
		n := i + 1
		if n > window {
			n = window
		}
		res.MovingAverage[i] = round(float64(running)/float64(n), 2)
	}

	total := len(res.Sums)
	if total == 0 {
		return res
	}
	recentStart := total - window
	if recentStart < 0 {
		recentStart = 0
	}
	res.RecentMean = round(meanInts(res.Sums[recentStart:]), 2)
	if recentStart == 0 {
		res.PreviousMean = res.RecentMean
		return res
	}
	prevStart := recentStart - window
	if prevStart < 0 {
		prevStart = 0
	}
	res.PreviousMean = round(meanInts(res.Sums[prevStart:recentStart]), 2)
	if res.PreviousMean > 0 {
		diff := res.RecentMean - res.PreviousMean
		switch {
		case diff > res.PreviousMean*trendThreshold:
			res.Trend = "rising"
		case diff < -res.PreviousMean*trendThreshold:
			res.Trend = "falling"
		}
	}
	return res
}

func meanInts(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return float64(total) / float64(len(values))
}

// PatternReport 完整的形态分析
type PatternReport struct {
	TotalDraws  int                 `json:"total_draws"`
	Consecutive ConsecutiveAnalysis `json:"consecutive"`
	Sequences   []Combination       `json:"sequences"`
	Decades     DecadeAnalysis      `json:"decades"`
	LastDigits  LastDigitAnalysis   `json:"last_digits"`
	Pairs       []Combination       `json:"pairs"`
	Triplets    []Combination       `json:"triplets"`
	SumTrend    SumTrend            `json:"sum_trend"`
}

// AnalyzePatterns 汇总全部形态分析
func AnalyzePatterns(draws []model.Draw) PatternReport {
	sorted := SortDraws(draws)
	return PatternReport{
		TotalDraws:  len(sorted),
		Consecutive: AnalyzeConsecutive(sorted),
		Sequences:   Sequences(sorted, 2),
		Decades:     AnalyzeDecades(sorted),
		LastDigits:  AnalyzeLastDigits(sorted),
		Pairs:       FrequentCombinations(sorted, 2, topCombinations),
		Triplets:    FrequentCombinations(sorted, 3, topCombinations),
		SumTrend:    AnalyzeSumTrend(sorted, DefaultSumWindow),
	}
}
