package lottery

import (
	"math"
	"sort"
	"time"

	"EuroAnalyzer/internal/model"
)

// ValueStat 单个主号或星号的统计结果
type ValueStat struct {
	Value int `json:"value"`
	model.StatisticMetrics
	Status string `json:"status"`
}

// Snapshot 一次全量聚合的结果
type Snapshot struct {
	TotalDraws int         `json:"total_draws"`
	FirstDate  *time.Time  `json:"first_date"`
	LastDate   *time.Time  `json:"last_date"`
	Numbers    []ValueStat `json:"numbers"` // 下标 = 号码-1
	Stars      []ValueStat `json:"stars"`
}

// Aggregate 对开奖集合做全量统计，结果与输入顺序无关
func Aggregate(draws []model.Draw) *Snapshot {
	sorted := SortDraws(draws)
	snap := &Snapshot{TotalDraws: len(sorted)}
	if len(sorted) > 0 {
		first := sorted[0].DrawDate
		last := sorted[len(sorted)-1].DrawDate
		snap.FirstDate, snap.LastDate = &first, &last
	}
	snap.Numbers = aggregateValues(sorted, NumberMax, NumbersPerDraw, model.Draw.HasNumber)
	snap.Stars = aggregateValues(sorted, StarMax, StarsPerDraw, model.Draw.HasStar)
	return snap
}

func aggregateValues(draws []model.Draw, max, picks int, has func(model.Draw, int) bool) []ValueStat {
	total := len(draws)
	expected := float64(total*picks) / float64(max)
	stats := make([]ValueStat, max)

	var first, latest time.Time
	if total > 0 {
		first, latest = draws[0].DrawDate, draws[total-1].DrawDate
	}

	for v := 1; v <= max; v++ {
		st := ValueStat{Value: v}
		lastIdx := -1
		var prev time.Time
		gapSum, gapCount := 0, 0
		for i, d := range draws {
			if !has(d, v) {
				continue
			}
			st.Frequency++
			if lastIdx >= 0 {
				gap := daysBetween(prev, d.DrawDate)
				gapSum += gap
				gapCount++
				if gap > st.MaxGap {
					st.MaxGap = gap
				}
			}
			lastIdx, prev = i, d.DrawDate
		}

		if total > 0 {
			st.Percentage = round(float64(st.Frequency)/float64(total*picks)*100, 2)
		}
		if expected > 0 {
			st.Deviation = round((float64(st.Frequency)-expected)/expected, 4)
		}
		if gapCount > 0 {
			st.MeanGap = round(float64(gapSum)/float64(gapCount), 2)
		}
		if lastIdx >= 0 {
			seen := draws[lastIdx].DrawDate
			id := draws[lastIdx].ID
			st.LastSeenDate = &seen
			st.LastSeenDrawID = &id
			st.DrawsSinceLast = total - 1 - lastIdx
			st.DaysSinceLast = daysBetween(seen, latest)
		} else {
			st.DrawsSinceLast = total
			if total > 0 {
				st.DaysSinceLast = daysBetween(first, latest)
			}
		}
		st.Status = st.StatisticMetrics.Status()
		stats[v-1] = st
	}
	return stats
}

// NumberStat 按号码取统计，快照中没有该号码时返回 false
func (s *Snapshot) NumberStat(number int) (ValueStat, bool) { return statOf(s.Numbers, number) }

// StarStat 按星号取统计
func (s *Snapshot) StarStat(star int) (ValueStat, bool) { return statOf(s.Stars, star) }

func statOf(stats []ValueStat, value int) (ValueStat, bool) {
	if value >= 1 && value <= len(stats) && stats[value-1].Value == value {
		return stats[value-1], true
	}
	for _, st := range stats {
		if st.Value == value {
			return st, true
		}
	}
	return ValueStat{}, false
}

// RankKind 排行类型
type RankKind string

const (
	RankHot     RankKind = "hot"
	RankCold    RankKind = "cold"
	RankOverdue RankKind = "overdue"
)

// ParseRankKind 解析排行类型
func ParseRankKind(s string) (RankKind, bool) {
	switch RankKind(s) {
	case RankHot, RankCold, RankOverdue:
		return RankKind(s), true
	}
	return "", false
}

// Rank 按类型排序取前 limit 个，同分按号码升序；limit<=0 返回全部
func Rank(stats []ValueStat, kind RankKind, limit int) []ValueStat {
	out := append([]ValueStat(nil), stats...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch kind {
		case RankCold:
			if a.Frequency != b.Frequency {
				return a.Frequency < b.Frequency
			}
		case RankOverdue:
			if a.DrawsSinceLast != b.DrawsSinceLast {
				return a.DrawsSinceLast > b.DrawsSinceLast
			}
		default:
			if a.Frequency != b.Frequency {
				return a.Frequency > b.Frequency
			}
		}
		return a.Value < b.Value
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// Values 提取号码
func Values(stats []ValueStat) []int {
	out := make([]int, len(stats))
	for i, s := range stats {
		out[i] = s.Value
	}
	return out
}

// Summary 概览
type Summary struct {
	TotalDraws     int        `json:"total_draws"`
	FirstDraw      *time.Time `json:"first_draw"`
	LastDraw       *time.Time `json:"last_draw"`
	HotNumbers     []int      `json:"hot_numbers"`
	ColdNumbers    []int      `json:"cold_numbers"`
	OverdueNumbers []int      `json:"overdue_numbers"`
	HotStars       []int      `json:"hot_stars"`
	ColdStars      []int      `json:"cold_stars"`
	PendingDraws   int        `json:"pending_draws"` // 已入库但尚未计入快照的期数
}

// Summary 前 10 冷热号、前 5 冷热星号
func (s *Snapshot) Summary() Summary {
	return Summary{
		TotalDraws:     s.TotalDraws,
		FirstDraw:      s.FirstDate,
		LastDraw:       s.LastDate,
		HotNumbers:     Values(Rank(s.Numbers, RankHot, 10)),
		ColdNumbers:    Values(Rank(s.Numbers, RankCold, 10)),
		OverdueNumbers: Values(Rank(s.Numbers, RankOverdue, 10)),
		HotStars:       Values(Rank(s.Stars, RankHot, 5)),
		ColdStars:      Values(Rank(s.Stars, RankCold, 5)),
	}
}

// Distribution 奇偶、大小、和值分布
type Distribution struct {
	TotalDraws int            `json:"total_draws"`
	EvenOdd    map[string]int `json:"even_odd"` // "偶-奇"，如 "2-3"
	LowHigh    map[string]int `json:"low_high"` // "低-高"
	SumMean    float64        `json:"sum_mean"`
	SumMin     int            `json:"sum_min"`
	SumMax     int            `json:"sum_max"`
	Sums       []int          `json:"sums"`
	StarSums   []int          `json:"star_sums"`
}

// AnalyzeDistribution 按日期顺序统计分布
func AnalyzeDistribution(draws []model.Draw) Distribution {
	sorted := SortDraws(draws)
	dist := Distribution{
		TotalDraws: len(sorted),
		EvenOdd:    map[string]int{},
		LowHigh:    map[string]int{},
		Sums:       make([]int, 0, len(sorted)),
		StarSums:   make([]int, 0, len(sorted)),
	}
	total := 0
	for i, d := range sorted {
		even, odd := d.EvenOdd()
		low, high := d.LowHigh()
		dist.EvenOdd[splitKey(even, odd)]++
		dist.LowHigh[splitKey(low, high)]++
		sum := d.Sum()
		dist.Sums = append(dist.Sums, sum)
		dist.StarSums = append(dist.StarSums, d.StarSum())
		total += sum
		if i == 0 || sum < dist.SumMin {
			dist.SumMin = sum
		}
		if sum > dist.SumMax {
			dist.SumMax = sum
		}
	}
	if len(sorted) > 0 {
		dist.SumMean = round(float64(total)/float64(len(sorted)), 2)
	}
	return dist
}

func splitKey(a, b int) string {
	return string(rune('0'+a)) + "-" + string(rune('0'+b))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
