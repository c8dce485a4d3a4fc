package lottery

import (
	"sort"

	"EuroAnalyzer/internal/model"

	"github.com/shopspring/decimal"
)

// PrizeTier 奖级，Rank 0 表示未中奖
type PrizeTier struct {
	Rank  int    `json:"rank"`
	Label string `json:"label"`
}

// Won 是否中奖
func (p PrizeTier) Won() bool { return p.Rank > 0 }

type matchKey struct{ numbers, stars int }

// 欧洲百万官方 13 个奖级
var prizeTable = map[matchKey]PrizeTier{
	{5, 2}: {1, "1st Prize (Jackpot)"},
	{5, 1}: {2, "2nd Prize"},
	{5, 0}: {3, "3rd Prize"},
	{4, 2}: {4, "4th Prize"},
	{4, 1}: {5, "5th Prize"},
	{3, 2}: {6, "6th Prize"},
	{4, 0}: {7, "7th Prize"},
	{2, 2}: {8, "8th Prize"},
	{3, 1}: {9, "9th Prize"},
	{3, 0}: {10, "10th Prize"},
	{1, 2}: {11, "11th Prize"},
	{2, 1}: {12, "12th Prize"},
	{2, 0}: {13, "13th Prize"},
}

// NoPrize 未中奖
var NoPrize = PrizeTier{Rank: 0, Label: "No prize"}

// Prize 命中数对应的奖级
func Prize(matchedNumbers, matchedStars int) PrizeTier {
	if p, ok := prizeTable[matchKey{matchedNumbers, matchedStars}]; ok {
		return p
	}
	return NoPrize
}

// PrizeTiers 按奖级顺序列出
func PrizeTiers() []PrizeTier {
	out := make([]PrizeTier, 0, len(prizeTable))
	for _, p := range prizeTable {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// Verification 单注对奖结果
type Verification struct {
	DrawID         uint64    `json:"draw_id"`
	DrawDate       string    `json:"draw_date"`
	Numbers        []int     `json:"numbers"`
	Stars          []int     `json:"stars"`
	DrawNumbers    []int     `json:"draw_numbers"`
	DrawStars      []int     `json:"draw_stars"`
	MatchedNumbers []int     `json:"matched_numbers"`
	MatchedStars   []int     `json:"matched_stars"`
	NumberHits     int       `json:"number_hits"`
	StarHits       int       `json:"star_hits"`
	Prize          PrizeTier `json:"prize"`
}

// Verify 对比一注与开奖结果
func Verify(numbers, stars []int, draw model.Draw) Verification {
	v := Verification{
		DrawID:         draw.ID,
		DrawDate:       draw.DrawDate.Format("2006-01-02"),
		Numbers:        Sorted(numbers),
		Stars:          Sorted(stars),
		DrawNumbers:    draw.Numbers(),
		DrawStars:      draw.Stars(),
		MatchedNumbers: []int{},
		MatchedStars:   []int{},
	}
	for _, n := range v.Numbers {
		if draw.HasNumber(n) {
			v.MatchedNumbers = append(v.MatchedNumbers, n)
		}
	}
	for _, s := range v.Stars {
		if draw.HasStar(s) {
			v.MatchedStars = append(v.MatchedStars, s)
		}
	}
	v.NumberHits, v.StarHits = len(v.MatchedNumbers), len(v.MatchedStars)
	v.Prize = Prize(v.NumberHits, v.StarHits)
	return v
}

// MultipleVerification 复式投注对奖
type MultipleVerification struct {
	DrawID       uint64          `json:"draw_id"`
	DrawDate     string          `json:"draw_date"`
	Combinations int             `json:"combinations"`
	Winning      int             `json:"winning"`
	BestPrize    PrizeTier       `json:"best_prize"`
	PrizeCounts  map[string]int  `json:"prize_counts"`
	Cost         decimal.Decimal `json:"cost"`
	Results      []Verification  `json:"results"` // 按命中数降序
}

// VerifyMultiple 展开复式投注逐注对奖
func VerifyMultiple(numbers, stars []int, draw model.Draw) MultipleVerification {
	tickets := ExpandMultiple(numbers, stars)
	res := MultipleVerification{
		DrawID:       draw.ID,
		DrawDate:     draw.DrawDate.Format("2006-01-02"),
		Combinations: len(tickets),
		BestPrize:    NoPrize,
		PrizeCounts:  map[string]int{},
		Cost:         MultipleCost(len(tickets)),
		Results:      make([]Verification, 0, len(tickets)),
	}
	for _, t := range tickets {
		v := Verify(t.Numbers, t.Stars, draw)
		res.Results = append(res.Results, v)
		if v.Prize.Won() {
			res.Winning++
			res.PrizeCounts[v.Prize.Label]++
			if !res.BestPrize.Won() || v.Prize.Rank < res.BestPrize.Rank {
				res.BestPrize = v.Prize
			}
		}
	}
	sort.SliceStable(res.Results, func(i, j int) bool {
		a, b := res.Results[i], res.Results[j]
		if a.NumberHits+a.StarHits != b.NumberHits+b.StarHits {
			return a.NumberHits+a.StarHits > b.NumberHits+b.StarHits
		}
		return a.NumberHits > b.NumberHits
	})
	return res
}

// Simulation 一注在全部历史开奖中的表现
type Simulation struct {
	Numbers     []int           `json:"numbers"`
	Stars       []int           `json:"stars"`
	TotalDraws  int             `json:"total_draws"`
	Wins        int             `json:"wins"`
	WinRate     float64         `json:"win_rate"`
	BestPrize   PrizeTier       `json:"best_prize"`
	PrizeCounts map[string]int  `json:"prize_counts"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	BestDraws   []Verification  `json:"best_draws"` // 命中最多的前 10 期
}

// Simulate 假设每期都买这注
func Simulate(numbers, stars []int, draws []model.Draw) Simulation {
	sorted := SortDraws(draws)
	sim := Simulation{
		Numbers:     Sorted(numbers),
		Stars:       Sorted(stars),
		TotalDraws:  len(sorted),
		BestPrize:   NoPrize,
		PrizeCounts: map[string]int{},
		TotalCost:   MultipleCost(len(sorted)),
	}
	all := make([]Verification, 0, len(sorted))
	for _, d := range sorted {
		v := Verify(numbers, stars, d)
		all = append(all, v)
		if v.Prize.Won() {
			sim.Wins++
			sim.PrizeCounts[v.Prize.Label]++
			if !sim.BestPrize.Won() || v.Prize.Rank < sim.BestPrize.Rank {
				sim.BestPrize = v.Prize
			}
		}
	}
	if sim.TotalDraws > 0 {
		sim.WinRate = round(float64(sim.Wins)/float64(sim.TotalDraws)*100, 2)
	}
	// 命中多的在前，同命中数新开奖在前
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if a.NumberHits+a.StarHits != b.NumberHits+b.StarHits {
			return a.NumberHits+a.StarHits > b.NumberHits+b.StarHits
		}
		return a.DrawDate > b.DrawDate
	})
	if len(all) > 10 {
		all = all[:10]
	}
	sim.BestDraws = all
	return sim
}
