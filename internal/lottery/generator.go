package lottery

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"EuroAnalyzer/internal/apperr"
)

// Strategy 生成策略
type Strategy string

const (
	StrategyFrequency Strategy = "frequency"
	StrategyCold      Strategy = "cold"
	StrategyDelay     Strategy = "delay"
	StrategyTrend     Strategy = "trend"
	StrategyBalanced  Strategy = "balanced"
	StrategyMixed     Strategy = "mixed"
	StrategyRandom    Strategy = "random"
)

// Strategies 全部策略，页面下拉框按此顺序展示
var Strategies = []Strategy{
	StrategyFrequency, StrategyCold, StrategyDelay, StrategyTrend,
	StrategyBalanced, StrategyMixed, StrategyRandom,
}

// 兼容旧数据里的葡语策略名
var strategyAliases = map[string]Strategy{
	"frequencia":  StrategyFrequency,
	"frios":       StrategyCold,
	"atraso":      StrategyDelay,
	"tendencia":   StrategyTrend,
	"equilibrada": StrategyBalanced,
	"mista":       StrategyMixed,
	"aleatorio":   StrategyRandom,
}

var strategyWeights = map[Strategy]Weights{
	StrategyFrequency: {Frequency: 0.7, Trend: 0.2, Delay: 0.1},
	StrategyCold:      {Frequency: 0.7, Trend: 0.2, Delay: 0.1},
	StrategyDelay:     {Frequency: 0.1, Trend: 0.2, Delay: 0.7},
	StrategyTrend:     {Frequency: 0.2, Trend: 0.6, Delay: 0.2},
	StrategyBalanced:  {Frequency: 0.33, Trend: 0.33, Delay: 0.34},
}

const (
	numberPool         = 15
	starPool           = 5
	balancedAttempts   = 100
	balancedSumMin     = 100
	balancedSumMax     = 175
	MaxQuantity        = 10
	uniqueAttemptRatio = 10
	Disclaimer         = "Experimental prediction: every draw is independent and random."
)

// ParseStrategy 解析策略名，未知名称返回 invalid_strategy，不做默认回退
func ParseStrategy(name string) (Strategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, s := range Strategies {
		if string(s) == key {
			return s, nil
		}
	}
	if s, ok := strategyAliases[key]; ok {
		return s, nil
	}
	return "", apperr.InvalidStrategy(name)
}

// Pick 生成的一注及对应得分
type Pick struct {
	Strategy     Strategy        `json:"strategy"`
	Numbers      []int           `json:"numbers"`
	Stars        []int           `json:"stars"`
	NumberScores map[int]float64 `json:"number_scores"`
	StarScores   map[int]float64 `json:"star_scores"`
}

// Key 去重用
func (p Pick) Key() string {
	return comboKey(p.Numbers) + "+" + comboKey(p.Stars)
}

// Prediction 带置信度和免责声明的预测
type Prediction struct {
	Pick
	Confidence float64 `json:"confidence"`
	TotalDraws int     `json:"total_draws"`
	Disclaimer string  `json:"disclaimer"`
}

// Generator 基于打分器的选号，随机源可注入；非并发安全，调用方自行加锁
type Generator struct {
	scorer *Scorer
	rnd    *rand.Rand
}

// NewGenerator 创建 Generator
func NewGenerator(scorer *Scorer, rnd *rand.Rand) *Generator {
	return &Generator{scorer: scorer, rnd: rnd}
}

type scored struct {
	value int
	score float64
}

// Generate 按策略生成一注，号码和星号都不会重复
func (g *Generator) Generate(strategy Strategy) (Pick, error) {
	var pick Pick
	switch strategy {
	case StrategyFrequency, StrategyCold, StrategyDelay, StrategyTrend:
		pick = g.weighted(strategy)
	case StrategyBalanced:
		pick = g.balanced()
	case StrategyMixed:
		pick = g.mixed()
	case StrategyRandom:
		pick = g.random()
	default:
		return Pick{}, apperr.InvalidStrategy(string(strategy))
	}
	pick.Strategy = strategy
	pick.Numbers = Sorted(pick.Numbers)
	pick.Stars = Sorted(pick.Stars)
	g.attachScores(&pick)
	return pick, nil
}

// GenerateUnique 生成 quantity 注互不相同的号码，最多尝试 10 × quantity 次
func (g *Generator) GenerateUnique(strategy Strategy, quantity int) ([]Pick, error) {
	if quantity < 1 || quantity > MaxQuantity {
		return nil, apperr.InvalidPayload("quantity must be between 1 and %d", MaxQuantity)
	}
	seen := map[string]bool{}
	picks := make([]Pick, 0, quantity)
	for attempt := 0; attempt < quantity*uniqueAttemptRatio && len(picks) < quantity; attempt++ {
		p, err := g.Generate(strategy)
		if err != nil {
			return nil, err
		}
		if seen[p.Key()] {
			continue
		}
		seen[p.Key()] = true
		picks = append(picks, p)
	}
	return picks, nil
}

// Predict 生成一注并给出置信度（得分方差 × 100，最多 50）
func (g *Generator) Predict(strategy Strategy) (*Prediction, error) {
	if g.scorer.TotalDraws() == 0 {
		return nil, apperr.NoDraws()
	}
	pick, err := g.Generate(strategy)
	if err != nil {
		return nil, err
	}
	scores := g.numberScores(strategy)
	mean := 0.0
	for _, s := range scores {
		mean += s.score
	}
	mean /= float64(len(scores))
	variance := 0.0
	for _, s := range scores {
		variance += (s.score - mean) * (s.score - mean)
	}
	variance /= float64(len(scores))
	confidence := variance * 100
	if confidence > 50 {
		confidence = 50
	}
	return &Prediction{
		Pick:       pick,
		Confidence: round(confidence, 1),
		TotalDraws: g.scorer.TotalDraws(),
		Disclaimer: Disclaimer,
	}, nil
}

func weightsFor(strategy Strategy) Weights {
	if w, ok := strategyWeights[strategy]; ok {
		return w
	}
	return DefaultWeights
}

// numberScores 全部主号得分，降序，同分按号码
func (g *Generator) numberScores(strategy Strategy) []scored {
	w := weightsFor(strategy)
	out := make([]scored, 0, NumberMax)
	for n := NumberMin; n <= NumberMax; n++ {
		s := g.scorer.NumberScore(n, w)
		if strategy == StrategyCold {
			s = g.scorer.ColdNumberScore(n, w)
		}
		out = append(out, scored{value: n, score: s})
	}
	sortScored(out)
	return out
}

func (g *Generator) starScores(strategy Strategy) []scored {
	out := make([]scored, 0, StarMax)
	for e := StarMin; e <= StarMax; e++ {
		s := g.scorer.StarScore(e)
		if strategy == StrategyCold {
			s = g.scorer.ColdStarScore(e)
		}
		out = append(out, scored{value: e, score: s})
	}
	sortScored(out)
	return out
}

func sortScored(values []scored) {
	sort.SliceStable(values, func(i, j int) bool {
		if values[i].score != values[j].score {
			return values[i].score > values[j].score
		}
		return values[i].value < values[j].value
	})
}

func (g *Generator) weighted(strategy Strategy) Pick {
	numbers := g.numberScores(strategy)[:numberPool]
	stars := g.starScores(strategy)[:starPool]
	return Pick{
		Numbers: g.sample(numbers, NumbersPerDraw),
		Stars:   g.sample(stars, StarsPerDraw),
	}
}

// balanced 2-3 个偶数、2-3 个低号、和值 100-175；100 次内不满足则取违规最少的候选
func (g *Generator) balanced() Pick {
	pool := g.numberScores(StrategyBalanced)
	var best []int
	bestPenalty := -1
	for attempt := 0; attempt < balancedAttempts; attempt++ {
		candidate := g.sample(pool, NumbersPerDraw)
		penalty := balancePenalty(candidate)
		if bestPenalty < 0 || penalty < bestPenalty {
			best, bestPenalty = candidate, penalty
		}
		if penalty == 0 {
			break
		}
	}

	stars := g.starScores(StrategyBalanced)
	var low, high []scored
	for _, s := range stars {
		if s.value <= StarMax/2 {
			low = append(low, s)
		} else {
			high = append(high, s)
		}
	}
	return Pick{
		Numbers: best,
		Stars:   append(g.sample(low, 1), g.sample(high, 1)...),
	}
}

func balancePenalty(numbers []int) int {
	even, low, sum := 0, 0, 0
	for _, n := range numbers {
		if n%2 == 0 {
			even++
		}
		if n <= LowMax {
			low++
		}
		sum += n
	}
	penalty := outside(even, 2, 3) + outside(low, 2, 3)
	if sum < balancedSumMin {
		penalty += (balancedSumMin-sum)/10 + 1
	} else if sum > balancedSumMax {
		penalty += (sum-balancedSumMax)/10 + 1
	}
	return penalty
}

func outside(v, min, max int) int {
	switch {
	case v < min:
		return min - v
	case v > max:
		return v - max
	}
	return 0
}

// mixed 2 个热号、2 个冷号、1 个遗漏号；1 个热星 + 1 个冷星
func (g *Generator) mixed() Pick {
	hot, cold, overdue := g.frequencyLists(g.scorer.numbers, 10)
	chosen := map[int]bool{}
	numbers := make([]int, 0, NumbersPerDraw)
	take := func(from []int, n int) {
		var avail []int
		for _, v := range from {
			if !chosen[v] {
				avail = append(avail, v)
			}
		}
		g.rnd.Shuffle(len(avail), func(i, j int) { avail[i], avail[j] = avail[j], avail[i] })
		for _, v := range avail {
			if n == 0 || len(numbers) == NumbersPerDraw {
				return
			}
			chosen[v] = true
			numbers = append(numbers, v)
			n--
		}
	}
	take(hot, 2)
	take(cold, 2)
	take(overdue, NumbersPerDraw-len(numbers))
	take(rangeInts(NumberMin, NumberMax), NumbersPerDraw-len(numbers))

	hotStars, coldStars, _ := g.frequencyLists(g.scorer.stars, 4)
	hotStar := hotStars[g.rnd.Intn(len(hotStars))]
	var coldAvail []int
	for _, s := range coldStars {
		if s != hotStar {
			coldAvail = append(coldAvail, s)
		}
	}
	if len(coldAvail) == 0 {
		for _, s := range rangeInts(StarMin, StarMax) {
			if s != hotStar {
				coldAvail = append(coldAvail, s)
			}
		}
	}
	coldStar := coldAvail[g.rnd.Intn(len(coldAvail))]
	return Pick{Numbers: numbers, Stars: []int{hotStar, coldStar}}
}

// frequencyLists 按频率降序、升序、遗漏降序各取 n 个，同值按号码
func (g *Generator) frequencyLists(features []Features, n int) (hot, cold, overdue []int) {
	stats := make([]ValueStat, len(features))
	for i, f := range features {
		stats[i] = ValueStat{Value: f.Value}
		stats[i].Frequency = f.Frequency
		stats[i].DrawsSinceLast = f.DrawsSinceLast
	}
	return Values(Rank(stats, RankHot, n)), Values(Rank(stats, RankCold, n)), Values(Rank(stats, RankOverdue, n))
}

func (g *Generator) random() Pick {
	numbers := g.rnd.Perm(NumberMax)[:NumbersPerDraw]
	stars := g.rnd.Perm(StarMax)[:StarsPerDraw]
	for i := range numbers {
		numbers[i]++
	}
	for i := range stars {
		stars[i]++
	}
	return Pick{Numbers: numbers, Stars: stars}
}

// sample 按得分加权的无放回抽样，权重全为 0 时均匀抽取
func (g *Generator) sample(items []scored, n int) []int {
	pool := append([]scored(nil), items...)
	out := make([]int, 0, n)
	for len(out) < n && len(pool) > 0 {
		total := 0.0
		for _, it := range pool {
			total += it.score
		}
		idx := len(pool) - 1
		if total <= 0 {
			idx = g.rnd.Intn(len(pool))
		} else {
			r := g.rnd.Float64() * total
			acc := 0.0
			for i, it := range pool {
				acc += it.score
				if r < acc {
					idx = i
					break
				}
			}
		}
		out = append(out, pool[idx].value)
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return out
}

func (g *Generator) attachScores(p *Pick) {
	w := weightsFor(p.Strategy)
	p.NumberScores = make(map[int]float64, len(p.Numbers))
	for _, n := range p.Numbers {
		if p.Strategy == StrategyCold {
			p.NumberScores[n] = g.scorer.ColdNumberScore(n, w)
		} else {
			p.NumberScores[n] = g.scorer.NumberScore(n, w)
		}
	}
	p.StarScores = make(map[int]float64, len(p.Stars))
	for _, e := range p.Stars {
		if p.Strategy == StrategyCold {
			p.StarScores[e] = g.scorer.ColdStarScore(e)
		} else {
			p.StarScores[e] = g.scorer.StarScore(e)
		}
	}
}

func rangeInts(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for v := from; v <= to; v++ {
		out = append(out, v)
	}
	return out
}

// String 便于日志
func (p Pick) String() string {
	return fmt.Sprintf("%s %v + %v", p.Strategy, p.Numbers, p.Stars)
}
