package lottery

import (
	"fmt"
	"sort"
	"time"

	"EuroAnalyzer/internal/model"
)

// FrequencySeries 柱状图数据
type FrequencySeries struct {
	Labels      []string  `json:"labels"`
	Frequencies []int     `json:"frequencies"`
	Percentages []float64 `json:"percentages"`
}

// BuildFrequencySeries 按号码顺序输出
func BuildFrequencySeries(stats []ValueStat) FrequencySeries {
	sorted := append([]ValueStat(nil), stats...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })
	fs := FrequencySeries{
		Labels:      make([]string, len(sorted)),
		Frequencies: make([]int, len(sorted)),
		Percentages: make([]float64, len(sorted)),
	}
	for i, s := range sorted {
		fs.Labels[i] = fmt.Sprint(s.Value)
		fs.Frequencies[i] = s.Frequency
		fs.Percentages[i] = s.Percentage
	}
	return fs
}

// EvolutionSeries 某号码累计出现次数随时间变化
type EvolutionSeries struct {
	Number     int      `json:"number"`
	Dates      []string `json:"dates"`
	Cumulative []int    `json:"cumulative"`
}

// CumulativeEvolution 每次出现记一个点
func CumulativeEvolution(draws []model.Draw, number int) EvolutionSeries {
	res := EvolutionSeries{Number: number, Dates: []string{}, Cumulative: []int{}}
	count := 0
	for _, d := range SortDraws(draws) {
		if d.HasNumber(number) {
			count++
			res.Dates = append(res.Dates, d.DrawDate.Format("2006-01-02"))
			res.Cumulative = append(res.Cumulative, count)
		}
	}
	return res
}

// YearPoint 某年某号码的出现情况
type YearPoint struct {
	Year        int     `json:"year"`
	Draws       int     `json:"draws"`
	Appearances int     `json:"appearances"`
	Percentage  float64 `json:"percentage"` // 出现期数 / 当年期数
}

// YearlyEvolution 按年统计某号码出现的比例
func YearlyEvolution(draws []model.Draw, number int) []YearPoint {
	byYear := map[int]*YearPoint{}
	for _, d := range draws {
		y := d.DrawDate.Year()
		p, ok := byYear[y]
		if !ok {
			p = &YearPoint{Year: y}
			byYear[y] = p
		}
		p.Draws++
		if d.HasNumber(number) {
			p.Appearances++
		}
	}
	out := make([]YearPoint, 0, len(byYear))
	for _, p := range byYear {
		p.Percentage = round(float64(p.Appearances)/float64(p.Draws)*100, 2)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// Heatmap 每月 × 每号码的出现次数
type Heatmap struct {
	Months  []string `json:"months"`  // YYYY-MM
	Numbers []int    `json:"numbers"` // 1..50
	Matrix  [][]int  `json:"matrix"`  // [月][号码-1]
}

// MonthlyHeatmap 只包含有开奖的月份
func MonthlyHeatmap(draws []model.Draw) Heatmap {
	rows := map[string][]int{}
	for _, d := range draws {
		key := d.DrawDate.Format("2006-01")
		row, ok := rows[key]
		if !ok {
			row = make([]int, NumberMax)
			rows[key] = row
		}
		for _, n := range d.Numbers() {
			row[n-1]++
		}
	}
	hm := Heatmap{Months: make([]string, 0, len(rows)), Numbers: rangeInts(NumberMin, NumberMax)}
	for k := range rows {
		hm.Months = append(hm.Months, k)
	}
	sort.Strings(hm.Months)
	hm.Matrix = make([][]int, len(hm.Months))
	for i, m := range hm.Months {
		hm.Matrix[i] = rows[m]
	}
	return hm
}

// Correlation 共现矩阵，对角线为号码本身的频次
type Correlation struct {
	Labels []int   `json:"labels"`
	Matrix [][]int `json:"matrix"`
}

// CorrelationMatrix 50×50 的主号共现次数
func CorrelationMatrix(draws []model.Draw) Correlation {
	matrix := make([][]int, NumberMax)
	for i := range matrix {
		matrix[i] = make([]int, NumberMax)
	}
	for _, d := range draws {
		nums := d.Numbers()
		for _, a := range nums {
			for _, b := range nums {
				matrix[a-1][b-1]++
			}
		}
	}
	return Correlation{Labels: rangeInts(NumberMin, NumberMax), Matrix: matrix}
}

// WeekdayStat 周几的开奖统计
type WeekdayStat struct {
	Weekday    string `json:"weekday"`
	Draws      int    `json:"draws"`
	HotNumbers []int  `json:"hot_numbers"` // 当天出现最多的 5 个号码
}

// WeekdayAnalysis 按周一到周日输出，跳过没有开奖的日子
func WeekdayAnalysis(draws []model.Draw) []WeekdayStat {
	var counts [7][NumberMax + 1]int
	var totals [7]int
	for _, d := range draws {
		wd := d.DrawDate.Weekday()
		totals[wd]++
		for _, n := range d.Numbers() {
			counts[wd][n]++
		}
	}
	order := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}
	out := []WeekdayStat{}
	for _, wd := range order {
		if totals[wd] == 0 {
			continue
		}
		stats := make([]ValueStat, 0, NumberMax)
		for n := NumberMin; n <= NumberMax; n++ {
			st := ValueStat{Value: n}
			st.Frequency = counts[wd][n]
			stats = append(stats, st)
		}
		out = append(out, WeekdayStat{
			Weekday:    wd.String(),
			Draws:      totals[wd],
			HotNumbers: Values(Rank(stats, RankHot, 5)),
		})
	}
	return out
}

// JackpotSeries 头奖金额走势，缺失金额的期数跳过
type JackpotSeries struct {
	Dates   []string  `json:"dates"`
	Values  []float64 `json:"values"`
	Winners []bool    `json:"winners"`
}

// JackpotEvolution 按日期升序
func JackpotEvolution(draws []model.Draw) JackpotSeries {
	js := JackpotSeries{Dates: []string{}, Values: []float64{}, Winners: []bool{}}
	for _, d := range SortDraws(draws) {
		if !d.Jackpot.Valid {
			continue
		}
		js.Dates = append(js.Dates, d.DrawDate.Format("2006-01-02"))
		js.Values = append(js.Values, d.Jackpot.Decimal.InexactFloat64())
		js.Winners = append(js.Winners, d.HasWinner)
	}
	return js
}
