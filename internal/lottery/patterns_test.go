package lottery

import (
	"reflect"
	"testing"

	"EuroAnalyzer/internal/model"
)

func TestConsecutiveAndSequences(t *testing.T) {
	draws := []model.Draw{
		draw(1, "2024-01-02", []int{7, 8, 9, 20, 40}, []int{1, 2}),
		draw(2, "2024-01-05", []int{1, 10, 20, 30, 40}, []int{1, 3}),
		draw(3, "2024-01-09", []int{7, 8, 15, 16, 33}, []int{4, 5}),
	}
	cons := AnalyzeConsecutive(draws)
	if cons.DrawsWithConsecutive != 2 {
		t.Errorf("Expected 2 draws with consecutive numbers, got %d", cons.DrawsWithConsecutive)
	}
	if cons.PairsDistribution[2] != 2 || cons.PairsDistribution[0] != 1 {
		t.Errorf("Unexpected pairs distribution %v", cons.PairsDistribution)
	}
	if cons.Percentage != 66.67 {
		t.Errorf("Expected 66.67%%, got %v", cons.Percentage)
	}

	pairs := Sequences(draws, 2)
	if len(pairs) == 0 || !reflect.DeepEqual(pairs[0].Numbers, []int{7, 8}) || pairs[0].Count != 2 {
		t.Fatalf("Expected [7 8] x2 first, got %+v", pairs)
	}
	triples := Sequences(draws, 3)
	if len(triples) != 1 || !reflect.DeepEqual(triples[0].Numbers, []int{7, 8, 9}) {
		t.Errorf("Expected only [7 8 9], got %+v", triples)
	}
}

func TestFrequentCombinationsTieBreak(t *testing.T) {
	draws := []model.Draw{
		draw(1, "2024-01-02", []int{1, 2, 3, 4, 5}, []int{1, 2}),
		draw(2, "2024-01-05", []int{1, 2, 30, 40, 50}, []int{1, 2}),
	}
	pairs := FrequentCombinations(draws, 2, 3)
	if len(pairs) != 3 {
		t.Fatalf("Expected 3 pairs, got %d", len(pairs))
	}
	if !reflect.DeepEqual(pairs[0].Numbers, []int{1, 2}) || pairs[0].Count != 2 {
		t.Errorf("Expected [1 2] x2 first, got %+v", pairs[0])
	}
	if !reflect.DeepEqual(pairs[1].Numbers, []int{1, 3}) || !reflect.DeepEqual(pairs[2].Numbers, []int{1, 4}) {
		t.Errorf("Expected lexicographic tie-break, got %+v %+v", pairs[1], pairs[2])
	}
	triplets := FrequentCombinations(draws, 3, 20)
	if len(triplets) != 20 || triplets[0].Count != 1 {
		t.Errorf("Expected 20 single-count triplets, got %d (first %+v)", len(triplets), triplets[0])
	}
}

func TestDecadesAndLastDigits(t *testing.T) {
	draws := []model.Draw{
		draw(1, "2024-01-02", []int{1, 11, 21, 31, 41}, []int{1, 2}),
		draw(2, "2024-01-05", []int{2, 3, 4, 50, 49}, []int{1, 2}),
	}
	dec := AnalyzeDecades(draws)
	want := []int{4, 1, 1, 1, 3}
	for i, b := range dec.Buckets {
		if b.Count != want[i] {
			t.Errorf("Bucket %s: expected %d, got %d", b.Label, want[i], b.Count)
		}
	}
	if len(dec.Patterns) != 2 || dec.Patterns[0].Label != "1-1-1-1-1" && dec.Patterns[1].Label != "1-1-1-1-1" {
		t.Errorf("Expected pattern 1-1-1-1-1 present, got %+v", dec.Patterns)
	}

	ld := AnalyzeLastDigits(draws)
	if ld.Digits[1] != 5 {
		t.Errorf("Expected digit 1 five times, got %d", ld.Digits[1])
	}
	if ld.DrawsWithRepeatedDigit != 1 {
		t.Errorf("Expected 1 draw with repeated last digit, got %d", ld.DrawsWithRepeatedDigit)
	}
}

func TestSumTrendLabels(t *testing.T) {
	build := func(sums []int) []model.Draw {
		var out []model.Draw
		day := mustDate("2023-01-03")
		for i, s := range sums {
			// 1+2+3+4 再加一个号码凑出目标和值
			base := []int{1, 2, 3, 4}
			last := s - 10
			d := model.NewDraw(day.AddDate(0, 0, i*7), append(base, last), []int{1, 2})
			d.ID = uint64(i + 1)
			out = append(out, d)
		}
		return out
	}

	rising := build([]int{40, 40, 40, 40, 52, 52, 52, 52})
	tr := AnalyzeSumTrend(rising, 4)
	if tr.Trend != "rising" || tr.RecentMean != 52 || tr.PreviousMean != 40 {
		t.Errorf("Expected rising 52 vs 40, got %s %v vs %v", tr.Trend, tr.RecentMean, tr.PreviousMean)
	}
	if tr.MovingAverage[0] != 40 || tr.MovingAverage[4] != 43 {
		t.Errorf("Unexpected moving average %v", tr.MovingAverage)
	}

	falling := build([]int{55, 55, 40, 40})
	if got := AnalyzeSumTrend(falling, 2).Trend; got != "falling" {
		t.Errorf("Expected falling, got %s", got)
	}
	stable := build([]int{40, 41, 40, 41})
	if got := AnalyzeSumTrend(stable, 2).Trend; got != "stable" {
		t.Errorf("Expected stable, got %s", got)
	}
	if got := AnalyzeSumTrend(nil, 0); got.Window != DefaultSumWindow || got.Trend != "stable" {
		t.Errorf("Unexpected empty trend %+v", got)
	}
}

func TestAnalyzePatternsDeterministic(t *testing.T) {
	draws := syntheticHistory(80)
	a := AnalyzePatterns(draws)
	reversed := make([]model.Draw, len(draws))
	for i, d := range draws {
		reversed[len(draws)-1-i] = d
	}
	b := AnalyzePatterns(reversed)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("Pattern report depends on input order")
	}
	if a.TotalDraws != 80 || len(a.Pairs) != 20 {
		t.Errorf("Unexpected report: %d draws, %d pairs", a.TotalDraws, len(a.Pairs))
	}
}
