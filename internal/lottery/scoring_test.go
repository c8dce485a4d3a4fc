package lottery

import (
	"testing"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/model"
)

func TestScorerFeatures(t *testing.T) {
	draws := []model.Draw{
		draw(1, "2024-01-02", []int{1, 2, 3, 4, 5}, []int{1, 2}),
		draw(2, "2024-01-05", []int{1, 10, 20, 30, 40}, []int{1, 3}),
		draw(3, "2024-01-09", []int{6, 7, 8, 9, 11}, []int{4, 5}),
		draw(4, "2024-01-12", []int{1, 12, 13, 14, 15}, []int{6, 7}),
	}
	s := NewScorer(draws)
	f := s.NumberFeatures(1)
	if f.Frequency != 3 || f.DrawsSinceLast != 0 || f.MeanGap != 1.5 {
		t.Errorf("Unexpected features for 1: %+v", f)
	}
	if f.Trend != 0 {
		t.Errorf("Expected zero trend under 50 draws, got %v", f.Trend)
	}
	never := s.NumberFeatures(50)
	if never.DrawsSinceLast != 4 || never.Frequency != 0 {
		t.Errorf("Unexpected features for 50: %+v", never)
	}

	// freq 0.75/0.15 封顶 1；trend 0.5；delay 0
	if got := s.NumberScore(1, Weights{Frequency: 0.7, Trend: 0.2, Delay: 0.1}); got != 0.8 {
		t.Errorf("Expected score 0.8 for 1, got %v", got)
	}
	// freq 0；trend 0.5；delay 4/20
	if got := s.NumberScore(50, Weights{Frequency: 0.1, Trend: 0.2, Delay: 0.7}); got != 0.24 {
		t.Errorf("Expected score 0.24 for 50, got %v", got)
	}
	if got := s.ColdNumberScore(50, Weights{Frequency: 0.7, Trend: 0.2, Delay: 0.1}); got != 0.82 {
		t.Errorf("Expected cold score 0.82 for 50, got %v", got)
	}
	// star 1: freq 0.5/0.25 封顶 1，遗漏 2/12
	if got := s.StarScore(1); got != 0.5833 {
		t.Errorf("Expected star score 0.5833, got %v", got)
	}
}

func TestRanking(t *testing.T) {
	s := NewScorer(syntheticHistory(150))
	nums := s.RankNumbers()
	stars := s.RankStars()
	if len(nums) != 50 || len(stars) != 12 {
		t.Fatalf("Expected 50/12 ranked values, got %d/%d", len(nums), len(stars))
	}
	for i := 1; i < len(nums); i++ {
		a, b := nums[i-1], nums[i]
		if a.Score < b.Score || a.Score == b.Score && a.Value > b.Value {
			t.Fatalf("Ranking out of order at %d: %+v then %+v", i, a, b)
		}
	}
}

func TestBacktest(t *testing.T) {
	if _, err := Backtest(syntheticHistory(50), 100); !apperr.Is(err, apperr.CodeNoDraws) {
		t.Fatalf("Expected no_draws for short history, got %v", err)
	}
	rep, err := Backtest(syntheticHistory(160), 100)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if rep.DrawsAnalyzed != 100 {
		t.Errorf("Expected 100 analysed draws, got %d", rep.DrawsAnalyzed)
	}
	if rep.MeanHitsTop10 < rep.MeanHitsTop5 {
		t.Errorf("Top-10 hits cannot be below top-5 hits: %v < %v", rep.MeanHitsTop10, rep.MeanHitsTop5)
	}
	total := 0
	for _, c := range rep.HitsDistribution {
		total += c
	}
	if total != rep.DrawsAnalyzed || rep.ChanceTop5 != 0.5 || rep.ChanceTop10 != 1.0 {
		t.Errorf("Unexpected report %+v", rep)
	}

	// 60 期 + window 50：前 50 期不够 50 期历史，只分析后 10 期
	rep, err = Backtest(syntheticHistory(60), 50)
	if err != nil {
		t.Fatalf("Unexpected error %v", err)
	}
	if rep.DrawsAnalyzed != 10 {
		t.Errorf("Expected 10 analysed draws, got %d", rep.DrawsAnalyzed)
	}
}
