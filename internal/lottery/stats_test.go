package lottery

import (
	"math/rand"
	"reflect"
	"testing"

	"EuroAnalyzer/internal/model"
)

func TestAggregateBasic(t *testing.T) {
	draws := []model.Draw{
		draw(1, "2024-01-02", []int{1, 2, 3, 4, 5}, []int{1, 2}),
		draw(2, "2024-01-05", []int{1, 10, 20, 30, 40}, []int{1, 3}),
		draw(3, "2024-01-09", []int{1, 2, 11, 21, 31}, []int{4, 5}),
	}
	snap := Aggregate(draws)
	if snap.TotalDraws != 3 {
		t.Fatalf("Expected 3 draws, got %d", snap.TotalDraws)
	}

	one := snap.Numbers[0]
	if one.Frequency != 3 {
		t.Errorf("Expected number 1 frequency 3, got %d", one.Frequency)
	}
	if one.Percentage != 20 {
		t.Errorf("Expected percentage 20, got %v", one.Percentage)
	}
	if one.DrawsSinceLast != 0 || one.DaysSinceLast != 0 {
		t.Errorf("Expected number 1 seen in latest draw, got %d draws / %d days", one.DrawsSinceLast, one.DaysSinceLast)
	}
	if one.MeanGap != 3.5 || one.MaxGap != 4 {
		t.Errorf("Expected gaps mean 3.5 max 4, got %v %d", one.MeanGap, one.MaxGap)
	}
	// 期望 0.3 次，实际 3 次
	if one.Deviation != 9 || one.Status != "hot" {
		t.Errorf("Expected deviation 9 and hot, got %v %s", one.Deviation, one.Status)
	}

	two := snap.Numbers[1]
	if two.Frequency != 2 || two.DrawsSinceLast != 0 {
		t.Errorf("Unexpected stats for 2: %+v", two)
	}

	five := snap.Numbers[4]
	if five.DrawsSinceLast != 2 || five.DaysSinceLast != 7 {
		t.Errorf("Expected 5 last seen 2 draws / 7 days ago, got %d / %d", five.DrawsSinceLast, five.DaysSinceLast)
	}
	if five.LastSeenDrawID == nil || *five.LastSeenDrawID != 1 {
		t.Errorf("Expected 5 last seen in draw 1, got %v", five.LastSeenDrawID)
	}

	never := snap.Numbers[49]
	if never.Frequency != 0 || never.DrawsSinceLast != 3 || never.LastSeenDate != nil {
		t.Errorf("Expected 50 never seen with delay 3, got %+v", never)
	}
	if never.Status != "cold" {
		t.Errorf("Expected never-seen number to be cold, got %s", never.Status)
	}

	star1 := snap.Stars[0]
	if star1.Frequency != 2 || star1.DrawsSinceLast != 1 {
		t.Errorf("Unexpected star 1 stats: %+v", star1)
	}
}

func TestAggregatePermutationInvariant(t *testing.T) {
	draws := syntheticHistory(120)
	want := Aggregate(draws)

	rnd := rand.New(rand.NewSource(7))
	for i := 0; i < 5; i++ {
		shuffled := append([]model.Draw(nil), draws...)
		rnd.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Aggregate(shuffled)
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("Aggregation differs after permutation %d", i)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil)
	if snap.TotalDraws != 0 || len(snap.Numbers) != 50 || len(snap.Stars) != 12 {
		t.Fatalf("Unexpected empty snapshot: %d draws, %d numbers, %d stars", snap.TotalDraws, len(snap.Numbers), len(snap.Stars))
	}
	if snap.Numbers[0].Percentage != 0 || snap.Numbers[0].Status != "normal" {
		t.Errorf("Expected zeroed stats, got %+v", snap.Numbers[0])
	}
}

func TestRankTieBreak(t *testing.T) {
	stats := make([]ValueStat, 4)
	freqs := []int{3, 5, 3, 1}
	delays := []int{2, 0, 2, 9}
	for i := range stats {
		stats[i].Value = i + 1
		stats[i].Frequency = freqs[i]
		stats[i].DrawsSinceLast = delays[i]
	}
	if got := Values(Rank(stats, RankHot, 0)); !reflect.DeepEqual(got, []int{2, 1, 3, 4}) {
		t.Errorf("Expected hot order [2 1 3 4], got %v", got)
	}
	if got := Values(Rank(stats, RankCold, 3)); !reflect.DeepEqual(got, []int{4, 1, 3}) {
		t.Errorf("Expected cold order [4 1 3], got %v", got)
	}
	if got := Values(Rank(stats, RankOverdue, 2)); !reflect.DeepEqual(got, []int{4, 1}) {
		t.Errorf("Expected overdue order [4 1], got %v", got)
	}
}

func TestSummaryAndDistribution(t *testing.T) {
	draws := []model.Draw{
		draw(1, "2024-01-02", []int{2, 4, 6, 30, 31}, []int{1, 2}),
		draw(2, "2024-01-05", []int{1, 3, 26, 27, 28}, []int{5, 9}),
	}
	sum := Aggregate(draws).Summary()
	if sum.TotalDraws != 2 || len(sum.HotNumbers) != 10 || len(sum.HotStars) != 5 {
		t.Fatalf("Unexpected summary: %+v", sum)
	}
	if sum.LastDraw == nil || sum.LastDraw.Format("2006-01-02") != "2024-01-05" {
		t.Errorf("Expected last draw 2024-01-05, got %v", sum.LastDraw)
	}

	dist := AnalyzeDistribution(draws)
	if dist.EvenOdd["4-1"] != 1 || dist.EvenOdd["2-3"] != 1 {
		t.Errorf("Unexpected even/odd split: %v", dist.EvenOdd)
	}
	if dist.LowHigh["3-2"] != 1 || dist.LowHigh["2-3"] != 1 {
		t.Errorf("Unexpected low/high split: %v", dist.LowHigh)
	}
	if dist.SumMin != 73 || dist.SumMax != 85 || dist.SumMean != 79 {
		t.Errorf("Unexpected sums: min %d max %d mean %v", dist.SumMin, dist.SumMax, dist.SumMean)
	}
	if !reflect.DeepEqual(dist.StarSums, []int{3, 14}) {
		t.Errorf("Unexpected star sums %v", dist.StarSums)
	}
}

func TestSnapshotLookup(t *testing.T) {
	snap := Aggregate([]model.Draw{draw(1, "2024-01-02", []int{1, 2, 3, 4, 5}, []int{1, 2})})
	if st, ok := snap.NumberStat(3); !ok || st.Value != 3 || st.Frequency != 1 {
		t.Errorf("Expected number 3 with frequency 1, got %+v %v", st, ok)
	}
	if st, ok := snap.StarStat(12); !ok || st.Value != 12 {
		t.Errorf("Expected star 12, got %+v %v", st, ok)
	}

	partial := &Snapshot{Numbers: []ValueStat{{Value: 30}}, Stars: nil}
	if st, ok := partial.NumberStat(30); !ok || st.Value != 30 {
		t.Errorf("Expected to find 30 in partial snapshot, got %+v %v", st, ok)
	}
	if _, ok := partial.NumberStat(1); ok {
		t.Error("Expected number 1 missing from partial snapshot")
	}
	if _, ok := partial.StarStat(2); ok {
		t.Error("Expected star 2 missing from empty stars")
	}
}
