package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"EuroAnalyzer/internal/database/dbtest"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"
)

func TestSnapshotFallsBackBeforeRefresh(t *testing.T) {
	s := newTestServices(t)
	if _, err := s.imp.ImportCSV(context.Background(), strings.NewReader(sampleCSV), false); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	snap, err := s.stats.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.TotalDraws != 2 {
		t.Errorf("Expected 2 draws in computed snapshot, got %d", snap.TotalDraws)
	}
	if got := snap.Numbers[6].Frequency; got != 1 {
		t.Errorf("Expected number 7 frequency 1, got %d", got)
	}
}

func TestRefreshStoresSnapshot(t *testing.T) {
	s := newTestServices(t)
	s.seed(t)
	ctx := context.Background()

	n, err := s.stats.Number(ctx, 4)
	if err != nil {
		t.Fatalf("Number failed: %v", err)
	}
	if n.Frequency != 1 || n.DrawsSinceLast != 0 {
		t.Errorf("Expected number 4 seen in latest draw, got %+v", n.StatisticMetrics)
	}
	n, err = s.stats.Number(ctx, 7)
	if err != nil {
		t.Fatalf("Number failed: %v", err)
	}
	if n.DrawsSinceLast != 1 || n.DaysSinceLast != 4 {
		t.Errorf("Expected number 7 one draw / 4 days ago, got %d / %d", n.DrawsSinceLast, n.DaysSinceLast)
	}

	if _, err := s.stats.Number(ctx, 0); err == nil {
		t.Errorf("Expected error for number 0")
	}
	if _, err := s.stats.Star(ctx, 13); err == nil {
		t.Errorf("Expected error for star 13")
	}

	summary, err := s.stats.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalDraws != 2 || summary.LastDraw == nil || summary.LastDraw.Format("2006-01-02") != "2024-01-09" {
		t.Errorf("Unexpected summary %+v", summary)
	}
}

func TestNumbersInvalidRange(t *testing.T) {
	s := newTestServices(t)
	s.seed(t)
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := s.stats.Numbers(context.Background(), StatQuery{From: &from, To: &to}); err == nil {
		t.Errorf("Expected error when from is after to")
	}

	stats, err := s.stats.Numbers(context.Background(), StatQuery{Order: "-frequency"})
	if err != nil {
		t.Fatalf("Numbers failed: %v", err)
	}
	if len(stats) != 50 {
		t.Fatalf("Expected 50 rows, got %d", len(stats))
	}
	if stats[0].Frequency < stats[len(stats)-1].Frequency {
		t.Errorf("Expected descending frequency order")
	}
}

func TestSnapshotHeaderFollowsLastRefresh(t *testing.T) {
	s := newTestServices(t)
	s.seed(t)
	ctx := context.Background()

	extra := "data,n1,n2,n3,n4,n5,e1,e2\n2024-01-12,1,2,3,4,5,1,3\n"
	if _, err := s.imp.ImportCSV(ctx, strings.NewReader(extra), false); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.TotalDraws != 2 {
		t.Errorf("Expected header to keep 2 draws until refresh, got %d", snap.TotalDraws)
	}
	if snap.LastDate == nil || snap.LastDate.Format("2006-01-02") != "2024-01-09" {
		t.Errorf("Expected last date 2024-01-09, got %v", snap.LastDate)
	}
	if one, _ := snap.NumberStat(1); one.Frequency != 0 {
		t.Errorf("Expected number 1 frequency 0 before refresh, got %d", one.Frequency)
	}
	summary, err := s.stats.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary.TotalDraws != 2 || summary.PendingDraws != 1 {
		t.Errorf("Expected 2 draws with 1 pending, got %d / %d", summary.TotalDraws, summary.PendingDraws)
	}

	if _, err := s.stats.Refresh(ctx); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	snap, _ = s.stats.Snapshot(ctx)
	if snap.TotalDraws != 3 || snap.LastDate.Format("2006-01-02") != "2024-01-12" {
		t.Errorf("Expected 3 draws up to 2024-01-12 after refresh, got %d / %v", snap.TotalDraws, snap.LastDate)
	}
	if one, _ := snap.NumberStat(1); one.Frequency != 1 || one.DrawsSinceLast != 0 {
		t.Errorf("Expected number 1 in latest draw, got %+v", one.StatisticMetrics)
	}
}

func TestPartialSnapshotFallsBack(t *testing.T) {
	db := dbtest.Open(t)
	log := dbtest.Logger()
	drawRepo := repository.NewDrawRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)
	stats := NewStatisticsService(drawRepo, statsRepo, log)
	imp := NewImportService(drawRepo, stats, log)
	ctx := context.Background()

	if _, err := imp.ImportCSV(ctx, strings.NewReader(sampleCSV), false); err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	partial := []model.NumberStatistic{{Number: 1}, {Number: 2}}
	if err := statsRepo.ReplaceSnapshot(ctx, model.SnapshotMeta{TotalDraws: 2}, partial, []model.StarStatistic{{Star: 1}}); err != nil {
		t.Fatalf("ReplaceSnapshot failed: %v", err)
	}

	n, err := stats.Number(ctx, 47)
	if err != nil {
		t.Fatalf("Number failed: %v", err)
	}
	if n.Value != 47 || n.Frequency != 1 {
		t.Errorf("Expected number 47 computed from draws, got %+v", n)
	}
	st, err := stats.Star(ctx, 12)
	if err != nil {
		t.Fatalf("Star failed: %v", err)
	}
	if st.Value != 12 || st.Frequency != 0 {
		t.Errorf("Expected star 12 computed from draws, got %+v", st)
	}
}

func TestNumbersOrdering(t *testing.T) {
	s := newTestServices(t)
	s.seed(t)
	ctx := context.Background()

	desc, err := s.stats.Numbers(ctx, StatQuery{Order: "-frequency"})
	if err != nil {
		t.Fatalf("Numbers failed: %v", err)
	}
	if desc[0].Value != 4 || desc[0].Frequency != 1 {
		t.Errorf("Expected number 4 first by -frequency, got %d (freq %d)", desc[0].Value, desc[0].Frequency)
	}
	asc, _ := s.stats.Numbers(ctx, StatQuery{Order: "frequency"})
	if asc[0].Value != 1 || asc[0].Frequency != 0 {
		t.Errorf("Expected number 1 first by frequency, got %d (freq %d)", asc[0].Value, asc[0].Frequency)
	}
	overdue, _ := s.stats.Numbers(ctx, StatQuery{Order: "-draws_since_last"})
	if overdue[0].DrawsSinceLast < overdue[len(overdue)-1].DrawsSinceLast {
		t.Errorf("Expected descending draws_since_last, got %d before %d", overdue[0].DrawsSinceLast, overdue[len(overdue)-1].DrawsSinceLast)
	}
	recent, _ := s.stats.Numbers(ctx, StatQuery{Order: "draws_since_last"})
	if recent[0].DrawsSinceLast != 0 || recent[0].Value != 4 {
		t.Errorf("Expected number 4 first by draws_since_last, got %d (%d)", recent[0].Value, recent[0].DrawsSinceLast)
	}
}
