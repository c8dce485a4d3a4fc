package scheduler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"EuroAnalyzer/internal/config"
	"EuroAnalyzer/internal/database/dbtest"
	"EuroAnalyzer/internal/repository"
	"EuroAnalyzer/internal/service"
)

const feedCSV = `data,n1,n2,n3,n4,n5,e1,e2
2024-01-05,7,14,21,28,35,2,11
2024-01-09,4,11,19,33,47,5,9
`

func newScheduler(t *testing.T, feedURL string) *RefreshScheduler {
	t.Helper()
	db := dbtest.Open(t)
	log := dbtest.Logger()
	draws := repository.NewDrawRepository(db)
	stats := service.NewStatisticsService(draws, repository.NewStatisticsRepository(db), log)
	imports := service.NewImportService(draws, stats, log)
	alerts := service.NewAlertService(repository.NewUserRepository(db), draws, stats, log)
	feed := service.NewFeedService(&config.FeedConfig{URL: feedURL, Timeout: 5}, imports, log)
	return NewRefreshScheduler(feed, stats, alerts, "0 0 6 * * *", log)
}

func TestRunOnceSyncsFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(feedCSV))
	}))
	defer srv.Close()

	s := newScheduler(t, srv.URL)
	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if res.Feed == nil || res.Feed.Imported != 2 {
		t.Fatalf("Expected 2 draws from feed, got %+v", res.Feed)
	}
	if res.Summary.TotalDraws != 2 {
		t.Errorf("Expected summary over 2 draws, got %d", res.Summary.TotalDraws)
	}

	res, err = s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second RunOnce failed: %v", err)
	}
	if res.Feed.Imported != 0 || res.Feed.Duplicates != 2 {
		t.Errorf("Expected second sync to skip duplicates, got %+v", res.Feed)
	}
}

func TestRunOnceSurvivesFeedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := newScheduler(t, srv.URL)
	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if res.Feed != nil {
		t.Errorf("Expected no feed report after failure")
	}
	if res.Summary.TotalDraws != 0 {
		t.Errorf("Expected empty summary, got %d draws", res.Summary.TotalDraws)
	}
}

func TestStartRejectsBadCron(t *testing.T) {
	s := newScheduler(t, "")
	s.cronExpr = "not a cron"
	if err := s.Start(); err == nil {
		t.Errorf("Expected error for invalid cron expression")
	}
}
