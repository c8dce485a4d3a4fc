package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"EuroAnalyzer/internal/config"
	"EuroAnalyzer/internal/database/dbtest"
)

func TestFeedSyncRetries(t *testing.T) {
	s := newTestServices(t)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer srv.Close()

	feed := NewFeedService(&config.FeedConfig{URL: srv.URL, Timeout: 5, RetryCount: 2}, s.imp, dbtest.Logger())
	feed.backoff = 0

	report, err := feed.Sync(context.Background())
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if report.Imported != 2 {
		t.Errorf("Expected 2 imported, got %d", report.Imported)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected 2 requests, got %d", got)
	}
}

func TestFeedSyncGivesUp(t *testing.T) {
	s := newTestServices(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	feed := NewFeedService(&config.FeedConfig{URL: srv.URL, RetryCount: 1}, s.imp, dbtest.Logger())
	feed.backoff = 0
	if _, err := feed.Sync(context.Background()); err == nil {
		t.Errorf("Expected error after retries")
	}
}

func TestFeedDisabled(t *testing.T) {
	s := newTestServices(t)
	feed := NewFeedService(&config.FeedConfig{}, s.imp, dbtest.Logger())
	if feed.Enabled() {
		t.Errorf("Expected feed without URL to be disabled")
	}
	if _, err := feed.Sync(context.Background()); !errors.Is(err, ErrFeedDisabled) {
		t.Errorf("Expected ErrFeedDisabled, got %v", err)
	}
}
