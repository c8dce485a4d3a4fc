package service

import (
	"context"
	"strings"
	"testing"

	"EuroAnalyzer/internal/database/dbtest"
	"EuroAnalyzer/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const sampleCSV = `data,n1,n2,n3,n4,n5,e1,e2,jackpot,vencedor
2024-01-05,7,14,21,28,35,2,11,17000000,1
2024-01-09,4,11,19,33,47,5,9,"€45,000,000.00",0
`

type testServices struct {
	draws  *DrawService
	stats  *StatisticsService
	bets   *BetService
	imp    *ImportService
	auth   *AuthService
	alerts *AlertService
	users  repository.UserRepository
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := dbtest.Open(t)
	log := dbtest.Logger()
	drawRepo := repository.NewDrawRepository(db)
	userRepo := repository.NewUserRepository(db)
	stats := NewStatisticsService(drawRepo, repository.NewStatisticsRepository(db), log)
	return &testServices{
		draws:  NewDrawService(drawRepo, log),
		stats:  stats,
		bets:   NewBetService(drawRepo, repository.NewBetRepository(db), NewRandSource(42), log),
		imp:    NewImportService(drawRepo, stats, log),
		auth:   NewAuthService(userRepo, bcrypt.MinCost, log),
		alerts: NewAlertService(userRepo, drawRepo, stats, log),
		users:  userRepo,
	}
}

func (s *testServices) seed(t *testing.T) {
	t.Helper()
	report, err := s.imp.ImportCSV(context.Background(), strings.NewReader(sampleCSV), true)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if report.Imported != 2 || !report.Refreshed {
		t.Fatalf("Expected 2 imported and refreshed, got %+v", report)
	}
}
