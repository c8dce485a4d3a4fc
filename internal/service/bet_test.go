package service

import (
	"context"
	"fmt"
	"testing"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/repository"
)

func TestGenerateNeedsDraws(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.bets.Generate(ctx, GenerateRequest{Strategy: "frequency", Quantity: 1})
	if apperr.CodeOf(err) != apperr.CodeNoDraws {
		t.Errorf("Expected no_draws, got %v", err)
	}

	bets, err := s.bets.Generate(ctx, GenerateRequest{Strategy: "random", Quantity: 2})
	if err != nil {
		t.Fatalf("random Generate failed: %v", err)
	}
	if len(bets) != 2 {
		t.Errorf("Expected 2 bets, got %d", len(bets))
	}
}

func TestGenerateStoresBets(t *testing.T) {
	s := newTestServices(t)
	s.seed(t)
	ctx := context.Background()

	bets, err := s.bets.Generate(ctx, GenerateRequest{Strategy: "balanced", Quantity: 5})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	seen := make(map[string]bool)
	for _, b := range bets {
		key := fmt.Sprint(b.Numbers(), b.Stars())
		if seen[key] {
			t.Errorf("Duplicate bet %s", key)
		}
		seen[key] = true
		if b.BetUUID == "" {
			t.Errorf("Expected bet UUID to be set")
		}
	}

	page, err := s.bets.List(ctx, repository.BetFilter{Strategy: "balanced"}, 1, 20)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("Expected 5 stored bets, got %d", page.Total)
	}

	if _, err := s.bets.Generate(ctx, GenerateRequest{Strategy: "balanced", Quantity: 11}); apperr.CodeOf(err) != apperr.CodeInvalidPayload {
		t.Errorf("Expected invalid_payload for quantity 11, got %v", err)
	}
	if _, err := s.bets.Generate(ctx, GenerateRequest{Strategy: "tarot"}); apperr.CodeOf(err) != apperr.CodeInvalidStrategy {
		t.Errorf("Expected invalid_strategy, got %v", err)
	}
}

func TestVerifyExactMatch(t *testing.T) {
	s := newTestServices(t)
	s.seed(t)

	v, err := s.bets.Verify(context.Background(), []int{47, 33, 19, 11, 4}, []int{9, 5}, nil)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if v.Prize.Rank != 1 || v.NumberHits != 5 || v.StarHits != 2 {
		t.Errorf("Expected jackpot, got %+v", v)
	}
	if v.DrawDate != "2024-01-09" {
		t.Errorf("Expected verification against latest draw, got %s", v.DrawDate)
	}

	missing := uint64(999)
	if _, err := s.bets.Verify(context.Background(), []int{1, 2, 3, 4, 5}, []int{1, 2}, &missing); apperr.CodeOf(err) != apperr.CodeNotFound {
		t.Errorf("Expected not_found for unknown draw, got %v", err)
	}
}

func TestMultipleBet(t *testing.T) {
	s := newTestServices(t)
	s.seed(t)
	ctx := context.Background()

	bet, err := s.bets.CreateMultiple(ctx, MultipleRequest{Numbers: []int{1, 4, 11, 19, 33, 47}, Stars: []int{5, 9}})
	if err != nil {
		t.Fatalf("CreateMultiple failed: %v", err)
	}
	mv, err := s.bets.VerifyMultiple(ctx, bet.ID, nil)
	if err != nil {
		t.Fatalf("VerifyMultiple failed: %v", err)
	}
	if mv.Combinations != 6 {
		t.Errorf("Expected 6 combinations, got %d", mv.Combinations)
	}
	if mv.BestPrize.Rank != 1 {
		t.Errorf("Expected best prize rank 1, got %d", mv.BestPrize.Rank)
	}
}

func TestSimulate(t *testing.T) {
	s := newTestServices(t)
	s.seed(t)

	sim, err := s.bets.Simulate(context.Background(), []int{7, 14, 21, 28, 35}, []int{2, 11})
	if err != nil {
		t.Fatalf("Simulate failed: %v", err)
	}
	if sim.TotalDraws != 2 || sim.Wins != 1 || sim.BestPrize.Rank != 1 {
		t.Errorf("Unexpected simulation %+v", sim)
	}
}
