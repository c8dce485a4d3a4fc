package repository

import (
	"context"
	"testing"

	"EuroAnalyzer/internal/database/dbtest"
	"EuroAnalyzer/internal/model"

	"github.com/shopspring/decimal"
)

func TestBetRepositoryGeneratedBets(t *testing.T) {
	ctx := context.Background()
	repo := NewBetRepository(dbtest.Open(t))

	var bets []*model.GeneratedBet
	for i, strategy := range []string{"frequency", "random", "random"} {
		b := &model.GeneratedBet{BetUUID: string(rune('a' + i)), Strategy: strategy}
		b.SetPick([]int{5, 4, 3, 2, 1 + i*10}, []int{2, 1})
		bets = append(bets, b)
	}
	if err := repo.CreateBets(ctx, bets); err != nil {
		t.Fatalf("CreateBets failed: %v", err)
	}
	if bets[0].ID == 0 {
		t.Fatal("Expected IDs to be assigned")
	}

	list, total, err := repo.ListBets(ctx, BetFilter{Strategy: "random"}, 1, 20)
	if err != nil {
		t.Fatalf("ListBets failed: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("Expected 2 random bets, got %d", total)
	}

	matched, stars, tier, drawID := 3, 1, 9, uint64(42)
	bets[0].MatchedNumbers, bets[0].MatchedStars, bets[0].PrizeTier, bets[0].VerifiedDrawID = &matched, &stars, &tier, &drawID
	if err := repo.SaveVerification(ctx, bets[0]); err != nil {
		t.Fatalf("SaveVerification failed: %v", err)
	}
	stored, err := repo.GetBet(ctx, bets[0].ID)
	if err != nil {
		t.Fatalf("GetBet failed: %v", err)
	}
	if stored.PrizeTier == nil || *stored.PrizeTier != 9 || *stored.VerifiedDrawID != 42 {
		t.Errorf("Expected verification saved, got %+v", stored)
	}
	if n := stored.Numbers(); n[0] != 1 || n[4] != 5 {
		t.Errorf("Expected sorted numbers, got %v", n)
	}
}

func TestBetRepositoryMultiple(t *testing.T) {
	ctx := context.Background()
	repo := NewBetRepository(dbtest.Open(t))

	bet := &model.MultipleBet{BetUUID: "m1", Strategy: "manual", Combinations: 6, TotalCost: decimal.RequireFromString("15.00")}
	if err := bet.SetPick([]int{1, 2, 3, 4, 5, 6}, []int{1, 2}); err != nil {
		t.Fatalf("SetPick failed: %v", err)
	}
	if err := repo.CreateMultiple(ctx, bet); err != nil {
		t.Fatalf("CreateMultiple failed: %v", err)
	}
	stored, err := repo.GetMultiple(ctx, bet.ID)
	if err != nil {
		t.Fatalf("GetMultiple failed: %v", err)
	}
	if len(stored.Numbers()) != 6 || len(stored.Stars()) != 2 {
		t.Errorf("Expected 6+2 values, got %v %v", stored.Numbers(), stored.Stars())
	}
	if !stored.TotalCost.Equal(decimal.RequireFromString("15")) {
		t.Errorf("Expected cost 15, got %s", stored.TotalCost)
	}
	list, total, _ := repo.ListMultiple(ctx, nil, 1, 20)
	if total != 1 || len(list) != 1 {
		t.Errorf("Expected 1 multiple bet, got %d", total)
	}
}

func TestBetRepositoryMultipleCorruptJSON(t *testing.T) {
	ctx := context.Background()
	db := dbtest.Open(t)
	repo := NewBetRepository(db)

	bet := &model.MultipleBet{BetUUID: "m2", Strategy: "manual", Combinations: 6, TotalCost: decimal.RequireFromString("15.00")}
	if err := bet.SetPick([]int{1, 2, 3, 4, 5, 6}, []int{1, 2}); err != nil {
		t.Fatalf("SetPick failed: %v", err)
	}
	if err := repo.CreateMultiple(ctx, bet); err != nil {
		t.Fatalf("CreateMultiple failed: %v", err)
	}
	if err := db.Exec("UPDATE multiple_bets SET numbers = ? WHERE id = ?", "[1,2", bet.ID).Error; err != nil {
		t.Fatalf("corrupting row failed: %v", err)
	}
	if _, err := repo.GetMultiple(ctx, bet.ID); err == nil {
		t.Error("Expected error for malformed numbers JSON")
	}
}
