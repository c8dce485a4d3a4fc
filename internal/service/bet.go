package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// BetService 生成、核对与模拟投注
type BetService struct {
	draws  repository.DrawRepository
	bets   repository.BetRepository
	rnd    *RandSource
	logger *logrus.Logger
}

// NewBetService 创建 BetService；rnd 为空时按时间取种
func NewBetService(draws repository.DrawRepository, bets repository.BetRepository, rnd *RandSource, logger *logrus.Logger) *BetService {
	if rnd == nil {
		rnd = NewRandSource(0)
	}
	return &BetService{draws: draws, bets: bets, rnd: rnd, logger: logger}
}

// GenerateRequest 生成请求，Quantity 为 0 时生成 1 注
type GenerateRequest struct {
	Strategy string  `json:"strategy"`
	Quantity int     `json:"quantity"`
	UserID   *uint64 `json:"-"`
}

type pickScores struct {
	Numbers map[int]float64 `json:"numbers"`
	Stars   map[int]float64 `json:"stars"`
}

// Generate 生成互不相同的若干注并入库；除 random 外需要历史开奖
func (s *BetService) Generate(ctx context.Context, req GenerateRequest) ([]*model.GeneratedBet, error) {
	strategy, err := lottery.ParseStrategy(req.Strategy)
	if err != nil {
		return nil, err
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 || req.Quantity > lottery.MaxQuantity {
		return nil, apperr.InvalidPayload("quantity must be between 1 and %d", lottery.MaxQuantity)
	}
	draws, err := s.draws.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载开奖失败: %w", err)
	}
	if len(draws) == 0 && strategy != lottery.StrategyRandom {
		return nil, apperr.NoDraws()
	}
	scorer := lottery.NewScorer(draws)

	var picks []lottery.Pick
	err = s.rnd.With(func(rnd *rand.Rand) error {
		var e error
		picks, e = lottery.NewGenerator(scorer, rnd).GenerateUnique(strategy, req.Quantity)
		return e
	})
	if err != nil {
		return nil, err
	}

	bets := make([]*model.GeneratedBet, 0, len(picks))
	for _, p := range picks {
		bet := &model.GeneratedBet{
			BetUUID:  uuid.NewString(),
			Strategy: string(strategy),
			UserID:   req.UserID,
		}
		bet.SetPick(p.Numbers, p.Stars)
		raw, err := json.Marshal(pickScores{Numbers: p.NumberScores, Stars: p.StarScores})
		if err != nil {
			return nil, fmt.Errorf("编码号码得分失败: %w", err)
		}
		bet.Scores = datatypes.JSON(raw)
		bets = append(bets, bet)
	}
	if err := s.bets.CreateBets(ctx, bets); err != nil {
		return nil, fmt.Errorf("保存生成投注失败: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"strategy": strategy, "quantity": len(bets)}).Info("生成投注完成")
	return bets, nil
}

// List 分页列出生成记录
func (s *BetService) List(ctx context.Context, filter repository.BetFilter, page, pageSize int) (*Page, error) {
	page, pageSize = pageBounds(page, pageSize)
	bets, total, err := s.bets.ListBets(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询生成投注失败: %w", err)
	}
	return &Page{Items: bets, Total: total, Page: page, PageSize: pageSize}, nil
}

// targetDraw drawID 为空取最新一期
func (s *BetService) targetDraw(ctx context.Context, drawID *uint64) (*model.Draw, error) {
	if drawID != nil {
		draw, err := s.draws.GetByID(ctx, *drawID)
		if err != nil {
			return nil, notFound(err, "draw")
		}
		return draw, nil
	}
	draw, err := s.draws.Latest(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NoDraws()
	}
	if err != nil {
		return nil, fmt.Errorf("查询最新开奖失败: %w", err)
	}
	return draw, nil
}

// Verify 核对一注号码
func (s *BetService) Verify(ctx context.Context, numbers, stars []int, drawID *uint64) (*lottery.Verification, error) {
	if err := lottery.ValidatePick(numbers, stars); err != nil {
		return nil, err
	}
	draw, err := s.targetDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	v := lottery.Verify(numbers, stars, *draw)
	return &v, nil
}

// VerifyStored 核对已生成的投注并回写结果
func (s *BetService) VerifyStored(ctx context.Context, betID uint64, drawID *uint64) (*lottery.Verification, error) {
	bet, err := s.bets.GetBet(ctx, betID)
	if err != nil {
		return nil, notFound(err, "bet")
	}
	draw, err := s.targetDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	v := lottery.Verify(bet.Numbers(), bet.Stars(), *draw)

	tier := v.Prize.Rank
	bet.MatchedNumbers, bet.MatchedStars = &v.NumberHits, &v.StarHits
	bet.VerifiedDrawID, bet.PrizeTier = &draw.ID, &tier
	if err := s.bets.SaveVerification(ctx, bet); err != nil {
		return nil, fmt.Errorf("保存核对结果失败: %w", err)
	}
	return &v, nil
}

// Simulate 用一注号码回放全部历史
func (s *BetService) Simulate(ctx context.Context, numbers, stars []int) (*lottery.Simulation, error) {
	if err := lottery.ValidatePick(numbers, stars); err != nil {
		return nil, err
	}
	draws, err := s.draws.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载开奖失败: %w", err)
	}
	if len(draws) == 0 {
		return nil, apperr.NoDraws()
	}
	sim := lottery.Simulate(numbers, stars, draws)
	return &sim, nil
}

// MultipleRequest 复式投注请求
type MultipleRequest struct {
	Numbers  []int   `json:"numbers"`
	Stars    []int   `json:"stars"`
	Strategy string  `json:"strategy"`
	UserID   *uint64 `json:"-"`
}

// CreateMultiple 保存复式投注，注数 C(n,5)×C(s,2)
func (s *BetService) CreateMultiple(ctx context.Context, req MultipleRequest) (*model.MultipleBet, error) {
	if err := lottery.ValidateMultiple(req.Numbers, req.Stars); err != nil {
		return nil, err
	}
	if req.Strategy == "" {
		req.Strategy = "manual"
	}
	count := lottery.MultipleCount(len(req.Numbers), len(req.Stars))
	bet := &model.MultipleBet{
		BetUUID:      uuid.NewString(),
		Strategy:     req.Strategy,
		Combinations: count,
		TotalCost:    lottery.MultipleCost(count),
		UserID:       req.UserID,
	}
	if err := bet.SetPick(lottery.Sorted(req.Numbers), lottery.Sorted(req.Stars)); err != nil {
		return nil, err
	}
	if err := s.bets.CreateMultiple(ctx, bet); err != nil {
		return nil, fmt.Errorf("保存复式投注失败: %w", err)
	}
	return bet, nil
}

// VerifyMultiple 展开复式投注逐注核对
func (s *BetService) VerifyMultiple(ctx context.Context, id uint64, drawID *uint64) (*lottery.MultipleVerification, error) {
	bet, err := s.bets.GetMultiple(ctx, id)
	if err != nil {
		return nil, notFound(err, "multiple bet")
	}
	draw, err := s.targetDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	v := lottery.VerifyMultiple(bet.Numbers(), bet.Stars(), *draw)
	return &v, nil
}
