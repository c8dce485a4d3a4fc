package service

import (
	"context"
	"fmt"
	"math/rand"

	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"

	"github.com/sirupsen/logrus"
)

// PredictionService 打分排行、预测与回测
type PredictionService struct {
	draws  repository.DrawRepository
	rnd    *RandSource
	logger *logrus.Logger
}

// NewPredictionService 创建 PredictionService；rnd 为空时按时间取种
func NewPredictionService(draws repository.DrawRepository, rnd *RandSource, logger *logrus.Logger) *PredictionService {
	if rnd == nil {
		rnd = NewRandSource(0)
	}
	return &PredictionService{draws: draws, rnd: rnd, logger: logger}
}

func (s *PredictionService) loadAll(ctx context.Context) ([]model.Draw, error) {
	draws, err := s.draws.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("加载开奖失败: %w", err)
	}
	return draws, nil
}

// Predict 策略名未知时返回 invalid_strategy，无开奖时返回 no_draws
func (s *PredictionService) Predict(ctx context.Context, strategyName string) (*lottery.Prediction, error) {
	strategy, err := lottery.ParseStrategy(strategyName)
	if err != nil {
		return nil, err
	}
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	scorer := lottery.NewScorer(draws)

	var prediction *lottery.Prediction
	err = s.rnd.With(func(rnd *rand.Rand) error {
		var e error
		prediction, e = lottery.NewGenerator(scorer, rnd).Predict(strategy)
		return e
	})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"strategy":   strategy,
		"numbers":    prediction.Numbers,
		"stars":      prediction.Stars,
		"confidence": prediction.Confidence,
	}).Debug("生成预测")
	return prediction, nil
}

// Ranking 全部号码与星号的得分排行
type Ranking struct {
	TotalDraws int                   `json:"total_draws"`
	Numbers    []lottery.RankedValue `json:"numbers"`
	Stars      []lottery.RankedValue `json:"stars"`
	Disclaimer string                `json:"disclaimer"`
}

// Ranking 默认权重下的排行
func (s *PredictionService) Ranking(ctx context.Context) (*Ranking, error) {
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	scorer := lottery.NewScorer(draws)
	return &Ranking{
		TotalDraws: scorer.TotalDraws(),
		Numbers:    scorer.RankNumbers(),
		Stars:      scorer.RankStars(),
		Disclaimer: lottery.Disclaimer,
	}, nil
}

// Precision 历史回测
func (s *PredictionService) Precision(ctx context.Context, window int) (*lottery.PrecisionReport, error) {
	draws, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return lottery.Backtest(draws, window)
}
