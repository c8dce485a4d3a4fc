package service

import (
	"context"
	"errors"
	"fmt"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// DrawService 开奖查询
type DrawService struct {
	repo   repository.DrawRepository
	logger *logrus.Logger
}

// NewDrawService 创建 DrawService
func NewDrawService(repo repository.DrawRepository, logger *logrus.Logger) *DrawService {
	return &DrawService{repo: repo, logger: logger}
}

// List 分页列表
func (s *DrawService) List(ctx context.Context, filter repository.DrawFilter, page, pageSize int) (*Page, error) {
	page, pageSize = pageBounds(page, pageSize)
	draws, total, err := s.repo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("查询开奖列表失败: %w", err)
	}
	return &Page{Items: draws, Total: total, Page: page, PageSize: pageSize}, nil
}

// Get 单期开奖
func (s *DrawService) Get(ctx context.Context, id uint64) (*model.Draw, error) {
	draw, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "draw")
	}
	return draw, nil
}

// Latest 最新一期，库为空时返回 no_draws
func (s *DrawService) Latest(ctx context.Context) (*model.Draw, error) {
	draw, err := s.repo.Latest(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NoDraws()
	}
	if err != nil {
		return nil, fmt.Errorf("查询最新开奖失败: %w", err)
	}
	return draw, nil
}

// ByYear 每年期数
func (s *DrawService) ByYear(ctx context.Context) ([]repository.YearCount, error) {
	rows, err := s.repo.CountByYear(ctx)
	if err != nil {
		return nil, fmt.Errorf("按年统计失败: %w", err)
	}
	return rows, nil
}

// Recent 最近 n 期，最新在前
func (s *DrawService) Recent(ctx context.Context, n int) ([]*model.Draw, error) {
	draws, _, err := s.repo.List(ctx, repository.DrawFilter{}, 1, n)
	if err != nil {
		return nil, fmt.Errorf("查询最近开奖失败: %w", err)
	}
	return draws, nil
}
