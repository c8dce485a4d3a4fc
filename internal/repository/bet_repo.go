package repository

import (
	"context"

	"EuroAnalyzer/internal/model"

	"gorm.io/gorm"
)

// BetFilter 生成记录筛选条件
type BetFilter struct {
	UserID   *uint64
	Strategy string
}

// BetRepository 生成投注与复式投注持久化
type BetRepository interface {
	CreateBets(ctx context.Context, bets []*model.GeneratedBet) error
	ListBets(ctx context.Context, filter BetFilter, page, pageSize int) ([]*model.GeneratedBet, int64, error)
	GetBet(ctx context.Context, id uint64) (*model.GeneratedBet, error)
	// SaveVerification 回写核对结果字段
	SaveVerification(ctx context.Context, bet *model.GeneratedBet) error
	CreateMultiple(ctx context.Context, bet *model.MultipleBet) error
	GetMultiple(ctx context.Context, id uint64) (*model.MultipleBet, error)
	ListMultiple(ctx context.Context, userID *uint64, page, pageSize int) ([]*model.MultipleBet, int64, error)
}

type betRepository struct {
	db *gorm.DB
}

// NewBetRepository 创建投注仓储
func NewBetRepository(db *gorm.DB) BetRepository {
	return &betRepository{db: db}
}

func (r *betRepository) CreateBets(ctx context.Context, bets []*model.GeneratedBet) error {
	if len(bets) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&bets).Error
}

func (r *betRepository) ListBets(ctx context.Context, filter BetFilter, page, pageSize int) ([]*model.GeneratedBet, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	db := r.db.WithContext(ctx).Model(&model.GeneratedBet{})
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Strategy != "" {
		db = db.Where("strategy = ?", filter.Strategy)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bets []*model.GeneratedBet
	if err := db.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bets).Error; err != nil {
		return nil, 0, err
	}
	return bets, total, nil
}

func (r *betRepository) GetBet(ctx context.Context, id uint64) (*model.GeneratedBet, error) {
	var bet model.GeneratedBet
	if err := r.db.WithContext(ctx).First(&bet, id).Error; err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *betRepository) SaveVerification(ctx context.Context, bet *model.GeneratedBet) error {
	return r.db.WithContext(ctx).Model(&model.GeneratedBet{}).
		Where("id = ?", bet.ID).
		Updates(map[string]interface{}{
			"matched_numbers":  bet.MatchedNumbers,
			"matched_stars":    bet.MatchedStars,
			"verified_draw_id": bet.VerifiedDrawID,
			"prize_tier":       bet.PrizeTier,
		}).Error
}

func (r *betRepository) CreateMultiple(ctx context.Context, bet *model.MultipleBet) error {
	return r.db.WithContext(ctx).Create(bet).Error
}

func (r *betRepository) GetMultiple(ctx context.Context, id uint64) (*model.MultipleBet, error) {
	var bet model.MultipleBet
	if err := r.db.WithContext(ctx).First(&bet, id).Error; err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *betRepository) ListMultiple(ctx context.Context, userID *uint64, page, pageSize int) ([]*model.MultipleBet, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	db := r.db.WithContext(ctx).Model(&model.MultipleBet{})
	if userID != nil {
		db = db.Where("user_id = ?", *userID)
	}
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bets []*model.MultipleBet
	if err := db.Order("created_at DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&bets).Error; err != nil {
		return nil, 0, err
	}
	return bets, total, nil
}
