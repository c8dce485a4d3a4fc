package repository

import (
	"context"
	"fmt"

	"EuroAnalyzer/internal/model"

	"gorm.io/gorm"
)

// 排行类型，与统计接口的 hot/cold/overdue 对应
const (
	TopHot     = "hot"
	TopCold    = "cold"
	TopOverdue = "overdue"
)

// statOrders 列表排序白名单，值为 ORDER BY 子句前缀；"-" 前缀表示降序
var statOrders = map[string]string{
	"frequency":         "frequency ASC",
	"-frequency":        "frequency DESC",
	"draws_since_last":  "draws_since_last ASC",
	"-draws_since_last": "draws_since_last DESC",
	"deviation":         "expected_deviation ASC",
	"-deviation":        "expected_deviation DESC",
}

// StatisticsRepository 号码/星号统计快照仓储
type StatisticsRepository interface {
	// ReplaceSnapshot 单事务内整表替换号码、星号统计及快照元数据
	ReplaceSnapshot(ctx context.Context, meta model.SnapshotMeta, numbers []model.NumberStatistic, stars []model.StarStatistic) error
	// GetMeta 最近一次重算的元数据，从未重算时返回 gorm.ErrRecordNotFound
	GetMeta(ctx context.Context) (*model.SnapshotMeta, error)
	// ListNumbers order 取 statOrders 中的键，未知或为空时按号码升序
	ListNumbers(ctx context.Context, order string) ([]model.NumberStatistic, error)
	GetNumber(ctx context.Context, number int) (*model.NumberStatistic, error)
	ListStars(ctx context.Context, order string) ([]model.StarStatistic, error)
	GetStar(ctx context.Context, star int) (*model.StarStatistic, error)
	// TopNumbers kind 为 hot/cold/overdue，同值按号码升序
	TopNumbers(ctx context.Context, kind string, limit int) ([]model.NumberStatistic, error)
	TopStars(ctx context.Context, kind string, limit int) ([]model.StarStatistic, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

// NewStatisticsRepository 创建 StatisticsRepository 实例
func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

func (r *statisticsRepository) ReplaceSnapshot(ctx context.Context, meta model.SnapshotMeta, numbers []model.NumberStatistic, stars []model.StarStatistic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&model.SnapshotMeta{}).Error; err != nil {
			return fmt.Errorf("清空快照元数据失败: %w", err)
		}
		if err := all.Delete(&model.NumberStatistic{}).Error; err != nil {
			return fmt.Errorf("清空号码统计失败: %w", err)
		}
		if err := all.Delete(&model.StarStatistic{}).Error; err != nil {
			return fmt.Errorf("清空星号统计失败: %w", err)
		}
		if len(numbers) > 0 {
			if err := tx.CreateInBatches(&numbers, 100).Error; err != nil {
				return fmt.Errorf("写入号码统计失败: %w", err)
			}
		}
		if len(stars) > 0 {
			if err := tx.CreateInBatches(&stars, 100).Error; err != nil {
				return fmt.Errorf("写入星号统计失败: %w", err)
			}
		}
		meta.ID = model.SnapshotMetaID
		if err := tx.Create(&meta).Error; err != nil {
			return fmt.Errorf("写入快照元数据失败: %w", err)
		}
		return nil
	})
}

func (r *statisticsRepository) GetMeta(ctx context.Context) (*model.SnapshotMeta, error) {
	var meta model.SnapshotMeta
	if err := r.db.WithContext(ctx).Where("id = ?", model.SnapshotMetaID).First(&meta).Error; err != nil {
		return nil, err
	}
	return &meta, nil
}

func orderClause(order, column string) string {
	if prefix, ok := statOrders[order]; ok {
		return prefix + ", " + column + " ASC"
	}
	return column + " ASC"
}

func topClause(kind, column string) (string, error) {
	switch kind {
	case TopHot:
		return "frequency DESC, " + column + " ASC", nil
	case TopCold:
		return "frequency ASC, " + column + " ASC", nil
	case TopOverdue:
		return "draws_since_last DESC, " + column + " ASC", nil
	default:
		return "", fmt.Errorf("未知排行类型: %s", kind)
	}
}

func (r *statisticsRepository) ListNumbers(ctx context.Context, order string) ([]model.NumberStatistic, error) {
	var stats []model.NumberStatistic
	if err := r.db.WithContext(ctx).Order(orderClause(order, "number")).Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statisticsRepository) GetNumber(ctx context.Context, number int) (*model.NumberStatistic, error) {
	var stat model.NumberStatistic
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&stat).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *statisticsRepository) ListStars(ctx context.Context, order string) ([]model.StarStatistic, error) {
	var stats []model.StarStatistic
	if err := r.db.WithContext(ctx).Order(orderClause(order, "star")).Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statisticsRepository) GetStar(ctx context.Context, star int) (*model.StarStatistic, error) {
	var stat model.StarStatistic
	if err := r.db.WithContext(ctx).Where("star = ?", star).First(&stat).Error; err != nil {
		return nil, err
	}
	return &stat, nil
}

func (r *statisticsRepository) TopNumbers(ctx context.Context, kind string, limit int) ([]model.NumberStatistic, error) {
	order, err := topClause(kind, "number")
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx).Order(order)
	if limit > 0 {
		db = db.Limit(limit)
	}
	var stats []model.NumberStatistic
	if err := db.Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *statisticsRepository) TopStars(ctx context.Context, kind string, limit int) ([]model.StarStatistic, error) {
	order, err := topClause(kind, "star")
	if err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx).Order(order)
	if limit > 0 {
		db = db.Limit(limit)
	}
	var stats []model.StarStatistic
	if err := db.Find(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}
