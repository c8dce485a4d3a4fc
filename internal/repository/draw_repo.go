package repository

import (
	"context"
	"fmt"
	"time"

	"EuroAnalyzer/internal/model"

	"gorm.io/gorm"
)

// DrawFilter 开奖列表筛选条件，零值表示不过滤
type DrawFilter struct {
	From   *time.Time
	To     *time.Time
	Year   int
	Month  int
	Number int
	Star   int
	Winner *bool
}

// YearCount 每年开奖期数
type YearCount struct {
	Year  int `json:"year"`
	Draws int `json:"draws"`
}

// DrawRepository 开奖记录仓储
type DrawRepository interface {
	// List 按过滤条件分页查询，最新的在前
	List(ctx context.Context, filter DrawFilter, page, pageSize int) ([]*model.Draw, int64, error)
	GetByID(ctx context.Context, id uint64) (*model.Draw, error)
	// Latest 日期最新的一期
	Latest(ctx context.Context) (*model.Draw, error)
	// First 日期最早的一期
	First(ctx context.Context) (*model.Draw, error)
	// ListAll 全部开奖，按日期升序
	ListAll(ctx context.Context) ([]model.Draw, error)
	// ListBetween 闭区间 [from, to] 内的开奖，边界可为空
	ListBetween(ctx context.Context, from, to *time.Time) ([]model.Draw, error)
	Count(ctx context.Context) (int64, error)
	CountByYear(ctx context.Context) ([]YearCount, error)
	// ExistingDates 返回已入库的日期（YYYY-MM-DD）
	ExistingDates(ctx context.Context, dates []time.Time) (map[string]bool, error)
	// InsertNew 单事务写入，日期或期号已存在的跳过并计为重复；任一写入失败整批回滚
	InsertNew(ctx context.Context, draws []model.Draw) (inserted []model.Draw, duplicates int, err error)
}

type drawRepository struct {
	db *gorm.DB
}

// NewDrawRepository 创建 DrawRepository 实例
func NewDrawRepository(db *gorm.DB) DrawRepository {
	return &drawRepository{db: db}
}

func (r *drawRepository) applyFilter(db *gorm.DB, filter DrawFilter) *gorm.DB {
	if filter.From != nil {
		db = db.Where("draw_date >= ?", model.NormalizeDate(*filter.From))
	}
	if filter.To != nil {
		db = db.Where("draw_date <= ?", model.NormalizeDate(*filter.To))
	}
	if filter.Year > 0 {
		start := time.Date(filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		db = db.Where("draw_date >= ? AND draw_date < ?", start, start.AddDate(1, 0, 0))
	}
	if filter.Month >= 1 && filter.Month <= 12 {
		db = db.Where(datePart(r.db, "MONTH", "draw_date")+" = ?", filter.Month)
	}
	if filter.Number > 0 {
		n := filter.Number
		db = db.Where("(n1 = ? OR n2 = ? OR n3 = ? OR n4 = ? OR n5 = ?)", n, n, n, n, n)
	}
	if filter.Star > 0 {
		db = db.Where("(s1 = ? OR s2 = ?)", filter.Star, filter.Star)
	}
	if filter.Winner != nil {
		db = db.Where("has_winner = ?", *filter.Winner)
	}
	return db
}

func (r *drawRepository) List(ctx context.Context, filter DrawFilter, page, pageSize int) ([]*model.Draw, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Draw{}), filter)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var draws []*model.Draw
	if err := db.
		Order("draw_date DESC, id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&draws).Error; err != nil {
		return nil, 0, err
	}
	return draws, total, nil
}

func (r *drawRepository) GetByID(ctx context.Context, id uint64) (*model.Draw, error) {
	var draw model.Draw
	if err := r.db.WithContext(ctx).First(&draw, id).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

func (r *drawRepository) Latest(ctx context.Context) (*model.Draw, error) {
	var draw model.Draw
	if err := r.db.WithContext(ctx).Order("draw_date DESC, id DESC").First(&draw).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

func (r *drawRepository) First(ctx context.Context) (*model.Draw, error) {
	var draw model.Draw
	if err := r.db.WithContext(ctx).Order("draw_date ASC, id ASC").First(&draw).Error; err != nil {
		return nil, err
	}
	return &draw, nil
}

func (r *drawRepository) ListAll(ctx context.Context) ([]model.Draw, error) {
	return r.ListBetween(ctx, nil, nil)
}

func (r *drawRepository) ListBetween(ctx context.Context, from, to *time.Time) ([]model.Draw, error) {
	db := r.applyFilter(r.db.WithContext(ctx).Model(&model.Draw{}), DrawFilter{From: from, To: to})
	var draws []model.Draw
	if err := db.Order("draw_date ASC, id ASC").Find(&draws).Error; err != nil {
		return nil, err
	}
	return draws, nil
}

func (r *drawRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Draw{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *drawRepository) CountByYear(ctx context.Context) ([]YearCount, error) {
	yearExpr := datePart(r.db, "YEAR", "draw_date")
	var rows []YearCount
	if err := r.db.WithContext(ctx).Model(&model.Draw{}).
		Select(yearExpr + " AS year, COUNT(*) AS draws").
		Group(yearExpr).
		Order(yearExpr + " ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *drawRepository) ExistingDates(ctx context.Context, dates []time.Time) (map[string]bool, error) {
	return existingDates(r.db.WithContext(ctx), dates)
}

func existingDates(db *gorm.DB, dates []time.Time) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(dates) == 0 {
		return out, nil
	}
	normalized := make([]time.Time, len(dates))
	for i, d := range dates {
		normalized[i] = model.NormalizeDate(d)
	}
	var found []model.Draw
	if err := db.Model(&model.Draw{}).Select("draw_date").Where("draw_date IN ?", normalized).Find(&found).Error; err != nil {
		return nil, err
	}
	for _, d := range found {
		out[d.DrawDate.Format("2006-01-02")] = true
	}
	return out, nil
}

func existingContests(db *gorm.DB, contests []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if len(contests) == 0 {
		return out, nil
	}
	var found []string
	if err := db.Model(&model.Draw{}).Where("contest IN ?", contests).Pluck("contest", &found).Error; err != nil {
		return nil, err
	}
	for _, c := range found {
		out[c] = true
	}
	return out, nil
}

func (r *drawRepository) InsertNew(ctx context.Context, draws []model.Draw) ([]model.Draw, int, error) {
	if len(draws) == 0 {
		return nil, 0, nil
	}

	// 开启事务
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, 0, fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	dates := make([]time.Time, 0, len(draws))
	contests := make([]string, 0, len(draws))
	for _, d := range draws {
		dates = append(dates, d.DrawDate)
		if d.Contest != nil && *d.Contest != "" {
			contests = append(contests, *d.Contest)
		}
	}
	seenDates, err := existingDates(tx, dates)
	if err != nil {
		tx.Rollback()
		return nil, 0, fmt.Errorf("查询已有日期失败: %w", err)
	}
	seenContests, err := existingContests(tx, contests)
	if err != nil {
		tx.Rollback()
		return nil, 0, fmt.Errorf("查询已有期号失败: %w", err)
	}

	inserted := make([]model.Draw, 0, len(draws))
	duplicates := 0
	for i := range draws {
		d := draws[i]
		day := model.NormalizeDate(d.DrawDate).Format("2006-01-02")
		contest := ""
		if d.Contest != nil {
			contest = *d.Contest
		}
		if seenDates[day] || (contest != "" && seenContests[contest]) {
			duplicates++
			continue
		}
		if err := tx.Create(&d).Error; err != nil {
			tx.Rollback()
			return nil, 0, fmt.Errorf("保存开奖失败: %w, date: %s", err, day)
		}
		seenDates[day] = true
		if contest != "" {
			seenContests[contest] = true
		}
		inserted = append(inserted, d)
	}

	// 提交事务
	if err := tx.Commit().Error; err != nil {
		return nil, 0, fmt.Errorf("提交事务失败: %w", err)
	}
	return inserted, duplicates, nil
}
