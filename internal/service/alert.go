package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/lottery"
	"EuroAnalyzer/internal/model"
	"EuroAnalyzer/internal/repository"

	"github.com/asaskevich/govalidator"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	maxAlertDays     = 365
	minAlertJackpot  = 1000000
	maxAlertsPerUser = 20
)

// AlertService 收藏号码与提醒
type AlertService struct {
	users  repository.UserRepository
	draws  repository.DrawRepository
	stats  *StatisticsService
	logger *logrus.Logger
	now    func() time.Time
}

// NewAlertService 创建 AlertService
func NewAlertService(users repository.UserRepository, draws repository.DrawRepository, stats *StatisticsService, logger *logrus.Logger) *AlertService {
	return &AlertService{users: users, draws: draws, stats: stats, logger: logger, now: time.Now}
}

// Favourites 收藏与提醒开关
type Favourites struct {
	Numbers       []int  `json:"numbers"`
	Stars         []int  `json:"stars"`
	AlertsEnabled bool   `json:"alerts_enabled"`
	AlertEmail    string `json:"alert_email"`
}

// FavouritesUpdate 为空的字段保持原值
type FavouritesUpdate struct {
	Numbers       []int   `json:"numbers"`
	Stars         []int   `json:"stars"`
	AlertsEnabled *bool   `json:"alerts_enabled"`
	AlertEmail    *string `json:"alert_email"`
}

func favouritesOf(p *model.UserProfile) *Favourites {
	return &Favourites{
		Numbers:       nonNil(p.FavoriteNumbers()),
		Stars:         nonNil(p.FavoriteStarList()),
		AlertsEnabled: p.AlertsEnabled,
		AlertEmail:    p.AlertEmail,
	}
}

// Favourites 读取收藏
func (s *AlertService) Favourites(ctx context.Context, userID uint64) (*Favourites, error) {
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户资料失败: %w", err)
	}
	return favouritesOf(p), nil
}

// UpdateFavourites 校验并保存收藏（≤10 个主号，≤5 个星号）
func (s *AlertService) UpdateFavourites(ctx context.Context, userID uint64, req FavouritesUpdate) (*Favourites, error) {
	if err := lottery.ValidateFavorites(req.Numbers, req.Stars); err != nil {
		return nil, err
	}
	if req.AlertEmail != nil && *req.AlertEmail != "" && !govalidator.IsEmail(*req.AlertEmail) {
		return nil, apperr.InvalidPayload("invalid alert email")
	}
	p, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户资料失败: %w", err)
	}
	numbers, stars := p.FavoriteNumbers(), p.FavoriteStarList()
	if req.Numbers != nil {
		numbers = lottery.Sorted(req.Numbers)
	}
	if req.Stars != nil {
		stars = lottery.Sorted(req.Stars)
	}
	if err := p.SetFavorites(numbers, stars); err != nil {
		return nil, err
	}
	if req.AlertsEnabled != nil {
		p.AlertsEnabled = *req.AlertsEnabled
	}
	if req.AlertEmail != nil {
		p.AlertEmail = *req.AlertEmail
	}
	if err := s.users.UpsertProfile(ctx, p); err != nil {
		return nil, fmt.Errorf("保存收藏失败: %w", err)
	}
	return favouritesOf(p), nil
}

// AlertRequest 新建提醒
type AlertRequest struct {
	Type   model.AlertType   `json:"type"`
	Params model.AlertParams `json:"params"`
}

// AlertView 提醒及其描述
type AlertView struct {
	*model.Alert
	Description string `json:"description"`
}

func describeAlert(a *model.Alert) string {
	p := a.Parameters()
	switch a.Type {
	case model.AlertOverdueNumber:
		return fmt.Sprintf("Number %d not drawn for %d days", p.Number, p.Days)
	case model.AlertHighJackpot:
		return fmt.Sprintf("Jackpot above %s EUR", decimal.NewFromFloat(p.Value).StringFixed(0))
	case model.AlertNumberDrawn:
		return fmt.Sprintf("Number %d drawn", p.Number)
	case model.AlertStarDrawn:
		return fmt.Sprintf("Star %d drawn", p.Star)
	}
	return string(a.Type)
}

func viewOf(a *model.Alert) AlertView {
	return AlertView{Alert: a, Description: describeAlert(a)}
}

func validateAlert(req AlertRequest) (model.AlertParams, error) {
	p := req.Params
	inRange := func(v, min, max int) bool { return v >= min && v <= max }
	switch req.Type {
	case model.AlertOverdueNumber:
		if !inRange(p.Number, lottery.NumberMin, lottery.NumberMax) || !inRange(p.Days, 1, maxAlertDays) {
			return p, apperr.InvalidPayload("overdue_number needs number 1-50 and days 1-%d", maxAlertDays)
		}
		return model.AlertParams{Number: p.Number, Days: p.Days}, nil
	case model.AlertHighJackpot:
		if p.Value < minAlertJackpot {
			return p, apperr.InvalidPayload("high_jackpot needs value >= %d", minAlertJackpot)
		}
		return model.AlertParams{Value: p.Value}, nil
	case model.AlertNumberDrawn:
		if !inRange(p.Number, lottery.NumberMin, lottery.NumberMax) {
			return p, apperr.InvalidPayload("number_drawn needs number 1-50")
		}
		return model.AlertParams{Number: p.Number}, nil
	case model.AlertStarDrawn:
		if !inRange(p.Star, lottery.StarMin, lottery.StarMax) {
			return p, apperr.InvalidPayload("star_drawn needs star 1-12")
		}
		return model.AlertParams{Star: p.Star}, nil
	default:
		return p, apperr.InvalidPayload("unknown alert type %q", req.Type)
	}
}

// ListAlerts 用户的全部提醒，最新在前
func (s *AlertService) ListAlerts(ctx context.Context, userID uint64) ([]AlertView, error) {
	alerts, err := s.users.ListAlerts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询提醒失败: %w", err)
	}
	out := make([]AlertView, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, viewOf(a))
	}
	return out, nil
}

// CreateAlert 校验参数后新建（默认启用）
func (s *AlertService) CreateAlert(ctx context.Context, userID uint64, req AlertRequest) (*AlertView, error) {
	params, err := validateAlert(req)
	if err != nil {
		return nil, err
	}
	existing, err := s.users.ListAlerts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询提醒失败: %w", err)
	}
	if len(existing) >= maxAlertsPerUser {
		return nil, apperr.Conflict(fmt.Sprintf("at most %d alerts per user", maxAlertsPerUser))
	}
	alert := &model.Alert{UserID: userID, Type: req.Type, Active: true}
	if err := alert.SetParams(params); err != nil {
		return nil, err
	}
	if err := s.users.CreateAlert(ctx, alert); err != nil {
		return nil, fmt.Errorf("保存提醒失败: %w", err)
	}
	v := viewOf(alert)
	return &v, nil
}

// ToggleAlert 启用/停用切换
func (s *AlertService) ToggleAlert(ctx context.Context, userID, id uint64) (*AlertView, error) {
	alert, err := s.users.GetAlert(ctx, userID, id)
	if err != nil {
		return nil, notFound(err, "alert")
	}
	alert.Active = !alert.Active
	if err := s.users.SetAlertActive(ctx, alert.ID, alert.Active); err != nil {
		return nil, fmt.Errorf("更新提醒失败: %w", err)
	}
	v := viewOf(alert)
	return &v, nil
}

// DeleteAlert 删除提醒
func (s *AlertService) DeleteAlert(ctx context.Context, userID, id uint64) error {
	ok, err := s.users.DeleteAlert(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("删除提醒失败: %w", err)
	}
	if !ok {
		return apperr.NotFound("alert")
	}
	return nil
}

// FiredAlert 一次触发
type FiredAlert struct {
	AlertID     uint64          `json:"alert_id"`
	UserID      uint64          `json:"user_id"`
	Email       string          `json:"email"`
	Type        model.AlertType `json:"type"`
	Description string          `json:"description"`
	DrawDate    string          `json:"draw_date"`
}

// Evaluate 用最新一期和当前统计评估全部启用的提醒；同一期开奖每个提醒最多触发一次
func (s *AlertService) Evaluate(ctx context.Context) ([]FiredAlert, error) {
	latest, err := s.draws.Latest(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询最新开奖失败: %w", err)
	}
	snap, err := s.stats.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	alerts, err := s.users.ListActiveAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询提醒失败: %w", err)
	}

	profiles := make(map[uint64]*model.UserProfile)
	var fired []FiredAlert
	for _, a := range alerts {
		if a.LastFiredAt != nil && !a.LastFiredAt.Before(latest.CreatedAt) {
			continue
		}
		profile, ok := profiles[a.UserID]
		if !ok {
			if profile, err = s.users.GetProfile(ctx, a.UserID); err != nil {
				return fired, fmt.Errorf("查询用户资料失败: %w", err)
			}
			profiles[a.UserID] = profile
		}
		if !profile.AlertsEnabled || !alertMatches(a, latest, snap) {
			continue
		}

		now := s.now()
		if err := s.users.MarkAlertFired(ctx, a.ID, now); err != nil {
			return fired, fmt.Errorf("更新提醒触发时间失败: %w", err)
		}
		f := FiredAlert{
			AlertID:     a.ID,
			UserID:      a.UserID,
			Email:       profile.AlertEmail,
			Type:        a.Type,
			Description: describeAlert(a),
			DrawDate:    latest.DrawDate.Format("2006-01-02"),
		}
		fired = append(fired, f)
		s.logger.WithFields(logrus.Fields{
			"alert_id": f.AlertID,
			"user_id":  f.UserID,
			"email":    f.Email,
			"type":     f.Type,
		}).Info(f.Description)
	}
	return fired, nil
}

func alertMatches(a *model.Alert, latest *model.Draw, snap *lottery.Snapshot) bool {
	p := a.Parameters()
	switch a.Type {
	case model.AlertOverdueNumber:
		st, ok := snap.NumberStat(p.Number)
		return ok && st.DaysSinceLast >= p.Days
	case model.AlertHighJackpot:
		return latest.Jackpot.Valid && latest.Jackpot.Decimal.GreaterThanOrEqual(decimal.NewFromFloat(p.Value))
	case model.AlertNumberDrawn:
		return latest.HasNumber(p.Number)
	case model.AlertStarDrawn:
		return latest.HasStar(p.Star)
	}
	return false
}
