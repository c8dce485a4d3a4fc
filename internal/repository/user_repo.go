package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"EuroAnalyzer/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository 用户、令牌、收藏与提醒持久化
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id uint64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)

	// GetOrCreateToken 已有令牌直接返回，否则以 newKey 写入
	GetOrCreateToken(ctx context.Context, userID uint64, newKey string) (*model.AuthToken, error)
	// GetToken 按 key 查询并带出用户
	GetToken(ctx context.Context, key string) (*model.AuthToken, error)
	DeleteToken(ctx context.Context, userID uint64) error
	// RotateToken 单事务删除旧令牌并写入新令牌
	RotateToken(ctx context.Context, userID uint64, newKey string) (*model.AuthToken, error)

	// GetProfile 不存在时返回空资料（未入库）
	GetProfile(ctx context.Context, userID uint64) (*model.UserProfile, error)
	UpsertProfile(ctx context.Context, profile *model.UserProfile) error

	ListAlerts(ctx context.Context, userID uint64) ([]*model.Alert, error)
	// ListActiveAlerts 全部启用中的提醒，供定时评估
	ListActiveAlerts(ctx context.Context) ([]*model.Alert, error)
	CreateAlert(ctx context.Context, alert *model.Alert) error
	GetAlert(ctx context.Context, userID, id uint64) (*model.Alert, error)
	SetAlertActive(ctx context.Context, id uint64, active bool) error
	MarkAlertFired(ctx context.Context, id uint64, at time.Time) error
	DeleteAlert(ctx context.Context, userID, id uint64) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUserByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetOrCreateToken(ctx context.Context, userID uint64, newKey string) (*model.AuthToken, error) {
	var token model.AuthToken
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return &token, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	token = model.AuthToken{Key: newKey, UserID: userID}
	if err := r.db.WithContext(ctx).Omit("User").Create(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *userRepository) GetToken(ctx context.Context, key string) (*model.AuthToken, error) {
	var token model.AuthToken
	if err := r.db.WithContext(ctx).Preload("User").Where("token_key = ?", key).First(&token).Error; err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *userRepository) DeleteToken(ctx context.Context, userID uint64) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.AuthToken{}).Error
}

func (r *userRepository) RotateToken(ctx context.Context, userID uint64, newKey string) (*model.AuthToken, error) {
	token := model.AuthToken{Key: newKey, UserID: userID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.AuthToken{}).Error; err != nil {
			return fmt.Errorf("删除旧令牌失败: %w", err)
		}
		if err := tx.Omit("User").Create(&token).Error; err != nil {
			return fmt.Errorf("写入新令牌失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *userRepository) GetProfile(ctx context.Context, userID uint64) (*model.UserProfile, error) {
	var profile model.UserProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) UpsertProfile(ctx context.Context, profile *model.UserProfile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"favorite_numbers", "favorite_stars", "alerts_enabled", "alert_email", "updated_at"}),
	}).Create(profile).Error
}

func (r *userRepository) ListAlerts(ctx context.Context, userID uint64) ([]*model.Alert, error) {
	var alerts []*model.Alert
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *userRepository) ListActiveAlerts(ctx context.Context) ([]*model.Alert, error) {
	var alerts []*model.Alert
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("id ASC").Find(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *userRepository) CreateAlert(ctx context.Context, alert *model.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

func (r *userRepository) GetAlert(ctx context.Context, userID, id uint64) (*model.Alert, error) {
	var alert model.Alert
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&alert).Error; err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *userRepository) SetAlertActive(ctx context.Context, id uint64, active bool) error {
	return r.db.WithContext(ctx).Model(&model.Alert{}).Where("id = ?", id).Update("active", active).Error
}

func (r *userRepository) MarkAlertFired(ctx context.Context, id uint64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Alert{}).Where("id = ?", id).Update("last_fired_at", at).Error
}

func (r *userRepository) DeleteAlert(ctx context.Context, userID, id uint64) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Alert{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
