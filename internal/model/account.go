package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User 对应 users 表
type User struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	Username     string    `gorm:"column:username;type:varchar(150);uniqueIndex;not null;comment:用户名" json:"username"`
	Email        string    `gorm:"column:email;type:varchar(254);uniqueIndex;not null;comment:邮箱" json:"email"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(100);not null;comment:bcrypt 哈希" json:"-"`
	IsStaff      bool      `gorm:"column:is_staff;default:false;comment:是否管理员" json:"is_staff"`
	DateJoined   time.Time `gorm:"column:date_joined;autoCreateTime;comment:注册时间" json:"date_joined"`
}

func (User) TableName() string { return "users" }

// AuthToken 对应 auth_tokens 表，每个用户一个不透明 token
type AuthToken struct {
	Key       string    `gorm:"column:token_key;type:varchar(64);primaryKey" json:"token"`
	UserID    uint64    `gorm:"column:user_id;uniqueIndex;not null" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AuthToken) TableName() string { return "auth_tokens" }

// UserProfile 对应 user_profiles 表，收藏号码与提醒设置
type UserProfile struct {
	ID            uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	UserID        uint64         `gorm:"column:user_id;uniqueIndex;not null" json:"-"`
	FavoriteNums  datatypes.JSON `gorm:"column:favorite_numbers" json:"-"`
	FavoriteStars datatypes.JSON `gorm:"column:favorite_stars" json:"-"`
	AlertsEnabled bool           `gorm:"column:alerts_enabled" json:"alerts_enabled"`
	AlertEmail    string         `gorm:"column:alert_email;type:varchar(254)" json:"alert_email"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	numbers []int
	stars   []int
}

func (UserProfile) TableName() string { return "user_profiles" }

// AfterFind 读库后解析收藏 JSON
func (p *UserProfile) AfterFind(tx *gorm.DB) (err error) {
	if p.numbers, err = decodeInts(p.FavoriteNums); err != nil {
		return fmt.Errorf("解析用户 %d 收藏主号失败: %w", p.UserID, err)
	}
	if p.stars, err = decodeInts(p.FavoriteStars); err != nil {
		return fmt.Errorf("解析用户 %d 收藏星号失败: %w", p.UserID, err)
	}
	return nil
}

// FavoriteNumbers 收藏主号
func (p UserProfile) FavoriteNumbers() []int { return append([]int(nil), p.numbers...) }

// FavoriteStarList 收藏星号
func (p UserProfile) FavoriteStarList() []int { return append([]int(nil), p.stars...) }

// SetFavorites 写入收藏
func (p *UserProfile) SetFavorites(numbers, stars []int) error {
	var err error
	if p.FavoriteNums, err = encodeInts(numbers); err != nil {
		return err
	}
	if p.FavoriteStars, err = encodeInts(stars); err != nil {
		return err
	}
	p.numbers, p.stars = append([]int(nil), numbers...), append([]int(nil), stars...)
	return nil
}

// AlertType 提醒类型
type AlertType string

const (
	AlertOverdueNumber AlertType = "overdue_number" // 参数 {"number": 7, "days": 60}
	AlertHighJackpot   AlertType = "high_jackpot"   // 参数 {"value": 100000000}
	AlertNumberDrawn   AlertType = "number_drawn"   // 参数 {"number": 7}
	AlertStarDrawn     AlertType = "star_drawn"     // 参数 {"star": 3}
)

// Valid 是否为已知类型
func (t AlertType) Valid() bool {
	switch t {
	case AlertOverdueNumber, AlertHighJackpot, AlertNumberDrawn, AlertStarDrawn:
		return true
	}
	return false
}

// AlertParams 提醒参数，按类型取用
type AlertParams struct {
	Number int     `json:"number,omitempty"`
	Star   int     `json:"star,omitempty"`
	Days   int     `json:"days,omitempty"`
	Value  float64 `json:"value,omitempty"`
}

// Alert 对应 alerts 表
type Alert struct {
	ID          uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID      uint64         `gorm:"column:user_id;index;not null" json:"-"`
	Type        AlertType      `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Params      datatypes.JSON `gorm:"column:params" json:"params"`
	Active      bool           `gorm:"column:active" json:"active"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	LastFiredAt *time.Time     `gorm:"column:last_fired_at" json:"last_fired_at"`

	params AlertParams
}

func (Alert) TableName() string { return "alerts" }

// AfterFind 读库后解析参数 JSON
func (a *Alert) AfterFind(tx *gorm.DB) error {
	a.params = AlertParams{}
	if len(a.Params) == 0 {
		return nil
	}
	if err := json.Unmarshal(a.Params, &a.params); err != nil {
		return fmt.Errorf("解析提醒 %d 参数失败: %w", a.ID, err)
	}
	return nil
}

// Parameters 已解析的提醒参数
func (a Alert) Parameters() AlertParams { return a.params }

// SetParams 写入参数 JSON
func (a *Alert) SetParams(p AlertParams) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("编码提醒参数失败: %w", err)
	}
	a.Params = datatypes.JSON(raw)
	a.params = p
	return nil
}
