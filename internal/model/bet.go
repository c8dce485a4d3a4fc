package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GeneratedBet 对应 generated_bets 表，生成器产出的一注（5+2）
// 生成后只读，只有核对结果字段会被回写
type GeneratedBet struct {
	ID             uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BetUUID        string         `gorm:"column:bet_uuid;type:varchar(64);uniqueIndex;not null" json:"bet_uuid"`
	Strategy       string         `gorm:"column:strategy;type:varchar(20);index;not null" json:"strategy"`
	N1             int            `gorm:"column:n1;not null" json:"-"`
	N2             int            `gorm:"column:n2;not null" json:"-"`
	N3             int            `gorm:"column:n3;not null" json:"-"`
	N4             int            `gorm:"column:n4;not null" json:"-"`
	N5             int            `gorm:"column:n5;not null" json:"-"`
	S1             int            `gorm:"column:s1;not null" json:"-"`
	S2             int            `gorm:"column:s2;not null" json:"-"`
	Scores         datatypes.JSON `gorm:"column:scores" json:"scores,omitempty"`
	UserID         *uint64        `gorm:"column:user_id;index" json:"user_id,omitempty"`
	MatchedNumbers *int           `gorm:"column:matched_numbers" json:"matched_numbers"`
	MatchedStars   *int           `gorm:"column:matched_stars" json:"matched_stars"`
	VerifiedDrawID *uint64        `gorm:"column:verified_draw_id" json:"verified_draw_id"`
	PrizeTier      *int           `gorm:"column:prize_tier" json:"prize_tier"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (GeneratedBet) TableName() string { return "generated_bets" }

// Numbers 主号
func (b GeneratedBet) Numbers() []int { return []int{b.N1, b.N2, b.N3, b.N4, b.N5} }

// Stars 星号
func (b GeneratedBet) Stars() []int { return []int{b.S1, b.S2} }

// SetPick 写入已排序号码
func (b *GeneratedBet) SetPick(numbers, stars []int) {
	d := Draw{}
	d.SetNumbers(numbers)
	d.SetStars(stars)
	b.N1, b.N2, b.N3, b.N4, b.N5 = d.N1, d.N2, d.N3, d.N4, d.N5
	b.S1, b.S2 = d.S1, d.S2
}

// MultipleBet 对应 multiple_bets 表，复式投注（5-10 个主号，2-5 个星号）
type MultipleBet struct {
	ID           uint64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BetUUID      string          `gorm:"column:bet_uuid;type:varchar(64);uniqueIndex;not null" json:"bet_uuid"`
	Strategy     string          `gorm:"column:strategy;type:varchar(20)" json:"strategy"`
	NumbersJSON  datatypes.JSON  `gorm:"column:numbers;not null" json:"-"`
	StarsJSON    datatypes.JSON  `gorm:"column:stars;not null" json:"-"`
	Combinations int             `gorm:"column:combinations;not null" json:"combinations"`
	TotalCost    decimal.Decimal `gorm:"column:total_cost;type:numeric(12,2);not null" json:"total_cost"`
	UserID       *uint64         `gorm:"column:user_id;index" json:"user_id,omitempty"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	numbers []int
	stars   []int
}

func (MultipleBet) TableName() string { return "multiple_bets" }

// AfterFind 读库后解析 JSON 号码，格式错误时查询直接失败
func (m *MultipleBet) AfterFind(tx *gorm.DB) (err error) {
	if m.numbers, err = decodeInts(m.NumbersJSON); err != nil {
		return fmt.Errorf("解析复式投注 %d 主号失败: %w", m.ID, err)
	}
	if m.stars, err = decodeInts(m.StarsJSON); err != nil {
		return fmt.Errorf("解析复式投注 %d 星号失败: %w", m.ID, err)
	}
	return nil
}

// Numbers 主号
func (m MultipleBet) Numbers() []int { return append([]int(nil), m.numbers...) }

// Stars 星号
func (m MultipleBet) Stars() []int { return append([]int(nil), m.stars...) }

// SetPick 写入复式号码
func (m *MultipleBet) SetPick(numbers, stars []int) error {
	var err error
	if m.NumbersJSON, err = encodeInts(numbers); err != nil {
		return err
	}
	if m.StarsJSON, err = encodeInts(stars); err != nil {
		return err
	}
	m.numbers, m.stars = append([]int(nil), numbers...), append([]int(nil), stars...)
	return nil
}

func decodeInts(raw datatypes.JSON) ([]int, error) {
	var out []int
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func encodeInts(values []int) (datatypes.JSON, error) {
	if values == nil {
		values = []int{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("编码号码失败: %w", err)
	}
	return datatypes.JSON(raw), nil
}
