package model

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Draw 对应 draws 表，一期开奖结果（5 个主号 + 2 个星号，均升序存储）
type Draw struct {
	ID        uint64              `gorm:"column:id;primaryKey;autoIncrement;comment:自增主键ID" json:"id"`
	DrawDate  time.Time           `gorm:"column:draw_date;type:date;uniqueIndex;not null;comment:开奖日期" json:"draw_date"`
	Contest   *string             `gorm:"column:contest;type:varchar(20);uniqueIndex;comment:期号" json:"contest,omitempty"`
	N1        int                 `gorm:"column:n1;not null;comment:主号1" json:"-"`
	N2        int                 `gorm:"column:n2;not null;comment:主号2" json:"-"`
	N3        int                 `gorm:"column:n3;not null;comment:主号3" json:"-"`
	N4        int                 `gorm:"column:n4;not null;comment:主号4" json:"-"`
	N5        int                 `gorm:"column:n5;not null;comment:主号5" json:"-"`
	S1        int                 `gorm:"column:s1;not null;comment:星号1" json:"-"`
	S2        int                 `gorm:"column:s2;not null;comment:星号2" json:"-"`
	Jackpot   decimal.NullDecimal `gorm:"column:jackpot;type:numeric(15,2);comment:头奖金额" json:"jackpot"`
	HasWinner bool                `gorm:"column:has_winner;default:false;comment:头奖是否有人中" json:"has_winner"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (Draw) TableName() string { return "draws" }

// NewDraw 按给定号码构造开奖记录，号码会被排序
func NewDraw(date time.Time, numbers, stars []int) Draw {
	d := Draw{DrawDate: NormalizeDate(date)}
	d.SetNumbers(numbers)
	d.SetStars(stars)
	return d
}

// NormalizeDate 截断为当天 UTC 零点，保证各数据库下日期比较一致
func NormalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BeforeSave 写库前统一排序、归一日期
func (d *Draw) BeforeSave(tx *gorm.DB) error {
	d.SetNumbers(d.Numbers())
	d.SetStars(d.Stars())
	d.DrawDate = NormalizeDate(d.DrawDate)
	return nil
}

// Numbers 返回升序主号
func (d Draw) Numbers() []int {
	nums := []int{d.N1, d.N2, d.N3, d.N4, d.N5}
	sort.Ints(nums)
	return nums
}

// Stars 返回升序星号
func (d Draw) Stars() []int {
	stars := []int{d.S1, d.S2}
	sort.Ints(stars)
	return stars
}

// SetNumbers 排序后写入 n1..n5，长度不足时补 0
func (d *Draw) SetNumbers(numbers []int) {
	nums := make([]int, 5)
	copy(nums, numbers)
	sort.Ints(nums)
	d.N1, d.N2, d.N3, d.N4, d.N5 = nums[0], nums[1], nums[2], nums[3], nums[4]
}

// SetStars 排序后写入 s1..s2
func (d *Draw) SetStars(stars []int) {
	s := make([]int, 2)
	copy(s, stars)
	sort.Ints(s)
	d.S1, d.S2 = s[0], s[1]
}

// NumbersString 如 "05 - 12 - 23 - 34 - 45"
func (d Draw) NumbersString() string {
	return joinPadded(d.Numbers())
}

// StarsString 如 "03 - 09"
func (d Draw) StarsString() string {
	return joinPadded(d.Stars())
}

func joinPadded(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%02d", v)
	}
	return strings.Join(parts, " - ")
}

func (d Draw) Sum() int {
	return d.N1 + d.N2 + d.N3 + d.N4 + d.N5
}

func (d Draw) StarSum() int {
	return d.S1 + d.S2
}

// EvenOdd 返回 (偶数个数, 奇数个数)
func (d Draw) EvenOdd() (even, odd int) {
	for _, n := range d.Numbers() {
		if n%2 == 0 {
			even++
		}
	}
	return even, 5 - even
}

// LowHigh 返回 (低号 1-25 个数, 高号 26-50 个数)
func (d Draw) LowHigh() (low, high int) {
	for _, n := range d.Numbers() {
		if n <= 25 {
			low++
		}
	}
	return low, 5 - low
}

// HasNumber 主号是否包含 n
func (d Draw) HasNumber(n int) bool {
	return d.N1 == n || d.N2 == n || d.N3 == n || d.N4 == n || d.N5 == n
}

// HasStar 星号是否包含 s
func (d Draw) HasStar(s int) bool {
	return d.S1 == s || d.S2 == s
}

// StatisticMetrics 号码/星号统计的公共字段，整表按开奖记录全量重算
type StatisticMetrics struct {
	Frequency      int        `gorm:"column:frequency;default:0;comment:出现次数" json:"frequency"`
	Percentage     float64    `gorm:"column:percentage;type:numeric(6,2);default:0;comment:出现百分比" json:"percentage"`
	LastSeenDate   *time.Time `gorm:"column:last_seen_date;type:date;comment:最近出现日期" json:"last_seen_date"`
	LastSeenDrawID *uint64    `gorm:"column:last_seen_draw_id;comment:最近出现的开奖ID" json:"last_seen_draw_id"`
	DrawsSinceLast int        `gorm:"column:draws_since_last;default:0;comment:遗漏期数" json:"draws_since_last"`
	DaysSinceLast  int        `gorm:"column:days_since_last;default:0;comment:距最新开奖的天数" json:"days_since_last"`
	MeanGap        float64    `gorm:"column:mean_gap;type:numeric(8,2);default:0;comment:平均间隔天数" json:"mean_gap"`
	MaxGap         int        `gorm:"column:max_gap;default:0;comment:最大间隔天数" json:"max_gap"`
	Deviation      float64    `gorm:"column:expected_deviation;type:numeric(8,4);default:0;comment:相对期望偏差" json:"expected_deviation"`
}

// Status 偏差 > 0.1 为 hot，< -0.1 为 cold
func (m StatisticMetrics) Status() string {
	switch {
	case m.Deviation > 0.1:
		return "hot"
	case m.Deviation < -0.1:
		return "cold"
	default:
		return "normal"
	}
}

// NumberStatistic 对应 number_statistics 表
type NumberStatistic struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Number    int       `gorm:"column:number;uniqueIndex;not null;comment:主号 1-50" json:"number"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	StatisticMetrics `gorm:"embedded"`
}

func (NumberStatistic) TableName() string { return "number_statistics" }

// StarStatistic 对应 star_statistics 表
type StarStatistic struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	Star      int       `gorm:"column:star;uniqueIndex;not null;comment:星号 1-12" json:"star"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	StatisticMetrics `gorm:"embedded"`
}

func (StarStatistic) TableName() string { return "star_statistics" }

// SnapshotMeta 对应 statistics_meta 表，单行，记录最近一次重算时的开奖范围
type SnapshotMeta struct {
	ID          uint64     `gorm:"column:id;primaryKey;autoIncrement:false" json:"-"`
	TotalDraws  int        `gorm:"column:total_draws;default:0;comment:重算时的开奖期数" json:"total_draws"`
	FirstDate   *time.Time `gorm:"column:first_date;type:date;comment:首期日期" json:"first_date"`
	LastDate    *time.Time `gorm:"column:last_date;type:date;comment:最新一期日期" json:"last_date"`
	RefreshedAt time.Time  `gorm:"column:refreshed_at;comment:重算时间" json:"refreshed_at"`
}

func (SnapshotMeta) TableName() string { return "statistics_meta" }

// SnapshotMetaID 元数据行固定主键
const SnapshotMetaID = 1

// AllModels 迁移顺序
func AllModels() []interface{} {
	return []interface{}{
		&Draw{},
		&NumberStatistic{},
		&StarStatistic{},
		&SnapshotMeta{},
		&User{},
		&AuthToken{},
		&UserProfile{},
		&Alert{},
		&GeneratedBet{},
		&MultipleBet{},
	}
}
