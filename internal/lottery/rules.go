// Package lottery implements the EuroMillions domain: game rules,
// statistics aggregation, pattern analysis, bet scoring/generation and
// prize verification. Everything here is pure and works on in-memory
// draw slices.
package lottery

import (
	"sort"
	"time"

	"EuroAnalyzer/internal/apperr"
	"EuroAnalyzer/internal/model"

	"github.com/shopspring/decimal"
)

const (
	NumberMin      = 1
	NumberMax      = 50
	StarMin        = 1
	StarMax        = 12
	NumbersPerDraw = 5
	StarsPerDraw   = 2
	LowMax         = 25 // 1-25 低号，26-50 高号

	MultipleNumbersMin = 5
	MultipleNumbersMax = 10
	MultipleStarsMin   = 2
	MultipleStarsMax   = 5
)

// PricePerBet 单注价格（EUR）
var PricePerBet = decimal.RequireFromString("2.50")

// ValidatePick 校验一注：5 个 1-50 不重复主号，2 个 1-12 不重复星号
func ValidatePick(numbers, stars []int) error {
	return validateSet(numbers, stars, NumbersPerDraw, NumbersPerDraw, StarsPerDraw, StarsPerDraw)
}

// ValidateMultiple 校验复式投注：5-10 个主号，2-5 个星号
func ValidateMultiple(numbers, stars []int) error {
	return validateSet(numbers, stars, MultipleNumbersMin, MultipleNumbersMax, MultipleStarsMin, MultipleStarsMax)
}

func validateSet(numbers, stars []int, nMin, nMax, sMin, sMax int) error {
	if len(numbers) < nMin || len(numbers) > nMax {
		if nMin == nMax {
			return apperr.InvalidPayload("exactly %d numbers are required, got %d", nMin, len(numbers))
		}
		return apperr.InvalidPayload("between %d and %d numbers are required, got %d", nMin, nMax, len(numbers))
	}
	if len(stars) < sMin || len(stars) > sMax {
		if sMin == sMax {
			return apperr.InvalidPayload("exactly %d stars are required, got %d", sMin, len(stars))
		}
		return apperr.InvalidPayload("between %d and %d stars are required, got %d", sMin, sMax, len(stars))
	}
	if err := checkValues(numbers, NumberMin, NumberMax, "number"); err != nil {
		return err
	}
	return checkValues(stars, StarMin, StarMax, "star")
}

func checkValues(values []int, min, max int, label string) error {
	seen := make(map[int]bool, len(values))
	for _, v := range values {
		if v < min || v > max {
			return apperr.InvalidPayload("%s %d out of range %d-%d", label, v, min, max)
		}
		if seen[v] {
			return apperr.InvalidPayload("duplicate %s %d", label, v)
		}
		seen[v] = true
	}
	return nil
}

// ValidateFavorites 收藏最多 10 个主号、5 个星号，均不重复且在范围内
func ValidateFavorites(numbers, stars []int) error {
	if len(numbers) > 10 {
		return apperr.InvalidPayload("at most 10 favourite numbers, got %d", len(numbers))
	}
	if len(stars) > 5 {
		return apperr.InvalidPayload("at most 5 favourite stars, got %d", len(stars))
	}
	if err := checkValues(numbers, NumberMin, NumberMax, "number"); err != nil {
		return err
	}
	return checkValues(stars, StarMin, StarMax, "star")
}

// Sorted 返回升序副本
func Sorted(values []int) []int {
	out := append([]int(nil), values...)
	sort.Ints(out)
	return out
}

// SortDraws 按日期、ID 升序返回副本，所有计算都先经过这里
func SortDraws(draws []model.Draw) []model.Draw {
	out := append([]model.Draw(nil), draws...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DrawDate.Equal(out[j].DrawDate) {
			return out[i].DrawDate.Before(out[j].DrawDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// FilterByDate 保留 [from, to] 内的开奖，边界可为空
func FilterByDate(draws []model.Draw, from, to *time.Time) []model.Draw {
	if from == nil && to == nil {
		return draws
	}
	out := make([]model.Draw, 0, len(draws))
	for _, d := range draws {
		day := model.NormalizeDate(d.DrawDate)
		if from != nil && day.Before(model.NormalizeDate(*from)) {
			continue
		}
		if to != nil && day.After(model.NormalizeDate(*to)) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func daysBetween(a, b time.Time) int {
	return int(model.NormalizeDate(b).Sub(model.NormalizeDate(a)).Hours() / 24)
}
