package lottery

import (
	"fmt"
	"time"

	"EuroAnalyzer/internal/model"
)

func mustDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func draw(id uint64, date string, nums []int, stars []int) model.Draw {
	d := model.NewDraw(mustDate(date), nums, stars)
	d.ID = id
	return d
}

// syntheticHistory 生成 count 期确定性的开奖，周二/周五交替
func syntheticHistory(count int) []model.Draw {
	draws := make([]model.Draw, 0, count)
	day := mustDate("2020-01-03")
	for i := 0; i < count; i++ {
		nums := make([]int, 0, 5)
		seen := map[int]bool{}
		for k := 0; len(nums) < 5; k++ {
			n := (i*7+k*11+k*k*3)%50 + 1
			if !seen[n] {
				seen[n] = true
				nums = append(nums, n)
			}
		}
		s1 := i%12 + 1
		s2 := (i*5+3)%12 + 1
		if s2 == s1 {
			s2 = s1%12 + 1
		}
		d := model.NewDraw(day, nums, []int{s1, s2})
		d.ID = uint64(i + 1)
		draws = append(draws, d)
		if i%2 == 0 {
			day = day.AddDate(0, 0, 4)
		} else {
			day = day.AddDate(0, 0, 3)
		}
	}
	return draws
}

func hasDuplicates(values []int) bool {
	seen := map[int]bool{}
	for _, v := range values {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}

func describe(d model.Draw) string {
	return fmt.Sprintf("%s %v %v", d.DrawDate.Format("2006-01-02"), d.Numbers(), d.Stars())
}
