package lottery

import (
	"reflect"
	"testing"

	"EuroAnalyzer/internal/model"

	"github.com/shopspring/decimal"
)

func TestCharts(t *testing.T) {
	draws := []model.Draw{
		draw(1, "2023-12-29", []int{1, 2, 3, 4, 5}, []int{1, 2}),
		draw(2, "2024-01-02", []int{1, 10, 20, 30, 40}, []int{1, 3}),
		draw(3, "2024-01-05", []int{1, 2, 11, 21, 31}, []int{4, 5}),
	}
	draws[1].Jackpot = decimal.NewNullDecimal(decimal.RequireFromString("17000000.00"))
	draws[2].Jackpot = decimal.NewNullDecimal(decimal.RequireFromString("29500000.50"))
	draws[2].HasWinner = true

	evo := CumulativeEvolution(draws, 2)
	if !reflect.DeepEqual(evo.Cumulative, []int{1, 2}) || !reflect.DeepEqual(evo.Dates, []string{"2023-12-29", "2024-01-05"}) {
		t.Errorf("Unexpected evolution %+v", evo)
	}

	years := YearlyEvolution(draws, 1)
	if len(years) != 2 || years[0].Year != 2023 || years[1].Appearances != 2 || years[1].Percentage != 100 {
		t.Errorf("Unexpected yearly evolution %+v", years)
	}

	hm := MonthlyHeatmap(draws)
	if !reflect.DeepEqual(hm.Months, []string{"2023-12", "2024-01"}) || hm.Matrix[1][0] != 2 {
		t.Errorf("Unexpected heatmap months %v / row %v", hm.Months, hm.Matrix)
	}

	corr := CorrelationMatrix(draws)
	snap := Aggregate(draws)
	for n := 1; n <= 50; n++ {
		if corr.Matrix[n-1][n-1] != snap.Numbers[n-1].Frequency {
			t.Fatalf("Diagonal for %d: expected %d, got %d", n, snap.Numbers[n-1].Frequency, corr.Matrix[n-1][n-1])
		}
	}
	if corr.Matrix[0][1] != 2 || corr.Matrix[1][0] != 2 {
		t.Errorf("Expected 1 and 2 together twice, got %d", corr.Matrix[0][1])
	}

	wd := WeekdayAnalysis(draws)
	if len(wd) != 2 || wd[0].Weekday != "Tuesday" || wd[1].Weekday != "Friday" || wd[1].Draws != 2 {
		t.Errorf("Unexpected weekday analysis %+v", wd)
	}

	jp := JackpotEvolution(draws)
	if len(jp.Values) != 2 || jp.Values[1] != 29500000.5 || !jp.Winners[1] {
		t.Errorf("Unexpected jackpot series %+v", jp)
	}

	fs := BuildFrequencySeries(snap.Stars)
	if len(fs.Labels) != 12 || fs.Labels[0] != "1" || fs.Frequencies[0] != 2 {
		t.Errorf("Unexpected frequency series %+v", fs)
	}
}
