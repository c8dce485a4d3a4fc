package lottery

import (
	"testing"
	"time"

	"EuroAnalyzer/internal/apperr"
)

func TestValidatePick(t *testing.T) {
	cases := []struct {
		name    string
		numbers []int
		stars   []int
		ok      bool
	}{
		{"valid", []int{1, 2, 3, 4, 50}, []int{1, 12}, true},
		{"too few numbers", []int{1, 2, 3, 4}, []int{1, 2}, false},
		{"number out of range", []int{0, 2, 3, 4, 5}, []int{1, 2}, false},
		{"number above max", []int{1, 2, 3, 4, 51}, []int{1, 2}, false},
		{"duplicate number", []int{1, 1, 3, 4, 5}, []int{1, 2}, false},
		{"star out of range", []int{1, 2, 3, 4, 5}, []int{1, 13}, false},
		{"duplicate star", []int{1, 2, 3, 4, 5}, []int{3, 3}, false},
		{"three stars", []int{1, 2, 3, 4, 5}, []int{1, 2, 3}, false},
	}
	for _, tc := range cases {
		err := ValidatePick(tc.numbers, tc.stars)
		if tc.ok && err != nil {
			t.Errorf("%s: expected no error, got %v", tc.name, err)
		}
		if !tc.ok {
			if err == nil {
				t.Errorf("%s: expected error", tc.name)
			} else if !apperr.Is(err, apperr.CodeInvalidPayload) {
				t.Errorf("%s: expected invalid_payload, got %v", tc.name, err)
			}
		}
	}
}

func TestValidateMultiple(t *testing.T) {
	if err := ValidateMultiple([]int{1, 2, 3, 4, 5, 6, 7}, []int{1, 2, 3}); err != nil {
		t.Fatalf("Expected valid multiple, got %v", err)
	}
	if err := ValidateMultiple([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, []int{1, 2}); err == nil {
		t.Error("Expected error for 11 numbers")
	}
	if err := ValidateMultiple([]int{1, 2, 3, 4, 5}, []int{1, 2, 3, 4, 5, 6}); err == nil {
		t.Error("Expected error for 6 stars")
	}
}

func TestValidateFavorites(t *testing.T) {
	if err := ValidateFavorites(nil, nil); err != nil {
		t.Fatalf("Expected empty favourites to be valid, got %v", err)
	}
	if err := ValidateFavorites([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, nil); err == nil {
		t.Error("Expected error for 11 favourite numbers")
	}
	if err := ValidateFavorites([]int{7}, []int{13}); err == nil {
		t.Error("Expected error for star 13")
	}
}

func TestBinomialAndExpand(t *testing.T) {
	if got := Binomial(50, 5); got != 2118760 {
		t.Errorf("Expected C(50,5)=2118760, got %d", got)
	}
	if got := Binomial(12, 2); got != 66 {
		t.Errorf("Expected C(12,2)=66, got %d", got)
	}
	if got := Binomial(3, 5); got != 0 {
		t.Errorf("Expected C(3,5)=0, got %d", got)
	}

	tickets := ExpandMultiple([]int{7, 1, 2, 3, 4, 5}, []int{1, 2, 3})
	if len(tickets) != 18 {
		t.Fatalf("Expected 18 tickets, got %d", len(tickets))
	}
	if MultipleCount(6, 3) != 18 {
		t.Errorf("Expected MultipleCount(6,3)=18, got %d", MultipleCount(6, 3))
	}
	if got := MultipleCost(18).StringFixed(2); got != "45.00" {
		t.Errorf("Expected cost 45.00, got %s", got)
	}
	seen := map[string]bool{}
	for _, tk := range tickets {
		if err := ValidatePick(tk.Numbers, tk.Stars); err != nil {
			t.Fatalf("Expanded ticket invalid: %v", err)
		}
		key := comboKey(tk.Numbers) + "+" + comboKey(tk.Stars)
		if seen[key] {
			t.Fatalf("Duplicate ticket %s", key)
		}
		seen[key] = true
	}
}

func TestFilterByDate(t *testing.T) {
	all := syntheticHistory(10)
	from := all[2].DrawDate
	to := all[5].DrawDate
	got := FilterByDate(all, &from, &to)
	if len(got) != 4 {
		t.Fatalf("Expected 4 draws in range, got %d", len(got))
	}
	later := all[9].DrawDate.Add(24 * time.Hour)
	if n := len(FilterByDate(all, &later, nil)); n != 0 {
		t.Errorf("Expected no draws after last date, got %d", n)
	}
}
