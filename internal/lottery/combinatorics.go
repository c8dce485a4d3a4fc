package lottery

import "github.com/shopspring/decimal"

// Binomial C(n, k)
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	result := 1
	for i := 1; i <= k; i++ {
		result = result * (n - k + i) / i
	}
	return result
}

// Combinations 按字典序枚举 values 的所有 k 元组合（values 需已排序）
func Combinations(values []int, k int) [][]int {
	var out [][]int
	if k <= 0 || k > len(values) {
		return out
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		combo := make([]int, k)
		for i, j := range idx {
			combo[i] = values[j]
		}
		out = append(out, combo)

		i := k - 1
		for i >= 0 && idx[i] == len(values)-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// Ticket 单注 5+2
type Ticket struct {
	Numbers []int `json:"numbers"`
	Stars   []int `json:"stars"`
}

// MultipleCount 复式投注的注数 C(n,5)×C(s,2)
func MultipleCount(numbers, stars int) int {
	return Binomial(numbers, NumbersPerDraw) * Binomial(stars, StarsPerDraw)
}

// MultipleCost 注数 × 单价
func MultipleCost(combinations int) decimal.Decimal {
	return PricePerBet.Mul(decimal.NewFromInt(int64(combinations)))
}

// ExpandMultiple 展开复式投注的全部单注
func ExpandMultiple(numbers, stars []int) []Ticket {
	numCombos := Combinations(Sorted(numbers), NumbersPerDraw)
	starCombos := Combinations(Sorted(stars), StarsPerDraw)
	tickets := make([]Ticket, 0, len(numCombos)*len(starCombos))
	for _, n := range numCombos {
		for _, s := range starCombos {
			tickets = append(tickets, Ticket{Numbers: n, Stars: s})
		}
	}
	return tickets
}
