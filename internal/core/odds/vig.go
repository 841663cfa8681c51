// Package odds converts sportsbook prices into fair probabilities and
// blends them with model output.
package odds

// ImpliedFromAmerican converts an American moneyline price to its implied
// probability. Returns 0 for the invalid price 0.
func ImpliedFromAmerican(price float64) float64 {
	if price == 0 {
		return 0
	}
	if price > 0 {
		return 100.0 / (price + 100.0)
	}
	return -price / (-price + 100.0)
}

// RemoveVig2 normalizes two complementary implied probabilities so they sum
// to 1, stripping the bookmaker's overround. The leftover (sum - 1) is the
// vig and is discarded.
func RemoveVig2(a, b float64) (float64, float64) {
	total := a + b
	if a <= 0 || b <= 0 || total <= 0 {
		return 0, 0
	}
	return a / total, b / total
}

// FairFromMoneylines converts a two-way pair of American prices straight to
// vig-free probabilities.
func FairFromMoneylines(home, away float64) (float64, float64) {
	return RemoveVig2(ImpliedFromAmerican(home), ImpliedFromAmerican(away))
}
