package model

// Shrinkage pulls small-sample statistics toward a prior, weighted by a
// per-statistic pseudo-count: shrunk = (n*x + k*prior) / (n + k).
// Percentages shrink toward 0.5, margins toward 0. A team 3-0 on the season
// should not read as a 1.000 club.
type Shrinkage struct {
	SeasonK   float64 `yaml:"season_k"`
	Window10K float64 `yaml:"window10_k"`
	Window5K  float64 `yaml:"window5_k"`
}

func shrinkPct(x float64, n int, k float64) float64 {
	return shrink(x, n, k, 0.5)
}

func shrinkMargin(x float64, n int, k float64) float64 {
	return shrink(x, n, k, 0)
}

func shrink(x float64, n int, k, prior float64) float64 {
	if k <= 0 {
		return x
	}
	fn := float64(n)
	return (fn*x + k*prior) / (fn + k)
}
