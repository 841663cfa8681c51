package model

import "github.com/mhopper/edgeboard/internal/core/league"

// NHL constant set.
// Hockey results are noisier than basketball, so season win% is discounted
// and goal margin picks up the slack. A 3-goals-per-game margin saturates —
// nobody sustains that. Home ice is worth less than home court.
const (
	nhlWinWeight          = 0.36
	nhlMarginWeight       = 0.30
	nhlRecentWinWeight    = 0.20
	nhlRecentMarginWeight = 0.14
	nhlMarginDivisor      = 3.0
	nhlHomeAdvantage      = 0.012
)

// V2 shrinkage pseudo-counts.
const (
	nhlSeasonK   = 18.0
	nhlWindow10K = 6.0
	nhlWindow5K  = 5.0
)

func NewNHL(v Version) *Model {
	m := &Model{
		League:  league.NHL,
		Version: v,
		W: Weights{
			Win:           nhlWinWeight,
			Margin:        nhlMarginWeight,
			RecentWin:     nhlRecentWinWeight,
			RecentMargin:  nhlRecentMarginWeight,
			MarginDivisor: nhlMarginDivisor,
			HomeAdvantage: nhlHomeAdvantage,
		},
	}
	if v == V2 {
		m.Shrink = &Shrinkage{SeasonK: nhlSeasonK, Window10K: nhlWindow10K, Window5K: nhlWindow5K}
	}
	return m
}
