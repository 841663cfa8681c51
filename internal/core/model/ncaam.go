package model

import "github.com/mhopper/edgeboard/internal/core/league"

// NCAAM constant set.
// College schedules are short and uneven, so recent form is weighted up
// relative to the NBA and the home edge is larger (college home courts are
// worth more). Margins saturate at 14 — mid-majors run up scores.
//
// UpsetBoost nudges tournament-mode edges that point at the seeded
// underdog. The 1.08 multiplier is tuning; treat it as uncertain.
const (
	ncaamWinWeight          = 0.38
	ncaamMarginWeight       = 0.26
	ncaamRecentWinWeight    = 0.22
	ncaamRecentMarginWeight = 0.14
	ncaamMarginDivisor      = 14.0
	ncaamHomeAdvantage      = 0.02
	ncaamUpsetBoost         = 1.08
)

// V2 shrinkage pseudo-counts. Heavier than the NBA's: a 30-game college
// season against 350+ opponents says less per game.
const (
	ncaamSeasonK   = 18.0
	ncaamWindow10K = 6.0
	ncaamWindow5K  = 5.0
)

func NewNCAAM(v Version) *Model {
	m := &Model{
		League:  league.NCAAM,
		Version: v,
		W: Weights{
			Win:           ncaamWinWeight,
			Margin:        ncaamMarginWeight,
			RecentWin:     ncaamRecentWinWeight,
			RecentMargin:  ncaamRecentMarginWeight,
			MarginDivisor: ncaamMarginDivisor,
			HomeAdvantage: ncaamHomeAdvantage,
			UpsetBoost:    ncaamUpsetBoost,
		},
	}
	if v == V2 {
		m.Shrink = &Shrinkage{SeasonK: ncaamSeasonK, Window10K: ncaamWindow10K, Window5K: ncaamWindow5K}
	}
	return m
}
