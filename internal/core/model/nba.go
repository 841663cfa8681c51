package model

import "github.com/mhopper/edgeboard/internal/core/league"

// NBA constant set.
// Season record carries the most weight; an 82-game schedule makes win%
// meaningful early. Margins are scaled by 12 points/game — anything past
// that is blowout territory and saturates.
const (
	nbaWinWeight          = 0.42
	nbaMarginWeight       = 0.28
	nbaRecentWinWeight    = 0.18
	nbaRecentMarginWeight = 0.12
	nbaMarginDivisor      = 12.0
	nbaHomeAdvantage      = 0.015
)

// V2 shrinkage pseudo-counts. k=18 on the season line means a 9-game-old
// record is weighted evenly against a .500 prior.
const (
	nbaSeasonK   = 18.0
	nbaWindow10K = 6.0
	nbaWindow5K  = 5.0
)

func NewNBA(v Version) *Model {
	m := &Model{
		League:  league.NBA,
		Version: v,
		W: Weights{
			Win:           nbaWinWeight,
			Margin:        nbaMarginWeight,
			RecentWin:     nbaRecentWinWeight,
			RecentMargin:  nbaRecentMarginWeight,
			MarginDivisor: nbaMarginDivisor,
			HomeAdvantage: nbaHomeAdvantage,
		},
	}
	if v == V2 {
		m.Shrink = &Shrinkage{SeasonK: nbaSeasonK, Window10K: nbaWindow10K, Window5K: nbaWindow5K}
	}
	return m
}
