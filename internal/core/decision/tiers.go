package decision

import "github.com/mhopper/edgeboard/internal/core/league"

// Tier is the display category for a pick's conviction.
type Tier string

const (
	TierPass   Tier = "PASS"
	TierLean   Tier = "LEAN"
	TierEdge   Tier = "EDGE"
	TierStrong Tier = "STRONG"
	TierElite  Tier = "ELITE"
)

// Cutoffs are ascending |edge| boundaries for the upper tiers. A made pick
// below Edge is a LEAN. Comparisons are strict: an edge sitting exactly on
// a cutoff stays in the lower tier.
type Cutoffs struct {
	Edge   float64
	Strong float64
	Elite  float64
}

func (c Cutoffs) Tier(absEdge float64, made bool) Tier {
	if !made {
		return TierPass
	}
	switch {
	case absEdge > c.Elite:
		return TierElite
	case absEdge > c.Strong:
		return TierStrong
	case absEdge > c.Edge:
		return TierEdge
	default:
		return TierLean
	}
}

// Params is one league's decision configuration.
type Params struct {
	BaseThreshold float64

	// UncertaintyAware widens the threshold when either team has little
	// history. Fixed-threshold leagues leave it false.
	UncertaintyAware bool

	// TournamentFactor scales the threshold in tournament mode (<1 lowers
	// it, admitting more upset picks). 0 means no adjustment.
	TournamentFactor float64

	ConfidenceScale float64
	Cutoffs         Cutoffs
}

// Threshold resolves the effective threshold for one matchup.
func (p Params) Threshold(mode league.Mode, homePlayed, awayPlayed int) float64 {
	base := p.BaseThreshold
	if mode == league.ModeTournament && p.TournamentFactor > 0 {
		base *= p.TournamentFactor
	}
	if p.UncertaintyAware {
		return UncertaintyThreshold(base, homePlayed, awayPlayed)
	}
	return base
}

var leagueParams = map[league.League]Params{
	league.NBA: {
		BaseThreshold:    0.075,
		UncertaintyAware: true,
		ConfidenceScale:  0.085,
		Cutoffs:          Cutoffs{Edge: 0.12, Strong: 0.18, Elite: 0.25},
	},
	// NCAAM runs a fixed regular-season threshold; the schedule is so
	// uneven that the uncertainty term would swamp half the slate.
	league.NCAAM: {
		BaseThreshold:    0.095,
		TournamentFactor: 0.85,
		ConfidenceScale:  0.10,
		Cutoffs:          Cutoffs{Edge: 0.14, Strong: 0.20, Elite: 0.27},
	},
	league.NHL: {
		BaseThreshold:    0.065,
		UncertaintyAware: true,
		ConfidenceScale:  0.075,
		Cutoffs:          Cutoffs{Edge: 0.10, Strong: 0.15, Elite: 0.21},
	},
}

// ParamsFor returns the decision parameters for a league.
func ParamsFor(lg league.League) Params {
	return leagueParams[lg]
}
