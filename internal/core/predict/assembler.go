package predict

import (
	"fmt"
	"math"

	"github.com/mhopper/edgeboard/internal/core/decision"
)

// Computed carries one game's pipeline output into assembly. Edge and
// WinProb may be NaN (insufficient history); Confidence is only meaningful
// when Pick.Made().
type Computed struct {
	Edge       float64
	Threshold  float64
	Pick       decision.Pick
	Tier       decision.Tier
	Confidence float64
	WinProb    float64

	MarketProb  *float64
	MarketAlpha float64
	Bookmaker   string

	Factors map[string]float64
	Deltas  map[string]float64
}

// assemble builds the public record for one game. Everything here is a
// deterministic function of its inputs: same schedule entry plus same
// computed values always yields the identical record.
func assemble(g ScheduledGame, c Computed) PredictionRecord {
	rec := PredictionRecord{
		GameID:    g.GameID,
		Date:      g.Date,
		Status:    g.Status,
		Home:      g.Home,
		Away:      g.Away,
		HomeScore: g.HomeScore,
		AwayScore: g.AwayScore,
		Factors:   c.Factors,
	}

	call := MarketCall{
		Reason:      string(c.Pick.Reason),
		Threshold:   c.Threshold,
		Tier:        string(c.Tier),
		MarketProb:  c.MarketProb,
		MarketAlpha: c.MarketAlpha,
		Bookmaker:   c.Bookmaker,
	}
	if !math.IsNaN(c.Edge) {
		call.Edge = f64ptr(c.Edge)
	}
	if !math.IsNaN(c.WinProb) {
		call.WinProb = f64ptr(c.WinProb)
	}
	if c.Pick.Made() {
		side := string(c.Pick.Side)
		call.Pick = &side
		call.Confidence = f64ptr(c.Confidence)
		team := pickedTeam(g, c.Pick.Side)
		call.RecommendedTeamID = &team.ID
	}
	rec.Market = call
	rec.Why = explain(g, c)
	return rec
}

func pickedTeam(g ScheduledGame, side decision.Side) TeamRef {
	if side == decision.SideHome {
		return g.Home
	}
	return g.Away
}

// explain writes the headline and at most six bullets. No randomness, no
// wall clock: grading must be able to reproduce exactly what was shown.
func explain(g ScheduledGame, c Computed) Why {
	why := Why{Deltas: c.Deltas}

	switch {
	case c.Pick.Reason == decision.ReasonInvalidEdge:
		why.Headline = "Pass — insufficient history"
		why.Bullets = append(why.Bullets,
			"Pass: one or both teams have no usable completed games in the window",
		)
	case !c.Pick.Made():
		why.Headline = "Pass"
		why.Bullets = append(why.Bullets,
			fmt.Sprintf("Pass: edge %+.3f inside threshold ±%.3f", c.Edge, c.Threshold),
		)
	default:
		team := pickedTeam(g, c.Pick.Side)
		why.Headline = fmt.Sprintf("%s (%s) %+.3f %s", team.DisplayName, c.Pick.Side, c.Edge, c.Tier)
		why.Bullets = append(why.Bullets,
			fmt.Sprintf("Pick: %s (%s)", team.DisplayName, c.Pick.Side),
			fmt.Sprintf("Edge %+.3f clears threshold %.3f", c.Edge, c.Threshold),
			fmt.Sprintf("Confidence %.0f%%", c.Confidence*100),
		)
	}

	if !math.IsNaN(c.WinProb) {
		if c.MarketProb != nil {
			why.Bullets = append(why.Bullets,
				fmt.Sprintf("Home win probability %.1f%% (market-anchored, alpha %.2f vs %s %.1f%%)",
					c.WinProb*100, c.MarketAlpha, c.Bookmaker, *c.MarketProb*100),
			)
		} else {
			why.Bullets = append(why.Bullets,
				fmt.Sprintf("Home win probability %.1f%% (model only)", c.WinProb*100),
			)
		}
	}

	if d, ok := c.Deltas["win_pct"]; ok {
		why.Bullets = append(why.Bullets, fmt.Sprintf("Season win%% edge %+.3f to the %s", d, sideOf(d)))
	}
	if d, ok := c.Deltas["recent5_margin"]; ok && d != 0 {
		why.Bullets = append(why.Bullets, fmt.Sprintf("Last-5 margin edge %+.1f/game to the %s", d, sideOf(d)))
	}

	if len(why.Bullets) > 6 {
		why.Bullets = why.Bullets[:6]
	}
	return why
}

func sideOf(delta float64) string {
	if delta >= 0 {
		return "home side"
	}
	return "away side"
}

func f64ptr(v float64) *float64 { return &v }
