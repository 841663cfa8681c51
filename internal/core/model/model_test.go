package model

import (
	"math"
	"testing"

	"github.com/mhopper/edgeboard/internal/core/stats"
)

// teamLine builds season-only rolling stats; windows fall back to the
// season line.
func teamLine(played int, winPct, margin float64) stats.TeamRollingStats {
	return stats.TeamRollingStats{
		TeamID:        "t",
		Ok:            true,
		Played:        played,
		WinPct:        winPct,
		MarginPerGame: margin,
	}
}

func TestEdgeFavorsStrongerTeam(t *testing.T) {
	m := NewNBA(V1)

	home := teamLine(12, 10.0/12.0, 8)  // 10-2, +8/game
	away := teamLine(12, 4.0/12.0, -6) // 4-8, -6/game

	edge := m.Edge(home, away, Context{})
	if math.IsNaN(edge) || edge <= 0 {
		t.Fatalf("edge = %f, want clearly positive", edge)
	}

	// Symmetric matchup flipped home/away should flip the edge minus twice
	// the home bump.
	flipped := m.Edge(away, home, Context{})
	if flipped >= 0 {
		t.Errorf("flipped edge = %f, want negative", flipped)
	}
}

func TestEdgeIdenticalTeamsIsHomeAdvantageOnly(t *testing.T) {
	m := NewNBA(V1)
	line := teamLine(12, 0.5, 0)

	edge := m.Edge(line, line, Context{})
	if math.Abs(edge-nbaHomeAdvantage) > 1e-12 {
		t.Errorf("edge = %f, want exactly home advantage %f", edge, nbaHomeAdvantage)
	}

	if neutral := m.Edge(line, line, Context{Neutral: true}); neutral != 0 {
		t.Errorf("neutral-site edge = %f, want 0", neutral)
	}
}

func TestEdgeInsufficientHistoryIsNaN(t *testing.T) {
	m := NewNBA(V1)
	good := teamLine(12, 0.75, 5)
	missing := stats.TeamRollingStats{TeamID: "x", Ok: false}

	for _, tc := range []struct {
		name       string
		home, away stats.TeamRollingStats
	}{
		{"home missing", missing, good},
		{"away missing", good, missing},
		{"both missing", missing, missing},
	} {
		if edge := m.Edge(tc.home, tc.away, Context{}); !math.IsNaN(edge) {
			t.Errorf("%s: edge = %f, want NaN", tc.name, edge)
		}
	}
}

func TestEdgeMarginSaturates(t *testing.T) {
	m := NewNBA(V1)
	modest := m.Edge(teamLine(12, 0.5, 12), teamLine(12, 0.5, 0), Context{Neutral: true})
	blowout := m.Edge(teamLine(12, 0.5, 40), teamLine(12, 0.5, 0), Context{Neutral: true})

	if blowout > modest+1e-12 {
		t.Errorf("blowout margin edge %f exceeds saturated edge %f", blowout, modest)
	}
}

func TestV2ShrinksSmallSamples(t *testing.T) {
	v1, v2 := NewNBA(V1), NewNBA(V2)

	// 2-0 vs 0-2 is loud noise three nights into a season.
	home := teamLine(2, 1.0, 15)
	away := teamLine(2, 0.0, -15)

	e1 := v1.Edge(home, away, Context{Neutral: true})
	e2 := v2.Edge(home, away, Context{Neutral: true})
	if e2 >= e1 {
		t.Errorf("v2 edge %f not shrunk below v1 edge %f", e2, e1)
	}
	if e2 <= 0 {
		t.Errorf("v2 edge %f lost the sign", e2)
	}

	// With a deep sample the two versions should nearly agree.
	home, away = teamLine(70, 0.7, 5), teamLine(70, 0.4, -3)
	e1 = v1.Edge(home, away, Context{Neutral: true})
	e2 = v2.Edge(home, away, Context{Neutral: true})
	if math.Abs(e1-e2) > 0.25*math.Abs(e1) {
		t.Errorf("v1/v2 diverge on deep samples: %f vs %f", e1, e2)
	}
}

func TestTournamentUpsetBoost(t *testing.T) {
	m := NewNCAAM(V1)

	// Home is the on-paper underdog by record but profiles better on margin.
	home := teamLine(20, 0.40, 10)
	away := teamLine(20, 0.60, 0)

	neutral := m.Edge(home, away, Context{Neutral: true})
	if neutral <= 0 {
		t.Fatalf("setup broken: neutral edge = %f, want positive toward the underdog", neutral)
	}

	tourney := m.Edge(home, away, Context{Tournament: true})
	if math.Abs(tourney-neutral*ncaamUpsetBoost) > 1e-12 {
		t.Errorf("tournament edge = %f, want %f boosted by %v", tourney, neutral*ncaamUpsetBoost, ncaamUpsetBoost)
	}

	// Pointing at the favorite: no boost, and no home advantage either.
	fav := m.Edge(away, home, Context{Tournament: true})
	favNeutral := m.Edge(away, home, Context{Neutral: true})
	if math.Abs(fav-favNeutral) > 1e-12 {
		t.Errorf("favorite-side tournament edge = %f, want unboosted %f", fav, favNeutral)
	}
}

func TestShrinkFormula(t *testing.T) {
	for _, tc := range []struct {
		x     float64
		n     int
		k     float64
		prior float64
		want  float64
	}{
		{1.0, 2, 18, 0.5, (2*1.0 + 18*0.5) / 20},
		{0.5, 50, 18, 0.5, 0.5},
		{10, 5, 5, 0, 5},
		{0.9, 10, 0, 0.5, 0.9}, // k=0 disables
	} {
		if got := shrink(tc.x, tc.n, tc.k, tc.prior); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("shrink(%v,%v,%v,%v) = %v, want %v", tc.x, tc.n, tc.k, tc.prior, got, tc.want)
		}
	}
}

func TestWinProbability(t *testing.T) {
	if got := WinProbability(0); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("WinProbability(0) = %f, want 0.5", got)
	}
	if got := WinProbability(2); got != 0.95 {
		t.Errorf("huge edge prob = %f, want ceiling 0.95", got)
	}
	if got := WinProbability(-2); got != 0.05 {
		t.Errorf("huge negative edge prob = %f, want floor 0.05", got)
	}
	if !math.IsNaN(WinProbability(math.NaN())) {
		t.Error("NaN edge must produce NaN probability, not a number")
	}
	if WinProbability(0.10) <= WinProbability(0.05) {
		t.Error("win probability must be monotonic in the edge")
	}
}

func TestRegistryLookup(t *testing.T) {
	r := DefaultRegistry()

	for _, m := range []*Model{NewNBA(V1), NewNCAAM(V2), NewNHL(V1)} {
		got, ok := r.Get(m.League, m.Version)
		if !ok {
			t.Fatalf("registry missing %s/%s", m.League, m.Version)
		}
		if got.League != m.League || got.Version != m.Version {
			t.Errorf("registry returned %s/%s for %s/%s", got.League, got.Version, m.League, m.Version)
		}
	}

	if _, ok := r.Get("nfl", V1); ok {
		t.Error("unknown league lookup should miss")
	}
}
