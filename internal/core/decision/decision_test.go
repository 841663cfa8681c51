package decision

import (
	"math"
	"testing"

	"github.com/mhopper/edgeboard/internal/core/league"
)

func TestDecide(t *testing.T) {
	for _, tc := range []struct {
		name       string
		edge       float64
		threshold  float64
		wantSide   Side
		wantReason Reason
	}{
		{"strong home edge", 0.12, 0.075, SideHome, ReasonOK},
		{"strong away edge", -0.12, 0.075, SideAway, ReasonOK},
		{"inside threshold", 0.05, 0.075, SideNone, ReasonBelowThreshold},
		{"barely inside", -0.074, 0.075, SideNone, ReasonBelowThreshold},
		{"exactly at threshold picks", 0.075, 0.075, SideHome, ReasonOK},
		{"NaN never defaults to a side", math.NaN(), 0.075, SideNone, ReasonInvalidEdge},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.edge, tc.threshold)
			if got.Side != tc.wantSide || got.Reason != tc.wantReason {
				t.Errorf("Decide(%v, %v) = %+v, want side=%q reason=%q",
					tc.edge, tc.threshold, got, tc.wantSide, tc.wantReason)
			}
		})
	}
}

func TestUncertaintyThreshold(t *testing.T) {
	const base = 0.075
	for _, tc := range []struct {
		name       string
		home, away int
		want       float64
	}{
		{"deep season", 36, 36, base + 0.06/6},
		{"min side governs", 4, 100, base + 0.06/2},
		{"one game", 1, 1, base + 0.06},
		{"zero games capped", 0, 12, base + 0.06},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := UncertaintyThreshold(base, tc.home, tc.away)
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("UncertaintyThreshold(%v, %d, %d) = %v, want %v", base, tc.home, tc.away, got, tc.want)
			}
		})
	}

	// Never below base, never above base + 0.06.
	for played := 0; played < 200; played += 7 {
		got := UncertaintyThreshold(base, played, played)
		if got < base || got > base+0.06 {
			t.Fatalf("threshold %v out of [%v, %v] at played=%d", got, base, base+0.06, played)
		}
	}
}

func TestConfidenceBounds(t *testing.T) {
	const scale = 0.085
	if got := Confidence(0.001, scale); got != 0.52 {
		t.Errorf("tiny edge confidence = %v, want floor 0.52", got)
	}
	if got := Confidence(5, scale); got != 0.95 {
		t.Errorf("huge edge confidence = %v, want ceiling 0.95", got)
	}
	if Confidence(0.20, scale) <= Confidence(0.10, scale) {
		t.Error("confidence must grow with |edge|")
	}
	if Confidence(-0.15, scale) != Confidence(0.15, scale) {
		t.Error("confidence must be symmetric in edge sign")
	}
}

func TestTierCutoffsAreStrict(t *testing.T) {
	c := Cutoffs{Edge: 0.12, Strong: 0.18, Elite: 0.25}
	for _, tc := range []struct {
		absEdge float64
		made    bool
		want    Tier
	}{
		{0.30, false, TierPass}, // pass outranks any magnitude
		{0.08, true, TierLean},
		{0.12, true, TierLean}, // boundary stays in the lower tier
		{0.121, true, TierEdge},
		{0.18, true, TierEdge},
		{0.19, true, TierStrong},
		{0.25, true, TierStrong},
		{0.26, true, TierElite},
	} {
		if got := c.Tier(tc.absEdge, tc.made); got != tc.want {
			t.Errorf("Tier(%v, %v) = %s, want %s", tc.absEdge, tc.made, got, tc.want)
		}
	}
}

func TestThresholdPerLeague(t *testing.T) {
	nba := ParamsFor(league.NBA)
	if got := nba.Threshold(league.ModeRegular, 36, 36); math.Abs(got-(0.075+0.01)) > 1e-12 {
		t.Errorf("NBA threshold = %v, want uncertainty-widened 0.085", got)
	}

	// NCAAM regular season is a fixed threshold regardless of sample depth.
	ncaam := ParamsFor(league.NCAAM)
	if got := ncaam.Threshold(league.ModeRegular, 2, 2); got != 0.095 {
		t.Errorf("NCAAM thin-history threshold = %v, want fixed 0.095", got)
	}

	// Tournament mode lowers the college threshold.
	if got := ncaam.Threshold(league.ModeTournament, 30, 30); math.Abs(got-0.095*0.85) > 1e-12 {
		t.Errorf("NCAAM tournament threshold = %v, want %v", got, 0.095*0.85)
	}

	nhl := ParamsFor(league.NHL)
	if nhl.BaseThreshold >= nba.BaseThreshold {
		t.Error("NHL threshold should sit below the NBA's")
	}
}
