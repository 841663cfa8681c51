// Package decision thresholds signed edges into pick/pass calls, tiers
// them, and scores conviction.
package decision

import "math"

// Side is the recommended side of a pick. SideNone means PASS: a
// deliberate no-recommendation, never to be defaulted to home or away.
type Side string

const (
	SideNone Side = ""
	SideHome Side = "home"
	SideAway Side = "away"
)

// Reason explains a pick or a pass.
type Reason string

const (
	ReasonOK             Reason = "ok"
	ReasonBelowThreshold Reason = "below_threshold"
	ReasonInvalidEdge    Reason = "invalid_edge"
)

// Pick is the thresholded decision for one game.
type Pick struct {
	Side   Side
	Reason Reason
}

// Made reports whether a recommendation was actually made.
func (p Pick) Made() bool { return p.Side != SideNone }

// Decide thresholds an edge. NaN edges (insufficient history) and
// sub-threshold edges both come back as passes, with distinct reasons.
func Decide(edge, threshold float64) Pick {
	if math.IsNaN(edge) {
		return Pick{Side: SideNone, Reason: ReasonInvalidEdge}
	}
	if math.Abs(edge) < threshold {
		return Pick{Side: SideNone, Reason: ReasonBelowThreshold}
	}
	if edge > 0 {
		return Pick{Side: SideHome, Reason: ReasonOK}
	}
	return Pick{Side: SideAway, Reason: ReasonOK}
}

// Maximum widening applied to a base threshold when history is thin.
const uncertaintyWiden = 0.06

// UncertaintyThreshold widens a base threshold by 0.06/sqrt(min games
// played), so thin history demands a bigger edge. Zero played counts as
// maximal uncertainty (the floor at 1 also keeps the division safe).
// The result is clamped to [base, base+0.06].
func UncertaintyThreshold(base float64, homePlayed, awayPlayed int) float64 {
	minPlayed := homePlayed
	if awayPlayed < minPlayed {
		minPlayed = awayPlayed
	}
	if minPlayed < 1 {
		minPlayed = 1
	}
	t := base + uncertaintyWiden/math.Sqrt(float64(minPlayed))
	return math.Max(base, math.Min(base+uncertaintyWiden, t))
}

// Confidence bounds. A pick's confidence never drops below 0.52 (we only
// pick when past threshold) and never claims more than 0.95.
const (
	confidenceFloor = 0.52
	confidenceCeil  = 0.95
)

// Confidence squashes edge magnitude into [0.52, 0.95]. Monotonic in
// |edge|. Only meaningful for made picks; callers must not report one for
// a pass.
func Confidence(edge, scale float64) float64 {
	c := 1.0 / (1.0 + math.Exp(-math.Abs(edge)/scale))
	return math.Max(confidenceFloor, math.Min(confidenceCeil, c))
}
