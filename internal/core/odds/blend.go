package odds

import "math"

// Blend weights by model/market disagreement. When the model sits close to
// the market, the market is probably right and gets most of the say. When
// they diverge hard, the market line may be stale, so the model dominates
// rather than deferring.
const (
	smallGap  = 0.04
	mediumGap = 0.08

	alphaSmall  = 0.65
	alphaMedium = 0.45
	alphaLarge  = 0.25
)

// Adjusted probabilities are clamped to a believable band; the blend must
// not manufacture certainty neither input had.
const (
	blendFloor = 0.35
	blendCeil  = 0.80
)

// BlendResult is the market-anchored probability and the weight the market
// received. Alpha 0 means no market data was available.
type BlendResult struct {
	AdjustedProb float64
	Alpha        float64
}

// Blend anchors a model win probability to a vig-free market probability.
// A nil marketProb is a normal condition (no line, fetch failed, historical
// lookups disabled) and passes the model probability through untouched.
func Blend(modelProb float64, marketProb *float64) BlendResult {
	if marketProb == nil || math.IsNaN(modelProb) {
		return BlendResult{AdjustedProb: modelProb, Alpha: 0}
	}

	gap := math.Abs(modelProb - *marketProb)
	alpha := alphaLarge
	switch {
	case gap <= smallGap:
		alpha = alphaSmall
	case gap <= mediumGap:
		alpha = alphaMedium
	}

	p := (1-alpha)*modelProb + alpha*(*marketProb)
	p = math.Max(blendFloor, math.Min(blendCeil, p))
	return BlendResult{AdjustedProb: p, Alpha: alpha}
}
