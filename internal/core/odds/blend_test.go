package odds

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestBlendNoMarketPassesThrough(t *testing.T) {
	got := Blend(0.63, nil)
	if got.AdjustedProb != 0.63 || got.Alpha != 0 {
		t.Errorf("nil market: got %+v, want passthrough with alpha 0", got)
	}

	nan := Blend(math.NaN(), fp(0.55))
	if !math.IsNaN(nan.AdjustedProb) || nan.Alpha != 0 {
		t.Errorf("NaN model prob: got %+v, want NaN passthrough", nan)
	}
}

func TestBlendAlphaByGap(t *testing.T) {
	for _, tc := range []struct {
		name      string
		model     float64
		market    float64
		wantAlpha float64
	}{
		{"small gap trusts market", 0.60, 0.58, 0.65},
		{"gap boundary stays small", 0.60, 0.56, 0.65},
		{"medium gap", 0.60, 0.53, 0.45},
		{"large gap trusts model", 0.70, 0.50, 0.25},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := Blend(tc.model, fp(tc.market))
			if got.Alpha != tc.wantAlpha {
				t.Fatalf("alpha = %v, want %v", got.Alpha, tc.wantAlpha)
			}
			want := (1-tc.wantAlpha)*tc.model + tc.wantAlpha*tc.market
			if math.Abs(got.AdjustedProb-want) > 1e-12 {
				t.Errorf("adjusted = %v, want %v", got.AdjustedProb, want)
			}
		})
	}
}

func TestBlendClampsToBand(t *testing.T) {
	if got := Blend(0.93, fp(0.90)); got.AdjustedProb != 0.80 {
		t.Errorf("high blend = %v, want ceiling 0.80", got.AdjustedProb)
	}
	if got := Blend(0.10, fp(0.12)); got.AdjustedProb != 0.35 {
		t.Errorf("low blend = %v, want floor 0.35", got.AdjustedProb)
	}
}
