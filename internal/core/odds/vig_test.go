package odds

import (
	"math"
	"testing"
)

func TestImpliedFromAmerican(t *testing.T) {
	for _, tc := range []struct {
		price float64
		want  float64
	}{
		{100, 0.5},
		{-100, 0.5},
		{150, 0.4},
		{-150, 0.6},
		{-110, 110.0 / 210.0},
		{0, 0},
	} {
		if got := ImpliedFromAmerican(tc.price); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("ImpliedFromAmerican(%v) = %v, want %v", tc.price, got, tc.want)
		}
	}
}

func TestRemoveVig2(t *testing.T) {
	a, b := RemoveVig2(0.55, 0.55)
	if math.Abs(a-0.5) > 1e-12 || math.Abs(b-0.5) > 1e-12 {
		t.Errorf("symmetric overround = (%v, %v), want (0.5, 0.5)", a, b)
	}

	a, b = RemoveVig2(0.60, 0.45)
	if math.Abs(a+b-1.0) > 1e-12 {
		t.Errorf("de-vigged pair sums to %v, want 1", a+b)
	}
	if a <= b {
		t.Error("de-vigging must preserve ordering")
	}

	if a, b := RemoveVig2(0, 0.5); a != 0 || b != 0 {
		t.Errorf("degenerate input = (%v, %v), want zeros", a, b)
	}
}

func TestFairFromMoneylines(t *testing.T) {
	// -110/-110 is the canonical balanced line.
	h, a := FairFromMoneylines(-110, -110)
	if math.Abs(h-0.5) > 1e-12 || math.Abs(a-0.5) > 1e-12 {
		t.Errorf("balanced line = (%v, %v), want (0.5, 0.5)", h, a)
	}

	h, a = FairFromMoneylines(-170, 150)
	if math.Abs(h+a-1.0) > 1e-12 {
		t.Errorf("fair pair sums to %v, want 1", h+a)
	}
	if h < 0.60 || h > 0.64 {
		t.Errorf("home fair prob = %v, want ~0.61 for -170", h)
	}
}
