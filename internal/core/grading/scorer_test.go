package grading

import (
	"math"
	"testing"

	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/predict"
)

func ptr[T any](v T) *T { return &v }

func gradedRecord(id, side string, home, away int) predict.PredictionRecord {
	rec := predict.PredictionRecord{
		GameID:    id,
		Status:    predict.StatusFinal,
		HomeScore: &home,
		AwayScore: &away,
	}
	if side != "" {
		rec.Market.Pick = &side
		rec.Market.Edge = ptr(0.10)
		rec.Market.Confidence = ptr(0.70)
	}
	return rec
}

func TestScoreOutcomes(t *testing.T) {
	records := []predict.PredictionRecord{
		gradedRecord("w1", "home", 100, 90),
		gradedRecord("w2", "away", 90, 100),
		gradedRecord("l1", "home", 90, 100),
		gradedRecord("l2", "away", 100, 90),
		gradedRecord("p1", "home", 95, 95),
		gradedRecord("pass", "", 100, 90),
	}

	sum := Score(league.NBA, "2026-01-14", records)

	if sum.Wins != 2 || sum.Losses != 2 || sum.Pushes != 1 {
		t.Fatalf("W-L-P = %d-%d-%d, want 2-2-1", sum.Wins, sum.Losses, sum.Pushes)
	}
	if sum.Graded != 5 {
		t.Errorf("graded = %d, want wins+losses+pushes", sum.Graded)
	}
	if sum.Passes != 1 {
		t.Errorf("passes = %d, want 1", sum.Passes)
	}
	if sum.Completed != 6 {
		t.Errorf("completed = %d, want 6", sum.Completed)
	}

	// Pushes are excluded from the win-rate denominator.
	if sum.WinRate == nil || math.Abs(*sum.WinRate-0.5) > 1e-12 {
		t.Errorf("winRate = %v, want 0.5", sum.WinRate)
	}
	if sum.AvgConfidence == nil || math.Abs(*sum.AvgConfidence-0.70) > 1e-12 {
		t.Errorf("avgConfidence = %v, want 0.70", sum.AvgConfidence)
	}
	if len(sum.Outcomes) != 6 {
		t.Errorf("outcomes = %d rows, want 6", len(sum.Outcomes))
	}
}

func TestScoreSkipsNonFinalGames(t *testing.T) {
	records := []predict.PredictionRecord{
		{GameID: "live", Status: predict.StatusInProgress, HomeScore: ptr(55), AwayScore: ptr(50)},
		{GameID: "future", Status: predict.StatusScheduled},
	}

	sum := Score(league.NHL, "2026-01-14", records)
	if sum.Completed != 0 || len(sum.Outcomes) != 0 {
		t.Errorf("non-final games leaked into the summary: %+v", sum)
	}
	if sum.WinRate != nil {
		t.Error("winRate must be nil when nothing graded, never 0")
	}
}

func TestScoreZeroZeroFinalIsNoScore(t *testing.T) {
	records := []predict.PredictionRecord{
		gradedRecord("ok", "home", 100, 90),
		// Scoreboard emitted final with a 0-0 placeholder.
		gradedRecord("ghost", "home", 0, 0),
		// Final but the provider dropped the scores entirely.
		{GameID: "bare", Status: predict.StatusFinal, Market: predict.MarketCall{Pick: ptr("home")}},
	}

	sum := Score(league.NCAAM, "2026-01-14", records)
	if sum.NoScore != 2 {
		t.Fatalf("noScore = %d, want 2", sum.NoScore)
	}
	if sum.Wins != 1 || sum.Graded != 1 {
		t.Errorf("W=%d graded=%d, want the one real final graded", sum.Wins, sum.Graded)
	}
}

func TestScoreAllLossesWinRateZeroNotNil(t *testing.T) {
	sum := Score(league.NBA, "2026-01-14", []predict.PredictionRecord{
		gradedRecord("l1", "home", 90, 100),
	})
	if sum.WinRate == nil || *sum.WinRate != 0 {
		t.Errorf("winRate = %v, want explicit 0 after a decided loss", sum.WinRate)
	}
}

func TestScoreIsPure(t *testing.T) {
	records := []predict.PredictionRecord{
		gradedRecord("w1", "home", 100, 90),
		gradedRecord("p1", "away", 80, 80),
	}
	a := Score(league.NBA, "2026-01-14", records)
	b := Score(league.NBA, "2026-01-14", records)

	if a.Wins != b.Wins || a.Pushes != b.Pushes || len(a.Outcomes) != len(b.Outcomes) {
		t.Errorf("same input scored differently: %+v vs %+v", a, b)
	}
}
