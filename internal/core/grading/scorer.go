// Package grading scores prior picks against final results and persists
// per-date rollups.
package grading

import (
	"math"

	"github.com/mhopper/edgeboard/internal/core/decision"
	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/predict"
)

// Outcome is the graded result for one game.
type Outcome string

const (
	OutcomeWin     Outcome = "WIN"
	OutcomeLoss    Outcome = "LOSS"
	OutcomePush    Outcome = "PUSH"
	OutcomeNoPick  Outcome = "NOPICK"
	OutcomeNoScore Outcome = "NOSCORE"
)

// GradingOutcome is one game's graded row.
type GradingOutcome struct {
	GameID     string   `json:"gameId"`
	PickSide   string   `json:"pickSide,omitempty"`
	Result     Outcome  `json:"result"`
	Edge       *float64 `json:"edge,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// GradingSummary is the per-(league, date) rollup handed to the store.
// Invariants: Graded = Wins+Losses+Pushes; Completed >= Graded+Passes;
// WinRate is nil, not zero, when nothing was won or lost.
type GradingSummary struct {
	League league.League `json:"league"`
	Date   string        `json:"date"`
	RunID  string        `json:"runId,omitempty"`

	Completed int `json:"completed"`
	Graded    int `json:"graded"`
	Wins      int `json:"wins"`
	Losses    int `json:"losses"`
	Pushes    int `json:"pushes"`
	Passes    int `json:"passes"`
	NoScore   int `json:"noScore"`

	WinRate       *float64 `json:"winRate"`
	AvgEdge       *float64 `json:"avgEdge"`
	AvgConfidence *float64 `json:"avgConfidence"`

	Outcomes []GradingOutcome `json:"outcomes,omitempty"`
}

// gradable reports whether a record's result can be trusted: status Final,
// both scores present, and not a (0,0) scoreboard placeholder.
func gradable(r predict.PredictionRecord) bool {
	if r.Status != predict.StatusFinal {
		return false
	}
	if r.HomeScore == nil || r.AwayScore == nil {
		return false
	}
	return *r.HomeScore != 0 || *r.AwayScore != 0
}

// Score grades one date's prediction records. It is a pure function:
// scoring the same records twice yields the identical summary.
func Score(lg league.League, date string, records []predict.PredictionRecord) GradingSummary {
	sum := GradingSummary{League: lg, Date: date}

	var edgeTotal, confTotal float64
	var confCount int

	for _, r := range records {
		if r.Status != predict.StatusFinal {
			continue
		}
		sum.Completed++

		if !gradable(r) {
			sum.NoScore++
			sum.Outcomes = append(sum.Outcomes, GradingOutcome{GameID: r.GameID, Result: OutcomeNoScore})
			continue
		}

		if r.Market.Pick == nil {
			sum.Passes++
			sum.Outcomes = append(sum.Outcomes, GradingOutcome{GameID: r.GameID, Result: OutcomeNoPick})
			continue
		}

		side := *r.Market.Pick
		picked, opponent := *r.HomeScore, *r.AwayScore
		if side == string(decision.SideAway) {
			picked, opponent = opponent, picked
		}

		var result Outcome
		switch {
		case picked > opponent:
			result = OutcomeWin
			sum.Wins++
		case picked < opponent:
			result = OutcomeLoss
			sum.Losses++
		default:
			result = OutcomePush
			sum.Pushes++
		}

		oc := GradingOutcome{GameID: r.GameID, PickSide: side, Result: result,
			Edge: r.Market.Edge, Confidence: r.Market.Confidence}
		sum.Outcomes = append(sum.Outcomes, oc)

		if r.Market.Edge != nil {
			edgeTotal += math.Abs(*r.Market.Edge)
		}
		if r.Market.Confidence != nil {
			confTotal += *r.Market.Confidence
			confCount++
		}
	}

	sum.Graded = sum.Wins + sum.Losses + sum.Pushes
	if decided := sum.Wins + sum.Losses; decided > 0 {
		// Pushes stay out of the denominator.
		wr := float64(sum.Wins) / float64(decided)
		sum.WinRate = &wr
	}
	if sum.Graded > 0 {
		avg := edgeTotal / float64(sum.Graded)
		sum.AvgEdge = &avg
	}
	if confCount > 0 {
		avg := confTotal / float64(confCount)
		sum.AvgConfidence = &avg
	}
	return sum
}
