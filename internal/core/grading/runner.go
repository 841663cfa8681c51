package grading

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/predict"
	"github.com/mhopper/edgeboard/internal/telemetry"
)

// Publisher receives scoring-complete notifications. The fanout hub
// satisfies it; tests use a no-op.
type Publisher interface {
	Publish(eventType string, payload any)
}

// Runner grades one date for one or more leagues: it reproduces the slate
// the pipeline showed for that date, overlays final scores from a fresh
// schedule fetch, scores, and upserts the rollup.
type Runner struct {
	svc       *predict.Service
	schedules map[league.League]predict.ScheduleProvider
	store     *Store
	pub       Publisher
}

func NewRunner(svc *predict.Service, schedules map[league.League]predict.ScheduleProvider, store *Store, pub Publisher) *Runner {
	return &Runner{svc: svc, schedules: schedules, store: store, pub: pub}
}

// RunResult is one league's outcome within a run. Err is set when that
// league failed; other leagues in the same run are unaffected.
type RunResult struct {
	League  league.League   `json:"league"`
	Summary *GradingSummary `json:"summary,omitempty"`
	Err     string          `json:"error,omitempty"`
}

// Run grades the given leagues for one date, concurrently. Unless force is
// set, a league already graded for the date returns its stored summary
// untouched. Results come back in input order.
func (r *Runner) Run(ctx context.Context, date string, leagues []league.League, force bool) []RunResult {
	runID := uuid.NewString()
	results := make([]RunResult, len(leagues))

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for i, lg := range leagues {
		g.Go(func() error {
			sum, err := r.runLeague(ctx, lg, date, runID, force)

			mu.Lock()
			defer mu.Unlock()
			results[i].League = lg
			if err != nil {
				telemetry.Errorf("scoring %s %s: %v", lg, date, err)
				telemetry.ScoringRuns.WithLabelValues(string(lg), "error").Inc()
				results[i].Err = err.Error()
				return nil // one league's failure must not cancel the others
			}
			telemetry.ScoringRuns.WithLabelValues(string(lg), "ok").Inc()
			results[i].Summary = sum
			return nil
		})
	}
	_ = g.Wait()

	if r.pub != nil {
		r.pub.Publish("scoring_complete", map[string]any{
			"runId":   runID,
			"date":    date,
			"results": results,
		})
	}
	return results
}

func (r *Runner) runLeague(ctx context.Context, lg league.League, date, runID string, force bool) (*GradingSummary, error) {
	if !force {
		if existing, ok, err := r.store.GetSummary(lg, date); err != nil {
			return nil, err
		} else if ok {
			telemetry.Infof("scoring %s %s: already graded (run %s), skipping", lg, date, existing.RunID)
			return &existing, nil
		}
	}

	// Reproduce the picks. The pipeline is deterministic for a fixed
	// (league, date, window, model) tuple, so this is the slate users saw.
	slate, err := r.svc.Slate(ctx, predict.Request{League: lg, Date: date})
	if err != nil {
		return nil, fmt.Errorf("rebuild slate: %w", err)
	}

	sched, ok := r.schedules[lg]
	if !ok {
		return nil, fmt.Errorf("no schedule provider for %s", lg)
	}
	finals, err := sched.GetSchedule(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch finals: %w", err)
	}

	records := overlayFinals(slate.Games, finals)
	sum := Score(lg, date, records)
	sum.RunID = runID

	if err := r.store.UpsertSummary(sum); err != nil {
		return nil, fmt.Errorf("persist summary: %w", err)
	}
	telemetry.Infof("scoring %s %s: graded=%d W-L-P %d-%d-%d pass=%d",
		lg, date, sum.Graded, sum.Wins, sum.Losses, sum.Pushes, sum.Passes)
	return &sum, nil
}

// overlayFinals copies current status and scores onto the prediction
// records by game id. Records for games the schedule no longer lists are
// kept as-is (they simply won't grade).
func overlayFinals(records []predict.PredictionRecord, finals []predict.ScheduledGame) []predict.PredictionRecord {
	byID := make(map[string]predict.ScheduledGame, len(finals))
	for _, g := range finals {
		byID[g.GameID] = g
	}

	out := make([]predict.PredictionRecord, len(records))
	for i, rec := range records {
		if g, ok := byID[rec.GameID]; ok {
			rec.Status = g.Status
			rec.HomeScore = g.HomeScore
			rec.AwayScore = g.AwayScore
		}
		out[i] = rec
	}
	return out
}
