package predict

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mhopper/edgeboard/internal/core/decision"
	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/model"
	"github.com/mhopper/edgeboard/internal/core/odds"
	"github.com/mhopper/edgeboard/internal/core/stats"
	"github.com/mhopper/edgeboard/internal/telemetry"
)

// Request is the full parameter tuple for one slate. The tuple is also the
// cache and in-flight dedup key.
type Request struct {
	League     league.League
	Date       string // YYYY-MM-DD
	WindowDays int
	Model      model.Version
	Mode       league.Mode
}

func (r Request) key() string {
	return fmt.Sprintf("%s|%s|%d|%s|%s", r.League, r.Date, r.WindowDays, r.Model, r.Mode)
}

// Service runs the prediction pipeline: fetch history and schedule,
// aggregate, score edges, decide, assemble. Concurrent callers for the
// same request tuple share one in-flight computation.
type Service struct {
	providers  Providers
	models     *model.Registry
	cache      *Cache
	sf         singleflight.Group
	windowDays int
	listener   SlateListener
}

// SlateListener observes freshly computed slates. Cache hits do not
// trigger it.
type SlateListener func(s *Slate)

func NewService(p Providers, reg *model.Registry, cache *Cache, defaultWindowDays int) *Service {
	return &Service{
		providers:  p,
		models:     reg,
		cache:      cache,
		windowDays: defaultWindowDays,
	}
}

// OnSlateComputed registers a listener for fresh slate computations.
// Must be called before the service starts taking requests.
func (s *Service) OnSlateComputed(fn SlateListener) {
	s.listener = fn
}

// Slate returns the assembled predictions for one request tuple. Results
// are cached and shared; callers must treat the returned slate as
// read-only.
func (s *Service) Slate(ctx context.Context, req Request) (*Slate, error) {
	req, err := s.normalize(req)
	if err != nil {
		return nil, err
	}

	key := req.key()
	if cached, ok := s.cache.Get(key); ok {
		telemetry.SlatesServed.WithLabelValues(string(req.League), "cache").Inc()
		return cached, nil
	}

	// First caller computes; everyone else waiting on the same key gets
	// the same result (and the same error).
	v, err, _ := s.sf.Do(key, func() (any, error) {
		start := time.Now()
		slate, err := s.build(ctx, req)
		if err != nil {
			return nil, err
		}
		telemetry.SlateBuildDuration.WithLabelValues(string(req.League)).Observe(time.Since(start).Seconds())
		s.cache.Put(key, slate)
		if s.listener != nil {
			s.listener(slate)
		}
		return slate, nil
	})
	if err != nil {
		return nil, err
	}
	telemetry.SlatesServed.WithLabelValues(string(req.League), "computed").Inc()
	return v.(*Slate), nil
}

func (s *Service) normalize(req Request) (Request, error) {
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return req, fmt.Errorf("invalid date %q: want YYYY-MM-DD", req.Date)
	}
	if req.WindowDays <= 0 {
		req.WindowDays = s.windowDays
	}
	if req.Model == "" {
		req.Model = model.V1
	}
	if req.Mode == "" {
		req.Mode = league.ModeRegular
	}
	return req, nil
}

// historyRange is [date-windowDays, date-1]: the night's slate is scored
// on what happened before it, never on itself.
func historyRange(date string, windowDays int) (string, string) {
	d, _ := time.Parse("2006-01-02", date)
	start := d.AddDate(0, 0, -windowDays).Format("2006-01-02")
	end := d.AddDate(0, 0, -1).Format("2006-01-02")
	return start, end
}

func (s *Service) build(ctx context.Context, req Request) (*Slate, error) {
	sched, ok := s.providers.Schedules[req.League]
	if !ok {
		return nil, fmt.Errorf("no schedule provider for %s", req.League)
	}
	hist, ok := s.providers.Histories[req.League]
	if !ok {
		return nil, fmt.Errorf("no history provider for %s", req.League)
	}
	m, ok := s.models.Get(req.League, req.Model)
	if !ok {
		return nil, fmt.Errorf("no %s model registered for %s", req.Model, req.League)
	}

	schedule, err := sched.GetSchedule(ctx, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%s schedule for %s: %w", req.League, req.Date, err)
	}

	start, end := historyRange(req.Date, req.WindowDays)
	games, err := hist.GetHistory(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s history %s..%s: %w", req.League, start, end, err)
	}
	teamStats := stats.Aggregate(games, model.Windows())

	meta := Meta{
		League:     req.League,
		Date:       req.Date,
		Model:      req.Model,
		Mode:       req.Mode,
		WindowDays: req.WindowDays,
		TotalGames: len(schedule),
	}

	// Market anchors are NBA-only and strictly best-effort: a dead odds
	// feed degrades to model-only probabilities, never to a failed slate.
	var anchors map[string]MarketAnchor
	if req.League == league.NBA && s.providers.Market != nil {
		anchors, err = s.providers.Market.GetMarketOdds(ctx, req.Date)
		if err != nil {
			telemetry.Warnf("predict: market odds for %s unavailable: %v", req.Date, err)
			meta.Warnings = append(meta.Warnings, fmt.Sprintf("market odds unavailable: %v", err))
			anchors = nil
		}
	}

	params := decision.ParamsFor(req.League)
	records := make([]PredictionRecord, 0, len(schedule))
	invalid := 0

	for _, g := range schedule {
		c := s.computeGame(g, req, m, params, teamStats, anchors)
		if c.Pick.Reason == decision.ReasonInvalidEdge {
			invalid++
		}
		if c.Pick.Made() {
			meta.Picks++
			telemetry.PicksEmitted.WithLabelValues(string(req.League), string(c.Tier)).Inc()
		} else {
			meta.Passes++
		}
		records = append(records, assemble(g, c))
	}
	if invalid > 0 {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("%d game(s) passed for insufficient history", invalid))
	}

	return &Slate{Meta: meta, Games: records}, nil
}

func (s *Service) computeGame(
	g ScheduledGame,
	req Request,
	m *model.Model,
	params decision.Params,
	teamStats map[string]stats.TeamRollingStats,
	anchors map[string]MarketAnchor,
) Computed {
	home := teamStats[g.Home.ID]
	away := teamStats[g.Away.ID]

	mctx := model.Context{
		Neutral:    g.Neutral,
		Tournament: req.Mode == league.ModeTournament || g.Postseason,
	}

	edge := m.Edge(home, away, mctx)
	threshold := params.Threshold(req.Mode, home.Played, away.Played)
	pick := decision.Decide(edge, threshold)
	winProb := model.WinProbability(edge)

	c := Computed{
		Edge:      edge,
		Threshold: threshold,
		Pick:      pick,
		Tier:      params.Cutoffs.Tier(math.Abs(edge), pick.Made()),
		WinProb:   winProb,
		Factors:   factors(home, away),
		Deltas:    deltas(home, away),
	}
	if pick.Made() {
		c.Confidence = decision.Confidence(edge, params.ConfidenceScale)
	}

	if anchor, ok := anchors[AnchorKey(g.Home.DisplayName, g.Away.DisplayName)]; ok {
		mp := anchor.HomeFairProb
		blended := odds.Blend(winProb, &mp)
		c.WinProb = blended.AdjustedProb
		c.MarketProb = &mp
		c.MarketAlpha = blended.Alpha
		c.Bookmaker = anchor.Bookmaker
		if !math.IsNaN(blended.AdjustedProb) {
			c.Factors["market_value_edge"] = blended.AdjustedProb - mp
		}
	}
	return c
}

func factors(home, away stats.TeamRollingStats) map[string]float64 {
	f := make(map[string]float64, 8)
	if home.Ok {
		f["home_win_pct"] = home.WinPct
		f["home_margin"] = home.MarginPerGame
		f["home_played"] = float64(home.Played)
	}
	if away.Ok {
		f["away_win_pct"] = away.WinPct
		f["away_margin"] = away.MarginPerGame
		f["away_played"] = float64(away.Played)
	}
	return f
}

func deltas(home, away stats.TeamRollingStats) map[string]float64 {
	if !home.Ok || !away.Ok {
		return map[string]float64{}
	}
	return map[string]float64{
		"win_pct":        home.WinPct - away.WinPct,
		"margin":         home.MarginPerGame - away.MarginPerGame,
		"recent10_win":   home.Window(model.RecentWinWindow).WinPct - away.Window(model.RecentWinWindow).WinPct,
		"recent5_margin": home.Window(model.RecentMarginWindow).Margin - away.Window(model.RecentMarginWindow).Margin,
	}
}
