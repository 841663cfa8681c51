package predict

import (
	"context"

	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/stats"
)

// ScheduleProvider returns the slate of games for one calendar date
// (YYYY-MM-DD), already normalized.
type ScheduleProvider interface {
	GetSchedule(ctx context.Context, date string) ([]ScheduledGame, error)
}

// HistoryProvider returns completed games in [start, end] inclusive.
// Implementations must not filter placeholder rows; the aggregator owns
// that invariant.
type HistoryProvider interface {
	GetHistory(ctx context.Context, start, end string) ([]stats.GameResult, error)
}

// MarketProvider returns vig-free market anchors keyed by
// AnchorKey(home, away). Returning an empty map is a normal "no lines"
// condition, not an error.
type MarketProvider interface {
	GetMarketOdds(ctx context.Context, date string) (map[string]MarketAnchor, error)
}

// Providers bundles the per-league collaborators the service consumes.
// Market is optional and only consulted for the NBA.
type Providers struct {
	Schedules map[league.League]ScheduleProvider
	Histories map[league.League]HistoryProvider
	Market    MarketProvider
}
