// Package espn provides schedules and historical results from ESPN's
// public scoreboard endpoints (NCAAM and NHL).
package espn

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mhopper/edgeboard/internal/adapters/outbound/httpx"
	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/predict"
	"github.com/mhopper/edgeboard/internal/core/stats"
)

// apiBase is a var so tests can point the client at a local server.
var apiBase = "https://site.api.espn.com/apis/site/v2/sports"

// sportPaths maps a league to its ESPN scoreboard path and extra query,
// plus the per-response event cap we request and how many days one history
// call may span while staying safely under that cap. groups=50 is "all
// Division I" for college basketball; a single D-I day runs ~150-180 games,
// so history walks one day at a time. NHL plays at most ~16 games a day.
var sportPaths = map[league.League]struct {
	path      string
	extra     string
	limit     int
	chunkDays int
}{
	league.NCAAM: {"basketball/mens-college-basketball", "&groups=50&limit=500", 500, 1},
	league.NHL:   {"hockey/nhl", "&limit=100", 100, 5},
}

type Client struct {
	http   *httpx.Client
	league league.League
}

func NewClient(lg league.League, timeout time.Duration, concurrency int64) (*Client, error) {
	if _, ok := sportPaths[lg]; !ok {
		return nil, fmt.Errorf("espn: unsupported league %s", lg)
	}
	h := httpx.New("espn-"+string(lg), timeout, 4, 4, concurrency)
	h.SetHeader("User-Agent", "edgeboard/1.0")
	return &Client{http: h, league: lg}, nil
}

func (c *Client) scoreboardURL(dates string) string {
	sp := sportPaths[c.league]
	return fmt.Sprintf("%s/%s/scoreboard?dates=%s%s", apiBase, sp.path, dates, sp.extra)
}

// espnDate collapses YYYY-MM-DD to ESPN's YYYYMMDD.
func espnDate(d string) string { return strings.ReplaceAll(d, "-", "") }

// GetSchedule implements predict.ScheduleProvider.
func (c *Client) GetSchedule(ctx context.Context, date string) ([]predict.ScheduledGame, error) {
	var sb scoreboardResponse
	if err := c.http.GetJSON(ctx, c.scoreboardURL(espnDate(date)), &sb); err != nil {
		return nil, fmt.Errorf("espn %s schedule %s: %w", c.league, date, err)
	}

	out := make([]predict.ScheduledGame, 0, len(sb.Events))
	for _, ev := range sb.Events {
		sg, ok := ev.toScheduledGame()
		if !ok {
			continue
		}
		out = append(out, sg)
	}
	return out, nil
}

// GetHistory implements predict.HistoryProvider. The scoreboard endpoint
// caps events per response, so the range is walked in chunks sized to stay
// under that cap. A response that still fills the cap means games were
// dropped, and partial history would poison the rolling stats downstream,
// so the whole fetch fails instead.
func (c *Client) GetHistory(ctx context.Context, start, end string) ([]stats.GameResult, error) {
	startT, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("espn %s history: bad start date %q", c.league, start)
	}
	endT, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("espn %s history: bad end date %q", c.league, end)
	}

	sp := sportPaths[c.league]
	var out []stats.GameResult
	for from := startT; !from.After(endT); from = from.AddDate(0, 0, sp.chunkDays) {
		to := from.AddDate(0, 0, sp.chunkDays-1)
		if to.After(endT) {
			to = endT
		}
		dates := from.Format("20060102")
		if !to.Equal(from) {
			dates += "-" + to.Format("20060102")
		}

		var sb scoreboardResponse
		if err := c.http.GetJSON(ctx, c.scoreboardURL(dates), &sb); err != nil {
			return nil, fmt.Errorf("espn %s history %s: %w", c.league, dates, err)
		}
		if len(sb.Events) >= sp.limit {
			return nil, fmt.Errorf("espn %s history %s: response hit the %d-event cap, results truncated", c.league, dates, sp.limit)
		}

		for _, ev := range sb.Events {
			sg, ok := ev.toScheduledGame()
			if !ok || sg.Status != predict.StatusFinal || sg.HomeScore == nil || sg.AwayScore == nil {
				continue
			}
			out = append(out, stats.GameResult{
				Date:       sg.Date,
				League:     c.league,
				HomeTeamID: sg.Home.ID,
				AwayTeamID: sg.Away.ID,
				HomePoints: *sg.HomeScore,
				AwayPoints: *sg.AwayScore,
			})
		}
	}
	return out, nil
}
