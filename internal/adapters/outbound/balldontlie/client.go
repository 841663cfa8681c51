// Package balldontlie provides NBA schedules and historical results from
// the balldontlie REST API.
package balldontlie

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/mhopper/edgeboard/internal/adapters/outbound/httpx"
	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/predict"
	"github.com/mhopper/edgeboard/internal/core/stats"
)

const (
	pageSize = 100
	maxPages = 40 // hard stop; a 45-day NBA window is well under this
)

// apiBase is a var so tests can point the client at a local server.
var apiBase = "https://api.balldontlie.io/v1"

type Client struct {
	http *httpx.Client
}

// NewClient requires an API key; balldontlie rejects anonymous requests.
func NewClient(apiKey string, timeout time.Duration, concurrency int64) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("balldontlie: missing API key")
	}
	h := httpx.New("balldontlie", timeout, 5, 5, concurrency)
	h.SetHeader("Authorization", apiKey)
	return &Client{http: h}, nil
}

type team struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Abbreviation string `json:"abbreviation"`
}

type game struct {
	ID           int    `json:"id"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Postseason   bool   `json:"postseason"`
	HomeTeam     team   `json:"home_team"`
	VisitorTeam  team   `json:"visitor_team"`
	HomeScore    int    `json:"home_team_score"`
	VisitorScore int    `json:"visitor_team_score"`
}

type gamesPage struct {
	Data []game `json:"data"`
	Meta struct {
		NextCursor *int `json:"next_cursor"`
	} `json:"meta"`
}

func (c *Client) fetchGames(ctx context.Context, params url.Values) ([]game, error) {
	var all []game
	var cursor *int

	for page := 0; page < maxPages; page++ {
		q := url.Values{}
		for k, vs := range params {
			q[k] = vs
		}
		q.Set("per_page", strconv.Itoa(pageSize))
		if cursor != nil {
			q.Set("cursor", strconv.Itoa(*cursor))
		}

		var resp gamesPage
		if err := c.http.GetJSON(ctx, apiBase+"/games?"+q.Encode(), &resp); err != nil {
			return nil, err
		}
		all = append(all, resp.Data...)
		if resp.Meta.NextCursor == nil {
			return all, nil
		}
		cursor = resp.Meta.NextCursor
	}
	return nil, fmt.Errorf("balldontlie: pagination exceeded %d pages", maxPages)
}

// GetSchedule implements predict.ScheduleProvider for one date.
func (c *Client) GetSchedule(ctx context.Context, date string) ([]predict.ScheduledGame, error) {
	params := url.Values{}
	params.Set("dates[]", date)

	games, err := c.fetchGames(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("balldontlie schedule %s: %w", date, err)
	}

	out := make([]predict.ScheduledGame, 0, len(games))
	for _, g := range games {
		sg := predict.ScheduledGame{
			GameID:     fmt.Sprintf("bdl-%d", g.ID),
			Date:       gameDate(g.Date),
			Status:     predict.NormalizeStatus(g.Status),
			Home:       teamRef(g.HomeTeam),
			Away:       teamRef(g.VisitorTeam),
			Postseason: g.Postseason,
		}
		if sg.Status == predict.StatusFinal || sg.Status == predict.StatusInProgress {
			hs, vs := g.HomeScore, g.VisitorScore
			sg.HomeScore = &hs
			sg.AwayScore = &vs
		}
		out = append(out, sg)
	}
	return out, nil
}

// GetHistory implements predict.HistoryProvider over [start, end].
// Unfinished games come through with whatever scores the API reports; the
// aggregator's placeholder filter handles the rest.
func (c *Client) GetHistory(ctx context.Context, start, end string) ([]stats.GameResult, error) {
	params := url.Values{}
	params.Set("start_date", start)
	params.Set("end_date", end)

	games, err := c.fetchGames(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("balldontlie history %s..%s: %w", start, end, err)
	}

	out := make([]stats.GameResult, 0, len(games))
	for _, g := range games {
		if predict.NormalizeStatus(g.Status) != predict.StatusFinal {
			continue
		}
		out = append(out, stats.GameResult{
			Date:       gameDate(g.Date),
			League:     league.NBA,
			HomeTeamID: teamID(g.HomeTeam.ID),
			AwayTeamID: teamID(g.VisitorTeam.ID),
			HomePoints: g.HomeScore,
			AwayPoints: g.VisitorScore,
		})
	}
	return out, nil
}

func teamRef(t team) predict.TeamRef {
	return predict.TeamRef{
		ID:           teamID(t.ID),
		DisplayName:  t.FullName,
		Abbreviation: t.Abbreviation,
	}
}

func teamID(id int) string { return "nba-" + strconv.Itoa(id) }

// gameDate trims the timestamp suffix older API seasons include.
func gameDate(d string) string {
	if len(d) > 10 {
		return d[:10]
	}
	return d
}
