// Package nhlapi provides NHL schedules from the league's public
// api-web.nhle.com endpoints.
package nhlapi

import (
	"context"
	"fmt"
	"time"

	"github.com/mhopper/edgeboard/internal/adapters/outbound/httpx"
	"github.com/mhopper/edgeboard/internal/core/predict"
)

const baseURL = "https://api-web.nhle.com/v1"

type Client struct {
	http *httpx.Client
}

func NewClient(timeout time.Duration, concurrency int64) *Client {
	h := httpx.New("nhlapi", timeout, 4, 4, concurrency)
	h.SetHeader("User-Agent", "edgeboard/1.0")
	return &Client{http: h}
}

type scoreResponse struct {
	Games []scoreGame `json:"games"`
}

type scoreGame struct {
	ID          int64     `json:"id"`
	GameDate    string    `json:"gameDate"`
	GameType    int       `json:"gameType"` // 2 regular, 3 playoffs
	GameState   string    `json:"gameState"`
	NeutralSite bool      `json:"neutralSite"`
	HomeTeam    scoreTeam `json:"homeTeam"`
	AwayTeam    scoreTeam `json:"awayTeam"`
}

type scoreTeam struct {
	ID   int `json:"id"`
	Name struct {
		Default string `json:"default"`
	} `json:"name"`
	Abbrev string `json:"abbrev"`
	Logo   string `json:"logo"`
	Score  *int   `json:"score"`
}

// GetSchedule implements predict.ScheduleProvider via /score/{date}, which
// carries both the day's matchups and live/final scores.
func (c *Client) GetSchedule(ctx context.Context, date string) ([]predict.ScheduledGame, error) {
	var resp scoreResponse
	if err := c.http.GetJSON(ctx, fmt.Sprintf("%s/score/%s", baseURL, date), &resp); err != nil {
		return nil, fmt.Errorf("nhlapi schedule %s: %w", date, err)
	}

	out := make([]predict.ScheduledGame, 0, len(resp.Games))
	for _, g := range resp.Games {
		sg := predict.ScheduledGame{
			GameID:     fmt.Sprintf("nhl-%d", g.ID),
			Date:       g.GameDate,
			Status:     predict.NormalizeStatus(g.GameState),
			Home:       teamRef(g.HomeTeam),
			Away:       teamRef(g.AwayTeam),
			Neutral:    g.NeutralSite,
			Postseason: g.GameType == 3,
		}
		if sg.Status != predict.StatusScheduled {
			sg.HomeScore = g.HomeTeam.Score
			sg.AwayScore = g.AwayTeam.Score
		}
		out = append(out, sg)
	}
	return out, nil
}

func teamRef(t scoreTeam) predict.TeamRef {
	return predict.TeamRef{
		ID:           fmt.Sprintf("nhl-%d", t.ID),
		DisplayName:  t.Name.Default,
		Abbreviation: t.Abbrev,
		LogoURL:      t.Logo,
	}
}
