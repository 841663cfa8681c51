// Package oddsapi provides NBA moneyline anchors from The Odds API v4.
package oddsapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/mhopper/edgeboard/internal/adapters/outbound/httpx"
	"github.com/mhopper/edgeboard/internal/core/odds"
	"github.com/mhopper/edgeboard/internal/core/predict"
	"github.com/mhopper/edgeboard/internal/telemetry"
)

const (
	baseURL  = "https://api.the-odds-api.com/v4"
	sportKey = "basketball_nba"
)

// preferredBooks orders bookmaker selection when a game has several.
var preferredBooks = []string{"pinnacle", "fanduel", "draftkings"}

type Client struct {
	http       *httpx.Client
	apiKey     string
	historical bool
	now        func() time.Time
}

// NewClient requires an API key. historical enables the paid
// /historical endpoints for past dates; when false, requests for past
// dates return no anchors.
func NewClient(apiKey string, historical bool, timeout time.Duration, concurrency int64) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("oddsapi: missing API key")
	}
	return &Client{
		http:       httpx.New("oddsapi", timeout, 2, 2, concurrency),
		apiKey:     apiKey,
		historical: historical,
		now:        time.Now,
	}, nil
}

type eventOdds struct {
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []bookmaker `json:"bookmakers"`
}

type bookmaker struct {
	Key     string   `json:"key"`
	Markets []market `json:"markets"`
}

type market struct {
	Key      string    `json:"key"`
	Outcomes []outcome `json:"outcomes"`
}

type outcome struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type historicalSnapshot struct {
	Data []eventOdds `json:"data"`
}

// GetMarketOdds implements predict.MarketProvider. Anchors are keyed by
// predict.AnchorKey on the book's team names; events outside the
// requested date and games with no usable h2h market are skipped.
func (c *Client) GetMarketOdds(ctx context.Context, date string) (map[string]predict.MarketAnchor, error) {
	past := date < c.now().UTC().Format("2006-01-02")

	var events []eventOdds
	switch {
	case !past:
		q := url.Values{}
		q.Set("apiKey", c.apiKey)
		q.Set("regions", "us")
		q.Set("markets", "h2h")
		q.Set("oddsFormat", "american")
		u := fmt.Sprintf("%s/sports/%s/odds?%s", baseURL, sportKey, q.Encode())
		if err := c.http.GetJSON(ctx, u, &events); err != nil {
			return nil, fmt.Errorf("oddsapi odds %s: %w", date, err)
		}
	case c.historical:
		q := url.Values{}
		q.Set("apiKey", c.apiKey)
		q.Set("regions", "us")
		q.Set("markets", "h2h")
		q.Set("oddsFormat", "american")
		q.Set("date", date+"T16:00:00Z") // pre-tip snapshot
		u := fmt.Sprintf("%s/historical/sports/%s/odds?%s", baseURL, sportKey, q.Encode())
		var snap historicalSnapshot
		if err := c.http.GetJSON(ctx, u, &snap); err != nil {
			return nil, fmt.Errorf("oddsapi historical %s: %w", date, err)
		}
		events = snap.Data
	default:
		telemetry.Debugf("oddsapi: historical lookups disabled, no anchors for %s", date)
		return map[string]predict.MarketAnchor{}, nil
	}

	anchors := make(map[string]predict.MarketAnchor, len(events))
	for _, ev := range events {
		if ev.CommenceTime.UTC().Format("2006-01-02") != date {
			continue
		}
		anchor, ok := bestAnchor(ev)
		if !ok {
			continue
		}
		anchors[predict.AnchorKey(ev.HomeTeam, ev.AwayTeam)] = anchor
	}
	return anchors, nil
}

// bestAnchor picks the first preferred bookmaker carrying a two-way h2h
// market, falling back to any book that does.
func bestAnchor(ev eventOdds) (predict.MarketAnchor, bool) {
	rank := func(key string) int {
		for i, p := range preferredBooks {
			if key == p {
				return i
			}
		}
		return len(preferredBooks)
	}

	best := predict.MarketAnchor{}
	bestRank := -1
	for _, bk := range ev.Bookmakers {
		home, away, ok := h2hPrices(bk, ev.HomeTeam, ev.AwayTeam)
		if !ok {
			continue
		}
		if r := rank(bk.Key); bestRank == -1 || r < bestRank {
			hf, af := odds.FairFromMoneylines(home, away)
			if hf == 0 && af == 0 {
				continue
			}
			best = predict.MarketAnchor{
				Bookmaker:     bk.Key,
				HomeMoneyline: home,
				AwayMoneyline: away,
				HomeFairProb:  hf,
				AwayFairProb:  af,
			}
			bestRank = r
			if r == 0 {
				break
			}
		}
	}
	return best, bestRank >= 0
}

func h2hPrices(bk bookmaker, homeName, awayName string) (home, away float64, ok bool) {
	for _, m := range bk.Markets {
		if m.Key != "h2h" {
			continue
		}
		for _, o := range m.Outcomes {
			switch o.Name {
			case homeName:
				home = o.Price
			case awayName:
				away = o.Price
			}
		}
		return home, away, home != 0 && away != 0
	}
	return 0, 0, false
}
