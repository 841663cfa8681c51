package oddsapi

import (
	"math"
	"testing"
)

func eventWith(books ...bookmaker) eventOdds {
	return eventOdds{
		HomeTeam:   "Boston Celtics",
		AwayTeam:   "Miami Heat",
		Bookmakers: books,
	}
}

func h2hBook(key string, home, away float64) bookmaker {
	return bookmaker{
		Key: key,
		Markets: []market{{
			Key: "h2h",
			Outcomes: []outcome{
				{Name: "Boston Celtics", Price: home},
				{Name: "Miami Heat", Price: away},
			},
		}},
	}
}

func TestBestAnchorPrefersConfiguredBooks(t *testing.T) {
	ev := eventWith(
		h2hBook("bovada", -150, 130),
		h2hBook("pinnacle", -160, 140),
		h2hBook("draftkings", -155, 135),
	)

	anchor, ok := bestAnchor(ev)
	if !ok {
		t.Fatal("no anchor selected")
	}
	if anchor.Bookmaker != "pinnacle" {
		t.Errorf("bookmaker = %s, want pinnacle", anchor.Bookmaker)
	}
	if anchor.HomeMoneyline != -160 || anchor.AwayMoneyline != 140 {
		t.Errorf("moneylines = %v/%v", anchor.HomeMoneyline, anchor.AwayMoneyline)
	}
	if math.Abs(anchor.HomeFairProb+anchor.AwayFairProb-1.0) > 1e-12 {
		t.Errorf("fair probs sum to %v, want 1", anchor.HomeFairProb+anchor.AwayFairProb)
	}
	if anchor.HomeFairProb <= 0.5 {
		t.Errorf("home fair prob = %v, want favorite side above 0.5", anchor.HomeFairProb)
	}
}

func TestBestAnchorFallsBackToAnyBook(t *testing.T) {
	anchor, ok := bestAnchor(eventWith(h2hBook("bovada", 110, -130)))
	if !ok {
		t.Fatal("fallback book not used")
	}
	if anchor.Bookmaker != "bovada" {
		t.Errorf("bookmaker = %s, want bovada", anchor.Bookmaker)
	}
}

func TestBestAnchorSkipsUnusableMarkets(t *testing.T) {
	if _, ok := bestAnchor(eventWith()); ok {
		t.Error("event with no books produced an anchor")
	}

	// Spread-only book.
	spread := bookmaker{Key: "fanduel", Markets: []market{{Key: "spreads"}}}
	if _, ok := bestAnchor(eventWith(spread)); ok {
		t.Error("spread-only book produced an anchor")
	}

	// h2h with one missing price.
	half := h2hBook("fanduel", -150, 0)
	if _, ok := bestAnchor(eventWith(half)); ok {
		t.Error("one-sided h2h produced an anchor")
	}
}
