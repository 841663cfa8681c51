// Package predict assembles per-game prediction records from schedules,
// rolling stats, the edge model, and the decision engine.
package predict

import (
	"strings"

	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/model"
)

// GameStatus is the normalized schedule status.
type GameStatus string

const (
	StatusScheduled  GameStatus = "scheduled"
	StatusInProgress GameStatus = "in_progress"
	StatusFinal      GameStatus = "final"
)

// NormalizeStatus maps provider status synonyms onto the three states the
// pipeline understands. Grading treats only StatusFinal as gradable.
func NormalizeStatus(s string) GameStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "final", "post", "completed", "closed", "full-time", "off", "status_final":
		return StatusFinal
	case "in progress", "in_progress", "live", "halftime", "end of period", "status_in_progress", "crit":
		return StatusInProgress
	default:
		return StatusScheduled
	}
}

// TeamRef identifies one side of a matchup. Built fresh per request from
// provider data and never mutated afterwards.
type TeamRef struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Abbreviation string `json:"abbreviation,omitempty"`
	LogoURL      string `json:"logoUrl,omitempty"`
}

// ScheduledGame is one normalized schedule entry. GameID is the provider's
// stable id and doubles as the grading join key.
type ScheduledGame struct {
	GameID     string     `json:"gameId"`
	Date       string     `json:"date"`
	Status     GameStatus `json:"status"`
	Home       TeamRef    `json:"home"`
	Away       TeamRef    `json:"away"`
	HomeScore  *int       `json:"homeScore,omitempty"`
	AwayScore  *int       `json:"awayScore,omitempty"`
	Neutral    bool       `json:"neutral,omitempty"`
	Postseason bool       `json:"postseason,omitempty"`
}

// MarketAnchor is a vig-free market probability for one game, keyed by
// "HOMENAME|AWAYNAME" in the provider map.
type MarketAnchor struct {
	Bookmaker     string
	HomeMoneyline float64
	AwayMoneyline float64
	HomeFairProb  float64
	AwayFairProb  float64
}

// AnchorKey builds the lookup key market providers and the service share.
func AnchorKey(homeName, awayName string) string {
	return strings.ToUpper(strings.TrimSpace(homeName)) + "|" + strings.ToUpper(strings.TrimSpace(awayName))
}

// MarketCall is the actionable slice of a prediction record. Pick and
// RecommendedTeamID are nil on a pass; Edge and WinProb are nil when the
// edge was undefined. A pass never carries a confidence.
type MarketCall struct {
	Pick              *string  `json:"pick"`
	Reason            string   `json:"reason"`
	RecommendedTeamID *string  `json:"recommendedTeamId"`
	Edge              *float64 `json:"edge"`
	Threshold         float64  `json:"threshold"`
	Tier              string   `json:"tier"`
	Confidence        *float64 `json:"confidence"`
	WinProb           *float64 `json:"winProb"`
	MarketProb        *float64 `json:"marketProb,omitempty"`
	MarketAlpha       float64  `json:"marketAlpha,omitempty"`
	Bookmaker         string   `json:"bookmaker,omitempty"`
}

// Why is the human-readable explanation shown on the dashboard.
type Why struct {
	Headline string             `json:"headline"`
	Bullets  []string           `json:"bullets"`
	Deltas   map[string]float64 `json:"deltas"`
}

// PredictionRecord is the public per-game contract. Constructed fresh for
// every request; only grading outcomes derived from it are ever persisted.
type PredictionRecord struct {
	GameID    string             `json:"gameId"`
	Date      string             `json:"date"`
	Status    GameStatus         `json:"status"`
	Home      TeamRef            `json:"home"`
	Away      TeamRef            `json:"away"`
	HomeScore *int               `json:"homeScore,omitempty"`
	AwayScore *int               `json:"awayScore,omitempty"`
	Market    MarketCall         `json:"market"`
	Why       Why                `json:"why"`
	Factors   map[string]float64 `json:"factors"`
}

// Meta aggregates one date/league slate. Picks+Passes always equals
// TotalGames.
type Meta struct {
	League     league.League `json:"league"`
	Date       string        `json:"date"`
	Model      model.Version `json:"model"`
	Mode       league.Mode   `json:"mode"`
	WindowDays int           `json:"windowDays"`
	TotalGames int           `json:"totalGames"`
	Picks      int           `json:"picks"`
	Passes     int           `json:"passes"`
	Warnings   []string      `json:"warnings,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// Slate is the full response for one (league, date, window, model, mode).
// Slates are shared between concurrent callers and cached; treat them as
// immutable once built.
type Slate struct {
	Meta  Meta               `json:"meta"`
	Games []PredictionRecord `json:"games"`
}
