// Package stats turns raw historical game results into per-team rolling
// statistics. Everything here is a pure function of its inputs.
package stats

import (
	"sort"

	"github.com/mhopper/edgeboard/internal/core/league"
)

// GameResult is one completed historical game, normalized from whichever
// provider supplied it. Dates are calendar strings (YYYY-MM-DD) so ordering
// is lexicographic.
type GameResult struct {
	Date       string
	League     league.League
	HomeTeamID string
	AwayTeamID string
	HomePoints int
	AwayPoints int
}

// WindowStats summarizes a team's most recent n games.
type WindowStats struct {
	Played int
	WinPct float64
	Margin float64 // point margin per game over the window
}

// TeamRollingStats is the per-team aggregate handed to the edge model.
// Ok is false when the team has no usable games; callers must treat that
// as insufficient data, never as a neutral 0.5.
type TeamRollingStats struct {
	TeamID        string
	Ok            bool
	Played        int
	WinPct        float64
	MarginPerGame float64
	Windows       map[int]WindowStats
}

// teamRow is one game from a single team's perspective.
type teamRow struct {
	date          string
	pointsFor     int
	pointsAgainst int
}

func (r teamRow) won() bool { return r.pointsFor > r.pointsAgainst }

// usable filters out provider placeholder rows: negative scores and the
// (0,0) rows some scoreboards emit for games that never tipped off.
func usable(g GameResult) bool {
	if g.HomePoints < 0 || g.AwayPoints < 0 {
		return false
	}
	return g.HomePoints != 0 || g.AwayPoints != 0
}

// Aggregate builds rolling stats for every team that appears in games.
// Each requested window is computed over the team's most recent games,
// using however many exist when the team has played fewer than the window
// size. Teams whose games are all filtered out are returned with Ok=false.
func Aggregate(games []GameResult, windows []int) map[string]TeamRollingStats {
	rows := make(map[string][]teamRow)
	seen := make(map[string]bool)

	for _, g := range games {
		seen[g.HomeTeamID] = true
		seen[g.AwayTeamID] = true
		if !usable(g) {
			continue
		}
		rows[g.HomeTeamID] = append(rows[g.HomeTeamID], teamRow{g.Date, g.HomePoints, g.AwayPoints})
		rows[g.AwayTeamID] = append(rows[g.AwayTeamID], teamRow{g.Date, g.AwayPoints, g.HomePoints})
	}

	out := make(map[string]TeamRollingStats, len(seen))
	for teamID := range seen {
		out[teamID] = teamStats(teamID, rows[teamID], windows)
	}
	return out
}

func teamStats(teamID string, rows []teamRow, windows []int) TeamRollingStats {
	if len(rows) == 0 {
		return TeamRollingStats{TeamID: teamID, Ok: false}
	}

	// Most recent first. Stable so same-date games keep provider order.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].date > rows[j].date
	})

	ts := TeamRollingStats{
		TeamID:  teamID,
		Ok:      true,
		Played:  len(rows),
		Windows: make(map[int]WindowStats, len(windows)),
	}
	ts.WinPct, ts.MarginPerGame = summarize(rows)

	for _, n := range windows {
		if n <= 0 {
			continue
		}
		slice := rows
		if n < len(rows) {
			slice = rows[:n]
		}
		w := WindowStats{Played: len(slice)}
		w.WinPct, w.Margin = summarize(slice)
		ts.Windows[n] = w
	}
	return ts
}

func summarize(rows []teamRow) (winPct, margin float64) {
	var wins, diff int
	for _, r := range rows {
		if r.won() {
			wins++
		}
		diff += r.pointsFor - r.pointsAgainst
	}
	n := float64(len(rows))
	return float64(wins) / n, float64(diff) / n
}

// Window returns the stats for window n, falling back to the season line
// when the window was not requested at aggregation time.
func (t TeamRollingStats) Window(n int) WindowStats {
	if w, ok := t.Windows[n]; ok {
		return w
	}
	return WindowStats{Played: t.Played, WinPct: t.WinPct, Margin: t.MarginPerGame}
}
