// Package model computes the signed value edge for one matchup from two
// teams' rolling statistics. Positive edges favor the home side.
package model

import (
	"math"

	"github.com/mhopper/edgeboard/internal/core/league"
	"github.com/mhopper/edgeboard/internal/core/stats"
)

// Version selects a named constant set for a league. v2 adds shrinkage
// toward priors for small samples; the formula is otherwise the same.
type Version string

const (
	V1 Version = "v1"
	V2 Version = "v2"
)

// ParseVersion validates a model query parameter. Empty means v1.
func ParseVersion(s string) (Version, bool) {
	switch Version(s) {
	case "":
		return V1, true
	case V1, V2:
		return Version(s), true
	default:
		return "", false
	}
}

// Recent-form windows used by every league's model. The aggregator must be
// asked for both.
const (
	RecentWinWindow    = 10
	RecentMarginWindow = 5
)

// Windows returns the rolling windows the models require.
func Windows() []int { return []int{RecentMarginWindow, RecentWinWindow} }

// Context carries matchup flags that modify the edge.
type Context struct {
	Neutral    bool // neutral site: no home advantage
	Tournament bool // postseason/tournament: no home advantage, upset boost applies
}

// Weights is one league's linear-blend constant set.
type Weights struct {
	Win          float64 `yaml:"win"`           // season win% difference
	Margin       float64 `yaml:"margin"`        // season margin difference, clamped
	RecentWin    float64 `yaml:"recent_win"`    // 10-game win% difference
	RecentMargin float64 `yaml:"recent_margin"` // 5-game margin difference, clamped

	// MarginDivisor scales raw point margins before clamping to [-1, 1].
	// Roughly the margin that counts as total dominance (12 points of
	// basketball margin per game, 3 goals of hockey margin).
	MarginDivisor float64 `yaml:"margin_divisor"`

	// HomeAdvantage is added to the edge for true home games.
	HomeAdvantage float64 `yaml:"home_advantage"`

	// UpsetBoost multiplies edges that point at the on-paper underdog in
	// tournament mode. Zero disables it. The exact value is tuning, not
	// load-bearing.
	UpsetBoost float64 `yaml:"upset_boost"`
}

// Model is one (league, version) edge formula.
type Model struct {
	League  league.League
	Version Version
	W       Weights
	Shrink  *Shrinkage // nil for v1
}

// teamView is a team's stats after any shrinkage has been applied.
type teamView struct {
	winPct  float64
	margin  float64
	win10   float64
	margin5 float64
}

func (m *Model) view(t stats.TeamRollingStats) teamView {
	w10 := t.Window(RecentWinWindow)
	w5 := t.Window(RecentMarginWindow)

	v := teamView{
		winPct:  t.WinPct,
		margin:  t.MarginPerGame,
		win10:   w10.WinPct,
		margin5: w5.Margin,
	}
	if m.Shrink != nil {
		v.winPct = shrinkPct(v.winPct, t.Played, m.Shrink.SeasonK)
		v.margin = shrinkMargin(v.margin, t.Played, m.Shrink.SeasonK)
		v.win10 = shrinkPct(v.win10, w10.Played, m.Shrink.Window10K)
		v.margin5 = shrinkMargin(v.margin5, w5.Played, m.Shrink.Window5K)
	}
	return v
}

// Edge returns the signed home value edge, or NaN when either team lacks
// usable history. A NaN edge must never be treated as zero downstream.
func (m *Model) Edge(home, away stats.TeamRollingStats, ctx Context) float64 {
	if !home.Ok || !away.Ok {
		return math.NaN()
	}

	h := m.view(home)
	a := m.view(away)

	edge := m.W.Win * (h.winPct - a.winPct)
	edge += m.W.Margin * clamp1((h.margin-a.margin)/m.W.MarginDivisor)
	edge += m.W.RecentWin * (h.win10 - a.win10)
	edge += m.W.RecentMargin * clamp1((h.margin5-a.margin5)/m.W.MarginDivisor)

	if !ctx.Neutral && !ctx.Tournament {
		edge += m.W.HomeAdvantage
	}

	if ctx.Tournament && m.W.UpsetBoost > 0 {
		// The side the edge points at is the underdog by season record.
		homeIsDog := home.WinPct < away.WinPct
		if (edge > 0) == homeIsDog {
			edge *= m.W.UpsetBoost
		}
	}

	return edge
}

func clamp1(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// winProbScale converts an edge into a win probability via a logistic
// squash. Calibrated so a threshold-sized edge lands around 61-62%.
const winProbScale = 0.16

// WinProbability maps a signed edge to a home win probability in
// [0.05, 0.95]. NaN edges return NaN.
func WinProbability(edge float64) float64 {
	if math.IsNaN(edge) {
		return math.NaN()
	}
	p := 1.0 / (1.0 + math.Exp(-edge/winProbScale))
	return math.Max(0.05, math.Min(0.95, p))
}

// Registry maps (league, version) -> model, mirroring how each league gets
// its own strategy implementation.
type Registry struct {
	models map[league.League]map[Version]*Model
}

func NewRegistry() *Registry {
	return &Registry{models: make(map[league.League]map[Version]*Model)}
}

func (r *Registry) Register(m *Model) {
	if r.models[m.League] == nil {
		r.models[m.League] = make(map[Version]*Model)
	}
	r.models[m.League][m.Version] = m
}

func (r *Registry) Get(lg league.League, v Version) (*Model, bool) {
	m, ok := r.models[lg][v]
	return m, ok
}

// DefaultRegistry returns a registry with every league's v1 and v2 models.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewNBA(V1))
	r.Register(NewNBA(V2))
	r.Register(NewNCAAM(V1))
	r.Register(NewNCAAM(V2))
	r.Register(NewNHL(V1))
	r.Register(NewNHL(V2))
	return r
}
