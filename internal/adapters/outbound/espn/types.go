package espn

import (
	"strconv"

	"github.com/mhopper/edgeboard/internal/core/predict"
)

// Wire shapes for the scoreboard endpoint, trimmed to the fields the
// pipeline consumes.

type scoreboardResponse struct {
	Events []event `json:"events"`
}

type event struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"` // RFC3339-ish: 2026-01-14T00:00Z
	Season       season        `json:"season"`
	Competitions []competition `json:"competitions"`
	Status       eventStatus   `json:"status"`
}

type season struct {
	Type int `json:"type"` // 3 = postseason
}

type competition struct {
	NeutralSite bool         `json:"neutralSite"`
	Competitors []competitor `json:"competitors"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     struct {
		ID           string `json:"id"`
		DisplayName  string `json:"displayName"`
		Abbreviation string `json:"abbreviation"`
		Logo         string `json:"logo"`
	} `json:"team"`
}

type eventStatus struct {
	Type struct {
		State     string `json:"state"` // "pre", "in", "post"
		Completed bool   `json:"completed"`
	} `json:"type"`
}

func (e event) toScheduledGame() (predict.ScheduledGame, bool) {
	if len(e.Competitions) == 0 {
		return predict.ScheduledGame{}, false
	}
	comp := e.Competitions[0]

	var home, away *competitor
	for i := range comp.Competitors {
		switch comp.Competitors[i].HomeAway {
		case "home":
			home = &comp.Competitors[i]
		case "away":
			away = &comp.Competitors[i]
		}
	}
	if home == nil || away == nil {
		return predict.ScheduledGame{}, false
	}

	sg := predict.ScheduledGame{
		GameID:     "espn-" + e.ID,
		Date:       eventDate(e.Date),
		Status:     statusOf(e.Status),
		Home:       refOf(*home),
		Away:       refOf(*away),
		Neutral:    comp.NeutralSite,
		Postseason: e.Season.Type == 3,
	}
	if sg.Status != predict.StatusScheduled {
		if hs, err := strconv.Atoi(home.Score); err == nil {
			sg.HomeScore = &hs
		}
		if as, err := strconv.Atoi(away.Score); err == nil {
			sg.AwayScore = &as
		}
	}
	return sg, true
}

func statusOf(s eventStatus) predict.GameStatus {
	switch s.Type.State {
	case "post":
		return predict.StatusFinal
	case "in":
		return predict.StatusInProgress
	default:
		return predict.StatusScheduled
	}
}

func refOf(c competitor) predict.TeamRef {
	return predict.TeamRef{
		ID:           "espn-" + c.Team.ID,
		DisplayName:  c.Team.DisplayName,
		Abbreviation: c.Team.Abbreviation,
		LogoURL:      c.Team.Logo,
	}
}

// eventDate trims "2026-01-14T00:00Z" to the calendar date.
func eventDate(d string) string {
	if len(d) > 10 {
		return d[:10]
	}
	return d
}
