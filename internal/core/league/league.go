package league

import "fmt"

// League identifies one supported competition.
type League string

const (
	NBA   League = "nba"
	NCAAM League = "ncaam"
	NHL   League = "nhl"
)

// All returns the supported leagues in display order.
func All() []League {
	return []League{NBA, NCAAM, NHL}
}

// Parse validates a league query parameter.
func Parse(s string) (League, error) {
	switch League(s) {
	case NBA, NCAAM, NHL:
		return League(s), nil
	default:
		return "", fmt.Errorf("unknown league %q", s)
	}
}

// Mode selects regular-season or tournament/postseason handling.
type Mode string

const (
	ModeRegular    Mode = "regular"
	ModeTournament Mode = "tournament"
)

// ParseMode validates a mode query parameter. Empty means regular.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeRegular, nil
	case ModeRegular, ModeTournament:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}
