package stint

import "sort"

// LineupSize is the number of players a stint tracks on court.
const LineupSize = 5

// LineupStint is one continuous window during which a specific five-player
// unit was on court for one team. Players are kept canonically sorted so the
// same five hash to the same lineup regardless of join order. SecondsPlayed
// is an accumulator: a stint closed across period boundaries is computed once
// and the delta added, never re-derived from start/end alone.
type LineupStint struct {
	ID            string
	GameID        string
	TeamID        string
	Players       []string
	StartQuarter  int
	StartGameTime int
	EndQuarter    *int
	EndGameTime   *int
	SecondsPlayed int
	PointsScored  int
	PointsAllowed int
	PlusMinus     int
	IsActive      bool
}

// CanonicalPlayers returns the five player IDs sorted ascending.
func CanonicalPlayers(players []string) []string {
	out := append([]string(nil), players...)
	sort.Strings(out)
	return out
}

// LineupAggregate sums a team's closed stints for one five-player unit
// across all games.
type LineupAggregate struct {
	Players       []string
	GamesPlayed   int
	SecondsPlayed int
	PointsScored  int
	PointsAllowed int
	PlusMinus     int
	NetRating     float64
}

// PairAggregate sums stint time shared by one two-player pair.
type PairAggregate struct {
	PlayerA       string
	PlayerB       string
	GamesPlayed   int
	SecondsPlayed int
	PointsScored  int
	PointsAllowed int
	PlusMinus     int
	NetRating     float64
}

// NetRating normalizes plus/minus to a 36-minute pace. Zero when no time
// has been played.
func NetRating(plusMinus, secondsPlayed int) float64 {
	if secondsPlayed <= 0 {
		return 0
	}
	minutes := float64(secondsPlayed) / 60.0
	return float64(plusMinus) / minutes * 36.0
}
