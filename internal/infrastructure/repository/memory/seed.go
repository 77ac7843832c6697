package memory

import (
	"github.com/riskibarqy/courtside/internal/domain/league"
	"github.com/riskibarqy/courtside/internal/domain/roster"
)

const (
	LeagueIDCityHoops = "city-hoops-2026"

	TeamIDDowntown  = "team-downtown"
	TeamIDRiverside = "team-riverside"
)

func SeedLeagues() []league.League {
	return []league.League{
		{ID: LeagueIDCityHoops, Name: "City Hoops", Season: "2026"},
	}
}

func SeedTeams() []roster.Team {
	return []roster.Team{
		{ID: TeamIDDowntown, LeagueID: LeagueIDCityHoops, Name: "Downtown Dynamos", Short: "DTD"},
		{ID: TeamIDRiverside, LeagueID: LeagueIDCityHoops, Name: "Riverside Rockets", Short: "RVR"},
	}
}

func SeedPlayers() []roster.Player {
	return []roster.Player{
		{ID: "dtd-01", TeamID: TeamIDDowntown, LeagueID: LeagueIDCityHoops, Name: "Marcus Bell", Number: 3, Position: "PG", IsActive: true},
		{ID: "dtd-02", TeamID: TeamIDDowntown, LeagueID: LeagueIDCityHoops, Name: "Jordan Reyes", Number: 7, Position: "SG", IsActive: true},
		{ID: "dtd-03", TeamID: TeamIDDowntown, LeagueID: LeagueIDCityHoops, Name: "Troy Whitfield", Number: 11, Position: "SF", IsActive: true},
		{ID: "dtd-04", TeamID: TeamIDDowntown, LeagueID: LeagueIDCityHoops, Name: "Elias Okafor", Number: 21, Position: "PF", IsActive: true},
		{ID: "dtd-05", TeamID: TeamIDDowntown, LeagueID: LeagueIDCityHoops, Name: "Dre Thompson", Number: 33, Position: "C", IsActive: true},
		{ID: "dtd-06", TeamID: TeamIDDowntown, LeagueID: LeagueIDCityHoops, Name: "Kofi Mensah", Number: 14, Position: "G", IsActive: true},
		{ID: "dtd-07", TeamID: TeamIDDowntown, LeagueID: LeagueIDCityHoops, Name: "Ray Castillo", Number: 25, Position: "F", IsActive: true},
		{ID: "rvr-01", TeamID: TeamIDRiverside, LeagueID: LeagueIDCityHoops, Name: "Sam Porter", Number: 1, Position: "PG", IsActive: true},
		{ID: "rvr-02", TeamID: TeamIDRiverside, LeagueID: LeagueIDCityHoops, Name: "Dev Patel", Number: 5, Position: "SG", IsActive: true},
		{ID: "rvr-03", TeamID: TeamIDRiverside, LeagueID: LeagueIDCityHoops, Name: "Leo Almeida", Number: 9, Position: "SF", IsActive: true},
		{ID: "rvr-04", TeamID: TeamIDRiverside, LeagueID: LeagueIDCityHoops, Name: "Noah Kim", Number: 15, Position: "PF", IsActive: true},
		{ID: "rvr-05", TeamID: TeamIDRiverside, LeagueID: LeagueIDCityHoops, Name: "Ty Jackson", Number: 23, Position: "C", IsActive: true},
		{ID: "rvr-06", TeamID: TeamIDRiverside, LeagueID: LeagueIDCityHoops, Name: "Omar Haddad", Number: 8, Position: "G", IsActive: true},
		{ID: "rvr-07", TeamID: TeamIDRiverside, LeagueID: LeagueIDCityHoops, Name: "Ben Fischer", Number: 42, Position: "F", IsActive: true},
	}
}
