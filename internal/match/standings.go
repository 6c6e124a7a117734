package match

import (
	"sort"
	"time"

	matchdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/match"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// ComputeStandings rebuilds a tournament table from its matches.
// Every team with a fixture gets a row; only completed matches count toward it.
func ComputeStandings(tournamentID string, matches []matchdm.Match, now time.Time) []matchdm.Standing {
	rows := make(map[string]*matchdm.Standing)
	row := func(teamID string) *matchdm.Standing {
		if s, ok := rows[teamID]; ok {
			return s
		}
		s := &matchdm.Standing{TournamentID: tournamentID, TeamID: teamID, UpdatedAt: now}
		rows[teamID] = s
		return s
	}

	for _, m := range matches {
		home, away := row(m.HomeTeamID), row(m.AwayTeamID)
		if m.Status != matchdm.StatusCompleted {
			continue
		}
		record(home, m.HomeScore, m.AwayScore)
		record(away, m.AwayScore, m.HomeScore)
	}

	out := make([]matchdm.Standing, 0, len(rows))
	for _, s := range rows {
		s.GoalDifference = s.GoalsFor - s.GoalsAgainst
		out = append(out, *s)
	}
	SortStandings(out)
	return out
}

func record(s *matchdm.Standing, scored, conceded int) {
	s.Played++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		s.Won++
		s.Points += pointsForWin
	case scored == conceded:
		s.Drawn++
		s.Points += pointsForDraw
	default:
		s.Lost++
	}
}

// SortStandings orders by points, goal difference, then goals scored, all descending.
// Team id breaks remaining ties so the table is stable.
func SortStandings(rows []matchdm.Standing) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})
}
