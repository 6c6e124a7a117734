package match_test

import (
	"time"

	matchdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/match"
	"github.com/Jakababa94/kenya-liga-hub/internal/match"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ComputeStandings", func() {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	played := func(home, away string, hs, as int) matchdm.Match {
		return matchdm.Match{HomeTeamID: home, AwayTeamID: away, HomeScore: hs, AwayScore: as, Status: matchdm.StatusCompleted}
	}

	It("awards three points for a win and one for a draw", func() {
		rows := match.ComputeStandings("t-1", []matchdm.Match{
			played("a", "b", 2, 0),
			played("b", "c", 1, 1),
			played("c", "a", 0, 3),
		}, now)

		Expect(rows).To(HaveLen(3))
		Expect(rows[0].TeamID).To(Equal("a"))
		Expect(rows[0].Points).To(Equal(6))
		Expect(rows[0].Won).To(Equal(2))
		Expect(rows[0].GoalsFor).To(Equal(5))
		Expect(rows[0].GoalDifference).To(Equal(5))

		for _, r := range rows[1:] {
			Expect(r.Points).To(Equal(1))
			Expect(r.Drawn).To(Equal(1))
			Expect(r.Lost).To(Equal(1))
			Expect(r.Played).To(Equal(2))
		}
		// b and c are level on points; b has the better goal difference
		Expect(rows[1].TeamID).To(Equal("b"))
		Expect(rows[1].GoalDifference).To(Equal(-2))
		Expect(rows[2].GoalDifference).To(Equal(-3))
	})

	It("lists teams from unplayed fixtures with an empty record", func() {
		rows := match.ComputeStandings("t-1", []matchdm.Match{
			{HomeTeamID: "a", AwayTeamID: "b", HomeScore: 4, AwayScore: 0, Status: matchdm.StatusLive},
			{HomeTeamID: "c", AwayTeamID: "d", Status: matchdm.StatusCancelled},
		}, now)

		Expect(rows).To(HaveLen(4))
		for _, r := range rows {
			Expect(r.Played).To(BeZero())
			Expect(r.Points).To(BeZero())
			Expect(r.TournamentID).To(Equal("t-1"))
			Expect(r.UpdatedAt).To(Equal(now))
		}
		Expect([]string{rows[0].TeamID, rows[1].TeamID, rows[2].TeamID, rows[3].TeamID}).To(Equal([]string{"a", "b", "c", "d"}))
	})

	It("breaks goal difference ties on goals scored", func() {
		rows := match.ComputeStandings("t-1", []matchdm.Match{
			played("a", "x", 3, 2),
			played("b", "y", 1, 0),
		}, now)

		Expect(rows[0].TeamID).To(Equal("a"))
		Expect(rows[1].TeamID).To(Equal("b"))
	})

	It("returns nothing for a tournament without fixtures", func() {
		Expect(match.ComputeStandings("t-1", nil, now)).To(BeEmpty())
	})
})
