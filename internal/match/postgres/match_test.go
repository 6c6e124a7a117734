package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	matchdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/match"
	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
	teamdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/team"
	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
	"github.com/Jakababa94/kenya-liga-hub/internal/match"
	matchPostgres "github.com/Jakababa94/kenya-liga-hub/internal/match/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMatchPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Match Postgres Suite")
}

const (
	tournamentID = "aaaaaaaa-0000-0000-0000-000000000001"
	organizerID  = "cccccccc-0000-0000-0000-000000000001"
	playerID     = "99999999-0000-0000-0000-000000000001"
)

func teamID(i int) string { return fmt.Sprintf("dddddddd-0000-0000-0000-%012d", i) }

func matchID(i int) string { return fmt.Sprintf("bbbbbbbb-0000-0000-0000-%012d", i) }

var _ = Describe("Repository", func() {
	var (
		db   *gorm.DB
		repo *matchPostgres.Repository
		ctx  context.Context
		kick time.Time
	)

	fixture := func(i, home, away int, status string, hs, as int) *matchdm.Match {
		now := time.Now().UTC()
		m := &matchdm.Match{
			ID: matchID(i), TournamentID: tournamentID, HomeTeamID: teamID(home), AwayTeamID: teamID(away),
			ScheduledAt: kick.Add(time.Duration(i) * time.Hour), Status: status, HomeScore: hs, AwayScore: as,
			CreatedAt: now, UpdatedAt: now,
		}
		Expect(repo.Create(ctx, m)).To(Succeed())
		return m
	}

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(
			&tournamentdm.Tournament{}, &teamdm.Team{}, &teamdm.Member{}, &registrationdm.Registration{},
			&matchdm.Match{}, &matchdm.Standing{}, &matchdm.PlayerStatistic{},
		)).To(Succeed())

		now := time.Now().UTC()
		kick = time.Date(2026, 8, 1, 14, 0, 0, 0, time.UTC)
		Expect(db.Create(&tournamentdm.Tournament{
			ID: tournamentID, Slug: "eastlands-league", Name: "Eastlands League", Region: "nairobi",
			Venue: "Jericho Grounds", Category: "open", Status: tournamentdm.StatusOngoing,
			StartDate: kick, EndDate: kick.AddDate(0, 1, 0), RegistrationDeadline: kick.AddDate(0, 0, -7),
			OrganizerID: organizerID, CreatedAt: now, UpdatedAt: now,
		}).Error).To(Succeed())
		for i := 1; i <= 3; i++ {
			Expect(db.Create(&teamdm.Team{
				ID: teamID(i), Slug: fmt.Sprintf("team-%d", i), Name: fmt.Sprintf("Team %d", i),
				CaptainID: fmt.Sprintf("eeeeeeee-0000-0000-0000-%012d", i), CreatedAt: now, UpdatedAt: now,
			}).Error).To(Succeed())
		}

		repo = matchPostgres.NewRepository(db)
	})

	It("reads the organizer and team summaries", func() {
		Expect(repo.TournamentOrganizer(ctx, tournamentID)).To(Equal(organizerID))
		_, err := repo.TournamentOrganizer(ctx, "aaaaaaaa-0000-0000-0000-000000000099")
		Expect(err).To(MatchError(match.ErrTournamentNotFound))

		teams, err := repo.Teams(ctx, []string{teamID(1), teamID(2), teamID(9)})
		Expect(err).NotTo(HaveOccurred())
		Expect(teams).To(HaveLen(2))
		Expect(teams[teamID(2)].Name).To(Equal("Team 2"))
	})

	It("lists fixtures by kick-off time", func() {
		fixture(2, 1, 2, matchdm.StatusScheduled, 0, 0)
		fixture(1, 2, 3, matchdm.StatusScheduled, 0, 0)

		rows, err := repo.ListByTournament(ctx, tournamentID)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].ID).To(Equal(matchID(1)))
	})

	It("keeps the table in step with every match change", func() {
		fixture(1, 1, 2, matchdm.StatusCompleted, 3, 1)
		m := fixture(2, 2, 3, matchdm.StatusScheduled, 0, 0)

		table, err := repo.Standings(ctx, tournamentID)
		Expect(err).NotTo(HaveOccurred())
		Expect(table).To(HaveLen(3))
		Expect(table[0].TeamID).To(Equal(teamID(1)))
		Expect(table[0].Points).To(Equal(3))
		Expect(table[0].GoalDifference).To(Equal(2))

		m.Status, m.HomeScore, m.AwayScore = matchdm.StatusCompleted, 4, 0
		Expect(repo.Update(ctx, m)).To(Succeed())

		table, err = repo.Standings(ctx, tournamentID)
		Expect(err).NotTo(HaveOccurred())
		Expect(table[0].TeamID).To(Equal(teamID(2)))
		Expect(table[0].Played).To(Equal(2))
		Expect(table[0].GoalsFor).To(Equal(5))
		Expect(table[0].GoalDifference).To(Equal(2))
		Expect(table[2].TeamID).To(Equal(teamID(3)))

		Expect(repo.Delete(ctx, m)).To(Succeed())
		table, err = repo.Standings(ctx, tournamentID)
		Expect(err).NotTo(HaveOccurred())
		Expect(table).To(HaveLen(2))
		Expect(table[0].TeamID).To(Equal(teamID(1)))

		_, err = repo.GetByID(ctx, m.ID)
		Expect(err).To(MatchError(match.ErrMatchNotFound))
		Expect(repo.Update(ctx, m)).To(MatchError(match.ErrMatchNotFound))
	})

	It("upserts one line per player and match", func() {
		fixture(1, 1, 2, matchdm.StatusCompleted, 2, 0)
		now := time.Now().UTC()
		line := func(id string, goals int) *matchdm.PlayerStatistic {
			return &matchdm.PlayerStatistic{
				ID: id, MatchID: matchID(1), TeamID: teamID(1), PlayerID: playerID,
				Goals: goals, MinutesPlayed: 90, CreatedAt: now, UpdatedAt: now,
			}
		}

		first, err := repo.UpsertStatistic(ctx, line("ffffffff-0000-0000-0000-000000000001", 1))
		Expect(err).NotTo(HaveOccurred())
		second, err := repo.UpsertStatistic(ctx, line("ffffffff-0000-0000-0000-000000000002", 2))
		Expect(err).NotTo(HaveOccurred())
		Expect(second.ID).To(Equal(first.ID))
		Expect(second.Goals).To(Equal(2))

		Expect(repo.UpsertStatistic(ctx, &matchdm.PlayerStatistic{
			ID: "ffffffff-0000-0000-0000-000000000003", MatchID: matchID(1), TeamID: teamID(1),
			PlayerID: "99999999-0000-0000-0000-000000000002", Assists: 2, CreatedAt: now, UpdatedAt: now,
		})).NotTo(BeNil())

		rows, err := repo.ListStatistics(ctx, matchID(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[0].PlayerID).To(Equal(playerID))

		Expect(repo.DeleteStatistic(ctx, first.ID)).To(Succeed())
		Expect(repo.DeleteStatistic(ctx, first.ID)).To(MatchError(match.ErrStatisticNotFound))
		_, err = repo.GetStatistic(ctx, first.ID)
		Expect(err).To(MatchError(match.ErrStatisticNotFound))
	})

	It("totals a player's career across matches", func() {
		fixture(1, 1, 2, matchdm.StatusCompleted, 2, 0)
		fixture(2, 1, 3, matchdm.StatusCompleted, 1, 1)
		now := time.Now().UTC()
		for i, goals := range []int{2, 1} {
			_, err := repo.UpsertStatistic(ctx, &matchdm.PlayerStatistic{
				ID: fmt.Sprintf("ffffffff-0000-0000-0000-%012d", i), MatchID: matchID(i + 1), TeamID: teamID(1),
				PlayerID: playerID, Goals: goals, YellowCards: 1, MinutesPlayed: 90, CreatedAt: now, UpdatedAt: now,
			})
			Expect(err).NotTo(HaveOccurred())
		}

		career, err := repo.CareerStats(ctx, playerID)
		Expect(err).NotTo(HaveOccurred())
		Expect(career.MatchesPlayed).To(Equal(2))
		Expect(career.Goals).To(Equal(3))
		Expect(career.YellowCards).To(Equal(2))
		Expect(career.MinutesPlayed).To(Equal(180))

		none, err := repo.CareerStats(ctx, "99999999-0000-0000-0000-000000000099")
		Expect(err).NotTo(HaveOccurred())
		Expect(none.MatchesPlayed).To(BeZero())
	})

	It("drops a match's statistics with it", func() {
		m := fixture(1, 1, 2, matchdm.StatusCompleted, 1, 0)
		now := time.Now().UTC()
		_, err := repo.UpsertStatistic(ctx, &matchdm.PlayerStatistic{
			ID: "ffffffff-0000-0000-0000-000000000001", MatchID: m.ID, TeamID: teamID(1), PlayerID: playerID,
			Goals: 1, CreatedAt: now, UpdatedAt: now,
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(repo.Delete(ctx, m)).To(Succeed())
		rows, err := repo.ListStatistics(ctx, m.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(BeEmpty())
	})

	Describe("user stats sources", func() {
		It("finds the user's teams as captain or member without duplicates", func() {
			user := "eeeeeeee-0000-0000-0000-000000000001"
			now := time.Now().UTC()
			for i, tid := range []string{teamID(1), teamID(2)} {
				Expect(db.Create(&teamdm.Member{
					ID: fmt.Sprintf("ffffffff-1111-0000-0000-%012d", i), TeamID: tid, UserID: user,
					Role: teamdm.RoleMember, JoinedAt: now,
				}).Error).To(Succeed())
			}

			ids, err := repo.UserTeamIDs(ctx, user)
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(ConsistOf(teamID(1), teamID(2)))
		})

		It("reads standings across tournaments for the given teams", func() {
			fixture(1, 1, 2, matchdm.StatusCompleted, 0, 2)

			rows, err := repo.StandingsForTeams(ctx, []string{teamID(2)})
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].Won).To(Equal(1))
		})

		It("counts open or running tournaments with an approved registration", func() {
			now := time.Now().UTC()
			seed := func(id, status, tournamentStatus, team string) {
				tid := "aaaaaaaa-0000-0000-0000-0000000000" + id
				Expect(db.Create(&tournamentdm.Tournament{
					ID: tid, Slug: "t-" + id, Name: "T " + id, Region: "coast", Venue: "Nyali", Category: "open",
					Status: tournamentStatus, StartDate: kick, EndDate: kick, RegistrationDeadline: kick,
					OrganizerID: organizerID, CreatedAt: now, UpdatedAt: now,
				}).Error).To(Succeed())
				Expect(db.Create(&registrationdm.Registration{
					ID: "bbbbbbbb-1111-0000-0000-0000000000" + id, TeamID: team, TournamentID: tid,
					Status: status, RegisteredAt: now, UpdatedAt: now,
				}).Error).To(Succeed())
			}
			seed("10", registrationdm.StatusApproved, tournamentdm.StatusOngoing, teamID(1))
			seed("11", registrationdm.StatusApproved, tournamentdm.StatusRegistrationOpen, teamID(2))
			seed("12", registrationdm.StatusPending, tournamentdm.StatusOngoing, teamID(1))
			seed("13", registrationdm.StatusApproved, tournamentdm.StatusCompleted, teamID(1))
			// both teams in the same tournament count once
			Expect(db.Create(&registrationdm.Registration{
				ID: "bbbbbbbb-1111-0000-0000-000000000099", TeamID: teamID(2),
				TournamentID: "aaaaaaaa-0000-0000-0000-000000000010",
				Status: registrationdm.StatusApproved, RegisteredAt: now, UpdatedAt: now,
			}).Error).To(Succeed())

			n, err := repo.ActiveTournamentCount(ctx, []string{teamID(1), teamID(2)})
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
		})
	})
})
