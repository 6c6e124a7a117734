package postgres_test

import (
	"context"
	"testing"
	"time"

	teamdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/team"
	"github.com/Jakababa94/kenya-liga-hub/internal/team"
	teamPostgres "github.com/Jakababa94/kenya-liga-hub/internal/team/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestTeamPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Team Postgres Suite")
}

const (
	teamID    = "dddddddd-0000-0000-0000-000000000001"
	captainID = "cccccccc-0000-0000-0000-000000000001"
	playerID  = "cccccccc-0000-0000-0000-000000000002"
	otherID   = "cccccccc-0000-0000-0000-000000000003"
)

func jersey(n int) *int { return &n }

var _ = Describe("Repository", func() {
	var (
		db   *gorm.DB
		repo *teamPostgres.Repository
		ctx  context.Context
		now  time.Time
	)

	member := func(id, userID string, number *int, joined time.Time) *teamdm.Member {
		return &teamdm.Member{ID: id, TeamID: teamID, UserID: userID, Role: teamdm.RoleMember, JerseyNumber: number, JoinedAt: joined}
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
		Expect(db.AutoMigrate(&teamdm.Team{}, &teamdm.Member{})).To(Succeed())

		repo = teamPostgres.NewRepository(db)
		now = time.Now().UTC()
		Expect(repo.CreateWithCaptain(ctx,
			&teamdm.Team{ID: teamID, Slug: "kariobangi-sharks-dddddddd", Name: "Kariobangi Sharks", CaptainID: captainID, CreatedAt: now, UpdatedAt: now},
			&teamdm.Member{ID: "eeeeeeee-0000-0000-0000-000000000001", TeamID: teamID, UserID: captainID, Role: teamdm.RoleCaptain, JoinedAt: now},
		)).To(Succeed())
	})

	It("stores the team with its captain membership", func() {
		t, err := repo.GetByID(ctx, teamID)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Name).To(Equal("Kariobangi Sharks"))
		Expect(t.Members).To(HaveLen(1))
		Expect(t.Members[0].Role).To(Equal(teamdm.RoleCaptain))

		_, err = repo.GetByID(ctx, "dddddddd-0000-0000-0000-000000000099")
		Expect(err).To(MatchError(team.ErrTeamNotFound))
	})

	It("keeps members in joining order", func() {
		Expect(repo.AddMember(ctx, member("eeeeeeee-0000-0000-0000-000000000002", playerID, jersey(10), now.Add(time.Minute)))).To(Succeed())

		t, err := repo.GetByID(ctx, teamID)
		Expect(err).NotTo(HaveOccurred())
		Expect(t.Members).To(HaveLen(2))
		Expect(t.Members[1].UserID).To(Equal(playerID))
	})

	It("distinguishes duplicate members from duplicate jersey numbers", func() {
		Expect(repo.AddMember(ctx, member("eeeeeeee-0000-0000-0000-000000000002", playerID, jersey(10), now))).To(Succeed())

		err := repo.AddMember(ctx, member("eeeeeeee-0000-0000-0000-000000000003", playerID, nil, now))
		Expect(err).To(MatchError(team.ErrDuplicateMember))

		err = repo.AddMember(ctx, member("eeeeeeee-0000-0000-0000-000000000004", otherID, jersey(10), now))
		Expect(err).To(MatchError(team.ErrDuplicateJersey))
	})

	It("lists teams by membership", func() {
		Expect(repo.AddMember(ctx, member("eeeeeeee-0000-0000-0000-000000000002", playerID, nil, now))).To(Succeed())

		teams, err := repo.ListByMember(ctx, playerID)
		Expect(err).NotTo(HaveOccurred())
		Expect(teams).To(HaveLen(1))
		Expect(teams[0].Members).To(HaveLen(2))

		teams, err = repo.ListByMember(ctx, otherID)
		Expect(err).NotTo(HaveOccurred())
		Expect(teams).To(BeEmpty())
	})

	It("removes members and reports missing ones", func() {
		Expect(repo.AddMember(ctx, member("eeeeeeee-0000-0000-0000-000000000002", playerID, nil, now))).To(Succeed())

		Expect(repo.RemoveMember(ctx, teamID, playerID)).To(Succeed())
		Expect(repo.RemoveMember(ctx, teamID, playerID)).To(MatchError(team.ErrMemberNotFound))
	})
})
