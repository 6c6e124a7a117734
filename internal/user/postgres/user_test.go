package postgres_test

import (
	"context"
	"testing"

	userDatamodel "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/user"
	"github.com/Jakababa94/kenya-liga-hub/internal/user"
	userPostgres "github.com/Jakababa94/kenya-liga-hub/internal/user/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var _ = Describe("User profile repository", func() {
	var (
		gdb  *gorm.DB
		repo *userPostgres.Repository
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		gdb, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(gdb.AutoMigrate(&userDatamodel.User{}, &userDatamodel.UserRole{})).To(Succeed())

		sqlDB, err := gdb.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		repo = userPostgres.NewRepository(sqlx.NewDb(sqlDB, "sqlite3"))

		Expect(gdb.Create(&userDatamodel.User{
			ID: "11111111-1111-1111-1111-111111111111", Email: "captain@example.com",
			PasswordHash: "x", PreferredLanguage: "en", IsActive: true,
		}).Error).To(Succeed())
		Expect(gdb.Create(&[]userDatamodel.UserRole{
			{ID: "r-2", UserID: "11111111-1111-1111-1111-111111111111", Role: "team_member"},
			{ID: "r-1", UserID: "11111111-1111-1111-1111-111111111111", Role: "team_admin"},
		}).Error).To(Succeed())
	})

	It("loads the profile and sorted roles", func() {
		p, err := repo.GetProfile(ctx, "11111111-1111-1111-1111-111111111111")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Email).To(Equal("captain@example.com"))
		Expect(p.FullName).To(BeNil())
		Expect(p.Roles).To(Equal([]string{"team_admin", "team_member"}))
		Expect(p.CreatedAt).NotTo(BeZero())
	})

	It("returns ErrUserNotFound for unknown ids", func() {
		_, err := repo.GetProfile(ctx, "22222222-2222-2222-2222-222222222222")
		Expect(err).To(MatchError(user.ErrUserNotFound))
	})

	It("updates selected columns and clears an empty phone", func() {
		name, phone := "Achieng", "0712345678"
		Expect(repo.UpdateProfile(ctx, "11111111-1111-1111-1111-111111111111", user.ProfileChanges{FullName: &name, Phone: &phone})).To(Succeed())

		p, err := repo.GetProfile(ctx, "11111111-1111-1111-1111-111111111111")
		Expect(err).NotTo(HaveOccurred())
		Expect(*p.FullName).To(Equal("Achieng"))
		Expect(*p.Phone).To(Equal("0712345678"))

		empty := ""
		Expect(repo.UpdateProfile(ctx, "11111111-1111-1111-1111-111111111111", user.ProfileChanges{Phone: &empty})).To(Succeed())
		p, err = repo.GetProfile(ctx, "11111111-1111-1111-1111-111111111111")
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Phone).To(BeNil())
		Expect(*p.FullName).To(Equal("Achieng"))
	})

	It("reports a missing user on update", func() {
		name := "Nobody"
		err := repo.UpdateProfile(ctx, "22222222-2222-2222-2222-222222222222", user.ProfileChanges{FullName: &name})
		Expect(err).To(MatchError(user.ErrUserNotFound))
	})
})
