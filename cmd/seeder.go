package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Jakababa94/kenya-liga-hub/internal/auth"
	teamdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/team"
	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
	userdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/user"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password"

type seedUser struct {
	Email string
	Name  string
	Phone string
	Roles []string
}

var seedUsers = []seedUser{
	{Email: "admin@ligahub.co.ke", Name: "Liga Admin", Phone: "254700000001", Roles: []string{auth.RoleSuperAdmin}},
	{Email: "organizer@ligahub.co.ke", Name: "Wanjiku Organizer", Phone: "254700000002", Roles: []string{auth.RoleOrganizer}},
	{Email: "captain@ligahub.co.ke", Name: "Otieno Captain", Phone: "254712345678", Roles: []string{auth.RoleTeamAdmin, auth.RoleTeamMember}},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed users, an open tournament and a registrable team for development and testing.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		hash, err := auth.HashPassword(seedPassword, cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}

		ids := make(map[string]string, len(seedUsers))
		for _, u := range seedUsers {
			id, err := ensureUser(db, u, hash)
			if err != nil {
				log.Fatalf("failed to seed user %s: %v", u.Email, err)
			}
			ids[u.Email] = id
		}

		var players []string
		for i := 1; i <= 10; i++ {
			u := seedUser{
				Email: fmt.Sprintf("player%02d@ligahub.co.ke", i),
				Name:  fmt.Sprintf("Player %02d", i),
				Roles: []string{auth.RoleTeamMember},
			}
			id, err := ensureUser(db, u, hash)
			if err != nil {
				log.Fatalf("failed to seed player %s: %v", u.Email, err)
			}
			players = append(players, id)
		}

		tournamentID, err := ensureTournament(db, ids["organizer@ligahub.co.ke"])
		if err != nil {
			log.Fatalf("failed to seed tournament: %v", err)
		}
		fmt.Println("Seeded tournament:", tournamentID)

		teamID, err := ensureTeam(db, ids["captain@ligahub.co.ke"], players)
		if err != nil {
			log.Fatalf("failed to seed team: %v", err)
		}
		fmt.Println("Seeded team:", teamID)

		fmt.Printf("All seeded users share the password %q\n", seedPassword)
	},
}

func ensureUser(db *gorm.DB, u seedUser, hash string) (string, error) {
	var existing userdm.User
	err := db.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		fmt.Println("user already exists:", u.Email)
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	now := time.Now().UTC()
	row := userdm.User{
		ID:                uuid.NewString(),
		Email:             u.Email,
		PasswordHash:      hash,
		FullName:          &u.Name,
		PreferredLanguage: "en",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if u.Phone != "" {
		row.Phone = &u.Phone
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, role := range u.Roles {
			if err := tx.Create(&userdm.UserRole{ID: uuid.NewString(), UserID: row.ID, Role: role, CreatedAt: now}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	fmt.Println("Seeded user:", u.Email, u.Roles)
	return row.ID, nil
}

func ensureTournament(db *gorm.DB, organizerID string) (string, error) {
	const name = "Nairobi Community Cup"
	s := slug.Make(name)

	var existing tournamentdm.Tournament
	err := db.Where("slug = ?", s).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	now := time.Now().UTC()
	start := now.AddDate(0, 1, 0)
	maxTeams, minTeams, minPlayers, maxPlayers := 16, 4, 7, 18
	row := tournamentdm.Tournament{
		ID:                   uuid.NewString(),
		Slug:                 s,
		Name:                 name,
		Region:               "nairobi",
		Venue:                "Kasarani Annex",
		Category:             "open",
		Status:               tournamentdm.StatusRegistrationOpen,
		StartDate:            start,
		EndDate:              start.AddDate(0, 0, 14),
		RegistrationDeadline: start.AddDate(0, 0, -7),
		EntryFee:             1500,
		Currency:             "KES",
		MaxTeams:             &maxTeams,
		MinTeams:             &minTeams,
		MinPlayersPerTeam:    &minPlayers,
		MaxPlayersPerTeam:    &maxPlayers,
		OrganizerID:          organizerID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := db.Create(&row).Error; err != nil {
		return "", err
	}
	return row.ID, nil
}

func ensureTeam(db *gorm.DB, captainID string, players []string) (string, error) {
	const name = "Mathare Stars"
	s := slug.Make(name)

	var existing teamdm.Team
	err := db.Where("slug = ?", s).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	now := time.Now().UTC()
	row := teamdm.Team{
		ID:        uuid.NewString(),
		Slug:      s,
		Name:      name,
		CaptainID: captainID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		jersey := 1
		members := []teamdm.Member{{ID: uuid.NewString(), TeamID: row.ID, UserID: captainID, Role: teamdm.RoleCaptain, JerseyNumber: &jersey, JoinedAt: now}}
		for i, p := range players {
			n := i + 2
			members = append(members, teamdm.Member{ID: uuid.NewString(), TeamID: row.ID, UserID: p, Role: teamdm.RoleMember, JerseyNumber: &n, JoinedAt: now})
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return "", err
	}
	return row.ID, nil
}

func clearSeedData(db *gorm.DB) error {
	tables := []string{"player_statistics", "standings", "matches", "payments", "tournament_registrations", "team_members", "teams", "tournaments", "user_roles", "users"}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, t := range tables {
			if err := tx.Exec("DELETE FROM " + t).Error; err != nil {
				return fmt.Errorf("clear %s: %w", t, err)
			}
		}
		return nil
	})
}
