package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
	"github.com/Jakababa94/kenya-liga-hub/internal/registration"
	"github.com/jmoiron/sqlx"
)

// EligibilityReader answers the validator's aggregate questions with plain SQL.
type EligibilityReader struct {
	db *sqlx.DB
}

func NewEligibilityReader(db *sqlx.DB) *EligibilityReader {
	return &EligibilityReader{db: db}
}

func (e *EligibilityReader) Tournament(ctx context.Context, tournamentID string) (*registration.TournamentSnapshot, error) {
	var t registration.TournamentSnapshot
	query := e.db.Rebind(`
SELECT id, name, status, organizer_id, max_teams, min_players_per_team, max_players_per_team
FROM tournaments
WHERE id = ?`)
	if err := e.db.GetContext(ctx, &t, query, tournamentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, registration.ErrTournamentNotFound
		}
		return nil, fmt.Errorf("tournament query: %w", err)
	}
	return &t, nil
}

func (e *EligibilityReader) MemberCount(ctx context.Context, teamID string) (int, error) {
	var n int
	if err := e.db.GetContext(ctx, &n, e.db.Rebind(`SELECT COUNT(*) FROM team_members WHERE team_id = ?`), teamID); err != nil {
		return 0, fmt.Errorf("member count query: %w", err)
	}
	return n, nil
}

// ActiveRegistrationCount counts registrations holding a slot: pending and approved.
func (e *EligibilityReader) ActiveRegistrationCount(ctx context.Context, tournamentID string) (int, error) {
	query, args, err := sqlx.In(
		`SELECT COUNT(*) FROM tournament_registrations WHERE tournament_id = ? AND status IN (?)`,
		tournamentID,
		[]string{registrationdm.StatusPending, registrationdm.StatusApproved},
	)
	if err != nil {
		return 0, err
	}

	var n int
	if err := e.db.GetContext(ctx, &n, e.db.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("registration count query: %w", err)
	}
	return n, nil
}
