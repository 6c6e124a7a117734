package registration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tournamentdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/tournament"
)

const (
	msgRegistrationClosed   = "Tournament registration is not open"
	msgTournamentNotFound   = "Tournament not found"
	msgTournamentFull       = "Tournament has reached maximum number of teams"
	msgValidationInfraError = "Failed to validate team requirements"
)

// Result is the eligibility verdict. Business-rule violations are data, never errors.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`

	err error
}

// InfrastructureError is non-nil when the verdict could not be reached because data
// access failed.
func (r Result) InfrastructureError() error {
	return r.err
}

type EligibilityReader interface {
	Tournament(ctx context.Context, tournamentID string) (*TournamentSnapshot, error)
	MemberCount(ctx context.Context, teamID string) (int, error)
	ActiveRegistrationCount(ctx context.Context, tournamentID string) (int, error)
}

// errStopChecks ends the check list early without being a failure.
var errStopChecks = errors.New("stop remaining checks")

type checkState struct {
	ctx        context.Context
	reader     EligibilityReader
	teamID     string
	tournament *TournamentSnapshot

	members *int
	active  *int
}

func (s *checkState) memberCount() (int, error) {
	if s.members == nil {
		n, err := s.reader.MemberCount(s.ctx, s.teamID)
		if err != nil {
			return 0, err
		}
		s.members = &n
	}
	return *s.members, nil
}

func (s *checkState) activeRegistrations() (int, error) {
	if s.active == nil {
		n, err := s.reader.ActiveRegistrationCount(s.ctx, s.tournament.ID)
		if err != nil {
			return 0, err
		}
		s.active = &n
	}
	return *s.active, nil
}

type check func(s *checkState, violations *[]string) error

var checks = []check{
	checkRegistrationOpen,
	checkMinPlayers,
	checkMaxPlayers,
	checkCapacity,
}

func checkRegistrationOpen(s *checkState, violations *[]string) error {
	if s.tournament.Status != tournamentdm.StatusRegistrationOpen {
		*violations = append(*violations, msgRegistrationClosed)
		return errStopChecks
	}
	return nil
}

func checkMinPlayers(s *checkState, violations *[]string) error {
	min := s.tournament.MinPlayersPerTeam
	if min == nil {
		return nil
	}
	n, err := s.memberCount()
	if err != nil {
		return err
	}
	if n < *min {
		*violations = append(*violations, fmt.Sprintf("Team must have at least %d players. Currently has %d.", *min, n))
	}
	return nil
}

func checkMaxPlayers(s *checkState, violations *[]string) error {
	max := s.tournament.MaxPlayersPerTeam
	if max == nil {
		return nil
	}
	n, err := s.memberCount()
	if err != nil {
		return err
	}
	if n > *max {
		*violations = append(*violations, fmt.Sprintf("Team cannot have more than %d players. Currently has %d.", *max, n))
	}
	return nil
}

func checkCapacity(s *checkState, violations *[]string) error {
	max := s.tournament.MaxTeams
	if max == nil {
		return nil
	}
	n, err := s.activeRegistrations()
	if err != nil {
		return err
	}
	if n >= *max {
		*violations = append(*violations, msgTournamentFull)
	}
	return nil
}

type Validator struct {
	reader EligibilityReader
	logger *slog.Logger
}

func NewValidator(reader EligibilityReader, logger *slog.Logger) *Validator {
	return &Validator{
		reader: reader,
		logger: logger,
	}
}

func (v *Validator) Validate(ctx context.Context, teamID, tournamentID string) Result {
	t, err := v.reader.Tournament(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, ErrTournamentNotFound) {
			return Result{Valid: false, Errors: []string{msgTournamentNotFound}}
		}
		return v.infrastructureFailure(err, teamID, tournamentID)
	}

	state := &checkState{ctx: ctx, reader: v.reader, teamID: teamID, tournament: t}
	violations := make([]string, 0)

	for _, c := range checks {
		if err := c(state, &violations); err != nil {
			if errors.Is(err, errStopChecks) {
				break
			}
			return v.infrastructureFailure(err, teamID, tournamentID)
		}
	}

	return Result{Valid: len(violations) == 0, Errors: violations}
}

func (v *Validator) infrastructureFailure(err error, teamID, tournamentID string) Result {
	v.logger.Error("eligibility check failed",
		"team_id", teamID,
		"tournament_id", tournamentID,
		"error", err)
	return Result{Valid: false, Errors: []string{msgValidationInfraError}, err: err}
}
