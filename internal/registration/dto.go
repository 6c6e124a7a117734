package registration

import (
	"github.com/Jakababa94/kenya-liga-hub/internal/core/common/validation"
	registrationdm "github.com/Jakababa94/kenya-liga-hub/internal/core/datamodel/registration"
)

type RegisterRequest struct {
	TeamID string `json:"team_id"`
}

func (r RegisterRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("team_id", r.TeamID).Required().UUID()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ReviewRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

func (r ReviewRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("status", r.Status).Required().OneOf(registrationdm.StatusApproved, registrationdm.StatusRejected)
	if r.Notes != nil {
		v.Field("notes", *r.Notes).MaxLength(1000)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
