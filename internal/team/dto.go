package team

import (
	"net/url"
	"strings"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/common/validation"
)

var Positions = []string{"goalkeeper", "defender", "midfielder", "forward"}

type CreateTeamRequest struct {
	Name    string  `json:"name"`
	LogoURL *string `json:"logo_url"`
}

func (r CreateTeamRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("name", r.Name).Required().MinLength(2).MaxLength(100)
	if r.LogoURL != nil {
		v.Field("logo_url", *r.LogoURL).Custom(absoluteURL("logo_url"))
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AddMemberRequest struct {
	UserID       string  `json:"user_id"`
	JerseyNumber *int    `json:"jersey_number"`
	Position     *string `json:"position"`
}

func (r AddMemberRequest) Validate() error {
	v := validation.NewValidator()
	v.Field("user_id", r.UserID).Required().UUID()
	if r.JerseyNumber != nil {
		v.Field("jersey_number", r.JerseyNumber).
			MinInt(1, internal.ErrCodeValidationFailed).
			MaxInt(99, internal.ErrCodeValidationFailed)
	}
	if r.Position != nil {
		v.Field("position", *r.Position).OneOf(Positions...)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func absoluteURL(field string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return nil
		}
		u, err := url.Parse(s)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return internal.NewValidationFieldError(field, field+" must be an http(s) URL", internal.ErrCodeValidationFailed)
		}
		return nil
	}
}
