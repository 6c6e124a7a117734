package user

import (
	"regexp"
	"strings"

	"github.com/Jakababa94/kenya-liga-hub/internal"
	"github.com/Jakababa94/kenya-liga-hub/internal/core/common/validation"
)

var kenyanPhone = regexp.MustCompile(`^(\+?254|0)?[17]\d{8}$`)

type UpdateProfileDTO struct {
	FullName          *string `json:"full_name"`
	Phone             *string `json:"phone"`
	PreferredLanguage *string `json:"preferred_language"`
}

func (d UpdateProfileDTO) Validate() error {
	v := validation.NewValidator()
	if d.FullName != nil {
		v.Field("full_name", strings.TrimSpace(*d.FullName)).Required().MaxLength(120)
	}
	if d.Phone != nil {
		v.Field("phone", *d.Phone).Custom(func(value interface{}) *internal.AppError {
			s, _ := value.(string)
			s = strings.NewReplacer(" ", "", "-", "").Replace(s)
			if s != "" && !kenyanPhone.MatchString(s) {
				return internal.NewValidationFieldError("phone", "phone must be a valid Kenyan mobile number", internal.ErrCodeValidationFailed)
			}
			return nil
		})
	}
	if d.PreferredLanguage != nil {
		v.Field("preferred_language", *d.PreferredLanguage).Required().OneOf(LanguageEnglish, LanguageSwahili)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Changes trims input; an empty phone clears the stored number.
func (d UpdateProfileDTO) Changes() ProfileChanges {
	var c ProfileChanges
	if d.FullName != nil {
		name := strings.TrimSpace(*d.FullName)
		c.FullName = &name
	}
	if d.Phone != nil {
		phone := strings.TrimSpace(*d.Phone)
		c.Phone = &phone
	}
	if d.PreferredLanguage != nil {
		lang := *d.PreferredLanguage
		c.PreferredLanguage = &lang
	}
	return c
}
