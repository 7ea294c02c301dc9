// Package profile validates the fencer's personal details.
package profile

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
)

// Form is a candidate profile update.
type Form struct {
	Name          string `json:"name"`
	Email         string `json:"email,omitempty"`
	WeaponPrimary string `json:"weaponPrimary"`
	Division      string `json:"division,omitempty"`
	Club          string `json:"club,omitempty"`
	Coach         string `json:"coach,omitempty"`
}

// Validate checks f and returns the profile it describes, without
// timestamps.
func Validate(f Form) (models.Profile, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)

	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&f.Email, is.EmailFormat, validation.RuneLength(0, 254)),
		validation.Field(&f.WeaponPrimary, validation.Required, validation.In(
			string(models.WeaponFoil), string(models.WeaponEpee), string(models.WeaponSabre),
		)),
		validation.Field(&f.Division, validation.RuneLength(0, 100)),
		validation.Field(&f.Club, validation.RuneLength(0, 100)),
		validation.Field(&f.Coach, validation.RuneLength(0, 100)),
	)
	if err := apperr.FromValidation(err, "name", "email", "weaponPrimary", "division", "club", "coach"); err != nil {
		return models.Profile{}, err
	}
	return models.Profile{
		Name:          f.Name,
		Email:         f.Email,
		WeaponPrimary: models.Weapon(f.WeaponPrimary),
		Division:      f.Division,
		Club:          f.Club,
		Coach:         f.Coach,
	}, nil
}
