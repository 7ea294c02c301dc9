// Package bout validates bout submissions and derives results statistics.
package bout

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
)

// MaxScore is the highest score either fencer can reach.
const MaxScore = 50

// Form is a candidate bout as submitted by a client. Scores are pointers so
// that a missing score is distinguishable from zero.
type Form struct {
	OpponentName     string `json:"opponentName"`
	OpponentNickname string `json:"opponentNickname,omitempty"`
	OpponentWeapon   string `json:"opponentWeapon,omitempty"`
	OpponentRanking  string `json:"opponentRanking,omitempty"`
	OpponentDivision string `json:"opponentDivision,omitempty"`
	Date             string `json:"date"`
	Location         string `json:"location,omitempty"`
	TournamentName   string `json:"tournamentName,omitempty"`
	Weapon           string `json:"weapon"`
	UserScore        *int   `json:"userScore"`
	OpponentScore    *int   `json:"opponentScore"`
	Notes            string `json:"notes,omitempty"`
	Type             string `json:"type"`
	EquipmentUsed    string `json:"equipmentUsed,omitempty"`
}

// FieldOrder lists the form fields in the order errors are reported.
var FieldOrder = []string{
	"opponentName", "opponentNickname", "opponentWeapon", "opponentRanking",
	"opponentDivision", "date", "location", "tournamentName", "weapon",
	"userScore", "opponentScore", "notes", "type", "equipmentUsed",
}

var (
	weaponValues = []any{
		string(models.WeaponFoil), string(models.WeaponEpee), string(models.WeaponSabre),
	}
	typeValues = []any{
		string(models.BoutPractice), string(models.BoutLesson),
		string(models.BoutTournament), string(models.BoutOpenBouting),
	}
)

// errTied has no trailing period; clients match on the text shown by the
// web form.
var errTied = errors.New("Scores cannot be tied")

// Validate checks f and returns the typed input it describes. On failure the
// error is an *apperr.ValidationError listing every violated field; nothing of
// f is accepted.
//
// The tie rule is reported on userScore, and only when userScore is
// otherwise valid.
func Validate(f Form) (models.BoutInput, error) {
	f = trimmed(f)

	err := validation.ValidateStruct(&f,
		validation.Field(&f.OpponentName,
			validation.Required.Error("Opponent name is required"),
			validation.RuneLength(1, 100),
		),
		validation.Field(&f.OpponentNickname, validation.RuneLength(0, 50)),
		validation.Field(&f.OpponentWeapon, validation.In(weaponValues...)),
		validation.Field(&f.OpponentRanking, validation.RuneLength(0, 20)),
		validation.Field(&f.OpponentDivision, validation.RuneLength(0, 20)),
		validation.Field(&f.Date, validation.Required, validation.By(validDate)),
		validation.Field(&f.Location, validation.RuneLength(0, 200)),
		validation.Field(&f.TournamentName, validation.RuneLength(0, 100)),
		validation.Field(&f.Weapon, validation.Required, validation.In(weaponValues...)),
		validation.Field(&f.UserScore,
			validation.NotNil.Error("is required"),
			validation.Min(0),
			validation.Max(MaxScore),
			validation.By(func(any) error {
				if f.OpponentScore != nil && *f.UserScore == *f.OpponentScore {
					return errTied
				}
				return nil
			}),
		),
		validation.Field(&f.OpponentScore,
			validation.NotNil.Error("is required"),
			validation.Min(0),
			validation.Max(MaxScore),
		),
		validation.Field(&f.Notes, validation.RuneLength(0, 500)),
		validation.Field(&f.Type, validation.Required, validation.In(typeValues...)),
		validation.Field(&f.EquipmentUsed, validation.RuneLength(0, 100)),
	)
	if err := apperr.FromValidation(err, FieldOrder...); err != nil {
		return models.BoutInput{}, err
	}

	date, _ := models.ParseDate(f.Date)
	return models.BoutInput{
		OpponentName:     f.OpponentName,
		OpponentNickname: f.OpponentNickname,
		OpponentWeapon:   models.Weapon(f.OpponentWeapon),
		OpponentRanking:  f.OpponentRanking,
		OpponentDivision: f.OpponentDivision,
		Date:             date,
		Location:         f.Location,
		TournamentName:   f.TournamentName,
		Weapon:           models.Weapon(f.Weapon),
		UserScore:        *f.UserScore,
		OpponentScore:    *f.OpponentScore,
		Notes:            f.Notes,
		Type:             models.BoutType(f.Type),
		EquipmentUsed:    f.EquipmentUsed,
	}, nil
}

func validDate(value any) error {
	s, _ := value.(string)
	if _, err := models.ParseDate(s); err != nil {
		return errors.New("must be a valid date")
	}
	return nil
}

// trimmed strips surrounding whitespace from the single-line fields, so a
// blank opponent name counts as missing.
func trimmed(f Form) Form {
	for _, s := range []*string{
		&f.OpponentName, &f.OpponentNickname, &f.OpponentWeapon,
		&f.OpponentRanking, &f.OpponentDivision, &f.Date, &f.Location,
		&f.TournamentName, &f.Weapon, &f.Type, &f.EquipmentUsed,
	} {
		*s = strings.TrimSpace(*s)
	}
	return f
}
