package armory

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
)

// EquipmentForm is a candidate equipment record as submitted by a client.
type EquipmentForm struct {
	Type         string   `json:"type"`
	Subtype      string   `json:"subtype,omitempty"`
	Brand        string   `json:"brand,omitempty"`
	Model        string   `json:"model,omitempty"`
	PurchaseDate string   `json:"purchaseDate,omitempty"`
	Cost         *float64 `json:"cost,omitempty"`
	Status       string   `json:"status,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Weapon       string   `json:"weapon,omitempty"`
	IsEquipped   bool     `json:"isEquipped,omitempty"`
}

var equipmentFieldOrder = []string{
	"type", "subtype", "brand", "model", "purchaseDate", "cost", "status", "notes", "weapon",
}

// ValidateEquipment checks f against the catalog and returns the equipment
// it describes, without identifier or timestamps. An empty status means
// active.
func ValidateEquipment(c Catalog, f EquipmentForm) (models.Equipment, error) {
	if f.Status == "" {
		f.Status = string(models.StatusActive)
	}
	cat, known := c.Lookup(models.CategoryKey(f.Type))

	err := validation.ValidateStruct(&f,
		validation.Field(&f.Type,
			validation.Required,
			validation.By(func(any) error {
				if !known {
					return errors.New("must be a known equipment category")
				}
				return nil
			}),
		),
		validation.Field(&f.Subtype,
			validation.RuneLength(0, 50),
			validation.When(known && f.Subtype != "", validation.By(func(any) error {
				if !cat.AllowsSubtype(f.Subtype) {
					return errors.New("must be one of: " + strings.Join(cat.Subtypes, ", "))
				}
				return nil
			})),
		),
		validation.Field(&f.Brand, validation.RuneLength(0, 100)),
		validation.Field(&f.Model, validation.RuneLength(0, 100)),
		validation.Field(&f.PurchaseDate, validation.By(optionalDate)),
		validation.Field(&f.Cost, validation.Min(0.0)),
		validation.Field(&f.Status, validation.In(statusValues...)),
		validation.Field(&f.Notes, validation.RuneLength(0, 500)),
		validation.Field(&f.Weapon, validation.In(weaponValues...)),
	)
	if err := apperr.FromValidation(err, equipmentFieldOrder...); err != nil {
		return models.Equipment{}, err
	}

	item := models.Equipment{
		Category:   cat.Key,
		Subtype:    f.Subtype,
		Brand:      strings.TrimSpace(f.Brand),
		Model:      strings.TrimSpace(f.Model),
		Cost:       f.Cost,
		Status:     models.EquipmentStatus(f.Status),
		Notes:      f.Notes,
		IsEquipped: f.IsEquipped,
		Weapon:     models.Weapon(f.Weapon),
	}
	if f.PurchaseDate != "" {
		d, _ := models.ParseDate(f.PurchaseDate)
		item.PurchaseDate = &d
	}
	return item, nil
}

// ReminderForm is a candidate maintenance reminder.
type ReminderForm struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// ValidateReminder checks f and returns the reminder it describes, without
// identifiers.
func ValidateReminder(f ReminderForm) (models.MaintenanceReminder, error) {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Type, validation.Required, validation.RuneLength(1, 50)),
		validation.Field(&f.Description, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&f.DueDate, validation.Required, validation.By(optionalDate)),
	)
	if err := apperr.FromValidation(err, "type", "description", "dueDate"); err != nil {
		return models.MaintenanceReminder{}, err
	}
	due, _ := models.ParseDate(f.DueDate)
	return models.MaintenanceReminder{
		Type:        f.Type,
		Description: f.Description,
		DueDate:     due,
	}, nil
}

var (
	statusValues = []any{
		string(models.StatusActive), string(models.StatusRepair), string(models.StatusRetired),
	}
	weaponValues = []any{
		string(models.WeaponFoil), string(models.WeaponEpee), string(models.WeaponSabre),
	}
)

func optionalDate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := models.ParseDate(s); err != nil {
		return errors.New("must be a valid date")
	}
	return nil
}
