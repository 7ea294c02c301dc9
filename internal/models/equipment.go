// Package models defines the domain types for Balestra.
package models

import "time"

// Weapon is one of the three fencing disciplines.
type Weapon string

const (
	WeaponFoil  Weapon = "foil"
	WeaponEpee  Weapon = "epee"
	WeaponSabre Weapon = "sabre"
)

// Weapons lists every weapon in display order.
var Weapons = []Weapon{WeaponFoil, WeaponEpee, WeaponSabre}

func (w Weapon) String() string { return string(w) }

func (w Weapon) IsValid() bool {
	switch w {
	case WeaponFoil, WeaponEpee, WeaponSabre:
		return true
	}
	return false
}

// EquipmentStatus is the lifecycle state of an equipment item.
type EquipmentStatus string

const (
	StatusActive  EquipmentStatus = "active"
	StatusRepair  EquipmentStatus = "repair"
	StatusRetired EquipmentStatus = "retired"
)

func (s EquipmentStatus) String() string { return string(s) }

func (s EquipmentStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusRepair, StatusRetired:
		return true
	}
	return false
}

// CategoryKey identifies an equipment category.
type CategoryKey string

const (
	CategoryWeapon         CategoryKey = "weapon"
	CategoryMask           CategoryKey = "mask"
	CategoryJacket         CategoryKey = "jacket"
	CategoryKnickers       CategoryKey = "knickers"
	CategoryGlove          CategoryKey = "glove"
	CategoryPlastron       CategoryKey = "plastron"
	CategoryBodyCord       CategoryKey = "body-cord"
	CategoryShoes          CategoryKey = "shoes"
	CategoryBag            CategoryKey = "bag"
	CategoryLame           CategoryKey = "lame"
	CategoryChestProtector CategoryKey = "chest-protector"
	CategorySocks          CategoryKey = "socks"
	CategoryOther          CategoryKey = "other"
)

func (k CategoryKey) String() string { return string(k) }

// Tier controls how prominently a category is displayed.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierAuxiliary Tier = "auxiliary"
)

// Icon is the closed set of pictograms a category can be rendered with.
// The presentation layer maps each value to its own icon set.
type Icon string

const (
	IconSword       Icon = "sword"
	IconShieldCheck Icon = "shield-check"
	IconShirt       Icon = "shirt"
	IconTrousers    Icon = "trousers"
	IconHand        Icon = "hand"
	IconShield      Icon = "shield"
	IconCable       Icon = "cable"
	IconFootprints  Icon = "footprints"
	IconBackpack    Icon = "backpack"
	IconZap         Icon = "zap"
	IconHeart       Icon = "heart"
	IconSocks       Icon = "socks"
	IconPackage     Icon = "package"
)

// EquipmentCategory is a static catalog entry.
type EquipmentCategory struct {
	Key            CategoryKey `json:"key" yaml:"key"`
	Name           string      `json:"name" yaml:"name"`
	Description    string      `json:"description" yaml:"description"`
	Icon           Icon        `json:"icon" yaml:"icon"`
	Subtypes       []string    `json:"subtypes" yaml:"subtypes"`
	AllowMultiple  bool        `json:"allowMultiple" yaml:"allow_multiple"`
	WeaponSpecific bool        `json:"weaponSpecific" yaml:"weapon_specific"`
	Tier           Tier        `json:"tier" yaml:"tier"`
}

// AllowsSubtype reports whether subtype is one of the category's labels.
func (c EquipmentCategory) AllowsSubtype(subtype string) bool {
	for _, s := range c.Subtypes {
		if s == subtype {
			return true
		}
	}
	return false
}

// MaintenanceReminder is a dated, completable task attached to one item.
type MaintenanceReminder struct {
	ID          string    `json:"id" yaml:"id"`
	EquipmentID string    `json:"equipmentId" yaml:"-"`
	Type        string    `json:"type" yaml:"type"`
	Description string    `json:"description" yaml:"description"`
	DueDate     time.Time `json:"dueDate" yaml:"due_date"`
	Completed   bool      `json:"completed" yaml:"completed"`
}

// Equipment is a single item in the armory.
type Equipment struct {
	ID                   string                `json:"id" yaml:"id"`
	Category             CategoryKey           `json:"type" yaml:"type"`
	Subtype              string                `json:"subtype,omitempty" yaml:"subtype,omitempty"`
	Brand                string                `json:"brand,omitempty" yaml:"brand,omitempty"`
	Model                string                `json:"model,omitempty" yaml:"model,omitempty"`
	PurchaseDate         *time.Time            `json:"purchaseDate,omitempty" yaml:"purchase_date,omitempty"`
	Cost                 *float64              `json:"cost,omitempty" yaml:"cost,omitempty"`
	Status               EquipmentStatus       `json:"status" yaml:"status"`
	Notes                string                `json:"notes,omitempty" yaml:"notes,omitempty"`
	MaintenanceReminders []MaintenanceReminder `json:"maintenanceReminders" yaml:"maintenance_reminders,omitempty"`
	IsEquipped           bool                  `json:"isEquipped" yaml:"is_equipped"`
	Weapon               Weapon                `json:"weapon,omitempty" yaml:"weapon,omitempty"`
	CreatedAt            time.Time             `json:"createdAt" yaml:"created_at"`
	UpdatedAt            time.Time             `json:"updatedAt" yaml:"updated_at"`
}

// HasOpenReminder reports whether at least one reminder is not completed.
func (e Equipment) HasOpenReminder() bool {
	for _, r := range e.MaintenanceReminders {
		if !r.Completed {
			return true
		}
	}
	return false
}
