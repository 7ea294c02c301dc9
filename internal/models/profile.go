package models

import "time"

// Profile holds the fencer's personal details.
type Profile struct {
	Name          string    `json:"name" yaml:"name"`
	Email         string    `json:"email,omitempty" yaml:"email,omitempty"`
	WeaponPrimary Weapon    `json:"weaponPrimary" yaml:"weapon_primary"`
	Division      string    `json:"division,omitempty" yaml:"division,omitempty"`
	Club          string    `json:"club,omitempty" yaml:"club,omitempty"`
	Coach         string    `json:"coach,omitempty" yaml:"coach,omitempty"`
	CreatedAt     time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" yaml:"updated_at"`
}

// Snapshot is the full data set, used for seeding, import and export.
type Snapshot struct {
	Profile   *Profile    `json:"profile,omitempty" yaml:"profile,omitempty"`
	Equipment []Equipment `json:"equipment" yaml:"equipment"`
	Bouts     []Bout      `json:"bouts" yaml:"bouts"`
}
