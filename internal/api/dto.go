package api

import (
	"github.com/starford/balestra/internal/armory"
	"github.com/starford/balestra/internal/bout"
	"github.com/starford/balestra/internal/models"
	"github.com/starford/balestra/internal/profile"
	"github.com/starford/balestra/internal/service"
)

// EquipmentRequest is the request body for creating or updating an item.
type EquipmentRequest = armory.EquipmentForm

// ReminderRequest is the request body for adding a maintenance reminder.
type ReminderRequest = armory.ReminderForm

// BoutRequest is the request body for recording a bout.
type BoutRequest = bout.Form

// ProfileRequest is the request body for saving the profile.
type ProfileRequest = profile.Form

// EquipRequest toggles an item's equipped flag. A missing field means equip.
type EquipRequest struct {
	IsEquipped *bool `json:"isEquipped" example:"true"`
}

// ArmoryResponse is the armory page (aliased from the service layer).
type ArmoryResponse = service.ArmoryView

// EquipmentListResponse wraps the equipment listing.
type EquipmentListResponse struct {
	Equipment []models.Equipment `json:"equipment" validate:"required"`
	Total     int                `json:"total" example:"12" validate:"required"`
}

// BoutListResponse wraps the bout listing.
type BoutListResponse struct {
	Bouts []models.Bout `json:"bouts" validate:"required"`
	Total int           `json:"total" example:"5" validate:"required"`
}

// CatalogResponse lists the equipment categories in display order.
type CatalogResponse struct {
	Categories []models.EquipmentCategory `json:"categories" validate:"required"`
}
