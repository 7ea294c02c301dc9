// Package armory groups equipment by category and derives the per-category
// display state shown on the armory dashboard.
package armory

import (
	"slices"

	"github.com/starford/balestra/internal/models"
)

// Catalog is the fixed, ordered set of equipment categories. The order of
// entries is the display order.
type Catalog struct {
	entries []models.EquipmentCategory
	index   map[models.CategoryKey]int
}

// NewCatalog builds a catalog from entries in display order. Later entries
// with a duplicate key are ignored.
func NewCatalog(entries ...models.EquipmentCategory) Catalog {
	c := Catalog{index: make(map[models.CategoryKey]int, len(entries))}
	for _, e := range entries {
		if _, dup := c.index[e.Key]; dup {
			continue
		}
		c.index[e.Key] = len(c.entries)
		c.entries = append(c.entries, clone(e))
	}
	return c
}

// Len returns the number of categories.
func (c Catalog) Len() int { return len(c.entries) }

// Categories returns a copy of the entries in display order.
func (c Catalog) Categories() []models.EquipmentCategory {
	out := make([]models.EquipmentCategory, len(c.entries))
	for i, e := range c.entries {
		out[i] = clone(e)
	}
	return out
}

// Keys returns the category keys in display order.
func (c Catalog) Keys() []models.CategoryKey {
	out := make([]models.CategoryKey, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Key
	}
	return out
}

// Lookup returns the category for key.
func (c Catalog) Lookup(key models.CategoryKey) (models.EquipmentCategory, bool) {
	i, ok := c.index[key]
	if !ok {
		return models.EquipmentCategory{}, false
	}
	return clone(c.entries[i]), true
}

// clone copies e so that callers cannot reach the catalog's subtype lists.
func clone(e models.EquipmentCategory) models.EquipmentCategory {
	e.Subtypes = slices.Clone(e.Subtypes)
	return e
}

// DefaultCatalog returns the thirteen standard fencing equipment categories:
// the six primary categories followed by the seven auxiliary ones.
func DefaultCatalog() Catalog {
	return NewCatalog(
		models.EquipmentCategory{
			Key:            models.CategoryWeapon,
			Name:           "Weapon",
			Description:    "Foil, épée, or sabre blades and components",
			Icon:           models.IconSword,
			Subtypes:       []string{"blade", "guard", "grip", "pommel", "complete"},
			AllowMultiple:  true,
			WeaponSpecific: true,
			Tier:           models.TierPrimary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryMask,
			Name:          "Mask",
			Description:   "Protective head gear with mesh and bib",
			Icon:          models.IconShieldCheck,
			Subtypes:      []string{"standard", "overlay", "bib"},
			AllowMultiple: true,
			Tier:          models.TierPrimary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryJacket,
			Name:          "Jacket",
			Description:   "Protective upper body gear",
			Icon:          models.IconShirt,
			Subtypes:      []string{"standard", "350N", "800N"},
			AllowMultiple: true,
			Tier:          models.TierPrimary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryKnickers,
			Name:          "Knickers",
			Description:   "Protective leg wear",
			Icon:          models.IconTrousers,
			Subtypes:      []string{"standard", "350N", "800N"},
			AllowMultiple: true,
			Tier:          models.TierPrimary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryPlastron,
			Name:          "Plastron",
			Description:   "Under-arm protector worn beneath jacket",
			Icon:          models.IconShield,
			Subtypes:      []string{"under-arm", "half", "full"},
			AllowMultiple: true,
			Tier:          models.TierPrimary,
		},
		models.EquipmentCategory{
			Key:            models.CategoryBodyCord,
			Name:           "Body Cord",
			Description:    "Electrical connection for scoring",
			Icon:           models.IconCable,
			Subtypes:       []string{"weapon-cord", "mask-cord"},
			AllowMultiple:  true,
			WeaponSpecific: true,
			Tier:           models.TierPrimary,
		},
		models.EquipmentCategory{
			Key:            models.CategoryLame,
			Name:           "Lamé",
			Description:    "Conductive vest for foil and sabre",
			Icon:           models.IconZap,
			Subtypes:       []string{"jacket", "vest"},
			AllowMultiple:  true,
			WeaponSpecific: true,
			Tier:           models.TierAuxiliary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryGlove,
			Name:          "Glove",
			Description:   "Hand protection for weapon control",
			Icon:          models.IconHand,
			Subtypes:      []string{"weapon-hand", "off-hand"},
			AllowMultiple: true,
			Tier:          models.TierAuxiliary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryChestProtector,
			Name:          "Chest Protector",
			Description:   "Hard plastic chest protection",
			Icon:          models.IconHeart,
			Subtypes:      []string{"male", "female"},
			AllowMultiple: true,
			Tier:          models.TierAuxiliary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryShoes,
			Name:          "Shoes",
			Description:   "Specialized footwear for fencing",
			Icon:          models.IconFootprints,
			Subtypes:      []string{"court", "fencing-specific"},
			AllowMultiple: true,
			Tier:          models.TierAuxiliary,
		},
		models.EquipmentCategory{
			Key:           models.CategorySocks,
			Name:          "Socks",
			Description:   "Knee-high fencing socks",
			Icon:          models.IconSocks,
			Subtypes:      []string{"crew", "knee-high"},
			AllowMultiple: true,
			Tier:          models.TierAuxiliary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryBag,
			Name:          "Bag",
			Description:   "Equipment storage and transport",
			Icon:          models.IconBackpack,
			Subtypes:      []string{"weapon-bag", "gear-bag", "rolling-bag"},
			AllowMultiple: true,
			Tier:          models.TierAuxiliary,
		},
		models.EquipmentCategory{
			Key:           models.CategoryOther,
			Name:          "Other",
			Description:   "Miscellaneous equipment and tools",
			Icon:          models.IconPackage,
			Subtypes:      []string{"tool", "accessory", "maintenance"},
			AllowMultiple: true,
			Tier:          models.TierAuxiliary,
		},
	)
}
