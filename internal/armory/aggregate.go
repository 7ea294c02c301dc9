package armory

import "github.com/starford/balestra/internal/models"

// DisplayState is the derived summary of one category.
type DisplayState struct {
	Category         models.EquipmentCategory `json:"category"`
	Items            []models.Equipment       `json:"items"`
	EquippedItem     *models.Equipment        `json:"equippedItem,omitempty"`
	IsEmpty          bool                     `json:"isEmpty"`
	NeedsMaintenance int                      `json:"needsMaintenance"`
}

// DisplayStates returns one state per catalog category, in catalog order.
//
// Items keep their relative input order within a category. Items whose
// category is not in the catalog are dropped. When several items of one
// category are marked equipped, the first one wins.
func DisplayStates(c Catalog, items []models.Equipment) []DisplayState {
	byKey := make(map[models.CategoryKey][]models.Equipment, c.Len())
	for _, item := range items {
		if _, ok := c.index[item.Category]; !ok {
			continue
		}
		byKey[item.Category] = append(byKey[item.Category], item)
	}

	out := make([]DisplayState, 0, c.Len())
	for _, cat := range c.entries {
		group := byKey[cat.Key]
		if group == nil {
			group = []models.Equipment{}
		}
		state := DisplayState{
			Category: clone(cat),
			Items:    group,
			IsEmpty:  len(group) == 0,
		}
		for i := range group {
			if group[i].IsEquipped && state.EquippedItem == nil {
				state.EquippedItem = &group[i]
			}
			if group[i].HasOpenReminder() {
				state.NeedsMaintenance++
			}
		}
		out = append(out, state)
	}
	return out
}
