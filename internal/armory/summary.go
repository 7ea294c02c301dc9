package armory

import "github.com/starford/balestra/internal/models"

// Summary holds the headline numbers of the armory page.
type Summary struct {
	TotalItems       int     `json:"totalItems"`
	EquippedItems    int     `json:"equippedItems"`
	MaintenanceItems int     `json:"maintenanceItems"`
	TotalValue       float64 `json:"totalValue"`
	Categories       int     `json:"categories"`
}

// Summarize computes the totals over items. Categories counts the catalog
// categories holding at least one item.
func Summarize(c Catalog, items []models.Equipment) Summary {
	var s Summary
	used := make(map[models.CategoryKey]struct{})
	for _, item := range items {
		s.TotalItems++
		if item.IsEquipped {
			s.EquippedItems++
		}
		if item.HasOpenReminder() {
			s.MaintenanceItems++
		}
		if item.Cost != nil {
			s.TotalValue += *item.Cost
		}
		if _, ok := c.index[item.Category]; ok {
			used[item.Category] = struct{}{}
		}
	}
	s.Categories = len(used)
	return s
}
