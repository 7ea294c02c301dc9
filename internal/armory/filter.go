package armory

import (
	"strings"

	"github.com/starford/balestra/internal/models"
)

// FilterMode narrows the armory view.
type FilterMode string

const (
	FilterAll         FilterMode = "all"
	FilterEquipped    FilterMode = "equipped"
	FilterMaintenance FilterMode = "maintenance"
)

func (m FilterMode) IsValid() bool {
	switch m {
	case FilterAll, FilterEquipped, FilterMaintenance:
		return true
	}
	return false
}

// Filter keeps the states matching query and mode.
//
// A non-empty query matches, case-insensitively, the category name or the
// brand, model or subtype of any item in the category. An empty mode is
// treated as FilterAll.
func Filter(states []DisplayState, query string, mode FilterMode) []DisplayState {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]DisplayState, 0, len(states))
	for _, s := range states {
		if q != "" && !matches(s, q) {
			continue
		}
		if mode == FilterEquipped && s.EquippedItem == nil {
			continue
		}
		if mode == FilterMaintenance && s.NeedsMaintenance == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matches(s DisplayState, q string) bool {
	if strings.Contains(strings.ToLower(s.Category.Name), q) {
		return true
	}
	for _, item := range s.Items {
		if itemMatches(item, q) {
			return true
		}
	}
	return false
}

func itemMatches(item models.Equipment, q string) bool {
	for _, field := range []string{item.Brand, item.Model, item.Subtype} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
