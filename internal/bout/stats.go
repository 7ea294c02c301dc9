package bout

import (
	"slices"
	"strings"

	"github.com/starford/balestra/internal/models"
)

// Record is a win/loss tally.
type Record struct {
	Bouts   int     `json:"bouts"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"winRate"`
}

func (r *Record) add(b models.Bout) {
	r.Bouts++
	if b.Won {
		r.Wins++
	} else {
		r.Losses++
	}
	r.WinRate = float64(r.Wins) / float64(r.Bouts)
}

// WeaponRecord is the tally for one weapon.
type WeaponRecord struct {
	Weapon models.Weapon `json:"weapon"`
	Record
}

// TypeRecord is the tally for one session type.
type TypeRecord struct {
	Type models.BoutType `json:"type"`
	Record
}

// Stats summarizes a set of bouts.
type Stats struct {
	Record
	TouchesScored   int            `json:"touchesScored"`
	TouchesReceived int            `json:"touchesReceived"`
	Indicator       int            `json:"indicator"`
	CurrentStreak   int            `json:"currentStreak"`
	ByWeapon        []WeaponRecord `json:"byWeapon"`
	ByType          []TypeRecord   `json:"byType"`
}

// Summarize tallies bouts. The win rate is a fraction in [0, 1] and is zero
// when there are no bouts. CurrentStreak is positive for consecutive wins and
// negative for consecutive losses, counted back from the most recent bout.
// Weapons and types without bouts are omitted from the breakdowns.
func Summarize(bouts []models.Bout) Stats {
	var s Stats
	weapons := make(map[models.Weapon]*Record)
	types := make(map[models.BoutType]*Record)
	for _, b := range bouts {
		s.add(b)
		s.TouchesScored += b.UserScore
		s.TouchesReceived += b.OpponentScore
		if weapons[b.Weapon] == nil {
			weapons[b.Weapon] = &Record{}
		}
		weapons[b.Weapon].add(b)
		if types[b.Type] == nil {
			types[b.Type] = &Record{}
		}
		types[b.Type].add(b)
	}
	s.Indicator = s.TouchesScored - s.TouchesReceived

	s.ByWeapon = []WeaponRecord{}
	for _, w := range models.Weapons {
		if r, ok := weapons[w]; ok {
			s.ByWeapon = append(s.ByWeapon, WeaponRecord{Weapon: w, Record: *r})
		}
	}
	s.ByType = []TypeRecord{}
	for _, t := range models.BoutTypes {
		if r, ok := types[t]; ok {
			s.ByType = append(s.ByType, TypeRecord{Type: t, Record: *r})
		}
	}

	recent := Newest(bouts)
	for i, b := range recent {
		if i > 0 && b.Won != recent[0].Won {
			break
		}
		if b.Won {
			s.CurrentStreak++
		} else {
			s.CurrentStreak--
		}
	}
	return s
}

// Query narrows a bout listing. Zero fields match everything.
type Query struct {
	Weapon models.Weapon
	Type   models.BoutType
	Search string
}

// Filter returns the bouts matching q, newest first. Search matches the
// opponent name or nickname, tournament or location, ignoring case.
func Filter(bouts []models.Bout, q Query) []models.Bout {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]models.Bout, 0, len(bouts))
	for _, b := range bouts {
		if q.Weapon != "" && b.Weapon != q.Weapon {
			continue
		}
		if q.Type != "" && b.Type != q.Type {
			continue
		}
		if search != "" && !matches(b, search) {
			continue
		}
		out = append(out, b)
	}
	sortNewest(out)
	return out
}

// Newest returns a copy of bouts ordered by date, most recent first. Bouts on
// the same date keep the order they were recorded in, latest first.
func Newest(bouts []models.Bout) []models.Bout {
	out := slices.Clone(bouts)
	sortNewest(out)
	return out
}

func sortNewest(bouts []models.Bout) {
	slices.SortStableFunc(bouts, func(a, b models.Bout) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func matches(b models.Bout, q string) bool {
	for _, field := range []string{b.OpponentName, b.OpponentNickname, b.TournamentName, b.Location} {
		if field != "" && strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}
