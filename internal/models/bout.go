package models

import "time"

// BoutType is the session a bout was fenced in.
type BoutType string

const (
	BoutPractice    BoutType = "practice"
	BoutLesson      BoutType = "lesson"
	BoutTournament  BoutType = "tournament"
	BoutOpenBouting BoutType = "open-bouting"
)

// BoutTypes lists every bout type in display order.
var BoutTypes = []BoutType{BoutPractice, BoutLesson, BoutTournament, BoutOpenBouting}

func (t BoutType) String() string { return string(t) }

func (t BoutType) IsValid() bool {
	switch t {
	case BoutPractice, BoutLesson, BoutTournament, BoutOpenBouting:
		return true
	}
	return false
}

// BoutInput is a validated bout submission.
type BoutInput struct {
	OpponentName     string    `json:"opponentName"`
	OpponentNickname string    `json:"opponentNickname,omitempty"`
	OpponentWeapon   Weapon    `json:"opponentWeapon,omitempty"`
	OpponentRanking  string    `json:"opponentRanking,omitempty"`
	OpponentDivision string    `json:"opponentDivision,omitempty"`
	Date             time.Time `json:"date"`
	Location         string    `json:"location,omitempty"`
	TournamentName   string    `json:"tournamentName,omitempty"`
	Weapon           Weapon    `json:"weapon"`
	UserScore        int       `json:"userScore"`
	OpponentScore    int       `json:"opponentScore"`
	Notes            string    `json:"notes,omitempty"`
	Type             BoutType  `json:"type"`
	EquipmentUsed    string    `json:"equipmentUsed,omitempty"`
}

// Bout is a recorded bout result.
type Bout struct {
	ID               string    `json:"id" yaml:"id"`
	OpponentName     string    `json:"opponentName" yaml:"opponent_name"`
	OpponentNickname string    `json:"opponentNickname,omitempty" yaml:"opponent_nickname,omitempty"`
	OpponentWeapon   Weapon    `json:"opponentWeapon,omitempty" yaml:"opponent_weapon,omitempty"`
	OpponentRanking  string    `json:"opponentRanking,omitempty" yaml:"opponent_ranking,omitempty"`
	OpponentDivision string    `json:"opponentDivision,omitempty" yaml:"opponent_division,omitempty"`
	Date             time.Time `json:"date" yaml:"date"`
	Location         string    `json:"location,omitempty" yaml:"location,omitempty"`
	TournamentName   string    `json:"tournamentName,omitempty" yaml:"tournament_name,omitempty"`
	Weapon           Weapon    `json:"weapon" yaml:"weapon"`
	UserScore        int       `json:"userScore" yaml:"user_score"`
	OpponentScore    int       `json:"opponentScore" yaml:"opponent_score"`
	Won              bool      `json:"won" yaml:"won"`
	Notes            string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	Type             BoutType  `json:"type" yaml:"type"`
	EquipmentUsed    string    `json:"equipmentUsed,omitempty" yaml:"equipment_used,omitempty"`
	CreatedAt        time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" yaml:"updated_at"`
}

// NewBout builds a Bout from validated input. The win flag is derived from
// the scores.
func NewBout(id string, in BoutInput, now time.Time) Bout {
	return Bout{
		ID:               id,
		OpponentName:     in.OpponentName,
		OpponentNickname: in.OpponentNickname,
		OpponentWeapon:   in.OpponentWeapon,
		OpponentRanking:  in.OpponentRanking,
		OpponentDivision: in.OpponentDivision,
		Date:             in.Date,
		Location:         in.Location,
		TournamentName:   in.TournamentName,
		Weapon:           in.Weapon,
		UserScore:        in.UserScore,
		OpponentScore:    in.OpponentScore,
		Won:              in.UserScore > in.OpponentScore,
		Notes:            in.Notes,
		Type:             in.Type,
		EquipmentUsed:    in.EquipmentUsed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
