package server

import (
	"time"

	"petsim/internal/machine"
	"petsim/internal/pet"
)

// View is the read-only query surface of one pet.
type View struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Personality pet.Personality `json:"personality"`
	Stage       pet.Stage       `json:"stage"`
	AgeHours    float64         `json:"age_hours"`
	Activity    pet.Activity    `json:"activity"`

	Hunger    float64 `json:"hunger"`
	Happiness float64 `json:"happiness"`
	Energy    float64 `json:"energy"`
	Health    float64 `json:"health"`
	MessCount int     `json:"mess_count"`
	Sick      bool    `json:"sick"`
	IsDead    bool    `json:"is_dead"`

	BusyMs     int64                `json:"busy_ms"`
	CooldownMs map[pet.Action]int64 `json:"cooldown_ms"`

	Status string     `json:"status"`
	Needs  []pet.Need `json:"needs"`

	LastStageUpAt    *time.Time `json:"last_stage_up_at,omitempty"`
	LastStageUpStage pet.Stage  `json:"last_stage_up_stage,omitempty"`
}

// NewView renders s as seen at now.
func NewView(s pet.State, now time.Time) View {
	cooldowns := make(map[pet.Action]int64, len(pet.Actions))
	for _, a := range pet.Actions {
		cooldowns[a] = machine.RemainingCooldown(s, a, now).Milliseconds()
	}
	needs := pet.Needs(s)
	if needs == nil {
		needs = []pet.Need{}
	}
	return View{
		ID:               s.ID,
		Name:             s.Name,
		Personality:      s.Personality,
		Stage:            s.Stage,
		AgeHours:         s.AgeHours,
		Activity:         s.PetState,
		Hunger:           s.Hunger,
		Happiness:        s.Happiness,
		Energy:           s.Energy,
		Health:           s.Health,
		MessCount:        s.MessCount,
		Sick:             s.Sick,
		IsDead:           s.IsDead,
		BusyMs:           machine.RemainingBusy(s, now).Milliseconds(),
		CooldownMs:       cooldowns,
		Status:           pet.GetStatusWithLabel(s),
		Needs:            needs,
		LastStageUpAt:    s.LastStageUpAt,
		LastStageUpStage: s.LastStageUpStage,
	}
}

// Summary is one line of the roster listing.
type Summary struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Stage    pet.Stage `json:"stage"`
	IsDead   bool      `json:"is_dead"`
	Selected bool      `json:"selected"`
}
