package pet

import (
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Testable time, random and id functions
var (
	TimeNow     = func() time.Time { return time.Now().UTC() }
	RandFloat64 = rand.Float64
	NewID       = uuid.NewString
)

// DNA is the cosmetic genome. It is drawn once at birth and never changes.
type DNA struct {
	Hue       float64 `json:"hue"`
	Eyes      int     `json:"eyes"`
	Mouth     int     `json:"mouth"`
	Accessory int     `json:"accessory"`
	Markings  int     `json:"markings"`
}

// DNA index ranges (exclusive upper bounds)
const (
	DNAHueRange       = 360.0
	DNAEyeVariants    = 6
	DNAMouthVariants  = 6
	DNAAccessories    = 8
	DNAMarkingPattern = 5
)

// State is one pet's full record.
type State struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	DNA         DNA         `json:"dna"`
	Personality Personality `json:"personality"`
	CreatedAt   time.Time   `json:"created_at"`

	Hunger    float64 `json:"hunger"`
	Happiness float64 `json:"happiness"`
	Energy    float64 `json:"energy"`
	Health    float64 `json:"health"`

	LastUpdated       time.Time `json:"last_updated"`
	LastInteractionAt time.Time `json:"last_interaction_at"`
	AgeHours          float64   `json:"age_hours"`

	Sick   bool       `json:"sick"`
	IsDead bool       `json:"is_dead"`
	DeadAt *time.Time `json:"dead_at,omitempty"`
	Stage  Stage      `json:"stage"`

	PetState         Activity               `json:"pet_state"`
	BusyUntil        time.Time              `json:"busy_until"`
	Cooldowns        map[Action]time.Time   `json:"cooldowns,omitempty"`
	RecentActions    map[Action][]time.Time `json:"recent_actions,omitempty"`
	LastStageUpAt    *time.Time             `json:"last_stage_up_at,omitempty"`
	LastStageUpStage Stage                  `json:"last_stage_up_stage,omitempty"`

	MessCount    int       `json:"mess_count"`
	LastPoopAt   time.Time `json:"last_poop_at"`
	MessProgress float64   `json:"mess_progress,omitempty"`
}

// Profile holds the per-personality decay multipliers.
type Profile struct {
	Hunger       float64
	Happiness    float64
	Energy       float64
	MessInterval float64
}

var profiles = map[Personality]Profile{
	PersonalityPlayful: {Hunger: 1.0, Happiness: 0.9, Energy: 1.3, MessInterval: 1.0},
	PersonalityLazy:    {Hunger: 0.9, Happiness: 1.0, Energy: 0.7, MessInterval: 1.25},
	PersonalityGlutton: {Hunger: 1.4, Happiness: 1.0, Energy: 1.0, MessInterval: 0.75},
	PersonalityGrumpy:  {Hunger: 1.0, Happiness: 1.3, Energy: 0.9, MessInterval: 1.0},
	PersonalityCurious: {Hunger: 1.1, Happiness: 0.8, Energy: 1.1, MessInterval: 1.0},
}

// Profile returns the decay multipliers for p. Unknown personalities decay at base rate.
func (p Personality) Profile() Profile {
	if prof, ok := profiles[p]; ok {
		return prof
	}
	return Profile{Hunger: 1, Happiness: 1, Energy: 1, MessInterval: 1}
}

// Valid reports whether p is one of the five known personalities.
func (p Personality) Valid() bool {
	_, ok := profiles[p]
	return ok
}

// Busy reports whether a is one of the timed action states.
func (a Activity) Busy() bool {
	switch a {
	case ActivityFeeding, ActivityPlaying, ActivitySleeping,
		ActivityCleaning, ActivityHealing, ActivityScolded:
		return true
	}
	return false
}

// Valid reports whether a is a known activity.
func (a Activity) Valid() bool {
	return a == ActivityIdle || a == ActivityDead || a.Busy()
}

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	for _, known := range Actions {
		if a == known {
			return true
		}
	}
	return false
}

// StageForAge maps an age in hours to its growth stage.
func StageForAge(ageHours float64) Stage {
	switch {
	case ageHours < ChildAgeHours:
		return StageBaby
	case ageHours < TeenAgeHours:
		return StageChild
	case ageHours < AdultAgeHours:
		return StageTeen
	case ageHours < ElderAgeHours:
		return StageAdult
	default:
		return StageElder
	}
}

// NewPet creates a pet with random DNA and personality and baseline vitals
func NewPet(name string) State {
	now := TimeNow()
	if name == "" {
		name = DefaultPetName
	}
	p := State{
		ID:                NewID(),
		Name:              name,
		DNA:               RandomDNA(),
		Personality:       RandomPersonality(),
		CreatedAt:         now,
		Hunger:            BaselineHunger,
		Happiness:         BaselineHappiness,
		Energy:            BaselineEnergy,
		Health:            BaselineHealth,
		LastUpdated:       now,
		LastInteractionAt: now,
		Stage:             StageBaby,
		PetState:          ActivityIdle,
		LastPoopAt:        now,
	}
	log.Printf("Created new pet: %s (%s, %s)", p.Name, p.ID, p.Personality)
	return p
}

// RandomDNA draws a cosmetic genome
func RandomDNA() DNA {
	return DNA{
		Hue:       math.Floor(RandFloat64() * DNAHueRange),
		Eyes:      randIndex(DNAEyeVariants),
		Mouth:     randIndex(DNAMouthVariants),
		Accessory: randIndex(DNAAccessories),
		Markings:  randIndex(DNAMarkingPattern),
	}
}

// RandomPersonality picks one of the five personalities
func RandomPersonality() Personality {
	return Personalities[randIndex(len(Personalities))]
}

func randIndex(n int) int {
	i := int(RandFloat64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// RecentCount counts uses of a within window before now.
func (s State) RecentCount(a Action, now time.Time, window time.Duration) int {
	count := 0
	for _, at := range s.RecentActions[a] {
		if now.Sub(at) < window && !at.After(now) {
			count++
		}
	}
	return count
}

// RecordAction appends a use of a at now, dropping entries outside DampingWindow and
// keeping only as many as the damping table can distinguish.
func (s State) RecordAction(a Action, now time.Time) State {
	keep := len(DampingFactors) - 1
	recent := make(map[Action][]time.Time, len(s.RecentActions)+1)
	for action, times := range s.RecentActions {
		var kept []time.Time
		for _, at := range times {
			if now.Sub(at) < DampingWindow {
				kept = append(kept, at)
			}
		}
		if len(kept) > 0 {
			recent[action] = kept
		}
	}
	times := append(recent[a], now)
	if len(times) > keep {
		times = times[len(times)-keep:]
	}
	recent[a] = times
	s.RecentActions = recent
	return s
}

// WithCooldown returns s with a's cooldown set to until. The map is copied.
func (s State) WithCooldown(a Action, until time.Time) State {
	cooldowns := make(map[Action]time.Time, len(s.Cooldowns)+1)
	for k, v := range s.Cooldowns {
		cooldowns[k] = v
	}
	cooldowns[a] = until
	s.Cooldowns = cooldowns
	return s
}

// Clone returns s with its maps, slices and pointers copied.
func (s State) Clone() State {
	s.Cooldowns = copyCooldowns(s.Cooldowns)
	if s.RecentActions != nil {
		recent := make(map[Action][]time.Time, len(s.RecentActions))
		for a, times := range s.RecentActions {
			recent[a] = append([]time.Time(nil), times...)
		}
		s.RecentActions = recent
	}
	if s.DeadAt != nil {
		at := *s.DeadAt
		s.DeadAt = &at
	}
	if s.LastStageUpAt != nil {
		at := *s.LastStageUpAt
		s.LastStageUpAt = &at
	}
	return s
}

// Kill marks s dead at the given instant.
func (s State) Kill(at time.Time) State {
	if s.IsDead {
		return s
	}
	s.IsDead = true
	s.DeadAt = &at
	s.Health = MinStat
	s.PetState = ActivityDead
	log.Printf("Pet %s died at %s (age %.1fh)", s.Name, at.Format(time.RFC3339), s.AgeHours)
	return s
}

// ClampVitals forces all four vitals into [MinStat, MaxStat].
func (s State) ClampVitals() State {
	s.Hunger = clamp(s.Hunger)
	s.Happiness = clamp(s.Happiness)
	s.Energy = clamp(s.Energy)
	s.Health = clamp(s.Health)
	return s
}

// DeriveSick reports whether the vitals put the pet in the sick band.
func DeriveSick(s State) bool {
	return s.Health < SickHealthThreshold || s.Hunger < SickHungerThreshold || s.Energy < SickEnergyThreshold
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < MinStat {
		return MinStat
	}
	if v > MaxStat {
		return MaxStat
	}
	return v
}
