package pet

import (
	"log"
	"math"
	"strings"
	"time"
)

// Repair makes a stored or imported record safe to run: vitals clamped, missing fields
// defaulted, impossible timestamps regenerated. It never rejects a record.
func Repair(p State, now time.Time) State {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = NewID()
		log.Printf("Repaired pet with missing id, assigned %s", p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = DefaultPetName
	}
	if !p.Personality.Valid() {
		p.Personality = PersonalityPlayful
	}
	p.DNA = repairDNA(p.DNA)

	p.Hunger = repairVital(p.Hunger, BaselineHunger)
	p.Happiness = repairVital(p.Happiness, BaselineHappiness)
	p.Energy = repairVital(p.Energy, BaselineEnergy)
	p.Health = repairVital(p.Health, BaselineHealth)

	// A future LastUpdated is kept. It never moves backward, and Advance stays a
	// no-op until the clock catches up.
	if p.LastUpdated.IsZero() {
		p.LastUpdated = now
	}
	if p.CreatedAt.IsZero() || p.CreatedAt.After(p.LastUpdated) {
		p.CreatedAt = p.LastUpdated
	}
	if p.LastInteractionAt.IsZero() || p.LastInteractionAt.After(p.LastUpdated) {
		p.LastInteractionAt = p.LastUpdated
	}
	if p.LastPoopAt.IsZero() || p.LastPoopAt.After(p.LastUpdated) {
		p.LastPoopAt = p.LastUpdated
	}
	if math.IsNaN(p.AgeHours) || math.IsInf(p.AgeHours, 0) || p.AgeHours < 0 {
		p.AgeHours = 0
	}
	p.Stage = StageForAge(p.AgeHours)

	if p.MessCount < 0 {
		p.MessCount = 0
	}
	if p.MessCount > MaxMess {
		p.MessCount = MaxMess
	}
	if math.IsNaN(p.MessProgress) || p.MessProgress < 0 || p.MessProgress >= 1 {
		p.MessProgress = 0
	}

	if p.IsDead {
		p.PetState = ActivityDead
		if p.DeadAt == nil {
			at := p.LastUpdated
			p.DeadAt = &at
		}
	} else if !p.PetState.Valid() || p.PetState == ActivityDead {
		p.PetState = ActivityIdle
	}

	p.Cooldowns = copyCooldowns(p.Cooldowns)
	for a := range p.Cooldowns {
		if !a.Valid() {
			delete(p.Cooldowns, a)
		}
	}
	return p
}

// SanitizeImport repairs an externally supplied record and binds it to localID.
// The payload's own id is never trusted and any busy window is cleared.
func SanitizeImport(p State, localID string, now time.Time) State {
	p = Repair(p, now)
	p.ID = localID
	p.BusyUntil = time.Time{}
	if !p.IsDead {
		p.PetState = ActivityIdle
	}
	return p
}

func repairVital(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return clamp(v)
}

func repairDNA(d DNA) DNA {
	if math.IsNaN(d.Hue) || math.IsInf(d.Hue, 0) {
		d.Hue = 0
	}
	d.Hue = math.Mod(math.Abs(d.Hue), DNAHueRange)
	d.Eyes = wrapIndex(d.Eyes, DNAEyeVariants)
	d.Mouth = wrapIndex(d.Mouth, DNAMouthVariants)
	d.Accessory = wrapIndex(d.Accessory, DNAAccessories)
	d.Markings = wrapIndex(d.Markings, DNAMarkingPattern)
	return d
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func copyCooldowns(src map[Action]time.Time) map[Action]time.Time {
	if src == nil {
		return nil
	}
	out := make(map[Action]time.Time, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
