package pet

import "strings"

// GetStatus returns the status emoji(s) for the pet
func GetStatus(p State) string {
	if p.IsDead {
		return StatusEmojiDead
	}

	// Icon 1: Activity (what pet is DOING)
	activity := StatusEmojiHappy
	if p.PetState == ActivitySleeping {
		activity = StatusEmojiSleeping
	}

	// Icon 2: Feeling (most critical need)
	lowestStat := p.Health
	lowestFeeling := StatusEmojiSick

	if p.Energy < lowestStat {
		lowestStat = p.Energy
		lowestFeeling = StatusEmojiTired
	}
	if p.Hunger < lowestStat {
		lowestStat = p.Hunger
		lowestFeeling = StatusEmojiHungry
	}
	if p.Happiness < lowestStat {
		lowestStat = p.Happiness
		lowestFeeling = StatusEmojiSad
	}

	switch {
	case p.Sick:
		return activity + StatusEmojiSick
	case lowestStat < 30:
		return activity + lowestFeeling
	case p.MessCount > 0:
		return activity + StatusEmojiDirty
	}
	return activity
}

// GetStatusWithLabel returns status with text labels for the UI
func GetStatusWithLabel(p State) string {
	if p.IsDead {
		return StatusEmojiDead + " Dead"
	}

	status := GetStatus(p)

	switch {
	case strings.Contains(status, StatusEmojiSleeping):
		return status + " Sleeping"
	case strings.Contains(status, StatusEmojiSick):
		return status + " Sick"
	case strings.Contains(status, StatusEmojiHungry):
		return status + " Hungry"
	case strings.Contains(status, StatusEmojiTired):
		return status + " Tired"
	case strings.Contains(status, StatusEmojiSad):
		return status + " Sad"
	case strings.Contains(status, StatusEmojiDirty):
		return status + " Needs cleaning"
	default:
		return status + " Happy"
	}
}

// Need is an advisory signal for observers. The engine never acts on it.
type Need string

const (
	NeedHungry     Need = "hungry"
	NeedTired      Need = "tired"
	NeedSad        Need = "sad"
	NeedSick       Need = "sick"
	NeedDirty      Need = "dirty"
	NeedDistressed Need = "distressed"
)

// Advisory thresholds
const (
	WantHungerThreshold    = 40.0
	WantEnergyThreshold    = 30.0
	WantHappyThreshold     = 40.0
	DistressStatThreshold  = 10.0
	DistressHealthBoundary = 25.0
)

// Needs lists what the pet currently wants, most basic first.
func Needs(p State) []Need {
	if p.IsDead {
		return nil
	}

	var needs []Need
	if p.Hunger < WantHungerThreshold {
		needs = append(needs, NeedHungry)
	}
	if p.Energy < WantEnergyThreshold && p.PetState != ActivitySleeping {
		needs = append(needs, NeedTired)
	}
	if p.Happiness < WantHappyThreshold {
		needs = append(needs, NeedSad)
	}
	if p.Sick {
		needs = append(needs, NeedSick)
	}
	if p.MessCount > 0 {
		needs = append(needs, NeedDirty)
	}
	if p.Health < DistressHealthBoundary || p.Hunger < DistressStatThreshold || p.Energy < DistressStatThreshold {
		needs = append(needs, NeedDistressed)
	}
	return needs
}
