package machine

import (
	"log"
	"time"

	"petsim/internal/pet"
)

// Event is anything the machine can be asked to handle.
type Event string

const (
	EventFeed  Event = Event(pet.ActionFeed)
	EventPlay  Event = Event(pet.ActionPlay)
	EventSleep Event = Event(pet.ActionSleep)
	EventClean Event = Event(pet.ActionClean)
	EventHeal  Event = Event(pet.ActionHeal)
	EventScold Event = Event(pet.ActionScold)
	EventDie   Event = "die"
	EventTick  Event = "tick"
)

// EffectKind classifies what a dispatched event did.
type EffectKind string

const (
	EffectApplied  EffectKind = "applied"
	EffectRejected EffectKind = "rejected"
	EffectStageUp  EffectKind = "stage_up"
	EffectDied     EffectKind = "died"
)

// Rejection reasons
const (
	ReasonDead     = "dead"
	ReasonBusy     = "busy"
	ReasonCooldown = "cooldown"
	ReasonUnknown  = "unknown event"
)

// Effect is a side note emitted by Dispatch for observers. Callers never need
// to inspect it to keep the pet correct.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	PetID  string     `json:"pet_id"`
	Event  Event      `json:"event"`
	Stage  pet.Stage  `json:"stage,omitempty"`
	Factor float64    `json:"factor,omitempty"`
	Reason string     `json:"reason,omitempty"`
	At     time.Time  `json:"at"`
}

// ActionSpec is one row of the action table.
type ActionSpec struct {
	Activity  pet.Activity
	Hunger    float64
	Happiness float64
	Energy    float64
	Health    float64
	Busy      time.Duration
	Cooldown  time.Duration
	Undamped  bool
}

var actionSpecs = map[pet.Action]ActionSpec{
	pet.ActionFeed: {
		Activity: pet.ActivityFeeding,
		Hunger:   18, Happiness: 2,
		Busy: 8 * time.Second, Cooldown: 60 * time.Second,
	},
	pet.ActionPlay: {
		Activity: pet.ActivityPlaying,
		Hunger:   -5, Happiness: 15, Energy: -10,
		Busy: 10 * time.Second, Cooldown: 90 * time.Second,
	},
	pet.ActionSleep: {
		Activity: pet.ActivitySleeping,
		Energy:   25,
		Busy:     12 * time.Second, Cooldown: 120 * time.Second,
	},
	pet.ActionClean: {
		Activity:  pet.ActivityCleaning,
		Happiness: 5, Health: 2,
		Busy: 6 * time.Second, Cooldown: 45 * time.Second,
	},
	pet.ActionHeal: {
		Activity:  pet.ActivityHealing,
		Happiness: -3, Health: 25,
		Busy: 10 * time.Second, Cooldown: 180 * time.Second,
	},
	pet.ActionScold: {
		Activity:  pet.ActivityScolded,
		Happiness: -12, Health: -10,
		Busy: 5 * time.Second, Cooldown: 45 * time.Second,
		Undamped: true,
	},
}

// SpecFor returns the table row for a.
func SpecFor(a pet.Action) (ActionSpec, bool) {
	spec, ok := actionSpecs[a]
	return spec, ok
}

// DampingFactor returns the reward multiplier after n recent uses of the same action.
func DampingFactor(n int) float64 {
	if n < 0 {
		n = 0
	}
	if n >= len(pet.DampingFactors) {
		n = len(pet.DampingFactors) - 1
	}
	return pet.DampingFactors[n]
}

// CanPerform reports whether a would be accepted at now.
func CanPerform(s pet.State, a pet.Action, now time.Time) bool {
	return rejection(s, a, now) == ""
}

func rejection(s pet.State, a pet.Action, now time.Time) string {
	if _, ok := actionSpecs[a]; !ok {
		return ReasonUnknown
	}
	if s.IsDead {
		return ReasonDead
	}
	if now.Before(s.BusyUntil) {
		return ReasonBusy
	}
	if until, ok := s.Cooldowns[a]; ok && now.Before(until) {
		return ReasonCooldown
	}
	return ""
}

// RemainingBusy returns how long the pet stays busy after now.
func RemainingBusy(s pet.State, now time.Time) time.Duration {
	if s.IsDead || !s.BusyUntil.After(now) {
		return 0
	}
	return s.BusyUntil.Sub(now)
}

// RemainingCooldown returns how long until a can be used again.
func RemainingCooldown(s pet.State, a pet.Action, now time.Time) time.Duration {
	until, ok := s.Cooldowns[a]
	if !ok || !until.After(now) {
		return 0
	}
	return until.Sub(now)
}

// Dispatch is the transition function. It never fails: an event the guard
// rejects returns s untouched together with an EffectRejected.
func Dispatch(s pet.State, ev Event, now time.Time) (pet.State, []Effect) {
	switch ev {
	case EventTick:
		return tick(s, now)
	case EventDie:
		return die(s, now)
	default:
		return perform(s, pet.Action(ev), now)
	}
}

// CatchUp runs the decay engine from LastUpdated to now. A busy window that ends
// inside the span splits it, so the busy activity only shapes its own window,
// and the pet settles back to idle afterwards.
func CatchUp(s pet.State, now time.Time) pet.State {
	if s.IsDead {
		return s
	}
	before := s.Stage

	if s.PetState.Busy() && !s.BusyUntil.After(s.LastUpdated) {
		s.PetState = pet.ActivityIdle
	}
	if s.PetState.Busy() && s.BusyUntil.Before(now) {
		s = pet.Advance(s, s.BusyUntil.Sub(s.LastUpdated))
		if !s.IsDead {
			s.PetState = pet.ActivityIdle
		}
	}
	s = pet.Advance(s, now.Sub(s.LastUpdated))

	if s.IsDead {
		return s
	}
	if s.PetState.Busy() && !s.BusyUntil.After(now) {
		s.PetState = pet.ActivityIdle
	}
	if s.Stage != before {
		at := s.LastUpdated
		s.LastStageUpAt = &at
		s.LastStageUpStage = s.Stage
		log.Printf("Pet %s grew into a %s", s.Name, s.Stage)
	}
	return s
}

func tick(s pet.State, now time.Time) (pet.State, []Effect) {
	if s.IsDead {
		return s, nil
	}
	next := CatchUp(s, now)

	var effects []Effect
	if next.Stage != s.Stage && next.LastStageUpStage == next.Stage && !next.IsDead {
		effects = append(effects, Effect{Kind: EffectStageUp, PetID: s.ID, Event: EventTick, Stage: next.Stage, At: next.LastUpdated})
	}
	if next.IsDead {
		effects = append(effects, Effect{Kind: EffectDied, PetID: s.ID, Event: EventTick, At: *next.DeadAt})
	}
	return next, effects
}

func die(s pet.State, now time.Time) (pet.State, []Effect) {
	if s.IsDead {
		return s, nil
	}
	next, effects := tick(s, now)
	if next.IsDead {
		return next, effects
	}
	next = next.Kill(now)
	return next, append(effects, Effect{Kind: EffectDied, PetID: s.ID, Event: EventDie, At: now})
}

func perform(s pet.State, a pet.Action, now time.Time) (pet.State, []Effect) {
	ev := Event(a)
	if reason := rejection(s, a, now); reason != "" {
		log.Printf("Ignored %s for pet %s: %s", a, s.Name, reason)
		return s, []Effect{{Kind: EffectRejected, PetID: s.ID, Event: ev, Reason: reason, At: now}}
	}

	next, effects := tick(s, now)
	if next.IsDead {
		return next, effects
	}

	spec := actionSpecs[a]
	factor := 1.0
	if !spec.Undamped {
		factor = DampingFactor(next.RecentCount(a, now, pet.DampingWindow))
	}
	next.Hunger += damp(spec.Hunger, factor)
	next.Happiness += damp(spec.Happiness, factor)
	next.Energy += damp(spec.Energy, factor)
	next.Health += damp(spec.Health, factor)

	switch a {
	case pet.ActionClean:
		next.MessCount = 0
	case pet.ActionHeal:
		next.Sick = false
	}

	next = next.ClampVitals()
	next.BusyUntil = now.Add(spec.Busy)
	next = next.WithCooldown(a, now.Add(spec.Cooldown))
	next = next.RecordAction(a, now)
	next.LastInteractionAt = now
	next.PetState = spec.Activity

	log.Printf("Pet %s: %s (x%.1f) hunger=%.1f happiness=%.1f energy=%.1f health=%.1f",
		next.Name, a, factor, next.Hunger, next.Happiness, next.Energy, next.Health)
	effects = append(effects, Effect{Kind: EffectApplied, PetID: s.ID, Event: ev, Factor: factor, At: now})

	if next.Health <= pet.MinStat {
		next = next.Kill(now)
		effects = append(effects, Effect{Kind: EffectDied, PetID: s.ID, Event: ev, At: now})
	}
	return next, effects
}

// damp scales rewards only. Penalties always land in full.
func damp(delta, factor float64) float64 {
	if delta > 0 {
		return delta * factor
	}
	return delta
}
