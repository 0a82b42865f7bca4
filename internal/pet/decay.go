package pet

import (
	"math"
	"time"
)

// Advance moves s forward by elapsed in a single closed-form step, so the same call
// serves a one-second UI tick and a multi-day offline catch-up. Dead pets and
// non-positive spans come back unchanged. The wall clock is never read.
func Advance(s State, elapsed time.Duration) State {
	if elapsed <= 0 || s.IsDead {
		return s
	}

	hours := elapsed.Hours()
	prof := s.Personality.Profile()
	neglect := neglectMultiplier(s.neglectHours(), hours)
	sleeping := s.PetState == ActivitySleeping

	hungerRate := HungerDecayPerHour * prof.Hunger * neglect
	if sleeping {
		hungerRate += SleepingHungerPerHour
	}
	hunger := s.Hunger - hungerRate*hours

	happinessRate := HappinessDecayPerHour * prof.Happiness
	if s.Sick {
		happinessRate *= SickHappinessMult
	}
	happiness := s.Happiness - happinessRate*hours

	// Energy slope is signed: recovery while asleep, decay otherwise
	var energySlope float64
	if sleeping {
		energySlope = SleepRecoveryPerHour * sleepGate(MaxStat-s.Energy)
	} else {
		energySlope = -EnergyDecayPerHour * prof.Energy
		if s.PetState == ActivityPlaying {
			energySlope *= PlayingEnergyMult
		}
	}
	energy := s.Energy + energySlope*hours

	low := lowStatHours(s.Hunger, -hungerRate, s.Energy, energySlope, hours)
	regen := HealthRegenPerHour
	if s.Happiness >= HappyRegenThreshold {
		regen = HappyHealthRegenPerHour
	}
	health := s.Health - low*LowStatHealthLossPerHour*neglect + (hours-low)*regen
	if s.Sick {
		health -= SickHealthLossPerHour * hours
	}

	if s.MessCount > 0 {
		messes := float64(s.MessCount)
		happiness -= MessHappinessPerHour * messes * hours
		health -= MessHealthPerHour * messes * hours
	}

	end := s.LastUpdated.Add(elapsed)
	interval := MessIntervalHours * prof.MessInterval
	consumed := math.Max(0, clamp(s.Hunger)-clamp(hunger))
	start := s.MessProgress
	s.MessProgress += consumed/HungerPerMess + hours/interval
	for created := 1; s.MessProgress >= 1 && s.MessCount < MaxMess; created++ {
		s.MessProgress--
		s.MessCount++
		at := math.Min(hours, messArrival(float64(created)-start, s.Hunger, hungerRate, interval))
		s.LastPoopAt = s.LastUpdated.Add(time.Duration(at * float64(time.Hour)))
		happiness -= MessHappinessPenalty + MessHappinessPerHour*(hours-at)
		health -= MessHealthPerHour * (hours - at)
	}
	if s.MessCount >= MaxMess {
		s.MessProgress = math.Mod(s.MessProgress, 1)
	}

	s.Hunger = hunger
	s.Happiness = happiness
	s.Energy = energy
	s.Health = health
	s = s.ClampVitals()
	s.Sick = DeriveSick(s)

	s.AgeHours += hours
	s.LastUpdated = end
	s.Stage = StageForAge(s.AgeHours)

	if s.Health <= MinStat {
		return s.Kill(end)
	}
	return s
}

// neglectHours is how long the pet had gone without an interaction at LastUpdated.
func (s State) neglectHours() float64 {
	since := s.LastInteractionAt
	if since.IsZero() {
		since = s.CreatedAt
	}
	if since.IsZero() {
		return 0
	}
	return math.Max(0, s.LastUpdated.Sub(since).Hours())
}

// neglectMultiplier averages the neglect ramp over [from, from+hours].
func neglectMultiplier(from, hours float64) float64 {
	if hours <= 0 {
		return neglectAt(from)
	}
	return (neglectIntegral(from+hours) - neglectIntegral(from)) / hours
}

func neglectAt(n float64) float64 {
	switch {
	case n <= NeglectGraceHours:
		return 1
	case n >= NeglectMaxHours:
		return MaxNeglectMult
	default:
		return 1 + (MaxNeglectMult-1)*(n-NeglectGraceHours)/(NeglectMaxHours-NeglectGraceHours)
	}
}

// neglectIntegral is the integral of neglectAt over [0, n].
func neglectIntegral(n float64) float64 {
	slope := (MaxNeglectMult - 1) / (NeglectMaxHours - NeglectGraceHours)
	switch {
	case n <= NeglectGraceHours:
		return n
	case n <= NeglectMaxHours:
		d := n - NeglectGraceHours
		return n + slope*d*d/2
	default:
		return neglectIntegral(NeglectMaxHours) + MaxNeglectMult*(n-NeglectMaxHours)
	}
}

// messArrival returns how many hours the accumulator takes to gain need units while
// hunger h falls at rate r. Digestion only counts while hunger is inside [0,100].
func messArrival(need, h, r, interval float64) float64 {
	base := 1 / interval
	from, to := 0.0, 0.0
	if r > 0 && h > MinStat {
		from = math.Max(0, (h-MaxStat)/r)
		to = h / r
	}
	if t := need / base; t <= from {
		return t
	}
	need -= from * base
	fast := base + r/HungerPerMess
	if t := need / fast; t <= to-from {
		return from + t
	}
	need -= (to - from) * fast
	return to + need/base
}

// sleepGate is the logistic factor that slows recovery as the energy deficit closes.
func sleepGate(deficit float64) float64 {
	return 1 / (1 + math.Exp(-(deficit-SleepLogisticMidpoint)/SleepLogisticSteepness))
}

// lowStatHours returns how much of the span hunger or energy spends under
// LowStatThreshold, following their linear trajectories.
func lowStatHours(hunger, hungerSlope, energy, energySlope, hours float64) float64 {
	a1, b1 := belowWindow(hunger, hungerSlope, hours)
	a2, b2 := belowWindow(energy, energySlope, hours)
	total := (b1 - a1) + (b2 - a2)
	if overlap := math.Min(b1, b2) - math.Max(a1, a2); overlap > 0 {
		total -= overlap
	}
	return total
}

// belowWindow returns the part of [0, hours] where v0+slope*t < LowStatThreshold.
func belowWindow(v0, slope, hours float64) (from, to float64) {
	if v0 < LowStatThreshold {
		if slope <= 0 {
			return 0, hours
		}
		return 0, math.Min(hours, (LowStatThreshold-v0)/slope)
	}
	if slope >= 0 {
		return 0, 0
	}
	return math.Min(hours, (v0-LowStatThreshold)/-slope), hours
}
