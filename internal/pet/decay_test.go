package pet

import (
	"math"
	"reflect"
	"testing"
	"time"
)

const tolerance = 1e-9

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestAdvanceNoOp(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("non-positive elapsed", func(t *testing.T) {
		p := testPet(now)
		for _, d := range []time.Duration{0, -time.Hour} {
			if got := Advance(p, d); !reflect.DeepEqual(got, p) {
				t.Errorf("Advance(%v) changed the record", d)
			}
		}
	})

	t.Run("dead pet", func(t *testing.T) {
		p := testPet(now).Kill(now)
		if got := Advance(p, 10*time.Hour); !reflect.DeepEqual(got, p) {
			t.Error("Advance changed a dead pet")
		}
	})
}

func TestAdvanceClampsVitals(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	values := []float64{-50, 0, 5, 19, 50, 100, 150}
	spans := []time.Duration{time.Second, time.Hour, 10 * time.Hour, 1000 * time.Hour}
	activities := []Activity{ActivityIdle, ActivitySleeping, ActivityPlaying}

	for _, v := range values {
		for _, d := range spans {
			for _, act := range activities {
				for _, sick := range []bool{false, true} {
					p := testPet(now)
					p.Hunger, p.Happiness, p.Energy, p.Health = v, v, 100-v, v
					p.PetState = act
					p.Sick = sick
					p.MessCount = 2

					got := Advance(p, d)
					for name, stat := range map[string]float64{
						"hunger": got.Hunger, "happiness": got.Happiness,
						"energy": got.Energy, "health": got.Health,
					} {
						if stat < MinStat || stat > MaxStat {
							t.Errorf("v=%v d=%v act=%s sick=%v: %s=%v out of range", v, d, act, sick, name, stat)
						}
					}
				}
			}
		}
	}
}

func TestAdvanceMonotonicClocks(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := testPet(now)
	p.AgeHours = 3

	for _, d := range []time.Duration{time.Millisecond, time.Second, time.Hour, 72 * time.Hour} {
		got := Advance(p, d)
		if got.AgeHours < p.AgeHours {
			t.Errorf("age moved backwards for %v: %v -> %v", d, p.AgeHours, got.AgeHours)
		}
		if got.LastUpdated.Before(p.LastUpdated) {
			t.Errorf("last updated moved backwards for %v", d)
		}
		if !got.LastUpdated.Equal(p.LastUpdated.Add(d)) {
			t.Errorf("last updated should advance by exactly %v", d)
		}
		if !closeTo(got.AgeHours, p.AgeHours+d.Hours()) {
			t.Errorf("age should advance by exactly %v hours, got %v", d.Hours(), got.AgeHours-p.AgeHours)
		}
	}
}

func TestAdvanceApproximatelyAdditive(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		sinceLast time.Duration
		a, b      time.Duration
	}{
		{"recently cared for", 0, 30 * time.Minute, 90 * time.Minute},
		{"crossing the neglect grace period", 5*time.Hour + 30*time.Minute, 15 * time.Minute, 30 * time.Minute},
		{"deep neglect", 30 * time.Hour, 10 * time.Minute, 20 * time.Minute},
		{"messes land in both halves", 0, 3 * time.Hour, 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPet(now)
			p.Hunger, p.Happiness, p.Energy, p.Health = 60, 50, 60, 90
			p.LastInteractionAt = now.Add(-tt.sinceLast)

			split := Advance(Advance(p, tt.a), tt.b)
			whole := Advance(p, tt.a+tt.b)

			if !closeTo(split.Hunger, whole.Hunger) {
				t.Errorf("hunger: split %v, whole %v", split.Hunger, whole.Hunger)
			}
			if !closeTo(split.Happiness, whole.Happiness) {
				t.Errorf("happiness: split %v, whole %v", split.Happiness, whole.Happiness)
			}
			if !closeTo(split.Energy, whole.Energy) {
				t.Errorf("energy: split %v, whole %v", split.Energy, whole.Energy)
			}
			if !closeTo(split.Health, whole.Health) {
				t.Errorf("health: split %v, whole %v", split.Health, whole.Health)
			}
			if split.MessCount != whole.MessCount {
				t.Errorf("mess: split %d, whole %d", split.MessCount, whole.MessCount)
			}
		})
	}
}

func TestAdvanceStageThresholds(t *testing.T) {
	mockTimeNow(t)
	p := NewPet("Sprout")
	if p.Stage != StageBaby {
		t.Fatalf("Expected new pet to be a baby, got %s", p.Stage)
	}

	got := Advance(p, 100*time.Hour)
	if !closeTo(got.AgeHours, 100) {
		t.Errorf("Expected age 100h, got %v", got.AgeHours)
	}
	if got.Stage != StageTeen {
		t.Errorf("Expected teen at 100h, got %s", got.Stage)
	}
}

func TestDeathByNeglect(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p := testPet(now)
	p.Hunger = 2
	p.Energy = 2
	p.LastInteractionAt = now.Add(-48 * time.Hour)

	dead := Advance(p, 48*time.Hour)

	if !dead.IsDead {
		t.Fatal("Expected starving, exhausted pet to die after 48h alone")
	}
	if dead.Health != 0 {
		t.Errorf("Expected health 0, got %v", dead.Health)
	}
	if dead.DeadAt == nil || !dead.DeadAt.Equal(dead.LastUpdated) {
		t.Errorf("Expected dead_at to equal last_updated, got %v vs %v", dead.DeadAt, dead.LastUpdated)
	}
	if dead.PetState != ActivityDead {
		t.Errorf("Expected dead activity, got %s", dead.PetState)
	}

	again := Advance(dead, 24*time.Hour)
	if !reflect.DeepEqual(again, dead) {
		t.Error("Expected a dead pet to stay frozen")
	}
}

func TestSleepRecoversEnergy(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	awake := testPet(now)
	awake.Energy = 30
	asleep := awake
	asleep.PetState = ActivitySleeping

	a := Advance(awake, time.Hour)
	s := Advance(asleep, time.Hour)

	if s.Energy <= asleep.Energy {
		t.Errorf("Expected sleeping pet to recover energy, got %v -> %v", asleep.Energy, s.Energy)
	}
	if a.Energy >= awake.Energy {
		t.Errorf("Expected awake pet to lose energy, got %v -> %v", awake.Energy, a.Energy)
	}
	if !closeTo(a.Hunger-s.Hunger, SleepingHungerPerHour) {
		t.Errorf("Expected sleeping pet to lose %v extra hunger, diff %v", SleepingHungerPerHour, a.Hunger-s.Hunger)
	}

	t.Run("recovery slows near full", func(t *testing.T) {
		low := asleep
		low.Energy = 10
		high := asleep
		high.Energy = 95
		lowGain := Advance(low, 10*time.Minute).Energy - low.Energy
		highGain := Advance(high, 10*time.Minute).Energy - high.Energy
		if highGain >= lowGain {
			t.Errorf("Expected smaller gain near full: low %v, high %v", lowGain, highGain)
		}
	})

	t.Run("never exceeds max", func(t *testing.T) {
		if got := Advance(asleep, 48*time.Hour).Energy; got > MaxStat {
			t.Errorf("energy %v exceeds max", got)
		}
	})
}

func TestPlayingDrainsEnergyFaster(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	idle := testPet(now)
	playing := idle
	playing.PetState = ActivityPlaying

	idleLoss := idle.Energy - Advance(idle, time.Hour).Energy
	playLoss := playing.Energy - Advance(playing, time.Hour).Energy

	if !closeTo(playLoss, idleLoss*PlayingEnergyMult) {
		t.Errorf("Expected play to drain %vx, got idle %v play %v", PlayingEnergyMult, idleLoss, playLoss)
	}
}

func TestNeglectMultiplier(t *testing.T) {
	tests := []struct {
		from, hours, want float64
	}{
		{0, 6, 1},
		{24, 10, MaxNeglectMult},
		{6, 18, 1.25},
		{100, 0, MaxNeglectMult},
		{0, 0, 1},
	}
	for _, tt := range tests {
		if got := neglectMultiplier(tt.from, tt.hours); !closeTo(got, tt.want) {
			t.Errorf("neglectMultiplier(%v, %v) = %v, want %v", tt.from, tt.hours, got, tt.want)
		}
	}

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cared := testPet(now)
	neglected := cared
	neglected.LastInteractionAt = now.Add(-30 * time.Hour)

	caredLoss := cared.Hunger - Advance(cared, time.Hour).Hunger
	neglectedLoss := neglected.Hunger - Advance(neglected, time.Hour).Hunger
	if !closeTo(neglectedLoss, caredLoss*MaxNeglectMult) {
		t.Errorf("Expected neglected pet to get hungry %vx faster: %v vs %v", MaxNeglectMult, neglectedLoss, caredLoss)
	}
}

func TestSicknessEffects(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	well := testPet(now)
	well.Happiness = 50
	well.Health = 60
	sick := well
	sick.Sick = true

	w := Advance(well, time.Hour)
	s := Advance(sick, time.Hour)

	if !closeTo(sick.Happiness-s.Happiness, (well.Happiness-w.Happiness)*SickHappinessMult) {
		t.Errorf("Expected sick happiness decay amplified: well %v sick %v", well.Happiness-w.Happiness, sick.Happiness-s.Happiness)
	}
	if !closeTo(w.Health-s.Health, SickHealthLossPerHour) {
		t.Errorf("Expected sick pet to lose %v more health, diff %v", SickHealthLossPerHour, w.Health-s.Health)
	}

	t.Run("derived from vitals", func(t *testing.T) {
		p := testPet(now)
		p.Health = 30
		if got := Advance(p, time.Second); !got.Sick {
			t.Error("Expected low health to make the pet sick")
		}
		p.Health = 90
		p.Sick = true
		if got := Advance(p, time.Second); got.Sick {
			t.Error("Expected a healthy pet to stop being sick")
		}
	})
}

func TestHealthChanges(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("starving pet loses health", func(t *testing.T) {
		p := testPet(now)
		p.Hunger = 5
		p.Health = 80
		got := Advance(p, time.Hour)
		if !closeTo(p.Health-got.Health, LowStatHealthLossPerHour) {
			t.Errorf("Expected health loss %v, got %v", LowStatHealthLossPerHour, p.Health-got.Health)
		}
	})

	t.Run("content pet regenerates", func(t *testing.T) {
		p := testPet(now)
		p.Health = 50
		p.Happiness = 50
		got := Advance(p, time.Hour)
		if !closeTo(got.Health-p.Health, HealthRegenPerHour) {
			t.Errorf("Expected regen %v, got %v", HealthRegenPerHour, got.Health-p.Health)
		}
	})

	t.Run("happy pet regenerates faster", func(t *testing.T) {
		p := testPet(now)
		p.Health = 50
		p.Happiness = 90
		got := Advance(p, time.Hour)
		if !closeTo(got.Health-p.Health, HappyHealthRegenPerHour) {
			t.Errorf("Expected regen %v, got %v", HappyHealthRegenPerHour, got.Health-p.Health)
		}
	})

	t.Run("only the hours under threshold hurt", func(t *testing.T) {
		p := testPet(now)
		p.Hunger = 24 // reaches 20 after one hour at 4/h
		p.Happiness = 50
		p.Health = 80
		got := Advance(p, 3*time.Hour)
		want := p.Health + HealthRegenPerHour*1 - LowStatHealthLossPerHour*2
		if !closeTo(got.Health, want) {
			t.Errorf("Expected health %v, got %v", want, got.Health)
		}
	})
}

func TestLowStatHours(t *testing.T) {
	tests := []struct {
		name                                   string
		hunger, hungerSlope, energy, eSlope, h float64
		want                                   float64
	}{
		{"both fine", 80, -4, 80, -3, 2, 0},
		{"hunger already low", 10, -4, 80, -3, 2, 2},
		{"hunger crosses midway", 24, -4, 80, -3, 3, 2},
		{"overlap counted once", 10, -4, 10, -3, 5, 5},
		{"sleeping energy recovers out", 80, -4, 10, 20, 2, 0.5},
		{"disjoint windows", 24, -4, 15, 10, 3, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lowStatHours(tt.hunger, tt.hungerSlope, tt.energy, tt.eSlope, tt.h)
			if !closeTo(got, tt.want) {
				t.Errorf("lowStatHours = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessGeneration(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no mess on a short tick", func(t *testing.T) {
		got := Advance(testPet(now), time.Second)
		if got.MessCount != 0 {
			t.Errorf("Expected no mess, got %d", got.MessCount)
		}
	})

	t.Run("a few hours produce a mess", func(t *testing.T) {
		p := testPet(now)
		p.Hunger = 100
		got := Advance(p, 4*time.Hour)
		if got.MessCount != 1 {
			t.Fatalf("Expected 1 mess, got %d", got.MessCount)
		}
		// Digestion plus the baseline interval fill the accumulator at a fixed rate
		rate := HungerDecayPerHour/HungerPerMess + 1/MessIntervalHours
		want := now.Add(time.Duration(float64(time.Hour) / rate))
		if d := got.LastPoopAt.Sub(want); d < -time.Millisecond || d > time.Millisecond {
			t.Errorf("Expected last poop at %v, got %v", want, got.LastPoopAt)
		}
	})

	t.Run("long absence caps at three", func(t *testing.T) {
		p := testPet(now)
		got := Advance(p, 72*time.Hour)
		if got.MessCount != MaxMess {
			t.Errorf("Expected %d messes, got %d", MaxMess, got.MessCount)
		}
		if got.MessProgress >= 1 {
			t.Errorf("Expected surplus to be discarded at cap, progress %v", got.MessProgress)
		}
	})

	t.Run("same count in one step or many", func(t *testing.T) {
		p := testPet(now)
		p.Hunger = 100
		whole := Advance(p, 4*time.Hour)
		stepped := p
		for i := 0; i < 4; i++ {
			stepped = Advance(stepped, time.Hour)
		}
		if whole.MessCount != stepped.MessCount {
			t.Errorf("one step %d messes, four steps %d", whole.MessCount, stepped.MessCount)
		}
	})

	t.Run("new mess hurts from the moment it lands", func(t *testing.T) {
		p := testPet(now)
		p.Hunger, p.Happiness, p.Energy, p.Health = 100, 100, 100, 100

		whole := Advance(p, 12*time.Hour)
		stepped := p
		for i := 0; i < 12*60; i++ {
			stepped = Advance(stepped, time.Minute)
		}
		if whole.MessCount != stepped.MessCount {
			t.Fatalf("one step %d messes, minute steps %d", whole.MessCount, stepped.MessCount)
		}
		if math.Abs(whole.Happiness-stepped.Happiness) > 0.5 {
			t.Errorf("happiness: one step %.2f, minute steps %.2f", whole.Happiness, stepped.Happiness)
		}
		if math.Abs(whole.Hunger-stepped.Hunger) > 1e-6 {
			t.Errorf("hunger: one step %.6f, minute steps %.6f", whole.Hunger, stepped.Hunger)
		}
	})

	t.Run("mess arrival follows digestion", func(t *testing.T) {
		tests := []struct {
			name              string
			need, h, r, every float64
			want              float64
		}{
			{"digesting the whole way", 1, 100, 4, 4, 1 / (4.0/HungerPerMess + 0.25)},
			{"empty stomach", 1, 0, 4, 4, 4},
			{"stomach empties first", 1, 4, 4, 4, 1 + (1-(4.0/HungerPerMess+0.25))*4},
			{"overfull stomach waits", 0.25, 150, 50, 4, 1},
		}
		for _, tt := range tests {
			if got := messArrival(tt.need, tt.h, tt.r, tt.every); !closeTo(got, tt.want) {
				t.Errorf("%s: messArrival = %v, want %v", tt.name, got, tt.want)
			}
		}
	})

	t.Run("mess on the floor hurts", func(t *testing.T) {
		clean := testPet(now)
		clean.Happiness = 50
		clean.Health = 50
		messy := clean
		messy.MessCount = 2
		c := Advance(clean, time.Hour)
		m := Advance(messy, time.Hour)
		if !closeTo(c.Happiness-m.Happiness, 2*MessHappinessPerHour) {
			t.Errorf("Expected happiness penalty %v, got %v", 2*MessHappinessPerHour, c.Happiness-m.Happiness)
		}
		if !closeTo(c.Health-m.Health, 2*MessHealthPerHour) {
			t.Errorf("Expected health penalty %v, got %v", 2*MessHealthPerHour, c.Health-m.Health)
		}
	})
}
