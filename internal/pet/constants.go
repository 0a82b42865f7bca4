package pet

import "time"

// Game constants
const (
	DefaultPetName   = "Charm Pet"
	MaxStat          = 100.0
	MinStat          = 0.0
	LowStatThreshold = 20.0 // Hunger or energy below this drains health
	MaxMess          = 3

	// Baseline vitals for a freshly adopted pet
	BaselineHunger    = 80.0
	BaselineHappiness = 80.0
	BaselineEnergy    = 80.0
	BaselineHealth    = 100.0

	// Stat change rates (per hour)
	HungerDecayPerHour       = 4.0
	HappinessDecayPerHour    = 3.0
	EnergyDecayPerHour       = 3.5
	SleepingHungerPerHour    = 0.5 // Sleeping pets still get hungry
	SleepRecoveryPerHour     = 20.0
	LowStatHealthLossPerHour = 5.0
	HealthRegenPerHour       = 1.0
	HappyHealthRegenPerHour  = 2.0
	SickHealthLossPerHour    = 1.5
	MessHappinessPerHour     = 1.5 // Per mess on the floor
	MessHealthPerHour        = 0.5 // Per mess on the floor

	// Multipliers
	SickHappinessMult      = 1.5
	PlayingEnergyMult      = 2.0
	MaxNeglectMult         = 1.5
	HappyRegenThreshold    = 70.0
	SleepLogisticMidpoint  = 15.0 // Energy deficit where recovery runs at half speed
	SleepLogisticSteepness = 6.0

	// Neglect ramp (hours since last interaction)
	NeglectGraceHours = 6.0
	NeglectMaxHours   = 24.0

	// Sickness thresholds
	SickHealthThreshold = 40.0
	SickHungerThreshold = 15.0
	SickEnergyThreshold = 10.0

	// Mess generation
	HungerPerMess        = 25.0 // Digested hunger that produces one mess
	MessIntervalHours    = 4.0  // Baseline hours between messes
	MessHappinessPenalty = 4.0  // One-off hit when a new mess appears

	// Growth stage thresholds (age in hours)
	ChildAgeHours = 24.0
	TeenAgeHours  = 72.0
	AdultAgeHours = 168.0
	ElderAgeHours = 360.0

	// Status emojis
	StatusEmojiHappy    = "😸"
	StatusEmojiSleeping = "😴"
	StatusEmojiHungry   = "🙀"
	StatusEmojiSad      = "😿"
	StatusEmojiSick     = "🤢"
	StatusEmojiTired    = "😾"
	StatusEmojiDirty    = "💩"
	StatusEmojiDead     = "💀"
)

// Anti-spam window for diminishing returns
const DampingWindow = 10 * time.Minute

// DampingFactors are indexed by how often the same action was used inside DampingWindow.
var DampingFactors = [...]float64{1.0, 0.7, 0.4, 0.2}

// Personality is one of five fixed temperaments drawn at birth.
type Personality string

const (
	PersonalityPlayful Personality = "playful"
	PersonalityLazy    Personality = "lazy"
	PersonalityGlutton Personality = "glutton"
	PersonalityGrumpy  Personality = "grumpy"
	PersonalityCurious Personality = "curious"
)

// Personalities lists every valid personality in draw order.
var Personalities = []Personality{
	PersonalityPlayful,
	PersonalityLazy,
	PersonalityGlutton,
	PersonalityGrumpy,
	PersonalityCurious,
}

// Stage is the age-derived growth phase. Display only.
type Stage string

const (
	StageBaby  Stage = "baby"
	StageChild Stage = "child"
	StageTeen  Stage = "teen"
	StageAdult Stage = "adult"
	StageElder Stage = "elder"
)

// Activity mirrors the action machine's current state.
type Activity string

const (
	ActivityIdle     Activity = "idle"
	ActivityFeeding  Activity = "feeding"
	ActivityPlaying  Activity = "playing"
	ActivitySleeping Activity = "sleeping"
	ActivityCleaning Activity = "cleaning"
	ActivityHealing  Activity = "healing"
	ActivityScolded  Activity = "scolded"
	ActivityDead     Activity = "dead"
)

// Action is a discrete player interaction.
type Action string

const (
	ActionFeed  Action = "feed"
	ActionPlay  Action = "play"
	ActionSleep Action = "sleep"
	ActionClean Action = "clean"
	ActionHeal  Action = "heal"
	ActionScold Action = "scold"
)

// Actions lists every action in menu order.
var Actions = []Action{ActionFeed, ActionPlay, ActionSleep, ActionClean, ActionHeal, ActionScold}
