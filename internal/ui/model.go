package ui

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"petsim/internal/machine"
	"petsim/internal/pet"
	"petsim/internal/roster"
)

// Model represents the game state
type Model struct {
	store *roster.Store
	ctrl  *machine.Controller
	now   func() time.Time

	Pet                pet.State
	PetCount           int
	Choice             int
	Quitting           bool
	ShowingAdoptPrompt bool
	StageMessage       string
	Message            string
	MessageExpires     time.Time
	Animation          Animation
	TickInterval       time.Duration
}

type tickMsg time.Time
type animTickMsg struct {
	started time.Time
}

// menuChoices is the action menu followed by Quit
var menuChoices = append(append([]pet.Action{}, pet.Actions...), "")

var actionLabels = map[pet.Action]string{
	pet.ActionFeed:  "Feed",
	pet.ActionPlay:  "Play",
	pet.ActionSleep: "Sleep",
	pet.ActionClean: "Clean",
	pet.ActionHeal:  "Heal",
	pet.ActionScold: "Scold",
}

var actionMessages = map[pet.Action]string{
	pet.ActionFeed:  "🍖 Yum!",
	pet.ActionPlay:  "🎾 Wheee!",
	pet.ActionSleep: "💤 Nap time...",
	pet.ActionClean: "🧽 Squeaky clean!",
	pet.ActionHeal:  "💊 Feeling better!",
	pet.ActionScold: "😾 Hmph!",
}

var actionAnimations = map[pet.Action]AnimationType{
	pet.ActionFeed:  AnimFeed,
	pet.ActionPlay:  AnimPlay,
	pet.ActionSleep: AnimSleep,
	pet.ActionClean: AnimClean,
	pet.ActionHeal:  AnimHeal,
	pet.ActionScold: AnimScold,
}

// NewModel creates a new game model over an open store
func NewModel(store *roster.Store, ctrl *machine.Controller) Model {
	m := Model{
		store:        store,
		ctrl:         ctrl,
		now:          func() time.Time { return pet.TimeNow() },
		TickInterval: time.Second,
	}
	m.refresh()
	m.ShowingAdoptPrompt = m.Pet.IsDead
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.TickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func animTick(start time.Time) tea.Cmd {
	return tea.Tick(AnimationFrameDuration, func(t time.Time) tea.Msg {
		return animTickMsg{started: start}
	})
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// While an animation is playing, ignore inputs except quit keys
		if m.Animation.Type != AnimNone {
			switch msg.String() {
			case "ctrl+c", "q":
				m.Quitting = true
				return m, tea.Quit
			default:
				return m, nil
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "y":
			if m.Pet.IsDead && m.ShowingAdoptPrompt {
				m.adopt()
				return m, nil
			}
		case "n":
			if m.Pet.IsDead && m.ShowingAdoptPrompt {
				m.ShowingAdoptPrompt = false
				return m, nil
			}
		case "a":
			if !m.Pet.IsDead {
				m.adopt()
				return m, nil
			}
		case "tab":
			m.cyclePet()
			return m, nil
		case "up", "k":
			if m.Choice > 0 {
				m.Choice--
			}
		case "down", "j":
			if m.Choice < len(menuChoices)-1 {
				m.Choice++
			}
		case "enter", " ":
			if m.Pet.IsDead {
				return m, nil
			}
			a := menuChoices[m.Choice]
			if a == "" {
				m.Quitting = true
				return m, tea.Quit
			}
			if m.act(a) {
				return m, animTick(m.Animation.StartTime)
			}
		}

	case tickMsg:
		m.onTick()
		return m, m.tick()

	case animTickMsg:
		// Drop ticks that belong to an older animation (e.g., if a new action started)
		if m.Animation.Type == AnimNone || !m.Animation.StartTime.Equal(msg.started) {
			return m, nil
		}

		m.Animation.Frame++
		if IsAnimationComplete(m.Animation) {
			m.Animation = Animation{}
			return m, nil
		}

		return m, animTick(m.Animation.StartTime)
	}

	return m, nil
}

// refresh catches the selected pet up to now through the controller, so a
// growth or death that happened off screen still reaches handleEffects
func (m *Model) refresh() {
	if p, effects := m.ctrl.Post(machine.EventTick); p.ID != "" {
		m.Pet = p
		m.handleEffects(effects)
	}
	m.PetCount = len(m.store.Pets())
}

func (m *Model) onTick() {
	p, effects := m.ctrl.Post(machine.EventTick)
	m.Pet = p
	m.handleEffects(effects)
}

func (m *Model) handleEffects(effects []machine.Effect) {
	for _, e := range effects {
		switch e.Kind {
		case machine.EffectStageUp:
			m.StageMessage = fmt.Sprintf("🎉 %s grew into a %s!", m.Pet.Name, e.Stage)
			log.Printf("Showing stage-up notice for %s", e.Stage)
		case machine.EffectDied:
			m.ShowingAdoptPrompt = true
			m.Animation = Animation{}
		}
	}
}

func (m *Model) setMessage(msg string) {
	m.Message = msg
	m.MessageExpires = m.now().Add(3 * time.Second)
}

func (m *Model) startAnimation(animType AnimationType) {
	m.Animation = Animation{
		Type:      animType,
		Frame:     0,
		StartTime: m.now(),
	}
}

// act fires one action and reports whether an animation started
func (m *Model) act(a pet.Action) bool {
	now := m.now()
	if !machine.CanPerform(m.Pet, a, now) {
		if wait := waitFor(m.Pet, a, now); wait > 0 {
			m.setMessage(fmt.Sprintf("⏳ %s ready in %s", actionLabels[a], formatWait(wait)))
		}
		return false
	}

	p, effects := m.ctrl.Act(a)
	m.Pet = p
	applied := false
	for _, e := range effects {
		if e.Kind == machine.EffectApplied {
			applied = true
		}
	}
	m.StageMessage = ""
	m.handleEffects(effects)
	if !applied || m.Pet.IsDead {
		return false
	}
	m.setMessage(actionMessages[a])
	m.startAnimation(actionAnimations[a])
	return true
}

func (m *Model) adopt() {
	p := m.store.CreatePet("")
	m.Pet = p
	m.PetCount = len(m.store.Pets())
	m.ShowingAdoptPrompt = false
	m.StageMessage = ""
	m.Choice = 0
	m.setMessage(fmt.Sprintf("🐣 Welcome, %s!", p.Name))
}

func (m *Model) cyclePet() {
	pets := m.store.Pets()
	if len(pets) < 2 {
		return
	}
	current := m.store.SelectedID()
	next := pets[0].ID
	for i, p := range pets {
		if p.ID == current {
			next = pets[(i+1)%len(pets)].ID
			break
		}
	}
	m.store.SelectPet(next)
	m.Animation = Animation{}
	m.StageMessage = ""
	m.refresh()
	m.ShowingAdoptPrompt = m.Pet.IsDead
}

// waitFor is how long until a could be accepted
func waitFor(s pet.State, a pet.Action, now time.Time) time.Duration {
	busy := machine.RemainingBusy(s, now)
	cooldown := machine.RemainingCooldown(s, a, now)
	if busy > cooldown {
		return busy
	}
	return cooldown
}

func formatWait(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	if secs >= 60 {
		return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
	}
	return fmt.Sprintf("%ds", secs)
}
