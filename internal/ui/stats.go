package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"petsim/internal/pet"
)

// StatsModel is a simple Bubble Tea model for displaying stats
type StatsModel struct {
	Pet pet.State
}

// Init implements tea.Model
func (m StatsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, tea.Quit
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m StatsModel) View() string {
	return RenderStats(m.Pet) + "\nPress ESC, click, or any key to close..."
}

// RenderStats draws the boxed stats card for p
func RenderStats(p pet.State) string {
	emoji := StageEmoji(p.Stage)
	sick := "No"
	if p.Sick {
		sick = "Yes"
	}

	var s strings.Builder
	s.WriteString("╔════════════════════════════════════╗\n")
	s.WriteString(fmt.Sprintf("║  %s %-29s ║\n", emoji, p.Name))
	s.WriteString("╠════════════════════════════════════╣\n")
	s.WriteString(fmt.Sprintf("║  Stage:   %-24s ║\n", titleCase(string(p.Stage))))
	s.WriteString(fmt.Sprintf("║  Nature:  %-24s ║\n", titleCase(string(p.Personality))))
	s.WriteString(fmt.Sprintf("║  Age:     %-24s ║\n", fmt.Sprintf("%.1f hours", p.AgeHours)))
	s.WriteString(fmt.Sprintf("║  Doing:   %-24s ║\n", string(p.PetState)))
	s.WriteString(fmt.Sprintf("║  Status:  %-24s ║\n", pet.GetStatus(p)))
	s.WriteString("║                                    ║\n")
	s.WriteString(fmt.Sprintf("║  Hunger:    [%s] %3.0f%%           ║\n", makeBar(p.Hunger), p.Hunger))
	s.WriteString(fmt.Sprintf("║  Happiness: [%s] %3.0f%%           ║\n", makeBar(p.Happiness), p.Happiness))
	s.WriteString(fmt.Sprintf("║  Energy:    [%s] %3.0f%%           ║\n", makeBar(p.Energy), p.Energy))
	s.WriteString(fmt.Sprintf("║  Health:    [%s] %3.0f%%           ║\n", makeBar(p.Health), p.Health))
	s.WriteString("║                                    ║\n")
	s.WriteString(fmt.Sprintf("║  Mess:      %-23d║\n", p.MessCount))
	s.WriteString(fmt.Sprintf("║  Sick:      %-23s║\n", sick))
	s.WriteString("╚════════════════════════════════════╝\n")
	return s.String()
}

// DisplayStats shows the stats display
func DisplayStats(p pet.State) error {
	program := tea.NewProgram(StatsModel{Pet: p}, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running stats display: %w", err)
	}
	return nil
}

// makeBar renders value as five blocks, one per 20 points
func makeBar(value float64) string {
	filled := int(value / 20)
	var bar strings.Builder
	for i := 0; i < 5; i++ {
		if i < filled {
			bar.WriteString("█")
		} else {
			bar.WriteString("░")
		}
	}
	return bar.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
