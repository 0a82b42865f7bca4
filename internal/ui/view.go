package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"petsim/internal/machine"
	"petsim/internal/pet"
)

var gameStyles = struct {
	title   lipgloss.Style
	status  lipgloss.Style
	menu    lipgloss.Style
	menuBox lipgloss.Style
	stats   lipgloss.Style
	muted   lipgloss.Style
}{
	title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF75B5")).
		Padding(0, 1),

	status: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(36),

	stats: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")).
		Width(36),

	menu: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FF75B5")),

	menuBox: lipgloss.NewStyle().
		Padding(0, 2),

	muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")),
}

var stageEmojis = map[pet.Stage]string{
	pet.StageBaby:  "🥚",
	pet.StageChild: "🐣",
	pet.StageTeen:  "🐥",
	pet.StageAdult: "🐔",
	pet.StageElder: "🦚",
}

// StageEmoji returns the emoji for a growth stage
func StageEmoji(s pet.Stage) string {
	if e, ok := stageEmojis[s]; ok {
		return e
	}
	return stageEmojis[pet.StageBaby]
}

// View implements tea.Model
func (m Model) View() string {
	if m.Quitting {
		return "Thanks for playing!\n"
	}
	if m.Pet.IsDead {
		return m.deadView()
	}

	// Show animation if one is active
	if m.Animation.Type != AnimNone {
		return m.renderAnimation()
	}

	sections := []string{
		m.renderTitle(),
		"",
		m.renderStats(),
		"",
		m.renderStatus(),
	}

	if m.StageMessage != "" {
		sections = append(sections, "", gameStyles.title.Render(m.StageMessage))
	}
	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", gameStyles.status.Render(msg))
	}

	helpText := "arrows move • enter select • a adopt • q quit"
	if m.PetCount > 1 {
		helpText = "arrows move • enter select • tab next pet • a adopt • q quit"
	}

	sections = append(sections,
		"",
		m.renderMenu(),
		"",
		gameStyles.muted.Render(helpText),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitle() string {
	emoji := StageEmoji(m.Pet.Stage)
	return gameStyles.title.Render(emoji + " " + m.Pet.Name + " " + emoji)
}

func (m Model) activeMessage() string {
	if m.Message != "" && m.now().Before(m.MessageExpires) {
		return m.Message
	}
	return ""
}

func (m Model) renderStats() string {
	stats := []struct {
		name, value string
	}{
		{"Stage", titleCase(string(m.Pet.Stage))},
		{"Nature", titleCase(string(m.Pet.Personality))},
		{"Doing", string(m.Pet.PetState)},
		{"Hunger", fmt.Sprintf("%s %3.0f%%", makeBar(m.Pet.Hunger), m.Pet.Hunger)},
		{"Happiness", fmt.Sprintf("%s %3.0f%%", makeBar(m.Pet.Happiness), m.Pet.Happiness)},
		{"Energy", fmt.Sprintf("%s %3.0f%%", makeBar(m.Pet.Energy), m.Pet.Energy)},
		{"Health", fmt.Sprintf("%s %3.0f%%", makeBar(m.Pet.Health), m.Pet.Health)},
		{"Age", fmt.Sprintf("%.1fh", m.Pet.AgeHours)},
		{"Mess", strings.Repeat(pet.StatusEmojiDirty, m.Pet.MessCount)},
		{"Sick", map[bool]string{true: "Yes", false: "No"}[m.Pet.Sick]},
	}

	var lines []string
	for _, stat := range stats {
		lines = append(lines, fmt.Sprintf("%-10s %s", stat.name+":", stat.value))
	}

	return gameStyles.stats.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	status := fmt.Sprintf("Status: %s", pet.GetStatusWithLabel(m.Pet))
	if needs := pet.Needs(m.Pet); len(needs) > 0 {
		names := make([]string, len(needs))
		for i, n := range needs {
			names[i] = string(n)
		}
		status += "\nWants: " + strings.Join(names, ", ")
	}
	return gameStyles.status.Render(status)
}

func (m Model) renderMenu() string {
	now := m.now()
	var menuItems []string

	for i, a := range menuChoices {
		cursor := " "
		if m.Choice == i {
			cursor = ">"
		}
		label := "Quit"
		if a != "" {
			label = actionLabels[a]
			if wait := machine.RemainingCooldown(m.Pet, a, now); wait > 0 {
				label += gameStyles.muted.Render(fmt.Sprintf(" (%s)", formatWait(wait)))
			}
		}
		menuItems = append(menuItems, fmt.Sprintf("%s %s", cursor, label))
	}

	return gameStyles.menuBox.Render(strings.Join(menuItems, "\n"))
}

func (m Model) renderAnimation() string {
	frame := GetAnimationFrame(m.Animation)

	animStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD700")).
		Bold(true).
		Padding(1, 2)

	sections := []string{
		m.renderTitle(),
		"",
		animStyle.Render(frame),
	}

	if msg := m.activeMessage(); msg != "" {
		sections = append(sections, "", gameStyles.status.Render(msg))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) deadView() string {
	lived := fmt.Sprintf("They lived for %.0f hours", m.Pet.AgeHours)
	if m.ShowingAdoptPrompt {
		return lipgloss.JoinVertical(
			lipgloss.Center,
			gameStyles.title.Render(pet.StatusEmojiDead+" "+m.Pet.Name+" "+pet.StatusEmojiDead),
			"",
			gameStyles.status.Render("Your pet has passed away..."),
			gameStyles.status.Render(lived),
			"",
			gameStyles.menuBox.Render("Would you like to adopt a new pet?"),
			"",
			gameStyles.status.Render("Press 'y' for yes, 'n' for no"),
		)
	}
	help := "Press q to exit"
	if m.PetCount > 1 {
		help = "Press tab for your other pets, q to exit"
	}
	return lipgloss.JoinVertical(
		lipgloss.Center,
		gameStyles.title.Render(pet.StatusEmojiDead+" "+m.Pet.Name+" "+pet.StatusEmojiDead),
		"",
		gameStyles.status.Render("Your pet has passed away..."),
		gameStyles.status.Render("It will be remembered forever."),
		"",
		gameStyles.status.Render(help),
	)
}
