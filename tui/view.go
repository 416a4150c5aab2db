package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.styles.Log.Render(m.viewport.View()),
		m.renderSide(),
	)

	sections := []string{m.renderHeader(), body}
	if m.focus == focusInput {
		sections = append(sections, m.styles.Input.Render(m.input.View()))
	}
	sections = append(sections, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := "CoG Saver"
	if game := m.cfg.Game(); game != "" {
		title += " - " + game
	}
	return m.styles.Title.Render(" " + title)
}

func (m Model) renderSide() string {
	var sb strings.Builder

	sb.WriteString(m.styles.PaneTitle.Render("Actions"))
	sb.WriteString("\n")
	for i, label := range actionLabels {
		if i == m.action && m.focus == focusActions {
			sb.WriteString(m.styles.Selected.Render("> " + label))
		} else if i == m.action {
			sb.WriteString("> " + label)
		} else {
			sb.WriteString("  " + label)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.styles.PaneTitle.Render(fmt.Sprintf("Saves (%d)", len(m.saves))))
	sb.WriteString("\n")
	if len(m.saves) == 0 {
		sb.WriteString(m.styles.Muted.Render("  none yet"))
		sb.WriteString("\n")
	}
	for i, s := range m.saves {
		name := s.FileName
		if s.Drifted {
			name += " *"
		}
		if i == m.saveSel && m.focus == focusSaves {
			sb.WriteString(m.styles.Selected.Render("> " + name))
		} else {
			sb.WriteString("  " + name)
			if s.Character != "" {
				sb.WriteString("  " + m.styles.Muted.Render(s.Character))
			}
		}
		sb.WriteString("\n")
	}

	return m.styles.Side.Render(sb.String())
}

func (m Model) renderFooter() string {
	help := "tab: switch pane • ↑/↓: move • enter: run • q: quit"
	switch m.focus {
	case focusInput:
		help = "enter: confirm • esc: cancel"
	case focusSaves:
		help = "enter: load selected save • tab: back to actions • q: quit"
	}
	return m.styles.Footer.Render(" " + help)
}
