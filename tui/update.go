package tui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"cogsaver/core/savefile"
	"cogsaver/feature/slots"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// selectFirst is the nudge shown when an action needs a selected game.
const selectFirst = "ERROR! Please select your game's save file with 'Select Game'"

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.layout(msg.Width, msg.Height)
		return m, nil

	case opMsg:
		m.pushAll(msg)
		return m, m.refreshSaves()

	case savesMsg:
		m.saves = msg
		if m.saveSel >= len(m.saves) {
			m.saveSel = 0
		}
		if m.announceNext {
			m.announceNext = false
			m.announceSaves()
		}
		return m, nil

	case gameMsg:
		m.cfg = msg.cfg
		m.slots = msg.slots
		m.announceGame()
		m.announceNext = true
		return m, m.refreshSaves()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.focus == focusInput {
		return m.handleInputKey(msg)
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyTab:
		if m.focus == focusActions {
			m.focus = focusSaves
		} else {
			m.focus = focusActions
		}
		return m, nil

	case tea.KeyUp:
		m.moveSelection(-1)
		return m, nil

	case tea.KeyDown:
		m.moveSelection(1)
		return m, nil

	case tea.KeyEnter:
		if m.focus == focusSaves {
			return m.restoreSelected()
		}
		return m.runAction()
	}

	if msg.String() == "q" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) moveSelection(delta int) {
	if m.focus == focusSaves {
		m.saveSel += delta
		if m.saveSel < 0 {
			m.saveSel = 0
		}
		if last := len(m.saves) - 1; m.saveSel > last && last >= 0 {
			m.saveSel = last
		}
		return
	}

	m.action += delta
	if m.action < 0 {
		m.action = 0
	}
	if last := len(actionLabels) - 1; m.action > last {
		m.action = last
	}
}

func (m Model) runAction() (tea.Model, tea.Cmd) {
	switch m.action {
	case actionQuicksave:
		return m, m.doQuicksave()

	case actionQuickload:
		return m, m.doQuickload()

	case actionCreate:
		return m.startCreate()

	case actionLoad:
		if !m.cfg.Selected() {
			m.push(selectFirst)
			return m, nil
		}
		if len(m.saves) == 0 {
			m.push("No saves found in " + m.cfg.SavesPath())
			return m, nil
		}
		m.focus = focusSaves
		return m, nil

	case actionSelect:
		return m.startSelect()
	}

	return m, nil
}

func (m Model) doQuicksave() tea.Cmd {
	svc := m.slots
	return func() tea.Msg {
		if _, err := svc.Quicksave(context.Background()); err != nil {
			if errors.Is(err, savefile.ErrNoGame) {
				return opMsg{selectFirst}
			}
			return opMsg{"Error: " + err.Error(), "Quicksave failed"}
		}
		return opMsg{"Quicksaved"}
	}
}

func (m Model) doQuickload() tea.Cmd {
	svc := m.slots
	return func() tea.Msg {
		err := svc.Quickload(context.Background())
		switch {
		case err == nil:
			return opMsg{"Loaded"}
		case errors.Is(err, savefile.ErrNoGame):
			return opMsg{selectFirst}
		case errors.Is(err, slots.ErrNoQuicksave):
			return opMsg{"No quicksave found"}
		default:
			return opMsg{"Error: " + err.Error(), "Load failed"}
		}
	}
}

func (m Model) startCreate() (tea.Model, tea.Cmd) {
	if !m.cfg.Selected() {
		m.push(selectFirst)
		return m, nil
	}

	m.push("Parsing current save...")
	suggestion := savefile.SuggestName(savefile.Describe(m.cfg.SaveLocation), time.Now())
	m.push(suggestion)

	m.purpose = inputCreateLabel
	m.focus = focusInput
	m.input.Placeholder = "save name"
	m.input.SetValue(suggestion)
	m.input.CursorEnd()
	m.input.Focus()

	return m, textinput.Blink
}

func (m Model) startSelect() (tea.Model, tea.Cmd) {
	m.purpose = inputGamePath
	m.focus = focusInput
	m.input.Placeholder = "path to your storePS<gamename>PSstate file"
	m.input.SetValue(m.cfg.SaveLocation)
	m.input.CursorEnd()
	m.input.Focus()

	return m, textinput.Blink
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeInput()
		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		purpose := m.purpose
		m.closeInput()
		if value == "" {
			return m, nil
		}

		switch purpose {
		case inputCreateLabel:
			return m, m.doCreate(value)
		case inputGamePath:
			m.push("Selected " + value)
			return m, m.doSelect(value)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.purpose = inputNone
	m.focus = focusActions
	m.input.Blur()
	m.input.Reset()
}

func (m Model) doCreate(label string) tea.Cmd {
	svc := m.slots
	return func() tea.Msg {
		save, err := svc.Create(context.Background(), label)
		if err != nil {
			if errors.Is(err, savefile.ErrNoGame) {
				return opMsg{selectFirst}
			}
			return opMsg{"Error: " + err.Error(), "Save failed"}
		}
		return opMsg{"Saved to " + save.Path}
	}
}

func (m Model) doSelect(path string) tea.Cmd {
	rebuild := m.rebuild
	return func() tea.Msg {
		if rebuild == nil {
			return opMsg{"Error: game selection is not available here"}
		}

		cfg, svc, err := rebuild(path)
		if err != nil {
			if errors.Is(err, savefile.ErrNotPSState) {
				return opMsg{
					"ERROR: " + savefile.SelectHint,
					`The file selected MUST be the one that ends with "PSstate" only!`,
				}
			}
			return opMsg{"Error: " + err.Error(), "Failed to use " + path + " as a base file!"}
		}

		return gameMsg{cfg: cfg, slots: svc}
	}
}

func (m Model) restoreSelected() (tea.Model, tea.Cmd) {
	if len(m.saves) == 0 {
		return m, nil
	}

	sel := m.saves[m.saveSel]
	svc := m.slots
	gameDir := m.cfg.GameDir()

	return m, func() tea.Msg {
		path, err := svc.Restore(context.Background(), sel.FileName)
		if err != nil {
			if errors.Is(err, savefile.ErrNoGame) {
				return opMsg{selectFirst}
			}
			return opMsg{"Error: " + err.Error(), "Error loading save"}
		}

		display := path
		if rel, relErr := filepath.Rel(gameDir, path); relErr == nil && !strings.HasPrefix(rel, "..") {
			display = rel
		}
		return opMsg{"Loaded: " + display}
	}
}

func (m *Model) layout(w, h int) {
	m.width = w
	m.height = h
	if w <= 0 || h <= 0 {
		return
	}

	logWidth := w - sideWidth - 6
	if logWidth < 20 {
		logWidth = 20
	}
	logHeight := h - 7
	if logHeight < 5 {
		logHeight = 5
	}

	if !m.ready {
		m.viewport = viewport.New(logWidth, logHeight)
		m.viewport.SetContent(strings.Join(m.log, "\n"))
		m.viewport.GotoBottom()
		m.ready = true
	} else {
		m.viewport.Width = logWidth
		m.viewport.Height = logHeight
	}

	m.input.Width = w - 8
}
