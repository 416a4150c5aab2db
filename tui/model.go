// Package tui renders the interactive save manager window: a scrolling
// timestamped message log beside an action menu and the saves list, with a
// text input for save names and game paths. Every operation reports its
// outcome as a log line; file errors are logged and never end the program.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cogsaver/core/savefile"
	"cogsaver/feature/slots"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// RebuildFunc swaps the managed game. It validates and persists the new live
// save path and returns the slot config and slots service wired to it.
type RebuildFunc func(saveLocation string) (savefile.Config, *slots.Service, error)

// Deps carries the backend the window operates on.
type Deps struct {
	Cfg     savefile.Config
	Slots   *slots.Service
	Rebuild RebuildFunc
	Logger  *zap.Logger
}

type focusArea int

const (
	focusActions focusArea = iota
	focusSaves
	focusInput
)

type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputCreateLabel
	inputGamePath
)

// actionLabels mirror the window's action buttons, top to bottom.
var actionLabels = []string{"Quicksave", "Quickload", "Create save", "Load Save", "Select Game"}

const (
	actionQuicksave = iota
	actionQuickload
	actionCreate
	actionLoad
	actionSelect
)

const sideWidth = 36

// Messages for tea updates
type (
	opMsg    []string     // log lines produced by a finished operation
	savesMsg []slots.Save // refreshed saves listing
	gameMsg  struct {     // a new game has been selected
		cfg   savefile.Config
		slots *slots.Service
	}
)

// Model is the single-window save manager state.
type Model struct {
	styles   Styles
	viewport viewport.Model
	input    textinput.Model

	log []string

	focus   focusArea
	purpose inputPurpose
	action  int
	saveSel int
	saves   []slots.Save

	// announceNext makes the next saves refresh report each found file,
	// the way selecting a game does on startup.
	announceNext bool

	cfg     savefile.Config
	slots   *slots.Service
	rebuild RebuildFunc
	logger  *zap.Logger

	width  int
	height int
	ready  bool
}

// New assembles the window around an already wired slots service.
func New(deps Deps) Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Prompt = "> "

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := Model{
		styles:   DefaultStyles(),
		viewport: viewport.New(60, 20),
		input:    ti,
		cfg:      deps.Cfg,
		slots:    deps.Slots,
		rebuild:  deps.Rebuild,
		logger:   logger,
	}
	m.announceGame()
	m.announceNext = m.cfg.Selected()

	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshSaves())
}

// push appends a timestamped line to the message log. Newlines are flattened
// so every entry stays one row.
func (m *Model) push(msg string) {
	line := "[" + time.Now().Format("15:04:05") + "] " + strings.ReplaceAll(msg, "\n", " ")
	m.log = append(m.log, line)
	m.viewport.SetContent(strings.Join(m.log, "\n"))
	m.viewport.GotoBottom()
}

func (m *Model) pushAll(lines []string) {
	for _, line := range lines {
		m.push(line)
	}
}

// announceGame reports the slot layout of the selected game, or how to pick
// one when nothing is selected yet.
func (m *Model) announceGame() {
	if !m.cfg.Selected() {
		m.push(`No game selected! Please select a save file location with "Select Game" and pick a storePS<gamename>PSstate file!`)
		return
	}

	m.push("Custom saves directory: " + m.cfg.SavesPath())
	m.push("Quicksave file: " + m.cfg.QuicksavePath())
}

// refreshSaves lists the saves folder in the background. A missing game or a
// listing failure simply yields an empty list; the operation that caused it
// reports the error itself.
func (m Model) refreshSaves() tea.Cmd {
	svc := m.slots
	if svc == nil {
		return nil
	}

	return func() tea.Msg {
		saves, err := svc.List(context.Background())
		if err != nil {
			return savesMsg(nil)
		}
		return savesMsg(saves)
	}
}

func (m *Model) announceSaves() {
	for _, s := range m.saves {
		m.push("Found file: " + s.FileName)
	}
	m.push(fmt.Sprintf("Found %d files.", len(m.saves)))
}
