package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/keyframe-studio/keyframe/internal/history"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// refreshMsg is sent when the timeline needs to be reloaded.
type refreshMsg struct{}

// errMsg is sent when an error occurs.
type errMsg struct {
	err error
}

// BrowserModel is the bubbletea model for the history browser.
type BrowserModel struct {
	manager *history.Manager
	commit  func() error

	entries []history.Entry
	cursor  int

	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	refreshInterval time.Duration
}

// BrowserConfig holds configuration for the browser.
type BrowserConfig struct {
	Manager *history.Manager
	// Commit persists history after each change. Optional.
	Commit          func() error
	RefreshInterval time.Duration
}

// NewBrowserModel creates a browser positioned on the current entry.
func NewBrowserModel(config BrowserConfig) *BrowserModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}

	m := &BrowserModel{
		manager:         config.Manager,
		commit:          config.Commit,
		refreshInterval: config.RefreshInterval,
	}
	m.loadData()
	m.cursor = m.currentIndex()
	return m
}

// Init initializes the model.
func (m *BrowserModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.refreshCmd(),
	)
}

// Update handles messages and updates the model.
func (m *BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *BrowserModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}

	case "u":
		m.apply("Undid", m.manager.UndoDescription, m.manager.Undo)

	case "r":
		m.apply("Redid", m.manager.RedoDescription, m.manager.Redo)

	case "c":
		e := m.Selected()
		if e == nil || e.CheckpointID == "" || !e.Executed {
			m.setMessage("Select a checkpoint to return to", 2*time.Second)
			return m, nil
		}
		m.apply("Returned to", label(e.CheckpointName), func() error {
			return m.manager.UndoToCheckpoint(e.CheckpointID)
		})

	case "x":
		e := m.Selected()
		if e == nil || !e.Executed {
			m.setMessage("Select an executed command", 2*time.Second)
			return m, nil
		}
		m.apply("Undid", label(e.Description), func() error {
			return m.manager.SelectiveUndo(e.ID)
		})
	}

	return m, nil
}

// apply runs one history operation, persists the result and reloads.
func (m *BrowserModel) apply(verb string, describe func() (string, bool), op func() error) {
	desc, _ := describe()
	m.err = op()
	if m.commit != nil {
		if err := m.commit(); err != nil && m.err == nil {
			m.err = err
		}
	}
	if m.err == nil {
		m.setMessage(fmt.Sprintf("%s: %s", verb, desc), 2*time.Second)
	}
	m.loadData()
	m.cursor = m.currentIndex()
}

func label(s string) func() (string, bool) {
	return func() (string, bool) { return s, true }
}

// View renders the browser.
func (m *BrowserModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	stack := &StackComponent{Stats: m.manager.Stats(), Width: m.width}
	sections = append(sections, stack.View())

	timeline := &TimelineComponent{
		Entries: m.entries,
		Cursor:  m.cursor,
		Width:   m.width,
		Height:  m.timelineRows(),
	}
	sections = append(sections, timeline.View())

	if detail := m.detail(); detail != nil {
		if v := detail.View(); v != "" {
			sections = append(sections, v)
		}
	}

	sections = append(sections, HelpBar())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *BrowserModel) renderHeader() string {
	title := StyleTitle.Render("Keyframe History")
	now := time.Now().Format("Mon Jan 2, 15:04:05")
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", StyleSubtitle.Render(now)) + "\n"
}

// timelineRows leaves room for the header, stack and detail panels.
func (m *BrowserModel) timelineRows() int {
	if m.height == 0 {
		return 0
	}
	return max(m.height-18, 3)
}

func (m *BrowserModel) detail() *DetailComponent {
	e := m.Selected()
	if e == nil {
		return nil
	}

	dc := &DetailComponent{Entry: e, Width: m.width}
	if !e.Executed {
		return dc
	}
	ids, err := m.manager.Dependencies(e.ID)
	if err != nil {
		return dc
	}
	byID := make(map[string]history.Entry, len(m.entries))
	for _, entry := range m.entries {
		byID[entry.ID] = entry
	}
	for _, id := range ids {
		if entry, ok := byID[id]; ok {
			dc.Related = append(dc.Related, entry)
		}
	}
	return dc
}

// Selected returns the entry under the cursor, or nil when history is empty.
func (m *BrowserModel) Selected() *history.Entry {
	if m.cursor < 0 || m.cursor >= len(m.entries) {
		return nil
	}
	e := m.entries[m.cursor]
	return &e
}

// Cursor returns the selected row index.
func (m *BrowserModel) Cursor() int {
	return m.cursor
}

func (m *BrowserModel) loadData() {
	m.entries = m.manager.Entries()
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// currentIndex returns the newest executed entry, or 0.
func (m *BrowserModel) currentIndex() int {
	for i, e := range m.entries {
		if e.Current {
			return i
		}
	}
	return 0
}

// setMessage sets a temporary message.
func (m *BrowserModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = time.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *BrowserModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd returns a command that sends a refresh message.
func (m *BrowserModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{}
	}
}

// Run starts the history browser.
func Run(config BrowserConfig) error {
	model := NewBrowserModel(config)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
