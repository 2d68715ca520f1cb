// Package tui is the reference Paused-console UI collaborator: a Bubble
// Tea program shown while the emulator's RunState is Paused, displaying the
// component tree, a register dump, and a disassembly window, and reading
// the next command line. It has no dependency on internal/emulator; a
// Snapshot is handed in and a command string handed back, so the emulator
// can swap in any other UI collaborator satisfying the same contract.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Register is one row of the register dump panel.
type Register struct {
	Name    string
	Value   string
	Changed bool // differs from the previous step, highlighted in the view
}

// Snapshot is the read-only state shown by the Paused console for one
// command prompt.
type Snapshot struct {
	Tree     []string // component tree, pre-rendered (indentation included)
	Registers []Register
	Disasm   []string // disassembly lines around the current pc
	Warnings []string // preRunCheck or last-command warnings
}

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	changedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// Model is the Bubble Tea model backing the Paused console.
type Model struct {
	snapshot Snapshot
	tree     viewport.Model
	disasm   viewport.Model
	input    textinput.Model

	width, height int
	command       string
	submitted     bool
	quit          bool
}

// NewModel builds a Model ready to be run for one command prompt.
func NewModel(snap Snapshot) Model {
	ti := textinput.New()
	ti.Placeholder = "command"
	ti.Focus()
	ti.Prompt = "(gxemul) "

	tv := viewport.New(40, 10)
	tv.SetContent(strings.Join(snap.Tree, "\n"))

	dv := viewport.New(40, 10)
	dv.SetContent(strings.Join(snap.Disasm, "\n"))

	return Model{
		snapshot: snap,
		tree:     tv,
		disasm:   dv,
		input:    ti,
		width:    100,
		height:   30,
	}
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		paneWidth := m.width/2 - 4
		m.tree.Width = paneWidth
		m.disasm.Width = paneWidth
		m.tree.Height = m.height - 10
		m.disasm.Height = m.height - 10
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quit = true
			return m, tea.Quit
		case "enter":
			m.command = strings.TrimSpace(m.input.Value())
			m.submitted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View satisfies tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("component tree"))
	b.WriteString("  ")
	b.WriteString(headerStyle.Render("disassembly"))
	b.WriteString("\n")

	left := borderStyle.Render(strings.Join(m.snapshot.Tree, "\n"))
	right := borderStyle.Render(strings.Join(m.snapshot.Disasm, "\n"))
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("registers"))
	b.WriteString("\n")
	b.WriteString(borderStyle.Render(renderRegisters(m.snapshot.Registers)))
	b.WriteString("\n")

	for _, w := range m.snapshot.Warnings {
		b.WriteString(warningStyle.Render("warning: " + w))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	return b.String()
}

func renderRegisters(regs []Register) string {
	var b strings.Builder
	for i, r := range regs {
		field := fmt.Sprintf("%-4s %s", r.Name, r.Value)
		if r.Changed {
			field = changedStyle.Render(field)
		}
		b.WriteString(field)
		if (i+1)%4 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString("  ")
		}
	}
	return strings.TrimRight(b.String(), " \n")
}

// Command returns the submitted command line, or ("quit", true) if the
// user cancelled the prompt instead of entering a command.
func (m Model) Command() (string, bool) {
	if m.quit {
		return "quit", true
	}
	return m.command, m.submitted
}
