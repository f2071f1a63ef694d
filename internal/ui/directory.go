package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"AdvocateDirectory/internal/domain"
	"AdvocateDirectory/internal/usecase"
)

// Directory is the state the view renders and the events it raises.
// *usecase.Controller satisfies it.
type Directory interface {
	SearchTextChanged(text string)
	ResetRequested()
	CurrentSearchText() string
	VisibleRecords() []domain.Advocate
	TotalRecords() int
	Status() usecase.Status
	Err() error
	Updates() <-chan struct{}
}

var _ Directory = (*usecase.Controller)(nil)

type changedMsg struct{}

type closedMsg struct{}

// Model is the bubbletea model for the advocate directory.
type Model struct {
	dir    Directory
	width  int
	height int

	input   textinput.Model
	table   table.Model
	visible []domain.Advocate

	styles Styles
}

var columns = []table.Column{
	{Title: "Name", Width: 22},
	{Title: "Location", Width: 16},
	{Title: "Credentials", Width: 11},
	{Title: "Specialties", Width: 40},
	{Title: "Experience", Width: 10},
	{Title: "Contact", Width: 14},
}

// NewModel builds the view over dir.
func NewModel(dir Directory) Model {
	in := textinput.New()
	in.Placeholder = "Search by name, city, degree, specialty or years..."
	in.CharLimit = 120
	in.Width = 60
	in.Focus()

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	m := Model{
		dir:    dir,
		input:  in,
		table:  t,
		styles: DefaultStyles(),
	}
	m.refresh()
	return m
}

// Init starts the cursor blink and the update listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForChange(m.dir.Updates()))
}

func waitForChange(updates <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return closedMsg{}
		}
		return changedMsg{}
	}
}

// Update handles key presses and controller notifications.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case changedMsg:
		m.refresh()
		return m, waitForChange(m.dir.Updates())

	case closedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.input.SetValue("")
			m.dir.ResetRequested()
			m.refresh()
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.dir.SearchTextChanged(after)
	}
	return m, cmd
}

// refresh pulls the visible records from the directory into the table.
func (m *Model) refresh() {
	m.visible = m.dir.VisibleRecords()

	rows := make([]table.Row, 0, len(m.visible))
	for _, a := range m.visible {
		rows = append(rows, row(a))
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

func row(a domain.Advocate) table.Row {
	return table.Row{
		a.FullName(),
		a.City,
		a.Degree,
		strings.Join(a.Specialties, ", "),
		a.ExperienceLabel(),
		a.PhoneNumber.Formatted(),
	}
}

// SetSize fits the table to the terminal.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.table.SetWidth(max(w-2, 20))
	m.table.SetHeight(max(h-12, 3))
}

// View renders the page.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Header.Render("Solace Advocates"))
	sb.WriteString("\n\n")

	sb.WriteString(m.styles.Label.Render("Search"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("Searching for: "))
	sb.WriteString(m.styles.Term.Render(m.dir.CurrentSearchText()))
	sb.WriteString("\n")
	sb.WriteString(m.styles.SearchBox.Render(m.input.View()))
	sb.WriteString("\n")

	switch m.dir.Status() {
	case usecase.StatusIdle, usecase.StatusLoading:
		sb.WriteString(m.styles.Muted.Render("Loading advocates..."))
		sb.WriteString("\n")
	case usecase.StatusFailed:
		msg := "Failed to load advocates"
		if err := m.dir.Err(); err != nil {
			msg = fmt.Sprintf("%s: %v", msg, err)
		}
		sb.WriteString(m.styles.Error.Render(msg))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	if len(m.visible) == 0 {
		empty := "No advocates found"
		if m.dir.CurrentSearchText() != "" {
			empty += "\nTry adjusting your search criteria"
		}
		sb.WriteString(m.styles.Empty.Render(empty))
	} else {
		sb.WriteString(m.styles.Content.Render(m.table.View()))
	}
	sb.WriteString("\n")

	count := fmt.Sprintf("Showing %d of %d advocates", len(m.visible), m.dir.TotalRecords())
	sb.WriteString(m.styles.Muted.Render(count))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Muted.Render("[Esc] Reset search  [↑/↓] Scroll  [Ctrl+C] Quit"))

	return sb.String()
}
