package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdvocateDirectory/internal/domain"
	"AdvocateDirectory/internal/search"
	"AdvocateDirectory/internal/usecase"
)

// fakeDirectory applies search text synchronously.
type fakeDirectory struct {
	records []domain.Advocate
	raw     string
	status  usecase.Status
	err     error
	resets  int
	typed   []string
	updates chan struct{}
}

func newFakeDirectory(records []domain.Advocate) *fakeDirectory {
	return &fakeDirectory{records: records, status: usecase.StatusReady, updates: make(chan struct{}, 1)}
}

func (f *fakeDirectory) SearchTextChanged(text string) {
	f.raw = text
	f.typed = append(f.typed, text)
}
func (f *fakeDirectory) ResetRequested() { f.raw = ""; f.resets++ }
func (f *fakeDirectory) CurrentSearchText() string { return f.raw }
func (f *fakeDirectory) VisibleRecords() []domain.Advocate {
	return search.Filter(f.records, f.raw)
}
func (f *fakeDirectory) TotalRecords() int { return len(f.records) }
func (f *fakeDirectory) Status() usecase.Status { return f.status }
func (f *fakeDirectory) Err() error { return f.err }
func (f *fakeDirectory) Updates() <-chan struct{} { return f.updates }

func advocates() []domain.Advocate {
	return []domain.Advocate{
		{ID: "1", FirstName: "John", LastName: "Doe", City: "New York", Degree: "MD",
			Specialties: []string{"Cardiology"}, YearsOfExperience: 5, PhoneNumber: "1234567890"},
		{ID: "2", FirstName: "Jane", LastName: "Smith", City: "Boston", Degree: "RN",
			Specialties: []string{"Oncology"}, YearsOfExperience: 1, PhoneNumber: "9876543210"},
	}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestModelRendersRecords(t *testing.T) {
	m := NewModel(newFakeDirectory(advocates()))
	m.SetSize(140, 40)

	view := m.View()
	assert.Contains(t, view, "Solace Advocates")
	assert.Contains(t, view, "John Doe")
	assert.Contains(t, view, "Jane Smith")
	assert.Contains(t, view, "(123) 456-7890")
	assert.Contains(t, view, "Showing 2 of 2 advocates")
}

func TestModelTypingRaisesSearchEvents(t *testing.T) {
	dir := newFakeDirectory(advocates())
	m := NewModel(dir)

	m = typeText(t, m, "bos")
	assert.Equal(t, []string{"b", "bo", "bos"}, dir.typed)

	next, _ := m.Update(changedMsg{})
	m = next.(Model)

	view := m.View()
	assert.Contains(t, view, "Searching for: bos")
	assert.Contains(t, view, "Jane Smith")
	assert.NotContains(t, view, "John Doe")
	assert.Contains(t, view, "Showing 1 of 2 advocates")
}

func TestModelEscResets(t *testing.T) {
	dir := newFakeDirectory(advocates())
	m := typeText(t, NewModel(dir), "zzz")

	next, _ := m.Update(changedMsg{})
	m = next.(Model)
	assert.Contains(t, m.View(), "No advocates found")
	assert.Contains(t, m.View(), "Try adjusting your search criteria")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	assert.Equal(t, 1, dir.resets)
	assert.Empty(t, m.input.Value())
	assert.Contains(t, m.View(), "John Doe")
	assert.Contains(t, m.View(), "Showing 2 of 2 advocates")
}

func TestModelStatusLines(t *testing.T) {
	dir := newFakeDirectory(nil)
	dir.status = usecase.StatusLoading
	m := NewModel(dir)
	assert.Contains(t, m.View(), "Loading advocates...")

	dir.status = usecase.StatusFailed
	dir.err = errors.New("connection refused")
	view := m.View()
	assert.Contains(t, view, "Failed to load advocates: connection refused")
	assert.Contains(t, view, "No advocates found")
	assert.False(t, strings.Contains(view, "Try adjusting"), "hint only shows for a search")
}

func TestModelQuits(t *testing.T) {
	dir := newFakeDirectory(advocates())
	m := NewModel(dir)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	close(dir.updates)
	msg := waitForChange(dir.Updates())()
	assert.IsType(t, closedMsg{}, msg)

	_, cmd = m.Update(msg)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModelUpdateSignalRearms(t *testing.T) {
	dir := newFakeDirectory(advocates())
	m := NewModel(dir)

	dir.updates <- struct{}{}
	msg := waitForChange(dir.Updates())()
	assert.IsType(t, changedMsg{}, msg)

	_, cmd := m.Update(msg)
	require.NotNil(t, cmd)
}
