package statsui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/chatcloud/internal/aggregate"
	"github.com/verte-zerg/chatcloud/internal/rank"
)

const (
	inputStreams = iota
	inputUsers
	inputTerms
	inputNTerms
	inputPalette
	inputWindow
)

const suggestShown = 8

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Streams (n100 or 20240101,20240201): "),
		newFilterInput("Users: "),
		newFilterInput("Terms: "),
		newFilterInput("Top terms: "),
		newFilterInput("Palette: "),
		newFilterInput("Curve window: "),
	}
	m.setInputsFromOptions()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromOptions() {
	if len(m.filterInputs) == 0 {
		return
	}
	m.filterInputs[inputStreams].SetValue(m.opts.Streams)
	m.filterInputs[inputUsers].SetValue(strings.Join(m.opts.Users, ", "))
	m.filterInputs[inputTerms].SetValue(strings.Join(m.opts.Terms, ", "))
	m.filterInputs[inputNTerms].SetValue(strconv.Itoa(m.opts.NTerms))
	m.filterInputs[inputPalette].SetValue(m.opts.Palette)
	m.filterInputs[inputWindow].SetValue(strconv.Itoa(m.window))
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromOptions()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case tea.KeyEnter:
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refresh()
		m.updateLayout()
		return m, nil
	case tea.KeyTab:
		return m, m.setFilterIndex(m.filterIndex + 1)
	case tea.KeyShiftTab:
		return m, m.setFilterIndex(m.filterIndex - 1)
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	count := len(m.filterInputs)
	if count == 0 {
		return nil
	}
	m.filterIndex = (idx + count) % count
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == m.filterIndex {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

// applyFilter validates every field before touching the options, so a bad
// entry leaves the current view untouched.
func (m *Model) applyFilter() error {
	streams := strings.TrimSpace(m.filterInputs[inputStreams].Value())
	if _, err := aggregate.ParseSelector(streams, m.binner.Location()); err != nil {
		return err
	}

	nTerms := m.opts.NTerms
	if raw := strings.TrimSpace(m.filterInputs[inputNTerms].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid top terms (use integer >= 1)")
		}
		nTerms = parsed
	}

	window := defaultWindow
	if raw := strings.TrimSpace(m.filterInputs[inputWindow].Value()); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return fmt.Errorf("invalid curve window (use integer >= 1)")
		}
		window = parsed
	}

	prevPalette := m.opts.Palette
	if err := m.setPalette(strings.TrimSpace(m.filterInputs[inputPalette].Value())); err != nil {
		return err
	}

	m.opts.Users = splitList(m.filterInputs[inputUsers].Value())
	m.opts.Terms = splitList(m.filterInputs[inputTerms].Value())
	m.opts.NTerms = nTerms
	m.window = window
	if streams != m.opts.Streams {
		m.opts.Streams = streams
		if err := m.reaggregate(); err != nil {
			_ = m.setPalette(prevPalette)
			return err
		}
	}
	return nil
}

// splitList parses a comma or space separated list, dropping duplicates.
func splitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// suggestions completes the last entry of the focused users or terms field.
func (m *Model) suggestions() []string {
	var ranked []string
	switch m.filterIndex {
	case inputUsers:
		ranked = rank.RankUsers(m.ds, m.botFilter())
	case inputTerms:
		keep := m.termFilter()
		for _, term := range rank.RankTerms(m.ds, m.opts.Policy()) {
			if keep(term) {
				ranked = append(ranked, term)
			}
		}
	default:
		return nil
	}
	value := m.filterInputs[m.filterIndex].Value()
	query := ""
	if parts := splitList(value); len(parts) > 0 && !strings.HasSuffix(value, " ") && !strings.HasSuffix(value, ",") {
		query = parts[len(parts)-1]
	}
	return rank.Suggest(ranked, query, suggestShown)
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if hints := m.suggestions(); len(hints) > 0 {
		lines = append(lines, "", headerStyle.Render("Suggestions: "+strings.Join(hints, "  ")))
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}
