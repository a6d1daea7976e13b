package ui

import (
	"fmt"
	"os"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/sahilm/fuzzy"
)

// Item is one selectable entry in the picker.
type Item struct {
	ID          string
	Title       string
	Description string
}

// itemSource implements fuzzy.Source over picker items, matching on
// id and title together.
type itemSource []Item

func (s itemSource) String(i int) string { return s[i].ID + " " + s[i].Title }
func (s itemSource) Len() int            { return len(s) }

const maxVisible = 10

// pickerModel is the bubbletea model for multi-selecting hooks.
type pickerModel struct {
	title    string
	items    []Item
	filtered []fuzzy.Match
	checked  map[string]bool
	input    textinput.Model
	cursor   int
	done     bool
	canceled bool
}

func newPickerModel(title string, items []Item) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "Type to filter..."
	ti.CharLimit = 80
	ti.SetWidth(40)
	ti.Prompt = "Filter: "

	styles := ti.Styles()
	styles.Cursor.Shape = tea.CursorBar
	styles.Cursor.Blink = true
	ti.SetStyles(styles)
	ti.Focus()

	m := pickerModel{
		title:   title,
		items:   items,
		checked: make(map[string]bool),
		input:   ti,
	}
	m.applyFilter()
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.canceled = true
		m.done = true
		return m, tea.Quit

	case "enter":
		m.done = true
		return m, tea.Quit

	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "ctrl+n":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil

	case "space", "tab":
		if m.cursor < len(m.filtered) {
			id := m.items[m.filtered[m.cursor].Index].ID
			m.checked[id] = !m.checked[id]
		}
		return m, nil

	case "ctrl+a":
		// Toggle all currently visible items.
		allChecked := true
		for _, match := range m.filtered {
			if !m.checked[m.items[match.Index].ID] {
				allChecked = false
				break
			}
		}
		for _, match := range m.filtered {
			m.checked[m.items[match.Index].ID] = !allChecked
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *pickerModel) applyFilter() {
	query := m.input.Value()
	if query == "" {
		m.filtered = make([]fuzzy.Match, len(m.items))
		for i := range m.items {
			m.filtered[i] = fuzzy.Match{Str: m.items[i].ID, Index: i}
		}
	} else {
		m.filtered = fuzzy.FindFrom(query, itemSource(m.items))
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m pickerModel) selectedIDs() []string {
	var ids []string
	for _, item := range m.items {
		if m.checked[item.ID] {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

func (m pickerModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.render())
}

func (m pickerModel) render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(m.input.View() + "\n\n")

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}
	end := start + maxVisible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("  No matching hooks") + "\n")
	}
	for i := start; i < end; i++ {
		item := m.items[m.filtered[i].Index]

		check := "[ ]"
		if m.checked[item.ID] {
			check = checkedStyle.Render("[x]")
		}

		line := fmt.Sprintf("%s %s", check, item.ID)
		if item.Description != "" {
			line += " " + dimStyle.Render(item.Description)
		}

		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + selectedStyle.Render(line) + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if len(m.filtered) > maxVisible {
		b.WriteString(dimStyle.Render(fmt.Sprintf("\n  %d/%d", m.cursor+1, len(m.filtered))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ navigate • space toggle • ctrl+a toggle all • enter run • esc cancel"))

	return b.String()
}

// RunPicker shows an interactive multi-select over the given items
// and returns the chosen ids. Returns nil ids when the user cancels.
// The TUI renders to stderr so stdout stays clean for hook output.
func RunPicker(title string, items []Item) ([]string, error) {
	if len(items) == 0 {
		return nil, nil
	}

	profile := colorprofile.Detect(os.Stderr, os.Environ())
	p := tea.NewProgram(newPickerModel(title, items),
		tea.WithOutput(os.Stderr),
		tea.WithColorProfile(profile),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m := finalModel.(pickerModel)
	if m.canceled {
		return nil, nil
	}
	return m.selectedIDs(), nil
}
