package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thomaskoefod/newsadmin/internal/admin"
)

var filterPlaceholders = map[string]string{
	admin.FilterSearch:     "search",
	admin.FilterDate:       "YYYY-MM-DD",
	admin.FilterSentiment:  "Positive/Negative/Neutral",
	admin.FilterDepartment: "department",
}

// filterBar holds one text input per filter key of an entity.
type filterBar struct {
	keys   []string
	inputs []textinput.Model
	focus  int
	err    string
}

func newFilterBar(keys []string) filterBar {
	b := filterBar{keys: keys, inputs: make([]textinput.Model, len(keys))}
	for i, k := range keys {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = filterPlaceholders[k]
		ti.CharLimit = 120
		ti.Width = 24
		b.inputs[i] = ti
	}
	return b
}

// Values returns the raw input, keyed by filter key.
func (b filterBar) Values() admin.Values {
	v := make(admin.Values, len(b.keys))
	for i, k := range b.keys {
		v[k] = b.inputs[i].Value()
	}
	return v
}

func (b filterBar) Focus(i int) (filterBar, tea.Cmd) {
	if len(b.inputs) == 0 {
		return b, nil
	}
	i = (i + len(b.inputs)) % len(b.inputs)
	for j := range b.inputs {
		b.inputs[j].Blur()
	}
	b.focus = i
	return b, b.inputs[i].Focus()
}

func (b filterBar) Blur() filterBar {
	for j := range b.inputs {
		b.inputs[j].Blur()
	}
	return b
}

func (b filterBar) Reset() filterBar {
	for j := range b.inputs {
		b.inputs[j].Reset()
	}
	b.err = ""
	return b
}

func (b filterBar) Update(msg tea.Msg) (filterBar, tea.Cmd) {
	if len(b.inputs) == 0 {
		return b, nil
	}
	var cmd tea.Cmd
	b.inputs[b.focus], cmd = b.inputs[b.focus].Update(msg)
	return b, cmd
}

func (b filterBar) View(active bool) string {
	parts := make([]string, len(b.keys))
	for i, k := range b.keys {
		label := labelStyle.Render(k + ":")
		if active && i == b.focus {
			label = focusedLabelStyle.Render(k + ":")
		}
		parts[i] = label + " " + b.inputs[i].View()
	}

	s := strings.Join(parts, "  ")
	if b.err != "" {
		s += "\n" + errorStyle.Render(b.err)
	}
	return s
}
