package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/thomaskoefod/newsadmin/internal/admin"
)

type formField struct {
	admin.Field
	input  textinput.Model
	area   textarea.Model
	on     bool
	choice int
}

// form edits the values of one entity. Field widgets follow the field kind.
type form struct {
	title   string
	editing bool
	fields  []formField
	focus   int
}

func newForm(title string, fields []admin.Field, v admin.Values, editing bool) (form, tea.Cmd) {
	f := form{title: title, editing: editing, fields: make([]formField, len(fields))}

	for i, fd := range fields {
		ff := formField{Field: fd}
		switch fd.Kind {
		case admin.FieldMultiline:
			ta := textarea.New()
			ta.ShowLineNumbers = false
			ta.SetWidth(60)
			ta.SetHeight(5)
			ta.SetValue(v[fd.Key])
			ff.area = ta
		case admin.FieldBool:
			ff.on, _ = strconv.ParseBool(v.Get(fd.Key))
		case admin.FieldChoice:
			for j, o := range fd.Options {
				if strings.EqualFold(o, v.Get(fd.Key)) {
					ff.choice = j
				}
			}
		default:
			ti := textinput.New()
			ti.Prompt = ""
			ti.Width = 40
			ti.CharLimit = 500
			ti.SetValue(v[fd.Key])
			if fd.Kind == admin.FieldPassword {
				ti.EchoMode = textinput.EchoPassword
				ti.EchoCharacter = '•'
				if editing {
					ti.Placeholder = fd.EditHint
				}
			}
			ff.input = ti
		}
		f.fields[i] = ff
	}

	return f.Focus(0)
}

// Values collects the form into field values.
func (f form) Values() admin.Values {
	v := make(admin.Values, len(f.fields))
	for _, ff := range f.fields {
		switch ff.Kind {
		case admin.FieldMultiline:
			v[ff.Key] = ff.area.Value()
		case admin.FieldBool:
			v[ff.Key] = strconv.FormatBool(ff.on)
		case admin.FieldChoice:
			if len(ff.Options) > 0 {
				v[ff.Key] = ff.Options[ff.choice]
			}
		default:
			v[ff.Key] = ff.input.Value()
		}
	}
	return v
}

// Focus moves the focus to field i, wrapping around.
func (f form) Focus(i int) (form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}
	i = (i + len(f.fields)) % len(f.fields)

	for j := range f.fields {
		switch f.fields[j].Kind {
		case admin.FieldMultiline:
			f.fields[j].area.Blur()
		case admin.FieldText, admin.FieldPassword:
			f.fields[j].input.Blur()
		}
	}
	f.focus = i

	ff := &f.fields[i]
	switch ff.Kind {
	case admin.FieldMultiline:
		return f, ff.area.Focus()
	case admin.FieldText, admin.FieldPassword:
		return f, ff.input.Focus()
	}
	return f, nil
}

// Multiline reports whether the focused field takes newlines.
func (f form) Multiline() bool {
	return len(f.fields) > 0 && f.fields[f.focus].Kind == admin.FieldMultiline
}

func (f form) Update(msg tea.KeyMsg, keys keyMap) (form, tea.Cmd) {
	if len(f.fields) == 0 {
		return f, nil
	}

	switch {
	case key.Matches(msg, keys.NextField) && !(f.Multiline() && msg.String() == "down"):
		return f.Focus(f.focus + 1)
	case key.Matches(msg, keys.PrevField) && !(f.Multiline() && msg.String() == "up"):
		return f.Focus(f.focus - 1)
	}

	ff := &f.fields[f.focus]
	var cmd tea.Cmd
	switch ff.Kind {
	case admin.FieldBool:
		if key.Matches(msg, keys.Toggle, keys.Left, keys.Right) {
			ff.on = !ff.on
		}
	case admin.FieldChoice:
		if n := len(ff.Options); n > 0 {
			switch {
			case key.Matches(msg, keys.Toggle, keys.Right):
				ff.choice = (ff.choice + 1) % n
			case key.Matches(msg, keys.Left):
				ff.choice = (ff.choice - 1 + n) % n
			}
		}
	case admin.FieldMultiline:
		ff.area, cmd = ff.area.Update(msg)
	default:
		ff.input, cmd = ff.input.Update(msg)
	}
	return f, cmd
}

func (f form) View(d admin.Dialog, spin string) string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(f.title))
	s.WriteString("\n")

	for i, ff := range f.fields {
		label := labelStyle.Render(ff.Label)
		if i == f.focus {
			label = focusedLabelStyle.Render(ff.Label)
		}
		s.WriteString(label)
		if f.editing && ff.EditHint != "" {
			s.WriteString(" " + helpStyle.Render("("+ff.EditHint+")"))
		}
		s.WriteString("\n")

		switch ff.Kind {
		case admin.FieldMultiline:
			s.WriteString(ff.area.View())
		case admin.FieldBool:
			s.WriteString(checkbox(ff.on))
		case admin.FieldChoice:
			s.WriteString(choices(ff.Options, ff.choice))
		default:
			s.WriteString(ff.input.View())
		}
		s.WriteString("\n\n")
	}

	s.WriteString(dialogFooter(d, spin, "Saving..."))
	return s.String()
}

func dialogFooter(d admin.Dialog, spin, busy string) string {
	switch {
	case d.Busy():
		return spin + " " + busy
	case d.Err != "":
		return errorStyle.Render("Error: " + d.Err)
	}
	return ""
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func choices(opts []string, selected int) string {
	parts := make([]string, len(opts))
	for i, o := range opts {
		if i == selected {
			parts[i] = focusedLabelStyle.Render("(•) " + o)
			continue
		}
		parts[i] = labelStyle.Render("( ) " + o)
	}
	return strings.Join(parts, "  ")
}
