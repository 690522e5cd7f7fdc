package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/thomaskoefod/newsadmin/internal/admin"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

// tab is one entity screen of the root model.
type tab interface {
	Title() string
	Init() (tab, tea.Cmd)
	Update(msg tea.Msg) (tab, tea.Cmd)
	HandleKey(msg tea.KeyMsg) (tab, tea.Cmd)
	// Capturing reports whether the tab consumes every key, e.g. while a
	// dialog or the filter bar has focus.
	Capturing() bool
	Help() help.KeyMap
	SetSize(width, height int) tab
	View() string
}

type focusArea int

const (
	focusList focusArea = iota
	focusFilter
	focusDialog
)

// listTab renders an admin.Controller as a list of cards with a filter bar,
// a pagination bar and its dialogs.
type listTab[T any] struct {
	ctl    admin.Controller[T]
	keys   keyMap
	filter filterBar
	form   form
	// formFor is the dialog kind the form was built for.
	formFor admin.DialogKind
	focus   focusArea
	list    list.Model
	spin    spinner.Model
	width   int
	height  int

	// open, when set, makes enter open the selected item.
	open func(T) tea.Cmd
}

func newListTab[T any](ctl admin.Controller[T], open func(T) tea.Cmd) listTab[T] {
	keys := defaultKeys()

	l := list.New(nil, cardDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	// the list only moves the selection, paging and filtering go to the backend
	l.KeyMap = list.KeyMap{CursorUp: keys.Up, CursorDown: keys.Down}

	return listTab[T]{
		ctl:    ctl,
		keys:   keys,
		filter: newFilterBar(ctl.Schema().Filters),
		list:   l,
		spin:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		open:   open,
	}
}

func (t listTab[T]) Title() string { return t.ctl.Schema().Title }

func (t listTab[T]) Init() (tab, tea.Cmd) {
	var cmd tea.Cmd
	t.ctl, cmd = t.ctl.Init()
	return t, t.withSpinner(cmd)
}

func (t listTab[T]) SetSize(width, height int) tab {
	t.width, t.height = width, height
	t.list.SetSize(max(width-2, 20), max(height-7, cardHeight))
	return t
}

func (t listTab[T]) Capturing() bool { return t.focus != focusList }

func (t listTab[T]) Help() help.KeyMap {
	switch {
	case t.focus == focusDialog && t.ctl.State().Dialog.Kind == admin.DialogDelete:
		return confirmHelp{keys: t.keys}
	case t.focus == focusDialog:
		return formHelp{keys: t.keys}
	}
	return listHelp{keys: t.keys, canCreate: t.ctl.Schema().CanCreate, canOpen: t.open != nil}
}

func (t listTab[T]) Update(msg tea.Msg) (tab, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !t.busy() {
			return t, nil
		}
		var cmd tea.Cmd
		t.spin, cmd = t.spin.Update(msg)
		return t, cmd

	case admin.DialogClosed:
		if msg.Entity != t.ctl.Schema().Entity {
			return t, nil
		}
		t.focus = focusList
		t.formFor = admin.DialogNone
		return t, nil
	}

	var cmd tea.Cmd
	t.ctl, cmd = t.ctl.Update(msg)
	return t.sync(t.withSpinner(cmd))
}

func (t listTab[T]) HandleKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	switch t.focus {
	case focusDialog:
		return t.dialogKey(msg)
	case focusFilter:
		return t.filterKey(msg)
	}
	return t.listKey(msg)
}

func (t listTab[T]) listKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	var cmd tea.Cmd

	switch {
	case key.Matches(msg, t.keys.Up, t.keys.Down):
		t.list, cmd = t.list.Update(msg)
		return t, cmd

	case key.Matches(msg, t.keys.NextPage):
		t.ctl, cmd = t.ctl.NextPage()

	case key.Matches(msg, t.keys.PrevPage):
		t.ctl, cmd = t.ctl.PrevPage()

	case key.Matches(msg, t.keys.Refresh):
		t.ctl, cmd = t.ctl.Refresh()

	case key.Matches(msg, t.keys.Filter):
		if len(t.filter.keys) == 0 {
			return t, nil
		}
		t.focus = focusFilter
		t.filter, cmd = t.filter.Focus(t.filter.focus)
		return t, cmd

	case key.Matches(msg, t.keys.Clear):
		t.filter = t.filter.Reset()
		t.ctl, cmd = t.ctl.ApplyFilter(models.Filter{})

	case key.Matches(msg, t.keys.Create):
		t.ctl, cmd = t.ctl.Create()
		return t.sync(cmd)

	case key.Matches(msg, t.keys.Edit):
		if row, ok := t.selected(); ok {
			t.ctl, cmd = t.ctl.Update(row.Edit())
			return t.sync(cmd)
		}
		return t, nil

	case key.Matches(msg, t.keys.Delete):
		if row, ok := t.selected(); ok {
			t.ctl, cmd = t.ctl.Update(row.Delete())
			return t.sync(cmd)
		}
		return t, nil

	case key.Matches(msg, t.keys.Open):
		items := t.ctl.State().Items
		if i := t.list.Index(); t.open != nil && i < len(items) {
			return t, t.open(items[i])
		}
		return t, nil

	case key.Matches(msg, t.keys.Back):
		t.ctl = t.ctl.DismissStatus()
		return t, nil
	}

	return t, t.withSpinner(cmd)
}

func (t listTab[T]) filterKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.String() {
	case "esc":
		t.focus = focusList
		t.filter = t.filter.Blur()
		return t, nil

	case "tab":
		t.filter, cmd = t.filter.Focus(t.filter.focus + 1)
		return t, cmd

	case "shift+tab":
		t.filter, cmd = t.filter.Focus(t.filter.focus - 1)
		return t, cmd

	case "enter":
		f, err := admin.ParseFilter(t.filter.Values())
		if err != nil {
			t.filter.err = err.Error()
			return t, nil
		}
		t.filter.err = ""
		t.filter = t.filter.Blur()
		t.focus = focusList
		t.list.ResetSelected()
		t.ctl, cmd = t.ctl.ApplyFilter(f)
		return t, t.withSpinner(cmd)
	}

	t.filter, cmd = t.filter.Update(msg)
	return t, cmd
}

func (t listTab[T]) dialogKey(msg tea.KeyMsg) (tab, tea.Cmd) {
	d := t.ctl.State().Dialog
	if !d.Open() || d.Busy() {
		return t, nil
	}

	var cmd tea.Cmd
	if d.Kind == admin.DialogDelete {
		switch {
		case key.Matches(msg, t.keys.Confirm):
			t.ctl, cmd = t.ctl.ConfirmDelete()
			return t, t.withSpinner(cmd)
		case key.Matches(msg, t.keys.Deny):
			t.ctl, cmd = t.ctl.Cancel()
			return t, cmd
		}
		return t, nil
	}

	switch {
	case msg.String() == "esc":
		t.ctl, cmd = t.ctl.Cancel()
		return t, cmd
	case key.Matches(msg, t.keys.Submit), msg.String() == "enter" && !t.form.Multiline():
		t.ctl, cmd = t.ctl.Submit(t.form.Values())
		return t, t.withSpinner(cmd)
	}

	t.form, cmd = t.form.Update(msg, t.keys)
	return t, cmd
}

// sync follows the controller state: it refreshes the cards, keeps the
// selection in range and builds the form when a dialog opens.
func (t listTab[T]) sync(cmd tea.Cmd) (tab, tea.Cmd) {
	st := t.ctl.State()

	rows := t.ctl.Rows()
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = rowItem{r}
	}
	cmd = tea.Batch(cmd, t.list.SetItems(items))
	if t.list.Index() >= len(items) {
		t.list.Select(max(len(items)-1, 0))
	}

	d := st.Dialog
	if !d.Open() {
		return t, cmd
	}

	t.focus = focusDialog
	if d.Kind == admin.DialogDelete || t.formFor == d.Kind {
		return t, cmd
	}

	schema := t.ctl.Schema()
	title := "Edit " + schema.Noun
	if d.Kind == admin.DialogCreate {
		title = schema.CreateTitle
	}

	var focus tea.Cmd
	t.form, focus = newForm(title, schema.Fields, d.Values, d.Kind == admin.DialogEdit)
	t.formFor = d.Kind
	return t, tea.Batch(cmd, focus)
}

func (t listTab[T]) busy() bool {
	st := t.ctl.State()
	return st.Loading || st.Dialog.Busy()
}

func (t listTab[T]) withSpinner(cmd tea.Cmd) tea.Cmd {
	if cmd == nil || !t.busy() {
		return cmd
	}
	return tea.Batch(cmd, t.spin.Tick)
}

func (t listTab[T]) selected() (admin.Row, bool) {
	it, ok := t.list.SelectedItem().(rowItem)
	return it.row, ok
}

func (t listTab[T]) View() string {
	st := t.ctl.State()

	if st.Dialog.Open() {
		return t.dialogView(st.Dialog)
	}

	var s strings.Builder

	if len(t.filter.keys) > 0 {
		s.WriteString(t.filter.View(t.focus == focusFilter))
		s.WriteString("\n\n")
	}

	empty := len(t.list.Items()) == 0
	switch {
	case st.Loading && empty:
		s.WriteString(t.spin.View() + " Loading...")
	case empty:
		s.WriteString(helpStyle.Render(t.ctl.Schema().Empty))
	default:
		s.WriteString(t.list.View())
	}
	s.WriteString("\n\n")

	s.WriteString(pagerView(t.ctl.Pager()))
	if st.Loading && !empty {
		s.WriteString(" " + t.spin.View())
	}
	s.WriteString("\n")

	if st.Err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", st.Err)))
	} else if st.Status != "" {
		s.WriteString(statusStyle.Render(st.Status))
	}

	return s.String()
}

func (t listTab[T]) dialogView(d admin.Dialog) string {
	var body string
	if d.Kind == admin.DialogDelete {
		noun := t.ctl.Schema().Noun
		body = titleStyle.Render("Delete "+noun) + "\n" +
			fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(noun)) + "\n\n" +
			dialogFooter(d, t.spin.View(), "Deleting...")
	} else {
		body = t.form.View(d, t.spin.View())
	}

	box := dialogStyle.Render(body)
	if t.width == 0 || t.height == 0 {
		return box
	}
	return lipgloss.Place(t.width, t.height, lipgloss.Center, lipgloss.Center, box)
}

// rowItem is a controller row shown by the list.
type rowItem struct {
	row admin.Row
}

func (i rowItem) Title() string { return i.row.Card.Title }

func (i rowItem) Description() string {
	fields := make([]string, 0, len(i.row.Card.Fields))
	for _, f := range i.row.Card.Fields {
		if f.Value == "" {
			continue
		}
		fields = append(fields, f.Label+": "+f.Value)
	}
	return strings.Join(fields, "  ")
}

func (i rowItem) FilterValue() string { return i.row.Card.Title }

var _ list.DefaultItem = rowItem{}

// cardHeight is the rendered height of a card: three lines inside a border.
const cardHeight = 5

// cardDelegate draws list items as bordered cards.
type cardDelegate struct{}

func (d cardDelegate) Height() int                         { return cardHeight }
func (d cardDelegate) Spacing() int                        { return 0 }
func (d cardDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	fmt.Fprint(w, renderCard(it.row.Card, m.Width(), index == m.Index()))
}

// renderCard draws the title, the fields and the link, one line each, cut to
// the card width so every card has the same height.
func renderCard(c admin.Card, width int, selected bool) string {
	inner := max(width-4, 10)

	fields := make([]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		if f.Value == "" {
			continue
		}
		fields = append(fields, labelStyle.Render(f.Label+":")+" "+f.Value)
	}

	lines := []string{
		articleTitleStyle.Render(c.Title),
		strings.Join(fields, "  "),
		"",
	}
	if c.Link != "" {
		lines[2] = linkStyle.Render(c.Link)
	}
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, inner, "…")
	}

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	return style.Width(inner + 2).Render(strings.Join(lines, "\n"))
}

func pagerView(p admin.Pager) string {
	prev, next := pagerStyle.Render("‹ Prev"), pagerStyle.Render("Next ›")
	if p.PrevDisabled() {
		prev = disabledStyle.Render("‹ Prev")
	}
	if p.NextDisabled() {
		next = disabledStyle.Render("Next ›")
	}
	return prev + "  " + pagerStyle.Render(p.Label()) + "  " + next
}
