package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/thomaskoefod/newsadmin/internal/admin"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

type View int

const (
	ViewList View = iota
	ViewDetail
	ViewHelp
)

// Model is the root of the console: a tab per entity, the article detail
// screen and the help screen.
type Model struct {
	tabs     []tab
	active   int
	keys     keyMap
	help     help.Model
	renderer *Renderer
	log      *slog.Logger

	view View
	// back is the view the help screen returns to.
	back View

	detail        viewport.Model
	detailArticle models.Article
	detailErr     error

	width  int
	height int

	// startup holds the first fetches, issued in New so the controllers
	// remember them.
	startup []tea.Cmd
}

type openDetailMsg struct {
	article models.Article
}

type detailRenderedMsg struct {
	id      models.ID
	width   int
	content string
	err     error
}

// New makes the root model for the news and users controllers.
func New(news admin.Controller[models.Article], users admin.Controller[models.User], r *Renderer, lg *slog.Logger) Model {
	if lg == nil {
		lg = slog.Default()
	}

	openArticle := func(a models.Article) tea.Cmd {
		return func() tea.Msg { return openDetailMsg{article: a} }
	}

	m := Model{
		tabs: []tab{
			newListTab(news, openArticle),
			newListTab[models.User](users, nil),
		},
		keys:     defaultKeys(),
		help:     help.New(),
		renderer: r,
		log:      lg.With(slog.String("prefix", "tui")),
		detail:   viewport.New(0, 0),
	}

	for i, t := range m.tabs {
		var cmd tea.Cmd
		m.tabs[i], cmd = t.Init()
		m.startup = append(m.startup, cmd)
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.startup...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.detail.Width = msg.Width
		m.detail.Height = max(msg.Height-4, 1)
		for i, t := range m.tabs {
			m.tabs[i] = t.SetSize(msg.Width, max(msg.Height-6, 1))
		}
		if m.view == ViewDetail {
			return m, m.renderDetail(m.detailArticle)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case openDetailMsg:
		m.view = ViewDetail
		m.detailArticle = msg.article
		m.detailErr = nil
		m.detail.SetContent(helpStyle.Render("Rendering..."))
		return m, m.renderDetail(msg.article)

	case detailRenderedMsg:
		if msg.id != m.detailArticle.ID || msg.width != m.renderWidth() {
			return m, nil
		}
		if msg.err != nil {
			m.log.Warn("failed to render article", slog.String("id", msg.id.String()), slog.Any("err", msg.err))
			m.detailErr = msg.err
			return m, nil
		}
		m.detail.SetContent(msg.content)
		m.detail.GotoTop()
		return m, nil
	}

	// everything else belongs to the tabs; each one picks its own messages
	cmds := make([]tea.Cmd, 0, len(m.tabs))
	for i, t := range m.tabs {
		var cmd tea.Cmd
		m.tabs[i], cmd = t.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.view {
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	}
	return m.handleListKeys(msg)
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.tabs[m.active]

	if !active.Capturing() {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.view, m.back = ViewHelp, ViewList
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			m.active = (m.active + 1) % len(m.tabs)
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.active = (m.active - 1 + len(m.tabs)) % len(m.tabs)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.tabs[m.active], cmd = active.HandleKey(msg)
	return m, cmd
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.view = ViewList
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.view, m.back = ViewHelp, ViewDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Back, m.keys.Help, m.keys.Quit) {
		m.view = m.back
	}
	return m, nil
}

func (m Model) renderDetail(a models.Article) tea.Cmd {
	if m.renderer == nil {
		return nil
	}
	r, width := m.renderer, m.renderWidth()
	return func() tea.Msg {
		out, err := r.Render(a, width)
		return detailRenderedMsg{id: a.ID, width: width, content: out, err: err}
	}
}

func (m Model) renderWidth() int {
	return max(m.width-4, 20)
}

func (m Model) View() string {
	switch m.view {
	case ViewDetail:
		return m.renderDetailView()
	case ViewHelp:
		return m.renderHelp()
	}
	return m.renderList()
}

func (m Model) renderTabs() string {
	parts := make([]string, len(m.tabs))
	for i, t := range m.tabs {
		if i == m.active {
			parts[i] = activeTabStyle.Render(t.Title())
			continue
		}
		parts[i] = tabStyle.Render(t.Title())
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

func (m Model) renderList() string {
	var s strings.Builder

	active := m.tabs[m.active]
	s.WriteString(m.renderTabs())
	s.WriteString("\n")
	s.WriteString(active.View())
	s.WriteString("\n")
	s.WriteString(m.help.View(active.Help()))

	return s.String()
}

func (m Model) renderDetailView() string {
	var s strings.Builder

	s.WriteString(m.detail.View())
	s.WriteString("\n")

	if m.detailErr != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.detailErr)))
		s.WriteString("\n")
	}

	s.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%% • ↑/↓: scroll • esc: back • ?: help • q: quit", m.detail.ScrollPercent()*100)))

	return s.String()
}

func (m Model) renderHelp() string {
	active := m.tabs[m.active]

	full := m.help
	full.ShowAll = true

	var s strings.Builder
	s.WriteString(titleStyle.Render("News Admin - Keyboard Shortcuts"))
	s.WriteString("\n")
	s.WriteString(full.View(listHelp{keys: m.keys, canCreate: true, canOpen: true}))
	s.WriteString("\n\n")
	s.WriteString(labelStyle.Render("In dialogs:"))
	s.WriteString("\n")
	s.WriteString(full.View(formHelp{keys: m.keys}))
	s.WriteString("\n")
	s.WriteString(full.View(confirmHelp{keys: m.keys}))
	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(fmt.Sprintf("Current tab: %s. Article detail: ↑/↓ scroll, esc back.", active.Title())))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("Press ? or esc to close help"))

	return s.String()
}
