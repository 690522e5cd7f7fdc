package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomaskoefod/newsadmin/internal/admin"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

type newsStub struct {
	mu        sync.Mutex
	items     []models.Article
	total     int
	queries   []admin.Query
	updated   map[models.ID]admin.Values
	deleted   []models.ID
	updateErr error
}

func (s *newsStub) List(_ context.Context, q admin.Query) (admin.Page[models.Article], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, q)
	return admin.Page[models.Article]{Items: s.items, TotalPages: s.total}, nil
}

func (s *newsStub) Create(context.Context, admin.Values) error { return admin.ErrNotSupported }

func (s *newsStub) Update(_ context.Context, id models.ID, v admin.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.updated == nil {
		s.updated = map[models.ID]admin.Values{}
	}
	s.updated[id] = v
	return nil
}

func (s *newsStub) Delete(_ context.Context, id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *newsStub) Queries() []admin.Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]admin.Query(nil), s.queries...)
}

type usersStub struct {
	mu      sync.Mutex
	users   []models.User
	created []admin.Values
}

func (s *usersStub) List(context.Context, admin.Query) (admin.Page[models.User], error) {
	return admin.Page[models.User]{Items: s.users, TotalPages: 1}, nil
}

func (s *usersStub) Create(_ context.Context, v admin.Values) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, v)
	return nil
}

func (s *usersStub) Update(context.Context, models.ID, admin.Values) error { return nil }

func (s *usersStub) Delete(context.Context, models.ID) error { return nil }

// cmdTimeout drops commands that wait on timers, like cursor blinks.
const cmdTimeout = 150 * time.Millisecond

// run executes a command, flattening batches, and returns the messages that
// arrived in time.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(cmdTimeout):
		return nil
	}

	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	}

	results := make([][]tea.Msg, len(batch))
	var wg sync.WaitGroup
	for i, c := range batch {
		i, c := i, c
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run(c)
		}()
	}
	wg.Wait()

	var res []tea.Msg
	for _, r := range results {
		res = append(res, r...)
	}
	return res
}

// send feeds messages to the model along with everything their commands
// produce. Spinner ticks are not followed.
func send(m Model, msgs ...tea.Msg) Model {
	var tm tea.Model = m
	queue := msgs
	for i := 0; len(queue) > 0 && i < 500; i++ {
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		var cmd tea.Cmd
		tm, cmd = tm.Update(msg)
		queue = append(queue, run(cmd)...)
	}
	return tm.(Model)
}

func keys(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	saveKey  = tea.KeyMsg{Type: tea.KeyCtrlS}
)

func newTestModel(t *testing.T, news *newsStub, users *usersStub) Model {
	t.Helper()
	m := New(
		admin.New(admin.NewsSchema(""), admin.Resource[models.Article](news), admin.Options{}),
		admin.New(admin.UserSchema(), admin.Resource[models.User](users), admin.Options{}),
		NewRenderer("notty", time.Minute),
		nil,
	)
	msgs := append(run(m.Init()), tea.WindowSizeMsg{Width: 120, Height: 60})
	return send(m, msgs...)
}

func sampleNews() *newsStub {
	return &newsStub{
		total: 2,
		items: []models.Article{
			{ID: "a-1", Title: "Election results", Source: "AP", Sentiment: models.SentimentNegative, Content: "<p>Votes <b>counted</b></p>"},
			{ID: "a-2", Title: "Harvest festival", Source: "Local", Sentiment: models.SentimentPositive},
		},
	}
}

func sampleUsers() *usersStub {
	return &usersStub{users: []models.User{{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true}}}
}

func TestModel_ListsNews(t *testing.T) {
	news := sampleNews()
	m := newTestModel(t, news, sampleUsers())

	out := m.View()
	assert.Contains(t, out, "News")
	assert.Contains(t, out, "Users")
	assert.Contains(t, out, "Election results")
	assert.Contains(t, out, "Harvest festival")
	assert.Contains(t, out, "Page 1 of 2")

	require.NotEmpty(t, news.Queries())
	assert.Equal(t, 1, news.Queries()[0].Page)
}

func TestModel_SwitchTabs(t *testing.T) {
	m := newTestModel(t, sampleNews(), sampleUsers())

	m = send(m, tabKey)
	out := m.View()
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "Page 1 of 1")
	assert.NotContains(t, out, "Election results")

	m = send(m, tabKey)
	assert.Contains(t, m.View(), "Election results")
}

func TestModel_EmptyList(t *testing.T) {
	m := newTestModel(t, &newsStub{total: 0}, sampleUsers())
	assert.Contains(t, m.View(), "No news articles found.")
}

func TestModel_NextPage(t *testing.T) {
	news := sampleNews()
	m := newTestModel(t, news, sampleUsers())

	m = send(m, keys("n"))
	assert.Contains(t, m.View(), "Page 2 of 2")

	before := len(news.Queries())
	m = send(m, keys("n"))
	assert.Len(t, news.Queries(), before, "no request past the last page")
}

func TestModel_DeleteArticle(t *testing.T) {
	news := sampleNews()
	m := newTestModel(t, news, sampleUsers())
	listed := len(news.Queries())

	m = send(m, keys("d"))
	assert.Contains(t, m.View(), "Are you sure you want to delete this news?")
	assert.True(t, m.tabs[0].Capturing())

	m = send(m, keys("y"))
	assert.Equal(t, []models.ID{"a-1"}, news.deleted)
	assert.Contains(t, m.View(), "News deleted successfully.")
	assert.False(t, m.tabs[0].Capturing(), "list has focus again")
	assert.Len(t, news.Queries(), listed+1)
}

func TestModel_CancelDelete(t *testing.T) {
	news := sampleNews()
	m := newTestModel(t, news, sampleUsers())

	m = send(m, keys("j"), keys("d"), escKey)
	assert.Empty(t, news.deleted)
	assert.False(t, m.tabs[0].Capturing())
	assert.NotContains(t, m.View(), "Are you sure")
}

func TestModel_EditArticle(t *testing.T) {
	news := sampleNews()
	m := newTestModel(t, news, sampleUsers())

	m = send(m, keys("e"))
	assert.Contains(t, m.View(), "Edit News")

	m = send(m, keys(" v2"), saveKey)

	require.Contains(t, news.updated, models.ID("a-1"))
	v := news.updated["a-1"]
	assert.Contains(t, v["title"], "v2")
	assert.Equal(t, "Negative", v["sentiment"])
	assert.Contains(t, m.View(), "News updated successfully.")
	assert.False(t, m.tabs[0].Capturing())
}

func TestModel_EditFailureKeepsDialog(t *testing.T) {
	news := sampleNews()
	news.updateErr = errors.New("Title already taken")
	m := newTestModel(t, news, sampleUsers())

	m = send(m, keys("e"), saveKey)

	out := m.View()
	assert.Contains(t, out, "Edit News")
	assert.Contains(t, out, "Error: Title already taken")
	assert.True(t, m.tabs[0].Capturing())

	m = send(m, escKey)
	assert.False(t, m.tabs[0].Capturing())
}

func TestModel_CreateUser(t *testing.T) {
	users := sampleUsers()
	m := newTestModel(t, sampleNews(), users)

	m = send(m, tabKey, keys("a"))
	assert.Contains(t, m.View(), "Add New User")

	m = send(m, keys("bob"), tabKey, keys("b@example.com"), tabKey, keys("pw"), saveKey)

	require.Len(t, users.created, 1)
	assert.Equal(t, "bob", users.created[0]["username"])
	assert.Equal(t, "b@example.com", users.created[0]["email"])
	assert.Equal(t, "pw", users.created[0]["password"])
	assert.Equal(t, "false", users.created[0]["is_staff"])
	assert.Contains(t, m.View(), "User created successfully.")
}

func TestModel_CreateUserNeedsPassword(t *testing.T) {
	users := sampleUsers()
	m := newTestModel(t, sampleNews(), users)

	m = send(m, tabKey, keys("a"), keys("bob"), tabKey, keys("b@example.com"), enterKey)

	assert.Empty(t, users.created)
	assert.Contains(t, m.View(), "Password is required for new users")
}

func TestModel_Filter(t *testing.T) {
	news := sampleNews()
	m := newTestModel(t, news, sampleUsers())
	listed := len(news.Queries())

	m = send(m, keys("/"), tabKey, keys("2024-13-40"), enterKey)
	assert.Contains(t, m.View(), "date must look like YYYY-MM-DD")
	assert.Len(t, news.Queries(), listed)
	assert.True(t, m.tabs[0].Capturing())

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlU}, enterKey)
	assert.False(t, m.tabs[0].Capturing())
	assert.NotContains(t, m.View(), "date must look like")

	m = send(m, keys("/"), tea.KeyMsg{Type: tea.KeyShiftTab}, keys("election"), enterKey)
	q := news.Queries()
	require.NotEmpty(t, q)
	assert.Equal(t, admin.Query{Filter: models.Filter{Search: "election"}, Page: 1}, q[len(q)-1])
}

func TestModel_Detail(t *testing.T) {
	m := newTestModel(t, sampleNews(), sampleUsers())

	tm, cmd := m.Update(enterKey)
	require.NotNil(t, cmd)
	tm, cmd = tm.Update(cmd())
	m = tm.(Model)
	assert.Equal(t, ViewDetail, m.view)
	require.NotNil(t, cmd)

	tm, _ = m.Update(cmd())
	m = tm.(Model)
	out := m.View()
	assert.Contains(t, out, "Election results")
	assert.Contains(t, out, "counted")

	m = send(m, escKey)
	assert.Equal(t, ViewList, m.view)
}

func TestModel_Help(t *testing.T) {
	m := newTestModel(t, sampleNews(), sampleUsers())

	m = send(m, keys("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	m = send(m, escKey)
	assert.Equal(t, ViewList, m.view)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, sampleNews(), sampleUsers())

	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_DialogOpensOnKeyPress(t *testing.T) {
	news := sampleNews()
	m := newTestModel(t, news, sampleUsers())

	// no command is run between the two key presses
	tm, _ := m.Update(keys("d"))
	m = tm.(Model)
	assert.True(t, m.tabs[0].Capturing())
	assert.Contains(t, m.View(), "Are you sure you want to delete this news?")

	tm, cmd := m.Update(escKey)
	m = send(tm.(Model), run(cmd)...)
	assert.False(t, m.tabs[0].Capturing())
	assert.Empty(t, news.deleted)

	tm, _ = m.Update(keys("e"))
	m = tm.(Model)
	assert.True(t, m.tabs[0].Capturing())
	assert.Contains(t, m.View(), "Edit News")
}

func TestModel_SelectionFollowsCursor(t *testing.T) {
	news := sampleNews()
	m := newTestModel(t, news, sampleUsers())

	m = send(m, keys("j"), keys("j"), keys("d"), keys("y"))
	assert.Equal(t, []models.ID{"a-2"}, news.deleted, "cursor stops on the last card")

	m = send(m, keys("k"), keys("d"), keys("y"))
	assert.Equal(t, []models.ID{"a-2", "a-1"}, news.deleted)
}
