package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

// State is everything a list screen shows. The controller owns it and hands
// out copies.
type State[T any] struct {
	Filter     models.Filter
	Page       int
	TotalPages int
	Items      []T
	Loading    bool
	Err        error
	Status     string
	Dialog     Dialog
}

// Options configure a Controller.
type Options struct {
	Logger *slog.Logger
	// Timeout bounds every backend call. Zero means no bound.
	Timeout  time.Duration
	Recorder Recorder
}

// Controller drives one entity list: fetching pages, filtering, paging and
// the edit, create and delete dialogs. Operations return the updated
// controller and the command to run, bubbletea style.
type Controller[T any] struct {
	schema Schema[T]
	res    Resource[T]
	opts   Options
	log    *slog.Logger

	// latest is the sequence number of the newest fetch; older responses
	// are dropped.
	latest uint64
	state  State[T]
}

type pageLoadedMsg[T any] struct {
	seq  uint64
	page int
	res  Page[T]
	err  error
}

type editRequestedMsg[T any] struct{ id models.ID }

type deleteRequestedMsg[T any] struct{ id models.ID }

type savedMsg[T any] struct {
	action Action
	err    error
}

type deletedMsg[T any] struct {
	id  models.ID
	err error
}

// New makes a controller for one entity type.
func New[T any](schema Schema[T], res Resource[T], opts Options) Controller[T] {
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return Controller[T]{
		schema: schema,
		res:    res,
		opts:   opts,
		log:    lg.With(slog.String("entity", schema.Entity)),
	}
}

// Schema returns the entity table.
func (c Controller[T]) Schema() Schema[T] { return c.schema }

// State returns a copy of the list state.
func (c Controller[T]) State() State[T] { return c.state }

// Pager returns the pagination state.
func (c Controller[T]) Pager() Pager {
	return Pager{Current: c.state.Page, Total: c.state.TotalPages}
}

// Init fetches the first page.
func (c Controller[T]) Init() (Controller[T], tea.Cmd) { return c.Fetch(1) }

// Fetch requests a page with the current filter. Pages below 1 are ignored.
func (c Controller[T]) Fetch(page int) (Controller[T], tea.Cmd) {
	if page < 1 {
		c.log.Debug("ignoring fetch of invalid page", slog.Int("page", page))
		return c, nil
	}

	c.latest++
	seq := c.latest
	c.state.Loading = true

	q := Query{Filter: c.state.Filter, Page: page}
	res, timeout := c.res, c.opts.Timeout

	return c, func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()

		p, err := res.List(ctx, q)
		return pageLoadedMsg[T]{seq: seq, page: page, res: p, err: err}
	}
}

// Refresh fetches the current page again.
func (c Controller[T]) Refresh() (Controller[T], tea.Cmd) {
	return c.Fetch(max(c.state.Page, 1))
}

// NextPage fetches the next page unless the list is on its last one.
func (c Controller[T]) NextPage() (Controller[T], tea.Cmd) {
	p := c.Pager()
	if p.NextDisabled() {
		return c, nil
	}
	return c.Fetch(p.current() + 1)
}

// PrevPage fetches the previous page unless the list is on its first one.
func (c Controller[T]) PrevPage() (Controller[T], tea.Cmd) {
	p := c.Pager()
	if p.PrevDisabled() {
		return c, nil
	}
	return c.Fetch(p.current() - 1)
}

// ApplyFilter replaces the filter and fetches its first page.
func (c Controller[T]) ApplyFilter(f models.Filter) (Controller[T], tea.Cmd) {
	c.state.Filter = f
	return c.Fetch(1)
}

// Rows renders the current items. Each row carries its identifier and the
// edit and delete actions bound to it.
func (c Controller[T]) Rows() []Row {
	rows := make([]Row, 0, len(c.state.Items))
	for _, item := range c.state.Items {
		id := c.schema.ID(item)
		rows = append(rows, Row{
			ID:     id,
			Card:   c.schema.Render(item),
			Edit:   func() tea.Msg { return editRequestedMsg[T]{id: id} },
			Delete: func() tea.Msg { return deleteRequestedMsg[T]{id: id} },
		})
	}
	return rows
}

// Edit opens the edit dialog populated from the in-memory copy of the
// entity. Unknown identifiers are logged and leave the dialog closed.
func (c Controller[T]) Edit(id models.ID) (Controller[T], tea.Cmd) {
	if c.state.Dialog.Open() {
		return c, nil
	}

	item, ok := c.find(id)
	if !ok {
		c.log.Error("entity to edit is not in the current list", slog.String("id", id.String()))
		return c, nil
	}

	c.state.Dialog = Dialog{
		Kind:   DialogEdit,
		Phase:  PhaseOpen,
		ID:     id,
		Values: c.schema.Populate(item),
	}
	return c, nil
}

// Create opens an empty form, if the entity can be created.
func (c Controller[T]) Create() (Controller[T], tea.Cmd) {
	if !c.schema.CanCreate || c.state.Dialog.Open() {
		return c, nil
	}
	c.state.Dialog = Dialog{Kind: DialogCreate, Phase: PhaseOpen, Values: Values{}}
	return c, nil
}

// Delete opens the confirmation dialog for an entity.
func (c Controller[T]) Delete(id models.ID) (Controller[T], tea.Cmd) {
	if c.state.Dialog.Open() {
		return c, nil
	}
	c.state.Dialog = Dialog{Kind: DialogDelete, Phase: PhaseOpen, ID: id}
	return c, nil
}

// Submit validates the form and sends the update or create request. A
// validation failure keeps the dialog open with the message.
func (c Controller[T]) Submit(v Values) (Controller[T], tea.Cmd) {
	d := c.state.Dialog
	if d.Phase != PhaseOpen || (d.Kind != DialogEdit && d.Kind != DialogCreate) {
		return c, nil
	}

	creating := d.Kind == DialogCreate
	d.Values = v.Clone()
	if err := c.schema.Validate(d.Values, creating); err != nil {
		d.Err = err.Error()
		c.state.Dialog = d
		return c, nil
	}

	d.Phase = PhaseBusy
	d.Err = ""
	c.state.Dialog = d

	action := ActionUpdate
	if creating {
		action = ActionCreate
	}
	res, id, values := c.res, d.ID, d.Values

	return c, c.mutation(action, id, func(ctx context.Context) error {
		if creating {
			return res.Create(ctx, values)
		}
		return res.Update(ctx, id, values)
	}, func(err error) tea.Msg {
		return savedMsg[T]{action: action, err: err}
	})
}

// ConfirmDelete sends the delete request for the confirmed entity.
func (c Controller[T]) ConfirmDelete() (Controller[T], tea.Cmd) {
	d := c.state.Dialog
	if d.Kind != DialogDelete || d.Phase != PhaseOpen {
		return c, nil
	}

	d.Phase = PhaseBusy
	d.Err = ""
	c.state.Dialog = d

	res, id := c.res, d.ID
	return c, c.mutation(ActionDelete, id, func(ctx context.Context) error {
		return res.Delete(ctx, id)
	}, func(err error) tea.Msg {
		return deletedMsg[T]{id: id, err: err}
	})
}

// Cancel closes an open dialog. A dialog waiting for the backend stays.
func (c Controller[T]) Cancel() (Controller[T], tea.Cmd) {
	if !c.state.Dialog.Open() || c.state.Dialog.Busy() {
		return c, nil
	}
	return c.closeDialog()
}

// DismissStatus clears the status and error lines.
func (c Controller[T]) DismissStatus() Controller[T] {
	c.state.Status = ""
	c.state.Err = nil
	return c
}

// Update handles the messages produced by the controller's commands and
// row actions. Other messages are ignored.
func (c Controller[T]) Update(msg tea.Msg) (Controller[T], tea.Cmd) {
	switch msg := msg.(type) {
	case pageLoadedMsg[T]:
		return c.pageLoaded(msg)

	case editRequestedMsg[T]:
		return c.Edit(msg.id)

	case deleteRequestedMsg[T]:
		return c.Delete(msg.id)

	case savedMsg[T]:
		if msg.err != nil {
			c = c.failDialog(msg.err)
			return c, nil
		}
		verb := "updated"
		if msg.action == ActionCreate {
			verb = "created"
		}
		c.state.Status = fmt.Sprintf("%s %s successfully.", c.schema.Noun, verb)
		return c.closeAndRefresh()

	case deletedMsg[T]:
		if msg.err != nil {
			c = c.failDialog(msg.err)
			return c, nil
		}
		c.state.Status = fmt.Sprintf("%s deleted successfully.", c.schema.Noun)
		return c.closeAndRefresh()
	}

	return c, nil
}

func (c Controller[T]) pageLoaded(msg pageLoadedMsg[T]) (Controller[T], tea.Cmd) {
	if msg.seq != c.latest {
		c.log.Debug("dropping stale page", slog.Int("page", msg.page))
		return c, nil
	}
	c.state.Loading = false

	if msg.err != nil {
		c.log.Warn("failed to fetch page", slog.Int("page", msg.page), slog.Any("err", msg.err))
		c.state.Err = msg.err
		return c, nil
	}

	// the list shrank under us, e.g. the last item of the last page was deleted
	if msg.res.TotalPages >= 1 && msg.page > msg.res.TotalPages {
		return c.Fetch(msg.res.TotalPages)
	}

	c.state.Err = nil
	c.state.Items = msg.res.Items
	c.state.Page = msg.page
	c.state.TotalPages = msg.res.TotalPages
	return c, nil
}

func (c Controller[T]) failDialog(err error) Controller[T] {
	c.log.Warn("mutation failed", slog.String("dialog", c.state.Dialog.Kind.String()), slog.Any("err", err))
	if c.state.Dialog.Busy() {
		c.state.Dialog.Phase = PhaseOpen
		c.state.Dialog.Err = err.Error()
		return c
	}
	c.state.Err = err
	return c
}

func (c Controller[T]) closeAndRefresh() (Controller[T], tea.Cmd) {
	c, closed := c.closeDialog()
	c, fetch := c.Refresh()
	return c, tea.Batch(closed, fetch)
}

// closeDialog closes the dialog and emits its DialogClosed event.
func (c Controller[T]) closeDialog() (Controller[T], tea.Cmd) {
	if !c.state.Dialog.Open() {
		return c, nil
	}
	ev := DialogClosed{Entity: c.schema.Entity, Kind: c.state.Dialog.Kind}
	c.state.Dialog = Dialog{}
	return c, func() tea.Msg { return ev }
}

func (c Controller[T]) mutation(action Action, id models.ID, call func(context.Context) error, done func(error) tea.Msg) tea.Cmd {
	rec, timeout, entity, lg := c.opts.Recorder, c.opts.Timeout, c.schema.Entity, c.log

	return func() tea.Msg {
		ctx, cancel := callContext(timeout)
		defer cancel()

		err := call(ctx)
		if rec != nil {
			m := Mutation{Entity: entity, Action: action, ID: id, Err: err}
			if rerr := rec.Record(context.Background(), m); rerr != nil {
				lg.Warn("failed to record mutation", slog.Any("err", rerr))
			}
		}
		return done(err)
	}
}

func (c Controller[T]) find(id models.ID) (T, bool) {
	for _, item := range c.state.Items {
		if c.schema.ID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}
