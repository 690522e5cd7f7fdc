package admin

import "github.com/thomaskoefod/newsadmin/pkg/models"

type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogEdit
	DialogCreate
	DialogDelete
)

func (k DialogKind) String() string {
	switch k {
	case DialogEdit:
		return "edit"
	case DialogCreate:
		return "create"
	case DialogDelete:
		return "delete"
	}
	return "none"
}

type DialogPhase int

const (
	PhaseClosed DialogPhase = iota
	PhaseOpen
	// PhaseBusy is an open dialog waiting for its request.
	PhaseBusy
)

// Dialog is the single modal of a list. It holds at most one entity: a copy
// of its form values for edit and create, only its identifier for delete.
type Dialog struct {
	Kind   DialogKind
	Phase  DialogPhase
	ID     models.ID
	Values Values
	Err    string
}

// Open reports whether the dialog is shown.
func (d Dialog) Open() bool { return d.Phase != PhaseClosed }

// Busy reports whether the dialog waits for the backend.
func (d Dialog) Busy() bool { return d.Phase == PhaseBusy }

// DialogClosed is emitted once every time a dialog closes.
type DialogClosed struct {
	Entity string
	Kind   DialogKind
}
