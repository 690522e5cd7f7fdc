package admin

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

type FieldKind int

const (
	FieldText FieldKind = iota
	FieldMultiline
	FieldPassword
	FieldBool
	FieldChoice
)

// Field is one input of an edit form.
type Field struct {
	Key     string
	Label   string
	Kind    FieldKind
	Options []string
	// EditHint is shown next to the field when editing an existing entity.
	EditHint string
}

// Filter keys understood by ParseFilter.
const (
	FilterSearch     = "search"
	FilterDate       = "date"
	FilterSentiment  = "sentiment"
	FilterDepartment = "department"
)

// Card is the rendered form of one entity.
type Card struct {
	Title  string
	Fields []CardField
	Link   string
}

type CardField struct {
	Label string
	Value string
}

// Row is one rendered entity with its actions bound to its identifier.
type Row struct {
	ID     models.ID
	Card   Card
	Edit   tea.Cmd
	Delete tea.Cmd
}

// Schema is the entity table: how one entity type is identified, rendered,
// edited and validated.
type Schema[T any] struct {
	// Entity is the short machine name, used in logs and the journal.
	Entity string
	// Noun is the display name used in dialog titles and status messages.
	Noun string
	// Title heads the list.
	Title string
	// Empty is shown when the list has no items.
	Empty string
	// Filters are the filter keys offered for this entity.
	Filters []string
	// Fields of the edit and create forms.
	Fields []Field
	// CanCreate enables the create dialog.
	CanCreate bool
	// CreateTitle heads the create dialog.
	CreateTitle string

	ID       func(T) models.ID
	Render   func(T) Card
	Populate func(T) Values
	Validate func(v Values, creating bool) error
}

// ValidationError is a form value the backend would reject.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ParseFilter validates raw filter input. Empty values mean "any".
func ParseFilter(v Values) (models.Filter, error) {
	f := models.Filter{
		Search:     v.Get(FilterSearch),
		Date:       v.Get(FilterDate),
		Department: v.Get(FilterDepartment),
	}

	if f.Date != "" {
		if _, err := time.Parse(models.DateLayout, f.Date); err != nil {
			return models.Filter{}, &ValidationError{
				Field:   FilterDate,
				Message: fmt.Sprintf("date must look like YYYY-MM-DD, got %q", f.Date),
			}
		}
	}

	s, err := models.ParseSentiment(v.Get(FilterSentiment))
	if err != nil {
		return models.Filter{}, &ValidationError{Field: FilterSentiment, Message: err.Error()}
	}
	f.Sentiment = s

	return f, nil
}
