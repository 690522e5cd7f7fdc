// Package admin holds the list, filter and dialog controller shared by every
// managed entity type, and the entity tables for news and users.
package admin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/thomaskoefod/newsadmin/pkg/models"
)

var (
	// ErrNotSupported is returned by resources for operations the backend
	// does not offer for the entity.
	ErrNotSupported = errors.New("operation not supported")
)

// Query is one list request.
type Query struct {
	Filter models.Filter
	Page   int
}

// Page is one page of entities and the page count of the whole result.
type Page[T any] struct {
	Items      []T
	TotalPages int
}

// Resource is the backend side of one entity type.
type Resource[T any] interface {
	List(ctx context.Context, q Query) (Page[T], error)
	Create(ctx context.Context, v Values) error
	Update(ctx context.Context, id models.ID, v Values) error
	Delete(ctx context.Context, id models.ID) error
}

// Values are form values keyed by field key.
type Values map[string]string

// Get returns the trimmed value of a field.
func (v Values) Get(key string) string { return strings.TrimSpace(v[key]) }

// Bool reads a boolean field; anything unparsable is false.
func (v Values) Bool(key string) bool {
	b, _ := strconv.ParseBool(v.Get(key))
	return b
}

// Clone copies the values.
func (v Values) Clone() Values {
	res := make(Values, len(v))
	for k, val := range v {
		res[k] = val
	}
	return res
}

// Action names a mutation.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Mutation describes a finished mutation request.
type Mutation struct {
	Entity string
	Action Action
	ID     models.ID
	Err    error
}

// Recorder receives every finished mutation.
type Recorder interface {
	Record(ctx context.Context, m Mutation) error
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, m Mutation) error

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, m Mutation) error { return f(ctx, m) }
