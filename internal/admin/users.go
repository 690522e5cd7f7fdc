package admin

import (
	"context"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/thomaskoefod/newsadmin/pkg/models"
)

// UserBackend is the part of the API client the users list needs.
type UserBackend interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, in models.UserInput) error
	UpdateUser(ctx context.Context, in models.UserInput) error
	DeleteUser(ctx context.Context, id int64) error
}

// UserResource serves user accounts. The backend returns every account at
// once, so search and paging happen here.
type UserResource struct {
	Backend  UserBackend
	PageSize int
}

func (r UserResource) List(ctx context.Context, q Query) (Page[models.User], error) {
	all, err := r.Backend.ListUsers(ctx)
	if err != nil {
		return Page[models.User]{}, err
	}

	search := strings.ToLower(strings.TrimSpace(q.Filter.Search))
	matched := lo.Filter(all, func(u models.User, _ int) bool {
		return search == "" || lo.SomeBy([]string{u.Username, u.Email, u.FirstName, u.LastName}, func(s string) bool {
			return strings.Contains(strings.ToLower(s), search)
		})
	})

	size := r.PageSize
	if size <= 0 {
		size = len(matched)
	}
	if size == 0 {
		return Page[models.User]{TotalPages: 1}, nil
	}

	chunks := lo.Chunk(matched, size)
	total := max(len(chunks), 1)
	if q.Page < 1 || q.Page > len(chunks) {
		return Page[models.User]{TotalPages: total}, nil
	}
	return Page[models.User]{Items: chunks[q.Page-1], TotalPages: total}, nil
}

func (r UserResource) Create(ctx context.Context, v Values) error {
	return r.Backend.CreateUser(ctx, UserInput(v, 0))
}

func (r UserResource) Update(ctx context.Context, id models.ID, v Values) error {
	n, err := id.Int64()
	if err != nil {
		return err
	}
	return r.Backend.UpdateUser(ctx, UserInput(v, n))
}

func (r UserResource) Delete(ctx context.Context, id models.ID) error {
	n, err := id.Int64()
	if err != nil {
		return err
	}
	return r.Backend.DeleteUser(ctx, n)
}

// UserInput builds the create or update payload from form values. The
// password is passed through untrimmed.
func UserInput(v Values, id int64) models.UserInput {
	return models.UserInput{
		ID:        id,
		Username:  v.Get("username"),
		Email:     v.Get("email"),
		Password:  v["password"],
		FirstName: v.Get("first_name"),
		LastName:  v.Get("last_name"),
		IsStaff:   v.Bool("is_staff"),
	}
}

// UserSchema is the entity table of user accounts.
func UserSchema() Schema[models.User] {
	return Schema[models.User]{
		Entity:      "user",
		Noun:        "User",
		Title:       "Users",
		Empty:       "No users found.",
		Filters:     []string{FilterSearch},
		CanCreate:   true,
		CreateTitle: "Add New User",
		Fields: []Field{
			{Key: "username", Label: "Username", Kind: FieldText},
			{Key: "email", Label: "Email", Kind: FieldText},
			{Key: "password", Label: "Password", Kind: FieldPassword, EditHint: "leave blank to keep the current password"},
			{Key: "first_name", Label: "First name", Kind: FieldText},
			{Key: "last_name", Label: "Last name", Kind: FieldText},
			{Key: "is_staff", Label: "Admin", Kind: FieldBool},
		},
		ID:       func(u models.User) models.ID { return u.Key() },
		Render:   renderUser,
		Populate: populateUser,
		Validate: validateUser,
	}
}

func renderUser(u models.User) Card {
	return Card{
		Title: u.Username,
		Fields: []CardField{
			{Label: "Email", Value: u.Email},
			{Label: "Name", Value: u.FullName()},
			{Label: "Admin", Value: lo.Ternary(u.IsStaff, "Yes", "No")},
			{Label: "Status", Value: lo.Ternary(u.IsActive, "Active", "Inactive")},
		},
	}
}

func populateUser(u models.User) Values {
	return Values{
		"username":   u.Username,
		"email":      u.Email,
		"password":   "",
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"is_staff":   strconv.FormatBool(u.IsStaff),
	}
}

func validateUser(v Values, creating bool) error {
	if v.Get("username") == "" || v.Get("email") == "" {
		return &ValidationError{Field: "username", Message: "Username and Email are required fields"}
	}
	if creating && v["password"] == "" {
		return &ValidationError{Field: "password", Message: "Password is required for new users"}
	}
	return nil
}
