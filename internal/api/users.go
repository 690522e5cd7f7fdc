package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/thomaskoefod/newsadmin/pkg/models"
)

// ListUsers fetches every user account.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	u, err := c.resolve(c.endpoints.Users, "")
	if err != nil {
		return nil, err
	}

	var res models.UserList
	if err := c.do(ctx, http.MethodGet, u, nil, &res); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return res.Users, nil
}

// CreateUser creates a user account. The password is required.
func (c *Client) CreateUser(ctx context.Context, in models.UserInput) error {
	in.ID = 0
	u, err := c.resolve(c.endpoints.Users, "")
	if err != nil {
		return err
	}
	if err := c.mutate(ctx, http.MethodPost, u, in, "Failed to save user"); err != nil {
		return fmt.Errorf("creating user %s: %w", in.Username, err)
	}
	return nil
}

// UpdateUser updates the account with in.ID.
func (c *Client) UpdateUser(ctx context.Context, in models.UserInput) error {
	u, err := c.resolve(c.endpoints.Users, "")
	if err != nil {
		return err
	}
	if err := c.mutate(ctx, http.MethodPut, u, in, "Failed to save user"); err != nil {
		return fmt.Errorf("updating user %d: %w", in.ID, err)
	}
	return nil
}

// DeleteUser deletes a user account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	u, err := c.resolve(c.endpoints.Users, "")
	if err != nil {
		return err
	}
	body := struct {
		ID int64 `json:"id"`
	}{ID: id}
	if err := c.mutate(ctx, http.MethodDelete, u, body, "Failed to delete user"); err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	return nil
}
