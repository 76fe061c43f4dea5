package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/me/loginhub/pkg/model"
)

const (
	adminUsersPath  = "/admin/users"
	tenantUsersPath = "/users"
)

func adminUserPath(id string) string {
	return adminUsersPath + "/" + url.PathEscape(id)
}

// ListAllUsers returns the users of every company.
func (c *Client) ListAllUsers(ctx context.Context) ([]model.User, error) {
	body, err := c.do(ctx, http.MethodGet, adminUsersPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]model.User](http.MethodGet+" "+adminUsersPath, body)
}

// CreateUser creates a user in any company.
func (c *Client) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return c.createUser(ctx, adminUsersPath, req)
}

// UpdateUser edits a user.
func (c *Client) UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	if req.Role != "" {
		if _, ok := model.ParseRole(string(req.Role)); !ok {
			return nil, model.NewValidationError("invalid user", model.FieldError{Field: "role", Message: "must be admin or usuario"})
		}
	}
	path := adminUserPath(id)
	body, err := c.do(ctx, http.MethodPut, path, req)
	if err != nil {
		return nil, err
	}
	user, err := decodeJSON[model.User](http.MethodPut+" "+path, body)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, adminUserPath(id), nil)
	return err
}

// ListTenantUsers returns the users of the caller's own company.
func (c *Client) ListTenantUsers(ctx context.Context) ([]model.User, error) {
	body, err := c.do(ctx, http.MethodGet, tenantUsersPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]model.User](http.MethodGet+" "+tenantUsersPath, body)
}

// CreateTenantUser creates a user in the caller's own company.
func (c *Client) CreateTenantUser(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	return c.createUser(ctx, tenantUsersPath, req)
}

func (c *Client) createUser(ctx context.Context, path string, req model.CreateUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}
	user, err := decodeJSON[model.User](http.MethodPost+" "+path, body)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
