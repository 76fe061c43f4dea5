package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/me/loginhub/pkg/model"
)

const companiesPath = "/admin/companies"

func companyPath(id string) string {
	return companiesPath + "/" + url.PathEscape(id)
}

// ListCompanies returns every tenant company.
func (c *Client) ListCompanies(ctx context.Context) ([]model.Company, error) {
	body, err := c.do(ctx, http.MethodGet, companiesPath, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]model.Company](http.MethodGet+" "+companiesPath, body)
}

// GetCompany returns a single company.
func (c *Client) GetCompany(ctx context.Context, id string) (*model.Company, error) {
	path := companyPath(id)
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	company, err := decodeJSON[model.Company](http.MethodGet+" "+path, body)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// CreateCompany provisions a company and its initial admin.
func (c *Client) CreateCompany(ctx context.Context, req model.CreateCompanyRequest) (*model.CreateCompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, companiesPath, req)
	if err != nil {
		return nil, err
	}
	resp, err := decodeJSON[model.CreateCompanyResponse](http.MethodPost+" "+companiesPath, body)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateCompany edits the registration data of a company.
func (c *Client) UpdateCompany(ctx context.Context, id string, req model.UpdateCompanyRequest) (*model.Company, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	path := companyPath(id)
	body, err := c.do(ctx, http.MethodPut, path, req)
	if err != nil {
		return nil, err
	}
	company, err := decodeJSON[model.Company](http.MethodPut+" "+path, body)
	if err != nil {
		return nil, err
	}
	return &company, nil
}

// SetCompanyStatus activates or blocks a company.
func (c *Client) SetCompanyStatus(ctx context.Context, id string, status model.UserStatus) (*model.Company, error) {
	path := companyPath(id) + "/status"
	body, err := c.do(ctx, http.MethodPatch, path, map[string]model.UserStatus{"status": status})
	if err != nil {
		return nil, err
	}
	resp, err := decodeJSON[struct {
		Message string        `json:"message"`
		Company model.Company `json:"empresa"`
	}](http.MethodPatch+" "+path, body)
	if err != nil {
		return nil, err
	}
	return &resp.Company, nil
}

// DeleteCompany removes a company.
func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, companyPath(id), nil)
	return err
}

// ListCompanyUsers returns the users of one company.
func (c *Client) ListCompanyUsers(ctx context.Context, companyID string) ([]model.User, error) {
	path := companyPath(companyID) + "/users"
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodeJSON[[]model.User](http.MethodGet+" "+path, body)
}
